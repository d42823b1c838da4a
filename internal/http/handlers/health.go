package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gabriel/livechart-api/internal/catalog"
)

type HealthHandler struct {
	service *catalog.Service
	appName string
}

func NewHealthHandler(service *catalog.Service, appName string) *HealthHandler {
	return &HealthHandler{service: service, appName: appName}
}

func (h *HealthHandler) Root(c *fiber.Ctx) error {
	kinds := make([]string, 0)
	for _, kind := range h.service.Kinds() {
		kinds = append(kinds, kind.Key)
	}
	routes := make([]string, 0)
	for _, name := range h.service.KindRoutes() {
		routes = append(routes, "/api/"+name)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"api": fiber.Map{
			"name":      h.appName,
			"status":    "running",
			"uptime":    h.service.Uptime().Seconds(),
			"timestamp": timestamp(time.Now()),
		},
		"kinds":    kinds,
		"routes":   routes,
		"cacheTtl": h.service.CacheTTL().Seconds(),
	})
}

// Check reports uptime and how many cache keys are held and still valid.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	info, err := h.service.CacheInfo(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":    "degraded",
			"cache":     "down",
			"timestamp": timestamp(time.Now()),
			"uptime":    h.service.Uptime().Seconds(),
		})
	}

	valid := 0
	for _, key := range info.Keys {
		if key.IsValid {
			valid++
		}
	}

	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": timestamp(time.Now()),
		"uptime":    h.service.Uptime().Seconds(),
		"cache": fiber.Map{
			"totalKeys": info.TotalKeys,
			"validKeys": valid,
		},
	})
}
