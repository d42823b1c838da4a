package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gabriel/livechart-api/internal/catalog"
)

type StatsHandler struct {
	service *catalog.Service
}

func NewStatsHandler(service *catalog.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Total(c *fiber.Ctx) error {
	stats, err := h.service.TotalStats(c.UserContext(), listingQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(success(stats))
}

func (h *StatsHandler) ByStudio(c *fiber.Ctx) error {
	stats, err := h.service.StudioStats(c.UserContext(), listingQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(success(stats))
}

func (h *StatsHandler) ByGenre(c *fiber.Ctx) error {
	stats, err := h.service.GenreStats(c.UserContext(), listingQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(success(stats))
}

func (h *StatsHandler) BySeason(c *fiber.Ctx) error {
	stats, err := h.service.SeasonStats(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(success(stats))
}
