package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gabriel/livechart-api/internal/cache"
	"github.com/gabriel/livechart-api/internal/catalog"
)

type cacheInfoView struct {
	cache.Info
	TTLSeconds int64 `json:"ttlSeconds"`
}

type CacheHandler struct {
	service *catalog.Service
}

func NewCacheHandler(service *catalog.Service) *CacheHandler {
	return &CacheHandler{service: service}
}

func (h *CacheHandler) Info(c *fiber.Ctx) error {
	info, err := h.service.CacheInfo(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(success(cacheInfoView{Info: info, TTLSeconds: int64(h.service.CacheTTL() / time.Second)}))
}

func (h *CacheHandler) Clear(c *fiber.Ctx) error {
	cleared, err := h.service.ClearCache(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	body := success(fiber.Map{"cleared": cleared})
	body.Message = "Cache cleared"
	return c.JSON(body)
}

func (h *CacheHandler) Invalidate(c *fiber.Ctx) error {
	key := pathParam(c, "key")
	removed, err := h.service.InvalidateCache(c.UserContext(), key)
	if err != nil {
		return fail(c, err)
	}
	if !removed {
		return fail(c, fmt.Errorf("cache key %q: %w", key, catalog.ErrNotFound))
	}
	body := success(fiber.Map{"key": key})
	body.Message = "Cache entry invalidated"
	return c.JSON(body)
}
