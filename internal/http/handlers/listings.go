package handlers

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/gabriel/livechart-api/internal/catalog"
)

type ListingsHandler struct {
	service *catalog.Service
}

func NewListingsHandler(service *catalog.Service) *ListingsHandler {
	return &ListingsHandler{service: service}
}

func (h *ListingsHandler) List(c *fiber.Ctx) error {
	result, err := h.service.Listing(c.UserContext(), listingQuery(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listingEnvelope(result))
}

func (h *ListingsHandler) Refresh(c *fiber.Ctx) error {
	result, err := h.service.RefreshListing(c.UserContext(), listingQuery(c))
	if err != nil {
		return fail(c, err)
	}
	body := listingEnvelope(result)
	body.Message = "Cache refreshed successfully"
	return c.JSON(body)
}

func (h *ListingsHandler) Sort(c *fiber.Ctx) error {
	result, err := h.service.SortedListing(c.UserContext(), listingQuery(c), c.Query("sortBy"), c.Query("order"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listingEnvelope(result))
}

func (h *ListingsHandler) Search(c *fiber.Ctx) error {
	title := pathParam(c, "title")
	result, err := h.service.SearchListing(c.UserContext(), listingQuery(c), title)
	if err != nil {
		return fail(c, err)
	}
	body := listingEnvelope(result)
	body.Message = "Search results for \"" + title + "\""
	return c.JSON(body)
}

func (h *ListingsHandler) FilterStatus(c *fiber.Ctx) error {
	status := pathParam(c, "status")
	result, err := h.service.FilterListing(c.UserContext(), listingQuery(c), status)
	if err != nil {
		return fail(c, err)
	}
	body := listingEnvelope(result)
	body.Message = "Filtered by status: " + status
	return c.JSON(body)
}

func (h *ListingsHandler) GetByID(c *fiber.Ctx) error {
	record, err := h.service.FindListingRecord(c.UserContext(), listingQuery(c), pathParam(c, "id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(success(record))
}

func (h *ListingsHandler) Seasons(c *fiber.Ctx) error {
	return c.JSON(success(catalog.SeasonCatalog(h.service.Now())))
}

func (h *ListingsHandler) CacheInfo(c *fiber.Ctx) error {
	info, err := h.service.CacheInfo(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(success(cacheInfoView{Info: info, TTLSeconds: int64(h.service.CacheTTL() / time.Second)}))
}

// pathParam returns a copy of the route parameter with percent-encoding
// removed. Params alias the request buffer, and ids outlive the request in
// cached records.
func pathParam(c *fiber.Ctx, name string) string {
	raw := utils.CopyString(c.Params(name))
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
