package handlers

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gabriel/livechart-api/internal/catalog"
	"github.com/gabriel/livechart-api/internal/models"
)

const exportSource = "LiveChart API"

var whitespaceRun = regexp.MustCompile(`\s+`)

type DetailsHandler struct {
	service *catalog.Service
	kind    catalog.DetailKind
}

func NewDetailsHandler(service *catalog.Service, kind catalog.DetailKind) *DetailsHandler {
	return &DetailsHandler{service: service, kind: kind}
}

func (h *DetailsHandler) load(c *fiber.Ctx) (catalog.DetailResult, error) {
	return h.service.Detail(c.UserContext(), h.kind, pathParam(c, "id"))
}

func (h *DetailsHandler) Get(c *fiber.Ctx) error {
	result, err := h.load(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(detailEnvelope(result, result.Record))
}

func (h *DetailsHandler) Refresh(c *fiber.Ctx) error {
	result, err := h.service.RefreshDetail(c.UserContext(), h.kind, pathParam(c, "id"))
	if err != nil {
		return fail(c, err)
	}
	body := detailEnvelope(result, result.Record)
	body.Message = "Cache refreshed successfully"
	return c.JSON(body)
}

func (h *DetailsHandler) Synopsis(c *fiber.Ctx) error {
	result, err := h.load(c)
	if err != nil {
		return fail(c, err)
	}
	record := result.Record
	return c.JSON(detailEnvelope(result, fiber.Map{
		"id":       record.ID,
		"title":    record.Title,
		"synopsis": record.Synopsis,
	}))
}

func (h *DetailsHandler) Streaming(c *fiber.Ctx) error {
	result, err := h.load(c)
	if err != nil {
		return fail(c, err)
	}
	record := result.Record
	return c.JSON(detailEnvelope(result, fiber.Map{
		"id":        record.ID,
		"title":     record.Title,
		"streaming": record.Streaming,
		"links":     record.Links,
	}))
}

func (h *DetailsHandler) Stats(c *fiber.Ctx) error {
	result, err := h.load(c)
	if err != nil {
		return fail(c, err)
	}
	record := result.Record
	return c.JSON(detailEnvelope(result, fiber.Map{
		"id":             record.ID,
		"title":          record.Title,
		"rating":         record.Rating,
		"ratingsCount":   record.RatingsCount,
		"totalEpisodes":  record.TotalEpisodes,
		"currentEpisode": record.CurrentEpisode,
		"status":         record.Status,
	}))
}

// Export serves one record as a downloadable JSON document.
func (h *DetailsHandler) Export(c *fiber.Ctx) error {
	result, err := h.load(c)
	if err != nil {
		return fail(c, err)
	}

	document := map[string]any{
		"exportedAt": timestamp(time.Now()),
		"source":     exportSource,
		h.kind.Name:  result.Record,
	}
	return h.download(c, exportFilename(h.kind.Name, result.Record), document)
}

type exportRequest struct {
	IDs []any `json:"ids"`
}

// ExportMultiple accepts {"ids": [...]} with string or numeric ids.
func (h *DetailsHandler) ExportMultiple(c *fiber.Ctx) error {
	var req exportRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.NewError(fiber.StatusBadRequest, "invalid json body"))
	}

	ids := make([]string, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, ok := idString(raw)
		if !ok {
			return fail(c, fiber.NewError(fiber.StatusBadRequest, "ids must contain strings or numbers"))
		}
		ids = append(ids, id)
	}

	result, err := h.service.ExportDetails(c.UserContext(), h.kind, ids)
	if err != nil {
		return fail(c, err)
	}

	document := map[string]any{
		"exportedAt": timestamp(time.Now()),
		"source":     exportSource,
		"total":      len(result.Items),
		"items":      result.Items,
		"failures":   result.Failures,
	}
	filename := fmt.Sprintf("%s_export_%d.json", h.kind.Name, time.Now().UnixMilli())
	return h.download(c, filename, document)
}

func (h *DetailsHandler) download(c *fiber.Ctx, filename string, document any) error {
	body, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(body)
}

func exportFilename(kind string, record models.DetailRecord) string {
	title := whitespaceRun.ReplaceAllString(record.TitleOrEmpty(), "_")
	if title == "" {
		return fmt.Sprintf("%s_%s.json", kind, record.ID)
	}
	return fmt.Sprintf("%s_%s_%s.json", kind, record.ID, title)
}

func idString(raw any) (string, bool) {
	switch value := raw.(type) {
	case string:
		return value, true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	default:
		return "", false
	}
}
