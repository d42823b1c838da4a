package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/gabriel/livechart-api/internal/catalog"
)

// envelope is the body shape shared by every JSON route.
type envelope struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Total     *int   `json:"total,omitempty"`
	Cached    *bool  `json:"cached,omitempty"`
	Season    string `json:"season,omitempty"`
	Year      int    `json:"year,omitempty"`
	Type      string `json:"type,omitempty"`
	Error     string `json:"error,omitempty"`
	Path      string `json:"path,omitempty"`
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func success(data any) envelope {
	return envelope{Success: true, Timestamp: timestamp(time.Now()), Data: data}
}

func listingEnvelope(result catalog.ListingResult) envelope {
	body := success(result.Records)
	total := len(result.Records)
	body.Total = &total
	body.Cached = &result.Cached
	body.Season = result.Season
	body.Year = result.Year
	body.Type = result.Kind.Key
	if result.Cached {
		body.Timestamp = timestamp(result.StoredAt)
	}
	return body
}

func detailEnvelope(result catalog.DetailResult, data any) envelope {
	body := success(data)
	body.Cached = &result.Cached
	if result.Cached {
		body.Timestamp = timestamp(result.StoredAt)
	}
	return body
}

// statusFor maps the catalog error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var validationErr *catalog.ValidationError
	var fetchErr *catalog.FetchError
	var parseErr *catalog.ParseError
	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		return fiber.StatusNotFound
	case errors.As(err, &fetchErr):
		return fiber.StatusBadGateway
	case errors.As(err, &parseErr):
		return fiber.StatusInternalServerError
	default:
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return fiberErr.Code
		}
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
	}
	return c.Status(status).JSON(envelope{
		Success:   false,
		Timestamp: timestamp(time.Now()),
		Error:     err.Error(),
	})
}

// ErrorHandler renders errors that escape a handler, including recovered panics.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return fail(c, err)
}

// NotFound answers routes that matched nothing.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(envelope{
		Success:   false,
		Timestamp: timestamp(time.Now()),
		Error:     "Endpoint not found",
		Path:      c.Path(),
	})
}

func listingQuery(c *fiber.Ctx) catalog.ListingQuery {
	return catalog.ListingQuery{
		Kind:   utils.CopyString(c.Params("kind")),
		Season: utils.CopyString(c.Query("season")),
		Year:   utils.CopyString(c.Query("year")),
	}
}
