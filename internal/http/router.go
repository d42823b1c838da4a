package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gabriel/livechart-api/internal/catalog"
	"github.com/gabriel/livechart-api/internal/config"
	"github.com/gabriel/livechart-api/internal/http/handlers"
)

// NewServer wires the catalog into a fiber app. Fixed routes are registered
// before the /api/:kind family so they are never read as a listing kind.
func NewServer(cfg config.Config, service *catalog.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())

	health := handlers.NewHealthHandler(service, cfg.AppName)
	listings := handlers.NewListingsHandler(service)
	cacheHandlers := handlers.NewCacheHandler(service)
	stats := handlers.NewStatsHandler(service)

	app.Get("/", health.Root)

	api := app.Group("/api")
	api.Get("/health", health.Check)

	api.Get("/cache", cacheHandlers.Info)
	api.Delete("/cache", cacheHandlers.Clear)
	api.Delete("/cache/:key", cacheHandlers.Invalidate)

	api.Get("/anime/info/seasons", listings.Seasons)
	api.Get("/anime/info/cache", listings.CacheInfo)

	api.Get("/stats/total-anime", stats.Total)
	api.Get("/stats/by-studio", stats.ByStudio)
	api.Get("/stats/by-season", stats.BySeason)
	api.Get("/stats/by-genre", stats.ByGenre)

	registerDetailRoutes(api.Group("/detail"), handlers.NewDetailsHandler(service, catalog.AnimeDetail))
	registerDetailRoutes(api.Group("/movies/detail"), handlers.NewDetailsHandler(service, catalog.MovieDetail))

	api.Get("/:kind", listings.List)
	api.Post("/:kind/refresh", listings.Refresh)
	api.Get("/:kind/sort", listings.Sort)
	api.Get("/:kind/search/:title", listings.Search)
	api.Get("/:kind/filter/status/:status", listings.FilterStatus)
	api.Get("/:kind/:id", listings.GetByID)

	app.Use(handlers.NotFound)

	return app
}

func registerDetailRoutes(group fiber.Router, details *handlers.DetailsHandler) {
	group.Post("/export-multiple", details.ExportMultiple)
	group.Get("/:id", details.Get)
	group.Post("/:id/refresh", details.Refresh)
	group.Get("/:id/synopsis", details.Synopsis)
	group.Get("/:id/streaming", details.Streaming)
	group.Get("/:id/stats", details.Stats)
	group.Get("/:id/export", details.Export)
}
