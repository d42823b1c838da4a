package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gabriel/livechart-api/internal/cache"
	"github.com/gabriel/livechart-api/internal/catalog"
	"github.com/gabriel/livechart-api/internal/fetch"
	"github.com/gabriel/livechart-api/internal/sources"
)

var version = "dev"

var (
	sourcesPath    string
	baseURL        string
	timeoutSeconds int
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:   "livechart",
	Short: "Scrape livechart.me season listings and title details",
	Long: `livechart - one-shot scraper for livechart.me

Fetches a season listing or a title detail page, extracts the records
and prints them as JSON. Run cmd/api for the HTTP service.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sourcesPath, "sources", "", "Path to a YAML source profile")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Override the source base URL")
	rootCmd.PersistentFlags().IntVar(&timeoutSeconds, "timeout", 0, "Fetch timeout in seconds (0 uses the profile)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log fetches to stderr")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("livechart {{.Version}}\n")
}

// newService builds a catalog with a process-local memory cache.
func newService(cmd *cobra.Command) (*catalog.Service, error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	profile, err := sources.LoadFile(sourcesPath)
	if err != nil {
		return nil, err
	}
	profile = profile.WithBaseURL(baseURL).WithTimeouts(timeoutSeconds, timeoutSeconds)

	headers := fetch.DefaultHeaders(profile.BaseURL)
	for name, value := range profile.Headers {
		headers[name] = value
	}

	return catalog.New(catalog.Options{
		Store:   cache.NewMemoryStore(cache.WithLogger(logger)),
		Fetcher: fetch.NewHTTPFetcher(nil, headers, logger),
		Profile: profile,
		Logger:  logger,
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
