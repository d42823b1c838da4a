// Package fetch retrieves raw source pages over HTTP.
package fetch

//go:generate mockgen -destination=mocks/mock_fetcher.go -package=mocks github.com/gabriel/livechart-api/internal/fetch PageFetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	DefaultAcceptLanguage = "en-US,en;q=0.5"

	// upper bound for any single request; callers narrow it with a context deadline
	defaultClientTimeout = 30 * time.Second
)

// PageFetcher returns the raw markup behind a URL.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// StatusError reports a non-2xx response from the source site.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e == nil {
		return "unexpected status"
	}
	return fmt.Sprintf("unexpected status: %d", e.StatusCode)
}

type HTTPFetcher struct {
	client  *http.Client
	headers map[string]string
	logger  *slog.Logger
}

// DefaultHeaders is the browser-like header set sent when no profile overrides it.
func DefaultHeaders(baseURL string) map[string]string {
	headers := map[string]string{
		"User-Agent":      DefaultUserAgent,
		"Accept":          DefaultAccept,
		"Accept-Language": DefaultAcceptLanguage,
	}
	if referer := strings.TrimSpace(baseURL); referer != "" {
		headers["Referer"] = strings.TrimRight(referer, "/") + "/"
	}
	return headers
}

func NewHTTPFetcher(client *http.Client, headers map[string]string, logger *slog.Logger) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultClientTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	copied := make(map[string]string, len(headers))
	for key, value := range headers {
		copied[key] = value
	}
	if _, ok := copied["User-Agent"]; !ok {
		copied["User-Agent"] = DefaultUserAgent
	}
	return &HTTPFetcher{client: client, headers: copied, logger: logger}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	started := time.Now()
	f.logger.Debug("fetch started", "url", pageURL)

	res, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", &StatusError{URL: pageURL, StatusCode: res.StatusCode}
	}

	rawBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	f.logger.Debug("fetch finished",
		"url", pageURL,
		"bytes", len(rawBody),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return string(rawBody), nil
}
