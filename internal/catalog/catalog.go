// Package catalog composes the cache, the page fetcher and the parsers into
// the read operations served by the API.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gabriel/livechart-api/internal/cache"
	"github.com/gabriel/livechart-api/internal/fetch"
	"github.com/gabriel/livechart-api/internal/models"
	"github.com/gabriel/livechart-api/internal/parser"
	"github.com/gabriel/livechart-api/internal/sources"
)

const defaultExportConcurrency = 4

// DetailKind selects the cache namespace and parse profile for detail pages.
type DetailKind struct {
	Name      string
	KeyPrefix string
	Profile   parser.DetailProfile
}

var (
	AnimeDetail = DetailKind{Name: "anime", KeyPrefix: "detail", Profile: parser.AnimeDetail}
	MovieDetail = DetailKind{Name: "movie", KeyPrefix: "movie-detail", Profile: parser.MovieDetail}
)

func ListingKey(kind sources.Kind, season string, year int) string {
	return fmt.Sprintf("%s-%s-%d", kind.Key, season, year)
}

func DetailKey(kind DetailKind, id string) string {
	return kind.KeyPrefix + "-" + id
}

type Options struct {
	Store             cache.Store
	Fetcher           fetch.PageFetcher
	Profile           sources.Profile
	Kinds             *sources.Registry
	Logger            *slog.Logger
	Now               func() time.Time
	ExportConcurrency int
}

type Service struct {
	store             cache.Store
	fetcher           fetch.PageFetcher
	parser            *parser.Parser
	profile           sources.Profile
	kinds             *sources.Registry
	logger            *slog.Logger
	now               func() time.Time
	exportConcurrency int
	startedAt         time.Time
}

func New(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, errors.New("catalog: cache store is required")
	}
	if opts.Fetcher == nil {
		return nil, errors.New("catalog: page fetcher is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportConcurrency <= 0 {
		opts.ExportConcurrency = defaultExportConcurrency
	}
	if opts.Profile.BaseURL == "" {
		opts.Profile = sources.Default()
	}
	if opts.Kinds == nil {
		kinds, err := sources.NewRegistry(opts.Profile.Kinds)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		opts.Kinds = kinds
	}

	return &Service{
		store:             opts.Store,
		fetcher:           opts.Fetcher,
		parser:            parser.New(opts.Profile.BaseURL, opts.Logger),
		profile:           opts.Profile,
		kinds:             opts.Kinds,
		logger:            opts.Logger,
		now:               opts.Now,
		exportConcurrency: opts.ExportConcurrency,
		startedAt:         opts.Now(),
	}, nil
}

func (s *Service) Kinds() []sources.Kind {
	return s.kinds.List()
}

// KindRoutes lists every name the /api/:kind routes accept.
func (s *Service) KindRoutes() []string {
	return s.kinds.Routes()
}

// ResolveKind looks a listing kind up by key or alias.
func (s *Service) ResolveKind(name string) (sources.Kind, error) {
	kind, ok := s.kinds.Get(name)
	if !ok {
		return sources.Kind{}, fmt.Errorf("listing kind %q: %w", name, ErrNotFound)
	}
	return kind, nil
}

func (s *Service) Uptime() time.Duration {
	return s.now().Sub(s.startedAt)
}

func (s *Service) Now() time.Time {
	return s.now()
}

// ListingQuery carries raw request values; empty season or year mean current.
type ListingQuery struct {
	Kind   string
	Season string
	Year   string
}

type ListingResult struct {
	Kind     sources.Kind
	Season   string
	Year     int
	Key      string
	Records  []models.ListingRecord
	Cached   bool
	StoredAt time.Time
}

type DetailResult struct {
	Key      string
	Record   models.DetailRecord
	Cached   bool
	StoredAt time.Time
}

func (s *Service) Listing(ctx context.Context, query ListingQuery) (ListingResult, error) {
	return s.listing(ctx, query, false)
}

// RefreshListing skips the cache read but still writes the fresh result.
func (s *Service) RefreshListing(ctx context.Context, query ListingQuery) (ListingResult, error) {
	return s.listing(ctx, query, true)
}

func (s *Service) listing(ctx context.Context, query ListingQuery, refresh bool) (ListingResult, error) {
	kind, err := s.ResolveKind(query.Kind)
	if err != nil {
		return ListingResult{}, err
	}
	season, year, err := ResolveSeason(query.Season, query.Year, s.now())
	if err != nil {
		return ListingResult{}, err
	}

	result := ListingResult{Kind: kind, Season: season, Year: year, Key: ListingKey(kind, season, year)}

	if !refresh {
		if entry, ok := s.lookup(ctx, result.Key); ok && entry.Payload.Detail == nil {
			result.Records = entry.Payload.Listing
			if result.Records == nil {
				result.Records = []models.ListingRecord{}
			}
			result.Cached = true
			result.StoredAt = entry.StoredAt
			return result, nil
		}
	}

	pageURL := s.profile.ListingURL(kind, season, year)
	raw, err := s.fetchPage(ctx, pageURL, s.profile.Timeout())
	if err != nil {
		return ListingResult{}, err
	}

	records, err := s.parser.ParseListingHTML(raw)
	if err != nil {
		return ListingResult{}, &ParseError{URL: pageURL, Err: err}
	}
	s.logger.Info("listing scraped", "kind", kind.Key, "season", season, "year", year, "records", len(records))

	s.remember(ctx, result.Key, models.ListingPayload(records))
	result.Records = records
	result.StoredAt = s.now()
	return result, nil
}

func (s *Service) Detail(ctx context.Context, kind DetailKind, id string) (DetailResult, error) {
	return s.detail(ctx, kind, id, false)
}

func (s *Service) RefreshDetail(ctx context.Context, kind DetailKind, id string) (DetailResult, error) {
	return s.detail(ctx, kind, id, true)
}

func (s *Service) detail(ctx context.Context, kind DetailKind, id string, refresh bool) (DetailResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return DetailResult{}, invalid("id", "%s ID is required", kind.Name)
	}

	result := DetailResult{Key: DetailKey(kind, id)}

	if !refresh {
		if entry, ok := s.lookup(ctx, result.Key); ok && entry.Payload.Detail != nil {
			result.Record = *entry.Payload.Detail
			result.Cached = true
			result.StoredAt = entry.StoredAt
			return result, nil
		}
	}

	pageURL := s.profile.DetailURL(id)
	raw, err := s.fetchPage(ctx, pageURL, s.profile.DetailTimeout())
	if err != nil {
		return DetailResult{}, err
	}

	record := s.parser.ParseDetailHTML(raw, id, kind.Profile)
	s.logger.Info("detail scraped", "kind", kind.Name, "id", id, "title", record.TitleOrEmpty())

	s.remember(ctx, result.Key, models.DetailPayload(record))
	result.Record = record
	result.StoredAt = s.now()
	return result, nil
}

func (s *Service) fetchPage(ctx context.Context, pageURL string, timeout time.Duration) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.logger.Info("fetching source page", "url", pageURL, "timeout", timeout.String())
	raw, err := s.fetcher.Fetch(fetchCtx, pageURL)
	if err != nil {
		s.logger.Warn("source fetch failed", "url", pageURL, "error", err)
		return "", &FetchError{URL: pageURL, Err: err}
	}
	return raw, nil
}

// lookup treats a failing cache backend as a miss.
func (s *Service) lookup(ctx context.Context, key string) (cache.Entry, bool) {
	entry, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "error", err)
		return cache.Entry{}, false
	}
	return entry, ok
}

func (s *Service) remember(ctx context.Context, key string, payload models.CachePayload) {
	if err := s.store.Set(ctx, key, payload); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func (s *Service) CacheInfo(ctx context.Context) (cache.Info, error) {
	return s.store.Info(ctx)
}

func (s *Service) InvalidateCache(ctx context.Context, key string) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, invalid("key", "cache key is required")
	}
	return s.store.Invalidate(ctx, key)
}

func (s *Service) ClearCache(ctx context.Context) (int, error) {
	return s.store.Clear(ctx)
}

func (s *Service) CacheTTL() time.Duration {
	return s.store.TTL()
}
