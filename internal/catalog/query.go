package catalog

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/gabriel/livechart-api/internal/extract"
	"github.com/gabriel/livechart-api/internal/models"
)

const (
	SortByRating   = "rating"
	SortByTitle    = "title"
	SortByEpisodes = "episodes"
	SortByAirdates = "airdates"

	OrderAsc  = "asc"
	OrderDesc = "desc"

	minSearchLength = 2
)

var sortFields = []string{SortByRating, SortByTitle, SortByEpisodes, SortByAirdates}

// airdates is approximated by status; listings carry no reliable date.
var statusPriority = map[models.Status]int{
	models.StatusOngoing:  0,
	models.StatusUpcoming: 1,
	models.StatusFinished: 2,
	models.StatusUnknown:  3,
}

// SortOptions normalizes and validates sort parameters. Empty values default
// to rating, descending.
func SortOptions(sortBy string, order string) (string, string, error) {
	sortBy = strings.ToLower(strings.TrimSpace(sortBy))
	order = strings.ToLower(strings.TrimSpace(order))
	if sortBy == "" {
		sortBy = SortByRating
	}
	if order == "" {
		order = OrderDesc
	}

	valid := false
	for _, field := range sortFields {
		if field == sortBy {
			valid = true
			break
		}
	}
	if !valid {
		return "", "", invalid("sortBy", "Invalid sortBy. Must be one of: %s", strings.Join(sortFields, ", "))
	}
	if order != OrderAsc && order != OrderDesc {
		return "", "", invalid("order", "Invalid order. Must be 'asc' or 'desc'")
	}
	return sortBy, order, nil
}

// Sort returns a new, stably ordered slice. Missing numeric values sort as zero.
func Sort(records []models.ListingRecord, sortBy string, order string) ([]models.ListingRecord, error) {
	sortBy, order, err := SortOptions(sortBy, order)
	if err != nil {
		return nil, err
	}

	sorted := make([]models.ListingRecord, len(records))
	copy(sorted, records)

	var less func(a, b models.ListingRecord) bool
	switch sortBy {
	case SortByRating:
		less = func(a, b models.ListingRecord) bool {
			return extract.ScoreNumber(a.Score) < extract.ScoreNumber(b.Score)
		}
	case SortByEpisodes:
		less = func(a, b models.ListingRecord) bool {
			return extract.EpisodeNumber(a.Episodes) < extract.EpisodeNumber(b.Episodes)
		}
	case SortByAirdates:
		less = func(a, b models.ListingRecord) bool {
			return priority(a.Status) < priority(b.Status)
		}
	case SortByTitle:
		collator := collate.New(language.English, collate.IgnoreCase)
		less = func(a, b models.ListingRecord) bool {
			return collator.CompareString(a.Title, b.Title) < 0
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if order == OrderDesc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})
	return sorted, nil
}

func priority(status models.Status) int {
	if value, ok := statusPriority[status]; ok {
		return value
	}
	return statusPriority[models.StatusUnknown]
}

func validateSearch(query string) (string, error) {
	trimmed := strings.TrimSpace(query)
	if len([]rune(trimmed)) < minSearchLength {
		return "", invalid("title", "Search query must be at least %d characters", minSearchLength)
	}
	return trimmed, nil
}

// Search keeps records whose title contains query, ignoring case.
func Search(records []models.ListingRecord, query string) ([]models.ListingRecord, error) {
	trimmed, err := validateSearch(query)
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	needle := fold.String(trimmed)
	results := []models.ListingRecord{}
	for _, record := range records {
		if strings.Contains(fold.String(record.Title), needle) {
			results = append(results, record)
		}
	}
	return results, nil
}

// FilterByStatus keeps records whose status equals status, ignoring case.
func FilterByStatus(records []models.ListingRecord, status string) ([]models.ListingRecord, error) {
	trimmed := strings.TrimSpace(status)
	if trimmed == "" {
		return nil, invalid("status", "status is required")
	}

	fold := cases.Fold()
	wanted := fold.String(trimmed)
	results := []models.ListingRecord{}
	for _, record := range records {
		if fold.String(string(record.Status)) == wanted {
			results = append(results, record)
		}
	}
	return results, nil
}

func FindByID(records []models.ListingRecord, id string) (models.ListingRecord, error) {
	for _, record := range records {
		if record.ID != nil && *record.ID == id {
			return record, nil
		}
	}
	return models.ListingRecord{}, ErrNotFound
}

// SortedListing validates the sort parameters before any fetch.
func (s *Service) SortedListing(ctx context.Context, query ListingQuery, sortBy string, order string) (ListingResult, error) {
	if _, _, err := SortOptions(sortBy, order); err != nil {
		return ListingResult{}, err
	}
	result, err := s.Listing(ctx, query)
	if err != nil {
		return ListingResult{}, err
	}
	result.Records, err = Sort(result.Records, sortBy, order)
	return result, err
}

func (s *Service) SearchListing(ctx context.Context, query ListingQuery, title string) (ListingResult, error) {
	if _, err := validateSearch(title); err != nil {
		return ListingResult{}, err
	}
	result, err := s.Listing(ctx, query)
	if err != nil {
		return ListingResult{}, err
	}
	result.Records, err = Search(result.Records, title)
	return result, err
}

func (s *Service) FilterListing(ctx context.Context, query ListingQuery, status string) (ListingResult, error) {
	if strings.TrimSpace(status) == "" {
		return ListingResult{}, invalid("status", "status is required")
	}
	result, err := s.Listing(ctx, query)
	if err != nil {
		return ListingResult{}, err
	}
	result.Records, err = FilterByStatus(result.Records, status)
	return result, err
}

func (s *Service) FindListingRecord(ctx context.Context, query ListingQuery, id string) (models.ListingRecord, error) {
	result, err := s.Listing(ctx, query)
	if err != nil {
		return models.ListingRecord{}, err
	}
	return FindByID(result.Records, strings.TrimSpace(id))
}
