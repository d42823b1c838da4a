package catalog

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gabriel/livechart-api/internal/extract"
	"github.com/gabriel/livechart-api/internal/models"
)

// statsKind is the listing every aggregate is computed over.
const statsKind = "anime"

var titleGenrePattern = regexp.MustCompile(`\((.*?)\)`)

type TotalStats struct {
	Total           int            `json:"total"`
	AverageRating   float64        `json:"averageRating"`
	StatusBreakdown map[string]int `json:"statusBreakdown"`
	Season          string         `json:"season"`
	Year            int            `json:"year"`
}

type GroupStat struct {
	Name          string   `json:"name"`
	Count         int      `json:"count"`
	AverageRating float64  `json:"averageRating"`
	Titles        []string `json:"titles"`
}

type GroupStats struct {
	Total  int         `json:"total"`
	Groups []GroupStat `json:"groups"`
	Season string      `json:"season"`
	Year   int         `json:"year"`
}

type SeasonStat struct {
	Season          string         `json:"season"`
	Total           int            `json:"total"`
	AverageRating   float64        `json:"averageRating"`
	StatusBreakdown map[string]int `json:"statusBreakdown"`
	Error           string         `json:"error,omitempty"`
}

type SeasonStats struct {
	Year    int          `json:"year"`
	Seasons []SeasonStat `json:"seasons"`
}

func (s *Service) statsListing(ctx context.Context, query ListingQuery) (ListingResult, error) {
	query.Kind = statsKind
	return s.Listing(ctx, query)
}

func (s *Service) TotalStats(ctx context.Context, query ListingQuery) (TotalStats, error) {
	result, err := s.statsListing(ctx, query)
	if err != nil {
		return TotalStats{}, err
	}
	return TotalStats{
		Total:           len(result.Records),
		AverageRating:   AverageScore(result.Records),
		StatusBreakdown: StatusBreakdown(result.Records),
		Season:          result.Season,
		Year:            result.Year,
	}, nil
}

// StudioStats groups by the listing studio, largest group first.
func (s *Service) StudioStats(ctx context.Context, query ListingQuery) (GroupStats, error) {
	result, err := s.statsListing(ctx, query)
	if err != nil {
		return GroupStats{}, err
	}
	groups := GroupBy(result.Records, func(record models.ListingRecord) []string {
		if record.Studio == "" || record.Studio == models.NotAvailable {
			return []string{"Unknown"}
		}
		return []string{record.Studio}
	})
	return GroupStats{Total: len(groups), Groups: groups, Season: result.Season, Year: result.Year}, nil
}

// GenreStats groups by a parenthesized genre list in the title, falling back
// to a status bucket when the title carries none.
func (s *Service) GenreStats(ctx context.Context, query ListingQuery) (GroupStats, error) {
	result, err := s.statsListing(ctx, query)
	if err != nil {
		return GroupStats{}, err
	}
	groups := GroupBy(result.Records, genresOf)
	return GroupStats{Total: len(groups), Groups: groups, Season: result.Season, Year: result.Year}, nil
}

func genresOf(record models.ListingRecord) []string {
	if match := titleGenrePattern.FindStringSubmatch(record.Title); len(match) > 1 {
		genres := make([]string, 0)
		for _, part := range strings.Split(match[1], ",") {
			if genre := strings.TrimSpace(part); genre != "" {
				genres = append(genres, genre)
			}
		}
		if len(genres) > 0 {
			return genres
		}
	}
	switch record.Status {
	case models.StatusOngoing, models.StatusUpcoming:
		return []string{string(record.Status)}
	default:
		return []string{"Other"}
	}
}

// SeasonStats covers the four seasons of the current year. A season that
// cannot be loaded reports zeros instead of failing the whole request.
func (s *Service) SeasonStats(ctx context.Context) (SeasonStats, error) {
	_, year := CurrentSeason(s.now())
	stats := make([]SeasonStat, len(Seasons))

	var group errgroup.Group
	for index, season := range Seasons {
		group.Go(func() error {
			stat := SeasonStat{Season: season, StatusBreakdown: StatusBreakdown(nil)}
			result, err := s.statsListing(ctx, ListingQuery{Season: season, Year: strconv.Itoa(year)})
			if err != nil {
				s.logger.Warn("season stats unavailable", "season", season, "year", year, "error", err)
				stat.Error = err.Error()
				stats[index] = stat
				return nil
			}
			stat.Total = len(result.Records)
			stat.AverageRating = AverageScore(result.Records)
			stat.StatusBreakdown = StatusBreakdown(result.Records)
			stats[index] = stat
			return nil
		})
	}
	_ = group.Wait()

	return SeasonStats{Year: year, Seasons: stats}, nil
}

// AverageScore averages listing scores to two decimals; "N/A" counts as zero.
func AverageScore(records []models.ListingRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	total := 0.0
	for _, record := range records {
		total += extract.ScoreNumber(record.Score)
	}
	return round2(total / float64(len(records)))
}

func StatusBreakdown(records []models.ListingRecord) map[string]int {
	breakdown := map[string]int{
		string(models.StatusOngoing):  0,
		string(models.StatusUpcoming): 0,
		string(models.StatusFinished): 0,
		string(models.StatusUnknown):  0,
	}
	for _, record := range records {
		if _, ok := breakdown[string(record.Status)]; ok {
			breakdown[string(record.Status)]++
			continue
		}
		breakdown[string(models.StatusUnknown)]++
	}
	return breakdown
}

// GroupBy aggregates records per name. Groups are ordered by count, then name.
func GroupBy(records []models.ListingRecord, names func(models.ListingRecord) []string) []GroupStat {
	type accumulator struct {
		count  int
		total  float64
		titles []string
	}
	byName := map[string]*accumulator{}
	for _, record := range records {
		for _, name := range names(record) {
			acc, ok := byName[name]
			if !ok {
				acc = &accumulator{titles: []string{}}
				byName[name] = acc
			}
			acc.count++
			acc.total += extract.ScoreNumber(record.Score)
			acc.titles = append(acc.titles, record.Title)
		}
	}

	groups := make([]GroupStat, 0, len(byName))
	for name, acc := range byName {
		groups = append(groups, GroupStat{
			Name:          name,
			Count:         acc.count,
			AverageRating: round2(acc.total / float64(acc.count)),
			Titles:        acc.titles,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Name < groups[j].Name
	})
	return groups
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
