package catalog

import (
	"strconv"
	"strings"
	"time"
)

var Seasons = []string{"winter", "spring", "summer", "fall"}

const (
	minYear         = 1900
	firstListedYear = 2020
)

// CurrentSeason maps months to seasons in quarters: Jan-Mar winter,
// Apr-Jun spring, Jul-Sep summer, Oct-Dec fall.
func CurrentSeason(now time.Time) (string, int) {
	return Seasons[(int(now.Month())-1)/3], now.Year()
}

// ResolveSeason validates optional season/year inputs. Empty values take the
// current season and year.
func ResolveSeason(rawSeason string, rawYear string, now time.Time) (string, int, error) {
	season, year := CurrentSeason(now)

	if trimmed := strings.ToLower(strings.TrimSpace(rawSeason)); trimmed != "" {
		if !isSeason(trimmed) {
			return "", 0, invalid("season", "Invalid season. Must be one of: %s", strings.Join(Seasons, ", "))
		}
		season = trimmed
	}

	if trimmed := strings.TrimSpace(rawYear); trimmed != "" {
		parsed, err := strconv.Atoi(trimmed)
		if err != nil || parsed < minYear || parsed > now.Year()+1 {
			return "", 0, invalid("year", "Invalid year. Must be between %d and %d", minYear, now.Year()+1)
		}
		year = parsed
	}

	return season, year, nil
}

func isSeason(value string) bool {
	for _, season := range Seasons {
		if season == value {
			return true
		}
	}
	return false
}

type SeasonsInfo struct {
	Seasons       []string `json:"seasons"`
	Years         []int    `json:"years"`
	CurrentYear   int      `json:"currentYear"`
	CurrentSeason string   `json:"currentSeason"`
}

func SeasonCatalog(now time.Time) SeasonsInfo {
	season, year := CurrentSeason(now)
	years := make([]int, 0, year+2-firstListedYear)
	for y := firstListedYear; y <= year+1; y++ {
		years = append(years, y)
	}
	return SeasonsInfo{
		Seasons:       append([]string(nil), Seasons...),
		Years:         years,
		CurrentYear:   year,
		CurrentSeason: season,
	}
}
