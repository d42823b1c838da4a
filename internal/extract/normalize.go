package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gabriel/livechart-api/internal/models"
)

var (
	episodeCountPattern = regexp.MustCompile(`(?i)(?:ep)?(\d+).*?(?:eps?|episodes?)`)
	firstIntegerPattern = regexp.MustCompile(`\d+`)
	studioSplitPattern  = regexp.MustCompile(`[,\n]`)
	scorePattern        = regexp.MustCompile(`\d+\.?\d*`)
	ratingsCountPattern = regexp.MustCompile(`(?i)(\d[\d,]*)\s*ratings?\b`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
)

// CleanEpisodeInfo canonicalizes noisy episode text to "EP<n>" or "N/A".
// It never fails: anything without digits yields "N/A".
func CleanEpisodeInfo(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return models.NotAvailable
	}

	if match := episodeCountPattern.FindStringSubmatch(raw); len(match) > 1 {
		if n, ok := canonicalInt(match[1]); ok {
			return "EP" + n
		}
	}

	if token := firstIntegerPattern.FindString(raw); token != "" {
		if n, ok := canonicalInt(token); ok {
			return "EP" + n
		}
	}

	return models.NotAvailable
}

// EpisodeNumber is the inverse view used for sorting: "EP12" -> 12, anything else -> 0.
func EpisodeNumber(canonical string) int {
	token := firstIntegerPattern.FindString(canonical)
	if token == "" {
		return 0
	}
	value, err := strconv.Atoi(token)
	if err != nil {
		return 0
	}
	return value
}

// CleanStudio keeps the first comma or newline delimited studio name.
func CleanStudio(raw string) string {
	first := studioSplitPattern.Split(strings.TrimSpace(raw), 2)[0]
	cleaned := CollapseSpace(first)
	if cleaned == "" {
		return models.NotAvailable
	}
	return cleaned
}

// ParseScore returns the first decimal-looking substring, or "N/A".
func ParseScore(raw string) string {
	token := scorePattern.FindString(raw)
	if token == "" {
		return models.NotAvailable
	}
	if _, err := strconv.ParseFloat(token, 64); err != nil {
		return models.NotAvailable
	}
	return token
}

// ParseScoreValue is ParseScore for numeric rating fields; nil when absent.
func ParseScoreValue(raw string) *float64 {
	token := scorePattern.FindString(raw)
	if token == "" {
		return nil
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil
	}
	return &value
}

// ScoreNumber reads a listing score for ordering; "N/A" and garbage are 0.
func ScoreNumber(score string) float64 {
	value := ParseScoreValue(score)
	if value == nil {
		return 0
	}
	return *value
}

// ParseRatingsCount reads "<n> ratings" including thousands separators.
func ParseRatingsCount(raw string) *int {
	match := ratingsCountPattern.FindStringSubmatch(raw)
	if len(match) < 2 {
		return nil
	}
	value, err := strconv.Atoi(strings.ReplaceAll(match[1], ",", ""))
	if err != nil {
		return nil
	}
	return &value
}

func CollapseSpace(raw string) string {
	text := strings.ReplaceAll(raw, "\u00a0", " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func canonicalInt(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	value, err := strconv.Atoi(token)
	if err != nil {
		// too large for int; keep the digits as written
		return token, true
	}
	return strconv.Itoa(value), true
}

func stringPtr(value string) *string {
	return &value
}

func intPtr(value int) *int {
	return &value
}
