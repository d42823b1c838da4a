package models

import "strings"

type Status string

const (
	StatusOngoing  Status = "Ongoing"
	StatusUpcoming Status = "Upcoming"
	StatusFinished Status = "Finished"
	StatusUnknown  Status = "Unknown"
)

const (
	NotAvailable       = "N/A"
	NoSynopsis         = "No synopsis available"
	DefaultMovieFormat = "Movie"
)

// ParseStatus maps free text onto the closed status vocabulary.
func ParseStatus(raw string) Status {
	lower := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case lower == "":
		return StatusUnknown
	case strings.Contains(lower, "upcoming"), strings.Contains(lower, "not yet"):
		return StatusUpcoming
	case strings.Contains(lower, "ongoing"), strings.Contains(lower, "airing") && !strings.Contains(lower, "finished"):
		return StatusOngoing
	case strings.Contains(lower, "finished"), strings.Contains(lower, "completed"):
		return StatusFinished
	default:
		return StatusUnknown
	}
}

type ListingRecord struct {
	ID       *string `json:"id"`
	Title    string  `json:"title"`
	Link     *string `json:"link"`
	Status   Status  `json:"status"`
	Episodes string  `json:"episodes"`
	Studio   string  `json:"studio"`
	Score    string  `json:"score"`
	Poster   *string `json:"poster"`
}

type DetailRecord struct {
	ID             string             `json:"id"`
	Title          *string            `json:"title"`
	OriginalTitle  *string            `json:"originalTitle"`
	Link           string             `json:"link"`
	Poster         *string            `json:"poster"`
	Rating         *float64           `json:"rating"`
	RatingsCount   *int               `json:"ratingsCount"`
	Status         *string            `json:"status"`
	Format         *string            `json:"format"`
	Source         *string            `json:"source"`
	TotalEpisodes  *int               `json:"totalEpisodes"`
	CurrentEpisode *int               `json:"currentEpisode"`
	RunTime        *string            `json:"runTime"`
	Season         *string            `json:"season"`
	Premiere       *string            `json:"premiere"`
	ReleaseDate    *string            `json:"releaseDate,omitempty"`
	Studios        []string           `json:"studios"`
	Tags           []string           `json:"tags"`
	Synopsis       string             `json:"synopsis"`
	Streaming      *string            `json:"streaming"`
	Links          map[string]*string `json:"links"`
}

// TitleOrEmpty is used where a record title feeds a filename or a search.
func (d DetailRecord) TitleOrEmpty() string {
	if d.Title == nil {
		return ""
	}
	return *d.Title
}

// CachePayload is what the cache stores for one key: a listing page or one detail record.
type CachePayload struct {
	Listing []ListingRecord `json:"listing,omitempty"`
	Detail  *DetailRecord   `json:"detail,omitempty"`
}

func ListingPayload(records []ListingRecord) CachePayload {
	if records == nil {
		records = []ListingRecord{}
	}
	return CachePayload{Listing: records}
}

func DetailPayload(record DetailRecord) CachePayload {
	return CachePayload{Detail: &record}
}

// Count reports how many records the payload carries.
func (p CachePayload) Count() int {
	if p.Detail != nil {
		return 1
	}
	return len(p.Listing)
}
