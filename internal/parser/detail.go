package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel/livechart-api/internal/extract"
	"github.com/gabriel/livechart-api/internal/models"
)

// DetailProfile adjusts detail parsing for a content kind.
type DetailProfile struct {
	Name          string
	DefaultFormat string
	ReadRelease   bool
}

var (
	AnimeDetail = DetailProfile{Name: "anime"}
	MovieDetail = DetailProfile{Name: "movie", DefaultFormat: models.DefaultMovieFormat, ReadRelease: true}
)

// ParseDetailHTML never fails. Markup that cannot be read yields a record
// carrying only the id, the self link and field defaults.
func (p *Parser) ParseDetailHTML(raw string, id string, profile DetailProfile) models.DetailRecord {
	if strings.TrimSpace(raw) == "" {
		return p.ParseDetail(nil, id, profile)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		p.logger.Warn("detail markup unreadable", "id", id, "error", err)
		return p.ParseDetail(nil, id, profile)
	}
	return p.ParseDetail(doc, id, profile)
}

func (p *Parser) ParseDetail(doc *goquery.Document, id string, profile DetailProfile) models.DetailRecord {
	record := models.DetailRecord{
		ID:       id,
		Link:     extract.SelfLink(p.baseURL, id),
		Studios:  []string{},
		Tags:     []string{},
		Synopsis: models.NoSynopsis,
		Links:    extract.Links(nil, p.baseURL, id),
	}
	if profile.DefaultFormat != "" {
		record.Format = stringPtr(profile.DefaultFormat)
	}
	if doc == nil {
		return record
	}
	page := doc.Selection

	title, titleStrategy, ok := extract.DetailTitle.First(page)
	if ok {
		record.Title = stringPtr(title)
	}
	record.OriginalTitle = labeled(page, "Original title")
	if record.OriginalTitle == nil {
		record.OriginalTitle = record.Title
	}

	if poster, ok := extract.DetailPoster.Value(page); ok {
		record.Poster = stringPtr(extract.AbsoluteURL(p.baseURL, poster))
	}
	record.Rating = extract.Rating(page)
	record.RatingsCount = extract.RatingsCount(page)

	record.Status = labeled(page, "Status")
	if format := labeled(page, "Format"); format != nil {
		record.Format = format
	}
	record.Source = labeled(page, "Source")
	record.RunTime = labeled(page, "Run time")
	record.Streaming = labeled(page, "Streams")

	record.TotalEpisodes = extract.TotalEpisodes(page)
	record.CurrentEpisode = extract.CurrentEpisode(page)
	record.Season, record.Premiere = extract.SeasonAndPremiere(page)
	if profile.ReadRelease {
		record.ReleaseDate = labeled(page, "Release", "Release date")
		if record.ReleaseDate == nil {
			record.ReleaseDate = record.Premiere
		}
	}

	record.Studios = extract.Studios(page)
	record.Tags = extract.Tags(page)
	if synopsis, ok := extract.DetailSynopsis.Value(page); ok {
		record.Synopsis = synopsis
	}
	record.Links = extract.Links(page, p.baseURL, id)

	p.logger.Debug("detail parsed",
		"id", id,
		"profile", profile.Name,
		"title_strategy", titleStrategy,
		"studios", len(record.Studios),
		"tags", len(record.Tags),
	)
	return record
}

func labeled(page *goquery.Selection, labels ...string) *string {
	value, ok := extract.LabeledText(page, labels...)
	if !ok {
		return nil
	}
	return &value
}

func stringPtr(value string) *string {
	return &value
}
