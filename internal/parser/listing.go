// Package parser turns livechart listing and detail pages into records.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel/livechart-api/internal/extract"
	"github.com/gabriel/livechart-api/internal/models"
)

// ErrEmptyDocument is returned when there is no markup to parse at all.
var ErrEmptyDocument = errors.New("empty document")

type Parser struct {
	baseURL   string
	logger    *slog.Logger
	readEntry func(entry *goquery.Selection) (models.ListingRecord, bool)
}

func New(baseURL string, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Parser{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		logger:  logger,
	}
	p.readEntry = p.listingRecord
	return p
}

// ParseListingHTML parses raw listing markup. Only an empty or unreadable
// document is an error; individual entries never fail the page.
func (p *Parser) ParseListingHTML(raw string) ([]models.ListingRecord, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyDocument
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse listing markup: %w", err)
	}
	return p.ParseListing(doc), nil
}

// ParseListing returns one record per entry that has a usable title, in
// document order.
func (p *Parser) ParseListing(doc *goquery.Document) []models.ListingRecord {
	records := []models.ListingRecord{}
	if doc == nil {
		return records
	}

	doc.Find(extract.ListingEntrySelector).Each(func(index int, entry *goquery.Selection) {
		record, ok := p.safeEntry(index, entry)
		if !ok {
			return
		}
		records = append(records, record)
	})

	p.logger.Debug("listing parsed", "records", len(records))
	return records
}

func (p *Parser) safeEntry(index int, entry *goquery.Selection) (record models.ListingRecord, ok bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			p.logger.Warn("listing entry extraction failed", "index", index, "error", fmt.Sprint(recovered))
			record, ok = models.ListingRecord{}, false
		}
	}()
	return p.readEntry(entry)
}

func (p *Parser) listingRecord(entry *goquery.Selection) (models.ListingRecord, bool) {
	title, ok := extract.ListingTitle.Value(entry)
	if !ok {
		return models.ListingRecord{}, false
	}

	return models.ListingRecord{
		ID:       extract.ListingID(entry),
		Title:    title,
		Link:     extract.ListingLink(entry, p.baseURL),
		Status:   extract.ListingStatus(entry),
		Episodes: extract.ListingEpisodes(entry),
		Studio:   extract.ListingStudio(entry),
		Score:    extract.ListingScore(entry),
		Poster:   extract.ListingPoster(entry),
	}, true
}
