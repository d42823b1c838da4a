package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gabriel/livechart-api/internal/models"
)

// ListingEntrySelector matches one title card on a season listing page.
const ListingEntrySelector = "article.anime"

var ListingTitle = Chain{
	{Name: "data-attribute", Read: ownAttr("data-anime-title")},
	{Name: "heading", Read: textOf("h3, h2")},
	{Name: "title-like", Read: textOf("[data-anime-card-list-target], .main-title, [class*='title']")},
	{Name: "page-heading", Read: textOf("h1")},
}

var listingStatusElement = Chain{
	{Name: "status-element", Read: textOf("[class*='status'], .badge")},
}

var listingEpisodes = Chain{
	{Name: "episode-element", Read: allTextOf("[class*='episode'], .eps")},
}

var listingStudio = Chain{
	{Name: "studio-element", Read: allTextOf("[class*='studio']")},
}

var listingScore = Chain{
	{Name: "score-element", Read: allTextOf(".score, [class*='rating']")},
}

var listingPoster = Chain{
	{Name: "img-src", Read: attrOf("img", "src")},
	{Name: "img-data-src", Read: attrOf("img", "data-src")},
}

// ListingStatus reads the dedicated status element and falls back to
// scanning all descendant text for the Ongoing/Upcoming vocabulary.
func ListingStatus(entry *goquery.Selection) models.Status {
	if text, ok := listingStatusElement.Value(entry); ok {
		return models.ParseStatus(text)
	}

	scanned := entry.Find("span, div").Text()
	switch {
	case strings.Contains(scanned, string(models.StatusOngoing)):
		return models.StatusOngoing
	case strings.Contains(scanned, string(models.StatusUpcoming)):
		return models.StatusUpcoming
	default:
		return models.StatusUnknown
	}
}

func ListingEpisodes(entry *goquery.Selection) string {
	text, _ := listingEpisodes.Value(entry)
	return CleanEpisodeInfo(text)
}

func ListingStudio(entry *goquery.Selection) string {
	text, _ := listingStudio.Value(entry)
	return CleanStudio(text)
}

func ListingScore(entry *goquery.Selection) string {
	text, _ := listingScore.Value(entry)
	return ParseScore(text)
}

func ListingID(entry *goquery.Selection) *string {
	value, ok := entry.Attr("data-anime-id")
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return nil
	}
	return &value
}

// ListingLink returns the first detail link of the card as an absolute URL.
func ListingLink(entry *goquery.Selection, baseURL string) *string {
	href, ok := entry.Find("a[href*='/anime/']").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return nil
	}
	absolute := AbsoluteURL(baseURL, href)
	return &absolute
}

func ListingPoster(entry *goquery.Selection) *string {
	value, ok := listingPoster.Value(entry)
	if !ok {
		return nil
	}
	return &value
}

// AbsoluteURL resolves site-relative hrefs against baseURL.
func AbsoluteURL(baseURL string, raw string) string {
	trimmed := strings.TrimSpace(raw)
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	switch {
	case trimmed == "":
		return ""
	case strings.HasPrefix(trimmed, "http://"), strings.HasPrefix(trimmed, "https://"):
		return trimmed
	case strings.HasPrefix(trimmed, "//"):
		return "https:" + trimmed
	case strings.HasPrefix(trimmed, "/"):
		return base + trimmed
	default:
		return base + "/" + trimmed
	}
}
