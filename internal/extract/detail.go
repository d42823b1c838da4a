package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	labelSelector = "div.font-medium, div.text-xs, span.font-medium, dt"
	chipSelector  = ".lc-chip-button"

	// plain-text list items longer than this are prose, not tags
	maxTextValueLen = 40
)

var (
	totalEpisodesPattern  = regexp.MustCompile(`/\s*(\d+|–|—|-|\?)`)
	currentEpisodePattern = regexp.MustCompile(`(?i)EP(\d+)`)
	premierePattern       = regexp.MustCompile(`([A-Za-z]{3,9} \d{1,2}, \d{4})`)
	seasonLabelPattern    = regexp.MustCompile(`\(([^)]+)\)`)
)

var DetailTitle = Chain{
	{Name: "data-attribute", Read: attrOf("[data-anime-title]", "data-anime-title")},
	{Name: "desktop-heading", Read: textOf("div.text-xl.font-medium span.text-base-content")},
	{Name: "mobile-heading", Read: textOf("div.text-xl.font-medium.line-clamp-1")},
	{Name: "title-block", Read: textOf("div.text-xl.font-medium")},
	{Name: "page-heading", Read: textOf("h1")},
}

var DetailPoster = Chain{
	{Name: "poster-alt", Read: attrOf("img[alt*='poster']", "src")},
	{Name: "poster-class", Read: attrOf("img[class*='poster']", "src")},
	{Name: "poster-src", Read: attrOf("img[src*='poster']", "src")},
	{Name: "og-image", Read: attrOf("meta[property='og:image']", "content")},
}

var detailRatingText = Chain{
	{Name: "rating-span", Read: textOf("span.text-lg.font-medium")},
	{Name: "rating-like", Read: textOf("[class*='rating'], .score")},
}

var detailRatingsCountText = Chain{
	{Name: "rating-block", Read: func(sel *goquery.Selection) string {
		return sel.Find("span.text-lg.font-medium").First().Parent().Text()
	}},
	{Name: "ratings-class", Read: allTextOf("[class*='ratings']")},
	{Name: "small-text", Read: func(sel *goquery.Selection) string {
		var found string
		sel.Find("div.text-sm").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if ParseRatingsCount(s.Text()) != nil {
				found = s.Text()
				return false
			}
			return true
		})
		return found
	}},
}

var DetailSynopsis = Chain{
	{Name: "italic-block", Read: textOf("div.text-italic")},
	{Name: "synopsis-target", Read: textOf("[data-anime-details-target='synopsis']")},
	{Name: "synopsis-class", Read: textOf("[class*='synopsis']")},
	{Name: "first-paragraph", Read: textOf("p")},
}

var detailHeader = Chain{
	{Name: "details-header", Read: allTextOf("[data-controller='anime-details-header']")},
}

var detailCurrentEpisode = Chain{
	{Name: "schedule-link", Read: textOf("a[href*='/schedules/'] span.font-medium")},
	{Name: "schedule-anchor", Read: textOf("a[href*='/schedules/']")},
}

// ExternalSite is a known third-party listing that detail pages link to.
type ExternalSite struct {
	Key      string
	Fragment string
}

// SelfLinkKey is the links entry that always points back at the source page.
const SelfLinkKey = "livechart"

var ExternalSites = []ExternalSite{
	{Key: "myanimelist", Fragment: "myanimelist.net"},
	{Key: "anilist", Fragment: "anilist.co"},
	{Key: "kitsu", Fragment: "kitsu.app"},
	{Key: "imdb", Fragment: "imdb.com"},
}

// FindLabel locates the first small heading whose trimmed text is exactly label.
func FindLabel(doc *goquery.Selection, label string) *goquery.Selection {
	return doc.Find(labelSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return CollapseSpace(s.Text()) == label
	}).First()
}

// LabeledText reads a single-valued labeled field: the label's parent text
// with the label removed, then a dt/dd style sibling, then the chip row.
func LabeledText(doc *goquery.Selection, labels ...string) (string, bool) {
	for _, label := range labels {
		heading := FindLabel(doc, label)
		if heading.Length() == 0 {
			continue
		}
		if goquery.NodeName(heading) == "dt" {
			if text := CollapseSpace(heading.Next().Text()); text != "" {
				return text, true
			}
			continue
		}
		parent := heading.Parent()
		if text := CollapseSpace(valueText(parent, label)); text != "" {
			return text, true
		}
		if chips := chipValues(parent); len(chips) > 0 {
			return strings.Join(chips, ", "), true
		}
	}
	return "", false
}

// LabeledValues reads a multi-valued labeled field. Plain-text values in the
// label's parent come first, then chip elements; duplicates are dropped and
// first-seen order is kept.
func LabeledValues(doc *goquery.Selection, labels ...string) []string {
	set := newOrderedSet()
	for _, label := range labels {
		heading := FindLabel(doc, label)
		if heading.Length() == 0 {
			continue
		}
		if goquery.NodeName(heading) == "dt" {
			heading.Next().Find("a, span").Each(func(_ int, s *goquery.Selection) {
				set.add(s.Text())
			})
			set.add(splitTextValues(heading.Next().Text())...)
			continue
		}
		parent := heading.Parent()
		set.add(splitTextValues(valueText(parent, label))...)
		set.add(chipValues(parent)...)
	}
	return set.values()
}

// TotalEpisodes parses the denominator of "<current>/<total>"; a dash is unknown.
func TotalEpisodes(doc *goquery.Selection) *int {
	raw, ok := LabeledText(doc, "Episodes")
	if !ok {
		return nil
	}
	match := totalEpisodesPattern.FindStringSubmatch(raw)
	if len(match) < 2 {
		if value, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			return intPtr(value)
		}
		return nil
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}
	return intPtr(value)
}

func CurrentEpisode(doc *goquery.Selection) *int {
	text, ok := detailCurrentEpisode.Value(doc)
	if !ok {
		return nil
	}
	match := currentEpisodePattern.FindStringSubmatch(text)
	if len(match) < 2 {
		return nil
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}
	return intPtr(value)
}

// SeasonAndPremiere scans the header block for "Month DD, YYYY" and "(Season YYYY)".
func SeasonAndPremiere(doc *goquery.Selection) (season *string, premiere *string) {
	header, ok := detailHeader.Value(doc)
	if !ok {
		return nil, nil
	}
	if match := premierePattern.FindStringSubmatch(header); len(match) > 1 {
		premiere = stringPtr(match[1])
	}
	if match := seasonLabelPattern.FindStringSubmatch(header); len(match) > 1 {
		if value := CollapseSpace(match[1]); value != "" {
			season = stringPtr(value)
		}
	}
	return season, premiere
}

func Rating(doc *goquery.Selection) *float64 {
	text, ok := detailRatingText.Value(doc)
	if !ok {
		return nil
	}
	return ParseScoreValue(text)
}

func RatingsCount(doc *goquery.Selection) *int {
	for _, strategy := range detailRatingsCountText {
		if count := ParseRatingsCount(CollapseSpace(strategy.Read(doc))); count != nil {
			return count
		}
	}
	return nil
}

// Studios merges the labeled Studio/Studios field with studio chips that some
// page variants render under a data target.
func Studios(doc *goquery.Selection) []string {
	set := newOrderedSet()
	set.add(LabeledValues(doc, "Studio", "Studios")...)
	if len(set.values()) == 0 {
		doc.Find("[data-anime-details-target*='studio']").Find("a, span").Each(func(_ int, s *goquery.Selection) {
			set.add(s.Text())
		})
	}
	return set.values()
}

func Tags(doc *goquery.Selection) []string {
	set := newOrderedSet()
	set.add(LabeledValues(doc, "Tags")...)
	if len(set.values()) == 0 {
		doc.Find("[data-anime-details-target*='tag']").Each(func(_ int, s *goquery.Selection) {
			if text := CollapseSpace(s.Text()); len(text) <= maxTextValueLen {
				set.add(text)
			}
		})
	}
	return set.values()
}

// Links always carries the self link; each known site gets the first anchor
// whose href contains its domain fragment, or nil.
func Links(doc *goquery.Selection, baseURL string, id string) map[string]*string {
	links := make(map[string]*string, len(ExternalSites)+1)
	links[SelfLinkKey] = stringPtr(SelfLink(baseURL, id))
	for _, site := range ExternalSites {
		links[site.Key] = nil
		if doc == nil {
			continue
		}
		href, ok := doc.Find("a[href*='" + site.Fragment + "']").First().Attr("href")
		if ok && strings.TrimSpace(href) != "" {
			links[site.Key] = stringPtr(strings.TrimSpace(href))
		}
	}
	return links
}

func SelfLink(baseURL string, id string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/anime/" + id
}

func valueText(parent *goquery.Selection, label string) string {
	clone := parent.Clone()
	clone.Find(chipSelector).Remove()
	clone.Find(labelSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return CollapseSpace(s.Text()) == label
	}).First().Remove()
	text := clone.Text()
	if strings.HasPrefix(strings.TrimSpace(text), label) {
		text = strings.Replace(text, label, "", 1)
	}
	return text
}

func chipValues(parent *goquery.Selection) []string {
	set := newOrderedSet()
	parent.Find(chipSelector).Each(func(_ int, s *goquery.Selection) {
		set.add(s.Text())
	})
	parent.Next().Find(chipSelector).Each(func(_ int, s *goquery.Selection) {
		set.add(s.Text())
	})
	return set.values()
}

func splitTextValues(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == ','
	})
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		text := CollapseSpace(part)
		if text == "" || len(text) > maxTextValueLen {
			continue
		}
		values = append(values, text)
	}
	return values
}
