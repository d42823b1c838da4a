package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabriel/livechart-api/internal/models"
)

const testBaseURL = "https://www.livechart.me"

func mustSelection(t *testing.T, markup string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc.Selection
}

func firstEntry(t *testing.T, markup string) *goquery.Selection {
	t.Helper()
	entry := mustSelection(t, markup).Find(ListingEntrySelector).First()
	require.Equal(t, 1, entry.Length())
	return entry
}

func TestListingFieldsFromCard(t *testing.T) {
	entry := firstEntry(t, `
<article class="anime" data-anime-id="11880" data-anime-title="Sousou no Frieren">
  <h3 class="main-title"><a href="/anime/11880">Frieren</a></h3>
  <div class="anime-card-status">Ongoing</div>
  <div class="anime-episodes">EP6 · TV (JP)</div>
  <ul class="anime-studios">
    <li>MADHOUSE</li>
    <li>Other Studio</li>
  </ul>
  <div class="anime-avg-user-rating">★ 9.21</div>
  <img src="https://u.livechart.me/anime/11880/poster_image/large.webp" alt="Frieren">
</article>`)

	title, strategy, ok := ListingTitle.First(entry)
	require.True(t, ok)
	assert.Equal(t, "Sousou no Frieren", title)
	assert.Equal(t, "data-attribute", strategy)

	assert.Equal(t, models.StatusOngoing, ListingStatus(entry))
	assert.Equal(t, "EP6", ListingEpisodes(entry))
	assert.Equal(t, "MADHOUSE", ListingStudio(entry))
	assert.Equal(t, "9.21", ListingScore(entry))

	id := ListingID(entry)
	require.NotNil(t, id)
	assert.Equal(t, "11880", *id)

	link := ListingLink(entry, testBaseURL)
	require.NotNil(t, link)
	assert.Equal(t, "https://www.livechart.me/anime/11880", *link)

	poster := ListingPoster(entry)
	require.NotNil(t, poster)
	assert.Equal(t, "https://u.livechart.me/anime/11880/poster_image/large.webp", *poster)
}

func TestListingTitleFallsBackInOrder(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		title    string
		strategy string
	}{
		{
			name:     "heading",
			markup:   `<article class="anime"><h3> Dungeon  Meshi </h3></article>`,
			title:    "Dungeon Meshi",
			strategy: "heading",
		},
		{
			name:     "title-like element",
			markup:   `<article class="anime"><div class="anime-title">Mushoku Tensei</div></article>`,
			title:    "Mushoku Tensei",
			strategy: "title-like",
		},
		{
			name:     "page heading",
			markup:   `<article class="anime"><h1>Kusuriya no Hitorigoto</h1></article>`,
			title:    "Kusuriya no Hitorigoto",
			strategy: "page-heading",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entry := firstEntry(t, tc.markup)
			title, strategy, ok := ListingTitle.First(entry)
			require.True(t, ok)
			assert.Equal(t, tc.title, title)
			assert.Equal(t, tc.strategy, strategy)
		})
	}

	entry := firstEntry(t, `<article class="anime"><div class="anime-episodes">12 eps</div></article>`)
	_, _, ok := ListingTitle.First(entry)
	assert.False(t, ok)
}

func TestListingDefaultsWhenFieldsMissing(t *testing.T) {
	entry := firstEntry(t, `<article class="anime"><h3>Bare</h3></article>`)

	assert.Equal(t, models.StatusUnknown, ListingStatus(entry))
	assert.Equal(t, "N/A", ListingEpisodes(entry))
	assert.Equal(t, "N/A", ListingStudio(entry))
	assert.Equal(t, "N/A", ListingScore(entry))
	assert.Nil(t, ListingID(entry))
	assert.Nil(t, ListingLink(entry, testBaseURL))
	assert.Nil(t, ListingPoster(entry))
}

func TestListingStatusScansDescendantText(t *testing.T) {
	entry := firstEntry(t, `<article class="anime"><h3>A</h3><div><span>Upcoming in 3 days</span></div></article>`)
	assert.Equal(t, models.StatusUpcoming, ListingStatus(entry))

	entry = firstEntry(t, `<article class="anime"><h3>B</h3><span class="badge">Finished</span></article>`)
	assert.Equal(t, models.StatusFinished, ListingStatus(entry))
}

func TestListingStatusVocabulary(t *testing.T) {
	cases := []struct {
		text string
		want models.Status
	}{
		{"Not yet airing", models.StatusUpcoming},
		{"Not Yet Aired", models.StatusUpcoming},
		{"Currently Airing", models.StatusOngoing},
		{"Finished Airing", models.StatusFinished},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			entry := firstEntry(t, `<article class="anime"><h3>A</h3><div class="anime-card-status">`+tc.text+`</div></article>`)
			assert.Equal(t, tc.want, ListingStatus(entry))
			assert.Equal(t, tc.want, models.ParseStatus(tc.text))
		})
	}
}

func TestListingTitleKeepsDecodedEntities(t *testing.T) {
	entry := firstEntry(t, `<article class="anime"><h3>Fish &amp;lt;3 Chips</h3></article>`)
	title, _, ok := ListingTitle.First(entry)
	require.True(t, ok)
	assert.Equal(t, "Fish &lt;3 Chips", title)
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://www.livechart.me/anime/1", AbsoluteURL(testBaseURL+"/", "/anime/1"))
	assert.Equal(t, "https://www.livechart.me/anime/1", AbsoluteURL(testBaseURL, "anime/1"))
	assert.Equal(t, "https://cdn.example/a.jpg", AbsoluteURL(testBaseURL, "//cdn.example/a.jpg"))
	assert.Equal(t, "http://other.example/x", AbsoluteURL(testBaseURL, "http://other.example/x"))
	assert.Empty(t, AbsoluteURL(testBaseURL, "  "))
}

const detailFixture = `<!DOCTYPE html>
<html>
<head><meta property="og:image" content="https://u.livechart.me/og.jpg"></head>
<body>
<div data-controller="anime-details-header">
  <div class="text-xl font-medium"><span class="text-base-content">Sousou no Frieren</span></div>
  <div class="text-sm">Frieren: Beyond Journey&#39;s End</div>
  <div>Sep 29, 2023 (Fall 2023)</div>
</div>
<img alt="Sousou no Frieren poster" src="https://u.livechart.me/anime/11880/poster.jpg">
<div class="flex">
  <span class="text-lg font-medium">9.21</span>
  <div class="text-sm">12,345 ratings</div>
</div>
<a href="/schedules/99"><span class="font-medium">EP5</span> airs soon</a>
<div class="grid">
  <div><div class="text-xs font-medium">Original title</div>葬送のフリーレン</div>
  <div><div class="text-xs font-medium">Format</div>TV</div>
  <div><div class="text-xs font-medium">Source</div>Manga</div>
  <div><div class="text-xs font-medium">Episodes</div>4 / 28</div>
  <div><div class="text-xs font-medium">Run time</div>24m</div>
  <div><div class="text-xs font-medium">Status</div>Finished</div>
  <div><div class="text-xs font-medium">Studios</div>MADHOUSE, Studio B<a class="lc-chip-button">Studio B</a></div>
  <div><div class="text-xs font-medium">Tags</div></div>
  <div class="flex flex-wrap gap-2">
    <a class="lc-chip-button">Adventure</a>
    <a class="lc-chip-button">Drama</a>
    <a class="lc-chip-button">Adventure</a>
  </div>
  <div><div class="text-xs font-medium">Streams</div>Crunchyroll</div>
</div>
<div class="text-italic">An elf mage outlives her party.</div>
<a href="https://myanimelist.net/anime/52991">MAL</a>
<a href="https://anilist.co/anime/154587">AniList</a>
</body>
</html>`

func TestDetailChains(t *testing.T) {
	doc := mustSelection(t, detailFixture)

	title, strategy, ok := DetailTitle.First(doc)
	require.True(t, ok)
	assert.Equal(t, "Sousou no Frieren", title)
	assert.Equal(t, "desktop-heading", strategy)

	poster, ok := DetailPoster.Value(doc)
	require.True(t, ok)
	assert.Equal(t, "https://u.livechart.me/anime/11880/poster.jpg", poster)

	synopsis, ok := DetailSynopsis.Value(doc)
	require.True(t, ok)
	assert.Equal(t, "An elf mage outlives her party.", synopsis)

	rating := Rating(doc)
	require.NotNil(t, rating)
	assert.InDelta(t, 9.21, *rating, 0.0001)

	count := RatingsCount(doc)
	require.NotNil(t, count)
	assert.Equal(t, 12345, *count)
}

func TestLabeledText(t *testing.T) {
	doc := mustSelection(t, detailFixture)

	for label, want := range map[string]string{
		"Original title": "葬送のフリーレン",
		"Format":         "TV",
		"Source":         "Manga",
		"Run time":       "24m",
		"Status":         "Finished",
		"Streams":        "Crunchyroll",
	} {
		got, ok := LabeledText(doc, label)
		require.True(t, ok, label)
		assert.Equal(t, want, got, label)
	}

	_, ok := LabeledText(doc, "Release")
	assert.False(t, ok)
}

func TestLabeledTextReadsDefinitionList(t *testing.T) {
	doc := mustSelection(t, `<dl><dt>Release</dt><dd> Aug 11, 2023 </dd></dl>`)
	got, ok := LabeledText(doc, "Release")
	require.True(t, ok)
	assert.Equal(t, "Aug 11, 2023", got)
}

func TestStudiosAndTagsMergeTextAndChips(t *testing.T) {
	doc := mustSelection(t, detailFixture)

	assert.Equal(t, []string{"MADHOUSE", "Studio B"}, Studios(doc))
	assert.Equal(t, []string{"Adventure", "Drama"}, Tags(doc))
}

func TestLabeledValuesDropsLongProse(t *testing.T) {
	doc := mustSelection(t, `<div><div class="font-medium">Tags</div>
Fantasy
This line is far too long to be a tag and reads like a sentence
</div>`)
	assert.Equal(t, []string{"Fantasy"}, LabeledValues(doc, "Tags"))
}

func TestEpisodesAndSchedule(t *testing.T) {
	doc := mustSelection(t, detailFixture)

	total := TotalEpisodes(doc)
	require.NotNil(t, total)
	assert.Equal(t, 28, *total)

	current := CurrentEpisode(doc)
	require.NotNil(t, current)
	assert.Equal(t, 5, *current)

	airing := mustSelection(t, `<div><div class="font-medium">Episodes</div>3 / –</div>`)
	assert.Nil(t, TotalEpisodes(airing))
	assert.Nil(t, CurrentEpisode(airing))
}

func TestSeasonAndPremiere(t *testing.T) {
	season, premiere := SeasonAndPremiere(mustSelection(t, detailFixture))
	require.NotNil(t, season)
	require.NotNil(t, premiere)
	assert.Equal(t, "Fall 2023", *season)
	assert.Equal(t, "Sep 29, 2023", *premiere)

	season, premiere = SeasonAndPremiere(mustSelection(t, `<p>nothing</p>`))
	assert.Nil(t, season)
	assert.Nil(t, premiere)
}

func TestLinks(t *testing.T) {
	links := Links(mustSelection(t, detailFixture), testBaseURL, "11880")

	require.NotNil(t, links[SelfLinkKey])
	assert.Equal(t, "https://www.livechart.me/anime/11880", *links[SelfLinkKey])
	require.NotNil(t, links["myanimelist"])
	assert.Equal(t, "https://myanimelist.net/anime/52991", *links["myanimelist"])
	require.NotNil(t, links["anilist"])
	assert.Contains(t, links, "kitsu")
	assert.Nil(t, links["kitsu"])
	assert.Nil(t, links["imdb"])

	bare := Links(nil, testBaseURL+"/", "7")
	require.NotNil(t, bare[SelfLinkKey])
	assert.Equal(t, "https://www.livechart.me/anime/7", *bare[SelfLinkKey])
}

func TestChainNames(t *testing.T) {
	assert.Equal(t, []string{"italic-block", "synopsis-target", "synopsis-class", "first-paragraph"}, DetailSynopsis.Names())
}
