package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanEpisodeInfo(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "prefixed with noise", raw: "EP6 · TV (JP)", want: "EP6"},
		{name: "count with eps suffix", raw: "12 eps", want: "EP12"},
		{name: "count with episodes suffix", raw: "24 Episodes", want: "EP24"},
		{name: "current over total", raw: "EP12 / 24 episodes", want: "EP12"},
		{name: "bare integer fallback", raw: "Vol. 3", want: "EP3"},
		{name: "leading zeros", raw: "007 eps", want: "EP7"},
		{name: "no digits", raw: "no info", want: "N/A"},
		{name: "empty", raw: "", want: "N/A"},
		{name: "whitespace", raw: " \n\t ", want: "N/A"},
		{name: "oversized number", raw: "99999999999999999999999 eps", want: "EP99999999999999999999999"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanEpisodeInfo(tc.raw))
		})
	}
}

func TestEpisodeNumber(t *testing.T) {
	assert.Equal(t, 12, EpisodeNumber("EP12"))
	assert.Equal(t, 0, EpisodeNumber("N/A"))
	assert.Equal(t, 0, EpisodeNumber(""))
}

func TestCleanStudio(t *testing.T) {
	assert.Equal(t, "Studio A", CleanStudio("Studio A, Studio B\nStudio C"))
	assert.Equal(t, "Studio A", CleanStudio("Studio A\nStudio B"))
	assert.Equal(t, "Kyoto Animation", CleanStudio("  Kyoto \t Animation  "))
	assert.Equal(t, "N/A", CleanStudio(""))
	assert.Equal(t, "N/A", CleanStudio("   "))
	assert.Equal(t, "N/A", CleanStudio(", Studio B"))
}

func TestParseScore(t *testing.T) {
	assert.Equal(t, "7.52", ParseScore("★ 7.52 / 10"))
	assert.Equal(t, "8", ParseScore("8 points"))
	assert.Equal(t, "N/A", ParseScore("not rated"))
	assert.Equal(t, "N/A", ParseScore(""))
}

func TestParseScoreValue(t *testing.T) {
	value := ParseScoreValue("9.21")
	require.NotNil(t, value)
	assert.InDelta(t, 9.21, *value, 0.0001)

	assert.Nil(t, ParseScoreValue("N/A"))
}

func TestScoreNumber(t *testing.T) {
	assert.InDelta(t, 7.5, ScoreNumber("7.5"), 0.0001)
	assert.Zero(t, ScoreNumber("N/A"))
}

func TestParseRatingsCount(t *testing.T) {
	count := ParseRatingsCount("9.21 12,345 ratings")
	require.NotNil(t, count)
	assert.Equal(t, 12345, *count)

	count = ParseRatingsCount("1 rating")
	require.NotNil(t, count)
	assert.Equal(t, 1, *count)

	assert.Nil(t, ParseRatingsCount("no votes yet"))
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "Fall 2023", CollapseSpace("\n  Fall  2023 \t"))
	assert.Equal(t, "Tom & Jerry", CollapseSpace("Tom\u00a0&\u00a0Jerry"))
	assert.Equal(t, "Fish &lt;3 Chips", CollapseSpace("Fish &lt;3 Chips"))
	assert.Empty(t, CollapseSpace(" \n "))
}
