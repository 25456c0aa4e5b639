package scraper

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadPage(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("testdata/page.html")
	require.NoError(t, err)
	return string(b)
}

func extractors() []Extractor {
	return []Extractor{NewRegexExtractor(), NewDOMExtractor()}
}

func TestScrape_ExtractsAndNormalizesModes(t *testing.T) {
	page := loadPage(t)
	for _, ex := range extractors() {
		t.Run(ex.Name(), func(t *testing.T) {
			tiers, found := Scrape(ex, page, "Steve")
			require.True(t, found)
			assert.Equal(t, map[string]string{
				"pot":     "HT3",
				"vanilla": "LT2",
				"smp":     "LT4",
				"mace":    "HT5",
			}, tiers)
		})
	}
}

func TestScrape_MatchesUsernameCaseInsensitively(t *testing.T) {
	page := loadPage(t)
	for _, ex := range extractors() {
		t.Run(ex.Name(), func(t *testing.T) {
			tiers, found := Scrape(ex, page, "aLEX")
			require.True(t, found)
			assert.Equal(t, map[string]string{"sword": "HT1"}, tiers)
		})
	}
}

func TestScrape_DoesNotMatchNamePrefix(t *testing.T) {
	page := loadPage(t)
	for _, ex := range extractors() {
		t.Run(ex.Name(), func(t *testing.T) {
			tiers, found := Scrape(ex, page, "Steve2")
			require.True(t, found)
			assert.Equal(t, map[string]string{"axe": "LT1"}, tiers)
		})
	}
}

func TestScrape_RowWithoutTiersIsEmptyNotMissing(t *testing.T) {
	page := loadPage(t)
	for _, ex := range extractors() {
		t.Run(ex.Name(), func(t *testing.T) {
			tiers, found := Scrape(ex, page, "Quiet")
			require.True(t, found)
			assert.NotNil(t, tiers)
			assert.Empty(t, tiers)
		})
	}
}

func TestScrape_UnknownPlayer(t *testing.T) {
	page := loadPage(t)
	for _, ex := range extractors() {
		t.Run(ex.Name(), func(t *testing.T) {
			tiers, found := Scrape(ex, page, "Herobrine")
			assert.False(t, found)
			assert.Nil(t, tiers)
		})
	}
}

func TestScrape_SpecialCharactersInName(t *testing.T) {
	page := `<table><tr><td>1</td><td><span data-name="a.b_c">a.b_c</span></td><td>` +
		`<div class="tier-mode-container"><img src="/m/uhc.svg"><span class="player-tier">HT2</span></div></td></tr>` +
		`<tr><td>2</td><td><span data-name="axb_c">axb_c</span></td><td></td></tr></table>`
	for _, ex := range extractors() {
		t.Run(ex.Name(), func(t *testing.T) {
			tiers, found := Scrape(ex, page, "axb_c")
			require.True(t, found)
			assert.Empty(t, tiers)

			tiers, found = Scrape(ex, page, "a.b_c")
			require.True(t, found)
			assert.Equal(t, map[string]string{"uhc": "HT2"}, tiers)
		})
	}
}

func TestScrape_ExtractorsAgreeOnMarkupVariants(t *testing.T) {
	page := `<table><tr><td>1</td><td><span data-name="Alex">Alex</span></td><td>` +
		`<div class="tier-mode-container highlighted"><img src="sword.svg"><span class="player-tier">HT2</span></div>` +
		`<div id="m2" class="card tier-mode-container"><img alt="axe" src="https://cdn.test/modes/Axe.svg"><span class="player-tier big"> lt3 </span></div>` +
		`</td></tr></table>`
	want := map[string]string{"sword": "HT2", "axe": "LT3"}
	for _, ex := range extractors() {
		t.Run(ex.Name(), func(t *testing.T) {
			tiers, found := Scrape(ex, page, "Alex")
			require.True(t, found)
			assert.Equal(t, want, tiers)
		})
	}
}

func TestNormalizeMode(t *testing.T) {
	cases := map[string]string{
		"diapot":  "pot",
		"pot":     "pot",
		"smpkit":  "smp",
		"smp":     "smp",
		"crystal": "vanilla",
		"vanilla": "vanilla",
		"Sword":   "sword",
		"NETHOP":  "nethop",
	}
	for in, want := range cases {
		got := NormalizeMode(in)
		assert.Equal(t, want, got, in)
		assert.Equal(t, got, NormalizeMode(got), "normalizing %q twice", in)
	}
}

func TestNew(t *testing.T) {
	assert.Equal(t, "regex", New("regex").Name())
	assert.Equal(t, "dom", New("dom").Name())
	assert.Equal(t, "dom", New("").Name())
}
