// Package scraper extracts per-mode tier codes for one player from the
// ranking page HTML. The parsing strategy sits behind Extractor so the
// caching and resolution code never sees markup.
package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Row is a located player row. Only the Extractor that produced it can read it.
type Row struct {
	html string
	sel  *goquery.Selection
}

type Extractor interface {
	Name() string
	FindRow(page, username string) (Row, bool)
	ExtractModeTiers(row Row) map[string]string
}

// Scrape returns the player's mode->tier map. found is false when the player
// has no row on the page; a row without tiers yields an empty, non-nil map.
func Scrape(ex Extractor, page, username string) (tiers map[string]string, found bool) {
	row, ok := ex.FindRow(page, username)
	if !ok {
		return nil, false
	}
	tiers = ex.ExtractModeTiers(row)
	if tiers == nil {
		tiers = map[string]string{}
	}
	return tiers, true
}

func New(kind string) Extractor {
	if kind == "regex" {
		return NewRegexExtractor()
	}
	return NewDOMExtractor()
}

var modeSynonyms = map[string]string{
	"diapot":  "pot",
	"pot":     "pot",
	"smp":     "smp",
	"smpkit":  "smp",
	"vanilla": "vanilla",
	"crystal": "vanilla",
}

// NormalizeMode folds the page's mode names onto the service's mode names.
// Unknown modes pass through lowercased.
func NormalizeMode(mode string) string {
	m := strings.ToLower(strings.TrimSpace(mode))
	if n, ok := modeSynonyms[m]; ok {
		return n
	}
	return m
}

var tierCodePattern = regexp.MustCompile(`(?i)(HT|LT)\d+`)

func normalizeCode(text string) (string, bool) {
	code := tierCodePattern.FindString(text)
	if code == "" {
		return "", false
	}
	return strings.ToUpper(code), true
}
