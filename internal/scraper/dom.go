package scraper

import (
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DOMExtractor walks the parsed document with goquery.
type DOMExtractor struct{}

func NewDOMExtractor() *DOMExtractor {
	return &DOMExtractor{}
}

func (DOMExtractor) Name() string { return "dom" }

func (DOMExtractor) FindRow(page, username string) (Row, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return Row{}, false
	}

	var found *goquery.Selection
	doc.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		tr.Find("[data-name]").EachWithBreak(func(_ int, el *goquery.Selection) bool {
			if name, _ := el.Attr("data-name"); strings.EqualFold(name, username) {
				found = tr
			}
			return found == nil
		})
		return found == nil
	})
	if found == nil {
		return Row{}, false
	}
	return Row{sel: found}, true
}

func (DOMExtractor) ExtractModeTiers(row Row) map[string]string {
	tiers := map[string]string{}
	if row.sel == nil {
		return tiers
	}

	row.sel.Find("div.tier-mode-container").Each(func(_ int, box *goquery.Selection) {
		src, ok := box.Find("img[src]").First().Attr("src")
		if !ok || !strings.HasSuffix(strings.ToLower(src), ".svg") {
			return
		}
		mode := strings.TrimSuffix(path.Base(strings.ToLower(src)), ".svg")
		if mode == "" {
			return
		}
		code, ok := normalizeCode(box.Find("span.player-tier").First().Text())
		if !ok {
			return
		}
		tiers[NormalizeMode(mode)] = code
	})
	return tiers
}
