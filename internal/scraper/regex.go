package scraper

import (
	"regexp"
	"strings"
)

var (
	rowPattern       = regexp.MustCompile(`(?is)<tr(?:\s[^>]*)?>.*?</tr>`)
	leadingRankCell  = regexp.MustCompile(`(?is)^<tr(?:\s[^>]*)?>\s*<td[^>]*>\s*\d+\s*</td>`)
	containerPattern = regexp.MustCompile(`(?i)<div[^>]*\sclass="[^"]*\btier-mode-container\b[^"]*"[\s\S]*?<img[^>]+src="(?:[^"]*/)?([^"/]+?)\.svg"[\s\S]*?<span[^>]*\sclass="[^"]*\bplayer-tier\b[^"]*"[^>]*>\s*((?:HT|LT)\d+)\s*</span>`)
)

// RegexExtractor matches the page markup with regular expressions.
type RegexExtractor struct{}

func NewRegexExtractor() *RegexExtractor {
	return &RegexExtractor{}
}

func (RegexExtractor) Name() string { return "regex" }

func (RegexExtractor) FindRow(page, username string) (Row, bool) {
	attr := regexp.MustCompile(`(?i)data-name="` + regexp.QuoteMeta(username) + `"`)
	for _, row := range rowPattern.FindAllString(page, -1) {
		if !leadingRankCell.MatchString(row) {
			continue
		}
		if attr.MatchString(row) {
			return Row{html: row}, true
		}
	}
	return Row{}, false
}

func (RegexExtractor) ExtractModeTiers(row Row) map[string]string {
	tiers := map[string]string{}
	for _, m := range containerPattern.FindAllStringSubmatch(row.html, -1) {
		code, ok := normalizeCode(m[2])
		if !ok {
			continue
		}
		tiers[NormalizeMode(strings.ToLower(m[1]))] = code
	}
	return tiers
}
