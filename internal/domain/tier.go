package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	Modes = []string{"axe", "nethop", "uhc", "mace", "smp", "pot", "vanilla", "sword"}
	Ranks = []string{"I", "II", "III", "IV", "V", "X", "S"}
)

var tierCodePattern = regexp.MustCompile(`(?i)^(HT|LT)(\d+)$`)

type TierCode struct {
	High bool
	Tier int
}

func (c TierCode) String() string {
	if c.High {
		return "HT" + strconv.Itoa(c.Tier)
	}
	return "LT" + strconv.Itoa(c.Tier)
}

func ParseTierCode(s string) (TierCode, error) {
	m := tierCodePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return TierCode{}, &ValidationError{Field: "code", Reason: fmt.Sprintf("tier must be HT# or LT#, got %q", s)}
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n < 1 {
		return TierCode{}, &ValidationError{Field: "code", Reason: fmt.Sprintf("tier number must be at least 1, got %q", s)}
	}
	return TierCode{High: strings.EqualFold(m[1], "HT"), Tier: n}, nil
}

func IsTierCode(s string) bool {
	_, err := ParseTierCode(s)
	return err == nil
}

func ValidateMode(mode string) (string, error) {
	m := strings.ToLower(strings.TrimSpace(mode))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", &ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown gamemode %q", mode)}
}

func ValidateRank(rank string) (string, error) {
	r := strings.ToUpper(strings.TrimSpace(rank))
	for _, known := range Ranks {
		if r == known {
			return r, nil
		}
	}
	return "", &ValidationError{Field: "rank", Reason: fmt.Sprintf("unknown combat rank %q", rank)}
}

// CanonicalName upper-cases the first letter so lookups and overrides share one key per player.
func CanonicalName(name string) string {
	name = strings.TrimSpace(name)
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
