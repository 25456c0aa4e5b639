package domain

import (
	"time"
)

type PlayerProfile struct {
	Name     string
	Region   string
	Rankings map[string]RankingEntry
	Points   int

	// False for the synthetic profile returned when the player is unknown upstream.
	Registered bool
}

// RankingEntry is one mode placement. Pos 0 is High Tier, anything else Low Tier.
type RankingEntry struct {
	Tier int `json:"tier"`
	Pos  int `json:"pos"`
}

func (e RankingEntry) Code() TierCode {
	return TierCode{High: e.Pos == 0, Tier: e.Tier}
}

func UnregisteredProfile(name string) *PlayerProfile {
	return &PlayerProfile{
		Name:     name,
		Region:   "N/A",
		Rankings: map[string]RankingEntry{},
		Points:   0,
	}
}

// Override is one row of the override table. Mode nil is the player's global row.
type Override struct {
	Username   string  `json:"username"`
	Mode       *string `json:"mode"`
	Tier       *int    `json:"tier,omitempty"`
	TierHigh   *bool   `json:"tier_high,omitempty"`
	CombatRank *string `json:"combat_rank,omitempty"`
	Points     *int    `json:"points,omitempty"`
	RankPinned *bool   `json:"rank_pinned,omitempty"`
}

func (o *Override) TierCode() (TierCode, bool) {
	if o == nil || o.Tier == nil {
		return TierCode{}, false
	}
	return TierCode{High: o.TierHigh != nil && *o.TierHigh, Tier: *o.Tier}, true
}

func (o *Override) IsRankPinned() bool {
	return o != nil && o.RankPinned != nil && *o.RankPinned
}

// OverridePatch carries the fields of a sparse override write; nil fields keep their stored value.
type OverridePatch struct {
	Tier       *int
	TierHigh   *bool
	CombatRank *string
	Points     *int
	RankPinned *bool
}

// Apply merges the non-nil patch fields over prev and returns the resulting row.
func (p OverridePatch) Apply(username string, mode *string, prev *Override) Override {
	merged := Override{Username: username, Mode: mode}
	if prev != nil {
		merged.Tier = prev.Tier
		merged.TierHigh = prev.TierHigh
		merged.CombatRank = prev.CombatRank
		merged.Points = prev.Points
		merged.RankPinned = prev.RankPinned
	}
	if p.Tier != nil {
		merged.Tier = p.Tier
	}
	if p.TierHigh != nil {
		merged.TierHigh = p.TierHigh
	}
	if p.CombatRank != nil {
		merged.CombatRank = p.CombatRank
	}
	if p.Points != nil {
		merged.Points = p.Points
	}
	if p.RankPinned != nil {
		merged.RankPinned = p.RankPinned
	}
	return merged
}

type OverrideEvent struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

type Provenance string

const (
	ProvenanceLive    Provenance = "live"
	ProvenanceDisk    Provenance = "disk"
	ProvenanceBundled Provenance = "bundled"
)

// Snapshot is a retrieved copy of the scraped ranking page.
type Snapshot struct {
	Body        string
	RetrievedAt time.Time
	Provenance  Provenance
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
