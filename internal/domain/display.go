package domain

type Source string

const (
	SourceOverride    Source = "override"
	SourcePrimary     Source = "mctiers"
	SourceVanillaList Source = "vanillalist"
	SourceElo         Source = "elo"
	SourceNone        Source = "none"
)

const NotAvailable = "N/A"

// DisplayResult is a resolved tier for one (player, mode) query.
type DisplayResult struct {
	Username string `json:"username"`
	Mode     string `json:"mode,omitempty"`
	Code     string `json:"code,omitempty"`
	Source   Source `json:"source"`
	Color    string `json:"color,omitempty"`
}

func (r DisplayResult) Available() bool {
	return r.Source != SourceNone && r.Code != ""
}

// Display renders the code with a marker for the secondary and computed sources.
func (r DisplayResult) Display() string {
	if !r.Available() {
		return NotAvailable
	}
	switch r.Source {
	case SourceVanillaList:
		return r.Code + " (VNL)"
	case SourceElo:
		return r.Code + " (ELO)"
	default:
		return r.Code
	}
}

type RankSource string

const (
	RankSourceOverride       RankSource = "override"
	RankSourcePointsOverride RankSource = "points_override"
	RankSourcePrimary        RankSource = "mctiers"
	RankSourceNone           RankSource = "none"
)

type RankDisplay struct {
	Username string     `json:"username"`
	Rank     string     `json:"rank,omitempty"`
	Points   *int       `json:"points,omitempty"`
	Source   RankSource `json:"source"`
	Color    string     `json:"color,omitempty"`
}

func (r RankDisplay) Available() bool {
	return r.Source != RankSourceNone && r.Rank != ""
}

func (r RankDisplay) Display() string {
	if !r.Available() {
		return NotAvailable
	}
	return r.Rank
}
