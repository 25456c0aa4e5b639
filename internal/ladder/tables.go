package ladder

var combatRanks = Floor([]Step{
	{Bound: 1, Label: "I", Color: "#555555"},
	{Bound: 5, Label: "II", Color: "#AAAAAA"},
	{Bound: 10, Label: "III", Color: "#AAAAAA"},
	{Bound: 15, Label: "IV", Color: "#AAAAAA"},
	{Bound: 25, Label: "V", Color: "#FF55FF"},
	{Bound: 50, Label: "X", Color: "#FF5555"},
	{Bound: 100, Label: "S", Color: "#FFFF55"},
})

var eloTiers = Ceiling([]Step{
	{Bound: 500, Label: "LT5", Color: "#A34702"},
	{Bound: 6000, Label: "HT5", Color: "#D25D04"},
	{Bound: 8000, Label: "LT4", Color: "#C0BDA2"},
	{Bound: 10000, Label: "HT4", Color: "#EBEAC8"},
	{Bound: 15000, Label: "LT3", Color: "#12C65D"},
	{Bound: 20000, Label: "HT3", Color: "#04F96A"},
	{Bound: 25000, Label: "LT2", Color: "#0277D0"},
	{Bound: 30000, Label: "HT2", Color: "#21C9FB"},
	{Bound: 40000, Label: "LT1", Color: "#B004CE"},
}, Step{Label: "HT1", Color: "#F906EC"})

// PointsToRank maps total points to a combat rank. Fewer than 1 point has no rank.
func PointsToRank(points int) (string, bool) {
	s, ok := combatRanks.Lookup(float64(points))
	return s.Label, ok
}

func RankColor(rank string) string {
	for _, s := range combatRanks.steps {
		if s.Label == rank {
			return s.Color
		}
	}
	return ""
}

// EloToTier maps an ELO value to a tier code. Boundary values fall in the lower band.
func EloToTier(elo float64) Step {
	s, _ := eloTiers.Lookup(elo)
	return s
}

func RankSteps() []Step {
	return combatRanks.Steps()
}

func EloSteps() []Step {
	return eloTiers.Steps()
}
