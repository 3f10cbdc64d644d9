package registry

// gradeCutoffs is the 13-step letter scale over the 0-100 composite.
var gradeCutoffs = []struct {
	min   float64
	grade string
}{
	{95, "A+"},
	{90, "A"},
	{85, "A-"},
	{80, "B+"},
	{75, "B"},
	{70, "B-"},
	{65, "C+"},
	{60, "C"},
	{55, "C-"},
	{50, "D+"},
	{45, "D"},
	{40, "D-"},
}

// tierCutoffs is the coarser 5-step scale used for leaderboard buckets.
var tierCutoffs = []struct {
	min  float64
	tier string
}{
	{90, "elite"},
	{75, "strong"},
	{60, "competent"},
	{45, "developing"},
}

// GradeFor maps a 0-100 composite onto the letter scale.
func GradeFor(composite float64) string {
	for _, c := range gradeCutoffs {
		if composite >= c.min {
			return c.grade
		}
	}
	return "F"
}

// TierFor maps a 0-100 composite onto the tier scale.
func TierFor(composite float64) string {
	for _, c := range tierCutoffs {
		if composite >= c.min {
			return c.tier
		}
	}
	return "weak"
}
