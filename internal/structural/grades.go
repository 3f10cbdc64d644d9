package structural

// gradeCutoffs is the fixed 13-step letter scale applied to the overall
// structural score.
var gradeCutoffs = []struct {
	min   float64
	grade string
}{
	{0.95, "A+"},
	{0.90, "A"},
	{0.85, "A-"},
	{0.80, "B+"},
	{0.75, "B"},
	{0.70, "B-"},
	{0.65, "C+"},
	{0.60, "C"},
	{0.55, "C-"},
	{0.50, "D+"},
	{0.45, "D"},
	{0.40, "D-"},
}

// GradeFor maps an overall score in [0,1] onto the letter scale.
func GradeFor(score float64) string {
	for _, c := range gradeCutoffs {
		if score >= c.min {
			return c.grade
		}
	}
	return "F"
}
