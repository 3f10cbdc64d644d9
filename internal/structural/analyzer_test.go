package structural

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moltapp/reasonscore/internal/decision"
)

func mustAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(nil)
	require.NoError(t, err)
	return a
}

const richText = `Because NVDA reported earnings that beat expectations, the data shows
sustained demand, and therefore I expect continued strength over the next
quarter. The worst case is a 10% drawdown if guidance disappoints, so a stop
loss near $95 limits the exposure. On the other hand, if the sector rotates,
holding cash would have been the better scenario. Historically the probability
of follow-through after a 5% earnings move is high, and the risk/reward ratio
stays favorable for the long term.`

func TestAnalyze_RichTextScoresWell(t *testing.T) {
	a := mustAnalyzer(t)

	ev := &decision.EvidenceContext{
		Symbols: map[string]decision.SymbolEvidence{"NVDA": {Price: 100}},
	}
	res := a.Analyze(richText, decision.ActionBuy, 0.7, ev)

	assert.Greater(t, res.OverallScore, 0.6, "well-structured text should score above 0.6")
	assert.LessOrEqual(t, res.OverallScore, 1.0)
	assert.NotEmpty(t, res.Strengths)

	require.Len(t, res.Dimensions, 6)
	for d, ds := range res.Dimensions {
		assert.GreaterOrEqual(t, ds.Score, 0.0, "dimension %s", d)
		assert.LessOrEqual(t, ds.Score, 1.0, "dimension %s", d)
	}
	assert.Greater(t, res.Dimensions[DimLogic].Score, 0.4)
	assert.Greater(t, res.Dimensions[DimRisk].Score, 0.4)
}

func TestAnalyze_ShortTextPenalized(t *testing.T) {
	a := mustAnalyzer(t)

	short := a.Analyze("Buying because uptrend.", decision.ActionBuy, 0.9, nil)
	assert.Less(t, short.OverallScore, 0.3)

	found := false
	for _, w := range short.Weaknesses {
		if strings.Contains(w, "insufficient depth") {
			found = true
		}
	}
	assert.True(t, found, "short text should be flagged for depth, got %v", short.Weaknesses)
}

func TestAnalyze_EmptyTextIsZeroish(t *testing.T) {
	a := mustAnalyzer(t)

	res := a.Analyze("", decision.ActionHold, 0.5, nil)
	assert.Equal(t, 0.0, res.OverallScore)
	assert.Equal(t, "F", res.Grade)
	assert.Equal(t, 0, res.Metrics.WordCount)
}

func TestAnalyze_EvidenceSymbolCrossReference(t *testing.T) {
	a := mustAnalyzer(t)
	text := "TSLA volume data shows accumulation at the $250 level."

	without := a.Analyze(text, decision.ActionBuy, 0.6, nil)
	with := a.Analyze(text, decision.ActionBuy, 0.6, &decision.EvidenceContext{
		Symbols: map[string]decision.SymbolEvidence{"TSLA": {Price: 250}},
	})
	assert.Greater(t,
		with.Dimensions[DimEvidence].Score,
		without.Dimensions[DimEvidence].Score,
		"symbols present in evidence should raise the evidence dimension")
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := mustAnalyzer(t)

	x := a.Analyze(richText, decision.ActionBuy, 0.7, nil)
	y := a.Analyze(richText, decision.ActionBuy, 0.7, nil)
	assert.Equal(t, x, y)
}

func TestNewAnalyzer_RejectsBadWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights[DimLogic] = 0.5 // pushes sum above 1.0

	_, err := NewAnalyzer(cfg)
	assert.Error(t, err)
}

func TestGradeFor_Cutoffs(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{1.00, "A+"},
		{0.95, "A+"},
		{0.92, "A"},
		{0.86, "A-"},
		{0.75, "B"},
		{0.60, "C"},
		{0.41, "D-"},
		{0.39, "F"},
		{0.00, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeFor(tt.score), "score %.2f", tt.score)
	}
}
