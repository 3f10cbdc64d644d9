// Package structural scores the reasoning quality of a text along six fixed
// dimensions: logical structure, evidence use, risk awareness, time-horizon
// framing, counterfactual thinking, and quantitative rigor.
package structural

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/moltapp/reasonscore/internal/decision"
	"github.com/moltapp/reasonscore/internal/lexicon"
)

// Dimension names one scored quality axis.
type Dimension string

const (
	DimLogic          Dimension = "logic"
	DimEvidence       Dimension = "evidence"
	DimRisk           Dimension = "risk"
	DimTimeHorizon    Dimension = "time_horizon"
	DimCounterfactual Dimension = "counterfactual"
	DimRigor          Dimension = "rigor"
)

// Dimensions lists every axis in scoring order.
var Dimensions = []Dimension{
	DimLogic, DimEvidence, DimRisk, DimTimeHorizon, DimCounterfactual, DimRigor,
}

// DimensionScore is one axis result.
type DimensionScore struct {
	Score    float64  `json:"score"`
	Weight   float64  `json:"weight"`
	Evidence []string `json:"evidence,omitempty"`
}

// TextMetrics are surface statistics computed once per analysis.
type TextMetrics struct {
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	UniqueWordRatio   float64 `json:"unique_word_ratio"`
	NumericTokens     int     `json:"numeric_tokens"`
	PercentTokens     int     `json:"percent_tokens"`
}

// Result is the full structural verdict.
type Result struct {
	OverallScore float64                       `json:"overall_score"`
	Grade        string                        `json:"grade"`
	Dimensions   map[Dimension]DimensionScore  `json:"dimensions"`
	Strengths    []string                      `json:"strengths"`
	Weaknesses   []string                      `json:"weaknesses"`
	Metrics      TextMetrics                   `json:"metrics"`
}

// Config carries the structural weights and adjustment constants.
type Config struct {
	Weights           map[Dimension]float64 `yaml:"weights"`
	MinWordCount      int                   `yaml:"min_word_count"`
	ShortTextPenalty  float64               `yaml:"short_text_penalty"` // multiplicative
	DiversityMinWords int                   `yaml:"diversity_min_words"`
	DiversityMinRatio float64               `yaml:"diversity_min_ratio"`
	DiversityBonus    float64               `yaml:"diversity_bonus"` // multiplicative, capped at 1.0
	StrengthThreshold float64               `yaml:"strength_threshold"`
	WeaknessThreshold float64               `yaml:"weakness_threshold"`
}

// DefaultConfig returns the production structural constants. The dimension
// weights sum to 1.0 and are validated on construction.
func DefaultConfig() *Config {
	return &Config{
		Weights: map[Dimension]float64{
			DimLogic:          0.25,
			DimEvidence:       0.20,
			DimRisk:           0.20,
			DimTimeHorizon:    0.10,
			DimCounterfactual: 0.10,
			DimRigor:          0.15,
		},
		MinWordCount:      20,
		ShortTextPenalty:  0.7,
		DiversityMinWords: 80,
		DiversityMinRatio: 0.5,
		DiversityBonus:    1.05,
		StrengthThreshold: 0.7,
		WeaknessThreshold: 0.3,
	}
}

// Analyzer scores structural reasoning quality. Stateless.
type Analyzer struct {
	config *Config
}

// NewAnalyzer creates an analyzer. A nil config selects defaults; a config
// whose weights do not sum to 1.0 is rejected.
func NewAnalyzer(config *Config) (*Analyzer, error) {
	if config == nil {
		config = DefaultConfig()
	}
	sum := 0.0
	for _, w := range config.Weights {
		sum += w
	}
	if math.Abs(sum-1.0) > 0.01 {
		return nil, fmt.Errorf("structural dimension weights sum to %.3f, expected 1.000", sum)
	}
	return &Analyzer{config: config}, nil
}

var (
	numericTokenRe = regexp.MustCompile(`\$?\d[\d,]*(?:\.\d+)?`)
	percentTokenRe = regexp.MustCompile(`\d+(?:\.\d+)?\s*%`)
	sentenceEndRe  = regexp.MustCompile(`[.!?]+`)
)

// Analyze scores text along all six dimensions and combines them. The
// evidence context, when supplied, lets the evidence and rigor scorers
// cross-reference symbols the author actually had data for.
func (a *Analyzer) Analyze(text string, action decision.Action, confidence float64, ev *decision.EvidenceContext) *Result {
	lower := strings.ToLower(text)
	tokens := lexicon.Tokenize(text)
	metrics := computeMetrics(text, tokens)

	dims := make(map[Dimension]DimensionScore, len(Dimensions))
	dims[DimLogic] = a.scoreTable(lower, tokens, lexicon.LogicMarkers)
	dims[DimEvidence] = a.scoreEvidence(lower, tokens, text, metrics, ev)
	dims[DimRisk] = a.scoreTable(lower, tokens, lexicon.RiskMarkers)
	dims[DimTimeHorizon] = a.scoreTable(lower, tokens, lexicon.TimeHorizonMarkers)
	dims[DimCounterfactual] = a.scoreTable(lower, tokens, lexicon.CounterfactualMarkers)
	dims[DimRigor] = a.scoreRigor(lower, tokens, metrics)

	overall := 0.0
	for d, ds := range dims {
		ds.Weight = a.config.Weights[d]
		dims[d] = ds
		overall += ds.Score * ds.Weight
	}

	if metrics.WordCount < a.config.MinWordCount {
		overall *= a.config.ShortTextPenalty
	} else if metrics.WordCount >= a.config.DiversityMinWords && metrics.UniqueWordRatio >= a.config.DiversityMinRatio {
		overall = math.Min(1.0, overall*a.config.DiversityBonus)
	}
	overall = clamp01(overall)

	res := &Result{
		OverallScore: overall,
		Grade:        GradeFor(overall),
		Dimensions:   dims,
		Metrics:      metrics,
	}
	a.annotate(res, metrics)
	return res
}

// scoreTable sums matched pattern weights for one dimension, clamped to [0,1].
func (a *Analyzer) scoreTable(lower string, tokens []string, table []lexicon.SignalPattern) DimensionScore {
	ds := DimensionScore{}
	for _, p := range table {
		if lexicon.CountPhrase(lower, tokens, p.Pattern) > 0 {
			ds.Score += p.Weight
			ds.Evidence = append(ds.Evidence, p.Pattern)
		}
	}
	ds.Score = clamp01(ds.Score)
	return ds
}

// scoreEvidence extends the marker table with numeric-token counting and
// cross-references against symbols the evidence context actually covers.
func (a *Analyzer) scoreEvidence(lower string, tokens []string, text string, metrics TextMetrics, ev *decision.EvidenceContext) DimensionScore {
	ds := a.scoreTable(lower, tokens, lexicon.EvidenceMarkers)

	if metrics.NumericTokens > 0 {
		ds.Score += math.Min(0.3, 0.1*float64(metrics.NumericTokens))
		ds.Evidence = append(ds.Evidence, fmt.Sprintf("%d numeric reference(s)", metrics.NumericTokens))
	}
	if ev != nil {
		matched := 0
		for sym := range ev.Symbols {
			if strings.Contains(text, sym) {
				matched++
			}
		}
		if matched > 0 {
			ds.Score += math.Min(0.3, 0.15*float64(matched))
			ds.Evidence = append(ds.Evidence, fmt.Sprintf("references %d symbol(s) present in evidence", matched))
		}
	}
	ds.Score = clamp01(ds.Score)
	return ds
}

// scoreRigor extends the marker table with numeric and percentage density.
func (a *Analyzer) scoreRigor(lower string, tokens []string, metrics TextMetrics) DimensionScore {
	ds := a.scoreTable(lower, tokens, lexicon.RigorMarkers)

	if metrics.NumericTokens > 0 {
		ds.Score += math.Min(0.45, 0.15*float64(metrics.NumericTokens))
		ds.Evidence = append(ds.Evidence, fmt.Sprintf("%d numeric token(s)", metrics.NumericTokens))
	}
	if metrics.PercentTokens > 0 {
		ds.Score += math.Min(0.4, 0.2*float64(metrics.PercentTokens))
		ds.Evidence = append(ds.Evidence, fmt.Sprintf("%d percentage figure(s)", metrics.PercentTokens))
	}
	ds.Score = clamp01(ds.Score)
	return ds
}

var dimensionLabels = map[Dimension]string{
	DimLogic:          "logical structure",
	DimEvidence:       "evidence grounding",
	DimRisk:           "risk awareness",
	DimTimeHorizon:    "time-horizon framing",
	DimCounterfactual: "counterfactual thinking",
	DimRigor:          "quantitative rigor",
}

func (a *Analyzer) annotate(res *Result, metrics TextMetrics) {
	for _, d := range Dimensions {
		ds := res.Dimensions[d]
		switch {
		case ds.Score >= a.config.StrengthThreshold:
			res.Strengths = append(res.Strengths, fmt.Sprintf("strong %s (%.2f)", dimensionLabels[d], ds.Score))
		case ds.Score <= a.config.WeaknessThreshold:
			res.Weaknesses = append(res.Weaknesses, fmt.Sprintf("weak %s (%.2f)", dimensionLabels[d], ds.Score))
		}
	}
	if metrics.WordCount < a.config.MinWordCount {
		res.Weaknesses = append(res.Weaknesses, fmt.Sprintf("insufficient depth (%d words)", metrics.WordCount))
	}
}

func computeMetrics(text string, tokens []string) TextMetrics {
	m := TextMetrics{
		WordCount:     len(tokens),
		NumericTokens: len(numericTokenRe.FindAllString(text, -1)),
		PercentTokens: len(percentTokenRe.FindAllString(text, -1)),
	}
	sentences := 0
	for _, s := range sentenceEndRe.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	m.SentenceCount = sentences
	if sentences > 0 {
		m.AvgSentenceLength = float64(m.WordCount) / float64(sentences)
	}
	if m.WordCount > 0 {
		unique := make(map[string]struct{}, m.WordCount)
		for _, t := range tokens {
			unique[t] = struct{}{}
		}
		m.UniqueWordRatio = float64(len(unique)) / float64(m.WordCount)
	}
	return m
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
