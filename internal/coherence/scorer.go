// Package coherence scores whether the directional sentiment of a reasoning
// text matches the action taken. It is independent of claim verification: a
// text can be perfectly grounded and still argue against its own trade.
package coherence

import (
	"fmt"
	"math"
	"strings"

	"github.com/moltapp/reasonscore/internal/decision"
	"github.com/moltapp/reasonscore/internal/lexicon"
)

// Signal is one lexicon hit recorded during scoring.
type Signal struct {
	Category string  `json:"category"`
	Text     string  `json:"text"`
	Weight   float64 `json:"weight"`
}

// Result is the coherence verdict for one (text, action) pair.
type Result struct {
	Score       float64  `json:"score"`
	Explanation string   `json:"explanation"`
	Signals     []Signal `json:"signals"`
}

// Config names the alignment constants. Empirical values; override, don't
// re-derive.
type Config struct {
	StrongThreshold    float64 `yaml:"strong_threshold"`    // |net| above this is a committed direction
	StrongBase         float64 `yaml:"strong_base"`         // aligned base, scaled toward 1.0
	StrongSpan         float64 `yaml:"strong_span"`
	AmbiguousScore     float64 `yaml:"ambiguous_score"`
	ContradictionBase  float64 `yaml:"contradiction_base"`
	ContradictionSlope float64 `yaml:"contradiction_slope"` // penalty per unit |net|
	ContradictionFloor float64 `yaml:"contradiction_floor"`
	OverrideBonus      float64 `yaml:"override_bonus"` // contrarian buy / profit-taking sell
	NoSignalScore      float64 `yaml:"no_signal_score"`
	HoldBase           float64 `yaml:"hold_base"`
	HoldSpan           float64 `yaml:"hold_span"`
	HoldOneSidedScore  float64 `yaml:"hold_one_sided_score"`
	HoldRiskOverride   float64 `yaml:"hold_risk_override"`
	ConflictThreshold  float64 `yaml:"conflict_threshold"` // per-bucket total that flags conflict
	ConflictPenalty    float64 `yaml:"conflict_penalty"`
}

// DefaultConfig returns the production alignment constants.
func DefaultConfig() *Config {
	return &Config{
		StrongThreshold:    0.3,
		StrongBase:         0.7,
		StrongSpan:         0.3,
		AmbiguousScore:     0.5,
		ContradictionBase:  0.4,
		ContradictionSlope: 0.35,
		ContradictionFloor: 0.05,
		OverrideBonus:      0.35,
		NoSignalScore:      0.5,
		HoldBase:           0.7,
		HoldSpan:           0.3,
		HoldOneSidedScore:  0.4,
		HoldRiskOverride:   0.8,
		ConflictThreshold:  1.0,
		ConflictPenalty:    0.05,
	}
}

// Scorer computes sentiment-action alignment. Stateless; safe for concurrent
// use across texts.
type Scorer struct {
	config *Config
}

// NewScorer creates a coherence scorer. A nil config selects defaults.
func NewScorer(config *Config) *Scorer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Scorer{config: config}
}

// Score evaluates how well the text's sentiment supports the action.
func (s *Scorer) Score(text string, action decision.Action) *Result {
	lower := strings.ToLower(text)
	tokens := lexicon.Tokenize(text)

	var bullish, bearish, neutral float64
	var signals []Signal
	scan := func(table []lexicon.SignalPattern, total *float64) {
		for _, p := range table {
			if lexicon.CountPhrase(lower, tokens, p.Pattern) > 0 {
				*total += p.Weight
				signals = append(signals, Signal{Category: p.Category, Text: p.Pattern, Weight: p.Weight})
			}
		}
	}
	scan(lexicon.Bullish, &bullish)
	scan(lexicon.Bearish, &bearish)
	scan(lexicon.Neutral, &neutral)

	net := 0.0
	if bullish+bearish > 0 {
		net = (bullish - bearish) / (bullish + bearish)
	}

	var score float64
	var explanation string
	switch action {
	case decision.ActionBuy:
		score, explanation = s.directional(lower, tokens, net, lexicon.ContrarianBuy, "buy")
	case decision.ActionSell:
		score, explanation = s.directional(lower, tokens, -net, lexicon.ProfitTakingSell, "sell")
	case decision.ActionHold:
		score, explanation = s.hold(lower, tokens, net, neutral, bullish+bearish)
	default:
		score, explanation = s.config.AmbiguousScore, fmt.Sprintf("unknown action %q", action)
	}

	// Arguing both directions hard is its own incoherence, whatever the action.
	if bullish > s.config.ConflictThreshold && bearish > s.config.ConflictThreshold {
		signals = append(signals, Signal{Category: "conflicting", Text: "bullish and bearish cases argued simultaneously", Weight: s.config.ConflictPenalty})
		score = math.Max(s.config.ContradictionFloor, score-s.config.ConflictPenalty)
		explanation += "; conflicting directional signals"
	}

	return &Result{
		Score:       clamp01(score),
		Explanation: explanation,
		Signals:     signals,
	}
}

// directional scores buy/sell. aligned is netSentiment oriented so that
// positive supports the action.
func (s *Scorer) directional(lower string, tokens []string, aligned float64, overrides []string, verb string) (float64, string) {
	cfg := s.config
	switch {
	case aligned >= cfg.StrongThreshold:
		score := cfg.StrongBase + cfg.StrongSpan*aligned
		return math.Min(1.0, score), fmt.Sprintf("sentiment strongly supports the %s (net %.2f)", verb, aligned)
	case aligned > -cfg.StrongThreshold:
		return cfg.AmbiguousScore, fmt.Sprintf("sentiment is ambiguous for a %s (net %.2f)", verb, aligned)
	default:
		score := cfg.ContradictionBase - cfg.ContradictionSlope*math.Abs(aligned)
		score = math.Max(cfg.ContradictionFloor, score)
		if phrase, ok := lexicon.MatchAny(lower, tokens, overrides); ok {
			// A contrarian entry or profit-take legitimately trades against
			// surface sentiment.
			return math.Min(1.0, score+cfg.OverrideBonus),
				fmt.Sprintf("sentiment opposes the %s but %q marks a deliberate counter-trade", verb, phrase)
		}
		return score, fmt.Sprintf("sentiment contradicts the %s (net %.2f)", verb, aligned)
	}
}

func (s *Scorer) hold(lower string, tokens []string, net, neutral, directional float64) (float64, string) {
	cfg := s.config
	if directional == 0 && neutral == 0 {
		return cfg.NoSignalScore, "no directional or neutral signals; hold is unexamined"
	}
	if neutral > 0 || math.Abs(net) <= cfg.StrongThreshold {
		score := cfg.HoldBase + cfg.HoldSpan*(1-math.Abs(net))
		return math.Min(1.0, score), fmt.Sprintf("mixed or neutral sentiment supports holding (net %.2f)", net)
	}
	if _, ok := lexicon.MatchAny(lower, tokens, lexicon.RiskManagement); ok {
		return cfg.HoldRiskOverride, "one-sided sentiment, but holding is framed as risk management"
	}
	return cfg.HoldOneSidedScore, fmt.Sprintf("strong one-sided sentiment (net %.2f) argues for acting, not holding", net)
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
