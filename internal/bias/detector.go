// Package bias detects known cognitive-bias patterns in decision reasoning.
// Seven independent detectors each contribute at most one finding; an empty
// finding list is the normal result, not an error.
package bias

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/moltapp/reasonscore/internal/decision"
	"github.com/moltapp/reasonscore/internal/lexicon"
)

// Type names one detectable bias pattern. Fixed seven-value set.
type Type string

const (
	TypeAnchoring      Type = "anchoring"
	TypeConfirmation   Type = "confirmation_bias"
	TypeRecency        Type = "recency_bias"
	TypeSunkCost       Type = "sunk_cost"
	TypeOverconfidence Type = "overconfidence"
	TypeHerding        Type = "herding"
	TypeLossAversion   Type = "loss_aversion"
)

// Severity buckets a finding's impact.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// severityWeights scale findings into the aggregate bias score.
var severityWeights = map[Severity]float64{
	SeverityLow:    0.5,
	SeverityMedium: 0.75,
	SeverityHigh:   1.0,
}

// Weight returns the aggregate weight of a severity bucket.
func (s Severity) Weight() float64 {
	return severityWeights[s]
}

// Detection is one bias finding.
type Detection struct {
	Type       Type     `json:"type"`
	Confidence float64  `json:"confidence"`
	Evidence   string   `json:"evidence"`
	Severity   Severity `json:"severity"`
	Triggers   []string `json:"triggers,omitempty"`
}

// Result bundles all findings for one decision.
type Result struct {
	BiasScore    float64     `json:"bias_score"`
	Count        int         `json:"count"`
	Detections   []Detection `json:"detections"`
	DominantBias Type        `json:"dominant_bias,omitempty"`
	Assessment   string      `json:"assessment"`
}

// Input carries everything a detection pass may consult.
type Input struct {
	Text       string
	Action     decision.Action
	Confidence float64
	Evidence   decision.EvidenceContext
	Peers      []decision.PeerDecision
	Portfolio  *decision.PortfolioSnapshot
}

// Config names the detector thresholds. Empirical constants; override rather
// than re-derive.
type Config struct {
	AnchorRepeatCount        int     `yaml:"anchor_repeat_count"`        // identical numeric token repeats
	FixationSymbolMentions   int     `yaml:"fixation_symbol_mentions"`   // single-symbol mentions
	FixationMinAlternatives  int     `yaml:"fixation_min_alternatives"`  // symbols available in evidence
	ConfirmationMinSignals   int     `yaml:"confirmation_min_signals"`   // one-sided signal count
	RecencyMinPhrases        int     `yaml:"recency_min_phrases"`
	SunkCostMinPhrases       int     `yaml:"sunk_cost_min_phrases"`
	OverconfidenceThreshold  float64 `yaml:"overconfidence_threshold"`   // decision confidence
	OverconfidenceMinPhrases int     `yaml:"overconfidence_min_phrases"` // certainty phrases
	ShortTextWordCount       int     `yaml:"short_text_word_count"`
	LossAversionMinPhrases   int     `yaml:"loss_aversion_min_phrases"`
	PeerOverlapThreshold     float64 `yaml:"peer_overlap_threshold"` // keyword Jaccard overlap
	Normalization            float64 `yaml:"normalization"`          // bias score denominator
}

// DefaultConfig returns the production detector thresholds.
func DefaultConfig() *Config {
	return &Config{
		AnchorRepeatCount:        3,
		FixationSymbolMentions:   3,
		FixationMinAlternatives:  3,
		ConfirmationMinSignals:   3,
		RecencyMinPhrases:        3,
		SunkCostMinPhrases:       2,
		OverconfidenceThreshold:  0.8,
		OverconfidenceMinPhrases: 2,
		ShortTextWordCount:       15,
		LossAversionMinPhrases:   3,
		PeerOverlapThreshold:     0.5,
		Normalization:            3.0,
	}
}

// Detector runs the seven bias checks. Stateless; safe for concurrent use.
type Detector struct {
	config *Config
}

// NewDetector creates a detector. A nil config selects defaults.
func NewDetector(config *Config) *Detector {
	if config == nil {
		config = DefaultConfig()
	}
	return &Detector{config: config}
}

var numericTokenRe = regexp.MustCompile(`\$?\d[\d,]*(?:\.\d+)?`)

// Detect runs every detector and aggregates the findings.
func (d *Detector) Detect(in Input) *Result {
	lower := strings.ToLower(in.Text)
	tokens := lexicon.Tokenize(in.Text)

	var detections []Detection
	checks := []func(Input, string, []string) *Detection{
		d.detectAnchoring,
		d.detectConfirmation,
		d.detectRecency,
		d.detectSunkCost,
		d.detectOverconfidence,
		d.detectHerding,
		d.detectLossAversion,
	}
	for _, check := range checks {
		if det := check(in, lower, tokens); det != nil {
			det.Confidence = clamp01(det.Confidence)
			detections = append(detections, *det)
		}
	}

	res := &Result{
		Count:      len(detections),
		Detections: detections,
	}
	if len(detections) == 0 {
		res.Assessment = "no cognitive-bias patterns detected"
		return res
	}

	var sum, best float64
	for _, det := range detections {
		w := det.Confidence * det.Severity.Weight()
		sum += w
		if w > best {
			best = w
			res.DominantBias = det.Type
		}
	}
	res.BiasScore = math.Min(1.0, sum/d.config.Normalization)
	res.Assessment = assessBias(res.BiasScore, res.Count, res.DominantBias)
	return res
}

// detectAnchoring fires on an identical price token repeated throughout the
// text, or on fixation with one symbol when several were on the table.
func (d *Detector) detectAnchoring(in Input, lower string, tokens []string) *Detection {
	counts := make(map[string]int)
	for _, tok := range numericTokenRe.FindAllString(in.Text, -1) {
		counts[tok]++
	}
	var anchor string
	most := 0
	for tok, n := range counts {
		if n > most || (n == most && tok < anchor) {
			anchor, most = tok, n
		}
	}
	if most >= d.config.AnchorRepeatCount {
		sev := SeverityMedium
		if most >= d.config.AnchorRepeatCount+2 {
			sev = SeverityHigh
		}
		return &Detection{
			Type:       TypeAnchoring,
			Confidence: 0.5 + 0.1*float64(most-d.config.AnchorRepeatCount),
			Evidence:   fmt.Sprintf("the figure %s is repeated %d times", anchor, most),
			Severity:   sev,
			Triggers:   []string{anchor},
		}
	}

	if len(in.Evidence.Symbols) >= d.config.FixationMinAlternatives {
		mentioned := make(map[string]int)
		for sym := range in.Evidence.Symbols {
			if n := strings.Count(in.Text, sym); n > 0 {
				mentioned[sym] = n
			}
		}
		if len(mentioned) == 1 {
			for sym, n := range mentioned {
				if n >= d.config.FixationSymbolMentions {
					return &Detection{
						Type:       TypeAnchoring,
						Confidence: 0.55,
						Evidence:   fmt.Sprintf("fixated on %s (%d mentions) despite %d symbols in evidence", sym, n, len(in.Evidence.Symbols)),
						Severity:   SeverityLow,
						Triggers:   []string{sym},
					}
				}
			}
		}
	}
	return nil
}

// detectConfirmation fires on one-sided sentiment with zero opposing signals,
// amplified when the evidence itself contradicts the chosen direction.
func (d *Detector) detectConfirmation(in Input, lower string, tokens []string) *Detection {
	count := func(table []lexicon.SignalPattern) (int, []string) {
		n := 0
		var hits []string
		for _, p := range table {
			if lexicon.CountPhrase(lower, tokens, p.Pattern) > 0 {
				n++
				hits = append(hits, p.Pattern)
			}
		}
		return n, hits
	}
	bullish, bullHits := count(lexicon.Bullish)
	bearish, bearHits := count(lexicon.Bearish)

	var supporting int
	var hits []string
	switch {
	case in.Action == decision.ActionBuy && bearish == 0:
		supporting, hits = bullish, bullHits
	case in.Action == decision.ActionSell && bullish == 0:
		supporting, hits = bearish, bearHits
	default:
		return nil
	}
	if supporting < d.config.ConfirmationMinSignals {
		return nil
	}

	contradicted := evidenceContradicts(in)
	sev := SeverityMedium
	conf := 0.55 + 0.05*float64(supporting)
	evidence := fmt.Sprintf("%d same-direction signals with zero opposing signals", supporting)
	if contradicted {
		sev = SeverityHigh
		conf += 0.1
		evidence += "; evidence contains contradicting data the text ignores"
	}
	return &Detection{
		Type:       TypeConfirmation,
		Confidence: conf,
		Evidence:   evidence,
		Severity:   sev,
		Triggers:   hits,
	}
}

// evidenceContradicts reports whether any mentioned symbol moved against the
// chosen direction by a meaningful margin.
func evidenceContradicts(in Input) bool {
	for sym, se := range in.Evidence.Symbols {
		if se.Change24h == nil || !strings.Contains(in.Text, sym) {
			continue
		}
		if in.Action == decision.ActionBuy && *se.Change24h < -5.0 {
			return true
		}
		if in.Action == decision.ActionSell && *se.Change24h > 5.0 {
			return true
		}
	}
	return false
}

func (d *Detector) detectRecency(in Input, lower string, tokens []string) *Detection {
	recent, hits := lexicon.CountSet(lower, tokens, lexicon.RecencyPhrases)
	long, _ := lexicon.CountSet(lower, tokens, lexicon.LongHorizonPhrases)
	if recent < d.config.RecencyMinPhrases || long > 0 {
		return nil
	}
	sev := SeverityMedium
	if recent >= d.config.RecencyMinPhrases+2 {
		sev = SeverityHigh
	}
	return &Detection{
		Type:       TypeRecency,
		Confidence: 0.5 + 0.1*float64(recent-d.config.RecencyMinPhrases),
		Evidence:   fmt.Sprintf("%d recency references with no long-horizon framing", recent),
		Severity:   sev,
		Triggers:   hits,
	}
}

func (d *Detector) detectSunkCost(in Input, lower string, tokens []string) *Detection {
	n, hits := lexicon.CountSet(lower, tokens, lexicon.SunkCostPhrases)
	if n == 0 {
		return nil
	}

	// Any sunk-cost language while holding or adding to a losing position is
	// the textbook pattern.
	if in.Action == decision.ActionHold || in.Action == decision.ActionBuy {
		for _, pos := range positions(in.Portfolio) {
			if pos.UnrealizedPL < 0 && strings.Contains(in.Text, pos.Symbol) {
				return &Detection{
					Type:       TypeSunkCost,
					Confidence: 0.75,
					Evidence:   fmt.Sprintf("sunk-cost language while %sing %s at %.2f unrealized loss", in.Action, pos.Symbol, pos.UnrealizedPL),
					Severity:   SeverityHigh,
					Triggers:   hits,
				}
			}
		}
	}
	if n < d.config.SunkCostMinPhrases {
		return nil
	}
	return &Detection{
		Type:       TypeSunkCost,
		Confidence: 0.5 + 0.1*float64(n-d.config.SunkCostMinPhrases),
		Evidence:   fmt.Sprintf("%d sunk-cost references", n),
		Severity:   SeverityMedium,
		Triggers:   hits,
	}
}

func (d *Detector) detectOverconfidence(in Input, lower string, tokens []string) *Detection {
	certainty, hits := lexicon.CountSet(lower, tokens, lexicon.CertaintyPhrases)
	hedging, _ := lexicon.CountSet(lower, tokens, lexicon.HedgingPhrases)

	if in.Confidence > d.config.OverconfidenceThreshold &&
		certainty >= d.config.OverconfidenceMinPhrases && hedging == 0 {
		sev := SeverityMedium
		if in.Confidence > 0.9 {
			sev = SeverityHigh
		}
		return &Detection{
			Type:       TypeOverconfidence,
			Confidence: math.Min(0.95, 0.6+0.1*float64(certainty)),
			Evidence:   fmt.Sprintf("confidence %.2f with %d certainty phrases and no hedging", in.Confidence, certainty),
			Severity:   sev,
			Triggers:   hits,
		}
	}

	if in.Confidence > 0.85 && len(tokens) > 0 && len(tokens) < d.config.ShortTextWordCount {
		return &Detection{
			Type:       TypeOverconfidence,
			Confidence: 0.6,
			Evidence:   fmt.Sprintf("confidence %.2f justified by only %d words", in.Confidence, len(tokens)),
			Severity:   SeverityMedium,
		}
	}
	return nil
}

func (d *Detector) detectHerding(in Input, lower string, tokens []string) *Detection {
	if n, hits := lexicon.CountSet(lower, tokens, lexicon.HerdingPhrases); n > 0 {
		return &Detection{
			Type:       TypeHerding,
			Confidence: math.Min(0.9, 0.5+0.1*float64(n)),
			Evidence:   fmt.Sprintf("%d explicit peer-following references", n),
			Severity:   SeverityMedium,
			Triggers:   hits,
		}
	}

	if len(in.Peers) < 2 {
		return nil
	}
	for _, p := range in.Peers {
		if p.Action != in.Action {
			return nil
		}
	}
	best := 0.0
	for _, p := range in.Peers {
		if o := keywordOverlap(tokens, lexicon.Tokenize(p.Reasoning)); o > best {
			best = o
		}
	}
	if best >= d.config.PeerOverlapThreshold {
		return &Detection{
			Type:       TypeHerding,
			Confidence: math.Min(0.9, 0.5+best/2),
			Evidence:   fmt.Sprintf("unanimous %s across %d peers with %.0f%% keyword overlap", in.Action, len(in.Peers), best*100),
			Severity:   SeverityHigh,
		}
	}
	return nil
}

func (d *Detector) detectLossAversion(in Input, lower string, tokens []string) *Detection {
	avoid, hits := lexicon.CountSet(lower, tokens, lexicon.LossAvoidancePhrases)
	seek, _ := lexicon.CountSet(lower, tokens, lexicon.GainSeekingPhrases)

	if avoid >= d.config.LossAversionMinPhrases && seek <= 1 {
		return &Detection{
			Type:       TypeLossAversion,
			Confidence: math.Min(0.9, 0.55+0.08*float64(avoid)),
			Evidence:   fmt.Sprintf("%d loss-avoidance references against %d gain-seeking", avoid, seek),
			Severity:   SeverityMedium,
			Triggers:   hits,
		}
	}

	// Disposition effect: selling the winner while a loser stays on the book.
	if in.Action == decision.ActionSell && in.Portfolio != nil {
		var sellingWinner bool
		var holdingLoser bool
		for _, pos := range in.Portfolio.Positions {
			if strings.Contains(in.Text, pos.Symbol) && pos.UnrealizedPL > 0 {
				sellingWinner = true
			}
			if pos.UnrealizedPL < 0 && !strings.Contains(in.Text, pos.Symbol) {
				holdingLoser = true
			}
		}
		if sellingWinner && holdingLoser {
			return &Detection{
				Type:       TypeLossAversion,
				Confidence: 0.75,
				Evidence:   "selling a winning position while a losing one stays untouched",
				Severity:   SeverityHigh,
			}
		}
	}
	return nil
}

// keywordOverlap is the Jaccard overlap of two token sets.
func keywordOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}
	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func positions(p *decision.PortfolioSnapshot) []decision.Position {
	if p == nil {
		return nil
	}
	out := make([]decision.Position, len(p.Positions))
	copy(out, p.Positions)
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func assessBias(score float64, count int, dominant Type) string {
	switch {
	case score >= 0.6:
		return fmt.Sprintf("heavily biased reasoning (%d findings, dominated by %s)", count, dominant)
	case score >= 0.3:
		return fmt.Sprintf("notable bias patterns present (%d findings, dominated by %s)", count, dominant)
	default:
		return fmt.Sprintf("mild bias indicators (%d finding(s))", count)
	}
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
