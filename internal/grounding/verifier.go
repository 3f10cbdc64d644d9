// Package grounding verifies extracted claims against the evidence snapshot
// that was actually in front of the author. Verification is pure and
// deterministic: identical inputs always yield identical verdicts.
package grounding

import (
	"fmt"
	"math"

	"github.com/moltapp/reasonscore/internal/claims"
	"github.com/moltapp/reasonscore/internal/decision"
)

// Status ranks how well a claim is supported by evidence.
type Status string

const (
	StatusGrounded     Status = "grounded"
	StatusInferred     Status = "inferred"
	StatusEmbellished  Status = "embellished"
	StatusUngrounded   Status = "ungrounded"
	StatusHallucinated Status = "hallucinated"
)

// statusWeights feed the aggregate grounding score. Fixed lookup, not tuned
// at runtime.
var statusWeights = map[Status]float64{
	StatusGrounded:     1.0,
	StatusInferred:     0.7,
	StatusEmbellished:  0.4,
	StatusUngrounded:   0.1,
	StatusHallucinated: 0.0,
}

// Weight returns the aggregate weight of a status.
func (s Status) Weight() float64 {
	return statusWeights[s]
}

// Verification is the verdict for a single claim.
type Verification struct {
	Claim       claims.Claim `json:"claim"`
	Status      Status       `json:"status"`
	Confidence  float64      `json:"confidence"`
	Explanation string       `json:"explanation"`
	GroundTruth *float64     `json:"ground_truth,omitempty"`
}

// Result aggregates verdicts for one reasoning text.
type Result struct {
	GroundingScore float64        `json:"grounding_score"`
	StatusCounts   map[Status]int `json:"status_counts"`
	Verifications  []Verification `json:"verifications"`
	Assessment     string         `json:"assessment"`
}

// Config carries the verification tolerances. The defaults are empirical
// constants; override rather than re-derive.
type Config struct {
	PriceGroundedTolerance    float64 `yaml:"price_grounded_tolerance"`    // relative, 0.05 = 5%
	PriceEmbellishedTolerance float64 `yaml:"price_embellished_tolerance"` // relative, 0.20 = 20%
	ChangeGroundedPoints      float64 `yaml:"change_grounded_points"`      // absolute percentage points
	ChangeEmbellishedPoints   float64 `yaml:"change_embellished_points"`
	NeutralScore              float64 `yaml:"neutral_score"` // score when text makes no claims
}

// DefaultConfig returns production verification tolerances.
func DefaultConfig() *Config {
	return &Config{
		PriceGroundedTolerance:    0.05,
		PriceEmbellishedTolerance: 0.20,
		ChangeGroundedPoints:      1.0,
		ChangeEmbellishedPoints:   3.0,
		NeutralScore:              0.8,
	}
}

// Verifier checks claims against an evidence context.
type Verifier struct {
	config *Config
}

// NewVerifier creates a verifier. A nil config selects defaults.
func NewVerifier(config *Config) *Verifier {
	if config == nil {
		config = DefaultConfig()
	}
	return &Verifier{config: config}
}

// Verify produces the verdict for a single claim.
func (v *Verifier) Verify(c claims.Claim, ev decision.EvidenceContext, cited []decision.SourceCategory) Verification {
	switch c.Type {
	case claims.TypePrice:
		return v.verifyPrice(c, ev)
	case claims.TypePercentage:
		return v.verifyPercentage(c, ev)
	case claims.TypeVolume:
		return v.verifyVolume(c, ev, cited)
	case claims.TypeNews:
		return v.verifyNews(c, ev, cited)
	case claims.TypeTrend:
		return v.verifyTrend(c, ev, cited)
	case claims.TypeTechnical:
		return v.verifyQualitative(c, ev, cited, decision.SourceTechnicals, "technical data")
	case claims.TypeComparison:
		return v.verifyQualitative(c, ev, cited, decision.SourcePriceData, "comparative price data")
	default:
		return Verification{
			Claim:       c,
			Status:      StatusUngrounded,
			Confidence:  0.5,
			Explanation: fmt.Sprintf("unrecognized claim type %q", c.Type),
		}
	}
}

// Assess verifies every claim and aggregates a grounding score. Zero claims
// is a normal result and resolves to the neutral default.
func (v *Verifier) Assess(cs []claims.Claim, ev decision.EvidenceContext, cited []decision.SourceCategory) *Result {
	res := &Result{
		StatusCounts: make(map[Status]int),
	}
	if len(cs) == 0 {
		res.GroundingScore = v.config.NeutralScore
		res.Assessment = "no verifiable claims made; neutral grounding assumed"
		return res
	}

	var weighted, totalConf float64
	for _, c := range cs {
		ver := v.Verify(c, ev, cited)
		res.Verifications = append(res.Verifications, ver)
		res.StatusCounts[ver.Status]++
		weighted += ver.Confidence * ver.Status.Weight()
		totalConf += ver.Confidence
	}
	if totalConf > 0 {
		res.GroundingScore = weighted / totalConf
	}
	res.GroundingScore = clamp01(res.GroundingScore)
	res.Assessment = assessGrounding(res.GroundingScore, res.StatusCounts)
	return res
}

func (v *Verifier) verifyPrice(c claims.Claim, ev decision.EvidenceContext) Verification {
	ver := Verification{Claim: c}

	se, ok := ev.Symbols[c.Symbol]
	if !ok || c.Symbol == "" {
		ver.Status = StatusUngrounded
		ver.Confidence = 0.6
		ver.Explanation = fmt.Sprintf("no evidence was available for %q", c.Symbol)
		return ver
	}
	ver.GroundTruth = ptr(se.Price)

	if c.Value == nil || se.Price == 0 {
		ver.Status = StatusInferred
		ver.Confidence = 0.6
		ver.Explanation = "price claim could not be compared numerically"
		return ver
	}

	deviation := math.Abs(*c.Value-se.Price) / se.Price
	switch {
	case deviation <= v.config.PriceGroundedTolerance:
		ver.Status = StatusGrounded
		ver.Confidence = 0.95
		ver.Explanation = fmt.Sprintf("claimed %.2f vs actual %.2f (%.1f%% off)", *c.Value, se.Price, deviation*100)
	case deviation <= v.config.PriceEmbellishedTolerance:
		ver.Status = StatusEmbellished
		ver.Confidence = 0.8
		ver.Explanation = fmt.Sprintf("claimed %.2f deviates %.1f%% from actual %.2f", *c.Value, deviation*100, se.Price)
	default:
		ver.Status = StatusHallucinated
		ver.Confidence = 0.9
		ver.Explanation = fmt.Sprintf("claimed %.2f is %.0f%% away from actual %.2f", *c.Value, deviation*100, se.Price)
	}
	return ver
}

func (v *Verifier) verifyPercentage(c claims.Claim, ev decision.EvidenceContext) Verification {
	ver := Verification{Claim: c}

	se, ok := ev.Symbols[c.Symbol]
	if !ok || c.Symbol == "" {
		ver.Status = StatusUngrounded
		ver.Confidence = 0.6
		ver.Explanation = fmt.Sprintf("no evidence was available for %q", c.Symbol)
		return ver
	}

	// Symbol known but change unknown is weaker than fabrication: the author
	// may be inferring from data we did not snapshot.
	if se.Change24h == nil || c.Value == nil {
		ver.Status = StatusInferred
		ver.Confidence = 0.65
		ver.Explanation = fmt.Sprintf("24h change for %s was unknown at decision time", c.Symbol)
		return ver
	}
	ver.GroundTruth = ptr(*se.Change24h)

	deviation := math.Abs(*c.Value - *se.Change24h)
	switch {
	case deviation <= v.config.ChangeGroundedPoints:
		ver.Status = StatusGrounded
		ver.Confidence = 0.95
		ver.Explanation = fmt.Sprintf("claimed %+.1f%% vs actual %+.1f%%", *c.Value, *se.Change24h)
	case deviation <= v.config.ChangeEmbellishedPoints:
		ver.Status = StatusEmbellished
		ver.Confidence = 0.8
		ver.Explanation = fmt.Sprintf("claimed %+.1f%% overstates actual %+.1f%% by %.1f points", *c.Value, *se.Change24h, deviation)
	default:
		ver.Status = StatusHallucinated
		ver.Confidence = 0.9
		ver.Explanation = fmt.Sprintf("claimed %+.1f%% bears no relation to actual %+.1f%%", *c.Value, *se.Change24h)
	}
	return ver
}

func (v *Verifier) verifyVolume(c claims.Claim, ev decision.EvidenceContext, cited []decision.SourceCategory) Verification {
	ver := Verification{Claim: c}

	se, ok := ev.Symbols[c.Symbol]
	switch {
	case ok && se.Volume24h != nil:
		ver.Status = StatusGrounded
		ver.Confidence = 0.85
		ver.Explanation = fmt.Sprintf("volume data for %s was in evidence", c.Symbol)
		ver.GroundTruth = ptr(*se.Volume24h)
	case ok:
		ver.Status = StatusInferred
		ver.Confidence = 0.65
		ver.Explanation = fmt.Sprintf("%s was in evidence but volume was not snapshotted", c.Symbol)
	case citedSource(cited, decision.SourcePriceData) && ev.SourceAvailable(decision.SourcePriceData):
		ver.Status = StatusInferred
		ver.Confidence = 0.6
		ver.Explanation = "author cited price data, which carries volume"
	default:
		ver.Status = StatusUngrounded
		ver.Confidence = 0.6
		ver.Explanation = fmt.Sprintf("no volume evidence existed for %q", c.Symbol)
	}
	return ver
}

func (v *Verifier) verifyNews(c claims.Claim, ev decision.EvidenceContext, cited []decision.SourceCategory) Verification {
	ver := Verification{Claim: c}

	se, ok := ev.Symbols[c.Symbol]
	newsCited := citedSource(cited, decision.SourceMarketNews) && ev.SourceAvailable(decision.SourceMarketNews)
	switch {
	case ok && se.HasNews:
		ver.Status = StatusGrounded
		ver.Confidence = 0.85
		ver.Explanation = fmt.Sprintf("news coverage for %s was in evidence", c.Symbol)
	case ok && newsCited:
		ver.Status = StatusInferred
		ver.Confidence = 0.65
		ver.Explanation = fmt.Sprintf("news feed was consulted but carried nothing on %s", c.Symbol)
	case ok:
		ver.Status = StatusUngrounded
		ver.Confidence = 0.7
		ver.Explanation = fmt.Sprintf("no news existed for %s at decision time", c.Symbol)
	default:
		ver.Status = StatusUngrounded
		ver.Confidence = 0.6
		ver.Explanation = fmt.Sprintf("no evidence was available for %q", c.Symbol)
	}
	return ver
}

func (v *Verifier) verifyTrend(c claims.Claim, ev decision.EvidenceContext, cited []decision.SourceCategory) Verification {
	ver := Verification{Claim: c}

	se, ok := ev.Symbols[c.Symbol]
	switch {
	case ok && se.Change24h != nil:
		ver.Status = StatusGrounded
		ver.Confidence = 0.8
		ver.Explanation = fmt.Sprintf("directional data for %s was in evidence", c.Symbol)
		ver.GroundTruth = ptr(*se.Change24h)
	case ok:
		ver.Status = StatusInferred
		ver.Confidence = 0.65
		ver.Explanation = fmt.Sprintf("%s was in evidence but without directional data", c.Symbol)
	case citedSource(cited, decision.SourceTechnicals) && ev.SourceAvailable(decision.SourceTechnicals):
		ver.Status = StatusInferred
		ver.Confidence = 0.6
		ver.Explanation = "author cited technical indicators for the trend call"
	default:
		ver.Status = StatusUngrounded
		ver.Confidence = 0.6
		ver.Explanation = fmt.Sprintf("no trend evidence existed for %q", c.Symbol)
	}
	return ver
}

func (v *Verifier) verifyQualitative(c claims.Claim, ev decision.EvidenceContext, cited []decision.SourceCategory, src decision.SourceCategory, label string) Verification {
	ver := Verification{Claim: c}

	srcOK := citedSource(cited, src) && ev.SourceAvailable(src)
	switch {
	case ev.HasSymbol(c.Symbol) && srcOK:
		ver.Status = StatusGrounded
		ver.Confidence = 0.8
		ver.Explanation = fmt.Sprintf("%s for %s was consulted and available", label, c.Symbol)
	case ev.HasSymbol(c.Symbol) || srcOK:
		ver.Status = StatusInferred
		ver.Confidence = 0.65
		ver.Explanation = fmt.Sprintf("partial support for the %s claim", c.Type)
	default:
		ver.Status = StatusUngrounded
		ver.Confidence = 0.6
		ver.Explanation = fmt.Sprintf("nothing in evidence supports the %s claim", c.Type)
	}
	return ver
}

func assessGrounding(score float64, counts map[Status]int) string {
	switch {
	case counts[StatusHallucinated] > 0:
		return fmt.Sprintf("contains %d fabricated claim(s); grounding %.2f", counts[StatusHallucinated], score)
	case score >= 0.9:
		return "claims are well grounded in the available evidence"
	case score >= 0.7:
		return "claims are mostly grounded with minor embellishment"
	case score >= 0.5:
		return "claims are partially grounded; several lack evidential support"
	default:
		return "claims are largely unsupported by the available evidence"
	}
}

func citedSource(cited []decision.SourceCategory, want decision.SourceCategory) bool {
	for _, c := range cited {
		if c == want {
			return true
		}
	}
	return false
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

func ptr(v float64) *float64 { return &v }
