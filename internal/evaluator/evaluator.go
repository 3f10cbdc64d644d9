// Package evaluator wires the individual scorers into one pass over a
// decision and feeds the running per-agent score book. It owns the only
// mutable state in the system: the score book and the bounded per-agent
// history used for originality comparison.
package evaluator

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/moltapp/reasonscore/internal/bias"
	"github.com/moltapp/reasonscore/internal/claims"
	"github.com/moltapp/reasonscore/internal/coherence"
	"github.com/moltapp/reasonscore/internal/decision"
	"github.com/moltapp/reasonscore/internal/grounding"
	"github.com/moltapp/reasonscore/internal/lexicon"
	"github.com/moltapp/reasonscore/internal/registry"
	"github.com/moltapp/reasonscore/internal/structural"
)

// Dimension names used in registry weight maps.
const (
	DimGrounding      = "grounding"
	DimCoherence      = "coherence"
	DimStructure      = "structure"
	DimBiasResistance = "bias_resistance"
	DimOriginality    = "originality"
	DimPerformance    = "performance"
)

// DefaultVersion is the scoring version used when a request names none.
const DefaultVersion = "v1"

// DefaultHistorySize bounds the per-agent text buffer used for originality.
const DefaultHistorySize = 10

// Request carries one decision to evaluate.
type Request struct {
	AgentID      string                      `json:"agent_id"`
	Text         string                      `json:"reasoning"`
	Action       decision.Action             `json:"action"`
	Intent       decision.Intent             `json:"intent,omitempty"`
	Confidence   float64                     `json:"confidence"`
	CitedSources []decision.SourceCategory   `json:"cited_sources,omitempty"`
	Evidence     decision.EvidenceContext    `json:"evidence"`
	Portfolio    *decision.PortfolioSnapshot `json:"portfolio,omitempty"`
	Peers        []decision.PeerDecision     `json:"peers,omitempty"`
	Version      string                      `json:"version,omitempty"`
	// Performance carries externally computed metric dimensions (P&L and
	// friends), already normalized to [0,1] by the caller.
	Performance map[string]float64 `json:"performance,omitempty"`
}

// Report is the full evaluation of one decision.
type Report struct {
	ID         string             `json:"id"`
	AgentID    string             `json:"agent_id"`
	Version    string             `json:"version"`
	Claims     []claims.Claim     `json:"claims"`
	Grounding  *grounding.Result  `json:"grounding"`
	Coherence  *coherence.Result  `json:"coherence"`
	Structural *structural.Result `json:"structural"`
	Bias       *bias.Result       `json:"bias"`
	// RecurringBias is set when the dominant bias of this decision already
	// dominated at least two of the agent's recent decisions.
	RecurringBias bias.Type           `json:"recurring_bias,omitempty"`
	Originality   float64             `json:"originality"`
	Dimensions    map[string]float64  `json:"dimensions"`
	Composite     registry.Composite  `json:"composite"`
	AgentScore    registry.AgentScore `json:"agent_score"`
	EvaluatedAt   time.Time           `json:"evaluated_at"`
}

// Evaluator runs the scoring pipeline. Scorers are stateless; the evaluator
// serializes only its own history writes.
type Evaluator struct {
	extractor *claims.Extractor
	verifier  *grounding.Verifier
	coherence *coherence.Scorer
	analyzer  *structural.Analyzer
	detector  *bias.Detector
	registry  *registry.Registry
	book      *registry.ScoreBook

	histMu      sync.Mutex
	history     map[string]*agentHistory
	historySize int

	defaultVersion string

	now func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithHistorySize overrides the per-agent originality buffer length.
func WithHistorySize(n int) Option {
	return func(e *Evaluator) { e.historySize = n }
}

// WithDefaultVersion overrides the scoring version applied to requests that
// name none.
func WithDefaultVersion(version string) Option {
	return func(e *Evaluator) {
		if version != "" {
			e.defaultVersion = version
		}
	}
}

// New builds an evaluator around an existing registry and score book with
// default scorer configurations.
func New(reg *registry.Registry, book *registry.ScoreBook, opts ...Option) (*Evaluator, error) {
	analyzer, err := structural.NewAnalyzer(nil)
	if err != nil {
		return nil, fmt.Errorf("structural analyzer: %w", err)
	}
	e := &Evaluator{
		extractor:      claims.NewExtractor(),
		verifier:       grounding.NewVerifier(nil),
		coherence:      coherence.NewScorer(nil),
		analyzer:       analyzer,
		detector:       bias.NewDetector(nil),
		registry:       reg,
		book:           book,
		history:        make(map[string]*agentHistory),
		historySize:    DefaultHistorySize,
		defaultVersion: DefaultVersion,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// FallbackVersion returns the scoring version applied to requests that name
// none.
func (e *Evaluator) FallbackVersion() string {
	return e.defaultVersion
}

// DefaultRegistry returns a registry pre-loaded with the production scoring
// versions. v2 re-weights every v1 dimension toward realized performance.
func DefaultRegistry() *registry.Registry {
	r := registry.NewRegistry()
	// Registrations of known-good tables cannot fail validation.
	must(r.Register("v1", map[string]float64{
		DimGrounding:      0.25,
		DimCoherence:      0.20,
		DimStructure:      0.20,
		DimBiasResistance: 0.15,
		DimOriginality:    0.10,
		DimPerformance:    0.10,
	}))
	must(r.Register("v2", map[string]float64{
		DimGrounding:      0.22,
		DimCoherence:      0.18,
		DimStructure:      0.18,
		DimBiasResistance: 0.14,
		DimOriginality:    0.08,
		DimPerformance:    0.20,
	}))
	return r
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Evaluate runs the full pipeline over one decision, updates the agent's
// running score, and returns the report. An unknown scoring version is a
// configuration error; noisy input text never is.
func (e *Evaluator) Evaluate(req Request) (*Report, error) {
	if req.AgentID == "" {
		return nil, fmt.Errorf("agent id must not be empty")
	}
	if _, err := decision.ParseAction(string(req.Action)); err != nil {
		return nil, err
	}
	if req.Intent != "" {
		if _, err := decision.ParseIntent(string(req.Intent)); err != nil {
			return nil, err
		}
	}
	version := req.Version
	if version == "" {
		version = e.defaultVersion
	}
	if _, err := e.registry.Weights(version); err != nil {
		return nil, err
	}

	extracted := e.extractor.Extract(req.Text)
	groundRes := e.verifier.Assess(extracted, req.Evidence, req.CitedSources)
	cohRes := e.coherence.Score(req.Text, req.Action)
	structRes := e.analyzer.Analyze(req.Text, req.Action, req.Confidence, &req.Evidence)
	biasRes := e.detector.Detect(bias.Input{
		Text:       req.Text,
		Action:     req.Action,
		Confidence: req.Confidence,
		Evidence:   req.Evidence,
		Peers:      req.Peers,
		Portfolio:  req.Portfolio,
	})
	originality := e.originality(req.AgentID, req.Text)
	recurring := e.recordBias(req.AgentID, biasRes.DominantBias)

	dims := map[string]float64{
		DimGrounding:      groundRes.GroundingScore,
		DimCoherence:      cohRes.Score,
		DimStructure:      structRes.OverallScore,
		DimBiasResistance: 1 - biasRes.BiasScore,
		DimOriginality:    originality,
	}
	for name, v := range req.Performance {
		dims[name] = v
	}

	composite, err := e.registry.Composite(dims, version)
	if err != nil {
		return nil, err
	}
	agentScore, err := e.book.Upsert(req.AgentID, version, dims, 1)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:            uuid.NewString(),
		AgentID:       req.AgentID,
		Version:       version,
		Claims:        extracted,
		Grounding:     groundRes,
		Coherence:     cohRes,
		Structural:    structRes,
		Bias:          biasRes,
		RecurringBias: recurring,
		Originality:   originality,
		Dimensions:    dims,
		Composite:     composite,
		AgentScore:    agentScore,
		EvaluatedAt:   e.now(),
	}

	log.Debug().
		Str("agent", req.AgentID).
		Str("version", version).
		Float64("composite", composite.Score).
		Int("claims", len(extracted)).
		Int("bias_findings", biasRes.Count).
		Msg("decision evaluated")

	return report, nil
}

// originality compares the text against the agent's recent reasoning and
// records it in the history ring. The first text an agent submits is fully
// original by definition.
func (e *Evaluator) originality(agentID, text string) float64 {
	tokens := lexicon.Tokenize(text)

	e.histMu.Lock()
	defer e.histMu.Unlock()
	ring := e.historyFor(agentID).texts
	prior := ring.snapshot()
	ring.push(text)

	if len(prior) == 0 || len(tokens) == 0 {
		return 1.0
	}
	worst := 0.0
	for _, p := range prior {
		if o := jaccard(tokens, lexicon.Tokenize(p)); o > worst {
			worst = o
		}
	}
	return 1 - worst
}

// recordBias notes the decision's dominant bias and reports it back when it
// already dominated at least two recent decisions by the same agent.
func (e *Evaluator) recordBias(agentID string, dominant bias.Type) bias.Type {
	if dominant == "" {
		return ""
	}
	e.histMu.Lock()
	defer e.histMu.Unlock()
	ring := e.historyFor(agentID).biases
	prior := ring.snapshot()
	ring.push(string(dominant))

	seen := 0
	for _, p := range prior {
		if p == string(dominant) {
			seen++
		}
	}
	if seen >= 2 {
		return dominant
	}
	return ""
}

// historyFor returns the agent's history, creating it on first use. Callers
// hold histMu.
func (e *Evaluator) historyFor(agentID string) *agentHistory {
	h, ok := e.history[agentID]
	if !ok {
		h = newAgentHistory(e.historySize)
		e.history[agentID] = h
	}
	return h
}

func jaccard(a, b []string) float64 {
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
