package decision

import "fmt"

// Action is the trade direction an agent committed to.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// ParseAction validates a raw action string from an external caller.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionBuy, ActionSell, ActionHold:
		return Action(s), nil
	default:
		return "", fmt.Errorf("invalid action %q: must be buy, sell, or hold", s)
	}
}

// Intent is the declared strategy behind a decision. Fixed six-value set.
type Intent string

const (
	IntentMomentum    Intent = "momentum"
	IntentValue       Intent = "value"
	IntentContrarian  Intent = "contrarian"
	IntentHedge       Intent = "hedge"
	IntentRebalance   Intent = "rebalance"
	IntentSpeculation Intent = "speculation"
)

// ParseIntent validates a raw intent string.
func ParseIntent(s string) (Intent, error) {
	switch Intent(s) {
	case IntentMomentum, IntentValue, IntentContrarian, IntentHedge, IntentRebalance, IntentSpeculation:
		return Intent(s), nil
	default:
		return "", fmt.Errorf("invalid intent %q", s)
	}
}

// SourceCategory names a class of information an agent may consult.
type SourceCategory string

const (
	SourcePriceData      SourceCategory = "price_data"
	SourceMarketNews     SourceCategory = "market_news"
	SourceTechnicals     SourceCategory = "technical_indicators"
	SourceFundamentals   SourceCategory = "fundamentals"
	SourceSocial         SourceCategory = "social_sentiment"
	SourcePortfolioState SourceCategory = "portfolio_state"
)

// SymbolEvidence is the ground truth snapshot for one symbol at decision time.
// Nil Change24h/Volume24h means the value was unknown when the snapshot was
// taken; a symbol missing from the context entirely means no data was
// available at all.
type SymbolEvidence struct {
	Price     float64  `json:"price"`
	Change24h *float64 `json:"change_24h,omitempty"`
	Volume24h *float64 `json:"volume_24h,omitempty"`
	HasNews   bool     `json:"has_news"`
}

// EvidenceContext is everything that was actually put in front of the agent
// when it wrote its reasoning. Read-only for the scorers.
type EvidenceContext struct {
	Symbols          map[string]SymbolEvidence `json:"symbols"`
	AvailableSources []SourceCategory          `json:"available_sources"`
}

// HasSymbol reports whether any evidence existed for sym.
func (e EvidenceContext) HasSymbol(sym string) bool {
	_, ok := e.Symbols[sym]
	return ok
}

// SourceAvailable reports whether a source category was offered to the agent.
func (e EvidenceContext) SourceAvailable(c SourceCategory) bool {
	for _, s := range e.AvailableSources {
		if s == c {
			return true
		}
	}
	return false
}

// Position is one holding inside a portfolio snapshot.
type Position struct {
	Symbol       string  `json:"symbol"`
	Quantity     float64 `json:"quantity"`
	AvgCost      float64 `json:"avg_cost"`
	UnrealizedPL float64 `json:"unrealized_pl"`
}

// PortfolioSnapshot is the agent's book at decision time.
type PortfolioSnapshot struct {
	Cash       float64    `json:"cash"`
	TotalValue float64    `json:"total_value"`
	Positions  []Position `json:"positions"`
}

// PositionFor returns the position held in sym, if any.
func (p *PortfolioSnapshot) PositionFor(sym string) (Position, bool) {
	if p == nil {
		return Position{}, false
	}
	for _, pos := range p.Positions {
		if pos.Symbol == sym {
			return pos, true
		}
	}
	return Position{}, false
}

// PeerDecision is another agent's decision in the same round, used by the
// herding detector.
type PeerDecision struct {
	AgentID    string  `json:"agent_id"`
	Action     Action  `json:"action"`
	Symbol     string  `json:"symbol"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}
