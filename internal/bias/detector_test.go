package bias

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moltapp/reasonscore/internal/decision"
)

func findDetection(res *Result, t Type) *Detection {
	for i := range res.Detections {
		if res.Detections[i].Type == t {
			return &res.Detections[i]
		}
	}
	return nil
}

func TestDetect_CleanTextHasNoFindings(t *testing.T) {
	d := NewDetector(nil)

	res := d.Detect(Input{
		Text:       "The position looks reasonable given the earnings data, though it could retrace. Sizing stays small while the picture is uncertain.",
		Action:     decision.ActionBuy,
		Confidence: 0.6,
	})
	assert.Empty(t, res.Detections)
	assert.Equal(t, 0.0, res.BiasScore, "empty findings must mean a zero bias score")
	assert.Equal(t, 0, res.Count)
	assert.Empty(t, res.DominantBias)
}

func TestDetect_Overconfidence(t *testing.T) {
	d := NewDetector(nil)

	res := d.Detect(Input{
		Text:       "This is definitely the play. NVDA will certainly rip higher, gains are guaranteed at these levels.",
		Action:     decision.ActionBuy,
		Confidence: 0.95,
	})
	det := findDetection(res, TypeOverconfidence)
	require.NotNil(t, det, "expected an overconfidence finding, got %+v", res.Detections)
	assert.Contains(t, []Severity{SeverityMedium, SeverityHigh}, det.Severity)
	assert.Equal(t, SeverityHigh, det.Severity, "confidence above 0.9 escalates severity")
	assert.Greater(t, res.BiasScore, 0.0)
}

func TestDetect_OverconfidenceSuppressedByHedging(t *testing.T) {
	d := NewDetector(nil)

	res := d.Detect(Input{
		Text:       "This is definitely the play and certainly a strong setup for NVDA, though the market could disagree and the follow-through is quite uncertain, so the upside may take longer to arrive than the chart implies right now.",
		Action:     decision.ActionBuy,
		Confidence: 0.95,
	})
	assert.Nil(t, findDetection(res, TypeOverconfidence), "hedging language should suppress the finding")
}

func TestDetect_AnchoringOnRepeatedPrice(t *testing.T) {
	d := NewDetector(nil)

	res := d.Detect(Input{
		Text:       "Waiting for $150. If it hits $150 I buy, because $150 is the level everything turns on.",
		Action:     decision.ActionHold,
		Confidence: 0.5,
	})
	det := findDetection(res, TypeAnchoring)
	require.NotNil(t, det)
	assert.Contains(t, det.Evidence, "$150")
}

func TestDetect_AnchoringSymbolFixation(t *testing.T) {
	d := NewDetector(nil)

	ev := decision.EvidenceContext{Symbols: map[string]decision.SymbolEvidence{
		"AAPL": {Price: 178}, "TSLA": {Price: 250}, "NVDA": {Price: 100}, "MSFT": {Price: 410},
	}}
	res := d.Detect(Input{
		Text:       "TSLA looks ready. TSLA has the setup and TSLA remains the only name worth watching.",
		Action:     decision.ActionBuy,
		Confidence: 0.6,
		Evidence:   ev,
	})
	det := findDetection(res, TypeAnchoring)
	require.NotNil(t, det)
	assert.Equal(t, SeverityLow, det.Severity)
}

func TestDetect_ConfirmationBias(t *testing.T) {
	d := NewDetector(nil)

	change := -8.0
	res := d.Detect(Input{
		Text:       "NVDA is bullish: undervalued, a clean breakout, strong fundamentals and huge upside.",
		Action:     decision.ActionBuy,
		Confidence: 0.7,
		Evidence: decision.EvidenceContext{Symbols: map[string]decision.SymbolEvidence{
			"NVDA": {Price: 100, Change24h: &change},
		}},
	})
	det := findDetection(res, TypeConfirmation)
	require.NotNil(t, det)
	assert.Equal(t, SeverityHigh, det.Severity, "contradicting evidence escalates severity")
}

func TestDetect_RecencyBias(t *testing.T) {
	d := NewDetector(nil)

	res := d.Detect(Input{
		Text:       "Breaking headlines today: the latest move just announced this morning changes everything.",
		Action:     decision.ActionBuy,
		Confidence: 0.6,
	})
	det := findDetection(res, TypeRecency)
	require.NotNil(t, det)

	// The same text with long-horizon framing is not a finding.
	balanced := d.Detect(Input{
		Text:       "Breaking headlines today: the latest move just announced this morning, but the long term fundamentals are unchanged.",
		Action:     decision.ActionBuy,
		Confidence: 0.6,
	})
	assert.Nil(t, findDetection(balanced, TypeRecency))
}

func TestDetect_SunkCostOnLosingPosition(t *testing.T) {
	d := NewDetector(nil)

	res := d.Detect(Input{
		Text:       "I am already invested in GMEx, so averaging down here makes sense to break even faster.",
		Action:     decision.ActionBuy,
		Confidence: 0.6,
		Portfolio: &decision.PortfolioSnapshot{
			Positions: []decision.Position{{Symbol: "GMEx", Quantity: 10, AvgCost: 25, UnrealizedPL: -120}},
		},
	})
	det := findDetection(res, TypeSunkCost)
	require.NotNil(t, det)
	assert.Equal(t, SeverityHigh, det.Severity)
}

func TestDetect_HerdingViaPeers(t *testing.T) {
	d := NewDetector(nil)

	shared := "buying NVDA because the breakout volume confirms institutional accumulation today"
	res := d.Detect(Input{
		Text:       shared,
		Action:     decision.ActionBuy,
		Confidence: 0.6,
		Peers: []decision.PeerDecision{
			{AgentID: "a2", Action: decision.ActionBuy, Reasoning: shared},
			{AgentID: "a3", Action: decision.ActionBuy, Reasoning: "buying NVDA because breakout volume confirms accumulation"},
		},
	})
	det := findDetection(res, TypeHerding)
	require.NotNil(t, det)
	assert.Equal(t, SeverityHigh, det.Severity)

	// Divergent peer actions break the pattern.
	split := d.Detect(Input{
		Text:       shared,
		Action:     decision.ActionBuy,
		Confidence: 0.6,
		Peers: []decision.PeerDecision{
			{AgentID: "a2", Action: decision.ActionSell, Reasoning: shared},
			{AgentID: "a3", Action: decision.ActionBuy, Reasoning: shared},
		},
	})
	assert.Nil(t, findDetection(split, TypeHerding))
}

func TestDetect_LossAversionDisposition(t *testing.T) {
	d := NewDetector(nil)

	res := d.Detect(Input{
		Text:       "Selling AAPL here to bank the move.",
		Action:     decision.ActionSell,
		Confidence: 0.6,
		Portfolio: &decision.PortfolioSnapshot{
			Positions: []decision.Position{
				{Symbol: "AAPL", UnrealizedPL: 300},
				{Symbol: "GMEx", UnrealizedPL: -450},
			},
		},
	})
	det := findDetection(res, TypeLossAversion)
	require.NotNil(t, det)
	assert.Equal(t, SeverityHigh, det.Severity)
}

func TestDetect_BiasScoreMonotoneInFindings(t *testing.T) {
	d := NewDetector(nil)

	one := d.Detect(Input{
		Text:       "This is definitely certain, guaranteed to work.",
		Action:     decision.ActionBuy,
		Confidence: 0.95,
	})
	several := d.Detect(Input{
		Text:       "This is definitely certain, guaranteed to work. Everyone is piling in today after the breaking news just announced this morning with the latest momentum.",
		Action:     decision.ActionBuy,
		Confidence: 0.95,
	})
	require.NotEmpty(t, one.Detections)
	require.Greater(t, several.Count, one.Count)
	assert.Greater(t, several.BiasScore, one.BiasScore)
	assert.LessOrEqual(t, several.BiasScore, 1.0)
}

func TestDetect_Deterministic(t *testing.T) {
	d := NewDetector(nil)
	in := Input{
		Text:       "Definitely certain and guaranteed. Everyone is buying today.",
		Action:     decision.ActionBuy,
		Confidence: 0.92,
	}
	a := d.Detect(in)
	b := d.Detect(in)
	assert.Equal(t, a, b)
}
