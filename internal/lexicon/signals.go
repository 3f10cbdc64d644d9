package lexicon

// Sentiment categories used by the coherence scorer.
const (
	CategoryBullish = "bullish"
	CategoryBearish = "bearish"
	CategoryNeutral = "neutral"
)

// Bullish signals. Weights reflect how strongly a phrase commits the author
// to upside, not how often it appears in practice.
var Bullish = []SignalPattern{
	{Pattern: "bullish", Weight: 1.0, Category: CategoryBullish},
	{Pattern: "undervalued", Weight: 0.9, Category: CategoryBullish},
	{Pattern: "buying opportunity", Weight: 0.9, Category: CategoryBullish},
	{Pattern: "breakout", Weight: 0.8, Category: CategoryBullish},
	{Pattern: "strong fundamentals", Weight: 0.8, Category: CategoryBullish},
	{Pattern: "uptrend", Weight: 0.8, Category: CategoryBullish},
	{Pattern: "beat expectations", Weight: 0.8, Category: CategoryBullish},
	{Pattern: "upside", Weight: 0.7, Category: CategoryBullish},
	{Pattern: "rally", Weight: 0.7, Category: CategoryBullish},
	{Pattern: "outperform", Weight: 0.7, Category: CategoryBullish},
	{Pattern: "accumulate", Weight: 0.7, Category: CategoryBullish},
	{Pattern: "growth", Weight: 0.6, Category: CategoryBullish},
	{Pattern: "oversold", Weight: 0.6, Category: CategoryBullish},
	{Pattern: "surging", Weight: 0.6, Category: CategoryBullish},
	{Pattern: "positive momentum", Weight: 0.6, Category: CategoryBullish},
	{Pattern: "catalyst", Weight: 0.5, Category: CategoryBullish},
}

// Bearish signals.
var Bearish = []SignalPattern{
	{Pattern: "bearish", Weight: 1.0, Category: CategoryBearish},
	{Pattern: "overvalued", Weight: 0.9, Category: CategoryBearish},
	{Pattern: "selling pressure", Weight: 0.8, Category: CategoryBearish},
	{Pattern: "downtrend", Weight: 0.8, Category: CategoryBearish},
	{Pattern: "breakdown", Weight: 0.8, Category: CategoryBearish},
	{Pattern: "downside", Weight: 0.7, Category: CategoryBearish},
	{Pattern: "selloff", Weight: 0.7, Category: CategoryBearish},
	{Pattern: "deteriorating", Weight: 0.7, Category: CategoryBearish},
	{Pattern: "bubble", Weight: 0.7, Category: CategoryBearish},
	{Pattern: "missed expectations", Weight: 0.7, Category: CategoryBearish},
	{Pattern: "losing momentum", Weight: 0.7, Category: CategoryBearish},
	{Pattern: "overbought", Weight: 0.6, Category: CategoryBearish},
	{Pattern: "correction", Weight: 0.6, Category: CategoryBearish},
	{Pattern: "headwinds", Weight: 0.6, Category: CategoryBearish},
	{Pattern: "declining", Weight: 0.6, Category: CategoryBearish},
	{Pattern: "weakness", Weight: 0.5, Category: CategoryBearish},
}

// Neutral signals, used mainly to justify holds.
var Neutral = []SignalPattern{
	{Pattern: "sideways", Weight: 0.7, Category: CategoryNeutral},
	{Pattern: "range-bound", Weight: 0.7, Category: CategoryNeutral},
	{Pattern: "wait and see", Weight: 0.7, Category: CategoryNeutral},
	{Pattern: "mixed signals", Weight: 0.6, Category: CategoryNeutral},
	{Pattern: "uncertain", Weight: 0.6, Category: CategoryNeutral},
	{Pattern: "no clear direction", Weight: 0.6, Category: CategoryNeutral},
	{Pattern: "consolidating", Weight: 0.6, Category: CategoryNeutral},
	{Pattern: "unclear", Weight: 0.5, Category: CategoryNeutral},
	{Pattern: "stable", Weight: 0.5, Category: CategoryNeutral},
	{Pattern: "balanced", Weight: 0.5, Category: CategoryNeutral},
	{Pattern: "fairly valued", Weight: 0.5, Category: CategoryNeutral},
}

// RiskManagement phrases justify a hold even when sentiment runs one-sided,
// and feed the structural risk dimension indirectly.
var RiskManagement = []string{
	"risk management",
	"stop loss",
	"position sizing",
	"limit exposure",
	"preserve capital",
	"manage risk",
	"reduce exposure",
	"waiting for confirmation",
	"too risky",
}

// ContrarianBuy phrases excuse a buy against bearish text: deliberate
// mean-reversion entries read bearish on the surface.
var ContrarianBuy = []string{
	"contrarian",
	"mean reversion",
	"buy the dip",
	"oversold",
	"capitulation",
	"priced in",
	"value opportunity",
	"market overreaction",
}

// ProfitTakingSell phrases excuse a sell against bullish text: taking gains
// off a winner reads bullish on the surface.
var ProfitTakingSell = []string{
	"take profit",
	"taking profits",
	"lock in gains",
	"locking in",
	"rebalance",
	"rebalancing",
	"overextended",
	"trim the position",
	"reduce the position",
}
