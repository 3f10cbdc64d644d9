package lexicon

// Structural dimension categories. Each table feeds exactly one dimension
// scorer in the structural analyzer; matched weights are summed and clamped.
const (
	CategoryLogic          = "logic"
	CategoryEvidence       = "evidence"
	CategoryRisk           = "risk"
	CategoryTimeHorizon    = "time_horizon"
	CategoryCounterfactual = "counterfactual"
	CategoryRigor          = "rigor"
)

// LogicMarkers reward explicit causal and inferential structure.
var LogicMarkers = []SignalPattern{
	{Pattern: "because", Weight: 0.25, Category: CategoryLogic},
	{Pattern: "therefore", Weight: 0.30, Category: CategoryLogic},
	{Pattern: "as a result", Weight: 0.30, Category: CategoryLogic},
	{Pattern: "consequently", Weight: 0.30, Category: CategoryLogic},
	{Pattern: "it follows that", Weight: 0.30, Category: CategoryLogic},
	{Pattern: "which means", Weight: 0.25, Category: CategoryLogic},
	{Pattern: "due to", Weight: 0.25, Category: CategoryLogic},
	{Pattern: "given that", Weight: 0.25, Category: CategoryLogic},
	{Pattern: "this suggests", Weight: 0.25, Category: CategoryLogic},
	{Pattern: "leads to", Weight: 0.25, Category: CategoryLogic},
	{Pattern: "since", Weight: 0.20, Category: CategoryLogic},
	{Pattern: "implies", Weight: 0.20, Category: CategoryLogic},
}

// EvidenceMarkers reward appeals to data. The analyzer additionally counts
// numeric tokens and cross-references symbols present in the evidence context.
var EvidenceMarkers = []SignalPattern{
	{Pattern: "data shows", Weight: 0.35, Category: CategoryEvidence},
	{Pattern: "according to", Weight: 0.30, Category: CategoryEvidence},
	{Pattern: "the numbers", Weight: 0.25, Category: CategoryEvidence},
	{Pattern: "earnings", Weight: 0.25, Category: CategoryEvidence},
	{Pattern: "historically", Weight: 0.25, Category: CategoryEvidence},
	{Pattern: "reported", Weight: 0.20, Category: CategoryEvidence},
	{Pattern: "indicates", Weight: 0.20, Category: CategoryEvidence},
	{Pattern: "volume", Weight: 0.20, Category: CategoryEvidence},
	{Pattern: "chart", Weight: 0.15, Category: CategoryEvidence},
	{Pattern: "price action", Weight: 0.15, Category: CategoryEvidence},
}

// RiskMarkers reward acknowledging what can go wrong.
var RiskMarkers = []SignalPattern{
	{Pattern: "worst case", Weight: 0.35, Category: CategoryRisk},
	{Pattern: "drawdown", Weight: 0.30, Category: CategoryRisk},
	{Pattern: "stop loss", Weight: 0.30, Category: CategoryRisk},
	{Pattern: "could fail", Weight: 0.30, Category: CategoryRisk},
	{Pattern: "risk", Weight: 0.25, Category: CategoryRisk},
	{Pattern: "downside", Weight: 0.25, Category: CategoryRisk},
	{Pattern: "exposure", Weight: 0.25, Category: CategoryRisk},
	{Pattern: "hedge", Weight: 0.25, Category: CategoryRisk},
	{Pattern: "uncertainty", Weight: 0.25, Category: CategoryRisk},
	{Pattern: "volatile", Weight: 0.20, Category: CategoryRisk},
	{Pattern: "volatility", Weight: 0.20, Category: CategoryRisk},
}

// TimeHorizonMarkers reward an explicit holding-period frame.
var TimeHorizonMarkers = []SignalPattern{
	{Pattern: "time horizon", Weight: 0.35, Category: CategoryTimeHorizon},
	{Pattern: "short term", Weight: 0.35, Category: CategoryTimeHorizon},
	{Pattern: "long term", Weight: 0.35, Category: CategoryTimeHorizon},
	{Pattern: "short-term", Weight: 0.35, Category: CategoryTimeHorizon},
	{Pattern: "long-term", Weight: 0.35, Category: CategoryTimeHorizon},
	{Pattern: "near term", Weight: 0.30, Category: CategoryTimeHorizon},
	{Pattern: "over the next", Weight: 0.30, Category: CategoryTimeHorizon},
	{Pattern: "in the coming", Weight: 0.30, Category: CategoryTimeHorizon},
	{Pattern: "this quarter", Weight: 0.25, Category: CategoryTimeHorizon},
	{Pattern: "weeks", Weight: 0.20, Category: CategoryTimeHorizon},
	{Pattern: "months", Weight: 0.20, Category: CategoryTimeHorizon},
	{Pattern: "days", Weight: 0.15, Category: CategoryTimeHorizon},
}

// CounterfactualMarkers reward considering the road not taken.
var CounterfactualMarkers = []SignalPattern{
	{Pattern: "on the other hand", Weight: 0.35, Category: CategoryCounterfactual},
	{Pattern: "alternatively", Weight: 0.35, Category: CategoryCounterfactual},
	{Pattern: "would have", Weight: 0.30, Category: CategoryCounterfactual},
	{Pattern: "unless", Weight: 0.30, Category: CategoryCounterfactual},
	{Pattern: "scenario", Weight: 0.30, Category: CategoryCounterfactual},
	{Pattern: "if instead", Weight: 0.30, Category: CategoryCounterfactual},
	{Pattern: "however", Weight: 0.25, Category: CategoryCounterfactual},
	{Pattern: "in case", Weight: 0.25, Category: CategoryCounterfactual},
	{Pattern: "otherwise", Weight: 0.25, Category: CategoryCounterfactual},
	{Pattern: "even if", Weight: 0.25, Category: CategoryCounterfactual},
	{Pattern: "if", Weight: 0.10, Category: CategoryCounterfactual},
}

// RigorMarkers reward quantitative discipline. Numeric and percentage tokens
// are counted separately by the analyzer.
var RigorMarkers = []SignalPattern{
	{Pattern: "standard deviation", Weight: 0.35, Category: CategoryRigor},
	{Pattern: "expected value", Weight: 0.35, Category: CategoryRigor},
	{Pattern: "probability", Weight: 0.30, Category: CategoryRigor},
	{Pattern: "correlation", Weight: 0.30, Category: CategoryRigor},
	{Pattern: "basis points", Weight: 0.30, Category: CategoryRigor},
	{Pattern: "ratio", Weight: 0.25, Category: CategoryRigor},
	{Pattern: "average", Weight: 0.20, Category: CategoryRigor},
	{Pattern: "median", Weight: 0.20, Category: CategoryRigor},
	{Pattern: "percentile", Weight: 0.20, Category: CategoryRigor},
}
