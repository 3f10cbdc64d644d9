package lexicon

// Phrase sets consumed by the bias detectors. Plain word lists rather than
// weighted patterns: the detectors derive confidence from counts, not weights.

// RecencyPhrases mark fixation on the newest information.
var RecencyPhrases = []string{
	"just now",
	"just announced",
	"this morning",
	"in the last hour",
	"moments ago",
	"breaking",
	"latest",
	"today",
	"recent",
	"recently",
}

// LongHorizonPhrases are the counterweight to recency fixation.
var LongHorizonPhrases = []string{
	"long term",
	"long-term",
	"historically",
	"over the years",
	"fundamental",
	"fundamentals",
	"structural",
	"secular",
	"multi-year",
}

// SunkCostPhrases mark commitment to a position because of what was already
// spent on it.
var SunkCostPhrases = []string{
	"already invested",
	"already committed",
	"too deep to exit",
	"average down",
	"averaging down",
	"make back",
	"recoup",
	"break even",
	"can't sell now",
	"come this far",
}

// CertaintyPhrases mark absolute conviction.
var CertaintyPhrases = []string{
	"definitely",
	"certainly",
	"guaranteed",
	"no doubt",
	"without question",
	"sure thing",
	"obviously",
	"clearly",
	"always",
	"never fails",
	"can't lose",
}

// HedgingPhrases mark calibrated uncertainty; their absence is what makes
// certainty language a finding.
var HedgingPhrases = []string{
	"might",
	"may",
	"could",
	"possibly",
	"perhaps",
	"likely",
	"appears",
	"seems",
	"uncertain",
	"not sure",
	"risky",
}

// HerdingPhrases mark explicit deference to the crowd.
var HerdingPhrases = []string{
	"everyone is",
	"everyone else",
	"other agents",
	"others are",
	"consensus",
	"the crowd",
	"following the",
	"most traders",
	"popular trade",
	"piling in",
}

// LossAvoidancePhrases mark framing centered on not losing.
var LossAvoidancePhrases = []string{
	"avoid losing",
	"avoid a loss",
	"protect",
	"preserve",
	"don't want to lose",
	"afraid of losing",
	"play it safe",
	"minimize loss",
	"minimize losses",
	"capital preservation",
	"cut losses",
}

// GainSeekingPhrases are the counterweight to loss avoidance.
var GainSeekingPhrases = []string{
	"upside",
	"opportunity",
	"profit potential",
	"growth",
	"reward",
	"gain",
	"gains",
	"capture",
}
