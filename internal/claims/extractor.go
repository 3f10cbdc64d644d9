// Package claims extracts verifiable factual assertions from free-text
// reasoning. Extraction is pure pattern matching: the same text always yields
// the same claim list, and pure-opinion text yields none.
package claims

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Type classifies a factual claim.
type Type string

const (
	TypePrice      Type = "price"
	TypePercentage Type = "percentage"
	TypeVolume     Type = "volume"
	TypeTrend      Type = "trend"
	TypeComparison Type = "comparison"
	TypeTechnical  Type = "technical"
	TypeNews       Type = "news"
)

// Claim is one factual assertion lifted out of reasoning text.
type Claim struct {
	Text     string   `json:"text"`
	Type     Type     `json:"type"`
	Symbol   string   `json:"symbol,omitempty"`
	Value    *float64 `json:"value,omitempty"`
	Position int      `json:"position"`
}

// template is one extraction pattern. Group indices are 1-based regexp
// submatch positions; zero means the pattern captures no such group.
type template struct {
	re          *regexp.Regexp
	symbolGroup int
	valueGroup  int
	signGroup   int // direction word that negates the value (fell, lost, ...)
}

const (
	symPat = `\b([A-Z]{2,5}x?)\b`
	numPat = `(\d[\d,]*(?:\.\d+)?)`
	pctPat = `(\d+(?:\.\d+)?)`
)

var negativeDirections = map[string]bool{
	"down": true, "lost": true, "fell": true, "dropped": true,
	"declined": true, "drop": true, "decrease": true, "decline": true,
}

var templates = map[Type][]template{
	TypePrice: {
		{re: regexp.MustCompile(symPat + `(?i:\s+(?:is|was))?(?i:\s+(?:currently\s+)?(?:trading|priced|sitting))?(?i:\s+(?:at|near|around))\s+\$?` + numPat + `\b`), symbolGroup: 1, valueGroup: 2},
		{re: regexp.MustCompile(`\$` + numPat + `(?i:\s+(?:price|level|mark))?(?i:\s+(?:for|on))\s+` + symPat), symbolGroup: 2, valueGroup: 1},
	},
	TypePercentage: {
		{re: regexp.MustCompile(symPat + `(?i:\s+(?:is|was|has))?\s+(?i:(up|down|gained|lost|rose|fell|dropped|jumped|climbed|declined))(?i:\s+by)?\s+` + pctPat + `\s*%`), symbolGroup: 1, signGroup: 2, valueGroup: 3},
		{re: regexp.MustCompile(pctPat + `\s*%\s+(?i:(gain|drop|increase|decrease|decline|rally|move))(?i:\s+(?:in|for|on))\s+` + symPat), symbolGroup: 3, signGroup: 2, valueGroup: 1},
	},
	TypeVolume: {
		{re: regexp.MustCompile(symPat + `(?:'s)?(?i:\s+(?:trading\s+)?volume)`), symbolGroup: 1},
		{re: regexp.MustCompile(`(?i:(?:heavy|high|low|unusual|surging|elevated)\s+volume\s+(?:in|on|for)\s+)` + symPat), symbolGroup: 1},
		{re: regexp.MustCompile(`(?i:volume\s+(?:spike|surge)\s+(?:in|on|for)\s+)` + symPat), symbolGroup: 1},
	},
	TypeTrend: {
		{re: regexp.MustCompile(symPat + `(?i:\s+(?:is\s+)?(?:in\s+)?(?:an?\s+)?(?:strong\s+)?(?:up|down)trend)`), symbolGroup: 1},
		{re: regexp.MustCompile(`(?i:(?:uptrend|downtrend)\s+(?:in|for|on)\s+)` + symPat), symbolGroup: 1},
		{re: regexp.MustCompile(symPat + `(?i:\s+(?:is\s+)?trending\s+(?:up|down|higher|lower))`), symbolGroup: 1},
	},
	TypeComparison: {
		{re: regexp.MustCompile(symPat + `(?i:\s+(?:is\s+)?(?:outperforming|underperforming|outperforms|underperforms|versus|vs\.?|compared\s+(?:to|with)|relative\s+to))`), symbolGroup: 1},
		{re: regexp.MustCompile(symPat + `(?i:\s+looks?\s+(?:cheaper|stronger|weaker|better|worse)\s+than)\s+` + symPat), symbolGroup: 1},
	},
	TypeTechnical: {
		{re: regexp.MustCompile(symPat + `(?:'s)?(?i:\s+(?:rsi|macd|moving\s+average|bollinger|support|resistance))`), symbolGroup: 1},
		{re: regexp.MustCompile(`(?i:(?:rsi|macd)\s+(?:of|for|on)\s+)` + symPat + `(?i:\s+(?:is|at)\s+` + pctPat + `)?`), symbolGroup: 1, valueGroup: 2},
		{re: regexp.MustCompile(`(?i:(?:support|resistance)\s+(?:level\s+)?(?:at|near)\s+)\$?` + numPat + `(?i:\s+(?:for|on)\s+)` + symPat), symbolGroup: 2, valueGroup: 1},
	},
	TypeNews: {
		{re: regexp.MustCompile(`(?i:(?:news|report|headline|headlines|announcement|earnings)\s+(?:about|on|for|from)\s+)` + symPat), symbolGroup: 1},
		{re: regexp.MustCompile(symPat + `(?i:\s+(?:announced|reported|unveiled|disclosed|released))`), symbolGroup: 1},
		{re: regexp.MustCompile(`(?i:catalyst\s+for\s+)` + symPat), symbolGroup: 1},
	},
}

// typeOrder fixes iteration order so extraction is deterministic.
var typeOrder = []Type{
	TypePrice, TypePercentage, TypeVolume, TypeTrend,
	TypeComparison, TypeTechnical, TypeNews,
}

// Extractor turns reasoning text into typed factual claims.
type Extractor struct{}

// NewExtractor returns a claim extractor. Stateless; safe for concurrent use.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns every factual claim found in text, ordered by position.
// Overlapping templates within one category are de-duplicated by start
// offset, so a sentence matching two price templates yields one price claim.
func (e *Extractor) Extract(text string) []Claim {
	var out []Claim
	for _, t := range typeOrder {
		seen := make(map[int]bool)
		for _, tpl := range templates[t] {
			for _, m := range tpl.re.FindAllStringSubmatchIndex(text, -1) {
				start := m[0]
				if seen[start] {
					continue
				}
				claim, ok := buildClaim(text, t, tpl, m)
				if !ok {
					continue
				}
				seen[start] = true
				out = append(out, claim)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func buildClaim(text string, t Type, tpl template, m []int) (Claim, bool) {
	claim := Claim{
		Text:     text[m[0]:m[1]],
		Type:     t,
		Position: m[0],
	}
	if tpl.symbolGroup > 0 {
		if s := group(text, m, tpl.symbolGroup); s != "" {
			claim.Symbol = s
		}
	}
	if tpl.valueGroup > 0 {
		raw := group(text, m, tpl.valueGroup)
		if raw != "" {
			v, err := parseNumeric(raw)
			if err != nil {
				// Noisy free text: skip the unparsable claim, never abort.
				return Claim{}, false
			}
			if tpl.signGroup > 0 {
				dir := strings.ToLower(group(text, m, tpl.signGroup))
				if negativeDirections[dir] {
					v = -v
				}
			}
			claim.Value = &v
		}
	}
	return claim, true
}

func group(text string, m []int, idx int) string {
	lo, hi := m[2*idx], m[2*idx+1]
	if lo < 0 || hi < 0 {
		return ""
	}
	return text[lo:hi]
}

// parseNumeric strips thousands separators and currency markers before
// coercing to float.
func parseNumeric(raw string) (float64, error) {
	clean := strings.NewReplacer(",", "", "$", "").Replace(raw)
	return strconv.ParseFloat(clean, 64)
}
