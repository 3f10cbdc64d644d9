// Package lexicon holds the declarative phrase and pattern tables shared by
// every scorer. Tables are plain (pattern, weight, category) data built at
// startup; the matching helpers here are the only engine code, so lexicons can
// be extended without touching scoring logic.
package lexicon

import "strings"

// SignalPattern is one weighted phrase in a category table.
type SignalPattern struct {
	Pattern  string
	Weight   float64
	Category string
}

// Tokenize lowercases text and splits it into alphanumeric word tokens.
// Scorers share one tokenization so counts agree across components.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '.' && r != '%' && r != '$'
	})
}

// CountPhrase counts occurrences of phrase in the text. Multi-word phrases
// match as substrings of the lowercased text; single words match whole tokens
// only, so "may" never fires inside "dismay".
func CountPhrase(lower string, tokens []string, phrase string) int {
	if strings.ContainsRune(phrase, ' ') {
		return strings.Count(lower, phrase)
	}
	n := 0
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".$%")
		if tok == phrase {
			n++
		}
	}
	return n
}

// MatchAny reports whether any phrase in the set occurs at least once.
func MatchAny(lower string, tokens []string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if CountPhrase(lower, tokens, p) > 0 {
			return p, true
		}
	}
	return "", false
}

// CountSet sums occurrences across a phrase set and returns the phrases that
// fired, in table order.
func CountSet(lower string, tokens []string, phrases []string) (int, []string) {
	total := 0
	var hits []string
	for _, p := range phrases {
		if c := CountPhrase(lower, tokens, p); c > 0 {
			total += c
			hits = append(hits, p)
		}
	}
	return total, hits
}
