package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize_KeepsNumericPunctuation(t *testing.T) {
	tokens := Tokenize("AAPLx up 2.5% at $150, volume high!")
	assert.Equal(t, []string{"aaplx", "up", "2.5%", "at", "$150", "volume", "high"}, tokens)
}

func TestCountPhrase_SingleWordMatchesWholeTokensOnly(t *testing.T) {
	text := "to our dismay the rally may stall"
	lower := text
	tokens := Tokenize(text)

	assert.Equal(t, 1, CountPhrase(lower, tokens, "may"), "'may' must not fire inside 'dismay'")
	assert.Equal(t, 0, CountPhrase(lower, tokens, "rallying"))
}

func TestCountPhrase_MultiWordMatchesSubstring(t *testing.T) {
	text := "this looks like a buying opportunity, a rare buying opportunity"
	assert.Equal(t, 2, CountPhrase(text, Tokenize(text), "buying opportunity"))
}

func TestCountPhrase_TrimsTrailingPunctuation(t *testing.T) {
	text := "momentum is strong."
	assert.Equal(t, 1, CountPhrase(text, Tokenize(text), "strong"))
}

func TestMatchAny(t *testing.T) {
	text := "taking profits after the run"
	hit, ok := MatchAny(text, Tokenize(text), []string{"lock in gains", "taking profits"})
	assert.True(t, ok)
	assert.Equal(t, "taking profits", hit)

	_, ok = MatchAny(text, Tokenize(text), []string{"stop loss"})
	assert.False(t, ok)
}

func TestCountSet_ReturnsHitsInTableOrder(t *testing.T) {
	text := "bearish pressure, clearly bearish, some hedging too"
	total, hits := CountSet(text, Tokenize(text), []string{"hedging", "bearish", "absent"})
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"hedging", "bearish"}, hits)
}
