package registry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBook(t *testing.T) *ScoreBook {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register("v1", validWeights()))
	b := NewScoreBook(r, DefaultAlpha)
	b.now = func() time.Time { return time.Unix(1700000000, 0) }
	return b
}

func TestUpsert_FirstObservationStoredAsIs(t *testing.T) {
	b := newBook(t)

	rec, err := b.Upsert("agent-1", "v1", map[string]float64{"grounding": 0.9, "coherence": 0.6}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, rec.Dimensions["grounding"], 1e-12)
	assert.InDelta(t, 0.6, rec.Dimensions["coherence"], 1e-12)
	assert.Equal(t, 1, rec.TradeCount)
}

func TestUpsert_EMALawExact(t *testing.T) {
	b := newBook(t)

	_, err := b.Upsert("agent-1", "v1", map[string]float64{"grounding": 0.5, "coherence": 0.5}, 1)
	require.NoError(t, err)

	rec, err := b.Upsert("agent-1", "v1", map[string]float64{"grounding": 1.0, "coherence": 0.0}, 1)
	require.NoError(t, err)

	// updated = old*(1-alpha) + new*alpha, exactly.
	assert.Equal(t, 0.5*0.7+1.0*0.3, rec.Dimensions["grounding"])
	assert.Equal(t, 0.5*0.7+0.0*0.3, rec.Dimensions["coherence"])
	assert.Equal(t, 2, rec.TradeCount)
}

func TestUpsert_NewDimensionJoinsWithoutBlending(t *testing.T) {
	b := newBook(t)

	_, err := b.Upsert("agent-1", "v1", map[string]float64{"grounding": 0.8}, 1)
	require.NoError(t, err)

	rec, err := b.Upsert("agent-1", "v1", map[string]float64{"grounding": 0.4, "performance": 0.9}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.8*0.7+0.4*0.3, rec.Dimensions["grounding"])
	assert.InDelta(t, 0.9, rec.Dimensions["performance"], 1e-12, "first sight of a dimension stores it as-is")
}

func TestUpsert_UnknownVersionRejected(t *testing.T) {
	b := newBook(t)

	_, err := b.Upsert("agent-1", "v9", map[string]float64{"grounding": 0.8}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownVersion)
}

func TestUpsert_CompositeRecomputedFromBlend(t *testing.T) {
	b := newBook(t)

	full := map[string]float64{
		"grounding": 1, "coherence": 1, "structure": 1,
		"bias_resistance": 1, "originality": 1, "performance": 1,
	}
	rec, err := b.Upsert("agent-1", "v1", full, 1)
	require.NoError(t, err)
	assert.InDelta(t, 100, rec.Composite, 1e-9)
	assert.Equal(t, "A+", rec.Grade)

	zero := map[string]float64{
		"grounding": 0, "coherence": 0, "structure": 0,
		"bias_resistance": 0, "originality": 0, "performance": 0,
	}
	rec, err = b.Upsert("agent-1", "v1", zero, 1)
	require.NoError(t, err)
	assert.InDelta(t, 70, rec.Composite, 1e-9, "all dimensions blend to 0.7")
}

func TestLeaderboard_SortedWithStableTies(t *testing.T) {
	b := newBook(t)

	high := map[string]float64{"grounding": 1, "coherence": 1, "structure": 1, "bias_resistance": 1, "originality": 1, "performance": 1}
	low := map[string]float64{"grounding": 0, "coherence": 0, "structure": 0, "bias_resistance": 0, "originality": 0, "performance": 0}

	_, err := b.Upsert("tie-first", "v1", low, 1)
	require.NoError(t, err)
	_, err = b.Upsert("tie-second", "v1", low, 1)
	require.NoError(t, err)
	_, err = b.Upsert("leader", "v1", high, 1)
	require.NoError(t, err)

	board, err := b.Leaderboard("v1")
	require.NoError(t, err)
	require.Len(t, board, 3)

	assert.Equal(t, "leader", board[0].AgentID)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, "tie-first", board[1].AgentID, "ties keep first-observed order")
	assert.Equal(t, "tie-second", board[2].AgentID)
	assert.Equal(t, 3, board[2].Rank)
}

func TestLeaderboard_UnknownVersionRejected(t *testing.T) {
	b := newBook(t)

	_, err := b.Leaderboard("v9")
	assert.ErrorIs(t, err, ErrUnknownVersion)
}

func TestGet_SnapshotIsIsolated(t *testing.T) {
	b := newBook(t)

	_, err := b.Upsert("agent-1", "v1", map[string]float64{"grounding": 0.8}, 1)
	require.NoError(t, err)

	snap, ok := b.Get("agent-1", "v1")
	require.True(t, ok)
	snap.Dimensions["grounding"] = 0.0 // mutating the snapshot must not leak

	again, ok := b.Get("agent-1", "v1")
	require.True(t, ok)
	assert.InDelta(t, 0.8, again.Dimensions["grounding"], 1e-12)

	_, ok = b.Get("nobody", "v1")
	assert.False(t, ok)
}

func TestUpsert_ConcurrentAgentsDoNotInterfere(t *testing.T) {
	b := newBook(t)

	const agents = 8
	const updates = 50
	var wg sync.WaitGroup
	for i := 0; i < agents; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			agent := fmt.Sprintf("agent-%d", id)
			for j := 0; j < updates; j++ {
				_, err := b.Upsert(agent, "v1", map[string]float64{"grounding": 0.5}, 1)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < agents; i++ {
		rec, ok := b.Get(fmt.Sprintf("agent-%d", i), "v1")
		require.True(t, ok)
		assert.Equal(t, updates, rec.TradeCount)
		assert.InDelta(t, 0.5, rec.Dimensions["grounding"], 1e-12)
	}
}
