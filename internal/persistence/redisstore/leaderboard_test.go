package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moltapp/reasonscore/internal/registry"
)

func sampleScore(agentID string, composite float64) registry.AgentScore {
	return registry.AgentScore{
		AgentID:     agentID,
		Version:     "v1",
		Dimensions:  map[string]float64{"grounding": 0.9, "coherence": 0.8},
		Composite:   composite,
		Grade:       "B+",
		Tier:        "strong",
		TradeCount:  4,
		LastUpdated: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveScore_WritesRankAndRecord(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewLeaderboardCache(db)

	score := sampleScore("agent-1", 87.5)
	data, err := json.Marshal(score)
	require.NoError(t, err)

	mock.ExpectZAdd("reasonscore:rank:v1", &redis.Z{Score: 87.5, Member: "agent-1"}).SetVal(1)
	mock.ExpectHSet("reasonscore:scores:v1", "agent-1", string(data)).SetVal(1)

	require.NoError(t, cache.SaveScore(context.Background(), score))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveScore_PropagatesRedisError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewLeaderboardCache(db)

	score := sampleScore("agent-1", 87.5)
	mock.ExpectZAdd("reasonscore:rank:v1", &redis.Z{Score: 87.5, Member: "agent-1"}).
		SetErr(errors.New("connection refused"))

	err := cache.SaveScore(context.Background(), score)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent-1@v1")
}

func TestTopScores_ReadsBestFirst(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewLeaderboardCache(db)

	first := sampleScore("agent-1", 91.0)
	second := sampleScore("agent-2", 74.5)
	dataA, err := json.Marshal(first)
	require.NoError(t, err)
	dataB, err := json.Marshal(second)
	require.NoError(t, err)

	mock.ExpectZRevRange("reasonscore:rank:v1", 0, 1).SetVal([]string{"agent-1", "agent-2"})
	mock.ExpectHMGet("reasonscore:scores:v1", "agent-1", "agent-2").
		SetVal([]interface{}{string(dataA), string(dataB)})

	scores, err := cache.TopScores(context.Background(), "v1", 2)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "agent-1", scores[0].AgentID)
	assert.Equal(t, 91.0, scores[0].Composite)
	assert.Equal(t, "agent-2", scores[1].AgentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopScores_EmptyLeaderboard(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewLeaderboardCache(db)

	mock.ExpectZRevRange("reasonscore:rank:v2", 0, 9).SetVal([]string{})

	scores, err := cache.TopScores(context.Background(), "v2", 0)
	require.NoError(t, err)
	assert.Empty(t, scores)
}
