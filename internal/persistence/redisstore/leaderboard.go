// Package redisstore caches agent score records in Redis so leaderboard
// reads survive process restarts and can be shared across instances.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/moltapp/reasonscore/internal/registry"
)

const keyPrefix = "reasonscore"

// LeaderboardCache stores scores in a sorted set per version, keyed by
// composite, with the full record alongside in a hash.
type LeaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache wraps an existing Redis client.
func NewLeaderboardCache(client *redis.Client) *LeaderboardCache {
	return &LeaderboardCache{client: client}
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr string) (*LeaderboardCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return &LeaderboardCache{client: client}, nil
}

// Close releases the client's connections.
func (c *LeaderboardCache) Close() error {
	return c.client.Close()
}

func rankKey(version string) string {
	return fmt.Sprintf("%s:rank:%s", keyPrefix, version)
}

func recordKey(version string) string {
	return fmt.Sprintf("%s:scores:%s", keyPrefix, version)
}

// SaveScore writes the score into the version's sorted set and record hash.
func (c *LeaderboardCache) SaveScore(ctx context.Context, score registry.AgentScore) error {
	data, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("marshal score: %w", err)
	}
	if err := c.client.ZAdd(ctx, rankKey(score.Version), &redis.Z{
		Score:  score.Composite,
		Member: score.AgentID,
	}).Err(); err != nil {
		return fmt.Errorf("rank %s@%s: %w", score.AgentID, score.Version, err)
	}
	if err := c.client.HSet(ctx, recordKey(score.Version), score.AgentID, string(data)).Err(); err != nil {
		return fmt.Errorf("store %s@%s: %w", score.AgentID, score.Version, err)
	}
	return nil
}

// TopScores reads the best composites for a version, best first.
func (c *LeaderboardCache) TopScores(ctx context.Context, version string, limit int) ([]registry.AgentScore, error) {
	if limit < 1 {
		limit = 10
	}
	agents, err := c.client.ZRevRange(ctx, rankKey(version), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("rank range for %s: %w", version, err)
	}
	if len(agents) == 0 {
		return nil, nil
	}
	raw, err := c.client.HMGet(ctx, recordKey(version), agents...).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch records for %s: %w", version, err)
	}
	scores := make([]registry.AgentScore, 0, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok {
			// Rank entry without a record, skip rather than fail the read.
			continue
		}
		var score registry.AgentScore
		if err := json.Unmarshal([]byte(s), &score); err != nil {
			return nil, fmt.Errorf("decode record for %s: %w", agents[i], err)
		}
		scores = append(scores, score)
	}
	return scores, nil
}
