// Package persistence defines the optional sinks for agent score records.
// The scoring core is purely in-memory; these stores are write-behind
// collaborators fed by the evaluator, never a read dependency of scoring.
package persistence

import (
	"context"

	"github.com/moltapp/reasonscore/internal/registry"
)

// ScoreStore persists agent score records and serves leaderboard exports.
type ScoreStore interface {
	// SaveScore writes or replaces the running score for one agent under
	// one scoring version.
	SaveScore(ctx context.Context, score registry.AgentScore) error

	// TopScores returns up to limit records for a version, ordered by
	// composite score descending.
	TopScores(ctx context.Context, version string, limit int) ([]registry.AgentScore, error)
}
