// Package postgres implements the score store on PostgreSQL via sqlx.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/moltapp/reasonscore/internal/registry"
)

// ScoreRepo persists agent score records in the agent_scores table.
type ScoreRepo struct {
	db *sqlx.DB
}

// NewScoreRepo wraps an existing database handle.
func NewScoreRepo(db *sqlx.DB) *ScoreRepo {
	return &ScoreRepo{db: db}
}

// Connect opens a PostgreSQL connection, verifies it, and ensures the schema.
func Connect(ctx context.Context, dsn string) (*ScoreRepo, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	repo := &ScoreRepo{db: db}
	if err := repo.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Msg("postgres score store connected")
	return repo, nil
}

// Close releases the underlying connection pool.
func (r *ScoreRepo) Close() error {
	return r.db.Close()
}

func (r *ScoreRepo) ensureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS agent_scores (
			agent_id     TEXT             NOT NULL,
			version      TEXT             NOT NULL,
			dimensions   JSONB            NOT NULL,
			composite    DOUBLE PRECISION NOT NULL,
			grade        TEXT             NOT NULL,
			tier         TEXT             NOT NULL,
			trade_count  INTEGER          NOT NULL,
			last_updated TIMESTAMPTZ      NOT NULL,
			PRIMARY KEY (agent_id, version)
		);
		CREATE INDEX IF NOT EXISTS idx_agent_scores_leaderboard
			ON agent_scores (version, composite DESC);`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure agent_scores schema: %w", err)
	}
	return nil
}

type scoreRow struct {
	AgentID     string    `db:"agent_id"`
	Version     string    `db:"version"`
	Dimensions  []byte    `db:"dimensions"`
	Composite   float64   `db:"composite"`
	Grade       string    `db:"grade"`
	Tier        string    `db:"tier"`
	TradeCount  int       `db:"trade_count"`
	LastUpdated time.Time `db:"last_updated"`
}

// SaveScore upserts one agent's running score for a scoring version.
func (r *ScoreRepo) SaveScore(ctx context.Context, score registry.AgentScore) error {
	dims, err := json.Marshal(score.Dimensions)
	if err != nil {
		return fmt.Errorf("marshal dimensions: %w", err)
	}
	const query = `
		INSERT INTO agent_scores
			(agent_id, version, dimensions, composite, grade, tier, trade_count, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (agent_id, version) DO UPDATE SET
			dimensions   = EXCLUDED.dimensions,
			composite    = EXCLUDED.composite,
			grade        = EXCLUDED.grade,
			tier         = EXCLUDED.tier,
			trade_count  = EXCLUDED.trade_count,
			last_updated = EXCLUDED.last_updated`
	_, err = r.db.ExecContext(ctx, query,
		score.AgentID, score.Version, dims,
		score.Composite, score.Grade, score.Tier,
		score.TradeCount, score.LastUpdated)
	if err != nil {
		return fmt.Errorf("save score %s@%s: %w", score.AgentID, score.Version, err)
	}
	return nil
}

// TopScores returns the highest composites for a version, best first.
func (r *ScoreRepo) TopScores(ctx context.Context, version string, limit int) ([]registry.AgentScore, error) {
	if limit < 1 {
		limit = 10
	}
	const query = `
		SELECT agent_id, version, dimensions, composite, grade, tier, trade_count, last_updated
		FROM agent_scores
		WHERE version = $1
		ORDER BY composite DESC, agent_id ASC
		LIMIT $2`
	var rows []scoreRow
	if err := r.db.SelectContext(ctx, &rows, query, version, limit); err != nil {
		return nil, fmt.Errorf("top scores for %s: %w", version, err)
	}
	scores := make([]registry.AgentScore, 0, len(rows))
	for _, row := range rows {
		var dims map[string]float64
		if err := json.Unmarshal(row.Dimensions, &dims); err != nil {
			return nil, fmt.Errorf("decode dimensions for %s: %w", row.AgentID, err)
		}
		scores = append(scores, registry.AgentScore{
			AgentID:     row.AgentID,
			Version:     row.Version,
			Dimensions:  dims,
			Composite:   row.Composite,
			Grade:       row.Grade,
			Tier:        row.Tier,
			TradeCount:  row.TradeCount,
			LastUpdated: row.LastUpdated,
		})
	}
	return scores, nil
}
