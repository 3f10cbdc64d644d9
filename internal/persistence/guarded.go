package persistence

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/moltapp/reasonscore/internal/registry"
)

// GuardedStore wraps a ScoreStore with a circuit breaker so a dead sink
// cannot stall the evaluation path. While the breaker is open, writes fail
// fast with gobreaker.ErrOpenState.
type GuardedStore struct {
	inner   ScoreStore
	breaker *gobreaker.CircuitBreaker
}

// NewGuardedStore wraps inner with default breaker settings: trip after five
// consecutive failures, retry after 30 seconds.
func NewGuardedStore(name string, inner ScoreStore) *GuardedStore {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("store", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("score store breaker state changed")
		},
	}
	return &GuardedStore{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// SaveScore writes through the breaker.
func (g *GuardedStore) SaveScore(ctx context.Context, score registry.AgentScore) error {
	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, g.inner.SaveScore(ctx, score)
	})
	return err
}

// TopScores reads through the breaker.
func (g *GuardedStore) TopScores(ctx context.Context, version string, limit int) ([]registry.AgentScore, error) {
	res, err := g.breaker.Execute(func() (interface{}, error) {
		return g.inner.TopScores(ctx, version, limit)
	})
	if err != nil {
		return nil, err
	}
	return res.([]registry.AgentScore), nil
}
