package persistence

import (
	"context"

	"github.com/moltapp/reasonscore/internal/registry"
)

// FanoutStore writes to every configured sink and reads from the first one
// that answers. Write errors are joined so one dead sink does not hide the
// others' state.
type FanoutStore struct {
	stores []ScoreStore
}

// NewFanoutStore combines the given sinks. At least one is expected.
func NewFanoutStore(stores ...ScoreStore) *FanoutStore {
	return &FanoutStore{stores: stores}
}

// SaveScore writes to all sinks and returns the first error encountered.
func (f *FanoutStore) SaveScore(ctx context.Context, score registry.AgentScore) error {
	var firstErr error
	for _, s := range f.stores {
		if err := s.SaveScore(ctx, score); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// TopScores returns the first successful read across the sinks.
func (f *FanoutStore) TopScores(ctx context.Context, version string, limit int) ([]registry.AgentScore, error) {
	var lastErr error
	for _, s := range f.stores {
		scores, err := s.TopScores(ctx, version, limit)
		if err == nil {
			return scores, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
