package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// DefaultAlpha is the EMA smoothing factor for incremental score updates.
const DefaultAlpha = 0.3

// AgentScore is the running record for one agent under one scoring version.
type AgentScore struct {
	AgentID     string             `json:"agent_id"`
	Version     string             `json:"version"`
	Dimensions  map[string]float64 `json:"dimensions"`
	Composite   float64            `json:"composite"`
	Grade       string             `json:"grade"`
	Tier        string             `json:"tier"`
	TradeCount  int                `json:"trade_count"`
	LastUpdated time.Time          `json:"last_updated"`
}

// RankedScore is one leaderboard row.
type RankedScore struct {
	Rank int `json:"rank"`
	AgentScore
}

// agentEntry serializes updates for one (agent, version) key. EMA updates
// commute across dimensions but not within one key, so a per-key mutex is
// all the discipline needed.
type agentEntry struct {
	mu     sync.Mutex
	record AgentScore
	seq    uint64 // insertion order, breaks leaderboard ties stably
}

// ScoreBook is the process-wide cache of per-agent running scores. Created
// once and injected; bounded by agent count with no time-based eviction.
type ScoreBook struct {
	registry *Registry
	alpha    float64

	mu      sync.RWMutex
	entries map[string]*agentEntry
	nextSeq uint64
	now     func() time.Time
}

// NewScoreBook creates a score book backed by the given registry. A
// non-positive alpha selects the default smoothing factor.
func NewScoreBook(registry *Registry, alpha float64) *ScoreBook {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}
	return &ScoreBook{
		registry: registry,
		alpha:    alpha,
		entries:  make(map[string]*agentEntry),
		now:      time.Now,
	}
}

func bookKey(agentID, version string) string {
	return agentID + "@" + version
}

// Upsert blends a new dimension observation into the agent's running record.
// The first observation is stored as-is; later ones blend every supplied
// dimension with old*(1-alpha) + new*alpha in one atomic step, then the
// composite and grade are recomputed from the blended vector.
func (b *ScoreBook) Upsert(agentID, version string, dims map[string]float64, tradeDelta int) (AgentScore, error) {
	if agentID == "" {
		return AgentScore{}, fmt.Errorf("agent id must not be empty")
	}
	// Validate the version before touching any state.
	if _, err := b.registry.Weights(version); err != nil {
		return AgentScore{}, err
	}

	entry := b.entry(agentID, version)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	rec := &entry.record
	if rec.Dimensions == nil {
		rec.Dimensions = make(map[string]float64, len(dims))
	}
	for dim, v := range dims {
		v = clamp01(v)
		old, seen := rec.Dimensions[dim]
		if !seen {
			rec.Dimensions[dim] = v
			continue
		}
		rec.Dimensions[dim] = old*(1-b.alpha) + v*b.alpha
	}
	rec.TradeCount += tradeDelta
	rec.LastUpdated = b.now()

	comp, err := b.registry.Composite(rec.Dimensions, version)
	if err != nil {
		return AgentScore{}, err
	}
	rec.Composite = comp.Score
	rec.Grade = comp.Grade
	rec.Tier = comp.Tier

	return cloneScore(*rec), nil
}

// Get returns a snapshot of the agent's record, if one exists.
func (b *ScoreBook) Get(agentID, version string) (AgentScore, bool) {
	b.mu.RLock()
	entry, ok := b.entries[bookKey(agentID, version)]
	b.mu.RUnlock()
	if !ok {
		return AgentScore{}, false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.record.AgentID == "" {
		return AgentScore{}, false
	}
	return cloneScore(entry.record), true
}

// Leaderboard returns every record for a version sorted by composite
// descending. Ties keep first-observed order. Readers get an eventually
// consistent snapshot; in-flight upserts may or may not be visible.
func (b *ScoreBook) Leaderboard(version string) ([]RankedScore, error) {
	if _, err := b.registry.Weights(version); err != nil {
		return nil, err
	}

	b.mu.RLock()
	entries := make([]*agentEntry, 0, len(b.entries))
	for _, e := range b.entries {
		entries = append(entries, e)
	}
	b.mu.RUnlock()

	type row struct {
		score AgentScore
		seq   uint64
	}
	var rows []row
	for _, e := range entries {
		e.mu.Lock()
		if e.record.Version == version && e.record.AgentID != "" {
			rows = append(rows, row{score: cloneScore(e.record), seq: e.seq})
		}
		e.mu.Unlock()
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].score.Composite != rows[j].score.Composite {
			return rows[i].score.Composite > rows[j].score.Composite
		}
		return rows[i].seq < rows[j].seq
	})

	out := make([]RankedScore, len(rows))
	for i, r := range rows {
		out[i] = RankedScore{Rank: i + 1, AgentScore: r.score}
	}
	return out, nil
}

func (b *ScoreBook) entry(agentID, version string) *agentEntry {
	key := bookKey(agentID, version)
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[key]
	if !ok {
		e = &agentEntry{
			record: AgentScore{AgentID: agentID, Version: version},
			seq:    b.nextSeq,
		}
		b.nextSeq++
		b.entries[key] = e
	}
	return e
}

func cloneScore(s AgentScore) AgentScore {
	dims := make(map[string]float64, len(s.Dimensions))
	for d, v := range s.Dimensions {
		dims[d] = v
	}
	s.Dimensions = dims
	return s
}
