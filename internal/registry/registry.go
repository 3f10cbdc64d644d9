// Package registry holds the versioned dimension-weight maps and the
// composite aggregator. New scoring versions are data registrations, not new
// code paths: a later version may re-weight every prior dimension.
package registry

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

// Configuration errors. Unknown versions and bad weight sums are rejected
// loudly: tolerating them silently would corrupt every composite computed
// under that version.
var (
	ErrUnknownVersion = errors.New("unknown scoring version")
	ErrWeightSum      = errors.New("dimension weights do not sum to declared total")
)

// NeutralDimensionScore substitutes for any dimension missing from a
// composite input, so partially populated score vectors never error.
const NeutralDimensionScore = 0.5

// Composite is a combined score on the 0-100 scale with its derived buckets.
type Composite struct {
	Score float64 `json:"score"`
	Grade string  `json:"grade"`
	Tier  string  `json:"tier"`
}

// Registry maps version identifiers to dimension weight maps.
type Registry struct {
	mu            sync.RWMutex
	declaredTotal float64
	tolerance     float64
	versions      map[string]map[string]float64
}

// NewRegistry creates a registry whose versions must have weights summing to
// 1.0 within a ±0.01 tolerance.
func NewRegistry() *Registry {
	return &Registry{
		declaredTotal: 1.0,
		tolerance:     0.01,
		versions:      make(map[string]map[string]float64),
	}
}

// Register installs a weight map under version. Registration fails when the
// weights do not sum to the declared total; re-registering a version
// overwrites it, which is how re-weighting ships.
func (r *Registry) Register(version string, weights map[string]float64) error {
	if version == "" {
		return fmt.Errorf("scoring version must not be empty")
	}
	if len(weights) == 0 {
		return fmt.Errorf("version %s: %w: no dimensions given", version, ErrWeightSum)
	}
	sum := 0.0
	for dim, w := range weights {
		if w < 0 {
			return fmt.Errorf("version %s: dimension %q has negative weight %.3f", version, dim, w)
		}
		sum += w
	}
	if math.Abs(sum-r.declaredTotal) > r.tolerance {
		return fmt.Errorf("version %s: %w: got %.3f, declared %.3f", version, ErrWeightSum, sum, r.declaredTotal)
	}

	cp := make(map[string]float64, len(weights))
	for dim, w := range weights {
		cp[dim] = w
	}
	r.mu.Lock()
	r.versions[version] = cp
	r.mu.Unlock()
	return nil
}

// Weights returns a copy of the weight map for version.
func (r *Registry) Weights(version string) (map[string]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.versions[version]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, version)
	}
	cp := make(map[string]float64, len(w))
	for dim, v := range w {
		cp[dim] = v
	}
	return cp, nil
}

// Versions lists registered versions in sorted order.
func (r *Registry) Versions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.versions))
	for v := range r.versions {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Composite combines a dimension score vector under the named version.
// Dimensions absent from scores default to the neutral 0.5; dimensions in
// scores but not in the version's weight map contribute nothing.
func (r *Registry) Composite(scores map[string]float64, version string) (Composite, error) {
	weights, err := r.Weights(version)
	if err != nil {
		return Composite{}, err
	}
	total := 0.0
	for dim, w := range weights {
		s, ok := scores[dim]
		if !ok {
			s = NeutralDimensionScore
		}
		total += clamp01(s) * w
	}
	score := clampComposite(100 * total)
	return Composite{
		Score: score,
		Grade: GradeFor(score),
		Tier:  TierFor(score),
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampComposite(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
