package http

import (
	"time"

	"github.com/moltapp/reasonscore/internal/registry"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse reports service liveness and the scoring versions loaded.
type HealthResponse struct {
	Status    string    `json:"status"`
	Versions  []string  `json:"versions"`
	Timestamp time.Time `json:"timestamp"`
}

// LeaderboardResponse is the ranked score listing for one version.
type LeaderboardResponse struct {
	Version string                 `json:"version"`
	Scores  []registry.RankedScore `json:"scores"`
	Count   int                    `json:"count"`
}
