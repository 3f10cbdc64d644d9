package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/moltapp/reasonscore/internal/evaluator"
	"github.com/moltapp/reasonscore/internal/persistence"
	"github.com/moltapp/reasonscore/internal/registry"
)

const maxRequestBody = 1 << 20 // 1 MiB

// Handlers holds the endpoint implementations and their dependencies.
type Handlers struct {
	evaluator *evaluator.Evaluator
	registry  *registry.Registry
	book      *registry.ScoreBook
	store     persistence.ScoreStore // optional write-behind sink
	metrics   *Metrics
}

// NewHandlers wires the endpoints. store may be nil when no sink is
// configured.
func NewHandlers(eval *evaluator.Evaluator, reg *registry.Registry, book *registry.ScoreBook, store persistence.ScoreStore) *Handlers {
	return &Handlers{
		evaluator: eval,
		registry:  reg,
		book:      book,
		store:     store,
		metrics:   NewMetrics(),
	}
}

// Evaluate scores one decision and returns the full report.
func (h *Handlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req evaluator.Request
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.metrics.RecordEvaluation(req.Version, "decode_error", time.Since(start))
		h.writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	report, err := h.evaluator.Evaluate(req)
	if err != nil {
		code, status := "invalid_request", http.StatusBadRequest
		if errors.Is(err, registry.ErrUnknownVersion) {
			code = "unknown_version"
		}
		h.metrics.RecordEvaluation(req.Version, code, time.Since(start))
		h.writeError(w, r, status, code, err.Error())
		return
	}

	if h.store != nil {
		h.persistScore(report.AgentScore)
	}

	h.metrics.RecordEvaluation(report.Version, "ok", time.Since(start))
	h.metrics.RecordComposite(report.AgentID, report.Version, report.AgentScore.Composite)
	h.writeJSON(w, http.StatusOK, report)
}

// persistScore writes the running score to the sink. Sink failures are
// logged, never surfaced to the caller.
func (h *Handlers) persistScore(score registry.AgentScore) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.store.SaveScore(ctx, score); err != nil {
		log.Warn().Err(err).
			Str("agent", score.AgentID).
			Str("version", score.Version).
			Msg("score sink write failed")
	}
}

// Leaderboard returns ranked agents for one scoring version.
func (h *Handlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	version := mux.Vars(r)["version"]

	ranked, err := h.book.Leaderboard(version)
	if err != nil {
		if errors.Is(err, registry.ErrUnknownVersion) {
			h.writeError(w, r, http.StatusNotFound, "unknown_version", err.Error())
			return
		}
		h.writeError(w, r, http.StatusInternalServerError, "leaderboard_failed", err.Error())
		return
	}

	if limit := parseLimit(r); limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	h.writeJSON(w, http.StatusOK, LeaderboardResponse{
		Version: version,
		Scores:  ranked,
		Count:   len(ranked),
	})
}

// Agent returns one agent's running score for a version.
func (h *Handlers) Agent(w http.ResponseWriter, r *http.Request) {
	agentID := mux.Vars(r)["id"]
	version := r.URL.Query().Get("version")
	if version == "" {
		version = h.evaluator.FallbackVersion()
	}

	score, ok := h.book.Get(agentID, version)
	if !ok {
		h.writeError(w, r, http.StatusNotFound, "agent_not_found",
			"no score recorded for agent "+agentID+" under version "+version)
		return
	}
	h.writeJSON(w, http.StatusOK, score)
}

// Health reports liveness and the registered scoring versions.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Versions:  h.registry.Versions(),
		Timestamp: time.Now().UTC(),
	})
}

// NotFound handles unmatched routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.writeError(w, r, http.StatusNotFound, "endpoint_not_found",
		"the requested endpoint does not exist")
}

func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"json_encoding_failed"}`, http.StatusInternalServerError)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      code,
		RequestID: requestID(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}
