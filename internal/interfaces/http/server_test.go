package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moltapp/reasonscore/internal/decision"
	"github.com/moltapp/reasonscore/internal/evaluator"
	"github.com/moltapp/reasonscore/internal/registry"
)

type captureStore struct {
	saved []registry.AgentScore
}

func (c *captureStore) SaveScore(_ context.Context, score registry.AgentScore) error {
	c.saved = append(c.saved, score)
	return nil
}

func (c *captureStore) TopScores(_ context.Context, _ string, _ int) ([]registry.AgentScore, error) {
	return c.saved, nil
}

func newTestServer(t *testing.T, store *captureStore) (*Server, *httptest.Server) {
	t.Helper()
	reg := evaluator.DefaultRegistry()
	book := registry.NewScoreBook(reg, registry.DefaultAlpha)
	eval, err := evaluator.New(reg, book)
	require.NoError(t, err)

	handlers := NewHandlers(eval, reg, book, nil)
	if store != nil {
		handlers = NewHandlers(eval, reg, book, store)
	}

	cfg := DefaultServerConfig()
	cfg.Port = 0
	srv, err := NewServer(cfg, handlers)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.router)
	t.Cleanup(ts.Close)
	return srv, ts
}

func evaluateBody(t *testing.T) []byte {
	t.Helper()
	change := 2.1
	req := evaluator.Request{
		AgentID:    "agent-1",
		Text:       "NVDAx is up 2% today on strong fundamentals, so I see a buying opportunity with a stop loss near $95.",
		Action:     decision.ActionBuy,
		Confidence: 0.7,
		Evidence: decision.EvidenceContext{
			Symbols: map[string]decision.SymbolEvidence{
				"NVDAx": {Price: 100, Change24h: &change},
			},
		},
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return body
}

func TestEvaluateEndpoint_ReturnsReport(t *testing.T) {
	store := &captureStore{}
	_, ts := newTestServer(t, store)

	resp, err := http.Post(ts.URL+"/v1/evaluate", "application/json", bytes.NewReader(evaluateBody(t)))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var report evaluator.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "agent-1", report.AgentID)
	assert.Equal(t, "v1", report.Version)
	assert.NotEmpty(t, report.Dimensions)

	require.Len(t, store.saved, 1, "score reaches the write-behind sink")
	assert.Equal(t, "agent-1", store.saved[0].AgentID)
}

func TestEvaluateEndpoint_UnknownVersion(t *testing.T) {
	_, ts := newTestServer(t, nil)

	body := []byte(`{"agent_id":"agent-1","reasoning":"hold","action":"hold","version":"v99"}`)
	resp, err := http.Post(ts.URL+"/v1/evaluate", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "unknown_version", errResp.Code)
	assert.NotEmpty(t, errResp.RequestID)
}

func TestEvaluateEndpoint_MalformedBody(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/v1/evaluate", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLeaderboardEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/v1/evaluate", "application/json", bytes.NewReader(evaluateBody(t)))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/v1/leaderboard/v1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var lb LeaderboardResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lb))
	assert.Equal(t, "v1", lb.Version)
	require.Equal(t, 1, lb.Count)
	assert.Equal(t, 1, lb.Scores[0].Rank)
	assert.Equal(t, "agent-1", lb.Scores[0].AgentID)
}

func TestLeaderboardEndpoint_UnknownVersion(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/v1/leaderboard/v99")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAgentEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/v1/evaluate", "application/json", bytes.NewReader(evaluateBody(t)))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/v1/agents/agent-1?version=v1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var score registry.AgentScore
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&score))
	assert.Equal(t, "agent-1", score.AgentID)
	assert.Equal(t, 1, score.TradeCount)
}

func TestAgentEndpoint_NotFound(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/v1/agents/ghost")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health.Status)
	assert.Contains(t, health.Versions, "v1")
	assert.Contains(t, health.Versions, "v2")
}

func TestMetricsEndpoint_ExposesCounters(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/v1/evaluate", "application/json", bytes.NewReader(evaluateBody(t)))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "reasonscore_evaluations_total")
}

func TestUnknownRoute_Returns404(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "endpoint_not_found", errResp.Code)
}

func TestRateLimit_ShedsExcessLoad(t *testing.T) {
	reg := evaluator.DefaultRegistry()
	book := registry.NewScoreBook(reg, registry.DefaultAlpha)
	eval, err := evaluator.New(reg, book)
	require.NoError(t, err)

	cfg := DefaultServerConfig()
	cfg.Port = 0
	cfg.RateLimitRPS = 1
	cfg.RateBurst = 1
	srv, err := NewServer(cfg, NewHandlers(eval, reg, book, nil))
	require.NoError(t, err)

	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "scrapes are never shed")
}
