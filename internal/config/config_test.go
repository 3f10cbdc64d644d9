package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
scoring:
  alpha: 0.2
  default_version: v3
  versions:
    v3:
      grounding: 0.5
      coherence: 0.5
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host, "unset fields keep defaults")
	assert.InDelta(t, 0.2, cfg.Scoring.Alpha, 1e-9)
	assert.Equal(t, "v3", cfg.Scoring.DefaultVersion)
	assert.InDelta(t, 0.5, cfg.Scoring.Versions["v3"]["grounding"], 1e-9)
}

func TestLoad_RejectsDefaultVersionNotConfigured(t *testing.T) {
	path := writeConfig(t, `
scoring:
  default_version: v1
  versions:
    v3:
      grounding: 0.5
      coherence: 0.5
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_version")
}

func TestLoad_RejectsBadWeightSum(t *testing.T) {
	path := writeConfig(t, `
scoring:
  versions:
    v3:
      grounding: 0.5
      coherence: 0.3
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights sum")
}

func TestLoad_RejectsBadAlpha(t *testing.T) {
	path := writeConfig(t, "scoring:\n  alpha: 1.5\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
