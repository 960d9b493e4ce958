package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dispute-resolver/internal/classifier"
	"dispute-resolver/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resolver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"CORRELATION_WINDOW_SECONDS", "PIPELINE_WORKERS", "DATABASE_URL", "LOG_LEVEL"} {
		t.Setenv(name, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.CorrelationWindow)
	assert.Equal(t, classifier.DefaultRules(), cfg.Rules)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
correlation:
  window_seconds: 900
classifier:
  rules:
    - category: FRAUD
      confidence: 0.9
      explanation: "Fraud wording."
      keywords: [fraud, scam]
    - category: DUPLICATE_CHARGE
      confidence: 0.8
      explanation: "Duplicate wording."
      keywords: [twice]
pipeline:
  workers: 2
database:
  url: postgres://resolver@localhost/disputes
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.CorrelationWindow)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "postgres://resolver@localhost/disputes", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, domain.CategoryFraud, cfg.Rules[0].Category)
	assert.Equal(t, []string{"fraud", "scam"}, cfg.Rules[0].Keywords)
	assert.Equal(t, domain.CategoryDuplicateCharge, cfg.Rules[1].Category)

	_, err = classifier.NewRuleClassifier(cfg.Rules)
	assert.NoError(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "pipeline:\n  workers: 2\n")
	t.Setenv("CORRELATION_WINDOW_SECONDS", "120")
	t.Setenv("PIPELINE_WORKERS", "16")
	t.Setenv("DATABASE_URL", "postgres://env/db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.CorrelationWindow)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
}

func TestLoad_BadEnvIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("PIPELINE_WORKERS", "many")
	t.Setenv("CORRELATION_WINDOW_SECONDS", "-5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, time.Hour, cfg.CorrelationWindow)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "correlation: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}
