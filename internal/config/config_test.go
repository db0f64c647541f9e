package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chtmp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	chtmp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "influencer.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://api.hunter.io/v2", cfg.Hunter.BaseURL)
	assert.Equal(t, 25, cfg.Hunter.EmailLimit)
	assert.InDelta(t, 10.0, cfg.Hunter.RatePerSec, 0.001)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Assistant.Model)
	assert.False(t, cfg.Social.Enabled)
	assert.Equal(t, "Influencers", cfg.Sheets.Worksheet)
	assert.Equal(t, 6, cfg.Scrape.MaxPages)
	assert.Equal(t, 8, cfg.Enrich.TimeoutSecs)
	assert.Equal(t, "csv", cfg.Export.Format)
	assert.Equal(t, "best-effort", cfg.Recommend.Policy)
	assert.Equal(t, 20, cfg.Recommend.Limit)
}

func TestLoadFromYAML(t *testing.T) {
	chtmp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/influencer
log:
  level: debug
  format: console
server:
  port: 9090
recommend:
  policy: strict
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "strict", cfg.Recommend.Policy)
	// Defaults still apply for unset values
	assert.Equal(t, 25, cfg.Hunter.EmailLimit)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chtmp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0644))

	t.Setenv("INFLUENCER_STORE_DRIVER", "postgres")
	t.Setenv("INFLUENCER_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	chtmp(t)

	require.NoError(t, os.WriteFile(".env", []byte("INFLUENCER_HUNTER_KEY=dotenv-key\n"), 0644))
	t.Cleanup(func() { _ = os.Unsetenv("INFLUENCER_HUNTER_KEY") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", cfg.Hunter.Key)
}

func TestValidateExtract(t *testing.T) {
	cfg := &Config{}
	cfg.Export.Format = "csv"

	err := cfg.Validate("extract")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hunter.key is required")
	assert.Contains(t, err.Error(), "export.csv_path is required")

	cfg.Hunter.Key = "hk_test"
	cfg.Export.CSVPath = "out.csv"
	assert.NoError(t, cfg.Validate("extract"))
}

func TestValidateExportFormats(t *testing.T) {
	cfg := &Config{}

	cfg.Export.Format = "sheets"
	err := cfg.Validate("scrape")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheets.credentials_file is required")

	cfg.Export.Format = "notion"
	err = cfg.Validate("scrape")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notion.token is required")

	cfg.Export.Format = "carrier-pigeon"
	err = cfg.Validate("scrape")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export.format must be one of")
}

func TestValidateServe(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")

	cfg.Server.Port = 8080
	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateRecommendPolicy(t *testing.T) {
	cfg := &Config{}
	cfg.Recommend.Limit = 20
	cfg.Recommend.Policy = "wishful"

	err := cfg.Validate("recommend")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict or best-effort")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.NotNil(t, zap.L())

	assert.Error(t, InitLogger(LogConfig{Level: "invalid", Format: "json"}))
}
