package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Empty(t, cfg.Store.DatabaseURL)
	assert.Equal(t, "data/inquiries.csv", cfg.CSV.Path)
	assert.Empty(t, cfg.Catalog.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30, cfg.Server.SubmitRatePerMin)
	assert.Equal(t, 5, cfg.Server.SubmitBurst)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Empty(t, cfg.Admin.PasswordHash)
	assert.Equal(t, 2, cfg.Retry.MaxAttempts)
	assert.Equal(t, 100, cfg.Retry.InitialBackoffMs)
	assert.Equal(t, 5, cfg.Circuit.FailureThreshold)
	assert.Equal(t, 30, cfg.Circuit.ResetTimeoutSecs)
	assert.Empty(t, cfg.Monitoring.WebhookURL)
	assert.Equal(t, 300, cfg.Monitoring.CheckIntervalSecs)
	assert.InDelta(t, 0.2, cfg.Monitoring.FallbackRateThreshold, 0.001)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
  database_url: quiz.db
csv:
  path: /var/lib/quiz/inquiries.csv
log:
  level: debug
  format: console
server:
  port: 9090
  cors_origins:
    - https://quiz.example.com
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "quiz.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "/var/lib/quiz/inquiries.csv", cfg.CSV.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://quiz.example.com"}, cfg.Server.CORSOrigins)
	// Defaults still apply for unset values
	assert.Equal(t, 30, cfg.Server.SubmitRatePerMin)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("QUIZ_STORE_DRIVER", "postgres")
	t.Setenv("QUIZ_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("QUIZ_SERVER_PORT", "3000")
	t.Setenv("QUIZ_ADMIN_PASSWORD_HASH", "$2a$10$abc")
	t.Setenv("QUIZ_STORE_DATABASE_URL", "postgres://localhost/quiz")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "$2a$10$abc", cfg.Admin.PasswordHash)
	assert.Equal(t, "postgres://localhost/quiz", cfg.Store.DatabaseURL)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Driver = "postgres"
	cfg.CSV.Path = "data/inquiries.csv"
	cfg.Server.Port = 8080
	cfg.Server.SubmitRatePerMin = 30
	cfg.Server.SubmitBurst = 5
	cfg.Admin.Username = "admin"
	cfg.Retry.MaxAttempts = 2
	cfg.Circuit.FailureThreshold = 5
	return cfg
}

func TestValidateServe_ValidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 9090

	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateServe_AdminHashWithoutUser(t *testing.T) {
	cfg := validDefaults()
	cfg.Admin.Username = ""
	cfg.Admin.PasswordHash = "$2a$10$abc"

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "admin.username is required")
}

func TestValidateServe_FallbackThresholdRange(t *testing.T) {
	cfg := validDefaults()
	cfg.Monitoring.FallbackRateThreshold = 1.5

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "monitoring.fallback_rate_threshold")
}

func TestValidateUnknownDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "mysql"
	cfg.CSV.Path = ""

	err := cfg.Validate("submit")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `store.driver "mysql"`)
	assert.Contains(t, err.Error(), "csv.path is required")
}

func TestValidateMigrate_NeedsDatabaseURL(t *testing.T) {
	cfg := validDefaults()

	err := cfg.Validate("migrate")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")

	cfg.Store.DatabaseURL = "postgres://localhost/quiz"
	assert.NoError(t, cfg.Validate("migrate"))

	cfg = validDefaults()
	cfg.Store.Driver = "none"
	assert.NoError(t, cfg.Validate("migrate"))
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
