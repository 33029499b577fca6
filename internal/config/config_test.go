package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIBaseURL)
	assert.Equal(t, 3, cfg.GitHub.Fetch.Retries)
	assert.Equal(t, 10*time.Second, cfg.GitHub.Fetch.Timeout)
	assert.Equal(t, time.Second, cfg.GitHub.Fetch.BackoffBase)
	assert.Equal(t, time.Hour, cfg.Refresh.Interval)
	assert.False(t, cfg.WatchlistEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("GITHUB_TOKEN", "secret")
	t.Setenv("GITHUB_API_BASE_URL", "http://localhost:1234/")
	t.Setenv("FETCH_RETRIES", "5")
	t.Setenv("FETCH_TIMEOUT_MS", "2500")
	t.Setenv("DB_CONNECTION_STRING", "postgres://localhost/insights")
	t.Setenv("REFRESH_INTERVAL_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "secret", cfg.GitHub.Token)
	assert.Equal(t, "http://localhost:1234", cfg.GitHub.APIBaseURL)
	assert.Equal(t, 5, cfg.GitHub.Fetch.Retries)
	assert.Equal(t, 2500*time.Millisecond, cfg.GitHub.Fetch.Timeout)
	assert.Equal(t, 15*time.Minute, cfg.Refresh.Interval)
	assert.True(t, cfg.WatchlistEnabled())
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("LOG_LEVEL") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "zero retries", key: "FETCH_RETRIES", val: "0"},
		{name: "zero timeout", key: "FETCH_TIMEOUT_MS", val: "0"},
		{name: "zero issue pages", key: "ISSUES_MAX_PAGES", val: "0"},
		{name: "zero refresh interval", key: "REFRESH_INTERVAL_MINUTES", val: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDefaultScoringConfig(t *testing.T) {
	cfg := DefaultScoringConfig()

	var maxSum float64
	maxSum += cfg.Health.Activity[0].Points
	maxSum += cfg.Health.Community.Max
	maxSum += cfg.Health.Docs.Max
	maxSum += cfg.Health.Maintenance.Max
	assert.Equal(t, cfg.Health.MaxTotal, maxSum, "sub-score maxima should add up to the total cap")

	require.Len(t, cfg.Badges, 4)
	for i := 1; i < len(cfg.Badges); i++ {
		assert.Greater(t, cfg.Badges[i-1].MinScore, cfg.Badges[i].MinScore)
	}
	assert.Equal(t, "#00ADD8", cfg.LanguageColors["Go"])
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
