package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the fully resolved application configuration
type Config struct {
	Port               string
	LogLevel           string
	DBConnectionString string
	GitHub             *GitHubConfig
	Scoring            *ScoringConfig
	Refresh            *RefreshConfig
}

// Load reads configuration from an optional .env file, an optional CONFIG_FILE
// and the environment, in increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	gh := DefaultGitHubConfig()
	refresh := DefaultRefreshConfig()

	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_CONNECTION_STRING", "")
	v.SetDefault("GITHUB_TOKEN", "")
	v.SetDefault("GITHUB_API_BASE_URL", gh.APIBaseURL)
	v.SetDefault("FETCH_RETRIES", gh.Fetch.Retries)
	v.SetDefault("FETCH_TIMEOUT_MS", gh.Fetch.Timeout.Milliseconds())
	v.SetDefault("FETCH_BACKOFF_BASE_MS", gh.Fetch.BackoffBase.Milliseconds())
	v.SetDefault("ISSUES_MAX_PAGES", gh.MaxIssuePages)
	v.SetDefault("ISSUES_RESPONSE_SAMPLE", gh.ResponseSampleSize)
	v.SetDefault("REFRESH_INTERVAL_MINUTES", int(refresh.Interval/time.Minute))
	v.SetDefault("REFRESH_WORKERS", refresh.Batch.Workers)
	v.SetDefault("REFRESH_BATCH_SIZE", refresh.Batch.Size)
}

func fromViper(v *viper.Viper) (*Config, error) {
	gh := DefaultGitHubConfig()
	gh.Token = v.GetString("GITHUB_TOKEN")
	gh.APIBaseURL = strings.TrimRight(v.GetString("GITHUB_API_BASE_URL"), "/")
	gh.Fetch.Retries = v.GetInt("FETCH_RETRIES")
	gh.Fetch.Timeout = time.Duration(v.GetInt64("FETCH_TIMEOUT_MS")) * time.Millisecond
	gh.Fetch.BackoffBase = time.Duration(v.GetInt64("FETCH_BACKOFF_BASE_MS")) * time.Millisecond
	gh.MaxIssuePages = v.GetInt("ISSUES_MAX_PAGES")
	gh.ResponseSampleSize = v.GetInt("ISSUES_RESPONSE_SAMPLE")

	refresh := DefaultRefreshConfig()
	refresh.Interval = time.Duration(v.GetInt("REFRESH_INTERVAL_MINUTES")) * time.Minute
	refresh.Batch.Workers = v.GetInt("REFRESH_WORKERS")
	refresh.Batch.Size = v.GetInt("REFRESH_BATCH_SIZE")

	cfg := &Config{
		Port:               v.GetString("PORT"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		DBConnectionString: v.GetString("DB_CONNECTION_STRING"),
		GitHub:             gh,
		Scoring:            DefaultScoringConfig(),
		Refresh:            refresh,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.GitHub.Fetch.Retries < 1 {
		return fmt.Errorf("FETCH_RETRIES must be at least 1, got %d", c.GitHub.Fetch.Retries)
	}
	if c.GitHub.Fetch.Timeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_MS must be positive")
	}
	if c.GitHub.Fetch.BackoffBase < 0 {
		return fmt.Errorf("FETCH_BACKOFF_BASE_MS cannot be negative")
	}
	if c.GitHub.MaxIssuePages < 1 {
		return fmt.Errorf("ISSUES_MAX_PAGES must be at least 1")
	}
	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL_MINUTES must be positive")
	}
	return nil
}

// WatchlistEnabled reports whether a database is configured for the watchlist
func (c *Config) WatchlistEnabled() bool {
	return c.DBConnectionString != ""
}
