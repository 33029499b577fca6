package config

import "time"

// GitHubConfig holds GitHub-specific configuration
type GitHubConfig struct {
	Token      string
	APIBaseURL string
	Fetch      FetchConfig
	// MaxIssuePages bounds how many 100-item pages of issues are read per repository
	MaxIssuePages int
	// ResponseSampleSize is how many commented issues get their first comment looked up
	ResponseSampleSize int
}

// FetchConfig holds the retry policy applied to every outbound API call
type FetchConfig struct {
	Retries     int
	Timeout     time.Duration
	BackoffBase time.Duration
}

// DefaultGitHubConfig returns the default GitHub configuration
func DefaultGitHubConfig() *GitHubConfig {
	return &GitHubConfig{
		APIBaseURL: "https://api.github.com",
		Fetch: FetchConfig{
			Retries:     3,
			Timeout:     10 * time.Second,
			BackoffBase: time.Second,
		},
		MaxIssuePages:      3,
		ResponseSampleSize: 10,
	}
}
