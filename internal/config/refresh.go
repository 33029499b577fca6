package config

import "time"

// RefreshConfig holds watchlist refresh configuration
type RefreshConfig struct {
	Interval time.Duration
	Batch    BatchConfig
}

// BatchConfig holds batch processing configuration
type BatchConfig struct {
	Size       int
	Workers    int
	MaxRetries int
	BatchDelay time.Duration
}

// DefaultRefreshConfig returns the default refresh configuration
func DefaultRefreshConfig() *RefreshConfig {
	return &RefreshConfig{
		Interval: time.Hour,
		Batch: BatchConfig{
			Size:       10,
			Workers:    3,
			MaxRetries: 1,
			BatchDelay: 0,
		},
	}
}
