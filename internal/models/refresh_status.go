package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Refresh states
const (
	RefreshIdle       = "idle"
	RefreshInProgress = "in_progress"
	RefreshCompleted  = "completed"
	RefreshFailed     = "failed"
)

// RefreshStatus tracks the state of the watchlist refresh
type RefreshStatus struct {
	IsRefreshing  bool           `json:"is_refreshing"`
	Status        string         `json:"status"`
	StartedAt     time.Time      `json:"started_at,omitempty"`
	FinishedAt    time.Time      `json:"finished_at,omitempty"`
	LastError     string         `json:"last_error,omitempty"`
	Refreshed     int            `json:"refreshed"`
	Failed        int            `json:"failed"`
	BatchProgress *BatchProgress `json:"batch_progress,omitempty"`
}

// BatchProgress tracks the progress of batch processing
type BatchProgress struct {
	ProgressTracking
	TotalBatches      int      `json:"total_batches"`
	ProcessedBatches  int      `json:"processed_batches"`
	TotalItems        int      `json:"total_items"`
	ProcessedItems    int      `json:"processed_items"`
	LastProcessedItem string   `json:"last_processed_item"`
	Errors            []string `json:"errors,omitempty"`
}

// Clone returns a deep copy that is safe to hand to another goroutine
func (p *BatchProgress) Clone() *BatchProgress {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Errors = append([]string(nil), p.Errors...)
	return &cp
}

// String returns the JSON string representation of the refresh status
func (s *RefreshStatus) String() string {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal refresh status: %v"}`, err)
	}
	return string(data)
}
