package github

import (
	"sync"
	"time"

	"github.com/Kamar-Folarin/repo-insights/internal/models"
)

// statusManager guards the refresh status shared by the refresh goroutine and readers
type statusManager struct {
	mu     sync.RWMutex
	status models.RefreshStatus
}

func newStatusManager() *statusManager {
	return &statusManager{
		status: models.RefreshStatus{Status: models.RefreshIdle},
	}
}

// begin marks a refresh as started. It returns false, with the start time of the
// running refresh, when one is already in progress.
func (m *statusManager) begin(at time.Time) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status.IsRefreshing {
		return m.status.StartedAt, false
	}

	m.status = models.RefreshStatus{
		IsRefreshing: true,
		Status:       models.RefreshInProgress,
		StartedAt:    at,
	}
	return at, true
}

func (m *statusManager) recordProgress(progress *models.BatchProgress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.BatchProgress = progress.Clone()
}

func (m *statusManager) finish(at time.Time, refreshed, failed int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status.IsRefreshing = false
	m.status.FinishedAt = at
	m.status.Refreshed = refreshed
	m.status.Failed = failed
	if err != nil {
		m.status.Status = models.RefreshFailed
		m.status.LastError = err.Error()
		return
	}
	m.status.Status = models.RefreshCompleted
	m.status.LastError = ""
}

// get returns a copy of the current status
func (m *statusManager) get() *models.RefreshStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := m.status
	status.BatchProgress = m.status.BatchProgress.Clone()
	return &status
}
