package db

import (
	"context"
	"time"

	"github.com/Kamar-Folarin/repo-insights/internal/models"
)

// Store defines the interface for watchlist persistence
type Store interface {
	// Tracked repository operations
	AddTrackedRepository(ctx context.Context, repo *models.TrackedRepository) error
	GetTrackedRepository(ctx context.Context, owner, name string) (*models.TrackedRepository, error)
	ListTrackedRepositories(ctx context.Context) ([]*models.TrackedRepository, error)
	DeleteTrackedRepository(ctx context.Context, owner, name string) error
	MarkRefreshed(ctx context.Context, id int64, refreshedAt time.Time, lastError string) error

	// Health history operations
	SaveHealthSnapshot(ctx context.Context, snapshot *models.HealthSnapshot) error
	ListHealthSnapshots(ctx context.Context, repositoryID int64, limit int) ([]*models.HealthSnapshot, error)
}
