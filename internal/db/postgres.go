package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	apperrors "github.com/Kamar-Folarin/repo-insights/internal/errors"
	"github.com/Kamar-Folarin/repo-insights/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// DefaultHistoryLimit is the number of snapshots returned when no limit is given
const DefaultHistoryLimit = 30

// PostgresStore is the Postgres implementation of Store
type PostgresStore struct {
	db *sql.DB
}

// Open connects to Postgres and verifies the connection
func Open(ctx context.Context, connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewPostgresStore(db), nil
}

// NewPostgresStore wraps an open database handle
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate applies the embedded goose migrations
func (s *PostgresStore) Migrate() error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(s.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database handle
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// AddTrackedRepository inserts repo, or loads the existing row when the repository
// is already tracked. Owner and name match case-insensitively.
func (s *PostgresStore) AddTrackedRepository(ctx context.Context, repo *models.TrackedRepository) error {
	if repo == nil {
		return apperrors.NewValidationError("repository cannot be nil", nil)
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tracked_repositories (owner, name, url, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT ((lower(owner)), (lower(name))) DO UPDATE SET
			updated_at = tracked_repositories.updated_at
		RETURNING id, owner, name, url, last_refreshed_at, last_error, created_at, updated_at`,
		repo.Owner, repo.Name, repo.URL,
	).Scan(trackedColumns(repo)...)
	if err != nil {
		return fmt.Errorf("failed to add tracked repository: %w", err)
	}

	return nil
}

// GetTrackedRepository retrieves a tracked repository by owner and name
func (s *PostgresStore) GetTrackedRepository(ctx context.Context, owner, name string) (*models.TrackedRepository, error) {
	var repo models.TrackedRepository
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner, name, url, last_refreshed_at, last_error, created_at, updated_at
		FROM tracked_repositories
		WHERE lower(owner) = lower($1) AND lower(name) = lower($2)`,
		owner, name,
	).Scan(trackedColumns(&repo)...)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("repository %s/%s is not tracked", owner, name), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracked repository: %w", err)
	}

	return &repo, nil
}

// ListTrackedRepositories lists tracked repositories in the order they were added
func (s *PostgresStore) ListTrackedRepositories(ctx context.Context) ([]*models.TrackedRepository, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, name, url, last_refreshed_at, last_error, created_at, updated_at
		FROM tracked_repositories
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked repositories: %w", err)
	}
	defer rows.Close()

	repos := make([]*models.TrackedRepository, 0)
	for rows.Next() {
		var repo models.TrackedRepository
		if err := rows.Scan(trackedColumns(&repo)...); err != nil {
			return nil, fmt.Errorf("failed to scan tracked repository: %w", err)
		}
		repos = append(repos, &repo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracked repositories: %w", err)
	}

	return repos, nil
}

// DeleteTrackedRepository removes a repository and its health history
func (s *PostgresStore) DeleteTrackedRepository(ctx context.Context, owner, name string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM tracked_repositories
		WHERE lower(owner) = lower($1) AND lower(name) = lower($2)`,
		owner, name)
	if err != nil {
		return fmt.Errorf("failed to delete tracked repository: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete tracked repository: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("repository %s/%s is not tracked", owner, name), nil)
	}

	return nil
}

// MarkRefreshed records the outcome of a refresh. An empty lastError clears the
// previous one.
func (s *PostgresStore) MarkRefreshed(ctx context.Context, id int64, refreshedAt time.Time, lastError string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tracked_repositories
		SET last_refreshed_at = $2, last_error = $3, updated_at = NOW()
		WHERE id = $1`,
		id, refreshedAt, lastError)
	if err != nil {
		return fmt.Errorf("failed to mark repository refreshed: %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("tracked repository %d not found", id), nil)
	}

	return nil
}

// SaveHealthSnapshot stores a health score and fills in its ID
func (s *PostgresStore) SaveHealthSnapshot(ctx context.Context, snapshot *models.HealthSnapshot) error {
	if snapshot == nil {
		return apperrors.NewValidationError("snapshot cannot be nil", nil)
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO health_snapshots (
			repository_id, captured_at, activity, community, documentation,
			maintenance, total, badge, stars, forks, open_issues
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		snapshot.RepositoryID,
		snapshot.CapturedAt,
		snapshot.Activity,
		snapshot.Community,
		snapshot.Documentation,
		snapshot.Maintenance,
		snapshot.Total,
		snapshot.Badge,
		snapshot.Stars,
		snapshot.Forks,
		snapshot.OpenIssues,
	).Scan(&snapshot.ID)
	if err != nil {
		return fmt.Errorf("failed to save health snapshot: %w", err)
	}

	return nil
}

// ListHealthSnapshots returns the most recent snapshots of a repository, newest first
func (s *PostgresStore) ListHealthSnapshots(ctx context.Context, repositoryID int64, limit int) ([]*models.HealthSnapshot, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id, repository_id, captured_at, activity, community, documentation,
			maintenance, total, badge, stars, forks, open_issues
		FROM health_snapshots
		WHERE repository_id = $1
		ORDER BY captured_at DESC, id DESC
		LIMIT $2`,
		repositoryID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query health snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*models.HealthSnapshot, 0)
	for rows.Next() {
		var snap models.HealthSnapshot
		if err := rows.Scan(
			&snap.ID,
			&snap.RepositoryID,
			&snap.CapturedAt,
			&snap.Activity,
			&snap.Community,
			&snap.Documentation,
			&snap.Maintenance,
			&snap.Total,
			&snap.Badge,
			&snap.Stars,
			&snap.Forks,
			&snap.OpenIssues,
		); err != nil {
			return nil, fmt.Errorf("failed to scan health snapshot: %w", err)
		}
		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating health snapshots: %w", err)
	}

	return snapshots, nil
}

// trackedColumns returns scan targets matching the tracked_repositories column order
func trackedColumns(repo *models.TrackedRepository) []interface{} {
	return []interface{}{
		&repo.ID,
		&repo.Owner,
		&repo.Name,
		&repo.URL,
		&repo.LastRefreshedAt,
		&repo.LastError,
		&repo.CreatedAt,
		&repo.UpdatedAt,
	}
}
