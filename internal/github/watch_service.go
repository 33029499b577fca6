package github

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/repo-insights/internal/batch"
	"github.com/Kamar-Folarin/repo-insights/internal/config"
	"github.com/Kamar-Folarin/repo-insights/internal/db"
	"github.com/Kamar-Folarin/repo-insights/internal/errors"
	"github.com/Kamar-Folarin/repo-insights/internal/models"
	"github.com/Kamar-Folarin/repo-insights/pkg/utils"
)

const refreshTimeout = 30 * time.Minute

// WatchServiceImpl implements the WatchService interface
type WatchServiceImpl struct {
	serviceDeps
	client    API
	store     db.Store
	scoring   *config.ScoringConfig
	processor *batch.Processor
	status    *statusManager
}

// NewWatchService creates a new watchlist service
func NewWatchService(client API, store db.Store, scoring *config.ScoringConfig, cfg *config.RefreshConfig, opts ...ServiceOption) WatchService {
	if cfg == nil {
		cfg = config.DefaultRefreshConfig()
	}
	return &WatchServiceImpl{
		serviceDeps: newServiceDeps(opts),
		client:      client,
		store:       store,
		scoring:     scoringOrDefault(scoring),
		processor:   batch.NewProcessor(cfg.Batch),
		status:      newStatusManager(),
	}
}

// Track resolves repoURL against GitHub, so the stored owner and name use GitHub's
// casing, and records an initial snapshot. Tracking a repository twice returns the
// existing entry.
func (s *WatchServiceImpl) Track(ctx context.Context, repoURL string) (*models.TrackedRepository, error) {
	owner, name, err := utils.ParseGitHubURL(repoURL)
	if err != nil {
		return nil, errors.NewValidationError(err.Error(), err)
	}

	logger := s.logger.WithFields(logrus.Fields{
		"owner":  owner,
		"repo":   name,
		"action": "track",
	})

	repo, err := s.client.GetRepository(ctx, owner, name)
	if err != nil {
		logger.WithError(err).Warn("Failed to resolve repository")
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", owner, name, err)
	}

	tracked := &models.TrackedRepository{
		Owner: repo.Owner.Login,
		Name:  repo.Name,
		URL:   utils.RepositoryURL(repo.Owner.Login, repo.Name),
	}
	if err := s.store.AddTrackedRepository(ctx, tracked); err != nil {
		return nil, err
	}

	at := s.now()
	if err := s.saveSnapshot(ctx, tracked, repo, at); err != nil {
		return nil, err
	}
	tracked.LastRefreshedAt = &at
	tracked.LastError = ""

	logger.WithField("id", tracked.ID).Info("Repository tracked")
	return tracked, nil
}

// Untrack removes a repository from the watchlist
func (s *WatchServiceImpl) Untrack(ctx context.Context, owner, name string) error {
	if err := s.store.DeleteTrackedRepository(ctx, owner, name); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"owner":  owner,
		"repo":   name,
		"action": "untrack",
	}).Info("Repository untracked")
	return nil
}

// List lists tracked repositories
func (s *WatchServiceImpl) List(ctx context.Context) ([]*models.TrackedRepository, error) {
	return s.store.ListTrackedRepositories(ctx)
}

// History gets the most recent snapshots of a tracked repository, newest first
func (s *WatchServiceImpl) History(ctx context.Context, owner, name string, limit int) ([]*models.HealthSnapshot, error) {
	if limit < 0 {
		return nil, errors.NewValidationError("limit cannot be negative", nil)
	}

	tracked, err := s.store.GetTrackedRepository(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	return s.store.ListHealthSnapshots(ctx, tracked.ID, limit)
}

// Refresh runs a refresh and waits for it. It fails with a conflict error when a
// refresh is already running.
func (s *WatchServiceImpl) Refresh(ctx context.Context) error {
	if startedAt, ok := s.status.begin(s.now()); !ok {
		return errors.NewRefreshInProgressError(startedAt)
	}
	return s.runRefresh(ctx)
}

// TriggerRefresh starts a refresh that outlives ctx's cancellation but not its values
func (s *WatchServiceImpl) TriggerRefresh(ctx context.Context) error {
	if startedAt, ok := s.status.begin(s.now()); !ok {
		return errors.NewRefreshInProgressError(startedAt)
	}

	go func() {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		_ = s.runRefresh(refreshCtx)
	}()
	return nil
}

// Status gets the state of the current or last refresh
func (s *WatchServiceImpl) Status() *models.RefreshStatus {
	s.drainProgress()
	return s.status.get()
}

// StartRefresh refreshes immediately, then every interval until ctx is done
func (s *WatchServiceImpl) StartRefresh(ctx context.Context, interval time.Duration) {
	logger := s.logger.WithField("interval", interval)
	logger.Info("Starting watchlist refresh loop")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.scheduledRefresh(ctx, logger)
	for {
		select {
		case <-ticker.C:
			s.scheduledRefresh(ctx, logger)
		case <-ctx.Done():
			logger.Info("Stopping watchlist refresh loop")
			return
		}
	}
}

func (s *WatchServiceImpl) scheduledRefresh(ctx context.Context, logger *logrus.Entry) {
	err := s.Refresh(ctx)
	switch {
	case err == nil:
	case errors.IsConflict(err):
		logger.Debug("Skipping scheduled refresh, one is already running")
	default:
		logger.WithError(err).Error("Scheduled refresh failed")
	}
}

// runRefresh snapshots every tracked repository through the batch processor. A
// repository that fails is recorded on its row and does not fail its batch.
func (s *WatchServiceImpl) runRefresh(ctx context.Context) error {
	logger := s.logger.WithField("action", "refresh")

	var refreshed, failed int64
	err := s.refreshAll(ctx, logger, &refreshed, &failed)

	s.drainProgress()
	s.status.finish(s.now(), int(refreshed), int(failed), err)

	fields := logrus.Fields{
		"refreshed": refreshed,
		"failed":    failed,
		"status":    s.status.get().String(),
	}
	if err != nil {
		logger.WithFields(fields).WithError(err).Error("Watchlist refresh failed")
		return err
	}
	logger.WithFields(fields).Info("Watchlist refresh completed")
	return nil
}

func (s *WatchServiceImpl) refreshAll(ctx context.Context, logger *logrus.Entry, refreshed, failed *int64) error {
	repos, err := s.store.ListTrackedRepositories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tracked repositories: %w", err)
	}

	items := make([]batch.Item, len(repos))
	for i, repo := range repos {
		items[i] = repo
	}

	return s.processor.ProcessItems(ctx, items, func(ctx context.Context, b []batch.Item) error {
		for _, item := range b {
			tracked := item.(*models.TrackedRepository)
			if err := s.refreshOne(ctx, tracked); err != nil {
				atomic.AddInt64(failed, 1)
				logger.WithField("repository", tracked.Slug()).WithError(err).Warn("Failed to refresh repository")
				continue
			}
			atomic.AddInt64(refreshed, 1)
		}
		return ctx.Err()
	})
}

func (s *WatchServiceImpl) refreshOne(ctx context.Context, tracked *models.TrackedRepository) error {
	repo, err := s.client.GetRepository(ctx, tracked.Owner, tracked.Name)
	if err != nil {
		if markErr := s.store.MarkRefreshed(ctx, tracked.ID, s.now(), err.Error()); markErr != nil {
			return fmt.Errorf("%v (and failed to record it: %w)", err, markErr)
		}
		return err
	}
	return s.saveSnapshot(ctx, tracked, repo, s.now())
}

// saveSnapshot stores the health of repo and clears the tracked row's last error
func (s *WatchServiceImpl) saveSnapshot(ctx context.Context, tracked *models.TrackedRepository, repo *models.Repository, at time.Time) error {
	health, badge := scoreRepository(repo, at, s.scoring)
	snapshot := &models.HealthSnapshot{
		RepositoryID:  tracked.ID,
		CapturedAt:    at,
		Activity:      health.Activity,
		Community:     health.Community,
		Documentation: health.Documentation,
		Maintenance:   health.Maintenance,
		Total:         health.Total,
		Badge:         badge.Tier,
		Stars:         repo.StarsCount,
		Forks:         repo.ForksCount,
		OpenIssues:    repo.OpenIssuesCount,
	}

	if err := s.store.SaveHealthSnapshot(ctx, snapshot); err != nil {
		return err
	}
	return s.store.MarkRefreshed(ctx, tracked.ID, at, "")
}

// drainProgress moves the latest published batch progress into the status
func (s *WatchServiceImpl) drainProgress() {
	select {
	case progress := <-s.processor.GetProgress():
		s.status.recordProgress(progress)
	default:
	}
}
