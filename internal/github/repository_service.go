package github

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Kamar-Folarin/repo-insights/internal/analytics"
	"github.com/Kamar-Folarin/repo-insights/internal/config"
	"github.com/Kamar-Folarin/repo-insights/internal/errors"
	"github.com/Kamar-Folarin/repo-insights/internal/models"
)

const (
	topContributors = 10
	minCompare      = 2
	maxCompare      = 4
)

// RepositoryServiceImpl implements the RepositoryService interface
type RepositoryServiceImpl struct {
	serviceDeps
	client  API
	scoring *config.ScoringConfig
}

// NewRepositoryService creates a new repository service
func NewRepositoryService(client API, scoring *config.ScoringConfig, opts ...ServiceOption) RepositoryService {
	return &RepositoryServiceImpl{
		serviceDeps: newServiceDeps(opts),
		client:      client,
		scoring:     scoringOrDefault(scoring),
	}
}

// GetOverview fetches the repository, its languages and contributors concurrently.
// The first failure cancels the other requests.
func (s *RepositoryServiceImpl) GetOverview(ctx context.Context, owner, name string) (*RepositoryOverview, error) {
	var (
		repo         *models.Repository
		languages    map[string]int64
		contributors []models.Contributor
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		repo, err = s.client.GetRepository(gctx, owner, name)
		return err
	})
	g.Go(func() error {
		var err error
		languages, err = s.client.GetLanguages(gctx, owner, name)
		return err
	})
	g.Go(func() error {
		var err error
		contributors, err = s.client.ListContributors(gctx, owner, name, topContributors)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.WithFields(logrus.Fields{
			"owner": owner,
			"repo":  name,
		}).WithError(err).Warn("Failed to build repository overview")
		return nil, fmt.Errorf("failed to get overview of %s/%s: %w", owner, name, err)
	}

	health, badge := scoreRepository(repo, s.now(), s.scoring)
	return &RepositoryOverview{
		Repository:   *repo,
		Health:       health,
		Badge:        badge,
		Languages:    analytics.LanguageBreakdown(languages, s.scoring.LanguageColors),
		Contributors: contributors,
	}, nil
}

// GetHealth scores a single repository
func (s *RepositoryServiceImpl) GetHealth(ctx context.Context, owner, name string) (*HealthReport, error) {
	repo, err := s.client.GetRepository(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", owner, name, err)
	}

	now := s.now()
	health, badge := scoreRepository(repo, now, s.scoring)
	return &HealthReport{
		Repository: repo.Slug(),
		Health:     health,
		Badge:      badge,
		ComputedAt: now,
	}, nil
}

// Compare fetches every repository concurrently and ranks them
func (s *RepositoryServiceImpl) Compare(ctx context.Context, refs []RepoRef) (*analytics.Comparison, error) {
	if len(refs) < minCompare || len(refs) > maxCompare {
		return nil, errors.NewValidationError(
			fmt.Sprintf("compare needs between %d and %d repositories, got %d", minCompare, maxCompare, len(refs)), nil)
	}

	repos := make([]*models.Repository, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			repo, err := s.client.GetRepository(gctx, ref.Owner, ref.Name)
			if err != nil {
				return fmt.Errorf("failed to get repository %s: %w", ref, err)
			}
			repos[i] = repo
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	entries := make([]analytics.ComparisonEntry, 0, len(repos))
	for _, repo := range repos {
		health, badge := scoreRepository(repo, now, s.scoring)
		entries = append(entries, analytics.ComparisonEntry{
			Repository: *repo,
			Health:     health,
			Badge:      badge,
		})
	}

	comparison := analytics.CompareRepositories(entries)
	return &comparison, nil
}

// GetRateLimit gets the remaining GitHub API budget
func (s *RepositoryServiceImpl) GetRateLimit(ctx context.Context) (*models.RateLimitResponse, error) {
	return s.client.GetRateLimit(ctx)
}
