package github

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/repo-insights/internal/analytics"
	"github.com/Kamar-Folarin/repo-insights/internal/config"
	"github.com/Kamar-Folarin/repo-insights/internal/db"
	"github.com/Kamar-Folarin/repo-insights/internal/models"
)

// Services bundles the services behind the HTTP API. Watch is nil when no store is
// configured.
type Services struct {
	Repositories RepositoryService
	Issues       IssuesService
	Search       SearchService
	Watch        WatchService
}

// NewServices wires every service to client. store may be nil.
func NewServices(client API, store db.Store, cfg *config.Config, opts ...ServiceOption) *Services {
	services := &Services{
		Repositories: NewRepositoryService(client, cfg.Scoring, opts...),
		Issues:       NewIssuesService(client, cfg.GitHub, cfg.Scoring, opts...),
		Search:       NewSearchService(client, cfg.Scoring, opts...),
	}
	if store != nil {
		services.Watch = NewWatchService(client, store, cfg.Scoring, cfg.Refresh, opts...)
	}
	return services
}

// ServiceOption configures the services
type ServiceOption func(*serviceDeps)

// WithClock replaces time.Now as the source of "now" for scoring
func WithClock(now func() time.Time) ServiceOption {
	return func(d *serviceDeps) {
		d.now = now
	}
}

// WithServiceLogger sets the logger used by the services
func WithServiceLogger(logger *logrus.Logger) ServiceOption {
	return func(d *serviceDeps) {
		d.logger = logger
	}
}

type serviceDeps struct {
	now    func() time.Time
	logger *logrus.Logger
}

func newServiceDeps(opts []ServiceOption) serviceDeps {
	deps := serviceDeps{
		now:    time.Now,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&deps)
	}
	return deps
}

func scoringOrDefault(scoring *config.ScoringConfig) *config.ScoringConfig {
	if scoring == nil {
		return config.DefaultScoringConfig()
	}
	return scoring
}

// scoreRepository computes the health score and badge of repo as of now
func scoreRepository(repo *models.Repository, now time.Time, scoring *config.ScoringConfig) (analytics.HealthScore, analytics.HealthBadge) {
	score := analytics.CalculateHealthScoreWith(*repo, now, scoring.Health)
	return score, analytics.GetHealthBadgeWith(score.Total, scoring.Badges)
}
