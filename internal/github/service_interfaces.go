package github

import (
	"context"
	"time"

	"github.com/Kamar-Folarin/repo-insights/internal/analytics"
	"github.com/Kamar-Folarin/repo-insights/internal/models"
)

// API defines the GitHub operations the services depend on. *GitHubClient
// implements it.
type API interface {
	GetRepository(ctx context.Context, owner, name string) (*models.Repository, error)
	ListIssues(ctx context.Context, owner, name string) ([]models.Issue, error)
	GetFirstCommentTime(ctx context.Context, owner, name string, number int) (*time.Time, error)
	GetLanguages(ctx context.Context, owner, name string) (map[string]int64, error)
	ListContributors(ctx context.Context, owner, name string, limit int) ([]models.Contributor, error)
	SearchRepositories(ctx context.Context, params SearchParams) (*models.SearchResult, error)
	GetRateLimit(ctx context.Context) (*models.RateLimitResponse, error)
}

// RepositoryService defines the interface for repository level views
type RepositoryService interface {
	// GetOverview gets a repository with its health, languages and top contributors
	GetOverview(ctx context.Context, owner, name string) (*RepositoryOverview, error)

	// GetHealth gets the health breakdown and badge of a repository
	GetHealth(ctx context.Context, owner, name string) (*HealthReport, error)

	// Compare ranks two to four repositories side by side
	Compare(ctx context.Context, refs []RepoRef) (*analytics.Comparison, error)

	// GetRateLimit gets the remaining GitHub API budget
	GetRateLimit(ctx context.Context) (*models.RateLimitResponse, error)
}

// IssuesService defines the interface for issue statistics
type IssuesService interface {
	// GetIssuesAnalytics summarises the most recent issues of a repository
	GetIssuesAnalytics(ctx context.Context, owner, name string) (*analytics.IssuesAnalytics, error)
}

// SearchService defines the interface for repository search
type SearchService interface {
	// Search runs a repository search and scores every result
	Search(ctx context.Context, params SearchParams) (*SearchResponse, error)
}

// WatchService defines the interface for the watchlist
type WatchService interface {
	// Track adds a repository to the watchlist and records its first snapshot
	Track(ctx context.Context, repoURL string) (*models.TrackedRepository, error)

	// Untrack removes a repository and its history
	Untrack(ctx context.Context, owner, name string) error

	// List lists tracked repositories
	List(ctx context.Context) ([]*models.TrackedRepository, error)

	// History gets the most recent health snapshots of a tracked repository
	History(ctx context.Context, owner, name string, limit int) ([]*models.HealthSnapshot, error)

	// Refresh snapshots every tracked repository and waits for it to finish
	Refresh(ctx context.Context) error

	// TriggerRefresh starts a refresh in the background
	TriggerRefresh(ctx context.Context) error

	// Status gets the state of the current or last refresh
	Status() *models.RefreshStatus

	// StartRefresh refreshes the watchlist every interval until ctx is done
	StartRefresh(ctx context.Context, interval time.Duration)
}
