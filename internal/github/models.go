package github

import (
	"time"

	"github.com/Kamar-Folarin/repo-insights/internal/analytics"
	"github.com/Kamar-Folarin/repo-insights/internal/models"
	"github.com/Kamar-Folarin/repo-insights/pkg/utils"
)

// RepoRef identifies a repository by owner and name
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepoRef accepts any form utils.ParseGitHubURL understands
func ParseRepoRef(s string) (RepoRef, error) {
	owner, name, err := utils.ParseGitHubURL(s)
	if err != nil {
		return RepoRef{}, NewValidationError("repository", s)
	}
	return RepoRef{Owner: owner, Name: name}, nil
}

// RepositoryOverview is a repository with its derived views
type RepositoryOverview struct {
	Repository   models.Repository         `json:"repository"`
	Health       analytics.HealthScore     `json:"health"`
	Badge        analytics.HealthBadge     `json:"badge"`
	Languages    []analytics.LanguageShare `json:"languages"`
	Contributors []models.Contributor      `json:"contributors"`
}

// HealthReport is the health breakdown of one repository
type HealthReport struct {
	Repository string                `json:"repository"`
	Health     analytics.HealthScore `json:"health"`
	Badge      analytics.HealthBadge `json:"badge"`
	ComputedAt time.Time             `json:"computed_at"`
}

// SearchItem is a search hit annotated with its health
type SearchItem struct {
	models.Repository
	Health analytics.HealthScore `json:"health"`
	Badge  analytics.HealthBadge `json:"badge"`
}

// SearchResponse is a page of annotated search results
type SearchResponse struct {
	TotalCount        int          `json:"total_count"`
	IncompleteResults bool         `json:"incomplete_results"`
	Items             []SearchItem `json:"items"`
}
