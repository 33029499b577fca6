package analytics

import (
	"sort"

	"github.com/Kamar-Folarin/repo-insights/internal/models"
)

// Comparison metrics
const (
	MetricStars         = "stars"
	MetricForks         = "forks"
	MetricActivity      = "activity"
	MetricCommunity     = "community"
	MetricDocumentation = "documentation"
	MetricMaintenance   = "maintenance"
	MetricTotal         = "total"
)

var comparisonMetrics = []string{
	MetricStars, MetricForks, MetricActivity, MetricCommunity,
	MetricDocumentation, MetricMaintenance, MetricTotal,
}

// ComparisonEntry is one repository taking part in a comparison
type ComparisonEntry struct {
	Repository models.Repository
	Health     HealthScore
	Badge      HealthBadge
}

// RankedRepository is a comparison entry with its place in the ranking
type RankedRepository struct {
	Rank       int         `json:"rank"`
	Repository string      `json:"repository"`
	URL        string      `json:"url"`
	Language   string      `json:"language"`
	Stars      int         `json:"stars"`
	Forks      int         `json:"forks"`
	OpenIssues int         `json:"open_issues"`
	Health     HealthScore `json:"health"`
	Badge      HealthBadge `json:"badge"`
}

// MetricLeader names the repository with the highest value of a metric
type MetricLeader struct {
	Metric     string  `json:"metric"`
	Repository string  `json:"repository"`
	Value      float64 `json:"value"`
}

// Comparison is the side-by-side result of CompareRepositories
type Comparison struct {
	Ranking []RankedRepository `json:"ranking"`
	Leaders []MetricLeader     `json:"leaders"`
}

// CompareRepositories ranks entries by health total, then stars. Leaders go to the
// earliest entry on ties.
func CompareRepositories(entries []ComparisonEntry) Comparison {
	result := Comparison{
		Ranking: make([]RankedRepository, 0, len(entries)),
		Leaders: make([]MetricLeader, 0, len(comparisonMetrics)),
	}
	if len(entries) == 0 {
		return result
	}

	for _, e := range entries {
		result.Ranking = append(result.Ranking, RankedRepository{
			Repository: e.Repository.Slug(),
			URL:        e.Repository.URL,
			Language:   e.Repository.Language,
			Stars:      e.Repository.StarsCount,
			Forks:      e.Repository.ForksCount,
			OpenIssues: e.Repository.OpenIssuesCount,
			Health:     e.Health,
			Badge:      e.Badge,
		})
	}

	sort.SliceStable(result.Ranking, func(i, j int) bool {
		a, b := result.Ranking[i], result.Ranking[j]
		if a.Health.Total != b.Health.Total {
			return a.Health.Total > b.Health.Total
		}
		return a.Stars > b.Stars
	})
	for i := range result.Ranking {
		result.Ranking[i].Rank = i + 1
	}

	for _, metric := range comparisonMetrics {
		leader := MetricLeader{Metric: metric, Repository: entries[0].Repository.Slug(), Value: metricValue(entries[0], metric)}
		for _, e := range entries[1:] {
			if v := metricValue(e, metric); v > leader.Value {
				leader.Repository = e.Repository.Slug()
				leader.Value = v
			}
		}
		result.Leaders = append(result.Leaders, leader)
	}

	return result
}

func metricValue(e ComparisonEntry, metric string) float64 {
	switch metric {
	case MetricStars:
		return float64(e.Repository.StarsCount)
	case MetricForks:
		return float64(e.Repository.ForksCount)
	case MetricActivity:
		return e.Health.Activity
	case MetricCommunity:
		return e.Health.Community
	case MetricDocumentation:
		return e.Health.Documentation
	case MetricMaintenance:
		return e.Health.Maintenance
	default:
		return e.Health.Total
	}
}
