// Package analytics turns raw GitHub payloads into the dashboard's derived views:
// health scores and badges, issue statistics, language shares and comparisons.
// Every function here is pure; callers pass "now" explicitly.
package analytics

import (
	"math"
	"time"

	"github.com/Kamar-Folarin/repo-insights/internal/config"
	"github.com/Kamar-Folarin/repo-insights/internal/models"
)

// HealthScore is the breakdown of a repository's 0-100 health score
type HealthScore struct {
	Activity      float64 `json:"activity"`
	Community     float64 `json:"community"`
	Documentation float64 `json:"documentation"`
	Maintenance   float64 `json:"maintenance"`
	Total         float64 `json:"total"`
}

// HealthBadge is the display tier for a health total
type HealthBadge struct {
	Tier      string `json:"tier"`
	Emoji     string `json:"emoji"`
	Label     string `json:"label"`
	Color     string `json:"color"`
	TextClass string `json:"textClass"`
	BgClass   string `json:"bgClass"`
}

// CalculateHealthScore scores repo with the default health tables
func CalculateHealthScore(repo models.Repository, now time.Time) HealthScore {
	return CalculateHealthScoreWith(repo, now, config.DefaultHealthConfig())
}

// CalculateHealthScoreWith scores repo against cfg. Each sub-score is clamped to its
// maximum and the total is the sum of the four, capped at cfg.MaxTotal.
func CalculateHealthScoreWith(repo models.Repository, now time.Time, cfg config.HealthConfig) HealthScore {
	score := HealthScore{
		Activity:      activityScore(repo, now, cfg.Activity),
		Community:     communityScore(repo, cfg.Community),
		Documentation: documentationScore(repo, cfg.Docs),
		Maintenance:   maintenanceScore(repo, cfg.Maintenance),
	}

	total := score.Activity + score.Community + score.Documentation + score.Maintenance
	if cfg.MaxTotal > 0 && total > cfg.MaxTotal {
		total = cfg.MaxTotal
	}
	score.Total = total
	return score
}

func activityScore(repo models.Repository, now time.Time, tiers []config.ActivityTier) float64 {
	days := now.Sub(repo.UpdatedAt).Hours() / 24
	for _, tier := range tiers {
		if days < tier.MaxDays {
			return math.Max(tier.Points, 0)
		}
	}
	return 0
}

func communityScore(repo models.Repository, cfg config.CommunityConfig) float64 {
	stars := banded(float64(repo.StarsCount), cfg.StarsPerPoint, cfg.MaxStarPoints)
	forks := banded(float64(repo.ForksCount), cfg.ForksPerPoint, cfg.MaxForkPoints)
	return clamp(stars+forks, cfg.Max)
}

// banded awards one point per full perPoint units, up to max
func banded(value, perPoint, max float64) float64 {
	if perPoint <= 0 || value <= 0 {
		return 0
	}
	return clamp(math.Floor(value/perPoint), max)
}

func documentationScore(repo models.Repository, cfg config.DocumentationConfig) float64 {
	var points float64
	if repo.HasDescription() {
		points += cfg.DescriptionPoints
	}
	if repo.HasWiki {
		points += cfg.WikiPoints
	}
	if repo.HasLicense() {
		points += cfg.LicensePoints
	}
	return clamp(points, cfg.Max)
}

func maintenanceScore(repo models.Repository, cfg config.MaintenanceConfig) float64 {
	// stars of 0 would make the ratio undefined
	stars := math.Max(float64(repo.StarsCount), 1)
	ratio := float64(repo.OpenIssuesCount) / stars

	for _, tier := range cfg.Tiers {
		if ratio < tier.MaxRatio {
			return clamp(tier.Points, cfg.Max)
		}
	}
	return clamp(cfg.Floor, cfg.Max)
}

func clamp(v, max float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if max > 0 && v > max {
		return max
	}
	return v
}

// GetHealthBadge returns the default badge for a health total
func GetHealthBadge(total float64) HealthBadge {
	return GetHealthBadgeWith(total, config.DefaultBadgeTiers())
}

// GetHealthBadgeWith returns the first tier, ordered best to worst, whose MinScore
// is at or below total. Totals below every tier get the last one.
func GetHealthBadgeWith(total float64, tiers []config.BadgeTier) HealthBadge {
	if len(tiers) == 0 {
		return HealthBadge{}
	}

	chosen := tiers[len(tiers)-1]
	for _, tier := range tiers {
		if total >= tier.MinScore {
			chosen = tier
			break
		}
	}

	return HealthBadge{
		Tier:      chosen.Tier,
		Emoji:     chosen.Emoji,
		Label:     chosen.Label,
		Color:     chosen.Color,
		TextClass: chosen.TextClass,
		BgClass:   chosen.BgClass,
	}
}
