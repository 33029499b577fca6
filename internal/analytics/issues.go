package analytics

import (
	"sort"
	"time"

	"github.com/Kamar-Folarin/repo-insights/internal/config"
	"github.com/Kamar-Folarin/repo-insights/internal/models"
)

const timelineKeyFormat = "2006-01"

// IssuesAnalytics summarises a repository's issues
type IssuesAnalytics struct {
	Total  int `json:"total"`
	Open   int `json:"open"`
	Closed int `json:"closed"`
	// AvgCloseTime is the mean days from creation to close over closed issues
	AvgCloseTime float64 `json:"avgCloseTime"`
	// AvgResponseTime is the mean days from creation to the first maintainer action
	AvgResponseTime float64          `json:"avgResponseTime"`
	Timeline        []TimelineBucket `json:"timeline"`
	TopLabels       []LabelCount     `json:"topLabels"`
	HottestIssues   []HotIssue       `json:"hottestIssues"`
}

// TimelineBucket counts the issues opened and closed in one calendar month
type TimelineBucket struct {
	Month  string `json:"month"`
	Open   int    `json:"open"`
	Closed int    `json:"closed"`
}

// LabelCount is the number of issues carrying a label
type LabelCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// HotIssue is an issue with its engagement score
type HotIssue struct {
	models.Issue
	Engagement int `json:"engagement"`
}

// ComputeIssuesAnalytics summarises issues with the default sizes
func ComputeIssuesAnalytics(issues []models.Issue, now time.Time) IssuesAnalytics {
	return ComputeIssuesAnalyticsWith(issues, now, config.DefaultIssuesConfig())
}

// ComputeIssuesAnalyticsWith summarises issues as of now. Pull requests are ignored.
// The timeline counts events: an issue adds to the open count of the month it was
// created in and to the closed count of the month it was closed in. Months are taken
// in now's location. The input slice is not modified.
func ComputeIssuesAnalyticsWith(issues []models.Issue, now time.Time, cfg config.IssuesConfig) IssuesAnalytics {
	cfg = withIssueDefaults(cfg)

	filtered := make([]models.Issue, 0, len(issues))
	for _, issue := range issues {
		if !issue.IsPullRequest() {
			filtered = append(filtered, issue)
		}
	}

	result := IssuesAnalytics{
		Total:         len(filtered),
		Timeline:      buildTimeline(filtered, now, cfg.TimelineMonths),
		TopLabels:     topLabels(filtered, cfg.TopLabels),
		HottestIssues: hottestIssues(filtered, cfg.HottestIssues),
	}

	var closeDays, responseDays []float64
	for i := range filtered {
		issue := &filtered[i]
		if issue.IsClosed() {
			result.Closed++
			if issue.ClosedAt != nil {
				closeDays = append(closeDays, daysBetween(issue.CreatedAt, *issue.ClosedAt))
			}
		} else {
			result.Open++
		}

		if at := firstAction(issue); at != nil {
			responseDays = append(responseDays, daysBetween(issue.CreatedAt, *at))
		}
	}

	result.AvgCloseTime = mean(closeDays)
	result.AvgResponseTime = mean(responseDays)
	return result
}

func withIssueDefaults(cfg config.IssuesConfig) config.IssuesConfig {
	defaults := config.DefaultIssuesConfig()
	if cfg.TimelineMonths <= 0 {
		cfg.TimelineMonths = defaults.TimelineMonths
	}
	if cfg.TopLabels <= 0 {
		cfg.TopLabels = defaults.TopLabels
	}
	if cfg.HottestIssues <= 0 {
		cfg.HottestIssues = defaults.HottestIssues
	}
	return cfg
}

// firstAction is the first comment when known, otherwise the close of a closed issue
func firstAction(issue *models.Issue) *time.Time {
	if issue.FirstResponseAt != nil {
		return issue.FirstResponseAt
	}
	if issue.IsClosed() && issue.ClosedAt != nil {
		return issue.ClosedAt
	}
	return nil
}

func daysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func buildTimeline(issues []models.Issue, now time.Time, months int) []TimelineBucket {
	loc := now.Location()
	start := time.Date(now.Year(), now.Month()-time.Month(months-1), 1, 0, 0, 0, 0, loc)

	timeline := make([]TimelineBucket, months)
	index := make(map[string]int, months)
	for i := range timeline {
		key := start.AddDate(0, i, 0).Format(timelineKeyFormat)
		timeline[i].Month = key
		index[key] = i
	}

	for _, issue := range issues {
		if i, ok := index[issue.CreatedAt.In(loc).Format(timelineKeyFormat)]; ok {
			timeline[i].Open++
		}
		if issue.ClosedAt != nil {
			if i, ok := index[issue.ClosedAt.In(loc).Format(timelineKeyFormat)]; ok {
				timeline[i].Closed++
			}
		}
	}

	return timeline
}

func topLabels(issues []models.Issue, limit int) []LabelCount {
	counts := make([]LabelCount, 0)
	seen := make(map[string]int)

	for _, issue := range issues {
		for _, label := range issue.Labels {
			if i, ok := seen[label.Name]; ok {
				counts[i].Count++
				continue
			}
			seen[label.Name] = len(counts)
			counts = append(counts, LabelCount{Name: label.Name, Count: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

func hottestIssues(issues []models.Issue, limit int) []HotIssue {
	hot := make([]HotIssue, 0, len(issues))
	for i := range issues {
		hot = append(hot, HotIssue{Issue: issues[i], Engagement: issues[i].Engagement()})
	}

	sort.SliceStable(hot, func(i, j int) bool {
		return hot[i].Engagement > hot[j].Engagement
	})

	if len(hot) > limit {
		hot = hot[:limit]
	}
	return hot
}
