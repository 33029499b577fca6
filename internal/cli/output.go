package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/Kamar-Folarin/repo-insights/internal/analytics"
	"github.com/Kamar-Folarin/repo-insights/internal/config"
	"github.com/Kamar-Folarin/repo-insights/internal/github"
)

var badgeColors = map[string]*color.Color{
	"excellent": color.New(color.FgGreen, color.Bold),
	"good":      color.New(color.FgYellow),
	"fair":      color.New(color.FgHiRed),
	"poor":      color.New(color.FgRed, color.Bold),
}

// badgeLabel renders a badge as "emoji Label", coloured by tier when colors is set
func badgeLabel(badge analytics.HealthBadge, colors bool) string {
	label := badge.Emoji + " " + badge.Label
	c, ok := badgeColors[badge.Tier]
	if !colors || !ok {
		return label
	}
	return c.Sprint(label)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func writeHealthTable(w io.Writer, report *github.HealthReport, scoring *config.ScoringConfig, colors bool) error {
	var activityMax float64
	for _, tier := range scoring.Health.Activity {
		if tier.Points > activityMax {
			activityMax = tier.Points
		}
	}

	h := report.Health
	rows := [][]string{
		{"Activity", formatScore(h.Activity), formatScore(activityMax)},
		{"Community", formatScore(h.Community), formatScore(scoring.Health.Community.Max)},
		{"Documentation", formatScore(h.Documentation), formatScore(scoring.Health.Docs.Max)},
		{"Maintenance", formatScore(h.Maintenance), formatScore(scoring.Health.Maintenance.Max)},
		{"Total", formatScore(h.Total), formatScore(scoring.Health.MaxTotal)},
	}

	if _, err := fmt.Fprintf(w, "%s  %s\n", report.Repository, badgeLabel(report.Badge, colors)); err != nil {
		return err
	}
	return renderTable(w, []string{"Component", "Score", "Max"}, rows)
}

func writeIssuesTable(w io.Writer, repository string, summary *analytics.IssuesAnalytics) error {
	rows := [][]string{
		{"Total", strconv.Itoa(summary.Total)},
		{"Open", strconv.Itoa(summary.Open)},
		{"Closed", strconv.Itoa(summary.Closed)},
		{"Avg close time (days)", formatScore(summary.AvgCloseTime)},
		{"Avg response time (days)", formatScore(summary.AvgResponseTime)},
	}
	if _, err := fmt.Fprintf(w, "%s issues\n", repository); err != nil {
		return err
	}
	if err := renderTable(w, []string{"Metric", "Value"}, rows); err != nil {
		return err
	}

	if len(summary.TopLabels) > 0 {
		labels := make([][]string, 0, len(summary.TopLabels))
		for _, l := range summary.TopLabels {
			labels = append(labels, []string{l.Name, strconv.Itoa(l.Count)})
		}
		if err := renderTable(w, []string{"Label", "Issues"}, labels); err != nil {
			return err
		}
	}

	if len(summary.HottestIssues) > 0 {
		hot := make([][]string, 0, len(summary.HottestIssues))
		for _, issue := range summary.HottestIssues {
			hot = append(hot, []string{"#" + strconv.Itoa(issue.Number), issue.Title, strconv.Itoa(issue.Engagement)})
		}
		if err := renderTable(w, []string{"Issue", "Title", "Engagement"}, hot); err != nil {
			return err
		}
	}
	return nil
}

func writeLanguagesTable(w io.Writer, languages []analytics.LanguageShare) error {
	if len(languages) == 0 {
		_, err := fmt.Fprintln(w, "No languages detected")
		return err
	}

	rows := make([][]string, 0, len(languages))
	for _, l := range languages {
		rows = append(rows, []string{l.Name, strconv.FormatInt(l.Bytes, 10), formatScore(l.Percentage) + "%"})
	}
	return renderTable(w, []string{"Language", "Bytes", "Share"}, rows)
}

func writeComparisonTable(w io.Writer, comparison *analytics.Comparison, colors bool) error {
	rows := make([][]string, 0, len(comparison.Ranking))
	for _, r := range comparison.Ranking {
		rows = append(rows, []string{
			strconv.Itoa(r.Rank),
			r.Repository,
			strconv.Itoa(r.Stars),
			strconv.Itoa(r.Forks),
			formatScore(r.Health.Total),
			badgeLabel(r.Badge, colors),
		})
	}
	if err := renderTable(w, []string{"Rank", "Repository", "Stars", "Forks", "Health", "Badge"}, rows); err != nil {
		return err
	}

	leaders := make([][]string, 0, len(comparison.Leaders))
	for _, l := range comparison.Leaders {
		leaders = append(leaders, []string{l.Metric, l.Repository, formatScore(l.Value)})
	}
	return renderTable(w, []string{"Metric", "Leader", "Value"}, leaders)
}

func writeSearchTable(w io.Writer, result *github.SearchResponse, colors bool) error {
	rows := make([][]string, 0, len(result.Items))
	for _, item := range result.Items {
		rows = append(rows, []string{
			item.FullName,
			item.Language,
			strconv.Itoa(item.StarsCount),
			formatScore(item.Health.Total),
			badgeLabel(item.Badge, colors),
		})
	}
	return renderTable(w, []string{"Repository", "Language", "Stars", "Health", "Badge"}, rows)
}
