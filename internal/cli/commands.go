package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kamar-Folarin/repo-insights/internal/github"
)

func newHealthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health OWNER/REPO",
		Short: "Show the health breakdown and badge of a repository.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := github.ParseRepoRef(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := requestContext(cmd, a.cfg.GitHub.Fetch.Timeout)
			defer cancel()

			report, err := a.services.Repositories.GetHealth(ctx, ref.Owner, ref.Name)
			if err != nil {
				return err
			}
			return writeHealthTable(cmd.OutOrStdout(), report, a.cfg.Scoring, a.colors)
		},
	}
}

func newIssuesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "issues OWNER/REPO",
		Short: "Summarise the recent issues of a repository.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := github.ParseRepoRef(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := requestContext(cmd, a.cfg.GitHub.Fetch.Timeout)
			defer cancel()

			summary, err := a.services.Issues.GetIssuesAnalytics(ctx, ref.Owner, ref.Name)
			if err != nil {
				return err
			}
			return writeIssuesTable(cmd.OutOrStdout(), ref.String(), summary)
		},
	}
}

func newLanguagesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages OWNER/REPO",
		Short: "Show the language breakdown of a repository.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := github.ParseRepoRef(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := requestContext(cmd, a.cfg.GitHub.Fetch.Timeout)
			defer cancel()

			overview, err := a.services.Repositories.GetOverview(ctx, ref.Owner, ref.Name)
			if err != nil {
				return err
			}
			return writeLanguagesTable(cmd.OutOrStdout(), overview.Languages)
		},
	}
}

func newCompareCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare OWNER/REPO OWNER/REPO...",
		Short: "Rank two to four repositories by health.",
		Args:  cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs := make([]github.RepoRef, 0, len(args))
			for _, arg := range args {
				ref, err := github.ParseRepoRef(arg)
				if err != nil {
					return err
				}
				refs = append(refs, ref)
			}

			ctx, cancel := requestContext(cmd, a.cfg.GitHub.Fetch.Timeout)
			defer cancel()

			comparison, err := a.services.Repositories.Compare(ctx, refs)
			if err != nil {
				return err
			}
			return writeComparisonTable(cmd.OutOrStdout(), comparison, a.colors)
		},
	}
}

func newSearchCommand(a *app) *cobra.Command {
	var params github.SearchParams

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search repositories and score every result.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Query = strings.Join(args, " ")

			ctx, cancel := requestContext(cmd, a.cfg.GitHub.Fetch.Timeout)
			defer cancel()

			result, err := a.services.Search.Search(ctx, params)
			if err != nil {
				return err
			}
			if err := writeSearchTable(cmd.OutOrStdout(), result, a.colors); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Showing %d of %d results\n", len(result.Items), result.TotalCount)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&params.Sort, "sort", "", "stars, forks, updated or help-wanted-issues")
	flags.StringVar(&params.Order, "order", "", "asc or desc")
	flags.IntVar(&params.Page, "page", 0, "Result page")
	flags.IntVar(&params.PerPage, "per-page", 10, "Results per page (max 100)")
	return cmd
}
