// Package cli implements repoctl, a terminal client for the repository analytics.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Kamar-Folarin/repo-insights/internal/config"
	"github.com/Kamar-Folarin/repo-insights/internal/github"
)

// app holds what every subcommand needs once flags are resolved
type app struct {
	v        *viper.Viper
	cfg      *config.Config
	services *github.Services
	colors   bool
}

// NewRootCommand builds the repoctl command tree. Flags fall back to GITHUB_TOKEN,
// GITHUB_API_BASE_URL, FETCH_TIMEOUT_MS and FETCH_RETRIES, the same keys the server reads.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	defaults := config.DefaultGitHubConfig()

	root := &cobra.Command{
		Use:           "repoctl",
		Short:         "Inspect the health of GitHub repositories.",
		Long:          `repoctl scores GitHub repositories, summarises their issues and compares them side by side.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.String("token", "", "GitHub token (default $GITHUB_TOKEN)")
	flags.String("base-url", defaults.APIBaseURL, "GitHub API base URL")
	flags.Bool("no-color", false, "Disable coloured output")
	flags.Duration("timeout", defaults.Fetch.Timeout, "Per-request timeout")
	flags.Int("retries", defaults.Fetch.Retries, "Attempts per request")

	_ = a.v.BindPFlags(flags)
	_ = a.v.BindEnv("token", "GITHUB_TOKEN")
	_ = a.v.BindEnv("base-url", "GITHUB_API_BASE_URL")
	_ = a.v.BindEnv("timeout-ms", "FETCH_TIMEOUT_MS")
	_ = a.v.BindEnv("retries", "FETCH_RETRIES")

	root.AddCommand(
		newHealthCommand(a),
		newIssuesCommand(a),
		newLanguagesCommand(a),
		newCompareCommand(a),
		newSearchCommand(a),
	)
	return root
}

// Execute runs repoctl with the process arguments
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command) error {
	gh := config.DefaultGitHubConfig()
	gh.Token = a.v.GetString("token")
	gh.APIBaseURL = strings.TrimRight(a.v.GetString("base-url"), "/")
	gh.Fetch.Timeout = fetchTimeout(cmd, a.v)
	gh.Fetch.Retries = a.v.GetInt("retries")

	if gh.Fetch.Retries < 1 {
		return fmt.Errorf("--retries must be at least 1, got %d", gh.Fetch.Retries)
	}
	if gh.Fetch.Timeout <= 0 {
		return fmt.Errorf("--timeout (or FETCH_TIMEOUT_MS) must be positive")
	}

	a.cfg = &config.Config{
		GitHub:  gh,
		Scoring: config.DefaultScoringConfig(),
		Refresh: config.DefaultRefreshConfig(),
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)

	client := github.NewGitHubClient(gh, logger)
	a.services = github.NewServices(client, nil, a.cfg, github.WithServiceLogger(logger))

	a.colors = !a.v.GetBool("no-color") && !color.NoColor
	return nil
}

// fetchTimeout prefers an explicit --timeout over FETCH_TIMEOUT_MS, which is in milliseconds
func fetchTimeout(cmd *cobra.Command, v *viper.Viper) time.Duration {
	if cmd.Flags().Changed("timeout") || !v.IsSet("timeout-ms") {
		return v.GetDuration("timeout")
	}
	return time.Duration(v.GetInt64("timeout-ms")) * time.Millisecond
}

// requestContext bounds a whole command, which may issue several requests
func requestContext(cmd *cobra.Command, perRequest time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 10*perRequest)
}
