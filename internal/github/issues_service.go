package github

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Kamar-Folarin/repo-insights/internal/analytics"
	"github.com/Kamar-Folarin/repo-insights/internal/config"
)

const commentLookupConcurrency = 4

// IssuesServiceImpl implements the IssuesService interface
type IssuesServiceImpl struct {
	serviceDeps
	client     API
	sampleSize int
	scoring    *config.ScoringConfig
}

// NewIssuesService creates a new issues service
func NewIssuesService(client API, cfg *config.GitHubConfig, scoring *config.ScoringConfig, opts ...ServiceOption) IssuesService {
	if cfg == nil {
		cfg = config.DefaultGitHubConfig()
	}
	return &IssuesServiceImpl{
		serviceDeps: newServiceDeps(opts),
		client:      client,
		sampleSize:  cfg.ResponseSampleSize,
		scoring:     scoringOrDefault(scoring),
	}
}

// GetIssuesAnalytics lists the repository's recent issues and summarises them. The
// first comment time is looked up for up to sampleSize commented issues; a failed
// lookup leaves that issue without a response time, unless ctx itself is done.
func (s *IssuesServiceImpl) GetIssuesAnalytics(ctx context.Context, owner, name string) (*analytics.IssuesAnalytics, error) {
	issues, err := s.client.ListIssues(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues of %s/%s: %w", owner, name, err)
	}

	logger := s.logger.WithFields(logrus.Fields{
		"owner":  owner,
		"repo":   name,
		"issues": len(issues),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(commentLookupConcurrency)

	sampled := 0
	for i := range issues {
		if sampled >= s.sampleSize {
			break
		}
		issue := &issues[i]
		if issue.IsPullRequest() || issue.Comments == 0 {
			continue
		}
		sampled++

		g.Go(func() error {
			first, err := s.client.GetFirstCommentTime(gctx, owner, name, issue.Number)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.WithError(err).WithField("number", issue.Number).Warn("Failed to look up first comment")
				return nil
			}
			issue.FirstResponseAt = first
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to look up first comments of %s/%s: %w", owner, name, err)
	}

	summary := analytics.ComputeIssuesAnalyticsWith(issues, s.now(), s.scoring.Issues)
	logger.WithField("sampled", sampled).Debug("Computed issues analytics")
	return &summary, nil
}
