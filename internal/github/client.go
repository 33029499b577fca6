package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/Kamar-Folarin/repo-insights/internal/config"
	"github.com/Kamar-Folarin/repo-insights/internal/fetch"
	"github.com/Kamar-Folarin/repo-insights/internal/models"
)

const (
	apiVersion    = "2022-11-28"
	userAgent     = "repo-insights"
	issuesPerPage = 100
)

// GitHubClient is a typed client for the parts of the GitHub REST API the dashboard
// reads. Every call goes through the fetch client and its retry policy.
type GitHubClient struct {
	fetcher       *fetch.Client
	baseURL       string
	logger        *logrus.Logger
	maxIssuePages int

	httpClient *http.Client
	sleeper    fetch.Sleeper
}

// ClientOption allows configuring the GitHub client
type ClientOption func(*GitHubClient)

// WithHTTPClient replaces the token-authenticated HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *GitHubClient) {
		c.httpClient = hc
	}
}

// WithBaseURL points the client at another API root, such as a test server
func WithBaseURL(baseURL string) ClientOption {
	return func(c *GitHubClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithSleeper replaces the backoff sleeper, mainly for tests
func WithSleeper(s fetch.Sleeper) ClientOption {
	return func(c *GitHubClient) {
		c.sleeper = s
	}
}

// NewGitHubClient creates a client from cfg. Requests are anonymous when cfg.Token is
// empty.
func NewGitHubClient(cfg *config.GitHubConfig, logger *logrus.Logger, opts ...ClientOption) *GitHubClient {
	if cfg == nil {
		cfg = config.DefaultGitHubConfig()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	client := &GitHubClient{
		baseURL:       strings.TrimRight(cfg.APIBaseURL, "/"),
		logger:        logger,
		maxIssuePages: cfg.MaxIssuePages,
	}
	if client.baseURL == "" {
		client.baseURL = config.DefaultGitHubConfig().APIBaseURL
	}
	if client.maxIssuePages < 1 {
		client.maxIssuePages = 1
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		client.httpClient = newHTTPClient(cfg.Token)
	}

	fetchOpts := []fetch.ClientOption{
		fetch.WithHTTPClient(client.httpClient),
		fetch.WithLogger(logger),
		fetch.WithPolicy(fetch.RetryPolicy{
			Attempts:    cfg.Fetch.Retries,
			Delay:       fetch.ExponentialBackoff(cfg.Fetch.BackoffBase),
			RetryStatus: fetch.ServerErrorsOnly,
		}),
		fetch.WithDefaultTimeout(cfg.Fetch.Timeout),
		fetch.WithDefaultHeader("Accept", "application/vnd.github+json"),
		fetch.WithDefaultHeader("X-GitHub-Api-Version", apiVersion),
		fetch.WithDefaultHeader("User-Agent", userAgent),
	}
	if client.sleeper != nil {
		fetchOpts = append(fetchOpts, fetch.WithSleeper(client.sleeper))
	}
	client.fetcher = fetch.NewClient(fetchOpts...)

	return client
}

func newHTTPClient(token string) *http.Client {
	if token == "" {
		return &http.Client{}
	}
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return oauth2.NewClient(context.Background(), ts)
}

func (c *GitHubClient) repoURL(owner, name string, parts ...string) string {
	u := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, url.PathEscape(owner), url.PathEscape(name))
	for _, p := range parts {
		u += "/" + p
	}
	return u
}

func validateRepo(owner, name string) error {
	if strings.TrimSpace(owner) == "" {
		return NewValidationError("owner", "cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", "cannot be empty")
	}
	return nil
}

// GetRepository gets repository information from GitHub
func (c *GitHubClient) GetRepository(ctx context.Context, owner, name string) (*models.Repository, error) {
	if err := validateRepo(owner, name); err != nil {
		return nil, err
	}

	repo, err := fetch.FetchJSON[models.Repository](ctx, c.fetcher, c.repoURL(owner, name))
	if err != nil {
		return nil, classify(err, owner, name)
	}
	return &repo, nil
}

// ListIssues lists issues and pull requests of a repository in every state, newest
// first, reading at most the configured number of pages
func (c *GitHubClient) ListIssues(ctx context.Context, owner, name string) ([]models.Issue, error) {
	if err := validateRepo(owner, name); err != nil {
		return nil, err
	}

	logger := c.logger.WithFields(logrus.Fields{
		"owner": owner,
		"repo":  name,
	})

	var issues []models.Issue
	for page := 1; page <= c.maxIssuePages; page++ {
		query := url.Values{}
		query.Set("state", "all")
		query.Set("sort", "created")
		query.Set("direction", "desc")
		query.Set("per_page", strconv.Itoa(issuesPerPage))
		query.Set("page", strconv.Itoa(page))

		batch, err := fetch.FetchJSON[models.IssueList](ctx, c.fetcher, c.repoURL(owner, name, "issues")+"?"+query.Encode())
		if err != nil {
			return nil, classify(err, owner, name)
		}

		issues = append(issues, batch...)
		logger.WithFields(logrus.Fields{
			"page":  page,
			"count": len(batch),
		}).Debug("Fetched issues page")

		if len(batch) < issuesPerPage {
			break
		}
	}

	return issues, nil
}

// GetFirstCommentTime returns when the first comment on an issue was posted, or nil
// when it has none
func (c *GitHubClient) GetFirstCommentTime(ctx context.Context, owner, name string, number int) (*time.Time, error) {
	if err := validateRepo(owner, name); err != nil {
		return nil, err
	}
	if number <= 0 {
		return nil, NewValidationError("issue number", strconv.Itoa(number))
	}

	u := c.repoURL(owner, name, "issues", strconv.Itoa(number), "comments") + "?per_page=1&page=1"
	comments, err := fetch.FetchJSON[models.IssueCommentList](ctx, c.fetcher, u)
	if err != nil {
		return nil, classify(err, owner, name)
	}
	if len(comments) == 0 {
		return nil, nil
	}

	first := comments[0].CreatedAt
	return &first, nil
}

// GetLanguages returns the number of bytes of code per language
func (c *GitHubClient) GetLanguages(ctx context.Context, owner, name string) (map[string]int64, error) {
	if err := validateRepo(owner, name); err != nil {
		return nil, err
	}

	languages, err := fetch.FetchJSON[map[string]int64](ctx, c.fetcher, c.repoURL(owner, name, "languages"))
	if err != nil {
		return nil, classify(err, owner, name)
	}
	if languages == nil {
		languages = map[string]int64{}
	}
	return languages, nil
}

// ListContributors returns the top contributors by commit count
func (c *GitHubClient) ListContributors(ctx context.Context, owner, name string, limit int) ([]models.Contributor, error) {
	if err := validateRepo(owner, name); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	u := c.repoURL(owner, name, "contributors") + "?per_page=" + strconv.Itoa(limit)
	contributors, err := fetch.FetchJSON[models.ContributorList](ctx, c.fetcher, u)
	if err != nil {
		return nil, classify(err, owner, name)
	}
	// empty repositories answer 204
	if contributors == nil {
		return []models.Contributor{}, nil
	}
	return contributors, nil
}

// SearchParams are the query parameters of a repository search
type SearchParams struct {
	Query   string `form:"q" json:"q"`
	Sort    string `form:"sort" json:"sort,omitempty"`
	Order   string `form:"order" json:"order,omitempty"`
	Page    int    `form:"page" json:"page,omitempty"`
	PerPage int    `form:"per_page" json:"per_page,omitempty"`
}

// SearchRepositories runs a repository search
func (c *GitHubClient) SearchRepositories(ctx context.Context, params SearchParams) (*models.SearchResult, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, NewValidationError("q", "cannot be empty")
	}

	query := url.Values{}
	query.Set("q", params.Query)
	if params.Sort != "" {
		query.Set("sort", params.Sort)
	}
	if params.Order != "" {
		query.Set("order", params.Order)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(params.PerPage))
	}

	result, err := fetch.FetchJSON[models.SearchResult](ctx, c.fetcher, c.baseURL+"/search/repositories?"+query.Encode())
	if err != nil {
		return nil, classify(err, "", "")
	}
	return &result, nil
}

// GetRateLimit returns the current rate limit of the token
func (c *GitHubClient) GetRateLimit(ctx context.Context) (*models.RateLimitResponse, error) {
	limits, err := fetch.FetchJSON[models.RateLimitResponse](ctx, c.fetcher, c.baseURL+"/rate_limit")
	if err != nil {
		return nil, classify(err, "", "")
	}

	limits.Resources.Core.ResetAt = time.Unix(limits.Resources.Core.Reset, 0).UTC()
	limits.Resources.Search.ResetAt = time.Unix(limits.Resources.Search.Reset, 0).UTC()
	return &limits, nil
}

// classify turns fetch errors into the client's error types
func classify(err error, owner, name string) error {
	var httpErr *fetch.HTTPError
	if !errors.As(err, &httpErr) {
		return NewGitHubError(0, "request failed", err)
	}

	switch {
	case httpErr.StatusCode == http.StatusNotFound && owner != "":
		return NewRepositoryNotFoundError(owner, name)
	case isRateLimited(httpErr):
		return rateLimitFromHeader(httpErr.Header)
	default:
		return NewGitHubError(httpErr.StatusCode, httpErr.Message, httpErr)
	}
}

func isRateLimited(httpErr *fetch.HTTPError) bool {
	switch httpErr.StatusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		return httpErr.Header.Get("X-RateLimit-Remaining") == "0" || httpErr.Header.Get("Retry-After") != ""
	default:
		return false
	}
}

func rateLimitFromHeader(h http.Header) *RateLimitError {
	limit, _ := strconv.Atoi(h.Get("X-RateLimit-Limit"))
	remaining, _ := strconv.Atoi(h.Get("X-RateLimit-Remaining"))

	var reset time.Time
	if v, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		reset = time.Unix(v, 0).UTC()
	}
	if retryAfter, err := strconv.Atoi(h.Get("Retry-After")); err == nil {
		reset = time.Now().Add(time.Duration(retryAfter) * time.Second).UTC()
	}

	return &RateLimitError{
		ResetTime: reset,
		Limit:     limit,
		Remaining: remaining,
	}
}
