package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamar-Folarin/repo-insights/internal/config"
	apperrors "github.com/Kamar-Folarin/repo-insights/internal/errors"
)

const repoPayload = `{
	"id": 1,
	"name": "test-repo",
	"full_name": "test-owner/test-repo",
	"owner": {"login": "test-owner"},
	"description": "Test repository",
	"html_url": "https://github.com/test-owner/test-repo",
	"language": "Go",
	"forks_count": 100,
	"stargazers_count": 200,
	"open_issues_count": 10,
	"watchers_count": 300,
	"has_wiki": true,
	"license": {"key": "mit", "name": "MIT License"},
	"created_at": "2020-01-01T00:00:00Z",
	"updated_at": "2020-01-02T00:00:00Z"
}`

func noSleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

// testServer is an httptest server whose handler can be swapped between subtests
type testServer struct {
	*httptest.Server
	mu      sync.Mutex
	handler http.HandlerFunc
}

func (s *testServer) handle(h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

func (s *testServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()
	if h == nil {
		w.WriteHeader(http.StatusNotImplemented)
		return
	}
	h(w, r)
}

func setupTestClient(t *testing.T) (*GitHubClient, *testServer) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	server := &testServer{}
	server.Server = httptest.NewServer(http.HandlerFunc(server.serve))
	t.Cleanup(server.Close)

	cfg := config.DefaultGitHubConfig()
	cfg.Token = "test-token"
	cfg.APIBaseURL = server.URL
	cfg.MaxIssuePages = 3

	client := NewGitHubClient(cfg, logger, WithSleeper(noSleep))
	return client, server
}

func TestGitHubClient_GetRepository(t *testing.T) {
	client, server := setupTestClient(t)
	ctx := context.Background()

	t.Run("successful request", func(t *testing.T) {
		server.handle(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/repos/test-owner/test-repo", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
			assert.Equal(t, apiVersion, r.Header.Get("X-GitHub-Api-Version"))
			assert.Equal(t, userAgent, r.Header.Get("User-Agent"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(repoPayload))
		})

		repo, err := client.GetRepository(ctx, "test-owner", "test-repo")
		require.NoError(t, err)
		assert.Equal(t, "test-repo", repo.Name)
		assert.Equal(t, "test-owner/test-repo", repo.Slug())
		assert.Equal(t, "Test repository", repo.Description)
		assert.Equal(t, "Go", repo.Language)
		assert.Equal(t, 100, repo.ForksCount)
		assert.Equal(t, 200, repo.StarsCount)
		assert.Equal(t, 10, repo.OpenIssuesCount)
		assert.True(t, repo.HasLicense())
	})

	t.Run("not found", func(t *testing.T) {
		server.handle(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "Not Found"}`))
		})

		_, err := client.GetRepository(ctx, "test-owner", "missing")
		var notFound *RepositoryNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "missing", notFound.Name)
		assert.True(t, apperrors.IsNotFound(ToAppError(err)))
	})

	t.Run("rate limit handling", func(t *testing.T) {
		server.handle(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Limit", "60")
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", "1700000000")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message": "API rate limit exceeded"}`))
		})

		_, err := client.GetRepository(ctx, "test-owner", "test-repo")
		require.True(t, IsRateLimitError(err))

		var rlErr *RateLimitError
		require.ErrorAs(t, err, &rlErr)
		assert.Equal(t, 60, rlErr.Limit)
		assert.Equal(t, 0, rlErr.Remaining)
		assert.Equal(t, time.Unix(1700000000, 0).UTC(), rlErr.ResetTime)
		assert.True(t, apperrors.IsRateLimit(ToAppError(err)))
	})

	t.Run("forbidden without rate limit headers", func(t *testing.T) {
		server.handle(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message": "Resource not accessible by integration"}`))
		})

		_, err := client.GetRepository(ctx, "test-owner", "test-repo")
		assert.False(t, IsRateLimitError(err))
		assert.Equal(t, apperrors.ErrForbidden, apperrors.TypeOf(ToAppError(err)))
	})

	t.Run("server errors are retried", func(t *testing.T) {
		var hits int32
		server.handle(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&hits, 1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(repoPayload))
		})

		repo, err := client.GetRepository(ctx, "test-owner", "test-repo")
		require.NoError(t, err)
		assert.Equal(t, "test-repo", repo.Name)
		assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	})

	t.Run("persistent server error", func(t *testing.T) {
		server.handle(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := client.GetRepository(ctx, "test-owner", "test-repo")
		var ghErr *GitHubError
		require.ErrorAs(t, err, &ghErr)
		assert.Equal(t, http.StatusServiceUnavailable, ghErr.StatusCode)
		assert.Equal(t, apperrors.ErrUpstream, apperrors.TypeOf(ToAppError(err)))
	})

	t.Run("invalid payload", func(t *testing.T) {
		server.handle(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"name": ""}`))
		})

		_, err := client.GetRepository(ctx, "test-owner", "test-repo")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrUpstream, apperrors.TypeOf(ToAppError(err)))
	})

	t.Run("empty owner is rejected before any request", func(t *testing.T) {
		var hits int32
		server.handle(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
		})

		_, err := client.GetRepository(ctx, " ", "test-repo")
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "owner", validationErr.Field)
		assert.Zero(t, atomic.LoadInt32(&hits))
		assert.True(t, apperrors.IsInvalidInput(ToAppError(err)))
	})
}

func issuePage(start, count int) string {
	body := "["
	for i := 0; i < count; i++ {
		if i > 0 {
			body += ","
		}
		n := start + i
		body += fmt.Sprintf(`{"id": %d, "number": %d, "state": "open", "created_at": "2024-01-01T00:00:00Z"}`, n, n)
	}
	return body + "]"
}

func TestGitHubClient_ListIssues(t *testing.T) {
	client, server := setupTestClient(t)
	ctx := context.Background()

	t.Run("stops at a short page", func(t *testing.T) {
		var (
			mu    sync.Mutex
			pages []string
		)
		server.handle(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "/repos/test-owner/test-repo/issues", r.URL.Path)
			assert.Equal(t, "all", q.Get("state"))
			assert.Equal(t, "100", q.Get("per_page"))
			mu.Lock()
			pages = append(pages, q.Get("page"))
			mu.Unlock()

			if q.Get("page") == "1" {
				w.Write([]byte(issuePage(1, issuesPerPage)))
				return
			}
			w.Write([]byte(issuePage(101, 5)))
		})

		issues, err := client.ListIssues(ctx, "test-owner", "test-repo")
		require.NoError(t, err)
		assert.Len(t, issues, 105)
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"1", "2"}, pages)
	})

	t.Run("bounded by max pages", func(t *testing.T) {
		var hits int32
		server.handle(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.Write([]byte(issuePage(1, issuesPerPage)))
		})

		issues, err := client.ListIssues(ctx, "test-owner", "test-repo")
		require.NoError(t, err)
		assert.Len(t, issues, 3*issuesPerPage)
		assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	})

	t.Run("keeps pull requests", func(t *testing.T) {
		server.handle(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[
				{"id": 1, "number": 1, "state": "open", "created_at": "2024-01-01T00:00:00Z"},
				{"id": 2, "number": 2, "state": "closed", "created_at": "2024-01-01T00:00:00Z",
				 "closed_at": "2024-01-03T00:00:00Z", "pull_request": {"url": "x"}}
			]`))
		})

		issues, err := client.ListIssues(ctx, "test-owner", "test-repo")
		require.NoError(t, err)
		require.Len(t, issues, 2)
		assert.True(t, issues[1].IsPullRequest())
	})
}

func TestGitHubClient_GetFirstCommentTime(t *testing.T) {
	client, server := setupTestClient(t)
	ctx := context.Background()

	server.handle(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		switch r.URL.Path {
		case "/repos/test-owner/test-repo/issues/7/comments":
			w.Write([]byte(`[{"id": 1, "created_at": "2024-02-01T10:00:00Z"}]`))
		default:
			w.Write([]byte(`[]`))
		}
	})

	first, err := client.GetFirstCommentTime(ctx, "test-owner", "test-repo", 7)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), first.UTC())

	none, err := client.GetFirstCommentTime(ctx, "test-owner", "test-repo", 8)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = client.GetFirstCommentTime(ctx, "test-owner", "test-repo", 0)
	assert.Error(t, err)
}

func TestGitHubClient_GetLanguagesAndContributors(t *testing.T) {
	client, server := setupTestClient(t)
	ctx := context.Background()

	server.handle(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/test-owner/test-repo/languages":
			w.Write([]byte(`{"Go": 9000, "Shell": 1000}`))
		case "/repos/test-owner/test-repo/contributors":
			assert.Equal(t, "10", r.URL.Query().Get("per_page"))
			w.Write([]byte(`[{"login": "alice", "contributions": 42}]`))
		case "/repos/test-owner/empty/contributors":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	languages, err := client.GetLanguages(ctx, "test-owner", "test-repo")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Go": 9000, "Shell": 1000}, languages)

	contributors, err := client.ListContributors(ctx, "test-owner", "test-repo", 10)
	require.NoError(t, err)
	require.Len(t, contributors, 1)
	assert.Equal(t, "alice", contributors[0].Login)

	empty, err := client.ListContributors(ctx, "test-owner", "empty", 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestGitHubClient_SearchRepositories(t *testing.T) {
	client, server := setupTestClient(t)
	ctx := context.Background()

	server.handle(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/search/repositories", r.URL.Path)
		assert.Equal(t, "language:go", q.Get("q"))
		assert.Equal(t, "stars", q.Get("sort"))
		assert.Equal(t, "desc", q.Get("order"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "5", q.Get("per_page"))
		w.Write([]byte(`{"total_count": 1, "incomplete_results": false, "items": [` + repoPayload + `]}`))
	})

	result, err := client.SearchRepositories(ctx, SearchParams{
		Query:   "language:go",
		Sort:    "stars",
		Order:   "desc",
		Page:    2,
		PerPage: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalCount)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "test-repo", result.Items[0].Name)

	_, err = client.SearchRepositories(ctx, SearchParams{})
	assert.Error(t, err)
}

func TestGitHubClient_GetRateLimit(t *testing.T) {
	client, server := setupTestClient(t)

	server.handle(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rate_limit", r.URL.Path)
		w.Write([]byte(`{"resources": {
			"core": {"limit": 5000, "remaining": 4999, "used": 1, "reset": 1700000000},
			"search": {"limit": 30, "remaining": 30, "used": 0, "reset": 1700000060}
		}}`))
	})

	limits, err := client.GetRateLimit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4999, limits.Resources.Core.Remaining)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), limits.Resources.Core.ResetAt)
	assert.Equal(t, 30, limits.Resources.Search.Limit)
}

func TestNewGitHubClient_Anonymous(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(repoPayload))
	}))
	defer server.Close()

	cfg := config.DefaultGitHubConfig()
	cfg.APIBaseURL = server.URL

	client := NewGitHubClient(cfg, nil)
	_, err := client.GetRepository(context.Background(), "test-owner", "test-repo")
	require.NoError(t, err)
}
