package github

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamar-Folarin/repo-insights/internal/config"
	"github.com/Kamar-Folarin/repo-insights/internal/db"
)

// TestWatchService_Integration runs the watchlist against Postgres and a fake GitHub
func TestWatchService_Integration(t *testing.T) {
	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	sqlDB, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	store := db.NewPostgresStore(sqlDB)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Migrate())
	_, err = sqlDB.Exec("TRUNCATE tracked_repositories, health_snapshots RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.EqualFold(r.URL.Path, "/repos/test-owner/test-repo") {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message": "Not Found"}`))
			return
		}
		w.Write([]byte(repoPayload))
	}))
	defer server.Close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ghCfg := config.DefaultGitHubConfig()
	ghCfg.APIBaseURL = server.URL
	client := NewGitHubClient(ghCfg, logger, WithSleeper(noSleep))

	service := NewWatchService(client, store, nil, config.DefaultRefreshConfig(), testOptions()...)
	ctx := context.Background()

	tracked, err := service.Track(ctx, testRepoURL)
	require.NoError(t, err)
	assert.NotZero(t, tracked.ID)

	again, err := service.Track(ctx, "TEST-OWNER/test-repo")
	require.NoError(t, err)
	assert.Equal(t, tracked.ID, again.ID)

	require.NoError(t, service.Refresh(ctx))

	history, err := service.History(ctx, testOwnerName, testRepoName, 10)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "poor", history[0].Badge)

	list, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].LastError)

	require.NoError(t, service.Untrack(ctx, testOwnerName, testRepoName))
	list, err = service.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
