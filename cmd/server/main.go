package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/repo-insights/internal/api"
	"github.com/Kamar-Folarin/repo-insights/internal/config"
	"github.com/Kamar-Folarin/repo-insights/internal/db"
	"github.com/Kamar-Folarin/repo-insights/internal/github"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if level != logrus.DebugLevel && level != logrus.TraceLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.GitHub.Token == "" {
		logger.Warn("GITHUB_TOKEN not set, requests are anonymous and limited to 60 per hour")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store db.Store
	if cfg.WatchlistEnabled() {
		pgStore, err := db.Open(ctx, cfg.DBConnectionString)
		if err != nil {
			logger.Fatalf("Failed to initialize database: %v", err)
		}
		defer pgStore.Close()

		if err := retry(3, 5*time.Second, pgStore.Migrate); err != nil {
			logger.Fatalf("Failed to run migrations after retries: %v", err)
		}
		store = pgStore
	} else {
		logger.Info("DB_CONNECTION_STRING not set, watchlist disabled")
	}

	client := github.NewGitHubClient(cfg.GitHub, logger)
	services := github.NewServices(client, store, cfg, github.WithServiceLogger(logger))
	if services.Watch != nil {
		go services.Watch.StartRefresh(ctx, cfg.Refresh.Interval)
	}

	router := api.SetupRouter(api.NewHandler(services, logger), logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server exited properly")
}

// retry retries a function up to a certain number of attempts with a delay between attempts
func retry(attempts int, sleep time.Duration, fn func() error) error {
	if err := fn(); err != nil {
		if attempts--; attempts > 0 {
			time.Sleep(sleep)
			return retry(attempts, sleep, fn)
		}
		return err
	}
	return nil
}
