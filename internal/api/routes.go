package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter configures the API routes
func SetupRouter(h *Handler, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(logger), gin.Recovery())

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// @Summary Liveness probe
	// @Tags system
	// @Produce json
	// @Success 200 {object} StatusResponse
	// @Router /healthz [get]
	r.GET("/healthz", h.Healthz)

	v1 := r.Group("/api/v1")
	{
		repos := v1.Group("/repos/:owner/:repo")
		{
			// @Summary Get repository overview
			// @Description Repository metadata with health, badge, language shares and top contributors
			// @Tags repository
			// @Produce json
			// @Param owner path string true "Repository owner"
			// @Param repo path string true "Repository name"
			// @Success 200 {object} github.RepositoryOverview
			// @Failure 400 {object} ErrorResponse
			// @Failure 404 {object} ErrorResponse
			// @Failure 429 {object} ErrorResponse
			// @Failure 502 {object} ErrorResponse
			// @Router /repos/{owner}/{repo} [get]
			repos.GET("", h.GetRepositoryOverview)

			// @Summary Get repository health
			// @Description Health breakdown and badge for a repository
			// @Tags repository
			// @Produce json
			// @Param owner path string true "Repository owner"
			// @Param repo path string true "Repository name"
			// @Success 200 {object} github.HealthReport
			// @Failure 404 {object} ErrorResponse
			// @Failure 429 {object} ErrorResponse
			// @Failure 502 {object} ErrorResponse
			// @Router /repos/{owner}/{repo}/health [get]
			repos.GET("/health", h.GetRepositoryHealth)

			// @Summary Get issue analytics
			// @Description Open/closed counts, average response and close times, top labels
			// @Tags repository
			// @Produce json
			// @Param owner path string true "Repository owner"
			// @Param repo path string true "Repository name"
			// @Success 200 {object} analytics.IssuesAnalytics
			// @Failure 404 {object} ErrorResponse
			// @Failure 429 {object} ErrorResponse
			// @Failure 502 {object} ErrorResponse
			// @Router /repos/{owner}/{repo}/issues/analytics [get]
			repos.GET("/issues/analytics", h.GetIssuesAnalytics)

			// @Summary Get health history
			// @Description Stored health snapshots for a tracked repository, newest first
			// @Tags watchlist
			// @Produce json
			// @Param owner path string true "Repository owner"
			// @Param repo path string true "Repository name"
			// @Param limit query int false "Number of snapshots to return" default(30)
			// @Success 200 {array} models.HealthSnapshot
			// @Failure 400 {object} ErrorResponse
			// @Failure 404 {object} ErrorResponse
			// @Failure 503 {object} ErrorResponse
			// @Router /repos/{owner}/{repo}/history [get]
			repos.GET("/history", h.requireWatchlist, h.GetHealthHistory)
		}

		// @Summary Search repositories
		// @Description GitHub repository search with a health score and badge on every result
		// @Tags search
		// @Produce json
		// @Param q query string true "Search query"
		// @Param sort query string false "stars, forks, updated or help-wanted-issues"
		// @Param order query string false "asc or desc"
		// @Param page query int false "Result page"
		// @Param per_page query int false "Results per page (max 100)"
		// @Success 200 {object} github.SearchResponse
		// @Failure 400 {object} ErrorResponse
		// @Failure 429 {object} ErrorResponse
		// @Router /search/repositories [get]
		v1.GET("/search/repositories", h.SearchRepositories)

		// @Summary Compare repositories
		// @Description Side-by-side health comparison of two to four repositories
		// @Tags repository
		// @Produce json
		// @Param repos query string true "Comma separated owner/name list" example("gin-gonic/gin,labstack/echo")
		// @Success 200 {object} analytics.Comparison
		// @Failure 400 {object} ErrorResponse
		// @Failure 404 {object} ErrorResponse
		// @Router /compare [get]
		v1.GET("/compare", h.CompareRepositories)

		// @Summary Get badge for a score
		// @Tags repository
		// @Produce json
		// @Param score query number true "Health total between 0 and 100"
		// @Success 200 {object} BadgeResponse
		// @Failure 400 {object} ErrorResponse
		// @Router /badge [get]
		v1.GET("/badge", h.GetBadge)

		// @Summary Get GitHub rate limit
		// @Tags system
		// @Produce json
		// @Success 200 {object} models.RateLimitResponse
		// @Failure 502 {object} ErrorResponse
		// @Router /rate-limit [get]
		v1.GET("/rate-limit", h.GetRateLimit)

		watchlist := v1.Group("/watchlist", h.requireWatchlist)
		{
			// @Summary List tracked repositories
			// @Tags watchlist
			// @Produce json
			// @Success 200 {array} models.TrackedRepository
			// @Failure 503 {object} ErrorResponse
			// @Router /watchlist [get]
			watchlist.GET("", h.ListWatchlist)

			// @Summary Track a repository
			// @Description Adds a repository to the watchlist and stores its first health snapshot
			// @Tags watchlist
			// @Accept json
			// @Produce json
			// @Param request body TrackRequest true "Repository to track"
			// @Success 201 {object} models.TrackedRepository
			// @Failure 400 {object} ErrorResponse
			// @Failure 404 {object} ErrorResponse
			// @Failure 503 {object} ErrorResponse
			// @Router /watchlist [post]
			watchlist.POST("", h.TrackRepository)

			// @Summary Trigger a watchlist refresh
			// @Tags watchlist
			// @Produce json
			// @Success 202 {object} models.RefreshStatus
			// @Failure 409 {object} ErrorResponse
			// @Failure 503 {object} ErrorResponse
			// @Router /watchlist/refresh [post]
			watchlist.POST("/refresh", h.TriggerRefresh)

			// @Summary Get refresh status
			// @Tags watchlist
			// @Produce json
			// @Success 200 {object} models.RefreshStatus
			// @Failure 503 {object} ErrorResponse
			// @Router /watchlist/status [get]
			watchlist.GET("/status", h.GetRefreshStatus)

			// @Summary Untrack a repository
			// @Tags watchlist
			// @Param owner path string true "Repository owner"
			// @Param repo path string true "Repository name"
			// @Success 204 "No Content"
			// @Failure 404 {object} ErrorResponse
			// @Failure 503 {object} ErrorResponse
			// @Router /watchlist/{owner}/{repo} [delete]
			watchlist.DELETE("/:owner/:repo", h.UntrackRepository)
		}
	}

	return r
}
