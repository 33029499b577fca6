package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/repo-insights/internal/analytics"
	apperrors "github.com/Kamar-Folarin/repo-insights/internal/errors"
	"github.com/Kamar-Folarin/repo-insights/internal/github"
)

const errCodeUnavailable = "UNAVAILABLE"

// Handler serves the HTTP API
type Handler struct {
	repoService   github.RepositoryService
	issuesService github.IssuesService
	searchService github.SearchService
	watchService  github.WatchService
	logger        *logrus.Logger
}

// NewHandler creates a handler over services. services.Watch may be nil, in which
// case the watchlist routes answer 503.
func NewHandler(services *github.Services, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		repoService:   services.Repositories,
		issuesService: services.Issues,
		searchService: services.Search,
		watchService:  services.Watch,
		logger:        logger,
	}
}

// Healthz reports that the server is up
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// GetRepositoryOverview handles GET /repos/:owner/:repo
func (h *Handler) GetRepositoryOverview(c *gin.Context) {
	overview, err := h.repoService.GetOverview(c.Request.Context(), c.Param("owner"), c.Param("repo"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// GetRepositoryHealth handles GET /repos/:owner/:repo/health
func (h *Handler) GetRepositoryHealth(c *gin.Context) {
	report, err := h.repoService.GetHealth(c.Request.Context(), c.Param("owner"), c.Param("repo"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetIssuesAnalytics handles GET /repos/:owner/:repo/issues/analytics
func (h *Handler) GetIssuesAnalytics(c *gin.Context) {
	summary, err := h.issuesService.GetIssuesAnalytics(c.Request.Context(), c.Param("owner"), c.Param("repo"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetHealthHistory handles GET /repos/:owner/:repo/history
func (h *Handler) GetHealthHistory(c *gin.Context) {
	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		h.handleError(c, apperrors.NewValidationError("invalid limit parameter", err))
		return
	}

	history, err := h.watchService.History(c.Request.Context(), c.Param("owner"), c.Param("repo"), limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// SearchRepositories handles GET /search/repositories
func (h *Handler) SearchRepositories(c *gin.Context) {
	var params github.SearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.handleError(c, apperrors.NewValidationError("invalid search parameters", err))
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), params)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CompareRepositories handles GET /compare?repos=a/b,c/d
func (h *Handler) CompareRepositories(c *gin.Context) {
	var refs []github.RepoRef
	for _, raw := range strings.Split(c.Query("repos"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		ref, err := github.ParseRepoRef(raw)
		if err != nil {
			h.handleError(c, err)
			return
		}
		refs = append(refs, ref)
	}

	comparison, err := h.repoService.Compare(c.Request.Context(), refs)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

// GetBadge handles GET /badge?score=
func (h *Handler) GetBadge(c *gin.Context) {
	score, err := strconv.ParseFloat(c.Query("score"), 64)
	if err != nil || math.IsNaN(score) || score < 0 || score > 100 {
		h.handleError(c, apperrors.NewValidationError("score must be a number between 0 and 100", err))
		return
	}

	badge := analytics.GetHealthBadge(score)
	c.JSON(http.StatusOK, BadgeResponse{
		Score:     score,
		Tier:      badge.Tier,
		Emoji:     badge.Emoji,
		Label:     badge.Label,
		Color:     badge.Color,
		TextClass: badge.TextClass,
		BgClass:   badge.BgClass,
	})
}

// GetRateLimit handles GET /rate-limit
func (h *Handler) GetRateLimit(c *gin.Context) {
	limits, err := h.repoService.GetRateLimit(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, limits)
}

// ListWatchlist handles GET /watchlist
func (h *Handler) ListWatchlist(c *gin.Context) {
	repos, err := h.watchService.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, repos)
}

// TrackRepository handles POST /watchlist
func (h *Handler) TrackRepository(c *gin.Context) {
	var req TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, apperrors.NewValidationError("invalid request body", err))
		return
	}

	tracked, err := h.watchService.Track(c.Request.Context(), req.URL)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tracked)
}

// UntrackRepository handles DELETE /watchlist/:owner/:repo
func (h *Handler) UntrackRepository(c *gin.Context) {
	if err := h.watchService.Untrack(c.Request.Context(), c.Param("owner"), c.Param("repo")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TriggerRefresh handles POST /watchlist/refresh
func (h *Handler) TriggerRefresh(c *gin.Context) {
	if err := h.watchService.TriggerRefresh(c.Request.Context()); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, h.watchService.Status())
}

// GetRefreshStatus handles GET /watchlist/status
func (h *Handler) GetRefreshStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.watchService.Status())
}

// requireWatchlist rejects watchlist requests when no database is configured
func (h *Handler) requireWatchlist(c *gin.Context) {
	if h.watchService == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "watchlist requires a database connection",
			Code:  errCodeUnavailable,
		})
		return
	}
	c.Next()
}

// handleError maps err to a status code and writes an ErrorResponse
func (h *Handler) handleError(c *gin.Context, err error) {
	appErr := github.ToAppError(err)
	errType := apperrors.TypeOf(appErr)
	status := statusFor(errType)

	response := ErrorResponse{
		Error: err.Error(),
		Code:  string(errType),
	}
	var typed *apperrors.AppError
	if errors.As(appErr, &typed) {
		response.Error = typed.Message
	}

	var rlErr *github.RateLimitError
	if errors.As(err, &rlErr) && !rlErr.ResetTime.IsZero() {
		reset := rlErr.ResetTime
		response.ResetAt = &reset
	}

	logger := h.logger.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
		"status": status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed")
	} else {
		logger.Info("Request rejected")
	}

	c.JSON(status, response)
}

func statusFor(errType apperrors.ErrorType) int {
	switch errType {
	case apperrors.ErrInvalidInput:
		return http.StatusBadRequest
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrForbidden:
		return http.StatusForbidden
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrConflict:
		return http.StatusConflict
	case apperrors.ErrRateLimit:
		return http.StatusTooManyRequests
	case apperrors.ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func intQuery(c *gin.Context, key string, defaultValue int) (int, error) {
	value := c.Query(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}
