package api

import (
	"time"

	_ "github.com/Kamar-Folarin/repo-insights/docs"
)

// @title Repo Insights API
// @version 1.0
// @description Health scores, issue analytics and comparisons for GitHub repositories
// @host localhost:8080
// @BasePath /api/v1

// ErrorResponse represents an API error
// @Description Error response from the API
// @swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// @example repository not found: octocat/missing
	Error string `json:"error" example:"repository not found: octocat/missing"`
	// Error classification
	// @example NOT_FOUND
	Code string `json:"code" example:"NOT_FOUND"`
	// When the GitHub rate limit resets, for RATE_LIMIT errors
	ResetAt *time.Time `json:"reset_at,omitempty" example:"2024-03-20T00:00:00Z"`
}

// TrackRequest is the body of POST /watchlist
// @Description Repository to add to the watchlist
// @swagger:model TrackRequest
type TrackRequest struct {
	// Repository URL, SSH remote or owner/name
	// @example https://github.com/gin-gonic/gin
	URL string `json:"url" binding:"required" example:"https://github.com/gin-gonic/gin"`
}

// BadgeResponse is the badge for a numeric score
// @Description Badge tier for a health total
// @swagger:model BadgeResponse
type BadgeResponse struct {
	// Health total the badge was computed for
	// @example 82
	Score     float64 `json:"score" example:"82"`
	Tier      string  `json:"tier" example:"good"`
	Emoji     string  `json:"emoji" example:"🟡"`
	Label     string  `json:"label" example:"Good"`
	Color     string  `json:"color" example:"yellow"`
	TextClass string  `json:"textClass" example:"text-yellow-700"`
	BgClass   string  `json:"bgClass" example:"bg-yellow-100"`
}

// StatusResponse is a plain status message
// @Description Status message
// @swagger:model StatusResponse
type StatusResponse struct {
	// @example ok
	Status string `json:"status" example:"ok"`
}
