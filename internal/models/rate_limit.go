package models

import "time"

// RateLimit describes one GitHub rate limit bucket
type RateLimit struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Used      int       `json:"used"`
	Reset     int64     `json:"reset"`
	ResetAt   time.Time `json:"reset_at"`
}

// RateLimitResponse is the payload of GET /rate_limit
type RateLimitResponse struct {
	Resources struct {
		Core   RateLimit `json:"core"`
		Search RateLimit `json:"search"`
	} `json:"resources"`
}
