package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/Kamar-Folarin/repo-insights/internal/errors"
	"github.com/Kamar-Folarin/repo-insights/internal/fetch"
)

// Error types for GitHub client operations
type GitHubError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *GitHubError) Error() string {
	if e.Err != nil && e.StatusCode == 0 {
		return fmt.Sprintf("GitHub API error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("GitHub API error (status %d): %s", e.StatusCode, e.Message)
}

func (e *GitHubError) Unwrap() error {
	return e.Err
}

// RateLimitError represents when we hit GitHub's rate limits
type RateLimitError struct {
	ResetTime time.Time
	Limit     int
	Remaining int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded. Reset at %v. Limit: %d, Remaining: %d",
		e.ResetTime.Format(time.RFC3339), e.Limit, e.Remaining)
}

// ValidationError represents invalid input to GitHub client methods
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: invalid %s: %s", e.Field, e.Value)
}

// RepositoryNotFoundError represents when a repository cannot be found
type RepositoryNotFoundError struct {
	Owner string
	Name  string
}

func (e *RepositoryNotFoundError) Error() string {
	return fmt.Sprintf("repository not found: %s/%s", e.Owner, e.Name)
}

// NewGitHubError creates a new GitHubError with the given status code and message
func NewGitHubError(statusCode int, message string, err error) error {
	return &GitHubError{
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// NewRateLimitError creates a new RateLimitError
func NewRateLimitError(resetTime time.Time, limit, remaining int) error {
	return &RateLimitError{
		ResetTime: resetTime,
		Limit:     limit,
		Remaining: remaining,
	}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, value string) error {
	return &ValidationError{
		Field: field,
		Value: value,
	}
}

// NewRepositoryNotFoundError creates a new RepositoryNotFoundError
func NewRepositoryNotFoundError(owner, name string) error {
	return &RepositoryNotFoundError{
		Owner: owner,
		Name:  name,
	}
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}

// ToAppError classifies err for the HTTP layer. Errors that already carry an
// application type are returned unchanged.
func ToAppError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var (
		validationErr *ValidationError
		notFoundErr   *RepositoryNotFoundError
		rateLimitErr  *RateLimitError
		ghErr         *GitHubError
	)

	switch {
	case errors.As(err, &validationErr):
		return apperrors.NewValidationError(validationErr.Error(), err)
	case errors.As(err, &notFoundErr):
		return apperrors.NewNotFoundError(notFoundErr.Error(), err)
	case errors.As(err, &rateLimitErr):
		return apperrors.NewRateLimitError(rateLimitErr.Error(), err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded) && !isFetchFailure(err):
		return apperrors.NewInternalError("request cancelled", err)
	case errors.As(err, &ghErr):
		return classifyStatus(ghErr, err)
	default:
		return apperrors.NewInternalError("unexpected error", err)
	}
}

func classifyStatus(ghErr *GitHubError, err error) error {
	switch {
	case ghErr.StatusCode == http.StatusUnauthorized:
		return apperrors.NewUnauthorizedError(ghErr.Message, err)
	case ghErr.StatusCode == http.StatusForbidden:
		// rate-limited 403s never get here, ToAppError matches RateLimitError first
		return apperrors.NewForbiddenError(ghErr.Message, err)
	case ghErr.StatusCode == http.StatusNotFound:
		return apperrors.NewNotFoundError(ghErr.Message, err)
	case ghErr.StatusCode == http.StatusUnprocessableEntity || ghErr.StatusCode == http.StatusBadRequest:
		return apperrors.NewValidationError(ghErr.Message, err)
	default:
		// 5xx, transport failures, timeouts and malformed payloads
		return apperrors.NewUpstreamError(ghErr.Error(), err)
	}
}

// isFetchFailure reports whether err came out of an exhausted retry loop, in which
// case a deadline is an upstream timeout rather than a cancelled caller
func isFetchFailure(err error) bool {
	var reqErr *fetch.RequestError
	return errors.As(err, &reqErr)
}
