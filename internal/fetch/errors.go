package fetch

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody bounds how much of an error response is read for its message
const maxErrorBody = 64 << 10

// RequestError is returned when every attempt failed without a response
type RequestError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request to %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// TimeoutError is an attempt that exceeded its per-attempt timeout
type TimeoutError struct {
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %v: %v", e.Timeout, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// HTTPError is a response that settled with a non-2xx status
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
	Message    string
	Header     http.Header
}

func (e *HTTPError) Error() string {
	return e.Message
}

// DecodeError is a 2xx response whose body could not be decoded or failed validation
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// newHTTPError builds an HTTPError, preferring the API's own JSON "message"
func newHTTPError(url string, resp *http.Response) *HTTPError {
	statusText := http.StatusText(resp.StatusCode)
	httpErr := &HTTPError{
		URL:        url,
		StatusCode: resp.StatusCode,
		Status:     statusText,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, statusText),
		Header:     resp.Header,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return httpErr
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		httpErr.Message = payload.Message
	}
	return httpErr
}
