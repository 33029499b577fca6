package fetch

import (
	"context"
	"encoding/json"
	"net/http"
)

// Validator is implemented by payload types that can check their own shape
type Validator interface {
	Validate() error
}

// FetchJSON performs FetchWithRetry and decodes the JSON body into T.
//
// Any non-2xx response left after the retry loop is returned as an *HTTPError whose
// message comes from the body's "message" field when present. If *T implements
// Validator the decoded value is validated before it is returned.
func FetchJSON[T any](ctx context.Context, c *Client, url string, opts ...RequestOption) (T, error) {
	var out T

	opts = append([]RequestOption{acceptJSON}, opts...)
	resp, err := c.FetchWithRetry(ctx, url, opts...)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, newHTTPError(url, resp)
	}
	if resp.StatusCode == http.StatusNoContent {
		return out, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, &DecodeError{URL: url, Err: err}
	}

	if v, ok := any(&out).(Validator); ok {
		if err := v.Validate(); err != nil {
			return out, &DecodeError{URL: url, Err: err}
		}
	}

	return out, nil
}

// acceptJSON asks for JSON unless the client already negotiates a media type
func acceptJSON(rc *requestConfig) {
	if rc.header.Get("Accept") == "" {
		rc.header.Set("Accept", "application/json")
	}
}
