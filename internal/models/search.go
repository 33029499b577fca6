package models

import "fmt"

// SearchResult is the payload of GET /search/repositories
type SearchResult struct {
	TotalCount        int          `json:"total_count" validate:"gte=0"`
	IncompleteResults bool         `json:"incomplete_results"`
	Items             []Repository `json:"items" validate:"dive"`
}

// Validate checks the result and every repository in it
func (s *SearchResult) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid search payload: %w", err)
	}
	return nil
}
