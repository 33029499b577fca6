package github

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Kamar-Folarin/repo-insights/internal/config"
)

const maxSearchPerPage = 100

var (
	searchSorts  = []string{"", "stars", "forks", "updated", "help-wanted-issues"}
	searchOrders = []string{"", "asc", "desc"}
)

// SearchServiceImpl implements the SearchService interface
type SearchServiceImpl struct {
	serviceDeps
	client  API
	scoring *config.ScoringConfig
}

// NewSearchService creates a new search service
func NewSearchService(client API, scoring *config.ScoringConfig, opts ...ServiceOption) SearchService {
	return &SearchServiceImpl{
		serviceDeps: newServiceDeps(opts),
		client:      client,
		scoring:     scoringOrDefault(scoring),
	}
}

// Search validates params, runs the search and scores every hit
func (s *SearchServiceImpl) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	if err := validateSearchParams(params); err != nil {
		return nil, err
	}

	result, err := s.client.SearchRepositories(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search repositories: %w", err)
	}

	now := s.now()
	response := &SearchResponse{
		TotalCount:        result.TotalCount,
		IncompleteResults: result.IncompleteResults,
		Items:             make([]SearchItem, 0, len(result.Items)),
	}
	for i := range result.Items {
		repo := &result.Items[i]
		health, badge := scoreRepository(repo, now, s.scoring)
		response.Items = append(response.Items, SearchItem{
			Repository: *repo,
			Health:     health,
			Badge:      badge,
		})
	}

	return response, nil
}

func validateSearchParams(params SearchParams) error {
	if strings.TrimSpace(params.Query) == "" {
		return NewValidationError("q", "cannot be empty")
	}
	if !oneOf(params.Sort, searchSorts) {
		return NewValidationError("sort", params.Sort)
	}
	if !oneOf(params.Order, searchOrders) {
		return NewValidationError("order", params.Order)
	}
	if params.Page < 0 {
		return NewValidationError("page", strconv.Itoa(params.Page))
	}
	if params.PerPage < 0 || params.PerPage > maxSearchPerPage {
		return NewValidationError("per_page", strconv.Itoa(params.PerPage))
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
