package models

import "time"

// TrackedRepository is a repository on the watchlist
type TrackedRepository struct {
	BaseModel
	Owner           string     `json:"owner"`
	Name            string     `json:"name"`
	URL             string     `json:"url"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at,omitempty"`
	LastError       string     `json:"last_error,omitempty"`
}

// Slug returns the owner/name form of the tracked repository
func (r *TrackedRepository) Slug() string {
	return r.Owner + "/" + r.Name
}

// HealthSnapshot is a persisted health score of a tracked repository
type HealthSnapshot struct {
	ID            int64     `json:"id"`
	RepositoryID  int64     `json:"repository_id"`
	CapturedAt    time.Time `json:"captured_at"`
	Activity      float64   `json:"activity"`
	Community     float64   `json:"community"`
	Documentation float64   `json:"documentation"`
	Maintenance   float64   `json:"maintenance"`
	Total         float64   `json:"total"`
	Badge         string    `json:"badge"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	OpenIssues    int       `json:"open_issues"`
}
