package models

import (
	"fmt"
	"strings"
	"time"
)

// Repository is a GitHub repository as returned by GET /repos/{owner}/{repo}
type Repository struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name" validate:"required"`
	FullName        string    `json:"full_name"`
	Owner           Owner     `json:"owner"`
	Description     string    `json:"description"`
	URL             string    `json:"html_url"`
	Homepage        string    `json:"homepage,omitempty"`
	Language        string    `json:"language"`
	StarsCount      int       `json:"stargazers_count" validate:"gte=0"`
	ForksCount      int       `json:"forks_count" validate:"gte=0"`
	OpenIssuesCount int       `json:"open_issues_count" validate:"gte=0"`
	WatchersCount   int       `json:"watchers_count" validate:"gte=0"`
	HasWiki         bool      `json:"has_wiki"`
	Archived        bool      `json:"archived"`
	License         *License  `json:"license"`
	DefaultBranch   string    `json:"default_branch"`
	Topics          []string  `json:"topics"`
	CreatedAt       time.Time `json:"created_at" validate:"required"`
	UpdatedAt       time.Time `json:"updated_at" validate:"required"`
	PushedAt        time.Time `json:"pushed_at"`
}

// Owner is the account that owns a repository
type Owner struct {
	Login     string `json:"login" validate:"required"`
	AvatarURL string `json:"avatar_url"`
	Type      string `json:"type"`
}

// License is the detected license of a repository
type License struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	SPDXID string `json:"spdx_id"`
}

// Validate checks that the payload carries the fields downstream code relies on
func (r *Repository) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid repository payload: %w", err)
	}
	return nil
}

// Slug returns the owner/name form of the repository
func (r *Repository) Slug() string {
	if r.FullName != "" {
		return r.FullName
	}
	return r.Owner.Login + "/" + r.Name
}

// HasDescription reports whether the repository has a non-blank description
func (r *Repository) HasDescription() bool {
	return strings.TrimSpace(r.Description) != ""
}

// HasLicense reports whether a license was detected
func (r *Repository) HasLicense() bool {
	return r.License != nil && (r.License.Key != "" || r.License.Name != "" || r.License.SPDXID != "")
}
