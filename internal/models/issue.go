package models

import (
	"fmt"
	"time"
)

const (
	IssueStateOpen   = "open"
	IssueStateClosed = "closed"
)

// Issue is an entry of GET /repos/{owner}/{repo}/issues. Pull requests share the
// endpoint and are recognised by a non-nil PullRequest.
type Issue struct {
	ID          int64           `json:"id" validate:"required"`
	Number      int             `json:"number" validate:"required"`
	Title       string          `json:"title"`
	State       string          `json:"state" validate:"oneof=open closed"`
	URL         string          `json:"html_url"`
	User        User            `json:"user"`
	Labels      []Label         `json:"labels" validate:"dive"`
	Comments    int             `json:"comments" validate:"gte=0"`
	Reactions   Reactions       `json:"reactions"`
	PullRequest *PullRequestRef `json:"pull_request,omitempty"`
	CreatedAt   time.Time       `json:"created_at" validate:"required"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ClosedAt    *time.Time      `json:"closed_at"`
	// FirstResponseAt is not part of the GitHub payload; it is filled in from the
	// issue's first comment when that has been looked up.
	FirstResponseAt *time.Time `json:"first_response_at,omitempty"`
}

// User is the author of an issue or comment
type User struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Label is an issue label
type Label struct {
	ID    int64  `json:"id"`
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
}

// Reactions holds the reaction rollup of an issue
type Reactions struct {
	TotalCount int `json:"total_count" validate:"gte=0"`
}

// PullRequestRef marks an issue entry that is really a pull request
type PullRequestRef struct {
	URL     string `json:"url"`
	HTMLURL string `json:"html_url"`
}

// IsPullRequest reports whether the entry is a pull request
func (i *Issue) IsPullRequest() bool {
	return i.PullRequest != nil
}

// IsClosed reports whether the issue is closed
func (i *Issue) IsClosed() bool {
	return i.State == IssueStateClosed
}

// Engagement is the number of comments plus reactions
func (i *Issue) Engagement() int {
	return i.Comments + i.Reactions.TotalCount
}

// IssueList is a page of issues
type IssueList []Issue

// Validate checks every issue in the list
func (l IssueList) Validate() error {
	for idx := range l {
		if err := validate.Struct(&l[idx]); err != nil {
			return fmt.Errorf("invalid issue payload at index %d: %w", idx, err)
		}
	}
	return nil
}

// IssueComment is an entry of GET /repos/{owner}/{repo}/issues/{number}/comments
type IssueComment struct {
	ID        int64     `json:"id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
}

// IssueCommentList is a page of issue comments
type IssueCommentList []IssueComment

// Validate checks every comment in the list
func (l IssueCommentList) Validate() error {
	for idx := range l {
		if err := validate.Struct(&l[idx]); err != nil {
			return fmt.Errorf("invalid comment payload at index %d: %w", idx, err)
		}
	}
	return nil
}
