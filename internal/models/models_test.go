package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Validate(t *testing.T) {
	valid := func() Repository {
		return Repository{
			Name:      "repo",
			Owner:     Owner{Login: "owner"},
			CreatedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *Repository)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *Repository) {}},
		{name: "missing name", mutate: func(r *Repository) { r.Name = "" }, wantErr: true},
		{name: "missing owner", mutate: func(r *Repository) { r.Owner.Login = "" }, wantErr: true},
		{name: "missing updated_at", mutate: func(r *Repository) { r.UpdatedAt = time.Time{} }, wantErr: true},
		{name: "negative stars", mutate: func(r *Repository) { r.StarsCount = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := valid()
			tt.mutate(&repo)
			err := repo.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRepository_Helpers(t *testing.T) {
	repo := Repository{Name: "repo", Owner: Owner{Login: "owner"}, Description: "   "}
	assert.Equal(t, "owner/repo", repo.Slug())
	assert.False(t, repo.HasDescription())
	assert.False(t, repo.HasLicense())

	repo.License = &License{}
	assert.False(t, repo.HasLicense())
	repo.License = &License{Key: "mit"}
	assert.True(t, repo.HasLicense())
}

func TestIssue_DecodeGitHubPayload(t *testing.T) {
	payload := `[
		{"id": 1, "number": 10, "title": "Bug", "state": "open", "comments": 4,
		 "reactions": {"total_count": 3}, "labels": [{"id": 7, "name": "bug", "color": "d73a4a"}],
		 "created_at": "2024-01-02T03:04:05Z", "closed_at": null},
		{"id": 2, "number": 11, "title": "PR", "state": "closed",
		 "pull_request": {"url": "https://api.github.com/repos/o/r/pulls/11"},
		 "created_at": "2024-01-02T03:04:05Z", "closed_at": "2024-01-05T03:04:05Z"}
	]`

	var issues IssueList
	require.NoError(t, json.Unmarshal([]byte(payload), &issues))
	require.NoError(t, issues.Validate())
	require.Len(t, issues, 2)

	assert.False(t, issues[0].IsPullRequest())
	assert.Nil(t, issues[0].ClosedAt)
	assert.Equal(t, 7, issues[0].Engagement())
	assert.Equal(t, "bug", issues[0].Labels[0].Name)

	assert.True(t, issues[1].IsPullRequest())
	assert.True(t, issues[1].IsClosed())
	require.NotNil(t, issues[1].ClosedAt)
}

func TestIssueList_Validate(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	bad := IssueList{
		{ID: 1, Number: 1, State: "open", CreatedAt: created},
		{ID: 2, Number: 2, State: "merged", CreatedAt: created},
	}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 1")

	missingCreated := IssueList{{ID: 1, Number: 1, State: "open"}}
	assert.Error(t, missingCreated.Validate())

	unnamedLabel := IssueList{{ID: 1, Number: 1, State: "open", CreatedAt: created, Labels: []Label{{ID: 3}}}}
	assert.Error(t, unnamedLabel.Validate())
}

func TestSearchResult_Validate(t *testing.T) {
	result := &SearchResult{
		TotalCount: 1,
		Items:      []Repository{{Name: "repo"}},
	}
	assert.Error(t, result.Validate(), "items missing owner and timestamps should fail")
}

func TestBatchProgress_Clone(t *testing.T) {
	var nilProgress *BatchProgress
	assert.Nil(t, nilProgress.Clone())

	orig := &BatchProgress{TotalItems: 3, Errors: []string{"a"}}
	cp := orig.Clone()
	cp.Errors[0] = "b"
	cp.TotalItems = 4
	assert.Equal(t, "a", orig.Errors[0])
	assert.Equal(t, 3, orig.TotalItems)
}
