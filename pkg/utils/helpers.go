package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ParseGitHubURL extracts owner and repository name from any of
//
//	https://github.com/owner/repo[.git][/...]
//	github.com/owner/repo
//	git@github.com:owner/repo.git
//	owner/repo
func ParseGitHubURL(repoURL string) (owner, repo string, err error) {
	raw := strings.TrimSpace(repoURL)
	if raw == "" {
		return "", "", fmt.Errorf("repository URL cannot be empty")
	}

	var path string
	switch {
	case strings.HasPrefix(raw, "git@"):
		host, p, ok := strings.Cut(strings.TrimPrefix(raw, "git@"), ":")
		if !ok || !isGitHubHost(host) {
			return "", "", fmt.Errorf("invalid GitHub SSH URL: %s", repoURL)
		}
		path = p
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil {
			return "", "", err
		}
		if !isGitHubHost(u.Host) {
			return "", "", fmt.Errorf("only GitHub repositories are supported: %s", repoURL)
		}
		path = u.Path
	default:
		path = raw
		if host, rest, ok := strings.Cut(raw, "/"); ok && isGitHubHost(host) {
			path = rest
		}
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid GitHub repository URL: %s", repoURL)
	}

	owner = parts[0]
	repo = strings.TrimSuffix(parts[1], ".git")
	if !namePattern.MatchString(owner) || !namePattern.MatchString(repo) {
		return "", "", fmt.Errorf("invalid GitHub repository URL: %s", repoURL)
	}

	return owner, repo, nil
}

// RepositoryURL returns the canonical web URL of a repository
func RepositoryURL(owner, repo string) string {
	return fmt.Sprintf("https://github.com/%s/%s", owner, repo)
}

func isGitHubHost(host string) bool {
	host = strings.ToLower(host)
	return host == "github.com" || host == "www.github.com"
}
