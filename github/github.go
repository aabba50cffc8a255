package github

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v73/github"
	"github.com/samber/lo"
)

// Repository is a repository search hit.
type Repository struct {
	Owner string
	Name  string
}

// Issue is an issue search hit. Owner and Repo identify the repository
// the issue or pull request belongs to.
type Issue struct {
	Owner  string
	Repo   string
	Number int
}

// Label is a pull request label.
type Label struct {
	Name string
}

// PullRequest is the resolved detail of a pull request.
type PullRequest struct {
	Owner     string
	Repo      string
	Number    int
	CreatedAt time.Time
	ClosedAt  *time.Time // nil while the pull request is open.
	Labels    []Label
}

func toRepository(r *gogithub.Repository) Repository {
	return Repository{
		Owner: r.GetOwner().GetLogin(),
		Name:  r.GetName(),
	}
}

func toIssue(i *gogithub.Issue) (Issue, error) {
	owner, repo, err := repositoryFromURL(i.GetRepositoryURL())
	if err != nil {
		// Search hits always carry repository_url; the HTML URL is
		// only consulted when it is missing.
		owner, repo, err = repositoryFromHTMLURL(i.GetHTMLURL())
		if err != nil {
			return Issue{}, fmt.Errorf("issue #%d: %w", i.GetNumber(), err)
		}
	}
	return Issue{
		Owner:  owner,
		Repo:   repo,
		Number: i.GetNumber(),
	}, nil
}

func toPullRequest(owner, repo string, pr *gogithub.PullRequest) PullRequest {
	result := PullRequest{
		Owner:     owner,
		Repo:      repo,
		Number:    pr.GetNumber(),
		CreatedAt: pr.GetCreatedAt().Time,
		Labels: lo.Map(pr.Labels, func(l *gogithub.Label, _ int) Label {
			return Label{Name: l.GetName()}
		}),
	}
	if pr.ClosedAt != nil {
		closedAt := pr.ClosedAt.Time
		result.ClosedAt = &closedAt
	}
	return result
}

// repositoryFromURL extracts owner/name from an API repository URL such
// as https://api.github.com/repos/owner/name or
// https://ghe.example.com/api/v3/repos/owner/name.
func repositoryFromURL(rawURL string) (string, string, error) {
	if rawURL == "" {
		return "", "", fmt.Errorf("empty repository URL")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid repository URL %q: %w", rawURL, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "repos" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("repository URL %q has no repos/<owner>/<name> path", rawURL)
}

// repositoryFromHTMLURL extracts owner/name from
// https://github.com/owner/repo/pull/123.
func repositoryFromHTMLURL(rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", "", fmt.Errorf("invalid HTML URL %q", rawURL)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("HTML URL %q has no owner/repo path", rawURL)
	}
	return parts[0], parts[1], nil
}
