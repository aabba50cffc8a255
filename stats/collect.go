package stats

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/samber/lo"

	"github.com/frobware/depstats/github"
	"github.com/frobware/depstats/github/search"
)

// DefaultSecurityLabel marks a pull request as a security update.
const DefaultSecurityLabel = "security"

// DefaultAuthors are the search identities of the Dependabot apps.
var DefaultAuthors = []string{"app/dependabot", "app/dependabot-preview"}

// PullRequestSource searches issues and resolves pull requests.
type PullRequestSource interface {
	SearchIssues(ctx context.Context, query string) iter.Seq2[github.Issue, error]
	PullRequest(ctx context.Context, issue github.Issue) (github.PullRequest, error)
}

// Collector turns bot pull requests into records.
type Collector struct {
	Client PullRequestSource
	// Authors defaults to DefaultAuthors.
	Authors []string
	// SecurityLabel defaults to DefaultSecurityLabel.
	SecurityLabel string
	Logger        *slog.Logger
}

// Collect searches the closed pull requests opened by the configured
// authors under account and yields one record for each whose repository
// is in repos. Every kept hit costs one extra request to resolve the
// pull request. The first error is yielded and ends the sequence.
func (c *Collector) Collect(ctx context.Context, account string, repos RepositorySet) iter.Seq2[PullRequestRecord, error] {
	return func(yield func(PullRequestRecord, error) bool) {
		logger := orDiscard(c.Logger)
		if repos.Len() == 0 {
			logger.Debug("no repositories to collect pull requests for")
			return
		}

		authors := c.Authors
		if len(authors) == 0 {
			authors = DefaultAuthors
		}
		securityLabel := c.SecurityLabel
		if securityLabel == "" {
			securityLabel = DefaultSecurityLabel
		}

		query := search.ClosedPullRequestsBy(account, authors)
		logger.Debug("searching pull requests", "query", query)

		for issue, err := range c.Client.SearchIssues(ctx, query) {
			if err != nil {
				yield(PullRequestRecord{}, fmt.Errorf("failed to collect pull requests: %w", err))
				return
			}

			if !repos.Contains(issue.Repo) {
				logger.Debug("skipping pull request outside discovered repositories",
					"repo", issue.Owner+"/"+issue.Repo, "number", issue.Number)
				continue
			}

			pr, err := c.Client.PullRequest(ctx, issue)
			if err != nil {
				yield(PullRequestRecord{}, err)
				return
			}

			record, err := newRecord(issue, pr, securityLabel)
			if err != nil {
				yield(PullRequestRecord{}, err)
				return
			}

			if !yield(record, nil) {
				return
			}
		}
	}
}

func newRecord(issue github.Issue, pr github.PullRequest, securityLabel string) (PullRequestRecord, error) {
	ref := fmt.Sprintf("%s/%s#%d", issue.Owner, issue.Repo, issue.Number)
	if pr.ClosedAt == nil {
		return PullRequestRecord{}, fmt.Errorf("%s: %w", ref, ErrNotClosed)
	}
	if pr.ClosedAt.Before(pr.CreatedAt) {
		return PullRequestRecord{}, fmt.Errorf("%s: %w", ref, ErrClosedBeforeOpened)
	}
	return PullRequestRecord{
		Repo:       issue.Repo,
		OpenedAt:   pr.CreatedAt,
		ClosedAt:   *pr.ClosedAt,
		IsSecurity: HasLabel(pr.Labels, securityLabel),
	}, nil
}

// HasLabel reports whether any label is named exactly name.
func HasLabel(labels []github.Label, name string) bool {
	return lo.ContainsBy(labels, func(l github.Label) bool {
		return l.Name == name
	})
}
