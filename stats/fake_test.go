package stats

import (
	"context"
	"iter"

	"github.com/frobware/depstats/github"
)

func seq[T any](items []T, err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
		if err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

type fakeClient struct {
	repos    []github.Repository
	repoErr  error
	issues   []github.Issue
	issueErr error
	prs      map[int]github.PullRequest
	prErrs   map[int]error

	repoQueries  []string
	issueQueries []string
	resolved     []int
}

func (f *fakeClient) SearchRepositories(_ context.Context, query string) iter.Seq2[github.Repository, error] {
	f.repoQueries = append(f.repoQueries, query)
	return seq(f.repos, f.repoErr)
}

func (f *fakeClient) SearchIssues(_ context.Context, query string) iter.Seq2[github.Issue, error] {
	f.issueQueries = append(f.issueQueries, query)
	return seq(f.issues, f.issueErr)
}

func (f *fakeClient) PullRequest(_ context.Context, issue github.Issue) (github.PullRequest, error) {
	f.resolved = append(f.resolved, issue.Number)
	if err := f.prErrs[issue.Number]; err != nil {
		return github.PullRequest{}, err
	}
	return f.prs[issue.Number], nil
}

func collectAll(records iter.Seq2[PullRequestRecord, error]) ([]PullRequestRecord, error) {
	var out []PullRequestRecord
	for record, err := range records {
		if err != nil {
			return out, err
		}
		out = append(out, record)
	}
	return out, nil
}
