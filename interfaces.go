package main

import (
	"github.com/frobware/depstats/stats"
)

// GitHubClient defines the GitHub API operations the pipeline needs.
type GitHubClient interface {
	stats.RepositorySearcher
	stats.PullRequestSource
}
