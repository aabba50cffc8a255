package main

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"

	"github.com/frobware/depstats/github"
	"github.com/frobware/depstats/stats"
)

// Summary describes a completed run.
type Summary struct {
	Repositories int
	PullRequests int
	Security     int
}

// Run discovers the topic repositories, collects their bot pull
// requests and writes them to config.Output.
func Run(ctx context.Context, config *Config, clientFactory func(*Config) (GitHubClient, error), logger *slog.Logger) (Summary, error) {
	var summary Summary

	client, err := clientFactory(config)
	if err != nil {
		return summary, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	repos, err := stats.Discover(ctx, client, config.User, config.Topic, logger)
	if err != nil {
		return summary, err
	}
	summary.Repositories = repos.Len()

	collector := &stats.Collector{
		Client:        client,
		Authors:       config.Bots,
		SecurityLabel: config.SecurityLabel,
		Logger:        logger,
	}
	records := countSecurity(collector.Collect(ctx, config.User, repos), &summary.Security)

	summary.PullRequests, err = stats.WriteFile(config.Output, records)
	if err != nil {
		return summary, fmt.Errorf("failed to write %s: %w", config.Output, err)
	}
	return summary, nil
}

// countSecurity passes records through, counting security updates.
func countSecurity(records iter.Seq2[stats.PullRequestRecord, error], n *int) iter.Seq2[stats.PullRequestRecord, error] {
	return func(yield func(stats.PullRequestRecord, error) bool) {
		for record, err := range records {
			if err == nil && record.IsSecurity {
				*n++
			}
			if !yield(record, err) {
				return
			}
		}
	}
}

// NewGitHubClient creates the GitHub client described by config.
func NewGitHubClient(config *Config, logger *slog.Logger) (GitHubClient, error) {
	opts := github.Options{
		Host:         config.Host,
		MaxRetries:   config.MaxRetries,
		RetryBackoff: config.RetryBackoff,
		Timeout:      config.Timeout,
		Logger:       logger,
	}
	if config.DebugMode {
		opts.HTTPLog = os.Stderr
	}
	client, err := github.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return client, nil
}
