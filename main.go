// Package main implements depstats, a tool that measures how a GitHub
// account's dependency update bots are used.
//
// Features:
//   - Finds every repository of an account tagged with a topic
//   - Searches the closed pull requests opened by Dependabot under
//     that account and keeps those in the tagged repositories
//   - Classifies each pull request as a security update by its label
//   - Writes one CSV row per pull request with its open and close times
//
// Credentials come from GH_TOKEN, GITHUB_TOKEN or the gh CLI
// configuration, so an existing `gh auth login` is enough.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("depstats"),
		kong.Description("Export closed Dependabot pull requests for an account's topic-tagged repositories as CSV."),
		kong.UsageOnError(),
		kong.Configuration(YAMLConfigLoader, userConfigPath, localConfigPath),
		kong.Vars{"version": Get().String()},
	)

	kctx.FatalIfErrorf(run(cli.Config()))
}

func run(config *Config) error {
	logger := NewLogger(os.Stderr, config.DebugMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clientFactory := func(config *Config) (GitHubClient, error) {
		return NewGitHubClient(config, logger)
	}

	summary, err := Run(ctx, config, clientFactory, logger)
	if err != nil {
		return err
	}

	logger.Info("wrote pull requests",
		"output", config.Output,
		"repositories", summary.Repositories,
		"pull_requests", summary.PullRequests,
		"security", summary.Security)
	return nil
}
