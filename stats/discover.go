package stats

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/frobware/depstats/github"
	"github.com/frobware/depstats/github/search"
)

// RepositorySearcher runs a repository search.
type RepositorySearcher interface {
	SearchRepositories(ctx context.Context, query string) iter.Seq2[github.Repository, error]
}

// Discover returns the names of the repositories owned by account that
// carry topic.
func Discover(ctx context.Context, client RepositorySearcher, account, topic string, logger *slog.Logger) (RepositorySet, error) {
	if account == "" {
		return nil, fmt.Errorf("%w: account must not be empty", ErrInvalidArgument)
	}
	if topic == "" {
		return nil, fmt.Errorf("%w: topic must not be empty", ErrInvalidArgument)
	}
	logger = orDiscard(logger)

	query := search.TopicRepositories(account, topic)
	logger.Debug("searching repositories", "query", query)

	repos := RepositorySet{}
	for repo, err := range client.SearchRepositories(ctx, query) {
		if err != nil {
			return nil, fmt.Errorf("failed to discover repositories: %w", err)
		}
		repos[repo.Name] = struct{}{}
	}

	logger.Info("discovered repositories", "account", account, "topic", topic, "count", repos.Len())
	return repos, nil
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
