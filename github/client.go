// Package github is the GitHub API collaborator: repository and issue
// search with pagination, and pull request resolution.
package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cli/go-gh"
	"github.com/cli/go-gh/pkg/api"
	"github.com/cli/go-gh/pkg/auth"
	gogithub "github.com/google/go-github/v73/github"
	"github.com/sethvargo/go-retry"
)

const (
	// DefaultHost is the public GitHub host.
	DefaultHost = "github.com"

	// DefaultPerPage is the largest page size the search API accepts.
	DefaultPerPage = 100

	defaultRetryBackoff = time.Second
)

// ErrNoToken is returned when no credential can be found for the host.
var ErrNoToken = errors.New("no GitHub token found")

// Options configures a Client.
type Options struct {
	// Host is the GitHub host; anything other than github.com is
	// treated as GitHub Enterprise Server.
	Host string
	// Token overrides credential discovery (GH_TOKEN, GITHUB_TOKEN,
	// then the gh CLI configuration).
	Token string
	// BaseURL overrides the API root derived from Host.
	BaseURL string

	PerPage      int
	MaxRetries   uint64
	RetryBackoff time.Duration
	Timeout      time.Duration

	// HTTPLog receives a line per request when set.
	HTTPLog io.Writer

	Logger    *slog.Logger
	Transport http.RoundTripper
}

// Client searches GitHub and resolves pull requests.
type Client struct {
	gh           *gogithub.Client
	perPage      int
	maxRetries   uint64
	retryBackoff time.Duration
	logger       *slog.Logger

	// sleep waits out rate limits; replaced in tests.
	sleep func(context.Context, time.Duration) error
}

// NewClient creates a client authenticated for opts.Host.
func NewClient(opts Options) (*Client, error) {
	host := opts.Host
	if host == "" {
		host = DefaultHost
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	token, source := opts.Token, "options"
	if token == "" {
		token, source = auth.TokenForHost(host)
	}
	if token == "" {
		return nil, fmt.Errorf("%w for %s: set GH_TOKEN or GITHUB_TOKEN, or run 'gh auth login'", ErrNoToken, host)
	}
	logger.Debug("using GitHub token", "host", host, "source", source)

	httpClient, err := gh.HTTPClient(&api.ClientOptions{
		Host:      host,
		AuthToken: token,
		Timeout:   opts.Timeout,
		Transport: opts.Transport,
		Log:       opts.HTTPLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	client := gogithub.NewClient(httpClient)
	switch {
	case opts.BaseURL != "":
		baseURL, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API base URL %q: %w", opts.BaseURL, err)
		}
		client.BaseURL = baseURL
	case host != DefaultHost:
		endpoint := "https://" + host + "/"
		client, err = client.WithEnterpriseURLs(endpoint, endpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid enterprise host %q: %w", host, err)
		}
	}

	perPage := opts.PerPage
	if perPage <= 0 || perPage > DefaultPerPage {
		perPage = DefaultPerPage
	}

	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	return &Client{
		gh:           client,
		perPage:      perPage,
		maxRetries:   opts.MaxRetries,
		retryBackoff: backoff,
		logger:       logger,
		sleep:        sleepContext,
	}, nil
}

// SearchRepositories returns every repository matching query, fetching
// pages lazily as the sequence is consumed.
func (c *Client) SearchRepositories(ctx context.Context, query string) iter.Seq2[Repository, error] {
	return func(yield func(Repository, error) bool) {
		pages := paginate(ctx, c, "search repositories", func(ctx context.Context, opts gogithub.ListOptions) ([]*gogithub.Repository, *gogithub.Response, error) {
			result, resp, err := c.gh.Search.Repositories(ctx, query, &gogithub.SearchOptions{ListOptions: opts})
			if err != nil {
				return nil, resp, err
			}
			if result.GetIncompleteResults() {
				c.logger.Warn("repository search returned incomplete results", "query", query)
			}
			return result.Repositories, resp, nil
		})
		for repo, err := range pages {
			if err != nil {
				yield(Repository{}, fmt.Errorf("failed to search repositories %q: %w", query, err))
				return
			}
			if !yield(toRepository(repo), nil) {
				return
			}
		}
	}
}

// SearchIssues returns every issue or pull request matching query,
// fetching pages lazily as the sequence is consumed.
func (c *Client) SearchIssues(ctx context.Context, query string) iter.Seq2[Issue, error] {
	return func(yield func(Issue, error) bool) {
		pages := paginate(ctx, c, "search issues", func(ctx context.Context, opts gogithub.ListOptions) ([]*gogithub.Issue, *gogithub.Response, error) {
			result, resp, err := c.gh.Search.Issues(ctx, query, &gogithub.SearchOptions{ListOptions: opts})
			if err != nil {
				return nil, resp, err
			}
			if result.GetIncompleteResults() {
				c.logger.Warn("issue search returned incomplete results", "query", query)
			}
			return result.Issues, resp, nil
		})
		for hit, err := range pages {
			if err != nil {
				yield(Issue{}, fmt.Errorf("failed to search issues %q: %w", query, err))
				return
			}
			issue, err := toIssue(hit)
			if err != nil {
				yield(Issue{}, err)
				return
			}
			if !yield(issue, nil) {
				return
			}
		}
	}
}

// PullRequest resolves the pull request behind an issue search hit.
func (c *Client) PullRequest(ctx context.Context, issue Issue) (PullRequest, error) {
	var pr *gogithub.PullRequest
	what := fmt.Sprintf("get pull request %s/%s#%d", issue.Owner, issue.Repo, issue.Number)
	err := c.retry(ctx, what, func(ctx context.Context) (*gogithub.Response, error) {
		var (
			resp *gogithub.Response
			err  error
		)
		pr, resp, err = c.gh.PullRequests.Get(ctx, issue.Owner, issue.Repo, issue.Number)
		return resp, err
	})
	if err != nil {
		return PullRequest{}, fmt.Errorf("failed to %s: %w", what, err)
	}
	return toPullRequest(issue.Owner, issue.Repo, pr), nil
}

// paginate walks the pages produced by fetch until NextPage is zero.
// The first error ends the sequence.
func paginate[T any](ctx context.Context, c *Client, what string, fetch func(context.Context, gogithub.ListOptions) ([]T, *gogithub.Response, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		opts := gogithub.ListOptions{PerPage: c.perPage}
		for {
			var (
				items []T
				resp  *gogithub.Response
			)
			err := c.retry(ctx, what, func(ctx context.Context) (*gogithub.Response, error) {
				var err error
				items, resp, err = fetch(ctx, opts)
				return resp, err
			})
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}

			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}

			if resp == nil || resp.NextPage == 0 {
				return
			}
			opts.Page = resp.NextPage
		}
	}
}

// retry runs fn, retrying transient failures with exponential backoff
// up to the configured limit. Rate limited attempts first wait until
// GitHub allows requests again.
func (c *Client) retry(ctx context.Context, what string, fn func(context.Context) (*gogithub.Response, error)) error {
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBackoff))
	var (
		attempt uint64
		waited  bool
	)
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		callCtx := ctx
		if waited {
			// The limit has been waited out; go-github would otherwise
			// refuse the request based on the rate it last saw.
			callCtx = context.WithValue(ctx, gogithub.BypassRateLimitCheck, true)
		}
		resp, err := fn(callCtx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || attempt > c.maxRetries || !isTransient(resp, err) {
			return err
		}

		wait := rateLimitWait(err)
		c.logger.Warn("transient GitHub API error, retrying",
			"op", what, "attempt", attempt, "max_retries", c.maxRetries, "wait", wait, "error", err)
		if wait > 0 {
			if err := c.sleep(ctx, wait); err != nil {
				return err
			}
			waited = true
		}
		return retry.RetryableError(err)
	})
}

// rateLimitWait returns how long GitHub asked us to back off: until the
// primary limit resets, or the secondary limit's Retry-After.
func rateLimitWait(err error) time.Duration {
	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return max(time.Until(rateErr.Rate.Reset.Time), 0)
	}
	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return abuseErr.GetRetryAfter()
	}
	return 0
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isTransient reports whether err is worth retrying: rate limiting,
// server errors and network failures.
func isTransient(resp *gogithub.Response, err error) bool {
	var rateErr *gogithub.RateLimitError
	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return true
	}
	if resp != nil && resp.Response != nil {
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
