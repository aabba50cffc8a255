package search

import (
	"testing"
)

func TestQueryBuilder(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *QueryBuilder
		expected string
	}{
		{
			name:     "empty builder",
			build:    NewQueryBuilder,
			expected: "",
		},
		{
			name: "user and topic",
			build: func() *QueryBuilder {
				return NewQueryBuilder().
					User("alphagov").
					Topic("govuk")
			},
			expected: "user:alphagov topic:govuk",
		},
		{
			name: "single author",
			build: func() *QueryBuilder {
				return NewQueryBuilder().
					User("owner").
					Author("app/dependabot")
			},
			expected: "user:owner author:app/dependabot",
		},
		{
			name: "multiple authors",
			build: func() *QueryBuilder {
				return NewQueryBuilder().
					Authors("app/dependabot", "app/renovate")
			},
			expected: "author:app/dependabot author:app/renovate",
		},
		{
			name: "no authors adds nothing",
			build: func() *QueryBuilder {
				return NewQueryBuilder().
					User("owner").
					Authors()
			},
			expected: "user:owner",
		},
		{
			name: "is qualifiers",
			build: func() *QueryBuilder {
				return NewQueryBuilder().
					Is("pr").
					Is("closed")
			},
			expected: "is:pr is:closed",
		},
		{
			name: "label and raw term",
			build: func() *QueryBuilder {
				return NewQueryBuilder().
					Label("security").
					AddTerm("sort:created-asc")
			},
			expected: "label:security sort:created-asc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.build().Build()
			if result != tt.expected {
				t.Errorf("Build() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestTopicRepositories(t *testing.T) {
	got := TopicRepositories("alphagov", "govuk")
	want := "user:alphagov topic:govuk"
	if got != want {
		t.Errorf("TopicRepositories() = %q, want %q", got, want)
	}
}

func TestClosedPullRequestsBy(t *testing.T) {
	tests := []struct {
		name     string
		account  string
		authors  []string
		expected string
	}{
		{
			name:     "dependency bots",
			account:  "alphagov",
			authors:  []string{"app/dependabot", "app/dependabot-preview"},
			expected: "user:alphagov author:app/dependabot author:app/dependabot-preview is:pr is:closed",
		},
		{
			name:     "single bot",
			account:  "owner",
			authors:  []string{"app/renovate"},
			expected: "user:owner author:app/renovate is:pr is:closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClosedPullRequestsBy(tt.account, tt.authors)
			if got != tt.expected {
				t.Errorf("ClosedPullRequestsBy(%q, %v) = %q, want %q", tt.account, tt.authors, got, tt.expected)
			}
		})
	}
}
