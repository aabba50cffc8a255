// Package search builds GitHub search syntax for the repository and
// issue search endpoints.
package search

import (
	"fmt"
	"strings"
)

// QueryBuilder constructs GitHub search syntax.
type QueryBuilder struct {
	terms []string
}

// NewQueryBuilder creates a new query builder.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// User restricts results to those owned by the user or organisation.
func (qb *QueryBuilder) User(account string) *QueryBuilder {
	qb.terms = append(qb.terms, fmt.Sprintf("user:%s", account))
	return qb
}

// Topic adds a repository topic filter.
func (qb *QueryBuilder) Topic(topic string) *QueryBuilder {
	qb.terms = append(qb.terms, fmt.Sprintf("topic:%s", topic))
	return qb
}

// Author adds an author filter. Bots are named "app/<slug>".
func (qb *QueryBuilder) Author(author string) *QueryBuilder {
	qb.terms = append(qb.terms, fmt.Sprintf("author:%s", author))
	return qb
}

// Authors adds one author filter per entry; GitHub ORs repeated
// author qualifiers.
func (qb *QueryBuilder) Authors(authors ...string) *QueryBuilder {
	for _, a := range authors {
		qb.Author(a)
	}
	return qb
}

// Is adds an is: qualifier such as "pr" or "closed".
func (qb *QueryBuilder) Is(qualifier string) *QueryBuilder {
	qb.terms = append(qb.terms, fmt.Sprintf("is:%s", qualifier))
	return qb
}

// Label adds a label filter.
func (qb *QueryBuilder) Label(label string) *QueryBuilder {
	qb.terms = append(qb.terms, fmt.Sprintf("label:%s", label))
	return qb
}

// AddTerm adds a raw search term.
func (qb *QueryBuilder) AddTerm(term string) *QueryBuilder {
	qb.terms = append(qb.terms, term)
	return qb
}

// Build constructs the final search query string.
func (qb *QueryBuilder) Build() string {
	return strings.Join(qb.terms, " ")
}

// TopicRepositories is the repository search used for discovery.
func TopicRepositories(account, topic string) string {
	return NewQueryBuilder().User(account).Topic(topic).Build()
}

// ClosedPullRequestsBy is the issue search for closed pull requests
// opened by any of the given authors under account.
func ClosedPullRequestsBy(account string, authors []string) string {
	return NewQueryBuilder().
		User(account).
		Authors(authors...).
		Is("pr").
		Is("closed").
		Build()
}
