// Package stats discovers repositories, collects the closed pull
// requests opened by dependency update bots and writes them as CSV.
package stats

import (
	"errors"
	"slices"
	"time"

	"github.com/samber/lo"
)

var (
	// ErrInvalidArgument is returned for an empty account or topic.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotClosed is returned when a pull request found by a closed
	// search has no close timestamp.
	ErrNotClosed = errors.New("pull request has no close timestamp")

	// ErrClosedBeforeOpened is returned when a pull request's close
	// timestamp precedes its creation timestamp.
	ErrClosedBeforeOpened = errors.New("pull request closed before it was opened")
)

// PullRequestRecord is one output row.
type PullRequestRecord struct {
	Repo       string
	OpenedAt   time.Time
	ClosedAt   time.Time
	IsSecurity bool
}

// RepositorySet holds repository short names for membership tests.
type RepositorySet map[string]struct{}

// NewRepositorySet returns a set containing names.
func NewRepositorySet(names ...string) RepositorySet {
	return lo.SliceToMap(names, func(name string) (string, struct{}) {
		return name, struct{}{}
	})
}

// Contains reports whether name is in the set.
func (s RepositorySet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of repositories.
func (s RepositorySet) Len() int {
	return len(s)
}

// Names returns the repository names in sorted order.
func (s RepositorySet) Names() []string {
	names := lo.Keys(s)
	slices.Sort(names)
	return names
}
