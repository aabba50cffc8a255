package stats

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected string
	}{
		{
			name:     "utc uses numeric offset",
			time:     time.Date(2023, 1, 5, 10, 0, 0, 0, time.UTC),
			expected: "2023-01-05T10:00:00+00:00",
		},
		{
			name:     "positive offset",
			time:     time.Date(2023, 6, 1, 8, 15, 30, 0, time.FixedZone("BST", 3600)),
			expected: "2023-06-01T08:15:30+01:00",
		},
		{
			name:     "negative offset",
			time:     time.Date(2023, 6, 1, 8, 15, 30, 0, time.FixedZone("", -5*3600-1800)),
			expected: "2023-06-01T08:15:30-05:30",
		},
		{
			name:     "microseconds kept",
			time:     time.Date(2023, 1, 5, 10, 0, 0, 500*int(time.Millisecond), time.UTC),
			expected: "2023-01-05T10:00:00.500000+00:00",
		},
		{
			name:     "sub-microsecond dropped",
			time:     time.Date(2023, 1, 5, 10, 0, 0, 999, time.UTC),
			expected: "2023-01-05T10:00:00+00:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTimestamp(tt.time))
		})
	}
}

func TestWrite(t *testing.T) {
	records := []PullRequestRecord{
		{Repo: "repo_name", OpenedAt: opened, ClosedAt: closed, IsSecurity: true},
		{Repo: "other", OpenedAt: opened, ClosedAt: closed, IsSecurity: false},
	}

	var buf bytes.Buffer
	n, err := Write(&buf, seq(records, nil))
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Equal(t, "repo,opened_at,closed_at,is_security\r\n"+
		"repo_name,2023-01-05T10:00:00+00:00,2023-01-06T09:30:00+00:00,true\r\n"+
		"other,2023-01-05T10:00:00+00:00,2023-01-06T09:30:00+00:00,false\r\n", buf.String())
}

func TestWriteHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	n, err := Write(&buf, seq[PullRequestRecord](nil, nil))
	require.NoError(t, err)

	assert.Equal(t, 0, n)
	assert.Equal(t, "repo,opened_at,closed_at,is_security\r\n", buf.String())
}

func TestWriteLineTerminator(t *testing.T) {
	records := []PullRequestRecord{{Repo: "a,b", OpenedAt: opened, ClosedAt: closed}}

	var buf bytes.Buffer
	_, err := Write(&buf, seq(records, nil))
	require.NoError(t, err)

	lines := strings.SplitAfter(buf.String(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "", lines[2])
	for _, line := range lines[:2] {
		assert.True(t, strings.HasSuffix(line, "\r\n"), "line %q does not end in CRLF", line)
	}
	assert.Equal(t, `"a,b",2023-01-05T10:00:00+00:00,2023-01-06T09:30:00+00:00,false`+"\r\n", lines[1])
}

func TestWriteIsDeterministic(t *testing.T) {
	records := []PullRequestRecord{
		{Repo: "a", OpenedAt: opened, ClosedAt: closed, IsSecurity: true},
		{Repo: "b", OpenedAt: opened, ClosedAt: closed},
	}

	var first, second bytes.Buffer
	_, err := Write(&first, seq(records, nil))
	require.NoError(t, err)
	_, err = Write(&second, seq(records, nil))
	require.NoError(t, err)

	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestWriteSourceError(t *testing.T) {
	sourceErr := errors.New("source failed")
	records := []PullRequestRecord{{Repo: "a", OpenedAt: opened, ClosedAt: closed}}

	var buf bytes.Buffer
	n, err := Write(&buf, seq(records, sourceErr))
	assert.ErrorIs(t, err, sourceErr)
	assert.Equal(t, 1, n)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	records := []PullRequestRecord{{Repo: "repo_name", OpenedAt: opened, ClosedAt: closed, IsSecurity: true}}

	n, err := WriteFile(path, seq(records, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "repo,opened_at,closed_at,is_security\r\n"+
		"repo_name,2023-01-05T10:00:00+00:00,2023-01-06T09:30:00+00:00,true\r\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale contents that are longer than the new file\n"), 0o644))

	_, err := WriteFile(path, seq[PullRequestRecord](nil, nil))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "repo,opened_at,closed_at,is_security\r\n", string(data))
}

func TestWriteFileFailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0o644))

	sourceErr := errors.New("collection failed")
	records := []PullRequestRecord{{Repo: "a", OpenedAt: opened, ClosedAt: closed}}

	_, err := WriteFile(path, seq(records, sourceErr))
	assert.ErrorIs(t, err, sourceErr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestWriteFileMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "data.csv")

	_, err := WriteFile(path, seq[PullRequestRecord](nil, nil))
	assert.ErrorContains(t, err, "failed to open")
}
