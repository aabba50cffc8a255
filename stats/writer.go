package stats

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"time"

	"github.com/google/renameio/v2"
)

// Header is the CSV header row.
var Header = []string{"repo", "opened_at", "closed_at", "is_security"}

// Stdout is the WriteFile destination that selects standard output.
const Stdout = "-"

const (
	timestampLayout         = "2006-01-02T15:04:05-07:00"
	timestampLayoutFraction = "2006-01-02T15:04:05.000000-07:00"
)

// FormatTimestamp renders t as ISO-8601 with a numeric UTC offset.
// Microseconds are included only when non-zero.
func FormatTimestamp(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		return t.Format(timestampLayoutFraction)
	}
	return t.Format(timestampLayout)
}

// Row returns the CSV fields for r in Header order.
func (r PullRequestRecord) Row() []string {
	return []string{
		r.Repo,
		FormatTimestamp(r.OpenedAt),
		FormatTimestamp(r.ClosedAt),
		strconv.FormatBool(r.IsSecurity),
	}
}

// Write writes the header and one row per record to w, consuming
// records as it goes. Lines end in CRLF. It returns the number of data
// rows written.
func Write(w io.Writer, records iter.Seq2[PullRequestRecord, error]) (int, error) {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(Header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	rows := 0
	for record, err := range records {
		if err != nil {
			return rows, err
		}
		if err := cw.Write(record.Row()); err != nil {
			return rows, fmt.Errorf("failed to write row: %w", err)
		}
		rows++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return rows, nil
}

// WriteFile writes records to path, or to standard output when path is
// "-". The file is written beside path and renamed into place once every
// record has been written, so a failed run leaves any previous file
// intact.
func WriteFile(path string, records iter.Seq2[PullRequestRecord, error]) (int, error) {
	if path == Stdout {
		return Write(os.Stdout, records)
	}

	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return 0, fmt.Errorf("failed to open %s for writing: %w", path, err)
	}
	defer pf.Cleanup()

	n, err := Write(pf, records)
	if err != nil {
		return n, err
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return n, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return n, nil
}
