package main

import (
	"io"
	"log/slog"
)

// NewLogger returns a text logger writing to w. Debug enables debug
// level records.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
