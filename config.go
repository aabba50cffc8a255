package main

import (
	"time"
)

// Config holds all configuration and arguments for the application.
type Config struct {
	User          string
	Topic         string
	Output        string
	Bots          []string
	SecurityLabel string
	Host          string
	// Runtime flags
	MaxRetries   uint64
	RetryBackoff time.Duration
	Timeout      time.Duration
	DebugMode    bool
}
