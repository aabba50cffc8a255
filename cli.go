package main

import (
	"errors"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/frobware/depstats/github"
)

// CLI is the command line. Flag defaults may also come from YAML
// configuration files; explicit flags win.
type CLI struct {
	User          string        `help:"Account whose repositories are searched." default:"alphagov"`
	Topic         string        `help:"Topic the repositories must carry." default:"govuk"`
	Output        string        `short:"o" help:"CSV destination, or - for standard output." default:"data.csv"`
	Bot           []string      `help:"Search identity of a dependency update bot; repeat for several." default:"app/dependabot,app/dependabot-preview"`
	SecurityLabel string        `help:"Label that marks a pull request as a security update." default:"security"`
	Host          string        `help:"GitHub host." default:"github.com" env:"GH_HOST"`
	MaxRetries    uint64        `help:"Retries for transient GitHub API errors." default:"0"`
	RetryBackoff  time.Duration `help:"Initial delay between retries, doubled on each attempt." default:"1s"`
	Timeout       time.Duration `help:"Per-request timeout; 0 disables it." default:"0s"`

	ConfigFile kong.ConfigFlag  `name:"config" help:"Load flag defaults from a YAML file." placeholder:"FILE"`
	Debug      bool             `help:"Enable debug logging and HTTP request logging."`
	Version    kong.VersionFlag `short:"v" help:"Show version information."`
}

// Validate is called by kong after parsing.
func (c *CLI) Validate() error {
	var errs []error
	if strings.TrimSpace(c.User) == "" {
		errs = append(errs, errors.New("--user must not be empty"))
	}
	if strings.TrimSpace(c.Topic) == "" {
		errs = append(errs, errors.New("--topic must not be empty"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("--output must not be empty"))
	}
	if len(c.bots()) == 0 {
		errs = append(errs, errors.New("at least one --bot is required"))
	}
	if c.SecurityLabel == "" {
		errs = append(errs, errors.New("--security-label must not be empty"))
	}
	if c.RetryBackoff <= 0 {
		errs = append(errs, errors.New("--retry-backoff must be positive"))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("--timeout must not be negative"))
	}
	return errors.Join(errs...)
}

// Config converts the parsed command line into a Config.
func (c *CLI) Config() *Config {
	host := c.Host
	if host == "" {
		host = github.DefaultHost
	}
	return &Config{
		User:          c.User,
		Topic:         c.Topic,
		Output:        c.Output,
		Bots:          c.bots(),
		SecurityLabel: c.SecurityLabel,
		Host:          host,
		MaxRetries:    c.MaxRetries,
		RetryBackoff:  c.RetryBackoff,
		Timeout:       c.Timeout,
		DebugMode:     c.Debug,
	}
}

func (c *CLI) bots() []string {
	var bots []string
	for _, b := range c.Bot {
		if b = strings.TrimSpace(b); b != "" {
			bots = append(bots, b)
		}
	}
	return bots
}
