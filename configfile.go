package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

const (
	userConfigPath  = "~/.config/depstats/config.yaml"
	localConfigPath = "depstats.yaml"
)

// YAMLConfigLoader is a kong.ConfigurationLoader for YAML files whose
// top-level keys are flag names, for example:
//
//	user: alphagov
//	topic: govuk
//	max-retries: 3
//	bot:
//	  - app/dependabot
//
// Keys may use underscores in place of dashes.
func YAMLConfigLoader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	var resolver kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		for _, key := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
			if value, ok := values[key]; ok {
				return flagValue(value), nil
			}
		}
		return nil, nil
	}
	return resolver, nil
}

// flagValue flattens YAML sequences into the comma separated form kong
// uses for slice flags.
func flagValue(value any) any {
	list, ok := value.([]any)
	if !ok {
		return value
	}
	items := make([]string, 0, len(list))
	for _, item := range list {
		items = append(items, fmt.Sprint(item))
	}
	return strings.Join(items, ",")
}
