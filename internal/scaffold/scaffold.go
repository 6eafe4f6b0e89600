// Package scaffold builds binding manifests interactively.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-viewbind/internal/prompt"
	"github.com/goliatone/go-viewbind/pkg/manifest"
)

// Step kinds offered by the kind prompt, in display order.
var kinds = []string{"compose", "create"}

// Run asks for a binding name, its namespace and prefix, then for one or more
// steps, each binding a single view group to a list of handlers.
func Run(ctx context.Context, driver prompt.Driver) (manifest.Binding, error) {
	if driver == nil {
		return manifest.Binding{}, errors.New("scaffold: prompt driver is required")
	}

	name, err := driver.Input(ctx, prompt.InputConfig{
		Message:   "Binding name",
		Help:      "Unique name of this group of view bindings",
		Validator: required("binding name"),
	})
	if err != nil {
		return manifest.Binding{}, err
	}
	namespace, err := driver.Input(ctx, prompt.InputConfig{
		Message: "Handler namespace",
		Help:    "Prepended to every handler name; leave empty for none",
	})
	if err != nil {
		return manifest.Binding{}, err
	}
	prefix, err := driver.Input(ctx, prompt.InputConfig{
		Message: "View prefix",
		Help:    "Prepended to every view name; leave empty for none",
	})
	if err != nil {
		return manifest.Binding{}, err
	}

	binding := manifest.Binding{
		Name:      strings.TrimSpace(name),
		Namespace: strings.TrimSpace(namespace),
		Prefix:    strings.TrimSpace(prefix),
	}

	for {
		step, err := askStep(ctx, driver)
		if err != nil {
			return manifest.Binding{}, err
		}
		binding.Steps = append(binding.Steps, step)

		more, err := driver.Confirm(ctx, prompt.ConfirmConfig{Message: "Add another step?"})
		if err != nil {
			return manifest.Binding{}, err
		}
		if !more {
			return binding, nil
		}
	}
}

func askStep(ctx context.Context, driver prompt.Driver) (manifest.Step, error) {
	idx, err := driver.Select(ctx, prompt.SelectConfig{
		Message: "Bind views to",
		Options: kinds,
	})
	if err != nil {
		return manifest.Step{}, err
	}
	if idx < 0 || idx >= len(kinds) {
		return manifest.Step{}, fmt.Errorf("scaffold: unknown step kind index %d", idx)
	}

	views, err := driver.Input(ctx, prompt.InputConfig{
		Message:   "Views (comma separated)",
		Validator: required("views"),
	})
	if err != nil {
		return manifest.Step{}, err
	}
	handlers, err := driver.Input(ctx, prompt.InputConfig{
		Message:   "Handlers (comma separated)",
		Validator: required("handlers"),
	})
	if err != nil {
		return manifest.Step{}, err
	}

	step := manifest.Step{With: SplitList(handlers)}
	group := SplitList(views)
	if kinds[idx] == "create" {
		step.Create = [][]string{group}
	} else {
		step.Compose = [][]string{group}
	}
	return step, nil
}

// Marshal renders bindings as a YAML manifest.
func Marshal(bindings ...manifest.Binding) ([]byte, error) {
	doc := struct {
		Bindings []manifest.Binding `yaml:"bindings"`
	}{Bindings: bindings}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("scaffold: marshal manifest: %w", err)
	}
	return out, nil
}

// SplitList splits a comma separated answer, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func required(label string) func(string) error {
	return func(value string) error {
		if len(SplitList(value)) == 0 {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}
