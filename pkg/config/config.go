// Package config handles pipeline configuration loading and layering
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/buildkite/interpolate"
	"github.com/conveyor/conveyor/pkg/types"
	"gopkg.in/yaml.v3"
)

// DefaultsSource supplies the implementer-declared option defaults for
// a (step, implementer) binding. The registry implements this.
type DefaultsSource interface {
	Defaults(stepName, implementer string) types.Options
}

// Manager handles configuration operations
type Manager struct {
	env interpolate.Env
}

// NewManager creates a configuration manager that interpolates option
// values against the process environment
func NewManager() *Manager {
	return &Manager{env: interpolate.NewSliceEnv(os.Environ())}
}

// NewManagerWithEnv creates a configuration manager with a fixed
// environment (for testing)
func NewManagerWithEnv(env map[string]string) *Manager {
	return &Manager{env: interpolate.NewMapEnv(env)}
}

// LoadDocument loads a pipeline document from a YAML or JSON file
func (m *Manager) LoadDocument(path string) (*types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var doc types.Document

	// Try JSON first
	if err := json.Unmarshal(data, &doc); err == nil {
		return m.validateDocument(&doc)
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, configErrorf("failed to parse config as JSON or YAML: %v", err)
	}
	return m.validateDocument(&doc)
}

// ValidateDocument checks structural validity of a document: every step
// declares a name and an implementer, and no step name appears twice.
func (m *Manager) ValidateDocument(doc *types.Document) error {
	if len(doc.Steps) == 0 {
		return configErrorf("no steps defined")
	}

	seen := make(map[string]bool)
	for i, step := range doc.Steps {
		if step.Name == "" {
			return configErrorf("step %d: missing name", i)
		}
		if step.Implementer == "" {
			return configErrorf("step %q: missing implementer", step.Name)
		}
		if seen[step.Name] {
			return configErrorf("duplicate step name: %s", step.Name)
		}
		seen[step.Name] = true
	}

	return nil
}

// Resolve layers every option source into one resolved StepConfig per
// declared step, preserving declaration order.
//
// Merge precedence, lowest to highest:
//  1. implementer-declared defaults
//  2. document global-defaults
//  3. document global-environment-defaults for the active environment
//  4. per-step options
//  5. per-step environment-options for the active environment
//  6. runtime overrides
//
// String values are interpolated against the environment after merging;
// an unresolved required reference is a ConfigError.
func (m *Manager) Resolve(
	doc *types.Document,
	environment string,
	overrides types.Options,
	defaults DefaultsSource,
) ([]types.StepConfig, error) {
	if err := m.ValidateDocument(doc); err != nil {
		return nil, err
	}

	resolved := make([]types.StepConfig, 0, len(doc.Steps))
	for _, step := range doc.Steps {
		opts := types.Options{}
		if defaults != nil {
			opts = opts.Merge(defaults.Defaults(step.Name, step.Implementer))
		}
		opts = opts.Merge(doc.GlobalDefaults)
		if environment != "" {
			opts = opts.Merge(doc.GlobalEnvironmentDefaults[environment])
		}
		opts = opts.Merge(step.Options)
		if environment != "" {
			opts = opts.Merge(step.EnvironmentOptions[environment])
		}
		opts = opts.Merge(overrides)

		interpolated, err := m.interpolateOptions(step.Name, opts)
		if err != nil {
			return nil, err
		}

		resolved = append(resolved, types.StepConfig{
			Name:        step.Name,
			Implementer: step.Implementer,
			Options:     interpolated,
		})
	}

	return resolved, nil
}

// interpolateOptions expands ${VAR} references in string option values.
// Non-string values pass through untouched.
func (m *Manager) interpolateOptions(stepName string, opts types.Options) (types.Options, error) {
	out := make(types.Options, len(opts))
	for name, value := range opts {
		s, ok := value.(string)
		if !ok {
			out[name] = value
			continue
		}
		expanded, err := interpolate.Interpolate(m.env, s)
		if err != nil {
			return nil, configErrorf("step %q: option %q: %v", stepName, name, err)
		}
		out[name] = expanded
	}
	return out, nil
}

func (m *Manager) validateDocument(doc *types.Document) (*types.Document, error) {
	if err := m.ValidateDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
