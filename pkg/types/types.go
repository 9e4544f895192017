// Package types provides core types for conveyor pipeline configuration
package types

// Status represents the state of a step or a whole run
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Options is a mapping of option name to value for one step.
// Values are scalars or structured documents straight from the
// configuration file; merging is shallow, key by key.
type Options map[string]any

// Clone returns a shallow copy of the options map
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Merge returns a new map with overlay values written over o key by key.
// Neither input is modified.
func (o Options) Merge(overlay Options) Options {
	out := make(Options, len(o)+len(overlay))
	for k, v := range o {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// String returns the value for name as a string, with ok reporting
// whether the option exists and is a string.
func (o Options) String(name string) (string, bool) {
	v, ok := o[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// StringOr returns the string value for name, or fallback when the
// option is absent or not a string.
func (o Options) StringOr(name, fallback string) string {
	if s, ok := o.String(name); ok {
		return s
	}
	return fallback
}

// StepDeclaration is one entry in the configuration document: a named
// pipeline step bound to a chosen implementer with its options.
type StepDeclaration struct {
	Name               string             `json:"name" yaml:"name"`
	Implementer        string             `json:"implementer" yaml:"implementer"`
	Options            Options            `json:"options,omitempty" yaml:"options,omitempty"`
	EnvironmentOptions map[string]Options `json:"environment-options,omitempty" yaml:"environment-options,omitempty"`
}

// Document is the raw pipeline configuration as declared by the user.
// Step order in Steps is the execution order.
type Document struct {
	GlobalDefaults            Options            `json:"global-defaults,omitempty" yaml:"global-defaults,omitempty"`
	GlobalEnvironmentDefaults map[string]Options `json:"global-environment-defaults,omitempty" yaml:"global-environment-defaults,omitempty"`
	Steps                     []StepDeclaration  `json:"steps" yaml:"steps"`
}

// StepConfig is the fully resolved configuration for one step after
// layering implementer defaults, document defaults, environment config
// and runtime overrides.
type StepConfig struct {
	Name        string
	Implementer string
	Options     Options
}
