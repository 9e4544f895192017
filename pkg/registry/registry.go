// Package registry maps (step, implementer) pairs to the factories
// responsible for executing them.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/conveyor/conveyor/pkg/interfaces"
	"github.com/conveyor/conveyor/pkg/types"
)

// Factory constructs a fresh implementer instance for one invocation
type Factory func() interfaces.Implementer

// Entry binds a (step, implementer) pair to its factory plus the option
// names the implementer declares, used for validation before execution.
type Entry struct {
	StepName    string
	Implementer string
	Factory     Factory
	Defaults    types.Options
	Required    []string
	Optional    []string
}

// Validate checks resolved options against the entry's required option
// names, reporting every missing option at once.
func (e *Entry) Validate(opts types.Options) error {
	var missing []string
	for _, name := range e.Required {
		if _, ok := opts[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingOptionError{
			StepName:    e.StepName,
			Implementer: e.Implementer,
			Missing:     missing,
		}
	}
	return nil
}

type key struct {
	step        string
	implementer string
}

// Registry holds implementer bindings. Registration happens once during
// process-wide initialization and is append-only for the lifetime of a
// run; multiple implementers may exist per step name.
type Registry struct {
	mu      sync.RWMutex
	entries map[key]*Entry
}

// New creates an empty registry
func New() *Registry {
	return &Registry{entries: make(map[key]*Entry)}
}

// Register adds a binding. Registering the same (step, implementer)
// pair twice is an error.
func (r *Registry) Register(e Entry) error {
	if e.StepName == "" || e.Implementer == "" {
		return fmt.Errorf("registry entry requires step and implementer names")
	}
	if e.Factory == nil {
		return fmt.Errorf("registry entry %q/%q requires a factory", e.StepName, e.Implementer)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{step: e.StepName, implementer: e.Implementer}
	if _, ok := r.entries[k]; ok {
		return fmt.Errorf("implementer %q already registered for step %q", e.Implementer, e.StepName)
	}
	r.entries[k] = &e
	return nil
}

// Resolve returns the entry bound to (step, implementer), or an
// UnknownStepError when no such binding exists.
func (r *Registry) Resolve(stepName, implementer string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[key{step: stepName, implementer: implementer}]
	if !ok {
		return nil, &UnknownStepError{StepName: stepName, Implementer: implementer}
	}
	return e, nil
}

// Defaults returns the implementer-declared defaults for a binding, or
// nil when the binding is unknown. Implements config.DefaultsSource.
func (r *Registry) Defaults(stepName, implementer string) types.Options {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[key{step: stepName, implementer: implementer}]
	if !ok {
		return nil
	}
	return e.Defaults.Clone()
}

// Entries returns all bindings sorted by step then implementer name
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StepName != out[j].StepName {
			return out[i].StepName < out[j].StepName
		}
		return out[i].Implementer < out[j].Implementer
	})
	return out
}
