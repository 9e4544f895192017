// Package interfaces provides abstractions for dependency injection and testability
package interfaces

import (
	"context"
	"time"

	"github.com/conveyor/conveyor/pkg/results"
	"github.com/conveyor/conveyor/pkg/types"
)

// Implementer is the capability contract every step plugin satisfies.
// Given resolved options and a read-only view of upstream results it
// produces exactly one StepResult. Implementers must not mutate the
// workflow record directly.
type Implementer interface {
	StepName() string
	ImplementerName() string
	Execute(ctx context.Context, opts types.Options, upstream results.Upstream) (*results.StepResult, error)
}

// Store persists the accumulated workflow record after every step so a
// crash mid-pipeline leaves a recoverable partial record.
type Store interface {
	// Lock acquires the single-writer lock for the destination.
	Lock() error
	// Unlock releases the single-writer lock.
	Unlock() error
	// Save durably writes the current record.
	Save(w *results.WorkflowResult) error
	// Load reads back the record, or returns nil when none exists yet.
	Load() (*results.WorkflowResult, error)
}

// RunNotifier receives run completion events
type RunNotifier interface {
	NotifyRunSucceeded(steps int, duration time.Duration)
	NotifyRunFailed(stepName string, err error)
}
