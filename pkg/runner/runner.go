// Package runner provides the sequential pipeline execution engine
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/conveyor/conveyor/pkg/interfaces"
	"github.com/conveyor/conveyor/pkg/logger"
	"github.com/conveyor/conveyor/pkg/registry"
	"github.com/conveyor/conveyor/pkg/results"
	"github.com/conveyor/conveyor/pkg/types"
)

// Options controls one pipeline invocation
type Options struct {
	// Force re-executes steps the results store already records as
	// succeeded, replacing their entries.
	Force bool
}

// Runner orchestrates sequential execution of resolved steps against
// the registry. It owns the WorkflowResult for the duration of one run;
// implementers only ever see a read-only view.
type Runner struct {
	registry *registry.Registry
	store    interfaces.Store
	notifier interfaces.RunNotifier
	logger   logger.Logger
}

// New creates a runner. The notifier may be nil.
func New(reg *registry.Registry, store interfaces.Store, notifier interfaces.RunNotifier, log logger.Logger) *Runner {
	return &Runner{
		registry: reg,
		store:    store,
		notifier: notifier,
		logger:   log,
	}
}

// Run executes the resolved steps in declared order, fail-fast. Each
// captured result is recorded and persisted before the next step
// starts. Steps already recorded as succeeded in the results store are
// skipped unless opts.Force is set.
//
// Configuration and registry level errors abort the run before any step
// executes; in that case no results are produced or persisted. When a
// step fails, the partial WorkflowResult accumulated so far is returned
// together with a StepExecutionError.
func (r *Runner) Run(ctx context.Context, steps []types.StepConfig, opts Options) (*results.WorkflowResult, error) {
	// Resolve and validate every step up front so nothing executes
	// when the configuration references unknown implementers or omits
	// required options.
	entries := make([]*registry.Entry, len(steps))
	for i, step := range steps {
		entry, err := r.registry.Resolve(step.Name, step.Implementer)
		if err != nil {
			return nil, err
		}
		if err := entry.Validate(step.Options); err != nil {
			return nil, err
		}
		entries[i] = entry
	}

	if err := r.store.Lock(); err != nil {
		return nil, err
	}
	defer r.store.Unlock()

	workflow, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	if workflow == nil {
		workflow = results.NewWorkflowResult()
	}
	workflow.SetStatus(types.StatusRunning)

	started := time.Now()
	for i, step := range steps {
		if !opts.Force {
			if prior, ok := workflow.Result(step.Name); ok && prior.Succeeded() {
				r.logger.WithStep(step.Name).Info("Step already succeeded, skipping",
					logger.WithField("implementer", prior.Implementer))
				continue
			}
		}

		log := r.logger.WithStep(step.Name)
		log.Info("Running step", logger.WithField("implementer", step.Implementer))

		result := r.executeStep(ctx, entries[i], step, workflow)

		workflow.Record(result)
		if !result.Succeeded() {
			workflow.SetStatus(types.StatusFailed)
		}
		if err := r.store.Save(workflow); err != nil {
			return workflow, fmt.Errorf("failed to persist results after step %q: %w", step.Name, err)
		}

		if !result.Succeeded() {
			stepErr := &StepExecutionError{
				StepName:    step.Name,
				Implementer: step.Implementer,
				Err:         errors.New(lastMessage(result)),
			}
			log.Error("Step failed, halting pipeline", logger.WithField("error", stepErr.Err))
			if r.notifier != nil {
				r.notifier.NotifyRunFailed(step.Name, stepErr.Err)
			}
			return workflow, stepErr
		}

		log.Success("Step succeeded", logger.WithField("duration", result.Duration().Round(time.Millisecond)))
	}

	workflow.SetStatus(types.StatusSucceeded)
	if err := r.store.Save(workflow); err != nil {
		return workflow, fmt.Errorf("failed to persist final results: %w", err)
	}

	r.logger.Success("Pipeline succeeded", logger.WithField("steps", workflow.Len()))
	if r.notifier != nil {
		r.notifier.NotifyRunSucceeded(workflow.Len(), time.Since(started))
	}
	return workflow, nil
}

// executeStep invokes one implementer and always comes back with a
// result: implementer errors and panics are captured into a synthesized
// failed StepResult rather than propagated.
func (r *Runner) executeStep(
	ctx context.Context,
	entry *registry.Entry,
	step types.StepConfig,
	upstream results.Upstream,
) (result *results.StepResult) {
	startedAt := time.Now()

	defer func() {
		if p := recover(); p != nil {
			result = results.NewStepResult(step.Name, step.Implementer, types.StatusFailed)
			result.AddMessage(fmt.Sprintf("implementer panicked: %v", p))
		}
		if result.StartedAt.IsZero() {
			result.StartedAt = startedAt
		}
		if result.FinishedAt.IsZero() {
			result.FinishedAt = time.Now()
		}
	}()

	impl := entry.Factory()
	result, err := impl.Execute(ctx, step.Options, upstream)
	switch {
	case err != nil:
		result = results.NewStepResult(step.Name, step.Implementer, types.StatusFailed)
		result.AddMessage(err.Error())
	case result == nil:
		result = results.NewStepResult(step.Name, step.Implementer, types.StatusFailed)
		result.AddMessage("implementer returned no result")
	}
	return result
}

func lastMessage(r *results.StepResult) string {
	if len(r.Messages) == 0 {
		return "step reported failure"
	}
	return r.Messages[len(r.Messages)-1]
}
