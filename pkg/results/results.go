// Package results holds the records produced by pipeline execution: one
// StepResult per executed step, accumulated into a WorkflowResult.
package results

import (
	"sync"
	"time"

	"github.com/conveyor/conveyor/pkg/types"
	"github.com/google/uuid"
)

// StepResult is the outcome of one implementer invocation. It is
// mutable while the implementer builds it up and becomes immutable once
// recorded into a WorkflowResult.
type StepResult struct {
	StepName    string            `json:"step" yaml:"step"`
	Implementer string            `json:"implementer" yaml:"implementer"`
	Status      types.Status      `json:"status" yaml:"status"`
	Outputs     map[string]string `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Artifacts   map[string]string `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
	Messages    []string          `json:"messages,omitempty" yaml:"messages,omitempty"`
	StartedAt   time.Time         `json:"started-at,omitempty" yaml:"started-at,omitempty"`
	FinishedAt  time.Time         `json:"finished-at,omitempty" yaml:"finished-at,omitempty"`

	sealed bool
}

// NewStepResult creates a result for one step invocation
func NewStepResult(stepName, implementer string, status types.Status) *StepResult {
	return &StepResult{
		StepName:    stepName,
		Implementer: implementer,
		Status:      status,
	}
}

// SetStatus updates the status of an unsealed result
func (r *StepResult) SetStatus(status types.Status) error {
	if r.sealed {
		return ErrResultSealed
	}
	r.Status = status
	return nil
}

// AddOutput records a named output value other steps may consume
func (r *StepResult) AddOutput(name, value string) error {
	if r.sealed {
		return ErrResultSealed
	}
	if r.Outputs == nil {
		r.Outputs = make(map[string]string)
	}
	r.Outputs[name] = value
	return nil
}

// AddArtifact records a reference to a file or object produced by the step
func (r *StepResult) AddArtifact(name, ref string) error {
	if r.sealed {
		return ErrResultSealed
	}
	if r.Artifacts == nil {
		r.Artifacts = make(map[string]string)
	}
	r.Artifacts[name] = ref
	return nil
}

// AddMessage appends a human readable message to the result
func (r *StepResult) AddMessage(message string) error {
	if r.sealed {
		return ErrResultSealed
	}
	r.Messages = append(r.Messages, message)
	return nil
}

// Succeeded reports whether the step completed successfully
func (r *StepResult) Succeeded() bool {
	return r.Status == types.StatusSucceeded
}

// Duration returns how long the step invocation took
func (r *StepResult) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// clone returns a deep copy of the result with the sealed flag cleared
func (r *StepResult) clone() *StepResult {
	out := &StepResult{
		StepName:    r.StepName,
		Implementer: r.Implementer,
		Status:      r.Status,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
	}
	if r.Outputs != nil {
		out.Outputs = make(map[string]string, len(r.Outputs))
		for k, v := range r.Outputs {
			out.Outputs[k] = v
		}
	}
	if r.Artifacts != nil {
		out.Artifacts = make(map[string]string, len(r.Artifacts))
		for k, v := range r.Artifacts {
			out.Artifacts[k] = v
		}
	}
	if r.Messages != nil {
		out.Messages = append([]string(nil), r.Messages...)
	}
	return out
}

// Upstream is the read-only view of prior step results handed to
// implementers. Implementers use it to pull data produced by earlier
// steps and cannot mutate the underlying record through it.
type Upstream interface {
	// Output returns the named output of a previously executed step.
	Output(stepName, output string) (string, error)
	// Artifact returns the named artifact reference of a previously
	// executed step.
	Artifact(stepName, artifact string) (string, error)
	// Result returns a copy of the recorded result for a step.
	Result(stepName string) (StepResult, bool)
}

// WorkflowResult is the ordered accumulation of StepResults for one
// pipeline run. Insertion order is execution order and each step name
// appears at most once; re-recording a step replaces its entry in
// place.
type WorkflowResult struct {
	runID   string
	status  types.Status
	entries []*StepResult
	index   map[string]int
	mu      sync.RWMutex
}

// NewWorkflowResult creates an empty record for a fresh run
func NewWorkflowResult() *WorkflowResult {
	return &WorkflowResult{
		runID:  uuid.NewString(),
		status: types.StatusPending,
		index:  make(map[string]int),
	}
}

// RunID returns the unique identifier of this run
func (w *WorkflowResult) RunID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.runID
}

// Status returns the run level status
func (w *WorkflowResult) Status() types.Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}

// SetStatus updates the run level status
func (w *WorkflowResult) SetStatus(status types.Status) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = status
}

// Record seals the given result and stores a copy, replacing any
// existing entry for the same step name without changing its position.
func (w *WorkflowResult) Record(r *StepResult) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r.sealed = true
	stored := r.clone()
	stored.sealed = true

	if i, ok := w.index[stored.StepName]; ok {
		w.entries[i] = stored
		return
	}
	w.index[stored.StepName] = len(w.entries)
	w.entries = append(w.entries, stored)
}

// Result returns a copy of the recorded result for a step
func (w *WorkflowResult) Result(stepName string) (StepResult, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	i, ok := w.index[stepName]
	if !ok {
		return StepResult{}, false
	}
	return *w.entries[i].clone(), true
}

// Results returns copies of all recorded results in execution order
func (w *WorkflowResult) Results() []StepResult {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]StepResult, 0, len(w.entries))
	for _, e := range w.entries {
		out = append(out, *e.clone())
	}
	return out
}

// Len returns the number of recorded step results
func (w *WorkflowResult) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entries)
}

// Output returns the named output of a previously executed step. It
// fails with a MissingUpstreamOutputError when the step has not run or
// did not produce that output.
func (w *WorkflowResult) Output(stepName, output string) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	i, ok := w.index[stepName]
	if !ok {
		return "", &MissingUpstreamOutputError{StepName: stepName, Output: output, NotRun: true}
	}
	v, ok := w.entries[i].Outputs[output]
	if !ok {
		return "", &MissingUpstreamOutputError{StepName: stepName, Output: output}
	}
	return v, nil
}

// Artifact returns the named artifact reference of a previously
// executed step, with the same failure semantics as Output.
func (w *WorkflowResult) Artifact(stepName, artifact string) (string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	i, ok := w.index[stepName]
	if !ok {
		return "", &MissingUpstreamOutputError{StepName: stepName, Output: artifact, NotRun: true}
	}
	v, ok := w.entries[i].Artifacts[artifact]
	if !ok {
		return "", &MissingUpstreamOutputError{StepName: stepName, Output: artifact}
	}
	return v, nil
}

// Document is the serializable form of a WorkflowResult used by the
// results store. Round-tripping through Document preserves every field.
type Document struct {
	RunID  string       `json:"run-id" yaml:"run-id"`
	Status types.Status `json:"status" yaml:"status"`
	Steps  []StepResult `json:"steps" yaml:"steps"`
}

// Document returns the serializable form of the record
func (w *WorkflowResult) Document() Document {
	return Document{
		RunID:  w.RunID(),
		Status: w.Status(),
		Steps:  w.Results(),
	}
}

// FromDocument reconstructs a WorkflowResult from its serialized form
func FromDocument(doc Document) *WorkflowResult {
	w := &WorkflowResult{
		runID:  doc.RunID,
		status: doc.Status,
		index:  make(map[string]int, len(doc.Steps)),
	}
	for _, s := range doc.Steps {
		entry := s.clone()
		entry.sealed = true
		w.index[entry.StepName] = len(w.entries)
		w.entries = append(w.entries, entry)
	}
	return w
}
