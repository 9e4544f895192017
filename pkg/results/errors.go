package results

import (
	"errors"
	"fmt"
)

// ErrResultSealed indicates an attempt to modify a StepResult after it
// was recorded into a WorkflowResult
var ErrResultSealed = errors.New("step result is sealed and can no longer be modified")

// MissingUpstreamOutputError is returned when a step requests an output
// from an upstream step that has not run or did not produce it.
type MissingUpstreamOutputError struct {
	StepName string
	Output   string
	NotRun   bool
}

func (e *MissingUpstreamOutputError) Error() string {
	if e.NotRun {
		return fmt.Sprintf("no result recorded for step %q", e.StepName)
	}
	return fmt.Sprintf("step %q did not produce output %q", e.StepName, e.Output)
}
