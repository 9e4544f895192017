package runner

import "fmt"

// StepExecutionError indicates a step implementer failed during
// invocation. The failed step's result is still recorded; the error is
// how the runner surfaces the overall Failed outcome to its caller.
type StepExecutionError struct {
	StepName    string
	Implementer string
	Err         error
}

func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("step %q (implementer %q) failed: %v", e.StepName, e.Implementer, e.Err)
}

func (e *StepExecutionError) Unwrap() error {
	return e.Err
}
