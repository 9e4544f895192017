package registry

import (
	"fmt"
	"strings"
)

// UnknownStepError indicates the configuration references a step or
// implementer with no registered binding.
type UnknownStepError struct {
	StepName    string
	Implementer string
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("no implementer %q registered for step %q", e.Implementer, e.StepName)
}

// MissingOptionError indicates resolved options omit values the bound
// implementer declares as required. It names every missing option.
type MissingOptionError struct {
	StepName    string
	Implementer string
	Missing     []string
}

func (e *MissingOptionError) Error() string {
	return fmt.Sprintf("step %q (implementer %q): missing required option(s): %s",
		e.StepName, e.Implementer, strings.Join(e.Missing, ", "))
}
