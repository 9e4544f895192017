package steps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/conveyor/conveyor/pkg/results"
	"github.com/conveyor/conveyor/pkg/types"
)

// ShellCommand implements the shell step: it runs an arbitrary command
// through the shell and optionally publishes the last line of its
// output for downstream steps.
type ShellCommand struct{}

// StepName returns the pipeline step this implementer fulfills
func (c *ShellCommand) StepName() string { return "shell" }

// ImplementerName returns the implementer identity for registry binding
func (c *ShellCommand) ImplementerName() string { return "command" }

// Execute runs the configured command
func (c *ShellCommand) Execute(ctx context.Context, opts types.Options, upstream results.Upstream) (*results.StepResult, error) {
	command, ok := opts.String("command")
	if !ok || command == "" {
		return nil, fmt.Errorf("command must be a non-empty string")
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = opts.StringOr("working-dir", "")

	out, err := cmd.CombinedOutput()
	trimmed := strings.TrimSpace(string(out))

	if err != nil {
		result := results.NewStepResult(c.StepName(), c.ImplementerName(), types.StatusFailed)
		result.AddMessage(fmt.Sprintf("command failed: %v", err))
		if trimmed != "" {
			result.AddMessage(trimmed)
		}
		return result, nil
	}

	result := results.NewStepResult(c.StepName(), c.ImplementerName(), types.StatusSucceeded)
	if trimmed != "" {
		result.AddMessage(trimmed)
	}
	if outputName := opts.StringOr("output-name", ""); outputName != "" {
		result.AddOutput(outputName, lastLine(trimmed))
	}
	return result, nil
}

func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
