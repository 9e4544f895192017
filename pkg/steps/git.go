package steps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/conveyor/conveyor/pkg/results"
	"github.com/conveyor/conveyor/pkg/types"
)

// GitTag implements the tag-source step: it tags the source repository
// with the version produced by the metadata step.
type GitTag struct{}

// StepName returns the pipeline step this implementer fulfills
func (g *GitTag) StepName() string { return "tag-source" }

// ImplementerName returns the implementer identity for registry binding
func (g *GitTag) ImplementerName() string { return "git" }

// Execute creates the tag in the configured repository
func (g *GitTag) Execute(ctx context.Context, opts types.Options, upstream results.Upstream) (*results.StepResult, error) {
	version, err := upstream.Output("metadata", "version")
	if err != nil {
		return nil, err
	}

	tag := opts.StringOr("tag-prefix", "v") + version
	repoRoot := opts.StringOr("repo-root", ".")

	cmd := exec.CommandContext(ctx, "git", "tag", tag)
	cmd.Dir = repoRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		result := results.NewStepResult(g.StepName(), g.ImplementerName(), types.StatusFailed)
		result.AddMessage(fmt.Sprintf("git tag %s failed: %v: %s", tag, err, strings.TrimSpace(string(out))))
		return result, nil
	}

	result := results.NewStepResult(g.StepName(), g.ImplementerName(), types.StatusSucceeded)
	result.AddOutput("tag", tag)
	result.AddMessage(fmt.Sprintf("tagged source as %s", tag))
	return result, nil
}
