package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/conveyor/conveyor/pkg/results"
	"github.com/conveyor/conveyor/pkg/types"
	"github.com/google/uuid"
)

const defaultBuildStringLength = 7

// Semver implements the metadata step: it composes a semantic version
// from the configured application version plus a unique build string,
// and publishes both for downstream steps.
type Semver struct{}

// StepName returns the pipeline step this implementer fulfills
func (s *Semver) StepName() string { return "metadata" }

// ImplementerName returns the implementer identity for registry binding
func (s *Semver) ImplementerName() string { return "semver" }

// Execute composes the version outputs
func (s *Semver) Execute(ctx context.Context, opts types.Options, upstream results.Upstream) (*results.StepResult, error) {
	appVersion, ok := opts.String("app-version")
	if !ok || appVersion == "" {
		return nil, fmt.Errorf("app-version must be a non-empty string")
	}

	version := appVersion
	if pre := opts.StringOr("pre-release", ""); pre != "" {
		version = version + "-" + pre
	}

	length := intOption(opts, "build-string-length", defaultBuildStringLength)
	build := strings.ReplaceAll(uuid.NewString(), "-", "")
	if length > 0 && length < len(build) {
		build = build[:length]
	}

	result := results.NewStepResult(s.StepName(), s.ImplementerName(), types.StatusSucceeded)
	result.AddOutput("app-version", appVersion)
	result.AddOutput("version", version)
	result.AddOutput("build", build)
	result.AddOutput("semantic-version", version+"+"+build)
	result.AddMessage(fmt.Sprintf("generated version %s (build %s)", version, build))
	return result, nil
}

// intOption coerces a numeric option value, falling back when the
// option is absent or not a number.
func intOption(opts types.Options, name string, fallback int) int {
	switch v := opts[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}
