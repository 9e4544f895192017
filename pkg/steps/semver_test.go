package steps_test

import (
	"context"
	"testing"

	"github.com/conveyor/conveyor/pkg/results"
	"github.com/conveyor/conveyor/pkg/steps"
	"github.com/conveyor/conveyor/pkg/types"
)

func TestSemver_Execute(t *testing.T) {
	impl := &steps.Semver{}
	upstream := results.NewWorkflowResult()

	result, err := impl.Execute(context.Background(), types.Options{
		"app-version": "1.2.3",
	}, upstream)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !result.Succeeded() {
		t.Fatalf("result status = %q", result.Status)
	}

	if got := result.Outputs["app-version"]; got != "1.2.3" {
		t.Errorf("app-version = %q", got)
	}
	if got := result.Outputs["version"]; got != "1.2.3" {
		t.Errorf("version = %q", got)
	}

	build := result.Outputs["build"]
	if len(build) != 7 {
		t.Errorf("build = %q, want default length 7", build)
	}
	if got := result.Outputs["semantic-version"]; got != "1.2.3+"+build {
		t.Errorf("semantic-version = %q", got)
	}
}

func TestSemver_PreRelease(t *testing.T) {
	impl := &steps.Semver{}

	result, err := impl.Execute(context.Background(), types.Options{
		"app-version": "2.0.0",
		"pre-release": "rc.1",
	}, results.NewWorkflowResult())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := result.Outputs["version"]; got != "2.0.0-rc.1" {
		t.Errorf("version = %q, want 2.0.0-rc.1", got)
	}
}

func TestSemver_BuildStringLength(t *testing.T) {
	impl := &steps.Semver{}

	tests := []struct {
		name   string
		length any
		want   int
	}{
		{"explicit int", 12, 12},
		{"yaml float", float64(4), 4},
		{"longer than uuid caps at uuid length", 100, 32},
		{"non-numeric falls back", "wide", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := impl.Execute(context.Background(), types.Options{
				"app-version":         "1.0.0",
				"build-string-length": tt.length,
			}, results.NewWorkflowResult())
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if got := len(result.Outputs["build"]); got != tt.want {
				t.Errorf("build length = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSemver_MissingAppVersion(t *testing.T) {
	impl := &steps.Semver{}

	if _, err := impl.Execute(context.Background(), types.Options{}, results.NewWorkflowResult()); err == nil {
		t.Error("Execute() = nil, want error for missing app-version")
	}
	if _, err := impl.Execute(context.Background(), types.Options{"app-version": 123}, results.NewWorkflowResult()); err == nil {
		t.Error("Execute() = nil, want error for non-string app-version")
	}
}
