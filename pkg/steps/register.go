package steps

import (
	"github.com/conveyor/conveyor/pkg/interfaces"
	"github.com/conveyor/conveyor/pkg/registry"
	"github.com/conveyor/conveyor/pkg/types"
)

// RegisterBuiltins registers every built-in implementer with the given
// registry. It is called once during process initialization.
func RegisterBuiltins(r *registry.Registry) error {
	entries := []registry.Entry{
		{
			StepName:    "metadata",
			Implementer: "semver",
			Factory:     func() interfaces.Implementer { return &Semver{} },
			Defaults:    types.Options{"build-string-length": defaultBuildStringLength},
			Required:    []string{"app-version"},
			Optional:    []string{"pre-release", "build-string-length"},
		},
		{
			StepName:    "tag-source",
			Implementer: "git",
			Factory:     func() interfaces.Implementer { return &GitTag{} },
			Defaults:    types.Options{"tag-prefix": "v", "repo-root": "."},
			Optional:    []string{"tag-prefix", "repo-root"},
		},
		{
			StepName:    "package",
			Implementer: "archive",
			Factory:     func() interfaces.Implementer { return &Archive{} },
			Defaults:    types.Options{"source-dir": ".", "artifact-parent-dir": "dist"},
			Required:    []string{"application-name"},
			Optional:    []string{"source-dir", "artifact-parent-dir"},
		},
		{
			StepName:    "shell",
			Implementer: "command",
			Factory:     func() interfaces.Implementer { return &ShellCommand{} },
			Required:    []string{"command"},
			Optional:    []string{"working-dir", "output-name"},
		},
	}

	for _, e := range entries {
		if err := r.Register(e); err != nil {
			return err
		}
	}
	return nil
}
