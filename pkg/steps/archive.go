package steps

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/conveyor/conveyor/pkg/results"
	"github.com/conveyor/conveyor/pkg/types"
)

// Archive implements the package step: it bundles a source directory
// into a versioned tar.gz artifact. The version comes from the
// metadata step's outputs.
type Archive struct{}

// StepName returns the pipeline step this implementer fulfills
func (a *Archive) StepName() string { return "package" }

// ImplementerName returns the implementer identity for registry binding
func (a *Archive) ImplementerName() string { return "archive" }

// Execute creates the archive artifact
func (a *Archive) Execute(ctx context.Context, opts types.Options, upstream results.Upstream) (*results.StepResult, error) {
	appName, ok := opts.String("application-name")
	if !ok || appName == "" {
		return nil, fmt.Errorf("application-name must be a non-empty string")
	}

	version, err := upstream.Output("metadata", "version")
	if err != nil {
		return nil, err
	}

	sourceDir := opts.StringOr("source-dir", ".")
	artifactDir := opts.StringOr("artifact-parent-dir", "dist")

	if err := os.MkdirAll(artifactDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	artifactPath := filepath.Join(artifactDir, fmt.Sprintf("%s-%s.tar.gz", appName, version))
	if err := writeArchive(ctx, sourceDir, artifactDir, artifactPath); err != nil {
		return nil, err
	}

	result := results.NewStepResult(a.StepName(), a.ImplementerName(), types.StatusSucceeded)
	result.AddOutput("artifact-file", artifactPath)
	result.AddArtifact("package", artifactPath)
	result.AddMessage(fmt.Sprintf("packaged %s into %s", sourceDir, artifactPath))
	return result, nil
}

// writeArchive tars sourceDir into artifactPath, skipping the artifact
// directory so the archive never recursively includes itself.
func writeArchive(ctx context.Context, sourceDir, artifactDir, artifactPath string) error {
	out, err := os.Create(artifactPath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	defer gz.Close()

	tw := tar.NewWriter(gz)
	defer tw.Close()

	absArtifactDir, err := filepath.Abs(artifactDir)
	if err != nil {
		return err
	}

	return filepath.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if abs == absArtifactDir || strings.HasPrefix(abs, absArtifactDir+string(os.PathSeparator)) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(header); err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(tw, file)
		return err
	})
}
