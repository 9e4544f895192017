package steps_test

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/conveyor/conveyor/pkg/results"
	"github.com/conveyor/conveyor/pkg/steps"
	"github.com/conveyor/conveyor/pkg/types"
)

func initGitRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v: %s", args, err, out)
		}
	}

	run("init")
	run("commit", "--allow-empty", "-m", "initial")
	return dir
}

func TestGitTag_Execute(t *testing.T) {
	repo := initGitRepo(t)

	impl := &steps.GitTag{}
	result, err := impl.Execute(context.Background(), types.Options{
		"repo-root":  repo,
		"tag-prefix": "v",
	}, upstreamWithVersion(t, "1.2.3"))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !result.Succeeded() {
		t.Fatalf("result status = %q, messages = %v", result.Status, result.Messages)
	}
	if got := result.Outputs["tag"]; got != "v1.2.3" {
		t.Errorf("tag output = %q, want v1.2.3", got)
	}

	cmd := exec.Command("git", "tag", "--list")
	cmd.Dir = repo
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git tag --list failed: %v", err)
	}
	if !strings.Contains(string(out), "v1.2.3") {
		t.Errorf("repository tags = %q, want v1.2.3", out)
	}
}

func TestGitTag_DuplicateTagFails(t *testing.T) {
	repo := initGitRepo(t)
	impl := &steps.GitTag{}
	upstream := upstreamWithVersion(t, "1.0.0")
	opts := types.Options{"repo-root": repo, "tag-prefix": "v"}

	first, err := impl.Execute(context.Background(), opts, upstream)
	if err != nil || !first.Succeeded() {
		t.Fatalf("first Execute() = %v, %v", first, err)
	}

	second, err := impl.Execute(context.Background(), opts, upstream)
	if err != nil {
		t.Fatalf("second Execute() error = %v, want failure captured in result", err)
	}
	if second.Succeeded() {
		t.Fatal("duplicate tag reported success")
	}
	if len(second.Messages) == 0 || !strings.Contains(second.Messages[0], "v1.0.0") {
		t.Errorf("failure messages = %v", second.Messages)
	}
}

func TestGitTag_MissingUpstreamVersion(t *testing.T) {
	impl := &steps.GitTag{}

	if _, err := impl.Execute(context.Background(), types.Options{}, results.NewWorkflowResult()); err == nil {
		t.Error("Execute() = nil, want error when metadata never ran")
	}
}
