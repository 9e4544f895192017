package report_test

import (
	"strings"
	"testing"
	"time"

	"github.com/conveyor/conveyor/pkg/report"
	"github.com/conveyor/conveyor/pkg/results"
	"github.com/conveyor/conveyor/pkg/types"
	"github.com/fatih/color"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func renderWorkflow(w *results.WorkflowResult) string {
	var sb strings.Builder
	report.Render(&sb, w)
	return sb.String()
}

func TestRender_RowPerStepInExecutionOrder(t *testing.T) {
	w := results.NewWorkflowResult()
	w.SetStatus(types.StatusSucceeded)

	started := time.Now().Add(-time.Minute)
	for _, pair := range [][2]string{
		{"metadata", "semver"},
		{"tag-source", "git"},
		{"package", "archive"},
	} {
		r := results.NewStepResult(pair[0], pair[1], types.StatusSucceeded)
		r.StartedAt = started
		r.FinishedAt = started.Add(2 * time.Second)
		w.Record(r)
	}

	out := renderWorkflow(w)
	lines := strings.Split(strings.TrimSpace(out), "\n")

	if !strings.HasPrefix(lines[0], "STEP") {
		t.Errorf("header = %q", lines[0])
	}
	for _, col := range []string{"IMPLEMENTER", "STATUS", "DURATION", "FINISHED", "OUTPUTS"} {
		if !strings.Contains(lines[0], col) {
			t.Errorf("header missing column %q: %q", col, lines[0])
		}
	}

	// Rows follow execution order after header and separator.
	rows := lines[2:5]
	for i, name := range []string{"metadata", "tag-source", "package"} {
		if !strings.HasPrefix(strings.TrimSpace(rows[i]), name) {
			t.Errorf("row %d = %q, want step %q first", i, rows[i], name)
		}
	}

	if !strings.Contains(out, "Run "+w.RunID()+": succeeded") {
		t.Errorf("missing run summary line in:\n%s", out)
	}
}

func TestRender_Outputs(t *testing.T) {
	w := results.NewWorkflowResult()

	r := results.NewStepResult("metadata", "semver", types.StatusSucceeded)
	r.AddOutput("version", "1.2.3")
	r.AddOutput("build", "f3a91c2")
	w.Record(r)

	out := renderWorkflow(w)
	if !strings.Contains(out, "build=f3a91c2 version=1.2.3") {
		t.Errorf("outputs not rendered sorted key=value:\n%s", out)
	}
}

func TestRender_TruncatesLongOutputs(t *testing.T) {
	w := results.NewWorkflowResult()

	r := results.NewStepResult("package", "archive", types.StatusSucceeded)
	r.AddOutput("artifact-file", strings.Repeat("x", 200))
	w.Record(r)

	out := renderWorkflow(w)
	if !strings.Contains(out, "...") {
		t.Errorf("long outputs not truncated:\n%s", out)
	}
	if strings.Contains(out, strings.Repeat("x", 100)) {
		t.Errorf("full output value leaked into table:\n%s", out)
	}
}

func TestRender_PlaceholdersWithoutTimestamps(t *testing.T) {
	w := results.NewWorkflowResult()
	w.SetStatus(types.StatusFailed)
	w.Record(results.NewStepResult("scan", "sonarqube", types.StatusFailed))

	out := renderWorkflow(w)
	lines := strings.Split(out, "\n")

	var row string
	for _, line := range lines {
		if strings.HasPrefix(line, "scan") {
			row = line
			break
		}
	}
	if row == "" {
		t.Fatalf("no row for scan step in:\n%s", out)
	}
	if !strings.Contains(row, "-") {
		t.Errorf("missing placeholder for absent timing: %q", row)
	}
	if !strings.Contains(row, "failed") {
		t.Errorf("missing status: %q", row)
	}
}
