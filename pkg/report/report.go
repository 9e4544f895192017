// Package report renders workflow results for human consumption
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/conveyor/conveyor/pkg/results"
	"github.com/conveyor/conveyor/pkg/types"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

const maxOutputsWidth = 60

// Render writes a tabular summary of the workflow record: one row per
// executed step, in execution order. Column ordering is stable (step,
// implementer, status, then timing and outputs) but the format is not a
// machine contract.
func Render(out io.Writer, workflow *results.WorkflowResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tIMPLEMENTER\tSTATUS\tDURATION\tFINISHED\tOUTPUTS")
	fmt.Fprintln(w, "----\t-----------\t------\t--------\t--------\t-------")

	for _, r := range workflow.Results() {
		duration := "-"
		if d := r.Duration(); d > 0 {
			duration = d.Round(time.Millisecond).String()
		}

		finished := "-"
		if !r.FinishedAt.IsZero() {
			finished = humanize.Time(r.FinishedAt)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.StepName,
			r.Implementer,
			colorStatus(r.Status),
			duration,
			finished,
			formatOutputs(r.Outputs),
		)
	}

	w.Flush()
	fmt.Fprintf(out, "\nRun %s: %s\n", workflow.RunID(), colorStatus(workflow.Status()))
}

func colorStatus(status types.Status) string {
	switch status {
	case types.StatusSucceeded:
		return color.GreenString(string(status))
	case types.StatusFailed:
		return color.RedString(string(status))
	case types.StatusRunning:
		return color.YellowString(string(status))
	default:
		return color.WhiteString(string(status))
	}
}

// formatOutputs renders outputs as sorted key=value pairs, truncated to
// keep the table readable.
func formatOutputs(outputs map[string]string) string {
	if len(outputs) == 0 {
		return "-"
	}

	keys := make([]string, 0, len(outputs))
	for k := range outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, outputs[k]))
	}

	joined := strings.Join(pairs, " ")
	if len(joined) > maxOutputsWidth {
		joined = joined[:maxOutputsWidth-3] + "..."
	}
	return joined
}
