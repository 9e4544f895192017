package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/conveyor/conveyor/pkg/config"
	"github.com/conveyor/conveyor/pkg/logger"
	"github.com/conveyor/conveyor/pkg/notifier"
	"github.com/conveyor/conveyor/pkg/registry"
	"github.com/conveyor/conveyor/pkg/report"
	"github.com/conveyor/conveyor/pkg/runner"
	"github.com/conveyor/conveyor/pkg/steps"
	"github.com/conveyor/conveyor/pkg/store"
	"github.com/conveyor/conveyor/pkg/types"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var force bool
	var notify bool
	var overrides []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the configured pipeline",
		Long: `Execute every configured step in declared order. Steps already
recorded as succeeded in the results file are skipped unless --force is
given. The pipeline halts at the first failed step.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, force, notify, overrides)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "re-execute steps already recorded as succeeded")
	cmd.Flags().BoolVar(&notify, "notify", false, "send a desktop notification when the run finishes")
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "runtime step option override (key=value, repeatable)")

	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show results of the last pipeline run",
		Long:  `Display the recorded result of every executed step from the results file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the pipeline configuration",
		Long: `Check that the configuration file parses, that every step resolves to
a registered implementer, and that all required options are present.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate()
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured steps and registered implementers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of conveyor",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("conveyor v%s\n", version)
		},
	}
}

// Implementation functions

func runPipeline(cmd *cobra.Command, force, notify bool, overrides []string) error {
	log := logger.CreateLogger("", verbosity)

	reg := registry.New()
	if err := steps.RegisterBuiltins(reg); err != nil {
		return fmt.Errorf("failed to register implementers: %w", err)
	}

	mgr := config.NewManager()
	doc, err := mgr.LoadDocument(getConfigPath())
	if err != nil {
		return err
	}

	runtimeOverrides, err := parseOverrides(overrides)
	if err != nil {
		return err
	}

	resolved, err := mgr.Resolve(doc, environment, runtimeOverrides, reg)
	if err != nil {
		return err
	}

	ntf := notifier.New(notifier.Config{Enabled: notify, Pipeline: getConfigPath()}, log)
	run := runner.New(reg, store.New(resultsFile), ntf, log)

	workflow, runErr := run.Run(cmd.Context(), resolved, runner.Options{Force: force})
	if workflow != nil {
		fmt.Println()
		report.Render(os.Stdout, workflow)
	}
	return runErr
}

func runStatus() error {
	workflow, err := store.New(resultsFile).Load()
	if err != nil {
		return err
	}
	if workflow == nil {
		printWarning(fmt.Sprintf("No results found at %s. Run 'conveyor run' first.", resultsFile))
		return nil
	}

	report.Render(os.Stdout, workflow)
	return nil
}

func runValidate() error {
	reg := registry.New()
	if err := steps.RegisterBuiltins(reg); err != nil {
		return err
	}

	mgr := config.NewManager()
	doc, err := mgr.LoadDocument(getConfigPath())
	if err != nil {
		printError(fmt.Sprintf("Configuration is invalid: %v", err))
		return err
	}

	resolved, err := mgr.Resolve(doc, environment, nil, reg)
	if err != nil {
		printError(fmt.Sprintf("Configuration is invalid: %v", err))
		return err
	}

	var problems []string
	for _, step := range resolved {
		entry, err := reg.Resolve(step.Name, step.Implementer)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		if err := entry.Validate(step.Options); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		printError("Configuration has errors:")
		for _, p := range problems {
			fmt.Printf("  ✗ %s\n", p)
		}
		return fmt.Errorf("configuration has %d error(s)", len(problems))
	}

	printSuccess("Configuration is valid")
	return nil
}

func runList() error {
	reg := registry.New()
	if err := steps.RegisterBuiltins(reg); err != nil {
		return err
	}

	mgr := config.NewManager()
	doc, err := mgr.LoadDocument(getConfigPath())
	if err == nil {
		printInfo("Configured steps:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tIMPLEMENTER\tOPTIONS")
		fmt.Fprintln(w, "----\t-----------\t-------")
		for _, step := range doc.Steps {
			fmt.Fprintf(w, "%s\t%s\t%d\n", step.Name, step.Implementer, len(step.Options))
		}
		w.Flush()
		fmt.Println()
	}

	printInfo("Registered implementers:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tIMPLEMENTER\tREQUIRED\tOPTIONAL")
	fmt.Fprintln(w, "----\t-----------\t--------\t--------")
	for _, e := range reg.Entries() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.StepName,
			e.Implementer,
			strings.Join(e.Required, ","),
			strings.Join(e.Optional, ","),
		)
	}
	w.Flush()
	return nil
}

// parseOverrides turns repeated key=value flags into runtime override
// options, the highest-precedence configuration source.
func parseOverrides(pairs []string) (types.Options, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	opts := make(types.Options, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid override %q: expected key=value", pair)
		}
		opts[key] = value
	}
	return opts, nil
}
