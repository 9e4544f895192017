// Package cli provides the command-line interface for conveyor
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	resultsFile string
	environment string
	verbosity   string
	version     string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "conveyor",
	Short: "Pipeline runner for software supply chain workflows",
	Long: `Conveyor executes declarative supply-chain pipelines: an ordered
sequence of named steps (tagging, packaging, image builds, deployment),
each resolved to a pluggable implementer. Results of every step are
persisted as they complete, so interrupted runs can be resumed.`,

	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("conveyor v%s\n", version)
			return
		}
		// If no subcommand, show help
		cmd.Help()
	},
}

// Execute runs the CLI
func Execute(v string) error {
	version = v

	// Initialize the root command explicitly (avoiding init())
	initializeRootCommand()

	return rootCmd.Execute()
}

// initializeRootCommand sets up the root command and its flags.
func initializeRootCommand() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "pipeline configuration file (default: conveyor.yaml)")
	rootCmd.PersistentFlags().StringVarP(&resultsFile, "results", "r", filepath.Join(".conveyor", "results.yaml"), "results file destination")
	rootCmd.PersistentFlags().StringVarP(&environment, "environment", "e", "", "environment to resolve step configuration against")
	rootCmd.PersistentFlags().StringVarP(&verbosity, "verbosity", "v", "info", "log level (debug, info, warn, error)")

	rootCmd.Flags().Bool("version", false, "Print version information and quit")

	// Add subcommands
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("conveyor")
		viper.SetConfigType("yaml")
	}

	// Read in environment variables
	viper.SetEnvPrefix("CONVEYOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if verbosity == "debug" {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}

// Helper functions

func printSuccess(message string) {
	fmt.Printf("%s %s\n", color.GreenString("[conveyor]"), message)
}

func printError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("[conveyor]"), message)
}

func printInfo(message string) {
	fmt.Printf("%s %s\n", color.CyanString("[conveyor]"), message)
}

func printWarning(message string) {
	fmt.Printf("%s %s\n", color.YellowString("[conveyor]"), message)
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "conveyor.yaml"
}
