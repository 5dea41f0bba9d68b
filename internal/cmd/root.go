package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	rootVerbose bool
	rootConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "udes",
	Short: "udes - front-end project task runner",
	Long: `udes orchestrates the day-to-day tasks of Polymer web-component projects.

It builds and post-processes Polymer builds for deployment, manages bower
dependencies, lints and formats sources, and publishes npm packages.
The heavy lifting is done by polymer-cli, bower, eslint, htmlhint, npm and git.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. Cancelling ctx terminates running subprocesses.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Show debug output")
	rootCmd.PersistentFlags().StringVar(&rootConfig, "config", "", "Path of the project file (default ./udes.yaml)")
}
