package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/udes/udes-cli/internal/lint"
	"github.com/udes/udes-cli/internal/shell"
	"github.com/udes/udes-cli/internal/ui"
	"github.com/udes/udes-cli/internal/watch"
)

var (
	lintHTML     bool
	lintJS       bool
	lintPolymer  bool
	lintWatch    bool
	lintDebounce time.Duration
)

var lintCmd = &cobra.Command{
	Use:   "lint [path]",
	Short: "Lint project sources",
	Long: `Lint HTML with htmlhint, JavaScript and JSON with eslint, and the project
with polymer lint. A tool only runs when its config file exists
(.htmlhintrc.json, .eslintrc.js, polymer.json).

If no flags are specified, all available tools are used.

Examples:
  udes lint src            # Lint everything under src
  udes lint src --js       # eslint only
  udes lint src --watch    # Lint again on every change`,
	Args: cobra.MaximumNArgs(1),
	RunE: lintRunner(lint.KindLint),
}

var formatCmd = &cobra.Command{
	Use:   "format [path]",
	Short: "Fix lint issues in project sources",
	Long: `Fix HTML, JavaScript and JSON with eslint --fix and the project with
polymer lint --fix. A tool only runs when its config file exists.

If no flags are specified, all available tools are used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: lintRunner(lint.KindFormat),
}

func init() {
	for _, c := range []*cobra.Command{lintCmd, formatCmd} {
		rootCmd.AddCommand(c)
		c.Flags().BoolVar(&lintHTML, "html", false, "HTML files")
		c.Flags().BoolVar(&lintJS, "js", false, "JavaScript and JSON files")
		c.Flags().BoolVarP(&lintPolymer, "polymer", "p", false, "Polymer project")
		c.Flags().BoolVarP(&lintWatch, "watch", "w", false, "Run again when files change")
		c.Flags().DurationVar(&lintDebounce, "debounce", 0, "Quiet period before re-running in watch mode (default from udes.yaml, 300ms)")
	}
}

func lintRunner(kind lint.Kind) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		dir, logger, project, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		var path string
		if len(args) > 0 {
			path = args[0]
		}
		target := lint.Lintable{
			Kind:    kind,
			Path:    project.ResolveLintPath(path),
			HTML:    lintHTML,
			JS:      lintJS,
			Polymer: lintPolymer,
		}
		linter := lint.NewLinter(dir, shell.NewExecutor(dir), logger)

		run := func(ctx context.Context, _ []string) error {
			ui.Title(os.Stdout, ui.IconLint, "%s %s", kind, target.Path)
			if err := linter.Run(ctx, target); err != nil {
				return err
			}
			ui.Success(os.Stdout, "%s passed", kind)
			return nil
		}

		err = run(cmd.Context(), nil)
		if !lintWatch {
			return err
		}
		if err != nil {
			ui.Failure(os.Stdout, "%v", err)
		}

		watchDir := target.Path
		if !filepath.IsAbs(watchDir) {
			watchDir = filepath.Join(dir, watchDir)
		}
		wc := watch.DefaultConfig(watchDir)
		wc.Debounce = project.ResolveDebounce(lintDebounce)
		wc.Ignore = project.ResolveIgnore()

		w, err := watch.New(wc, logger)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", watchDir, err)
		}
		ui.Title(os.Stdout, ui.IconWatch, "Watching %s (Ctrl-C to stop)", watchDir)
		return w.Loop(cmd.Context(), run)
	}
}
