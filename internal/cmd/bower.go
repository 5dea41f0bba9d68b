package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/udes/udes-cli/internal/bower"
	"github.com/udes/udes-cli/internal/shell"
)

var bowerCmd = &cobra.Command{
	Use:   "bower <command> [package...] [-- options...]",
	Short: "Execute bower and bower-locker tasks",
	Long: fmt.Sprintf(`Execute bower and bower-locker tasks.

install, uninstall and update unlock bower.json with bower-locker, run bower
and lock it again. The other commands run bower-locker directly.

Commands: %s

Examples:
  udes bower install                         # Install locked dependencies
  udes bower install paper-button -- --save  # Add a dependency
  udes bower status                          # Show lock status`, strings.Join(bower.CommandNames(), ", ")),
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: bower.CommandNames(),
	RunE:      runBower,
}

func init() {
	rootCmd.AddCommand(bowerCmd)
}

func runBower(cmd *cobra.Command, args []string) error {
	req, err := bower.ParseArgs(args[0], args[1:])
	if err != nil {
		return err
	}

	dir, logger, _, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return bower.NewRunner(shell.NewExecutor(dir), logger).Run(cmd.Context(), req)
}
