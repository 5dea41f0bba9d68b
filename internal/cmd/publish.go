package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/udes/udes-cli/internal/publish"
	"github.com/udes/udes-cli/internal/shell"
	"github.com/udes/udes-cli/internal/ui"
)

var (
	publishType string
	publishNPM  bool
	publishYes  bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Release a new version of an npm package",
	Long: `Release a new version of the package in the current directory:

  1. run the lint, audit and test npm scripts when defined
  2. update the release branch and install dependencies
  3. npm version <type>, then push a bump-version branch and a tag
  4. with --npm, build and npm publish
  5. refresh the documentation branch when a documentation script exists

Release types: major, minor, patch, premajor, preminor, prepatch, prerelease.

Examples:
  udes publish --type patch          # Bump the patch version
  udes publish -t minor --npm --yes  # Release to npm without prompting`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
	publishCmd.Flags().StringVarP(&publishType, "type", "t", "", "Release type (prompted when omitted in a terminal)")
	publishCmd.Flags().BoolVar(&publishNPM, "npm", false, "Publish the package to npm")
	publishCmd.Flags().BoolVarP(&publishYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runPublish(cmd *cobra.Command, args []string) error {
	releaseType, err := resolveReleaseType()
	if err != nil {
		return err
	}

	dir, logger, project, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	settings := project.Publish()
	publisher, err := publish.NewPublisher(dir, shell.NewExecutor(dir), logger, publish.Options{
		Type:       releaseType,
		NPM:        project.ResolvePublishNPM(publishNPM),
		Branch:     settings.Branch,
		DocsBranch: settings.DocsBranch,
		Remote:     settings.Remote,
	})
	if err != nil {
		return err
	}

	if !publishYes {
		if !ui.IsInteractive(os.Stdin) {
			return errors.New("refusing to publish without confirmation, use --yes")
		}
		ok, err := ui.AskConfirm(fmt.Sprintf("Publish a %s release?", releaseType), false, publisher.Plan()...)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Publish aborted")
			return nil
		}
	}

	info, err := publisher.Run(cmd.Context())
	if err != nil {
		return err
	}
	ui.Success(os.Stdout, "%s Published %s@%s successfully", ui.IconPackage, info.Name, info.Version)
	return nil
}

func resolveReleaseType() (publish.ReleaseType, error) {
	if publishType != "" {
		return publish.ParseReleaseType(publishType)
	}
	if !ui.IsInteractive(os.Stdin) {
		return "", errors.New("please provide --type argument to publish")
	}

	choices := make([]ui.Choice, 0, len(publish.ReleaseTypes))
	for _, t := range publish.ReleaseTypes {
		choices = append(choices, ui.Choice{Value: string(t), Description: releaseDescriptions[t]})
	}
	value, err := ui.AskSelect("Release type", choices)
	if err != nil {
		return "", err
	}
	return publish.ParseReleaseType(value)
}

var releaseDescriptions = map[publish.ReleaseType]string{
	publish.ReleaseMajor:      "1.2.3 → 2.0.0",
	publish.ReleaseMinor:      "1.2.3 → 1.3.0",
	publish.ReleasePatch:      "1.2.3 → 1.2.4",
	publish.ReleasePremajor:   "1.2.3 → 2.0.0-0",
	publish.ReleasePreminor:   "1.2.3 → 1.3.0-0",
	publish.ReleasePrepatch:   "1.2.3 → 1.2.4-0",
	publish.ReleasePrerelease: "1.2.3 → 1.2.4-0, 1.2.4-0 → 1.2.4-1",
}
