package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/udes/udes-cli/internal/config"
	"github.com/udes/udes-cli/internal/polymer"
	"github.com/udes/udes-cli/internal/ui"
)

var validateBuildDir string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate polymer.json and udes.yaml",
	Long: `Validates the build root polymer.json against the JSON Schema udes relies on
to discover build variants, and checks udes.yaml when present.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateBuildDir, "buildDir", polymer.DefaultBuildDir, "Build output root holding polymer.json")
}

func runValidate(cmd *cobra.Command, args []string) error {
	dir, err := projectDir()
	if err != nil {
		return err
	}

	configPath := rootConfig
	if configPath == "" {
		configPath = filepath.Join(dir, config.FileName)
	}
	if _, err := os.Stat(configPath); err == nil || rootConfig != "" {
		if _, err := config.Load(configPath); err != nil {
			ui.Failure(os.Stdout, "%s is invalid", configPath)
			return err
		}
		ui.Success(os.Stdout, "%s is valid", configPath)
	}

	polymerPath := filepath.Join(dir, filepath.FromSlash(validateBuildDir), polymer.PolymerConfigFile)
	fmt.Printf("%s Validating %s...\n", ui.IconLint, polymerPath)

	data, err := os.ReadFile(polymerPath)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s not found, run polymer build first", polymerPath)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", polymerPath, err)
	}

	if err := polymer.ValidatePolymerConfig(polymerPath, data); err != nil {
		var schemaErr *polymer.SchemaError
		if errors.As(err, &schemaErr) {
			ui.Failure(os.Stdout, "%s has %d error(s):", polymerPath, len(schemaErr.Violations))
			for _, v := range schemaErr.Violations {
				fmt.Printf("  - %s\n", ui.ErrorStyle.Render(v))
			}
		}
		return err
	}

	names, err := polymer.ReadVariantNames(polymerPath)
	if err != nil {
		return err
	}
	ui.Success(os.Stdout, "%s is valid, builds: %v", polymerPath, names)
	return nil
}
