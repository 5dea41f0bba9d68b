package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/udes/udes-cli/internal/polymer"
	"github.com/udes/udes-cli/internal/shell"
	"github.com/udes/udes-cli/internal/ui"
)

var polymerBuildCmd = &cobra.Command{
	Use:   "polymer-build",
	Short: "Build a Polymer project for deployment",
	Long: `Build a Polymer project with 'polymer build', then post-process every build
variant directory:

  - rewrite <base href> to the deployment URL
  - inline and minify <script src="x.js" inline> and
    <link rel="stylesheet" href="x.css" inline>
  - dev: install .htaccess from htaccess.sample with the right RewriteBase
  - prod: remove index.php and publish _index.html as index.html

Flags override the polymerBuild section of udes.yaml.

Examples:
  udes polymer-build -u /app/                       # Build and post-process for /app/
  udes polymer-build -u /app/ --build=false         # Post-process an existing build
  udes polymer-build -u /~me/app/ --rewriteBuildDev # Dev deploy served from the build dir
  udes polymer-build -u /app/ -n bundled --dryRun   # Show the changes only`,
	Args: cobra.NoArgs,
	RunE: runPolymerBuild,
}

// polymerBuildFlags are forwarded to the resolver when set on the command line.
var polymerBuildFlags = []string{
	"baseURI", "rootURI", "buildNames", "buildDir", "addBuildDir", "addBuildName",
	"build", "dev", "rewriteBuildDev", "htaccessSample", "strictBaseHref",
	"failOnBuildError", "dryRun",
}

// polymerBuildAliases are legacy flag spellings.
var polymerBuildAliases = map[string]string{
	"buildName":          "buildNames",
	"copyHtaccessSample": "dev",
}

func init() {
	rootCmd.AddCommand(polymerBuildCmd)

	flags := polymerBuildCmd.Flags()
	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if canonical, ok := polymerBuildAliases[name]; ok {
			name = canonical
		}
		return pflag.NormalizedName(name)
	})

	flags.StringP("baseURI", "u", "", "Base URI of the deployment, e.g. /app/ or https://host/app/")
	flags.String("rootURI", "", "Legacy root URI, e.g. ~user/app")
	flags.StringSliceP("buildNames", "n", nil, "Build variants to process (default: polymer.json builds)")
	flags.String("buildDir", polymer.DefaultBuildDir, "Build output root")
	flags.Bool("addBuildDir", false, "Append the build dir to the base URL")
	flags.Bool("addBuildName", false, "Append the variant name to the base URL")
	flags.Bool("build", true, "Run 'polymer build' first")
	flags.Bool("dev", false, "Install .htaccess instead of finalizing for production")
	flags.Bool("rewriteBuildDev", false, "Dev mode with build dir and variant name in the base URL")
	flags.String("htaccessSample", polymer.DefaultHtaccessSample, "Rewrite-rules template used in dev mode")
	flags.Bool("strictBaseHref", false, "Fail when an entry document has no <base href>")
	flags.Bool("failOnBuildError", true, "Stop when 'polymer build' fails")
	flags.Bool("dryRun", false, "Log the changes as diffs without writing anything")
}

// changedBuildArgs collects the flags the user actually set.
func changedBuildArgs(flags *pflag.FlagSet) polymer.Args {
	args := polymer.Args{}
	for _, name := range polymerBuildFlags {
		if !flags.Changed(name) {
			continue
		}
		f := flags.Lookup(name)
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			args[name] = sv.GetSlice()
			continue
		}
		args[name] = f.Value.String()
	}
	return args
}

func runPolymerBuild(cmd *cobra.Command, args []string) error {
	dir, logger, project, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	buildArgs := project.ResolveBuildArgs(changedBuildArgs(cmd.Flags()))
	config, err := polymer.NewResolver(dir, logger).Resolve(buildArgs)
	if err != nil {
		return err
	}

	ui.Title(os.Stdout, ui.IconBuild, "Building %d variant(s) for %s (%s)", len(config.VariantNames), config.BaseURI, config.Mode)

	var opts []polymer.DriverOption
	if !rootVerbose && ui.IsInteractive(os.Stderr) {
		opts = append(opts, polymer.WithProgress(os.Stderr))
	}
	driver := polymer.NewDriver(config, shell.NewExecutor(dir), logger, opts...)

	report, err := driver.Run(cmd.Context())
	if err != nil {
		if len(report.Failed) > 0 {
			ui.Failure(os.Stdout, "%d of %d variant(s) failed", len(report.Failed), len(config.VariantNames))
		}
		return fmt.Errorf("polymer-build failed: %w", err)
	}

	for _, result := range report.Results {
		logger.Debugf("%s: %d base href(s), %d inlined asset(s)", result.Variant, result.BaseHrefReplacements, len(result.Inlined))
	}
	if config.DryRun {
		ui.Success(os.Stdout, "Dry run complete, nothing was written")
		return nil
	}
	ui.Success(os.Stdout, "Build ready for %s", config.BaseURI)
	return nil
}
