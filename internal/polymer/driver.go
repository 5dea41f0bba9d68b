package polymer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/udes/udes-cli/internal/logging"
	"github.com/udes/udes-cli/internal/shell"
)

// ExternalBuilder is the command that produces the variant directories.
var ExternalBuilder = []string{"polymer", "build"}

// Report summarizes a driver run.
type Report struct {
	Built     bool
	Results   []*Result
	Failed    []string
	BuildErr  error
	Processed int
}

// Succeeded reports whether every variant was post-processed.
func (r *Report) Succeeded() bool {
	return len(r.Failed) == 0 && r.BuildErr == nil
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithProgress renders a progress bar over the variants on w.
func WithProgress(w io.Writer) DriverOption {
	return func(d *Driver) {
		d.progress = w
	}
}

// Driver runs the optional external build and post-processes every variant,
// one after the other.
type Driver struct {
	config    *BuildConfig
	runner    shell.Runner
	processor *PostProcessor
	logger    logging.Logger
	progress  io.Writer
}

// NewDriver creates a driver for config. runner executes the external build.
func NewDriver(config *BuildConfig, runner shell.Runner, logger logging.Logger, opts ...DriverOption) *Driver {
	if logger == nil {
		logger = logging.Nop()
	}
	d := &Driver{
		config:    config,
		runner:    runner,
		processor: NewPostProcessor(config, logger),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes the pipeline. Variant failures do not stop the run; they are
// joined into the returned error once every variant has been attempted.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	if err := d.build(ctx, report); err != nil {
		return report, err
	}

	bar := d.newProgressBar()
	var errs []error
	for _, variant := range d.config.VariantNames {
		if bar != nil {
			bar.Describe(variant)
		}

		result, err := d.processor.Process(variant)
		report.Processed++
		if err != nil {
			d.logger.Errorf("%v", err)
			report.Failed = append(report.Failed, variant)
			errs = append(errs, err)
		} else {
			report.Results = append(report.Results, result)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if len(errs) > 0 {
		return report, errors.Join(errs...)
	}
	return report, nil
}

func (d *Driver) build(ctx context.Context, report *Report) error {
	if !d.config.InvokeExternalBuilder {
		return nil
	}
	if d.config.DryRun {
		d.logger.Infof("Dry run: skipping %s", shell.CommandLine(ExternalBuilder[0], ExternalBuilder[1:]...))
		return nil
	}

	d.logger.Infof("Building Polymer project...")
	err := d.runner.Run(ctx, ExternalBuilder[0], ExternalBuilder[1:]...)
	if err == nil {
		report.Built = true
		return nil
	}

	report.BuildErr = err
	if d.config.FailOnBuildError {
		return fmt.Errorf("external build failed: %w", err)
	}
	d.logger.Warnf("External build failed, post-processing existing output: %v", err)
	return nil
}

func (d *Driver) newProgressBar() *progressbar.ProgressBar {
	if d.progress == nil || len(d.config.VariantNames) == 0 {
		return nil
	}
	return progressbar.NewOptions(len(d.config.VariantNames),
		progressbar.OptionSetWriter(d.progress),
		progressbar.OptionSetDescription("Post-processing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(d.progress, "\n")
		}),
	)
}
