package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/udes/udes-cli/internal/config"
	"github.com/udes/udes-cli/internal/logging"
)

// projectDir returns the directory udes operates on.
func projectDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return dir, nil
}

// newLogger builds the command logger honoring --verbose.
func newLogger() (*zap.SugaredLogger, error) {
	logger, err := logging.New(rootVerbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// loadProjectConfig reads --config, or udes.yaml from dir when present.
func loadProjectConfig(dir string) (*config.Resolver, error) {
	if rootConfig != "" {
		c, err := config.Load(rootConfig)
		if err != nil {
			return nil, err
		}
		return config.NewResolver(c), nil
	}

	c, err := config.LoadOptional(filepath.Join(dir, config.FileName))
	if err != nil {
		return nil, err
	}
	return config.NewResolver(c), nil
}

// setup gathers what every command needs: project dir, logger and config.
func setup() (string, *zap.SugaredLogger, *config.Resolver, error) {
	dir, err := projectDir()
	if err != nil {
		return "", nil, nil, err
	}
	logger, err := newLogger()
	if err != nil {
		return "", nil, nil, err
	}
	resolver, err := loadProjectConfig(dir)
	if err != nil {
		return "", nil, nil, err
	}
	return dir, logger, resolver, nil
}
