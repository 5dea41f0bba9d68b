package polymer

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/polymer.schema.json
var schemaFS embed.FS

// polymerConfig is the part of polymer.json udes reads.
type polymerConfig struct {
	Builds []struct {
		Name   string `json:"name"`
		Preset string `json:"preset"`
	} `json:"builds"`
}

// SchemaError lists the violations found in a polymer.json document.
type SchemaError struct {
	Path       string
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s is invalid: %s", e.Path, strings.Join(e.Violations, "; "))
}

// ValidatePolymerConfig checks a polymer.json document against the embedded
// schema.
func ValidatePolymerConfig(path string, data []byte) error {
	schemaBytes, err := schemaFS.ReadFile("schemas/polymer.schema.json")
	if err != nil {
		return fmt.Errorf("failed to load JSON schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return &SchemaError{Path: path, Violations: violations}
}

// ReadVariantNames returns the build names declared in a polymer.json file.
// Each build is named by its name, or its preset when the name is absent.
func ReadVariantNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := ValidatePolymerConfig(path, data); err != nil {
		return nil, err
	}

	var config polymerConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	names := make([]string, 0, len(config.Builds))
	for _, build := range config.Builds {
		name := build.Name
		if name == "" {
			name = build.Preset
		}
		names = append(names, name)
	}
	return names, nil
}
