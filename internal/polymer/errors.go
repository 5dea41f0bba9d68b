package polymer

import "fmt"

// ConfigError reports a missing or malformed build argument.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Reason)
}

// FileNotFoundError reports an expected input file that is absent.
type FileNotFoundError struct {
	Path string
	Err  error
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file %s not found", e.Path)
}

func (e *FileNotFoundError) Unwrap() error {
	return e.Err
}

// ModificationError reports a required substitution that matched nothing.
type ModificationError struct {
	Path    string
	Pattern string
}

func (e *ModificationError) Error() string {
	return fmt.Sprintf("%s not modified: no match for %s", e.Path, e.Pattern)
}

// VariantError attributes a post-processing failure to a build variant and
// the operation that failed.
type VariantError struct {
	Variant string
	Op      string
	Err     error
}

func (e *VariantError) Error() string {
	return fmt.Sprintf("variant %q: %s: %v", e.Variant, e.Op, e.Err)
}

func (e *VariantError) Unwrap() error {
	return e.Err
}
