package usecase

import (
	"errors"
	"fmt"
	"io/fs"
)

// LoadErrorKind classifies a schema load failure.
type LoadErrorKind string

const (
	LoadErrorNotFound LoadErrorKind = "not_found"
	LoadErrorParse    LoadErrorKind = "parse"
	LoadErrorRead     LoadErrorKind = "read"
)

// LoadError is returned when a schema document cannot be read or parsed.
type LoadError struct {
	// Path is the schema file.
	Path string
	// Kind tells the failures apart.
	Kind LoadErrorKind
	// Format is "yaml" or "json" for parse failures.
	Format string
	// Cause is the underlying error, e.g. the decoder's syntax diagnostic.
	Cause error
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case LoadErrorNotFound:
		return fmt.Sprintf("schema file not found: %s", e.Path)
	case LoadErrorParse:
		return fmt.Sprintf("error parsing %s schema %s: %v", formatLabel(e.Format), e.Path, e.Cause)
	default:
		return fmt.Sprintf("error loading schema %s: %v", e.Path, e.Cause)
	}
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Is matches the sentinel for the error's kind.
func (e *LoadError) Is(target error) bool {
	switch target {
	case ErrSchemaNotFound:
		return e.Kind == LoadErrorNotFound
	case ErrParse:
		return e.Kind == LoadErrorParse
	case ErrIO:
		return e.Kind == LoadErrorRead
	}
	return false
}

func formatLabel(format string) string {
	switch format {
	case "yaml":
		return "YAML"
	case "json":
		return "JSON"
	default:
		return format
	}
}

// NewReadError classifies an error returned while reading a schema file.
func NewReadError(path string, err error) *LoadError {
	kind := LoadErrorRead
	if errors.Is(err, fs.ErrNotExist) {
		kind = LoadErrorNotFound
	}
	return &LoadError{Path: path, Kind: kind, Cause: err}
}

// ScanError is returned when the source tree cannot be fully read.
// A scan that fails is abandoned entirely.
type ScanError struct {
	// Path is the file or directory that could not be read.
	Path string
	Cause error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("error finding endpoints in %s: %v", e.Path, e.Cause)
}

func (e *ScanError) Unwrap() error { return e.Cause }

func (e *ScanError) Is(target error) bool { return target == ErrIO }

// ConfigError reports invalid input detected before any work starts.
type ConfigError struct {
	// Field names the offending option or argument.
	Field   string
	Value   string
	Message string
	// Cause is a more specific sentinel, e.g. ErrUnsupportedFormat.
	Cause error
}

func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Field != "" {
		msg += " in " + e.Field
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" (%q)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Cause }

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }
