package schemafile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/i2y/apicheck/internal/domain"
	"github.com/i2y/apicheck/internal/usecase"
)

// Loader implements the usecase.SchemaLoader interface for YAML and JSON files.
type Loader struct {
	lint   bool
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLint makes the loader also run the document through the OpenAPI validator.
// Problems are logged as warnings and never fail the load.
func WithLint(enabled bool) Option {
	return func(l *Loader) { l.lint = enabled }
}

// NewLoader creates a new schema file Loader.
func NewLoader(logger *slog.Logger, opts ...Option) *Loader {
	l := &Loader{logger: logger.With("component", "schema_loader")}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FormatFor maps a schema file name to its format by suffix.
// Only ".yaml", ".yml" and ".json" are recognized.
func FormatFor(path string) (domain.SchemaFormat, error) {
	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return domain.SchemaFormatYAML, nil
	case strings.HasSuffix(path, ".json"):
		return domain.SchemaFormatJSON, nil
	}
	return "", &usecase.ConfigError{
		Field:   "schema_path",
		Value:   path,
		Message: "unsupported schema file format, only YAML and JSON are supported",
		Cause:   usecase.ErrUnsupportedFormat,
	}
}

// Load reads the schema file at path and parses it according to its extension.
// The extension is checked before the file is opened.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Schema, error) {
	log := l.logger.With(slog.String("path", path))

	format, err := FormatFor(path)
	if err != nil {
		log.Error("Error loading schema", slog.Any("error", err))
		return nil, err
	}

	log.Debug("Reading schema file", slog.String("format", string(format)))
	data, err := os.ReadFile(path)
	if err != nil {
		loadErr := usecase.NewReadError(path, err)
		if loadErr.Kind == usecase.LoadErrorNotFound {
			log.Error("Schema file not found")
		} else {
			log.Error("Error loading schema", slog.Any("error", err))
		}
		return nil, loadErr
	}

	var root domain.Value
	switch format {
	case domain.SchemaFormatYAML:
		root, err = DecodeYAML(data)
	case domain.SchemaFormatJSON:
		root, err = DecodeJSON(data)
	}
	if err != nil {
		log.Error(fmt.Sprintf("Error parsing %s schema", strings.ToUpper(string(format))), slog.Any("error", err))
		return nil, &usecase.LoadError{Path: path, Kind: usecase.LoadErrorParse, Format: string(format), Cause: err}
	}

	if l.lint {
		l.lintOpenAPI(ctx, log, data)
	}

	log.Info("Schema loaded", slog.String("root_kind", root.Kind().String()))
	return &domain.Schema{Source: path, Format: format, Root: root}, nil
}

// lintOpenAPI reports how far the document is from a valid OpenAPI 3 description.
func (l *Loader) lintOpenAPI(ctx context.Context, log *slog.Logger, data []byte) {
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: false}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		log.Warn("Schema is not a loadable OpenAPI document", slog.Any("lint_error", err))
		return
	}
	if validateErr := doc.Validate(ctx); validateErr != nil {
		log.Warn("OpenAPI schema validation failed", slog.Any("validation_error", validateErr))
		return
	}
	log.Debug("Schema passed OpenAPI validation", slog.String("openapi", doc.OpenAPI))
}
