package usecase

import (
	"context"
	"errors"
	"io"

	"github.com/i2y/apicheck/internal/domain"
)

// Standard errors returned by use cases and adapters.
var (
	ErrSchemaNotFound    = errors.New("schema file not found")
	ErrParse             = errors.New("parse error")
	ErrUnsupportedFormat = errors.New("unsupported schema file format")
	ErrIO                = errors.New("i/o error")
	ErrConfig            = errors.New("configuration error")
)

// --- Schema Related ---

// SchemaLoader reads an API schema document from disk.
type SchemaLoader interface {
	Load(ctx context.Context, path string) (*domain.Schema, error)
}

// --- Code Scanning Related ---

// EndpointScanner discovers endpoint declarations under a directory tree.
// Records are returned in discovery order, duplicates included.
type EndpointScanner interface {
	Scan(ctx context.Context, root string) ([]domain.EndpointRecord, error)
}

// RouteMatcher extracts candidate endpoint paths from one file's text.
// Swapping the matcher changes the recognized idiom without touching traversal.
type RouteMatcher interface {
	// Name identifies the matcher in logs and configuration.
	Name() string
	// Extensions lists the file name suffixes the matcher applies to (e.g. ".py").
	Extensions() []string
	// Match returns every route declaration in content, in text order.
	Match(content []byte) []domain.RouteMatch
}

// --- Output Related ---

// ReportWriter renders a finished report.
type ReportWriter interface {
	Write(w io.Writer, report domain.Report) error
}
