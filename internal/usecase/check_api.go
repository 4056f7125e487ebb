package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/i2y/apicheck/internal/domain"
)

const tracerName = "github.com/i2y/apicheck/internal/usecase"

// CheckAPIUseCase runs the load, scan and validate steps in sequence.
type CheckAPIUseCase struct {
	loader    SchemaLoader
	scanner   EndpointScanner
	validator *ValidateEndpointsUseCase
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewCheckAPIUseCase creates a new CheckAPIUseCase.
func NewCheckAPIUseCase(
	loader SchemaLoader,
	scanner EndpointScanner,
	validator *ValidateEndpointsUseCase,
	logger *slog.Logger,
) *CheckAPIUseCase {
	return &CheckAPIUseCase{
		loader:    loader,
		scanner:   scanner,
		validator: validator,
		tracer:    otel.Tracer(tracerName),
		logger:    logger.With("usecase", "CheckAPI"),
	}
}

// Execute loads the schema at schemaPath, scans codePath for endpoints and validates
// them. Any load or scan failure is returned and no report is produced; findings are
// never errors.
//
// The schema is always loaded before scanning, so a bad schema is reported without
// touching the source tree.
func (uc *CheckAPIUseCase) Execute(ctx context.Context, codePath, schemaPath string) (domain.Report, error) {
	log := uc.logger.With(slog.String("code_path", codePath), slog.String("schema_path", schemaPath))
	log.Info("Starting API endpoint check")

	ctx, span := uc.tracer.Start(ctx, "apicheck.check", trace.WithAttributes(
		attribute.String("apicheck.code_path", codePath),
		attribute.String("apicheck.schema_path", schemaPath),
	))
	defer span.End()

	// 1. Load schema
	schema, err := uc.loadSchema(ctx, schemaPath)
	if err != nil {
		fail(span, err)
		return domain.Report{}, fmt.Errorf("failed to load schema from %s: %w", schemaPath, err)
	}

	// 2. Scan code
	endpoints, err := uc.scan(ctx, codePath)
	if err != nil {
		fail(span, err)
		return domain.Report{}, fmt.Errorf("failed to scan %s for endpoints: %w", codePath, err)
	}
	log.Info("Endpoints discovered", slog.Int("count", len(endpoints)))

	// 3. Validate
	_, vspan := uc.tracer.Start(ctx, "apicheck.validate")
	findings := uc.validator.Validate(schema, endpoints)
	vspan.SetAttributes(attribute.Int("apicheck.findings", len(findings)))
	vspan.End()

	report := domain.Report{
		SchemaPath: schemaPath,
		CodePath:   codePath,
		Endpoints:  len(endpoints),
		Findings:   findings,
	}
	span.SetAttributes(attribute.Bool("apicheck.passed", report.Passed()))
	log.Info("API endpoint check finished", slog.Bool("passed", report.Passed()), slog.Int("finding_count", len(findings)))
	return report, nil
}

func (uc *CheckAPIUseCase) loadSchema(ctx context.Context, path string) (*domain.Schema, error) {
	ctx, span := uc.tracer.Start(ctx, "apicheck.load_schema")
	defer span.End()

	schema, err := uc.loader.Load(ctx, path)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	return schema, nil
}

func (uc *CheckAPIUseCase) scan(ctx context.Context, root string) ([]domain.EndpointRecord, error) {
	ctx, span := uc.tracer.Start(ctx, "apicheck.scan")
	defer span.End()

	endpoints, err := uc.scanner.Scan(ctx, root)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("apicheck.endpoints", len(endpoints)))
	return endpoints, nil
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
