package usecase

import (
	"log/slog"

	"github.com/i2y/apicheck/internal/domain"
)

// ValidHTTPMethods are the method keys accepted under a schema path.
// Matching is case-sensitive.
var ValidHTTPMethods = []string{"get", "post", "put", "delete", "patch", "options", "head"}

// ValidateEndpointsUseCase cross-references scanned endpoints with a loaded schema.
// It holds no state between calls.
type ValidateEndpointsUseCase struct {
	logger *slog.Logger
}

// NewValidateEndpointsUseCase creates a new ValidateEndpointsUseCase.
func NewValidateEndpointsUseCase(logger *slog.Logger) *ValidateEndpointsUseCase {
	return &ValidateEndpointsUseCase{
		logger: logger.With("usecase", "ValidateEndpoints"),
	}
}

// Validate returns one finding per endpoint that does not line up with the schema,
// in the order the endpoints were discovered.
//
// A schema that is absent or empty yields a single "not loaded" finding, and a
// schema whose "paths" key is missing or has no entries yields a single "no paths"
// finding. In both cases the endpoints are not inspected.
func (uc *ValidateEndpointsUseCase) Validate(schema *domain.Schema, endpoints []domain.EndpointRecord) []domain.Finding {
	if schema == nil || schema.Root.Empty() {
		uc.logger.Error("Schema not loaded. Load the schema before validating.")
		return []domain.Finding{domain.SchemaNotLoaded()}
	}

	if paths, ok := schema.Paths(); !ok || paths.Empty() {
		uc.logger.Warn("No 'paths' defined in the schema. Cannot validate endpoints.", slog.String("schema", schema.Source))
		return []domain.Finding{domain.NoPaths()}
	}

	var findings []domain.Finding
	for _, ep := range endpoints {
		if !schema.HasPath(ep.Path) {
			findings = append(findings, domain.EndpointNotFound(ep))
			continue
		}
		uc.logger.Debug("Endpoint found in schema.", slog.String("endpoint", ep.Path), slog.String("location", ep.Location))

		if !hasValidMethod(schema.Methods(ep.Path)) {
			findings = append(findings, domain.NoValidMethods(ep))
		}
	}
	return findings
}

func hasValidMethod(methods []string) bool {
	for _, m := range methods {
		for _, valid := range ValidHTTPMethods {
			if m == valid {
				return true
			}
		}
	}
	return false
}

// Messages returns the text of each finding, preserving order.
func Messages(findings []domain.Finding) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Message
	}
	return out
}
