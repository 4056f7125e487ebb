package domain

import "fmt"

// FindingKind classifies a validation finding.
type FindingKind string

const (
	FindingSchemaNotLoaded  FindingKind = "schema_not_loaded"
	FindingNoPaths          FindingKind = "no_paths"
	FindingEndpointNotFound FindingKind = "endpoint_not_found"
	FindingNoValidMethods   FindingKind = "no_valid_methods"
)

// Finding is a discrepancy between the endpoints declared in code and the schema.
// Findings are the tool's output, not errors.
type Finding struct {
	Kind     FindingKind `json:"kind"`
	Path     string      `json:"path,omitempty"`
	Location string      `json:"location,omitempty"`
	Message  string      `json:"message"`
}

func (f Finding) String() string { return f.Message }

// SchemaNotLoaded reports validation attempted without a loaded schema.
func SchemaNotLoaded() Finding {
	return Finding{Kind: FindingSchemaNotLoaded, Message: "Schema not loaded."}
}

// NoPaths reports a schema without a "paths" key.
func NoPaths() Finding {
	return Finding{Kind: FindingNoPaths, Message: "No paths defined in schema"}
}

// EndpointNotFound reports a code endpoint missing from the schema's paths.
func EndpointNotFound(rec EndpointRecord) Finding {
	return Finding{
		Kind:     FindingEndpointNotFound,
		Path:     rec.Path,
		Location: rec.Location,
		Message:  fmt.Sprintf("Endpoint '%s' (defined in %s) not found in schema.", rec.Path, rec.Location),
	}
}

// NoValidMethods reports a schema path that declares none of the recognized HTTP methods.
func NoValidMethods(rec EndpointRecord) Finding {
	return Finding{
		Kind:     FindingNoValidMethods,
		Path:     rec.Path,
		Location: rec.Location,
		Message:  fmt.Sprintf("Endpoint '%s' in schema does not define valid HTTP methods.", rec.Path),
	}
}

// Report is the outcome of one check run.
type Report struct {
	SchemaPath string    `json:"schema_path"`
	CodePath   string    `json:"code_path"`
	Endpoints  int       `json:"endpoints"`
	Findings   []Finding `json:"findings"`
}

// Passed reports whether the run produced no findings.
func (r Report) Passed() bool { return len(r.Findings) == 0 }
