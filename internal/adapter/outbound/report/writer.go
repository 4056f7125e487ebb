package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/i2y/apicheck/internal/domain"
	"github.com/i2y/apicheck/internal/usecase"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const (
	failedHeader = "API Endpoint Validation Failed:"
	passedLine   = "API Endpoint Validation Passed."
)

// New returns the writer for format.
func New(format string) (usecase.ReportWriter, error) {
	switch format {
	case FormatText, "":
		return TextWriter{}, nil
	case FormatJSON:
		return JSONWriter{}, nil
	}
	return nil, &usecase.ConfigError{
		Field:   "output_format",
		Value:   format,
		Message: fmt.Sprintf("expected %q or %q", FormatText, FormatJSON),
	}
}

// TextWriter prints a failure header and one line per finding, or a single
// pass line when there are none.
type TextWriter struct{}

func (TextWriter) Write(w io.Writer, r domain.Report) error {
	if r.Passed() {
		_, err := fmt.Fprintln(w, passedLine)
		return err
	}
	if _, err := fmt.Fprintln(w, failedHeader); err != nil {
		return err
	}
	for _, f := range r.Findings {
		if _, err := fmt.Fprintln(w, f.Message); err != nil {
			return err
		}
	}
	return nil
}

// JSONWriter renders the report as an indented JSON object.
type JSONWriter struct{}

type jsonReport struct {
	SchemaPath string           `json:"schema_path"`
	CodePath   string           `json:"code_path"`
	Endpoints  int              `json:"endpoints"`
	Passed     bool             `json:"passed"`
	Findings   []domain.Finding `json:"findings"`
}

func (JSONWriter) Write(w io.Writer, r domain.Report) error {
	findings := r.Findings
	if findings == nil {
		findings = []domain.Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		SchemaPath: r.SchemaPath,
		CodePath:   r.CodePath,
		Endpoints:  r.Endpoints,
		Passed:     r.Passed(),
		Findings:   findings,
	})
}
