package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/i2y/apicheck/internal/domain"
)

func TestFindingMessages(t *testing.T) {
	rec := domain.EndpointRecord{Location: "app/views.py", Path: "/items/{item_id}", Line: 12}

	assert.Equal(t, "Schema not loaded.", domain.SchemaNotLoaded().String())
	assert.Equal(t, "No paths defined in schema", domain.NoPaths().String())
	assert.Equal(t,
		"Endpoint '/items/{item_id}' (defined in app/views.py) not found in schema.",
		domain.EndpointNotFound(rec).String())
	assert.Equal(t,
		"Endpoint '/items/{item_id}' in schema does not define valid HTTP methods.",
		domain.NoValidMethods(rec).String())
}

func TestReport_Passed(t *testing.T) {
	assert.True(t, domain.Report{}.Passed())
	assert.False(t, domain.Report{Findings: []domain.Finding{domain.NoPaths()}}.Passed())
}
