package schemafile_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/apicheck/internal/adapter/outbound/schemafile"
	"github.com/i2y/apicheck/internal/domain"
	"github.com/i2y/apicheck/internal/usecase"
)

const petstoreYAML = `openapi: 3.0.0
info:
  title: Pets
  version: "1.0"
paths:
  /users:
    get:
      summary: Get all users
      responses:
        "200":
          description: ok
  /items/{item_id}:
    get:
      summary: Get a specific item
      responses:
        "200":
          description: ok
  /empty: {}
`

const petstoreJSON = `{
  "openapi": "3.0.0",
  "info": {"title": "Pets", "version": "1.0"},
  "paths": {
    "/users": {"get": {"summary": "Get all users", "responses": {"200": {"description": "ok"}}}},
    "/items/{item_id}": {"get": {"summary": "Get a specific item", "responses": {"200": {"description": "ok"}}}},
    "/empty": {}
  }
}
`

func newTestLoader(opts ...schemafile.Option) *schemafile.Loader {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return schemafile.NewLoader(logger, opts...)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	loader := newTestLoader()
	ctx := context.Background()

	tests := []struct {
		name       string
		file       string
		content    string
		wantFormat domain.SchemaFormat
	}{
		{name: "YAML", file: "api.yaml", content: petstoreYAML, wantFormat: domain.SchemaFormatYAML},
		{name: "YML", file: "api.yml", content: petstoreYAML, wantFormat: domain.SchemaFormatYAML},
		{name: "JSON", file: "api.json", content: petstoreJSON, wantFormat: domain.SchemaFormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)

			schema, err := loader.Load(ctx, path)
			require.NoError(t, err)
			assert.Equal(t, path, schema.Source)
			assert.Equal(t, tt.wantFormat, schema.Format)

			paths, ok := schema.Paths()
			require.True(t, ok)
			assert.Equal(t, []string{"/users", "/items/{item_id}", "/empty"}, paths.Keys())
			assert.Equal(t, []string{"get"}, schema.Methods("/users"))
			assert.Empty(t, schema.Methods("/empty"))
		})
	}
}

func TestLoader_YAMLAndJSONValidateAlike(t *testing.T) {
	dir := t.TempDir()
	loader := newTestLoader()
	ctx := context.Background()
	validator := usecase.NewValidateEndpointsUseCase(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	yamlSchema, err := loader.Load(ctx, writeFile(t, dir, "api.yaml", petstoreYAML))
	require.NoError(t, err)
	jsonSchema, err := loader.Load(ctx, writeFile(t, dir, "api.json", petstoreJSON))
	require.NoError(t, err)

	endpoints := []domain.EndpointRecord{
		{Location: "app.py", Path: "/users"},
		{Location: "app.py", Path: "/items/{item_id}"},
		{Location: "app.py", Path: "/empty"},
		{Location: "app.py", Path: "/orders"},
	}
	fromYAML := validator.Validate(yamlSchema, endpoints)
	fromJSON := validator.Validate(jsonSchema, endpoints)

	assert.Len(t, fromYAML, 2)
	assert.Equal(t, fromYAML, fromJSON)
}

func TestLoader_YAMLMergeKeysMatchJSON(t *testing.T) {
	dir := t.TempDir()
	loader := newTestLoader()
	ctx := context.Background()
	validator := usecase.NewValidateEndpointsUseCase(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	yamlSchema, err := loader.Load(ctx, writeFile(t, dir, "merged.yaml", `x-crud: &crud
  get: {}
  post: {}
paths:
  /users:
    <<: *crud
  /items:
    <<: *crud
    delete: {}
  /docs:
    summary: no methods
`))
	require.NoError(t, err)
	jsonSchema, err := loader.Load(ctx, writeFile(t, dir, "merged.json", `{
  "x-crud": {"get": {}, "post": {}},
  "paths": {
    "/users": {"get": {}, "post": {}},
    "/items": {"get": {}, "post": {}, "delete": {}},
    "/docs": {"summary": "no methods"}
  }
}`))
	require.NoError(t, err)

	endpoints := []domain.EndpointRecord{
		{Location: "app.py", Path: "/users"},
		{Location: "app.py", Path: "/items"},
		{Location: "app.py", Path: "/docs"},
	}
	fromYAML := validator.Validate(yamlSchema, endpoints)
	fromJSON := validator.Validate(jsonSchema, endpoints)

	require.Len(t, fromYAML, 1)
	assert.Equal(t, domain.FindingNoValidMethods, fromYAML[0].Kind)
	assert.Equal(t, fromJSON, fromYAML)
	assert.Equal(t, []string{"get", "post", "delete"}, yamlSchema.Methods("/items"))
}

func TestLoader_RecursiveAliasIsParseError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "loop.yaml", "paths: &a\n  /x: *a\n")

	_, err := newTestLoader().Load(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, usecase.ErrParse)
	assert.ErrorIs(t, err, schemafile.ErrAliasCycle)
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	loader := newTestLoader()
	ctx := context.Background()

	t.Run("Unsupported extension is rejected before reading", func(t *testing.T) {
		// The file does not exist; the format check must win.
		_, err := loader.Load(ctx, filepath.Join(dir, "api.txt"))
		require.Error(t, err)
		assert.ErrorIs(t, err, usecase.ErrUnsupportedFormat)
		assert.ErrorIs(t, err, usecase.ErrConfig)
		assert.NotErrorIs(t, err, usecase.ErrSchemaNotFound)
	})

	t.Run("Extension match is case-sensitive", func(t *testing.T) {
		path := writeFile(t, dir, "API.YAML", petstoreYAML)
		_, err := loader.Load(ctx, path)
		assert.ErrorIs(t, err, usecase.ErrUnsupportedFormat)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := loader.Load(ctx, filepath.Join(dir, "missing.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, usecase.ErrSchemaNotFound)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		path := writeFile(t, dir, "bad.yaml", "paths:\n  /users:\n    get: [unclosed\n")
		_, err := loader.Load(ctx, path)
		require.Error(t, err)
		assert.ErrorIs(t, err, usecase.ErrParse)

		var loadErr *usecase.LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "yaml", loadErr.Format)
		assert.Contains(t, err.Error(), "YAML")
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		path := writeFile(t, dir, "bad.json", `{"paths": {"/users": }}`)
		_, err := loader.Load(ctx, path)
		require.Error(t, err)
		assert.ErrorIs(t, err, usecase.ErrParse)

		var loadErr *usecase.LoadError
		require.ErrorAs(t, err, &loadErr)
		assert.Equal(t, "json", loadErr.Format)
		assert.Contains(t, err.Error(), "JSON")
	})

	t.Run("Empty JSON file", func(t *testing.T) {
		path := writeFile(t, dir, "empty.json", "")
		_, err := loader.Load(ctx, path)
		assert.ErrorIs(t, err, usecase.ErrParse)
	})

	t.Run("Trailing JSON data", func(t *testing.T) {
		path := writeFile(t, dir, "trailing.json", `{"paths": {}} {"paths": {}}`)
		_, err := loader.Load(ctx, path)
		assert.ErrorIs(t, err, usecase.ErrParse)
	})
}

func TestLoader_EmptyYAMLIsNullRoot(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.yaml", "# no content\n")

	schema, err := newTestLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, schema.Root.IsNull())
}

func TestLoader_LintNeverFails(t *testing.T) {
	dir := t.TempDir()
	loader := newTestLoader(schemafile.WithLint(true))
	ctx := context.Background()

	// Not a valid OpenAPI document: no openapi/info keys.
	minimal, err := loader.Load(ctx, writeFile(t, dir, "minimal.yaml", "paths:\n  /users:\n    get: {}\n"))
	require.NoError(t, err)
	assert.True(t, minimal.HasPath("/users"))

	full, err := loader.Load(ctx, writeFile(t, dir, "full.yaml", petstoreYAML))
	require.NoError(t, err)
	assert.True(t, full.HasPath("/users"))
}
