package domain

// SchemaFormat identifies the serialization a schema document was read from.
type SchemaFormat string

const (
	SchemaFormatYAML SchemaFormat = "yaml"
	SchemaFormatJSON SchemaFormat = "json"
)

// PathsKey is the top-level key holding the path table of an OpenAPI/Swagger document.
const PathsKey = "paths"

// Schema is a loaded API schema document.
// It is built once per run and treated as read-only afterwards.
type Schema struct {
	// Source is the file the document was read from.
	Source string
	// Format is the serialization the document was parsed as.
	Format SchemaFormat
	// Root is the whole parsed document. A blank file yields a Null root.
	Root Value
}

// Paths returns the value stored under the top-level "paths" key.
// ok is false when the root is not a mapping or has no such key.
func (s *Schema) Paths() (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	return s.Root.Lookup(PathsKey)
}

// HasPath reports whether p is a key of the paths table.
func (s *Schema) HasPath(p string) bool {
	paths, ok := s.Paths()
	if !ok {
		return false
	}
	return paths.Has(p)
}

// Methods returns the keys declared under paths[p], in document order.
// It returns nil when p is absent or its entry is not a mapping.
func (s *Schema) Methods(p string) []string {
	paths, ok := s.Paths()
	if !ok {
		return nil
	}
	item, ok := paths.Lookup(p)
	if !ok {
		return nil
	}
	return item.Keys()
}
