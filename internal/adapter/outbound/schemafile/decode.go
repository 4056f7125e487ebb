package schemafile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/i2y/apicheck/internal/domain"
)

// maxYAMLNodes bounds the number of values produced from one document,
// counting every expansion of an alias.
const maxYAMLNodes = 1 << 20

var (
	// ErrAliasCycle is returned when an alias refers to a node that contains it.
	ErrAliasCycle = errors.New("recursive YAML alias")
	// ErrTooManyNodes is returned when alias expansion exceeds maxYAMLNodes.
	ErrTooManyNodes = errors.New("YAML document expands to too many nodes")
)

// DecodeYAML parses a YAML document into a domain.Value.
// An empty or comment-only document decodes to Null.
// Only the first document of a multi-document stream is used.
func DecodeYAML(data []byte) (domain.Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return domain.Null(), err
	}
	return FromYAMLNode(&node)
}

// FromYAMLNode converts a yaml.v3 node tree into a domain.Value.
// Aliases are expanded and merge keys ("<<") are resolved, with explicit keys
// taking precedence over merged ones.
func FromYAMLNode(n *yaml.Node) (domain.Value, error) {
	c := &yamlConverter{active: make(map[*yaml.Node]bool)}
	return c.convert(n)
}

type yamlConverter struct {
	// active holds the collection nodes on the current conversion path.
	active map[*yaml.Node]bool
	nodes  int
}

func (c *yamlConverter) convert(n *yaml.Node) (domain.Value, error) {
	if n == nil {
		return domain.Null(), nil
	}
	c.nodes++
	if c.nodes > maxYAMLNodes {
		return domain.Null(), fmt.Errorf("line %d: %w (limit %d)", n.Line, ErrTooManyNodes, maxYAMLNodes)
	}
	switch n.Kind {
	case 0:
		return domain.Null(), nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return domain.Null(), nil
		}
		return c.convert(n.Content[0])
	case yaml.AliasNode:
		if c.active[n.Alias] {
			return domain.Null(), fmt.Errorf("line %d: %w *%s", n.Line, ErrAliasCycle, n.Value)
		}
		return c.convert(n.Alias)
	case yaml.SequenceNode:
		c.active[n] = true
		defer delete(c.active, n)

		items := make([]domain.Value, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := c.convert(item)
			if err != nil {
				return domain.Null(), err
			}
			items = append(items, v)
		}
		return domain.Sequence(items...), nil
	case yaml.MappingNode:
		c.active[n] = true
		defer delete(c.active, n)
		return c.mapping(n)
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return domain.Null(), fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func (c *yamlConverter) mapping(n *yaml.Node) (domain.Value, error) {
	explicit := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if key := n.Content[i]; !isMergeKey(key) {
			explicit[mappingKey(key)] = true
		}
	}

	b := domain.NewMappingBuilder()
	set := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if isMergeKey(key) {
			// Earlier sources win over later ones in a merge sequence.
			err := c.merge(value, func(k string, v domain.Value) {
				if !explicit[k] && !set[k] {
					b.Set(k, v)
					set[k] = true
				}
			})
			if err != nil {
				return domain.Null(), err
			}
			continue
		}
		v, err := c.convert(value)
		if err != nil {
			return domain.Null(), err
		}
		k := mappingKey(key)
		b.Set(k, v)
		set[k] = true
	}
	return b.Build(), nil
}

// merge feeds every entry of a merge source to add. The source is a mapping,
// an alias of one, or a sequence of those.
func (c *yamlConverter) merge(src *yaml.Node, add func(string, domain.Value)) error {
	sources := []*yaml.Node{src}
	if src.Kind == yaml.SequenceNode {
		sources = src.Content
	}
	for _, s := range sources {
		v, err := c.convert(s)
		if err != nil {
			return err
		}
		if v.Kind() != domain.KindMapping {
			return fmt.Errorf("line %d: merge key needs a mapping or a sequence of mappings, got %s", s.Line, v.Kind())
		}
		for _, k := range v.Keys() {
			item, _ := v.Lookup(k)
			add(k, item)
		}
	}
	return nil
}

func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!merge"
}

func mappingKey(n *yaml.Node) string {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n.Value
}

func yamlScalar(n *yaml.Node) (domain.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return domain.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return domain.Null(), err
		}
		return domain.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			// Out of range for float64; keep the literal.
			return domain.String(n.Value), nil
		}
		return domain.Number(f, n.Value), nil
	default:
		return domain.String(n.Value), nil
	}
}

// DecodeJSON parses a single JSON value into a domain.Value, keeping object key order.
// Trailing data after the value is an error.
func DecodeJSON(data []byte) (domain.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSONValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Null(), io.ErrUnexpectedEOF
		}
		return domain.Null(), err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return domain.Null(), err
		}
		return domain.Null(), fmt.Errorf("extra data after JSON value at offset %d", dec.InputOffset())
	}
	return v, nil
}

func readJSONValue(dec *json.Decoder) (domain.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return domain.Null(), err
	}
	switch t := tok.(type) {
	case nil:
		return domain.Null(), nil
	case bool:
		return domain.Bool(t), nil
	case string:
		return domain.String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return domain.String(t.String()), nil
		}
		return domain.Number(f, t.String()), nil
	case json.Delim:
		switch t {
		case '{':
			b := domain.NewMappingBuilder()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return domain.Null(), err
				}
				key, ok := keyTok.(string)
				if !ok {
					return domain.Null(), fmt.Errorf("object key is not a string at offset %d", dec.InputOffset())
				}
				v, err := readJSONValue(dec)
				if err != nil {
					return domain.Null(), err
				}
				b.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return domain.Null(), err
			}
			return b.Build(), nil
		case '[':
			var items []domain.Value
			for dec.More() {
				v, err := readJSONValue(dec)
				if err != nil {
					return domain.Null(), err
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil {
				return domain.Null(), err
			}
			return domain.Sequence(items...), nil
		}
	}
	return domain.Null(), fmt.Errorf("unexpected JSON token %v at offset %d", tok, dec.InputOffset())
}
