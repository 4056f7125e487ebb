package domain

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a node of a parsed YAML or JSON document.
// Exactly one of the payload fields is meaningful, selected by Kind.
// The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	num  float64
	str  string // String payload; for numbers, the literal as written in the source
	seq  []Value
	keys []string // Mapping keys in document order
	m    map[string]Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a numeric scalar. literal is the text as it appeared in the document
// and may be empty.
func Number(n float64, literal string) Value {
	return Value{kind: KindNumber, num: n, str: literal}
}

// String wraps a string scalar.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Sequence wraps an ordered list of values.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, seq: items}
}

// Mapping is built incrementally through MappingBuilder so key order is kept.
type MappingBuilder struct {
	keys []string
	m    map[string]Value
}

// NewMappingBuilder returns an empty builder.
func NewMappingBuilder() *MappingBuilder {
	return &MappingBuilder{m: make(map[string]Value)}
}

// Set adds or replaces key. A replaced key keeps its original position.
func (b *MappingBuilder) Set(key string, v Value) *MappingBuilder {
	if _, exists := b.m[key]; !exists {
		b.keys = append(b.keys, key)
	}
	b.m[key] = v
	return b
}

// Build returns the mapping value. The builder must not be reused afterwards.
func (b *MappingBuilder) Build() Value {
	return Value{kind: KindMapping, keys: b.keys, m: b.m}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsNumber returns the numeric payload.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// Items returns the elements of a sequence, or nil.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return v.seq
}

// Keys returns mapping keys in document order, or nil for non-mappings.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}
	return v.keys
}

// Lookup returns the value stored under key. It fails for anything but a mapping.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	child, ok := v.m[key]
	return child, ok
}

// Has reports whether v is a mapping containing key.
func (v Value) Has(key string) bool {
	_, ok := v.Lookup(key)
	return ok
}

// Len returns the number of elements of a sequence or entries of a mapping.
// Strings report their byte length; other kinds report 0.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.keys)
	case KindString:
		return len(v.str)
	default:
		return 0
	}
}

// Empty reports whether v carries no content: null, false, zero, the empty
// string, or an empty sequence or mapping.
func (v Value) Empty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return !v.b
	case KindNumber:
		return v.num == 0
	default:
		return v.Len() == 0
	}
}
