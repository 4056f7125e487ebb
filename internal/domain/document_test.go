package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/i2y/apicheck/internal/domain"
)

func TestValue_Kinds(t *testing.T) {
	assert.Equal(t, domain.KindNull, domain.Value{}.Kind())
	assert.True(t, domain.Null().IsNull())
	assert.Equal(t, domain.KindBool, domain.Bool(true).Kind())
	assert.Equal(t, domain.KindNumber, domain.Number(1, "1").Kind())
	assert.Equal(t, domain.KindString, domain.String("x").Kind())
	assert.Equal(t, domain.KindSequence, domain.Sequence().Kind())
	assert.Equal(t, domain.KindMapping, domain.NewMappingBuilder().Build().Kind())
	assert.Equal(t, "mapping", domain.KindMapping.String())
}

func TestValue_MappingKeepsOrder(t *testing.T) {
	m := domain.NewMappingBuilder().
		Set("post", domain.Null()).
		Set("get", domain.String("first")).
		Set("delete", domain.Null()).
		Set("get", domain.String("second")).
		Build()

	assert.Equal(t, []string{"post", "get", "delete"}, m.Keys())
	assert.Equal(t, 3, m.Len())

	got, ok := m.Lookup("get")
	assert.True(t, ok)
	s, _ := got.AsString()
	assert.Equal(t, "second", s)

	_, ok = m.Lookup("put")
	assert.False(t, ok)
}

func TestValue_LookupOnlyOnMappings(t *testing.T) {
	for _, v := range []domain.Value{
		domain.Null(),
		domain.String("paths"),
		domain.Sequence(domain.String("paths")),
		domain.Bool(true),
	} {
		_, ok := v.Lookup("paths")
		assert.False(t, ok, v.Kind().String())
		assert.Nil(t, v.Keys(), v.Kind().String())
	}
}

func TestValue_Empty(t *testing.T) {
	tests := []struct {
		name  string
		value domain.Value
		want  bool
	}{
		{"null", domain.Null(), true},
		{"false", domain.Bool(false), true},
		{"true", domain.Bool(true), false},
		{"zero", domain.Number(0, "0"), true},
		{"number", domain.Number(2.5, "2.5"), false},
		{"empty string", domain.String(""), true},
		{"string", domain.String("x"), false},
		{"empty sequence", domain.Sequence(), true},
		{"sequence", domain.Sequence(domain.Null()), false},
		{"empty mapping", domain.NewMappingBuilder().Build(), true},
		{"mapping", domain.NewMappingBuilder().Set("a", domain.Null()).Build(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.Empty())
		})
	}
}
