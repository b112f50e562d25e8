package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObject_KeepsInsertionOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("zeta", json.Number("1"))
	obj.Set("alpha", "a")
	obj.Set("mid", nil)
	obj.Set("zeta", json.Number("2"))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())
	assert.Equal(t, 3, obj.Len())

	v, ok := obj.Get("zeta")
	assert.True(t, ok)
	assert.Equal(t, json.Number("2"), v)
	_, ok = obj.Get("missing")
	assert.False(t, ok)
}

func TestObject_CloneIsShallow(t *testing.T) {
	inner := NewObject()
	inner.Set("x", true)
	obj := NewObject()
	obj.Set("inner", inner)

	clone := obj.Clone()
	clone.Set("extra", "y")

	_, ok := obj.Get("extra")
	assert.False(t, ok)
	got, _ := clone.Get("inner")
	assert.Same(t, inner, got)
}

func TestEqual(t *testing.T) {
	a := NewObject()
	a.Set("n", json.Number("1.0"))
	a.Set("list", Array{"x", nil, true})
	b := NewObject()
	b.Set("list", Array{"x", nil, true})
	b.Set("n", json.Number("1"))

	tests := []struct {
		name     string
		left     Value
		right    Value
		expected bool
	}{
		{"objects ignore key order", a, b, true},
		{"number literals compare by value", json.Number("10"), json.Number("1e1"), true},
		{"string is not number", "1", json.Number("1"), false},
		{"array length differs", Array{nil}, Array{nil, nil}, false},
		{"null vs empty string", nil, "", false},
		{"nested difference", Array{a}, Array{NewObject()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Equal(tt.left, tt.right))
		})
	}
}

func TestText(t *testing.T) {
	obj := NewObject()
	obj.Set("k", "v<")

	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"null", nil, ""},
		{"string", "plain", "plain"},
		{"bool", false, "false"},
		{"number literal", json.Number("1.50"), "1.50"},
		{"array", Array{json.Number("1"), "two"}, `[1,"two"]`},
		{"object without html escaping", obj, `{"k":"v<"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Text(tt.value))
		})
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"a\"b\\c\n\u0001"`, Quote("a\"b\\c\n\x01"))
}

func TestObject_MarshalJSON(t *testing.T) {
	obj := NewObject()
	obj.Set("b", json.Number("2"))
	obj.Set("a", Array{})

	out, err := json.Marshal(obj)
	assert.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":[]}`, string(out))
}
