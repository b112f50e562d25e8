package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Value is a generic type to represent any JSON value.
// It holds one of: nil, bool, json.Number, string, Array or *Object.
type Value interface{}

// Array represents a JSON array.
type Array []Value

// Object represents a JSON object. Unlike a Go map it remembers the order in
// which keys were first inserted.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Set stores value under key. A key that is already present keeps its
// original position.
func (o *Object) Set(key string, value Value) {
	if o.values == nil {
		o.values = make(map[string]Value)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Clone returns a shallow copy; nested values are shared.
func (o *Object) Clone() *Object {
	c := NewObject()
	if o == nil {
		return c
	}
	for _, k := range o.keys {
		c.Set(k, o.values[k])
	}
	return c
}

// Equal reports whether a and b are deeply equal. Key order is ignored for
// objects; numbers are compared by value.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	case json.Number:
		y, ok := b.(json.Number)
		if !ok {
			return false
		}
		if x == y {
			return true
		}
		fx, errX := x.Float64()
		fy, errY := y.Float64()
		return errX == nil && errY == nil && fx == fy
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, k := range x.keys {
			yv, present := y.Get(k)
			if !present || !Equal(x.values[k], yv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Text renders a value the way it appears inside plain text output such as
// a CSV cell or a joined list: strings are raw, null is empty, numbers keep
// their literal, and arrays or objects become compact JSON.
func Text(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	default:
		var sb strings.Builder
		writeCompact(&sb, x)
		return sb.String()
	}
}

// Kind names the JSON type of v.
func Kind(v Value) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case string:
		return "string"
	case Array:
		return "array"
	case *Object:
		return "object"
	default:
		return "unknown"
	}
}

func writeCompact(sb *strings.Builder, v Value) {
	switch x := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		sb.WriteString(strconv.FormatBool(x))
	case json.Number:
		sb.WriteString(x.String())
	case string:
		sb.WriteString(Quote(x))
	case Array:
		sb.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCompact(sb, item)
		}
		sb.WriteByte(']')
	case *Object:
		sb.WriteByte('{')
		for i, k := range x.keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(Quote(k))
			sb.WriteByte(':')
			writeCompact(sb, x.values[k])
		}
		sb.WriteByte('}')
	}
}

// MarshalJSON implements json.Marshaler, emitting keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	writeCompact(&sb, o)
	return []byte(sb.String()), nil
}

// Compact renders v as compact JSON.
func Compact(v Value) string {
	var sb strings.Builder
	writeCompact(&sb, v)
	return sb.String()
}

// Quote renders s as a JSON string literal without HTML escaping.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r < 0x20 {
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigits[r>>4])
				sb.WriteByte(hexDigits[r&0xF])
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

const hexDigits = "0123456789abcdef"
