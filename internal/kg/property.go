package kg

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind discriminates the variants of a property Value
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindList
)

// Value is a property value: a string, a number, a boolean, or a list of
// values. The zero Value is the empty string.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Value
}

// String builds a string Value
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number builds a numeric Value
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool builds a boolean Value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// List builds a list Value
func List(vs ...Value) Value { return Value{kind: KindList, list: vs} }

// Strings builds a list Value from a slice of strings
func Strings(ss ...string) Value {
	vs := make([]Value, len(ss))
	for i, s := range ss {
		vs[i] = String(s)
	}
	return Value{kind: KindList, list: vs}
}

// Kind returns the variant tag
func (v Value) Kind() Kind { return v.kind }

// AsString returns the string payload; ok is false for other kinds
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsNumber returns the numeric payload; ok is false for other kinds
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the boolean payload; ok is false for other kinds
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsList returns the list payload; ok is false for other kinds
func (v Value) AsList() ([]Value, bool) { return v.list, v.kind == KindList }

// Equal reports deep equality of two values, tag included
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface lowers the value to plain Go types (string, float64, bool,
// []any), the shape external drivers and encoders expect.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	default:
		return v.str
	}
}

func (v Value) clone() Value {
	if v.kind != KindList {
		return v
	}
	list := make([]Value, len(v.list))
	for i := range v.list {
		list[i] = v.list[i].clone()
	}
	return Value{kind: KindList, list: list}
}

// MarshalJSON encodes the value as its raw JSON scalar or array
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return nil, fmt.Errorf("unknown value kind %d", v.kind)
}

// UnmarshalJSON decodes a JSON scalar or array into the matching variant.
// JSON null decodes to the empty string value.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '[':
		var list []Value
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*v = Value{kind: KindList, list: list}
	case 'n':
		*v = Value{}
	case '{':
		return fmt.Errorf("object is not a valid property value")
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*v = Number(f)
	}
	return nil
}

// GobEncode rides the JSON codec; the tag is recoverable from the
// encoded form, so nothing extra is needed for the binary snapshot.
func (v Value) GobEncode() ([]byte, error) {
	return v.MarshalJSON()
}

// GobDecode implements gob.GobDecoder
func (v *Value) GobDecode(data []byte) error {
	return v.UnmarshalJSON(data)
}

// Properties is an open string-keyed bag of heterogeneous values
type Properties map[string]Value

// Clone returns a deep copy of the bag
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v.clone()
	}
	return out
}

// Merge overlays other onto p key by key. Keys absent from other are
// preserved; keys present in both take other's value.
func (p Properties) Merge(other Properties) {
	for k, v := range other {
		p[k] = v.clone()
	}
}

// Equal reports whether two bags hold the same keys and equal values
func (p Properties) Equal(other Properties) bool {
	if len(p) != len(other) {
		return false
	}
	for k, v := range p {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
