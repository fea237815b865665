package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type kind uint8

const (
	kindString kind = iota
	kindInt
	kindFloat
	kindBool
)

// Value is a detail value: a string, integer, float or boolean.
// The zero Value is the empty string.
type Value struct {
	kind kind
	s    string
	i    int64
	f    float64
	b    bool
}

// Str returns a string Value.
func Str(s string) Value { return Value{kind: kindString, s: s} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{kind: kindInt, i: i} }

// Float returns a floating point Value.
func Float(f float64) Value { return Value{kind: kindFloat, f: f} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: kindBool, b: b} }

// Any returns the value as a string, int64, float64 or bool.
func (v Value) Any() any {
	switch v.kind {
	case kindInt:
		return v.i
	case kindFloat:
		return v.f
	case kindBool:
		return v.b
	default:
		return v.s
	}
}

// String formats the value.
func (v Value) String() string {
	return fmt.Sprint(v.Any())
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON implements json.Unmarshaler. Numbers without a fraction
// or exponent decode as integers.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		return fmt.Errorf("history: empty value")
	case bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Str(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*v = Bool(data[0] == 't')
	default:
		if i, err := strconv.ParseInt(string(data), 10, 64); err == nil {
			*v = Int(i)
			return nil
		}
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("history: unsupported value %s", data)
		}
		*v = Float(f)
	}
	return nil
}
