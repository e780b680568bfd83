package index

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"unique"
)

// ValueKind identifies the concrete type stored in a Value.
type ValueKind uint8

const (
	// KindInvalid represents an invalid value.
	KindInvalid ValueKind = iota
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
)

// Value is a small typed property value carried by change records.
//
// The representation is designed to make comparison fast and predictable:
// strings are interned, so Value is comparable with == and usable as (part
// of) a map key. Uniqueness validation in index backends relies on that.
type Value struct {
	kind ValueKind
	i64  int64
	f64  float64
	s    unique.Handle[string]
	b    bool
}

// IntValue returns an integer Value.
func IntValue(v int64) Value { return Value{kind: KindInt, i64: v} }

// FloatValue returns a float Value.
func FloatValue(v float64) Value { return Value{kind: KindFloat, f64: v} }

// StringValue returns a string Value. The string is interned.
func StringValue(v string) Value { return Value{kind: KindString, s: unique.Make(v)} }

// BoolValue returns a boolean Value.
func BoolValue(v bool) Value { return Value{kind: KindBool, b: v} }

// Kind returns the concrete type stored in the value.
func (v Value) Kind() ValueKind { return v.kind }

// Int returns the integer payload; zero unless Kind is KindInt.
func (v Value) Int() int64 { return v.i64 }

// Float returns the float payload; zero unless Kind is KindFloat.
func (v Value) Float() float64 { return v.f64 }

// Str returns the string payload; empty unless Kind is KindString.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.s.Value()
}

// Bool returns the boolean payload; false unless Kind is KindBool.
func (v Value) Bool() bool { return v.b }

// IsValid reports whether the value carries a payload.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// AppendEncoded appends a canonical, kind-prefixed binary encoding of the
// value to dst. Two values encode identically iff they compare equal with ==,
// which makes the encoding usable as a hashing key for value tuples.
func (v Value) AppendEncoded(dst []byte) []byte {
	dst = append(dst, byte(v.kind))
	switch v.kind {
	case KindInt:
		dst = binary.BigEndian.AppendUint64(dst, uint64(v.i64))
	case KindFloat:
		dst = binary.BigEndian.AppendUint64(dst, math.Float64bits(v.f64))
	case KindString:
		s := v.s.Value()
		dst = binary.BigEndian.AppendUint32(dst, uint32(len(s)))
		dst = append(dst, s...)
	case KindBool:
		if v.b {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
	}
	return dst
}

// String formats the value for error messages and logs.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i64, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f64, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s.Value())
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "<invalid>"
	}
}

// EncodeValues produces the canonical encoding of a value tuple.
func EncodeValues(values []Value) []byte {
	buf := make([]byte, 0, 16*len(values))
	for _, v := range values {
		buf = v.AppendEncoded(buf)
	}
	return buf
}

// FormatValues formats a value tuple for error messages, e.g. (42, "bob").
func FormatValues(values []Value) string {
	out := "("
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprint(v)
	}
	return out + ")"
}
