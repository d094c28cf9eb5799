// Package gguf implements an incremental parser for the metadata section of
// GGUF model files. It decodes only the header and key/value metadata, never
// tensor data, so it can operate on a byte prefix of a multi-gigabyte file.
package gguf

import "math"

// ValueType is the wire discriminant of a metadata value,
// matching the GGUF v3 specification.
type ValueType uint32

const (
	TypeUint8 ValueType = iota
	TypeInt8
	TypeUint16
	TypeInt16
	TypeUint32
	TypeInt32
	TypeFloat32
	TypeBool
	TypeString
	TypeArray
	TypeUint64
	TypeInt64
	TypeFloat64
	typeCount // sentinel, not a valid wire value
)

var typeNames = [...]string{
	"uint8", "int8", "uint16", "int16", "uint32", "int32",
	"float32", "bool", "string", "array", "uint64", "int64", "float64",
}

func (t ValueType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "invalid"
}

// scalarWidth returns the encoded width of a fixed-width scalar type,
// or 0 for string and array.
func scalarWidth(t ValueType) int {
	switch t {
	case TypeUint8, TypeInt8, TypeBool:
		return 1
	case TypeUint16, TypeInt16:
		return 2
	case TypeUint32, TypeInt32, TypeFloat32:
		return 4
	case TypeUint64, TypeInt64, TypeFloat64:
		return 8
	}
	return 0
}

// Value is a decoded metadata value: a closed sum over the scalar types,
// string, and homogeneous array. Accessors switch explicitly on the
// discriminant; there is no reflection-based dispatch.
type Value struct {
	typ  ValueType
	num  uint64 // scalar bit pattern: ints as-is, floats via Float64bits, bool 0/1
	str  string
	elem ValueType // array element type
	arr  []Value
}

func uintValue(t ValueType, v uint64) Value  { return Value{typ: t, num: v} }
func intValue(t ValueType, v int64) Value    { return Value{typ: t, num: uint64(v)} }
func floatValue(t ValueType, v float64) Value { return Value{typ: t, num: math.Float64bits(v)} }
func boolValue(v bool) Value {
	var n uint64
	if v {
		n = 1
	}
	return Value{typ: TypeBool, num: n}
}
func stringValue(s string) Value { return Value{typ: TypeString, str: s} }
func arrayValue(elem ValueType, items []Value) Value {
	return Value{typ: TypeArray, elem: elem, arr: items}
}

// Type returns the wire discriminant.
func (v Value) Type() ValueType { return v.typ }

// Uint64 widens any integer value to uint64. It reports false for
// non-integer types and for negative signed values.
func (v Value) Uint64() (uint64, bool) {
	switch v.typ {
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		return v.num, true
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		if int64(v.num) < 0 {
			return 0, false
		}
		return v.num, true
	}
	return 0, false
}

// Int64 widens any integer value to int64. It reports false for
// non-integer types and for uint64 values above MaxInt64.
func (v Value) Int64() (int64, bool) {
	switch v.typ {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return int64(v.num), true
	case TypeUint8, TypeUint16, TypeUint32:
		return int64(v.num), true
	case TypeUint64:
		if v.num > math.MaxInt64 {
			return 0, false
		}
		return int64(v.num), true
	}
	return 0, false
}

// Float64 returns the value of a float32 or float64 entry.
func (v Value) Float64() (float64, bool) {
	switch v.typ {
	case TypeFloat32, TypeFloat64:
		return math.Float64frombits(v.num), true
	}
	return 0, false
}

// Bool returns the value of a bool entry.
func (v Value) Bool() (bool, bool) {
	if v.typ != TypeBool {
		return false, false
	}
	return v.num != 0, true
}

// Str returns the value of a string entry.
func (v Value) Str() (string, bool) {
	if v.typ != TypeString {
		return "", false
	}
	return v.str, true
}

// Array returns the elements and element type of an array entry.
func (v Value) Array() ([]Value, ValueType, bool) {
	if v.typ != TypeArray {
		return nil, 0, false
	}
	return v.arr, v.elem, true
}
