package gguf

import (
	"bytes"
	"encoding/binary"
	"math"
)

// KV is one metadata entry for Encode.
type KV struct {
	Key   string
	Value Value
}

// Exported Value constructors, mainly for building fixture files and for
// callers that assemble metadata programmatically.
func Uint32Val(v uint32) Value   { return uintValue(TypeUint32, uint64(v)) }
func Uint64Val(v uint64) Value   { return uintValue(TypeUint64, v) }
func Int32Val(v int32) Value     { return intValue(TypeInt32, int64(v)) }
func Float32Val(v float32) Value { return floatValue(TypeFloat32, float64(v)) }
func BoolVal(v bool) Value       { return boolValue(v) }
func StringVal(s string) Value   { return stringValue(s) }
func ArrayVal(elem ValueType, items ...Value) Value {
	return arrayValue(elem, items)
}

// Encode serializes a GGUF header and metadata section (version 3,
// little-endian). No tensor infos or tensor data are written; the result is
// exactly the prefix Parse consumes, which is all estimation and its tests
// ever need.
func Encode(tensorCount uint64, kvs []KV) []byte {
	var b bytes.Buffer
	writeU32(&b, magicLE)
	writeU32(&b, versionMax)
	writeU64(&b, tensorCount)
	writeU64(&b, uint64(len(kvs)))
	for _, kv := range kvs {
		writeString(&b, kv.Key)
		writeU32(&b, uint32(kv.Value.typ))
		writeValue(&b, kv.Value)
	}
	return b.Bytes()
}

func writeU32(b *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.Write(tmp[:])
}

func writeU64(b *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.Write(tmp[:])
}

func writeString(b *bytes.Buffer, s string) {
	writeU64(b, uint64(len(s)))
	b.WriteString(s)
}

func writeValue(b *bytes.Buffer, v Value) {
	switch v.typ {
	case TypeUint8, TypeInt8:
		b.WriteByte(byte(v.num))
	case TypeBool:
		b.WriteByte(byte(v.num))
	case TypeUint16, TypeInt16:
		var tmp [2]byte
		binary.LittleEndian.PutUint16(tmp[:], uint16(v.num))
		b.Write(tmp[:])
	case TypeUint32, TypeInt32:
		writeU32(b, uint32(v.num))
	case TypeFloat32:
		writeU32(b, math.Float32bits(float32(math.Float64frombits(v.num))))
	case TypeUint64, TypeInt64:
		writeU64(b, v.num)
	case TypeFloat64:
		writeU64(b, v.num)
	case TypeString:
		writeString(b, v.str)
	case TypeArray:
		writeU32(b, uint32(v.elem))
		writeU64(b, uint64(len(v.arr)))
		for _, item := range v.arr {
			writeValue(b, item)
		}
	}
}
