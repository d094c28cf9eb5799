package gguf

import (
	"encoding/binary"
	"math"
)

// GGUF magic, little-endian and byte-swapped (big-endian writers).
const (
	magicLE = 0x46554747 // "GGUF"
	magicBE = 0x47475546
)

// Supported format versions. Version 1 encodes counts and string lengths as
// uint32; versions 2 and 3 use uint64.
const (
	versionMin = 1
	versionMax = 3
)

// lengthSanityCap rejects string lengths and array extents that cannot be
// real before they overflow offset arithmetic. Anything merely large (but
// plausible) is handled by the caller's scan-size cap instead.
const lengthSanityCap = 1 << 40

// Parse decodes the GGUF header and metadata key/value section from a byte
// prefix. It is deterministic and stateless: a grown buffer is re-parsed
// from offset zero and always yields the same result for the same bytes.
//
// Return contract:
//   - st != nil: the metadata section was fully decoded (tensor layout is
//     deliberately not parsed; estimation does not need it).
//   - need > 0: the prefix ends mid-entry; need is the exact number of
//     additional bytes required to finish decoding the entry as far as the
//     encoding makes knowable from this prefix.
//   - err != nil: the buffer is malformed (FormatError), independent of how
//     many more bytes could be supplied.
func Parse(buf []byte) (st *Store, need int, err error) {
	c := &cursor{buf: buf}

	magic, ok := c.u32()
	if !ok {
		return nil, c.need, nil
	}
	switch magic {
	case magicLE:
	case magicBE:
		return nil, 0, ErrFormat("big-endian GGUF is not supported")
	default:
		return nil, 0, ErrFormat("bad magic 0x%08x", magic)
	}

	version, ok := c.u32()
	if !ok {
		return nil, c.need, nil
	}
	if version < versionMin || version > versionMax {
		return nil, 0, ErrFormat("unsupported version %d", version)
	}
	c.v1 = version == 1

	// Tensor count precedes the KV count in the header. The value itself is
	// unused here but must be consumed.
	if _, ok := c.count(); !ok {
		return nil, c.need, nil
	}
	kvCount, ok := c.count()
	if !ok {
		return nil, c.need, nil
	}
	if kvCount > lengthSanityCap {
		return nil, 0, ErrFormat("implausible metadata entry count %d", kvCount)
	}

	store := newStore(int(min64(kvCount, 1024)))
	for i := uint64(0); i < kvCount; i++ {
		key, ok, err := c.str()
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			return nil, c.need, nil
		}
		t, ok := c.u32()
		if !ok {
			return nil, c.need, nil
		}
		vt := ValueType(t)
		if vt >= typeCount {
			return nil, 0, ErrFormat("key %q: invalid value type %d", key, t)
		}
		v, ok, err := c.value(vt)
		if err != nil {
			return nil, 0, ErrFormat("key %q: %v", key, err)
		}
		if !ok {
			return nil, c.need, nil
		}
		store.set(key, v)
	}
	return store, 0, nil
}

// cursor walks a byte prefix. When a read runs past the end of the buffer it
// records the exact shortfall in need and fails; the cursor is then dead and
// the caller re-parses once the buffer has grown.
type cursor struct {
	buf  []byte
	off  int
	v1   bool
	need int
}

// want ensures n bytes are available at the current offset without
// consuming them.
func (c *cursor) want(n int) bool {
	if c.off+n > len(c.buf) {
		c.need = c.off + n - len(c.buf)
		return false
	}
	return true
}

func (c *cursor) take(n int) ([]byte, bool) {
	if !c.want(n) {
		return nil, false
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, true
}

func (c *cursor) u32() (uint32, bool) {
	b, ok := c.take(4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func (c *cursor) u64() (uint64, bool) {
	b, ok := c.take(8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

// count reads a length or count field: uint32 in v1 files, uint64 after.
func (c *cursor) count() (uint64, bool) {
	if c.v1 {
		v, ok := c.u32()
		return uint64(v), ok
	}
	return c.u64()
}

// str reads a length-prefixed string. On a short buffer the recorded need
// covers the remainder of the whole string, not just the next byte.
func (c *cursor) str() (string, bool, error) {
	l, ok := c.count()
	if !ok {
		return "", false, nil
	}
	if l > lengthSanityCap {
		return "", false, ErrFormat("implausible string length %d", l)
	}
	b, ok := c.take(int(l))
	if !ok {
		return "", false, nil
	}
	return string(b), true, nil
}

// value decodes one metadata value of the given type.
func (c *cursor) value(t ValueType) (Value, bool, error) {
	switch t {
	case TypeString:
		s, ok, err := c.str()
		if err != nil || !ok {
			return Value{}, ok, err
		}
		return stringValue(s), true, nil
	case TypeArray:
		return c.array()
	default:
		return c.scalar(t)
	}
}

func (c *cursor) scalar(t ValueType) (Value, bool, error) {
	b, ok := c.take(scalarWidth(t))
	if !ok {
		return Value{}, false, nil
	}
	switch t {
	case TypeUint8:
		return uintValue(t, uint64(b[0])), true, nil
	case TypeInt8:
		return intValue(t, int64(int8(b[0]))), true, nil
	case TypeUint16:
		return uintValue(t, uint64(binary.LittleEndian.Uint16(b))), true, nil
	case TypeInt16:
		return intValue(t, int64(int16(binary.LittleEndian.Uint16(b)))), true, nil
	case TypeUint32:
		return uintValue(t, uint64(binary.LittleEndian.Uint32(b))), true, nil
	case TypeInt32:
		return intValue(t, int64(int32(binary.LittleEndian.Uint32(b)))), true, nil
	case TypeUint64:
		return uintValue(t, binary.LittleEndian.Uint64(b)), true, nil
	case TypeInt64:
		return intValue(t, int64(binary.LittleEndian.Uint64(b))), true, nil
	case TypeFloat32:
		return floatValue(t, float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))), true, nil
	case TypeFloat64:
		return floatValue(t, math.Float64frombits(binary.LittleEndian.Uint64(b))), true, nil
	case TypeBool:
		return boolValue(b[0] != 0), true, nil
	}
	return Value{}, false, ErrFormat("invalid scalar type %d", t)
}

// array decodes a homogeneous array: element type, element count, then the
// elements. For fixed-width element types the whole extent is known up
// front, so a short buffer reports the exact bytes missing for the entire
// array in one step.
func (c *cursor) array() (Value, bool, error) {
	et, ok := c.u32()
	if !ok {
		return Value{}, false, nil
	}
	elem := ValueType(et)
	if elem >= typeCount {
		return Value{}, false, ErrFormat("invalid array element type %d", et)
	}
	if elem == TypeArray {
		return Value{}, false, ErrFormat("nested arrays are not supported")
	}
	n, ok := c.count()
	if !ok {
		return Value{}, false, nil
	}
	if n > lengthSanityCap {
		return Value{}, false, ErrFormat("implausible array length %d", n)
	}

	if w := scalarWidth(elem); w > 0 {
		total := int(n) * w
		if !c.want(total) {
			return Value{}, false, nil
		}
		items := make([]Value, n)
		for i := range items {
			v, _, err := c.scalar(elem)
			if err != nil {
				return Value{}, false, err
			}
			items[i] = v
		}
		return arrayValue(elem, items), true, nil
	}

	// String elements: lengths are only discoverable one element at a time.
	items := make([]Value, 0, min64(n, 4096))
	for i := uint64(0); i < n; i++ {
		s, ok, err := c.str()
		if err != nil || !ok {
			return Value{}, ok, err
		}
		items = append(items, stringValue(s))
	}
	return arrayValue(elem, items), true, nil
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
