// Package ndarray implements strided N-dimensional views over flat typed
// buffers: construction, indexing, broadcasting, reshaping and assignment.
package ndarray

import (
	"fmt"
	"math"
	"strings"
)

// DataType identifies the element type of a buffer. Each member is a single
// bit, so a set of types is a mask and applicability is mask&dtype != 0.
type DataType uint16

// Supported data types. Declaration order matters: a numeric type accepts
// assignment from every numeric type declared before it.
const (
	Int8 DataType = 1 << iota
	Uint8
	Uint8Clamped
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
	Complex
	Bool
	String
	Int64
	Uint64
	Any
)

// Type masks.
const (
	SmallInt  = Int8 | Uint8 | Uint8Clamped | Int16 | Uint16 | Int32 | Uint32
	BigInt    = Int64 | Uint64
	Integer   = SmallInt | BigInt
	Float     = Float32 | Float64
	Numeric   = SmallInt | Float | Complex
	Real      = SmallInt | Float
	AllTypes  = Numeric | BigInt | Bool | String | Any
	fixedMask = Numeric | BigInt | Bool
)

// DataTypes lists every type in declaration order.
var DataTypes = []DataType{
	Int8, Uint8, Uint8Clamped, Int16, Uint16, Int32, Uint32, Float32, Float64,
	Complex, Bool, String, Int64, Uint64, Any,
}

var dataTypeNames = map[DataType]string{
	Int8:         "int8",
	Uint8:        "uint8",
	Uint8Clamped: "uint8-clamped",
	Int16:        "int16",
	Uint16:       "uint16",
	Int32:        "int32",
	Uint32:       "uint32",
	Float32:      "float32",
	Float64:      "float64",
	Complex:      "complex",
	Bool:         "bool",
	String:       "string",
	Int64:        "int64",
	Uint64:       "uint64",
	Any:          "object",
}

// String returns the canonical name of the data type.
func (dt DataType) String() string {
	if name, ok := dataTypeNames[dt]; ok {
		return name
	}
	return "unknown"
}

// ParseDataType looks a type up by its canonical name. "any" is accepted as
// an alias for "object".
func ParseDataType(name string) (DataType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "any" {
		return Any, nil
	}
	for _, dt := range DataTypes {
		if dataTypeNames[dt] == name {
			return dt, nil
		}
	}
	return 0, typeErrorf("unknown data type %q", name)
}

// Size returns the byte size of one element, or 0 for types without a
// fixed-width representation. Bool reports 1 although buffers pack eight
// values per byte.
func (dt DataType) Size() int {
	switch dt {
	case Int8, Uint8, Uint8Clamped, Bool:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Float64, Int64, Uint64:
		return 8
	case Complex:
		return 16
	default:
		return 0
	}
}

// FixedWidth reports whether the type has a byte representation that can
// live in foreign memory.
func (dt DataType) FixedWidth() bool {
	return dt&fixedMask != 0
}

// byteLength is the number of bytes n elements occupy.
func (dt DataType) byteLength(n int) int {
	if dt == Bool {
		return (n + 7) >> 3
	}
	return n * dt.Size()
}

// IsAssignable reports whether values of type src may be stored into a
// buffer of type dst without an explicit conversion.
func IsAssignable(dst, src DataType) bool {
	switch {
	case dst == src, dst == Any:
		return true
	case dst&BigInt != 0:
		return src&BigInt != 0
	case dst&Numeric != 0:
		return src == Bool || (src&Numeric != 0 && src <= dst)
	default:
		return false
	}
}

// GuessType returns the data type a Go value would naturally be stored as.
// An untyped int becomes Int32 when it fits and Float64 otherwise.
func GuessType(v any) DataType {
	switch x := v.(type) {
	case int:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return Int32
		}
		return Float64
	case int8:
		return Int8
	case uint8:
		return Uint8
	case int16:
		return Int16
	case uint16:
		return Uint16
	case int32:
		return Int32
	case uint32:
		return Uint32
	case int64:
		return Int64
	case uint64:
		return Uint64
	case uint:
		return Uint64
	case float32:
		return Float32
	case float64:
		return Float64
	case complex64, complex128:
		return Complex
	case bool:
		return Bool
	case string:
		return String
	default:
		return Any
	}
}

var guessOrder = []DataType{
	Bool, Int8, Uint8, Int16, Uint16, Int32, Uint32, Float32, Float64,
	Complex, Int64, Uint64, String, Any,
}

// BestGuess returns the narrowest type every one of types can be assigned to.
// A single distinct type is returned unchanged, and unsigned 64-bit inputs
// stay Uint64 unless a signed type is present.
func BestGuess(types ...DataType) DataType {
	var seen DataType
	for _, t := range types {
		seen |= t
	}
	if len(types) > 0 && seen == types[0] {
		return seen
	}
	unsigned := seen&Uint64 != 0 && seen&(Int8|Int16|Int32|Int64) == 0
	for _, candidate := range guessOrder {
		if candidate == Int64 && unsigned {
			continue
		}
		ok := true
		for _, t := range types {
			if !IsAssignable(candidate, t) {
				ok = false
				break
			}
		}
		if ok {
			return candidate
		}
	}
	return Any
}

func (dt DataType) mustKnown() {
	if _, ok := dataTypeNames[dt]; !ok {
		panic(fmt.Sprintf("ndarray: unknown data type %#x", uint16(dt)))
	}
}
