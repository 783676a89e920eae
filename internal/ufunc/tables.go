package ufunc

import "github.com/101arrowz/nadder/internal/ndarray"

const (
	// Types that widen losslessly to float32.
	smallFloat = ndarray.Bool | ndarray.Int8 | ndarray.Uint8 | ndarray.Uint8Clamped |
		ndarray.Int16 | ndarray.Uint16 | ndarray.Float32

	unsignedTypes = ndarray.Bool | ndarray.Uint8 | ndarray.Uint8Clamped | ndarray.Uint16 |
		ndarray.Uint32 | ndarray.Uint64
	integerTypes = ndarray.Integer | ndarray.Bool
	realTypes    = ndarray.Real | ndarray.BigInt | ndarray.Bool
	numericTypes = realTypes | ndarray.Complex
)

// intEntries is the integer promotion table. The first entry whose mask
// holds both operand types decides the result type.
var intEntries = []struct{ mask, out ndarray.DataType }{
	{ndarray.Bool, ndarray.Bool},
	{ndarray.Bool | ndarray.Uint8, ndarray.Uint8},
	{ndarray.Bool | ndarray.Uint8 | ndarray.Uint8Clamped, ndarray.Uint8Clamped},
	{ndarray.Bool | ndarray.Int8, ndarray.Int8},
	{ndarray.Bool | ndarray.Uint8 | ndarray.Uint8Clamped | ndarray.Uint16, ndarray.Uint16},
	{ndarray.Bool | ndarray.Int8 | ndarray.Uint8 | ndarray.Uint8Clamped | ndarray.Int16, ndarray.Int16},
	{ndarray.Bool | ndarray.Uint8 | ndarray.Uint8Clamped | ndarray.Uint16 | ndarray.Uint32, ndarray.Uint32},
	{ndarray.Bool | ndarray.Int8 | ndarray.Uint8 | ndarray.Uint8Clamped | ndarray.Int16 | ndarray.Uint16 | ndarray.Int32, ndarray.Int32},
	{unsignedTypes, ndarray.Uint64},
	{integerTypes, ndarray.Int64},
}

// binaryOp defines a binary operator once per compute type. small handles
// Bool and the integer types up to 32 bits in an int64. A nil small sends
// those types through f64; a nil f64 or c128 drops the float or complex
// entries.
type binaryOp struct {
	small func(a, b int64) int64
	i64   func(a, b int64) (int64, error)
	u64   func(a, b uint64) (uint64, error)
	f64   func(a, b float64) float64
	c128  func(a, b complex128) complex128
	rows  func(dst, a, b []float64)
}

func (op binaryOp) impls() []Impl {
	impls := make([]Impl, 0, len(intEntries)+3)
	for _, e := range intEntries {
		impls = append(impls, op.intImpl(e.mask, e.out))
	}
	if op.f64 != nil {
		f64 := binaryImpl(realTypes, ndarray.Float64, ndarray.Float64, binary(op.f64))
		f64.Float64 = op.rows
		impls = append(impls, binaryImpl(smallFloat, ndarray.Float32, ndarray.Float64, binary(op.f64)), f64)
	}
	if op.c128 != nil {
		impls = append(impls, binaryImpl(numericTypes, ndarray.Complex, ndarray.Complex, binary(op.c128)))
	}
	return impls
}

func (op binaryOp) intImpl(mask, out ndarray.DataType) Impl {
	switch {
	case out == ndarray.Int64:
		return binaryImpl(mask, out, ndarray.Int64, binaryErr(op.i64))
	case out == ndarray.Uint64:
		return binaryImpl(mask, out, ndarray.Uint64, binaryErr(op.u64))
	case op.small == nil || out == ndarray.Uint8Clamped && op.f64 != nil:
		return binaryImpl(mask, out, ndarray.Float64, binary(op.f64))
	default:
		return binaryImpl(mask, out, ndarray.Int64, binary(op.small))
	}
}

func binaryImpl(mask, out, cast ndarray.DataType, fn Kernel) Impl {
	return Impl{
		In:   []ndarray.DataType{mask, mask},
		Out:  []ndarray.DataType{out},
		Cast: []ndarray.DataType{cast, cast},
		Fn:   fn,
	}
}

func unaryImpl(mask, out, cast ndarray.DataType, fn Kernel) Impl {
	return Impl{
		In:   []ndarray.DataType{mask},
		Out:  []ndarray.DataType{out},
		Cast: []ndarray.DataType{cast},
		Fn:   fn,
	}
}

// infallible adapts an operator that cannot fail to the 64-bit signature.
func infallible[T any](f func(a, b T) T) func(a, b T) (T, error) {
	return func(a, b T) (T, error) { return f(a, b), nil }
}

// unaryOp defines a unary operator once per compute type.
type unaryOp struct {
	small func(int64) int64
	i64   func(int64) int64
	u64   func(uint64) uint64
	f64   func(float64) float64
	c128  func(complex128) complex128
}

// same returns one entry per type mapping it to itself.
func (op unaryOp) same(types ...ndarray.DataType) []Impl {
	impls := make([]Impl, 0, len(types))
	for _, dt := range types {
		switch dt {
		case ndarray.Int64:
			impls = append(impls, unaryImpl(dt, dt, ndarray.Int64, unary(op.i64)))
		case ndarray.Uint64:
			impls = append(impls, unaryImpl(dt, dt, ndarray.Uint64, unary(op.u64)))
		case ndarray.Float32, ndarray.Float64:
			impls = append(impls, unaryImpl(dt, dt, ndarray.Float64, unary(op.f64)))
		case ndarray.Complex:
			impls = append(impls, unaryImpl(dt, dt, ndarray.Complex, unary(op.c128)))
		default:
			impls = append(impls, unaryImpl(dt, dt, ndarray.Int64, unary(op.small)))
		}
	}
	return impls
}

// floatImpls builds the table of a unary operator that always produces a
// floating-point or complex result.
func floatImpls(f func(float64) float64, c func(complex128) complex128) []Impl {
	return []Impl{
		unaryImpl(smallFloat, ndarray.Float32, ndarray.Float64, unary(f)),
		unaryImpl(realTypes, ndarray.Float64, ndarray.Float64, unary(f)),
		unaryImpl(numericTypes, ndarray.Complex, ndarray.Complex, unary(c)),
	}
}

// compareImpls builds the table of a relational operator. Unsigned operands
// compare as uint64, other integers as int64 and everything else real as
// float64.
func compareImpls(u func(a, b uint64) bool, i func(a, b int64) bool, f func(a, b float64) bool) []Impl {
	return []Impl{
		binaryImpl(unsignedTypes, ndarray.Bool, ndarray.Uint64, binary(u)),
		binaryImpl(integerTypes, ndarray.Bool, ndarray.Int64, binary(i)),
		binaryImpl(realTypes, ndarray.Bool, ndarray.Float64, binary(f)),
	}
}

var (
	selfTypes = []ndarray.DataType{
		ndarray.Int8, ndarray.Uint8, ndarray.Uint8Clamped, ndarray.Int16, ndarray.Uint16,
		ndarray.Int32, ndarray.Uint32, ndarray.Int64, ndarray.Uint64, ndarray.Float32,
		ndarray.Float64, ndarray.Complex,
	}
	intSelfTypes = []ndarray.DataType{
		ndarray.Uint8, ndarray.Uint8Clamped, ndarray.Int16, ndarray.Uint16,
		ndarray.Int32, ndarray.Uint32, ndarray.Int64, ndarray.Uint64,
	}
)
