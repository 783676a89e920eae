package ufunc

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"

	"github.com/101arrowz/nadder/internal/ndarray"
)

// Arithmetic.
var (
	Add = New("add", 2, 1, 0, binaryOp{
		small: add[int64],
		i64:   infallible(add[int64]),
		u64:   infallible(add[uint64]),
		f64:   add[float64],
		c128:  add[complex128],
		rows:  func(dst, a, b []float64) { floats.AddTo(dst, a, b) },
	}.impls()...)

	Sub = New("sub", 2, 1, nil, binaryOp{
		small: sub[int64],
		i64:   infallible(sub[int64]),
		u64:   infallible(sub[uint64]),
		f64:   sub[float64],
		c128:  sub[complex128],
		rows:  func(dst, a, b []float64) { floats.SubTo(dst, a, b) },
	}.impls()...)

	Mul = New("mul", 2, 1, 1, binaryOp{
		small: mul[int64],
		i64:   infallible(mul[int64]),
		u64:   infallible(mul[uint64]),
		f64:   mul[float64],
		c128:  mul[complex128],
		rows:  func(dst, a, b []float64) { floats.MulTo(dst, a, b) },
	}.impls()...)

	// FloorDiv rounds toward negative infinity, except for 64-bit integers
	// which truncate.
	FloorDiv = New("fdiv", 2, 1, nil, binaryOp{
		small: floorDiv,
		i64:   truncDiv[int64],
		u64:   truncDiv[uint64],
		f64:   floatFloorDiv,
	}.impls()...)

	// Mod is the remainder with the sign of the dividend.
	Mod = New("mod", 2, 1, nil, binaryOp{
		small: remainder,
		i64:   truncMod[int64],
		u64:   truncMod[uint64],
		f64:   math.Mod,
	}.impls()...)

	// Pow computes narrow integer powers in float64; 64-bit integers use
	// exact wrapping multiplication and reject negative exponents.
	Pow = New("pow", 2, 1, nil, binaryOp{
		i64:  intPow[int64],
		u64:  intPow[uint64],
		f64:  floatPow,
		c128: cmplx.Pow,
	}.impls()...)

	// Div is true division. Float32 is kept only when the other operand
	// fits in it.
	Div = New("div", 2, 1, nil,
		Impl{
			In:   []ndarray.DataType{smallFloat, ndarray.Float32},
			Out:  []ndarray.DataType{ndarray.Float32},
			Cast: []ndarray.DataType{ndarray.Float64, ndarray.Float64},
			Fn:   binary(divide[float64]),
		},
		Impl{
			In:   []ndarray.DataType{ndarray.Float32, smallFloat},
			Out:  []ndarray.DataType{ndarray.Float32},
			Cast: []ndarray.DataType{ndarray.Float64, ndarray.Float64},
			Fn:   binary(divide[float64]),
		},
		Impl{
			In:      []ndarray.DataType{realTypes, realTypes},
			Out:     []ndarray.DataType{ndarray.Float64},
			Cast:    []ndarray.DataType{ndarray.Float64, ndarray.Float64},
			Fn:      binary(divide[float64]),
			Float64: func(dst, a, b []float64) { floats.DivTo(dst, a, b) },
		},
		binaryImpl(numericTypes, ndarray.Complex, ndarray.Complex, binary(divide[complex128])),
	)
)

func divide[T float64 | complex128](a, b T) T { return a / b }

// Bitwise operators accept integer types only.
var (
	BitAnd = New("bitand", 2, 1, -1, binaryOp{
		small: bitAnd[int64],
		i64:   infallible(bitAnd[int64]),
		u64:   infallible(bitAnd[uint64]),
	}.impls()...)

	BitOr = New("bitor", 2, 1, 0, binaryOp{
		small: bitOr[int64],
		i64:   infallible(bitOr[int64]),
		u64:   infallible(bitOr[uint64]),
	}.impls()...)

	BitXor = New("bitxor", 2, 1, 0, binaryOp{
		small: bitXor[int64],
		i64:   infallible(bitXor[int64]),
		u64:   infallible(bitXor[uint64]),
	}.impls()...)

	Shl = New("shl", 2, 1, nil, binaryOp{
		small: shiftLeft32,
		i64:   shiftLeft64[int64],
		u64:   shiftLeft64[uint64],
	}.impls()...)

	// Shr shifts signed types arithmetically and unsigned types logically.
	Shr = New("shr", 2, 1, nil, binaryOp{
		small: shiftRight32,
		i64:   shiftRight64[int64],
		u64:   shiftRight64[uint64],
	}.impls()...)

	BitNot = New("bitnot", 1, 1, nil, append(
		[]Impl{unaryImpl(ndarray.Bool|ndarray.Int8, ndarray.Int8, ndarray.Int64, unary(bitNot[int64]))},
		unaryOp{small: bitNot[int64], i64: bitNot[int64], u64: bitNot[uint64]}.same(intSelfTypes...)...,
	)...)
)

// Sign and magnitude.
var (
	// Abs keeps the input type; complex magnitudes are float64.
	Abs = New("abs", 1, 1, nil, append(append(
		[]Impl{unaryImpl(ndarray.Bool, ndarray.Bool, ndarray.Bool, unary(identity[bool]))},
		unaryOp{small: absInt, i64: absInt, u64: absUint, f64: math.Abs}.same(selfTypes[:len(selfTypes)-1]...)...),
		unaryImpl(ndarray.Complex, ndarray.Float64, ndarray.Complex, unary(cmplx.Abs)),
	)...)

	Conj = New("conj", 1, 1, nil, append(
		[]Impl{unaryImpl(ndarray.Bool|ndarray.Int8, ndarray.Int8, ndarray.Int64, unary(identity[int64]))},
		unaryOp{
			small: identity[int64],
			i64:   identity[int64],
			u64:   identity[uint64],
			f64:   identity[float64],
			c128:  cmplx.Conj,
		}.same(selfTypes[1:]...)...,
	)...)

	Pos = New("pos", 1, 1, nil, unaryOp{
		small: identity[int64],
		i64:   identity[int64],
		u64:   identity[uint64],
		f64:   identity[float64],
		c128:  identity[complex128],
	}.same(selfTypes...)...)

	Neg = New("neg", 1, 1, nil, unaryOp{
		small: negate[int64],
		i64:   negate[int64],
		u64:   negate[uint64],
		f64:   negate[float64],
		c128:  negate[complex128],
	}.same(selfTypes...)...)
)

// Transcendental functions produce float32 for narrow inputs, float64 for
// wider ones and complex for complex.
var (
	Sqrt  = New("sqrt", 1, 1, nil, floatImpls(math.Sqrt, cmplx.Sqrt)...)
	Exp   = New("exp", 1, 1, nil, floatImpls(math.Exp, cmplx.Exp)...)
	Exp2  = New("exp2", 1, 1, nil, floatImpls(math.Exp2, complexExp2)...)
	Expm1 = New("expm1", 1, 1, nil, floatImpls(math.Expm1, complexExpm1)...)
	Sin   = New("sin", 1, 1, nil, floatImpls(math.Sin, cmplx.Sin)...)
	Cos   = New("cos", 1, 1, nil, floatImpls(math.Cos, cmplx.Cos)...)
	Tan   = New("tan", 1, 1, nil, floatImpls(math.Tan, cmplx.Tan)...)
)

func complexExp2(a complex128) complex128 { return cmplx.Exp(a * math.Ln2) }

func complexExpm1(a complex128) complex128 { return cmplx.Exp(a) - 1 }
