package ufunc

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"

	"github.com/101arrowz/nadder/internal/ndarray"
)

// Kernel computes one element. in holds the operands after conversion to
// the Impl's cast types; the kernel writes one value per output into out.
type Kernel func(in, out []any) error

type number interface {
	constraints.Integer | constraints.Float | constraints.Complex
}

func unary[T, R any](f func(T) R) Kernel {
	return func(in, out []any) error {
		out[0] = f(in[0].(T))
		return nil
	}
}

func unaryErr[T, R any](f func(T) (R, error)) Kernel {
	return func(in, out []any) error {
		r, err := f(in[0].(T))
		if err != nil {
			return err
		}
		out[0] = r
		return nil
	}
}

func binary[T, R any](f func(a, b T) R) Kernel {
	return func(in, out []any) error {
		out[0] = f(in[0].(T), in[1].(T))
		return nil
	}
}

func binaryErr[T, R any](f func(a, b T) (R, error)) Kernel {
	return func(in, out []any) error {
		r, err := f(in[0].(T), in[1].(T))
		if err != nil {
			return err
		}
		out[0] = r
		return nil
	}
}

// Errors raised by 64-bit integer kernels. Narrower integer types follow
// float semantics instead and store 0.
var (
	errZeroDivision = fmt.Errorf("%w: integer division by zero", ndarray.ErrBounds)
	errNegativePow  = fmt.Errorf("%w: negative integer exponent", ndarray.ErrBounds)
)

func add[T number](a, b T) T { return a + b }
func sub[T number](a, b T) T { return a - b }
func mul[T number](a, b T) T { return a * b }

func identity[T any](a T) T  { return a }
func negate[T number](a T) T { return -a }

func bitAnd[T constraints.Integer](a, b T) T { return a & b }
func bitOr[T constraints.Integer](a, b T) T  { return a | b }
func bitXor[T constraints.Integer](a, b T) T { return a ^ b }
func bitNot[T constraints.Integer](a T) T    { return ^a }

func greater[T constraints.Ordered](a, b T) bool      { return a > b }
func greaterEqual[T constraints.Ordered](a, b T) bool { return a >= b }
func less[T constraints.Ordered](a, b T) bool         { return a < b }
func lessEqual[T constraints.Ordered](a, b T) bool    { return a <= b }

func equal[T comparable](a, b T) bool    { return a == b }
func notEqual[T comparable](a, b T) bool { return a != b }

// truncDiv divides 64-bit integers, rounding toward zero.
func truncDiv[T constraints.Integer](a, b T) (T, error) {
	if b == 0 {
		return 0, errZeroDivision
	}
	return a / b, nil
}

func truncMod[T constraints.Integer](a, b T) (T, error) {
	if b == 0 {
		return 0, errZeroDivision
	}
	return a % b, nil
}

// floorDiv divides narrow integers held in an int64, rounding toward
// negative infinity. Division by zero yields 0.
func floorDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// remainder keeps the sign of the dividend. Division by zero yields 0.
func remainder(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return a % b
}

// intPow raises a to b with wrapping multiplication.
func intPow[T constraints.Integer](a, b T) (T, error) {
	if b < 0 {
		return 0, errNegativePow
	}
	r := T(1)
	for ; b > 0; b >>= 1 {
		if b&1 != 0 {
			r *= a
		}
		a *= a
	}
	return r, nil
}

func floatPow(a, b float64) float64 { return math.Pow(a, b) }

func floatFloorDiv(a, b float64) float64 { return math.Floor(a / b) }

// Shift counts are masked to the operand width.
func shiftLeft32(a, b int64) int64  { return a << (b & 31) }
func shiftRight32(a, b int64) int64 { return a >> (b & 31) }

func shiftLeft64[T constraints.Integer](a, b T) (T, error)  { return a << (b & 63), nil }
func shiftRight64[T constraints.Integer](a, b T) (T, error) { return a >> (b & 63), nil }

func absInt(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

func absUint(a uint64) uint64 { return a }

func logicalAnd(a, b bool) bool { return a && b }
func logicalOr(a, b bool) bool  { return a || b }
func logicalXor(a, b bool) bool { return a != b }
func logicalNot(a bool) bool    { return !a }

// looseEqual compares boxed values. Numbers compare by value across types;
// everything else must be identical.
func looseEqual(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		x, _ := ndarray.Convert(a, ndarray.Complex)
		y, _ := ndarray.Convert(b, ndarray.Complex)
		return x == y
	}
	return comparableEqual(a, b)
}

func looseNotEqual(a, b any) bool { return !looseEqual(a, b) }

func isNumber(v any) bool {
	switch v.(type) {
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64, complex64, complex128:
		return true
	}
	return false
}

// comparableEqual is a == b that reports false instead of panicking on
// uncomparable dynamic types.
func comparableEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
