// Copyright 2025 The nadder Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ufunc

import (
	"github.com/101arrowz/nadder/internal/ufunc"
)

// Ufunc is a named element-wise operation.
//
// Ufunc provides:
//   - Element-wise application via Call(), CallWith() and Apply()
//   - Folding along axes via Reduce()
//   - Running results via Accumulate()
//
// Example:
//
//	v, _ := ndarray.Arange(0, 4, 1, ndarray.Float64)
//	sq, _ := ufunc.Mul.Call(v, v)           // [0, 1, 4, 9]
//	total, _ := ufunc.Add.Reduce(v, ufunc.ReduceOptions{}) // 6.0
type Ufunc = ufunc.Ufunc

// Impl is one typed loop of a Ufunc.
type Impl = ufunc.Impl

// Kernel computes one element. in holds the converted inputs and out
// receives the results.
type Kernel = ufunc.Kernel

// Options controls a ufunc call.
type Options = ufunc.Options

// ReduceOptions controls Reduce.
type ReduceOptions = ufunc.ReduceOptions

// AccumulateOptions controls Accumulate.
type AccumulateOptions = ufunc.AccumulateOptions

// Arithmetic.
var (
	Add      = ufunc.Add
	Sub      = ufunc.Sub
	Mul      = ufunc.Mul
	Div      = ufunc.Div
	FloorDiv = ufunc.FloorDiv
	Mod      = ufunc.Mod
	Pow      = ufunc.Pow
)

// Bitwise operations on integers.
var (
	BitAnd = ufunc.BitAnd
	BitOr  = ufunc.BitOr
	BitXor = ufunc.BitXor
	BitNot = ufunc.BitNot
	Shl    = ufunc.Shl
	Shr    = ufunc.Shr
)

// Unary math.
var (
	Abs   = ufunc.Abs
	Conj  = ufunc.Conj
	Pos   = ufunc.Pos
	Neg   = ufunc.Neg
	Sqrt  = ufunc.Sqrt
	Exp   = ufunc.Exp
	Exp2  = ufunc.Exp2
	Expm1 = ufunc.Expm1
	Sin   = ufunc.Sin
	Cos   = ufunc.Cos
	Tan   = ufunc.Tan
)

// Comparison and logic. Results are Bool.
var (
	Gt  = ufunc.Gt
	Gte = ufunc.Gte
	Lt  = ufunc.Lt
	Lte = ufunc.Lte
	Eq  = ufunc.Eq
	Ne  = ufunc.Ne
	And = ufunc.And
	Or  = ufunc.Or
	Xor = ufunc.Xor
	Not = ufunc.Not
)

// New builds a ufunc from typed loops tried in order. identity is nil when
// the operation has none.
func New(name string, nin, nout int, identity any, impls ...Impl) *Ufunc {
	return ufunc.New(name, nin, nout, identity, impls...)
}

// Register makes u available to Lookup.
func Register(u *Ufunc) {
	ufunc.Register(u)
}

// Lookup returns the ufunc registered under name.
func Lookup(name string) (*Ufunc, bool) {
	return ufunc.Lookup(name)
}

// Names returns every registered name in sorted order.
func Names() []string {
	return ufunc.Names()
}
