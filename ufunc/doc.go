// Copyright 2025 The nadder Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ufunc provides universal functions over ndarray views.
//
// # Overview
//
// A Ufunc is an element-wise operation with a fixed number of inputs and
// outputs. Calling one:
//   - Broadcasts the inputs to a common shape
//   - Picks the first typed loop that accepts every input type
//   - Allocates outputs, or writes into the views passed as Options.Out
//   - Optionally skips positions where the Where mask is false
//
// # Basic Usage
//
//	import (
//	    "github.com/101arrowz/nadder/ndarray"
//	    "github.com/101arrowz/nadder/ufunc"
//	)
//
//	func main() {
//	    a, _ := ndarray.Array([][]int{{1}, {2}})
//	    sum, _ := ufunc.Add.Call(a, []int{10, 20}) // (2, 2) int32
//	    fmt.Println(sum)
//
//	    // Zero-dimensional results come back as Go values
//	    x, _ := ufunc.Mul.Call(3, 4) // int32(12)
//	}
//
// # Type Promotion
//
// Mixed inputs promote to the smallest type that holds both:
//
//	uint8 + int8    -> int16
//	int32 + uint32  -> int64
//	int32 + float32 -> float64
//	int64 + uint64  -> int64
//	int32 / int32   -> float64
//
// Options.DType overrides the choice when some loop can produce it.
//
// # Reductions
//
// Binary ufuncs fold along axes with Reduce and produce running results
// with Accumulate:
//
//	m, _ := ndarray.Array([][]int{{1, 2}, {3, 4}})
//	cols, _ := ufunc.Add.Reduce(m, ufunc.ReduceOptions{Axes: []int{0}}) // [4, 6]
//	run, _ := ufunc.Add.Accumulate(m, 1, ufunc.AccumulateOptions{})    // [[1, 3], [3, 7]]
//
// # Registry
//
// Every built-in ufunc is registered under its short name (add, fdiv, gt,
// ...). Lookup finds one and Register adds custom ufuncs built with New.
package ufunc
