// Copyright 2025 The nadder Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ndarray provides typed n-dimensional arrays for Go.
//
// # Overview
//
// An NDView is a strided window onto a typed Buffer. This package provides:
//   - Fifteen element types, from Int8 to Complex, String and Any
//   - Zero-copy slicing, transposition, reshaping and broadcasting
//   - A textual index grammar ("1:, ::-1, ..., +")
//   - Integer and boolean array indexing (gathers)
//   - Reference-counted buffers that may live in foreign memory
//
// # Basic Usage
//
//	import "github.com/101arrowz/nadder/ndarray"
//
//	func main() {
//	    m, _ := ndarray.Array([][]float64{{1, 2, 3}, {4, 5, 6}})
//
//	    // Views share the buffer
//	    col, _ := m.Slice(":, 1")
//	    _ = col.Set(0.0)
//
//	    fmt.Println(m.Values()) // [1 0 3 4 0 6]
//	}
//
// # Data Types
//
// Data types are bit flags, so a set of types is a DataType too:
//   - Int8, Uint8, Uint8Clamped, Int16, Uint16, Int32, Uint32
//   - Int64, Uint64 (stored as int64 and uint64)
//   - Float32, Float64, Complex (complex128)
//   - Bool (packed bitset), String, Any
//
// IsAssignable reports whether a value of one type may be stored in a
// buffer of another without an explicit AsType.
//
// # Index Grammar
//
// Slice accepts a comma separated list of axis specs:
//
//	m.Slice("1")         // a point removes the axis
//	m.Slice("::-1")      // a range keeps it
//	m.Slice("..., 0")    // an ellipsis fills the remaining axes
//	m.Slice("+, :")      // + inserts an axis of length 1
//	m.Slice("$0", idx)   // $k refers to the k-th array argument
//
// Index takes the same specs as Go values (Point, Range, Ellipsis, NewAxis,
// Arr) for callers that build them programmatically.
//
// # Broadcasting
//
// Shapes are aligned from the right and axes of length 1 stretch:
//
//	a, _ := ndarray.Zeros(ndarray.Float32, 3, 1) // (3, 1)
//	b, _ := ndarray.Ones(ndarray.Float32, 4)     // (4)
//	views, _ := ndarray.Broadcast(a, b)          // (3, 4), (3, 4)
//
// # Errors
//
// Every error wraps one of ErrShape, ErrType, ErrBounds, ErrProtocol or
// ErrSyntax. Use errors.Is to classify them.
package ndarray
