// Copyright 2025 The nadder Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ndarray

import (
	"github.com/101arrowz/nadder/internal/foreign"
	"github.com/101arrowz/nadder/internal/ndarray"
)

// NDView is a strided view of a Buffer.
//
// NDView provides:
//   - Shape, stride and type information via Shape(), Strides(), DType()
//   - Element access via At(), SetAt(), Item() and Values()
//   - Zero-copy reshaping via Slice(), Index(), T(), Reshape(), BroadcastTo()
//   - Bulk writes via Set() and Copy()
//
// Example:
//
//	v, _ := ndarray.Arange(0, 6, 1, ndarray.Int32)
//	m, _ := v.Reshape(2, 3)
//	row, _ := m.Slice("-1")  // [3, 4, 5]
type NDView = ndarray.NDView

// Buffer is the reference-counted typed storage behind views.
type Buffer = ndarray.Buffer

// DataType identifies an element type, or a set of them.
type DataType = ndarray.DataType

// Shape is the length of every axis.
type Shape = ndarray.Shape

// ShapeError reports shapes that cannot be reconciled.
type ShapeError = ndarray.ShapeError

// AxisSpec is one entry of an index.
type AxisSpec = ndarray.AxisSpec

// Point selects a single position and removes the axis.
type Point = ndarray.Point

// Range selects a strided run of positions. None marks a default field.
type Range = ndarray.Range

// BoolLiteral inserts an axis of length 1 (true) or 0 (false).
type BoolLiteral = ndarray.BoolLiteral

// IntArray gathers positions listed by an integer view.
type IntArray = ndarray.IntArray

// BoolArray gathers positions where a boolean view is true.
type BoolArray = ndarray.BoolArray

// Allocator hands out foreign memory for buffers.
type Allocator = foreign.Allocator

// Arena is a growable Allocator backed by one host region.
type Arena = foreign.Arena

// Element types.
const (
	Int8         = ndarray.Int8
	Uint8        = ndarray.Uint8
	Uint8Clamped = ndarray.Uint8Clamped
	Int16        = ndarray.Int16
	Uint16       = ndarray.Uint16
	Int32        = ndarray.Int32
	Uint32       = ndarray.Uint32
	Float32      = ndarray.Float32
	Float64      = ndarray.Float64
	Complex      = ndarray.Complex
	Bool         = ndarray.Bool
	String       = ndarray.String
	Int64        = ndarray.Int64
	Uint64       = ndarray.Uint64
	Any          = ndarray.Any
)

// Type sets.
const (
	SmallInt = ndarray.SmallInt
	BigInt   = ndarray.BigInt
	Integer  = ndarray.Integer
	Float    = ndarray.Float
	Numeric  = ndarray.Numeric
	Real     = ndarray.Real
	AllTypes = ndarray.AllTypes
)

// None marks an omitted Range field.
const None = ndarray.None

// Error kinds.
var (
	ErrShape    = ndarray.ErrShape
	ErrType     = ndarray.ErrType
	ErrBounds   = ndarray.ErrBounds
	ErrProtocol = ndarray.ErrProtocol
	ErrSyntax   = ndarray.ErrSyntax
)

// Special axis specs.
var (
	Ellipsis = ndarray.Ellipsis
	NewAxis  = ndarray.NewAxis
	All      = ndarray.All
)

// DataTypes lists every element type in flag order.
var DataTypes = ndarray.DataTypes

// New returns a zero-filled contiguous array.
func New(dt DataType, shape ...int) (*NDView, error) {
	return ndarray.New(dt, shape...)
}

// Wrap views an existing Go slice without copying it.
func Wrap(data any, shape ...int) (*NDView, error) {
	return ndarray.Wrap(data, shape...)
}

// FromBuffer returns a contiguous view of buf.
func FromBuffer(buf *Buffer, shape ...int) (*NDView, error) {
	return ndarray.FromBuffer(buf, shape...)
}

// NewView returns an arbitrary strided view of buf. Every reachable index
// must lie inside the buffer.
func NewView(buf *Buffer, shape Shape, stride []int, offset int) (*NDView, error) {
	return ndarray.NewView(buf, shape, stride, offset)
}

// NewBuffer allocates a zeroed buffer.
func NewBuffer(dt DataType, length int) *Buffer {
	return ndarray.NewBuffer(dt, length)
}

// WrapBuffer adopts a Go slice as a buffer.
func WrapBuffer(data any) (*Buffer, error) {
	return ndarray.WrapBuffer(data)
}

// Array builds an array from a nested Go literal, guessing its type.
func Array(literal any) (*NDView, error) {
	return ndarray.Array(literal)
}

// ArrayOf builds an array of type dt from a nested Go literal.
func ArrayOf(literal any, dt DataType) (*NDView, error) {
	return ndarray.ArrayOf(literal, dt)
}

// Zeros returns an array of zeros.
func Zeros(dt DataType, shape ...int) (*NDView, error) {
	return ndarray.Zeros(dt, shape...)
}

// Ones returns an array of ones.
func Ones(dt DataType, shape ...int) (*NDView, error) {
	return ndarray.Ones(dt, shape...)
}

// Full returns an array filled with value.
func Full(dt DataType, value any, shape ...int) (*NDView, error) {
	return ndarray.Full(dt, value, shape...)
}

// Arange returns evenly spaced values in [start, stop).
func Arange(start, stop, step float64, dt DataType) (*NDView, error) {
	return ndarray.Arange(start, stop, step, dt)
}

// Broadcast stretches views to their common shape.
func Broadcast(views ...*NDView) ([]*NDView, error) {
	return ndarray.Broadcast(views...)
}

// BroadcastShapes returns the common shape of shapes.
func BroadcastShapes(shapes ...Shape) (Shape, error) {
	return ndarray.BroadcastShapes(shapes...)
}

// ParseIndex parses an index expression. $k refers to arrays[k].
func ParseIndex(expr string, arrays ...*NDView) ([]AxisSpec, error) {
	return ndarray.ParseIndex(expr, arrays...)
}

// ParseDataType returns the type with the given name.
func ParseDataType(name string) (DataType, error) {
	return ndarray.ParseDataType(name)
}

// IsAssignable reports whether src values may be stored in dst buffers.
func IsAssignable(dst, src DataType) bool {
	return ndarray.IsAssignable(dst, src)
}

// GuessType returns the narrowest type that holds v.
func GuessType(v any) DataType {
	return ndarray.GuessType(v)
}

// BestGuess returns a type every one of types is assignable to.
func BestGuess(types ...DataType) DataType {
	return ndarray.BestGuess(types...)
}

// Convert converts a scalar to the Go representation of dt.
func Convert(v any, dt DataType) (any, error) {
	return ndarray.Convert(v, dt)
}

// Span is the range [start, stop) with unit step.
func Span(start, stop int) Range {
	return ndarray.Span(start, stop)
}

// Arr turns an integer or boolean view into an array index.
func Arr(v *NDView) AxisSpec {
	return ndarray.Arr(v)
}

// NewArena returns an arena of size bytes that grows up to limit bytes.
func NewArena(size, limit int) *Arena {
	return foreign.NewArena(size, limit)
}

// SetDefaultAllocator installs the allocator used by new buffers when
// foreign memory is preferred.
func SetDefaultAllocator(a Allocator) {
	ndarray.SetDefaultAllocator(a)
}

// DefaultAllocator returns the installed allocator, or nil.
func DefaultAllocator() Allocator {
	return ndarray.DefaultAllocator()
}
