// Package container provides the storage adapters that back typed buffers.
//
// Numeric dtypes are stored in plain Go slices. The adapters here cover the
// layouts that need more than a slice: bit-packed booleans, interleaved complex
// numbers, coerced strings and boxed values. Every adapter satisfies Storage,
// which is the only thing the array engine relies on.
package container

import "fmt"

// Storage is random access to a flat run of elements.
//
// At and SetAt panic on out-of-range indices, like slice access.
// Slice returns a view over [start, end) sharing the same memory.
type Storage interface {
	Len() int
	At(i int) any
	SetAt(i int, v any)
	Slice(start, end int) Storage
}

// AnyArray stores arbitrary boxed values.
type AnyArray []any

// Len returns the number of elements.
func (a AnyArray) Len() int { return len(a) }

// At returns the element at i.
func (a AnyArray) At(i int) any { return a[i] }

// SetAt stores v at i.
func (a AnyArray) SetAt(i int, v any) { a[i] = v }

// Slice returns a view over [start, end).
func (a AnyArray) Slice(start, end int) Storage { return a[start:end] }

func checkRange(i, n int, kind string) {
	if i < 0 || i >= n {
		panic(fmt.Sprintf("index %d out of range for %s of length %d", i, kind, n))
	}
}
