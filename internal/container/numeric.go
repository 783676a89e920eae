package container

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Number is any fixed-width real element type.
type Number interface {
	constraints.Integer | constraints.Float
}

// Numeric adapts a plain Go slice to Storage.
type Numeric[T Number] []T

// Len returns the number of elements.
func (a Numeric[T]) Len() int { return len(a) }

// At returns the element at i.
func (a Numeric[T]) At(i int) any { return a[i] }

// SetAt stores v at i. v must already have the element type; conversion is
// the caller's job.
func (a Numeric[T]) SetAt(i int, v any) {
	x, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("numeric array of %T: cannot store %T", x, v))
	}
	a[i] = x
}

// Slice returns a view over [start, end).
func (a Numeric[T]) Slice(start, end int) Storage { return a[start:end] }
