package ndarray

import (
	"strconv"
	"strings"
)

// Shape represents the dimensions of a view.
type Shape []int

// NumElements returns the total number of elements.
func (s Shape) NumElements() int {
	n := 1 // a scalar has one element
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that every dimension is non-negative.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return boundsErrorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String formats the shape as a tuple, e.g. (2, 3) or (4,).
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	if len(s) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ComputeStrides calculates row-major strides for the shape.
// stride[i] is the product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// BroadcastShapes returns the shape every operand broadcasts to.
//
// Shapes are right-aligned and missing leading axes count as 1. Per axis the
// target is the first length that is not 1; every operand must match it or
// be 1.
//
// Examples:
//
//	(3, 1) + (3, 5)   → (3, 5)
//	(5,)   + (2, 1)   → (2, 5)
//	(3, 4) + (3, 5)   → error
func BroadcastShapes(shapes ...Shape) (Shape, error) {
	ndim := 0
	for _, s := range shapes {
		ndim = max(ndim, len(s))
	}

	result := make(Shape, ndim)
	owner := make([]int, ndim)
	for i := range result {
		result[i] = 1
		owner[i] = -1
	}

	for k, s := range shapes {
		lead := ndim - len(s)
		for i, dim := range s {
			ax := lead + i
			switch {
			case dim == 1:
			case result[ax] == 1:
				result[ax] = dim
				owner[ax] = k
			case result[ax] != dim:
				return nil, &ShapeError{
					Op:       "broadcast",
					Expected: shapes[owner[ax]],
					Got:      s,
					Details:  "axis " + strconv.Itoa(ax) + ": " + strconv.Itoa(result[ax]) + " vs " + strconv.Itoa(dim),
				}
			}
		}
	}
	return result, nil
}

func contiguousStrides(shape []int) []int {
	return Shape(shape).ComputeStrides()
}
