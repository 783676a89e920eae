package ndarray

import (
	"math"
	"reflect"
)

// Array builds a contiguous view from a nested Go slice literal, inferring
// the shape and the narrowest type that holds every leaf. Jagged literals are
// rejected. An empty literal yields shape (0,) of type Any; a non-slice value
// yields a scalar view.
func Array(literal any) (*NDView, error) {
	shape, leaves, err := flattenLiteral(literal)
	if err != nil {
		return nil, err
	}
	return fromLeaves(shape, leaves, literalType(leaves))
}

// ArrayOf is Array with an explicit element type. Leaves are converted
// without an assignability check.
func ArrayOf(literal any, dt DataType) (*NDView, error) {
	shape, leaves, err := flattenLiteral(literal)
	if err != nil {
		return nil, err
	}
	return fromLeaves(shape, leaves, dt)
}

// Zeros allocates a zero-filled view.
func Zeros(dt DataType, shape ...int) (*NDView, error) {
	return New(dt, shape...)
}

// Ones allocates a view filled with ones.
func Ones(dt DataType, shape ...int) (*NDView, error) {
	return Full(dt, 1, shape...)
}

// Full allocates a view with every element set to value, converted to dt.
func Full(dt DataType, value any, shape ...int) (*NDView, error) {
	out, err := New(dt, shape...)
	if err != nil {
		return nil, err
	}
	x, err := Convert(value, dt)
	if err != nil {
		return nil, err
	}
	fill(out, x)
	return out, nil
}

// Arange returns the values start, start+step, ... below stop (above it
// for a negative step) converted to dt.
func Arange(start, stop, step float64, dt DataType) (*NDView, error) {
	if step == 0 || math.IsNaN(step) {
		return nil, boundsErrorf("arange step must be non-zero, got %v", step)
	}
	n := int(math.Max(0, math.Ceil((stop-start)/step)))
	out, err := New(dt, n)
	if err != nil {
		return nil, err
	}
	st := out.buf.Storage()
	for i := 0; i < n; i++ {
		x, err := Convert(start+float64(i)*step, dt)
		if err != nil {
			return nil, err
		}
		st.SetAt(i, x)
	}
	return out, nil
}

func fromLeaves(shape Shape, leaves []any, dt DataType) (*NDView, error) {
	out, err := New(dt, shape...)
	if err != nil {
		return nil, err
	}
	st := out.buf.Storage()
	for i, leaf := range leaves {
		x, err := Convert(leaf, dt)
		if err != nil {
			return nil, err
		}
		st.SetAt(i, x)
	}
	return out, nil
}

func literalType(leaves []any) DataType {
	if len(leaves) == 0 {
		return Any
	}
	types := make([]DataType, len(leaves))
	for i, l := range leaves {
		types[i] = GuessType(l)
	}
	return BestGuess(types...)
}

// flattenLiteral returns the shape of a nested slice literal and its leaves
// in row-major order.
func flattenLiteral(literal any) (Shape, []any, error) {
	root := reflect.ValueOf(literal)

	var shape Shape
	for node := root; isSequence(node); {
		shape = append(shape, node.Len())
		if node.Len() == 0 {
			break
		}
		node = unwrap(node.Index(0))
	}

	leaves := make([]any, 0, shape.NumElements())
	var visit func(node reflect.Value, depth int) error
	visit = func(node reflect.Value, depth int) error {
		node = unwrap(node)
		if depth == len(shape) {
			if isSequence(node) {
				return &ShapeError{Op: "array", Expected: shape, Got: append(shape[:depth:depth], node.Len()), Details: "jagged literal"}
			}
			if !node.IsValid() {
				leaves = append(leaves, nil)
			} else {
				leaves = append(leaves, node.Interface())
			}
			return nil
		}
		if !isSequence(node) || node.Len() != shape[depth] {
			got := shape[:depth:depth]
			if isSequence(node) {
				got = append(got, node.Len())
			}
			return &ShapeError{Op: "array", Expected: shape, Got: got, Details: "jagged literal"}
		}
		for i := 0; i < node.Len(); i++ {
			if err := visit(node.Index(i), depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(root, 0); err != nil {
		return nil, nil, err
	}
	return shape, leaves, nil
}

func isSequence(v reflect.Value) bool {
	return v.IsValid() && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array)
}

func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	return v
}
