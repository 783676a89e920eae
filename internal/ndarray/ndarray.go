package ndarray

import (
	"github.com/x448/float16"

	"github.com/101arrowz/nadder/internal/container"
)

// NDView is an N-dimensional strided view over a Buffer.
//
// The element at multi-index idx lives at offset + Σ idx[i]*stride[i] in the
// buffer. Strides are in elements, may be negative, and are 0 on broadcast
// axes. A view with no axes is a scalar.
type NDView struct {
	buf    *Buffer
	shape  Shape
	stride []int
	offset int
}

// New allocates a zero-filled contiguous view.
func New(dt DataType, shape ...int) (*NDView, error) {
	s := Shape(shape)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &NDView{
		buf:    NewBuffer(dt, s.NumElements()),
		shape:  s.Clone(),
		stride: s.ComputeStrides(),
	}, nil
}

// Wrap views existing storage (see WrapBuffer) with the given shape. With no
// shape the result is one-dimensional.
func Wrap(data any, shape ...int) (*NDView, error) {
	buf, err := WrapBuffer(data)
	if err != nil {
		return nil, err
	}
	return FromBuffer(buf, shape...)
}

// FromBuffer returns a contiguous view over buf.
func FromBuffer(buf *Buffer, shape ...int) (*NDView, error) {
	s := Shape(shape)
	if len(shape) == 0 {
		s = Shape{buf.Len()}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.NumElements() != buf.Len() {
		return nil, &ShapeError{Op: "wrap", Expected: Shape{buf.Len()}, Got: s, Details: "size does not match buffer length"}
	}
	return &NDView{buf: buf, shape: s.Clone(), stride: s.ComputeStrides()}, nil
}

// NewView builds a view with explicit layout. Every reachable position must
// lie inside the buffer.
func NewView(buf *Buffer, shape Shape, stride []int, offset int) (*NDView, error) {
	if len(shape) != len(stride) {
		return nil, shapeErrorf("view: %d strides for %d dimensions", len(stride), len(shape))
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() > 0 {
		lo, hi := offset, offset
		for i, d := range shape {
			if ext := (d - 1) * stride[i]; ext < 0 {
				lo += ext
			} else {
				hi += ext
			}
		}
		if lo < 0 || hi >= buf.Len() {
			return nil, boundsErrorf("view: positions [%d, %d] outside buffer of length %d", lo, hi, buf.Len())
		}
	}
	return &NDView{buf: buf, shape: shape.Clone(), stride: append([]int(nil), stride...), offset: offset}, nil
}

// Shape returns a copy of the dimensions.
func (v *NDView) Shape() Shape { return v.shape.Clone() }

// Strides returns a copy of the per-axis strides.
func (v *NDView) Strides() []int { return append([]int(nil), v.stride...) }

// Offset returns the buffer position of the first element.
func (v *NDView) Offset() int { return v.offset }

// DType returns the element type.
func (v *NDView) DType() DataType { return v.buf.dtype }

// Buffer returns the backing buffer.
func (v *NDView) Buffer() *Buffer { return v.buf }

// NDim returns the number of axes.
func (v *NDView) NDim() int { return len(v.shape) }

// Size returns the number of elements.
func (v *NDView) Size() int { return v.shape.NumElements() }

// Contiguous reports whether the view covers its elements in row-major
// order with no gaps.
func (v *NDView) Contiguous() bool {
	expect := 1
	for i := len(v.shape) - 1; i >= 0; i-- {
		if v.shape[i] == 1 {
			continue
		}
		if v.stride[i] != expect {
			return false
		}
		expect *= v.shape[i]
	}
	return true
}

func (v *NDView) view(shape Shape, stride []int, offset int) *NDView {
	return &NDView{buf: v.buf, shape: shape, stride: stride, offset: offset}
}

// position resolves a multi-index, wrapping negative entries.
func (v *NDView) position(idx []int) (int, error) {
	if len(idx) != len(v.shape) {
		return 0, boundsErrorf("expected %d indices, got %d", len(v.shape), len(idx))
	}
	pos := v.offset
	for i, x := range idx {
		n := v.shape[i]
		if x < 0 {
			x += n
		}
		if x < 0 || x >= n {
			return 0, boundsErrorf("index %d out of bounds for axis %d with length %d", idx[i], i, n)
		}
		pos += x * v.stride[i]
	}
	return pos, nil
}

// At returns the element at idx.
func (v *NDView) At(idx ...int) (any, error) {
	pos, err := v.position(idx)
	if err != nil {
		return nil, err
	}
	return v.buf.Storage().At(pos), nil
}

// SetAt stores value at idx, with the same typing rules as Set.
func (v *NDView) SetAt(value any, idx ...int) error {
	pos, err := v.position(idx)
	if err != nil {
		return err
	}
	x, err := coerceScalar(value, v.DType())
	if err != nil {
		return err
	}
	v.buf.Storage().SetAt(pos, x)
	return nil
}

// Item returns the only element of a single-element view.
func (v *NDView) Item() (any, error) {
	if v.Size() != 1 {
		return nil, shapeErrorf("item: view of shape %s has %d elements", v.shape, v.Size())
	}
	return v.buf.Storage().At(v.offset), nil
}

// Values returns the elements in row-major order.
func (v *NDView) Values() []any {
	out := make([]any, 0, v.Size())
	st := v.buf.Storage()
	_ = Walk(v.shape, [][]int{v.stride}, []int{v.offset}, func(pos []int) error {
		out = append(out, st.At(pos[0]))
		return nil
	})
	return out
}

// ToSlice returns the elements as nested []any slices, or the element itself
// for a scalar view.
func (v *NDView) ToSlice() any {
	st := v.buf.Storage()
	var build func(dim, pos int) any
	build = func(dim, pos int) any {
		if dim == len(v.shape) {
			return st.At(pos)
		}
		out := make([]any, v.shape[dim])
		for i := range out {
			out[i] = build(dim+1, pos+i*v.stride[dim])
		}
		return out
	}
	return build(0, v.offset)
}

// Data returns the elements as flat contiguous storage, sharing the buffer
// when the view already covers it exactly.
func (v *NDView) Data() container.Storage {
	if v.Contiguous() {
		return v.buf.Storage().Slice(v.offset, v.offset+v.Size())
	}
	return v.Flatten().buf.Storage()
}

// Float16s exports a real-valued view as half-precision floats.
func (v *NDView) Float16s() ([]float16.Float16, error) {
	if v.DType()&(Real|BigInt|Bool) == 0 {
		return nil, typeErrorf("cannot export %s as float16", v.DType())
	}
	vals := v.Values()
	out := make([]float16.Float16, len(vals))
	for i, x := range vals {
		f, err := toFloat(x)
		if err != nil {
			return nil, err
		}
		out[i] = float16.Fromfloat32(float32(f))
	}
	return out, nil
}

// WalkRows calls fn once per innermost row of shape, in row-major order.
// offs holds the buffer position of each operand at the start of the row,
// n the row length and inner each operand's stride along the row. For a
// scalar shape fn runs once with n == 1; for an empty shape it never runs.
// fn must not retain offs.
func WalkRows(shape []int, strides [][]int, offsets []int, fn func(offs []int, n int, inner []int) error) error {
	for _, d := range shape {
		if d == 0 {
			return nil
		}
	}
	nd := len(shape)
	offs := append([]int(nil), offsets...)
	inner := make([]int, len(strides))
	if nd == 0 {
		return fn(offs, 1, inner)
	}
	for k, s := range strides {
		inner[k] = s[nd-1]
	}
	n := shape[nd-1]
	idx := make([]int, nd-1)
	for {
		if err := fn(offs, n, inner); err != nil {
			return err
		}
		ax := nd - 2
		for ; ax >= 0; ax-- {
			idx[ax]++
			for k := range offs {
				offs[k] += strides[k][ax]
			}
			if idx[ax] < shape[ax] {
				break
			}
			for k := range offs {
				offs[k] -= strides[k][ax] * shape[ax]
			}
			idx[ax] = 0
		}
		if ax < 0 {
			return nil
		}
	}
}

// Walk calls fn with the buffer position of every operand for each element
// of shape in row-major order.
func Walk(shape []int, strides [][]int, offsets []int, fn func(pos []int) error) error {
	pos := make([]int, len(offsets))
	return WalkRows(shape, strides, offsets, func(offs []int, n int, inner []int) error {
		copy(pos, offs)
		for i := 0; i < n; i++ {
			if err := fn(pos); err != nil {
				return err
			}
			for k := range pos {
				pos[k] += inner[k]
			}
		}
		return nil
	})
}
