package ndarray

import "math"

// None marks an omitted bound or step in a Range.
const None = math.MinInt

// AxisSpec selects along one or more axes of a view. The implementations are
// Point, Range, Ellipsis, NewAxis, BoolLiteral, IntArray and BoolArray.
type AxisSpec interface {
	axisSpec()
}

// Point fixes one axis at an index. Negative indices count from the end.
type Point int

// Range keeps the positions start, start+step, ... before stop along one
// axis. Any field may be None.
type Range struct {
	Start, Stop, Step int
}

// BoolLiteral inserts an axis of length 1 (true) or 0 (false).
type BoolLiteral bool

// IntArray gathers positions along one axis into the index's dimensions.
type IntArray struct{ View *NDView }

// BoolArray keeps the positions where the mask is true across as many axes
// as the mask has.
type BoolArray struct{ View *NDView }

type ellipsis struct{}

type newAxis struct{}

// Ellipsis expands to as many full ranges as the other specs leave unused.
var Ellipsis AxisSpec = ellipsis{}

// NewAxis inserts an axis of length 1.
var NewAxis AxisSpec = newAxis{}

// All is the full range of an axis.
var All = Range{None, None, None}

func (Point) axisSpec()       {}
func (Range) axisSpec()       {}
func (BoolLiteral) axisSpec() {}
func (IntArray) axisSpec()    {}
func (BoolArray) axisSpec()   {}
func (ellipsis) axisSpec()    {}
func (newAxis) axisSpec()     {}

// Span is shorthand for Range{start, stop, None}.
func Span(start, stop int) Range { return Range{start, stop, None} }

// Arr wraps an index array as IntArray or BoolArray depending on its type.
func Arr(v *NDView) AxisSpec {
	if v.DType() == Bool {
		return BoolArray{v}
	}
	return IntArray{v}
}

// resolve returns the first, step and length of the range over an axis of n.
func (r Range) resolve(n int) (start, step, length int, err error) {
	step = r.Step
	if step == None {
		step = 1
	}
	if step == 0 {
		return 0, 0, 0, boundsErrorf("slice step cannot be zero")
	}

	lo, hi := 0, n
	if step < 0 {
		lo, hi = -1, n-1
	}
	clamp := func(x, def int) int {
		if x == None {
			return def
		}
		if x < 0 {
			x += n
		}
		return min(max(x, lo), hi)
	}

	if step > 0 {
		start, stop := clamp(r.Start, 0), clamp(r.Stop, n)
		length = max(0, (stop-start+step-1)/step)
		return start, step, length, nil
	}
	start, stop := clamp(r.Start, n-1), clamp(r.Stop, -1)
	length = max(0, (start-stop-step-1)/-step)
	return start, step, length, nil
}

// fancy records an array index to apply once the basic view is built.
type fancy struct {
	axis  int // first covered axis in the basic view
	index *NDView
	mask  bool
}

// Index selects from v with structured axis specs. Points, ranges, new axes,
// boolean literals and the ellipsis produce a view sharing v's buffer; any
// IntArray or BoolArray makes the result a copy.
func (v *NDView) Index(specs ...AxisSpec) (*NDView, error) {
	specs, err := normalizeSpecs(specs)
	if err != nil {
		return nil, err
	}

	consumed := 0
	ellipses := 0
	for _, s := range specs {
		consumed += consumes(s)
		if s == Ellipsis {
			ellipses++
		}
	}
	if ellipses > 1 {
		return nil, syntaxErrorf("an index can only have a single ellipsis")
	}
	if consumed > len(v.shape) {
		return nil, boundsErrorf("too many indices: %d for a view with %d dimensions", consumed, len(v.shape))
	}

	shape := make(Shape, 0, len(v.shape))
	stride := make([]int, 0, len(v.shape))
	offset, ax, rest := v.offset, 0, consumed
	var arrays []fancy
	keep := func(k int) {
		for ; k > 0; k-- {
			shape = append(shape, v.shape[ax])
			stride = append(stride, v.stride[ax])
			ax++
		}
	}

	for _, s := range specs {
		switch s := s.(type) {
		case Point:
			n, i := v.shape[ax], int(s)
			if i < 0 {
				i += n
			}
			if i < 0 || i >= n {
				return nil, boundsErrorf("index %d out of bounds for axis %d with length %d", int(s), ax, n)
			}
			offset += i * v.stride[ax]
			ax++
			rest--
		case Range:
			start, step, length, err := s.resolve(v.shape[ax])
			if err != nil {
				return nil, err
			}
			if length > 0 {
				offset += start * v.stride[ax]
			}
			shape = append(shape, length)
			stride = append(stride, v.stride[ax]*step)
			ax++
			rest--
		case BoolLiteral:
			shape = append(shape, boolLen(bool(s)))
			stride = append(stride, 0)
		case IntArray:
			arrays = append(arrays, fancy{axis: len(shape), index: s.View})
			keep(1)
			rest--
		case BoolArray:
			arrays = append(arrays, fancy{axis: len(shape), index: s.View, mask: true})
			keep(s.View.NDim())
			rest -= s.View.NDim()
		default:
			switch s {
			case NewAxis:
				shape = append(shape, 1)
				stride = append(stride, 0)
			case Ellipsis:
				keep(len(v.shape) - ax - rest)
			}
		}
	}
	keep(len(v.shape) - ax)

	out := v.view(shape, stride, offset)
	// later arrays first so earlier axis positions stay valid
	for i := len(arrays) - 1; i >= 0; i-- {
		f := arrays[i]
		if f.mask {
			out, err = out.compress(f.axis, f.index)
		} else {
			out, err = out.take(f.axis, f.index)
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// normalizeSpecs turns scalar index arrays into their scalar forms and
// checks array types.
func normalizeSpecs(specs []AxisSpec) ([]AxisSpec, error) {
	out := make([]AxisSpec, len(specs))
	for i, s := range specs {
		out[i] = s
		switch a := s.(type) {
		case IntArray:
			if a.View.DType()&Integer == 0 {
				return nil, typeErrorf("array index must be integer or boolean, got %s", a.View.DType())
			}
			if a.View.NDim() == 0 {
				x, _ := a.View.Item()
				bits, err := toBits(x)
				if err != nil {
					return nil, err
				}
				out[i] = Point(int(int64(bits)))
			}
		case BoolArray:
			if a.View.DType() != Bool {
				return nil, typeErrorf("boolean index must be bool, got %s", a.View.DType())
			}
			if a.View.NDim() == 0 {
				x, _ := a.View.Item()
				out[i] = BoolLiteral(x.(bool))
			}
		case nil:
			return nil, syntaxErrorf("nil axis spec at position %d", i)
		}
	}
	return out, nil
}

func consumes(s AxisSpec) int {
	switch s := s.(type) {
	case Point, Range, IntArray:
		return 1
	case BoolArray:
		return s.View.NDim()
	default:
		return 0
	}
}

func boolLen(b bool) int {
	if b {
		return 1
	}
	return 0
}

// take gathers positions index along axis into a new contiguous view of
// shape pre + index.shape + post.
func (v *NDView) take(axis int, index *NDView) (*NDView, error) {
	n := v.shape[axis]
	positions := make([]int, 0, index.Size())
	for _, x := range index.Values() {
		bits, err := toBits(x)
		if err != nil {
			return nil, err
		}
		i := int(int64(bits))
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return nil, boundsErrorf("index %d out of bounds for axis %d with length %d", int(int64(bits)), axis, n)
		}
		positions = append(positions, i)
	}

	pre, post := v.shape[:axis], v.shape[axis+1:]
	outShape := concatShapes(pre, index.shape, post)
	out, err := New(v.DType(), outShape...)
	if err != nil {
		return nil, err
	}

	srcShape := concatShapes(pre, post)
	srcStride := append(append([]int(nil), v.stride[:axis]...), v.stride[axis+1:]...)
	dstStride := append(append([]int(nil), out.stride[:axis]...), out.stride[axis+index.NDim():]...)
	idxStride := out.stride[axis : axis+index.NDim()]

	j := 0
	err = Walk(index.shape, [][]int{idxStride}, []int{0}, func(dpos []int) error {
		src := v.view(srcShape, srcStride, v.offset+positions[j]*v.stride[axis])
		dst := out.view(srcShape, dstStride, dpos[0])
		j++
		return copyInto(dst, src)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// compress keeps the positions where mask is true across the mask's axes,
// starting at axis, collapsing them into one axis.
func (v *NDView) compress(axis int, mask *NDView) (*NDView, error) {
	k := mask.NDim()
	covered := v.shape[axis : axis+k]
	if !Shape(covered).Equal(mask.shape) {
		return nil, &ShapeError{Op: "boolean index", Expected: Shape(covered).Clone(), Got: mask.Shape()}
	}

	var offsets []int
	mst := mask.buf.Storage()
	err := Walk(mask.shape, [][]int{mask.stride, v.stride[axis : axis+k]}, []int{mask.offset, 0}, func(pos []int) error {
		if mst.At(pos[0]).(bool) {
			offsets = append(offsets, pos[1])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	pre, post := v.shape[:axis], v.shape[axis+k:]
	out, err := New(v.DType(), concatShapes(pre, Shape{len(offsets)}, post)...)
	if err != nil {
		return nil, err
	}

	srcShape := concatShapes(pre, post)
	srcStride := append(append([]int(nil), v.stride[:axis]...), v.stride[axis+k:]...)
	dstStride := append(append([]int(nil), out.stride[:axis]...), out.stride[axis+1:]...)
	for c, off := range offsets {
		src := v.view(srcShape, srcStride, v.offset+off)
		dst := out.view(srcShape, dstStride, c*out.stride[axis])
		if err := copyInto(dst, src); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func concatShapes(parts ...Shape) Shape {
	out := make(Shape, 0, 8)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
