package ufunc

import (
	"fmt"

	"github.com/101arrowz/nadder/internal/ndarray"
)

// ReduceOptions controls Reduce.
type ReduceOptions struct {
	// Axes to reduce. nil reduces every axis; negative entries count from
	// the end.
	Axes []int

	// KeepDims leaves each reduced axis in place with length 1.
	KeepDims bool

	// Initial seeds every reduction instead of the ufunc's identity.
	Initial any

	// Where masks the input; masked elements do not contribute. A mask
	// requires an identity or Initial.
	Where any

	// DType requests an output type.
	DType ndarray.DataType

	// Out receives the result.
	Out *ndarray.NDView
}

// Reduce folds v along the requested axes with a binary ufunc. The seed is
// Initial, else the identity, else the first element along the only reduced
// axis. A zero-dimensional result is returned as its element, anything else
// as a view.
func (u *Ufunc) Reduce(v *ndarray.NDView, opts ReduceOptions) (any, error) {
	if err := u.binaryOnly("reduce"); err != nil {
		return nil, err
	}
	shape := v.Shape()
	reduced, err := normalizeAxes(opts.Axes, len(shape))
	if err != nil {
		return nil, fmt.Errorf("%s.reduce: %w", u.name, err)
	}
	seed := opts.Initial
	if seed == nil {
		seed = u.identity
	}

	mask, skip, err := whereMask(opts.Where)
	if err != nil {
		return nil, fmt.Errorf("%s.reduce: %w", u.name, err)
	}
	if (mask != nil || skip) && seed == nil {
		return nil, fmt.Errorf("%w: %s.reduce: a where mask needs an identity or an initial value", ndarray.ErrProtocol, u.name)
	}
	if mask != nil {
		if mask, err = mask.BroadcastTo(shape...); err != nil {
			return nil, err
		}
	}

	nReduced := 0
	for ax, r := range reduced {
		if !r {
			continue
		}
		nReduced++
		if shape[ax] == 0 && seed == nil {
			return nil, fmt.Errorf("%w: %s.reduce: empty axis %d has no identity", ndarray.ErrProtocol, u.name, ax)
		}
	}
	if nReduced > 1 && seed == nil {
		return nil, fmt.Errorf("%w: %s.reduce: reducing %d axes at once needs an identity or an initial value", ndarray.ErrProtocol, u.name, nReduced)
	}

	dt := v.DType()
	impl, err := u.resolve([]ndarray.DataType{dt, dt}, opts.DType)
	if err != nil {
		return nil, err
	}
	outDT := u.outTypes(impl, opts.DType)[0]

	var kept, final ndarray.Shape
	for ax, d := range shape {
		switch {
		case !reduced[ax]:
			kept = append(kept, d)
			final = append(final, d)
		case opts.KeepDims:
			final = append(final, 1)
		}
	}
	out := opts.Out
	if out == nil {
		if out, err = ndarray.New(outDT, final...); err != nil {
			return nil, err
		}
	} else if _, err := u.outputs([]*ndarray.NDView{out}, []ndarray.DataType{outDT}, final); err != nil {
		return nil, err
	}

	// core is out without its reduced axes; acc spans v's shape with stride
	// 0 along the reduced axes.
	outStride := out.Strides()
	var coreStride []int
	accStride := make([]int, len(shape))
	j := 0
	for ax := range shape {
		if reduced[ax] {
			if opts.KeepDims {
				j++
			}
			continue
		}
		coreStride = append(coreStride, outStride[j])
		accStride[ax] = outStride[j]
		j++
	}
	core, err := ndarray.NewView(out.Buffer(), kept, coreStride, out.Offset())
	if err != nil {
		return nil, err
	}

	src := v
	switch {
	case seed != nil:
		fill, err := ndarray.Full(outDT, seed)
		if err != nil {
			return nil, err
		}
		if err := core.Copy(fill); err != nil {
			return nil, err
		}
	case nReduced == 0:
		if err := core.Copy(v); err != nil {
			return nil, err
		}
		skip = true
	default:
		ax := firstTrue(reduced)
		specs := make([]ndarray.AxisSpec, ax+1)
		for i := range specs {
			specs[i] = ndarray.All
		}
		specs[ax] = ndarray.Point(0)
		first, err := v.Index(specs...)
		if err != nil {
			return nil, err
		}
		if err := core.Copy(first); err != nil {
			return nil, err
		}
		specs[ax] = ndarray.Range{Start: 1, Stop: ndarray.None, Step: ndarray.None}
		if src, err = v.Index(specs...); err != nil {
			return nil, err
		}
	}

	if !skip {
		srcShape := src.Shape()
		acc, err := ndarray.NewView(out.Buffer(), srcShape, accStride, out.Offset())
		if err != nil {
			return nil, err
		}
		if err := impl.run(srcShape, []*ndarray.NDView{acc, src}, []*ndarray.NDView{acc}, mask, false); err != nil {
			return nil, fmt.Errorf("%s.reduce: %w", u.name, err)
		}
	}
	release([]*ndarray.NDView{out})
	return unbox(out), nil
}

// AccumulateOptions controls Accumulate.
type AccumulateOptions struct {
	DType ndarray.DataType
	Out   *ndarray.NDView
}

// Accumulate returns the running application of a binary ufunc along axis:
// position 0 holds the first element and position i holds
// op(result[i-1], v[i]).
func (u *Ufunc) Accumulate(v *ndarray.NDView, axis int, opts AccumulateOptions) (*ndarray.NDView, error) {
	if err := u.binaryOnly("accumulate"); err != nil {
		return nil, err
	}
	shape := v.Shape()
	nd := len(shape)
	if axis < 0 {
		axis += nd
	}
	if axis < 0 || axis >= nd {
		return nil, fmt.Errorf("%w: %s.accumulate: axis %d out of range for %d dimensions", ndarray.ErrBounds, u.name, axis, nd)
	}

	dt := v.DType()
	impl, err := u.resolve([]ndarray.DataType{dt, dt}, opts.DType)
	if err != nil {
		return nil, err
	}
	outDT := u.outTypes(impl, opts.DType)[0]
	out := opts.Out
	if out == nil {
		if out, err = ndarray.New(outDT, shape...); err != nil {
			return nil, err
		}
	} else if _, err := u.outputs([]*ndarray.NDView{out}, []ndarray.DataType{outDT}, shape); err != nil {
		return nil, err
	}
	n := shape[axis]
	if n == 0 {
		return out, nil
	}

	along := func(x *ndarray.NDView, spec ndarray.AxisSpec) *ndarray.NDView {
		specs := make([]ndarray.AxisSpec, axis+1)
		for i := range specs {
			specs[i] = ndarray.All
		}
		specs[axis] = spec
		r, _ := x.Index(specs...)
		return r
	}
	if err := along(out, ndarray.Point(0)).Copy(along(v, ndarray.Point(0))); err != nil {
		return nil, err
	}
	if n > 1 {
		prev := along(out, ndarray.Span(0, n-1))
		dst := along(out, ndarray.Span(1, n))
		cur := along(v, ndarray.Span(1, n))
		if err := impl.run(cur.Shape(), []*ndarray.NDView{prev, cur}, []*ndarray.NDView{dst}, nil, true); err != nil {
			return nil, fmt.Errorf("%s.accumulate: %w", u.name, err)
		}
	}
	release([]*ndarray.NDView{out})
	return out, nil
}

func (u *Ufunc) binaryOnly(method string) error {
	if u.nin != 2 || u.nout != 1 {
		return fmt.Errorf("%w: %s.%s: only binary ufuncs with one output support %s", ndarray.ErrProtocol, u.name, method, method)
	}
	return nil
}

// normalizeAxes returns a per-axis flag of the axes to reduce. nil selects
// every axis.
func normalizeAxes(axes []int, nd int) ([]bool, error) {
	reduced := make([]bool, nd)
	if axes == nil {
		for i := range reduced {
			reduced[i] = true
		}
		return reduced, nil
	}
	for _, ax := range axes {
		a := ax
		if a < 0 {
			a += nd
		}
		if a < 0 || a >= nd {
			return nil, fmt.Errorf("%w: axis %d out of range for %d dimensions", ndarray.ErrBounds, ax, nd)
		}
		if reduced[a] {
			return nil, fmt.Errorf("%w: duplicate axis %d", ndarray.ErrShape, ax)
		}
		reduced[a] = true
	}
	return reduced, nil
}

func firstTrue(flags []bool) int {
	for i, f := range flags {
		if f {
			return i
		}
	}
	return -1
}
