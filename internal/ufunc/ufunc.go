// Package ufunc implements universal functions: element-wise operations over
// broadcast views with per-type kernel dispatch, plus reductions and
// accumulations built on the same loop.
package ufunc

import (
	"fmt"
	"strings"

	"github.com/101arrowz/nadder/internal/config"
	"github.com/101arrowz/nadder/internal/container"
	"github.com/101arrowz/nadder/internal/ndarray"
)

// Impl is one typed loop of a ufunc.
//
// In holds one type mask per input; the Impl applies when every operand's
// type is in its mask. Before Fn runs each operand is converted to the
// matching Cast type (ndarray.Any leaves it untouched). Fn's results are
// converted to the output type on store.
type Impl struct {
	In   []ndarray.DataType
	Out  []ndarray.DataType
	Cast []ndarray.DataType
	Fn   Kernel

	// Float64, when set, computes a whole unit-stride row of a binary
	// float64 operation at once.
	Float64 func(dst, a, b []float64)
}

func (im *Impl) accepts(types []ndarray.DataType) bool {
	for i, dt := range types {
		if im.In[i]&dt == 0 {
			return false
		}
	}
	return true
}

// Ufunc is a named element-wise operation.
type Ufunc struct {
	name     string
	nin      int
	nout     int
	identity any
	impls    []Impl
}

// New builds a ufunc. identity is the value that leaves any element unchanged
// under the operation, or nil when there is none. Impls are tried in order.
func New(name string, nin, nout int, identity any, impls ...Impl) *Ufunc {
	if nin < 1 || nout < 1 {
		panic(fmt.Sprintf("ufunc %s: need at least one input and one output", name))
	}
	for i := range impls {
		im := &impls[i]
		if len(im.In) != nin || len(im.Out) != nout || len(im.Cast) != nin {
			panic(fmt.Sprintf("ufunc %s: implementation %d has the wrong arity", name, i))
		}
	}
	return &Ufunc{name: name, nin: nin, nout: nout, identity: identity, impls: impls}
}

// Name returns the ufunc's name.
func (u *Ufunc) Name() string { return u.name }

// Nin returns the number of inputs.
func (u *Ufunc) Nin() int { return u.nin }

// Nout returns the number of outputs.
func (u *Ufunc) Nout() int { return u.nout }

// Identity returns the identity element, or nil.
func (u *Ufunc) Identity() any { return u.identity }

// Impls returns the typed loops in dispatch order.
func (u *Ufunc) Impls() []Impl { return u.impls }

// String renders the ufunc's signature.
func (u *Ufunc) String() string {
	return fmt.Sprintf("<ufunc %s, %d in, %d out>", u.name, u.nin, u.nout)
}

// Options controls a ufunc call.
type Options struct {
	// Out receives the results. It must hold exactly Nout views of the
	// broadcast shape and the selected output type. When empty the outputs
	// are allocated.
	Out []*ndarray.NDView

	// Where masks the computation: only positions where it is true are
	// written. It may be a Bool view or a literal and broadcasts with the
	// inputs. nil means everywhere.
	Where any

	// DType requests an output type. Zero lets the inputs decide.
	DType ndarray.DataType
}

// Call applies the ufunc with default options. See CallWith.
func (u *Ufunc) Call(args ...any) (any, error) {
	return u.CallWith(Options{}, args...)
}

// CallWith applies the ufunc. A zero-dimensional result is returned as its
// element; other results are returned as views. With more than one output
// the results come back as a []any.
func (u *Ufunc) CallWith(opts Options, args ...any) (any, error) {
	outs, err := u.Apply(opts, args...)
	if err != nil {
		return nil, err
	}
	if u.nout == 1 {
		return unbox(outs[0]), nil
	}
	res := make([]any, len(outs))
	for i, o := range outs {
		res[i] = unbox(o)
	}
	return res, nil
}

// Apply applies the ufunc and returns the output views. Arguments may be
// views or Go literals, which are converted with ndarray.Array.
func (u *Ufunc) Apply(opts Options, args ...any) ([]*ndarray.NDView, error) {
	if len(args) != u.nin {
		return nil, fmt.Errorf("%w: %s: expected %d arguments, got %d", ndarray.ErrProtocol, u.name, u.nin, len(args))
	}
	ins := make([]*ndarray.NDView, u.nin)
	for i, arg := range args {
		v, err := operand(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", u.name, i, err)
		}
		ins[i] = v
	}
	mask, skip, err := whereMask(opts.Where)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u.name, err)
	}

	views := ins
	if mask != nil {
		views = append(append([]*ndarray.NDView(nil), ins...), mask)
	}
	bc, err := ndarray.Broadcast(views...)
	if err != nil {
		return nil, err
	}
	ins = bc[:u.nin]
	if mask != nil {
		mask = bc[u.nin]
	}
	shape := ins[0].Shape()

	types := make([]ndarray.DataType, u.nin)
	for i, v := range ins {
		types[i] = v.DType()
	}
	impl, err := u.resolve(types, opts.DType)
	if err != nil {
		return nil, err
	}
	outs, err := u.outputs(opts.Out, u.outTypes(impl, opts.DType), shape)
	if err != nil {
		return nil, err
	}
	if !skip {
		if err := impl.run(shape, ins, outs, mask, false); err != nil {
			return nil, fmt.Errorf("%s: %w", u.name, err)
		}
	}
	release(outs)
	return outs, nil
}

// resolve selects the first implementation accepting types. With an
// explicit dtype an implementation producing exactly that type wins.
func (u *Ufunc) resolve(types []ndarray.DataType, dtype ndarray.DataType) (*Impl, error) {
	var first *Impl
	for i := range u.impls {
		im := &u.impls[i]
		if !im.accepts(types) {
			continue
		}
		if first == nil {
			first = im
		}
		if dtype == 0 || producesOnly(im, dtype) {
			return im, nil
		}
	}
	if first == nil {
		names := make([]string, len(types))
		for i, dt := range types {
			names[i] = dt.String()
		}
		return nil, fmt.Errorf("%w: %s: no implementation for types (%s)", ndarray.ErrType, u.name, strings.Join(names, ", "))
	}
	return first, nil
}

func producesOnly(im *Impl, dt ndarray.DataType) bool {
	for _, o := range im.Out {
		if o != dt {
			return false
		}
	}
	return true
}

func (u *Ufunc) outTypes(im *Impl, dtype ndarray.DataType) []ndarray.DataType {
	if dtype == 0 {
		return im.Out
	}
	types := make([]ndarray.DataType, u.nout)
	for i := range types {
		types[i] = dtype
	}
	return types
}

// outputs validates caller-provided outputs or allocates fresh ones.
func (u *Ufunc) outputs(given []*ndarray.NDView, types []ndarray.DataType, shape ndarray.Shape) ([]*ndarray.NDView, error) {
	if len(given) == 0 {
		outs := make([]*ndarray.NDView, u.nout)
		for i, dt := range types {
			v, err := ndarray.New(dt, shape...)
			if err != nil {
				return nil, err
			}
			outs[i] = v
		}
		return outs, nil
	}
	if len(given) != u.nout {
		return nil, fmt.Errorf("%w: %s: expected %d outputs, got %d", ndarray.ErrProtocol, u.name, u.nout, len(given))
	}
	for i, o := range given {
		if o.DType() != types[i] {
			return nil, fmt.Errorf("%w: %s: expected output %d to have type %s, found %s", ndarray.ErrType, u.name, i, types[i], o.DType())
		}
		if !o.Shape().Equal(shape) {
			return nil, &ndarray.ShapeError{Op: u.name, Expected: shape, Got: o.Shape(), Details: fmt.Sprintf("output %d", i)}
		}
	}
	return given, nil
}

// run executes im over shape. Storage is fetched only once every output
// exists, since allocating foreign memory can move existing buffers.
// serial disables whole-row kernels for loops that read their own output.
func (im *Impl) run(shape ndarray.Shape, ins, outs []*ndarray.NDView, mask *ndarray.NDView, serial bool) error {
	views := append(append([]*ndarray.NDView(nil), ins...), outs...)
	if mask != nil {
		views = append(views, mask)
	}
	strides := make([][]int, len(views))
	offsets := make([]int, len(views))
	stores := make([]container.Storage, len(views))
	for i, v := range views {
		strides[i] = v.Strides()
		offsets[i] = v.Offset()
		stores[i] = v.Buffer().Storage()
	}

	nin := len(ins)
	convert := make([]bool, nin)
	for i, v := range ins {
		convert[i] = im.Cast[i] != ndarray.Any && im.Cast[i] != v.DType()
	}
	outTypes := make([]ndarray.DataType, len(outs))
	for i, o := range outs {
		outTypes[i] = o.DType()
	}

	fast := !serial && mask == nil && im.Float64 != nil && nin == 2 && len(outs) == 1
	for _, v := range views {
		fast = fast && v.DType() == ndarray.Float64
	}

	in := make([]any, nin)
	res := make([]any, len(outs))
	pos := make([]int, len(views))
	return ndarray.WalkRows(shape, strides, offsets, func(offs []int, n int, inner []int) error {
		if fast && unitStrides(inner) {
			a, b, dst := stores[0].(container.Numeric[float64]), stores[1].(container.Numeric[float64]), stores[2].(container.Numeric[float64])
			im.Float64(dst[offs[2]:offs[2]+n], a[offs[0]:offs[0]+n], b[offs[1]:offs[1]+n])
			return nil
		}
		copy(pos, offs)
		for j := 0; j < n; j++ {
			if mask == nil || stores[len(views)-1].At(pos[len(views)-1]).(bool) {
				for k := 0; k < nin; k++ {
					x := stores[k].At(pos[k])
					if convert[k] {
						var err error
						if x, err = ndarray.Convert(x, im.Cast[k]); err != nil {
							return err
						}
					}
					in[k] = x
				}
				if err := im.Fn(in, res); err != nil {
					return err
				}
				for k, dt := range outTypes {
					x, err := ndarray.Convert(res[k], dt)
					if err != nil {
						return err
					}
					stores[nin+k].SetAt(pos[nin+k], x)
				}
			}
			for k := range pos {
				pos[k] += inner[k]
			}
		}
		return nil
	})
}

func unitStrides(inner []int) bool {
	for _, s := range inner {
		if s != 1 {
			return false
		}
	}
	return true
}

// operand converts a ufunc argument to a view.
func operand(arg any) (*ndarray.NDView, error) {
	if v, ok := arg.(*ndarray.NDView); ok {
		return v, nil
	}
	return ndarray.Array(arg)
}

// whereMask converts a where argument. skip reports a literal false, which
// writes nothing; a nil mask with skip unset means every position.
func whereMask(where any) (mask *ndarray.NDView, skip bool, err error) {
	switch w := where.(type) {
	case nil:
		return nil, false, nil
	case bool:
		return nil, !w, nil
	}
	mask, err = operand(where)
	if err != nil {
		return nil, false, err
	}
	if mask.DType() != ndarray.Bool {
		return nil, false, fmt.Errorf("%w: where must be bool, found %s", ndarray.ErrType, mask.DType())
	}
	return mask, false, nil
}

// release moves outputs back to host memory when NADDER_FREE_FOREIGN is set.
func release(outs []*ndarray.NDView) {
	if !config.FreeForeign(false) {
		return
	}
	for _, o := range outs {
		o.Buffer().MigrateToHost()
	}
}

func unbox(v *ndarray.NDView) any {
	if v.NDim() == 0 {
		x, _ := v.Item()
		return x
	}
	return v
}
