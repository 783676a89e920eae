package ndarray

import (
	"reflect"

	"github.com/101arrowz/nadder/internal/container"
)

// Set writes value into every element of v.
//
// value may be an *NDView, a nested Go slice literal or a scalar. It is
// broadcast to v's shape, which must not change in the process, and its data
// type must be assignable to v's. Untyped Go ints are weakly typed: they take
// v's type when v is numeric.
func (v *NDView) Set(value any) error {
	src, err := v.source(value)
	if err != nil {
		return err
	}
	b, err := src.BroadcastTo(v.shape...)
	if err != nil {
		return err
	}
	if b.buf == v.buf {
		b = b.clone()
	}
	return copyInto(v, b)
}

// Copy writes from into v with unchecked conversion. from must broadcast to
// v's shape.
func (v *NDView) Copy(from *NDView) error {
	b, err := from.BroadcastTo(v.shape...)
	if err != nil {
		return err
	}
	if b.buf == v.buf {
		b = b.clone()
	}
	return copyInto(v, b)
}

// AsType returns a contiguous copy converted to dt.
func (v *NDView) AsType(dt DataType) (*NDView, error) {
	out, err := New(dt, v.shape...)
	if err != nil {
		return nil, err
	}
	if err := copyInto(out, v); err != nil {
		return nil, err
	}
	return out, nil
}

func (v *NDView) clone() *NDView {
	out, _ := New(v.DType(), v.shape...)
	_ = copyInto(out, v)
	return out
}

// source converts a Set argument into a view of an assignable type.
func (v *NDView) source(value any) (*NDView, error) {
	dt := v.DType()
	switch x := value.(type) {
	case *NDView:
		if err := v.fits(x.shape); err != nil {
			return nil, err
		}
		if !IsAssignable(dt, x.DType()) {
			return nil, typeErrorf("cannot assign %s to %s", x.DType(), dt)
		}
		return x, nil
	case nil:
		if dt != Any {
			return nil, typeErrorf("cannot assign nil to %s", dt)
		}
	}

	if isLiteral(value) {
		shape, leaves, err := flattenLiteral(value)
		if err != nil {
			return nil, err
		}
		if err := v.fits(shape); err != nil {
			return nil, err
		}
		src := literalType(leaves)
		if weakInts(leaves) && dt&(Numeric|BigInt) != 0 {
			src = dt
		}
		if !IsAssignable(dt, src) {
			return nil, typeErrorf("cannot assign %s to %s", src, dt)
		}
		return fromLeaves(shape, leaves, src)
	}

	x, err := coerceScalar(value, dt)
	if err != nil {
		return nil, err
	}
	out := &NDView{buf: NewBuffer(dt, 1), shape: Shape{}, stride: []int{}}
	out.buf.Storage().SetAt(0, x)
	return out, nil
}

// fits reports whether a source of the given shape broadcasts to v without
// changing v's shape.
func (v *NDView) fits(shape Shape) error {
	target, err := BroadcastShapes(shape, v.shape)
	if err != nil {
		return err
	}
	if !target.Equal(v.shape) {
		return &ShapeError{Op: "set", Expected: v.shape, Got: shape}
	}
	return nil
}

// coerceScalar checks a Go scalar against dt and converts it.
func coerceScalar(value any, dt DataType) (any, error) {
	src := GuessType(value)
	if _, ok := value.(int); ok && dt&(Numeric|BigInt) != 0 {
		src = dt
	}
	if !IsAssignable(dt, src) {
		return nil, typeErrorf("cannot assign %T (%s) to %s", value, src, dt)
	}
	return Convert(value, dt)
}

func weakInts(leaves []any) bool {
	for _, l := range leaves {
		if _, ok := l.(int); !ok {
			return false
		}
	}
	return len(leaves) > 0
}

func isLiteral(value any) bool {
	if value == nil {
		return false
	}
	k := reflect.TypeOf(value).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// copyInto copies src into dst element by element, converting when the
// types differ. Both views must have the same shape.
func copyInto(dst, src *NDView) error {
	ds, ss := dst.buf.Storage(), src.buf.Storage()
	dt := dst.DType()
	same := dt == src.DType()
	return WalkRows(dst.shape, [][]int{dst.stride, src.stride}, []int{dst.offset, src.offset}, func(offs []int, n int, inner []int) error {
		if same && inner[0] == 1 {
			switch inner[1] {
			case 1:
				if blockCopy(ds, ss, offs[0], offs[1], n) {
					return nil
				}
			case 0:
				if blockFill(ds, ss.At(offs[1]), offs[0], n) {
					return nil
				}
			}
		}
		d, s := offs[0], offs[1]
		for i := 0; i < n; i++ {
			x := ss.At(s)
			if !same {
				var err error
				if x, err = Convert(x, dt); err != nil {
					return err
				}
			}
			ds.SetAt(d, x)
			d += inner[0]
			s += inner[1]
		}
		return nil
	})
}

// fill stores x, already converted to dst's type, into every element of dst.
func fill(dst *NDView, x any) {
	ds := dst.buf.Storage()
	_ = WalkRows(dst.shape, [][]int{dst.stride}, []int{dst.offset}, func(offs []int, n int, inner []int) error {
		if inner[0] == 1 && blockFill(ds, x, offs[0], n) {
			return nil
		}
		for i, d := 0, offs[0]; i < n; i, d = i+1, d+inner[0] {
			ds.SetAt(d, x)
		}
		return nil
	})
}

func blockCopy(dst, src container.Storage, d, s, n int) bool {
	switch ds := dst.(type) {
	case container.Numeric[int8]:
		return copyRun(ds, src, d, s, n)
	case container.Numeric[uint8]:
		return copyRun(ds, src, d, s, n)
	case container.Numeric[int16]:
		return copyRun(ds, src, d, s, n)
	case container.Numeric[uint16]:
		return copyRun(ds, src, d, s, n)
	case container.Numeric[int32]:
		return copyRun(ds, src, d, s, n)
	case container.Numeric[uint32]:
		return copyRun(ds, src, d, s, n)
	case container.Numeric[int64]:
		return copyRun(ds, src, d, s, n)
	case container.Numeric[uint64]:
		return copyRun(ds, src, d, s, n)
	case container.Numeric[float32]:
		return copyRun(ds, src, d, s, n)
	case container.Numeric[float64]:
		return copyRun(ds, src, d, s, n)
	case *container.ComplexArray:
		if ss, ok := src.(*container.ComplexArray); ok {
			copy(ds.Floats()[2*d:2*(d+n)], ss.Floats()[2*s:2*(s+n)])
			return true
		}
	case container.StringArray:
		if ss, ok := src.(container.StringArray); ok {
			copy(ds[d:d+n], ss[s:s+n])
			return true
		}
	}
	return false
}

func copyRun[T container.Number](dst container.Numeric[T], src container.Storage, d, s, n int) bool {
	ss, ok := src.(container.Numeric[T])
	if !ok {
		return false
	}
	copy(dst[d:d+n], ss[s:s+n])
	return true
}

func blockFill(dst container.Storage, x any, d, n int) bool {
	switch ds := dst.(type) {
	case *container.Bitset:
		ds.Fill(x.(bool), d, d+n)
		return true
	case container.Numeric[int8]:
		return fillRun(ds, x, d, n)
	case container.Numeric[uint8]:
		return fillRun(ds, x, d, n)
	case container.Numeric[int16]:
		return fillRun(ds, x, d, n)
	case container.Numeric[uint16]:
		return fillRun(ds, x, d, n)
	case container.Numeric[int32]:
		return fillRun(ds, x, d, n)
	case container.Numeric[uint32]:
		return fillRun(ds, x, d, n)
	case container.Numeric[int64]:
		return fillRun(ds, x, d, n)
	case container.Numeric[uint64]:
		return fillRun(ds, x, d, n)
	case container.Numeric[float32]:
		return fillRun(ds, x, d, n)
	case container.Numeric[float64]:
		return fillRun(ds, x, d, n)
	}
	return false
}

func fillRun[T container.Number](dst container.Numeric[T], x any, d, n int) bool {
	val, ok := x.(T)
	if !ok {
		return false
	}
	run := dst[d : d+n]
	for i := range run {
		run[i] = val
	}
	return true
}
