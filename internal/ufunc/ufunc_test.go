package ufunc

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/101arrowz/nadder/internal/foreign"
	"github.com/101arrowz/nadder/internal/ndarray"
)

func mustArray(t *testing.T, literal any) *ndarray.NDView {
	t.Helper()
	v, err := ndarray.Array(literal)
	require.NoError(t, err)
	return v
}

func mustCall(t *testing.T, u *Ufunc, args ...any) any {
	t.Helper()
	res, err := u.Call(args...)
	require.NoError(t, err, u.Name())
	return res
}

func values(t *testing.T, res any) []any {
	t.Helper()
	v, ok := res.(*ndarray.NDView)
	require.True(t, ok, "expected a view, got %T", res)
	return v.Values()
}

func assertValues(t *testing.T, want []any, res any) {
	t.Helper()
	if diff := cmp.Diff(want, values(t, res)); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestBroadcastAdd(t *testing.T) {
	res := mustCall(t, Add, []int{1, 2, 3}, []int{10})
	v := res.(*ndarray.NDView)
	assert.Equal(t, ndarray.Shape{3}, v.Shape())
	assert.Equal(t, ndarray.Int32, v.DType())
	assertValues(t, []any{int32(11), int32(12), int32(13)}, res)

	res = mustCall(t, Add, [][]int{{1}, {2}}, []int{10, 20, 30})
	assert.Equal(t, ndarray.Shape{2, 3}, res.(*ndarray.NDView).Shape())
	assertValues(t, []any{int32(11), int32(21), int32(31), int32(12), int32(22), int32(32)}, res)

	_, err := Add.Call([]int{1, 2}, []int{1, 2, 3})
	assert.ErrorIs(t, err, ndarray.ErrShape)
}

func TestScalarResult(t *testing.T) {
	assert.Equal(t, int32(3), mustCall(t, Add, 1, 2))
	assert.Equal(t, 1.5, mustCall(t, Mod, 5.5, 2.0))
	assert.Equal(t, complex(1, -2), mustCall(t, Conj, complex(1, 2)))
}

func TestPromotion(t *testing.T) {
	tests := []struct {
		a, b, want ndarray.DataType
	}{
		{ndarray.Bool, ndarray.Bool, ndarray.Bool},
		{ndarray.Int8, ndarray.Int8, ndarray.Int8},
		{ndarray.Int8, ndarray.Uint8, ndarray.Int16},
		{ndarray.Uint8, ndarray.Uint8Clamped, ndarray.Uint8Clamped},
		{ndarray.Int8, ndarray.Float32, ndarray.Float32},
		{ndarray.Int32, ndarray.Float32, ndarray.Float64},
		{ndarray.Uint32, ndarray.Int32, ndarray.Int64},
		{ndarray.Int64, ndarray.Uint64, ndarray.Int64},
		{ndarray.Uint64, ndarray.Uint64, ndarray.Uint64},
		{ndarray.Int64, ndarray.Float32, ndarray.Float64},
		{ndarray.Float64, ndarray.Complex, ndarray.Complex},
		{ndarray.Bool, ndarray.Complex, ndarray.Complex},
	}
	for _, tt := range tests {
		t.Run(tt.a.String()+"+"+tt.b.String(), func(t *testing.T) {
			a, err := ndarray.New(tt.a, 2)
			require.NoError(t, err)
			b, err := ndarray.New(tt.b, 2)
			require.NoError(t, err)
			outs, err := Add.Apply(Options{}, a, b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, outs[0].DType())
		})
	}
}

func TestPromotionIsSymmetric(t *testing.T) {
	types := []ndarray.DataType{
		ndarray.Bool, ndarray.Int8, ndarray.Uint8, ndarray.Uint8Clamped, ndarray.Int16,
		ndarray.Uint16, ndarray.Int32, ndarray.Uint32, ndarray.Int64, ndarray.Uint64,
		ndarray.Float32, ndarray.Float64, ndarray.Complex, ndarray.String,
	}
	for _, u := range []*Ufunc{Add, Sub, Mul, Div, FloorDiv, Mod, Pow, BitAnd, Shl, Gt, Eq, And} {
		for _, a := range types {
			for _, b := range types {
				ab, errAB := u.resolve([]ndarray.DataType{a, b}, 0)
				ba, errBA := u.resolve([]ndarray.DataType{b, a}, 0)
				if errAB != nil || errBA != nil {
					assert.Equal(t, errAB != nil, errBA != nil, "%s(%s, %s)", u.Name(), a, b)
					continue
				}
				assert.Equal(t, ab.Out, ba.Out, "%s(%s, %s)", u.Name(), a, b)
			}
		}
	}
}

func TestDivTypes(t *testing.T) {
	assert.Equal(t, 0.5, values(t, mustCall(t, Div, []int32{1}, []int32{2}))[0])
	assert.Equal(t, float32(0.25), values(t, mustCall(t, Div, []int8{1}, []float32{4}))[0])
	assert.Equal(t, float32(0.25), values(t, mustCall(t, Div, []float32{1}, []uint8{4}))[0])
	assert.Equal(t, math.Inf(1), mustCall(t, Div, 1.0, 0.0))
	assert.Equal(t, complex(0, -1), mustCall(t, Div, complex(1, 0), complex(0, 1)))
}

func TestIntegerArithmetic(t *testing.T) {
	tests := []struct {
		name string
		u    *Ufunc
		a, b any
		want []any
	}{
		{"int8 wraps", Add, []int8{127}, []int8{1}, []any{int8(-128)}},
		{"int64 wraps", Add, []int64{math.MaxInt64}, []int64{1}, []any{int64(math.MinInt64)}},
		{"uint8 wraps", Sub, []uint8{0}, []uint8{1}, []any{uint8(255)}},
		{"mul", Mul, []int16{300}, []int16{300}, []any{int16(24464)}},
		{"floor division", FloorDiv, []int32{-7, 7, 7}, []int32{2, 2, 0}, []any{int32(-4), int32(3), int32(0)}},
		{"64-bit division truncates", FloorDiv, []int64{-7}, []int64{2}, []any{int64(-3)}},
		{"float floor division", FloorDiv, []float64{-7}, []float64{2}, []any{-4.0}},
		{"remainder keeps dividend sign", Mod, []int32{-7, 7}, []int32{3, -3}, []any{int32(-1), int32(1)}},
		{"narrow remainder by zero", Mod, []int16{5}, []int16{0}, []any{int16(0)}},
		{"pow", Pow, []int32{2, 3}, []int32{10, 3}, []any{int32(1024), int32(27)}},
		{"pow int64", Pow, []int64{3, 2}, []int64{3, 63}, []any{int64(27), int64(math.MinInt64)}},
		{"shl", Shl, []int8{1}, []int8{7}, []any{int8(-128)}},
		{"shl masks count", Shl, []int32{1}, []int32{33}, []any{int32(2)}},
		{"shr signed", Shr, []int32{-8}, []int32{1}, []any{int32(-4)}},
		{"shr unsigned", Shr, []uint32{0x80000000}, []uint32{31}, []any{uint32(1)}},
		{"bitand", BitAnd, []uint8{0b1100}, []uint8{0b1010}, []any{uint8(0b1000)}},
		{"bitor", BitOr, []int64{0b1100}, []int64{0b1010}, []any{int64(0b1110)}},
		{"bitxor", BitXor, []uint64{0b1100}, []uint64{0b1010}, []any{uint64(0b0110)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValues(t, tt.want, mustCall(t, tt.u, tt.a, tt.b))
		})
	}
}

func TestClamped(t *testing.T) {
	a, err := ndarray.ArrayOf([]int{200, 10}, ndarray.Uint8Clamped)
	require.NoError(t, err)
	b, err := ndarray.ArrayOf([]int{100, 20}, ndarray.Uint8Clamped)
	require.NoError(t, err)

	assertValues(t, []any{uint8(255), uint8(30)}, mustCall(t, Add, a, b))
	assertValues(t, []any{uint8(100), uint8(0)}, mustCall(t, Sub, a, b))
	assertValues(t, []any{uint8(0), uint8(0)}, mustCall(t, Neg, a))
}

func TestKernelErrors(t *testing.T) {
	_, err := FloorDiv.Call([]int64{1, 2}, []int64{1, 0})
	assert.ErrorIs(t, err, ndarray.ErrBounds)
	_, err = Mod.Call([]uint64{1}, []uint64{0})
	assert.ErrorIs(t, err, ndarray.ErrBounds)
	_, err = Pow.Call([]int64{2}, []int64{-1})
	assert.ErrorIs(t, err, ndarray.ErrBounds)
}

func TestUnary(t *testing.T) {
	tests := []struct {
		name string
		u    *Ufunc
		arg  any
		want any
	}{
		{"bitnot bool", BitNot, true, int8(-2)},
		{"bitnot uint8", BitNot, uint8(5), uint8(250)},
		{"bitnot int64", BitNot, int64(0), int64(-1)},
		{"abs int8", Abs, int8(-5), int8(5)},
		{"abs float", Abs, -2.5, 2.5},
		{"abs bool", Abs, true, true},
		{"abs complex", Abs, complex(3, 4), 5.0},
		{"neg uint8", Neg, uint8(1), uint8(255)},
		{"neg float32", Neg, float32(2), float32(-2)},
		{"pos", Pos, int16(-3), int16(-3)},
		{"conj bool", Conj, true, int8(1)},
		{"conj real", Conj, 2.5, 2.5},
		{"sqrt narrow", Sqrt, int8(4), float32(2)},
		{"sqrt wide", Sqrt, int32(4), 2.0},
		{"sqrt complex", Sqrt, complex(-1, 0), complex(0, 1)},
		{"exp2", Exp2, 3, 8.0},
		{"exp", Exp, 0, 1.0},
		{"expm1", Expm1, 0.0, 0.0},
		{"sin", Sin, 0.0, 0.0},
		{"cos", Cos, 0.0, 1.0},
		{"tan", Tan, float32(0), float32(0)},
		{"not", Not, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustCall(t, tt.u, tt.arg))
		})
	}

	_, err := Neg.Call(true)
	assert.ErrorIs(t, err, ndarray.ErrType)
	_, err = BitNot.Call(1.5)
	assert.ErrorIs(t, err, ndarray.ErrType)
}

func TestComparison(t *testing.T) {
	nan := math.NaN()
	assertValues(t, []any{false, true, false}, mustCall(t, Gt, []float64{nan, 2, 1}, 1.0))
	assertValues(t, []any{false, true, true}, mustCall(t, Gte, []float64{nan, 2, 1}, 1.0))
	assertValues(t, []any{true, false}, mustCall(t, Lt, []int8{-1, 1}, []uint8{0, 0}))
	assertValues(t, []any{true, false}, mustCall(t, Lte, []int32{1, 2}, 1))
	assertValues(t, []any{true, true}, mustCall(t, Ne, []float64{nan, 1}, []float64{nan, 2}))
	assertValues(t, []any{false, false}, mustCall(t, Eq, []float64{nan, 1}, []float64{nan, 2}))

	// exact 64-bit comparison
	assertValues(t, []any{false}, mustCall(t, Eq, []uint64{math.MaxUint64}, []uint64{math.MaxUint64 - 1}))
	assertValues(t, []any{true}, mustCall(t, Gt, []int64{math.MaxInt64}, []int64{math.MaxInt64 - 1}))

	assert.Equal(t, true, mustCall(t, Eq, 1, complex(1, 0)))
	assert.Equal(t, false, mustCall(t, Eq, complex(1, 2), complex(1, -2)))
	assertValues(t, []any{true, false}, mustCall(t, Eq, []string{"a", "b"}, []string{"a", "c"}))
	assertValues(t, []any{false, true}, mustCall(t, Ne, []string{"a", "b"}, []string{"a", "c"}))
	assert.Equal(t, false, mustCall(t, Eq, "1", 1))

	_, err := Gt.Call("a", "b")
	assert.ErrorIs(t, err, ndarray.ErrType)
	_, err = Gt.Call(complex(1, 0), 1)
	assert.ErrorIs(t, err, ndarray.ErrType)
}

func TestLogical(t *testing.T) {
	assertValues(t, []any{false, true, true}, mustCall(t, And, []int{0, 1, 2}, true))
	assertValues(t, []any{false, true}, mustCall(t, Or, []float64{0, 0.5}, false))
	assertValues(t, []any{false, true}, mustCall(t, Xor, []bool{true, false}, []bool{true, true}))
	assertValues(t, []any{true, true, false}, mustCall(t, Not, []float64{0, math.NaN(), 1}))
	assertValues(t, []any{true, false}, mustCall(t, And, []complex128{1i, 0}, 1))
}

func TestWhere(t *testing.T) {
	out, err := ndarray.Full(ndarray.Int32, -1, 3)
	require.NoError(t, err)
	res, err := Add.CallWith(Options{Out: []*ndarray.NDView{out}, Where: []bool{true, false, true}}, []int{1, 2, 3}, []int{10, 20, 30})
	require.NoError(t, err)
	assert.Same(t, out, res)
	assertValues(t, []any{int32(11), int32(-1), int32(33)}, res)

	// the mask broadcasts with the inputs
	out, err = ndarray.Full(ndarray.Int32, 0, 2, 2)
	require.NoError(t, err)
	_, err = Add.CallWith(Options{Out: []*ndarray.NDView{out}, Where: [][]bool{{true}, {false}}}, [][]int{{1, 2}, {3, 4}}, 1)
	require.NoError(t, err)
	assertValues(t, []any{int32(2), int32(3), int32(0), int32(0)}, out)

	_, err = Add.CallWith(Options{Out: []*ndarray.NDView{out}, Where: false}, [][]int{{5, 5}, {5, 5}}, 1)
	require.NoError(t, err)
	assertValues(t, []any{int32(2), int32(3), int32(0), int32(0)}, out)

	res, err = Add.CallWith(Options{Where: true}, []int{1}, []int{1})
	require.NoError(t, err)
	assertValues(t, []any{int32(2)}, res)

	_, err = Add.CallWith(Options{Where: []int{1, 0, 1}}, []int{1, 2, 3}, 1)
	assert.ErrorIs(t, err, ndarray.ErrType)
	_, err = Add.CallWith(Options{Where: []bool{true, false}}, []int{1, 2, 3}, 1)
	assert.ErrorIs(t, err, ndarray.ErrShape)
}

func TestOutValidation(t *testing.T) {
	a := mustArray(t, []int{1, 2, 3})

	wrongType, err := ndarray.New(ndarray.Float64, 3)
	require.NoError(t, err)
	_, err = Add.CallWith(Options{Out: []*ndarray.NDView{wrongType}}, a, a)
	require.Error(t, err)
	assert.ErrorIs(t, err, ndarray.ErrType)
	assert.Contains(t, err.Error(), "expected output 0 to have type int32")

	wrongShape, err := ndarray.New(ndarray.Int32, 2)
	require.NoError(t, err)
	_, err = Add.CallWith(Options{Out: []*ndarray.NDView{wrongShape}}, a, a)
	var se *ndarray.ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ndarray.Shape{3}, se.Expected)

	ok, err := ndarray.New(ndarray.Int32, 3)
	require.NoError(t, err)
	_, err = Add.CallWith(Options{Out: []*ndarray.NDView{ok, ok}}, a, a)
	assert.ErrorIs(t, err, ndarray.ErrProtocol)

	// in-place
	_, err = Add.CallWith(Options{Out: []*ndarray.NDView{a}}, a, a)
	require.NoError(t, err)
	assertValues(t, []any{int32(2), int32(4), int32(6)}, a)
}

func TestDispatchErrors(t *testing.T) {
	_, err := Add.Call(1)
	assert.ErrorIs(t, err, ndarray.ErrProtocol)
	_, err = Neg.Call(1, 2)
	assert.ErrorIs(t, err, ndarray.ErrProtocol)

	_, err = BitAnd.Call([]float64{1}, []float64{2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ndarray.ErrType))
	assert.Contains(t, err.Error(), "bitand: no implementation for types (float64, float64)")

	_, err = Add.Call("a", "b")
	assert.ErrorIs(t, err, ndarray.ErrType)

	_, err = Add.Call([][]int{{1}, {2, 3}}, 1)
	assert.ErrorIs(t, err, ndarray.ErrShape)
}

func TestRequestedDType(t *testing.T) {
	res, err := Add.CallWith(Options{DType: ndarray.Float64}, []int8{1, 2}, []int8{3, 4})
	require.NoError(t, err)
	assertValues(t, []any{4.0, 6.0}, res)

	// no implementation produces int8 from float64, so the first match runs
	// and its result is converted on store
	res, err = Add.CallWith(Options{DType: ndarray.Int8}, []float64{1.7}, []float64{1})
	require.NoError(t, err)
	assertValues(t, []any{int8(2)}, res)
}

func TestFloat64Rows(t *testing.T) {
	a, err := ndarray.Arange(0, 6, 1, ndarray.Float64)
	require.NoError(t, err)
	a, err = a.Reshape(2, 3)
	require.NoError(t, err)

	for name, u := range map[string]*Ufunc{"add": Add, "sub": Sub, "mul": Mul, "div": Div} {
		t.Run(name, func(t *testing.T) {
			b, err := ndarray.Full(ndarray.Float64, 2, 2, 3)
			require.NoError(t, err)

			rows := values(t, mustCall(t, u, a, b))
			// transposed operands walk element by element
			cols, err := u.Call(a.T(), b.T())
			require.NoError(t, err)
			back, err := cols.(*ndarray.NDView).Transpose()
			require.NoError(t, err)
			assert.Equal(t, rows, back.Values())

			want := make([]any, 6)
			for i := range want {
				x := float64(i)
				switch name {
				case "add":
					want[i] = x + 2
				case "sub":
					want[i] = x - 2
				case "mul":
					want[i] = x * 2
				case "div":
					want[i] = x / 2
				}
			}
			assert.Equal(t, want, rows)
		})
	}

	res := values(t, mustCall(t, Div, []float64{1, 0}, []float64{0, 0}))
	assert.Equal(t, math.Inf(1), res[0])
	assert.True(t, math.IsNaN(res[1].(float64)))
}

func TestFreeForeign(t *testing.T) {
	arena := foreign.NewArena(1024, 0)
	ndarray.SetDefaultAllocator(arena)
	t.Cleanup(func() { ndarray.SetDefaultAllocator(nil) })
	t.Setenv("NADDER_PREFER_FOREIGN", "true")

	a := mustArray(t, []float64{1, 2})
	require.True(t, a.Buffer().Foreign())

	t.Setenv("NADDER_FREE_FOREIGN", "false")
	outs, err := Add.Apply(Options{}, a, a)
	require.NoError(t, err)
	assert.True(t, outs[0].Buffer().Foreign())

	t.Setenv("NADDER_FREE_FOREIGN", "true")
	outs, err = Add.Apply(Options{}, a, a)
	require.NoError(t, err)
	assert.False(t, outs[0].Buffer().Foreign())
	assert.Equal(t, []any{2.0, 4.0}, outs[0].Values())
}

func TestRegistry(t *testing.T) {
	u, ok := Lookup("add")
	require.True(t, ok)
	assert.Same(t, Add, u)

	_, ok = Lookup("matmul")
	assert.False(t, ok)

	names := Names()
	assert.Len(t, names, 34)
	assert.IsIncreasing(t, names)
	for _, name := range names {
		u, ok := Lookup(name)
		require.True(t, ok)
		assert.Equal(t, name, u.Name())
		assert.NotEmpty(t, u.Impls(), name)
	}
}

func BenchmarkAddFloat64(b *testing.B) {
	x, _ := ndarray.Arange(0, 1<<16, 1, ndarray.Float64)
	y, _ := ndarray.Full(ndarray.Float64, 1.5, 1<<16)
	out, _ := ndarray.New(ndarray.Float64, 1<<16)
	opts := Options{Out: []*ndarray.NDView{out}}

	b.Run("rows", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = Add.Apply(opts, x, y)
		}
	})
	b.Run("elements", func(b *testing.B) {
		xi, _ := x.AsType(ndarray.Int32)
		for i := 0; i < b.N; i++ {
			_, _ = Add.Apply(opts, xi, y)
		}
	})
}
