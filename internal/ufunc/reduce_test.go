package ufunc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/101arrowz/nadder/internal/ndarray"
)

func mustArange(t *testing.T, dt ndarray.DataType, n int, shape ...int) *ndarray.NDView {
	t.Helper()
	v, err := ndarray.Arange(0, float64(n), 1, dt)
	require.NoError(t, err)
	if len(shape) > 0 {
		v, err = v.Reshape(shape...)
		require.NoError(t, err)
	}
	return v
}

func TestReduceAxes(t *testing.T) {
	m := mustArray(t, [][]int{{1, 2}, {3, 4}})

	tests := []struct {
		name string
		opts ReduceOptions
		want any
	}{
		{"axis 0", ReduceOptions{Axes: []int{0}}, []any{int32(4), int32(6)}},
		{"axis 1", ReduceOptions{Axes: []int{1}}, []any{int32(3), int32(7)}},
		{"negative axis", ReduceOptions{Axes: []int{-1}}, []any{int32(3), int32(7)}},
		{"all", ReduceOptions{}, int32(10)},
		{"both", ReduceOptions{Axes: []int{1, 0}}, int32(10)},
		{"initial", ReduceOptions{Initial: 10}, int32(20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Add.Reduce(m, tt.opts)
			require.NoError(t, err)
			if want, ok := tt.want.([]any); ok {
				assertValues(t, want, res)
				return
			}
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestReduceKeepDims(t *testing.T) {
	m := mustArange(t, ndarray.Int32, 6, 2, 3)

	res, err := Add.Reduce(m, ReduceOptions{Axes: []int{1}, KeepDims: true})
	require.NoError(t, err)
	v := res.(*ndarray.NDView)
	assert.Equal(t, ndarray.Shape{2, 1}, v.Shape())
	assert.Equal(t, []any{int32(3), int32(12)}, v.Values())

	res, err = Add.Reduce(m, ReduceOptions{KeepDims: true})
	require.NoError(t, err)
	v = res.(*ndarray.NDView)
	assert.Equal(t, ndarray.Shape{1, 1}, v.Shape())
	assert.Equal(t, []any{int32(15)}, v.Values())
}

func TestReduceWithoutIdentity(t *testing.T) {
	m := mustArray(t, [][]int{{1, 2}, {3, 4}})

	res, err := Sub.Reduce(m, ReduceOptions{Axes: []int{0}})
	require.NoError(t, err)
	assertValues(t, []any{int32(-2), int32(-2)}, res)

	res, err = Sub.Reduce(m, ReduceOptions{Axes: []int{1}})
	require.NoError(t, err)
	assertValues(t, []any{int32(-1), int32(-1)}, res)

	res, err = Sub.Reduce(mustArray(t, []int{10, 1, 2}), ReduceOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(7), res)

	_, err = Sub.Reduce(m, ReduceOptions{})
	assert.ErrorIs(t, err, ndarray.ErrProtocol)

	empty, err := ndarray.New(ndarray.Int32, 0)
	require.NoError(t, err)
	_, err = Sub.Reduce(empty, ReduceOptions{})
	assert.ErrorIs(t, err, ndarray.ErrProtocol)

	_, err = Sub.Reduce(m, ReduceOptions{Axes: []int{0}, Where: []bool{true, false}})
	assert.ErrorIs(t, err, ndarray.ErrProtocol)

	res, err = Sub.Reduce(m, ReduceOptions{Axes: []int{0, 1}, Initial: 0})
	require.NoError(t, err)
	assert.Equal(t, int32(-10), res)
}

func TestReduceEmpty(t *testing.T) {
	empty, err := ndarray.New(ndarray.Int32, 0)
	require.NoError(t, err)

	res, err := Add.Reduce(empty, ReduceOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(0), res)

	res, err = Mul.Reduce(empty, ReduceOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), res)

	m, err := ndarray.New(ndarray.Float64, 2, 0)
	require.NoError(t, err)
	res, err = Add.Reduce(m, ReduceOptions{Axes: []int{1}})
	require.NoError(t, err)
	assertValues(t, []any{0.0, 0.0}, res)
}

func TestReduceWhere(t *testing.T) {
	v := mustArange(t, ndarray.Int32, 4)

	res, err := Add.Reduce(v, ReduceOptions{Where: []bool{true, false, true, false}})
	require.NoError(t, err)
	assert.Equal(t, int32(2), res)

	res, err = Add.Reduce(v, ReduceOptions{Where: []bool{false, false, false, false}, Initial: 7})
	require.NoError(t, err)
	assert.Equal(t, int32(7), res)

	res, err = Mul.Reduce(v, ReduceOptions{Where: false})
	require.NoError(t, err)
	assert.Equal(t, int32(1), res)

	// the mask broadcasts to the input
	m := mustArange(t, ndarray.Int32, 6, 2, 3)
	res, err = Add.Reduce(m, ReduceOptions{Axes: []int{0}, Where: []bool{true, false, true}})
	require.NoError(t, err)
	assertValues(t, []any{int32(3), int32(0), int32(7)}, res)
}

func TestReduceTypes(t *testing.T) {
	v := mustArray(t, []int8{100, 100})

	res, err := Add.Reduce(v, ReduceOptions{})
	require.NoError(t, err)
	assert.Equal(t, int8(-56), res)

	res, err = Add.Reduce(v, ReduceOptions{DType: ndarray.Float64})
	require.NoError(t, err)
	assert.Equal(t, 200.0, res)

	res, err = And.Reduce(mustArray(t, []bool{true, true, false}), ReduceOptions{})
	require.NoError(t, err)
	assert.Equal(t, false, res)

	res, err = Or.Reduce(mustArray(t, []bool{false, true}), ReduceOptions{})
	require.NoError(t, err)
	assert.Equal(t, true, res)

	res, err = BitAnd.Reduce(mustArray(t, []uint8{0b1110, 0b0111}), ReduceOptions{})
	require.NoError(t, err)
	assert.Equal(t, uint8(0b0110), res)

	_, err = Neg.Reduce(v, ReduceOptions{})
	assert.ErrorIs(t, err, ndarray.ErrProtocol)
	_, err = Add.Reduce(mustArray(t, []string{"a"}), ReduceOptions{})
	assert.ErrorIs(t, err, ndarray.ErrType)
}

func TestReduceOut(t *testing.T) {
	m := mustArange(t, ndarray.Int32, 6, 2, 3)

	out, err := ndarray.New(ndarray.Int32, 3)
	require.NoError(t, err)
	res, err := Add.Reduce(m, ReduceOptions{Axes: []int{0}, Out: out})
	require.NoError(t, err)
	assert.Same(t, out, res)
	assert.Equal(t, []any{int32(3), int32(5), int32(7)}, out.Values())

	// a strided output
	wide, err := ndarray.New(ndarray.Int32, 4)
	require.NoError(t, err)
	every, err := wide.Slice("::2")
	require.NoError(t, err)
	_, err = Add.Reduce(m, ReduceOptions{Axes: []int{1}, Out: every})
	require.NoError(t, err)
	assert.Equal(t, []any{int32(3), int32(0), int32(12), int32(0)}, wide.Values())

	bad, err := ndarray.New(ndarray.Int32, 2)
	require.NoError(t, err)
	_, err = Add.Reduce(m, ReduceOptions{Axes: []int{0}, Out: bad})
	assert.ErrorIs(t, err, ndarray.ErrShape)

	badType, err := ndarray.New(ndarray.Float64, 3)
	require.NoError(t, err)
	_, err = Add.Reduce(m, ReduceOptions{Axes: []int{0}, Out: badType})
	assert.ErrorIs(t, err, ndarray.ErrType)
}

func TestReduceAxisErrors(t *testing.T) {
	m := mustArange(t, ndarray.Int32, 6, 2, 3)
	_, err := Add.Reduce(m, ReduceOptions{Axes: []int{2}})
	assert.ErrorIs(t, err, ndarray.ErrBounds)
	_, err = Add.Reduce(m, ReduceOptions{Axes: []int{0, -2}})
	assert.ErrorIs(t, err, ndarray.ErrShape)
}

func TestReduceStrided(t *testing.T) {
	m := mustArray(t, [][]int{{1, 2}, {3, 4}})
	res, err := Add.Reduce(m.T(), ReduceOptions{Axes: []int{0}})
	require.NoError(t, err)
	assertValues(t, []any{int32(3), int32(7)}, res)

	f, err := ndarray.Arange(0, 6, 1, ndarray.Float64)
	require.NoError(t, err)
	f, err = f.Reshape(2, 3)
	require.NoError(t, err)
	res, err = Add.Reduce(f, ReduceOptions{Axes: []int{0}})
	require.NoError(t, err)
	assertValues(t, []any{3.0, 5.0, 7.0}, res)
}

func TestAccumulate(t *testing.T) {
	res, err := Add.Accumulate(mustArray(t, []int{1, 2, 3, 4}), 0, AccumulateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []any{int32(1), int32(3), int32(6), int32(10)}, res.Values())

	// float64 rows must not be computed ahead of their inputs
	f, err := ndarray.ArrayOf([]int{1, 2, 3, 4}, ndarray.Float64)
	require.NoError(t, err)
	res, err = Add.Accumulate(f, -1, AccumulateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 3.0, 6.0, 10.0}, res.Values())

	m := mustArray(t, [][]int{{1, 2}, {3, 4}})
	res, err = Sub.Accumulate(m, 0, AccumulateOptions{})
	require.NoError(t, err)
	assert.Equal(t, []any{int32(1), int32(2), int32(-2), int32(-2)}, res.Values())

	res, err = Mul.Accumulate(m, 1, AccumulateOptions{DType: ndarray.Float64})
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0, 3.0, 12.0}, res.Values())

	_, err = Add.Accumulate(m, 2, AccumulateOptions{})
	assert.ErrorIs(t, err, ndarray.ErrBounds)
	_, err = Not.Accumulate(m, 0, AccumulateOptions{})
	assert.ErrorIs(t, err, ndarray.ErrProtocol)

	empty, err := ndarray.New(ndarray.Int32, 0)
	require.NoError(t, err)
	res, err = Add.Accumulate(empty, 0, AccumulateOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Size())
}

func TestAccumulateMatchesReduce(t *testing.T) {
	v := mustArange(t, ndarray.Int32, 24, 2, 3, 4)
	for _, u := range []*Ufunc{Add, Mul, Sub, BitXor} {
		for axis := 0; axis < 3; axis++ {
			acc, err := u.Accumulate(v, axis, AccumulateOptions{})
			require.NoError(t, err)
			assert.Equal(t, v.Shape(), acc.Shape())

			specs := make([]ndarray.AxisSpec, axis+1)
			for i := range specs {
				specs[i] = ndarray.All
			}
			specs[axis] = ndarray.Point(-1)
			last, err := acc.Index(specs...)
			require.NoError(t, err)

			red, err := u.Reduce(v, ReduceOptions{Axes: []int{axis}})
			require.NoError(t, err)
			assert.Equal(t, last.Values(), red.(*ndarray.NDView).Values(), "%s axis %d", u.Name(), axis)
		}
	}
}
