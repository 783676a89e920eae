package ndarray

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAssignable(t *testing.T) {
	tests := []struct {
		dst, src DataType
		want     bool
	}{
		{Int32, Bool, true},
		{Bool, Int32, false},
		{Int64, Uint64, true},
		{Uint64, Int64, true},
		{Int64, Int32, false},
		{Int32, Int64, false},
		{Float64, Int32, true},
		{Int32, Float64, false},
		{Float32, Int32, true},
		{Complex, Float64, true},
		{Float64, Complex, false},
		{Uint8, Int8, true},
		{Int8, Uint8, false},
		{Uint8Clamped, Uint8, true},
		{Float32, Int64, false},
		{String, Int32, false},
		{String, String, true},
		{Bool, Bool, true},
		{Bool, String, false},
		{Int32, String, false},
		{Int32, Any, false},
	}
	for _, tt := range tests {
		t.Run(tt.dst.String()+"<-"+tt.src.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, IsAssignable(tt.dst, tt.src))
		})
	}

	for _, src := range DataTypes {
		assert.True(t, IsAssignable(Any, src), "object accepts %s", src)
		assert.True(t, IsAssignable(src, src), "%s accepts itself", src)
	}
}

func TestGuessType(t *testing.T) {
	tests := []struct {
		v    any
		want DataType
	}{
		{1, Int32},
		{math.MaxInt32 + 1, Float64},
		{int8(1), Int8},
		{uint16(1), Uint16},
		{int64(1), Int64},
		{uint64(1), Uint64},
		{float32(1), Float32},
		{1.5, Float64},
		{complex(1, 2), Complex},
		{true, Bool},
		{"x", String},
		{struct{}{}, Any},
		{nil, Any},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GuessType(tt.v), "%T(%v)", tt.v, tt.v)
	}
}

func TestBestGuess(t *testing.T) {
	assert.Equal(t, Bool, BestGuess(Bool))
	assert.Equal(t, Int32, BestGuess(Int32, Bool))
	assert.Equal(t, Float32, BestGuess(Int8, Float32))
	assert.Equal(t, Float64, BestGuess(Int32, Float64))
	assert.Equal(t, Complex, BestGuess(Float64, Complex))
	assert.Equal(t, Int64, BestGuess(Int64, Uint64))
	assert.Equal(t, Any, BestGuess(Int32, String))
	assert.Equal(t, Any, BestGuess(Int32, Int64))

	// a single type is kept as is
	assert.Equal(t, Uint64, BestGuess(Uint64))
	assert.Equal(t, Uint64, BestGuess(Uint64, Uint64))
	assert.Equal(t, Int64, BestGuess(Int64))
	assert.Equal(t, Uint8Clamped, BestGuess(Uint8Clamped))
	assert.Equal(t, Any, BestGuess(Uint64, Bool))
	assert.Equal(t, Int64, BestGuess(Uint64, Int64))
	assert.Equal(t, Any, BestGuess(Uint64, Uint32))
}

func TestParseDataType(t *testing.T) {
	for _, dt := range DataTypes {
		got, err := ParseDataType(dt.String())
		require.NoError(t, err)
		assert.Equal(t, dt, got)
	}

	got, err := ParseDataType(" Any ")
	require.NoError(t, err)
	assert.Equal(t, Any, got)

	_, err = ParseDataType("float128")
	assert.True(t, errors.Is(err, ErrType))
}

func TestDataTypeSize(t *testing.T) {
	assert.Equal(t, 1, Uint8Clamped.Size())
	assert.Equal(t, 2, Int16.Size())
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 8, Uint64.Size())
	assert.Equal(t, 16, Complex.Size())
	assert.Zero(t, String.Size())
	assert.Zero(t, Any.Size())

	assert.True(t, Bool.FixedWidth())
	assert.False(t, String.FixedWidth())
	assert.Equal(t, 2, Bool.byteLength(9))
	assert.Equal(t, "unknown", DataType(3).String())
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		v    any
		dt   DataType
		want any
	}{
		{"truncate", 3.7, Int32, int32(3)},
		{"truncate negative", -3.7, Int32, int32(-3)},
		{"wrap", -1, Uint8, uint8(255)},
		{"wrap int16", 70000, Int16, int16(4464)},
		{"nan", math.NaN(), Int32, int32(0)},
		{"inf", math.Inf(1), Int64, int64(0)},
		{"clamp high", 300, Uint8Clamped, uint8(255)},
		{"clamp low", -5, Uint8Clamped, uint8(0)},
		{"round half even down", 2.5, Uint8Clamped, uint8(2)},
		{"round half even up", 3.5, Uint8Clamped, uint8(4)},
		{"bool", 2, Bool, true},
		{"nan is falsy", math.NaN(), Bool, false},
		{"from bool", true, Float64, 1.0},
		{"complex", 2, Complex, complex(2, 0)},
		{"complex real part", complex(1.5, 2), Float32, float32(1.5)},
		{"string", 1.5, String, "1.5"},
		{"parse", "42", Int32, int32(42)},
		{"uint64 from int64", int64(-1), Uint64, uint64(math.MaxUint64)},
		{"any", struct{}{}, Any, struct{}{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.v, tt.dt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Convert("abc", Int32)
	assert.ErrorIs(t, err, ErrType)
	_, err = Convert(struct{}{}, Float64)
	assert.ErrorIs(t, err, ErrType)
}
