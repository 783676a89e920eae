package ndarray

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/101arrowz/nadder/internal/container"
)

// Convert coerces a Go value to the element representation of dt without
// checking assignability. Floats stored into integer types are truncated
// and wrapped (NaN and infinities become 0); Uint8Clamped rounds half to
// even and saturates.
func Convert(v any, dt DataType) (any, error) {
	switch dt {
	case Any:
		return v, nil
	case String:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	case Bool:
		return container.Truthy(v), nil
	case Complex:
		switch x := v.(type) {
		case complex128:
			return x, nil
		case complex64:
			return complex128(x), nil
		}
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		return complex(f, 0), nil
	case Float32:
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		return float32(f), nil
	case Float64:
		return toFloat(v)
	case Uint8Clamped:
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		return clampUint8(f), nil
	}

	bits, err := toBits(v)
	if err != nil {
		return nil, err
	}
	switch dt {
	case Int8:
		return int8(bits), nil
	case Uint8:
		return uint8(bits), nil
	case Int16:
		return int16(bits), nil
	case Uint16:
		return uint16(bits), nil
	case Int32:
		return int32(bits), nil
	case Uint32:
		return uint32(bits), nil
	case Int64:
		return int64(bits), nil
	case Uint64:
		return bits, nil
	}
	return nil, typeErrorf("cannot convert %T to %s", v, dt)
}

// toBits returns the two's complement bit pattern of v truncated to an
// integer, modulo 2^64.
func toBits(v any) (uint64, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int:
		return uint64(x), nil
	case int8:
		return uint64(x), nil
	case int16:
		return uint64(x), nil
	case int32:
		return uint64(x), nil
	case int64:
		return uint64(x), nil
	case uint:
		return uint64(x), nil
	case uint8:
		return uint64(x), nil
	case uint16:
		return uint64(x), nil
	case uint32:
		return uint64(x), nil
	case uint64:
		return x, nil
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	return wrapFloat(f), nil
}

const two64 = 1 << 64

func wrapFloat(f float64) uint64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	if f >= math.MinInt64 && f < math.MaxInt64 {
		return uint64(int64(f))
	}
	f = math.Mod(f, two64)
	if f < 0 {
		f += two64
	}
	if f >= two64 {
		return 0
	}
	return uint64(f)
}

func clampUint8(f float64) uint8 {
	switch {
	case math.IsNaN(f), f <= 0:
		return 0
	case f >= 255:
		return 255
	default:
		return uint8(math.RoundToEven(f))
	}
}

// toFloat reads any real scalar as a float64. Complex values contribute
// their real part; strings are parsed.
func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case complex128:
		return real(x), nil
	case complex64:
		return float64(real(x)), nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, typeErrorf("cannot convert string %q to a number", x)
		}
		return f, nil
	case nil:
		return 0, nil
	default:
		return 0, typeErrorf("cannot convert %T to a number", v)
	}
}

// formatScalar renders an element the way String prints it, without padding.
func formatScalar(v any) string {
	switch x := v.(type) {
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	case complex128:
		return formatComplex(x)
	case string:
		return x
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) && !strings.ContainsAny(s, "e.") {
		s += "."
	}
	return s
}

func formatComplex(c complex128) string {
	re, im := formatFloat(real(c), 64), formatFloat(imag(c), 64)
	if im[0] != '-' && im[0] != '+' {
		im = "+" + im
	}
	return re + im + "j"
}
