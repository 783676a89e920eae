package container

import "fmt"

// ComplexArray stores complex numbers as interleaved real and imaginary parts.
type ComplexArray struct {
	buf []float64
}

// NewComplexArray returns a zeroed array of n complex numbers.
func NewComplexArray(n int) *ComplexArray {
	return &ComplexArray{buf: make([]float64, n<<1)}
}

// WrapComplex uses an interleaved buffer directly.
func WrapComplex(interleaved []float64) (*ComplexArray, error) {
	if len(interleaved)&1 != 0 {
		return nil, fmt.Errorf("complex array: interleaved buffer must have even length, got %d", len(interleaved))
	}
	return &ComplexArray{buf: interleaved}, nil
}

// ComplexFromSlice copies src into a new interleaved array.
func ComplexFromSlice(src []complex128) *ComplexArray {
	c := NewComplexArray(len(src))
	for i, v := range src {
		c.buf[i<<1] = real(v)
		c.buf[i<<1+1] = imag(v)
	}
	return c
}

// Len returns the number of complex elements.
func (c *ComplexArray) Len() int { return len(c.buf) >> 1 }

// Floats returns the interleaved backing buffer.
func (c *ComplexArray) Floats() []float64 { return c.buf }

// Get returns the element at i.
func (c *ComplexArray) Get(i int) complex128 {
	checkRange(i, c.Len(), "complex array")
	return complex(c.buf[i<<1], c.buf[i<<1+1])
}

// Set stores v at i.
func (c *ComplexArray) Set(i int, v complex128) {
	checkRange(i, c.Len(), "complex array")
	c.buf[i<<1] = real(v)
	c.buf[i<<1+1] = imag(v)
}

// At returns the element at i as a complex128.
func (c *ComplexArray) At(i int) any { return c.Get(i) }

// SetAt stores v at i. Real values become complex numbers with a zero
// imaginary part.
func (c *ComplexArray) SetAt(i int, v any) {
	switch x := v.(type) {
	case complex128:
		c.Set(i, x)
	case complex64:
		c.Set(i, complex128(x))
	default:
		c.Set(i, complex(realPart(v), 0))
	}
}

// Slice returns the elements in [start, end) sharing this array's memory.
func (c *ComplexArray) Slice(start, end int) Storage {
	return &ComplexArray{buf: c.buf[start<<1 : end<<1]}
}

// ToSlice copies the elements out.
func (c *ComplexArray) ToSlice() []complex128 {
	out := make([]complex128, c.Len())
	for i := range out {
		out[i] = c.Get(i)
	}
	return out
}

func realPart(v any) float64 {
	switch x := v.(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	default:
		panic(fmt.Sprintf("complex array: cannot store %T", v))
	}
}
