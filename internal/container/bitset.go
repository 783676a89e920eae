package container

import (
	"fmt"
	"math"
)

// Bitset is a boolean array packed eight elements per byte, least significant
// bit first. Offset is the number of bits skipped at the start of the buffer,
// which lets subranges share the parent's bytes.
type Bitset struct {
	buf    []byte
	length int
	offset int
}

// NewBitset returns a zeroed bitset of n elements.
func NewBitset(n int) *Bitset {
	return &Bitset{buf: make([]byte, (n+7)>>3), length: n}
}

// WrapBitset uses buf as the backing store of an n-element bitset starting
// offset bits into buf.
func WrapBitset(buf []byte, n, offset int) (*Bitset, error) {
	if n < 0 || offset < 0 {
		return nil, fmt.Errorf("bitset: negative size %d or offset %d", n, offset)
	}
	if n+offset > len(buf)<<3 {
		return nil, fmt.Errorf("bitset: buffer of %d bytes too small for %d bits at offset %d", len(buf), n, offset)
	}
	return &Bitset{buf: buf, length: n, offset: offset}, nil
}

// BitsetFromSlice packs src into a new bitset.
func BitsetFromSlice(src []bool) *Bitset {
	bs := NewBitset(len(src))
	for i, v := range src {
		if v {
			bs.buf[i>>3] |= 1 << (i & 7)
		}
	}
	return bs
}

// Len returns the number of elements.
func (b *Bitset) Len() int { return b.length }

// Offset returns the bit offset into Bytes.
func (b *Bitset) Offset() int { return b.offset }

// Bytes returns the backing bytes, including any leading offset bits.
func (b *Bitset) Bytes() []byte { return b.buf }

// Get returns the element at i.
func (b *Bitset) Get(i int) bool {
	checkRange(i, b.length, "bitset")
	j := i + b.offset
	return b.buf[j>>3]&(1<<(j&7)) != 0
}

// Set stores v at i.
func (b *Bitset) Set(i int, v bool) {
	checkRange(i, b.length, "bitset")
	j := i + b.offset
	if v {
		b.buf[j>>3] |= 1 << (j & 7)
	} else {
		b.buf[j>>3] &^= 1 << (j & 7)
	}
}

// At returns the element at i as a bool.
func (b *Bitset) At(i int) any { return b.Get(i) }

// SetAt stores the truthiness of v at i.
func (b *Bitset) SetAt(i int, v any) { b.Set(i, Truthy(v)) }

// Fill sets every element in [start, end) to v.
func (b *Bitset) Fill(v bool, start, end int) {
	for i := start; i < end; i++ {
		b.Set(i, v)
	}
}

// Slice returns a bitset over [start, end) sharing this one's bytes.
func (b *Bitset) Slice(start, end int) Storage {
	if start < 0 || end > b.length || start > end {
		panic(fmt.Sprintf("bitset slice [%d:%d] out of range for length %d", start, end, b.length))
	}
	return &Bitset{buf: b.buf, length: end - start, offset: b.offset + start}
}

// ToSlice unpacks the bitset.
func (b *Bitset) ToSlice() []bool {
	out := make([]bool, b.length)
	for i := range out {
		out[i] = b.Get(i)
	}
	return out
}

// Truthy reports whether v is a non-zero, non-empty value.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case int8:
		return x != 0
	case int16:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case uint:
		return x != 0
	case uint8:
		return x != 0
	case uint16:
		return x != 0
	case uint32:
		return x != 0
	case uint64:
		return x != 0
	case float32:
		return x != 0 && !math.IsNaN(float64(x))
	case float64:
		return x != 0 && !math.IsNaN(x)
	case complex128:
		return x != 0
	case complex64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}
