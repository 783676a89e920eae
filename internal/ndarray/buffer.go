package ndarray

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/x448/float16"

	"github.com/101arrowz/nadder/internal/config"
	"github.com/101arrowz/nadder/internal/container"
	"github.com/101arrowz/nadder/internal/foreign"
)

var (
	defaultMu    sync.RWMutex
	defaultAlloc foreign.Allocator
)

// SetDefaultAllocator installs the allocator new buffers migrate into when
// NADDER_PREFER_FOREIGN is enabled. Passing nil uninstalls it.
func SetDefaultAllocator(a foreign.Allocator) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultAlloc = a
}

// DefaultAllocator returns the installed allocator, or nil.
func DefaultAllocator() foreign.Allocator {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultAlloc
}

// foreignHandle locates a buffer's elements inside an allocator's region.
// storage is derived from the region as of generation gen.
type foreignHandle struct {
	alloc   foreign.Allocator
	addr    int
	size    int
	align   int
	gen     uint64
	storage container.Storage
}

// Buffer is a reference-counted flat run of elements of one data type.
//
// Storage lives either in Go memory or in a foreign allocator's region. A
// foreign buffer remembers the allocator generation its storage was derived
// from and re-derives it on the first access after the region moves.
type Buffer struct {
	dtype   DataType
	length  int
	host    container.Storage
	foreign *foreignHandle
	refs    atomic.Int32
	mu      sync.Mutex
}

// NewBuffer allocates a zero-valued buffer. Bool buffers start all false,
// String buffers hold empty strings and Any buffers hold nil.
func NewBuffer(dt DataType, length int) *Buffer {
	dt.mustKnown()
	b := &Buffer{dtype: dt, length: length, host: newHostStorage(dt, length)}
	b.refs.Store(1)
	b.preferForeign()
	return b
}

func newHostStorage(dt DataType, n int) container.Storage {
	switch dt {
	case Int8:
		return make(container.Numeric[int8], n)
	case Uint8, Uint8Clamped:
		return make(container.Numeric[uint8], n)
	case Int16:
		return make(container.Numeric[int16], n)
	case Uint16:
		return make(container.Numeric[uint16], n)
	case Int32:
		return make(container.Numeric[int32], n)
	case Uint32:
		return make(container.Numeric[uint32], n)
	case Int64:
		return make(container.Numeric[int64], n)
	case Uint64:
		return make(container.Numeric[uint64], n)
	case Float32:
		return make(container.Numeric[float32], n)
	case Float64:
		return make(container.Numeric[float64], n)
	case Complex:
		return container.NewComplexArray(n)
	case Bool:
		return container.NewBitset(n)
	case String:
		return container.NewStringArray(n)
	default:
		return make(container.AnyArray, n)
	}
}

// WrapBuffer adopts existing storage, inferring the data type from its Go
// type. Numeric slices, *Bitset, *ComplexArray, []string and []any are used
// in place. []bool and []complex128 are packed into a copy, and
// []float16.Float16 is widened into a Float32 copy.
func WrapBuffer(data any) (*Buffer, error) {
	var (
		dt DataType
		st container.Storage
	)
	switch x := data.(type) {
	case []int8:
		dt, st = Int8, container.Numeric[int8](x)
	case []uint8:
		dt, st = Uint8, container.Numeric[uint8](x)
	case []int16:
		dt, st = Int16, container.Numeric[int16](x)
	case []uint16:
		dt, st = Uint16, container.Numeric[uint16](x)
	case []int32:
		dt, st = Int32, container.Numeric[int32](x)
	case []uint32:
		dt, st = Uint32, container.Numeric[uint32](x)
	case []int64:
		dt, st = Int64, container.Numeric[int64](x)
	case []uint64:
		dt, st = Uint64, container.Numeric[uint64](x)
	case []float32:
		dt, st = Float32, container.Numeric[float32](x)
	case []float64:
		dt, st = Float64, container.Numeric[float64](x)
	case []bool:
		dt, st = Bool, container.BitsetFromSlice(x)
	case *container.Bitset:
		dt, st = Bool, x
	case []complex128:
		dt, st = Complex, container.ComplexFromSlice(x)
	case *container.ComplexArray:
		dt, st = Complex, x
	case []string:
		dt, st = String, container.StringArray(x)
	case container.StringArray:
		dt, st = String, x
	case []any:
		dt, st = Any, container.AnyArray(x)
	case container.AnyArray:
		dt, st = Any, x
	case []float16.Float16:
		f32 := make(container.Numeric[float32], len(x))
		for i, h := range x {
			f32[i] = h.Float32()
		}
		dt, st = Float32, f32
	default:
		return nil, typeErrorf("cannot wrap storage of type %T", data)
	}
	b := &Buffer{dtype: dt, length: st.Len(), host: st}
	b.refs.Store(1)
	return b, nil
}

// DType returns the element type.
func (b *Buffer) DType() DataType { return b.dtype }

// Len returns the number of elements.
func (b *Buffer) Len() int { return b.length }

// Foreign reports whether the elements currently live in foreign memory.
func (b *Buffer) Foreign() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.foreign != nil
}

// Storage returns the current element storage. The result is valid until the
// next foreign allocation; fetch it again afterwards.
func (b *Buffer) Storage() container.Storage {
	b.mu.Lock()
	defer b.mu.Unlock()
	if h := b.foreign; h != nil {
		if gen := h.alloc.Generation(); h.storage == nil || gen != h.gen {
			h.storage = deriveStorage(b.dtype, b.length, h.alloc.Memory()[h.addr:h.addr+h.size])
			h.gen = gen
		}
		return h.storage
	}
	return b.host
}

// At returns element i.
func (b *Buffer) At(i int) any { return b.Storage().At(i) }

// Retain adds a reference.
func (b *Buffer) Retain() { b.refs.Add(1) }

// Release drops a reference. The last release frees any foreign memory;
// releases past zero are ignored.
func (b *Buffer) Release() {
	for {
		n := b.refs.Load()
		if n <= 0 {
			return
		}
		if b.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				b.mu.Lock()
				b.freeForeign()
				b.host = nil
				b.mu.Unlock()
			}
			return
		}
	}
}

// Refs returns the current reference count.
func (b *Buffer) Refs() int { return int(b.refs.Load()) }

// MigrateToForeign copies the elements into memory obtained from alloc and
// reports whether the buffer is now foreign-resident. A nil allocator, a
// type without a fixed-width layout or a failed allocation leave the buffer
// on the host.
func (b *Buffer) MigrateToForeign(alloc foreign.Allocator) bool {
	if alloc == nil || !b.dtype.FixedWidth() {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.foreign != nil && b.foreign.alloc == alloc {
		return true
	}

	size, align := b.dtype.byteLength(b.length), b.dtype.Size()
	if b.dtype == Complex {
		align = 8
	}
	addr := alloc.Allocate(size, align)
	if addr == 0 {
		slog.Debug("foreign allocation failed, staying on host", "dtype", b.dtype, "bytes", size)
		return false
	}

	h := &foreignHandle{alloc: alloc, addr: addr, size: size, align: align, gen: alloc.Generation()}
	h.storage = deriveStorage(b.dtype, b.length, alloc.Memory()[addr:addr+size])
	src := b.host
	if b.foreign != nil {
		old := b.foreign
		src = deriveStorage(b.dtype, b.length, old.alloc.Memory()[old.addr:old.addr+old.size])
	}
	copyStorage(h.storage, src, b.length)
	b.freeForeign()
	b.foreign = h
	b.host = nil
	return true
}

// MigrateToHost copies foreign elements back into Go memory and releases the
// foreign block. It is a no-op for host buffers.
func (b *Buffer) MigrateToHost() {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := b.foreign
	if h == nil {
		return
	}
	host := newHostStorage(b.dtype, b.length)
	copyStorage(host, deriveStorage(b.dtype, b.length, h.alloc.Memory()[h.addr:h.addr+h.size]), b.length)
	b.freeForeign()
	b.host = host
}

func (b *Buffer) preferForeign() {
	if b.length == 0 || !b.dtype.FixedWidth() || !config.PreferForeign(true) {
		return
	}
	if alloc := DefaultAllocator(); alloc != nil {
		b.MigrateToForeign(alloc)
	}
}

// freeForeign must be called with b.mu held.
func (b *Buffer) freeForeign() {
	if h := b.foreign; h != nil {
		h.alloc.Release(h.addr, h.size, h.align)
		b.foreign = nil
	}
}

func copyStorage(dst, src container.Storage, n int) {
	if d, ok := dst.(*container.Bitset); ok {
		s := src.(*container.Bitset)
		for i := 0; i < n; i++ {
			d.Set(i, s.Get(i))
		}
		return
	}
	for i := 0; i < n; i++ {
		dst.SetAt(i, src.At(i))
	}
}

// deriveStorage reinterprets a foreign byte region as typed storage.
func deriveStorage(dt DataType, n int, mem []byte) container.Storage {
	switch dt {
	case Int8:
		return container.Numeric[int8](viewAs[int8](mem, n))
	case Uint8, Uint8Clamped:
		return container.Numeric[uint8](mem[:n])
	case Int16:
		return container.Numeric[int16](viewAs[int16](mem, n))
	case Uint16:
		return container.Numeric[uint16](viewAs[uint16](mem, n))
	case Int32:
		return container.Numeric[int32](viewAs[int32](mem, n))
	case Uint32:
		return container.Numeric[uint32](viewAs[uint32](mem, n))
	case Int64:
		return container.Numeric[int64](viewAs[int64](mem, n))
	case Uint64:
		return container.Numeric[uint64](viewAs[uint64](mem, n))
	case Float32:
		return container.Numeric[float32](viewAs[float32](mem, n))
	case Float64:
		return container.Numeric[float64](viewAs[float64](mem, n))
	case Complex:
		c, err := container.WrapComplex(viewAs[float64](mem, 2*n))
		if err != nil {
			panic(err)
		}
		return c
	case Bool:
		bs, err := container.WrapBitset(mem, n, 0)
		if err != nil {
			panic(err)
		}
		return bs
	default:
		panic(fmt.Sprintf("ndarray: %s has no foreign layout", dt))
	}
}

func viewAs[T any](mem []byte, n int) []T {
	if n == 0 {
		return nil
	}
	//nolint:gosec // region length is checked by the caller's slice expression
	return unsafe.Slice((*T)(unsafe.Pointer(&mem[0])), n)
}
