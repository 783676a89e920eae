package foreign

import (
	"log/slog"
	"sort"
	"sync"
)

const (
	defaultArenaSize = 64 << 10
	minAlign         = 8
)

type block struct {
	addr int
	size int
}

// Arena is a growable region of foreign memory with first-fit reuse of
// released blocks. Growing the arena copies it to a new backing array, which
// bumps Generation.
type Arena struct {
	// Limit caps the region size in bytes. Zero means unlimited.
	Limit int

	mu   sync.Mutex
	mem  []byte
	top  int
	free []block
	gen  uint64
	live int
}

// NewArena returns an arena with an initial capacity of size bytes.
func NewArena(size, limit int) *Arena {
	if size <= 0 {
		size = defaultArenaSize
	}
	if limit > 0 && size > limit {
		size = limit
	}
	return &Arena{
		Limit: limit,
		mem:   make([]byte, size),
		top:   minAlign, // address 0 signals failure
	}
}

// Allocate reserves size bytes aligned to align and returns the address, or
// 0 when the arena cannot grow far enough.
func (a *Arena) Allocate(size, align int) int {
	if size <= 0 {
		size = 1
	}
	if align < minAlign {
		align = minAlign
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for i, b := range a.free {
		addr := alignUp(b.addr, align)
		if addr+size > b.addr+b.size {
			continue
		}
		a.free = append(a.free[:i], a.free[i+1:]...)
		if pre := addr - b.addr; pre > 0 {
			a.free = append(a.free, block{b.addr, pre})
		}
		if post := b.addr + b.size - (addr + size); post > 0 {
			a.free = append(a.free, block{addr + size, post})
		}
		a.live += size
		return addr
	}

	addr := alignUp(a.top, align)
	if addr+size > len(a.mem) && !a.grow(addr+size) {
		slog.Debug("foreign arena exhausted", "requested", size, "size", len(a.mem), "limit", a.Limit)
		return 0
	}
	a.top = addr + size
	a.live += size
	return addr
}

// Release returns a block to the arena.
func (a *Arena) Release(addr, size, _ int) {
	if addr == 0 {
		return
	}
	if size <= 0 {
		size = 1
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.live -= size
	a.free = append(a.free, block{addr, size})
	sort.Slice(a.free, func(i, j int) bool { return a.free[i].addr < a.free[j].addr })

	merged := a.free[:0]
	for _, b := range a.free {
		if n := len(merged); n > 0 && merged[n-1].addr+merged[n-1].size == b.addr {
			merged[n-1].size += b.size
			continue
		}
		merged = append(merged, b)
	}
	a.free = merged

	if n := len(a.free); n > 0 && a.free[n-1].addr+a.free[n-1].size == a.top {
		a.top = a.free[n-1].addr
		a.free = a.free[:n-1]
	}
}

// Memory returns the current backing region. The slice is invalidated by the
// next growth; compare Generation before reusing it.
func (a *Arena) Memory() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mem
}

// Generation counts relocations of the backing region.
func (a *Arena) Generation() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gen
}

// InUse returns the number of bytes currently allocated.
func (a *Arena) InUse() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

func (a *Arena) grow(need int) bool {
	size := len(a.mem)
	for size < need {
		size <<= 1
	}
	if a.Limit > 0 && size > a.Limit {
		if need > a.Limit {
			return false
		}
		size = a.Limit
	}

	mem := make([]byte, size)
	copy(mem, a.mem)
	slog.Debug("foreign arena relocated", "old", len(a.mem), "new", size, "generation", a.gen+1)
	a.mem = mem
	a.gen++
	return true
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}
