// Package foreign provides externally managed memory for typed buffers.
//
// An Allocator hands out addresses inside a single region that may move when
// it grows. Instead of pushing notifications to every buffer, the allocator
// exposes a generation counter that changes whenever the region relocates;
// buffers remember the generation they derived their storage from and
// re-derive lazily on the next access.
package foreign

// Allocator is the contract between typed buffers and foreign memory.
//
// Allocate returns 0 when memory cannot be provided; callers treat that as
// "stay host-resident", never as a fatal error.
type Allocator interface {
	Allocate(size, align int) int
	Release(addr, size, align int)
	Memory() []byte
	Generation() uint64
}
