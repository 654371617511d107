package bump

import (
	"unsafe"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/pavanmanishd/localalloc"
	"github.com/pavanmanishd/localalloc/internal/check"
)

// DefaultChunkSize is the default chunk size for chunked regions (64 KiB).
const DefaultChunkSize = 1 << 16

// DefaultMaxChunks caps how many chunks a chunked region may hold.
const DefaultMaxChunks = 1024

// chunk represents a single memory block within a region.
type chunk struct {
	buf    []byte  // backing memory
	offset uintptr // allocation offset within buf
	high   uintptr // bytes handed out at least once
	zeroed bool    // bytes at or above high are known to be zero
}

// last remembers the most recent allocation so it can be given back.
type last struct {
	ptr   unsafe.Pointer
	chunk int
	prev  uintptr // chunk offset before the allocation
	start uintptr // aligned start of the allocation
}

// Bump is a bump-pointer capability over a bounded region. Not goroutine-safe;
// use Safe for concurrent access.
//
// Dealloc discipline: only the most recent allocation is reclaimed, every
// other Dealloc is an advisory no-op. Memory comes back in bulk on Reset.
type Bump struct {
	life      localalloc.Lifetime
	chunks    []chunk
	current   int
	chunkSize int
	maxChunks int
	top       last
	release   func() error
	stats     counters
}

type counters struct {
	allocs    uint64
	failures  uint64
	deallocs  uint64
	reclaimed uint64
	resets    uint64
	peak      int
}

// New returns a capability over buf. The region never grows; requests that
// do not fit fail. The caller must keep buf otherwise unused while the
// capability is live.
func New(buf []byte) *Bump {
	b := &Bump{chunkSize: len(buf), maxChunks: 1}
	b.chunks = []chunk{{buf: buf}}
	return b
}

// NewChunked returns a capability that adds chunks of cfg.ChunkSize as the
// current one fills up, up to cfg.MaxChunks. Fresh chunks are zeroed.
func NewChunked(cfg Config) (*Bump, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Bump{chunkSize: int(cfg.ChunkSize.Bytes()), maxChunks: cfg.MaxChunks}
	b.grow(b.chunkSize)
	return b, nil
}

// Alloc implements localalloc.LocalAlloc.
func (b *Bump) Alloc(layout localalloc.NonZeroLayout) (localalloc.Allocation, bool) {
	ci, start, _, ok := b.allocate(layout.Size(), layout.Align())
	if !ok {
		return localalloc.Allocation{}, false
	}
	return b.allocation(ci, start, layout), true
}

// AllocZeroed implements localalloc.ZeroAllocator. Bytes of a fresh chunk
// that were never handed out are already zero and are not cleared again.
func (b *Bump) AllocZeroed(layout localalloc.NonZeroLayout) (localalloc.Allocation, bool) {
	ci, start, dirty, ok := b.allocate(layout.Size(), layout.Align())
	if !ok {
		return localalloc.Allocation{}, false
	}
	if dirty > start {
		clear(b.chunks[ci].buf[start:dirty])
	}
	return b.allocation(ci, start, layout), true
}

// Dealloc implements localalloc.LocalAlloc. Only the most recent allocation
// is reclaimed.
func (b *Bump) Dealloc(alloc localalloc.Allocation) {
	if check.Enabled {
		check.Assert(alloc.Lifetime.Of(&b.life), "dealloc of an allocation from another capability")
		check.Assert(alloc.Valid(), "dealloc of an expired allocation")
	}
	if b.chunks == nil {
		return
	}
	b.stats.deallocs++
	if b.top.ptr == nil || b.top.ptr != alloc.Ptr || !alloc.Lifetime.Alive() {
		return
	}
	b.notePeak()
	c := &b.chunks[b.top.chunk]
	b.stats.reclaimed += uint64(c.offset - b.top.prev)
	c.offset = b.top.prev
	b.top = last{}
}

// Realloc implements localalloc.Reallocator. The most recent allocation is
// resized in place when the alignment is unchanged and the chunk has room;
// anything else, including a handle from before the last Reset, takes the
// allocate-copy-free path.
func (b *Bump) Realloc(alloc localalloc.Allocation, layout localalloc.NonZeroLayout) (localalloc.Allocation, bool) {
	b.panicIfReleased()
	if b.top.ptr != nil && b.top.ptr == alloc.Ptr && alloc.Layout.Align() == layout.Align() && alloc.Lifetime.Alive() {
		c := &b.chunks[b.top.chunk]
		end := b.top.start + layout.Size()
		if end <= uintptr(len(c.buf)) {
			b.notePeak()
			if end < c.offset {
				b.stats.reclaimed += uint64(c.offset - end)
			}
			c.offset = end
			c.high = max(c.high, end)
			return localalloc.Allocation{Ptr: alloc.Ptr, Layout: layout, Lifetime: alloc.Lifetime}, true
		}
	}
	return localalloc.DefaultRealloc(b, alloc, layout)
}

// AllocBytes returns n bytes aligned to the pointer size, or nil when n <= 0
// or the region is exhausted. The slice is valid until Reset or Release.
func (b *Bump) AllocBytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	ci, start, _, ok := b.allocate(uintptr(n), unsafe.Sizeof(uintptr(0)))
	if !ok {
		return nil
	}
	return b.chunks[ci].buf[start : start+uintptr(n) : start+uintptr(n)]
}

// EnsureCapacity reports whether n more bytes can be allocated, adding a
// chunk when the current one is too small and the region may still grow.
func (b *Bump) EnsureCapacity(n int) bool {
	b.panicIfReleased()
	c := &b.chunks[b.current]
	if alignPtr(c.offset)+uintptr(n) <= uintptr(len(c.buf)) {
		return true
	}
	for i := b.current + 1; i < len(b.chunks); i++ {
		if n <= len(b.chunks[i].buf) {
			return true
		}
	}
	if len(b.chunks) >= b.maxChunks {
		return false
	}
	b.grow(n)
	return true
}

// Reset makes the whole region available again and keeps chunks for reuse.
// Every Allocation handed out so far expires.
func (b *Bump) Reset() {
	b.panicIfReleased()
	b.notePeak()
	for i := range b.chunks {
		b.chunks[i].offset = 0
	}
	b.current = 0
	b.top = last{}
	b.life.Renew()
	b.stats.resets++
	localalloc.Logger().Debug("bump region reset",
		zap.String("capacity", humanize.IBytes(uint64(b.Capacity()))),
		zap.Uint64("resets", b.stats.resets))
}

// Release drops all chunks and makes the capability unusable. Any
// subsequent allocation panics. Releasing twice is a no-op.
func (b *Bump) Release() {
	if b.chunks == nil {
		return
	}
	b.notePeak()
	b.life.End()
	b.chunks = nil
	b.top = last{}
	if b.release != nil {
		if err := b.release(); err != nil {
			localalloc.Logger().Warn("bump region release failed", zap.Error(err))
		}
		b.release = nil
	}
	localalloc.Logger().Debug("bump region released", zap.Int("peak", b.stats.peak))
}

// Owns reports whether alloc was handed out by b in its current lifetime.
func (b *Bump) Owns(alloc localalloc.Allocation) bool {
	return alloc.Lifetime.Of(&b.life) && alloc.Valid()
}

// Remaining returns the bytes left in the current chunk.
func (b *Bump) Remaining() int {
	if b.chunks == nil {
		return 0
	}
	c := b.chunks[b.current]
	return len(c.buf) - int(c.offset)
}

// allocate carves size bytes aligned to align. dirty is the end of the part
// of [start, start+size) that may hold stale bytes.
func (b *Bump) allocate(size, align uintptr) (ci int, start, dirty uintptr, ok bool) {
	b.panicIfReleased()
	for ci = b.current; ci < len(b.chunks); ci++ {
		if start, dirty, ok = b.carve(ci, size, align); ok {
			b.current = ci
			return ci, start, dirty, true
		}
	}
	if len(b.chunks) < b.maxChunks {
		b.grow(int(size + align - 1))
		ci = len(b.chunks) - 1
		if start, dirty, ok = b.carve(ci, size, align); ok {
			b.current = ci
			return ci, start, dirty, true
		}
	}
	b.stats.failures++
	localalloc.Logger().Debug("bump region exhausted",
		zap.String("requested", humanize.IBytes(uint64(size))),
		zap.Uint64("align", uint64(align)),
		zap.String("in_use", humanize.IBytes(uint64(b.SizeInUse()))),
		zap.String("capacity", humanize.IBytes(uint64(b.Capacity()))))
	return 0, 0, 0, false
}

func (b *Bump) carve(ci int, size, align uintptr) (start, dirty uintptr, ok bool) {
	c := &b.chunks[ci]
	if len(c.buf) == 0 {
		return 0, 0, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(c.buf)))
	start = alignUp(base+c.offset, align) - base
	end := start + size
	if end < start || end > uintptr(len(c.buf)) {
		return 0, 0, false
	}
	dirty = end
	if c.zeroed {
		dirty = min(end, max(c.high, start))
	}
	b.top = last{ptr: unsafe.Pointer(&c.buf[start]), chunk: ci, prev: c.offset, start: start}
	c.offset = end
	c.high = max(c.high, end)
	b.stats.allocs++
	return start, dirty, true
}

func (b *Bump) allocation(ci int, start uintptr, layout localalloc.NonZeroLayout) localalloc.Allocation {
	return localalloc.Allocation{
		Ptr:      unsafe.Pointer(&b.chunks[ci].buf[start]),
		Layout:   layout,
		Lifetime: b.life.Time(),
	}
}

// grow appends a new zeroed chunk of at least min bytes.
func (b *Bump) grow(min int) {
	size := b.chunkSize
	if min > size {
		size = min
	}
	b.chunks = append(b.chunks, chunk{buf: make([]byte, size), zeroed: true})
	localalloc.Logger().Debug("bump region grew",
		zap.Int("chunks", len(b.chunks)),
		zap.String("chunk_size", humanize.IBytes(uint64(size))))
}

func (b *Bump) notePeak() {
	if used := b.SizeInUse(); used > b.stats.peak {
		b.stats.peak = used
	}
}

// panicIfReleased panics if the region has been released.
func (b *Bump) panicIfReleased() {
	if b.chunks == nil {
		panic("bump: use after Release()")
	}
}

// alignPtr aligns the offset up to pointer size alignment.
func alignPtr(off uintptr) uintptr {
	return alignUp(off, unsafe.Sizeof(uintptr(0)))
}

func alignUp(off, align uintptr) uintptr {
	mask := align - 1
	return (off + mask) &^ mask
}
