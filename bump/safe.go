package bump

import (
	"sync"

	"github.com/pavanmanishd/localalloc"
)

// Safe is a mutex-protected wrapper around Bump for concurrent access.
// All operations are goroutine-safe but come with the overhead of mutex locking.
//
// Safe only serializes calls into the region. Memory handed out is owned by
// the caller and is not protected by the mutex.
type Safe struct {
	mu sync.Mutex
	b  *Bump
}

// NewSafe wraps b. b must not be used directly afterwards.
func NewSafe(b *Bump) *Safe {
	return &Safe{b: b}
}

// Alloc implements localalloc.LocalAlloc.
func (s *Safe) Alloc(layout localalloc.NonZeroLayout) (localalloc.Allocation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Alloc(layout)
}

// AllocZeroed implements localalloc.ZeroAllocator.
func (s *Safe) AllocZeroed(layout localalloc.NonZeroLayout) (localalloc.Allocation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.AllocZeroed(layout)
}

// Dealloc implements localalloc.LocalAlloc.
func (s *Safe) Dealloc(alloc localalloc.Allocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b.Dealloc(alloc)
}

// Realloc implements localalloc.Reallocator.
func (s *Safe) Realloc(alloc localalloc.Allocation, layout localalloc.NonZeroLayout) (localalloc.Allocation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Realloc(alloc, layout)
}

// AllocBytes thread-safely allocates n bytes and returns a slice pointing to them.
// Returns nil if n <= 0 or the region is exhausted.
func (s *Safe) AllocBytes(n int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.AllocBytes(n)
}

// EnsureCapacity thread-safely reports whether n more bytes can be allocated.
func (s *Safe) EnsureCapacity(n int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.EnsureCapacity(n)
}

// Owns thread-safely reports whether alloc belongs to the current lifetime.
func (s *Safe) Owns(alloc localalloc.Allocation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Owns(alloc)
}

// Reset thread-safely makes the whole region available again.
func (s *Safe) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b.Reset()
}

// Release thread-safely drops all chunks and makes the region unusable.
func (s *Safe) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b.Release()
}

// Thread-safe metrics for Safe

// SizeInUse thread-safely returns the total number of bytes currently allocated.
func (s *Safe) SizeInUse() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.SizeInUse()
}

// NumChunks thread-safely returns the number of chunks currently held.
func (s *Safe) NumChunks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.NumChunks()
}

// Capacity thread-safely returns the total capacity of all chunks.
func (s *Safe) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Capacity()
}

// Utilization thread-safely returns the ratio of bytes in use to total capacity.
func (s *Safe) Utilization() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Utilization()
}

// Metrics thread-safely returns a snapshot of region statistics.
func (s *Safe) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Metrics()
}
