package localalloc

import (
	"runtime"
	"unsafe"

	"github.com/pavanmanishd/localalloc/internal/check"
)

// LocalAlloc is a capability granting allocations from a bounded region.
// Unlike the Go heap it makes no claim of global uniqueness, and it is not
// required to be safe for concurrent use.
//
// Alloc returns a block valid for at least layout.Size() bytes, aligned to at
// least layout.Align(), with unspecified content. It returns false when the
// region cannot satisfy the request.
//
// Dealloc returns a block obtained from the same capability. The caller must
// hold the only reference to it. Breaking either rule is undefined behavior;
// it is only checked in builds made with -tags debug. A capability may treat
// Dealloc as advisory and reclaim memory only on a bulk reset.
type LocalAlloc interface {
	Alloc(layout NonZeroLayout) (Allocation, bool)
	Dealloc(alloc Allocation)
}

// ZeroAllocator is implemented by capabilities that can hand out zeroed
// memory cheaper than Alloc followed by a clear.
type ZeroAllocator interface {
	AllocZeroed(layout NonZeroLayout) (Allocation, bool)
}

// Reallocator is implemented by capabilities that can resize a block without
// the generic allocate-copy-free sequence.
type Reallocator interface {
	Realloc(alloc Allocation, layout NonZeroLayout) (Allocation, bool)
}

// Allocation is a block handed out by a capability. It is owned by whoever
// holds it and moves by value; it must not be used after being passed to
// Dealloc or Realloc.
type Allocation struct {
	// Ptr is the start of the possibly uninitialized bytes.
	Ptr unsafe.Pointer
	// Layout is the layout that was requested.
	Layout NonZeroLayout
	// Lifetime ties the block to its capability's scope.
	Lifetime AllocTime
}

// Valid reports whether the allocation is non-nil and its scope is still alive.
func (a Allocation) Valid() bool {
	return a.Ptr != nil && a.Lifetime.Alive()
}

// Bytes returns the block as a byte slice of Layout.Size() bytes. It panics
// with ErrExpired when the block's lifetime has ended.
func (a Allocation) Bytes() []byte {
	a.Lifetime.mustBeAlive()
	return unsafe.Slice((*byte)(a.Ptr), a.Layout.Size())
}

// Uninit returns the block as an uninitialized byte region.
func (a Allocation) Uninit() Uninit[byte] {
	a.Lifetime.mustBeAlive()
	return Uninit[byte]{ptr: a.Ptr, size: a.Layout.Size(), lifetime: a.Lifetime}
}

// AllocZeroed allocates a zeroed block, using the capability's own
// implementation when it has one.
func AllocZeroed(a LocalAlloc, layout NonZeroLayout) (Allocation, bool) {
	if z, ok := a.(ZeroAllocator); ok {
		return z.AllocZeroed(layout)
	}
	return DefaultAllocZeroed(a, layout)
}

// DefaultAllocZeroed is Alloc followed by zeroing layout.Size() bytes.
func DefaultAllocZeroed(a LocalAlloc, layout NonZeroLayout) (Allocation, bool) {
	alloc, ok := a.Alloc(layout)
	if !ok {
		return Allocation{}, false
	}
	clear(unsafe.Slice((*byte)(alloc.Ptr), layout.Size()))
	return alloc, true
}

// Realloc moves alloc into a block of the new layout, preserving the common
// prefix of its bytes. On failure alloc is left untouched and still owned by
// the caller.
//
// Callers must go through Realloc for every alignment change, including a
// weaker one or one the pointer already happens to satisfy: a capability may
// depend on the originally requested alignment when deallocating.
func Realloc(a LocalAlloc, alloc Allocation, layout NonZeroLayout) (Allocation, bool) {
	if check.Enabled {
		check.Assert(alloc.Valid(), "realloc of an expired or nil allocation")
	}
	if r, ok := a.(Reallocator); ok {
		return r.Realloc(alloc, layout)
	}
	return DefaultRealloc(a, alloc, layout)
}

// DefaultRealloc allocates layout, copies min(old, new) bytes and frees alloc.
func DefaultRealloc(a LocalAlloc, alloc Allocation, layout NonZeroLayout) (Allocation, bool) {
	next, ok := a.Alloc(layout)
	if !ok {
		return Allocation{}, false
	}
	n := min(alloc.Layout.Size(), layout.Size())
	copy(unsafe.Slice((*byte)(next.Ptr), n), unsafe.Slice((*byte)(alloc.Ptr), n))
	a.Dealloc(alloc)
	return next, true
}

// New returns a zeroed T allocated from a. The block is never deallocated
// individually; it lives until the capability's scope ends.
// Zero-sized types do not touch the capability. New panics with a
// *PointerError when T holds pointers.
func New[T any](a LocalAlloc) (*T, bool) {
	mustBePointerFree[T]()
	layout, err := NonZeroLayoutOf[T]()
	if err != nil {
		return new(T), true
	}
	alloc, ok := AllocZeroed(a, layout)
	if !ok {
		return nil, false
	}
	return (*T)(alloc.Ptr), true
}

// MakeSlice returns n zeroed values of T allocated from a, with the same
// lifetime and pointer rules as New. It returns nil, true for n == 0.
func MakeSlice[T any](a LocalAlloc, n int) ([]T, bool) {
	if n <= 0 {
		return nil, n == 0
	}
	u, ok := allocArray[T](a, n, true)
	if !ok {
		return nil, false
	}
	return unsafe.Slice((*T)(u.ptr), n), true
}

// AllocUninit returns an uninitialized region for n values of T allocated
// from a, with the same lifetime and pointer rules as New.
func AllocUninit[T any](a LocalAlloc, n int) (Uninit[T], bool) {
	if n < 0 {
		return Uninit[T]{}, false
	}
	return allocArray[T](a, n, false)
}

func allocArray[T any](a LocalAlloc, n int, zeroed bool) (Uninit[T], bool) {
	mustBePointerFree[T]()
	l, err := ArrayLayout[T](n)
	if err != nil {
		return Uninit[T]{}, false
	}
	layout, err := l.NonZero()
	if err != nil {
		return EmptyUninit[T](), true
	}
	var (
		alloc Allocation
		ok    bool
	)
	if zeroed {
		alloc, ok = AllocZeroed(a, layout)
	} else {
		alloc, ok = a.Alloc(layout)
	}
	if !ok {
		return Uninit[T]{}, false
	}
	return Uninit[T]{ptr: alloc.Ptr, size: layout.Size(), lifetime: alloc.Lifetime}, true
}

// KeepAlive returns p and keeps a reachable until this call. It is useful
// when the only remaining reference into a capability's region is p.
func KeepAlive[T any](a LocalAlloc, p *T) *T {
	runtime.KeepAlive(a)
	return p
}
