// Package boxed provides Box, an owning handle to a single value stored in a
// bounded region.
//
// Boxes allocated from the same capability share its lifetime. New only
// accepts pointer-free values, since capability memory is not scanned by the
// garbage collector. A recursive structure such as a linked list holds
// pointers, so its nodes are carved from a Go slab instead:
//
//	type node struct {
//		val  int
//		next boxed.Box[node]
//	}
//
//	slab := localalloc.UninitFromSlice(make([]node, n))
//	first, _ := slab.Slice(0, 1)
//	list, _ := boxed.FromUninit(first, node{val: 0})
//
// A Box is moved, never copied: after handing a Box to another owner, stop
// using the old variable. Copying one and releasing both drops the value twice.
package boxed

import (
	"fmt"
	"unsafe"

	"github.com/pavanmanishd/localalloc"
)

// Box owns one value of T. The zero Box is empty.
type Box[T any] struct {
	ptr   *T
	owner localalloc.LocalAlloc
	alloc localalloc.Allocation
}

// New moves v into memory allocated from a. Release drops v and returns the
// memory to a. Zero-sized values do not touch a. It fails with a
// *localalloc.PointerError when T holds pointers.
func New[T any](a localalloc.LocalAlloc, v T) (Box[T], error) {
	if err := localalloc.CheckPointerFree[T](); err != nil {
		return Box[T]{}, err
	}
	layout, err := localalloc.NonZeroLayoutOf[T]()
	if err != nil {
		p := new(T)
		*p = v
		return Box[T]{ptr: p}, nil
	}
	alloc, ok := localalloc.AllocZeroed(a, layout)
	if !ok {
		return Box[T]{}, fmt.Errorf("boxed: %d bytes: %w", layout.Size(), localalloc.ErrAllocFailed)
	}
	p := (*T)(alloc.Ptr)
	*p = v
	return Box[T]{ptr: p, owner: a, alloc: alloc}, nil
}

// FromUninit moves v into the first slot of mem. The Box does not own mem:
// Release drops v but leaves the memory to whoever lent it.
func FromUninit[T any](mem localalloc.Uninit[T], v T) (Box[T], error) {
	if mem.Capacity() < 1 {
		return Box[T]{}, &localalloc.TooSmallError{Required: localalloc.LayoutOf[T]().Size(), Actual: mem.Size()}
	}
	p := mem.Slot(0)
	clear(unsafe.Slice((*byte)(unsafe.Pointer(p)), unsafe.Sizeof(v)))
	*p = v
	return Box[T]{ptr: p, alloc: localalloc.Allocation{Lifetime: mem.Lifetime()}}, nil
}

// Get returns a pointer to the value. It panics with localalloc.ErrExpired
// once the region's lifetime has ended and returns nil for an empty Box.
func (b *Box[T]) Get() *T {
	if !b.alloc.Lifetime.Alive() {
		panic(localalloc.ErrExpired)
	}
	return b.ptr
}

// Value returns a copy of the value.
func (b *Box[T]) Value() T {
	return *b.Get()
}

// Set drops the current value and stores v in its place.
func (b *Box[T]) Set(v T) {
	p := b.Get()
	localalloc.Drop(p)
	*p = v
}

// IsNil reports whether the Box is empty.
func (b *Box[T]) IsNil() bool { return b.ptr == nil }

// IsOwned reports whether the Box gives its memory back on Release.
func (b *Box[T]) IsOwned() bool { return b.owner != nil }

// Release drops the value and returns owned memory to its capability. The
// Box is empty afterwards. Releasing an empty Box is a no-op; releasing one
// whose region has expired panics with localalloc.ErrExpired.
func (b *Box[T]) Release() {
	if b.ptr == nil {
		return
	}
	p, owner, alloc := b.Get(), b.owner, b.alloc
	*b = Box[T]{}
	localalloc.Drop(p)
	if owner != nil {
		owner.Dealloc(alloc)
	}
}

// Drop implements localalloc.Dropper, so a Box held by a container is
// released with it.
func (b *Box[T]) Drop() { b.Release() }

// Take moves the value out, frees owned memory and leaves the Box empty.
// An empty Box yields the zero value.
func (b *Box[T]) Take() T {
	p := b.Get()
	if p == nil {
		var zero T
		return zero
	}
	owner, alloc := b.owner, b.alloc
	*b = Box[T]{}
	v := localalloc.Take(p)
	if owner != nil {
		owner.Dealloc(alloc)
	}
	return v
}

// Leak empties the Box without dropping the value and returns a pointer to
// it. The value stays valid until the region's lifetime ends.
func (b *Box[T]) Leak() *T {
	p := b.Get()
	*b = Box[T]{}
	return p
}
