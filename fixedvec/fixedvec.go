package fixedvec

import (
	"fmt"
	"iter"
	"slices"
	"unsafe"

	"github.com/pavanmanishd/localalloc"
)

// FixedVec is a vector whose capacity is fixed when it is built. Slots
// [0, Len()) hold values owned by the vector; slots beyond that hold zero
// values and are never handed out.
//
// A FixedVec is not safe for concurrent use. While a Drain over it is open
// every method except Cap panics with ErrDrainActive.
type FixedVec[T any] struct {
	mem      localalloc.Uninit[T]
	items    []T // len is the vector's length, cap its capacity
	owner    localalloc.LocalAlloc
	alloc    localalloc.Allocation
	draining bool
}

// New builds an empty vector over mem. The region is cleared first and its
// capacity becomes the vector's capacity.
func New[T any](mem localalloc.Uninit[T]) *FixedVec[T] {
	v := over(mem)
	clear(v.items[:cap(v.items)])
	return v
}

// WithCapacity allocates room for n values from a. Release returns the
// region to a. It fails with an error wrapping localalloc.ErrAllocFailed
// when a cannot satisfy the request, and with a *localalloc.PointerError
// when T holds pointers; build such vectors with New over a Go slice.
func WithCapacity[T any](a localalloc.LocalAlloc, n int) (*FixedVec[T], error) {
	if err := localalloc.CheckPointerFree[T](); err != nil {
		return nil, err
	}
	l, err := localalloc.ArrayLayout[T](n)
	if err != nil {
		return nil, err
	}
	layout, err := l.NonZero()
	if err != nil {
		v := New(localalloc.EmptyUninit[T]())
		v.items = v.items[:0:min(n, cap(v.items))]
		return v, nil
	}
	alloc, ok := localalloc.AllocZeroed(a, layout)
	if !ok {
		return nil, fmt.Errorf("fixedvec: %d values of %d bytes: %w", n, localalloc.LayoutOf[T]().Size(), localalloc.ErrAllocFailed)
	}
	mem, err := localalloc.CastSlice[T](alloc.Uninit())
	if err != nil {
		a.Dealloc(alloc)
		return nil, err
	}
	v := over(mem)
	v.owner = a
	v.alloc = alloc
	return v, nil
}

func over[T any](mem localalloc.Uninit[T]) *FixedVec[T] {
	n := mem.Capacity()
	return &FixedVec[T]{
		mem:   mem,
		items: unsafe.Slice((*T)(mem.Pointer()), n)[:0],
	}
}

// Len returns the number of values in the vector.
func (v *FixedVec[T]) Len() int {
	v.enter()
	return len(v.items)
}

// Cap returns the fixed capacity.
func (v *FixedVec[T]) Cap() int { return cap(v.items) }

// IsEmpty reports whether the vector holds no values.
func (v *FixedVec[T]) IsEmpty() bool { return v.Len() == 0 }

// IsFull reports whether a Push would fail.
func (v *FixedVec[T]) IsFull() bool { return v.Len() == v.Cap() }

// Push appends x. When the vector is full it returns a *CapacityError holding
// x and leaves the vector unchanged.
func (v *FixedVec[T]) Push(x T) error {
	v.enter()
	n := len(v.items)
	if n == cap(v.items) {
		return &CapacityError[T]{Value: x, Cap: n}
	}
	v.items = v.items[:n+1]
	v.items[n] = x
	return nil
}

// Pop removes and returns the last value.
func (v *FixedVec[T]) Pop() (T, bool) {
	v.enter()
	n := len(v.items)
	if n == 0 {
		var zero T
		return zero, false
	}
	x := localalloc.Take(&v.items[n-1])
	v.items = v.items[:n-1]
	return x, true
}

// Get returns the value at i.
func (v *FixedVec[T]) Get(i int) (T, error) {
	p, err := v.At(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// At returns a pointer to the value at i. The pointer is valid until the
// value is removed.
func (v *FixedVec[T]) At(i int) (*T, error) {
	v.enter()
	if i < 0 || i >= len(v.items) {
		return nil, &localalloc.IndexError{Index: i, Len: len(v.items)}
	}
	return &v.items[i], nil
}

// Set replaces the value at i, dropping the old one.
func (v *FixedVec[T]) Set(i int, x T) error {
	p, err := v.At(i)
	if err != nil {
		return err
	}
	localalloc.Drop(p)
	*p = x
	return nil
}

// Insert places x at i and shifts later values up by one.
func (v *FixedVec[T]) Insert(i int, x T) error {
	v.enter()
	n := len(v.items)
	if i < 0 || i > n {
		return &localalloc.IndexError{Index: i, Len: n}
	}
	if n == cap(v.items) {
		return &CapacityError[T]{Value: x, Cap: n}
	}
	v.items = v.items[:n+1]
	copy(v.items[i+1:], v.items[i:n])
	v.items[i] = x
	return nil
}

// Remove takes the value at i out and shifts later values down by one.
func (v *FixedVec[T]) Remove(i int) (T, error) {
	v.enter()
	n := len(v.items)
	if i < 0 || i >= n {
		var zero T
		return zero, &localalloc.IndexError{Index: i, Len: n}
	}
	x := v.items[i]
	copy(v.items[i:], v.items[i+1:])
	var zero T
	v.items[n-1] = zero
	v.items = v.items[:n-1]
	return x, nil
}

// SwapRemove takes the value at i out and moves the last value into its
// place. It does not preserve order but runs in constant time.
func (v *FixedVec[T]) SwapRemove(i int) (T, error) {
	v.enter()
	n := len(v.items)
	if i < 0 || i >= n {
		var zero T
		return zero, &localalloc.IndexError{Index: i, Len: n}
	}
	x := v.items[i]
	last := localalloc.Take(&v.items[n-1])
	if i != n-1 {
		v.items[i] = last
	}
	v.items = v.items[:n-1]
	return x, nil
}

// Truncate drops the values at [n, Len()) and shortens the vector to n. It
// does nothing when n >= Len().
func (v *FixedVec[T]) Truncate(n int) {
	v.enter()
	if n < 0 {
		n = 0
	}
	if n >= len(v.items) {
		return
	}
	tail := v.items[n:]
	v.items = v.items[:n]
	for i := range tail {
		localalloc.Drop(&tail[i])
	}
}

// Clear drops every value.
func (v *FixedVec[T]) Clear() { v.Truncate(0) }

// Fill pushes values from xs in order until the vector is full and returns
// the values that did not fit.
func (v *FixedVec[T]) Fill(xs []T) []T {
	v.enter()
	k := min(cap(v.items)-len(v.items), len(xs))
	v.items = append(v.items, xs[:k]...)
	return xs[k:]
}

// FillFrom pushes values produced by next until next reports false or the
// vector is full, and returns how many were pushed. next is not called once
// the vector is full, so whatever it has not produced stays with the caller.
// It pairs with iter.Pull.
func (v *FixedVec[T]) FillFrom(next func() (T, bool)) int {
	v.enter()
	pushed := 0
	for len(v.items) < cap(v.items) {
		x, ok := next()
		if !ok {
			break
		}
		v.items = append(v.items, x)
		pushed++
	}
	return pushed
}

// Slice returns the values as a slice sharing the vector's memory. It is
// valid until the next call that changes the length.
func (v *FixedVec[T]) Slice() []T {
	v.enter()
	return v.items[:len(v.items):len(v.items)]
}

// All returns an iterator over index-value pairs.
func (v *FixedVec[T]) All() iter.Seq2[int, T] {
	return slices.All(v.Slice())
}

// Values returns an iterator over the values.
func (v *FixedVec[T]) Values() iter.Seq[T] {
	return slices.Values(v.Slice())
}

// Release drops every value and, when the vector owns its region, returns
// it to the capability it came from. The vector is left empty with capacity
// 0. Releasing twice is a no-op.
func (v *FixedVec[T]) Release() {
	v.Clear()
	if v.owner != nil {
		v.owner.Dealloc(v.alloc)
	}
	*v = FixedVec[T]{mem: localalloc.EmptyUninit[T]()}
}

// enter panics when the vector cannot be touched.
func (v *FixedVec[T]) enter() {
	if v.draining {
		panic(ErrDrainActive)
	}
	if !v.mem.Alive() {
		panic(localalloc.ErrExpired)
	}
}
