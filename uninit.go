package localalloc

import (
	"math"
	"reflect"
	"unsafe"
)

// zeroBase is the address handed out for regions of zero-sized values.
var zeroBase [0]uint64

// Uninit is a typed window onto memory that may not be initialized. It
// performs no initialization and tracks nothing about which slots hold
// values; containers built on top do that.
//
// Values written into a region that came from a capability are invisible to
// the garbage collector. Such a region must not hold the only reference to a
// Go heap object. Regions built with UninitFromSlice are scanned normally.
type Uninit[T any] struct {
	ptr      unsafe.Pointer
	size     uintptr
	lifetime AllocTime
}

// EmptyUninit returns a region of zero bytes. For zero-sized T it still has
// unbounded capacity.
func EmptyUninit[T any]() Uninit[T] {
	return Uninit[T]{ptr: unsafe.Pointer(&zeroBase)}
}

// UninitFromBytes borrows b as an uninitialized byte region.
func UninitFromBytes(b []byte) Uninit[byte] {
	return UninitFromSlice(b)
}

// UninitFromSlice borrows the whole capacity of s. Existing contents are
// treated as uninitialized.
func UninitFromSlice[T any](s []T) Uninit[T] {
	if cap(s) == 0 {
		return EmptyUninit[T]()
	}
	s = s[:cap(s)]
	return Uninit[T]{
		ptr:  unsafe.Pointer(unsafe.SliceData(s)),
		size: uintptr(len(s)) * LayoutOf[T]().Size(),
	}
}

// UninitFromPointer describes size bytes at ptr tied to lifetime. The caller
// guarantees the memory is valid for that long.
func UninitFromPointer[T any](ptr unsafe.Pointer, size uintptr, lifetime AllocTime) Uninit[T] {
	if ptr == nil {
		return EmptyUninit[T]()
	}
	return Uninit[T]{ptr: ptr, size: size, lifetime: lifetime}
}

// Size returns the region's length in bytes.
func (u Uninit[T]) Size() uintptr { return u.size }

// Capacity returns how many values of T fit in the region.
func (u Uninit[T]) Capacity() int {
	elem := LayoutOf[T]().Size()
	if elem == 0 {
		return math.MaxInt
	}
	return int(u.size / elem)
}

// IsEmpty reports whether the region has no bytes.
func (u Uninit[T]) IsEmpty() bool { return u.size == 0 }

// Pointer returns the start of the region.
func (u Uninit[T]) Pointer() unsafe.Pointer { return u.ptr }

// Lifetime returns the scope the region belongs to.
func (u Uninit[T]) Lifetime() AllocTime { return u.lifetime }

// Alive reports whether the region may still be dereferenced.
func (u Uninit[T]) Alive() bool { return u.lifetime.Alive() }

// Slot returns a pointer to the i-th slot. The slot may be uninitialized. It
// panics when i is outside the capacity or the region's lifetime has ended.
func (u Uninit[T]) Slot(i int) *T {
	if i < 0 || i >= u.Capacity() {
		panic(&IndexError{Index: i, Len: u.Capacity()})
	}
	u.lifetime.mustBeAlive()
	return (*T)(unsafe.Add(u.ptr, uintptr(i)*LayoutOf[T]().Size()))
}

// Write initializes slot 0 with v and returns a pointer to it.
func (u Uninit[T]) Write(v T) *T {
	p := u.Slot(0)
	*p = v
	return p
}

// Slice returns the sub-region holding slots [lo, hi).
func (u Uninit[T]) Slice(lo, hi int) (Uninit[T], error) {
	capacity := u.Capacity()
	if lo < 0 || lo > capacity {
		return Uninit[T]{}, &IndexError{Index: lo, Len: capacity}
	}
	if hi < lo || hi > capacity {
		return Uninit[T]{}, &IndexError{Index: hi, Len: capacity}
	}
	elem := LayoutOf[T]().Size()
	size := uintptr(hi-lo) * elem
	if elem == 0 {
		size = 0
	}
	return Uninit[T]{ptr: u.at(uintptr(lo) * elem), size: size, lifetime: u.lifetime}, nil
}

// SplitAt splits the region after n slots. Trailing bytes that do not form a
// whole slot stay with the second half.
func (u Uninit[T]) SplitAt(n int) (Uninit[T], Uninit[T], error) {
	if n < 0 || n > u.Capacity() {
		return Uninit[T]{}, Uninit[T]{}, &IndexError{Index: n, Len: u.Capacity()}
	}
	at := uintptr(n) * LayoutOf[T]().Size()
	head := Uninit[T]{ptr: u.ptr, size: at, lifetime: u.lifetime}
	tail := Uninit[T]{ptr: u.at(at), size: u.size - at, lifetime: u.lifetime}
	return head, tail, nil
}

// Bytes reinterprets the region as raw bytes.
func (u Uninit[T]) Bytes() Uninit[byte] {
	return Uninit[byte]{ptr: u.ptr, size: u.size, lifetime: u.lifetime}
}

// Cast views the region as holding values of U. The region must be aligned
// for U and hold at least one U. A U that holds pointers is refused with a
// *PointerError unless it is T itself.
func Cast[U, T any](u Uninit[T]) (Uninit[U], error) {
	if err := checkCast[U, T](); err != nil {
		return Uninit[U]{}, err
	}
	l := LayoutOf[U]()
	if off := misalignment(u.ptr, l.Align()); off != 0 {
		return Uninit[U]{}, &MisalignedError{Offset: off, Align: l.Align()}
	}
	if u.size < l.Size() {
		return Uninit[U]{}, &TooSmallError{Required: l.Size(), Actual: u.size}
	}
	return Uninit[U]{ptr: u.ptr, size: u.size, lifetime: u.lifetime}, nil
}

// CastSlice views the region as capacity for values of U. Alignment and the
// pointer rule of Cast are checked; the result may have capacity 0.
func CastSlice[U, T any](u Uninit[T]) (Uninit[U], error) {
	if err := checkCast[U, T](); err != nil {
		return Uninit[U]{}, err
	}
	l := LayoutOf[U]()
	if u.size == 0 {
		return Uninit[U]{ptr: u.ptr, lifetime: u.lifetime}, nil
	}
	if off := misalignment(u.ptr, l.Align()); off != 0 {
		return Uninit[U]{}, &MisalignedError{Offset: off, Align: l.Align()}
	}
	return Uninit[U]{ptr: u.ptr, size: u.size, lifetime: u.lifetime}, nil
}

// AlignFor drops the prefix of u that is not aligned for U and returns the
// rest viewed as U. It fails with a TooSmallError when the prefix does not
// fit and follows the pointer rule of Cast.
func AlignFor[U, T any](u Uninit[T]) (Uninit[U], error) {
	if err := checkCast[U, T](); err != nil {
		return Uninit[U]{}, err
	}
	l := LayoutOf[U]()
	off := misalignment(u.ptr, l.Align())
	if off > u.size {
		return Uninit[U]{}, &TooSmallError{Required: off, Actual: u.size}
	}
	return Uninit[U]{ptr: u.at(off), size: u.size - off, lifetime: u.lifetime}, nil
}

// at returns the address off bytes into the region. An offset at or past the
// end yields the region's start so no pointer ever leaves the allocation.
func (u Uninit[T]) at(off uintptr) unsafe.Pointer {
	if off >= u.size {
		return u.ptr
	}
	return unsafe.Add(u.ptr, off)
}

// misalignment returns the bytes to skip from p to reach align.
func misalignment(p unsafe.Pointer, align uintptr) uintptr {
	addr := uintptr(p)
	return alignUp(addr, align) - addr
}

// checkCast refuses to reinterpret memory as a pointer-holding type: the
// garbage collector would not know the new pointers are there.
func checkCast[U, T any]() error {
	ut := reflect.TypeFor[U]()
	if ut == reflect.TypeFor[T]() || TypePointerFree(ut) {
		return nil
	}
	return &PointerError{Type: ut}
}
