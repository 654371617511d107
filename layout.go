package localalloc

import (
	"math"
	"math/bits"
	"unsafe"
)

// Layout is the size and alignment of a memory block.
type Layout struct {
	size  uintptr
	align uintptr
}

// NewLayout validates size and align. The alignment must be a power of two
// and size rounded up to align must not exceed math.MaxInt.
func NewLayout(size, align uintptr) (Layout, error) {
	if align == 0 || bits.OnesCount64(uint64(align)) != 1 {
		return Layout{}, &LayoutError{Size: size, Align: align, Err: ErrInvalidLayout}
	}
	if size > uintptr(math.MaxInt)-(align-1) {
		return Layout{}, &LayoutError{Size: size, Align: align, Err: ErrInvalidLayout}
	}
	return Layout{size: size, align: align}, nil
}

// LayoutOf returns the layout of T.
func LayoutOf[T any]() Layout {
	var zero T
	return Layout{size: unsafe.Sizeof(zero), align: unsafe.Alignof(zero)}
}

// ArrayLayout returns the layout of n contiguous values of T.
func ArrayLayout[T any](n int) (Layout, error) {
	elem := LayoutOf[T]()
	if n < 0 {
		return Layout{}, &LayoutError{Size: elem.size, Align: elem.align, Err: ErrInvalidLayout}
	}
	hi, total := bits.Mul64(uint64(elem.size), uint64(n))
	if hi != 0 || total > uint64(math.MaxInt) {
		return Layout{}, &LayoutError{Size: elem.size, Align: elem.align, Err: ErrInvalidLayout}
	}
	return NewLayout(uintptr(total), elem.align)
}

// Size returns the size in bytes.
func (l Layout) Size() uintptr { return l.size }

// Align returns the alignment in bytes.
func (l Layout) Align() uintptr { return l.align }

// PaddedSize returns the size rounded up to the alignment.
func (l Layout) PaddedSize() uintptr {
	return alignUp(l.size, l.align)
}

// NonZero converts l, failing with ErrZeroSize when the size is 0.
func (l Layout) NonZero() (NonZeroLayout, error) {
	if l.size == 0 {
		return NonZeroLayout{}, &LayoutError{Size: l.size, Align: l.align, Err: ErrZeroSize}
	}
	return NonZeroLayout{l: l}, nil
}

// NonZeroLayout is a Layout whose size is at least one byte. Capabilities
// only ever see non-zero requests.
type NonZeroLayout struct {
	l Layout
}

// NewNonZeroLayout validates size and align and rejects size 0.
func NewNonZeroLayout(size, align uintptr) (NonZeroLayout, error) {
	l, err := NewLayout(size, align)
	if err != nil {
		return NonZeroLayout{}, err
	}
	return l.NonZero()
}

// NonZeroLayoutOf returns the layout of T, failing for zero-sized types.
func NonZeroLayoutOf[T any]() (NonZeroLayout, error) {
	return LayoutOf[T]().NonZero()
}

func (l NonZeroLayout) Size() uintptr  { return l.l.size }
func (l NonZeroLayout) Align() uintptr { return l.l.align }
func (l NonZeroLayout) Layout() Layout { return l.l }

// alignUp rounds off up to a multiple of align, which must be a power of two.
func alignUp(off, align uintptr) uintptr {
	mask := align - 1
	return (off + mask) &^ mask
}
