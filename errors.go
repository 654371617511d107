package localalloc

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidLayout is returned when an alignment is not a power of two or
	// the size rounded up to the alignment overflows.
	ErrInvalidLayout = errors.New("localalloc: invalid layout")

	// ErrZeroSize is returned when a zero-sized layout is converted to a
	// NonZeroLayout.
	ErrZeroSize = errors.New("localalloc: zero-sized layout")

	// ErrMisaligned is returned when a region is not aligned for the requested type.
	ErrMisaligned = errors.New("localalloc: misaligned region")

	// ErrTooSmall is returned when a region cannot hold the requested type.
	ErrTooSmall = errors.New("localalloc: region too small")

	// ErrIndexOutOfBounds is returned by bounds-checked accessors.
	ErrIndexOutOfBounds = errors.New("localalloc: index out of bounds")

	// ErrAllocFailed is returned when a capability cannot satisfy a request.
	ErrAllocFailed = errors.New("localalloc: allocation failed")

	// ErrPointers is returned when a type that holds Go pointers would be
	// placed in memory the garbage collector does not scan.
	ErrPointers = errors.New("localalloc: type holds pointers")

	// ErrExpired is the panic value raised when memory is touched after the
	// lifetime it was handed out for has ended.
	ErrExpired = errors.New("localalloc: allocation used outside its lifetime")
)

// LayoutError describes a rejected (size, align) pair.
type LayoutError struct {
	Size  uintptr
	Align uintptr
	Err   error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("%v: size=%d align=%d", e.Err, e.Size, e.Align)
}

func (e *LayoutError) Unwrap() error { return e.Err }

// MisalignedError reports how many bytes must be skipped from the front of a
// region before it is aligned for the requested type.
type MisalignedError struct {
	Offset uintptr
	Align  uintptr
}

func (e *MisalignedError) Error() string {
	return fmt.Sprintf("%v: need %d-byte alignment, skip %d bytes", ErrMisaligned, e.Align, e.Offset)
}

func (e *MisalignedError) Unwrap() error { return ErrMisaligned }

// TooSmallError reports the bytes a request needed against what a region holds.
type TooSmallError struct {
	Required uintptr
	Actual   uintptr
}

func (e *TooSmallError) Error() string {
	return fmt.Sprintf("%v: required=%d actual=%d", ErrTooSmall, e.Required, e.Actual)
}

func (e *TooSmallError) Unwrap() error { return ErrTooSmall }

// IndexError is returned for an index or range outside [0, Len].
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%v: index %d, len %d", ErrIndexOutOfBounds, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfBounds }

// PointerError names a pointer-holding type that was refused.
type PointerError struct {
	Type reflect.Type
}

func (e *PointerError) Error() string {
	return fmt.Sprintf("%v: %v", ErrPointers, e.Type)
}

func (e *PointerError) Unwrap() error { return ErrPointers }
