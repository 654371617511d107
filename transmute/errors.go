package transmute

import (
	"errors"
	"fmt"

	"github.com/pavanmanishd/localalloc"
)

var (
	// ErrGuard is wrapped by every *GuardError.
	ErrGuard = errors.New("transmute: byte count rejected")

	// ErrInvalidValue is returned when a complete element's bytes are not a
	// legal value of the target type.
	ErrInvalidValue = errors.New("transmute: invalid value")

	// ErrPointers is wrapped by the *localalloc.PointerError returned for
	// target types that hold pointers.
	ErrPointers = localalloc.ErrPointers

	// ErrRestricted is returned by the unchecked conversions for types such
	// as bool that have illegal bit patterns.
	ErrRestricted = errors.New("transmute: type has illegal bit patterns")
)

// Reason says why a guard rejected a byte count.
type Reason int

const (
	// NotEnoughBytes means the input is shorter than the guard needs.
	NotEnoughBytes Reason = iota + 1
	// TooManyBytes means the input is longer than the guard allows.
	TooManyBytes
	// InexactByteCount means the input leaves a partial element.
	InexactByteCount
)

func (r Reason) String() string {
	switch r {
	case NotEnoughBytes:
		return "not enough bytes"
	case TooManyBytes:
		return "too many bytes"
	case InexactByteCount:
		return "inexact byte count"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// GuardError reports the byte count a guard wanted against what it got.
type GuardError struct {
	Required int
	Actual   int
	Reason   Reason
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("transmute: %v: required=%d actual=%d", e.Reason, e.Required, e.Actual)
}

func (e *GuardError) Unwrap() error { return ErrGuard }

// UnalignedError reports how many bytes must be dropped from the front of
// the input before it is aligned for the target type.
type UnalignedError struct {
	Offset int
}

func (e *UnalignedError) Error() string {
	return fmt.Sprintf("transmute: unaligned input, skip %d bytes", e.Offset)
}

func (e *UnalignedError) Unwrap() error { return localalloc.ErrMisaligned }
