// Package transmute reinterprets byte slices as slices of plain values
// without copying.
//
// Every conversion runs a Guard over the byte count before handing out a
// view. Guards are values, so the policy is chosen at the call site:
//
//	words, err := transmute.Many[uint16](buf, transmute.Pedantic)
//
// Target types must not hold pointers: a pointer cannot be made up from
// bytes that came off the wire. Types containing bool reject most bit
// patterns, so Many, ManyCopy and One refuse them with ErrRestricted. Bool
// and ManyChecked validate every complete element before the guard runs
// and accept them.
package transmute

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/pavanmanishd/localalloc"
)

// Many views b as a slice of T without validating bit patterns. Types with
// illegal ones fail with ErrRestricted; use ManyChecked or Bool for those.
// The slice aliases b and holds len(b)/size(T) elements after g accepts the
// byte count. Empty input that the guard accepts yields a nil slice.
//
// Aliasing needs b aligned for T, so input holding at least one element
// fails with an *UnalignedError under every guard, Permissive included.
// ManyCopy accepts any alignment.
func Many[T any](b []byte, g Guard) ([]T, error) {
	size, err := plainSize[T]()
	if err != nil {
		return nil, err
	}
	if err := g.Check(size, len(b)); err != nil {
		return nil, err
	}
	return view[T](b, size)
}

// ManyChecked is Many for types with illegal bit patterns. valid is called
// on the bytes of every complete element before the guard, and the first
// rejection returns ErrInvalidValue.
func ManyChecked[T any](b []byte, g Guard, valid func(elem []byte) bool) ([]T, error) {
	size, err := sizeOf[T]()
	if err != nil {
		return nil, err
	}
	for off := 0; off+size <= len(b); off += size {
		if !valid(b[off : off+size]) {
			return nil, ErrInvalidValue
		}
	}
	if err := g.Check(size, len(b)); err != nil {
		return nil, err
	}
	return view[T](b, size)
}

// ManyCopy is Many for input of any alignment. It copies the elements into
// a new slice instead of aliasing b. Under Permissive it yields
// len(b)/size(T) elements and never fails on the input.
func ManyCopy[T any](b []byte, g Guard) ([]T, error) {
	size, err := plainSize[T]()
	if err != nil {
		return nil, err
	}
	if err := g.Check(size, len(b)); err != nil {
		return nil, err
	}
	n := len(b) / size
	if n == 0 {
		return nil, nil
	}
	out := make([]T, n)
	copy(ToBytes(out), b[:n*size])
	return out, nil
}

// One copies a single T out of the front of b. Bytes past the first value
// are ignored; b need not be aligned.
func One[T any](b []byte) (T, error) {
	var v T
	size, err := plainSize[T]()
	if err != nil {
		return v, err
	}
	if err := SingleMany.Check(size, len(b)); err != nil {
		return v, err
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&v)), size), b)
	return v, nil
}

// ToBytes views s as its underlying bytes.
func ToBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(zero)))
}

// CheckAlignment returns an *UnalignedError if b does not start on an
// address aligned for T. The error's Offset is the number of leading bytes
// to drop.
func CheckAlignment[T any](b []byte) error {
	if len(b) == 0 {
		return nil
	}
	align := localalloc.LayoutOf[T]().Align()
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	if rem := addr % align; rem != 0 {
		return &UnalignedError{Offset: int(align - rem)}
	}
	return nil
}

func view[T any](b []byte, size int) ([]T, error) {
	n := len(b) / size
	if n == 0 {
		return nil, nil
	}
	if err := CheckAlignment[T](b); err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n), nil
}

var restrictedTypes sync.Map // reflect.Type -> bool

// sizeOf returns the size of T, or an error if T is zero-sized or holds
// pointers.
func sizeOf[T any]() (int, error) {
	t := reflect.TypeFor[T]()
	if !localalloc.TypePointerFree(t) {
		return 0, &localalloc.PointerError{Type: t}
	}
	if t.Size() == 0 {
		return 0, localalloc.ErrZeroSize
	}
	return int(t.Size()), nil
}

// plainSize is sizeOf for the unchecked conversions, which also refuse
// types with illegal bit patterns.
func plainSize[T any]() (int, error) {
	size, err := sizeOf[T]()
	if err != nil {
		return 0, err
	}
	t := reflect.TypeFor[T]()
	bad, cached := restrictedTypes.Load(t)
	if !cached {
		bad, _ = restrictedTypes.LoadOrStore(t, isRestricted(t))
	}
	if bad.(bool) {
		return 0, fmt.Errorf("%w: %v", ErrRestricted, t)
	}
	return size, nil
}

// isRestricted reports whether some byte pattern of t is not a legal value.
// t is already known to be pointer-free.
func isRestricted(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool:
		return true
	case reflect.Array:
		return t.Len() > 0 && isRestricted(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if isRestricted(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
