package fixedvec

import (
	"slices"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// Integer is the set of element types whose memory is exactly their value,
// so hashing the bytes of a vector is the same as hashing its values.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Sum64 hashes the values of v. Vectors and slices holding the same values
// hash the same, so either can be used to look up a key built from the other.
func Sum64[T Integer](v *FixedVec[T]) uint64 {
	return SliceSum64(v.Slice())
}

// SliceSum64 hashes the values of s the way Sum64 does.
func SliceSum64[T Integer](s []T) uint64 {
	if len(s) == 0 {
		return xxhash.Sum64(nil)
	}
	var zero T
	n := len(s) * int(unsafe.Sizeof(zero))
	return xxhash.Sum64(unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), n))
}

// Equal reports whether v holds exactly the values of s.
func Equal[T comparable](v *FixedVec[T], s []T) bool {
	return slices.Equal(v.Slice(), s)
}
