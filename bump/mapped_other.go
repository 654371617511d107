//go:build !unix

package bump

// mapAnonymous falls back to a zeroed Go slice when mmap is not available.
func mapAnonymous(size int) ([]byte, func() error, error) {
	return make([]byte, size), func() error { return nil }, nil
}
