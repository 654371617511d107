//go:build unix

package bump

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// mapAnonymous maps size bytes of private anonymous memory. The pages come
// back zeroed from the kernel.
func mapAnonymous(size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, pkgerrors.Wrapf(err, "bump: mmap %d bytes", size)
	}
	cleanup := func() error {
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// already unmapped
			return nil
		}
		return pkgerrors.Wrap(err, "bump: munmap")
	}
	return data, cleanup, nil
}
