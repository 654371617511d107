package bump

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/pavanmanishd/localalloc"
)

// NewMapped returns a capability over size bytes of anonymous memory mapped
// outside the Go heap. The region never grows. Release unmaps it; every
// Allocation must be gone by then.
func NewMapped(size int) (*Bump, error) {
	if size <= 0 {
		return nil, fmt.Errorf("bump: mapped region size must be positive, got %d", size)
	}
	data, cleanup, err := mapAnonymous(size)
	if err != nil {
		return nil, err
	}
	b := &Bump{chunkSize: size, maxChunks: 1, release: cleanup}
	b.chunks = []chunk{{buf: data, zeroed: true}}
	localalloc.Logger().Debug("bump mapped region created", zap.String("size", humanize.IBytes(uint64(size))))
	return b, nil
}
