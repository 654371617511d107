package bump

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// SizeInUse returns the total number of bytes currently allocated in the region.
// This includes internal fragmentation due to alignment.
func (b *Bump) SizeInUse() int {
	sum := 0
	for _, c := range b.chunks {
		sum += int(c.offset)
	}
	return sum
}

// NumChunks returns the number of chunks currently held by the region.
func (b *Bump) NumChunks() int {
	return len(b.chunks)
}

// Capacity returns the total capacity (in bytes) of all chunks in the region.
func (b *Bump) Capacity() int {
	sum := 0
	for _, c := range b.chunks {
		sum += len(c.buf)
	}
	return sum
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the region has no capacity.
func (b *Bump) Utilization() float64 {
	capacity := b.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(b.SizeInUse()) / float64(capacity)
}

// ChunkSize returns the default chunk size used by this region.
func (b *Bump) ChunkSize() int {
	return b.chunkSize
}

// Peak returns the highest SizeInUse observed since the region was created.
func (b *Bump) Peak() int {
	return max(b.stats.peak, b.SizeInUse())
}

// Metrics returns a snapshot of region statistics.
func (b *Bump) Metrics() Metrics {
	return Metrics{
		SizeInUse:   b.SizeInUse(),
		Capacity:    b.Capacity(),
		NumChunks:   b.NumChunks(),
		ChunkSize:   b.ChunkSize(),
		Utilization: b.Utilization(),
		Peak:        b.Peak(),
		Allocs:      b.stats.allocs,
		Failures:    b.stats.failures,
		Deallocs:    b.stats.deallocs,
		Reclaimed:   b.stats.reclaimed,
		Resets:      b.stats.resets,
	}
}

// Metrics contains statistical information about a region.
type Metrics struct {
	SizeInUse   int     // Bytes currently allocated
	Capacity    int     // Total capacity in bytes
	NumChunks   int     // Number of chunks
	ChunkSize   int     // Default chunk size
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
	Peak        int     // Highest SizeInUse observed

	Allocs    uint64 // Successful allocations
	Failures  uint64 // Allocations refused for lack of room
	Deallocs  uint64 // Dealloc calls, reclaimed or not
	Reclaimed uint64 // Bytes given back by Dealloc and in-place shrink
	Resets    uint64 // Reset calls
}

func (m Metrics) String() string {
	return fmt.Sprintf("%s / %s in use (%.1f%%), %d chunks, peak %s, %d allocs, %d failures",
		humanize.IBytes(uint64(m.SizeInUse)),
		humanize.IBytes(uint64(m.Capacity)),
		m.Utilization*100,
		m.NumChunks,
		humanize.IBytes(uint64(m.Peak)),
		m.Allocs,
		m.Failures)
}
