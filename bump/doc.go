// Package bump implements bump-pointer allocation capabilities over bounded
// regions.
//
// # Overview
//
// A Bump hands out portions of one or more chunks in order. It implements
// localalloc.LocalAlloc, localalloc.ZeroAllocator and localalloc.Reallocator,
// so every container in this module can be built on it.
//
//   - New wraps a caller-supplied buffer and never grows.
//   - NewChunked adds chunks as needed, up to Config.MaxChunks.
//   - NewMapped maps anonymous memory outside the Go heap.
//
// # Basic Usage
//
//	b, err := bump.NewChunked(bump.Config{ChunkSize: 64 * datasize.KB})
//	if err != nil {
//		return err
//	}
//	defer b.Release()
//
//	v, err := fixedvec.WithCapacity[int](b, 128)
//	...
//	b.Reset() // every Allocation handed out so far expires
//
// # Deallocation
//
// Dealloc reclaims only the most recent allocation. Any other Dealloc is an
// advisory no-op and the memory comes back on Reset. Reset renews the region's
// lifetime and Release ends it, so stale handles are detected before they are
// dereferenced.
//
// # Thread Safety
//
// Bump is not goroutine-safe. Wrap it with NewSafe for concurrent access.
//
// # Garbage Collection
//
// The garbage collector does not scan region memory for pointers, so the
// typed helpers refuse types that hold them: localalloc.New panics with a
// *localalloc.PointerError, and fixedvec.WithCapacity and boxed.New return
// one. Raw byte allocations carry no such check.
//
// # Metrics and Monitoring
//
//	m := b.Metrics()
//	fmt.Println(m) // 12 KiB / 64 KiB in use (18.8%), 1 chunks, ...
//
// Collector exports the same numbers to Prometheus.
package bump
