package bump_test

import (
	"testing"
	"unsafe"

	"github.com/c2h5oh/datasize"

	"github.com/pavanmanishd/localalloc"
	"github.com/pavanmanishd/localalloc/bump"
)

func newChunked(t testing.TB, chunkSize int) *bump.Bump {
	t.Helper()
	b, err := bump.NewChunked(bump.Config{ChunkSize: datasize.ByteSize(chunkSize)})
	if err != nil {
		t.Fatalf("NewChunked() error = %v", err)
	}
	return b
}

// TestNoOverlap fills many values with distinct patterns and checks that
// none of them overwrote another.
func TestNoOverlap(t *testing.T) {
	b := newChunked(t, 1024)
	defer b.Release()

	ptrs := make([]*[64]byte, 100)
	for i := range ptrs {
		p, ok := localalloc.New[[64]byte](b)
		if !ok {
			t.Fatalf("New() #%d failed", i)
		}
		for j := range p {
			p[j] = byte(i)
		}
		ptrs[i] = p
	}

	for i, p := range ptrs {
		for j, v := range p {
			if v != byte(i) {
				t.Fatalf("ptrs[%d][%d] = %d, want %d", i, j, v, byte(i))
			}
		}
	}
}

func TestBoundaryConditions(t *testing.T) {
	t.Run("ExactChunkSize", func(t *testing.T) {
		b := newChunked(t, 1024)
		defer b.Release()

		if buf := b.AllocBytes(1024); len(buf) != 1024 {
			t.Fatalf("AllocBytes(1024) len = %d, want 1024", len(buf))
		}
		if buf := b.AllocBytes(1); len(buf) != 1 {
			t.Fatalf("AllocBytes(1) len = %d, want 1", len(buf))
		}
		if b.NumChunks() != 2 {
			t.Errorf("NumChunks() = %d, want 2", b.NumChunks())
		}
	})

	t.Run("AlignmentBoundaries", func(t *testing.T) {
		b := newChunked(t, 1024)
		defer b.Release()

		align := unsafe.Sizeof(uintptr(0))
		for _, size := range []int{1, 2, 3, 4, 5, 7, 8, 9, 15, 16, 17} {
			buf := b.AllocBytes(size)
			if len(buf) != size {
				t.Fatalf("AllocBytes(%d) len = %d", size, len(buf))
			}
			if addr := uintptr(unsafe.Pointer(&buf[0])); addr%align != 0 {
				t.Errorf("AllocBytes(%d) at %#x, not %d-aligned", size, addr, align)
			}
		}
	})
}

func TestResetKeepsChunks(t *testing.T) {
	b := newChunked(t, 1024)
	defer b.Release()

	for i := 0; i < 5; i++ {
		b.AllocBytes(512)
	}
	chunks, capacity := b.NumChunks(), b.Capacity()
	if chunks != 3 {
		t.Fatalf("NumChunks() = %d, want 3", chunks)
	}

	b.Reset()

	if b.SizeInUse() != 0 {
		t.Errorf("SizeInUse() = %d, want 0", b.SizeInUse())
	}
	if b.NumChunks() != chunks {
		t.Errorf("NumChunks() = %d, want %d", b.NumChunks(), chunks)
	}
	if b.Capacity() != capacity {
		t.Errorf("Capacity() = %d, want %d", b.Capacity(), capacity)
	}
	if b.Utilization() != 0 {
		t.Errorf("Utilization() = %f, want 0", b.Utilization())
	}
	if buf := b.AllocBytes(100); len(buf) != 100 {
		t.Errorf("AllocBytes(100) after Reset len = %d, want 100", len(buf))
	}
	if b.NumChunks() != chunks {
		t.Errorf("NumChunks() after reuse = %d, want %d", b.NumChunks(), chunks)
	}
}
