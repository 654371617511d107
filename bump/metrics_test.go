package bump

import (
	"testing"
)

func TestBumpMetrics(t *testing.T) {
	b, err := NewChunked(Config{ChunkSize: 1024})
	if err != nil {
		t.Fatal(err)
	}

	if b.SizeInUse() != 0 {
		t.Errorf("Initial SizeInUse = %d, want 0", b.SizeInUse())
	}
	if b.NumChunks() != 1 {
		t.Errorf("Initial NumChunks = %d, want 1", b.NumChunks())
	}
	if b.ChunkSize() != 1024 {
		t.Errorf("ChunkSize = %d, want 1024", b.ChunkSize())
	}
	if b.Utilization() != 0 {
		t.Errorf("Initial Utilization = %f, want 0", b.Utilization())
	}

	b.AllocBytes(100)
	b.AllocBytes(200)

	utilization := b.Utilization()
	if utilization <= 0 || utilization > 1 {
		t.Errorf("Utilization = %f, want 0 < x <= 1", utilization)
	}

	b.AllocBytes(2000)
	if b.NumChunks() != 2 {
		t.Errorf("NumChunks after growth = %d, want 2", b.NumChunks())
	}
	if b.Capacity() <= 1024 {
		t.Errorf("Capacity after growth = %d, want > 1024", b.Capacity())
	}

	metrics := b.Metrics()
	if metrics.SizeInUse != b.SizeInUse() {
		t.Errorf("Metrics.SizeInUse = %d, want %d", metrics.SizeInUse, b.SizeInUse())
	}
	if metrics.Capacity != b.Capacity() {
		t.Errorf("Metrics.Capacity = %d, want %d", metrics.Capacity, b.Capacity())
	}
	if metrics.NumChunks != b.NumChunks() {
		t.Errorf("Metrics.NumChunks = %d, want %d", metrics.NumChunks, b.NumChunks())
	}
	if metrics.Utilization != b.Utilization() {
		t.Errorf("Metrics.Utilization = %f, want %f", metrics.Utilization, b.Utilization())
	}
	if metrics.Allocs != 3 {
		t.Errorf("Metrics.Allocs = %d, want 3", metrics.Allocs)
	}
}

func TestBumpPeak(t *testing.T) {
	b := New(aligned(1024))

	b.AllocBytes(512)
	if b.Peak() != 512 {
		t.Errorf("Peak = %d, want 512", b.Peak())
	}

	b.Reset()
	b.AllocBytes(64)
	if b.Peak() != 512 {
		t.Errorf("Peak after Reset = %d, want 512", b.Peak())
	}

	b.AllocBytes(900)
	if b.Peak() != 964 {
		t.Errorf("Peak = %d, want 964", b.Peak())
	}

	b.Release()
	if b.Peak() != 964 {
		t.Errorf("Peak after Release = %d, want 964", b.Peak())
	}
}

func TestBumpMetricsAfterReset(t *testing.T) {
	b := New(aligned(1024))
	b.AllocBytes(500)

	b.Reset()
	m := b.Metrics()
	if m.SizeInUse != 0 {
		t.Errorf("SizeInUse after Reset = %d, want 0", m.SizeInUse)
	}
	if m.Utilization != 0 {
		t.Errorf("Utilization after Reset = %f, want 0", m.Utilization)
	}
	if m.Capacity != 1024 {
		t.Errorf("Capacity after Reset = %d, want 1024", m.Capacity)
	}
	if m.Resets != 1 {
		t.Errorf("Resets = %d, want 1", m.Resets)
	}
}

func TestBumpMetricsAfterRelease(t *testing.T) {
	b := New(aligned(1024))
	b.AllocBytes(100)
	b.Release()

	m := b.Metrics()
	if m.SizeInUse != 0 || m.NumChunks != 0 || m.Capacity != 0 || m.Utilization != 0 {
		t.Errorf("Metrics after Release = %+v, want empty", m)
	}
}

func TestMetricsString(t *testing.T) {
	b := New(aligned(1024))
	b.AllocBytes(512)

	want := "512 B / 1.0 KiB in use (50.0%), 1 chunks, peak 512 B, 1 allocs, 0 failures"
	if got := b.Metrics().String(); got != want {
		t.Errorf("Metrics.String() = %q, want %q", got, want)
	}
}

func BenchmarkMetrics(b *testing.B) {
	r, err := NewChunked(Config{ChunkSize: 1024})
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		r.AllocBytes(900)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Metrics()
	}
}
