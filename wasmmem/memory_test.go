package wasmmem

import (
	"context"
	"encoding/binary"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pavanmanishd/localalloc"
	"github.com/pavanmanishd/localalloc/bump"
)

func newMemory(t *testing.T, pages int) *Memory {
	t.Helper()
	ctx := context.Background()
	mem, err := New(ctx, Config{Pages: pages})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mem.Close(ctx) })
	return mem
}

func TestMemoryModule(t *testing.T) {
	want := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x05, 0x04, 0x01, 0x01, 0x01, 0x01,
		0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	}
	assert.Equal(t, want, memoryModule(1))

	// 200 pages needs two LEB128 bytes per limit.
	bin := memoryModule(200)
	assert.Equal(t, []byte{0x05, 0x06, 0x01, 0x01, 0xc8, 0x01, 0xc8, 0x01}, bin[8:16])
}

func TestNew(t *testing.T) {
	mem := newMemory(t, 1)

	assert.Equal(t, PageSize, mem.Capacity())
	assert.Equal(t, 0, mem.SizeInUse())
	assert.NotNil(t, mem.Module())
}

func TestGuestSeesWrites(t *testing.T) {
	mem := newMemory(t, 1)

	layout, err := localalloc.NonZeroLayoutOf[uint32]()
	require.NoError(t, err)
	first, ok := mem.Alloc(layout)
	require.True(t, ok)
	second, ok := mem.Alloc(layout)
	require.True(t, ok)

	*(*uint32)(first.Ptr) = 0xdeadbeef
	*(*uint32)(second.Ptr) = 0x01020304

	off1, ok := mem.Offset(first)
	require.True(t, ok)
	off2, ok := mem.Offset(second)
	require.True(t, ok)
	assert.Equal(t, off1+4, off2)

	got, ok := mem.Read(off1, 8)
	require.True(t, ok)
	assert.Equal(t, uint32(0xdeadbeef), binary.NativeEndian.Uint32(got))
	assert.Equal(t, uint32(0x01020304), binary.NativeEndian.Uint32(got[4:]))
}

func TestCapability(t *testing.T) {
	mem := newMemory(t, 1)

	p, ok := localalloc.New[uint64](mem)
	require.True(t, ok)
	*p = 42

	s, ok := localalloc.MakeSlice[uint16](mem, 8)
	require.True(t, ok)
	assert.Len(t, s, 8)

	assert.Nil(t, mem.AllocBytes(PageSize))
	assert.NotNil(t, mem.AllocBytes(PageSize-32))
}

func TestOffsetForeign(t *testing.T) {
	mem := newMemory(t, 1)

	other := bump.New(make([]byte, 64))
	layout, err := localalloc.NonZeroLayoutOf[uint64]()
	require.NoError(t, err)
	alloc, ok := other.Alloc(layout)
	require.True(t, ok)

	_, ok = mem.Offset(alloc)
	assert.False(t, ok)
	_, ok = mem.Offset(localalloc.Allocation{})
	assert.False(t, ok)
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	mem, err := New(ctx, Config{Pages: 1})
	require.NoError(t, err)

	layout, err := localalloc.NonZeroLayoutOf[uint64]()
	require.NoError(t, err)
	alloc, ok := mem.Alloc(layout)
	require.True(t, ok)

	require.NoError(t, mem.Close(ctx))
	_, ok = mem.Offset(alloc)
	assert.False(t, ok)
	assert.False(t, alloc.Valid())
}

func TestNewLogs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	localalloc.SetLogger(zap.New(core))
	defer localalloc.SetLogger(zap.NewNop())

	newMemory(t, 2)

	entries := logs.FilterMessage("wasm memory instantiated").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(2), fields["pages"])
	assert.Equal(t, "128 KiB", fields["size"])
	assert.Equal(t, DefaultModuleName, fields["module"])
}

func TestNewInvalidConfig(t *testing.T) {
	_, err := New(context.Background(), Config{Pages: MaxPages + 1})
	assert.ErrorContains(t, err, "Pages must not exceed")
}

func TestConfig(t *testing.T) {
	var cfg Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	assert.Equal(t, DefaultPages, cfg.Pages)
	assert.Equal(t, DefaultModuleName, cfg.ModuleName)

	require.NoError(t, fs.Parse([]string{"-wasmmem.pages=4", "-wasmmem.module-name=heap"}))
	assert.Equal(t, 4, cfg.Pages)
	assert.Equal(t, "heap", cfg.ModuleName)
	assert.Equal(t, 4*PageSize, cfg.Size())
	assert.NoError(t, cfg.Validate())

	bad := Config{Pages: -1}
	err := bad.Validate()
	assert.ErrorContains(t, err, "Pages must be greater than 0")
	assert.ErrorContains(t, err, "ModuleName must not be empty")
}
