// Package wasmmem hosts a bump capability inside a WebAssembly linear
// memory, so values allocated from Go are addressable by guest code.
//
// The memory belongs to a module that declares nothing but one exported,
// fixed-size memory. Its minimum and maximum page counts are equal, so the
// buffer is never grown and never moves while allocations point into it.
//
//	mem, err := wasmmem.New(ctx, wasmmem.Config{Pages: 4})
//	if err != nil {
//		return err
//	}
//	defer mem.Close(ctx)
//
//	p, _ := localalloc.New[uint64](mem)
//	*p = 42
//
// Guest addresses for an allocation come from Offset. The typed helpers
// refuse types holding Go pointers, since the garbage collector does not
// scan the memory.
package wasmmem

import (
	"context"
	"encoding/binary"
	"unsafe"

	"github.com/dustin/go-humanize"
	pkgerrors "github.com/pkg/errors"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/pavanmanishd/localalloc"
	"github.com/pavanmanishd/localalloc/bump"
)

const exportName = "memory"

// Memory is a bump capability over a wazero linear memory.
type Memory struct {
	*bump.Bump

	rt   wazero.Runtime
	mod  api.Module
	mem  api.Memory
	base unsafe.Pointer
	size uint32
}

// New instantiates a memory-only module in a fresh wazero runtime and
// returns a capability over its linear memory.
func New(ctx context.Context, cfg Config) (*Memory, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rtCfg := wazero.NewRuntimeConfig().WithMemoryLimitPages(uint32(cfg.Pages))
	rt := wazero.NewRuntimeWithConfig(ctx, rtCfg)

	mod, err := rt.InstantiateWithConfig(ctx, memoryModule(uint32(cfg.Pages)),
		wazero.NewModuleConfig().WithName(cfg.ModuleName))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, pkgerrors.Wrap(err, "instantiate memory module")
	}

	mem := mod.ExportedMemory(exportName)
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, pkgerrors.Errorf("module %q exports no %q", cfg.ModuleName, exportName)
	}
	size := mem.Size()
	buf, ok := mem.Read(0, size)
	if !ok || len(buf) == 0 {
		_ = rt.Close(ctx)
		return nil, pkgerrors.Errorf("read linear memory of %d bytes", size)
	}

	localalloc.Logger().Info("wasm memory instantiated",
		zap.String("module", cfg.ModuleName),
		zap.Int("pages", cfg.Pages),
		zap.String("size", humanize.IBytes(uint64(size))))

	return &Memory{
		Bump: bump.New(buf),
		rt:   rt,
		mod:  mod,
		mem:  mem,
		base: unsafe.Pointer(&buf[0]),
		size: size,
	}, nil
}

// Offset returns the guest address of alloc. It reports false when alloc
// does not point into the memory.
func (m *Memory) Offset(alloc localalloc.Allocation) (uint32, bool) {
	if !alloc.Valid() {
		return 0, false
	}
	off := uintptr(alloc.Ptr) - uintptr(m.base)
	if uintptr(alloc.Ptr) < uintptr(m.base) || off+alloc.Layout.Size() > uintptr(m.size) {
		return 0, false
	}
	return uint32(off), true
}

// Read returns a view of n bytes at the guest address off.
func (m *Memory) Read(off, n uint32) ([]byte, bool) {
	return m.mem.Read(off, n)
}

// Module returns the module that exports the memory.
func (m *Memory) Module() api.Module { return m.mod }

// Close ends the capability's lifetime and closes the runtime. The memory
// must not be used afterwards.
func (m *Memory) Close(ctx context.Context) error {
	m.Release()
	if err := m.rt.Close(ctx); err != nil {
		return pkgerrors.Wrap(err, "close wazero runtime")
	}
	return nil
}

// memoryModule encodes a module with a single exported memory of pages
// pages, minimum and maximum alike.
func memoryModule(pages uint32) []byte {
	bin := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	limits := []byte{0x01, 0x01} // one memory, max present
	limits = binary.AppendUvarint(limits, uint64(pages))
	limits = binary.AppendUvarint(limits, uint64(pages))
	bin = appendSection(bin, 0x05, limits)

	exports := []byte{0x01}
	exports = binary.AppendUvarint(exports, uint64(len(exportName)))
	exports = append(exports, exportName...)
	exports = append(exports, 0x02, 0x00) // memory 0
	return appendSection(bin, 0x07, exports)
}

func appendSection(bin []byte, id byte, body []byte) []byte {
	bin = append(bin, id)
	bin = binary.AppendUvarint(bin, uint64(len(body)))
	return append(bin, body...)
}
