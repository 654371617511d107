package bump

import (
	"errors"
	"flag"

	"github.com/c2h5oh/datasize"
)

// Config configures a chunked region created with NewChunked.
type Config struct {
	// ChunkSize is the size of each chunk. Requests larger than a chunk get a
	// dedicated chunk of their own. 0 selects DefaultChunkSize.
	ChunkSize datasize.ByteSize `yaml:"chunk_size"`

	// MaxChunks bounds how many chunks the region may hold. Once reached,
	// allocations that do not fit fail instead of growing. 0 selects
	// DefaultMaxChunks.
	MaxChunks int `yaml:"max_chunks"`
}

// RegisterFlags registers flags with the "bump." prefix.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("bump.", f)
}

// RegisterFlagsWithPrefix registers flags with the given prefix.
func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.TextVar(&cfg.ChunkSize, prefix+"chunk-size", datasize.ByteSize(DefaultChunkSize), "Size of each chunk of a growable region.")
	f.IntVar(&cfg.MaxChunks, prefix+"max-chunks", DefaultMaxChunks, "Maximum number of chunks a growable region may hold.")
}

// Validate validates the Config.
func (cfg *Config) Validate() error {
	var errs []error

	if cfg.ChunkSize <= 0 {
		errs = append(errs, errors.New("ChunkSize must be greater than 0"))
	} else if cfg.ChunkSize.Bytes() > uint64(maxChunkSize) {
		errs = append(errs, errors.New("ChunkSize must fit in an int"))
	}

	if cfg.MaxChunks <= 0 {
		errs = append(errs, errors.New("MaxChunks must be greater than 0"))
	}

	return errors.Join(errs...)
}

const maxChunkSize = int(^uint(0) >> 1)

func (cfg *Config) applyDefaults() {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = datasize.ByteSize(DefaultChunkSize)
	}
	if cfg.MaxChunks == 0 {
		cfg.MaxChunks = DefaultMaxChunks
	}
}
