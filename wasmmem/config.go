package wasmmem

import (
	"errors"
	"flag"
)

// PageSize is the size of one WebAssembly memory page.
const PageSize = 1 << 16

// MaxPages is the largest page count whose byte size fits in a uint32.
const MaxPages = 1<<16 - 1

// DefaultPages sizes the memory at 1 MiB.
const DefaultPages = 16

// DefaultModuleName names the instantiated module when Config.ModuleName is
// empty.
const DefaultModuleName = "localalloc"

// Config configures the linear memory created by New.
type Config struct {
	// Pages is the fixed size of the memory in 64 KiB pages. The memory is
	// declared with min = max so it never moves.
	Pages int `yaml:"pages"`

	// ModuleName names the module inside the wazero runtime.
	ModuleName string `yaml:"module_name"`
}

// RegisterFlags registers flags with the "wasmmem." prefix.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	cfg.RegisterFlagsWithPrefix("wasmmem.", f)
}

// RegisterFlagsWithPrefix registers flags with the given prefix.
func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.IntVar(&cfg.Pages, prefix+"pages", DefaultPages, "Size of the linear memory in 64 KiB pages.")
	f.StringVar(&cfg.ModuleName, prefix+"module-name", DefaultModuleName, "Name of the module holding the linear memory.")
}

// Validate validates the Config.
func (cfg *Config) Validate() error {
	var errs []error

	if cfg.Pages <= 0 {
		errs = append(errs, errors.New("Pages must be greater than 0"))
	} else if cfg.Pages > MaxPages {
		errs = append(errs, errors.New("Pages must not exceed 65535"))
	}

	if cfg.ModuleName == "" {
		errs = append(errs, errors.New("ModuleName must not be empty"))
	}

	return errors.Join(errs...)
}

// Size returns the memory size in bytes.
func (cfg *Config) Size() int {
	return cfg.Pages * PageSize
}

func (cfg *Config) applyDefaults() {
	if cfg.Pages == 0 {
		cfg.Pages = DefaultPages
	}
	if cfg.ModuleName == "" {
		cfg.ModuleName = DefaultModuleName
	}
}
