package filltest

import (
	"math"
	"strconv"

	"github.com/hupe1980/filltest/engine"
	"github.com/hupe1980/filltest/internal/block"
	"github.com/hupe1980/filltest/internal/conv"
	"github.com/hupe1980/filltest/report"
)

// Config describes one run.
type Config struct {
	// Dir is the directory to fill. Empty means the current directory.
	Dir string

	// Seed is the base seed, at most math.MaxUint32. File i is generated
	// from Seed+i+1, wrapping at 32 bits.
	Seed uint64

	// FileSizeMiB is the size of each large-block file in MiB.
	FileSizeMiB int

	// FileLimit stops writing after this many files. 0 fills the volume.
	FileLimit int

	// TopOff fills the space left after the large-block files with small
	// blocks. A FileLimit turns it off, see Normalize.
	TopOff bool

	// TopOffSectors is the top-off block size in 512-byte sectors.
	TopOffSectors int

	// VerifyOnly skips writing and checks files left by an earlier run.
	VerifyOnly bool

	// UnlinkAfter removes the files after a run without faults.
	UnlinkAfter bool

	// UnlinkImmediate removes each file right after it is created and
	// verifies through the retained handles.
	UnlinkImmediate bool

	// DropCaches syncs written files and drops their cached pages before
	// they are read back.
	DropCaches bool

	// IOLimitBytesPerSec caps combined write and read bandwidth. 0 is
	// unlimited.
	IOLimitBytesPerSec int64

	// MemoryLimitBytes caps block buffer memory. 0 is unlimited; otherwise
	// it must hold at least one block of every active phase.
	MemoryLimitBytes int64
}

// DefaultConfig returns the configuration of a plain fill-and-verify run in
// the current directory.
func DefaultConfig() Config {
	return Config{
		Seed:          engine.DefaultSeed,
		FileSizeMiB:   engine.DefaultFileSizeMiB,
		TopOffSectors: engine.DefaultTopOffSectors,
		DropCaches:    true,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Seed > math.MaxUint32 {
		return invalid("Seed", "must fit in 32 bits, got %d", c.Seed)
	}
	if c.FileSizeMiB <= 0 {
		return invalid("FileSizeMiB", "must be positive, got %d", c.FileSizeMiB)
	}
	if _, err := conv.MulInt64(int64(c.FileSizeMiB), block.MiB); err != nil {
		return invalid("FileSizeMiB", "%v", err)
	}
	if _, err := conv.IntToUint32(c.FileLimit); err != nil {
		return invalid("FileLimit", "%v", err)
	}
	if c.TopOff && c.TopOffSectors <= 0 {
		return invalid("TopOffSectors", "must be positive, got %d", c.TopOffSectors)
	}
	if _, err := conv.MulInt64(int64(c.TopOffSectors), engine.SectorSize); c.TopOff && err != nil {
		return invalid("TopOffSectors", "%v", err)
	}
	if c.VerifyOnly && c.UnlinkImmediate {
		return invalid("UnlinkImmediate", "nothing is retained to verify in verify-only mode")
	}
	if c.IOLimitBytesPerSec < 0 {
		return invalid("IOLimitBytesPerSec", "must not be negative, got %d", c.IOLimitBytesPerSec)
	}
	if c.MemoryLimitBytes < 0 {
		return invalid("MemoryLimitBytes", "must not be negative, got %d", c.MemoryLimitBytes)
	}
	if need := c.largestBlock(); c.MemoryLimitBytes > 0 && c.MemoryLimitBytes < need {
		return invalid("MemoryLimitBytes", "%d bytes cannot hold one %d byte block", c.MemoryLimitBytes, need)
	}
	return nil
}

// Normalize resolves settings that exclude each other and returns the
// adjusted copy with one note per change. A file limit turns the top-off
// phase off.
func (c Config) Normalize() (Config, []string) {
	var notes []string
	if c.FileLimit > 0 && c.TopOff {
		c.TopOff = false
		notes = append(notes, "file limit set, top-off phase disabled")
	}
	return c, notes
}

// largestBlock returns the biggest block buffer the run allocates.
func (c Config) largestBlock() int64 {
	need := int64(engine.LargeBlockSize)
	if c.TopOff && c.FileLimit == 0 {
		need = max(need, int64(c.TopOffSectors)*engine.SectorSize)
	}
	return need
}

// VerifyLaterArgs returns the command-line arguments that verify the files of
// this run in a later invocation. It returns nil when the run leaves no files
// behind or a plain "-v" suffices.
func (c Config) VerifyLaterArgs() []string {
	if c.VerifyOnly || c.UnlinkImmediate {
		return nil
	}
	if !c.TopOff && c.Seed == engine.DefaultSeed && c.FileSizeMiB == engine.DefaultFileSizeMiB {
		return nil
	}
	args := []string{"-v"}
	if c.FileSizeMiB != engine.DefaultFileSizeMiB {
		args = append(args, "-S", strconv.Itoa(c.FileSizeMiB))
	}
	if c.Seed != engine.DefaultSeed {
		args = append(args, "-s", strconv.FormatUint(c.Seed, 10))
	}
	switch {
	case c.TopOff && c.TopOffSectors != engine.DefaultTopOffSectors:
		args = append(args, "-d", strconv.Itoa(c.TopOffSectors))
	case c.TopOff:
		args = append(args, "-z")
	}
	return args
}

func (c Config) params() engine.Params {
	return engine.Params{
		Dir:             c.Dir,
		Seed:            c.Seed,
		FileSizeMiB:     c.FileSizeMiB,
		FileLimit:       c.FileLimit,
		TopOff:          c.TopOff,
		TopOffSectors:   c.TopOffSectors,
		UnlinkImmediate: c.UnlinkImmediate,
		DropCaches:      c.DropCaches,
	}
}

func (c Config) reportParams() report.Params {
	return report.Params{
		Dir:             c.Dir,
		Seed:            c.Seed,
		FileSizeMiB:     c.FileSizeMiB,
		FileLimit:       c.FileLimit,
		TopOff:          c.TopOff,
		TopOffSectors:   c.TopOffSectors,
		VerifyOnly:      c.VerifyOnly,
		UnlinkImmediate: c.UnlinkImmediate,
		UnlinkAfter:     c.UnlinkAfter,
		DropCaches:      c.DropCaches,
	}
}
