package engine

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/hupe1980/filltest/internal/block"
	"github.com/hupe1980/filltest/internal/conv"
)

const (
	// DefaultSeed is the base seed used when none is given.
	DefaultSeed uint64 = 1434038592

	// DefaultFileSizeMiB is the per-file budget of the large-block phase.
	DefaultFileSizeMiB = 1024

	// DefaultTopOffSectors is the top-off block size in 512-byte sectors.
	DefaultTopOffSectors = 8

	// LargeBlockSize is the block size of the large-block phase.
	LargeBlockSize = block.MiB

	// SectorSize is the unit of the top-off block size.
	SectorSize = block.Sector

	// TopOffMaxBlocks caps the blocks written to one top-off file.
	// 2048 sectors make one MiB; two more cover a misreported cluster size.
	TopOffMaxBlocks = 2048 + 2

	// NamePrefix is the common prefix of all test files.
	NamePrefix = "random-"
)

// Phase identifies the block geometry a file was written or read with.
type Phase uint8

const (
	// PhaseLarge uses 1 MiB blocks.
	PhaseLarge Phase = iota
	// PhaseTopOff uses small blocks to fill the remaining space.
	PhaseTopOff
)

func (p Phase) String() string {
	switch p {
	case PhaseLarge:
		return "large"
	case PhaseTopOff:
		return "top-off"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Op is the kind of pass.
type Op uint8

const (
	// OpWrite is a fill pass.
	OpWrite Op = iota
	// OpVerify is a read-back pass.
	OpVerify
)

func (o Op) String() string {
	if o == OpWrite {
		return "write"
	}
	return "verify"
}

// FileName returns the canonical name of the file at 0-based index.
func FileName(index uint32) string {
	return fmt.Sprintf("%s%08d", NamePrefix, index)
}

// SeedFor returns the stream seed of the file at 0-based index.
//
// The name uses the counter before it is incremented and the seed uses it
// after, so file i is seeded with base+i+1. The sum wraps at 32 bits, like
// the unsigned int arithmetic of the tool whose files this one verifies.
// Both rules must hold for files written by earlier versions to verify.
func SeedFor(base uint64, index uint32) uint64 {
	return uint64(uint32(base) + index + 1)
}

// Slot identifies one generated file.
type Slot struct {
	Index uint32 // 0-based creation index
	Seed  uint64
	Name  string
	Phase Phase
}

func newSlot(base uint64, index uint32, phase Phase) Slot {
	return Slot{
		Index: index,
		Seed:  SeedFor(base, index),
		Name:  FileName(index),
		Phase: phase,
	}
}

// Params configures a Run.
type Params struct {
	// Dir is the directory holding the test files. Empty means the current
	// working directory.
	Dir string

	// Seed is the base seed, at most math.MaxUint32. File i uses Seed+i+1.
	Seed uint64

	// FileSizeMiB is the number of 1 MiB blocks per large-block file.
	FileSizeMiB int

	// FileLimit stops the large-block phase after this many files.
	// 0 means no limit. A limit disables the top-off phase.
	FileLimit int

	// TopOff enables the small-block top-off phase.
	TopOff bool

	// TopOffSectors is the top-off block size in 512-byte sectors.
	TopOffSectors int

	// UnlinkImmediate removes every file right after creation and keeps its
	// handle open for verification.
	UnlinkImmediate bool

	// DropCaches syncs each written file and drops its cached pages so the
	// read-back hits the device.
	DropCaches bool
}

// TopOffActive reports whether the top-off phase runs. It never runs
// together with a file limit.
func (p Params) TopOffActive() bool {
	return p.TopOff && p.FileLimit == 0
}

// geometry returns the block size and per-file block cap of a phase.
func (p Params) geometry(phase Phase) (blockSize, maxBlocks int) {
	if phase == PhaseTopOff {
		return p.TopOffSectors * SectorSize, TopOffMaxBlocks
	}
	return LargeBlockSize, p.FileSizeMiB
}

func (p Params) validate() error {
	if p.Seed > math.MaxUint32 {
		return fmt.Errorf("%w: seed %d does not fit in 32 bits", ErrInvalidParams, p.Seed)
	}
	if p.FileSizeMiB <= 0 {
		return fmt.Errorf("%w: file size must be positive, got %d MiB", ErrInvalidParams, p.FileSizeMiB)
	}
	if p.FileLimit < 0 {
		return fmt.Errorf("%w: file limit must not be negative, got %d", ErrInvalidParams, p.FileLimit)
	}
	if p.TopOff && p.TopOffSectors <= 0 {
		return fmt.Errorf("%w: top-off block size must be positive, got %d sectors", ErrInvalidParams, p.TopOffSectors)
	}
	if _, err := conv.IntToUint32(p.FileLimit); err != nil {
		return fmt.Errorf("%w: file limit: %w", ErrInvalidParams, err)
	}
	if _, err := conv.MulInt64(int64(p.FileSizeMiB), LargeBlockSize); err != nil {
		return fmt.Errorf("%w: file size: %w", ErrInvalidParams, err)
	}
	if p.TopOff {
		bytes, err := conv.MulInt64(int64(p.TopOffSectors), SectorSize)
		if err == nil {
			_, err = conv.Int64ToInt(bytes)
		}
		if err != nil {
			return fmt.Errorf("%w: top-off block size: %w", ErrInvalidParams, err)
		}
	}
	return nil
}

func (p Params) path(name string) string {
	if p.Dir == "" {
		return name
	}
	return filepath.Join(p.Dir, name)
}
