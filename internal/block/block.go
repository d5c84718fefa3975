package block

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/filltest/internal/mem"
)

// UnitSize is the width of one payload unit in bytes.
const UnitSize = 8

// Common block sizes.
const (
	Sector = 512
	MiB    = 1024 * 1024
)

// Block is a byte buffer whose length is a whole number of units.
type Block []byte

// New allocates a zeroed, page-aligned block of size bytes.
// size must be a positive multiple of UnitSize.
func New(size int) (Block, error) {
	if size <= 0 || size%UnitSize != 0 {
		return nil, fmt.Errorf("block: size %d is not a positive multiple of %d", size, UnitSize)
	}
	return Block(mem.AllocAligned(size, mem.PageAlignment)), nil
}

// Units returns the number of complete units in the block.
func (b Block) Units() int {
	return len(b) / UnitSize
}

// UnitAt returns unit i.
func (b Block) UnitAt(i int) uint64 {
	off := i * UnitSize
	return binary.NativeEndian.Uint64(b[off : off+UnitSize])
}

// SetUnitAt stores x as unit i.
func (b Block) SetUnitAt(i int, x uint64) {
	off := i * UnitSize
	binary.NativeEndian.PutUint64(b[off:off+UnitSize], x)
}

// Fill sets every unit from next, in order.
func (b Block) Fill(next func() uint64) {
	for i, n := 0, b.Units(); i < n; i++ {
		b.SetUnitAt(i, next())
	}
}

// Drain calls fn for each complete unit among the first n bytes, in order.
// Trailing bytes that do not form a whole unit are ignored.
func (b Block) Drain(n int, fn func(i int, unit uint64)) {
	if n > len(b) {
		n = len(b)
	}
	for i, units := 0, n/UnitSize; i < units; i++ {
		fn(i, b.UnitAt(i))
	}
}
