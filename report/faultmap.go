package report

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/filltest/codec"
)

// RegionShift converts a byte position into a 1 MiB region index.
const RegionShift = 20

// FaultMap records which files, and which MiB regions inside them, held
// faults. It is not safe for concurrent use.
type FaultMap struct {
	files   *roaring.Bitmap
	regions map[uint32]*roaring.Bitmap
}

// NewFaultMap creates an empty map.
func NewFaultMap() *FaultMap {
	return &FaultMap{
		files:   roaring.New(),
		regions: make(map[uint32]*roaring.Bitmap),
	}
}

// Add marks the region holding byte position pos of file.
func (m *FaultMap) Add(file uint32, pos int64) {
	m.files.Add(file)
	bm, ok := m.regions[file]
	if !ok {
		bm = roaring.New()
		m.regions[file] = bm
	}
	bm.Add(region(pos))
}

// Contains reports whether the region holding pos of file is marked.
func (m *FaultMap) Contains(file uint32, pos int64) bool {
	bm, ok := m.regions[file]
	return ok && bm.Contains(region(pos))
}

// Files returns the indexes of files with at least one fault, ascending.
func (m *FaultMap) Files() []uint32 {
	return m.files.ToArray()
}

// Regions returns the marked regions of file, ascending.
func (m *FaultMap) Regions(file uint32) []uint32 {
	bm, ok := m.regions[file]
	if !ok {
		return nil
	}
	return bm.ToArray()
}

// Len returns the number of files with faults.
func (m *FaultMap) Len() int {
	return int(m.files.GetCardinality())
}

// Cardinality returns the number of marked regions over all files.
func (m *FaultMap) Cardinality() uint64 {
	var n uint64
	for _, bm := range m.regions {
		n += bm.GetCardinality()
	}
	return n
}

// MarshalJSON stores each file's regions as a serialized roaring bitmap,
// encoded with codec.Default.
func (m *FaultMap) MarshalJSON() ([]byte, error) {
	out := make(map[uint32][]byte, len(m.regions))
	for k, bm := range m.regions {
		b, err := bm.ToBytes()
		if err != nil {
			return nil, fmt.Errorf("fault map file %d: %w", k, err)
		}
		out[k] = b
	}
	return codec.Default.Marshal(out)
}

// UnmarshalJSON restores a map written by MarshalJSON.
func (m *FaultMap) UnmarshalJSON(data []byte) error {
	var in map[uint32][]byte
	if err := codec.Default.Unmarshal(data, &in); err != nil {
		return err
	}
	*m = *NewFaultMap()
	for k, b := range in {
		bm := roaring.New()
		if err := bm.UnmarshalBinary(b); err != nil {
			return fmt.Errorf("fault map file %d: %w", k, err)
		}
		m.files.Add(k)
		m.regions[k] = bm
	}
	return nil
}

func region(pos int64) uint32 {
	return uint32(pos >> RegionShift)
}
