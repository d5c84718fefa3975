package hash

import (
	"errors"
	"fmt"
	"hash/crc32"
)

// ErrMismatch is returned by Verify when data does not match its checksum.
var ErrMismatch = errors.New("checksum mismatch")

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Sum is a CRC32-Castagnoli checksum.
type Sum uint32

// Of returns the checksum of data.
func Of(data []byte) Sum {
	return Sum(crc32.Checksum(data, castagnoli))
}

// Verify checks data against s.
func (s Sum) Verify(data []byte) error {
	if got := Of(data); got != s {
		return fmt.Errorf("%w: stored %08x, computed %08x", ErrMismatch, uint32(s), uint32(got))
	}
	return nil
}
