package engine

import (
	"errors"
	iofs "io/fs"
	"path/filepath"

	"github.com/hupe1980/filltest/internal/fs"
)

// RemoveFiles deletes the test files in dir, starting at random-00000000,
// and returns how many were removed.
//
// A single missing name does not end the scan: the writer consumes an index
// for a file that received no data and deletes it, and the top-off files
// follow behind that gap. Two missing names in a row do. A removal failure
// other than a missing file ends the scan and is returned.
func RemoveFiles(fsys fs.FileSystem, dir string) (int, error) {
	if fsys == nil {
		fsys = fs.Default
	}

	removed, misses := 0, 0
	for index := uint32(0); misses < 2; index++ {
		err := fsys.Remove(filepath.Join(dir, FileName(index)))
		switch {
		case err == nil:
			removed++
			misses = 0
		case errors.Is(err, iofs.ErrNotExist):
			misses++
		default:
			return removed, err
		}
		if index == ^uint32(0) {
			break
		}
	}
	return removed, nil
}
