package fs

import (
	"io"
	"os"
)

// File is the part of *os.File the writer and verifier use.
type File interface {
	io.ReadWriteCloser
	io.Seeker
	Sync() error
	Stat() (os.FileInfo, error)
	Name() string
	// Fd returns the OS descriptor, or ^uintptr(0) if there is none.
	Fd() uintptr
}

// FileSystem is the directory seam of a fill run.
type FileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	Remove(name string) error
	Stat(name string) (os.FileInfo, error)
	ReadDir(name string) ([]os.DirEntry, error)
}

// OS is the FileSystem backed by the operating system.
type OS struct{}

var _ FileSystem = OS{}

func (OS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		// Avoid a non-nil File holding a nil *os.File.
		return nil, err
	}
	return f, nil
}

func (OS) Remove(name string) error                   { return os.Remove(name) }
func (OS) Stat(name string) (os.FileInfo, error)      { return os.Stat(name) }
func (OS) ReadDir(name string) ([]os.DirEntry, error) { return os.ReadDir(name) }

// Default is used when no FileSystem is configured.
var Default FileSystem = OS{}
