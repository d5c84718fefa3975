package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
	"syscall"
)

// ErrInjected is the error returned by injected write and open faults unless
// a rule supplies its own.
var ErrInjected = errors.New("injected fault error")

// Fault defines failure behavior for files whose name matches a rule.
type Fault struct {
	// FailAfterBytes fails writes to this file once this many bytes were
	// written to it. -1 disables the rule.
	FailAfterBytes int64
	// ZeroWriteAfterBytes makes writes return (0, nil) once this many bytes
	// were written to the file. -1 disables the rule.
	ZeroWriteAfterBytes int64
	// MaxWrite caps the bytes accepted by a single Write call to force short
	// writes. 0 means no cap.
	MaxWrite int
	// FailOpen makes OpenFile fail for matching names.
	FailOpen bool
	// FailOnSync makes Sync fail.
	FailOnSync bool
	// Err is returned by the injected failure. Defaults to ErrInjected.
	Err error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// FaultyFS is a FileSystem wrapper that behaves like a volume with a fixed
// amount of free space and can inject per-file faults.
//
// Capacity counts bytes written through any file opened from this FaultyFS.
// Removing a file does not give its space back.
type FaultyFS struct {
	FS FileSystem

	mu       sync.Mutex
	rules    []rule
	capacity int64 // -1 = unlimited
	written  int64
	removed  []string
}

type rule struct {
	pattern string
	fault   Fault
}

// NewFaultyFS creates a new FaultyFS wrapping fs (or Default if nil).
func NewFaultyFS(fs FileSystem) *FaultyFS {
	if fs == nil {
		fs = Default
	}
	return &FaultyFS{
		FS:       fs,
		capacity: -1,
	}
}

// SetCapacity sets the number of bytes the volume accepts in total.
// A write that crosses the limit is cut short and the next one fails with
// ENOSPC, the way a real filesystem reports a full disk.
func (f *FaultyFS) SetCapacity(bytes int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.capacity = bytes
}

// Written returns the total bytes accepted so far.
func (f *FaultyFS) Written() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written
}

// Removed returns the names passed to Remove, in call order.
func (f *FaultyFS) Removed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}

// AddRule adds a fault for names containing pattern. Later rules win.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{pattern: pattern, fault: fault})
}

func (f *FaultyFS) match(name string) Fault {
	f.mu.Lock()
	defer f.mu.Unlock()

	fault := Fault{FailAfterBytes: -1, ZeroWriteAfterBytes: -1}
	for _, r := range f.rules {
		if strings.Contains(name, r.pattern) {
			fault = r.fault
		}
	}
	return fault
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	fault := f.match(name)
	if fault.FailOpen {
		return nil, &os.PathError{Op: "open", Path: name, Err: fault.err()}
	}

	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f, fault: fault}, nil
}

func (f *FaultyFS) Remove(name string) error {
	f.mu.Lock()
	f.removed = append(f.removed, name)
	f.mu.Unlock()
	return f.FS.Remove(name)
}

func (f *FaultyFS) Stat(name string) (os.FileInfo, error) {
	return f.FS.Stat(name)
}

func (f *FaultyFS) ReadDir(name string) ([]os.DirEntry, error) {
	return f.FS.ReadDir(name)
}

// reserve claims up to n bytes of volume space and returns how many were
// granted.
func (f *FaultyFS) reserve(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.capacity >= 0 {
		free := f.capacity - f.written
		if free < 0 {
			free = 0
		}
		if int64(n) > free {
			n = int(free)
		}
	}
	f.written += int64(n)
	return n
}

type faultyFile struct {
	File
	fs      *FaultyFS
	fault   Fault
	written int64
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	// Per-file rules are checked first so they do not consume volume space.
	if ff.fault.FailAfterBytes >= 0 && ff.written+int64(len(p)) > ff.fault.FailAfterBytes {
		return 0, &os.PathError{Op: "write", Path: ff.Name(), Err: ff.fault.err()}
	}
	if ff.fault.ZeroWriteAfterBytes >= 0 && ff.written >= ff.fault.ZeroWriteAfterBytes {
		return 0, nil
	}
	if ff.fault.ZeroWriteAfterBytes >= 0 {
		if room := ff.fault.ZeroWriteAfterBytes - ff.written; int64(len(p)) > room {
			p = p[:room]
		}
	}
	if ff.fault.MaxWrite > 0 && len(p) > ff.fault.MaxWrite {
		p = p[:ff.fault.MaxWrite]
	}

	granted := ff.fs.reserve(len(p))
	if granted == 0 && len(p) > 0 {
		return 0, &os.PathError{Op: "write", Path: ff.Name(), Err: syscall.ENOSPC}
	}

	n, err := ff.File.Write(p[:granted])
	if n > 0 {
		ff.written += int64(n)
	}
	return n, err
}

func (ff *faultyFile) Sync() error {
	if ff.fault.FailOnSync {
		return &os.PathError{Op: "sync", Path: ff.Name(), Err: ff.fault.err()}
	}
	return ff.File.Sync()
}
