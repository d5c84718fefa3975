package sysio

import "errors"

// ErrUnsupported is returned where the platform has no equivalent hint.
var ErrUnsupported = errors.New("sysio: hint not supported on this platform")

// Advice describes the expected access pattern of a file region.
type Advice int

const (
	// AdviceNormal removes earlier hints.
	AdviceNormal Advice = iota
	// AdviceSequential announces a front-to-back scan.
	AdviceSequential
	// AdviceDontNeed asks the kernel to drop cached pages.
	AdviceDontNeed
)

// Descriptor is anything that exposes an OS file descriptor.
type Descriptor interface {
	Fd() uintptr
}

// Advise applies advice to the whole file behind d.
func Advise(d Descriptor, advice Advice) error {
	fd := d.Fd()
	if fd == ^uintptr(0) {
		return ErrUnsupported
	}
	return osAdvise(fd, advice)
}

// Syncer is a file that can be flushed to stable storage.
type Syncer interface {
	Descriptor
	Sync() error
}

// DropCache flushes f and drops its cached pages so a later read goes to the
// device.
func DropCache(f Syncer) error {
	if err := f.Sync(); err != nil {
		return err
	}
	return Advise(f, AdviceDontNeed)
}
