//go:build linux

package sysio

import "golang.org/x/sys/unix"

func osAdvise(fd uintptr, advice Advice) error {
	var a int
	switch advice {
	case AdviceSequential:
		a = unix.FADV_SEQUENTIAL
	case AdviceDontNeed:
		a = unix.FADV_DONTNEED
	default:
		a = unix.FADV_NORMAL
	}

	// Offset 0 with length 0 covers the whole file.
	err := unix.Fadvise(int(fd), 0, 0, a)
	if err == unix.ESPIPE {
		return ErrUnsupported
	}
	return err
}
