//go:build !linux

package sysio

func osAdvise(uintptr, Advice) error {
	return ErrUnsupported
}
