package engine

import "errors"

var (
	// ErrVolumeFull is reported when a write call accepts zero bytes without
	// an error.
	ErrVolumeFull = errors.New("volume full: write accepted zero bytes")

	// ErrRegistryExhausted is reported when the verifier has consumed every
	// handle retained in immediate-unlink mode.
	ErrRegistryExhausted = errors.New("all retained file handles verified")

	// ErrInvalidParams is returned by NewRun for unusable geometry.
	ErrInvalidParams = errors.New("invalid run parameters")
)
