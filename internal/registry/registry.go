// Package registry implements an append-only store of open file handles,
// indexed by creation order.
//
// It exists for immediate-unlink runs: a file is removed from its directory
// right after creation, so the handle kept here is the only way back to its
// data. The writer is the only producer and the verifier the only consumer;
// both address handles by the 0-based order in which files were created.
package registry

import (
	"errors"
	"io"
)

const minCapacity = 128

// Registry is an ordered, growable list of handles.
// It is not safe for concurrent use.
type Registry[T io.Closer] struct {
	items  []T
	closed bool
}

// New creates an empty registry.
func New[T io.Closer]() *Registry[T] {
	return &Registry[T]{}
}

// Append stores h at index Len().
// Capacity starts at 128 handles and doubles when exhausted.
func (r *Registry[T]) Append(h T) int {
	if len(r.items) == cap(r.items) {
		newCap := 2 * cap(r.items)
		if newCap < minCapacity {
			newCap = minCapacity
		}
		grown := make([]T, len(r.items), newCap)
		copy(grown, r.items)
		r.items = grown
	}
	r.items = append(r.items, h)
	return len(r.items) - 1
}

// Get returns the handle at creation index i.
// ok is false once i runs past the last registered handle.
func (r *Registry[T]) Get(i int) (h T, ok bool) {
	if i < 0 || i >= len(r.items) {
		return h, false
	}
	return r.items[i], true
}

// Len returns the number of registered handles.
func (r *Registry[T]) Len() int {
	return len(r.items)
}

// Close closes every handle. It is safe to call more than once.
func (r *Registry[T]) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for _, h := range r.items {
		if err := h.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
