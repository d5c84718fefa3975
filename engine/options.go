package engine

import (
	"log/slog"

	"github.com/hupe1980/filltest/internal/fs"
	"github.com/hupe1980/filltest/resource"
)

// Option configures a Run.
type Option func(*Run)

// WithLogger sets the logger for the run.
func WithLogger(l *slog.Logger) Option {
	return func(r *Run) {
		r.logger = l
	}
}

// WithObserver sets the event observer.
func WithObserver(o Observer) Option {
	return func(r *Run) {
		r.observer = o
	}
}

// WithFileSystem sets the file system implementation.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(r *Run) {
		r.fs = fsys
	}
}

// WithResourceController sets the resource controller for IO limits and
// buffer memory.
func WithResourceController(rc *resource.Controller) Option {
	return func(r *Run) {
		r.rc = rc
	}
}

// WithFaultRecordLimit bounds the number of fault records kept by the run.
// A negative value keeps all of them.
func WithFaultRecordLimit(n int) Option {
	return func(r *Run) {
		r.faultLimit = n
	}
}
