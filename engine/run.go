package engine

import (
	"context"
	"io"
	"log/slog"

	"github.com/hupe1980/filltest/internal/block"
	"github.com/hupe1980/filltest/internal/fs"
	"github.com/hupe1980/filltest/internal/registry"
	"github.com/hupe1980/filltest/resource"
)

// Run is the context of one fill run. It is not safe for concurrent use.
type Run struct {
	params Params

	fs         fs.FileSystem
	rc         *resource.Controller
	observer   Observer
	logger     *slog.Logger
	faultLimit int

	// next is the file counter shared by both write phases.
	next uint32

	handles *registry.Registry[*retained]
	// exhausted is set once the end of the registry has been reported.
	exhausted bool
	metrics   Metrics

	faults       int64
	faultRecords []Fault
}

// retained is a handle kept open in immediate-unlink mode.
type retained struct {
	slot Slot
	f    fs.File
}

func (h *retained) Close() error { return h.f.Close() }

// NewRun creates a run context.
func NewRun(params Params, optFns ...Option) (*Run, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	r := &Run{
		params:     params,
		fs:         fs.Default,
		observer:   NoopObserver{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		faultLimit: DefaultFaultRecordLimit,
		handles:    registry.New[*retained](),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(r)
		}
	}
	return r, nil
}

// Params returns the run parameters.
func (r *Run) Params() Params { return r.params }

// Metrics returns the accumulated write and read totals.
func (r *Run) Metrics() Metrics { return r.metrics }

// Faults returns the number of mismatching units found so far.
func (r *Run) Faults() int64 { return r.faults }

// FaultRecords returns the retained fault records, in detection order.
func (r *Run) FaultRecords() []Fault {
	return append([]Fault(nil), r.faultRecords...)
}

// Retained returns the number of handles kept for immediate-unlink
// verification.
func (r *Run) Retained() int { return r.handles.Len() }

// Close releases every retained handle.
func (r *Run) Close() error {
	return r.handles.Close()
}

func (r *Run) recordFault(f Fault) {
	r.faults++
	if r.faultLimit < 0 || len(r.faultRecords) < r.faultLimit {
		r.faultRecords = append(r.faultRecords, f)
	}
	r.logger.Error("data mismatch",
		"file", f.Name,
		"block", f.Block,
		"offset", f.Offset,
		"position", f.Position,
		"expected", f.Expected,
		"actual", f.Actual,
	)
	r.observer.OnFault(f)
}

func (r *Run) ioStatus(st IOStatus) {
	attrs := []any{"op", st.Op, "phase", st.Phase.String(), "file", st.Name, "bytes", st.Bytes}
	if st.Expected > 0 {
		attrs = append(attrs, "expected", st.Expected)
	}
	if st.Err != nil {
		attrs = append(attrs, "error", st.Err)
	}
	r.logger.Info("I/O status", attrs...)
	r.observer.OnIOStatus(st)
}

// allocBlock reserves and allocates a block buffer. The returned func gives
// the reservation back.
func (r *Run) allocBlock(ctx context.Context, size int) (block.Block, func(), error) {
	release, err := r.rc.Reserve(ctx, int64(size))
	if err != nil {
		return nil, nil, err
	}
	b, err := block.New(size)
	if err != nil {
		release()
		return nil, nil, err
	}
	return b, release, nil
}
