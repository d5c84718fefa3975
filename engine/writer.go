package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/hupe1980/filltest/internal/block"
	"github.com/hupe1980/filltest/internal/fs"
	"github.com/hupe1980/filltest/internal/stream"
	"github.com/hupe1980/filltest/internal/sysio"
)

// Write fills the directory: the large-block phase until the volume is full
// or the file limit is reached, then the top-off phase if it is active.
//
// I/O failures end a phase and are published as IOStatus events. The
// returned error is non-nil only when ctx was canceled or no block buffer
// could be reserved.
func (r *Run) Write(ctx context.Context) ([]PhaseSummary, error) {
	sum, err := r.writePhase(ctx, PhaseLarge)
	sums := []PhaseSummary{sum}
	if err != nil || !r.params.TopOffActive() {
		return sums, err
	}

	sum, err = r.writePhase(ctx, PhaseTopOff)
	return append(sums, sum), err
}

func (r *Run) writePhase(ctx context.Context, phase Phase) (PhaseSummary, error) {
	blockSize, maxBlocks := r.params.geometry(phase)
	sum := PhaseSummary{Op: OpWrite, Phase: phase}

	r.observer.OnPhaseStart(PhaseStart{
		Op:        OpWrite,
		Phase:     phase,
		Dir:       r.params.Dir,
		Seed:      r.params.Seed,
		BlockSize: blockSize,
		MaxBlocks: maxBlocks,
	})
	r.logger.Info("write phase started", "phase", phase.String(), "seed", r.params.Seed, "blockSize", blockSize)

	buf, release, err := r.allocBlock(ctx, blockSize)
	if err != nil {
		sum.Reason = stopReasonFor(err)
		r.endPhase(sum)
		return sum, fmt.Errorf("allocate %s write buffer: %w", phase, err)
	}
	defer release()

	for sum.Reason == StopNone {
		if phase == PhaseLarge && r.params.FileLimit > 0 && int64(r.next) >= int64(r.params.FileLimit) {
			sum.Reason = StopFileLimit
			break
		}
		if ctx.Err() != nil {
			sum.Reason = StopCanceled
			break
		}

		stat, stop := r.writeFile(ctx, phase, buf, maxBlocks)
		if stat.Bytes > 0 {
			sum.Files++
			sum.Bytes += stat.Bytes
			sum.Elapsed += stat.Elapsed
		}
		sum.Reason = stop
	}

	r.endPhase(sum)
	if sum.Reason == StopCanceled {
		return sum, fmt.Errorf("write %s phase: %w", phase, context.Cause(ctx))
	}
	return sum, nil
}

// writeFile creates the next file and fills it with its stream. It returns
// StopNone when the phase may continue with another file.
func (r *Run) writeFile(ctx context.Context, phase Phase, buf block.Block, maxBlocks int) (FileStat, StopReason) {
	slot := newSlot(r.params.Seed, r.next, phase)
	stat := FileStat{Op: OpWrite, Slot: slot}
	path := r.params.path(slot.Name)

	f, err := r.fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		r.ioStatus(IOStatus{Op: "open", Phase: phase, Name: slot.Name, Err: err})
		return stat, stopReasonFor(err)
	}
	r.next++

	if r.params.UnlinkImmediate {
		if err := r.fs.Remove(path); err != nil {
			r.ioStatus(IOStatus{Op: "unlink", Phase: phase, Name: slot.Name, Err: err})
		}
	}

	gen := stream.New(slot.Seed)
	stop := StopNone
	start := time.Now()

	for i := 0; i < maxBlocks; i++ {
		if ctx.Err() != nil {
			stop = StopCanceled
			break
		}
		gen.Fill(buf)
		n, err := r.writeBlock(ctx, f, buf)
		stat.Bytes += int64(n)
		if err != nil {
			stop = stopReasonFor(err)
			if stop != StopCanceled {
				r.ioStatus(IOStatus{Op: "write", Phase: phase, Name: slot.Name, Err: err, Bytes: stat.Bytes})
			}
			break
		}
	}

	if stat.Bytes == 0 {
		// Nothing landed. Leave no empty file behind and end the phase.
		if err := f.Close(); err != nil {
			r.ioStatus(IOStatus{Op: "close", Phase: phase, Name: slot.Name, Err: err})
		}
		if !r.params.UnlinkImmediate {
			if err := r.fs.Remove(path); err != nil {
				r.ioStatus(IOStatus{Op: "remove", Phase: phase, Name: slot.Name, Err: err})
			}
		}
		r.logger.Debug("no space for new file", "file", slot.Name, "blockSize", len(buf))
		if stop == StopNone {
			stop = StopVolumeFull
		}
		return stat, stop
	}

	if r.params.DropCaches {
		r.dropCache(f, slot.Name)
	}
	stat.Elapsed = time.Since(start)

	if r.params.UnlinkImmediate {
		r.handles.Append(&retained{slot: slot, f: f})
	} else if err := f.Close(); err != nil {
		r.ioStatus(IOStatus{Op: "close", Phase: phase, Name: slot.Name, Err: err, Bytes: stat.Bytes})
	}

	r.metrics.Write.add(phase, stat.Bytes, stat.Elapsed)
	r.logger.Debug("file written", "file", slot.Name, "phase", phase.String(), "bytes", stat.Bytes, "elapsed", stat.Elapsed)
	r.observer.OnFileWritten(stat)

	return stat, stop
}

// writeBlock writes all of buf, retrying the unwritten remainder after a
// short write. A write that accepts nothing without an error is reported as
// ErrVolumeFull. The bytes accepted before a failure are returned.
func (r *Run) writeBlock(ctx context.Context, f fs.File, buf block.Block) (int, error) {
	if err := r.rc.Throttle(ctx, len(buf)); err != nil {
		return 0, err
	}

	done := 0
	for done < len(buf) {
		n, err := f.Write(buf[done:])
		done += n
		if err != nil {
			return done, err
		}
		if n == 0 {
			return done, ErrVolumeFull
		}
	}
	return done, nil
}

func (r *Run) dropCache(f fs.File, name string) {
	err := sysio.DropCache(f)
	switch {
	case err == nil:
	case errors.Is(err, sysio.ErrUnsupported):
		r.logger.Debug("page cache drop not supported", "file", name)
	default:
		r.logger.Warn("failed to drop page cache", "file", name, "error", err)
	}
}

func (r *Run) endPhase(sum PhaseSummary) {
	r.logger.Info(sum.Op.String()+" phase finished",
		"phase", sum.Phase.String(),
		"files", sum.Files,
		"bytes", sum.Bytes,
		"elapsed", sum.Elapsed,
		"faults", sum.Faults,
		"reason", sum.Reason.String(),
	)
	r.observer.OnPhaseSummary(sum)
}

// stopReasonFor classifies the error that ended a phase.
func stopReasonFor(err error) StopReason {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StopCanceled
	case errors.Is(err, ErrVolumeFull), errors.Is(err, syscall.ENOSPC):
		return StopVolumeFull
	default:
		return StopError
	}
}
