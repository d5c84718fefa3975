package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"time"

	"github.com/hupe1980/filltest/internal/block"
	"github.com/hupe1980/filltest/internal/fs"
	"github.com/hupe1980/filltest/internal/stream"
	"github.com/hupe1980/filltest/internal/sysio"
)

// Verify reads the files back in creation order and compares every unit with
// its stream. Mismatches are counted and recorded; the scan never stops at a
// fault.
//
// In immediate-unlink mode the files are read through the retained handles,
// otherwise they are reopened by name. The top-off pass follows the large
// pass when the top-off phase is active and continues where it stopped.
func (r *Run) Verify(ctx context.Context) ([]PhaseSummary, error) {
	var pos int // name index, or registry position in immediate-unlink mode

	sum, err := r.verifyPhase(ctx, PhaseLarge, &pos)
	sums := []PhaseSummary{sum}
	if err != nil || !r.params.TopOffActive() {
		return sums, err
	}

	sum, err = r.verifyPhase(ctx, PhaseTopOff, &pos)
	return append(sums, sum), err
}

func (r *Run) verifyPhase(ctx context.Context, phase Phase, pos *int) (PhaseSummary, error) {
	blockSize, maxBlocks := r.params.geometry(phase)
	sum := PhaseSummary{Op: OpVerify, Phase: phase}

	r.observer.OnPhaseStart(PhaseStart{
		Op:        OpVerify,
		Phase:     phase,
		Dir:       r.params.Dir,
		Seed:      r.params.Seed,
		BlockSize: blockSize,
		MaxBlocks: maxBlocks,
	})
	r.logger.Info("verify phase started", "phase", phase.String(), "seed", r.params.Seed, "blockSize", blockSize)

	buf, release, err := r.allocBlock(ctx, blockSize)
	if err != nil {
		sum.Reason = stopReasonFor(err)
		r.endPhase(sum)
		return sum, fmt.Errorf("allocate %s read buffer: %w", phase, err)
	}
	defer release()

	for sum.Reason == StopNone {
		if ctx.Err() != nil {
			sum.Reason = StopCanceled
			break
		}

		slot, f, owned, stop := r.openNext(phase, pos)
		if stop != StopNone {
			sum.Reason = stop
			break
		}

		stat, stop := r.verifyFile(ctx, phase, slot, f, buf, maxBlocks)
		if owned {
			if err := f.Close(); err != nil {
				r.ioStatus(IOStatus{Op: "close", Phase: phase, Name: slot.Name, Err: err, Bytes: stat.Bytes})
			}
		}

		sum.Files++
		sum.Bytes += stat.Bytes
		sum.Elapsed += stat.Elapsed
		sum.Faults += stat.Faults
		sum.Reason = stop
	}

	r.endPhase(sum)
	if sum.Reason == StopCanceled {
		return sum, fmt.Errorf("verify %s phase: %w", phase, context.Cause(ctx))
	}
	return sum, nil
}

// openNext returns a readable handle for the file at *pos and advances *pos.
// owned is true when the caller must close the handle.
func (r *Run) openNext(phase Phase, pos *int) (slot Slot, f fs.File, owned bool, stop StopReason) {
	if r.params.UnlinkImmediate {
		h, ok := r.handles.Get(*pos)
		if !ok {
			if !r.exhausted {
				r.exhausted = true
				r.ioStatus(IOStatus{Op: "open", Phase: phase, Err: ErrRegistryExhausted})
			}
			return slot, nil, false, StopRegistryExhausted
		}
		if phase == PhaseLarge && h.slot.Phase == PhaseTopOff {
			// Left for the top-off pass.
			return slot, nil, false, StopEndOfData
		}
		*pos++

		if _, err := h.f.Seek(0, io.SeekStart); err != nil {
			r.ioStatus(IOStatus{Op: "seek", Phase: phase, Name: h.slot.Name, Err: err})
			return h.slot, nil, false, StopError
		}
		return h.slot, h.f, false, StopNone
	}

	slot = newSlot(r.params.Seed, uint32(*pos), phase)
	*pos++

	f, err := r.fs.OpenFile(r.params.path(slot.Name), os.O_RDONLY, 0)
	if err != nil {
		r.ioStatus(IOStatus{Op: "open", Phase: phase, Name: slot.Name, Err: err})
		if errors.Is(err, iofs.ErrNotExist) {
			return slot, nil, false, StopNoMoreFiles
		}
		return slot, nil, false, StopError
	}
	return slot, f, true, StopNone
}

// verifyFile compares up to maxBlocks blocks of f with the stream of slot.
// A short read ends the file and the pass.
func (r *Run) verifyFile(ctx context.Context, phase Phase, slot Slot, f fs.File, buf block.Block, maxBlocks int) (FileStat, StopReason) {
	stat := FileStat{Op: OpVerify, Slot: slot}
	blockSize := len(buf)
	budget := int64(blockSize) * int64(maxBlocks)

	if err := sysio.Advise(f, sysio.AdviceSequential); err != nil && !errors.Is(err, sysio.ErrUnsupported) {
		r.logger.Debug("sequential read hint failed", "file", slot.Name, "error", err)
	}

	gen := stream.New(slot.Seed)
	stop := StopNone
	start := time.Now()

	for i := 0; i < maxBlocks; i++ {
		if ctx.Err() != nil {
			stop = StopCanceled
			break
		}
		if err := r.rc.Throttle(ctx, blockSize); err != nil {
			stop = stopReasonFor(err)
			break
		}

		blockNum := int64(i)
		n, err := io.ReadFull(f, buf)
		stat.Bytes += int64(n)
		stat.Faults += int64(gen.Compare(buf, n, func(unit int, expected, actual uint64) {
			offset := int64(unit) * block.UnitSize
			r.recordFault(Fault{
				Name:      slot.Name,
				Index:     slot.Index,
				Phase:     phase,
				Block:     blockNum,
				Offset:    offset,
				BlockSize: blockSize,
				Position:  blockNum*int64(blockSize) + offset,
				Expected:  expected,
				Actual:    actual,
			})
		}))

		if err != nil {
			r.ioStatus(IOStatus{Op: "read", Phase: phase, Name: slot.Name, Err: err, Bytes: stat.Bytes, Expected: budget})
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				stop = StopEndOfData
			} else {
				stop = StopError
			}
			break
		}
	}
	stat.Elapsed = time.Since(start)

	r.metrics.Read.add(phase, stat.Bytes, stat.Elapsed)
	r.logger.Debug("file verified", "file", slot.Name, "phase", phase.String(), "bytes", stat.Bytes, "elapsed", stat.Elapsed, "faults", stat.Faults)
	r.observer.OnFileVerified(stat)

	return stat, stop
}
