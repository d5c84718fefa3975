// Package engine implements the streaming generate/write/verify core of a fill
// run.
//
// A [Run] owns all state of one run: the base seed, the file counter shared by
// both write phases, the descriptor registry used in immediate-unlink mode,
// the metrics aggregator and the fault counter. Nothing is kept in package
// level variables.
//
// # Write
//
// [Run.Write] fills the target directory with files named random-00000000,
// random-00000001, ... until the volume reports that it is full:
//
//   - Large-block phase: each file receives up to FileSizeMiB blocks of 1 MiB.
//   - Top-off phase (optional): each further file receives up to 2050 blocks of
//     TopOffSectors*512 bytes, consuming the space left below one large block.
//
// A write that returns zero bytes or an error ends the phase. Whatever reached
// the file stays there; a file that received nothing is removed.
//
// # Verify
//
// [Run.Verify] replays the stream of every file in creation order and compares
// it unit by unit. A mismatch is counted and reported as a [Fault], and the
// scan continues. In immediate-unlink mode the files have no names; the
// verifier reads them through the handles the writer retained.
//
// # Events
//
// The engine does no formatting. Progress is published as structured events
// to an [Observer], and diagnostics go to a *slog.Logger.
//
// # File Layout
//
// Files are raw sequences of 8-byte generator outputs in native byte order,
// without header. The value stream of file i starts at seed+i+1.
package engine
