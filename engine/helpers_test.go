package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/filltest/engine"
	"github.com/hupe1980/filltest/internal/block"
	"github.com/stretchr/testify/require"
)

const mib = block.MiB

// recorder is an Observer that keeps every event.
type recorder struct {
	starts    []engine.PhaseStart
	written   []engine.FileStat
	verified  []engine.FileStat
	faults    []engine.Fault
	statuses  []engine.IOStatus
	summaries []engine.PhaseSummary
}

func (r *recorder) OnPhaseStart(ev engine.PhaseStart)      { r.starts = append(r.starts, ev) }
func (r *recorder) OnFileWritten(s engine.FileStat)        { r.written = append(r.written, s) }
func (r *recorder) OnFileVerified(s engine.FileStat)       { r.verified = append(r.verified, s) }
func (r *recorder) OnFault(f engine.Fault)                 { r.faults = append(r.faults, f) }
func (r *recorder) OnIOStatus(st engine.IOStatus)          { r.statuses = append(r.statuses, st) }
func (r *recorder) OnPhaseSummary(sum engine.PhaseSummary) { r.summaries = append(r.summaries, sum) }

func testParams(dir string) engine.Params {
	return engine.Params{
		Dir:           dir,
		Seed:          engine.DefaultSeed,
		FileSizeMiB:   1,
		TopOffSectors: engine.DefaultTopOffSectors,
	}
}

func newRun(t *testing.T, p engine.Params, opts ...engine.Option) *engine.Run {
	t.Helper()
	r, err := engine.NewRun(p, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func fileSize(t *testing.T, dir string, index uint32) int64 {
	t.Helper()
	fi, err := os.Stat(filepath.Join(dir, engine.FileName(index)))
	require.NoError(t, err)
	return fi.Size()
}

func testFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, engine.NamePrefix+"*"))
	require.NoError(t, err)
	return matches
}
