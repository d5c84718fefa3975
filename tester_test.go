package filltest

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/filltest/blobstore"
	"github.com/hupe1980/filltest/engine"
	"github.com/hupe1980/filltest/internal/fs"
	"github.com/hupe1980/filltest/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mib = 1 << 20

func smallConfig(dir string) Config {
	cfg := DefaultConfig()
	cfg.Dir = dir
	cfg.FileSizeMiB = 1
	return cfg
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, engine.NamePrefix+"*"))
	require.NoError(t, err)
	return len(matches)
}

func TestTester_FillsVolume(t *testing.T) {
	dir := t.TempDir()
	volume := fs.NewFaultyFS(nil)
	volume.SetCapacity(2*mib + mib/2)

	store := blobstore.NewMemoryStore()
	metrics := &BasicMetricsCollector{}

	tester, err := New(smallConfig(dir),
		WithFileSystem(volume),
		WithMetricsCollector(metrics),
		WithReportSink(report.NewSink([]blobstore.Store{store})),
	)
	require.NoError(t, err)

	rep, err := tester.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, rep.Passed())
	assert.Equal(t, int64(2*mib+mib/2), rep.Metrics.Write.GrossBytes)
	assert.Equal(t, int64(2*mib+mib/2), rep.Metrics.Read.GrossBytes)
	assert.Equal(t, 3, rep.Metrics.Write.Files)
	assert.Equal(t, 3, countFiles(t, dir))
	assert.NotEmpty(t, rep.RunID)
	assert.NotNil(t, rep.VolumeBefore)

	require.Len(t, rep.Phases, 2)
	assert.Equal(t, engine.StopVolumeFull, rep.Phases[0].Reason)
	assert.Equal(t, engine.StopEndOfData, rep.Phases[1].Reason)

	// The full volume shows up as an event, not as an error.
	require.NotEmpty(t, rep.Events)
	assert.Equal(t, "write", rep.Events[0].Op)

	stats := metrics.GetStats()
	assert.Equal(t, int64(3), stats.FilesWritten)
	assert.Equal(t, int64(3), stats.FilesRead)
	assert.Zero(t, stats.Faults)

	keys, err := store.List(context.Background(), "reports/")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	stored, err := report.Load(context.Background(), store, keys[0])
	require.NoError(t, err)
	assert.Equal(t, rep.RunID, stored.RunID)
	assert.Equal(t, rep.Metrics, stored.Metrics)
}

func TestTester_MaxEvents(t *testing.T) {
	volume := fs.NewFaultyFS(nil)
	volume.SetCapacity(2*mib + mib/2)

	// The half-written file 2 yields a write and a read event.
	tester, err := New(smallConfig(t.TempDir()), WithFileSystem(volume), WithMaxEvents(1))
	require.NoError(t, err)
	rep, err := tester.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, rep.Events, 1)
	assert.Equal(t, "write", rep.Events[0].Op)
	assert.Equal(t, 1, rep.EventsDropped)
}

func TestTester_UnlinkAfterSuccess(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig(dir)
	cfg.FileLimit = 2
	cfg.UnlinkAfter = true

	tester, err := New(cfg)
	require.NoError(t, err)
	rep, err := tester.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, rep.Passed())
	assert.Equal(t, 2, rep.FilesRemoved)
	assert.Zero(t, countFiles(t, dir))
}

func TestTester_RemovesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	for i := uint32(0); i < 4; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, engine.FileName(i)), []byte("stale"), 0o600))
	}

	cfg := smallConfig(dir)
	cfg.FileLimit = 1
	tester, err := New(cfg)
	require.NoError(t, err)
	rep, err := tester.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, rep.Passed())
	assert.Equal(t, 1, countFiles(t, dir))
}

func TestTester_FaultKeepsFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig(dir)
	cfg.FileLimit = 2

	writer, err := New(cfg)
	require.NoError(t, err)
	_, err = writer.Run(context.Background())
	require.NoError(t, err)

	name := filepath.Join(dir, engine.FileName(1))
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	data[4096] ^= 0xff
	require.NoError(t, os.WriteFile(name, data, 0o600))

	cfg.VerifyOnly = true
	cfg.UnlinkAfter = true
	verifier, err := New(cfg)
	require.NoError(t, err)
	rep, err := verifier.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, rep.Passed())
	assert.Equal(t, int64(1), rep.Faults)
	require.Len(t, rep.FaultRecords, 1)
	assert.Equal(t, uint32(1), rep.FaultRecords[0].Index)
	assert.Equal(t, int64(4096), rep.FaultRecords[0].Position)
	require.NotNil(t, rep.FaultMap)
	assert.True(t, rep.FaultMap.Contains(1, 4096))

	assert.Zero(t, rep.FilesRemoved)
	assert.Equal(t, 2, countFiles(t, dir))
	assert.Zero(t, rep.Metrics.Write.GrossBytes)
}

func TestTester_UnlinkImmediate(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig(dir)
	cfg.FileLimit = 3
	cfg.UnlinkImmediate = true
	cfg.UnlinkAfter = true

	tester, err := New(cfg)
	require.NoError(t, err)
	rep, err := tester.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, rep.Passed())
	assert.Equal(t, int64(3*mib), rep.Metrics.Read.GrossBytes)
	assert.Zero(t, rep.FilesRemoved)
	assert.Zero(t, countFiles(t, dir))
}

func TestTester_CanceledStillReports(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := blobstore.NewMemoryStore()
	tester, err := New(smallConfig(t.TempDir()), WithReportSink(report.NewSink([]blobstore.Store{store})))
	require.NoError(t, err)

	rep, err := tester.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, rep)
	require.NotEmpty(t, rep.Phases)
	assert.Equal(t, engine.StopCanceled, rep.Phases[0].Reason)

	keys, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

type brokenStore struct {
	*blobstore.MemoryStore
}

func (brokenStore) Put(context.Context, string, []byte) error {
	return errors.New("read-only bucket")
}

func TestTester_ReportDeliveryFailure(t *testing.T) {
	cfg := smallConfig(t.TempDir())
	cfg.FileLimit = 1

	sink := report.NewSink([]blobstore.Store{brokenStore{blobstore.NewMemoryStore()}})
	tester, err := New(cfg, WithReportSink(sink))
	require.NoError(t, err)

	rep, err := tester.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliver report")
	assert.True(t, rep.Passed())
}

func TestTester_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := smallConfig(t.TempDir())
	cfg.FileLimit = 1
	tester, err := New(cfg, WithLogger(logger))
	require.NoError(t, err)
	rep, err := tester.Run(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"run started"`)
	assert.Contains(t, out, `"msg":"run completed"`)
	assert.Contains(t, out, `"run_id":"`+rep.RunID+`"`)
	assert.Contains(t, out, `"msg":"file written"`)
}

func TestTester_Observer(t *testing.T) {
	cfg := smallConfig(t.TempDir())
	cfg.FileLimit = 2

	var files []engine.FileStat
	obs := observerFunc(func(s engine.FileStat) { files = append(files, s) })

	tester, err := New(cfg, WithObserver(obs))
	require.NoError(t, err)
	_, err = tester.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, engine.FileName(1), files[1].Slot.Name)
}

type observerFunc func(engine.FileStat)

func (observerFunc) OnPhaseStart(engine.PhaseStart)     {}
func (f observerFunc) OnFileWritten(s engine.FileStat)  { f(s) }
func (observerFunc) OnFileVerified(engine.FileStat)     {}
func (observerFunc) OnFault(engine.Fault)               {}
func (observerFunc) OnIOStatus(engine.IOStatus)         {}
func (observerFunc) OnPhaseSummary(engine.PhaseSummary) {}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := smallConfig(t.TempDir())
	cfg.VerifyOnly = true
	cfg.UnlinkImmediate = true

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, IsInvalidConfig(err))
}

func TestNew_FileLimitDisablesTopOff(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig(dir)
	cfg.FileLimit = 1
	cfg.TopOff = true

	var logs bytes.Buffer
	tester, err := New(cfg, WithLogger(NewLogger(slog.NewJSONHandler(&logs, nil))))
	require.NoError(t, err)
	assert.False(t, tester.Config().TopOff)
	assert.Contains(t, logs.String(), "top-off phase disabled")

	rep, err := tester.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, rep.Phases, 2)
	for _, ph := range rep.Phases {
		assert.Equal(t, engine.PhaseLarge, ph.Phase)
	}
	assert.Equal(t, int64(mib), rep.Metrics.Read.NetBytes)
	assert.Equal(t, 1, countFiles(t, dir))
}

func TestNew_MemoryLimitBelowBlock(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig(dir)
	cfg.FileLimit = 2
	tester, err := New(cfg)
	require.NoError(t, err)
	_, err = tester.Run(context.Background())
	require.NoError(t, err)

	// Verifying with a budget too small for one read buffer would read nothing.
	cfg = smallConfig(dir)
	cfg.VerifyOnly = true
	cfg.MemoryLimitBytes = 4096

	_, err = New(cfg)
	var ic *ErrInvalidConfig
	require.ErrorAs(t, err, &ic)
	assert.Equal(t, "MemoryLimitBytes", ic.Field)
}
