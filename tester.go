package filltest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/filltest/engine"
	"github.com/hupe1980/filltest/internal/volume"
	"github.com/hupe1980/filltest/report"
	"github.com/hupe1980/filltest/resource"
)

// Tester fills a directory, reads it back and reports the result.
type Tester struct {
	cfg  Config
	opts options
}

// New normalizes and validates cfg and creates a Tester.
func New(cfg Config, optFns ...Option) (*Tester, error) {
	cfg, notes := cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := applyOptions(optFns)
	for _, note := range notes {
		o.logger.Info("config adjusted", "note", note)
	}
	if o.rc == nil {
		o.rc = resource.NewController(resource.Config{
			MemoryLimitBytes:   cfg.MemoryLimitBytes,
			IOLimitBytesPerSec: cfg.IOLimitBytesPerSec,
		})
	}

	return &Tester{cfg: cfg, opts: o}, nil
}

// Config returns the configuration the Tester was created with.
func (t *Tester) Config() Config { return t.cfg }

// Run executes one run: remove stale files, write, verify, optionally delete
// the files, then deliver the report.
//
// Data faults are not errors; inspect Report.Faults. An error is returned
// only when ctx ends the run early or the report cannot be delivered. The
// report is returned in both cases.
func (t *Tester) Run(ctx context.Context) (*report.Report, error) {
	rep := &report.Report{
		Version: report.Version,
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Params:  t.cfg.reportParams(),
	}
	rep.Host, _ = os.Hostname()

	logger := t.opts.logger.WithRunID(rep.RunID).WithDir(t.cfg.Dir)
	logger.LogRunStarted(ctx, t.cfg)

	if u, err := volume.Stat(ctx, t.statDir()); err == nil {
		rep.VolumeBefore = &u
	} else {
		logger.DebugContext(ctx, "volume stat failed", "error", err)
	}

	collector := report.NewCollector(t.opts.maxEvents)
	observers := engine.MultiObserver{collector, metricsObserver{mc: t.opts.metricsCollector}}
	observers = append(observers, t.opts.observers...)

	run, err := engine.NewRun(t.cfg.params(),
		engine.WithLogger(logger.Logger),
		engine.WithObserver(observers),
		engine.WithFileSystem(t.opts.fs),
		engine.WithResourceController(t.opts.rc),
	)
	if err != nil {
		return nil, &ErrInvalidConfig{Field: "Config", Reason: err.Error()}
	}

	runErr := t.execute(ctx, run, rep, logger)

	// Retained handles pin the space of unlinked files until closed.
	if err := run.Close(); err != nil {
		logger.WarnContext(ctx, "closing retained handles failed", "error", err)
	}

	rep.Finished = time.Now()
	rep.Metrics = run.Metrics()
	rep.Faults = run.Faults()
	rep.FaultRecords = run.FaultRecords()
	collector.Fill(rep)

	if u, err := volume.Stat(context.WithoutCancel(ctx), t.statDir()); err == nil {
		rep.VolumeAfter = &u
	}

	logger.LogRunCompleted(ctx, rep, runErr)

	if t.opts.sink != nil {
		key, err := t.opts.sink.Deliver(context.WithoutCancel(ctx), rep)
		logger.LogReport(ctx, key, err)
		if err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("deliver report: %w", err))
		}
	}

	return rep, runErr
}

func (t *Tester) execute(ctx context.Context, run *engine.Run, rep *report.Report, logger *Logger) error {
	if !t.cfg.VerifyOnly {
		n, err := engine.RemoveFiles(t.opts.fs, t.cfg.Dir)
		logger.LogCleanup(ctx, "stale", n, err)

		if _, err := run.Write(ctx); err != nil {
			return err
		}
	}

	if _, err := run.Verify(ctx); err != nil {
		return err
	}

	if t.cfg.UnlinkAfter && !t.cfg.UnlinkImmediate && run.Faults() == 0 {
		n, err := engine.RemoveFiles(t.opts.fs, t.cfg.Dir)
		logger.LogCleanup(ctx, "passed", n, err)
		rep.FilesRemoved = n
	}
	return nil
}

func (t *Tester) statDir() string {
	if t.cfg.Dir == "" {
		return "."
	}
	return t.cfg.Dir
}
