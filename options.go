package filltest

import (
	"log/slog"

	"github.com/hupe1980/filltest/engine"
	"github.com/hupe1980/filltest/internal/fs"
	"github.com/hupe1980/filltest/report"
	"github.com/hupe1980/filltest/resource"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	observers        []engine.Observer
	fs               fs.FileSystem
	rc               *resource.Controller
	sink             *report.Sink
	maxEvents        int
}

// Option configures a Tester.
type Option func(*options)

// WithMetricsCollector sends per-file throughput and fault counts to mc.
// nil restores the no-op collector.
//
//	stats := &filltest.BasicMetricsCollector{}
//	t, _ := filltest.New(cfg, filltest.WithMetricsCollector(stats))
//	rep, _ := t.Run(ctx)
//	fmt.Println(stats.GetStats().BytesWritten == rep.Metrics.Write.GrossBytes)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger sets the run logger. nil silences logging, which is also the
// default.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel logs as text to stderr at level.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithObserver adds an observer for engine events. May be given more than
// once.
func WithObserver(obs engine.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithFileSystem replaces the operating system file system, mostly for
// tests simulating a full or failing volume.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fs = fsys
	}
}

// WithResourceController sets the resource controller. It takes precedence
// over the limits in Config.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithReportSink delivers the run report through sink when the run ends.
func WithReportSink(sink *report.Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithMaxEvents bounds the I/O events kept in the report. n <= 0 selects
// report.DefaultMaxEvents.
func WithMaxEvents(n int) Option {
	return func(o *options) {
		o.maxEvents = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		fs:               fs.Default,
	}
	for _, fn := range optFns {
		if fn == nil {
			continue
		}
		fn(&o)
	}
	return o
}
