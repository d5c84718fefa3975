package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/filltest"
	"github.com/hupe1980/filltest/codec"
	"github.com/hupe1980/filltest/engine"
	"github.com/hupe1980/filltest/report"
	"github.com/spf13/cobra"
)

// usageError marks a flag parsing problem. The usage text is printed for it.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type flags struct {
	verify          bool
	dir             string
	generateSeed    bool
	seed            uint32
	fileSize        int
	files           int
	topOff          bool
	blockSize       int
	unlinkAfter     bool
	unlinkImmediate bool
	color           bool

	ioLimit           int64
	memoryLimit       int64
	noDropCache       bool
	logLevel          string
	logJSON           bool
	reports           []string
	reportCodec       string
	reportCompression string
	ledgerTable       string
	maxEvents         int
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "filltest",
		Short: "Fill a volume with generated data and verify it",
		Long: `filltest fills the current directory with files called random-XXXXXXXX.
Each file is up to 1 GiB (see -S) and holds pseudo-random integers. When less
than 1 MiB is left (or one small block with -z/-d), writing stops and the files
are read back. Every changed value is reported with its position. Write and
read speeds are shown.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd, &f, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	fl := cmd.Flags()
	fl.SortFlags = false
	fl.BoolVarP(&f.verify, "verify", "v", false, "verify existing data files")
	fl.StringVarP(&f.dir, "directory", "C", "", "work in this directory")
	fl.BoolVarP(&f.generateSeed, "generate-seed", "g", false, "generate a random seed")
	fl.Uint32VarP(&f.seed, "seed", "s", uint32(engine.DefaultSeed), "random seed")
	fl.IntVarP(&f.fileSize, "file-size", "S", engine.DefaultFileSizeMiB, "size of each file in MiB")
	fl.IntVarP(&f.files, "files", "f", 0, "only write this number of files (disables -z and -d)")
	fl.BoolVarP(&f.topOff, "top-off", "z", false, "fill the remaining space with smaller blocks")
	fl.IntVarP(&f.blockSize, "block-size", "d", engine.DefaultTopOffSectors, "smaller block size in 512 B units, implies -z")
	fl.BoolVarP(&f.unlinkAfter, "unlink-after", "u", false, "remove files after a successful test (works with -v)")
	fl.BoolVarP(&f.unlinkImmediate, "unlink-immediate", "U", false, "remove files right away, write and verify through open handles")
	fl.BoolVarP(&f.color, "color", "m", false, "multicolor detailed output, for dark backgrounds")

	fl.Int64Var(&f.ioLimit, "io-limit", 0, "cap combined write and read bandwidth in bytes/s (0 = unlimited)")
	fl.Int64Var(&f.memoryLimit, "memory-limit", 0, "cap block buffer memory in bytes (0 = unlimited)")
	fl.BoolVar(&f.noDropCache, "no-drop-cache", false, "read back through the page cache")
	fl.StringVar(&f.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	fl.BoolVar(&f.logJSON, "log-json", false, "write logs as JSON")
	fl.StringArrayVar(&f.reports, "report", nil, "store the run report at file://dir, s3://bucket/prefix or minio://host/bucket/prefix (repeatable)")
	fl.StringVar(&f.reportCodec, "report-codec", codec.Default.Name(), "report codec: json, go-json")
	fl.StringVar(&f.reportCompression, "report-compression", "zstd", "report compression: none, zstd, lz4")
	fl.StringVar(&f.ledgerTable, "ledger-table", "", "record runs in this DynamoDB table (needs an s3 report)")
	fl.IntVar(&f.maxEvents, "max-events", report.DefaultMaxEvents, "I/O events kept in the report")

	return cmd
}

// execute runs the command and maps the outcome to an exit status.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintln(stderr, cmd.UsageString())
		}
		return 1
	}
	return 0
}

func buildConfig(cmd *cobra.Command, f *flags, stdout io.Writer) (filltest.Config, error) {
	cfg := filltest.DefaultConfig()
	cfg.VerifyOnly = f.verify
	cfg.Seed = uint64(f.seed)
	if f.generateSeed {
		cfg.Seed = uint64(uint32(time.Now().Unix()))
	}
	cfg.FileSizeMiB = f.fileSize
	cfg.FileLimit = f.files
	cfg.TopOff = f.topOff || cmd.Flags().Changed("block-size")
	cfg.TopOffSectors = f.blockSize
	cfg.UnlinkAfter = f.unlinkAfter
	cfg.UnlinkImmediate = f.unlinkImmediate
	cfg.DropCaches = !f.noDropCache
	cfg.IOLimitBytesPerSec = f.ioLimit
	cfg.MemoryLimitBytes = f.memoryLimit

	if f.dir != "" {
		if fi, err := os.Stat(f.dir); err != nil {
			fmt.Fprintf(stdout, "Error chdir to %s: %v\n", f.dir, err)
		} else if !fi.IsDir() {
			fmt.Fprintf(stdout, "Error chdir to %s: not a directory\n", f.dir)
		} else {
			cfg.Dir = f.dir
		}
	}

	cfg, notes := cfg.Normalize()
	for _, note := range notes {
		fmt.Fprintf(stdout, "Note: %s.\n", note)
	}
	return cfg, cfg.Validate()
}

func newLogger(f *flags, w io.Writer) (*filltest.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if f.logJSON {
		return filltest.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return filltest.NewLogger(slog.NewTextHandler(w, opts)), nil
}

func newSink(ctx context.Context, f *flags, logger *filltest.Logger) (*report.Sink, error) {
	if len(f.reports) == 0 {
		if f.ledgerTable != "" {
			return nil, errors.New("--ledger-table needs an s3 --report location")
		}
		return nil, nil
	}

	c, ok := codec.ByName(f.reportCodec)
	if !ok {
		return nil, fmt.Errorf("--report-codec: unknown codec %q (have %v)", f.reportCodec, codec.Names())
	}
	comp, err := report.ParseCompression(f.reportCompression)
	if err != nil {
		return nil, fmt.Errorf("--report-compression: %w", err)
	}

	stores, ledger, err := openStores(ctx, f.reports, f.ledgerTable)
	if err != nil {
		return nil, err
	}

	opts := []report.SinkOption{
		report.WithCodec(c),
		report.WithCompression(comp),
		report.WithLogger(logger.Logger),
	}
	if ledger != nil {
		opts = append(opts, report.WithLedger(ledger))
	}
	return report.NewSink(stores, opts...), nil
}

func run(ctx context.Context, cmd *cobra.Command, f *flags, stdout, stderr io.Writer) error {
	if f.maxEvents <= 0 {
		return usageError{fmt.Errorf("--max-events must be positive, got %d", f.maxEvents)}
	}

	cfg, err := buildConfig(cmd, f, stdout)
	if err != nil {
		return err
	}
	logger, err := newLogger(f, stderr)
	if err != nil {
		return err
	}
	sink, err := newSink(ctx, f, logger)
	if err != nil {
		return err
	}

	st := newStyle(stdout, f.color)
	opts := []filltest.Option{
		filltest.WithLogger(logger),
		filltest.WithObserver(newConsole(stdout, st, f.color)),
		filltest.WithMaxEvents(f.maxEvents),
	}
	if sink != nil {
		opts = append(opts, filltest.WithReportSink(sink))
	}

	tester, err := filltest.New(cfg, opts...)
	if err != nil {
		return err
	}

	rep, runErr := tester.Run(ctx)
	if runErr != nil {
		// Interruptions and report delivery failures do not change the verdict.
		fmt.Fprintf(stderr, "Warning: %v\n", runErr)
	}
	if rep != nil {
		printSummary(stdout, st, cfg, rep)
	}
	return nil
}
