package filltest_test

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hupe1980/filltest"
	"github.com/hupe1980/filltest/blobstore"
	"github.com/hupe1980/filltest/report"
)

func Example() {
	dir, err := os.MkdirTemp("", "filltest-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	cfg := filltest.DefaultConfig()
	cfg.Dir = dir
	cfg.FileSizeMiB = 1
	cfg.FileLimit = 4
	cfg.UnlinkAfter = true

	t, err := filltest.New(cfg, filltest.WithLogger(filltest.NoopLogger()))
	if err != nil {
		log.Fatal(err)
	}

	rep, err := t.Run(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("wrote %d files, %d faults, %d removed\n", rep.Metrics.Write.Files, rep.Faults, rep.FilesRemoved)
	// Output: wrote 4 files, 0 faults, 4 removed
}

func ExampleWithReportSink() {
	store := blobstore.NewLocalStore(os.TempDir())
	sink := report.NewSink([]blobstore.Store{store},
		report.WithCompression(report.CompressionZstd),
	)

	cfg := filltest.DefaultConfig()
	cfg.Dir = "/mnt/sdcard"

	_, err := filltest.New(cfg,
		filltest.WithLogLevel(slog.LevelInfo),
		filltest.WithReportSink(sink),
	)
	if err != nil {
		log.Fatal(err)
	}
}
