// Package filltest checks storage media by filling them with generated data
// and reading it back.
//
// A run writes files named random-00000000, random-00000001, ... into a
// directory until the volume is full, each holding a stream of 64-bit values
// from a linear congruential generator seeded per file. It then reads every
// file back and compares each value against a fresh stream. Any difference is
// a fault, recorded with its file and byte position.
//
// # Quick Start
//
//	cfg := filltest.DefaultConfig()
//	cfg.Dir = "/mnt/sdcard"
//	cfg.UnlinkAfter = true
//
//	t, err := filltest.New(cfg, filltest.WithLogLevel(slog.LevelInfo))
//	if err != nil {
//	    return err // invalid configuration
//	}
//	rep, err := t.Run(ctx)
//	if err != nil {
//	    return err // canceled, or the report could not be stored
//	}
//	fmt.Println(rep.Faults, "faults")
//
// # Phases
//
// The large-block phase writes files of FileSizeMiB one-MiB blocks. With
// TopOff set, a second phase keeps creating files written in small blocks
// until not even one of them fits, so the volume ends up completely full.
// Verification follows the same order.
//
// # Immediate Unlink
//
// With UnlinkImmediate, each file is removed right after it is created and
// only its open handle is kept. The space is freed when the run ends, even
// if the process is killed.
//
// # Reports
//
// Every run produces a report.Report. WithReportSink stores it in one or
// more blobstore.Store backends (local directory, S3, MinIO) and optionally
// records it in a DynamoDB ledger.
//
// The files themselves carry no header: the seed and geometry must be given
// again to verify them later.
package filltest
