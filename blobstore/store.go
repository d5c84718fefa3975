package blobstore

import (
	"context"
	"os"
	"time"
)

// ErrNotFound matches a missing blob under errors.Is. Every Store wraps or
// returns it from Get.
var ErrNotFound = os.ErrNotExist

// Store holds immutable, named blobs.
type Store interface {
	// Put writes a blob atomically, replacing any blob of the same name.
	Put(ctx context.Context, name string, data []byte) error
	// Get returns the content of a blob.
	Get(ctx context.Context, name string) ([]byte, error)
	// List returns the names starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
}

// LedgerEntry indexes one stored report.
type LedgerEntry struct {
	RunID        string
	Key          string // blob name of the report
	Host         string
	Dir          string
	Started      time.Time
	Finished     time.Time
	Seed         uint64
	BytesWritten int64
	BytesRead    int64
	Faults       int64
}

// Ledger records which runs produced which reports.
type Ledger interface {
	Record(ctx context.Context, e LedgerEntry) error
}
