package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/hupe1980/filltest/blobstore"
	"github.com/hupe1980/filltest/codec"
	"golang.org/x/sync/errgroup"
)

// Sink delivers encoded reports to one or more stores.
type Sink struct {
	stores      []blobstore.Store
	ledger      blobstore.Ledger
	codec       codec.Codec
	compression Compression
	prefix      string
	logger      *slog.Logger
}

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithCodec sets the serialization codec. Default: codec.Default.
func WithCodec(c codec.Codec) SinkOption {
	return func(s *Sink) {
		s.codec = c
	}
}

// WithCompression sets the envelope compression. Default: none.
func WithCompression(c Compression) SinkOption {
	return func(s *Sink) {
		s.compression = c
	}
}

// WithLedger records every delivered report in l.
func WithLedger(l blobstore.Ledger) SinkOption {
	return func(s *Sink) {
		s.ledger = l
	}
}

// WithPrefix sets the key prefix inside each store. Default: "reports".
func WithPrefix(p string) SinkOption {
	return func(s *Sink) {
		s.prefix = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) SinkOption {
	return func(s *Sink) {
		s.logger = l
	}
}

// NewSink creates a sink writing to stores.
func NewSink(stores []blobstore.Store, opts ...SinkOption) *Sink {
	s := &Sink{
		stores: stores,
		codec:  codec.Default,
		prefix: "reports",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the blob name r is stored under.
func (s *Sink) Key(r *Report) string {
	day := r.Started.UTC().Format("2006-01-02")
	return path.Join(s.prefix, day, r.RunID+".json"+s.compression.Ext())
}

// Deliver encodes r and writes it to every store concurrently, then records
// it in the ledger. It returns the key used.
func (s *Sink) Deliver(ctx context.Context, r *Report) (string, error) {
	key := s.Key(r)
	if len(s.stores) == 0 {
		return key, errors.New("report sink has no stores")
	}

	data, err := Encode(r, s.codec, s.compression)
	if err != nil {
		return key, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, st := range s.stores {
		g.Go(func() error {
			return st.Put(gctx, key, data)
		})
	}
	if err := g.Wait(); err != nil {
		return key, fmt.Errorf("store report %s: %w", key, err)
	}
	s.logger.Info("report stored", "key", key, "bytes", len(data), "stores", len(s.stores))

	if s.ledger != nil {
		err := s.ledger.Record(ctx, blobstore.LedgerEntry{
			RunID:        r.RunID,
			Key:          key,
			Host:         r.Host,
			Dir:          r.Params.Dir,
			Started:      r.Started,
			Finished:     r.Finished,
			Seed:         r.Params.Seed,
			BytesWritten: r.Metrics.Write.GrossBytes,
			BytesRead:    r.Metrics.Read.GrossBytes,
			Faults:       r.Faults,
		})
		if err != nil {
			return key, fmt.Errorf("ledger: %w", err)
		}
	}
	return key, nil
}

// Load reads and decodes a report.
func Load(ctx context.Context, store blobstore.Store, key string) (*Report, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
