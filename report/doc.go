// Package report describes a finished fill run and delivers that description
// to one or more blob stores.
//
// A Report carries the run parameters, the write and read totals, every phase
// summary, the retained fault records, and a FaultMap that keeps the location
// of every fault at MiB granularity even when records were dropped. Reports
// are serialized with a codec.Codec and optionally compressed with zstd or
// LZ4 inside a small self-describing envelope, so Decode needs no outside
// information.
package report
