// Package block provides a bounds-checked byte buffer with a typed view over
// fixed-width 8-byte units.
//
// A Block is the unit of transfer between the stream generator and the
// storage layer: the generator fills every unit in sequence, the writer hands
// the raw bytes to the file, and the verifier drains units back out of a
// buffer that a read has filled.
//
// Units are stored in native byte order so the payload on disk matches what
// a plain memory dump of a []uint64 would produce on the same machine.
package block
