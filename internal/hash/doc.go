// Package hash checksums stored reports.
//
// Sums use CRC32-Castagnoli (CRC32C), the polynomial S3 also accepts for
// upload checksums. Go's hash/crc32 uses SSE4.2 or the ARM CRC extension for
// it when available.
//
//	sum := hash.Of(data)
//	err := sum.Verify(data)
package hash
