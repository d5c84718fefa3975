// Package sysio provides advisory I/O hints for test files.
//
// A read-back that is served from the page cache proves nothing about the
// medium. After a file is written and synced, the writer asks the kernel to
// drop its cached pages; before a file is verified, the verifier announces a
// sequential scan.
//
// # Platform Support
//
//   - Linux: posix_fadvise(2) via golang.org/x/sys/unix
//   - Other platforms: hints are no-ops and report [ErrUnsupported]
//
// Hints are advisory. Callers log failures and carry on.
package sysio
