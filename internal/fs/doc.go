// Package fs provides the filesystem seam used by the writer and verifier.
//
// The package defines two key interfaces:
//
//   - [File]: an open file with read/write/seek/sync capabilities
//   - [FileSystem]: the handful of directory operations a fill run needs
//
// # Implementations
//
//   - [OS]: the operating system
//   - [FaultyFS]: test utility that simulates a volume of limited capacity,
//     short writes, write errors and open failures
//
// # Usage
//
// Production code uses fs.Default (which is [OS]):
//
//	f, err := fs.Default.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
//
// Tests inject [FaultyFS] to make a directory behave like a nearly full disk:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.SetCapacity(3 * 1024 * 1024) // volume is full after 3 MiB
//
// # Design Notes
//
// Operations take no context.Context. A single read or write is not
// interruptible at the syscall level; cancellation is checked by callers
// between blocks.
package fs
