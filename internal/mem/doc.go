// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Block buffers start on a page boundary so the same buffer can be handed to
// the kernel for unbuffered I/O without a bounce copy.
package mem
