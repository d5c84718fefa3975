// Package conv provides checked integer conversions and arithmetic.
//
// Sizes in a fill run come from user input (MiB per file, sectors per block,
// file limits) and are multiplied into byte counts. These helpers return
// ErrOverflow instead of wrapping when a value does not fit.
package conv
