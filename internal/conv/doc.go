// Package conv converts between Go's int and the fixed-width integers of the
// container format with bounds checks.
//
// Entry ordinals are tracked in 32-bit bitmaps and cluster identifiers are
// Java ints, so counts that arrive as int are narrowed here instead of with a
// bare cast.
package conv
