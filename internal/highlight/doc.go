// Package highlight groups worksheet rows by the value of one column, gives
// every group its own background color and compresses the result into the
// smallest set of contiguous row ranges that can be formatted in one batch.
//
// The package has no I/O. Callers supply a [Dataset] and an [Applier] that
// knows how to push ranges to a spreadsheet; the two phases in between are
// pure functions:
//
//  1. [AssignGroupColors] partitions rows into groups and assigns each group
//     a unique color drawn from a high-contrast [Palette].
//  2. [CompressToRanges] turns each group's ascending row positions into
//     maximal runs, e.g. rows 2,3,4,7,8,10 become 2-4, 7-8 and 10-10.
//
// # Row numbering
//
// Positions are sheet row numbers, not dataset indexes. Row 1 holds the
// header and sheet rows are 1-based, so the first record lands on row 2.
// The offset is applied once, by the assigner ([DefaultOffset], override
// with [WithOffset]); the compressor takes positions as given.
//
// # Color allocation
//
// Colors are sampled at random from the palette and re-drawn on collision.
// Sampling is capped ([DefaultMaxAttempts]); past the cap the allocator
// walks the palette from a random start for the first free color, and only
// a full palette yields [ErrColorExhaustion]. A run never loops forever.
package highlight
