// Package transform is the chunked column-transform engine for
// measurement-set tables.
//
// An MS wraps a table handle and exposes one method per transform:
// PolSwap, CopyPol, Scale1Bit, InvertSubband and FlagWeights. Each
// invocation is a single linear traversal over the table in bounded-memory
// row chunks: bookkeeping columns (ANTENNA1, ANTENNA2, TIME) are read
// first, the row selector narrows the chunk, and only then are the data
// columns read, mutated in memory, and written back. Peak memory is
// chunk_size times the bytes per row of the touched columns, independent
// of the table size.
//
// Traversals are strictly sequential and fail fast: a shape violation or a
// failed antenna lookup aborts the invocation, and chunks already written
// stay written. Cancellation via the context is honored at chunk
// boundaries only; a chunk that has started mutating always reaches its
// write-back.
//
// Transforms report nothing to the terminal themselves. Pre-flight column
// summaries and completion lines go through an injected Logger, and
// chunk-boundary progress through an optional Progress callback.
package transform
