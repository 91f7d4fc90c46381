// Package search inverts pixel digests by exhaustive enumeration.
//
// Partition splits a digest sequence into contiguous, order-preserving
// chunks so that each chunk can be searched by an independent task. A
// Searcher walks the whole 2^32 pixel space in rank order (red outermost,
// alpha innermost) for every digest of a chunk and reports the first value
// whose digest matches. When no value matches, the search fails with a
// PreimageNotFoundError rather than inventing a pixel.
package search
