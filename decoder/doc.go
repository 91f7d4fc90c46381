// Package decoder recovers an image from a digest stream by brute force.
//
// The pipeline is Parsed -> Partitioned -> Searching -> Assembled ->
// Persisted. The stream is split into one chunk per worker and every chunk
// is searched by its own task, writing into its own region of the canvas.
// The first failing task aborts the others; a failed decode never yields a
// partial canvas.
//
// Each pixel may cost up to 2^32 digest computations. Repeated digests
// inside a chunk are searched once, but there is no global reverse table,
// so decoding large images with many distinct colors is impractical.
package decoder
