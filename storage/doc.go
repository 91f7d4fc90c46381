// Package storage persists encoded streams. Stream text may be written as
// is or wrapped in a zstd or LZ4 frame; ReadFile recognizes the frame magic
// and unwraps it transparently. A companion .digest file holding the
// SHA-256 of the stored bytes can be written next to a stream and is
// verified on read when present.
package storage
