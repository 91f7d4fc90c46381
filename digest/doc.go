// Package digest computes the one-way fingerprint of a single pixel value.
// Every algorithm hashes the ASCII rendering "0xRRGGBBAA" of the pixel, so
// the default SHA3-512 algorithm yields the same digests as streams written
// by earlier releases. Digests are fixed-size comparable values rendered as
// uppercase hexadecimal on the wire.
package digest
