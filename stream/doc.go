// Package stream serializes encoded images. The text form is
//
//	<width>:<height>;<digest_0>;<digest_1>;...;<digest_{N-1}>
//
// with N = width*height and each digest written as fixed-width uppercase
// hexadecimal. Digest i belongs to pixel (i % width, i / width). Parse
// validates every field and reports failures as ErrMalformedStream instead
// of truncating or panicking.
package stream
