package digest

import (
	"errors"
	"fmt"
)

// MaxSize is the largest digest, in bytes, any algorithm produces.
const MaxSize = 64

const hexDigits = "0123456789ABCDEF"

var (
	// ErrInvalidHex reports a digest field that is not fixed-width
	// uppercase hexadecimal.
	ErrInvalidHex = errors.New("invalid digest hex")

	// ErrTooLong reports raw bytes longer than MaxSize.
	ErrTooLong = errors.New("digest too long")
)

// Digest is a fixed-length fingerprint. The zero value is the empty
// digest. Digests are comparable and usable as map keys.
type Digest struct {
	n uint8
	b [MaxSize]byte
}

// New copies raw into a Digest.
func New(raw []byte) (Digest, error) {
	if len(raw) > MaxSize {
		return Digest{}, fmt.Errorf(
			"%w: %d bytes", ErrTooLong, len(raw),
		)
	}

	var d Digest

	d.n = uint8(len(raw))
	copy(d.b[:], raw)

	return d, nil
}

// Len returns the digest size in bytes.
func (d Digest) Len() int {
	return int(d.n)
}

// Bytes returns a copy of the raw digest.
func (d Digest) Bytes() []byte {
	out := make([]byte, d.n)
	copy(out, d.b[:d.n])

	return out
}

// AppendHex appends the uppercase hex rendering of d to dst.
func (d Digest) AppendHex(dst []byte) []byte {
	for _, c := range d.b[:d.n] {
		dst = append(dst, hexDigits[c>>4], hexDigits[c&0x0f])
	}

	return dst
}

// String returns the uppercase hex rendering of d.
func (d Digest) String() string {
	return string(d.AppendHex(make([]byte, 0, 2*int(d.n))))
}

// ParseHex decodes a field of exactly 2*size uppercase hex characters.
func ParseHex(field string, size int) (Digest, error) {
	if size <= 0 || size > MaxSize {
		return Digest{}, fmt.Errorf(
			"%w: unsupported size %d", ErrInvalidHex, size,
		)
	}

	if len(field) != 2*size {
		return Digest{}, fmt.Errorf(
			"%w: want %d characters, got %d",
			ErrInvalidHex, 2*size, len(field),
		)
	}

	var d Digest

	d.n = uint8(size)

	for i := 0; i < size; i++ {
		hi, ok := fromHexChar(field[2*i])
		if !ok {
			return Digest{}, fmt.Errorf(
				"%w: bad character %q at %d",
				ErrInvalidHex, field[2*i], 2*i,
			)
		}

		lo, ok := fromHexChar(field[2*i+1])
		if !ok {
			return Digest{}, fmt.Errorf(
				"%w: bad character %q at %d",
				ErrInvalidHex, field[2*i+1], 2*i+1,
			)
		}

		d.b[i] = hi<<4 | lo
	}

	return d, nil
}

// fromHexChar decodes one uppercase hex digit.
func fromHexChar(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
