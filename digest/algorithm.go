package digest

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"

	"github.com/byte4ever/pain/pixel"
)

// ErrUnknownAlgorithm reports an algorithm name with no registered
// implementation.
var ErrUnknownAlgorithm = errors.New("unknown digest algorithm")

// Algorithm maps a pixel to its digest. Implementations are pure and
// safe for concurrent use.
type Algorithm interface {
	// Name is the identifier used in configuration.
	Name() string

	// Size is the digest length in bytes.
	Size() int

	// Sum returns the digest of p.
	Sum(p pixel.Value) Digest
}

// Pattern: Strategy -- the pipeline only ever sees Algorithm.

var (
	// SHA3512 hashes with SHA3-512.
	SHA3512 Algorithm = sha3Algorithm{}

	// BLAKE3 hashes with 256-bit BLAKE3.
	BLAKE3 Algorithm = blake3Algorithm{}

	// SHA256 hashes with SHA-256.
	SHA256 Algorithm = sha256Algorithm{}

	// Default is the algorithm used when none is configured.
	Default = SHA3512
)

var registry = map[string]Algorithm{
	SHA3512.Name(): SHA3512,
	BLAKE3.Name():  BLAKE3,
	SHA256.Name():  SHA256,
}

// Lookup resolves an algorithm by name. The empty name selects
// Default.
func Lookup(name string) (Algorithm, error) {
	if name == "" {
		return Default, nil
	}

	alg, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}

	return alg, nil
}

// Names lists the registered algorithm names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Of returns the digest of p under the default algorithm.
func Of(p pixel.Value) Digest {
	return Default.Sum(p)
}

// text renders p as "0xRRGGBBAA", the exact bytes every algorithm
// hashes.
func text(p pixel.Value) [10]byte {
	return [10]byte{
		'0', 'x',
		hexDigits[p.R>>4], hexDigits[p.R&0x0f],
		hexDigits[p.G>>4], hexDigits[p.G&0x0f],
		hexDigits[p.B>>4], hexDigits[p.B&0x0f],
		hexDigits[p.A>>4], hexDigits[p.A&0x0f],
	}
}

type sha3Algorithm struct{}

func (sha3Algorithm) Name() string { return "sha3-512" }

func (sha3Algorithm) Size() int { return 64 }

func (sha3Algorithm) Sum(p pixel.Value) Digest {
	buf := text(p)
	sum := sha3.Sum512(buf[:])

	d := Digest{n: uint8(len(sum))}
	copy(d.b[:], sum[:])

	return d
}

type blake3Algorithm struct{}

func (blake3Algorithm) Name() string { return "blake3" }

func (blake3Algorithm) Size() int { return 32 }

func (blake3Algorithm) Sum(p pixel.Value) Digest {
	buf := text(p)
	sum := blake3.Sum256(buf[:])

	d := Digest{n: uint8(len(sum))}
	copy(d.b[:], sum[:])

	return d
}

type sha256Algorithm struct{}

func (sha256Algorithm) Name() string { return "sha256" }

func (sha256Algorithm) Size() int { return sha256.Size }

func (sha256Algorithm) Sum(p pixel.Value) Digest {
	buf := text(p)
	sum := sha256.Sum256(buf[:])

	d := Digest{n: uint8(len(sum))}
	copy(d.b[:], sum[:])

	return d
}
