package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how stream bytes are framed on disk.
type Compression uint8

const (
	// CompressionNone stores the stream text unchanged.
	CompressionNone Compression = 0

	// CompressionZstd wraps the text in a zstd frame. Digest hex
	// compresses to roughly half its size.
	CompressionZstd Compression = 1

	// CompressionLZ4 wraps the text in an LZ4 frame.
	CompressionLZ4 Compression = 2
)

// ErrUnknownCompression reports an unrecognized compression name.
var ErrUnknownCompression = errors.New("unknown compression")

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// String returns the configuration name of c.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a configuration name. The empty name means
// CompressionNone.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
	}
}

// zstd.Encoder and zstd.Decoder are safe for concurrent EncodeAll and
// DecodeAll calls, so one of each serves the whole process.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

// init builds the shared zstd codec pair.
func init() {
	var err error

	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("storage: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("storage: zstd decoder initialization failed: " + err.Error())
	}
}

// Compress frames data with c.
func Compress(data []byte, c Compression) ([]byte, error) {
	const errCtx = "compressing"

	switch c {
	case CompressionNone:
		return data, nil

	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, nil), nil

	case CompressionLZ4:
		var buf bytes.Buffer

		zw := lz4.NewWriter(&buf)

		if _, err := zw.Write(data); err != nil {
			return nil, fmt.Errorf("%s: lz4: %w", errCtx, err)
		}

		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("%s: lz4: %w", errCtx, err)
		}

		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("%s: %w: %s", errCtx, ErrUnknownCompression, c)
	}
}

// Detect reports the framing of data from its leading magic bytes.
func Detect(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(data, lz4Magic):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// Decompress removes any zstd or LZ4 frame from data.
func Decompress(data []byte) ([]byte, Compression, error) {
	const errCtx = "decompressing"

	c := Detect(data)

	switch c {
	case CompressionZstd:
		plain, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, c, fmt.Errorf("%s: zstd: %w", errCtx, err)
		}

		return plain, c, nil

	case CompressionLZ4:
		plain, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, c, fmt.Errorf("%s: lz4: %w", errCtx, err)
		}

		return plain, c, nil

	default:
		return data, c, nil
	}
}
