package stream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/byte4ever/pain/digest"
)

const (
	fieldSep = ';'
	dimSep   = ':'
)

// ErrMalformedStream reports persisted text that is not a valid stream.
var ErrMalformedStream = errors.New("malformed stream")

// Stream is an image encoded as its dimensions and one digest per
// pixel in row-major order.
type Stream struct {
	Width   int
	Height  int
	Digests []digest.Digest
}

// New builds a stream and checks that the digest count matches the
// dimensions.
func New(
	width int,
	height int,
	digests []digest.Digest,
) (*Stream, error) {
	const errCtx = "creating stream"

	s := &Stream{Width: width, Height: height, Digests: digests}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return s, nil
}

// Validate checks the stream invariants.
func (s *Stream) Validate() error {
	if s.Width < 0 || s.Height < 0 ||
		s.Width > math.MaxUint32 || s.Height > math.MaxUint32 {
		return fmt.Errorf(
			"%w: dimensions %dx%d out of range",
			ErrMalformedStream, s.Width, s.Height,
		)
	}

	if uint64(len(s.Digests)) != uint64(s.Width)*uint64(s.Height) {
		return fmt.Errorf(
			"%w: %dx%d needs %d digests, got %d",
			ErrMalformedStream, s.Width, s.Height,
			uint64(s.Width)*uint64(s.Height), len(s.Digests),
		)
	}

	return nil
}

// Coord returns the pixel coordinates of linear index i.
func (s *Stream) Coord(i int) (int, int) {
	return i % s.Width, i / s.Width
}

// Marshal renders s in wire format.
func Marshal(s *Stream) []byte {
	size := 0
	if len(s.Digests) > 0 {
		size = s.Digests[0].Len()
	}

	buf := make([]byte, 0, 24+len(s.Digests)*(2*size+1))
	buf = strconv.AppendUint(buf, uint64(s.Width), 10)
	buf = append(buf, dimSep)
	buf = strconv.AppendUint(buf, uint64(s.Height), 10)

	for _, d := range s.Digests {
		buf = append(buf, fieldSep)
		buf = d.AppendHex(buf)
	}

	return buf
}

// WriteTo writes s in wire format to w.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	const errCtx = "writing stream"

	n, err := w.Write(Marshal(s))
	if err != nil {
		return int64(n), fmt.Errorf("%s: %w", errCtx, err)
	}

	return int64(n), nil
}

// Parse decodes wire text whose digests are size bytes long. A single
// trailing "\n" or "\r\n" is ignored.
func Parse(data []byte, size int) (*Stream, error) {
	const errCtx = "parsing stream"

	if trimmed, ok := bytes.CutSuffix(data, []byte("\n")); ok {
		data = bytes.TrimSuffix(trimmed, []byte("\r"))
	}

	header, rest, hasDigests := bytes.Cut(data, []byte{fieldSep})

	width, height, err := parseDims(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var fields [][]byte
	if hasDigests {
		fields = bytes.Split(rest, []byte{fieldSep})
	}

	want := uint64(width) * uint64(height)
	if uint64(len(fields)) != want {
		return nil, fmt.Errorf(
			"%s: %w: %dx%d needs %d digests, got %d",
			errCtx, ErrMalformedStream,
			width, height, want, len(fields),
		)
	}

	digests := make([]digest.Digest, len(fields))

	for i, field := range fields {
		d, err := digest.ParseHex(string(field), size)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w: digest %d: %w",
				errCtx, ErrMalformedStream, i, err,
			)
		}

		digests[i] = d
	}

	return &Stream{
		Width:   int(width),
		Height:  int(height),
		Digests: digests,
	}, nil
}

// Read reads all of r and parses it.
func Read(r io.Reader, size int) (*Stream, error) {
	const errCtx = "reading stream"

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	s, err := Parse(data, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return s, nil
}

// parseDims splits and parses the "<width>:<height>" header.
func parseDims(header []byte) (uint32, uint32, error) {
	ws, hs, ok := bytes.Cut(header, []byte{dimSep})
	if !ok || bytes.IndexByte(hs, dimSep) >= 0 {
		return 0, 0, fmt.Errorf(
			"%w: dimensions %q are not <width>:<height>",
			ErrMalformedStream, header,
		)
	}

	width, err := parseDim(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: width: %w", ErrMalformedStream, err)
	}

	height, err := parseDim(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: height: %w", ErrMalformedStream, err)
	}

	return width, height, nil
}

// parseDim parses one unsigned 32-bit decimal dimension.
func parseDim(field []byte) (uint32, error) {
	v, err := strconv.ParseUint(string(field), 10, 32)
	if err != nil {
		return 0, err
	}

	return uint32(v), nil
}
