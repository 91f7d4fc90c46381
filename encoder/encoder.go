package encoder

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/byte4ever/pain/digest"
	"github.com/byte4ever/pain/pixel"
	"github.com/byte4ever/pain/progress"
	"github.com/byte4ever/pain/storage"
	"github.com/byte4ever/pain/stream"
)

// reportEvery is how many pixels a stripe digests between progress
// updates and cancellation checks.
const reportEvery = 1024

// Config holds the settings of an Encoder.
type Config struct {
	// Algorithm digests each pixel. Nil selects digest.Default.
	Algorithm digest.Algorithm

	// Workers bounds the number of concurrent stripes. Zero or less
	// selects runtime.NumCPU().
	Workers int

	// Compression frames the persisted stream.
	Compression storage.Compression

	// Checksum writes a .digest sidecar next to the stream.
	Checksum bool

	// Tracker receives an "encode" task. Nil disables progress.
	Tracker *progress.Tracker

	// Logger records pipeline transitions. Nil selects slog.Default().
	Logger *slog.Logger
}

// Encoder digests images into streams.
type Encoder struct {
	cfg Config
}

// New returns an encoder with defaults applied to cfg.
func New(cfg Config) *Encoder {
	if cfg.Algorithm == nil {
		cfg.Algorithm = digest.Default
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Encoder{cfg: cfg}
}

// Algorithm returns the digest algorithm in use.
func (e *Encoder) Algorithm() digest.Algorithm {
	return e.cfg.Algorithm
}

// Workers returns the effective worker bound.
func (e *Encoder) Workers() int {
	return e.cfg.Workers
}

// Encode digests a row-major pixel sequence of a width×height image.
func (e *Encoder) Encode(
	ctx context.Context,
	width int,
	height int,
	values []pixel.Value,
) (*stream.Stream, error) {
	const errCtx = "encoding pixels"

	if width < 0 || height < 0 || len(values) != width*height {
		return nil, fmt.Errorf(
			"%s: %w: %dx%d with %d pixels",
			errCtx, pixel.ErrSize, width, height, len(values),
		)
	}

	n := len(values)
	digests := make([]digest.Digest, n)
	task := e.cfg.Tracker.NewTask("encode", int64(n))

	defer task.Finish()

	e.cfg.Logger.Debug(
		"digesting",
		"pixels", n,
		"algorithm", e.cfg.Algorithm.Name(),
		"workers", e.cfg.Workers,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	stripe := max((n+e.cfg.Workers-1)/e.cfg.Workers, 1)

	for lo := 0; lo < n; lo += stripe {
		hi := min(lo+stripe, n)

		g.Go(func() error {
			return e.digestStripe(gctx, values[lo:hi], digests[lo:hi], task)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	s, err := stream.New(width, height, digests)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return s, nil
}

// digestStripe fills dst[i] with the digest of src[i].
func (e *Encoder) digestStripe(
	ctx context.Context,
	src []pixel.Value,
	dst []digest.Digest,
	task *progress.Task,
) error {
	alg := e.cfg.Algorithm

	for i, v := range src {
		dst[i] = alg.Sum(v)

		if (i+1)%reportEvery == 0 {
			task.Add(reportEvery)

			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}

	task.Add(int64(len(src) % reportEvery))

	return nil
}

// EncodeImage digests a decoded image.
func (e *Encoder) EncodeImage(
	ctx context.Context,
	img image.Image,
) (*stream.Stream, error) {
	w, h, values := pixel.FromImage(img)

	return e.Encode(ctx, w, h, values)
}

// EncodeFile runs the whole pipeline: load the image at in, digest it,
// serialize the stream and persist it at out.
func (e *Encoder) EncodeFile(
	ctx context.Context,
	in string,
	out string,
) (*stream.Stream, error) {
	const errCtx = "encoding file"

	logger := e.cfg.Logger.With("input", in, "output", out)

	w, h, values, err := pixel.Open(in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	logger.Info("loaded", "width", w, "height", h)

	s, err := e.Encode(ctx, w, h, values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	data := stream.Marshal(s)

	logger.Info("serialized", "bytes", len(data))

	if err := storage.WriteFile(
		out, data, e.cfg.Compression,
	); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	// A sidecar left by an earlier run would no longer match.
	syncChecksum := storage.RemoveChecksum
	if e.cfg.Checksum {
		syncChecksum = storage.SaveChecksum
	}

	if err := syncChecksum(out); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	logger.Info(
		"persisted",
		"compression", e.cfg.Compression.String(),
		"checksum", e.cfg.Checksum,
	)

	return s, nil
}
