package decoder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/byte4ever/pain/canvas"
	"github.com/byte4ever/pain/digest"
	"github.com/byte4ever/pain/pixel"
	"github.com/byte4ever/pain/progress"
	"github.com/byte4ever/pain/search"
	"github.com/byte4ever/pain/storage"
	"github.com/byte4ever/pain/stream"
)

// ErrAlgorithmMismatch reports a stream whose digests do not have the
// size of the configured algorithm.
var ErrAlgorithmMismatch = errors.New("digest size does not match algorithm")

// ErrEmptyImage reports a stream with a zero dimension, which parses and
// decodes but cannot be saved as an image file.
var ErrEmptyImage = errors.New("image has no pixels")

// State names a step of the decode pipeline.
type State string

// Pipeline states, in order.
const (
	StateParsed      State = "parsed"
	StatePartitioned State = "partitioned"
	StateSearching   State = "searching"
	StateAssembled   State = "assembled"
	StatePersisted   State = "persisted"
)

// Config holds the settings of a Decoder.
type Config struct {
	// Algorithm must be the one the stream was encoded with. Nil
	// selects digest.Default.
	Algorithm digest.Algorithm

	// Workers is the number of chunks, and so of concurrent search
	// tasks. Zero or less selects runtime.NumCPU().
	Workers int

	// Space bounds the search to the first Space ranks. Zero searches
	// the full pixel space.
	Space uint64

	// Tracker receives one task per chunk. Nil disables progress.
	Tracker *progress.Tracker

	// Logger records pipeline transitions. Nil selects slog.Default().
	Logger *slog.Logger
}

// Stats summarizes a finished decode.
type Stats struct {
	Width   int
	Height  int
	Pixels  int
	Chunks  int
	Checked uint64
	Elapsed time.Duration
}

// Decoder recovers images from streams.
type Decoder struct {
	cfg      Config
	searcher *search.Searcher
}

// New returns a decoder with defaults applied to cfg.
func New(cfg Config) *Decoder {
	if cfg.Algorithm == nil {
		cfg.Algorithm = digest.Default
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Decoder{
		cfg:      cfg,
		searcher: search.NewBoundedSearcher(cfg.Algorithm, cfg.Space),
	}
}

// Workers returns the effective chunk count.
func (d *Decoder) Workers() int {
	return d.cfg.Workers
}

// Parse decodes stream text using the configured algorithm's digest
// size.
func (d *Decoder) Parse(data []byte) (*stream.Stream, error) {
	const errCtx = "parsing"

	s, err := stream.Parse(data, d.cfg.Algorithm.Size())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return s, nil
}

// Decode searches every digest of s and assembles the result.
func (d *Decoder) Decode(
	ctx context.Context,
	s *stream.Stream,
) (*canvas.Canvas, Stats, error) {
	const errCtx = "decoding stream"

	start := time.Now()
	stats := Stats{Width: s.Width, Height: s.Height, Pixels: len(s.Digests)}

	if err := d.check(s); err != nil {
		return nil, stats, fmt.Errorf("%s: %w", errCtx, err)
	}

	chunks, err := search.Partition(s.Digests, d.cfg.Workers)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", errCtx, err)
	}

	stats.Chunks = len(chunks)
	d.transition(StatePartitioned, "chunks", len(chunks))

	cv, err := canvas.New(s.Width, s.Height)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", errCtx, err)
	}

	tracker := d.cfg.Tracker
	if tracker == nil {
		tracker = progress.NewTracker()
	}

	regions := make([]*canvas.Region, len(chunks))
	tasks := make([]*progress.Task, len(chunks))

	for i, chunk := range chunks {
		regions[i], err = cv.Region(chunk.Base, chunk.Len())
		if err != nil {
			return nil, stats, fmt.Errorf("%s: %w", errCtx, err)
		}

		tasks[i] = tracker.NewTask(
			fmt.Sprintf("chunk %d", chunk.ID), int64(chunk.Len()),
		)
	}

	d.transition(StateSearching, "pixels", len(s.Digests))

	g, gctx := errgroup.WithContext(ctx)

	for i, chunk := range chunks {
		g.Go(func() error {
			return d.searcher.Search(gctx, chunk, tasks[i], regions[i].Put)
		})
	}

	err = g.Wait()

	for _, t := range tasks {
		stats.Checked += t.Snapshot().Checked
	}

	stats.Elapsed = time.Since(start)

	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", errCtx, err)
	}

	if missing := cv.Missing(); missing > 0 {
		return nil, stats, fmt.Errorf(
			"%s: %w: %d pixels missing",
			errCtx, canvas.ErrIncomplete, missing,
		)
	}

	d.transition(
		StateAssembled,
		"checked", stats.Checked,
		"elapsed", stats.Elapsed,
	)

	return cv, stats, nil
}

// DecodeFile runs the whole pipeline: read and parse the stream at in,
// recover every pixel and save the image at out. Streams with a zero
// dimension fail with ErrEmptyImage before any search.
func (d *Decoder) DecodeFile(
	ctx context.Context,
	in string,
	out string,
) (Stats, error) {
	const errCtx = "decoding file"

	data, err := storage.ReadFile(in)
	if err != nil {
		return Stats{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	s, err := d.Parse(data)
	if err != nil {
		return Stats{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	d.transition(StateParsed, "width", s.Width, "height", s.Height)

	if s.Width == 0 || s.Height == 0 {
		return Stats{Width: s.Width, Height: s.Height}, fmt.Errorf(
			"%s: %w: %dx%d", errCtx, ErrEmptyImage, s.Width, s.Height,
		)
	}

	cv, stats, err := d.Decode(ctx, s)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", errCtx, err)
	}

	img, err := cv.Image()
	if err != nil {
		return stats, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := pixel.Save(out, img); err != nil {
		return stats, fmt.Errorf("%s: %w", errCtx, err)
	}

	d.transition(StatePersisted, "output", out)

	return stats, nil
}

// check validates s and its digest width against the algorithm.
func (d *Decoder) check(s *stream.Stream) error {
	if err := s.Validate(); err != nil {
		return err
	}

	for i, dg := range s.Digests {
		if dg.Len() != d.cfg.Algorithm.Size() {
			return fmt.Errorf(
				"%w: digest %d has %d bytes, %s needs %d",
				ErrAlgorithmMismatch, i, dg.Len(),
				d.cfg.Algorithm.Name(), d.cfg.Algorithm.Size(),
			)
		}
	}

	return nil
}

// transition logs entry into state.
func (d *Decoder) transition(state State, args ...any) {
	d.cfg.Logger.Info(
		"decode state",
		append([]any{"state", string(state)}, args...)...,
	)
}
