package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/byte4ever/pain/config"
	"github.com/byte4ever/pain/decoder"
	"github.com/byte4ever/pain/digest"
	"github.com/byte4ever/pain/encoder"
	"github.com/byte4ever/pain/logging"
	"github.com/byte4ever/pain/progress"
	"github.com/byte4ever/pain/report"
	"github.com/byte4ever/pain/selftest"
	"github.com/byte4ever/pain/storage"
)

// Actions performs the work behind the menu entries and subcommands.
//
// Pattern: Strategy -- the command layer only handles input and
// messages, so tests can swap the pipeline out.
type Actions interface {
	// Encrypt digests the image at input and returns the stream path.
	Encrypt(ctx context.Context, cfg config.Config, input string) (string, error)

	// Decrypt recovers the image behind the stream at input and returns
	// the image path.
	Decrypt(ctx context.Context, cfg config.Config, input string) (string, error)

	// SelfTest runs the round trip on the built-in test image.
	SelfTest(ctx context.Context, cfg config.Config) error
}

// Runner is the production Actions. Status text goes to Out; logs and
// progress go to Err.
type Runner struct {
	Out io.Writer
	Err io.Writer
}

var _ Actions = (*Runner)(nil)

// session holds what one action needs, resolved from cfg.
type session struct {
	logger      *slog.Logger
	alg         digest.Algorithm
	compression storage.Compression
	tracker     *progress.Tracker
	renderer    *progress.Renderer
}

// session resolves cfg into the pieces one action needs.
func (r *Runner) session(cfg config.Config) (*session, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	alg, err := cfg.DigestAlgorithm()
	if err != nil {
		return nil, err
	}

	compression, err := cfg.CompressionValue()
	if err != nil {
		return nil, err
	}

	mode, err := cfg.ProgressMode()
	if err != nil {
		return nil, err
	}

	logger := logging.New(r.Err, level)
	tracker := progress.NewTracker()

	return &session{
		logger:      logger,
		alg:         alg,
		compression: compression,
		tracker:     tracker,
		renderer:    progress.NewRenderer(r.Err, tracker, mode, logger),
	}, nil
}

// encoder builds an Encoder reporting to the session tracker.
func (s *session) encoder(cfg config.Config) *encoder.Encoder {
	return encoder.New(encoder.Config{
		Algorithm:   s.alg,
		Workers:     cfg.Workers,
		Compression: s.compression,
		Checksum:    cfg.Checksum,
		Tracker:     s.tracker,
		Logger:      s.logger,
	})
}

// decoder builds a Decoder reporting to the session tracker.
func (s *session) decoder(cfg config.Config) *decoder.Decoder {
	return decoder.New(decoder.Config{
		Algorithm: s.alg,
		Workers:   cfg.Workers,
		Tracker:   s.tracker,
		Logger:    s.logger,
	})
}

// summary starts a run report.
func (s *session) summary(command, input, output string) report.Summary {
	return report.Summary{
		Command:     command,
		Input:       input,
		Output:      output,
		Algorithm:   s.alg.Name(),
		Compression: s.compression.String(),
		StartedAt:   time.Now(),
	}
}

// Encrypt implements Actions.
func (r *Runner) Encrypt(
	ctx context.Context,
	cfg config.Config,
	input string,
) (string, error) {
	const errCtx = "encrypting"

	s, err := r.session(cfg)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	out := config.RenderPath(cfg.Output.Encrypted, input)
	enc := s.encoder(cfg)
	sum := s.summary("encrypt", input, out)
	sum.Workers = enc.Workers()

	stop := s.renderer.Start(ctx)
	st, err := enc.EncodeFile(ctx, input, out)

	stop()

	if st != nil {
		sum.Width, sum.Height, sum.Pixels = st.Width, st.Height, len(st.Digests)
	}

	sum.Finish(err)

	if err := r.report(cfg, input, sum, err); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return out, nil
}

// Decrypt implements Actions.
func (r *Runner) Decrypt(
	ctx context.Context,
	cfg config.Config,
	input string,
) (string, error) {
	const errCtx = "decrypting"

	s, err := r.session(cfg)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	out := config.RenderPath(cfg.Output.Decrypted, input)
	dec := s.decoder(cfg)
	sum := s.summary("decrypt", input, out)
	sum.Compression = ""
	sum.Workers = dec.Workers()

	stop := s.renderer.Start(ctx)
	stats, err := dec.DecodeFile(ctx, input, out)

	stop()

	fillStats(&sum, stats)
	sum.Finish(err)

	if err := r.report(cfg, input, sum, err); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return out, nil
}

// SelfTest implements Actions.
func (r *Runner) SelfTest(ctx context.Context, cfg config.Config) error {
	const errCtx = "self-testing"

	s, err := r.session(cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	image := cfg.Output.TestImage
	encrypted := config.RenderPath(cfg.Output.Encrypted, image)
	paths := selftest.Paths{
		Image:     image,
		Encrypted: encrypted,
		Decrypted: config.RenderPath(cfg.Output.Decrypted, encrypted),
	}

	dec := s.decoder(cfg)
	sum := s.summary("selftest", paths.Image, paths.Decrypted)
	sum.Workers = dec.Workers()

	stop := s.renderer.Start(ctx)
	res, err := selftest.Run(ctx, paths, s.encoder(cfg), dec, r.Out)

	stop()

	fillStats(&sum, res.Stats)
	sum.Finish(err)

	if err := r.report(cfg, image, sum, err); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// fillStats copies decode statistics into sum.
func fillStats(sum *report.Summary, stats decoder.Stats) {
	sum.Width = stats.Width
	sum.Height = stats.Height
	sum.Pixels = stats.Pixels
	sum.Chunks = stats.Chunks
	sum.Checked = stats.Checked
}

// report writes the run report when one is configured and returns
// runErr, or the report error when the run itself succeeded.
func (r *Runner) report(
	cfg config.Config,
	input string,
	sum report.Summary,
	runErr error,
) error {
	if cfg.Report == "" {
		return runErr
	}

	path := filepath.Clean(config.RenderPath(cfg.Report, input))

	if err := report.Write(path, sum); err != nil && runErr == nil {
		return err
	}

	return runErr
}
