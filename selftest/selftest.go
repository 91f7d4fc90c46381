package selftest

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/byte4ever/pain/decoder"
	"github.com/byte4ever/pain/encoder"
	"github.com/byte4ever/pain/pixel"
	"github.com/byte4ever/pain/storage"
)

// Size is the side of the square test image.
const Size = 10

// Fill is the color of every test pixel.
var Fill = color.NRGBA{B: 255, A: 255}

// ErrMismatch reports a recovered image that differs from the
// original.
var ErrMismatch = errors.New("decrypted image differs from original")

// Paths names the three files a run produces.
type Paths struct {
	Image     string
	Encrypted string
	Decrypted string
}

// Result describes a successful run.
type Result struct {
	Stream []byte
	Stats  decoder.Stats
}

// Image returns the Size×Size test image.
func Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, Size, Size))

	for y := range Size {
		for x := range Size {
			img.SetNRGBA(x, y, Fill)
		}
	}

	return img
}

// Run saves the test image, encrypts it, prints the stream text to
// out, decrypts it and compares the result with the original.
func Run(
	ctx context.Context,
	paths Paths,
	enc *encoder.Encoder,
	dec *decoder.Decoder,
	out io.Writer,
) (Result, error) {
	const errCtx = "running self-test"

	if err := pixel.Save(paths.Image, Image()); err != nil {
		return Result{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	if _, err := enc.EncodeFile(ctx, paths.Image, paths.Encrypted); err != nil {
		return Result{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	fmt.Fprintf(out, "Image encrypted to %s\n", paths.Encrypted)

	text, err := storage.ReadFile(paths.Encrypted)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	fmt.Fprintf(out, "Encrypted content: %s\n", text)

	stats, err := dec.DecodeFile(ctx, paths.Encrypted, paths.Decrypted)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	fmt.Fprintf(out, "Image decrypted to %s\n", paths.Decrypted)

	if err := compare(paths.Image, paths.Decrypted); err != nil {
		return Result{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return Result{Stream: text, Stats: stats}, nil
}

// compare fails when the two image files differ in size or in any pixel.
func compare(wantPath, gotPath string) error {
	ww, wh, want, err := pixel.Open(wantPath)
	if err != nil {
		return err
	}

	gw, gh, got, err := pixel.Open(gotPath)
	if err != nil {
		return err
	}

	if ww != gw || wh != gh {
		return fmt.Errorf(
			"%w: size %dx%d, want %dx%d", ErrMismatch, gw, gh, ww, wh,
		)
	}

	for i := range want {
		if want[i] != got[i] {
			return fmt.Errorf(
				"%w: pixel %d is %s, want %s",
				ErrMismatch, i, got[i], want[i],
			)
		}
	}

	return nil
}
