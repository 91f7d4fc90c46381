package pixel

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	// Registers the WebP decoder with image.Decode.
	_ "golang.org/x/image/webp"
)

// Load decodes an image from r. Failures wrap ErrImageLoad.
func Load(r io.Reader) (image.Image, error) {
	const errCtx = "loading image"

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", errCtx, ErrImageLoad, err)
	}

	return img, nil
}

// Open reads the image at path and returns its dimensions and
// row-major pixels. Failures wrap ErrImageLoad.
func Open(path string) (int, int, []Value, error) {
	const errCtx = "opening image"

	img, err := OpenImage(path)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	w, h, values := FromImage(img)

	return w, h, values, nil
}

// OpenImage reads and decodes the image at path.
func OpenImage(path string) (image.Image, error) {
	const errCtx = "opening image"

	fi, err := os.Open(path) //nolint:gosec // path is caller-provided by design
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %w: %w", errCtx, ErrImageLoad, err,
		)
	}

	defer fi.Close() //nolint:errcheck // read-only file

	img, err := Load(fi)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	return img, nil
}

// Encode writes img to w in the format named by ext (".png", ".jpg",
// ".jpeg", ".gif", ".bmp", ".tif", ".tiff"). Any other extension
// produces PNG. Failures wrap ErrImageSave.
func Encode(w io.Writer, img image.Image, ext string) error {
	const errCtx = "encoding image"

	var err error

	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case ".gif":
		err = gif.Encode(w, img, nil)
	case ".bmp":
		err = bmp.Encode(w, img)
	case ".tif", ".tiff":
		err = tiff.Encode(w, img, &tiff.Options{
			Compression: tiff.Deflate,
		})
	default:
		err = png.Encode(w, img)
	}

	if err != nil {
		return fmt.Errorf("%s: %w: %w", errCtx, ErrImageSave, err)
	}

	return nil
}

// Save writes img to path, picking the format from the extension.
func Save(path string, img image.Image) (retErr error) {
	const errCtx = "saving image"

	fo, err := os.Create(path) //nolint:gosec // path is caller-provided by design
	if err != nil {
		return fmt.Errorf("%s: %w: %w", errCtx, ErrImageSave, err)
	}

	defer func() {
		if closeErr := fo.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf(
				"%s: %w: %w", errCtx, ErrImageSave, closeErr,
			)
		}
	}()

	if err := Encode(fo, img, filepath.Ext(path)); err != nil {
		return fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	return nil
}
