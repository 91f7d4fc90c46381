package pixel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Space is the number of distinct pixel values.
const Space = uint64(1) << 32

var (
	// ErrImageLoad reports that an image file could not be read or
	// decoded.
	ErrImageLoad = errors.New("image load failed")

	// ErrImageSave reports that an image could not be encoded or
	// written.
	ErrImageSave = errors.New("image save failed")

	// ErrSize reports a pixel sequence whose length does not match the
	// requested dimensions.
	ErrSize = errors.New("pixel count does not match dimensions")
)

// Value is a non-premultiplied RGBA pixel.
type Value struct {
	R, G, B, A uint8
}

// FromRank returns the pixel with the given enumeration rank. Rank
// order is R outermost and A innermost, each ascending.
func FromRank(rank uint32) Value {
	return Value{
		R: uint8(rank >> 24),
		G: uint8(rank >> 16),
		B: uint8(rank >> 8),
		A: uint8(rank),
	}
}

// Rank is the inverse of FromRank.
func (v Value) Rank() uint32 {
	return uint32(v.R)<<24 |
		uint32(v.G)<<16 |
		uint32(v.B)<<8 |
		uint32(v.A)
}

// NRGBA converts v to a standard library color.
func (v Value) NRGBA() color.NRGBA {
	return color.NRGBA{R: v.R, G: v.G, B: v.B, A: v.A}
}

// String renders v the way it is fed to digest algorithms, e.g.
// "0x0000FFFF".
func (v Value) String() string {
	return fmt.Sprintf("0x%02X%02X%02X%02X", v.R, v.G, v.B, v.A)
}

// FromImage flattens img into row-major order (y outer, x inner). The
// returned sequence always starts at the image's top-left corner,
// whatever its bounds origin.
func FromImage(img image.Image) (int, int, []Value) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	values := make([]Value, 0, w*h)

	if src, ok := img.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := src.PixOffset(b.Min.X, y)
			row := src.Pix[off : off+w*4]

			for x := 0; x < w; x++ {
				px := row[x*4 : x*4+4 : x*4+4]
				values = append(values, Value{
					R: px[0], G: px[1], B: px[2], A: px[3],
				})
			}
		}

		return w, h, values
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			values = append(values, Value{
				R: c.R, G: c.G, B: c.B, A: c.A,
			})
		}
	}

	return w, h, values
}

// ToImage rebuilds a w×h image from a row-major sequence.
func ToImage(
	w int,
	h int,
	values []Value,
) (*image.NRGBA, error) {
	const errCtx = "building image"

	if w < 0 || h < 0 || len(values) != w*h {
		return nil, fmt.Errorf(
			"%s: %w: %dx%d needs %d, got %d",
			errCtx, ErrSize, w, h, w*h, len(values),
		)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	for i, v := range values {
		px := img.Pix[i*4 : i*4+4 : i*4+4]
		px[0], px[1], px[2], px[3] = v.R, v.G, v.B, v.A
	}

	return img, nil
}
