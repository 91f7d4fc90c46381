package canvas

import (
	"errors"
	"fmt"
	"image"

	"github.com/byte4ever/pain/pixel"
	"github.com/byte4ever/pain/search"
)

var (
	// ErrOutOfRange reports an index outside the canvas or region.
	ErrOutOfRange = errors.New("pixel index out of range")

	// ErrDuplicate reports a second write to the same index.
	ErrDuplicate = errors.New("pixel index written twice")

	// ErrIncomplete reports a canvas with unwritten pixels.
	ErrIncomplete = errors.New("canvas incomplete")
)

// Canvas is a width×height grid filled by linear index.
type Canvas struct {
	width  int
	height int
	pix    []pixel.Value
	set    []bool
}

// New allocates an empty canvas.
func New(width, height int) (*Canvas, error) {
	const errCtx = "allocating canvas"

	if width < 0 || height < 0 {
		return nil, fmt.Errorf(
			"%s: %w: %dx%d", errCtx, ErrOutOfRange, width, height,
		)
	}

	n := width * height

	return &Canvas{
		width:  width,
		height: height,
		pix:    make([]pixel.Value, n),
		set:    make([]bool, n),
	}, nil
}

// Width returns the canvas width.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height.
func (c *Canvas) Height() int { return c.height }

// Region returns the window [base, base+n) of the arena.
func (c *Canvas) Region(base, n int) (*Region, error) {
	const errCtx = "reserving region"

	if base < 0 || n < 0 || base+n > len(c.pix) {
		return nil, fmt.Errorf(
			"%s: %w: [%d, %d) of %d",
			errCtx, ErrOutOfRange, base, base+n, len(c.pix),
		)
	}

	end := base + n

	return &Region{
		base: base,
		pix:  c.pix[base:end:end],
		set:  c.set[base:end:end],
	}, nil
}

// Put writes one recovered pixel straight into the canvas.
func (c *Canvas) Put(r search.Recovered) error {
	return put(c.pix, c.set, 0, r)
}

// Missing counts the pixels never written.
func (c *Canvas) Missing() int {
	missing := 0

	for _, ok := range c.set {
		if !ok {
			missing++
		}
	}

	return missing
}

// At returns the pixel at (x, y).
func (c *Canvas) At(x, y int) pixel.Value {
	return c.pix[y*c.width+x]
}

// Values returns a copy of the canvas in row-major order.
func (c *Canvas) Values() []pixel.Value {
	out := make([]pixel.Value, len(c.pix))
	copy(out, c.pix)

	return out
}

// Image converts the canvas into a standard library image.
func (c *Canvas) Image() (*image.NRGBA, error) {
	const errCtx = "rendering canvas"

	img, err := pixel.ToImage(c.width, c.height, c.pix)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return img, nil
}

// Region is a window of a canvas owned by a single writer.
type Region struct {
	base int
	pix  []pixel.Value
	set  []bool
}

// Put writes r, whose index is absolute, into the region.
func (rg *Region) Put(r search.Recovered) error {
	return put(rg.pix, rg.set, rg.base, r)
}

// put writes r into a window starting at absolute index base.
func put(
	pix []pixel.Value,
	set []bool,
	base int,
	r search.Recovered,
) error {
	i := r.Index - base
	if i < 0 || i >= len(pix) {
		return fmt.Errorf(
			"%w: %d not in [%d, %d)",
			ErrOutOfRange, r.Index, base, base+len(pix),
		)
	}

	if set[i] {
		return fmt.Errorf("%w: %d", ErrDuplicate, r.Index)
	}

	pix[i] = r.Value
	set[i] = true

	return nil
}

// Assemble builds a complete canvas from recovered pixels. Every index
// in [0, width*height) must appear exactly once.
func Assemble(
	width int,
	height int,
	recovered []search.Recovered,
) (*Canvas, error) {
	const errCtx = "assembling canvas"

	c, err := New(width, height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	for _, r := range recovered {
		if err := c.Put(r); err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	if missing := c.Missing(); missing > 0 {
		return nil, fmt.Errorf(
			"%s: %w: %d pixels missing", errCtx, ErrIncomplete, missing,
		)
	}

	return c, nil
}
