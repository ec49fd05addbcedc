package image

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"
	"runtime"

	"github.com/ericpauley/go-quantize/quantize"
)

var (
	// ErrNotPaletted is returned for images without a palette when
	// quantizing is not enabled.
	ErrNotPaletted = errors.New("gpc: image must have a palette")
	// ErrTooWide is returned for images wider than 640 pixels.
	ErrTooWide = errors.New("gpc: image width should be no larger than 640 pixels")
	// ErrTooTall is returned for images taller than 400 pixels.
	ErrTooTall = errors.New("gpc: image height should be no larger than 400 pixels")
	// ErrEmpty is returned for images with no pixels.
	ErrEmpty = errors.New("gpc: image is empty")
)

// Options are the encoding parameters.
type Options struct {
	// X and Y are the in-game placement stored in the header
	X, Y int
	// Quantize reduces images without a palette to 16 colors rather than
	// rejecting them
	Quantize bool
	// Workers bounds the goroutines used for the horizontal search, zero
	// means runtime.GOMAXPROCS(0)
	Workers int
}

func (o *Options) workers() int {
	if o == nil || o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

func paletted(m image.Image, o *Options) (*image.Paletted, error) {
	b := m.Bounds()

	pm, _ := m.(*image.Paletted)
	if pm == nil {
		if cp, ok := m.ColorModel().(color.Palette); ok {
			pm = image.NewPaletted(b, cp)
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					pm.Set(x, y, cp.Convert(m.At(x, y)))
				}
			}
		}
	}

	if pm == nil {
		if o == nil || !o.Quantize {
			return nil, ErrNotPaletted
		}
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colorsPerPalette), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	return pm, nil
}

// pixels returns the color indices of m in scanline order with each line
// padded to a multiple of 8 pixels, and the padded width.
func pixels(m *image.Paletted) ([]byte, int) {
	b := m.Bounds()
	width := (b.Dx() + 7) &^ 7

	pix := make([]byte, width*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		line := pix[y*width : (y+1)*width]
		copy(line, m.Pix[m.PixOffset(b.Min.X, b.Min.Y+y):m.PixOffset(b.Max.X, b.Min.Y+y)])
		for x := b.Dx(); x < width; x++ {
			line[x] = transparentIndex
		}
	}
	return pix, width
}

// Encode writes the Image m to w in GPC format. Nothing is written if the
// image cannot be encoded.
func Encode(w io.Writer, m image.Image, o *Options) error {
	pm, err := paletted(m, o)
	if err != nil {
		return err
	}

	b := pm.Bounds()
	switch {
	case b.Empty():
		return ErrEmpty
	case b.Dx() > maxWidth:
		return ErrTooWide
	case b.Dy() > maxHeight:
		return ErrTooTall
	}

	pix, width := pixels(pm)
	payload, step := Compress(splitPlanes(pix, width, b.Dy()), width, b.Dy(), o.workers())

	h := Header{
		VerticalStep: step,
		Palette:      pm.Palette,
		Width:        b.Dx(),
		Height:       b.Dy(),
		Length:       len(payload),
	}
	if o != nil {
		h.X, h.Y = o.X, o.Y
	}

	hb, err := h.MarshalBinary()
	if err != nil {
		return err
	}

	if _, err := w.Write(hb); err != nil {
		return err
	}
	_, err = w.Write(payload)

	return err
}
