package image

import (
	"errors"
	"image"

	"github.com/bodgit/gpc/interlace"
)

// The engine is the only GPC reader; this decoder exists to check the
// encoder by reversing every stage.

var errTruncated = errors.New("gpc: payload truncated")

// unpackFlags reverses packFlags, producing n bytes.
func unpackFlags(src []byte, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	r := 0

	next := func() (byte, error) {
		if r >= len(src) {
			return 0, errTruncated
		}
		r++
		return src[r-1], nil
	}

	for len(out) < n {
		flagA, err := next()
		if err != nil {
			return nil, err
		}
		for a := 7; a >= 0 && len(out) < n; a-- {
			if flagA>>uint(a)&1 == 0 {
				for i := 0; i < 8 && len(out) < n; i++ {
					out = append(out, 0)
				}
				continue
			}
			flagB, err := next()
			if err != nil {
				return nil, err
			}
			for k := 7; k >= 0 && len(out) < n; k-- {
				if flagB>>uint(k)&1 == 0 {
					out = append(out, 0)
					continue
				}
				b, err := next()
				if err != nil {
					return nil, err
				}
				out = append(out, b)
			}
		}
	}

	if r != len(src) {
		return nil, errors.New("gpc: trailing payload")
	}

	return out, nil
}

// unfilterRow reverses filterRow in place on a line, marker included.
func unfilterRow(line []byte) {
	step := int(line[0])
	if step == 0 {
		return
	}
	payload := line[1:]

	var last byte
	for _, i := range interlace.New(len(payload), step) {
		payload[i] ^= last
		last = payload[i]
	}
}

// unfilterVertical reverses verticalTransform, returning the planar buffer.
func unfilterVertical(work []byte, stride, height int, order interlace.Permutation) []byte {
	rowLen := stride + 1
	for y := 1; y < height; y++ {
		cur := work[y*rowLen+1 : (y+1)*rowLen]
		prev := work[(y-1)*rowLen+1 : y*rowLen]
		for i := range cur {
			cur[i] ^= prev[i]
		}
	}

	// Line y of the image sits at position slot[y] in the work buffer
	slot := order.Inverse()

	planar := make([]byte, stride*height)
	for y, pos := range slot {
		copy(planar[y*stride:(y+1)*stride], work[pos*rowLen+1:(pos+1)*rowLen])
	}
	return planar
}

// joinPlanes reverses splitPlanes.
func joinPlanes(planar []byte, width, height int) []byte {
	stride := width >> 1
	planeWidth := width >> 3

	pix := make([]byte, width*height)
	for y := 0; y < height; y++ {
		line := planar[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			var p byte
			for i := 0; i < planes; i++ {
				p |= line[i*planeWidth+x>>3] >> uint(7-x&7) & 1 << uint(i)
			}
			pix[y*width+x] = p
		}
	}
	return pix
}

// decompress reverses Compress.
func decompress(payload []byte, width, height, step int) ([]byte, error) {
	stride := width >> 1

	work, err := unpackFlags(payload, (stride+1)*height)
	if err != nil {
		return nil, err
	}

	for y := 0; y < height; y++ {
		unfilterRow(work[y*(stride+1) : (y+1)*(stride+1)])
	}

	return unfilterVertical(work, stride, height, interlace.New(height, step)), nil
}

// decode reverses Encode, returning the header and the image.
func decode(b []byte) (*Header, *image.Paletted, error) {
	h := new(Header)
	if err := h.UnmarshalBinary(b); err != nil {
		return nil, nil, err
	}

	width := (h.Width + 7) &^ 7
	planar, err := decompress(b[HeaderSize:], width, h.Height, h.VerticalStep)
	if err != nil {
		return nil, nil, err
	}
	pix := joinPlanes(planar, width, h.Height)

	m := image.NewPaletted(image.Rect(0, 0, h.Width, h.Height), h.Palette)
	for y := 0; y < h.Height; y++ {
		copy(m.Pix[y*m.Stride:], pix[y*width:y*width+h.Width])
	}

	return h, m, nil
}
