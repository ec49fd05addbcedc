/*
Package image implements a GPC encoder.

GPC is the planar, interlaced, run-length compressed image format used by the
Fairytale/Cocktail Soft PC-98 engine. Images are at most 640 by 400 pixels
with a single 16 color palette of 4-bit RGB values.

The encoder splits each scanline into four bitplanes placed side by side,
reorders the scanlines with a fixed interlace step and XORs each one with the
line before it. Each line is then given its own horizontal interlace step and
XOR filter, recorded in a marker byte at the start of the line. Finally the
buffer is packed with two levels of flag bytes so that runs of zero bytes cost
nothing:

	flag A   one bit per 8 bytes, set if any of them is non-zero
	flag B   one bit per byte, set if the byte is non-zero, then the literals

Only non-zero flag B bytes are stored. Every combination of interlace steps
is tried and the smallest result is kept.
*/
package image

const (
	signature        = "PC98)GPCFILE   "
	paletteOffset    = 0x30
	imageOffset      = 0x54
	colorsPerPalette = 16
	bytesPerColor    = 2
	planes           = 4
	maxWidth         = 640
	maxHeight        = 400

	// Pixels added to pad the width to a multiple of 8 use this index. It
	// has no bits in the low nibble so the padding is zero in every plane.
	transparentIndex = 16

	maxHorizontalStep = 0x50
)

// HeaderSize is the length of the header in front of the payload.
const HeaderSize = 0x64

// verticalSteps are tried in this order, the first of equally sized results
// is kept.
var verticalSteps = []int{2, 1, 4}
