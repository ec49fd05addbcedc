package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/color"
)

var (
	// ErrShortHeader is returned when there are fewer bytes than a header.
	ErrShortHeader = errors.New("gpc: header too short")
	// ErrBadSignature is returned when the signature does not match.
	ErrBadSignature = errors.New("gpc: invalid signature")
	// ErrBadLayout is returned when the block offsets or palette
	// dimensions are not the fixed values.
	ErrBadLayout = errors.New("gpc: unsupported header layout")
)

// fileHeader is the on-disk layout, little-endian.
type fileHeader struct {
	Signature     [16]byte
	VerticalStep  uint32
	PaletteOffset uint32
	ImageOffset   uint32
	_             [20]byte

	// paletteOffset
	PaletteColors uint16
	PaletteBytes  uint16
	Palette       [colorsPerPalette][bytesPerColor]byte

	// imageOffset
	Width  uint16
	Height uint16
	Length uint16
	_      uint16
	Planes uint16
	X      uint16
	Y      uint16
	_      uint16
}

// Header is the fixed 0x64 byte structure written in front of the
// compressed payload. It implements the encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler interfaces.
type Header struct {
	VerticalStep int
	Palette      color.Palette // Only the first 16 entries are used
	Width        int           // Before padding to a multiple of 8
	Height       int
	Length       int // Payload length, only the low 16 bits are stored
	X, Y         int // Placement
}

// packColor reduces c to 4 bits per channel, stored as RB and 0G nibbles.
func packColor(c color.Color) [bytesPerColor]byte {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return [bytesPerColor]byte{n.R&0xf0 | n.B>>4, n.G >> 4}
}

func unpackColor(b [bytesPerColor]byte) color.NRGBA {
	return color.NRGBA{
		R: b[0] >> 4 * 0x11,
		G: b[1] & 0x0f * 0x11,
		B: b[0] & 0x0f * 0x11,
		A: 0xff,
	}
}

// MarshalBinary encodes the header into binary form and returns the result
func (h *Header) MarshalBinary() ([]byte, error) {
	fh := fileHeader{
		VerticalStep:  uint32(h.VerticalStep),
		PaletteOffset: paletteOffset,
		ImageOffset:   imageOffset,
		PaletteColors: colorsPerPalette,
		PaletteBytes:  bytesPerColor,
		Width:         uint16(h.Width),
		Height:        uint16(h.Height),
		Length:        uint16(h.Length),
		Planes:        planes,
		X:             uint16(h.X),
		Y:             uint16(h.Y),
	}
	copy(fh.Signature[:], signature)

	// Missing colors stay zero, extra ones are dropped
	for i, c := range h.Palette {
		if i == colorsPerPalette {
			break
		}
		fh.Palette[i] = packColor(c)
	}

	b := new(bytes.Buffer)
	b.Grow(HeaderSize)
	if err := binary.Write(b, binary.LittleEndian, &fh); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the header from binary form. Any payload after
// the header is ignored.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return ErrShortHeader
	}

	var fh fileHeader
	if err := binary.Read(bytes.NewReader(b[:HeaderSize]), binary.LittleEndian, &fh); err != nil {
		return err
	}

	if !bytes.Equal(fh.Signature[:len(signature)], []byte(signature)) {
		return ErrBadSignature
	}

	if fh.PaletteOffset != paletteOffset || fh.ImageOffset != imageOffset || fh.PaletteColors != colorsPerPalette || fh.PaletteBytes != bytesPerColor {
		return ErrBadLayout
	}

	h.VerticalStep = int(fh.VerticalStep)
	h.Palette = make(color.Palette, colorsPerPalette)
	for i, p := range fh.Palette {
		h.Palette[i] = unpackColor(p)
	}
	h.Width = int(fh.Width)
	h.Height = int(fh.Height)
	h.Length = int(fh.Length)
	h.X = int(fh.X)
	h.Y = int(fh.Y)

	return nil
}
