package gpc

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"testing"

	gpcimage "github.com/bodgit/gpc/image"
	"github.com/stretchr/testify/require"
)

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "gpc")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func discard() *log.Logger {
	return log.New(ioutil.Discard, "", 0)
}

func testImage(w, h int) *image.Paletted {
	p := make(color.Palette, 16)
	for i := range p {
		p[i] = color.RGBA{byte(i << 4), byte(i << 3), byte(0xff - i<<4), 0xff}
	}
	m := image.NewPaletted(image.Rect(0, 0, w, h), p)
	for i := range m.Pix {
		m.Pix[i] = byte(i*5/3) & 0x0f
	}
	return m
}

func writePNG(t *testing.T, file string, m image.Image) {
	t.Helper()
	b := new(bytes.Buffer)
	require.NoError(t, png.Encode(b, m))
	require.NoError(t, ioutil.WriteFile(file, b.Bytes(), 0666))
}

func readHeader(t *testing.T, b []byte) gpcimage.Header {
	t.Helper()
	var h gpcimage.Header
	require.NoError(t, h.UnmarshalBinary(b))
	return h
}

func gradient(w, h int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.RGBA{byte(x * 13), byte(y * 29), byte(x ^ y), 0xff})
		}
	}
	return m
}
