package gpc

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	gpcimage "github.com/bodgit/gpc/image"
	_ "golang.org/x/image/bmp" // register decoder
)

// Extension is the file extension used for GPC files.
const Extension = ".gpc"

// ErrWrongDirection is returned when asked to convert a GPC file.
var ErrWrongDirection = errors.New("gpc: this tool converts images to GPC, not GPC to images")

// Convert decodes the image read from r and returns it as a GPC file.
func (c *Converter) Convert(r io.Reader) ([]byte, error) {
	h := sha1.New()
	m, format, err := image.Decode(io.TeeReader(r, h))
	if err != nil {
		return nil, err
	}
	c.logger.Printf("Read as %s %dx%d\n", format, m.Bounds().Dx(), m.Bounds().Dy())

	key := AssetKey{
		SHA1:     fmt.Sprintf("%X", h.Sum(nil)),
		X:        c.options.X,
		Y:        c.options.Y,
		Quantize: c.options.Quantize,
	}

	if c.db != nil {
		b, vertical, err := c.db.Find(key)
		if err != nil {
			return nil, err
		}
		if b != nil {
			c.logger.Printf("Using cached conversion for %s, vertical interlacing %d, %d bytes + header\n", key.SHA1, vertical, len(b)-gpcimage.HeaderSize)
			return b, nil
		}
	}

	b := new(bytes.Buffer)
	if err := gpcimage.Encode(b, m, &c.options); err != nil {
		return nil, err
	}

	var header gpcimage.Header
	if err := header.UnmarshalBinary(b.Bytes()); err != nil {
		return nil, err
	}
	c.logger.Printf("Using vertical interlacing %d, compressed to %d bytes + header\n", header.VerticalStep, b.Len()-gpcimage.HeaderSize)

	if c.db != nil {
		if err := c.db.Add(key, header.VerticalStep, b.Bytes()); err != nil {
			return nil, err
		}
	}

	return b.Bytes(), nil
}

// ConvertFile converts file and writes the result alongside it with the
// extension replaced. It returns the name of the file written.
func (c *Converter) ConvertFile(file string) (string, error) {
	ext := filepath.Ext(file)
	if strings.EqualFold(ext, Extension) {
		return "", ErrWrongDirection
	}

	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	b, err := c.Convert(f)
	if err != nil {
		return "", err
	}

	out := strings.TrimSuffix(file, ext) + Extension
	c.logger.Printf("Writing into %s\n", out)
	if err := ioutil.WriteFile(out, b, 0666); err != nil {
		return "", err
	}

	return out, nil
}
