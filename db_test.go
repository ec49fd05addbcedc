package gpc

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"image/png"
	"path/filepath"
	"testing"

	gpcimage "github.com/bodgit/gpc/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetDB(t *testing.T) {
	db, err := NewAssetDB(filepath.Join(tempDir(t), "gpc.db"))
	require.NoError(t, err)
	defer db.Close()

	key := AssetKey{SHA1: "DA39A3EE5E6B4B0D3255BFEF95601890AFD80709", X: 1, Y: 2}

	b, vertical, err := db.Find(key)
	require.NoError(t, err)
	assert.Nil(t, b)
	assert.Zero(t, vertical)

	blob := bytes.Repeat([]byte{0x00, 0x80, 0x42}, 100)
	require.NoError(t, db.Add(key, 2, blob))

	b, vertical, err = db.Find(key)
	require.NoError(t, err)
	assert.Equal(t, blob, b)
	assert.Equal(t, 2, vertical)

	// Other options are a different conversion
	b, _, err = db.Find(AssetKey{SHA1: key.SHA1, X: 1, Y: 2, Quantize: true})
	require.NoError(t, err)
	assert.Nil(t, b)

	require.NoError(t, db.Add(key, 4, blob[:3]))
	b, vertical, err = db.Find(key)
	require.NoError(t, err)
	assert.Equal(t, blob[:3], b)
	assert.Equal(t, 4, vertical)

	n, err := db.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestConvertCached(t *testing.T) {
	db, err := NewAssetDB(filepath.Join(tempDir(t), "gpc.db"))
	require.NoError(t, err)
	defer db.Close()

	src := new(bytes.Buffer)
	require.NoError(t, png.Encode(src, testImage(32, 16)))

	c := New(db, discard(), &gpcimage.Options{X: 4})
	first, err := c.Convert(bytes.NewReader(src.Bytes()))
	require.NoError(t, err)

	n, err := db.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The cache remembers the step the header records
	b, vertical, err := db.Find(AssetKey{SHA1: fmt.Sprintf("%X", sha1.Sum(src.Bytes())), X: 4})
	require.NoError(t, err)
	assert.Equal(t, first, b)
	assert.Equal(t, readHeader(t, first).VerticalStep, vertical)

	second, err := c.Convert(bytes.NewReader(src.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	n, err = db.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Different placement is encoded again
	_, err = New(db, discard(), &gpcimage.Options{X: 5}).Convert(bytes.NewReader(src.Bytes()))
	require.NoError(t, err)
	n, err = db.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
