package media_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcs-gateway/internal/media"
)

func flatJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

// Incompressible noise keeps the encoded size well over the 2 MiB limit.
func noisePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeImageCompliantPassthrough(t *testing.T) {
	data := flatJPEG(t, 800, 600)
	require.LessOrEqual(t, len(data), media.MaxImageBytes)

	res, err := media.NormalizeImage(data)
	require.NoError(t, err)

	assert.False(t, res.Resized)
	assert.Equal(t, data, res.Bytes)
	assert.Equal(t, 800, res.Width)
	assert.Equal(t, 600, res.Height)
}

func TestNormalizeImageIsIdempotent(t *testing.T) {
	first, err := media.NormalizeImage(flatJPEG(t, 2000, 1000))
	require.NoError(t, err)
	require.True(t, first.Resized)

	second, err := media.NormalizeImage(first.Bytes)
	require.NoError(t, err)
	assert.False(t, second.Resized)
	assert.Equal(t, first.Bytes, second.Bytes)
}

func TestNormalizeImageScalesDownUniformly(t *testing.T) {
	res, err := media.NormalizeImage(flatJPEG(t, 2000, 1000))
	require.NoError(t, err)

	assert.True(t, res.Resized)
	assert.Equal(t, 1440, res.Width)
	assert.Equal(t, 720, res.Height)
}

func TestNormalizeImagePortrait(t *testing.T) {
	res, err := media.NormalizeImage(flatJPEG(t, 1000, 2880))
	require.NoError(t, err)

	assert.Equal(t, 500, res.Width)
	assert.Equal(t, 1440, res.Height)
}

func TestNormalizeImageNeverUpscales(t *testing.T) {
	data := noisePNG(t, 1200, 1200)
	require.Greater(t, len(data), media.MaxImageBytes)

	res, err := media.NormalizeImage(data)
	require.NoError(t, err)

	assert.True(t, res.Resized)
	assert.LessOrEqual(t, res.Width, 1200)
	assert.LessOrEqual(t, res.Height, 1200)
}

func TestNormalizeImageRejectsGarbage(t *testing.T) {
	_, err := media.NormalizeImage([]byte("definitely not an image"))
	require.Error(t, err)
}
