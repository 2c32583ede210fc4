package media

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// RCS image limits.
const (
	MaxImageWidth  = 1440
	MaxImageHeight = 1440
	MaxImageBytes  = 2 * 1024 * 1024
)

// NormalizeResult is the outcome of a compliance pass over one image.
type NormalizeResult struct {
	Bytes   []byte
	Width   int
	Height  int
	Resized bool
}

// NormalizeImage returns RCS-compliant bytes for the given image. An image
// already within the dimension and size limits is returned untouched. An
// oversized image is scaled down (never up) to fit 1440x1440 and re-encoded
// at quality 85, stepping the quality down by 10 while the result stays over
// 2 MiB, with a floor of 50. The floor wins over the size limit: output can
// still exceed 2 MiB for pathological inputs.
//
// Callers treat an error here as "keep the original upload", never as an
// upload failure.
func NormalizeImage(data []byte) (*NormalizeResult, error) {
	src, formatName, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width <= MaxImageWidth && height <= MaxImageHeight && len(data) <= MaxImageBytes {
		return &NormalizeResult{Bytes: data, Width: width, Height: height, Resized: false}, nil
	}

	format, err := wireFormat(formatName)
	if err != nil {
		return nil, err
	}

	if width > MaxImageWidth || height > MaxImageHeight {
		ratio := math.Min(
			float64(MaxImageWidth)/float64(width),
			float64(MaxImageHeight)/float64(height),
		)
		if ratio > 1 {
			ratio = 1
		}
		newWidth := int(math.Round(float64(width) * ratio))
		newHeight := int(math.Round(float64(height) * ratio))
		src = imaging.Resize(src, newWidth, newHeight, imaging.Lanczos)
	}

	quality := 85
	encoded, err := encode(src, format, quality)
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	for len(encoded) > MaxImageBytes && quality > 50 {
		quality -= 10
		if quality < 50 {
			quality = 50
		}
		encoded, err = encode(src, format, quality)
		if err != nil {
			return nil, fmt.Errorf("encode image at quality %d: %w", quality, err)
		}
	}

	// Report what actually came out of the encoder, not the computed scale.
	out, _, err := image.Decode(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("measure encoded image: %w", err)
	}
	ob := out.Bounds()

	return &NormalizeResult{
		Bytes:   encoded,
		Width:   ob.Dx(),
		Height:  ob.Dy(),
		Resized: true,
	}, nil
}

func encode(img image.Image, format imaging.Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func wireFormat(name string) (imaging.Format, error) {
	switch name {
	case "jpeg":
		return imaging.JPEG, nil
	case "png":
		return imaging.PNG, nil
	case "gif":
		return imaging.GIF, nil
	}
	return 0, fmt.Errorf("unsupported image format %q", name)
}
