// Package imaging decodes and prepares bitmaps for the vision encoder.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ErrDecode marks bytes that could not be decoded into an image.
var ErrDecode = errors.New("image decode failed")

// Decode turns raw bytes into an image. JPEG, PNG, GIF and WebP are accepted.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", ErrDecode)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, format, nil
}

// ToRGB converts any decoded image to 3-channel 8-bit color backed by NRGBA.
// Grayscale, paletted and CMYK sources all end up in the same representation.
func ToRGB(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}
	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)
	return out
}
