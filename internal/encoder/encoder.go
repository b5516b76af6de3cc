// Package encoder binds to external pretrained dual-encoder runtimes.
// The model itself is an opaque capability: this package only ships inputs
// to a vision/text branch and L2-normalizes what comes back.
package encoder

import (
	"context"
	"errors"
	"image"
)

// ErrModelLoad marks failures to obtain a usable dual encoder: unknown
// provider, unknown model identifier, or an unreachable checkpoint.
var ErrModelLoad = errors.New("model load failed")

// DualEncoder maps images and text prompts into one comparable vector
// space. Both branches return unit-normalized vectors of Dimensions()
// length.
type DualEncoder interface {
	EncodeImage(ctx context.Context, img image.Image) ([]float64, error)
	EncodeTexts(ctx context.Context, prompts []string) ([][]float64, error)
	Dimensions() int
	Model() string
}
