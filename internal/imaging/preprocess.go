package imaging

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// Default CLIP input resolution and pixel statistics.
const DefaultInputSize = 224

var (
	ClipMean = [3]float32{0.48145466, 0.4578275, 0.40821073}
	ClipStd  = [3]float32{0.26862954, 0.26130258, 0.27577711}
)

// Tensor is a planar CHW float32 pixel tensor ready for a vision encoder.
type Tensor struct {
	Data     []float32
	Width    int
	Height   int
	Channels int
}

// Preprocess resizes the shorter side to size, center-crops a size x size
// window and normalizes each channel with the given mean/std. The output
// matches what CLIP-style image preprocessors feed the vision transformer.
func Preprocess(img image.Image, size int, mean, std [3]float32) *Tensor {
	cropped := resizeAndCrop(img, size)

	data := make([]float32, 3*size*size)
	plane := size * size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, _ := cropped.At(x, y).RGBA()
			idx := y*size + x
			data[idx] = (float32(r>>8)/255.0 - mean[0]) / std[0]
			data[plane+idx] = (float32(g>>8)/255.0 - mean[1]) / std[1]
			data[2*plane+idx] = (float32(b>>8)/255.0 - mean[2]) / std[2]
		}
	}

	return &Tensor{
		Data:     data,
		Width:    size,
		Height:   size,
		Channels: 3,
	}
}

// resizeAndCrop scales the shorter side to size with Catmull-Rom and takes
// the centered size x size window.
func resizeAndCrop(img image.Image, size int) *image.NRGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	scaledW, scaledH := size, size
	if w < h {
		scaledH = h * size / w
	} else if h < w {
		scaledW = w * size / h
	}

	scaled := image.NewNRGBA(image.Rect(0, 0, scaledW, scaledH))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Over, nil)

	offX := (scaledW - size) / 2
	offY := (scaledH - size) / 2
	cropped := scaled.SubImage(image.Rect(offX, offY, offX+size, offY+size)).(*image.NRGBA)

	out := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			out.Set(x, y, cropped.At(offX+x, offY+y))
		}
	}
	return out
}
