package datapoint

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// FromGoImage converts a decoded image.Image into an Image backed by a uint8
// tensor shaped (3, H, W) in RGB order.
func FromGoImage(img image.Image) (*Image, error) {
	if img == nil {
		return nil, errors.New("cannot convert nil image")
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, errors.Errorf("cannot convert empty image of size (%d, %d)", h, w)
	}
	backing := make([]uint8, 3*h*w)
	plane := h * w
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			idx := y*w + x
			backing[idx] = uint8(r >> 8)
			backing[plane+idx] = uint8(g >> 8)
			backing[2*plane+idx] = uint8(b >> 8)
		}
	}
	data := tensor.New(tensor.WithShape(3, h, w), tensor.WithBacking(backing))
	return NewImage(data)
}

// ToGoImage converts an Image shaped (C, H, W) with 1 or 3 channels back into
// an image.Image. Float dtypes are rounded and clamped to [0, 255].
func ToGoImage(img *Image) (image.Image, error) {
	shape := img.Tensor().Shape()
	if len(shape) != 3 {
		return nil, errors.Errorf("can only convert a (C, H, W) image, got shape %v", shape)
	}
	c, h, w := shape[0], shape[1], shape[2]
	if c != 1 && c != 3 {
		return nil, errors.Errorf("can only convert 1 or 3 channel images, got %d", c)
	}
	vals, err := TensorFloats(img.Tensor())
	if err != nil {
		return nil, err
	}
	clamp := func(v float64) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v + 0.5)
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	plane := h * w
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			var col color.NRGBA
			if c == 1 {
				g := clamp(vals[idx])
				col = color.NRGBA{g, g, g, 255}
			} else {
				col = color.NRGBA{
					clamp(vals[idx]),
					clamp(vals[plane+idx]),
					clamp(vals[2*plane+idx]),
					255,
				}
			}
			out.SetNRGBA(x, y, col)
		}
	}
	return out, nil
}
