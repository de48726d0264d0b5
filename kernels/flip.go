package kernels

import (
	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
)

// HorizontalFlipTensor mirrors every plane along the width axis.
func HorizontalFlipTensor(d *tensor.Dense) (*tensor.Dense, error) {
	p, err := asPlanes(d)
	if err != nil {
		return nil, err
	}
	out := p.eachPlane(p.h, p.w, func(_ int, src, dst []float64) {
		for y := 0; y < p.h; y++ {
			for x := 0; x < p.w; x++ {
				dst[y*p.w+x] = src[y*p.w+(p.w-1-x)]
			}
		}
	})
	return p.build(out, p.h, p.w)
}

// VerticalFlipTensor mirrors every plane along the height axis.
func VerticalFlipTensor(d *tensor.Dense) (*tensor.Dense, error) {
	p, err := asPlanes(d)
	if err != nil {
		return nil, err
	}
	out := p.eachPlane(p.h, p.w, func(_ int, src, dst []float64) {
		for y := 0; y < p.h; y++ {
			srcRow := src[(p.h-1-y)*p.w : (p.h-y)*p.w]
			copy(dst[y*p.w:(y+1)*p.w], srcRow)
		}
	})
	return p.build(out, p.h, p.w)
}

// HorizontalFlipImage mirrors an image along the width axis.
func HorizontalFlipImage(img *datapoint.Image) (*datapoint.Image, error) {
	out, err := HorizontalFlipTensor(img.Tensor())
	if err != nil {
		return nil, err
	}
	return datapoint.NewImageLike(img, out)
}

// VerticalFlipImage mirrors an image along the height axis.
func VerticalFlipImage(img *datapoint.Image) (*datapoint.Image, error) {
	out, err := VerticalFlipTensor(img.Tensor())
	if err != nil {
		return nil, err
	}
	return datapoint.NewImageLike(img, out)
}

// HorizontalFlipVideo mirrors every frame along the width axis.
func HorizontalFlipVideo(v *datapoint.Video) (*datapoint.Video, error) {
	out, err := HorizontalFlipTensor(v.Tensor())
	if err != nil {
		return nil, err
	}
	return datapoint.NewVideoLike(v, out)
}

// VerticalFlipVideo mirrors every frame along the height axis.
func VerticalFlipVideo(v *datapoint.Video) (*datapoint.Video, error) {
	out, err := VerticalFlipTensor(v.Tensor())
	if err != nil {
		return nil, err
	}
	return datapoint.NewVideoLike(v, out)
}

// HorizontalFlipMask mirrors a mask along the width axis.
func HorizontalFlipMask(m *datapoint.Mask) (*datapoint.Mask, error) {
	out, err := HorizontalFlipTensor(m.Tensor())
	if err != nil {
		return nil, err
	}
	return datapoint.NewMaskLike(m, out)
}

// VerticalFlipMask mirrors a mask along the height axis.
func VerticalFlipMask(m *datapoint.Mask) (*datapoint.Mask, error) {
	out, err := VerticalFlipTensor(m.Tensor())
	if err != nil {
		return nil, err
	}
	return datapoint.NewMaskLike(m, out)
}

// HorizontalFlipBoundingBoxes mirrors box coordinates across the vertical
// center line of the canvas, swapping x_min/x_max so the result stays a valid
// box in the stored format.
func HorizontalFlipBoundingBoxes(b *datapoint.BoundingBoxes) (*datapoint.BoundingBoxes, error) {
	h, w := b.SpatialSize()
	xyxy, err := b.Floats()
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(xyxy); i += 4 {
		x1, x2 := xyxy[i], xyxy[i+2]
		xyxy[i] = float64(w) - x2
		xyxy[i+2] = float64(w) - x1
	}
	return b.FromFloats(xyxy, h, w)
}

// VerticalFlipBoundingBoxes mirrors box coordinates across the horizontal
// center line of the canvas.
func VerticalFlipBoundingBoxes(b *datapoint.BoundingBoxes) (*datapoint.BoundingBoxes, error) {
	h, w := b.SpatialSize()
	xyxy, err := b.Floats()
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(xyxy); i += 4 {
		y1, y2 := xyxy[i+1], xyxy[i+3]
		xyxy[i+1] = float64(h) - y2
		xyxy[i+3] = float64(h) - y1
	}
	return b.FromFloats(xyxy, h, w)
}
