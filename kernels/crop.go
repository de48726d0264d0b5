package kernels

import (
	"math"

	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
)

// CropTensor extracts the window of the given size whose top-left corner is
// (top, left) in the source plane. The window may reference regions outside
// the source; those pixels are implicitly zero. top and left may be negative.
func CropTensor(d *tensor.Dense, top, left, height, width int) (*tensor.Dense, error) {
	if height <= 0 || width <= 0 {
		return nil, invalidArgf("crop size must be positive, got (%d, %d)", height, width)
	}
	p, err := asPlanes(d)
	if err != nil {
		return nil, err
	}
	out := p.eachPlane(height, width, func(_ int, src, dst []float64) {
		for y := 0; y < height; y++ {
			sy := top + y
			if sy < 0 || sy >= p.h {
				continue
			}
			for x := 0; x < width; x++ {
				sx := left + x
				if sx < 0 || sx >= p.w {
					continue
				}
				dst[y*width+x] = src[sy*p.w+sx]
			}
		}
	})
	return p.build(out, height, width)
}

// CropImage crops an image window, zero-filling out-of-bounds regions.
func CropImage(img *datapoint.Image, top, left, height, width int) (*datapoint.Image, error) {
	out, err := CropTensor(img.Tensor(), top, left, height, width)
	if err != nil {
		return nil, err
	}
	return datapoint.NewImageLike(img, out)
}

// CropVideo crops every frame of a video.
func CropVideo(v *datapoint.Video, top, left, height, width int) (*datapoint.Video, error) {
	out, err := CropTensor(v.Tensor(), top, left, height, width)
	if err != nil {
		return nil, err
	}
	return datapoint.NewVideoLike(v, out)
}

// CropMask crops a mask window.
func CropMask(m *datapoint.Mask, top, left, height, width int) (*datapoint.Mask, error) {
	out, err := CropTensor(m.Tensor(), top, left, height, width)
	if err != nil {
		return nil, err
	}
	return datapoint.NewMaskLike(m, out)
}

// CropBoundingBoxes translates box coordinates into the cropped window and
// shrinks the canvas to (height, width). Coordinates are exposed as-is, so
// boxes may end up negative or out of range; clamping is a separate
// downstream concern.
func CropBoundingBoxes(b *datapoint.BoundingBoxes, top, left, height, width int) (*datapoint.BoundingBoxes, error) {
	if height <= 0 || width <= 0 {
		return nil, invalidArgf("crop size must be positive, got (%d, %d)", height, width)
	}
	xyxy, err := b.Floats()
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(xyxy); i += 4 {
		xyxy[i] -= float64(left)
		xyxy[i+1] -= float64(top)
		xyxy[i+2] -= float64(left)
		xyxy[i+3] -= float64(top)
	}
	return b.FromFloats(xyxy, height, width)
}

// centerCropOffsets computes the window position of a center crop. A window
// larger than the source produces negative offsets, which the crop kernels
// zero-pad implicitly.
func centerCropOffsets(h, w, ch, cw int) (top, left int) {
	top = int(math.Round(float64(h-ch) / 2.0))
	left = int(math.Round(float64(w-cw) / 2.0))
	return top, left
}

// CenterCropTensor crops the central (height, width) window.
func CenterCropTensor(d *tensor.Dense, height, width int) (*tensor.Dense, error) {
	p, err := asPlanes(d)
	if err != nil {
		return nil, err
	}
	top, left := centerCropOffsets(p.h, p.w, height, width)
	return CropTensor(d, top, left, height, width)
}

// CenterCropImage crops the central window of an image.
func CenterCropImage(img *datapoint.Image, height, width int) (*datapoint.Image, error) {
	out, err := CenterCropTensor(img.Tensor(), height, width)
	if err != nil {
		return nil, err
	}
	return datapoint.NewImageLike(img, out)
}

// CenterCropVideo crops the central window of every frame.
func CenterCropVideo(v *datapoint.Video, height, width int) (*datapoint.Video, error) {
	out, err := CenterCropTensor(v.Tensor(), height, width)
	if err != nil {
		return nil, err
	}
	return datapoint.NewVideoLike(v, out)
}

// CenterCropMask crops the central window of a mask.
func CenterCropMask(m *datapoint.Mask, height, width int) (*datapoint.Mask, error) {
	out, err := CenterCropTensor(m.Tensor(), height, width)
	if err != nil {
		return nil, err
	}
	return datapoint.NewMaskLike(m, out)
}

// CenterCropBoundingBoxes translates boxes into the central window.
func CenterCropBoundingBoxes(b *datapoint.BoundingBoxes, height, width int) (*datapoint.BoundingBoxes, error) {
	h, w := b.SpatialSize()
	top, left := centerCropOffsets(h, w, height, width)
	return CropBoundingBoxes(b, top, left, height, width)
}

// FiveCropTensor returns the four corner crops and the center crop of the
// given size, in the order top-left, top-right, bottom-left, bottom-right,
// center. The crop must not exceed the source size.
func FiveCropTensor(d *tensor.Dense, height, width int) ([]*tensor.Dense, error) {
	p, err := asPlanes(d)
	if err != nil {
		return nil, err
	}
	if height > p.h || width > p.w {
		return nil, invalidArgf("crop size (%d, %d) is larger than input size (%d, %d)", height, width, p.h, p.w)
	}
	tl, err := CropTensor(d, 0, 0, height, width)
	if err != nil {
		return nil, err
	}
	tr, err := CropTensor(d, 0, p.w-width, height, width)
	if err != nil {
		return nil, err
	}
	bl, err := CropTensor(d, p.h-height, 0, height, width)
	if err != nil {
		return nil, err
	}
	br, err := CropTensor(d, p.h-height, p.w-width, height, width)
	if err != nil {
		return nil, err
	}
	center, err := CenterCropTensor(d, height, width)
	if err != nil {
		return nil, err
	}
	return []*tensor.Dense{tl, tr, bl, br, center}, nil
}

// TenCropTensor returns the five crops of FiveCropTensor followed by the same
// five crops of the mirrored source (horizontal mirror by default, vertical
// when verticalFlip is set).
func TenCropTensor(d *tensor.Dense, height, width int, verticalFlip bool) ([]*tensor.Dense, error) {
	first, err := FiveCropTensor(d, height, width)
	if err != nil {
		return nil, err
	}
	var flipped *tensor.Dense
	if verticalFlip {
		flipped, err = VerticalFlipTensor(d)
	} else {
		flipped, err = HorizontalFlipTensor(d)
	}
	if err != nil {
		return nil, err
	}
	second, err := FiveCropTensor(flipped, height, width)
	if err != nil {
		return nil, err
	}
	return append(first, second...), nil
}
