package kernels

import (
	"math"

	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
)

// ComputeResizedOutputSize resolves the target (height, width) of a resize.
// A single-element size scales the shorter edge to size, preserving aspect
// ratio; a two-element size is the exact (height, width) target. maxSize
// (0 disables it) is only legal with a single-edge size: if the scaled longer
// edge would exceed it, the output is rescaled so the longer edge equals
// maxSize exactly, which may leave the shorter edge below the requested size.
func ComputeResizedOutputSize(h, w int, size []int, maxSize int) (int, int, error) {
	switch len(size) {
	case 1:
		requested := size[0]
		if requested <= 0 {
			return 0, 0, invalidArgf("size must be positive, got %d", requested)
		}
		short, long := h, w
		if w < h {
			short, long = w, h
		}
		newShort := requested
		newLong := int(math.Round(float64(requested) * float64(long) / float64(short)))
		if maxSize > 0 {
			if maxSize <= requested {
				return 0, 0, invalidArgf("max_size %d must be strictly greater than the requested size %d", maxSize, requested)
			}
			if newLong > maxSize {
				newShort = int(math.Round(float64(maxSize) * float64(newShort) / float64(newLong)))
				newLong = maxSize
			}
		}
		if w < h {
			return newLong, newShort, nil
		}
		return newShort, newLong, nil
	case 2:
		if maxSize > 0 {
			return 0, 0, invalidArgf("max_size is only supported when size specifies the shorter edge, got size %v", size)
		}
		if size[0] <= 0 || size[1] <= 0 {
			return 0, 0, invalidArgf("size must be positive, got %v", size)
		}
		return size[0], size[1], nil
	default:
		return 0, 0, invalidArgf("size must have 1 or 2 elements, got %d", len(size))
	}
}

// ResizeTensor resamples the trailing (H, W) of an arbitrarily batched
// tensor. antialias only affects the continuous modes (bilinear, bicubic) and
// is ignored for nearest modes.
func ResizeTensor(d *tensor.Dense, size []int, interp Interpolation, maxSize int, antialias bool) (*tensor.Dense, error) {
	p, err := asPlanes(d)
	if err != nil {
		return nil, err
	}
	nh, nw, err := ComputeResizedOutputSize(p.h, p.w, size, maxSize)
	if err != nil {
		return nil, err
	}
	if nh == p.h && nw == p.w && interp.isNearest() {
		return d, nil
	}
	out := p.eachPlane(nh, nw, func(_ int, src, dst []float64) {
		copy(dst, resizePlane(src, p.h, p.w, nh, nw, interp, antialias))
	})
	return p.build(out, nh, nw)
}

// ResizeImage resizes an image.
func ResizeImage(img *datapoint.Image, size []int, interp Interpolation, maxSize int, antialias bool) (*datapoint.Image, error) {
	out, err := ResizeTensor(img.Tensor(), size, interp, maxSize, antialias)
	if err != nil {
		return nil, err
	}
	if out == img.Tensor() {
		return img, nil
	}
	return datapoint.NewImageLike(img, out)
}

// ResizeVideo resizes every frame of a video.
func ResizeVideo(v *datapoint.Video, size []int, interp Interpolation, maxSize int, antialias bool) (*datapoint.Video, error) {
	out, err := ResizeTensor(v.Tensor(), size, interp, maxSize, antialias)
	if err != nil {
		return nil, err
	}
	if out == v.Tensor() {
		return v, nil
	}
	return datapoint.NewVideoLike(v, out)
}

// ResizeMask resizes a mask. Masks hold categorical labels, so resampling is
// forced to nearest regardless of the interpolation requested for images.
func ResizeMask(m *datapoint.Mask, size []int, maxSize int) (*datapoint.Mask, error) {
	out, err := ResizeTensor(m.Tensor(), size, Nearest, maxSize, false)
	if err != nil {
		return nil, err
	}
	if out == m.Tensor() {
		return m, nil
	}
	return datapoint.NewMaskLike(m, out)
}

// ResizeBoundingBoxes rescales box coordinates by the same factors a resize
// applies to the image plane. No interpolation is involved.
func ResizeBoundingBoxes(b *datapoint.BoundingBoxes, size []int, maxSize int) (*datapoint.BoundingBoxes, error) {
	h, w := b.SpatialSize()
	nh, nw, err := ComputeResizedOutputSize(h, w, size, maxSize)
	if err != nil {
		return nil, err
	}
	if nh == h && nw == w {
		return b, nil
	}
	sx := float64(nw) / float64(w)
	sy := float64(nh) / float64(h)
	xyxy, err := b.Floats()
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(xyxy); i += 4 {
		xyxy[i] *= sx
		xyxy[i+1] *= sy
		xyxy[i+2] *= sx
		xyxy[i+3] *= sy
	}
	return b.FromFloats(xyxy, nh, nw)
}

// ResizedCropTensor crops a window and resizes it to size in one operation.
func ResizedCropTensor(
	d *tensor.Dense, top, left, height, width int, size []int, interp Interpolation, antialias bool,
) (*tensor.Dense, error) {
	cropped, err := CropTensor(d, top, left, height, width)
	if err != nil {
		return nil, err
	}
	return ResizeTensor(cropped, size, interp, 0, antialias)
}

// ResizedCropImage crops a window of an image and resizes it to size.
func ResizedCropImage(
	img *datapoint.Image, top, left, height, width int, size []int, interp Interpolation, antialias bool,
) (*datapoint.Image, error) {
	out, err := ResizedCropTensor(img.Tensor(), top, left, height, width, size, interp, antialias)
	if err != nil {
		return nil, err
	}
	return datapoint.NewImageLike(img, out)
}

// ResizedCropVideo crops a window of a video and resizes it to size.
func ResizedCropVideo(
	v *datapoint.Video, top, left, height, width int, size []int, interp Interpolation, antialias bool,
) (*datapoint.Video, error) {
	out, err := ResizedCropTensor(v.Tensor(), top, left, height, width, size, interp, antialias)
	if err != nil {
		return nil, err
	}
	return datapoint.NewVideoLike(v, out)
}

// ResizedCropMask crops a window of a mask and resizes it nearest-neighbor.
func ResizedCropMask(m *datapoint.Mask, top, left, height, width int, size []int) (*datapoint.Mask, error) {
	out, err := ResizedCropTensor(m.Tensor(), top, left, height, width, size, Nearest, false)
	if err != nil {
		return nil, err
	}
	return datapoint.NewMaskLike(m, out)
}

// ResizedCropBoundingBoxes crops and rescales box coordinates.
func ResizedCropBoundingBoxes(
	b *datapoint.BoundingBoxes, top, left, height, width int, size []int,
) (*datapoint.BoundingBoxes, error) {
	cropped, err := CropBoundingBoxes(b, top, left, height, width)
	if err != nil {
		return nil, err
	}
	return ResizeBoundingBoxes(cropped, size, 0)
}
