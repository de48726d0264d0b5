package kernels

import (
	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
)

// ParsePadding expands a 1, 2 or 4 element padding spec into
// (left, top, right, bottom). One value pads all sides equally, two values
// pad (left/right, top/bottom), four are taken as given.
func ParsePadding(padding []int) (left, top, right, bottom int, err error) {
	switch len(padding) {
	case 1:
		p := padding[0]
		return p, p, p, p, nil
	case 2:
		return padding[0], padding[1], padding[0], padding[1], nil
	case 4:
		return padding[0], padding[1], padding[2], padding[3], nil
	default:
		return 0, 0, 0, 0, invalidArgf("padding must have 1, 2 or 4 elements, got %d", len(padding))
	}
}

// reflectIndex maps an out-of-range coordinate back into [0, n) by mirroring
// about the edges. withEdge repeats the edge sample (symmetric mode); without
// it the edge is the pivot (reflect mode).
func reflectIndex(i, n int, withEdge bool) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			if withEdge {
				i = -i - 1
			} else {
				i = -i
			}
		} else {
			if withEdge {
				i = 2*n - i - 1
			} else {
				i = 2*(n-1) - i
			}
		}
	}
	return i
}

// PadTensor grows (or, with negative values, shrinks) every plane by the
// given padding. Reflect and symmetric modes reject negative padding; they
// also require the padding to stay below the source extent, since mirroring
// can only produce as many pixels as exist.
func PadTensor(d *tensor.Dense, padding []int, fill Fill, mode PaddingMode) (*tensor.Dense, error) {
	left, top, right, bottom, err := ParsePadding(padding)
	if err != nil {
		return nil, err
	}
	if mode == PadReflect || mode == PadSymmetric {
		if left < 0 || top < 0 || right < 0 || bottom < 0 {
			return nil, invalidArgf("negative padding is not supported with %s mode", mode)
		}
	}
	p, err := asPlanes(d)
	if err != nil {
		return nil, err
	}
	if err := fill.validate(p.channels()); err != nil {
		return nil, err
	}
	nh := p.h + top + bottom
	nw := p.w + left + right
	if nh <= 0 || nw <= 0 {
		return nil, invalidArgf("padding %v collapses input of size (%d, %d)", padding, p.h, p.w)
	}
	if mode == PadReflect && (left >= p.w || right >= p.w || top >= p.h || bottom >= p.h) {
		return nil, invalidArgf("reflect padding %v must be less than the input size (%d, %d)", padding, p.h, p.w)
	}
	if mode == PadSymmetric && (left > p.w || right > p.w || top > p.h || bottom > p.h) {
		return nil, invalidArgf("symmetric padding %v must not exceed the input size (%d, %d)", padding, p.h, p.w)
	}

	out := p.eachPlane(nh, nw, func(plane int, src, dst []float64) {
		fillVal := fill.forChannel(p.channelOf(plane))
		for y := 0; y < nh; y++ {
			sy := y - top
			for x := 0; x < nw; x++ {
				sx := x - left
				var v float64
				switch {
				case sy >= 0 && sy < p.h && sx >= 0 && sx < p.w:
					v = src[sy*p.w+sx]
				case mode == PadConstant:
					v = fillVal
				case mode == PadEdge:
					v = src[clampInt(sy, 0, p.h-1)*p.w+clampInt(sx, 0, p.w-1)]
				case mode == PadReflect:
					v = src[reflectIndex(sy, p.h, false)*p.w+reflectIndex(sx, p.w, false)]
				default: // PadSymmetric
					v = src[reflectIndex(sy, p.h, true)*p.w+reflectIndex(sx, p.w, true)]
				}
				dst[y*nw+x] = v
			}
		}
	})
	return p.build(out, nh, nw)
}

// PadImage pads an image.
func PadImage(img *datapoint.Image, padding []int, fill Fill, mode PaddingMode) (*datapoint.Image, error) {
	out, err := PadTensor(img.Tensor(), padding, fill, mode)
	if err != nil {
		return nil, err
	}
	return datapoint.NewImageLike(img, out)
}

// PadVideo pads every frame of a video.
func PadVideo(v *datapoint.Video, padding []int, fill Fill, mode PaddingMode) (*datapoint.Video, error) {
	out, err := PadTensor(v.Tensor(), padding, fill, mode)
	if err != nil {
		return nil, err
	}
	return datapoint.NewVideoLike(v, out)
}

// PadMask pads a mask. Constant fill defaults to zero (the background label).
func PadMask(m *datapoint.Mask, padding []int, fill Fill, mode PaddingMode) (*datapoint.Mask, error) {
	out, err := PadTensor(m.Tensor(), padding, fill, mode)
	if err != nil {
		return nil, err
	}
	return datapoint.NewMaskLike(m, out)
}

// PadBoundingBoxes shifts box coordinates by the left/top padding and grows
// the canvas by the total padding on each axis.
func PadBoundingBoxes(b *datapoint.BoundingBoxes, padding []int) (*datapoint.BoundingBoxes, error) {
	left, top, right, bottom, err := ParsePadding(padding)
	if err != nil {
		return nil, err
	}
	h, w := b.SpatialSize()
	nh := h + top + bottom
	nw := w + left + right
	if nh <= 0 || nw <= 0 {
		return nil, invalidArgf("padding %v collapses canvas of size (%d, %d)", padding, h, w)
	}
	xyxy, err := b.Floats()
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(xyxy); i += 4 {
		xyxy[i] += float64(left)
		xyxy[i+1] += float64(top)
		xyxy[i+2] += float64(left)
		xyxy[i+3] += float64(top)
	}
	return b.FromFloats(xyxy, nh, nw)
}
