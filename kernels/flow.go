package kernels

import (
	"math"

	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
)

// ResizeSparseFlow rescales a sparse optical-flow (or disparity) field.
// flow is shaped (2, H, W) holding (dx, dy) per pixel and valid is an (H, W)
// mask of the pixels that carry a real measurement. Sparse fields cannot be
// interpolated: instead every valid source pixel is remapped to its nearest
// destination pixel and its vector scaled by the size ratios; destination
// pixels no valid source maps to stay invalid.
func ResizeSparseFlow(flow, valid *tensor.Dense, height, width int) (*tensor.Dense, *tensor.Dense, error) {
	if height <= 0 || width <= 0 {
		return nil, nil, invalidArgf("target size must be positive, got (%d, %d)", height, width)
	}
	fs := flow.Shape()
	if len(fs) != 3 || fs[0] != 2 {
		return nil, nil, invalidArgf("flow must be shaped (2, H, W), got %v", fs)
	}
	vs := valid.Shape()
	if len(vs) != 2 || vs[0] != fs[1] || vs[1] != fs[2] {
		return nil, nil, invalidArgf("valid mask shape %v does not match flow shape %v", vs, fs)
	}
	h, w := fs[1], fs[2]
	fvals, err := datapoint.TensorFloats(flow)
	if err != nil {
		return nil, nil, err
	}
	vvals, err := datapoint.TensorFloats(valid)
	if err != nil {
		return nil, nil, err
	}

	sx := float64(width) / float64(w)
	sy := float64(height) / float64(h)
	outFlow := make([]float64, 2*height*width)
	outValid := make([]float64, height*width)
	plane := h * w
	outPlane := height * width
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if vvals[y*w+x] == 0 {
				continue
			}
			nx := clampInt(int(math.Round(float64(x)*sx)), 0, width-1)
			ny := clampInt(int(math.Round(float64(y)*sy)), 0, height-1)
			outFlow[ny*width+nx] = fvals[y*w+x] * sx
			outFlow[outPlane+ny*width+nx] = fvals[plane+y*w+x] * sy
			outValid[ny*width+nx] = 1
		}
	}

	newFlow, err := datapoint.TensorFromFloats(flow, outFlow, 2, height, width)
	if err != nil {
		return nil, nil, err
	}
	newValid, err := datapoint.TensorFromFloats(valid, outValid, height, width)
	if err != nil {
		return nil, nil, err
	}
	return newFlow, newValid, nil
}
