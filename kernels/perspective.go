package kernels

import (
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
)

// PerspectiveCoeffs solves the 8-parameter homography mapping each of the
// four startpoints onto the corresponding endpoint. Points are (x, y). The
// returned coefficients (h0..h7, with h8 fixed at 1) satisfy
//
//	X = (h0*x + h1*y + h2) / (h6*x + h7*y + 1)
//	Y = (h3*x + h4*y + h5) / (h6*x + h7*y + 1)
func PerspectiveCoeffs(startpoints, endpoints [][2]float64) ([8]float64, error) {
	var coeffs [8]float64
	if len(startpoints) != 4 || len(endpoints) != 4 {
		return coeffs, invalidArgf("perspective requires exactly 4 start and 4 end points, got %d and %d",
			len(startpoints), len(endpoints))
	}
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		x, y := startpoints[i][0], startpoints[i][1]
		xx, yy := endpoints[i][0], endpoints[i][1]
		a.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -xx * x, -xx * y})
		a.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -yy * x, -yy * y})
		b.SetVec(2*i, xx)
		b.SetVec(2*i+1, yy)
	}
	var h mat.VecDense
	if err := h.SolveVec(a, b); err != nil {
		return coeffs, invalidArgf("degenerate perspective points: %v", err)
	}
	for i := range coeffs {
		coeffs[i] = h.AtVec(i)
	}
	return coeffs, nil
}

func applyHomography(c [8]float64, x, y float64) (float64, float64) {
	den := c[6]*x + c[7]*y + 1
	return (c[0]*x + c[1]*y + c[2]) / den, (c[3]*x + c[4]*y + c[5]) / den
}

func invertHomography(c [8]float64) ([8]float64, error) {
	full := mat.NewDense(3, 3, []float64{
		c[0], c[1], c[2],
		c[3], c[4], c[5],
		c[6], c[7], 1,
	})
	var inv mat.Dense
	if err := inv.Inverse(full); err != nil {
		return [8]float64{}, invalidArgf("homography is not invertible: %v", err)
	}
	// Renormalize so the bottom-right entry is 1 again.
	s := inv.At(2, 2)
	if s == 0 {
		return [8]float64{}, invalidArgf("homography inverse is degenerate")
	}
	return [8]float64{
		inv.At(0, 0) / s, inv.At(0, 1) / s, inv.At(0, 2) / s,
		inv.At(1, 0) / s, inv.At(1, 1) / s, inv.At(1, 2) / s,
		inv.At(2, 0) / s, inv.At(2, 1) / s,
	}, nil
}

// PerspectiveTensorCoeffs warps every plane with precomputed forward
// homography coefficients.
func PerspectiveTensorCoeffs(d *tensor.Dense, coeffs [8]float64, interp Interpolation, fill Fill) (*tensor.Dense, error) {
	if err := checkGridInterpolation(interp); err != nil {
		return nil, err
	}
	p, err := asPlanes(d)
	if err != nil {
		return nil, err
	}
	if err := fill.validate(p.channels()); err != nil {
		return nil, err
	}
	inv, err := invertHomography(coeffs)
	if err != nil {
		return nil, err
	}
	out := p.eachPlane(p.h, p.w, func(plane int, src, dst []float64) {
		fillVal := fill.forChannel(p.channelOf(plane))
		for y := 0; y < p.h; y++ {
			for x := 0; x < p.w; x++ {
				sx, sy := applyHomography(inv, float64(x)+0.5, float64(y)+0.5)
				dst[y*p.w+x] = samplePlane(src, p.h, p.w, sx-0.5, sy-0.5, interp, fillVal)
			}
		}
	})
	return p.build(out, p.h, p.w)
}

// PerspectiveTensor warps every plane with the homography mapping
// startpoints to endpoints.
func PerspectiveTensor(
	d *tensor.Dense, startpoints, endpoints [][2]float64, interp Interpolation, fill Fill,
) (*tensor.Dense, error) {
	coeffs, err := PerspectiveCoeffs(startpoints, endpoints)
	if err != nil {
		return nil, err
	}
	return PerspectiveTensorCoeffs(d, coeffs, interp, fill)
}

// PerspectiveImage warps an image.
func PerspectiveImage(
	img *datapoint.Image, startpoints, endpoints [][2]float64, interp Interpolation, fill Fill,
) (*datapoint.Image, error) {
	out, err := PerspectiveTensor(img.Tensor(), startpoints, endpoints, interp, fill)
	if err != nil {
		return nil, err
	}
	return datapoint.NewImageLike(img, out)
}

// PerspectiveImageCoeffs warps an image with precomputed coefficients.
func PerspectiveImageCoeffs(img *datapoint.Image, coeffs [8]float64, interp Interpolation, fill Fill) (*datapoint.Image, error) {
	out, err := PerspectiveTensorCoeffs(img.Tensor(), coeffs, interp, fill)
	if err != nil {
		return nil, err
	}
	return datapoint.NewImageLike(img, out)
}

// PerspectiveVideo warps every frame.
func PerspectiveVideo(
	v *datapoint.Video, startpoints, endpoints [][2]float64, interp Interpolation, fill Fill,
) (*datapoint.Video, error) {
	out, err := PerspectiveTensor(v.Tensor(), startpoints, endpoints, interp, fill)
	if err != nil {
		return nil, err
	}
	return datapoint.NewVideoLike(v, out)
}

// PerspectiveVideoCoeffs warps every frame with precomputed coefficients.
func PerspectiveVideoCoeffs(v *datapoint.Video, coeffs [8]float64, interp Interpolation, fill Fill) (*datapoint.Video, error) {
	out, err := PerspectiveTensorCoeffs(v.Tensor(), coeffs, interp, fill)
	if err != nil {
		return nil, err
	}
	return datapoint.NewVideoLike(v, out)
}

// PerspectiveMask warps a mask, nearest-neighbor.
func PerspectiveMask(m *datapoint.Mask, startpoints, endpoints [][2]float64) (*datapoint.Mask, error) {
	out, err := PerspectiveTensor(m.Tensor(), startpoints, endpoints, Nearest, nil)
	if err != nil {
		return nil, err
	}
	return datapoint.NewMaskLike(m, out)
}

// PerspectiveMaskCoeffs warps a mask with precomputed coefficients.
func PerspectiveMaskCoeffs(m *datapoint.Mask, coeffs [8]float64) (*datapoint.Mask, error) {
	out, err := PerspectiveTensorCoeffs(m.Tensor(), coeffs, Nearest, nil)
	if err != nil {
		return nil, err
	}
	return datapoint.NewMaskLike(m, out)
}

// PerspectiveBoundingBoxesCoeffs maps each box's four corners through the
// forward homography and re-takes axis-aligned bounds, clamped to the
// canvas.
func PerspectiveBoundingBoxesCoeffs(b *datapoint.BoundingBoxes, coeffs [8]float64) (*datapoint.BoundingBoxes, error) {
	h, w := b.SpatialSize()
	xyxy, err := b.Floats()
	if err != nil {
		return nil, err
	}
	boxCorners(xyxy, func(x, y float64) (float64, float64) {
		return applyHomography(coeffs, x, y)
	})
	clampBoxes(xyxy, h, w)
	return b.FromFloats(xyxy, h, w)
}

// PerspectiveBoundingBoxes maps boxes through the homography defined by the
// given point correspondences.
func PerspectiveBoundingBoxes(
	b *datapoint.BoundingBoxes, startpoints, endpoints [][2]float64,
) (*datapoint.BoundingBoxes, error) {
	coeffs, err := PerspectiveCoeffs(startpoints, endpoints)
	if err != nil {
		return nil, err
	}
	return PerspectiveBoundingBoxesCoeffs(b, coeffs)
}
