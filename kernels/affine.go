package kernels

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
	"github.com/govision/govision/utils"
)

// affineMatrix is the 2x3 matrix [a b c; d e f] of an affine map
// (x, y) -> (a*x + b*y + c, d*x + e*y + f).
type affineMatrix [6]float64

func (m affineMatrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// invert solves for the matrix mapping output coordinates back to source
// coordinates, using gonum like the perspective solver does.
func (m affineMatrix) invert() (affineMatrix, error) {
	full := mat.NewDense(3, 3, []float64{
		m[0], m[1], m[2],
		m[3], m[4], m[5],
		0, 0, 1,
	})
	var inv mat.Dense
	if err := inv.Inverse(full); err != nil {
		return affineMatrix{}, invalidArgf("affine matrix is not invertible: %v", err)
	}
	return affineMatrix{
		inv.At(0, 0), inv.At(0, 1), inv.At(0, 2),
		inv.At(1, 0), inv.At(1, 1), inv.At(1, 2),
	}, nil
}

// buildAffineMatrix composes rotation (degrees, about center), translation
// (pixels), uniform scale and x/y shear (degrees) into a single forward
// matrix. The decomposition matches the reference convention
// M = T * C * RotateShear * Scale * C^-1.
func buildAffineMatrix(angle, tx, ty, scale, shearX, shearY, cx, cy float64) affineMatrix {
	rot := utils.DegToRad(angle)
	sx := utils.DegToRad(shearX)
	sy := utils.DegToRad(shearY)

	a := math.Cos(rot-sy) / math.Cos(sy)
	b := -math.Cos(rot-sy)*math.Tan(sx)/math.Cos(sy) - math.Sin(rot)
	c := math.Sin(rot-sy) / math.Cos(sy)
	d := -math.Sin(rot-sy)*math.Tan(sx)/math.Cos(sy) + math.Cos(rot)

	m := affineMatrix{scale * a, scale * b, 0, scale * c, scale * d, 0}
	m[2] = tx + cx - m[0]*cx - m[1]*cy
	m[5] = ty + cy - m[3]*cx - m[4]*cy
	return m
}

func checkAffineArgs(scale float64, interp Interpolation) error {
	if scale <= 0 {
		return invalidArgf("scale must be positive, got %v", scale)
	}
	return checkGridInterpolation(interp)
}

// warpPlanes inverse-maps every output pixel of an (nh, nw) canvas through
// inv and samples the source plane, the same construction as a perspective
// warp but with an affine map.
func warpPlanes(p *planes, inv affineMatrix, nh, nw int, interp Interpolation, fill Fill) []float64 {
	return p.eachPlane(nh, nw, func(plane int, src, dst []float64) {
		fillVal := fill.forChannel(p.channelOf(plane))
		for y := 0; y < nh; y++ {
			for x := 0; x < nw; x++ {
				sx, sy := inv.apply(float64(x)+0.5, float64(y)+0.5)
				dst[y*nw+x] = samplePlane(src, p.h, p.w, sx-0.5, sy-0.5, interp, fillVal)
			}
		}
	})
}

// AffineTensor applies an affine transformation built from a rotation angle
// (degrees), a pixel translation, a uniform scale factor and x/y shear
// angles. center overrides the rotation center, which defaults to the middle
// of the image plane.
func AffineTensor(
	d *tensor.Dense, angle float64, translate [2]float64, scale float64, shear [2]float64,
	interp Interpolation, fill Fill, center *[2]float64,
) (*tensor.Dense, error) {
	if err := checkAffineArgs(scale, interp); err != nil {
		return nil, err
	}
	p, err := asPlanes(d)
	if err != nil {
		return nil, err
	}
	if err := fill.validate(p.channels()); err != nil {
		return nil, err
	}
	cx, cy := float64(p.w)*0.5, float64(p.h)*0.5
	if center != nil {
		cx, cy = center[0], center[1]
	}
	m := buildAffineMatrix(angle, translate[0], translate[1], scale, shear[0], shear[1], cx, cy)
	inv, err := m.invert()
	if err != nil {
		return nil, err
	}
	out := warpPlanes(p, inv, p.h, p.w, interp, fill)
	return p.build(out, p.h, p.w)
}

// AffineImage applies an affine transformation to an image.
func AffineImage(
	img *datapoint.Image, angle float64, translate [2]float64, scale float64, shear [2]float64,
	interp Interpolation, fill Fill, center *[2]float64,
) (*datapoint.Image, error) {
	out, err := AffineTensor(img.Tensor(), angle, translate, scale, shear, interp, fill, center)
	if err != nil {
		return nil, err
	}
	return datapoint.NewImageLike(img, out)
}

// AffineVideo applies an affine transformation to every frame.
func AffineVideo(
	v *datapoint.Video, angle float64, translate [2]float64, scale float64, shear [2]float64,
	interp Interpolation, fill Fill, center *[2]float64,
) (*datapoint.Video, error) {
	out, err := AffineTensor(v.Tensor(), angle, translate, scale, shear, interp, fill, center)
	if err != nil {
		return nil, err
	}
	return datapoint.NewVideoLike(v, out)
}

// AffineMask applies an affine transformation to a mask, nearest-neighbor.
func AffineMask(
	m *datapoint.Mask, angle float64, translate [2]float64, scale float64, shear [2]float64, center *[2]float64,
) (*datapoint.Mask, error) {
	out, err := AffineTensor(m.Tensor(), angle, translate, scale, shear, Nearest, nil, center)
	if err != nil {
		return nil, err
	}
	return datapoint.NewMaskLike(m, out)
}

// boxCorners maps all four corners of each XYXY box through fn and replaces
// the box with the axis-aligned bounds of the results. Mapping only the two
// original corners would under-cover any rotated box.
func boxCorners(xyxy []float64, fn func(x, y float64) (float64, float64)) {
	for i := 0; i < len(xyxy); i += 4 {
		x1, y1, x2, y2 := xyxy[i], xyxy[i+1], xyxy[i+2], xyxy[i+3]
		cs := [4][2]float64{{x1, y1}, {x2, y1}, {x1, y2}, {x2, y2}}
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, c := range cs {
			nx, ny := fn(c[0], c[1])
			minX = math.Min(minX, nx)
			minY = math.Min(minY, ny)
			maxX = math.Max(maxX, nx)
			maxY = math.Max(maxY, ny)
		}
		xyxy[i], xyxy[i+1], xyxy[i+2], xyxy[i+3] = minX, minY, maxX, maxY
	}
}

func clampBoxes(xyxy []float64, h, w int) {
	for i := 0; i < len(xyxy); i += 4 {
		xyxy[i] = clampFloat(xyxy[i], 0, float64(w))
		xyxy[i+1] = clampFloat(xyxy[i+1], 0, float64(h))
		xyxy[i+2] = clampFloat(xyxy[i+2], 0, float64(w))
		xyxy[i+3] = clampFloat(xyxy[i+3], 0, float64(h))
	}
}

// AffineBoundingBoxes maps each box's four corners through the forward
// affine matrix, re-takes axis-aligned bounds and clamps them to the canvas.
func AffineBoundingBoxes(
	b *datapoint.BoundingBoxes, angle float64, translate [2]float64, scale float64, shear [2]float64,
	center *[2]float64,
) (*datapoint.BoundingBoxes, error) {
	if scale <= 0 {
		return nil, invalidArgf("scale must be positive, got %v", scale)
	}
	h, w := b.SpatialSize()
	cx, cy := float64(w)*0.5, float64(h)*0.5
	if center != nil {
		cx, cy = center[0], center[1]
	}
	m := buildAffineMatrix(angle, translate[0], translate[1], scale, shear[0], shear[1], cx, cy)
	xyxy, err := b.Floats()
	if err != nil {
		return nil, err
	}
	boxCorners(xyxy, m.apply)
	clampBoxes(xyxy, h, w)
	return b.FromFloats(xyxy, h, w)
}

// rotateGeometry builds the forward matrix of a rotation and, with expand,
// the grown output canvas that exactly fits the rotated source rectangle.
func rotateGeometry(h, w int, angle float64, expand bool, center *[2]float64) (affineMatrix, int, int, error) {
	if expand && center != nil {
		return affineMatrix{}, 0, 0, invalidArgf("the center argument is incompatible with expand; expansion assumes rotation about the image center")
	}
	cx, cy := float64(w)*0.5, float64(h)*0.5
	if center != nil {
		cx, cy = center[0], center[1]
	}
	m := buildAffineMatrix(angle, 0, 0, 1, 0, 0, cx, cy)
	if !expand {
		return m, h, w, nil
	}

	corners := [4][2]float64{{0, 0}, {float64(w), 0}, {0, float64(h)}, {float64(w), float64(h)}}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		nx, ny := m.apply(c[0], c[1])
		minX = math.Min(minX, nx)
		minY = math.Min(minY, ny)
		maxX = math.Max(maxX, nx)
		maxY = math.Max(maxY, ny)
	}
	// The epsilon keeps exact multiples of 90 degrees from ceiling up to an
	// extra pixel out of float round-off.
	const eps = 1e-7
	nw := int(math.Ceil(maxX - minX - eps))
	nh := int(math.Ceil(maxY - minY - eps))
	m[2] -= minX
	m[5] -= minY
	return m, nh, nw, nil
}

// RotateTensor rotates every plane by angle degrees. With expand, the output
// canvas grows to exactly fit the rotated source rectangle; a center override
// combined with expand fails with ErrInvalidArgument.
func RotateTensor(
	d *tensor.Dense, angle float64, interp Interpolation, expand bool, center *[2]float64, fill Fill,
) (*tensor.Dense, error) {
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
	m, nh, nw, err := rotateGeometry(p.h, p.w, angle, expand, center)
	if err != nil {
		return nil, err
	}
	inv, err := m.invert()
	if err != nil {
		return nil, err
	}
	out := warpPlanes(p, inv, nh, nw, interp, fill)
	return p.build(out, nh, nw)
}

// RotateImage rotates an image.
func RotateImage(
	img *datapoint.Image, angle float64, interp Interpolation, expand bool, center *[2]float64, fill Fill,
) (*datapoint.Image, error) {
	out, err := RotateTensor(img.Tensor(), angle, interp, expand, center, fill)
	if err != nil {
		return nil, err
	}
	return datapoint.NewImageLike(img, out)
}

// RotateVideo rotates every frame.
func RotateVideo(
	v *datapoint.Video, angle float64, interp Interpolation, expand bool, center *[2]float64, fill Fill,
) (*datapoint.Video, error) {
	out, err := RotateTensor(v.Tensor(), angle, interp, expand, center, fill)
	if err != nil {
		return nil, err
	}
	return datapoint.NewVideoLike(v, out)
}

// RotateMask rotates a mask, nearest-neighbor.
func RotateMask(m *datapoint.Mask, angle float64, expand bool, center *[2]float64) (*datapoint.Mask, error) {
	out, err := RotateTensor(m.Tensor(), angle, Nearest, expand, center, nil)
	if err != nil {
		return nil, err
	}
	return datapoint.NewMaskLike(m, out)
}

// RotateBoundingBoxes rotates box coordinates, growing the canvas when
// expand is set.
func RotateBoundingBoxes(
	b *datapoint.BoundingBoxes, angle float64, expand bool, center *[2]float64,
) (*datapoint.BoundingBoxes, error) {
	h, w := b.SpatialSize()
	m, nh, nw, err := rotateGeometry(h, w, angle, expand, center)
	if err != nil {
		return nil, err
	}
	xyxy, err := b.Floats()
	if err != nil {
		return nil, err
	}
	boxCorners(xyxy, m.apply)
	clampBoxes(xyxy, nh, nw)
	return b.FromFloats(xyxy, nh, nw)
}
