package transforms

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/govision/govision/datapoint"
	"github.com/govision/govision/dispatch"
	"github.com/govision/govision/kernels"
	"github.com/govision/govision/sample"
)

// Resize rescales every leaf to a common size.
type Resize struct {
	Size          []int
	Interpolation kernels.Interpolation
	MaxSize       int
	Antialias     bool
}

// NewResize builds a resize to the given size: one element rescales the
// shorter edge, two elements force an exact (height, width).
func NewResize(size ...int) *Resize {
	return &Resize{Size: size, Interpolation: kernels.Bilinear, Antialias: true}
}

// Apply resizes every leaf.
func (t *Resize) Apply(s interface{}) (interface{}, error) {
	args := kernels.ResizeArgs{
		Size: t.Size, Interpolation: t.Interpolation, MaxSize: t.MaxSize, Antialias: t.Antialias,
	}
	return applyLeaves(s, allLeaves(), func(leaf interface{}) (interface{}, error) {
		return kernels.Resize(leaf, args)
	})
}

// CenterCrop extracts the central window of every leaf.
type CenterCrop struct {
	Height, Width int
}

// NewCenterCrop builds a center crop to (height, width).
func NewCenterCrop(height, width int) *CenterCrop {
	return &CenterCrop{Height: height, Width: width}
}

// Apply crops every leaf.
func (t *CenterCrop) Apply(s interface{}) (interface{}, error) {
	args := kernels.CenterCropArgs{Height: t.Height, Width: t.Width}
	return applyLeaves(s, allLeaves(), func(leaf interface{}) (interface{}, error) {
		return kernels.CenterCrop(leaf, args)
	})
}

// Pad grows every leaf's canvas by a fixed border.
type Pad struct {
	Padding []int
	Fill    kernels.Fill
	Mode    kernels.PaddingMode
}

// NewPad builds a constant pad. Padding takes 1, 2 or 4 values with the
// usual left/top/right/bottom expansion.
func NewPad(padding ...int) *Pad {
	return &Pad{Padding: padding, Mode: kernels.PadConstant}
}

// Apply pads every leaf.
func (t *Pad) Apply(s interface{}) (interface{}, error) {
	args := kernels.PadArgs{Padding: t.Padding, Fill: t.Fill, Mode: t.Mode}
	return applyLeaves(s, allLeaves(), func(leaf interface{}) (interface{}, error) {
		return kernels.Pad(leaf, args)
	})
}

// RandomHorizontalFlip mirrors the whole sample along the width axis with
// probability P.
type RandomHorizontalFlip struct {
	P    float64
	Rand *rand.Rand
}

// NewRandomHorizontalFlip builds a flip with probability p.
func NewRandomHorizontalFlip(p float64) (*RandomHorizontalFlip, error) {
	if err := checkProbability(p); err != nil {
		return nil, err
	}
	return &RandomHorizontalFlip{P: p}, nil
}

// Apply flips every leaf or skips the sample entirely.
func (t *RandomHorizontalFlip) Apply(s interface{}) (interface{}, error) {
	c := chooser{rnd: t.Rand}
	if c.float64() >= t.P {
		return s, nil
	}
	return applyLeaves(s, allLeaves(), kernels.HorizontalFlip)
}

// RandomVerticalFlip mirrors the whole sample along the height axis with
// probability P.
type RandomVerticalFlip struct {
	P    float64
	Rand *rand.Rand
}

// NewRandomVerticalFlip builds a flip with probability p.
func NewRandomVerticalFlip(p float64) (*RandomVerticalFlip, error) {
	if err := checkProbability(p); err != nil {
		return nil, err
	}
	return &RandomVerticalFlip{P: p}, nil
}

// Apply flips every leaf or skips the sample entirely.
func (t *RandomVerticalFlip) Apply(s interface{}) (interface{}, error) {
	c := chooser{rnd: t.Rand}
	if c.float64() >= t.P {
		return s, nil
	}
	return applyLeaves(s, allLeaves(), kernels.VerticalFlip)
}

// RandomCrop extracts a randomly placed window of fixed size, optionally
// padding the input first.
type RandomCrop struct {
	Height, Width int
	Padding       []int
	PadIfNeeded   bool
	Fill          kernels.Fill
	Mode          kernels.PaddingMode
	Rand          *rand.Rand
}

// NewRandomCrop builds a random crop to (height, width).
func NewRandomCrop(height, width int) (*RandomCrop, error) {
	if height <= 0 || width <= 0 {
		return nil, errors.Wrapf(kernels.ErrInvalidArgument,
			"crop size must be positive, got (%d, %d)", height, width)
	}
	return &RandomCrop{Height: height, Width: width, Mode: kernels.PadConstant}, nil
}

// Apply pads as configured, then crops the same random window out of every
// leaf.
func (t *RandomCrop) Apply(s interface{}) (interface{}, error) {
	leaves, tree, h, w, ok, err := sampleSize(s, allLeaves())
	if err != nil {
		return nil, err
	}
	if !ok {
		return s, nil
	}

	left, top, right, bottom := 0, 0, 0, 0
	if len(t.Padding) > 0 {
		if left, top, right, bottom, err = kernels.ParsePadding(t.Padding); err != nil {
			return nil, err
		}
	}
	ph, pw := h+top+bottom, w+left+right
	if t.PadIfNeeded {
		if pw < t.Width {
			diff := t.Width - pw
			left += diff
			right += diff
			pw += 2 * diff
		}
		if ph < t.Height {
			diff := t.Height - ph
			top += diff
			bottom += diff
			ph += 2 * diff
		}
	}
	if ph < t.Height || pw < t.Width {
		return nil, errors.Wrapf(kernels.ErrInvalidArgument,
			"crop size (%d, %d) exceeds padded input size (%d, %d)", t.Height, t.Width, ph, pw)
	}

	c := chooser{rnd: t.Rand}
	cropTop := c.intn(ph - t.Height + 1)
	cropLeft := c.intn(pw - t.Width + 1)

	padArgs := kernels.PadArgs{Padding: []int{left, top, right, bottom}, Fill: t.Fill, Mode: t.Mode}
	cropArgs := kernels.CropArgs{Top: cropTop, Left: cropLeft, Height: t.Height, Width: t.Width}
	needsPad := left != 0 || top != 0 || right != 0 || bottom != 0
	return rewriteLeaves(leaves, tree, allLeaves(), func(leaf interface{}) (interface{}, error) {
		if needsPad {
			var err error
			if leaf, err = kernels.Pad(leaf, padArgs); err != nil {
				return nil, err
			}
		}
		return kernels.Crop(leaf, cropArgs)
	})
}

// RandomResizedCrop crops a random area and aspect ratio, then resizes the
// crop to a fixed size.
type RandomResizedCrop struct {
	Size          []int
	Scale         [2]float64
	Ratio         [2]float64
	Interpolation kernels.Interpolation
	Antialias     bool
	Rand          *rand.Rand
}

// NewRandomResizedCrop builds the crop with the usual area range of
// (0.08, 1.0) and aspect-ratio range of (3/4, 4/3).
func NewRandomResizedCrop(size ...int) *RandomResizedCrop {
	return &RandomResizedCrop{
		Size:          size,
		Scale:         [2]float64{0.08, 1.0},
		Ratio:         [2]float64{3.0 / 4.0, 4.0 / 3.0},
		Interpolation: kernels.Bilinear,
		Antialias:     true,
	}
}

// cropWindow samples the crop placement: up to ten attempts at a random
// area and log-uniform aspect ratio, then a deterministic central fallback
// clamped to the nearest allowed ratio.
func (t *RandomResizedCrop) cropWindow(h, w int) (top, left, ch, cw int) {
	c := chooser{rnd: t.Rand}
	scale := orderedRange("scale", t.Scale)
	ratio := orderedRange("ratio", t.Ratio)
	area := float64(h) * float64(w)
	for i := 0; i < 10; i++ {
		target := area * c.uniform(scale[0], scale[1])
		ar := c.logUniform(ratio[0], ratio[1])
		cw = int(math.Round(math.Sqrt(target * ar)))
		ch = int(math.Round(math.Sqrt(target / ar)))
		if cw > 0 && cw <= w && ch > 0 && ch <= h {
			top = c.intn(h - ch + 1)
			left = c.intn(w - cw + 1)
			return top, left, ch, cw
		}
	}
	inRatio := float64(w) / float64(h)
	switch {
	case inRatio < ratio[0]:
		cw = w
		ch = int(math.Round(float64(w) / ratio[0]))
	case inRatio > ratio[1]:
		ch = h
		cw = int(math.Round(float64(h) * ratio[1]))
	default:
		ch, cw = h, w
	}
	return (h - ch) / 2, (w - cw) / 2, ch, cw
}

// Apply crops and resizes every leaf with one shared window.
func (t *RandomResizedCrop) Apply(s interface{}) (interface{}, error) {
	leaves, tree, h, w, ok, err := sampleSize(s, allLeaves())
	if err != nil {
		return nil, err
	}
	if !ok {
		return s, nil
	}
	top, left, ch, cw := t.cropWindow(h, w)
	args := kernels.ResizedCropArgs{
		Top: top, Left: left, Height: ch, Width: cw,
		Size: t.Size, Interpolation: t.Interpolation, Antialias: t.Antialias,
	}
	return rewriteLeaves(leaves, tree, allLeaves(), func(leaf interface{}) (interface{}, error) {
		return kernels.ResizedCrop(leaf, args)
	})
}

// RandomRotation rotates the whole sample by one angle drawn uniformly from
// Degrees.
type RandomRotation struct {
	Degrees       [2]float64
	Interpolation kernels.Interpolation
	Expand        bool
	Center        *[2]float64
	Fill          kernels.Fill
	Rand          *rand.Rand
}

// NewRandomRotation builds a rotation drawing angles from (minAngle,
// maxAngle) degrees.
func NewRandomRotation(minAngle, maxAngle float64) *RandomRotation {
	return &RandomRotation{Degrees: [2]float64{minAngle, maxAngle}, Interpolation: kernels.Nearest}
}

// Apply rotates every leaf by the same angle.
func (t *RandomRotation) Apply(s interface{}) (interface{}, error) {
	in := allLeaves()
	leaves, tree, ok := matchedLeaves(s, in)
	if !ok {
		return s, nil
	}
	degrees := orderedRange("degrees", t.Degrees)
	angle := chooser{rnd: t.Rand}.uniform(degrees[0], degrees[1])
	args := kernels.RotateArgs{
		Angle: angle, Interpolation: t.Interpolation, Expand: t.Expand, Center: t.Center, Fill: t.Fill,
	}
	return rewriteLeaves(leaves, tree, in, func(leaf interface{}) (interface{}, error) {
		return kernels.Rotate(leaf, args)
	})
}

// RandomAffine applies one random rotation, translation, scale and shear to
// the whole sample.
type RandomAffine struct {
	Degrees       [2]float64
	Translate     *[2]float64
	Scale         *[2]float64
	Shear         *[4]float64
	Interpolation kernels.Interpolation
	Fill          kernels.Fill
	Center        *[2]float64
	Rand          *rand.Rand
}

// NewRandomAffine builds an affine jitter drawing angles from (minAngle,
// maxAngle) degrees. Translation, scale and shear stay fixed until their
// ranges are set.
func NewRandomAffine(minAngle, maxAngle float64) *RandomAffine {
	return &RandomAffine{Degrees: [2]float64{minAngle, maxAngle}, Interpolation: kernels.Nearest}
}

// Apply transforms every leaf with the same affine parameters.
func (t *RandomAffine) Apply(s interface{}) (interface{}, error) {
	if t.Translate != nil && (t.Translate[0] < 0 || t.Translate[0] > 1 || t.Translate[1] < 0 || t.Translate[1] > 1) {
		return nil, errors.Wrapf(kernels.ErrInvalidArgument,
			"translation fractions must be in [0, 1], got %v", *t.Translate)
	}
	leaves, tree, h, w, ok, err := sampleSize(s, allLeaves())
	if err != nil {
		return nil, err
	}
	if !ok {
		return s, nil
	}

	c := chooser{rnd: t.Rand}
	degrees := orderedRange("degrees", t.Degrees)
	angle := c.uniform(degrees[0], degrees[1])
	var translate [2]float64
	if t.Translate != nil {
		maxDX := t.Translate[0] * float64(w)
		maxDY := t.Translate[1] * float64(h)
		translate[0] = math.Round(c.uniform(-maxDX, maxDX))
		translate[1] = math.Round(c.uniform(-maxDY, maxDY))
	}
	scale := 1.0
	if t.Scale != nil {
		r := orderedRange("scale", *t.Scale)
		scale = c.uniform(r[0], r[1])
	}
	var shear [2]float64
	if t.Shear != nil {
		shear[0] = c.uniform(t.Shear[0], t.Shear[1])
		shear[1] = c.uniform(t.Shear[2], t.Shear[3])
	}

	args := kernels.AffineArgs{
		Angle: angle, Translate: translate, Scale: scale, Shear: shear,
		Interpolation: t.Interpolation, Fill: t.Fill, Center: t.Center,
	}
	return rewriteLeaves(leaves, tree, allLeaves(), func(leaf interface{}) (interface{}, error) {
		return kernels.Affine(leaf, args)
	})
}

// RandomPerspective warps the whole sample with one random four-point
// perspective, applied with probability P.
type RandomPerspective struct {
	DistortionScale float64
	P               float64
	Interpolation   kernels.Interpolation
	Fill            kernels.Fill
	Rand            *rand.Rand
}

// NewRandomPerspective builds a perspective jitter. distortionScale in
// [0, 1] controls how far the corners may move.
func NewRandomPerspective(distortionScale, p float64) (*RandomPerspective, error) {
	if distortionScale < 0 || distortionScale > 1 {
		return nil, errors.Wrapf(kernels.ErrInvalidArgument,
			"distortion scale must be in [0, 1], got %v", distortionScale)
	}
	if err := checkProbability(p); err != nil {
		return nil, err
	}
	return &RandomPerspective{DistortionScale: distortionScale, P: p, Interpolation: kernels.Bilinear}, nil
}

// Apply warps every leaf with the same homography or skips the sample.
func (t *RandomPerspective) Apply(s interface{}) (interface{}, error) {
	c := chooser{rnd: t.Rand}
	if c.float64() >= t.P {
		return s, nil
	}
	leaves, tree, h, w, ok, err := sampleSize(s, allLeaves())
	if err != nil {
		return nil, err
	}
	if !ok {
		return s, nil
	}

	halfH := float64(h) / 2
	halfW := float64(w) / 2
	jitterX := func() float64 { return float64(c.intn(int(t.DistortionScale*halfW) + 1)) }
	jitterY := func() float64 { return float64(c.intn(int(t.DistortionScale*halfH) + 1)) }
	fw, fh := float64(w), float64(h)
	startpoints := [][2]float64{{0, 0}, {fw - 1, 0}, {fw - 1, fh - 1}, {0, fh - 1}}
	endpoints := [][2]float64{
		{jitterX(), jitterY()},
		{fw - 1 - jitterX(), jitterY()},
		{fw - 1 - jitterX(), fh - 1 - jitterY()},
		{jitterX(), fh - 1 - jitterY()},
	}
	coeffs, err := kernels.PerspectiveCoeffs(startpoints, endpoints)
	if err != nil {
		return nil, err
	}

	args := kernels.PerspectiveArgs{Coefficients: coeffs, Interpolation: t.Interpolation, Fill: t.Fill}
	return rewriteLeaves(leaves, tree, allLeaves(), func(leaf interface{}) (interface{}, error) {
		return kernels.Perspective(leaf, args)
	})
}

// ElasticTransform displaces pixels along a smooth random field shared by
// all pixel leaves; boxes pass through untouched.
type ElasticTransform struct {
	Alpha         [2]float64
	Sigma         [2]float64
	Interpolation kernels.Interpolation
	Fill          kernels.Fill
	Rand          *rand.Rand
}

// NewElasticTransform builds an elastic warp with magnitude alpha and
// smoothness sigma applied to both axes.
func NewElasticTransform(alpha, sigma float64) *ElasticTransform {
	return &ElasticTransform{
		Alpha:         [2]float64{alpha, alpha},
		Sigma:         [2]float64{sigma, sigma},
		Interpolation: kernels.Bilinear,
	}
}

// Apply warps every pixel leaf with the same displacement field.
func (t *ElasticTransform) Apply(s interface{}) (interface{}, error) {
	in := pixelLeaves()
	leaves, tree, h, w, ok, err := sampleSize(s, in)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s, nil
	}
	displacement := kernels.ElasticDisplacement(h, w, t.Alpha, t.Sigma, t.Rand)
	args := kernels.ElasticArgs{Displacement: displacement, Interpolation: t.Interpolation, Fill: t.Fill}
	return rewriteLeaves(leaves, tree, in, func(leaf interface{}) (interface{}, error) {
		return kernels.Elastic(leaf, args)
	})
}

// FiveCrop replaces every image leaf with its four corner crops plus the
// center crop. Samples carrying boxes or masks are rejected: the five crops
// cannot keep them consistent.
type FiveCrop struct {
	Height, Width int
}

// NewFiveCrop builds a five-crop to (height, width) windows.
func NewFiveCrop(height, width int) *FiveCrop {
	return &FiveCrop{Height: height, Width: width}
}

// Apply expands every image leaf into its five crops.
func (t *FiveCrop) Apply(s interface{}) (interface{}, error) {
	return applyMultiCrop(s, kernels.FiveCropArgs{Height: t.Height, Width: t.Width}, kernels.FiveCrop)
}

// TenCrop replaces every image leaf with its five crops plus the five crops
// of the flipped input. Samples carrying boxes or masks are rejected.
type TenCrop struct {
	Height, Width int
	VerticalFlip  bool
}

// NewTenCrop builds a ten-crop to (height, width) windows, using horizontal
// flips for the mirrored half.
func NewTenCrop(height, width int) *TenCrop {
	return &TenCrop{Height: height, Width: width}
}

// Apply expands every image leaf into its ten crops.
func (t *TenCrop) Apply(s interface{}) (interface{}, error) {
	args := kernels.FiveCropArgs{Height: t.Height, Width: t.Width, VerticalFlip: t.VerticalFlip}
	return applyMultiCrop(s, args, kernels.TenCrop)
}

func applyMultiCrop(
	s interface{}, args kernels.FiveCropArgs,
	crop func(in interface{}, args kernels.FiveCropArgs) (interface{}, error),
) (interface{}, error) {
	leaves, tree := sample.Flatten(s)
	if sample.HasKind(leaves, datapoint.KindBoundingBoxes) || sample.HasKind(leaves, datapoint.KindMask) {
		return nil, errors.Wrap(dispatch.ErrUnsupportedInputType,
			"multi-crop cannot keep boxes or masks consistent across crops")
	}
	in := pixelLeaves()
	matched := false
	for i, leaf := range leaves {
		if !in.matches(leaf) {
			continue
		}
		out, err := crop(leaf, args)
		if err != nil {
			return nil, err
		}
		leaves[i] = out
		matched = true
	}
	if !matched {
		return s, nil
	}
	return tree.Unflatten(leaves)
}
