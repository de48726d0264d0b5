package transforms

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
	"github.com/govision/govision/kernels"
	"github.com/govision/govision/sample"
)

// RandomZoomOut pads the sample out to a randomly larger canvas, placing the
// original content at a random offset. Applied with probability P.
type RandomZoomOut struct {
	SideRange [2]float64
	Fill      kernels.Fill
	P         float64
	Rand      *rand.Rand
}

// NewRandomZoomOut builds a zoom-out whose canvas side grows by a factor
// drawn from sideRange, which must start at 1 or above.
func NewRandomZoomOut(sideRange [2]float64, p float64) (*RandomZoomOut, error) {
	if sideRange[0] < 1 || sideRange[0] > sideRange[1] {
		return nil, errors.Wrapf(kernels.ErrInvalidArgument, "invalid canvas side range %v", sideRange)
	}
	if err := checkProbability(p); err != nil {
		return nil, err
	}
	return &RandomZoomOut{SideRange: sideRange, P: p}, nil
}

// Apply pads every leaf onto the same enlarged canvas or skips the sample.
func (t *RandomZoomOut) Apply(s interface{}) (interface{}, error) {
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

	r := c.uniform(t.SideRange[0], t.SideRange[1])
	canvasH := int(float64(h) * r)
	canvasW := int(float64(w) * r)
	left := int(c.float64() * float64(canvasW-w))
	top := int(c.float64() * float64(canvasH-h))
	padding := []int{left, top, canvasW - w - left, canvasH - h - top}

	args := kernels.PadArgs{Padding: padding, Fill: t.Fill, Mode: kernels.PadConstant}
	return rewriteLeaves(leaves, tree, allLeaves(), func(leaf interface{}) (interface{}, error) {
		return kernels.Pad(leaf, args)
	})
}

// ScaleJitter resizes the sample by a random factor of the scale that would
// fit it inside TargetHeight x TargetWidth.
type ScaleJitter struct {
	TargetHeight, TargetWidth int
	ScaleRange                [2]float64
	Interpolation             kernels.Interpolation
	Antialias                 bool
	Rand                      *rand.Rand
}

// NewScaleJitter builds a jitter toward the target size with the usual
// scale range of (0.1, 2.0).
func NewScaleJitter(targetHeight, targetWidth int) *ScaleJitter {
	return &ScaleJitter{
		TargetHeight:  targetHeight,
		TargetWidth:   targetWidth,
		ScaleRange:    [2]float64{0.1, 2.0},
		Interpolation: kernels.Bilinear,
		Antialias:     true,
	}
}

// Apply resizes every leaf to the same jittered size.
func (t *ScaleJitter) Apply(s interface{}) (interface{}, error) {
	leaves, tree, h, w, ok, err := sampleSize(s, allLeaves())
	if err != nil {
		return nil, err
	}
	if !ok {
		return s, nil
	}
	scaleRange := orderedRange("scale", t.ScaleRange)
	r := chooser{rnd: t.Rand}.uniform(scaleRange[0], scaleRange[1])
	scale := r * math.Min(float64(t.TargetHeight)/float64(h), float64(t.TargetWidth)/float64(w))
	nh := int(float64(h) * scale)
	nw := int(float64(w) * scale)

	args := kernels.ResizeArgs{
		Size: []int{nh, nw}, Interpolation: t.Interpolation, Antialias: t.Antialias,
	}
	return rewriteLeaves(leaves, tree, allLeaves(), func(leaf interface{}) (interface{}, error) {
		return kernels.Resize(leaf, args)
	})
}

// RandomShortestSize rescales the sample so its shorter edge matches one of
// MinSizes, optionally capping the longer edge at MaxSize.
type RandomShortestSize struct {
	MinSizes      []int
	MaxSize       int
	Interpolation kernels.Interpolation
	Antialias     bool
	Rand          *rand.Rand
}

// NewRandomShortestSize builds the resize choosing among minSizes.
func NewRandomShortestSize(minSizes []int, maxSize int) *RandomShortestSize {
	return &RandomShortestSize{
		MinSizes: minSizes, MaxSize: maxSize, Interpolation: kernels.Bilinear, Antialias: true,
	}
}

// Apply resizes every leaf to the same chosen size.
func (t *RandomShortestSize) Apply(s interface{}) (interface{}, error) {
	if len(t.MinSizes) == 0 {
		return nil, errors.Wrap(kernels.ErrInvalidArgument, "at least one minimum size is required")
	}
	leaves, tree, h, w, ok, err := sampleSize(s, allLeaves())
	if err != nil {
		return nil, err
	}
	if !ok {
		return s, nil
	}
	minSize := t.MinSizes[chooser{rnd: t.Rand}.intn(len(t.MinSizes))]
	r := float64(minSize) / math.Min(float64(h), float64(w))
	if t.MaxSize > 0 {
		r = math.Min(r, float64(t.MaxSize)/math.Max(float64(h), float64(w)))
	}
	nh := int(float64(h) * r)
	nw := int(float64(w) * r)

	args := kernels.ResizeArgs{
		Size: []int{nh, nw}, Interpolation: t.Interpolation, Antialias: t.Antialias,
	}
	return rewriteLeaves(leaves, tree, allLeaves(), func(leaf interface{}) (interface{}, error) {
		return kernels.Resize(leaf, args)
	})
}

// RandomResize rescales the sample's shorter edge to a size drawn uniformly
// from [MinSize, MaxSize).
type RandomResize struct {
	MinSize, MaxSize int
	Interpolation    kernels.Interpolation
	Antialias        bool
	Rand             *rand.Rand
}

// NewRandomResize builds the resize drawing from [minSize, maxSize).
func NewRandomResize(minSize, maxSize int) (*RandomResize, error) {
	if minSize <= 0 || maxSize <= minSize {
		return nil, errors.Wrapf(kernels.ErrInvalidArgument,
			"need 0 < min < max, got (%d, %d)", minSize, maxSize)
	}
	return &RandomResize{
		MinSize: minSize, MaxSize: maxSize, Interpolation: kernels.Bilinear, Antialias: true,
	}, nil
}

// Apply resizes every leaf to the same drawn size.
func (t *RandomResize) Apply(s interface{}) (interface{}, error) {
	in := allLeaves()
	leaves, tree, ok := matchedLeaves(s, in)
	if !ok {
		return s, nil
	}
	size := t.MinSize + chooser{rnd: t.Rand}.intn(t.MaxSize-t.MinSize)
	args := kernels.ResizeArgs{
		Size: []int{size}, Interpolation: t.Interpolation, Antialias: t.Antialias,
	}
	return rewriteLeaves(leaves, tree, in, func(leaf interface{}) (interface{}, error) {
		return kernels.Resize(leaf, args)
	})
}

// RandomIoUCrop samples a crop that keeps at least one box with a minimum
// Jaccard overlap, in the style of SSD training. The sample must carry
// bounding boxes; boxes whose center falls outside the crop are dropped.
type RandomIoUCrop struct {
	MinScale, MaxScale             float64
	MinAspectRatio, MaxAspectRatio float64
	Trials                         int
	Rand                           *rand.Rand
}

// NewRandomIoUCrop builds the crop with the usual SSD parameters.
func NewRandomIoUCrop() *RandomIoUCrop {
	return &RandomIoUCrop{
		MinScale: 0.3, MaxScale: 1.0,
		MinAspectRatio: 0.5, MaxAspectRatio: 2.0,
		Trials: 40,
	}
}

var iouOptions = []float64{0.0, 0.1, 0.3, 0.5, 0.7, 0.9, 1.0}

type iouCropParams struct {
	top, left, height, width int
	keep                     []bool
}

func boxIoU(x1, y1, x2, y2, cx1, cy1, cx2, cy2 float64) float64 {
	ix := math.Min(x2, cx2) - math.Max(x1, cx1)
	iy := math.Min(y2, cy2) - math.Max(y1, cy1)
	if ix <= 0 || iy <= 0 {
		return 0
	}
	inter := ix * iy
	union := (x2-x1)*(y2-y1) + (cx2-cx1)*(cy2-cy1) - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func (t *RandomIoUCrop) cropParams(c chooser, h, w int, xyxy []float64) *iouCropParams {
	// One round: draw a minimum overlap, then search for a crop meeting it.
	// A drawn overlap of 1 keeps the sample as is.
	minJaccard := iouOptions[c.intn(len(iouOptions))]
	if minJaccard >= 1.0 {
		return nil
	}
	for trial := 0; trial < t.Trials; trial++ {
		cw := int(float64(w) * c.uniform(t.MinScale, t.MaxScale))
		ch := int(float64(h) * c.uniform(t.MinScale, t.MaxScale))
		if cw <= 0 || ch <= 0 {
			continue
		}
		aspect := float64(cw) / float64(ch)
		if aspect < t.MinAspectRatio || aspect > t.MaxAspectRatio {
			continue
		}
		left := c.intn(w - cw + 1)
		top := c.intn(h - ch + 1)
		right := left + cw
		bottom := top + ch

		keep := make([]bool, len(xyxy)/4)
		any := false
		maxIoU := 0.0
		for i := 0; i < len(xyxy); i += 4 {
			cx := (xyxy[i] + xyxy[i+2]) / 2
			cy := (xyxy[i+1] + xyxy[i+3]) / 2
			if cx <= float64(left) || cx >= float64(right) || cy <= float64(top) || cy >= float64(bottom) {
				continue
			}
			keep[i/4] = true
			any = true
			iou := boxIoU(xyxy[i], xyxy[i+1], xyxy[i+2], xyxy[i+3],
				float64(left), float64(top), float64(right), float64(bottom))
			if iou > maxIoU {
				maxIoU = iou
			}
		}
		if !any || maxIoU < minJaccard {
			continue
		}
		return &iouCropParams{top: top, left: left, height: ch, width: cw, keep: keep}
	}
	return nil
}

// Apply crops every leaf and drops the boxes whose centers left the crop.
func (t *RandomIoUCrop) Apply(s interface{}) (interface{}, error) {
	leaves, tree, h, w, ok, err := sampleSize(s, allLeaves())
	if err != nil {
		return nil, err
	}
	if !ok {
		return s, nil
	}
	boxes, err := sample.FindBoundingBoxes(leaves)
	if err != nil {
		return nil, err
	}
	xyxy, err := boxes.Floats()
	if err != nil {
		return nil, err
	}

	c := chooser{rnd: t.Rand}
	var params *iouCropParams
	for round := 0; round < 100 && params == nil; round++ {
		params = t.cropParams(c, h, w, xyxy)
	}
	if params == nil {
		return s, nil
	}

	cropArgs := kernels.CropArgs{
		Top: params.top, Left: params.left, Height: params.height, Width: params.width,
	}
	return rewriteLeaves(leaves, tree, allLeaves(), func(leaf interface{}) (interface{}, error) {
		b, isBoxes := leaf.(*datapoint.BoundingBoxes)
		if !isBoxes {
			return kernels.Crop(leaf, cropArgs)
		}
		kept := make([]float64, 0, len(xyxy))
		for i := 0; i < len(xyxy); i += 4 {
			if !params.keep[i/4] {
				continue
			}
			x1 := clampRange(xyxy[i]-float64(params.left), 0, float64(params.width))
			y1 := clampRange(xyxy[i+1]-float64(params.top), 0, float64(params.height))
			x2 := clampRange(xyxy[i+2]-float64(params.left), 0, float64(params.width))
			y2 := clampRange(xyxy[i+3]-float64(params.top), 0, float64(params.height))
			kept = append(kept, x1, y1, x2, y2)
		}
		return b.FromFloats(kept, params.height, params.width)
	})
}

func clampRange(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// RandomErasing blanks out a random rectangle of every image, video and
// plain-tensor leaf with probability P. The erased content is either a fixed
// value or fresh gaussian noise.
type RandomErasing struct {
	P     float64
	Scale [2]float64
	Ratio [2]float64
	Value []float64
	Rand  *rand.Rand
}

// NewRandomErasing builds an erasing with the usual area range of
// (0.02, 0.33) and aspect-ratio range of (0.3, 3.3). A nil value erases
// with gaussian noise.
func NewRandomErasing(p float64) (*RandomErasing, error) {
	if err := checkProbability(p); err != nil {
		return nil, err
	}
	return &RandomErasing{
		P:     p,
		Scale: [2]float64{0.02, 0.33},
		Ratio: [2]float64{0.3, 3.3},
	}, nil
}

// eraseWindow samples the erase placement: up to ten attempts, giving up
// and leaving the sample untouched when none fits.
func (t *RandomErasing) eraseWindow(c chooser, h, w int) (top, left, eh, ew int, ok bool) {
	scale := orderedRange("scale", t.Scale)
	ratio := orderedRange("ratio", t.Ratio)
	area := float64(h) * float64(w)
	for i := 0; i < 10; i++ {
		target := area * c.uniform(scale[0], scale[1])
		ar := c.logUniform(ratio[0], ratio[1])
		eh = int(math.Round(math.Sqrt(target * ar)))
		ew = int(math.Round(math.Sqrt(target / ar)))
		if eh <= 0 || ew <= 0 || eh >= h || ew >= w {
			continue
		}
		top = c.intn(h - eh + 1)
		left = c.intn(w - ew + 1)
		return top, left, eh, ew, true
	}
	return 0, 0, 0, 0, false
}

func leafChannels(leaf interface{}) int {
	switch v := leaf.(type) {
	case *datapoint.Image:
		return v.Channels()
	case *datapoint.Video:
		return v.Channels()
	case *tensor.Dense:
		if shape := v.Shape(); len(shape) >= 3 {
			return shape[len(shape)-3]
		}
		return 1
	default:
		return 1
	}
}

func (t *RandomErasing) eraseValues(c chooser, channels, window int) ([]float64, error) {
	switch len(t.Value) {
	case 0:
		vals := make([]float64, channels*window)
		for i := range vals {
			vals[i] = c.norm()
		}
		return vals, nil
	case 1:
		return t.Value, nil
	case channels:
		vals := make([]float64, channels*window)
		for ch := 0; ch < channels; ch++ {
			for i := 0; i < window; i++ {
				vals[ch*window+i] = t.Value[ch]
			}
		}
		return vals, nil
	default:
		return nil, errors.Wrapf(kernels.ErrInvalidArgument,
			"erase value has %d elements but input has %d channels", len(t.Value), channels)
	}
}

// Apply erases the same window out of every pixel leaf or skips the sample.
func (t *RandomErasing) Apply(s interface{}) (interface{}, error) {
	c := chooser{rnd: t.Rand}
	if c.float64() >= t.P {
		return s, nil
	}
	in := tensorLeaves()
	in.kinds[datapoint.KindMask] = false
	in.kinds[datapoint.KindBoundingBoxes] = false
	leaves, tree, h, w, ok, err := sampleSize(s, in)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s, nil
	}
	top, left, eh, ew, ok := t.eraseWindow(c, h, w)
	if !ok {
		return s, nil
	}

	return rewriteLeaves(leaves, tree, in, func(leaf interface{}) (interface{}, error) {
		values, err := t.eraseValues(c, leafChannels(leaf), eh*ew)
		if err != nil {
			return nil, err
		}
		return kernels.Erase(leaf, kernels.EraseArgs{
			Top: top, Left: left, Height: eh, Width: ew, Values: values,
		})
	})
}
