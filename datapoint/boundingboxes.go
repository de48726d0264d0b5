package datapoint

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// BoundingBoxFormat describes how the four coordinates of a box are laid out.
type BoundingBoxFormat uint8

// The supported coordinate layouts.
const (
	// XYXY is (x_min, y_min, x_max, y_max).
	XYXY BoundingBoxFormat = iota + 1
	// XYWH is (x_min, y_min, width, height).
	XYWH
	// CXCYWH is (center_x, center_y, width, height).
	CXCYWH
)

func (f BoundingBoxFormat) String() string {
	switch f {
	case XYXY:
		return "XYXY"
	case XYWH:
		return "XYWH"
	case CXCYWH:
		return "CXCYWH"
	default:
		return "unknown"
	}
}

// ParseBoundingBoxFormat parses the string name of a format.
func ParseBoundingBoxFormat(s string) (BoundingBoxFormat, error) {
	switch s {
	case "XYXY", "xyxy":
		return XYXY, nil
	case "XYWH", "xywh":
		return XYWH, nil
	case "CXCYWH", "cxcywh":
		return CXCYWH, nil
	default:
		return 0, errors.Errorf("unknown bounding box format %q", s)
	}
}

// BoundingBoxes wraps an (N, 4) array of box coordinates together with the
// layout of each row and the (height, width) of the canvas the coordinates
// are defined on. A box array without its format and canvas is meaningless,
// so both travel with every transformation result.
type BoundingBoxes struct {
	data         *tensor.Dense
	format       BoundingBoxFormat
	canvasHeight int
	canvasWidth  int
}

// NewBoundingBoxes wraps data, which must be shaped (N, 4), with its format
// and canvas size.
func NewBoundingBoxes(data *tensor.Dense, format BoundingBoxFormat, canvasHeight, canvasWidth int) (*BoundingBoxes, error) {
	if err := checkRank(data, 2, "bounding boxes"); err != nil {
		return nil, err
	}
	shape := data.Shape()
	if len(shape) != 2 || shape[1] != 4 {
		return nil, errors.Errorf("bounding boxes must be shaped (N, 4), got %v", shape)
	}
	if format != XYXY && format != XYWH && format != CXCYWH {
		return nil, errors.Errorf("invalid bounding box format %d", format)
	}
	if canvasHeight <= 0 || canvasWidth <= 0 {
		return nil, errors.Errorf("invalid canvas size (%d, %d)", canvasHeight, canvasWidth)
	}
	return &BoundingBoxes{
		data:         data,
		format:       format,
		canvasHeight: canvasHeight,
		canvasWidth:  canvasWidth,
	}, nil
}

// NewBoundingBoxesLike wraps data carrying forward the format and canvas size
// of src. Pass a non-nil canvas to override the canvas size, e.g. after a
// crop or pad changed the image plane.
func NewBoundingBoxesLike(src *BoundingBoxes, data *tensor.Dense, canvas *[2]int) (*BoundingBoxes, error) {
	h, w := src.canvasHeight, src.canvasWidth
	if canvas != nil {
		h, w = canvas[0], canvas[1]
	}
	return NewBoundingBoxes(data, src.format, h, w)
}

// Kind returns KindBoundingBoxes.
func (b *BoundingBoxes) Kind() Kind { return KindBoundingBoxes }

// Tensor returns the raw (N, 4) array.
func (b *BoundingBoxes) Tensor() *tensor.Dense { return b.data }

// Format returns the coordinate layout.
func (b *BoundingBoxes) Format() BoundingBoxFormat { return b.format }

// SpatialSize returns the canvas (height, width).
func (b *BoundingBoxes) SpatialSize() (int, int) { return b.canvasHeight, b.canvasWidth }

// Len returns the number of boxes.
func (b *BoundingBoxes) Len() int { return b.data.Shape()[0] }

// Floats returns the coordinates as a fresh float64 slice of length 4*Len in
// XYXY layout, regardless of the stored format.
func (b *BoundingBoxes) Floats() ([]float64, error) {
	vals, err := TensorFloats(b.data)
	if err != nil {
		return nil, err
	}
	toXYXYInPlace(vals, b.format)
	return vals, nil
}

// FromFloats builds a new BoundingBoxes from XYXY coordinates, converting
// back into the receiver's stored format and dtype and using the given canvas
// size. Integer dtypes are rounded.
func (b *BoundingBoxes) FromFloats(xyxy []float64, canvasHeight, canvasWidth int) (*BoundingBoxes, error) {
	if len(xyxy)%4 != 0 {
		return nil, errors.Errorf("coordinate count %d is not a multiple of 4", len(xyxy))
	}
	vals := make([]float64, len(xyxy))
	copy(vals, xyxy)
	fromXYXYInPlace(vals, b.format)
	data, err := TensorFromFloats(b.data, vals, len(vals)/4, 4)
	if err != nil {
		return nil, err
	}
	return NewBoundingBoxes(data, b.format, canvasHeight, canvasWidth)
}

// ConvertFormat returns a copy of b with coordinates laid out in the target
// format. The canvas size is unchanged.
func ConvertFormat(b *BoundingBoxes, to BoundingBoxFormat) (*BoundingBoxes, error) {
	if b.format == to {
		return b, nil
	}
	vals, err := TensorFloats(b.data)
	if err != nil {
		return nil, err
	}
	toXYXYInPlace(vals, b.format)
	fromXYXYInPlace(vals, to)
	data, err := TensorFromFloats(b.data, vals, b.Len(), 4)
	if err != nil {
		return nil, err
	}
	return NewBoundingBoxes(data, to, b.canvasHeight, b.canvasWidth)
}

func toXYXYInPlace(vals []float64, from BoundingBoxFormat) {
	switch from {
	case XYXY:
	case XYWH:
		for i := 0; i < len(vals); i += 4 {
			vals[i+2] = vals[i] + vals[i+2]
			vals[i+3] = vals[i+1] + vals[i+3]
		}
	case CXCYWH:
		for i := 0; i < len(vals); i += 4 {
			cx, cy, w, h := vals[i], vals[i+1], vals[i+2], vals[i+3]
			vals[i] = cx - w/2
			vals[i+1] = cy - h/2
			vals[i+2] = cx + w/2
			vals[i+3] = cy + h/2
		}
	}
}

func fromXYXYInPlace(vals []float64, to BoundingBoxFormat) {
	switch to {
	case XYXY:
	case XYWH:
		for i := 0; i < len(vals); i += 4 {
			vals[i+2] -= vals[i]
			vals[i+3] -= vals[i+1]
		}
	case CXCYWH:
		for i := 0; i < len(vals); i += 4 {
			x1, y1, x2, y2 := vals[i], vals[i+1], vals[i+2], vals[i+3]
			vals[i] = (x1 + x2) / 2
			vals[i+1] = (y1 + y2) / 2
			vals[i+2] = x2 - x1
			vals[i+3] = y2 - y1
		}
	}
}
