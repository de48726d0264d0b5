// Package kernels implements the geometric operations of the transform
// pipeline, one specialization per data kind: tensor-backed images, videos
// and masks share batch-generic plane kernels, bounding boxes get pure
// coordinate math, and image.Image values run through disintegration/imaging.
//
// All kernels are pure: caller-supplied arrays are never mutated and every
// call returns a fresh value (or the identical input when the operation is a
// no-op for it). Coordinate math is done in float64; results are converted
// back to the input dtype with rounding for integer types.
package kernels

import (
	"github.com/pkg/errors"
)

// ErrInvalidArgument marks malformed configuration: bad size or padding
// shapes, fill values that do not match the channel count, incompatible
// option combinations. Check with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

func invalidArgf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// Interpolation selects the resampling mode of a kernel.
type Interpolation uint8

// The supported interpolation modes.
const (
	// Nearest matches the historical rounding of nearest sampling, which
	// picks floor(i * scale).
	Nearest Interpolation = iota + 1
	// NearestExact picks the mathematically nearest source pixel,
	// floor((i + 0.5) * scale).
	NearestExact
	Bilinear
	Bicubic
)

func (i Interpolation) String() string {
	switch i {
	case Nearest:
		return "nearest"
	case NearestExact:
		return "nearest-exact"
	case Bilinear:
		return "bilinear"
	case Bicubic:
		return "bicubic"
	default:
		return "unknown"
	}
}

// ParseInterpolation parses an interpolation mode name.
func ParseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "nearest":
		return Nearest, nil
	case "nearest-exact":
		return NearestExact, nil
	case "bilinear":
		return Bilinear, nil
	case "bicubic":
		return Bicubic, nil
	default:
		return 0, invalidArgf("unknown interpolation mode %q", s)
	}
}

func (i Interpolation) isNearest() bool {
	return i == Nearest || i == NearestExact
}

// PaddingMode selects how pad fills new border pixels.
type PaddingMode uint8

// The supported padding modes.
const (
	PadConstant PaddingMode = iota + 1
	PadEdge
	PadReflect
	PadSymmetric
)

func (m PaddingMode) String() string {
	switch m {
	case PadConstant:
		return "constant"
	case PadEdge:
		return "edge"
	case PadReflect:
		return "reflect"
	case PadSymmetric:
		return "symmetric"
	default:
		return "unknown"
	}
}

// ParsePaddingMode parses a padding mode name.
func ParsePaddingMode(s string) (PaddingMode, error) {
	switch s {
	case "constant":
		return PadConstant, nil
	case "edge":
		return PadEdge, nil
	case "reflect":
		return PadReflect, nil
	case "symmetric":
		return PadSymmetric, nil
	default:
		return 0, invalidArgf("unknown padding mode %q", s)
	}
}

// Fill is the value painted outside the source image by pad, affine, rotate
// and perspective. nil or empty fills with zeros, a single element broadcasts
// across channels, and a len-C fill gives one value per channel. Any other
// length fails with ErrInvalidArgument.
type Fill []float64

func (f Fill) forChannel(ch int) float64 {
	switch len(f) {
	case 0:
		return 0
	case 1:
		return f[0]
	default:
		return f[ch]
	}
}

func (f Fill) validate(channels int) error {
	if len(f) == 0 || len(f) == 1 || len(f) == channels {
		return nil
	}
	return invalidArgf("fill has %d values but input has %d channels", len(f), channels)
}
