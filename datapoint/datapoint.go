// Package datapoint provides the typed sample values that flow through the
// transform pipeline: images, videos, segmentation masks, and bounding boxes.
//
// Every typed value wraps an owned *tensor.Dense plus a small amount of
// geometric metadata fixed at construction. Operations that change geometry
// build a new value via the *Like constructors; metadata is never mutated in
// place.
package datapoint

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Kind tags the closed set of typed value variants. Dispatch is keyed on the
// exact tag, never on any shared structure between variants.
type Kind uint8

// The supported typed value kinds.
const (
	KindImage Kind = iota + 1
	KindVideo
	KindMask
	KindBoundingBoxes
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindMask:
		return "mask"
	case KindBoundingBoxes:
		return "bounding_boxes"
	default:
		return "unknown"
	}
}

// Datapoint is implemented by all typed sample values.
type Datapoint interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Tensor returns the underlying raw array. Callers must not mutate it.
	Tensor() *tensor.Dense
	// SpatialSize returns the (height, width) of the value's image plane.
	SpatialSize() (height, width int)
}

// KindOf returns the variant tag of v, or false if v is not a typed value.
func KindOf(v interface{}) (Kind, bool) {
	dp, ok := v.(Datapoint)
	if !ok {
		return 0, false
	}
	return dp.Kind(), true
}

func checkRank(d *tensor.Dense, min int, what string) error {
	if d == nil {
		return errors.Errorf("%s tensor cannot be nil", what)
	}
	if len(d.Shape()) < min {
		return errors.Errorf("%s tensor must have at least %d dimensions, got shape %v", what, min, d.Shape())
	}
	return nil
}
