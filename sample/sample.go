// Package sample walks arbitrarily nested training samples. A sample is a
// tree of map[string]interface{} and []interface{} containers whose leaves
// are transformable values (typed datapoints, plain tensors, decoded images)
// or opaque payload (labels, ids) that transforms pass through untouched.
package sample

import (
	"image"
	"sort"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
)

// ErrInconsistentSpatialSize is returned when the size-bearing leaves of one
// sample disagree on their (height, width). Check with errors.Is.
var ErrInconsistentSpatialSize = errors.New("inconsistent spatial size")

// ErrMissingRequiredLeaf is returned when a transform requires a leaf kind
// the sample does not contain. Check with errors.Is.
var ErrMissingRequiredLeaf = errors.New("missing required leaf")

type nodeKind int

const (
	nodeLeaf nodeKind = iota
	nodeMap
	nodeSlice
)

type node struct {
	kind nodeKind
	keys []string
	size int
}

// Tree records the container structure stripped off by Flatten so the leaf
// slice can be reassembled into an identical shape.
type Tree struct {
	nodes []node
}

// Flatten walks root depth first and returns its leaves in deterministic
// order, map entries visited by sorted key. Containers are recorded in the
// returned Tree; everything that is not a map or slice container is a leaf,
// including values transforms do not touch.
func Flatten(root interface{}) ([]interface{}, *Tree) {
	t := &Tree{}
	var leaves []interface{}
	var walk func(v interface{})
	walk = func(v interface{}) {
		switch c := v.(type) {
		case map[string]interface{}:
			keys := make([]string, 0, len(c))
			for k := range c {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			t.nodes = append(t.nodes, node{kind: nodeMap, keys: keys})
			for _, k := range keys {
				walk(c[k])
			}
		case []interface{}:
			t.nodes = append(t.nodes, node{kind: nodeSlice, size: len(c)})
			for _, e := range c {
				walk(e)
			}
		default:
			t.nodes = append(t.nodes, node{kind: nodeLeaf})
			leaves = append(leaves, v)
		}
	}
	walk(root)
	return leaves, t
}

// Unflatten rebuilds the container structure recorded by Flatten around a
// replacement leaf slice. The leaf count must match the original walk.
func (t *Tree) Unflatten(leaves []interface{}) (interface{}, error) {
	pos, leafPos := 0, 0
	var build func() (interface{}, error)
	build = func() (interface{}, error) {
		if pos >= len(t.nodes) {
			return nil, errors.New("tree structure exhausted before all nodes were rebuilt")
		}
		n := t.nodes[pos]
		pos++
		switch n.kind {
		case nodeMap:
			m := make(map[string]interface{}, len(n.keys))
			for _, k := range n.keys {
				v, err := build()
				if err != nil {
					return nil, err
				}
				m[k] = v
			}
			return m, nil
		case nodeSlice:
			s := make([]interface{}, n.size)
			for i := 0; i < n.size; i++ {
				v, err := build()
				if err != nil {
					return nil, err
				}
				s[i] = v
			}
			return s, nil
		default:
			if leafPos >= len(leaves) {
				return nil, errors.Errorf("got %d leaves, tree needs more", len(leaves))
			}
			v := leaves[leafPos]
			leafPos++
			return v, nil
		}
	}
	out, err := build()
	if err != nil {
		return nil, err
	}
	if leafPos != len(leaves) {
		return nil, errors.Errorf("tree consumed %d of %d leaves", leafPos, len(leaves))
	}
	return out, nil
}

// sizeOf reports the (height, width) a leaf asserts, if any. Plain tensors
// stay silent: their layout is unknown, so they follow whatever size the
// typed leaves agree on.
func sizeOf(leaf interface{}) (int, int, bool) {
	switch v := leaf.(type) {
	case datapoint.Datapoint:
		h, w := v.SpatialSize()
		return h, w, true
	case image.Image:
		b := v.Bounds()
		return b.Dy(), b.Dx(), true
	default:
		return 0, 0, false
	}
}

// SpatialSize returns the single (height, width) shared by every size-bearing
// leaf. It fails with ErrInconsistentSpatialSize when two leaves disagree and
// with ErrMissingRequiredLeaf when no leaf carries a size at all.
func SpatialSize(leaves []interface{}) (int, int, error) {
	h, w := -1, -1
	for _, leaf := range leaves {
		lh, lw, ok := sizeOf(leaf)
		if !ok {
			continue
		}
		if h < 0 {
			h, w = lh, lw
			continue
		}
		if lh != h || lw != w {
			return 0, 0, errors.Wrapf(ErrInconsistentSpatialSize,
				"leaves report both (%d, %d) and (%d, %d)", h, w, lh, lw)
		}
	}
	if h < 0 {
		return 0, 0, errors.Wrap(ErrMissingRequiredLeaf, "no leaf carries a spatial size")
	}
	return h, w, nil
}

// FindBoundingBoxes returns the sample's bounding-box leaf. Samples carry at
// most one; transforms that need boxes fail with ErrMissingRequiredLeaf when
// none is present.
func FindBoundingBoxes(leaves []interface{}) (*datapoint.BoundingBoxes, error) {
	for _, leaf := range leaves {
		if b, ok := leaf.(*datapoint.BoundingBoxes); ok {
			return b, nil
		}
	}
	return nil, errors.Wrap(ErrMissingRequiredLeaf, "sample has no bounding boxes")
}

// HasKind reports whether any leaf is a typed value of the given kind.
func HasKind(leaves []interface{}, kind datapoint.Kind) bool {
	for _, leaf := range leaves {
		if d, ok := leaf.(datapoint.Datapoint); ok && d.Kind() == kind {
			return true
		}
	}
	return false
}

// IsTransformable reports whether a leaf is a value the kernels operate on:
// a typed datapoint, a plain tensor, or a decoded image.
func IsTransformable(leaf interface{}) bool {
	switch leaf.(type) {
	case datapoint.Datapoint, *tensor.Dense, image.Image:
		return true
	default:
		return false
	}
}
