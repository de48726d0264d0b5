// Package transforms composes randomized sample-level augmentations on top
// of the kernels package. A transform receives a whole sample tree, draws
// its random parameters once, and applies the same parameters to every leaf
// it is interested in, so paired leaves (an image and its boxes) stay
// geometrically consistent.
package transforms

import (
	"image"
	"math"
	"math/rand"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
	"github.com/govision/govision/kernels"
	"github.com/govision/govision/sample"
)

// Transform rewrites a sample tree. Implementations never mutate the input
// sample; leaves they do not touch are carried over as-is.
type Transform interface {
	Apply(s interface{}) (interface{}, error)
}

// interest selects which leaves a transform operates on. Leaves outside the
// set pass through untouched.
type interest struct {
	kinds  map[datapoint.Kind]bool
	plain  bool
	native bool
}

func allLeaves() interest {
	return interest{
		kinds: map[datapoint.Kind]bool{
			datapoint.KindImage:         true,
			datapoint.KindVideo:         true,
			datapoint.KindMask:          true,
			datapoint.KindBoundingBoxes: true,
		},
		plain:  true,
		native: true,
	}
}

func pixelLeaves() interest {
	in := allLeaves()
	in.kinds[datapoint.KindBoundingBoxes] = false
	return in
}

func tensorLeaves() interest {
	in := allLeaves()
	in.native = false
	return in
}

func (in interest) matches(leaf interface{}) bool {
	switch v := leaf.(type) {
	case datapoint.Datapoint:
		return in.kinds[v.Kind()]
	case *tensor.Dense:
		return in.plain
	case image.Image:
		return in.native
	default:
		return false
	}
}

// applyLeaves flattens the sample, rewrites every leaf the interest set
// matches, and reassembles the tree. When no leaf matches, the original
// sample is returned untouched with no further work done.
func applyLeaves(s interface{}, in interest, fn func(leaf interface{}) (interface{}, error)) (interface{}, error) {
	leaves, tree := sample.Flatten(s)
	matched := false
	for i, leaf := range leaves {
		if !in.matches(leaf) {
			continue
		}
		out, err := fn(leaf)
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

// matchedLeaves flattens the sample and reports whether any leaf matches the
// interest set. ok is false when none does; the caller then returns the
// sample unchanged without drawing any random parameters.
func matchedLeaves(s interface{}, in interest) (leaves []interface{}, tree *sample.Tree, ok bool) {
	leaves, tree = sample.Flatten(s)
	for _, leaf := range leaves {
		if in.matches(leaf) {
			return leaves, tree, true
		}
	}
	return leaves, tree, false
}

// sampleSize flattens the sample and returns its shared spatial size along
// with the leaves and tree for the caller to finish the walk. ok is false
// when no leaf matches the interest set; the caller then returns the sample
// unchanged.
func sampleSize(s interface{}, in interest) (leaves []interface{}, tree *sample.Tree, h, w int, ok bool, err error) {
	leaves, tree, ok = matchedLeaves(s, in)
	if !ok {
		return leaves, tree, 0, 0, false, nil
	}
	h, w, err = sample.SpatialSize(leaves)
	return leaves, tree, h, w, ok, err
}

func rewriteLeaves(
	leaves []interface{}, tree *sample.Tree, in interest,
	fn func(leaf interface{}) (interface{}, error),
) (interface{}, error) {
	for i, leaf := range leaves {
		if !in.matches(leaf) {
			continue
		}
		out, err := fn(leaf)
		if err != nil {
			return nil, err
		}
		leaves[i] = out
	}
	return tree.Unflatten(leaves)
}

// chooser draws random parameters from an injected source, falling back to
// the process-wide source when none was set.
type chooser struct {
	rnd *rand.Rand
}

func (c chooser) float64() float64 {
	if c.rnd != nil {
		return c.rnd.Float64()
	}
	return rand.Float64()
}

func (c chooser) norm() float64 {
	if c.rnd != nil {
		return c.rnd.NormFloat64()
	}
	return rand.NormFloat64()
}

func (c chooser) intn(n int) int {
	if c.rnd != nil {
		return c.rnd.Intn(n)
	}
	return rand.Intn(n)
}

func (c chooser) uniform(lo, hi float64) float64 {
	return lo + c.float64()*(hi-lo)
}

func (c chooser) logUniform(lo, hi float64) float64 {
	return math.Exp(c.uniform(math.Log(lo), math.Log(hi)))
}

// orderedRange normalizes a (lo, hi) pair, swapping and warning when the
// caller passed them inverted.
func orderedRange(name string, r [2]float64) [2]float64 {
	if r[0] > r[1] {
		golog.Global().Warnf("%s range (%v, %v) is inverted; swapping", name, r[0], r[1])
		r[0], r[1] = r[1], r[0]
	}
	return r
}

func checkProbability(p float64) error {
	if p < 0 || p > 1 {
		return errors.Wrapf(kernels.ErrInvalidArgument, "probability must be in [0, 1], got %v", p)
	}
	return nil
}

// Compose chains transforms, feeding each one's output to the next. The
// first error aborts the chain.
type Compose struct {
	Transforms []Transform
}

// NewCompose builds a sequential pipeline.
func NewCompose(ts ...Transform) *Compose {
	return &Compose{Transforms: ts}
}

// Apply runs every transform in order.
func (c *Compose) Apply(s interface{}) (interface{}, error) {
	var err error
	for _, t := range c.Transforms {
		if s, err = t.Apply(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// RandomApply runs the wrapped transform with probability P and otherwise
// returns the sample untouched. A skipped call is a true no-op: the sample
// tree is not even walked.
type RandomApply struct {
	Transform Transform
	P         float64
	Rand      *rand.Rand
}

// NewRandomApply wraps t to run with probability p.
func NewRandomApply(t Transform, p float64) (*RandomApply, error) {
	if err := checkProbability(p); err != nil {
		return nil, err
	}
	return &RandomApply{Transform: t, P: p}, nil
}

// Apply flips the coin and delegates or skips.
func (r *RandomApply) Apply(s interface{}) (interface{}, error) {
	c := chooser{rnd: r.Rand}
	if c.float64() >= r.P {
		return s, nil
	}
	return r.Transform.Apply(s)
}

// RandomChoice picks one of its transforms per call. Weights, when set,
// bias the pick and must match the transform count; they need not sum to 1.
type RandomChoice struct {
	Transforms []Transform
	Weights    []float64
	Rand       *rand.Rand
}

// NewRandomChoice builds a uniform random picker over ts.
func NewRandomChoice(ts ...Transform) *RandomChoice {
	return &RandomChoice{Transforms: ts}
}

// Apply delegates to one randomly chosen transform.
func (r *RandomChoice) Apply(s interface{}) (interface{}, error) {
	if len(r.Transforms) == 0 {
		return s, nil
	}
	c := chooser{rnd: r.Rand}
	if len(r.Weights) == 0 {
		return r.Transforms[c.intn(len(r.Transforms))].Apply(s)
	}
	if len(r.Weights) != len(r.Transforms) {
		return nil, errors.Wrapf(kernels.ErrInvalidArgument,
			"got %d weights for %d transforms", len(r.Weights), len(r.Transforms))
	}
	total := 0.0
	for _, w := range r.Weights {
		if w < 0 {
			return nil, errors.Wrapf(kernels.ErrInvalidArgument, "weights must be non-negative, got %v", w)
		}
		total += w
	}
	if total == 0 {
		return nil, errors.Wrap(kernels.ErrInvalidArgument, "weights sum to zero")
	}
	pick := c.float64() * total
	for i, w := range r.Weights {
		pick -= w
		if pick < 0 {
			return r.Transforms[i].Apply(s)
		}
	}
	return r.Transforms[len(r.Transforms)-1].Apply(s)
}

// RandomOrder runs all of its transforms in a freshly shuffled order per
// call.
type RandomOrder struct {
	Transforms []Transform
	Rand       *rand.Rand
}

// NewRandomOrder builds a shuffled sequential pipeline.
func NewRandomOrder(ts ...Transform) *RandomOrder {
	return &RandomOrder{Transforms: ts}
}

// Apply runs every transform once in random order.
func (r *RandomOrder) Apply(s interface{}) (interface{}, error) {
	c := chooser{rnd: r.Rand}
	order := make([]int, len(r.Transforms))
	for i := range order {
		order[i] = i
	}
	for i := len(order) - 1; i > 0; i-- {
		j := c.intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	var err error
	for _, i := range order {
		if s, err = r.Transforms[i].Apply(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Lambda adapts a plain function over whole samples into a Transform.
type Lambda struct {
	Func func(s interface{}) (interface{}, error)
}

// Apply invokes the wrapped function.
func (l *Lambda) Apply(s interface{}) (interface{}, error) {
	return l.Func(s)
}
