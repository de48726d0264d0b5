package kernels

import (
	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
)

// planes is the working representation of a tensor-backed value: a float64
// copy of the data viewed as a stack of (H, W) planes, one per combination of
// the leading dimensions. Channel, time and batch dimensions all land in the
// leading stack, which is what makes every plane kernel batch-generic.
type planes struct {
	vals  []float64
	shape []int
	lead  int
	h, w  int
	src   *tensor.Dense
}

func asPlanes(d *tensor.Dense) (*planes, error) {
	shape := d.Shape()
	if len(shape) < 2 {
		return nil, invalidArgf("expected at least 2 dimensions, got shape %v", shape)
	}
	vals, err := datapoint.TensorFloats(d)
	if err != nil {
		return nil, err
	}
	lead := 1
	for _, s := range shape[:len(shape)-2] {
		lead *= s
	}
	return &planes{
		vals:  vals,
		shape: append([]int(nil), shape...),
		lead:  lead,
		h:     shape[len(shape)-2],
		w:     shape[len(shape)-1],
		src:   d,
	}, nil
}

// channels returns the size of the channel dimension, the last leading one.
// Rank-2 inputs count as single channel.
func (p *planes) channels() int {
	if len(p.shape) < 3 {
		return 1
	}
	return p.shape[len(p.shape)-3]
}

// channelOf maps a plane index to its channel index.
func (p *planes) channelOf(plane int) int {
	return plane % p.channels()
}

// plane returns the sub-slice holding plane i.
func (p *planes) plane(i int) []float64 {
	n := p.h * p.w
	return p.vals[i*n : (i+1)*n]
}

// build converts transformed plane data of spatial size (nh, nw) back into a
// tensor with the source's dtype and leading dimensions.
func (p *planes) build(vals []float64, nh, nw int) (*tensor.Dense, error) {
	shape := append([]int(nil), p.shape[:len(p.shape)-2]...)
	shape = append(shape, nh, nw)
	return datapoint.TensorFromFloats(p.src, vals, shape...)
}

// eachPlane applies fn to every (H, W) plane, writing results of size
// (nh, nw) into a freshly allocated output stack.
func (p *planes) eachPlane(nh, nw int, fn func(plane int, src, dst []float64)) []float64 {
	out := make([]float64, p.lead*nh*nw)
	n := nh * nw
	for i := 0; i < p.lead; i++ {
		fn(i, p.plane(i), out[i*n:(i+1)*n])
	}
	return out
}
