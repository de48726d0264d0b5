package kernels

import (
	"math"
)

// Resampling follows the classic separable-filter construction: every output
// coordinate has a center in source space, and contributions are gathered
// from source pixels within the filter support around it. When antialiasing
// is enabled and the image shrinks, the support is widened by the scale
// factor so that every source pixel contributes.

func triangleFilter(x float64) float64 {
	if x < 0 {
		x = -x
	}
	if x < 1 {
		return 1 - x
	}
	return 0
}

// cubicFilter is the Catmull-Rom style cubic with a = -0.75.
func cubicFilter(x float64) float64 {
	const a = -0.75
	if x < 0 {
		x = -x
	}
	if x < 1 {
		return ((a+2)*x-(a+3))*x*x + 1
	}
	if x < 2 {
		return (((x-5)*x+8)*x - 4) * a
	}
	return 0
}

// axisWeights holds, for one output axis, the first contributing source index
// and the normalized weights of each output coordinate.
type axisWeights struct {
	first   []int
	weights [][]float64
}

func computeAxisWeights(in, out int, interp Interpolation, antialias bool) axisWeights {
	filter := triangleFilter
	support := 1.0
	if interp == Bicubic {
		filter = cubicFilter
		support = 2.0
	}

	scale := float64(in) / float64(out)
	filterScale := 1.0
	if antialias && scale > 1 {
		filterScale = scale
	}
	support *= filterScale

	aw := axisWeights{
		first:   make([]int, out),
		weights: make([][]float64, out),
	}
	for i := 0; i < out; i++ {
		center := (float64(i) + 0.5) * scale
		lo := int(center - support + 0.5)
		if lo < 0 {
			lo = 0
		}
		hi := int(center + support + 0.5)
		if hi > in {
			hi = in
		}
		if hi <= lo {
			// Degenerate support, fall back to the nearest pixel.
			lo = clampInt(int(center), 0, in-1)
			hi = lo + 1
		}
		ws := make([]float64, hi-lo)
		sum := 0.0
		for j := lo; j < hi; j++ {
			w := filter((float64(j) + 0.5 - center) / filterScale)
			ws[j-lo] = w
			sum += w
		}
		if sum != 0 {
			for k := range ws {
				ws[k] /= sum
			}
		}
		aw.first[i] = lo
		aw.weights[i] = ws
	}
	return aw
}

func nearestIndices(in, out int, interp Interpolation) []int {
	scale := float64(in) / float64(out)
	idx := make([]int, out)
	for i := 0; i < out; i++ {
		var j int
		if interp == NearestExact {
			j = int(math.Floor((float64(i) + 0.5) * scale))
		} else {
			j = int(math.Floor(float64(i) * scale))
		}
		idx[i] = clampInt(j, 0, in-1)
	}
	return idx
}

// resizePlane resamples a single (h, w) plane to (nh, nw).
func resizePlane(src []float64, h, w, nh, nw int, interp Interpolation, antialias bool) []float64 {
	if interp.isNearest() {
		ys := nearestIndices(h, nh, interp)
		xs := nearestIndices(w, nw, interp)
		dst := make([]float64, nh*nw)
		for y := 0; y < nh; y++ {
			row := src[ys[y]*w:]
			for x := 0; x < nw; x++ {
				dst[y*nw+x] = row[xs[x]]
			}
		}
		return dst
	}

	// Horizontal pass, then vertical.
	xw := computeAxisWeights(w, nw, interp, antialias)
	mid := make([]float64, h*nw)
	for y := 0; y < h; y++ {
		row := src[y*w : (y+1)*w]
		for x := 0; x < nw; x++ {
			acc := 0.0
			first := xw.first[x]
			for k, wgt := range xw.weights[x] {
				acc += row[first+k] * wgt
			}
			mid[y*nw+x] = acc
		}
	}
	yw := computeAxisWeights(h, nh, interp, antialias)
	dst := make([]float64, nh*nw)
	for y := 0; y < nh; y++ {
		first := yw.first[y]
		ws := yw.weights[y]
		for x := 0; x < nw; x++ {
			acc := 0.0
			for k, wgt := range ws {
				acc += mid[(first+k)*nw+x] * wgt
			}
			dst[y*nw+x] = acc
		}
	}
	return dst
}

// samplePlane reads the source plane at a fractional coordinate, returning
// fill for out-of-bounds reads. Only nearest and bilinear sampling are
// supported by the grid-based kernels (affine, rotate, perspective, elastic).
func samplePlane(src []float64, h, w int, sx, sy float64, interp Interpolation, fill float64) float64 {
	if interp.isNearest() {
		x := int(math.Floor(sx + 0.5))
		y := int(math.Floor(sy + 0.5))
		if x < 0 || y < 0 || x >= w || y >= h {
			return fill
		}
		return src[y*w+x]
	}

	x0 := int(math.Floor(sx))
	y0 := int(math.Floor(sy))
	fx := sx - float64(x0)
	fy := sy - float64(y0)

	get := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return fill
		}
		return src[y*w+x]
	}
	top := get(x0, y0)*(1-fx) + get(x0+1, y0)*fx
	bot := get(x0, y0+1)*(1-fx) + get(x0+1, y0+1)*fx
	return top*(1-fy) + bot*fy
}

func checkGridInterpolation(interp Interpolation) error {
	if interp.isNearest() || interp == Bilinear {
		return nil
	}
	return invalidArgf("interpolation %s is not supported for grid-sampled kernels", interp)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
