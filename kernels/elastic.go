package kernels

import (
	"math"
	"math/rand"

	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
)

// gaussianKernel1D builds a normalized 1-d gaussian of the given size.
func gaussianKernel1D(size int, sigma float64) []float64 {
	k := make([]float64, size)
	half := float64(size-1) / 2
	sum := 0.0
	for i := range k {
		x := (float64(i) - half) / sigma
		k[i] = math.Exp(-0.5 * x * x)
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// gaussianBlurPlane runs a separable gaussian over one plane with symmetric
// border handling.
func gaussianBlurPlane(src []float64, h, w int, kernel []float64) []float64 {
	half := len(kernel) / 2
	mid := make([]float64, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0.0
			for k, kv := range kernel {
				sx := reflectIndex(x+k-half, w, true)
				acc += src[y*w+sx] * kv
			}
			mid[y*w+x] = acc
		}
	}
	dst := make([]float64, h*w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0.0
			for k, kv := range kernel {
				sy := reflectIndex(y+k-half, h, true)
				acc += mid[sy*w+x] * kv
			}
			dst[y*w+x] = acc
		}
	}
	return dst
}

// ElasticDisplacement generates a smooth per-pixel displacement field for an
// (h, w) plane: uniform noise in [-1, 1] blurred by a gaussian of the given
// sigma and scaled by alpha. The returned slice holds (dx, dy) pixel offsets
// per pixel, length h*w*2. Generating the field once and sharing it across a
// sample's leaves keeps paired images and masks spatially consistent.
func ElasticDisplacement(h, w int, alpha, sigma [2]float64, rnd *rand.Rand) []float64 {
	uniform := rand.Float64
	if rnd != nil {
		uniform = rnd.Float64
	}
	axis := func(alphaV, sigmaV float64) []float64 {
		noise := make([]float64, h*w)
		for i := range noise {
			noise[i] = uniform()*2 - 1
		}
		if sigmaV > 0 {
			size := int(8*sigmaV + 1)
			if size%2 == 0 {
				size++
			}
			noise = gaussianBlurPlane(noise, h, w, gaussianKernel1D(size, sigmaV))
		}
		for i := range noise {
			noise[i] *= alphaV / 2
		}
		return noise
	}
	dx := axis(alpha[0], sigma[0])
	dy := axis(alpha[1], sigma[1])
	disp := make([]float64, h*w*2)
	for i := 0; i < h*w; i++ {
		disp[2*i] = dx[i]
		disp[2*i+1] = dy[i]
	}
	return disp
}

// ElasticTensor resamples every plane through the displacement field:
// output (x, y) reads the source at (x + dx, y + dy).
func ElasticTensor(d *tensor.Dense, displacement []float64, interp Interpolation, fill Fill) (*tensor.Dense, error) {
	if err := checkGridInterpolation(interp); err != nil {
		return nil, err
	}
	p, err := asPlanes(d)
	if err != nil {
		return nil, err
	}
	if len(displacement) != p.h*p.w*2 {
		return nil, invalidArgf("displacement has %d values, want %d for size (%d, %d)",
			len(displacement), p.h*p.w*2, p.h, p.w)
	}
	if err := fill.validate(p.channels()); err != nil {
		return nil, err
	}
	out := p.eachPlane(p.h, p.w, func(plane int, src, dst []float64) {
		fillVal := fill.forChannel(p.channelOf(plane))
		for y := 0; y < p.h; y++ {
			for x := 0; x < p.w; x++ {
				i := y*p.w + x
				sx := float64(x) + displacement[2*i]
				sy := float64(y) + displacement[2*i+1]
				dst[i] = samplePlane(src, p.h, p.w, sx, sy, interp, fillVal)
			}
		}
	})
	return p.build(out, p.h, p.w)
}

// ElasticImage resamples an image through the displacement field.
func ElasticImage(img *datapoint.Image, displacement []float64, interp Interpolation, fill Fill) (*datapoint.Image, error) {
	out, err := ElasticTensor(img.Tensor(), displacement, interp, fill)
	if err != nil {
		return nil, err
	}
	return datapoint.NewImageLike(img, out)
}

// ElasticVideo resamples every frame through the displacement field.
func ElasticVideo(v *datapoint.Video, displacement []float64, interp Interpolation, fill Fill) (*datapoint.Video, error) {
	out, err := ElasticTensor(v.Tensor(), displacement, interp, fill)
	if err != nil {
		return nil, err
	}
	return datapoint.NewVideoLike(v, out)
}

// ElasticMask resamples a mask through the displacement field,
// nearest-neighbor so labels stay categorical.
func ElasticMask(m *datapoint.Mask, displacement []float64) (*datapoint.Mask, error) {
	out, err := ElasticTensor(m.Tensor(), displacement, Nearest, nil)
	if err != nil {
		return nil, err
	}
	return datapoint.NewMaskLike(m, out)
}
