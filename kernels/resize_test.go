package kernels

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
)

func newDense(shape []int, vals []float64) *tensor.Dense {
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(vals))
}

func seqVals(n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i)
	}
	return vals
}

func TestComputeResizedOutputSize(t *testing.T) {
	t.Run("shorter edge", func(t *testing.T) {
		h, w, err := ComputeResizedOutputSize(100, 300, []int{50}, 0)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, h, test.ShouldEqual, 50)
		test.That(t, w, test.ShouldEqual, 150)
	})

	t.Run("max size caps the longer edge", func(t *testing.T) {
		h, w, err := ComputeResizedOutputSize(300, 100, []int{100}, 150)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, h, test.ShouldEqual, 150)
		test.That(t, w, test.ShouldEqual, 50)
	})

	t.Run("max size not exceeded", func(t *testing.T) {
		h, w, err := ComputeResizedOutputSize(100, 120, []int{50}, 100)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, h, test.ShouldEqual, 50)
		test.That(t, w, test.ShouldEqual, 60)
	})

	t.Run("max size below requested size", func(t *testing.T) {
		_, _, err := ComputeResizedOutputSize(300, 100, []int{100}, 100)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errors.Is(err, ErrInvalidArgument), test.ShouldBeTrue)
	})

	t.Run("exact size", func(t *testing.T) {
		h, w, err := ComputeResizedOutputSize(100, 300, []int{40, 70}, 0)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, h, test.ShouldEqual, 40)
		test.That(t, w, test.ShouldEqual, 70)
	})

	t.Run("max size with exact size", func(t *testing.T) {
		_, _, err := ComputeResizedOutputSize(100, 300, []int{40, 70}, 200)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, errors.Is(err, ErrInvalidArgument), test.ShouldBeTrue)
	})

	t.Run("bad size", func(t *testing.T) {
		_, _, err := ComputeResizedOutputSize(100, 300, []int{0}, 0)
		test.That(t, errors.Is(err, ErrInvalidArgument), test.ShouldBeTrue)
		_, _, err = ComputeResizedOutputSize(100, 300, []int{1, 2, 3}, 0)
		test.That(t, errors.Is(err, ErrInvalidArgument), test.ShouldBeTrue)
	})
}

func TestResizeIdentity(t *testing.T) {
	d := newDense([]int{1, 2, 3}, seqVals(6))
	out, err := ResizeTensor(d, []int{2, 3}, Nearest, 0, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldEqual, d)

	outExact, err := ResizeTensor(d, []int{2, 3}, NearestExact, 0, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, outExact, test.ShouldEqual, d)
}

func TestResizeNearestDownscale(t *testing.T) {
	// 1x4 plane halved with the historical rounding picks indices 0 and 2.
	d := newDense([]int{1, 1, 4}, []float64{10, 20, 30, 40})
	out, err := ResizeTensor(d, []int{1, 2}, Nearest, 0, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Shape(), test.ShouldResemble, tensor.Shape{1, 1, 2})
	test.That(t, out.Data(), test.ShouldResemble, []float64{10, 30})
}

func TestResizeBilinearAverage(t *testing.T) {
	// Halving a 2x2 plane with antialias averages the four pixels.
	d := newDense([]int{1, 2, 2}, []float64{0, 2, 4, 6})
	out, err := ResizeTensor(d, []int{1, 1}, Bilinear, 0, true)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Data(), test.ShouldResemble, []float64{3})
}

func TestResizeBatchEquivalence(t *testing.T) {
	single := seqVals(3 * 4 * 6)
	one := newDense([]int{3, 4, 6}, single)
	want, err := ResizeTensor(one, []int{2, 3}, Bilinear, 0, true)
	test.That(t, err, test.ShouldBeNil)
	wantVals := want.Data().([]float64)

	for _, n := range []int{1, 4, 7} {
		batchVals := make([]float64, 0, n*len(single))
		for i := 0; i < n; i++ {
			batchVals = append(batchVals, single...)
		}
		batch := newDense([]int{n, 3, 4, 6}, batchVals)
		out, err := ResizeTensor(batch, []int{2, 3}, Bilinear, 0, true)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.Shape(), test.ShouldResemble, tensor.Shape{n, 3, 2, 3})
		outVals := out.Data().([]float64)
		for i := 0; i < n; i++ {
			test.That(t, outVals[i*len(wantVals):(i+1)*len(wantVals)], test.ShouldResemble, wantVals)
		}
	}
}

func TestResizeBoundingBoxesMatchesImage(t *testing.T) {
	boxes, err := datapoint.NewBoundingBoxes(
		newDense([]int{1, 4}, []float64{10, 10, 50, 50}), datapoint.XYXY, 100, 100)
	test.That(t, err, test.ShouldBeNil)

	out, err := ResizeBoundingBoxes(boxes, []int{50}, 0)
	test.That(t, err, test.ShouldBeNil)
	h, w := out.SpatialSize()
	test.That(t, h, test.ShouldEqual, 50)
	test.That(t, w, test.ShouldEqual, 50)
	test.That(t, out.Tensor().Data(), test.ShouldResemble, []float64{5, 5, 25, 25})

	img, err := datapoint.NewImage(newDense([]int{3, 100, 100}, seqVals(3*100*100)))
	test.That(t, err, test.ShouldBeNil)
	outImg, err := ResizeImage(img, []int{50}, Bilinear, 0, true)
	test.That(t, err, test.ShouldBeNil)
	ih, iw := outImg.SpatialSize()
	test.That(t, ih, test.ShouldEqual, h)
	test.That(t, iw, test.ShouldEqual, w)
}

func TestResizeMaskStaysNearest(t *testing.T) {
	// A two-label mask must never produce values outside the label set.
	m, err := datapoint.NewMask(newDense([]int{4, 4}, []float64{
		0, 0, 7, 7,
		0, 0, 7, 7,
		7, 7, 0, 0,
		7, 7, 0, 0,
	}))
	test.That(t, err, test.ShouldBeNil)
	out, err := ResizeMask(m, []int{2, 2}, 0)
	test.That(t, err, test.ShouldBeNil)
	for _, v := range out.Tensor().Data().([]float64) {
		test.That(t, v == 0 || v == 7, test.ShouldBeTrue)
	}
}

func TestResizedCropComposes(t *testing.T) {
	d := newDense([]int{1, 4, 4}, seqVals(16))
	direct, err := CropTensor(d, 1, 1, 2, 2)
	test.That(t, err, test.ShouldBeNil)
	resized, err := ResizeTensor(direct, []int{4, 4}, Bilinear, 0, false)
	test.That(t, err, test.ShouldBeNil)

	fused, err := ResizedCropTensor(d, 1, 1, 2, 2, []int{4, 4}, Bilinear, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, fused.Data(), test.ShouldResemble, resized.Data())
}
