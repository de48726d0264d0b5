package kernels

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
)

func TestAffineIdentity(t *testing.T) {
	vals := seqVals(12)
	d := newDense([]int{1, 3, 4}, vals)
	out, err := AffineTensor(d, 0, [2]float64{0, 0}, 1, [2]float64{0, 0}, Nearest, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Data(), test.ShouldResemble, vals)
}

func TestAffineTranslate(t *testing.T) {
	d := newDense([]int{1, 1, 3}, []float64{1, 2, 3})
	out, err := AffineTensor(d, 0, [2]float64{1, 0}, 1, [2]float64{0, 0}, Nearest, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Data(), test.ShouldResemble, []float64{0, 1, 2})
}

func TestAffineBadScale(t *testing.T) {
	d := newDense([]int{1, 1, 3}, []float64{1, 2, 3})
	_, err := AffineTensor(d, 0, [2]float64{0, 0}, 0, [2]float64{0, 0}, Nearest, nil, nil)
	test.That(t, errors.Is(err, ErrInvalidArgument), test.ShouldBeTrue)
}

func TestAffineRejectsBicubic(t *testing.T) {
	d := newDense([]int{1, 1, 3}, []float64{1, 2, 3})
	_, err := AffineTensor(d, 0, [2]float64{0, 0}, 1, [2]float64{0, 0}, Bicubic, nil, nil)
	test.That(t, errors.Is(err, ErrInvalidArgument), test.ShouldBeTrue)
}

func TestAffineBoundingBoxesTranslate(t *testing.T) {
	boxes, err := datapoint.NewBoundingBoxes(
		newDense([]int{1, 4}, []float64{1, 1, 3, 3}), datapoint.XYXY, 10, 10)
	test.That(t, err, test.ShouldBeNil)

	out, err := AffineBoundingBoxes(boxes, 0, [2]float64{2, 0}, 1, [2]float64{0, 0}, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Tensor().Data(), test.ShouldResemble, []float64{3, 1, 5, 3})
}

func TestAffineBoundingBoxesClamped(t *testing.T) {
	boxes, err := datapoint.NewBoundingBoxes(
		newDense([]int{1, 4}, []float64{1, 1, 3, 3}), datapoint.XYXY, 10, 10)
	test.That(t, err, test.ShouldBeNil)

	out, err := AffineBoundingBoxes(boxes, 0, [2]float64{8, 0}, 1, [2]float64{0, 0}, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Tensor().Data(), test.ShouldResemble, []float64{9, 1, 10, 3})
}

func TestRotate90Expand(t *testing.T) {
	d := newDense([]int{1, 2, 2}, []float64{1, 2, 3, 4})
	out, err := RotateTensor(d, 90, Nearest, true, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Shape(), test.ShouldResemble, tensor.Shape{1, 2, 2})
	test.That(t, out.Data(), test.ShouldResemble, []float64{3, 1, 4, 2})
}

func TestRotateExpandSwapsCanvas(t *testing.T) {
	d := newDense([]int{1, 2, 3}, seqVals(6))
	out, err := RotateTensor(d, 90, Nearest, true, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Shape(), test.ShouldResemble, tensor.Shape{1, 3, 2})
}

func TestRotate360IsIdentity(t *testing.T) {
	vals := seqVals(9)
	d := newDense([]int{1, 3, 3}, vals)
	out, err := RotateTensor(d, 360, Nearest, false, nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Data(), test.ShouldResemble, vals)
}

func TestRotateExpandWithCenterFails(t *testing.T) {
	d := newDense([]int{1, 2, 2}, []float64{1, 2, 3, 4})
	_, err := RotateTensor(d, 45, Nearest, true, &[2]float64{0, 0}, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, ErrInvalidArgument), test.ShouldBeTrue)
}

func TestRotateBoundingBoxesExpand(t *testing.T) {
	boxes, err := datapoint.NewBoundingBoxes(
		newDense([]int{1, 4}, []float64{0, 0, 1, 1}), datapoint.XYXY, 2, 4)
	test.That(t, err, test.ShouldBeNil)

	out, err := RotateBoundingBoxes(boxes, 90, true, nil)
	test.That(t, err, test.ShouldBeNil)
	h, w := out.SpatialSize()
	test.That(t, h, test.ShouldEqual, 4)
	test.That(t, w, test.ShouldEqual, 2)
	test.That(t, out.Tensor().Data(), test.ShouldResemble, []float64{1, 0, 2, 1})
}
