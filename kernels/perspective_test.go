package kernels

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/govision/govision/datapoint"
)

var unitSquare = [][2]float64{{0, 0}, {4, 0}, {4, 4}, {0, 4}}

func TestPerspectiveCoeffsIdentity(t *testing.T) {
	coeffs, err := PerspectiveCoeffs(unitSquare, unitSquare)
	test.That(t, err, test.ShouldBeNil)
	want := [8]float64{1, 0, 0, 0, 1, 0, 0, 0}
	for i := range coeffs {
		test.That(t, coeffs[i], test.ShouldAlmostEqual, want[i], 1e-9)
	}
}

func TestPerspectiveCoeffsTranslation(t *testing.T) {
	end := [][2]float64{{2, 3}, {6, 3}, {6, 7}, {2, 7}}
	coeffs, err := PerspectiveCoeffs(unitSquare, end)
	test.That(t, err, test.ShouldBeNil)
	x, y := applyHomography(coeffs, 1, 1)
	test.That(t, x, test.ShouldAlmostEqual, 3, 1e-9)
	test.That(t, y, test.ShouldAlmostEqual, 4, 1e-9)
}

func TestPerspectiveCoeffsBadPointCount(t *testing.T) {
	_, err := PerspectiveCoeffs(unitSquare[:3], unitSquare[:3])
	test.That(t, errors.Is(err, ErrInvalidArgument), test.ShouldBeTrue)
}

func TestPerspectiveCoeffsDegenerate(t *testing.T) {
	line := [][2]float64{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	_, err := PerspectiveCoeffs(line, line)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPerspectiveTensorIdentity(t *testing.T) {
	vals := seqVals(16)
	d := newDense([]int{1, 4, 4}, vals)
	out, err := PerspectiveTensor(d, unitSquare, unitSquare, Nearest, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Data(), test.ShouldResemble, vals)
}

func TestPerspectiveTensorRejectsBicubic(t *testing.T) {
	d := newDense([]int{1, 4, 4}, seqVals(16))
	_, err := PerspectiveTensor(d, unitSquare, unitSquare, Bicubic, nil)
	test.That(t, errors.Is(err, ErrInvalidArgument), test.ShouldBeTrue)
}

func TestPerspectiveBoundingBoxesTranslation(t *testing.T) {
	boxes, err := datapoint.NewBoundingBoxes(
		newDense([]int{1, 4}, []float64{1, 1, 4, 4}), datapoint.XYXY, 10, 10)
	test.That(t, err, test.ShouldBeNil)

	end := [][2]float64{{2, 3}, {6, 3}, {6, 7}, {2, 7}}
	out, err := PerspectiveBoundingBoxes(boxes, unitSquare, end)
	test.That(t, err, test.ShouldBeNil)
	got := out.Tensor().Data().([]float64)
	want := []float64{3, 4, 6, 7}
	for i := range want {
		test.That(t, got[i], test.ShouldAlmostEqual, want[i], 1e-9)
	}
}
