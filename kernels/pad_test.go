package kernels

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"gorgonia.org/tensor"
)

func TestParsePadding(t *testing.T) {
	l, tp, r, b, err := ParsePadding([]int{3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, []int{l, tp, r, b}, test.ShouldResemble, []int{3, 3, 3, 3})

	l, tp, r, b, err = ParsePadding([]int{1, 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, []int{l, tp, r, b}, test.ShouldResemble, []int{1, 2, 1, 2})

	l, tp, r, b, err = ParsePadding([]int{1, 2, 3, 4})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, []int{l, tp, r, b}, test.ShouldResemble, []int{1, 2, 3, 4})

	_, _, _, _, err = ParsePadding([]int{1, 2, 3})
	test.That(t, errors.Is(err, ErrInvalidArgument), test.ShouldBeTrue)
}

func TestPadConstantPerChannelFill(t *testing.T) {
	d := newDense([]int{2, 1, 1}, []float64{9, 9})
	out, err := PadTensor(d, []int{1}, Fill{5, 7}, PadConstant)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Shape(), test.ShouldResemble, tensor.Shape{2, 3, 3})
	test.That(t, out.Data(), test.ShouldResemble, []float64{
		5, 5, 5, 5, 9, 5, 5, 5, 5,
		7, 7, 7, 7, 9, 7, 7, 7, 7,
	})
}

func TestPadFillLengthMismatch(t *testing.T) {
	d := newDense([]int{3, 1, 1}, []float64{1, 2, 3})
	_, err := PadTensor(d, []int{1}, Fill{5, 7}, PadConstant)
	test.That(t, errors.Is(err, ErrInvalidArgument), test.ShouldBeTrue)
}

func TestPadEdge(t *testing.T) {
	d := newDense([]int{1, 1, 2}, []float64{1, 2})
	out, err := PadTensor(d, []int{1, 0}, nil, PadEdge)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Data(), test.ShouldResemble, []float64{1, 1, 2, 2})
}

func TestPadReflect(t *testing.T) {
	d := newDense([]int{1, 1, 3}, []float64{1, 2, 3})
	out, err := PadTensor(d, []int{2, 0}, nil, PadReflect)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Data(), test.ShouldResemble, []float64{3, 2, 1, 2, 3, 2, 1})
}

func TestPadSymmetric(t *testing.T) {
	d := newDense([]int{1, 1, 3}, []float64{1, 2, 3})
	out, err := PadTensor(d, []int{2, 0}, nil, PadSymmetric)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Data(), test.ShouldResemble, []float64{2, 1, 1, 2, 3, 3, 2})
}

func TestPadReflectRejectsNegative(t *testing.T) {
	d := newDense([]int{1, 2, 2}, []float64{1, 2, 3, 4})
	_, err := PadTensor(d, []int{-1, 0}, nil, PadReflect)
	test.That(t, errors.Is(err, ErrInvalidArgument), test.ShouldBeTrue)
}

func TestPadReflectRejectsOversize(t *testing.T) {
	d := newDense([]int{1, 2, 2}, []float64{1, 2, 3, 4})
	_, err := PadTensor(d, []int{2, 0}, nil, PadReflect)
	test.That(t, errors.Is(err, ErrInvalidArgument), test.ShouldBeTrue)
}

func TestPadNegativeCrops(t *testing.T) {
	d := newDense([]int{1, 3, 3}, seqVals(9))
	out, err := PadTensor(d, []int{-1}, nil, PadConstant)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Shape(), test.ShouldResemble, tensor.Shape{1, 1, 1})
	test.That(t, out.Data(), test.ShouldResemble, []float64{4})
}
