package dispatch_test

import (
	"image"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
	"github.com/govision/govision/dispatch"
)

func newImage(t *testing.T) *datapoint.Image {
	t.Helper()
	img, err := datapoint.NewImage(tensor.New(
		tensor.WithShape(3, 2, 2), tensor.WithBacking(make([]float64, 12))))
	test.That(t, err, test.ShouldBeNil)
	return img
}

func newMask(t *testing.T) *datapoint.Mask {
	t.Helper()
	m, err := datapoint.NewMask(tensor.New(
		tensor.WithShape(2, 2), tensor.WithBacking(make([]float64, 4))))
	test.That(t, err, test.ShouldBeNil)
	return m
}

func TestDispatchExactKindMatching(t *testing.T) {
	called := 0
	dispatch.RegisterKernel("test_exact", datapoint.KindImage, func(in, _ interface{}) (interface{}, error) {
		called++
		return in, nil
	})

	img := newImage(t)
	out, err := dispatch.Call("test_exact", img, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldEqual, img)
	test.That(t, called, test.ShouldEqual, 1)

	// The image kernel must not run for plain tensors or for other kinds.
	_, err = dispatch.Call("test_exact", img.Tensor(), nil)
	test.That(t, errors.Is(err, dispatch.ErrUnsupportedInputType), test.ShouldBeTrue)
	_, err = dispatch.Call("test_exact", newMask(t), nil)
	test.That(t, errors.Is(err, dispatch.ErrUnsupportedInputType), test.ShouldBeTrue)
	test.That(t, called, test.ShouldEqual, 1)
}

func TestDispatchPlainAndNativeSlots(t *testing.T) {
	dispatch.RegisterPlainKernel("test_slots", func(in, _ interface{}) (interface{}, error) {
		return "plain", nil
	})
	dispatch.RegisterImageKernel("test_slots", func(in, _ interface{}) (interface{}, error) {
		return "native", nil
	})

	out, err := dispatch.Call("test_slots", newImage(t).Tensor(), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldEqual, "plain")

	out, err = dispatch.Call("test_slots", image.NewNRGBA(image.Rect(0, 0, 2, 2)), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldEqual, "native")

	_, err = dispatch.Call("test_slots", newImage(t), nil)
	test.That(t, errors.Is(err, dispatch.ErrUnsupportedInputType), test.ShouldBeTrue)
}

func TestDispatchUnknownOperation(t *testing.T) {
	_, err := dispatch.Call("test_never_registered", newImage(t), nil)
	test.That(t, errors.Is(err, dispatch.ErrUnsupportedInputType), test.ShouldBeTrue)
}

func TestDispatchUnknownValueType(t *testing.T) {
	dispatch.RegisterPlainKernel("test_value_type", func(in, _ interface{}) (interface{}, error) {
		return in, nil
	})
	_, err := dispatch.Call("test_value_type", 42, nil)
	test.That(t, errors.Is(err, dispatch.ErrUnsupportedInputType), test.ShouldBeTrue)
}

func TestDispatchKernelErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	dispatch.RegisterPlainKernel("test_error", func(in, _ interface{}) (interface{}, error) {
		return nil, boom
	})
	_, err := dispatch.Call("test_error", newImage(t).Tensor(), nil)
	test.That(t, errors.Is(err, boom), test.ShouldBeTrue)
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	dispatch.RegisterKernel("test_dup", datapoint.KindImage, func(in, _ interface{}) (interface{}, error) {
		return in, nil
	})
	test.That(t, func() {
		dispatch.RegisterKernel("test_dup", datapoint.KindImage, func(in, _ interface{}) (interface{}, error) {
			return in, nil
		})
	}, test.ShouldPanic)
}

func TestSupports(t *testing.T) {
	dispatch.RegisterKernel("test_supports", datapoint.KindImage, func(in, _ interface{}) (interface{}, error) {
		return in, nil
	})
	test.That(t, dispatch.Supports("test_supports", newImage(t)), test.ShouldBeTrue)
	test.That(t, dispatch.Supports("test_supports", newImage(t).Tensor()), test.ShouldBeFalse)
	test.That(t, dispatch.Supports("test_supports", newMask(t)), test.ShouldBeFalse)
	test.That(t, dispatch.Supports("test_missing", newImage(t)), test.ShouldBeFalse)
}
