package transforms_test

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
	"github.com/govision/govision/dispatch"
	"github.com/govision/govision/transforms"
)

func newMask(t *testing.T, h, w int) *datapoint.Mask {
	t.Helper()
	m, err := datapoint.NewMask(tensor.New(
		tensor.WithShape(h, w), tensor.WithBacking(make([]float64, h*w))))
	test.That(t, err, test.ShouldBeNil)
	return m
}

func TestResizeShorterEdgeWithMaxSize(t *testing.T) {
	r := transforms.NewResize(100)
	r.MaxSize = 150
	s := map[string]interface{}{
		"image": newImage(t, 300, 100, nil),
		"boxes": newBoxes(t, 300, 100, []float64{10, 30, 50, 90}),
	}
	out, err := r.Apply(s)
	test.That(t, err, test.ShouldBeNil)

	h, w := imageOf(t, out, "image").SpatialSize()
	test.That(t, h, test.ShouldEqual, 150)
	test.That(t, w, test.ShouldEqual, 50)
	bh, bw := boxesOf(t, out, "boxes").SpatialSize()
	test.That(t, bh, test.ShouldEqual, 150)
	test.That(t, bw, test.ShouldEqual, 50)
	test.That(t, boxesOf(t, out, "boxes").Tensor().Data(), test.ShouldResemble, []float64{5, 15, 25, 45})
}

func TestResizeTouchesEveryLeafKind(t *testing.T) {
	s := map[string]interface{}{
		"image": newImage(t, 100, 100, nil),
		"mask":  newMask(t, 100, 100),
		"boxes": newBoxes(t, 100, 100, []float64{10, 10, 50, 50}),
		"label": 3,
	}
	out, err := transforms.NewResize(50).Apply(s)
	test.That(t, err, test.ShouldBeNil)

	for _, key := range []string{"image", "mask", "boxes"} {
		d, ok := out.(map[string]interface{})[key].(datapoint.Datapoint)
		test.That(t, ok, test.ShouldBeTrue)
		h, w := d.SpatialSize()
		test.That(t, h, test.ShouldEqual, 50)
		test.That(t, w, test.ShouldEqual, 50)
	}
	test.That(t, out.(map[string]interface{})["label"], test.ShouldEqual, 3)
}

func TestPadTransform(t *testing.T) {
	p := transforms.NewPad(2, 1)
	out, err := p.Apply(map[string]interface{}{"image": newImage(t, 4, 4, nil)})
	test.That(t, err, test.ShouldBeNil)
	h, w := imageOf(t, out, "image").SpatialSize()
	test.That(t, h, test.ShouldEqual, 6)
	test.That(t, w, test.ShouldEqual, 8)
}

func TestRandomCropStaysInsideInput(t *testing.T) {
	crop, err := transforms.NewRandomCrop(2, 2)
	test.That(t, err, test.ShouldBeNil)
	crop.Rand = rand.New(rand.NewSource(3))

	vals := make([]float64, 3*4*4)
	for i := range vals {
		vals[i] = 1
	}
	s := map[string]interface{}{"image": newImage(t, 4, 4, vals)}
	for i := 0; i < 50; i++ {
		out, err := crop.Apply(s)
		test.That(t, err, test.ShouldBeNil)
		img := imageOf(t, out, "image")
		h, w := img.SpatialSize()
		test.That(t, h, test.ShouldEqual, 2)
		test.That(t, w, test.ShouldEqual, 2)
		for _, v := range img.Tensor().Data().([]float64) {
			test.That(t, v, test.ShouldEqual, 1)
		}
	}
}

func TestRandomCropPadIfNeeded(t *testing.T) {
	crop, err := transforms.NewRandomCrop(6, 6)
	test.That(t, err, test.ShouldBeNil)
	crop.PadIfNeeded = true
	out, err := crop.Apply(map[string]interface{}{"image": newImage(t, 4, 4, nil)})
	test.That(t, err, test.ShouldBeNil)
	h, w := imageOf(t, out, "image").SpatialSize()
	test.That(t, h, test.ShouldEqual, 6)
	test.That(t, w, test.ShouldEqual, 6)
}

func TestRandomCropTooLargeWithoutPadding(t *testing.T) {
	crop, err := transforms.NewRandomCrop(6, 6)
	test.That(t, err, test.ShouldBeNil)
	_, err = crop.Apply(map[string]interface{}{"image": newImage(t, 4, 4, nil)})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRandomResizedCropOutputSize(t *testing.T) {
	crop := transforms.NewRandomResizedCrop(5, 5)
	crop.Rand = rand.New(rand.NewSource(9))
	s := map[string]interface{}{
		"image": newImage(t, 32, 32, nil),
		"boxes": newBoxes(t, 32, 32, []float64{4, 4, 20, 20}),
	}
	for i := 0; i < 20; i++ {
		out, err := crop.Apply(s)
		test.That(t, err, test.ShouldBeNil)
		h, w := imageOf(t, out, "image").SpatialSize()
		test.That(t, h, test.ShouldEqual, 5)
		test.That(t, w, test.ShouldEqual, 5)
		bh, bw := boxesOf(t, out, "boxes").SpatialSize()
		test.That(t, bh, test.ShouldEqual, 5)
		test.That(t, bw, test.ShouldEqual, 5)
	}
}

func TestRandomRotationFullTurnKeepsSize(t *testing.T) {
	rot := transforms.NewRandomRotation(360, 360)
	out, err := rot.Apply(map[string]interface{}{"image": newImage(t, 6, 8, nil)})
	test.That(t, err, test.ShouldBeNil)
	h, w := imageOf(t, out, "image").SpatialSize()
	test.That(t, h, test.ShouldEqual, 6)
	test.That(t, w, test.ShouldEqual, 8)
}

func TestRandomRotationNonMatchingSampleDrawsNothing(t *testing.T) {
	rot := transforms.NewRandomRotation(-30, 30)
	rot.Rand = rand.New(rand.NewSource(42))
	out, err := rot.Apply(map[string]interface{}{"label": 3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.(map[string]interface{})["label"], test.ShouldEqual, 3)
	// The shared stream must be untouched when no leaf matches.
	test.That(t, rot.Rand.Float64(), test.ShouldEqual, rand.New(rand.NewSource(42)).Float64())
}

func TestRandomRotationInvertedRangeStillWorks(t *testing.T) {
	rot := transforms.NewRandomRotation(30, -30)
	rot.Rand = rand.New(rand.NewSource(4))
	_, err := rot.Apply(map[string]interface{}{"image": newImage(t, 6, 6, nil)})
	test.That(t, err, test.ShouldBeNil)
}

func TestRandomAffineIdentityRanges(t *testing.T) {
	aff := transforms.NewRandomAffine(0, 0)
	vals := make([]float64, 3*4*4)
	for i := range vals {
		vals[i] = float64(i)
	}
	out, err := aff.Apply(map[string]interface{}{"image": newImage(t, 4, 4, vals)})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, imageOf(t, out, "image").Tensor().Data(), test.ShouldResemble, vals)
}

func TestRandomAffineBadTranslate(t *testing.T) {
	aff := transforms.NewRandomAffine(0, 0)
	aff.Translate = &[2]float64{2, 0}
	_, err := aff.Apply(map[string]interface{}{"image": newImage(t, 4, 4, nil)})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRandomPerspectiveZeroDistortionIsIdentity(t *testing.T) {
	p, err := transforms.NewRandomPerspective(0, 1)
	test.That(t, err, test.ShouldBeNil)
	vals := make([]float64, 3*4*4)
	for i := range vals {
		vals[i] = float64(i)
	}
	out, err := p.Apply(map[string]interface{}{"image": newImage(t, 4, 4, vals)})
	test.That(t, err, test.ShouldBeNil)
	got := imageOf(t, out, "image").Tensor().Data().([]float64)
	for i := range vals {
		test.That(t, got[i], test.ShouldAlmostEqual, vals[i], 1e-9)
	}
}

func TestRandomPerspectiveBadDistortion(t *testing.T) {
	_, err := transforms.NewRandomPerspective(1.5, 0.5)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestElasticTransformLeavesBoxesAlone(t *testing.T) {
	e := transforms.NewElasticTransform(5, 3)
	e.Rand = rand.New(rand.NewSource(6))
	boxes := newBoxes(t, 8, 8, []float64{1, 1, 4, 4})
	out, err := e.Apply(map[string]interface{}{
		"image": newImage(t, 8, 8, nil),
		"boxes": boxes,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, boxesOf(t, out, "boxes"), test.ShouldEqual, boxes)
}

func TestFiveCropExpandsImages(t *testing.T) {
	out, err := transforms.NewFiveCrop(2, 2).Apply(map[string]interface{}{
		"image": newImage(t, 4, 4, nil),
		"label": 1,
	})
	test.That(t, err, test.ShouldBeNil)
	crops, ok := out.(map[string]interface{})["image"].([]*datapoint.Image)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, crops, test.ShouldHaveLength, 5)
	for _, c := range crops {
		h, w := c.SpatialSize()
		test.That(t, h, test.ShouldEqual, 2)
		test.That(t, w, test.ShouldEqual, 2)
	}
}

func TestFiveCropRejectsBoxes(t *testing.T) {
	_, err := transforms.NewFiveCrop(2, 2).Apply(map[string]interface{}{
		"image": newImage(t, 4, 4, nil),
		"boxes": newBoxes(t, 4, 4, []float64{0, 0, 1, 1}),
	})
	test.That(t, errors.Is(err, dispatch.ErrUnsupportedInputType), test.ShouldBeTrue)
}

func TestTenCropRejectsMasks(t *testing.T) {
	_, err := transforms.NewTenCrop(2, 2).Apply(map[string]interface{}{
		"image": newImage(t, 4, 4, nil),
		"mask":  newMask(t, 4, 4),
	})
	test.That(t, errors.Is(err, dispatch.ErrUnsupportedInputType), test.ShouldBeTrue)
}

func TestTenCropCount(t *testing.T) {
	out, err := transforms.NewTenCrop(2, 2).Apply(map[string]interface{}{
		"image": newImage(t, 4, 4, nil),
	})
	test.That(t, err, test.ShouldBeNil)
	crops, ok := out.(map[string]interface{})["image"].([]*datapoint.Image)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, crops, test.ShouldHaveLength, 10)
}
