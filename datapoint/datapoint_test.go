package datapoint_test

import (
	"image"
	"image/color"
	"testing"

	"go.viam.com/test"
	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
)

func newBoxes(t *testing.T, format datapoint.BoundingBoxFormat, coords []float64) *datapoint.BoundingBoxes {
	t.Helper()
	b, err := datapoint.NewBoundingBoxes(tensor.New(
		tensor.WithShape(len(coords)/4, 4), tensor.WithBacking(coords)), format, 10, 10)
	test.That(t, err, test.ShouldBeNil)
	return b
}

func TestImageConstructorValidation(t *testing.T) {
	_, err := datapoint.NewImage(tensor.New(
		tensor.WithShape(4), tensor.WithBacking(make([]float64, 4))))
	test.That(t, err, test.ShouldNotBeNil)

	img, err := datapoint.NewImage(tensor.New(
		tensor.WithShape(3, 2, 5), tensor.WithBacking(make([]float64, 30))))
	test.That(t, err, test.ShouldBeNil)
	h, w := img.SpatialSize()
	test.That(t, h, test.ShouldEqual, 2)
	test.That(t, w, test.ShouldEqual, 5)
	test.That(t, img.Channels(), test.ShouldEqual, 3)
	test.That(t, img.Kind(), test.ShouldEqual, datapoint.KindImage)
}

func TestVideoShape(t *testing.T) {
	v, err := datapoint.NewVideo(tensor.New(
		tensor.WithShape(2, 3, 4, 5), tensor.WithBacking(make([]float64, 120))))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v.Frames(), test.ShouldEqual, 2)
	test.That(t, v.Channels(), test.ShouldEqual, 3)
	h, w := v.SpatialSize()
	test.That(t, h, test.ShouldEqual, 4)
	test.That(t, w, test.ShouldEqual, 5)
}

func TestBoundingBoxesValidation(t *testing.T) {
	_, err := datapoint.NewBoundingBoxes(tensor.New(
		tensor.WithShape(2, 3), tensor.WithBacking(make([]float64, 6))), datapoint.XYXY, 10, 10)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = datapoint.NewBoundingBoxes(tensor.New(
		tensor.WithShape(1, 4), tensor.WithBacking(make([]float64, 4))), datapoint.XYXY, 0, 10)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConvertFormatRoundTrips(t *testing.T) {
	orig := []float64{1, 2, 5, 8}
	b := newBoxes(t, datapoint.XYXY, append([]float64(nil), orig...))

	xywh, err := datapoint.ConvertFormat(b, datapoint.XYWH)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, xywh.Tensor().Data(), test.ShouldResemble, []float64{1, 2, 4, 6})

	cxcywh, err := datapoint.ConvertFormat(b, datapoint.CXCYWH)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cxcywh.Tensor().Data(), test.ShouldResemble, []float64{3, 5, 4, 6})

	back, err := datapoint.ConvertFormat(cxcywh, datapoint.XYXY)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back.Tensor().Data(), test.ShouldResemble, orig)

	same, err := datapoint.ConvertFormat(b, datapoint.XYXY)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, same, test.ShouldEqual, b)
}

func TestFloatsNormalizesToXYXY(t *testing.T) {
	b := newBoxes(t, datapoint.CXCYWH, []float64{3, 5, 4, 6})
	vals, err := b.Floats()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, vals, test.ShouldResemble, []float64{1, 2, 5, 8})
}

func TestFromFloatsKeepsFormatAndDtype(t *testing.T) {
	b, err := datapoint.NewBoundingBoxes(tensor.New(
		tensor.WithShape(1, 4), tensor.WithBacking([]int32{1, 2, 5, 8})), datapoint.XYWH, 10, 10)
	test.That(t, err, test.ShouldBeNil)

	out, err := b.FromFloats([]float64{0.4, 1.6, 3.2, 4.8}, 6, 6)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Format(), test.ShouldEqual, datapoint.XYWH)
	h, w := out.SpatialSize()
	test.That(t, h, test.ShouldEqual, 6)
	test.That(t, w, test.ShouldEqual, 6)
	// XYXY (0.4, 1.6, 3.2, 4.8) is XYWH (0.4, 1.6, 2.8, 3.2), rounded.
	test.That(t, out.Tensor().Data(), test.ShouldResemble, []int32{0, 2, 3, 3})
}

func TestFromFloatsAllowsDifferentCount(t *testing.T) {
	b := newBoxes(t, datapoint.XYXY, []float64{1, 1, 2, 2, 3, 3, 4, 4})
	out, err := b.FromFloats([]float64{0, 0, 1, 1}, 10, 10)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.Len(), test.ShouldEqual, 1)

	_, err = b.FromFloats([]float64{0, 0, 1}, 10, 10)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestParseBoundingBoxFormat(t *testing.T) {
	f, err := datapoint.ParseBoundingBoxFormat("xywh")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f, test.ShouldEqual, datapoint.XYWH)
	test.That(t, f.String(), test.ShouldEqual, "XYWH")

	_, err = datapoint.ParseBoundingBoxFormat("corners")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGoImageRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 255})
	src.SetNRGBA(1, 0, color.NRGBA{40, 50, 60, 255})
	src.SetNRGBA(0, 1, color.NRGBA{70, 80, 90, 255})
	src.SetNRGBA(1, 1, color.NRGBA{100, 110, 120, 255})

	img, err := datapoint.FromGoImage(src)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, img.Tensor().Shape(), test.ShouldResemble, tensor.Shape{3, 2, 2})
	test.That(t, img.Tensor().Data(), test.ShouldResemble, []uint8{
		10, 40, 70, 100,
		20, 50, 80, 110,
		30, 60, 90, 120,
	})

	back, err := datapoint.ToGoImage(img)
	test.That(t, err, test.ShouldBeNil)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			test.That(t, back.At(x, y), test.ShouldResemble, src.At(x, y))
		}
	}
}

func TestToGoImageGrayscale(t *testing.T) {
	img, err := datapoint.NewImage(tensor.New(
		tensor.WithShape(1, 1, 2), tensor.WithBacking([]float64{-3, 300.2})))
	test.That(t, err, test.ShouldBeNil)
	out, err := datapoint.ToGoImage(img)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.At(0, 0), test.ShouldResemble, color.NRGBA{0, 0, 0, 255})
	test.That(t, out.At(1, 0), test.ShouldResemble, color.NRGBA{255, 255, 255, 255})
}

func TestKindOf(t *testing.T) {
	img, err := datapoint.NewImage(tensor.New(
		tensor.WithShape(3, 2, 2), tensor.WithBacking(make([]float64, 12))))
	test.That(t, err, test.ShouldBeNil)
	k, ok := datapoint.KindOf(img)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, k, test.ShouldEqual, datapoint.KindImage)

	_, ok = datapoint.KindOf(42)
	test.That(t, ok, test.ShouldBeFalse)
}
