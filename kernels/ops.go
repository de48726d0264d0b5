package kernels

import (
	"image"

	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
	"github.com/govision/govision/dispatch"
)

// Operation names used with the dispatcher.
const (
	OpResize         = "resize"
	OpCrop           = "crop"
	OpCenterCrop     = "center_crop"
	OpResizedCrop    = "resized_crop"
	OpPad            = "pad"
	OpHorizontalFlip = "horizontal_flip"
	OpVerticalFlip   = "vertical_flip"
	OpAffine         = "affine"
	OpRotate         = "rotate"
	OpPerspective    = "perspective"
	OpElastic        = "elastic"
	OpFiveCrop       = "five_crop"
	OpTenCrop        = "ten_crop"
)

// ResizeArgs parameterizes the resize operation.
type ResizeArgs struct {
	Size          []int
	Interpolation Interpolation
	MaxSize       int
	Antialias     bool
}

// CropArgs parameterizes the crop operation.
type CropArgs struct {
	Top, Left, Height, Width int
}

// CenterCropArgs parameterizes the center-crop operation.
type CenterCropArgs struct {
	Height, Width int
}

// ResizedCropArgs parameterizes the fused crop-and-resize operation.
type ResizedCropArgs struct {
	Top, Left, Height, Width int
	Size                     []int
	Interpolation            Interpolation
	Antialias                bool
}

// PadArgs parameterizes the pad operation.
type PadArgs struct {
	Padding []int
	Fill    Fill
	Mode    PaddingMode
}

// AffineArgs parameterizes the affine operation.
type AffineArgs struct {
	Angle         float64
	Translate     [2]float64
	Scale         float64
	Shear         [2]float64
	Interpolation Interpolation
	Fill          Fill
	Center        *[2]float64
}

// RotateArgs parameterizes the rotate operation.
type RotateArgs struct {
	Angle         float64
	Interpolation Interpolation
	Expand        bool
	Center        *[2]float64
	Fill          Fill
}

// PerspectiveArgs parameterizes the perspective operation with precomputed
// forward homography coefficients.
type PerspectiveArgs struct {
	Coefficients  [8]float64
	Interpolation Interpolation
	Fill          Fill
}

// ElasticArgs parameterizes the elastic operation with a precomputed
// displacement field shared across all leaves of a sample.
type ElasticArgs struct {
	Displacement  []float64
	Interpolation Interpolation
	Fill          Fill
}

// FiveCropArgs parameterizes the five-crop and ten-crop operations.
type FiveCropArgs struct {
	Height, Width int
	VerticalFlip  bool
}

func argCast[T any](op string, args interface{}) (T, error) {
	a, ok := args.(T)
	if !ok {
		var zero T
		return zero, invalidArgf("operation %q expects %T args, got %T", op, zero, args)
	}
	return a, nil
}

// Resize dispatches the resize operation on any supported value.
func Resize(in interface{}, args ResizeArgs) (interface{}, error) {
	return dispatch.Call(OpResize, in, args)
}

// Crop dispatches the crop operation on any supported value.
func Crop(in interface{}, args CropArgs) (interface{}, error) {
	return dispatch.Call(OpCrop, in, args)
}

// CenterCrop dispatches the center-crop operation on any supported value.
func CenterCrop(in interface{}, args CenterCropArgs) (interface{}, error) {
	return dispatch.Call(OpCenterCrop, in, args)
}

// ResizedCrop dispatches the fused crop-and-resize operation.
func ResizedCrop(in interface{}, args ResizedCropArgs) (interface{}, error) {
	return dispatch.Call(OpResizedCrop, in, args)
}

// Pad dispatches the pad operation on any supported value.
func Pad(in interface{}, args PadArgs) (interface{}, error) {
	return dispatch.Call(OpPad, in, args)
}

// HorizontalFlip dispatches the horizontal flip operation.
func HorizontalFlip(in interface{}) (interface{}, error) {
	return dispatch.Call(OpHorizontalFlip, in, nil)
}

// VerticalFlip dispatches the vertical flip operation.
func VerticalFlip(in interface{}) (interface{}, error) {
	return dispatch.Call(OpVerticalFlip, in, nil)
}

// Affine dispatches the affine operation on any supported value.
func Affine(in interface{}, args AffineArgs) (interface{}, error) {
	return dispatch.Call(OpAffine, in, args)
}

// Rotate dispatches the rotate operation on any supported value.
func Rotate(in interface{}, args RotateArgs) (interface{}, error) {
	return dispatch.Call(OpRotate, in, args)
}

// Perspective dispatches the perspective operation on any supported value.
func Perspective(in interface{}, args PerspectiveArgs) (interface{}, error) {
	return dispatch.Call(OpPerspective, in, args)
}

// Elastic dispatches the elastic operation on any supported value.
func Elastic(in interface{}, args ElasticArgs) (interface{}, error) {
	return dispatch.Call(OpElastic, in, args)
}

// FiveCrop dispatches the five-crop operation; the result is a slice of five
// values of the input's type.
func FiveCrop(in interface{}, args FiveCropArgs) (interface{}, error) {
	return dispatch.Call(OpFiveCrop, in, args)
}

// TenCrop dispatches the ten-crop operation; the result is a slice of ten
// values of the input's type.
func TenCrop(in interface{}, args FiveCropArgs) (interface{}, error) {
	return dispatch.Call(OpTenCrop, in, args)
}

func init() {
	registerResize()
	registerCrop()
	registerCenterCrop()
	registerResizedCrop()
	registerPad()
	registerFlips()
	registerAffine()
	registerRotate()
	registerPerspective()
	registerElastic()
	registerFiveTenCrop()
}

func registerResize() {
	dispatch.RegisterKernel(OpResize, datapoint.KindImage, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[ResizeArgs](OpResize, args)
		if err != nil {
			return nil, err
		}
		return ResizeImage(in.(*datapoint.Image), a.Size, a.Interpolation, a.MaxSize, a.Antialias)
	})
	dispatch.RegisterKernel(OpResize, datapoint.KindVideo, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[ResizeArgs](OpResize, args)
		if err != nil {
			return nil, err
		}
		return ResizeVideo(in.(*datapoint.Video), a.Size, a.Interpolation, a.MaxSize, a.Antialias)
	})
	dispatch.RegisterKernel(OpResize, datapoint.KindMask, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[ResizeArgs](OpResize, args)
		if err != nil {
			return nil, err
		}
		return ResizeMask(in.(*datapoint.Mask), a.Size, a.MaxSize)
	})
	dispatch.RegisterKernel(OpResize, datapoint.KindBoundingBoxes, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[ResizeArgs](OpResize, args)
		if err != nil {
			return nil, err
		}
		return ResizeBoundingBoxes(in.(*datapoint.BoundingBoxes), a.Size, a.MaxSize)
	})
	dispatch.RegisterPlainKernel(OpResize, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[ResizeArgs](OpResize, args)
		if err != nil {
			return nil, err
		}
		return ResizeTensor(in.(*tensor.Dense), a.Size, a.Interpolation, a.MaxSize, a.Antialias)
	})
	dispatch.RegisterImageKernel(OpResize, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[ResizeArgs](OpResize, args)
		if err != nil {
			return nil, err
		}
		return ResizeGoImage(in.(image.Image), a.Size, a.Interpolation, a.MaxSize)
	})
}

func registerCrop() {
	dispatch.RegisterKernel(OpCrop, datapoint.KindImage, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[CropArgs](OpCrop, args)
		if err != nil {
			return nil, err
		}
		return CropImage(in.(*datapoint.Image), a.Top, a.Left, a.Height, a.Width)
	})
	dispatch.RegisterKernel(OpCrop, datapoint.KindVideo, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[CropArgs](OpCrop, args)
		if err != nil {
			return nil, err
		}
		return CropVideo(in.(*datapoint.Video), a.Top, a.Left, a.Height, a.Width)
	})
	dispatch.RegisterKernel(OpCrop, datapoint.KindMask, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[CropArgs](OpCrop, args)
		if err != nil {
			return nil, err
		}
		return CropMask(in.(*datapoint.Mask), a.Top, a.Left, a.Height, a.Width)
	})
	dispatch.RegisterKernel(OpCrop, datapoint.KindBoundingBoxes, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[CropArgs](OpCrop, args)
		if err != nil {
			return nil, err
		}
		return CropBoundingBoxes(in.(*datapoint.BoundingBoxes), a.Top, a.Left, a.Height, a.Width)
	})
	dispatch.RegisterPlainKernel(OpCrop, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[CropArgs](OpCrop, args)
		if err != nil {
			return nil, err
		}
		return CropTensor(in.(*tensor.Dense), a.Top, a.Left, a.Height, a.Width)
	})
	dispatch.RegisterImageKernel(OpCrop, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[CropArgs](OpCrop, args)
		if err != nil {
			return nil, err
		}
		return CropGoImage(in.(image.Image), a.Top, a.Left, a.Height, a.Width)
	})
}

func registerCenterCrop() {
	dispatch.RegisterKernel(OpCenterCrop, datapoint.KindImage, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[CenterCropArgs](OpCenterCrop, args)
		if err != nil {
			return nil, err
		}
		return CenterCropImage(in.(*datapoint.Image), a.Height, a.Width)
	})
	dispatch.RegisterKernel(OpCenterCrop, datapoint.KindVideo, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[CenterCropArgs](OpCenterCrop, args)
		if err != nil {
			return nil, err
		}
		return CenterCropVideo(in.(*datapoint.Video), a.Height, a.Width)
	})
	dispatch.RegisterKernel(OpCenterCrop, datapoint.KindMask, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[CenterCropArgs](OpCenterCrop, args)
		if err != nil {
			return nil, err
		}
		return CenterCropMask(in.(*datapoint.Mask), a.Height, a.Width)
	})
	dispatch.RegisterKernel(OpCenterCrop, datapoint.KindBoundingBoxes, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[CenterCropArgs](OpCenterCrop, args)
		if err != nil {
			return nil, err
		}
		return CenterCropBoundingBoxes(in.(*datapoint.BoundingBoxes), a.Height, a.Width)
	})
	dispatch.RegisterPlainKernel(OpCenterCrop, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[CenterCropArgs](OpCenterCrop, args)
		if err != nil {
			return nil, err
		}
		return CenterCropTensor(in.(*tensor.Dense), a.Height, a.Width)
	})
	dispatch.RegisterImageKernel(OpCenterCrop, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[CenterCropArgs](OpCenterCrop, args)
		if err != nil {
			return nil, err
		}
		return CenterCropGoImage(in.(image.Image), a.Height, a.Width)
	})
}

func registerResizedCrop() {
	dispatch.RegisterKernel(OpResizedCrop, datapoint.KindImage, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[ResizedCropArgs](OpResizedCrop, args)
		if err != nil {
			return nil, err
		}
		return ResizedCropImage(in.(*datapoint.Image), a.Top, a.Left, a.Height, a.Width, a.Size, a.Interpolation, a.Antialias)
	})
	dispatch.RegisterKernel(OpResizedCrop, datapoint.KindVideo, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[ResizedCropArgs](OpResizedCrop, args)
		if err != nil {
			return nil, err
		}
		return ResizedCropVideo(in.(*datapoint.Video), a.Top, a.Left, a.Height, a.Width, a.Size, a.Interpolation, a.Antialias)
	})
	dispatch.RegisterKernel(OpResizedCrop, datapoint.KindMask, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[ResizedCropArgs](OpResizedCrop, args)
		if err != nil {
			return nil, err
		}
		return ResizedCropMask(in.(*datapoint.Mask), a.Top, a.Left, a.Height, a.Width, a.Size)
	})
	dispatch.RegisterKernel(OpResizedCrop, datapoint.KindBoundingBoxes, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[ResizedCropArgs](OpResizedCrop, args)
		if err != nil {
			return nil, err
		}
		return ResizedCropBoundingBoxes(in.(*datapoint.BoundingBoxes), a.Top, a.Left, a.Height, a.Width, a.Size)
	})
	dispatch.RegisterPlainKernel(OpResizedCrop, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[ResizedCropArgs](OpResizedCrop, args)
		if err != nil {
			return nil, err
		}
		return ResizedCropTensor(in.(*tensor.Dense), a.Top, a.Left, a.Height, a.Width, a.Size, a.Interpolation, a.Antialias)
	})
	dispatch.RegisterImageKernel(OpResizedCrop, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[ResizedCropArgs](OpResizedCrop, args)
		if err != nil {
			return nil, err
		}
		return ResizedCropGoImage(in.(image.Image), a.Top, a.Left, a.Height, a.Width, a.Size, a.Interpolation)
	})
}

func registerPad() {
	dispatch.RegisterKernel(OpPad, datapoint.KindImage, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[PadArgs](OpPad, args)
		if err != nil {
			return nil, err
		}
		return PadImage(in.(*datapoint.Image), a.Padding, a.Fill, a.Mode)
	})
	dispatch.RegisterKernel(OpPad, datapoint.KindVideo, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[PadArgs](OpPad, args)
		if err != nil {
			return nil, err
		}
		return PadVideo(in.(*datapoint.Video), a.Padding, a.Fill, a.Mode)
	})
	dispatch.RegisterKernel(OpPad, datapoint.KindMask, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[PadArgs](OpPad, args)
		if err != nil {
			return nil, err
		}
		return PadMask(in.(*datapoint.Mask), a.Padding, a.Fill, a.Mode)
	})
	dispatch.RegisterKernel(OpPad, datapoint.KindBoundingBoxes, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[PadArgs](OpPad, args)
		if err != nil {
			return nil, err
		}
		return PadBoundingBoxes(in.(*datapoint.BoundingBoxes), a.Padding)
	})
	dispatch.RegisterPlainKernel(OpPad, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[PadArgs](OpPad, args)
		if err != nil {
			return nil, err
		}
		return PadTensor(in.(*tensor.Dense), a.Padding, a.Fill, a.Mode)
	})
	dispatch.RegisterImageKernel(OpPad, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[PadArgs](OpPad, args)
		if err != nil {
			return nil, err
		}
		return PadGoImage(in.(image.Image), a.Padding, a.Fill, a.Mode)
	})
}

func registerFlips() {
	dispatch.RegisterKernel(OpHorizontalFlip, datapoint.KindImage, func(in, _ interface{}) (interface{}, error) {
		return HorizontalFlipImage(in.(*datapoint.Image))
	})
	dispatch.RegisterKernel(OpHorizontalFlip, datapoint.KindVideo, func(in, _ interface{}) (interface{}, error) {
		return HorizontalFlipVideo(in.(*datapoint.Video))
	})
	dispatch.RegisterKernel(OpHorizontalFlip, datapoint.KindMask, func(in, _ interface{}) (interface{}, error) {
		return HorizontalFlipMask(in.(*datapoint.Mask))
	})
	dispatch.RegisterKernel(OpHorizontalFlip, datapoint.KindBoundingBoxes, func(in, _ interface{}) (interface{}, error) {
		return HorizontalFlipBoundingBoxes(in.(*datapoint.BoundingBoxes))
	})
	dispatch.RegisterPlainKernel(OpHorizontalFlip, func(in, _ interface{}) (interface{}, error) {
		return HorizontalFlipTensor(in.(*tensor.Dense))
	})
	dispatch.RegisterImageKernel(OpHorizontalFlip, func(in, _ interface{}) (interface{}, error) {
		return HorizontalFlipGoImage(in.(image.Image))
	})

	dispatch.RegisterKernel(OpVerticalFlip, datapoint.KindImage, func(in, _ interface{}) (interface{}, error) {
		return VerticalFlipImage(in.(*datapoint.Image))
	})
	dispatch.RegisterKernel(OpVerticalFlip, datapoint.KindVideo, func(in, _ interface{}) (interface{}, error) {
		return VerticalFlipVideo(in.(*datapoint.Video))
	})
	dispatch.RegisterKernel(OpVerticalFlip, datapoint.KindMask, func(in, _ interface{}) (interface{}, error) {
		return VerticalFlipMask(in.(*datapoint.Mask))
	})
	dispatch.RegisterKernel(OpVerticalFlip, datapoint.KindBoundingBoxes, func(in, _ interface{}) (interface{}, error) {
		return VerticalFlipBoundingBoxes(in.(*datapoint.BoundingBoxes))
	})
	dispatch.RegisterPlainKernel(OpVerticalFlip, func(in, _ interface{}) (interface{}, error) {
		return VerticalFlipTensor(in.(*tensor.Dense))
	})
	dispatch.RegisterImageKernel(OpVerticalFlip, func(in, _ interface{}) (interface{}, error) {
		return VerticalFlipGoImage(in.(image.Image))
	})
}

func registerAffine() {
	dispatch.RegisterKernel(OpAffine, datapoint.KindImage, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[AffineArgs](OpAffine, args)
		if err != nil {
			return nil, err
		}
		return AffineImage(in.(*datapoint.Image), a.Angle, a.Translate, a.Scale, a.Shear, a.Interpolation, a.Fill, a.Center)
	})
	dispatch.RegisterKernel(OpAffine, datapoint.KindVideo, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[AffineArgs](OpAffine, args)
		if err != nil {
			return nil, err
		}
		return AffineVideo(in.(*datapoint.Video), a.Angle, a.Translate, a.Scale, a.Shear, a.Interpolation, a.Fill, a.Center)
	})
	dispatch.RegisterKernel(OpAffine, datapoint.KindMask, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[AffineArgs](OpAffine, args)
		if err != nil {
			return nil, err
		}
		return AffineMask(in.(*datapoint.Mask), a.Angle, a.Translate, a.Scale, a.Shear, a.Center)
	})
	dispatch.RegisterKernel(OpAffine, datapoint.KindBoundingBoxes, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[AffineArgs](OpAffine, args)
		if err != nil {
			return nil, err
		}
		return AffineBoundingBoxes(in.(*datapoint.BoundingBoxes), a.Angle, a.Translate, a.Scale, a.Shear, a.Center)
	})
	dispatch.RegisterPlainKernel(OpAffine, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[AffineArgs](OpAffine, args)
		if err != nil {
			return nil, err
		}
		return AffineTensor(in.(*tensor.Dense), a.Angle, a.Translate, a.Scale, a.Shear, a.Interpolation, a.Fill, a.Center)
	})
}

func registerRotate() {
	dispatch.RegisterKernel(OpRotate, datapoint.KindImage, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[RotateArgs](OpRotate, args)
		if err != nil {
			return nil, err
		}
		return RotateImage(in.(*datapoint.Image), a.Angle, a.Interpolation, a.Expand, a.Center, a.Fill)
	})
	dispatch.RegisterKernel(OpRotate, datapoint.KindVideo, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[RotateArgs](OpRotate, args)
		if err != nil {
			return nil, err
		}
		return RotateVideo(in.(*datapoint.Video), a.Angle, a.Interpolation, a.Expand, a.Center, a.Fill)
	})
	dispatch.RegisterKernel(OpRotate, datapoint.KindMask, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[RotateArgs](OpRotate, args)
		if err != nil {
			return nil, err
		}
		return RotateMask(in.(*datapoint.Mask), a.Angle, a.Expand, a.Center)
	})
	dispatch.RegisterKernel(OpRotate, datapoint.KindBoundingBoxes, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[RotateArgs](OpRotate, args)
		if err != nil {
			return nil, err
		}
		return RotateBoundingBoxes(in.(*datapoint.BoundingBoxes), a.Angle, a.Expand, a.Center)
	})
	dispatch.RegisterPlainKernel(OpRotate, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[RotateArgs](OpRotate, args)
		if err != nil {
			return nil, err
		}
		return RotateTensor(in.(*tensor.Dense), a.Angle, a.Interpolation, a.Expand, a.Center, a.Fill)
	})
	dispatch.RegisterImageKernel(OpRotate, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[RotateArgs](OpRotate, args)
		if err != nil {
			return nil, err
		}
		return RotateGoImage(in.(image.Image), a.Angle, a.Expand, a.Center, a.Fill)
	})
}

func registerPerspective() {
	dispatch.RegisterKernel(OpPerspective, datapoint.KindImage, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[PerspectiveArgs](OpPerspective, args)
		if err != nil {
			return nil, err
		}
		return PerspectiveImageCoeffs(in.(*datapoint.Image), a.Coefficients, a.Interpolation, a.Fill)
	})
	dispatch.RegisterKernel(OpPerspective, datapoint.KindVideo, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[PerspectiveArgs](OpPerspective, args)
		if err != nil {
			return nil, err
		}
		return PerspectiveVideoCoeffs(in.(*datapoint.Video), a.Coefficients, a.Interpolation, a.Fill)
	})
	dispatch.RegisterKernel(OpPerspective, datapoint.KindMask, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[PerspectiveArgs](OpPerspective, args)
		if err != nil {
			return nil, err
		}
		return PerspectiveMaskCoeffs(in.(*datapoint.Mask), a.Coefficients)
	})
	dispatch.RegisterKernel(OpPerspective, datapoint.KindBoundingBoxes, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[PerspectiveArgs](OpPerspective, args)
		if err != nil {
			return nil, err
		}
		return PerspectiveBoundingBoxesCoeffs(in.(*datapoint.BoundingBoxes), a.Coefficients)
	})
	dispatch.RegisterPlainKernel(OpPerspective, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[PerspectiveArgs](OpPerspective, args)
		if err != nil {
			return nil, err
		}
		return PerspectiveTensorCoeffs(in.(*tensor.Dense), a.Coefficients, a.Interpolation, a.Fill)
	})
}

func registerElastic() {
	dispatch.RegisterKernel(OpElastic, datapoint.KindImage, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[ElasticArgs](OpElastic, args)
		if err != nil {
			return nil, err
		}
		return ElasticImage(in.(*datapoint.Image), a.Displacement, a.Interpolation, a.Fill)
	})
	dispatch.RegisterKernel(OpElastic, datapoint.KindVideo, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[ElasticArgs](OpElastic, args)
		if err != nil {
			return nil, err
		}
		return ElasticVideo(in.(*datapoint.Video), a.Displacement, a.Interpolation, a.Fill)
	})
	dispatch.RegisterKernel(OpElastic, datapoint.KindMask, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[ElasticArgs](OpElastic, args)
		if err != nil {
			return nil, err
		}
		return ElasticMask(in.(*datapoint.Mask), a.Displacement)
	})
	dispatch.RegisterPlainKernel(OpElastic, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[ElasticArgs](OpElastic, args)
		if err != nil {
			return nil, err
		}
		return ElasticTensor(in.(*tensor.Dense), a.Displacement, a.Interpolation, a.Fill)
	})
}

func registerFiveTenCrop() {
	dispatch.RegisterKernel(OpFiveCrop, datapoint.KindImage, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[FiveCropArgs](OpFiveCrop, args)
		if err != nil {
			return nil, err
		}
		img := in.(*datapoint.Image)
		crops, err := FiveCropTensor(img.Tensor(), a.Height, a.Width)
		if err != nil {
			return nil, err
		}
		out := make([]*datapoint.Image, len(crops))
		for i, c := range crops {
			if out[i], err = datapoint.NewImageLike(img, c); err != nil {
				return nil, err
			}
		}
		return out, nil
	})
	dispatch.RegisterKernel(OpFiveCrop, datapoint.KindVideo, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[FiveCropArgs](OpFiveCrop, args)
		if err != nil {
			return nil, err
		}
		v := in.(*datapoint.Video)
		crops, err := FiveCropTensor(v.Tensor(), a.Height, a.Width)
		if err != nil {
			return nil, err
		}
		out := make([]*datapoint.Video, len(crops))
		for i, c := range crops {
			if out[i], err = datapoint.NewVideoLike(v, c); err != nil {
				return nil, err
			}
		}
		return out, nil
	})
	dispatch.RegisterPlainKernel(OpFiveCrop, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[FiveCropArgs](OpFiveCrop, args)
		if err != nil {
			return nil, err
		}
		return FiveCropTensor(in.(*tensor.Dense), a.Height, a.Width)
	})
	dispatch.RegisterImageKernel(OpFiveCrop, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[FiveCropArgs](OpFiveCrop, args)
		if err != nil {
			return nil, err
		}
		return FiveCropGoImage(in.(image.Image), a.Height, a.Width)
	})

	dispatch.RegisterKernel(OpTenCrop, datapoint.KindImage, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[FiveCropArgs](OpTenCrop, args)
		if err != nil {
			return nil, err
		}
		img := in.(*datapoint.Image)
		crops, err := TenCropTensor(img.Tensor(), a.Height, a.Width, a.VerticalFlip)
		if err != nil {
			return nil, err
		}
		out := make([]*datapoint.Image, len(crops))
		for i, c := range crops {
			if out[i], err = datapoint.NewImageLike(img, c); err != nil {
				return nil, err
			}
		}
		return out, nil
	})
	dispatch.RegisterKernel(OpTenCrop, datapoint.KindVideo, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[FiveCropArgs](OpTenCrop, args)
		if err != nil {
			return nil, err
		}
		v := in.(*datapoint.Video)
		crops, err := TenCropTensor(v.Tensor(), a.Height, a.Width, a.VerticalFlip)
		if err != nil {
			return nil, err
		}
		out := make([]*datapoint.Video, len(crops))
		for i, c := range crops {
			if out[i], err = datapoint.NewVideoLike(v, c); err != nil {
				return nil, err
			}
		}
		return out, nil
	})
	dispatch.RegisterPlainKernel(OpTenCrop, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[FiveCropArgs](OpTenCrop, args)
		if err != nil {
			return nil, err
		}
		return TenCropTensor(in.(*tensor.Dense), a.Height, a.Width, a.VerticalFlip)
	})
	dispatch.RegisterImageKernel(OpTenCrop, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[FiveCropArgs](OpTenCrop, args)
		if err != nil {
			return nil, err
		}
		return TenCropGoImage(in.(image.Image), a.Height, a.Width, a.VerticalFlip)
	})
}
