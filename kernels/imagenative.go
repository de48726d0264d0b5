package kernels

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// The image.Image execution path covers decoded, non-tensor images. It is
// backed by disintegration/imaging and supports the common subset of
// operations; grid-based kernels (affine, perspective, elastic) are tensor
// only, and the dispatcher reports them as unsupported for this path.

func imagingFilter(interp Interpolation) imaging.ResampleFilter {
	switch interp {
	case Bilinear:
		return imaging.Linear
	case Bicubic:
		return imaging.CatmullRom
	default:
		return imaging.NearestNeighbor
	}
}

func fillColor(fill Fill) color.NRGBA {
	c := func(i int) uint8 {
		if i < len(fill) {
			return uint8(clampFloat(fill[i]+0.5, 0, 255))
		}
		if len(fill) == 1 {
			return uint8(clampFloat(fill[0]+0.5, 0, 255))
		}
		return 0
	}
	return color.NRGBA{c(0), c(1), c(2), 255}
}

// ResizeGoImage resizes a decoded image with the same size semantics as the
// tensor kernel. Antialias is ignored: the imaging filters always antialias
// continuous modes, matching reference image-library behavior.
func ResizeGoImage(img image.Image, size []int, interp Interpolation, maxSize int) (image.Image, error) {
	b := img.Bounds()
	nh, nw, err := ComputeResizedOutputSize(b.Dy(), b.Dx(), size, maxSize)
	if err != nil {
		return nil, err
	}
	if nh == b.Dy() && nw == b.Dx() && interp.isNearest() {
		return img, nil
	}
	return imaging.Resize(img, nw, nh, imagingFilter(interp)), nil
}

// CropGoImage extracts a window, zero-filling any out-of-bounds region so
// the output always has the exact requested size.
func CropGoImage(img image.Image, top, left, height, width int) (image.Image, error) {
	if height <= 0 || width <= 0 {
		return nil, invalidArgf("crop size must be positive, got (%d, %d)", height, width)
	}
	bg := imaging.New(width, height, color.NRGBA{0, 0, 0, 255})
	return imaging.Paste(bg, img, image.Pt(-left, -top)), nil
}

// CenterCropGoImage extracts the central window.
func CenterCropGoImage(img image.Image, height, width int) (image.Image, error) {
	b := img.Bounds()
	top, left := centerCropOffsets(b.Dy(), b.Dx(), height, width)
	return CropGoImage(img, top, left, height, width)
}

// PadGoImage pads a decoded image. Only constant mode is supported on this
// path.
func PadGoImage(img image.Image, padding []int, fill Fill, mode PaddingMode) (image.Image, error) {
	if mode != PadConstant {
		return nil, invalidArgf("padding mode %s is not supported for image.Image inputs", mode)
	}
	left, top, right, bottom, err := ParsePadding(padding)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	nw := b.Dx() + left + right
	nh := b.Dy() + top + bottom
	if nw <= 0 || nh <= 0 {
		return nil, invalidArgf("padding %v collapses input of size (%d, %d)", padding, b.Dy(), b.Dx())
	}
	bg := imaging.New(nw, nh, fillColor(fill))
	return imaging.Paste(bg, img, image.Pt(left, top)), nil
}

// HorizontalFlipGoImage mirrors a decoded image along the width axis.
func HorizontalFlipGoImage(img image.Image) (image.Image, error) {
	return imaging.FlipH(img), nil
}

// VerticalFlipGoImage mirrors a decoded image along the height axis.
func VerticalFlipGoImage(img image.Image) (image.Image, error) {
	return imaging.FlipV(img), nil
}

// RotateGoImage rotates a decoded image. imaging.Rotate turns
// counter-clockwise and always grows the canvas to fit, so the angle is
// negated for consistency with the tensor kernel and the result is center
// cropped back when expand is not requested.
func RotateGoImage(img image.Image, angle float64, expand bool, center *[2]float64, fill Fill) (image.Image, error) {
	if expand && center != nil {
		return nil, invalidArgf("the center argument is incompatible with expand; expansion assumes rotation about the image center")
	}
	if center != nil {
		return nil, invalidArgf("a rotation center override is not supported for image.Image inputs")
	}
	b := img.Bounds()
	rotated := imaging.Rotate(img, -angle, fillColor(fill))
	if expand {
		return rotated, nil
	}
	return CenterCropGoImage(rotated, b.Dy(), b.Dx())
}

// ResizedCropGoImage crops a window and resizes it to size.
func ResizedCropGoImage(
	img image.Image, top, left, height, width int, size []int, interp Interpolation,
) (image.Image, error) {
	cropped, err := CropGoImage(img, top, left, height, width)
	if err != nil {
		return nil, err
	}
	return ResizeGoImage(cropped, size, interp, 0)
}

// FiveCropGoImage returns the four corner crops and the center crop.
func FiveCropGoImage(img image.Image, height, width int) ([]image.Image, error) {
	b := img.Bounds()
	if height > b.Dy() || width > b.Dx() {
		return nil, invalidArgf("crop size (%d, %d) is larger than input size (%d, %d)", height, width, b.Dy(), b.Dx())
	}
	tl, err := CropGoImage(img, 0, 0, height, width)
	if err != nil {
		return nil, err
	}
	tr, err := CropGoImage(img, 0, b.Dx()-width, height, width)
	if err != nil {
		return nil, err
	}
	bl, err := CropGoImage(img, b.Dy()-height, 0, height, width)
	if err != nil {
		return nil, err
	}
	br, err := CropGoImage(img, b.Dy()-height, b.Dx()-width, height, width)
	if err != nil {
		return nil, err
	}
	center, err := CenterCropGoImage(img, height, width)
	if err != nil {
		return nil, err
	}
	return []image.Image{tl, tr, bl, br, center}, nil
}

// TenCropGoImage returns the five crops of the image followed by the five
// crops of its flipped counterpart, horizontal by default.
func TenCropGoImage(img image.Image, height, width int, verticalFlip bool) ([]image.Image, error) {
	crops, err := FiveCropGoImage(img, height, width)
	if err != nil {
		return nil, err
	}
	flipped := imaging.FlipH(img)
	if verticalFlip {
		flipped = imaging.FlipV(img)
	}
	more, err := FiveCropGoImage(flipped, height, width)
	if err != nil {
		return nil, err
	}
	return append(crops, more...), nil
}
