package kernels

import (
	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
	"github.com/govision/govision/dispatch"
)

// OpErase is the operation name for rectangular erasing.
const OpErase = "erase"

// EraseArgs parameterizes the erase operation. Values holds the replacement
// content for the erased window, laid out (C, Height, Width) with C matching
// the input's channels; a single value broadcasts over the whole window.
type EraseArgs struct {
	Top, Left, Height, Width int
	Values                   []float64
}

// EraseTensor overwrites the (Top, Left, Height, Width) window of every
// trailing plane with the given values. The window must lie fully inside the
// input.
func EraseTensor(d *tensor.Dense, a EraseArgs) (*tensor.Dense, error) {
	p, err := asPlanes(d)
	if err != nil {
		return nil, err
	}
	if a.Height <= 0 || a.Width <= 0 {
		return nil, invalidArgf("erase size must be positive, got (%d, %d)", a.Height, a.Width)
	}
	if a.Top < 0 || a.Left < 0 || a.Top+a.Height > p.h || a.Left+a.Width > p.w {
		return nil, invalidArgf("erase window (%d, %d, %d, %d) exceeds input size (%d, %d)",
			a.Top, a.Left, a.Height, a.Width, p.h, p.w)
	}
	window := a.Height * a.Width
	if len(a.Values) != 1 && len(a.Values) != window*p.channels() {
		return nil, invalidArgf("erase values must hold 1 or %d elements, got %d",
			window*p.channels(), len(a.Values))
	}
	out := p.eachPlane(p.h, p.w, func(plane int, src, dst []float64) {
		copy(dst, src)
		ch := p.channelOf(plane)
		for y := 0; y < a.Height; y++ {
			for x := 0; x < a.Width; x++ {
				v := a.Values[0]
				if len(a.Values) > 1 {
					v = a.Values[ch*window+y*a.Width+x]
				}
				dst[(a.Top+y)*p.w+a.Left+x] = v
			}
		}
	})
	return p.build(out, p.h, p.w)
}

// EraseImage overwrites a window of an image.
func EraseImage(img *datapoint.Image, a EraseArgs) (*datapoint.Image, error) {
	out, err := EraseTensor(img.Tensor(), a)
	if err != nil {
		return nil, err
	}
	return datapoint.NewImageLike(img, out)
}

// EraseVideo overwrites a window of every frame of a video.
func EraseVideo(v *datapoint.Video, a EraseArgs) (*datapoint.Video, error) {
	out, err := EraseTensor(v.Tensor(), a)
	if err != nil {
		return nil, err
	}
	return datapoint.NewVideoLike(v, out)
}

// Erase dispatches the erase operation on any supported value.
func Erase(in interface{}, args EraseArgs) (interface{}, error) {
	return dispatch.Call(OpErase, in, args)
}

func init() {
	dispatch.RegisterKernel(OpErase, datapoint.KindImage, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[EraseArgs](OpErase, args)
		if err != nil {
			return nil, err
		}
		return EraseImage(in.(*datapoint.Image), a)
	})
	dispatch.RegisterKernel(OpErase, datapoint.KindVideo, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[EraseArgs](OpErase, args)
		if err != nil {
			return nil, err
		}
		return EraseVideo(in.(*datapoint.Video), a)
	})
	dispatch.RegisterPlainKernel(OpErase, func(in, args interface{}) (interface{}, error) {
		a, err := argCast[EraseArgs](OpErase, args)
		if err != nil {
			return nil, err
		}
		return EraseTensor(in.(*tensor.Dense), a)
	})
}
