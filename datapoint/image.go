package datapoint

import (
	"gorgonia.org/tensor"
)

// Image wraps an array shaped (..., C, H, W). Height and width derive from
// the trailing two dimensions; there is no further metadata.
type Image struct {
	data *tensor.Dense
}

// NewImage wraps data as an image. The array must be at least rank 3.
func NewImage(data *tensor.Dense) (*Image, error) {
	if err := checkRank(data, 3, "image"); err != nil {
		return nil, err
	}
	return &Image{data: data}, nil
}

// NewImageLike wraps data as an image carrying forward the metadata of src.
// Images carry no metadata beyond their shape, so this only validates rank.
func NewImageLike(src *Image, data *tensor.Dense) (*Image, error) {
	return NewImage(data)
}

// Kind returns KindImage.
func (i *Image) Kind() Kind { return KindImage }

// Tensor returns the raw array.
func (i *Image) Tensor() *tensor.Dense { return i.data }

// SpatialSize returns the trailing (height, width).
func (i *Image) SpatialSize() (int, int) {
	s := i.data.Shape()
	return s[len(s)-2], s[len(s)-1]
}

// Channels returns the size of the channel dimension.
func (i *Image) Channels() int {
	s := i.data.Shape()
	return s[len(s)-3]
}

// Video wraps an array shaped (..., T, C, H, W).
type Video struct {
	data *tensor.Dense
}

// NewVideo wraps data as a video. The array must be at least rank 4.
func NewVideo(data *tensor.Dense) (*Video, error) {
	if err := checkRank(data, 4, "video"); err != nil {
		return nil, err
	}
	return &Video{data: data}, nil
}

// NewVideoLike wraps data as a video carrying forward the metadata of src.
func NewVideoLike(src *Video, data *tensor.Dense) (*Video, error) {
	return NewVideo(data)
}

// Kind returns KindVideo.
func (v *Video) Kind() Kind { return KindVideo }

// Tensor returns the raw array.
func (v *Video) Tensor() *tensor.Dense { return v.data }

// SpatialSize returns the trailing (height, width).
func (v *Video) SpatialSize() (int, int) {
	s := v.data.Shape()
	return s[len(s)-2], s[len(s)-1]
}

// Frames returns the size of the time dimension.
func (v *Video) Frames() int {
	s := v.data.Shape()
	return s[len(s)-4]
}

// Channels returns the size of the channel dimension.
func (v *Video) Channels() int {
	s := v.data.Shape()
	return s[len(s)-3]
}

// Mask wraps a categorical segmentation array shaped (..., H, W), commonly
// (H, W) or (N, H, W) for multi-instance masks. Mask values are labels, so
// geometric kernels always resample them nearest-neighbor.
type Mask struct {
	data *tensor.Dense
}

// NewMask wraps data as a mask. The array must be at least rank 2.
func NewMask(data *tensor.Dense) (*Mask, error) {
	if err := checkRank(data, 2, "mask"); err != nil {
		return nil, err
	}
	return &Mask{data: data}, nil
}

// NewMaskLike wraps data as a mask carrying forward the metadata of src.
func NewMaskLike(src *Mask, data *tensor.Dense) (*Mask, error) {
	return NewMask(data)
}

// Kind returns KindMask.
func (m *Mask) Kind() Kind { return KindMask }

// Tensor returns the raw array.
func (m *Mask) Tensor() *tensor.Dense { return m.data }

// SpatialSize returns the trailing (height, width).
func (m *Mask) SpatialSize() (int, int) {
	s := m.data.Shape()
	return s[len(s)-2], s[len(s)-1]
}
