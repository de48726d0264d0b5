package datapoint

import (
	"math"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// TensorFloats returns the elements of d as a fresh float64 slice in row-major
// order. Supported dtypes are float64, float32, uint8, int, int32 and int64.
func TensorFloats(d *tensor.Dense) ([]float64, error) {
	switch data := d.Data().(type) {
	case []float64:
		out := make([]float64, len(data))
		copy(out, data)
		return out, nil
	case float64:
		return []float64{data}, nil
	case []float32:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	case float32:
		return []float64{float64(data)}, nil
	case []uint8:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	case uint8:
		return []float64{float64(data)}, nil
	case []int:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	case int:
		return []float64{float64(data)}, nil
	case []int32:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	case int32:
		return []float64{float64(data)}, nil
	case []int64:
		out := make([]float64, len(data))
		for i, v := range data {
			out[i] = float64(v)
		}
		return out, nil
	case int64:
		return []float64{float64(data)}, nil
	default:
		return nil, errors.Errorf("unsupported tensor dtype %v", d.Dtype())
	}
}

// TensorFromFloats builds a tensor with the given shape and the dtype of
// like, converting vals back. Integer dtypes are rounded, not truncated, and
// uint8 is additionally clamped to [0, 255].
func TensorFromFloats(like *tensor.Dense, vals []float64, shape ...int) (*tensor.Dense, error) {
	n := 1
	for _, s := range shape {
		n *= s
	}
	if n != len(vals) {
		return nil, errors.Errorf("shape %v does not match %d values", shape, len(vals))
	}
	switch like.Dtype() {
	case tensor.Float64:
		backing := make([]float64, len(vals))
		copy(backing, vals)
		return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing)), nil
	case tensor.Float32:
		backing := make([]float32, len(vals))
		for i, v := range vals {
			backing[i] = float32(v)
		}
		return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing)), nil
	case tensor.Uint8:
		backing := make([]uint8, len(vals))
		for i, v := range vals {
			r := math.Round(v)
			if r < 0 {
				r = 0
			} else if r > 255 {
				r = 255
			}
			backing[i] = uint8(r)
		}
		return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing)), nil
	case tensor.Int:
		backing := make([]int, len(vals))
		for i, v := range vals {
			backing[i] = int(math.Round(v))
		}
		return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing)), nil
	case tensor.Int32:
		backing := make([]int32, len(vals))
		for i, v := range vals {
			backing[i] = int32(math.Round(v))
		}
		return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing)), nil
	case tensor.Int64:
		backing := make([]int64, len(vals))
		for i, v := range vals {
			backing[i] = int64(math.Round(v))
		}
		return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing)), nil
	default:
		return nil, errors.Errorf("unsupported tensor dtype %v", like.Dtype())
	}
}
