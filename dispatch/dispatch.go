// Package dispatch resolves which kernel implementation handles a runtime
// value for a named operation. Every operation has three registration slots:
// a table keyed by exact typed-value kind, a fallback for plain tensors, and
// an optional kernel for decoded image.Image values. Lookups match the exact
// kind tag only; there is deliberately no structural or interface-based
// fallback between typed kinds, since sibling variants must never silently
// share behavior.
package dispatch

import (
	"image"
	"sync"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/govision/govision/datapoint"
)

// ErrUnsupportedInputType is returned when a value has no registered kernel
// for the requested operation. Check with errors.Is.
var ErrUnsupportedInputType = errors.New("unsupported input type")

// Kernel executes one operation for one input kind. args carries the
// operation-specific parameter struct. Kernels must not mutate their input;
// they return a new value, or the identical input when they leave it
// untouched.
type Kernel func(in interface{}, args interface{}) (interface{}, error)

type operation struct {
	typed  map[datapoint.Kind]Kernel
	plain  Kernel
	native Kernel
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*operation{}
)

func opFor(name string) *operation {
	if op, ok := registry[name]; ok {
		return op
	}
	op := &operation{typed: map[datapoint.Kind]Kernel{}}
	registry[name] = op
	return op
}

// RegisterKernel registers the kernel for one typed-value kind of an
// operation. Registering the same slot twice panics; kernels are wired once
// at package init time.
func RegisterKernel(opName string, kind datapoint.Kind, k Kernel) {
	registryMu.Lock()
	defer registryMu.Unlock()
	op := opFor(opName)
	if _, ok := op.typed[kind]; ok {
		panic(errors.Errorf("kernel already registered for operation %q kind %s", opName, kind))
	}
	op.typed[kind] = k
}

// RegisterPlainKernel registers the fallback kernel for raw tensors.
func RegisterPlainKernel(opName string, k Kernel) {
	registryMu.Lock()
	defer registryMu.Unlock()
	op := opFor(opName)
	if op.plain != nil {
		panic(errors.Errorf("plain kernel already registered for operation %q", opName))
	}
	op.plain = k
}

// RegisterImageKernel registers the kernel for decoded image.Image values.
func RegisterImageKernel(opName string, k Kernel) {
	registryMu.Lock()
	defer registryMu.Unlock()
	op := opFor(opName)
	if op.native != nil {
		panic(errors.Errorf("image kernel already registered for operation %q", opName))
	}
	op.native = k
}

// Call resolves the kernel for in's runtime type and invokes it. Typed
// values dispatch on their exact kind tag, *tensor.Dense uses the plain
// slot, image.Image uses the image slot; anything else, or a slot with no
// registration, fails with ErrUnsupportedInputType.
func Call(opName string, in interface{}, args interface{}) (interface{}, error) {
	registryMu.RLock()
	op, ok := registry[opName]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedInputType, "no kernels registered for operation %q", opName)
	}

	var k Kernel
	switch v := in.(type) {
	case datapoint.Datapoint:
		k = op.typed[v.Kind()]
		if k == nil {
			return nil, errors.Wrapf(ErrUnsupportedInputType,
				"operation %q has no kernel for kind %s", opName, v.Kind())
		}
	case *tensor.Dense:
		k = op.plain
		if k == nil {
			return nil, errors.Wrapf(ErrUnsupportedInputType,
				"operation %q has no kernel for plain tensors", opName)
		}
	case image.Image:
		k = op.native
		if k == nil {
			return nil, errors.Wrapf(ErrUnsupportedInputType,
				"operation %q has no kernel for image.Image inputs", opName)
		}
	default:
		return nil, errors.Wrapf(ErrUnsupportedInputType, "operation %q cannot handle %T", opName, in)
	}

	out, err := k(in, args)
	if err != nil {
		return nil, err
	}
	recordDispatch(opName)
	return out, nil
}

// Supports reports whether the operation has a kernel for in's runtime type.
func Supports(opName string, in interface{}) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	op, ok := registry[opName]
	if !ok {
		return false
	}
	switch v := in.(type) {
	case datapoint.Datapoint:
		return op.typed[v.Kind()] != nil
	case *tensor.Dense:
		return op.plain != nil
	case image.Image:
		return op.native != nil
	default:
		return false
	}
}
