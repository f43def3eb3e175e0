// Package dtypeconf builds ready-made dense kernels from dtype-described
// layer specs.
//
// The model-to-kernel code generator picks numeric types per layer as
// dtypes; this package maps a LayerSpec naming the five roles (input,
// weight, bias, accumulator, output) to a concrete kernel instantiation for
// the registered dtype combinations. The returned Layer is dtype-erased:
// its streams are passed as `any` and checked against the spec's dtypes at
// the boundary.
package dtypeconf

import (
	"github.com/gomlx/densestream/kernel"
	"github.com/gomlx/densestream/kernel/packets"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// LayerSpec describes one dense layer instance: geometry, resource budget
// and the dtypes of the five numeric roles.
type LayerSpec struct {
	NIn, NOut               int
	InPackSize, OutPackSize int
	ReuseFactor, NZeros     int
	IOType                  kernel.IOType

	Input, Weight, Bias, Accum, Output dtypes.DType
}

// Layer is a dtype-erased dense layer. The in/out arguments of Forward and
// Run must be packets.Stream values of the spec's input and output dtypes;
// anything else is a composer bug and panics.
type Layer interface {
	Spec() LayerSpec

	// Forward runs one invocation, as kernel.Kernel.Forward.
	Forward(in, out any) bool

	// Run forwards vectors until the input stream closes, then closes out.
	Run(in, out any)
}

// BuilderFn builds a layer from a spec and its dtype-erased weight and bias
// tables ([]W and []B slices of the spec's dtypes).
type BuilderFn func(spec LayerSpec, weights, biases any) (Layer, error)

type dtypeKey struct {
	input, weight, bias, accum, output dtypes.DType
}

var registry = map[dtypeKey]BuilderFn{}

// Register installs a builder for a dtype combination, overwriting any
// previous registration. The stock combinations are registered at init;
// composers with custom arithmetic can add their own.
func Register(input, weight, bias, accum, output dtypes.DType, fn BuilderFn) {
	registry[dtypeKey{input, weight, bias, accum, output}] = fn
}

// New builds the kernel for the spec's dtype combination, or returns an
// error if no builder is registered for it.
func New(spec LayerSpec, weights, biases any) (Layer, error) {
	key := dtypeKey{spec.Input, spec.Weight, spec.Bias, spec.Accum, spec.Output}
	fn, ok := registry[key]
	if !ok {
		return nil, errors.Errorf("dtypeconf: no kernel registered for dtypes (input=%s, weight=%s, bias=%s, accum=%s, output=%s)",
			spec.Input, spec.Weight, spec.Bias, spec.Accum, spec.Output)
	}
	return fn(spec, weights, biases)
}

// layer adapts a generic kernel to the dtype-erased Layer interface.
type layer[T, W, B, A, R any] struct {
	spec LayerSpec
	k    *kernel.Kernel[T, W, B, A, R]
}

func (l *layer[T, W, B, A, R]) Spec() LayerSpec { return l.spec }

func (l *layer[T, W, B, A, R]) Forward(in, out any) bool {
	return l.k.Forward(streamOf[T]("input", in), streamOf[R]("output", out))
}

func (l *layer[T, W, B, A, R]) Run(in, out any) {
	l.k.Run(streamOf[T]("input", in), streamOf[R]("output", out))
}

func streamOf[T any](role string, s any) packets.Stream[T] {
	stream, ok := s.(packets.Stream[T])
	if !ok {
		exceptions.Panicf("dtypeconf: %s stream is %T, layer expects %T", role, s, stream)
	}
	return stream
}

// newLayer assembles the generic kernel for one registered combination.
func newLayer[T, W, B, A, R any](spec LayerSpec, weights, biases any,
	product kernel.Product[T, W, A], accum kernel.Accumulator[B, A], cast kernel.Cast[A, R]) (Layer, error) {
	ws, ok := weights.([]W)
	if !ok {
		return nil, errors.Errorf("dtypeconf: weights are %T, layer expects %T", weights, ws)
	}
	bs, ok := biases.([]B)
	if !ok {
		return nil, errors.Errorf("dtypeconf: biases are %T, layer expects %T", biases, bs)
	}
	k, err := kernel.New(kernel.Config[T, W, B, A, R]{
		NIn:         spec.NIn,
		NOut:        spec.NOut,
		InPackSize:  spec.InPackSize,
		OutPackSize: spec.OutPackSize,
		ReuseFactor: spec.ReuseFactor,
		NZeros:      spec.NZeros,
		IOType:      spec.IOType,
		Product:     product,
		Accum:       accum,
		Cast:        cast,
	}, ws, bs)
	if err != nil {
		return nil, err
	}
	return &layer[T, W, B, A, R]{spec: spec, k: k}, nil
}

func init() {
	// Float paths, accumulating in the same width.
	Register(dtypes.Float32, dtypes.Float32, dtypes.Float32, dtypes.Float32, dtypes.Float32,
		func(spec LayerSpec, weights, biases any) (Layer, error) {
			return newLayer[float32, float32, float32, float32, float32](spec, weights, biases,
				kernel.Mult[float32, float32, float32]{}, kernel.Sum[float32, float32]{}, kernel.Exact[float32]{})
		})
	Register(dtypes.Float64, dtypes.Float64, dtypes.Float64, dtypes.Float64, dtypes.Float64,
		func(spec LayerSpec, weights, biases any) (Layer, error) {
			return newLayer[float64, float64, float64, float64, float64](spec, weights, biases,
				kernel.Mult[float64, float64, float64]{}, kernel.Sum[float64, float64]{}, kernel.Exact[float64]{})
		})

	// Quantized int8 path: int32 biases and accumulators, int8 results.
	Register(dtypes.Int8, dtypes.Int8, dtypes.Int32, dtypes.Int32, dtypes.Int8,
		func(spec LayerSpec, weights, biases any) (Layer, error) {
			return newLayer[int8, int8, int32, int32, int8](spec, weights, biases,
				kernel.Mult[int8, int8, int32]{}, kernel.Sum[int32, int32]{}, kernel.Narrow[int32, int8]{})
		})

	// Reduced-precision float paths, accumulating in float32.
	Register(dtypes.Float16, dtypes.Float16, dtypes.Float16, dtypes.Float32, dtypes.Float16,
		func(spec LayerSpec, weights, biases any) (Layer, error) {
			return newLayer[float16.Float16, float16.Float16, float16.Float16, float32, float16.Float16](
				spec, weights, biases,
				kernel.Float16Mult{}, kernel.Float16BiasSum{}, kernel.ToFloat16{})
		})
	Register(dtypes.BFloat16, dtypes.BFloat16, dtypes.BFloat16, dtypes.Float32, dtypes.BFloat16,
		func(spec LayerSpec, weights, biases any) (Layer, error) {
			return newLayer[bfloat16.BFloat16, bfloat16.BFloat16, bfloat16.BFloat16, float32, bfloat16.BFloat16](
				spec, weights, biases,
				kernel.BFloat16Mult{}, kernel.BFloat16BiasSum{}, kernel.ToBFloat16{})
		})
}
