// Package kernel implements one streamed fully-connected (dense) inference
// layer: ingress of packed input elements, a quantized multiply-accumulate
// matrix product under a pluggable product strategy, reuse-factor resource
// scheduling hints, bias-seeded accumulation with a cast policy, and egress
// of packed output elements.
//
// One invocation consumes exactly one input vector (NIn/InPackSize packets)
// and produces exactly one output vector (NOut/OutPackSize packets). For
// every output index jj:
//
//	output[jj] = Cast(bias[jj] + sum over ii of Product(input[ii], weight[ii*NOut+jj]))
//
// Accumulation runs in ascending ii order, so results are reproducible
// bit-for-bit even under saturating accumulator types, where addition order
// matters. The reuse factor and zero-weight count shape only the resource
// hints handed to the product strategy, never the values produced.
//
// The type parameters are the five element types of a layer: T input,
// W weight, B bias, A accumulator, R result. The accumulator type is
// typically wider than input and output types to bound error growth during
// summation.
package kernel

import (
	"github.com/gomlx/densestream/kernel/packets"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Kernel is one dense layer instance: immutable configuration, read-only
// weight and bias tables, and the scratch buffers of one invocation.
//
// A Kernel runs one invocation at a time; the scratch buffers are fully
// rewritten by each invocation and nothing survives between invocations.
// The weight and bias tables are shared and read-only, so distinct Kernel
// instances may reference the same tables.
type Kernel[T, W, B, A, R any] struct {
	cfg     Config[T, W, B, A, R]
	weights []W
	biases  []B

	// Scheduling ceilings, fixed at construction.
	parallelLimit, serialLimit int

	// Per-invocation scratch, overwritten by every Forward.
	data []T // flat input buffer, NIn
	mult []A // product buffer, NIn*NOut, row-major by input index
	acc  []A // accumulation buffer, NOut
	res  []R // flat output buffer, NOut
}

// New validates the configuration and builds a kernel around the given
// weight and bias tables. The tables are row-major by input index
// (weights[ii*NOut+jj]) and must stay unmodified for the kernel's lifetime;
// they are not copied.
//
// Any geometry or policy defect (non-positive dimensions, pack sizes not
// dividing the vector widths, mis-sized tables, missing policies) is
// reported here; a constructed kernel has no runtime error path.
func New[T, W, B, A, R any](cfg Config[T, W, B, A, R], weights []W, biases []B) (*Kernel[T, W, B, A, R], error) {
	if err := cfg.validate(); err != nil {
		return nil, errors.WithMessage(err, "kernel.New")
	}
	if len(weights) != cfg.NIn*cfg.NOut {
		return nil, errors.Errorf("kernel.New: weight table has %d entries, layer needs NIn*NOut=%d", len(weights), cfg.NIn*cfg.NOut)
	}
	if len(biases) != cfg.NOut {
		return nil, errors.Errorf("kernel.New: bias vector has %d entries, layer needs NOut=%d", len(biases), cfg.NOut)
	}
	if (cfg.NIn*cfg.NOut)%cfg.ReuseFactor != 0 {
		// Tolerated, but the resource bound is then conservative.
		klog.Warningf("kernel: ReuseFactor=%d does not divide NIn*NOut=%d, multiplier limit rounds up", cfg.ReuseFactor, cfg.NIn*cfg.NOut)
	}
	k := &Kernel[T, W, B, A, R]{
		cfg:           cfg,
		weights:       weights,
		biases:        biases,
		parallelLimit: MultiplierLimit(cfg.NIn, cfg.NOut, cfg.ReuseFactor, cfg.NZeros),
		serialLimit:   SerialMultiplierLimit(cfg.NOut, cfg.ReuseFactor),
		data:          make([]T, cfg.NIn),
		mult:          make([]A, cfg.NIn*cfg.NOut),
		acc:           make([]A, cfg.NOut),
		res:           make([]R, cfg.NOut),
	}
	klog.V(1).Infof("kernel: dense %dx%d, io=%s, reuse=%d, zeros=%d, multiplier limit=%d (serial %d)",
		cfg.NIn, cfg.NOut, cfg.IOType, cfg.ReuseFactor, cfg.NZeros, k.parallelLimit, k.serialLimit)
	return k, nil
}

// Config returns the configuration the kernel was built with.
func (k *Kernel[T, W, B, A, R]) Config() Config[T, W, B, A, R] { return k.cfg }

// Forward runs one invocation: it reads NIn/InPackSize packets from in,
// computes the dense transform and writes NOut/OutPackSize packets to out.
// It blocks on the streams as needed and returns true on completion.
//
// If in is closed before the first packet of a vector, Forward returns
// false without touching out; closing in mid-vector panics, since a partial
// invocation must never produce output.
func (k *Kernel[T, W, B, A, R]) Forward(in packets.Stream[T], out packets.Stream[R]) bool {
	if k.weights == nil {
		exceptions.Panicf("kernel: Forward on a zero Kernel, use kernel.New")
	}
	if !packets.Gather(in, k.data, k.cfg.InPackSize) {
		return false
	}
	k.multiply()
	k.reduce()
	packets.Split(out, k.res, k.cfg.OutPackSize)
	return true
}

// Run forwards vectors until in is closed, then closes out. It is the
// steady-state streaming mode of the layer: start a kernel per layer
// instance and connect them with packet streams.
func (k *Kernel[T, W, B, A, R]) Run(in packets.Stream[T], out packets.Stream[R]) {
	for k.Forward(in, out) {
	}
	close(out)
}

// multiply fills the product buffer: mult[ii*NOut+jj] = Product(data[ii],
// weights[ii*NOut+jj]). The whole-window multiplier ceiling is announced to
// the strategy first; IOSerial mode re-announces the per-row ceiling at each
// input index, matching the finer-grained window it schedules over.
func (k *Kernel[T, W, B, A, R]) multiply() {
	cfg := &k.cfg
	cfg.Product.SetResourceLimit(k.parallelLimit)
	for ii := 0; ii < cfg.NIn; ii++ {
		if cfg.IOType == IOSerial {
			cfg.Product.SetResourceLimit(k.serialLimit)
		}
		cache := k.data[ii]
		row := ii * cfg.NOut
		for jj := 0; jj < cfg.NOut; jj++ {
			k.mult[row+jj] = cfg.Product.Product(cache, k.weights[row+jj])
		}
	}
}

// reduce seeds each accumulator with its bias, sums the product buffer into
// it in ascending input-index order, and casts to the output type.
func (k *Kernel[T, W, B, A, R]) reduce() {
	cfg := &k.cfg
	for jj := 0; jj < cfg.NOut; jj++ {
		k.acc[jj] = cfg.Accum.FromBias(k.biases[jj])
	}
	for ii := 0; ii < cfg.NIn; ii++ {
		row := ii * cfg.NOut
		for jj := 0; jj < cfg.NOut; jj++ {
			k.acc[jj] = cfg.Accum.Add(k.acc[jj], k.mult[row+jj])
		}
	}
	for jj := 0; jj < cfg.NOut; jj++ {
		k.res[jj] = cfg.Cast.Cast(k.acc[jj])
	}
}
