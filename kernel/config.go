package kernel

import (
	"github.com/pkg/errors"
)

//go:generate enumer -type=IOType -trimprefix=IO -transform=snake -values -text config.go

// IOType selects how the kernel trades area against throughput.
type IOType int

const (
	// IOParallel provisions multipliers for whole-matrix throughput, bounded
	// only by the reuse factor and the known-zero weights.
	IOParallel IOType = iota

	// IOSerial processes one input index at a time, bounding multipliers per
	// output row instead. Lower area, lower throughput.
	IOSerial
)

// Config carries the compile-time parameters of one dense layer instance.
//
// It is consumed by New and fixed for the kernel's lifetime. The three
// policies (Product, Accum, Cast) define the layer's arithmetic; the
// remaining fields define its geometry and resource budget.
type Config[T, W, B, A, R any] struct {
	// NIn and NOut are the input and output vector widths.
	NIn, NOut int

	// InPackSize and OutPackSize are the number of scalars per packet on the
	// input and output streams. They must evenly divide NIn and NOut.
	InPackSize, OutPackSize int

	// ReuseFactor is the number of cycles over which one physical multiplier
	// is time-shared. 1 means fully parallel hardware. It only shapes the
	// resource hints given to the product strategy, never the results.
	ReuseFactor int

	// NZeros is the statically known count of zero weights. Zero products
	// need no multiplier, so the resource hint shrinks accordingly.
	NZeros int

	// IOType selects the scheduling mode, IOParallel or IOSerial.
	IOType IOType

	// Product computes input×weight products in the accumulator type.
	Product Product[T, W, A]

	// Accum seeds accumulators from biases and sums products into them.
	Accum Accumulator[B, A]

	// Cast narrows final accumulator values to the output type. This is the
	// single point where precision or range reduction happens.
	Cast Cast[A, R]
}

// validate rejects geometry and policy defects. Anything caught here is a
// configuration bug in the composer, not a runtime condition.
func (cfg *Config[T, W, B, A, R]) validate() error {
	if cfg.NIn <= 0 || cfg.NOut <= 0 {
		return errors.Errorf("layer dimensions must be positive, got NIn=%d, NOut=%d", cfg.NIn, cfg.NOut)
	}
	if cfg.InPackSize <= 0 || cfg.NIn%cfg.InPackSize != 0 {
		return errors.Errorf("InPackSize=%d must be positive and divide NIn=%d", cfg.InPackSize, cfg.NIn)
	}
	if cfg.OutPackSize <= 0 || cfg.NOut%cfg.OutPackSize != 0 {
		return errors.Errorf("OutPackSize=%d must be positive and divide NOut=%d", cfg.OutPackSize, cfg.NOut)
	}
	if cfg.ReuseFactor < 1 {
		return errors.Errorf("ReuseFactor must be >= 1, got %d", cfg.ReuseFactor)
	}
	if cfg.NZeros < 0 || cfg.NZeros > cfg.NIn*cfg.NOut {
		return errors.Errorf("NZeros=%d out of range [0, %d]", cfg.NZeros, cfg.NIn*cfg.NOut)
	}
	if !cfg.IOType.IsAIOType() {
		return errors.Errorf("invalid IOType %d", cfg.IOType)
	}
	if cfg.Product == nil {
		return errors.New("Config.Product must be set")
	}
	if cfg.Accum == nil {
		return errors.New("Config.Accum must be set")
	}
	if cfg.Cast == nil {
		return errors.New("Config.Cast must be set")
	}
	return nil
}
