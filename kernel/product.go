package kernel

import (
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/x448/float16"
	"golang.org/x/exp/constraints"
)

// Numeric constrains the plain Go numeric types the stock policies operate
// on. Specialized scalar types (float16, bfloat16, fixed-point) get their
// own policy implementations instead.
type Numeric interface {
	constraints.Integer | constraints.Float
}

// SignedNumeric is Numeric minus the unsigned integers, for policies that
// need negation.
type SignedNumeric interface {
	constraints.Signed | constraints.Float
}

// Product is the pluggable combination rule of the product engine: it
// computes one input×weight product in the accumulator type.
//
// SetResourceLimit announces the multiplier ceiling for the current
// scheduling window before products are computed. It is advisory metadata
// for resource planning (how many physical multiply units the computation
// should be shared across) and must never change the values Product returns.
type Product[T, W, A any] interface {
	Product(x T, w W) A
	SetResourceLimit(limit int)
}

// Mult is the standard product strategy: both operands are widened to the
// accumulator type before multiplying.
type Mult[T, W, A Numeric] struct{}

func (Mult[T, W, A]) Product(x T, w W) A { return A(x) * A(w) }

func (Mult[T, W, A]) SetResourceLimit(int) {}

// BinaryWeight encodes each weight in one bit: 1 multiplies by +1, 0 by -1.
// No multiplier is needed at all, only a conditional negation.
type BinaryWeight[T SignedNumeric, A SignedNumeric] struct{}

func (BinaryWeight[T, A]) Product(x T, w uint8) A {
	if w == 0 {
		return -A(x)
	}
	return A(x)
}

func (BinaryWeight[T, A]) SetResourceLimit(int) {}

// TernaryWeight encodes each weight as -1, 0 or +1. Combined with a NZeros
// count this is the cheapest structured-sparsity encoding.
type TernaryWeight[T SignedNumeric, A SignedNumeric] struct{}

func (TernaryWeight[T, A]) Product(x T, w int8) A {
	switch {
	case w > 0:
		return A(x)
	case w < 0:
		return -A(x)
	}
	return 0
}

func (TernaryWeight[T, A]) SetResourceLimit(int) {}

// Float16Mult multiplies IEEE float16 operands, accumulating in float32.
type Float16Mult struct{}

func (Float16Mult) Product(x, w float16.Float16) float32 {
	return x.Float32() * w.Float32()
}

func (Float16Mult) SetResourceLimit(int) {}

// BFloat16Mult multiplies bfloat16 operands, accumulating in float32.
type BFloat16Mult struct{}

func (BFloat16Mult) Product(x, w bfloat16.BFloat16) float32 {
	return x.Float32() * w.Float32()
}

func (BFloat16Mult) SetResourceLimit(int) {}

// Accumulator defines the arithmetic of the reduction stage: converting a
// bias to the accumulator type (the one-time seed of each accumulator) and
// adding two accumulator values.
type Accumulator[B, A any] interface {
	FromBias(b B) A
	Add(x, y A) A
}

// Sum is the default accumulator over plain numeric types.
type Sum[B, A Numeric] struct{}

func (Sum[B, A]) FromBias(b B) A { return A(b) }

func (Sum[B, A]) Add(x, y A) A { return x + y }

// Float16BiasSum seeds float32 accumulators from float16 biases.
type Float16BiasSum struct{}

func (Float16BiasSum) FromBias(b float16.Float16) float32 { return b.Float32() }

func (Float16BiasSum) Add(x, y float32) float32 { return x + y }

// BFloat16BiasSum seeds float32 accumulators from bfloat16 biases.
type BFloat16BiasSum struct{}

func (BFloat16BiasSum) FromBias(b bfloat16.BFloat16) float32 { return b.Float32() }

func (BFloat16BiasSum) Add(x, y float32) float32 { return x + y }
