package kernel

import (
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/x448/float16"
)

// Cast narrows a final accumulator value to the output type. The kernel
// applies it uniformly to every output index, after all accumulation is
// done; it is the only place precision or range reduction happens.
type Cast[A, R any] interface {
	Cast(a A) R
}

// Exact keeps the accumulator value unchanged (output type == accumulator
// type, lossless).
type Exact[A any] struct{}

func (Exact[A]) Cast(a A) A { return a }

// Narrow converts with plain Go conversion semantics: integer narrowing
// wraps, float to integer truncates toward zero. Use a saturating policy
// (e.g. fixedpoint.CastTo) when wrap-around is not acceptable.
type Narrow[A, R Numeric] struct{}

func (Narrow[A, R]) Cast(a A) R { return R(a) }

// ToFloat16 rounds a float32 accumulator to IEEE float16.
type ToFloat16 struct{}

func (ToFloat16) Cast(a float32) float16.Float16 { return float16.Fromfloat32(a) }

// ToBFloat16 rounds a float32 accumulator to bfloat16.
type ToBFloat16 struct{}

func (ToBFloat16) Cast(a float32) bfloat16.BFloat16 { return bfloat16.FromFloat32(a) }
