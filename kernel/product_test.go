package kernel

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/stretchr/testify/assert"
	"github.com/x448/float16"
)

func TestMultWidens(t *testing.T) {
	var p Mult[int8, int8, int32]
	// The product happens in the accumulator type, so it cannot overflow
	// the operand type.
	assert.Equal(t, int32(-10000), p.Product(-100, 100))
	assert.Equal(t, int32(16129), p.Product(127, 127))
}

func TestBinaryWeight(t *testing.T) {
	var p BinaryWeight[int16, int32]
	assert.Equal(t, int32(5), p.Product(5, 1))
	assert.Equal(t, int32(-5), p.Product(5, 0))
	assert.Equal(t, int32(0), p.Product(0, 0))
}

func TestTernaryWeight(t *testing.T) {
	var p TernaryWeight[float32, float32]
	assert.Equal(t, float32(2.5), p.Product(2.5, 1))
	assert.Equal(t, float32(-2.5), p.Product(2.5, -1))
	assert.Equal(t, float32(0), p.Product(2.5, 0))
}

func TestFloat16Mult(t *testing.T) {
	var p Float16Mult
	got := p.Product(float16.Fromfloat32(1.5), float16.Fromfloat32(2))
	assert.Equal(t, float32(3), got)
}

func TestBFloat16Mult(t *testing.T) {
	var p BFloat16Mult
	got := p.Product(bfloat16.FromFloat32(1.5), bfloat16.FromFloat32(2))
	assert.Equal(t, float32(3), got)
}

func TestAccumulators(t *testing.T) {
	var s Sum[int32, int64]
	assert.Equal(t, int64(7), s.FromBias(7))
	assert.Equal(t, int64(12), s.Add(5, 7))

	var f16 Float16BiasSum
	assert.Equal(t, float32(1.5), f16.FromBias(float16.Fromfloat32(1.5)))
	assert.Equal(t, float32(4), f16.Add(1.5, 2.5))

	var bf16 BFloat16BiasSum
	assert.Equal(t, float32(1.5), bf16.FromBias(bfloat16.FromFloat32(1.5)))
	assert.Equal(t, float32(4), bf16.Add(1.5, 2.5))
}

func TestCasts(t *testing.T) {
	assert.Equal(t, float32(2.5), Exact[float32]{}.Cast(2.5))
	// Narrow uses plain Go conversion semantics: wrap-around on integer
	// overflow.
	assert.Equal(t, int8(100), Narrow[int32, int8]{}.Cast(100))
	assert.Equal(t, int8(44), Narrow[int32, int8]{}.Cast(300))
	assert.Equal(t, float16.Fromfloat32(2.5), ToFloat16{}.Cast(2.5))
	assert.Equal(t, bfloat16.FromFloat32(2.5), ToBFloat16{}.Cast(2.5))
}
