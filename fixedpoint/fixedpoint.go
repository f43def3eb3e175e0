// Package fixedpoint implements the signed fixed-point scalar type used by
// quantized dense layers: a Width-bit two's-complement value with Fraction
// fractional bits, plus the rounding and overflow rules applied whenever a
// value is converted to a narrower format.
//
// Arithmetic is deterministic and bit-exact: Add applies the destination
// format's overflow rule, Mul computes the exact double-width product and
// then converts it, and Convert is the single place rounding and
// saturation/wrap-around happen. Because saturating addition is not
// associative, summation order matters; callers that need reproducible sums
// must fix their iteration order.
package fixedpoint

import (
	"math"
	"strconv"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

//go:generate enumer -type=Round -transform=snake -values -text fixedpoint.go
//go:generate enumer -type=Overflow -transform=snake -values -text fixedpoint.go

// Round selects how dropped fractional bits are resolved on conversion.
type Round int

const (
	// Truncate drops the bits, rounding toward negative infinity.
	Truncate Round = iota

	// NearestEven rounds to the nearest representable value, ties to even.
	NearestEven
)

// Overflow selects what happens when a value exceeds the destination range.
type Overflow int

const (
	// Wrap keeps the low Width bits, two's-complement style.
	Wrap Overflow = iota

	// Saturate clamps to the most positive or most negative representable
	// value.
	Saturate
)

// Format describes a fixed-point encoding: Width total bits (including the
// sign bit, at most 32 so products stay exact in 64 bits), Fraction bits of
// those below the binary point, and the Round/Overflow rules applied when
// converting into this format.
type Format struct {
	Width, Fraction int
	Round           Round
	Overflow        Overflow
}

// Validate reports whether the format is usable.
func (f Format) Validate() error {
	if f.Width < 1 || f.Width > 32 {
		return errors.Errorf("fixedpoint: Width must be in [1, 32], got %d", f.Width)
	}
	if f.Fraction < 0 || f.Fraction > f.Width {
		return errors.Errorf("fixedpoint: Fraction must be in [0, Width=%d], got %d", f.Width, f.Fraction)
	}
	if !f.Round.IsARound() || !f.Overflow.IsAOverflow() {
		return errors.Errorf("fixedpoint: invalid Round/Overflow in %+v", f)
	}
	return nil
}

func (f Format) check() {
	if err := f.Validate(); err != nil {
		exceptions.Panicf("%v", err)
	}
}

// maxRaw and minRaw bound the raw integer range of the format.
func (f Format) maxRaw() int64 { return 1<<(f.Width-1) - 1 }
func (f Format) minRaw() int64 { return -1 << (f.Width - 1) }

// Num is a fixed-point value: an integer scaled by 2^-Fraction in the
// two's-complement range of its format. The zero value carries no usable
// format; build values through a Format.
type Num struct {
	raw int64
	fmt Format
}

// FromRaw builds a value from its raw scaled integer, applying the format's
// overflow rule.
func (f Format) FromRaw(raw int64) Num {
	f.check()
	return convertRaw(raw, f.Fraction, f)
}

// FromFloat64 quantizes v into the format, applying its rounding and
// overflow rules. NaN maps to zero.
func (f Format) FromFloat64(v float64) Num {
	f.check()
	if math.IsNaN(v) {
		return Num{fmt: f}
	}
	scaled := v * math.Ldexp(1, f.Fraction)
	var raw float64
	switch f.Round {
	case NearestEven:
		raw = math.RoundToEven(scaled)
	default:
		raw = math.Floor(scaled)
	}
	if raw > float64(f.maxRaw()) || raw < float64(f.minRaw()) {
		if f.Overflow == Saturate {
			if raw > 0 {
				return Num{raw: f.maxRaw(), fmt: f}
			}
			return Num{raw: f.minRaw(), fmt: f}
		}
		// Wrap: reduce modulo 2^Width first, so the int64 conversion below
		// is in range even for huge inputs.
		raw = math.Mod(raw, math.Ldexp(1, f.Width))
	}
	return clampOrWrap(int64(raw), f)
}

// Raw returns the underlying scaled integer.
func (n Num) Raw() int64 { return n.raw }

// Format returns the value's format.
func (n Num) Format() Format { return n.fmt }

// Float64 returns the exact real value n represents.
func (n Num) Float64() float64 {
	return float64(n.raw) * math.Ldexp(1, -n.fmt.Fraction)
}

// String formats the represented value in decimal.
func (n Num) String() string {
	return strconv.FormatFloat(n.Float64(), 'g', -1, 64)
}

// Add returns n+o in n's format, applying the format's overflow rule. Both
// operands must share the format.
func (n Num) Add(o Num) Num {
	if n.fmt != o.fmt {
		exceptions.Panicf("fixedpoint: Add format mismatch: %+v vs %+v", n.fmt, o.fmt)
	}
	return clampOrWrap(n.raw+o.raw, n.fmt)
}

// Mul returns n*o converted to the given format. The intermediate product
// is exact (both operands are at most 32 bits wide), so rounding and
// overflow happen only in the final conversion.
func (n Num) Mul(o Num, to Format) Num {
	to.check()
	return convertRaw(n.raw*o.raw, n.fmt.Fraction+o.fmt.Fraction, to)
}

// Convert re-encodes n in the given format, applying the destination's
// rounding and overflow rules.
func (n Num) Convert(to Format) Num {
	to.check()
	return convertRaw(n.raw, n.fmt.Fraction, to)
}

// convertRaw reinterprets a raw value with the given fraction into the
// destination format: align the binary point (rounding if bits are
// dropped), then enforce the destination width.
func convertRaw(raw int64, fraction int, to Format) Num {
	shift := fraction - to.Fraction
	if shift > 0 {
		switch to.Round {
		case NearestEven:
			// The shift can reach 64 (a product of two Fraction:32 operands
			// into an integer format), so the remainder comparison must run
			// in uint64: 2^63 has no int64 representation.
			floor := raw >> shift // shifts >= 64 floor to 0 or -1
			var rem, half uint64
			if shift >= 64 {
				rem = uint64(raw)
				half = 1 << 63
			} else {
				rem = uint64(raw - floor<<shift)
				half = 1 << uint(shift-1)
			}
			if rem > half || (rem == half && floor&1 == 1) {
				floor++
			}
			raw = floor
		default: // Truncate
			raw >>= shift
		}
	} else if shift < 0 {
		// Widening the fraction: saturate early if the shift alone overflows
		// the 64-bit intermediate.
		if raw > math.MaxInt64>>uint(-shift) {
			return clampOrWrap(to.maxRaw()+1, to)
		}
		if raw < math.MinInt64>>uint(-shift) {
			return clampOrWrap(to.minRaw()-1, to)
		}
		raw <<= uint(-shift)
	}
	return clampOrWrap(raw, to)
}

// clampOrWrap enforces the format's width on raw per its overflow rule.
func clampOrWrap(raw int64, f Format) Num {
	if raw >= f.minRaw() && raw <= f.maxRaw() {
		return Num{raw: raw, fmt: f}
	}
	if f.Overflow == Saturate {
		if raw > f.maxRaw() {
			return Num{raw: f.maxRaw(), fmt: f}
		}
		return Num{raw: f.minRaw(), fmt: f}
	}
	// Wrap: keep the low Width bits, sign-extended.
	u := uint64(raw) & (1<<uint(f.Width) - 1)
	if u&(1<<uint(f.Width-1)) != 0 {
		u |= ^uint64(0) << uint(f.Width)
	}
	return Num{raw: int64(u), fmt: f}
}

// Mult is the dense-kernel product strategy over fixed-point scalars: the
// exact input×weight product converted into the accumulator format.
type Mult struct {
	// Accum is the accumulator format products are delivered in.
	Accum Format
}

// Product implements the kernel's product strategy contract.
func (m Mult) Product(x, w Num) Num { return x.Mul(w, m.Accum) }

// SetResourceLimit is advisory scheduling metadata; fixed-point products
// are value-pure, so it is ignored.
func (Mult) SetResourceLimit(int) {}

// Sum is the dense-kernel accumulator over fixed-point scalars.
type Sum struct {
	// Accum is the accumulation format; biases are converted into it once
	// per invocation.
	Accum Format
}

// FromBias converts a bias into the accumulation format.
func (s Sum) FromBias(b Num) Num { return b.Convert(s.Accum) }

// Add implements saturating (or wrapping, per the format) accumulation.
func (Sum) Add(x, y Num) Num { return x.Add(y) }

// CastTo is the dense-kernel cast policy narrowing accumulators into the
// result format, applying its rounding and overflow rules.
type CastTo struct {
	Result Format
}

// Cast implements the kernel's cast policy contract.
func (c CastTo) Cast(a Num) Num { return a.Convert(c.Result) }
