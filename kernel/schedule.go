package kernel

// The reuse factor is the single knob trading inference latency against
// multiplier count: one physical multiply-accumulate unit is time-shared
// across ReuseFactor logical multiplications. The limits computed here are
// announced to the product strategy as scheduling hints; they never affect
// the numbers produced, only how many physical units the computation should
// be provisioned with.

// MultiplierLimit returns the multiplier ceiling for one whole-matrix
// scheduling window: ceil(nIn*nOut / reuseFactor) minus the multipliers
// saved by statically known zero weights, floor(nZeros / reuseFactor).
func MultiplierLimit(nIn, nOut, reuseFactor, nZeros int) int {
	return ceilDiv(nIn*nOut, reuseFactor) - nZeros/reuseFactor
}

// SerialMultiplierLimit returns the per-input-index multiplier ceiling used
// in IOSerial mode, ceil(nOut / reuseFactor): serial scheduling shares
// multipliers across one output row at a time.
func SerialMultiplierLimit(nOut, reuseFactor int) int {
	return ceilDiv(nOut, reuseFactor)
}

// ceilDiv for positive operands.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
