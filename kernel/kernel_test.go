package kernel

import (
	"fmt"
	"testing"

	"github.com/gomlx/densestream/kernel/packets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// forwardOnce runs a single invocation over buffered streams, so the test
// stays single-goroutine: the output stream is sized to hold the whole
// vector.
func forwardOnce[T, W, B, A, R any](t *testing.T, k *Kernel[T, W, B, A, R], input []T) []R {
	cfg := k.Config()
	in := packets.NewBuffered[T](cfg.NIn / cfg.InPackSize)
	out := packets.NewBuffered[R](cfg.NOut / cfg.OutPackSize)
	packets.Split(in, input, cfg.InPackSize)
	require.True(t, k.Forward(in, out))
	result := make([]R, cfg.NOut)
	require.True(t, packets.Gather(out, result, cfg.OutPackSize))
	return result
}

func int32Config(nIn, nOut int) Config[int32, int32, int32, int64, int32] {
	return Config[int32, int32, int32, int64, int32]{
		NIn:         nIn,
		NOut:        nOut,
		InPackSize:  1,
		OutPackSize: 1,
		ReuseFactor: 1,
		Product:     Mult[int32, int32, int64]{},
		Accum:       Sum[int32, int64]{},
		Cast:        Narrow[int64, int32]{},
	}
}

func TestForward(t *testing.T) {
	// output[0] = cast(1 + 2*3 + 4*5) = 27.
	k, err := New(int32Config(2, 1), []int32{3, 5}, []int32{1})
	require.NoError(t, err)
	got := forwardOnce(t, k, []int32{2, 4})
	assert.Equal(t, []int32{27}, got)

	// Same invocation again: scratch buffers are fully rewritten, nothing
	// leaks between invocations.
	got = forwardOnce(t, k, []int32{2, 4})
	assert.Equal(t, []int32{27}, got)
	got = forwardOnce(t, k, []int32{0, 0})
	assert.Equal(t, []int32{1}, got)
}

func TestForwardAgainstReference(t *testing.T) {
	const nIn, nOut = 32, 24
	rng := rand.New(rand.NewSource(7))
	weights := make([]float32, nIn*nOut)
	for ii := range weights {
		weights[ii] = rng.Float32()*2 - 1
	}
	biases := make([]float32, nOut)
	for jj := range biases {
		biases[jj] = rng.Float32()*2 - 1
	}
	input := make([]float32, nIn)
	for ii := range input {
		input[ii] = rng.Float32()*2 - 1
	}

	k, err := New(Config[float32, float32, float32, float32, float32]{
		NIn:         nIn,
		NOut:        nOut,
		InPackSize:  8,
		OutPackSize: 4,
		ReuseFactor: 4,
		Product:     Mult[float32, float32, float32]{},
		Accum:       Sum[float32, float32]{},
		Cast:        Exact[float32]{},
	}, weights, biases)
	require.NoError(t, err)
	got := forwardOnce(t, k, input)

	for jj := 0; jj < nOut; jj++ {
		ref := float64(biases[jj])
		for ii := 0; ii < nIn; ii++ {
			ref += float64(input[ii]) * float64(weights[ii*nOut+jj])
		}
		assert.InDeltaf(t, ref, float64(got[jj]), 1e-3, "output %d diverges from float64 reference", jj)
	}
}

func TestReuseFactorDoesNotChangeResults(t *testing.T) {
	const nIn, nOut = 12, 8
	rng := rand.New(rand.NewSource(11))
	weights := make([]float32, nIn*nOut)
	for ii := range weights {
		weights[ii] = rng.Float32()*2 - 1
	}
	biases := make([]float32, nOut)
	for jj := range biases {
		biases[jj] = rng.Float32()*2 - 1
	}
	input := make([]float32, nIn)
	for ii := range input {
		input[ii] = rng.Float32()*2 - 1
	}

	var baseline []float32
	for _, ioType := range IOTypeValues() {
		for _, reuse := range []int{1, 2, 3, 8, 96} {
			k, err := New(Config[float32, float32, float32, float32, float32]{
				NIn:         nIn,
				NOut:        nOut,
				InPackSize:  4,
				OutPackSize: 2,
				ReuseFactor: reuse,
				NZeros:      5,
				IOType:      ioType,
				Product:     Mult[float32, float32, float32]{},
				Accum:       Sum[float32, float32]{},
				Cast:        Exact[float32]{},
			}, weights, biases)
			require.NoError(t, err)
			got := forwardOnce(t, k, input)
			if baseline == nil {
				baseline = got
				continue
			}
			assert.Equalf(t, baseline, got, "io=%s reuse=%d changed the results", ioType, reuse)
		}
	}
}

func TestPackRoundTrip(t *testing.T) {
	// Identity weights and zero biases: the layer must return the input
	// sequence unchanged, in order, for any pack size dividing the widths.
	const n = 12
	weights := make([]int32, n*n)
	for ii := 0; ii < n; ii++ {
		weights[ii*n+ii] = 1
	}
	biases := make([]int32, n)
	input := make([]int32, n)
	for ii := range input {
		input[ii] = int32(ii + 1)
	}

	for _, packSize := range []int{1, 2, 3, 4, 6, 12} {
		cfg := int32Config(n, n)
		cfg.InPackSize = packSize
		cfg.OutPackSize = packSize
		k, err := New(cfg, weights, biases)
		require.NoError(t, err)
		got := forwardOnce(t, k, input)
		assert.Equalf(t, input, got, "pack size %d", packSize)
	}
}

func TestSinglePacketVector(t *testing.T) {
	// NIn == InPackSize and NOut == OutPackSize: one packet each way.
	cfg := int32Config(2, 1)
	cfg.InPackSize = 2
	k, err := New(cfg, []int32{3, 5}, []int32{1})
	require.NoError(t, err)

	in := packets.New[int32]()
	out := packets.New[int32]()
	go k.Run(in, out)
	in <- packets.Packet[int32]{2, 4}
	close(in)

	var outPackets []packets.Packet[int32]
	for pkt := range out {
		outPackets = append(outPackets, pkt)
	}
	require.Len(t, outPackets, 1)
	assert.Equal(t, packets.Packet[int32]{27}, outPackets[0])
}

func TestRunPacketAccounting(t *testing.T) {
	const nIn, nOut, packIn, packOut, numVectors = 8, 6, 4, 3, 5
	cfg := int32Config(nIn, nOut)
	cfg.InPackSize = packIn
	cfg.OutPackSize = packOut
	weights := make([]int32, nIn*nOut)
	biases := make([]int32, nOut)
	k, err := New(cfg, weights, biases)
	require.NoError(t, err)

	in := packets.New[int32]()
	out := packets.New[int32]()
	go func() {
		vec := make([]int32, nIn)
		for v := 0; v < numVectors; v++ {
			packets.Split(in, vec, packIn)
		}
		close(in)
	}()
	go k.Run(in, out)

	count := 0
	for pkt := range out {
		assert.Len(t, pkt, packOut)
		count++
	}
	assert.Equal(t, numVectors*nOut/packOut, count)
}

func TestForwardReturnsFalseOnClosedStream(t *testing.T) {
	k, err := New(int32Config(2, 1), []int32{3, 5}, []int32{1})
	require.NoError(t, err)
	in := packets.New[int32]()
	out := packets.New[int32]()
	close(in)
	assert.False(t, k.Forward(in, out))
}

func TestNewValidation(t *testing.T) {
	weights := []int32{3, 5}
	biases := []int32{1}
	tests := []struct {
		name   string
		mutate func(cfg *Config[int32, int32, int32, int64, int32])
		errMsg string
	}{
		{"zero NIn", func(cfg *Config[int32, int32, int32, int64, int32]) { cfg.NIn = 0 }, "must be positive"},
		{"negative NOut", func(cfg *Config[int32, int32, int32, int64, int32]) { cfg.NOut = -1 }, "must be positive"},
		{"pack size does not divide", func(cfg *Config[int32, int32, int32, int64, int32]) { cfg.InPackSize = 3 }, "divide"},
		{"zero OutPackSize", func(cfg *Config[int32, int32, int32, int64, int32]) { cfg.OutPackSize = 0 }, "OutPackSize"},
		{"zero ReuseFactor", func(cfg *Config[int32, int32, int32, int64, int32]) { cfg.ReuseFactor = 0 }, "ReuseFactor"},
		{"NZeros too large", func(cfg *Config[int32, int32, int32, int64, int32]) { cfg.NZeros = 3 }, "NZeros"},
		{"bad IOType", func(cfg *Config[int32, int32, int32, int64, int32]) { cfg.IOType = IOType(42) }, "IOType"},
		{"nil Product", func(cfg *Config[int32, int32, int32, int64, int32]) { cfg.Product = nil }, "Product"},
		{"nil Accum", func(cfg *Config[int32, int32, int32, int64, int32]) { cfg.Accum = nil }, "Accum"},
		{"nil Cast", func(cfg *Config[int32, int32, int32, int64, int32]) { cfg.Cast = nil }, "Cast"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := int32Config(2, 1)
			test.mutate(&cfg)
			_, err := New(cfg, weights, biases)
			require.ErrorContains(t, err, test.errMsg)
		})
	}

	_, err := New(int32Config(2, 1), []int32{3}, biases)
	require.ErrorContains(t, err, "weight table")
	_, err = New(int32Config(2, 1), weights, []int32{1, 2})
	require.ErrorContains(t, err, "bias vector")
}

func TestForwardOnZeroKernel(t *testing.T) {
	var k Kernel[int32, int32, int32, int64, int32]
	assert.Panics(t, func() {
		k.Forward(packets.New[int32](), packets.New[int32]())
	})
}

func TestIOTypeStrings(t *testing.T) {
	assert.Equal(t, "parallel", IOParallel.String())
	assert.Equal(t, "serial", IOSerial.String())
	for _, ioType := range IOTypeValues() {
		parsed, err := IOTypeString(ioType.String())
		require.NoError(t, err)
		assert.Equal(t, ioType, parsed)
	}
	_, err := IOTypeString("bogus")
	assert.Error(t, err)
	fmt.Printf("\tIOTypes: %v\n", IOTypeStrings())
}
