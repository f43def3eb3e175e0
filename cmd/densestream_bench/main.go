// densestream_bench streams random input vectors through one dense layer
// and reports its effective throughput.
//
// It builds a float32 kernel from the command-line geometry, runs it in
// steady-state streaming mode (one goroutine feeding packets, one draining
// them) and prints a summary table of packets and multiply-accumulate
// throughput.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/densestream/kernel"
	"github.com/gomlx/densestream/kernel/packets"
	"github.com/janpfeifer/must"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/exp/rand"
	"k8s.io/klog/v2"
)

var (
	flagNIn     = flag.Int("n_in", 64, "Input vector width of the layer.")
	flagNOut    = flag.Int("n_out", 64, "Output vector width of the layer.")
	flagPackIn  = flag.Int("pack_in", 8, "Scalars per input packet. Must divide n_in.")
	flagPackOut = flag.Int("pack_out", 8, "Scalars per output packet. Must divide n_out.")
	flagReuse   = flag.Int("reuse", 1, "Reuse factor: cycles over which one multiplier is time-shared. "+
		"Only changes the resource hints reported, never the results.")
	flagZeros = flag.Int("zeros", 0, "Statically known zero-weight count (structural sparsity).")
	flagIO    = flag.String("io", "parallel", "Scheduling mode: parallel or serial.")
	flagSteps = flag.Int("steps", 10000, "Number of input vectors to stream through the layer.")
	flagSeed  = flag.Uint64("seed", 42, "Seed for the random weights, biases and inputs.")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	ioType := must.M1(kernel.IOTypeString(*flagIO))
	rng := rand.New(rand.NewSource(*flagSeed))
	weights := make([]float32, *flagNIn**flagNOut)
	for ii := range weights {
		weights[ii] = rng.Float32()*2 - 1
	}
	biases := make([]float32, *flagNOut)
	for jj := range biases {
		biases[jj] = rng.Float32()*2 - 1
	}

	k := must.M1(kernel.New(kernel.Config[float32, float32, float32, float32, float32]{
		NIn:         *flagNIn,
		NOut:        *flagNOut,
		InPackSize:  *flagPackIn,
		OutPackSize: *flagPackOut,
		ReuseFactor: *flagReuse,
		NZeros:      *flagZeros,
		IOType:      ioType,
		Product:     kernel.Mult[float32, float32, float32]{},
		Accum:       kernel.Sum[float32, float32]{},
		Cast:        kernel.Exact[float32]{},
	}, weights, biases))

	in := packets.New[float32]()
	out := packets.New[float32]()
	go k.Run(in, out)
	go func() {
		vec := make([]float32, *flagNIn)
		for step := 0; step < *flagSteps; step++ {
			for ii := range vec {
				vec[ii] = rng.Float32()*2 - 1
			}
			packets.Split(in, vec, *flagPackIn)
		}
		close(in)
	}()

	bar := progressbar.NewOptions(*flagSteps,
		progressbar.OptionSetDescription("streaming"),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("vectors"),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
	)
	result := make([]float32, *flagNOut)
	start := time.Now()
	vectors := 0
	for packets.Gather(out, result, *flagPackOut) {
		vectors++
		must.M(bar.Add(1))
	}
	elapsed := time.Since(start)
	must.M(bar.Finish())
	fmt.Println()

	macs := float64(vectors) * float64(*flagNIn) * float64(*flagNOut)
	inPackets := vectors * (*flagNIn / *flagPackIn)
	outPackets := vectors * (*flagNOut / *flagPackOut)
	table := lgtable.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Metric", "Value").
		Row("Layer", fmt.Sprintf("%d x %d (%s, reuse=%d, zeros=%d)",
			*flagNIn, *flagNOut, ioType, *flagReuse, *flagZeros)).
		Row("Multiplier limit", humanize.Comma(int64(kernel.MultiplierLimit(*flagNIn, *flagNOut, *flagReuse, *flagZeros)))).
		Row("Vectors", humanize.Comma(int64(vectors))).
		Row("Input packets", humanize.Comma(int64(inPackets))).
		Row("Output packets", humanize.Comma(int64(outPackets))).
		Row("Elapsed", elapsed.Round(time.Millisecond).String()).
		Row("Throughput", humanize.SIWithDigits(macs/elapsed.Seconds(), 2, "MAC/s"))
	fmt.Println(table.Render())

	if vectors != *flagSteps {
		klog.Errorf("streamed %d vectors, expected %d", vectors, *flagSteps)
		os.Exit(1)
	}
}
