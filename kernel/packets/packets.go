// Package packets implements the packed-element streams that feed and drain
// a dense kernel.
//
// A Packet bundles a fixed number of scalars into one stream item, widening
// the effective per-transfer bus width. A full vector of length n travels as
// n/size packets, in order. Streams are FIFO with blocking reads and writes;
// a read suspends until a producer has data, a write until a consumer takes
// the packet.
package packets

import (
	"github.com/gomlx/exceptions"
)

// Packet is a fixed-size bundle of scalars transmitted as one stream item.
// All packets on a stream carry the same number of scalars.
type Packet[T any] []T

// Stream is a FIFO of packets connecting a producer to a single consumer.
// The zero value is not usable; create streams with New or NewBuffered.
type Stream[T any] chan Packet[T]

// New returns a stream with capacity for one in-flight packet, the handoff
// depth used between pipeline stages that accept one packet per cycle.
func New[T any]() Stream[T] {
	return make(Stream[T], 1)
}

// NewBuffered returns a stream that can hold up to capacity packets before
// writes block. Composing layers with mismatched packet rates may want a
// deeper FIFO than the default.
func NewBuffered[T any](capacity int) Stream[T] {
	if capacity < 1 {
		exceptions.Panicf("packets.NewBuffered: capacity must be >= 1, got %d", capacity)
	}
	return make(Stream[T], capacity)
}

// Split writes the scalars of src to the stream as packets of the given
// size, in order. len(src) must be a multiple of size. Each packet is a
// fresh slice owned by the receiver. Split blocks whenever the stream is
// full.
func Split[T any](s Stream[T], src []T, size int) {
	if size < 1 || len(src)%size != 0 {
		exceptions.Panicf("packets.Split: len(src)=%d is not a multiple of packet size %d", len(src), size)
	}
	for ii := 0; ii < len(src); ii += size {
		pkt := make(Packet[T], size)
		copy(pkt, src[ii:ii+size])
		s <- pkt
	}
}

// Gather reads len(dst)/size packets from the stream and flattens their
// scalars into dst, in order. len(dst) must be a multiple of size. It
// returns false if the stream was closed before the first packet; a close
// mid-vector is a contract violation and panics, since a partially gathered
// vector must never be observed.
func Gather[T any](s Stream[T], dst []T, size int) bool {
	if size < 1 || len(dst)%size != 0 {
		exceptions.Panicf("packets.Gather: len(dst)=%d is not a multiple of packet size %d", len(dst), size)
	}
	numPackets := len(dst) / size
	for ii := 0; ii < numPackets; ii++ {
		pkt, ok := <-s
		if !ok {
			if ii == 0 {
				return false
			}
			exceptions.Panicf("packets.Gather: stream closed mid-vector, got %d of %d packets", ii, numPackets)
		}
		if len(pkt) != size {
			exceptions.Panicf("packets.Gather: packet carries %d scalars, stream expects %d", len(pkt), size)
		}
		copy(dst[ii*size:], pkt)
	}
	return true
}
