package aer

import (
	"errors"
	"fmt"
)

var (
	// ErrShortFrame reports a sensor frame without the three expected
	// channels.
	ErrShortFrame = errors.New("aer: short sensor frame")
	// ErrBufferFull reports an encoding that stopped early on a full
	// buffer; the events pushed so far stay queued.
	ErrBufferFull = errors.New("aer: buffer full")
)

// sensorChannels are the frame indices turned into spike trains. The
// sensor head reports three channels; the middle one is unused.
var sensorChannels = [...]int{0, 2}

// spikeCount buckets a sensor magnitude into a spike count: the
// stronger the reading, the fewer spikes, with readings of 70 and above
// producing silence.
func spikeCount(v byte) int {
	switch {
	case v < 5:
		return 10
	case v < 10:
		return 9
	case v < 15:
		return 8
	case v < 20:
		return 7
	case v < 30:
		return 6
	case v < 40:
		return 5
	case v < 50:
		return 4
	case v < 60:
		return 3
	case v < 70:
		return 2
	default:
		return 0
	}
}

// EncodeSensors writes a sensor frame onto the buffer as spike trains.
// Each consumed channel addresses the grid cell (channel mod 5,
// channel div 5) and emits its bucketed spike count, spike j stamped
// base + interval·j.
func EncodeSensors(buf *Buffer, frame []byte, base, interval uint16) error {
	if len(frame) < 3 {
		return fmt.Errorf("aer: %d-byte frame: %w", len(frame), ErrShortFrame)
	}
	for _, ch := range sensorChannels {
		spikes := spikeCount(frame[ch])
		for j := 0; j < spikes; j++ {
			e := Event{
				X:         uint8(ch % 5),
				Y:         uint8(ch / 5),
				Timestamp: base + interval*uint16(j),
			}
			if !buf.Push(e) {
				return fmt.Errorf("aer: channel %d spike %d: %w", ch, j, ErrBufferFull)
			}
		}
	}
	return nil
}

// DecodeActuators reads the two motor values off the buffer and drains
// it. Each value weighs the spike count at its driving cell against its
// antagonist cell around a resting actuation of 10.
func DecodeActuators(buf *Buffer) [2]int16 {
	var out [2]int16
	out[1] = int16(20*buf.Count(3, 3) - 20*buf.Count(1, 3) + 10)
	out[0] = int16(20*buf.Count(4, 3) - 20*buf.Count(2, 3) + 10)
	buf.Reset()
	return out
}

// BucketCodecName identifies the bucketed codec in component registries.
const BucketCodecName = "bucketed"

// BucketCodec adapts the package-level encode and decode functions to
// the pluggable codec seams in the engine and the registries. The cell
// addressing is fixed for a five-column grid with actuator cells on
// row three.
type BucketCodec struct{}

func (BucketCodec) Name() string { return BucketCodecName }

func (BucketCodec) Encode(buf *Buffer, frame []byte, base, interval uint16) error {
	return EncodeSensors(buf, frame, base, interval)
}

func (BucketCodec) Decode(buf *Buffer) [2]int16 {
	return DecodeActuators(buf)
}
