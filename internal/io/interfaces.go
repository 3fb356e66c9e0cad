package io

import "ontogen/internal/aer"

// SensorCodec translates raw sensor frames into address events on the
// way in and accumulated output events into actuator values on the way
// out. Implementations fix a cell addressing scheme and therefore a
// grid geometry; the registry's compatibility hooks guard the pairing.
type SensorCodec interface {
	Name() string
	Encode(buf *aer.Buffer, frame []byte, base, interval uint16) error
	Decode(buf *aer.Buffer) [2]int16
}
