// Package env provides named sensor-frame sources, so run sessions can
// exercise the closed sensorimotor loop without a robot on the wire.
package env

import "fmt"

// Environment produces the sensor frames a run session feeds into the
// engine, one per handled cycle. Frame reports false when the source is
// exhausted.
type Environment interface {
	Name() string
	Frame(cycle int) ([]byte, bool)
}

// Constant replays one fixed frame forever.
type Constant struct {
	name  string
	frame []byte
}

// NewConstant builds a constant source from a three-channel frame.
func NewConstant(name string, frame []byte) (*Constant, error) {
	if len(frame) < 3 {
		return nil, fmt.Errorf("env: constant %q needs a 3-channel frame, got %d bytes", name, len(frame))
	}
	c := &Constant{name: name, frame: make([]byte, len(frame))}
	copy(c.frame, frame)
	return c, nil
}

func (c *Constant) Name() string {
	return c.name
}

func (c *Constant) Frame(int) ([]byte, bool) {
	return c.frame, true
}

// Trace plays a scripted frame sequence, optionally looping it.
type Trace struct {
	name   string
	frames [][]byte
	loop   bool
}

// NewTrace builds a scripted source. Every frame needs three channels.
func NewTrace(name string, frames [][]byte, loop bool) (*Trace, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("env: trace %q has no frames", name)
	}
	tr := &Trace{name: name, frames: make([][]byte, len(frames)), loop: loop}
	for i, f := range frames {
		if len(f) < 3 {
			return nil, fmt.Errorf("env: trace %q frame %d needs 3 channels, got %d bytes", name, i, len(f))
		}
		tr.frames[i] = make([]byte, len(f))
		copy(tr.frames[i], f)
	}
	return tr, nil
}

func (tr *Trace) Name() string {
	return tr.name
}

func (tr *Trace) Frame(cycle int) ([]byte, bool) {
	if tr.loop {
		return tr.frames[cycle%len(tr.frames)], true
	}
	if cycle < 0 || cycle >= len(tr.frames) {
		return nil, false
	}
	return tr.frames[cycle], true
}

// Sweep walks both consumed channels up through the magnitude range in
// fixed steps, holding each level for a number of cycles, and ends past
// the top of the range.
type Sweep struct {
	name string
	step int
	hold int
}

// NewSweep builds a stepped magnitude sweep.
func NewSweep(name string, step, hold int) (*Sweep, error) {
	if step < 1 || hold < 1 {
		return nil, fmt.Errorf("env: sweep %q needs positive step and hold, got %d/%d", name, step, hold)
	}
	return &Sweep{name: name, step: step, hold: hold}, nil
}

func (s *Sweep) Name() string {
	return s.name
}

func (s *Sweep) Frame(cycle int) ([]byte, bool) {
	if cycle < 0 {
		return nil, false
	}
	level := (cycle / s.hold) * s.step
	if level > 255 {
		return nil, false
	}
	v := byte(level)
	return []byte{v, 0, v}, true
}
