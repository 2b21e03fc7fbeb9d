package shim

import (
	"github.com/park285/hallchess/internal/board"
	"github.com/park285/hallchess/internal/sensor"
)

// RawSensors samples the matrix without any filtering.
type RawSensors interface {
	ReadRaw() board.Bitboard
}

// Debouncer accepts a raw sample as the stable frame only after it has
// repeated for the configured number of consecutive polls.
type Debouncer struct {
	polls  int
	last   board.Bitboard
	run    int
	stable board.Bitboard
	ready  bool
}

func NewDebouncer(polls int) *Debouncer {
	if polls < 1 {
		polls = 1
	}
	return &Debouncer{polls: polls}
}

// Push feeds one raw sample and returns the current stable frame. ok is
// false until some sample has been stable long enough.
func (d *Debouncer) Push(raw board.Bitboard) (frame sensor.Frame, ok bool) {
	if d.run > 0 && raw == d.last {
		d.run++
	} else {
		d.last = raw
		d.run = 1
	}
	if d.run >= d.polls {
		d.stable = raw
		d.ready = true
	}
	return sensor.Frame(d.stable), d.ready
}

// DebouncedSensors adapts RawSensors to Sensors. Before the first stable
// frame it reports the fallback occupancy.
type DebouncedSensors struct {
	raw      RawSensors
	deb      *Debouncer
	fallback board.Bitboard
}

func NewDebouncedSensors(raw RawSensors, polls int, fallback board.Bitboard) *DebouncedSensors {
	return &DebouncedSensors{raw: raw, deb: NewDebouncer(polls), fallback: fallback}
}

func (s *DebouncedSensors) PollSensorFrame() sensor.Frame {
	f, ok := s.deb.Push(s.raw.ReadRaw())
	if !ok {
		return sensor.Frame(s.fallback)
	}
	return f
}
