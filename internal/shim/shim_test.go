package shim

import (
	"testing"

	"github.com/park285/hallchess/internal/board"
	"github.com/park285/hallchess/internal/sensor"
)

func TestDebouncerNeedsConsecutiveSamples(t *testing.T) {
	d := NewDebouncer(3)
	a := board.BitboardOf(board.E2)
	b := board.BitboardOf(board.E4)

	if _, ok := d.Push(a); ok {
		t.Fatalf("stable after one sample")
	}
	d.Push(a)
	if f, ok := d.Push(a); !ok || f != sensor.Frame(a) {
		t.Fatalf("Push = %v,%v want %v,true", f, ok, a)
	}

	// A bouncing sample does not replace the stable frame.
	d.Push(b)
	d.Push(a)
	if f, _ := d.Push(b); f != sensor.Frame(a) {
		t.Fatalf("bounce leaked into stable frame: %v", f)
	}
	d.Push(b)
	if f, _ := d.Push(b); f != sensor.Frame(b) {
		t.Fatalf("stable frame = %v, want %v", f, b)
	}
}

type rawSeq struct {
	samples []board.Bitboard
	i       int
}

func (r *rawSeq) ReadRaw() board.Bitboard {
	s := r.samples[r.i]
	if r.i < len(r.samples)-1 {
		r.i++
	}
	return s
}

func TestDebouncedSensorsFallback(t *testing.T) {
	fallback := board.StartingOccupancy
	raw := &rawSeq{samples: []board.Bitboard{0, 0}}
	s := NewDebouncedSensors(raw, 2, fallback)
	if f := s.PollSensorFrame(); f != sensor.Frame(fallback) {
		t.Fatalf("first poll = %v, want fallback", f)
	}
	if f := s.PollSensorFrame(); f != 0 {
		t.Fatalf("second poll = %v, want empty", f)
	}
}

func TestSimOccupancy(t *testing.T) {
	s := NewSim(board.StartingOccupancy)
	if err := s.Lift(board.E4); err == nil {
		t.Fatalf("lifting an empty square succeeded")
	}
	if err := s.Place(board.E2); err == nil {
		t.Fatalf("placing on an occupied square succeeded")
	}
	if err := s.Slide(board.E2, board.E4); err != nil {
		t.Fatalf("Slide: %v", err)
	}
	want := board.StartingOccupancy.Without(board.E2).With(board.E4)
	if got := s.PollSensorFrame(); got != sensor.Frame(want) {
		t.Fatalf("frame = %v, want %v", got, want)
	}
	// A failed slide leaves the board as it was.
	if err := s.Slide(board.D2, board.D1); err == nil {
		t.Fatalf("slide onto occupied square succeeded")
	}
	if s.Occupancy() != want {
		t.Fatalf("failed slide changed occupancy")
	}
}

func TestSimButtonsAndOutputs(t *testing.T) {
	s := NewSim(0)
	if _, ok := s.PollButtonEdge(); ok {
		t.Fatalf("edge reported with no presses")
	}
	s.Press(ButtonPress)
	s.Press(ButtonReset)
	if ev, ok := s.PollButtonEdge(); !ok || ev != ButtonPress {
		t.Fatalf("first edge = %v,%v", ev, ok)
	}
	if ev, ok := s.PollButtonEdge(); !ok || ev != ButtonReset {
		t.Fatalf("second edge = %v,%v", ev, ok)
	}

	leds := board.BitboardOf(board.A1, board.H8)
	s.SetLEDTargets(leds)
	s.SetLEDTargets(leds)
	if s.LEDs() != leds || s.LEDWrites() != 1 {
		t.Fatalf("LEDs = %v writes = %d", s.LEDs(), s.LEDWrites())
	}

	var seen []PromptKind
	s.OnPrompt(func(p Prompt) { seen = append(seen, p.Kind) })
	s.DisplayPrompt(Prompt{Kind: PromptThinking})
	if p, ok := s.LastPrompt(); !ok || p.Kind != PromptThinking {
		t.Fatalf("LastPrompt = %+v,%v", p, ok)
	}
	if len(seen) != 1 || len(s.Prompts()) != 1 {
		t.Fatalf("hook saw %v, prompts %v", seen, s.Prompts())
	}
}
