package shim

import (
	"fmt"
	"sync"

	"github.com/park285/hallchess/internal/board"
	"github.com/park285/hallchess/internal/sensor"
)

// Sim is an in-memory Hardware used by the bench CLI, scenario replay and
// tests. Occupancy changes take effect on the next poll.
type Sim struct {
	mu       sync.Mutex
	occ      board.Bitboard
	presses  []ButtonEvent
	leds     board.Bitboard
	ledSets  int
	prompts  []Prompt
	onPrompt func(Prompt)
}

func NewSim(initial board.Bitboard) *Sim {
	return &Sim{occ: initial}
}

// OnPrompt registers fn to be called for every displayed prompt.
func (s *Sim) OnPrompt(fn func(Prompt)) {
	s.mu.Lock()
	s.onPrompt = fn
	s.mu.Unlock()
}

func (s *Sim) PollSensorFrame() sensor.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sensor.Frame(s.occ)
}

// ReadRaw lets a Sim stand behind a DebouncedSensors.
func (s *Sim) ReadRaw() board.Bitboard { return s.Occupancy() }

func (s *Sim) PollButtonEdge() (ButtonEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.presses) == 0 {
		return 0, false
	}
	ev := s.presses[0]
	s.presses = s.presses[1:]
	return ev, true
}

func (s *Sim) SetLEDTargets(on board.Bitboard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on == s.leds {
		return
	}
	s.leds = on
	s.ledSets++
}

func (s *Sim) DisplayPrompt(p Prompt) {
	s.mu.Lock()
	s.prompts = append(s.prompts, p)
	fn := s.onPrompt
	s.mu.Unlock()
	if fn != nil {
		fn(p)
	}
}

func (s *Sim) Press(ev ButtonEvent) {
	s.mu.Lock()
	s.presses = append(s.presses, ev)
	s.mu.Unlock()
}

func (s *Sim) Lift(sq board.Square) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !sq.IsValid() {
		return fmt.Errorf("lift: invalid square %d", sq)
	}
	if !s.occ.Has(sq) {
		return fmt.Errorf("lift %s: square is empty", sq)
	}
	s.occ = s.occ.Without(sq)
	return nil
}

func (s *Sim) Place(sq board.Square) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !sq.IsValid() {
		return fmt.Errorf("place: invalid square %d", sq)
	}
	if s.occ.Has(sq) {
		return fmt.Errorf("place %s: square is occupied", sq)
	}
	s.occ = s.occ.With(sq)
	return nil
}

// Slide lifts from and places on to within a single poll. Captures need
// separate Lift and Place calls so the victim's lift is observed.
func (s *Sim) Slide(from, to board.Square) error {
	if err := s.Lift(from); err != nil {
		return err
	}
	if err := s.Place(to); err != nil {
		_ = s.Place(from)
		return err
	}
	return nil
}

func (s *Sim) SetOccupancy(bb board.Bitboard) {
	s.mu.Lock()
	s.occ = bb
	s.mu.Unlock()
}

func (s *Sim) Occupancy() board.Bitboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.occ
}

func (s *Sim) LEDs() board.Bitboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leds
}

// LEDWrites counts calls that actually changed the lit set.
func (s *Sim) LEDWrites() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledSets
}

func (s *Sim) Prompts() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Prompt, len(s.prompts))
	copy(out, s.prompts)
	return out
}

func (s *Sim) LastPrompt() (Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prompts) == 0 {
		return Prompt{}, false
	}
	return s.prompts[len(s.prompts)-1], true
}
