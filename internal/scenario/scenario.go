// Package scenario replays scripted bench sessions against the simulated
// board. A script is a list of steps; every action step is followed by one
// tick of the game loop.
package scenario

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"github.com/park285/hallchess/internal/board"
	"github.com/park285/hallchess/internal/boardbuilder"
	"github.com/park285/hallchess/internal/config"
	"github.com/park285/hallchess/internal/game"
	"github.com/park285/hallchess/internal/search"
	"github.com/park285/hallchess/internal/shim"
)

var ErrExpectation = errors.New("expectation failed")

type Script struct {
	Name     string `yaml:"name"`
	Preset   string `yaml:"preset"`
	MaxDepth int    `yaml:"max_depth"`
	Steps    []Step `yaml:"steps"`
}

// Step holds exactly one action or expectation.
type Step struct {
	Press     string `yaml:"press"` // press | reset
	Lift      string `yaml:"lift"`
	Place     string `yaml:"place"`
	Move      string `yaml:"move"`
	Replicate bool   `yaml:"replicate"`
	Wait      string `yaml:"wait"`
	Ticks     int    `yaml:"ticks"`

	ExpectPhase  string   `yaml:"expect_phase"`
	ExpectLEDs   []string `yaml:"expect_leds"`
	ExpectPrompt string   `yaml:"expect_prompt"`
}

func (s Step) kinds() []string {
	var k []string
	if s.Press != "" {
		k = append(k, "press")
	}
	if s.Lift != "" {
		k = append(k, "lift")
	}
	if s.Place != "" {
		k = append(k, "place")
	}
	if s.Move != "" {
		k = append(k, "move")
	}
	if s.Replicate {
		k = append(k, "replicate")
	}
	if s.Wait != "" {
		k = append(k, "wait")
	}
	if s.Ticks != 0 {
		k = append(k, "ticks")
	}
	if s.ExpectPhase != "" {
		k = append(k, "expect_phase")
	}
	if s.ExpectLEDs != nil {
		k = append(k, "expect_leds")
	}
	if s.ExpectPrompt != "" {
		k = append(k, "expect_prompt")
	}
	return k
}

func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if strings.TrimSpace(s.Name) == "" {
		return nil, fmt.Errorf("scenario name required")
	}
	for i, st := range s.Steps {
		switch k := st.kinds(); len(k) {
		case 1:
		case 0:
			return nil, fmt.Errorf("%s: step %d is empty", s.Name, i+1)
		default:
			return nil, fmt.Errorf("%s: step %d mixes %s", s.Name, i+1, strings.Join(k, ", "))
		}
		if st.Ticks < 0 {
			return nil, fmt.Errorf("%s: step %d: negative ticks", s.Name, i+1)
		}
	}
	return &s, nil
}

func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

type Report struct {
	Name   string
	Steps  int
	Phase  game.Phase
	GameID string
	SAN    []string
}

// Run executes s on a fresh simulated board. The clock only advances on
// wait steps, so searches are bounded by depth alone.
func Run(ctx context.Context, s *Script, logger *zap.Logger) (*Report, error) {
	cfg := config.Default()
	if s.Preset != "" {
		cfg.Preset = s.Preset
	}
	cfg.MaxDepth = s.MaxDepth
	sim := shim.NewSim(board.StartingOccupancy)
	clock := &search.ManualClock{}
	deps, err := boardbuilder.New(cfg, sim, clock, logger)
	if err != nil {
		return nil, err
	}
	r := &runner{ctx: ctx, sim: sim, clock: clock, m: deps.Machine}

	rep := &Report{Name: s.Name}
	for i, st := range s.Steps {
		if err := r.step(st); err != nil {
			return rep, fmt.Errorf("%s: step %d (%s): %w", s.Name, i+1, st.kinds()[0], err)
		}
		rep.Steps++
	}
	rep.Phase = r.m.Phase()
	rep.GameID = r.m.GameID()
	rep.SAN = r.m.Sheet().SAN()
	return rep, nil
}

type runner struct {
	ctx   context.Context
	sim   *shim.Sim
	clock *search.ManualClock
	m     *game.Machine
}

func (r *runner) tick(n int) error {
	for i := 0; i < n; i++ {
		if err := r.m.Tick(r.ctx); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) step(st Step) error {
	switch {
	case st.Press != "":
		switch st.Press {
		case "press":
			r.sim.Press(shim.ButtonPress)
		case "reset":
			r.sim.Press(shim.ButtonReset)
		default:
			return fmt.Errorf("unknown button event %q", st.Press)
		}
	case st.Lift != "":
		sq, err := board.ParseSquare(st.Lift)
		if err != nil {
			return err
		}
		if err := r.sim.Lift(sq); err != nil {
			return err
		}
	case st.Place != "":
		sq, err := board.ParseSquare(st.Place)
		if err != nil {
			return err
		}
		if err := r.sim.Place(sq); err != nil {
			return err
		}
	case st.Move != "":
		mv, err := board.ParseCoordinate(st.Move)
		if err != nil {
			return err
		}
		if err := r.sim.Slide(mv.From, mv.To); err != nil {
			return err
		}
	case st.Replicate:
		if r.m.Phase() != game.PhaseAiMoveConfirm {
			return fmt.Errorf("no engine move to replicate in phase %s", r.m.Phase())
		}
		if err := Replicate(r.sim, r.m.PendingAIMove()); err != nil {
			return err
		}
	case st.Wait != "":
		d, err := time.ParseDuration(st.Wait)
		if err != nil {
			return err
		}
		r.clock.Advance(d)
	case st.Ticks > 0:
		return r.tick(st.Ticks)
	case st.ExpectPhase != "":
		want, err := game.ParsePhase(st.ExpectPhase)
		if err != nil {
			return err
		}
		if got := r.m.Phase(); got != want {
			return fmt.Errorf("%w: phase %s, want %s", ErrExpectation, got, want)
		}
		return nil
	case st.ExpectLEDs != nil:
		var want board.Bitboard
		for _, name := range st.ExpectLEDs {
			sq, err := board.ParseSquare(name)
			if err != nil {
				return err
			}
			want = want.With(sq)
		}
		if got := r.sim.LEDs(); got != want {
			return fmt.Errorf("%w: leds [%s], want [%s]", ErrExpectation, got, want)
		}
		return nil
	case st.ExpectPrompt != "":
		p, _ := r.sim.LastPrompt()
		if p.Kind.String() != st.ExpectPrompt {
			return fmt.Errorf("%w: prompt %s, want %s", ErrExpectation, p.Kind, st.ExpectPrompt)
		}
		return nil
	}
	return r.tick(1)
}

// Replicate carries out mv on the simulated board the way a person would:
// victim off first, then the mover, then the castling rook.
func Replicate(sim *shim.Sim, mv board.Move) error {
	if mv.IsCapture() {
		if err := sim.Lift(mv.CapturedSquare()); err != nil {
			return err
		}
	}
	if err := sim.Slide(mv.From, mv.To); err != nil {
		return err
	}
	if from, to, ok := mv.RookSquares(); ok {
		return sim.Slide(from, to)
	}
	return nil
}
