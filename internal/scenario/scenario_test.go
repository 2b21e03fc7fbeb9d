package scenario

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/park285/hallchess/internal/board"
	"github.com/park285/hallchess/internal/game"
	"github.com/park285/hallchess/internal/movegen"
	"github.com/park285/hallchess/internal/shim"
)

const opening = `
name: king pawn opening
preset: level1
max_depth: 3
steps:
  - ticks: 1
  - expect_prompt: choose_color
  - press: press
  - expect_phase: setup
  - ticks: 1
  - expect_phase: human_turn
  - lift: e2
  - expect_phase: human_turn
  - expect_leds: []
  - place: e4
  - expect_phase: ai_turn
  - ticks: 1
  - expect_phase: ai_move_confirm
  - expect_prompt: replicate
  - replicate: true
  - expect_phase: human_turn
  - expect_leds: []
`

func mustParse(t *testing.T, src string) *Script {
	t.Helper()
	s, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func TestRunOpening(t *testing.T) {
	rep, err := Run(context.Background(), mustParse(t, opening), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Phase != game.PhaseHumanTurn || rep.Steps != 17 {
		t.Fatalf("report = %+v", rep)
	}
	if len(rep.SAN) != 2 || rep.SAN[0] != "e4" {
		t.Fatalf("SAN = %v", rep.SAN)
	}
	if rep.GameID == "" {
		t.Fatalf("no game id")
	}
}

func TestRunReportsFailedExpectation(t *testing.T) {
	s := mustParse(t, "name: wrong\nsteps:\n  - expect_phase: game_over\n")
	_, err := Run(context.Background(), s, nil)
	if !errors.Is(err, ErrExpectation) {
		t.Fatalf("Run = %v, want ErrExpectation", err)
	}
	if !strings.Contains(err.Error(), "step 1 (expect_phase)") {
		t.Fatalf("error lacks step context: %v", err)
	}
}

func TestRunWaitTogglesColour(t *testing.T) {
	s := mustParse(t, `
name: play black
max_depth: 3
steps:
  - ticks: 1
  - wait: 1s
  - press: press
  - ticks: 1
  - expect_phase: ai_turn
`)
	rep, err := Run(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Phase != game.PhaseAiTurn {
		t.Fatalf("phase = %s", rep.Phase)
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"no name":       "steps:\n  - ticks: 1\n",
		"empty step":    "name: x\nsteps:\n  - {}\n",
		"mixed step":    "name: x\nsteps:\n  - lift: e2\n    ticks: 1\n",
		"unknown field": "name: x\nsteps:\n  - jump: e2\n",
		"negative":      "name: x\nsteps:\n  - ticks: -2\n",
	}
	for name, src := range cases {
		if _, err := Parse([]byte(src)); err == nil {
			t.Errorf("%s: Parse accepted %q", name, src)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte(opening), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil || s.Name != "king pawn opening" || len(s.Steps) != 17 {
		t.Fatalf("Load = %+v, %v", s, err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("Load of missing file succeeded")
	}
}

func TestReplicateSpecialMoves(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		coord string
	}{
		{"capture", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "e4d5"},
		{"en passant", "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2", "e5d6"},
		{"castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := board.ParseFEN(tc.fen)
			if err != nil {
				t.Fatal(err)
			}
			mv := findMove(t, b, tc.coord)
			sim := shim.NewSim(b.Occupancy())
			if err := Replicate(sim, mv); err != nil {
				t.Fatalf("Replicate: %v", err)
			}
			b.Apply(mv)
			if sim.Occupancy() != b.Occupancy() {
				t.Fatalf("occupancy = %s, want %s", sim.Occupancy(), b.Occupancy())
			}
		})
	}
}

func findMove(t *testing.T, b *board.Board, coord string) board.Move {
	t.Helper()
	want, err := board.ParseCoordinate(coord)
	if err != nil {
		t.Fatal(err)
	}
	for _, mv := range movegen.Legal(b) {
		if mv.SameSquares(want) {
			return mv
		}
	}
	t.Fatalf("%s is not legal in %s", coord, b.FEN())
	return board.NullMove
}

func TestBundledScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "scenarios", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no bundled scenarios")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if _, err := Run(context.Background(), s, nil); err != nil {
				t.Fatalf("Run: %v", err)
			}
		})
	}
}
