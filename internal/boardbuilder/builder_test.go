package boardbuilder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/park285/hallchess/internal/board"
	"github.com/park285/hallchess/internal/config"
	"github.com/park285/hallchess/internal/game"
	"github.com/park285/hallchess/internal/search"
	"github.com/park285/hallchess/internal/shim"
)

func TestNewDefaults(t *testing.T) {
	deps, err := New(config.Default(), shim.NewSim(board.StartingOccupancy), nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if deps.Machine == nil || deps.Engine == nil || deps.Catalog == nil {
		t.Fatalf("deps incomplete: %+v", deps)
	}
	if deps.Preset.Name != "level3" {
		t.Fatalf("preset = %s", deps.Preset.Name)
	}
	want := search.Limits{MinDepth: 3, MaxDepth: 5, Budget: 1500 * time.Millisecond}
	if deps.Limits != want {
		t.Fatalf("limits = %+v, want %+v", deps.Limits, want)
	}
	if deps.Machine.Phase() != game.PhaseColorSelect {
		t.Fatalf("phase = %s", deps.Machine.Phase())
	}
	if got := deps.Machine.Options().ColorToggle; got != time.Second {
		t.Fatalf("colour toggle = %s", got)
	}
}

func TestNewAppliesOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Preset = "master"
	cfg.MoveTimeMS = 200
	cfg.MaxDepth = 4
	deps, err := New(cfg, shim.NewSim(0), &search.ManualClock{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := search.Limits{MinDepth: 3, MaxDepth: 4, Budget: 200 * time.Millisecond, HardDeadline: true}
	if deps.Limits != want {
		t.Fatalf("limits = %+v, want %+v", deps.Limits, want)
	}
}

func TestNewRejects(t *testing.T) {
	sim := shim.NewSim(0)
	if _, err := New(nil, sim, nil, nil); err == nil {
		t.Fatalf("nil config accepted")
	}
	if _, err := New(config.Default(), nil, nil, nil); err == nil {
		t.Fatalf("nil hardware accepted")
	}
	cfg := config.Default()
	cfg.Preset = "grandmaster"
	if _, err := New(cfg, sim, nil, nil); err == nil {
		t.Fatalf("unknown preset accepted")
	}
	cfg = config.Default()
	cfg.MessagesDir = filepath.Join(t.TempDir(), "missing")
	if _, err := New(cfg, sim, nil, nil); err == nil {
		t.Fatalf("missing messages dir accepted")
	}
}
