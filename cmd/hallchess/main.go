// Command hallchess drives the board core against a simulated board from the
// terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/park285/hallchess/internal/board"
	"github.com/park285/hallchess/internal/boardbuilder"
	"github.com/park285/hallchess/internal/config"
	"github.com/park285/hallchess/internal/game"
	"github.com/park285/hallchess/internal/ledview"
	"github.com/park285/hallchess/internal/msgcat"
	"github.com/park285/hallchess/internal/obslog"
	"github.com/park285/hallchess/internal/scenario"
	"github.com/park285/hallchess/internal/sensor"
	"github.com/park285/hallchess/internal/shim"
)

// benchHW reads the simulated sensors through the debouncer.
type benchHW struct {
	*shim.Sim
	sensors *shim.DebouncedSensors
}

func (h benchHW) PollSensorFrame() sensor.Frame { return h.sensors.PollSensorFrame() }

type bench struct {
	ctx     context.Context
	cfg     *config.AppConfig
	sim     *shim.Sim
	machine *game.Machine
	catalog *msgcat.Catalog
	logger  *zap.Logger
	out     io.Writer
}

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	sim := shim.NewSim(board.StartingOccupancy)
	hw := benchHW{Sim: sim, sensors: shim.NewDebouncedSensors(sim, cfg.DebouncePolls, board.StartingOccupancy)}
	deps, err := boardbuilder.New(cfg, hw, nil, logger)
	if err != nil {
		log.Fatalf("board init error: %v", err)
	}

	b := &bench{
		ctx:     context.Background(),
		cfg:     cfg,
		sim:     sim,
		machine: deps.Machine,
		catalog: deps.Catalog,
		logger:  logger,
		out:     os.Stdout,
	}
	sim.OnPrompt(b.printPrompt)

	banner, _ := b.catalog.Render("bench.banner", nil)
	fmt.Fprintln(b.out, banner)
	b.settle()

	next, closeInput, err := lineReader()
	if err != nil {
		log.Fatalf("input error: %v", err)
	}
	defer closeInput()

	for {
		line, err := next()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		if err := b.execute(strings.Fields(line)); err != nil {
			fmt.Fprintf(b.out, "error: %v\n", err)
		}
	}
}

// lineReader uses readline on a terminal and a plain scanner otherwise, so
// sessions can be piped in.
func lineReader() (func() (string, error), func(), error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "hallchess> ",
			HistoryFile:     filepath.Join(os.TempDir(), ".hallchess_history"),
			InterruptPrompt: "^C",
			EOFPrompt:       "quit",
		})
		if err != nil {
			return nil, nil, err
		}
		return rl.Readline, func() { _ = rl.Close() }, nil
	}
	sc := bufio.NewScanner(os.Stdin)
	return func() (string, error) {
		if sc.Scan() {
			return sc.Text(), nil
		}
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}, func() {}, nil
}

func (b *bench) execute(args []string) error {
	cmd := strings.ToLower(args[0])
	args = args[1:]

	switch cmd {
	case "help":
		help, err := b.catalog.Render("bench.help", nil)
		if err != nil {
			return err
		}
		fmt.Fprint(b.out, help)
		return nil
	case "press":
		b.sim.Press(shim.ButtonPress)
	case "reset":
		b.sim.Press(shim.ButtonReset)
	case "lift", "place":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <square>", cmd)
		}
		sq, err := board.ParseSquare(args[0])
		if err != nil {
			return err
		}
		if cmd == "lift" {
			err = b.sim.Lift(sq)
		} else {
			err = b.sim.Place(sq)
		}
		if err != nil {
			return err
		}
	case "move":
		if len(args) != 1 {
			return fmt.Errorf("usage: move <from><to>")
		}
		mv, err := board.ParseCoordinate(args[0])
		if err != nil {
			return err
		}
		if err := b.sim.Slide(mv.From, mv.To); err != nil {
			return err
		}
	case "replicate":
		if b.machine.Phase() != game.PhaseAiMoveConfirm {
			return fmt.Errorf("no engine move pending")
		}
		if err := scenario.Replicate(b.sim, b.machine.PendingAIMove()); err != nil {
			return err
		}
	case "hint":
		mv, err := b.machine.Hint()
		if err != nil {
			return err
		}
		b.logger.Debug("bench_hint", zap.String("move", mv.String()))
		return nil
	case "tick":
		n := 1
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				return fmt.Errorf("tick count must be a positive number")
			}
			n = v
		}
		return b.tick(n)
	case "board":
		pos := b.machine.Board()
		fmt.Fprintln(b.out, pos.String())
		fmt.Fprintln(b.out, pos.FEN())
		return nil
	case "leds":
		fmt.Fprintf(b.out, "leds: [%s]\n", b.sim.LEDs())
		return nil
	case "pgn":
		sheet := b.machine.Sheet()
		if code, title, ok := sheet.Opening(); ok {
			fmt.Fprintf(b.out, "%s %s\n", code, title)
		}
		fmt.Fprintln(b.out, sheet.PGN())
		return nil
	case "snap":
		return b.snapshot(args)
	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
	b.settle()
	return nil
}

func (b *bench) tick(n int) error {
	for i := 0; i < n; i++ {
		if err := b.machine.Tick(b.ctx); err != nil {
			return err
		}
	}
	return nil
}

// settle polls long enough for a change to pass the debouncer, then lets a
// pending engine turn run.
func (b *bench) settle() {
	if err := b.tick(b.cfg.DebouncePolls + 1); err != nil {
		b.logger.Warn("tick_failed", zap.Error(err))
		return
	}
	if b.machine.Phase() == game.PhaseAiTurn {
		if err := b.tick(1); err != nil {
			b.logger.Warn("tick_failed", zap.Error(err))
		}
	}
}

func (b *bench) printPrompt(p shim.Prompt) {
	text, err := b.catalog.RenderPrompt(p)
	if err != nil {
		b.logger.Warn("prompt_render_failed", zap.String("kind", p.Kind.String()), zap.Error(err))
		return
	}
	line, err := b.catalog.Render("bench.phase", map[string]any{
		"Phase":  b.machine.Phase().String(),
		"Prompt": text,
	})
	if err != nil {
		line = text
	}
	fmt.Fprintln(b.out, line)
}

func (b *bench) snapshot(args []string) error {
	name := fmt.Sprintf("%s-%s.png", b.machine.GameID(), time.Now().Format("150405"))
	if len(args) > 0 {
		name = args[0]
	}
	if err := os.MkdirAll(b.cfg.SnapshotDir, 0o755); err != nil {
		return err
	}
	pos := b.machine.Board()
	png, err := ledview.RenderPNG(b.ctx, ledview.Snapshot{
		Board:     &pos,
		Occupancy: b.sim.Occupancy(),
		LEDs:      b.sim.LEDs(),
		Caption:   fmt.Sprintf("%s  %s", b.machine.Phase(), strings.Join(b.machine.Sheet().SAN(), " ")),
	})
	if err != nil {
		return err
	}
	path := filepath.Join(b.cfg.SnapshotDir, filepath.Base(name))
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(b.out, "wrote %s\n", path)
	return nil
}
