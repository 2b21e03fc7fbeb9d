package boardbuilder

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/park285/hallchess/internal/config"
	"github.com/park285/hallchess/internal/eval"
	"github.com/park285/hallchess/internal/game"
	"github.com/park285/hallchess/internal/msgcat"
	"github.com/park285/hallchess/internal/search"
	"github.com/park285/hallchess/internal/sensor"
	"github.com/park285/hallchess/internal/shim"
)

type Deps struct {
	Machine    *game.Machine
	Engine     *search.Engine
	Evaluator  *eval.Evaluator
	Reconciler *sensor.Reconciler
	Catalog    *msgcat.Catalog
	Preset     search.DifficultyPreset
	Limits     search.Limits
}

// New wires a Machine to hw. A nil clock uses the system clock.
func New(cfg *config.AppConfig, hw shim.Hardware, clock search.Clock, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if hw == nil {
		return nil, fmt.Errorf("nil hardware")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = search.NewSystemClock()
	}

	preset, err := search.GetPreset(cfg.Preset)
	if err != nil {
		return nil, fmt.Errorf("resolve preset: %w", err)
	}
	preset = preset.WithOverrides(cfg.MoveTimeMS, cfg.MaxDepth)
	if cfg.HardDeadline {
		preset.HardDeadline = true
	}
	limits, err := search.LimitsFromPreset(preset)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", preset.Name, err)
	}

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	evaluator := eval.New(eval.DefaultWeights())
	engine := search.NewEngine(evaluator, clock, logger.Named("search"))
	recon := sensor.NewReconciler(logger.Named("sensor"))

	machine := game.New(hw, game.Deps{
		Engine:     engine,
		Reconciler: recon,
		Clock:      clock,
		Logger:     logger.Named("game"),
	}, game.Options{
		Limits:       limits,
		ColorToggle:  cfg.ColorToggle(),
		TickInterval: cfg.Tick(),
		CaptureCue:   cfg.CaptureCue(),
	})

	logger.Info("board_ready",
		zap.String("preset", preset.Name),
		zap.String("limits", limits.String()),
		zap.String("game_id", machine.GameID()),
	)

	return &Deps{
		Machine:    machine,
		Engine:     engine,
		Evaluator:  evaluator,
		Reconciler: recon,
		Catalog:    catalog,
		Preset:     preset,
		Limits:     limits,
	}, nil
}
