// Package game runs one game on the physical board: colour choice, setup,
// alternating human and engine turns, and the end of the game. It is driven
// by a cooperative Tick; nothing in it blocks except the bounded search.
package game

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/hallchess/internal/board"
	"github.com/park285/hallchess/internal/feedback"
	"github.com/park285/hallchess/internal/movegen"
	"github.com/park285/hallchess/internal/scoresheet"
	"github.com/park285/hallchess/internal/search"
	"github.com/park285/hallchess/internal/sensor"
	"github.com/park285/hallchess/internal/shim"
)

const (
	DefaultColorToggle  = time.Second
	DefaultTickInterval = 10 * time.Millisecond
	DefaultCaptureCue   = 2 * time.Second
)

var ErrNotHumanTurn = errors.New("game: not the human's move")

// Deps are the collaborators a Machine drives. Nil fields get defaults.
type Deps struct {
	Engine     *search.Engine
	Reconciler *sensor.Reconciler
	Clock      search.Clock
	Logger     *zap.Logger
}

type Options struct {
	Limits       search.Limits
	ColorToggle  time.Duration
	TickInterval time.Duration
	// CaptureCue is how long a possible capture may wait for its victim to
	// be lifted before the victim's square is lit.
	CaptureCue   time.Duration
}

func (o Options) withDefaults() Options {
	if o.ColorToggle <= 0 {
		o.ColorToggle = DefaultColorToggle
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.CaptureCue <= 0 {
		o.CaptureCue = DefaultCaptureCue
	}
	return o
}

// Machine owns the logical board. It is not safe for concurrent use.
type Machine struct {
	hw     shim.Hardware
	engine *search.Engine
	recon  *sensor.Reconciler
	clock  search.Clock
	logger *zap.Logger
	opts   Options

	phase   Phase
	board   *board.Board
	sheet   *scoresheet.Sheet
	gameID  string
	human   board.Color
	outcome Outcome

	offer     board.Color
	offerMark search.Mark
	fault     string

	aiMove   board.Move
	aiSAN    string
	expected board.Bitboard
	last     search.Result

	hint        board.Move
	hintSAN     string
	stalled     board.Bitboard
	stalledMark search.Mark

	prompt shim.Prompt
	shown  bool
	leds   board.Bitboard
	lit    bool
}

func New(hw shim.Hardware, deps Deps, opts Options) *Machine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = search.NewSystemClock()
	}
	if deps.Engine == nil {
		deps.Engine = search.NewEngine(nil, deps.Clock, deps.Logger)
	}
	if deps.Reconciler == nil {
		deps.Reconciler = sensor.NewReconciler(deps.Logger)
	}
	m := &Machine{
		hw:     hw,
		engine: deps.Engine,
		recon:  deps.Reconciler,
		clock:  deps.Clock,
		logger: deps.Logger,
		opts:   opts.withDefaults(),
	}
	m.Reset()
	return m
}

func (m *Machine) Phase() Phase              { return m.phase }
func (m *Machine) Board() board.Board        { return *m.board }
func (m *Machine) Outcome() Outcome          { return m.outcome }
func (m *Machine) HumanColor() board.Color   { return m.human }
func (m *Machine) GameID() string            { return m.gameID }
func (m *Machine) Sheet() *scoresheet.Sheet  { return m.sheet }
func (m *Machine) LastSearch() search.Result { return m.last }
func (m *Machine) PendingAIMove() board.Move { return m.aiMove }
func (m *Machine) Options() Options          { return m.opts }
func (m *Machine) LEDs() board.Bitboard      { return m.leds }

// Reset abandons the current game and returns to colour selection.
func (m *Machine) Reset() {
	m.resetTo(board.New(), scoresheet.New())
}

func (m *Machine) resetTo(b *board.Board, sheet *scoresheet.Sheet) {
	m.board = b
	m.sheet = sheet
	m.gameID = uuid.NewString()
	m.outcome = Outcome{}
	m.human = board.White
	m.offer = board.White
	m.offerMark = m.clock.Mark()
	m.aiMove = board.Move{}
	m.aiSAN = ""
	m.expected = 0
	m.last = search.Result{}
	m.clearHint()
	m.fault = ""
	m.setPhase(PhaseColorSelect)
	m.light(0)
}

// Run ticks until ctx is done.
func (m *Machine) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.opts.TickInterval)
	defer ticker.Stop()
	for {
		if err := m.Tick(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick performs one poll of the hardware and advances the phase at most
// one step. The only error it returns is ctx's.
func (m *Machine) Tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ev, pressed := m.hw.PollButtonEdge()
	if pressed && ev == shim.ButtonReset {
		m.logger.Info("game_reset", zap.String("game_id", m.gameID), zap.String("phase", m.phase.String()))
		m.Reset()
		return nil
	}
	pressed = pressed && ev == shim.ButtonPress

	switch m.phase {
	case PhaseColorSelect:
		m.tickColorSelect(pressed)
	case PhaseSetup:
		m.tickSetup(m.hw.PollSensorFrame())
	case PhaseHumanTurn:
		m.tickHumanTurn(m.hw.PollSensorFrame(), pressed)
	case PhaseAiTurn:
		m.tickAiTurn()
	case PhaseAiMoveConfirm:
		m.tickAiMoveConfirm(m.hw.PollSensorFrame())
	case PhaseGameOver:
		m.light(0)
		m.show(m.gameOverPrompt())
	}
	return nil
}

func (m *Machine) tickColorSelect(pressed bool) {
	m.light(0)
	if m.fault != "" {
		m.show(shim.Prompt{Kind: shim.PromptBoardFault, Reason: m.fault})
		if pressed {
			m.fault = ""
			m.offerMark = m.clock.Mark()
		}
		return
	}
	if pressed {
		m.human = m.offer
		m.logger.Info("color_selected",
			zap.String("game_id", m.gameID),
			zap.String("human", m.human.String()),
		)
		m.setPhase(PhaseSetup)
		return
	}
	if m.clock.ElapsedSince(m.offerMark) >= m.opts.ColorToggle {
		m.offer = m.offer.Other()
		m.offerMark = m.clock.Mark()
	}
	m.show(shim.Prompt{Kind: shim.PromptChooseColor, Color: m.offer})
}

func (m *Machine) tickSetup(f sensor.Frame) {
	res := m.recon.Match(board.StartingOccupancy, 0, f)
	if res.Status != sensor.StatusConfirmed {
		leds := feedback.Render(feedback.SetupEvent(f.Occupancy()))
		m.light(leds)
		m.show(shim.Prompt{Kind: shim.PromptSetup, Color: m.human, Squares: leds})
		return
	}
	m.logger.Info("setup_complete", zap.String("game_id", m.gameID))
	m.light(0)
	if m.board.Turn() == m.human {
		m.enterHumanTurn()
	} else {
		m.enterAiTurn()
	}
}

func (m *Machine) enterHumanTurn() {
	m.recon.Reset(m.board)
	m.clearHint()
	m.setPhase(PhaseHumanTurn)
	m.light(0)
	m.show(shim.Prompt{Kind: shim.PromptYourMove, Color: m.human})
}

// Hint searches the human's position and lights the suggested move. The
// suggestion stays up until a piece moves.
func (m *Machine) Hint() (board.Move, error) {
	if m.phase != PhaseHumanTurn {
		return board.NullMove, ErrNotHumanTurn
	}
	res, err := m.engine.Search(*m.board, m.opts.Limits)
	if err != nil {
		return board.NullMove, err
	}
	san, err := m.sheet.Preview(res.Move.String())
	if err != nil {
		san = res.Move.String()
	}
	m.hint = res.Move
	m.hintSAN = san
	m.logger.Info("hint_shown",
		zap.String("game_id", m.gameID),
		zap.String("move", res.Move.String()),
		zap.String("san", san),
		zap.Int("score", res.Score),
		zap.Int("depth", res.Depth),
	)
	m.showHint()
	return res.Move, nil
}

func (m *Machine) showHint() {
	leds := feedback.Render(feedback.HintEvent(m.hint))
	m.light(leds)
	m.show(shim.Prompt{Kind: shim.PromptHint, Color: m.human, Move: m.hint, SAN: m.hintSAN, Squares: leds})
}

func (m *Machine) clearHint() {
	m.hint = board.NullMove
	m.hintSAN = ""
	m.stalled = 0
}

func (m *Machine) tickHumanTurn(f sensor.Frame, pressed bool) {
	res := m.recon.Reconcile(m.board, f)
	if res.Status != sensor.StatusUnchanged {
		m.hint = board.NullMove
	}
	var stalled board.Bitboard
	if res.Status == sensor.StatusAwaiting {
		stalled = res.Squares
	}
	if stalled != m.stalled {
		m.stalled = stalled
		m.stalledMark = m.clock.Mark()
	}

	switch res.Status {
	case sensor.StatusUnchanged:
		if pressed {
			if _, err := m.Hint(); err != nil {
				m.logger.Warn("hint_failed", zap.String("game_id", m.gameID), zap.Error(err))
			}
			return
		}
		if !m.hint.IsNull() {
			m.showHint()
			return
		}
		m.light(0)
		m.show(shim.Prompt{Kind: shim.PromptYourMove, Color: m.human})
	case sensor.StatusAwaiting:
		if m.stalled != 0 && m.clock.ElapsedSince(m.stalledMark) >= m.opts.CaptureCue {
			leds := feedback.Render(feedback.RecheckEvent(m.stalled))
			m.light(leds)
			m.show(shim.Prompt{Kind: shim.PromptLiftCaptured, Color: m.human, Squares: leds})
			return
		}
		m.light(0)
		m.show(shim.Prompt{Kind: shim.PromptYourMove, Color: m.human})
	case sensor.StatusMismatch:
		leds := feedback.Render(feedback.MismatchEvent(res.Squares))
		m.light(leds)
		m.show(shim.Prompt{Kind: shim.PromptMismatch, Color: m.human, Squares: leds})
	case sensor.StatusAmbiguous:
		leds := feedback.Render(feedback.RecheckEvent(res.Squares))
		m.light(leds)
		m.show(shim.Prompt{Kind: shim.PromptAmbiguous, Color: m.human, Squares: leds})
	case sensor.StatusConfirmed:
		san := m.commit(res.Move)
		m.logger.Info("human_move_confirmed",
			zap.String("game_id", m.gameID),
			zap.String("move", res.Move.String()),
			zap.String("san", san),
			zap.Int("ply", m.sheet.Len()),
		)
		m.light(0)
		if m.finishIfTerminal() {
			return
		}
		m.enterAiTurn()
	}
}

func (m *Machine) enterAiTurn() {
	m.setPhase(PhaseAiTurn)
	m.show(shim.Prompt{Kind: shim.PromptThinking, Color: m.human.Other()})
}

func (m *Machine) tickAiTurn() {
	if err := m.board.Validate(); err != nil {
		m.boardFault(err)
		return
	}
	res, err := m.engine.Search(*m.board, m.opts.Limits)
	if errors.Is(err, search.ErrNoLegalMoves) {
		if !m.finishIfTerminal() {
			m.boardFault(err)
		}
		return
	}
	if err != nil {
		m.boardFault(err)
		return
	}
	m.last = res
	m.aiMove = res.Move
	m.aiSAN = m.commit(res.Move)
	m.expected = m.board.Occupancy()
	m.logger.Info("ai_move_selected",
		zap.String("game_id", m.gameID),
		zap.String("move", res.Move.String()),
		zap.String("san", m.aiSAN),
		zap.Int("score", res.Score),
		zap.Int("depth", res.Depth),
		zap.Bool("timed_out", res.TimedOut),
		zap.Uint64("nodes", res.Nodes),
	)
	m.setPhase(PhaseAiMoveConfirm)
	leds := feedback.Render(feedback.AiMoveEvent(m.aiMove))
	m.light(leds)
	m.show(m.replicatePrompt(shim.PromptReplicate, leds))
}

func (m *Machine) tickAiMoveConfirm(f sensor.Frame) {
	move := feedback.Render(feedback.AiMoveEvent(m.aiMove))
	res := m.recon.Match(m.expected, m.aiMove.Touched(), f)
	switch res.Status {
	case sensor.StatusAwaiting:
		m.light(move)
		m.show(m.replicatePrompt(shim.PromptReplicate, move))
	case sensor.StatusMismatch:
		leds := feedback.Compose(feedback.AiMoveEvent(m.aiMove), feedback.MismatchEvent(res.Squares))
		m.light(leds)
		m.show(m.replicatePrompt(shim.PromptMismatch, res.Squares))
	case sensor.StatusConfirmed:
		m.logger.Info("ai_move_replicated",
			zap.String("game_id", m.gameID),
			zap.String("move", m.aiMove.String()),
		)
		m.light(0)
		if m.finishIfTerminal() {
			return
		}
		m.enterHumanTurn()
	}
}

func (m *Machine) replicatePrompt(kind shim.PromptKind, squares board.Bitboard) shim.Prompt {
	return shim.Prompt{
		Kind:    kind,
		Color:   m.human.Other(),
		Move:    m.aiMove,
		SAN:     m.aiSAN,
		Squares: squares,
	}
}

// commit applies mv to the logical board and records it. A scoresheet
// rejection means the two rule implementations disagree; the core wins.
func (m *Machine) commit(mv board.Move) string {
	san, err := m.sheet.Push(mv.String())
	if err != nil {
		m.logger.Warn("scoresheet_disagreement",
			zap.String("game_id", m.gameID),
			zap.String("move", mv.String()),
			zap.String("fen", m.board.FEN()),
			zap.Error(err),
		)
		san = mv.String()
	}
	m.board.Apply(mv)
	return san
}

func (m *Machine) finishIfTerminal() bool {
	st := movegen.Classify(m.board)
	if !st.Terminal() {
		return false
	}
	m.outcome = outcomeOf(st, m.board)
	libResult, libMethod := m.sheet.LibraryOutcome()
	fields := []zap.Field{
		zap.String("game_id", m.gameID),
		zap.String("reason", m.outcome.Reason.String()),
		zap.String("result", m.outcome.PGNResult()),
		zap.String("library_result", libResult),
		zap.String("library_method", libMethod),
		zap.String("fen", m.board.FEN()),
		zap.String("pgn", m.sheet.PGN()),
	}
	if code, title, ok := m.sheet.Opening(); ok {
		fields = append(fields, zap.String("eco", code), zap.String("opening", title))
	}
	if m.outcome.Reason != ReasonInactivity && (!m.sheet.Finished() || libResult != m.outcome.PGNResult()) {
		m.logger.Warn("outcome_disagreement", fields...)
	}
	m.logger.Info("game_over", fields...)
	m.setPhase(PhaseGameOver)
	m.light(0)
	m.show(m.gameOverPrompt())
	return true
}

func (m *Machine) gameOverPrompt() shim.Prompt {
	p := shim.Prompt{Kind: shim.PromptGameOver, Color: m.human, Reason: m.outcome.Reason.String()}
	if m.outcome.Decisive() {
		p.Winner = m.outcome.Winner.String()
	}
	return p
}

func (m *Machine) boardFault(err error) {
	m.logger.Error("board_fault",
		zap.String("game_id", m.gameID),
		zap.String("phase", m.phase.String()),
		zap.Error(err),
	)
	m.Reset()
	m.fault = err.Error()
	m.show(shim.Prompt{Kind: shim.PromptBoardFault, Reason: m.fault})
}

func (m *Machine) setPhase(p Phase) {
	if m.phase == p {
		return
	}
	m.logger.Debug("phase_change",
		zap.String("game_id", m.gameID),
		zap.String("from", m.phase.String()),
		zap.String("to", p.String()),
	)
	m.phase = p
}

func (m *Machine) show(p shim.Prompt) {
	if m.shown && p == m.prompt {
		return
	}
	m.prompt = p
	m.shown = true
	m.hw.DisplayPrompt(p)
}

func (m *Machine) light(on board.Bitboard) {
	if m.lit && on == m.leds {
		return
	}
	m.leds = on
	m.lit = true
	m.hw.SetLEDTargets(on)
}
