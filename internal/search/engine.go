// Package search picks moves with iterative-deepening alpha-beta negamax
// under a time budget.
package search

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/park285/hallchess/internal/board"
	"github.com/park285/hallchess/internal/eval"
	"github.com/park285/hallchess/internal/movegen"
)

const (
	MateScore = 100000
	infinity  = MateScore + 1

	maxPly = MaxSearchDepth + 1

	// pollMask sets how often the hard deadline reads the clock, in nodes.
	pollMask = 1024 - 1
)

var ErrNoLegalMoves = errors.New("no legal moves")

// Result is the outcome of one Search. Score is in centipawns from the
// side to move's perspective.
type Result struct {
	Move     board.Move
	Score    int
	Depth    int
	TimedOut bool
	Nodes    uint64
	Elapsed  time.Duration
	PV       []board.Move
}

// IsMate reports whether Score announces a forced mate for either side.
func (r Result) IsMate() bool {
	return r.Score >= MateScore-maxPly || r.Score <= -(MateScore-maxPly)
}

// Engine holds the scratch arenas for searching. It is not safe for
// concurrent use.
type Engine struct {
	eval     *eval.Evaluator
	material [7]int
	clock    Clock
	logger   *zap.Logger

	lists  [maxPly + 1]movegen.MoveList
	order  [maxPly + 1][movegen.MaxMoves]int
	pv     [maxPly + 1][maxPly + 1]board.Move
	pvLen  [maxPly + 1]int
	prevPV []board.Move

	nodes   uint64
	start   Mark
	budget  time.Duration
	polling bool
	aborted bool
}

func NewEngine(ev *eval.Evaluator, clock Clock, logger *zap.Logger) *Engine {
	if ev == nil {
		ev = eval.New(eval.DefaultWeights())
	}
	if clock == nil {
		clock = NewSystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{eval: ev, material: ev.Weights().Material, clock: clock, logger: logger}
}

// Search returns the best move for the side to move in b. The minimum
// depth always completes; deeper iterations start only while the budget
// lasts, and with HardDeadline an overrunning iteration is discarded.
func (e *Engine) Search(b board.Board, limits Limits) (Result, error) {
	limits = limits.normalized()
	if !movegen.HasLegalMove(&b) {
		return Result{}, ErrNoLegalMoves
	}

	e.start = e.clock.Mark()
	e.budget = limits.Budget
	e.nodes = 0
	e.prevPV = e.prevPV[:0]

	var res Result
	var elapsed time.Duration
	for depth := limits.MinDepth; depth <= limits.MaxDepth; depth++ {
		if depth > limits.MinDepth && limits.Budget > 0 && elapsed >= limits.Budget {
			res.TimedOut = true
			break
		}
		e.polling = limits.HardDeadline && limits.Budget > 0 && depth > limits.MinDepth
		e.aborted = false

		score := e.negamax(&b, depth, 0, -infinity, infinity, true)
		if e.aborted {
			res.TimedOut = true
			e.logger.Debug("search_iteration_abandoned",
				zap.Int("depth", depth),
				zap.Uint64("nodes", e.nodes),
			)
			break
		}

		res.Move = e.pv[0][0]
		res.Score = score
		res.Depth = depth
		res.PV = append(res.PV[:0], e.pv[0][:e.pvLen[0]]...)
		e.prevPV = append(e.prevPV[:0], res.PV...)

		elapsed = e.clock.ElapsedSince(e.start)
		e.logger.Debug("search_iteration",
			zap.Int("depth", depth),
			zap.Int("score", score),
			zap.String("best", res.Move.String()),
			zap.Uint64("nodes", e.nodes),
			zap.Int64("elapsed_ms", elapsed.Milliseconds()),
		)
		if res.IsMate() {
			break
		}
	}

	res.Nodes = e.nodes
	res.Elapsed = e.clock.ElapsedSince(e.start)
	e.logger.Info("search_complete",
		zap.String("best", res.Move.String()),
		zap.Int("score", res.Score),
		zap.Int("depth", res.Depth),
		zap.Bool("timed_out", res.TimedOut),
		zap.Uint64("nodes", res.Nodes),
		zap.Int64("elapsed_ms", res.Elapsed.Milliseconds()),
	)
	return res, nil
}

// negamax searches b to depth and returns its score for the side to move.
// followPV is true while the path from the root matches the previous
// iteration's principal variation.
func (e *Engine) negamax(b *board.Board, depth, ply, alpha, beta int, followPV bool) int {
	e.pvLen[ply] = ply
	e.nodes++
	if e.polling && e.nodes&pollMask == 0 && e.clock.ElapsedSince(e.start) >= e.budget {
		e.aborted = true
	}
	if e.aborted {
		return 0
	}

	ml := &e.lists[ply]
	movegen.Generate(b, ml)
	if ml.Len() == 0 {
		if movegen.InCheck(b) {
			return -(MateScore - ply)
		}
		return 0
	}
	if b.HalfMoveClock() >= movegen.InactivityLimit {
		return 0
	}
	if depth == 0 {
		return e.static(b)
	}

	pvMove := board.NullMove
	if followPV && ply < len(e.prevPV) {
		pvMove = e.prevPV[ply]
	}
	e.orderMoves(b, ml, ply, pvMove)

	best := -infinity
	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		u := b.Apply(m)
		score := -e.negamax(b, depth-1, ply+1, -beta, -alpha, followPV && i == 0 && m == pvMove)
		b.Revert(m, u)
		if e.aborted {
			return 0
		}
		if score > best {
			best = score
			if score > alpha {
				alpha = score
				e.pv[ply][ply] = m
				copy(e.pv[ply][ply+1:], e.pv[ply+1][ply+1:e.pvLen[ply+1]])
				e.pvLen[ply] = e.pvLen[ply+1]
			}
		}
		if alpha >= beta {
			break
		}
	}
	return best
}

func (e *Engine) static(b *board.Board) int {
	s := e.eval.Evaluate(b)
	if b.Turn() == board.Black {
		return -s
	}
	return s
}

// orderMoves sorts ml in place: the PV move, then captures by expected
// gain, then quiet moves by opening heat. Equal keys keep generation order.
func (e *Engine) orderMoves(b *board.Board, ml *movegen.MoveList, ply int, pvMove board.Move) {
	moves := ml.Slice()
	keys := e.order[ply][:len(moves)]
	for i, m := range moves {
		keys[i] = e.moveKey(b, m, pvMove)
	}
	for i := 1; i < len(moves); i++ {
		m, k := moves[i], keys[i]
		j := i - 1
		for j >= 0 && keys[j] < k {
			moves[j+1], keys[j+1] = moves[j], keys[j]
			j--
		}
		moves[j+1], keys[j+1] = m, k
	}
}

const (
	pvKey      = 1 << 30
	captureKey = 1 << 20
)

// moveKey ranks m for ordering. A capture onto a square the opponent
// defends is expected to lose the attacker, so it gains victim minus
// attacker; an undefended capture gains the whole victim.
func (e *Engine) moveKey(b *board.Board, m, pvMove board.Move) int {
	if !pvMove.IsNull() && m == pvMove {
		return pvKey
	}
	mover := b.Piece(m.From)
	if m.IsCapture() {
		gain := e.material[b.Piece(m.CapturedSquare()).Type()]
		if movegen.Attacked(b, m.To, mover.Color().Other()) {
			gain -= e.material[mover.Type()]
		}
		return captureKey + gain
	}
	return int(openingHeat[mover.Color()][mover.Type()][m.To])
}
