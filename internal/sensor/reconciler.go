// Package sensor turns stable occupancy frames from the hall-effect matrix
// into confirmed moves, or explains why it cannot.
package sensor

import (
	"go.uber.org/zap"

	"github.com/park285/hallchess/internal/board"
	"github.com/park285/hallchess/internal/movegen"
)

// Frame is one debounced reading of the sensor matrix: the set of occupied
// squares.
type Frame board.Bitboard

func (f Frame) Occupancy() board.Bitboard { return board.Bitboard(f) }
func (f Frame) String() string            { return board.Bitboard(f).String() }

type Status uint8

const (
	StatusUnchanged Status = iota
	StatusAwaiting
	StatusConfirmed
	StatusAmbiguous
	StatusMismatch
)

func (s Status) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusAwaiting:
		return "awaiting"
	case StatusConfirmed:
		return "confirmed"
	case StatusAmbiguous:
		return "ambiguous"
	case StatusMismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// Result of reconciling one frame. Squares holds the offending squares for
// Mismatch and the union of candidate squares for Ambiguous. For Awaiting it
// holds the victims of captures that fit the frame but whose victim was never
// seen leaving.
type Result struct {
	Status     Status
	Move       board.Move
	Squares    board.Bitboard
	Candidates []board.Move
}

// Reconciler tracks which confirmed squares were vacated during the current
// turn. A normal capture leaves its destination occupied, so that history is
// what separates it from a piece held in hand.
type Reconciler struct {
	logger *zap.Logger

	base   board.Bitboard
	prev   board.Bitboard
	primed bool
	seq    uint32
	lifted [64]uint32

	ml movegen.MoveList
}

func NewReconciler(logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{logger: logger}
}

// Reset starts a new turn from b's occupancy and forgets the lift history.
func (r *Reconciler) Reset(b *board.Board) {
	r.base = b.Occupancy()
	r.prev = r.base
	r.primed = true
	r.seq = 0
	r.lifted = [64]uint32{}
}

// observe records squares of the confirmed position vacated by f. A square
// refilled while none of the mover's pieces is in hand had its piece put
// back, so its lift is forgotten.
func (r *Reconciler) observe(f Frame, mine board.Bitboard) {
	r.seq++
	now := f.Occupancy()
	for gone := r.base &^ now & r.prev; gone != 0; gone &= gone - 1 {
		r.lifted[gone.First()] = r.seq
	}
	if refilled := r.base & now &^ r.prev; refilled != 0 && mine&^now == 0 {
		for ; refilled != 0; refilled &= refilled - 1 {
			r.lifted[refilled.First()] = 0
		}
	}
	if now == r.base {
		r.lifted = [64]uint32{}
	}
	r.prev = now
}

// Reconcile interprets f against b, the last confirmed position, for the
// side to move. A changed b occupancy implicitly resets the turn.
func (r *Reconciler) Reconcile(b *board.Board, f Frame) Result {
	occ := b.Occupancy()
	if !r.primed || occ != r.base {
		r.Reset(b)
	}
	r.observe(f, b.ColorOccupancy(b.Turn()))

	diff := occ ^ f.Occupancy()
	if diff == 0 {
		return Result{Status: StatusUnchanged}
	}

	movegen.Generate(b, &r.ml)
	var (
		reach   board.Bitboard
		stalled board.Bitboard
		fits    bool
		cands   []board.Move
	)
	for _, m := range r.ml.Slice() {
		touched := m.Touched()
		reach |= touched
		if diff.SubsetOf(touched) {
			fits = true
		}
		if delta(m) != diff {
			continue
		}
		if m.IsCapture() && !m.IsEnPassant() && r.lifted[m.To] == 0 {
			stalled = stalled.With(m.To)
			continue
		}
		cands = append(cands, m)
	}

	switch len(cands) {
	case 0:
		if fits {
			return Result{Status: StatusAwaiting, Squares: stalled}
		}
		offending := diff &^ reach
		if offending == 0 {
			offending = diff
		}
		r.logger.Debug("sensor_mismatch",
			zap.String("diff", diff.String()),
			zap.String("offending", offending.String()),
		)
		return Result{Status: StatusMismatch, Squares: offending}
	case 1:
		return Result{Status: StatusConfirmed, Move: cands[0]}
	}

	cands = r.narrow(cands)
	if len(cands) == 1 {
		return Result{Status: StatusConfirmed, Move: cands[0]}
	}
	var squares board.Bitboard
	for _, m := range cands {
		squares |= m.Touched()
	}
	r.logger.Debug("sensor_ambiguous",
		zap.Int("candidates", len(cands)),
		zap.String("squares", squares.String()),
	)
	return Result{Status: StatusAmbiguous, Squares: squares, Candidates: cands}
}

// narrow applies the tie-breaks in order: non-captures over captures, the
// most recently lifted capture target, then queen promotion.
func (r *Reconciler) narrow(cands []board.Move) []board.Move {
	quiet := cands[:0:0]
	for _, m := range cands {
		if !m.IsCapture() {
			quiet = append(quiet, m)
		}
	}
	if len(quiet) > 0 {
		cands = quiet
	} else {
		var latest uint32
		for _, m := range cands {
			if s := r.lifted[m.CapturedSquare()]; s > latest {
				latest = s
			}
		}
		recent := cands[:0:0]
		for _, m := range cands {
			if r.lifted[m.CapturedSquare()] == latest {
				recent = append(recent, m)
			}
		}
		cands = recent
	}

	queens := cands[:0:0]
	for _, m := range cands {
		if m.Promotion == board.Queen {
			queens = append(queens, m)
		}
	}
	if len(queens) > 0 {
		cands = queens
	}
	return cands
}

// delta is the set of squares whose occupancy flips when m is played. A
// normal capture only vacates its origin.
func delta(m board.Move) board.Bitboard {
	if m.IsCapture() && !m.IsEnPassant() {
		return board.SquareBB(m.From)
	}
	return m.Touched()
}

// Match compares f with a fixed expected occupancy, as in initial setup or
// replicating a move already applied to the logical board. Differences
// inside touched mean the human is still moving pieces.
func (r *Reconciler) Match(expected, touched board.Bitboard, f Frame) Result {
	diff := expected ^ f.Occupancy()
	switch {
	case diff == 0:
		return Result{Status: StatusConfirmed}
	case touched != 0 && diff.SubsetOf(touched):
		return Result{Status: StatusAwaiting, Squares: diff}
	default:
		return Result{Status: StatusMismatch, Squares: diff}
	}
}
