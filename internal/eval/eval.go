// Package eval scores positions statically in centipawns, positive for White.
package eval

import (
	"github.com/park285/hallchess/internal/board"
	"github.com/park285/hallchess/internal/movegen"
)

// Weights tunes the evaluation terms. Arrays are indexed by board.PieceType.
type Weights struct {
	Material     [7]int
	Mobility     [7]int
	PawnShield   int
	OpenFile     int
	SemiOpenFile int
}

func DefaultWeights() Weights {
	return Weights{
		Material:     [7]int{0, 100, 320, 330, 500, 900, 0},
		Mobility:     [7]int{0, 0, 4, 3, 2, 1, 0},
		PawnShield:   10,
		OpenFile:     20,
		SemiOpenFile: 10,
	}
}

// Terms is the per-term breakdown of an evaluation, each from White's view.
type Terms struct {
	Material   int
	Placement  int
	Mobility   int
	KingSafety int
}

func (t Terms) Total() int { return t.Material + t.Placement + t.Mobility + t.KingSafety }

type Evaluator struct {
	w Weights
}

func New(w Weights) *Evaluator {
	return &Evaluator{w: w}
}

func (e *Evaluator) Weights() Weights { return e.w }

// Evaluate returns the static score of b, positive when White is better.
func (e *Evaluator) Evaluate(b *board.Board) int {
	return e.Explain(b).Total()
}

// Explain scores b term by term.
func (e *Evaluator) Explain(b *board.Board) Terms {
	var t Terms
	var pawnFiles [2][8]int
	for bb := b.Occupancy(); bb != 0; bb &= bb - 1 {
		sq := bb.First()
		p := b.Piece(sq)
		pt, c := p.Type(), p.Color()
		sign := 1
		if c == board.Black {
			sign = -1
		}
		t.Material += sign * e.w.Material[pt]
		t.Placement += sign * placement(pt, c, sq)
		t.Mobility += sign * e.w.Mobility[pt] * mobility(b, sq, pt, c)
		if pt == board.Pawn {
			pawnFiles[c][sq.File()]++
		}
	}
	t.KingSafety = e.kingSafety(b, board.White, &pawnFiles) - e.kingSafety(b, board.Black, &pawnFiles)
	return t
}

// kingSafety rewards a pawn shield in front of a castled king and penalises
// open or half-open files next to it.
func (e *Evaluator) kingSafety(b *board.Board, c board.Color, pawnFiles *[2][8]int) int {
	k := b.KingSquare(c)
	if !k.IsValid() {
		return 0
	}
	home, dir := 0, 1
	if c == board.Black {
		home, dir = 7, -1
	}
	score := 0
	kf := k.File()
	castled := k.Rank() == home && (kf <= 2 || kf >= 5)
	ownPawn := board.NewPiece(board.Pawn, c)
	for f := kf - 1; f <= kf+1; f++ {
		if f < 0 || f > 7 {
			continue
		}
		if castled {
			if b.Piece(board.NewSquare(f, home+dir)) == ownPawn {
				score += e.w.PawnShield
			} else if b.Piece(board.NewSquare(f, home+2*dir)) == ownPawn {
				score += e.w.PawnShield / 2
			}
		}
		if pawnFiles[c][f] == 0 {
			if pawnFiles[c.Other()][f] == 0 {
				score -= e.w.OpenFile
			} else {
				score -= e.w.SemiOpenFile
			}
		}
	}
	return score
}

type step struct{ df, dr int }

var (
	straight = [4]step{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	diagonal = [4]step{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
)

// mobility counts squares the piece could move to ignoring pins: empty or
// enemy-occupied, sliders stopping at the first blocker.
func mobility(b *board.Board, sq board.Square, pt board.PieceType, c board.Color) int {
	own := b.ColorOccupancy(c)
	switch pt {
	case board.Knight:
		return (movegen.KnightTargets(sq) &^ own).Count()
	case board.Bishop:
		return slide(b, sq, diagonal[:], own)
	case board.Rook:
		return slide(b, sq, straight[:], own)
	case board.Queen:
		return slide(b, sq, diagonal[:], own) + slide(b, sq, straight[:], own)
	default:
		return 0
	}
}

func slide(b *board.Board, sq board.Square, dirs []step, own board.Bitboard) int {
	occ := b.Occupancy()
	n := 0
	for _, d := range dirs {
		for t := sq.Offset(d.df, d.dr); t.IsValid(); t = t.Offset(d.df, d.dr) {
			if own.Has(t) {
				break
			}
			n++
			if occ.Has(t) {
				break
			}
		}
	}
	return n
}
