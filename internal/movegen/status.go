package movegen

import "github.com/park285/hallchess/internal/board"

// Status classifies a position for the side to move.
type Status uint8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	DrawByInactivity
)

// InactivityLimit is the half-move clock value that ends the game.
const InactivityLimit = 100

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case DrawByInactivity:
		return "draw_by_inactivity"
	default:
		return "unknown"
	}
}

func (s Status) Terminal() bool { return s != Ongoing }

// Classify reports the terminal status of b. Checkmate takes precedence
// over the inactivity draw.
func Classify(b *board.Board) Status {
	if !HasLegalMove(b) {
		if InCheck(b) {
			return Checkmate
		}
		return Stalemate
	}
	if b.HalfMoveClock() >= InactivityLimit {
		return DrawByInactivity
	}
	return Ongoing
}

// Perft counts leaf nodes of the legal move tree to the given depth.
func Perft(b *board.Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	scratch := *b
	lists := make([]MoveList, depth)
	return perft(&scratch, depth, lists)
}

func perft(b *board.Board, depth int, lists []MoveList) uint64 {
	ml := &lists[depth-1]
	Generate(b, ml)
	if depth == 1 {
		return uint64(ml.Len())
	}
	var nodes uint64
	for i := 0; i < ml.Len(); i++ {
		m := ml.At(i)
		u := b.Apply(m)
		nodes += perft(b, depth-1, lists)
		b.Revert(m, u)
	}
	return nodes
}
