// Package feedback projects game events onto the LED matrix. It holds no
// state: the same event always lights the same squares.
package feedback

import "github.com/park285/hallchess/internal/board"

type Kind uint8

const (
	Idle Kind = iota
	Setup
	AiMove
	Mismatch
	Hint
	Recheck
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Setup:
		return "setup"
	case AiMove:
		return "ai_move"
	case Mismatch:
		return "mismatch"
	case Hint:
		return "hint"
	case Recheck:
		return "recheck"
	default:
		return "unknown"
	}
}

// Event carries what Render needs for its Kind: Frame for Setup, Move for
// AiMove and Hint, Squares for Mismatch and Recheck.
type Event struct {
	Kind    Kind
	Move    board.Move
	Squares board.Bitboard
	Frame   board.Bitboard
}

func SetupEvent(frame board.Bitboard) Event      { return Event{Kind: Setup, Frame: frame} }
func AiMoveEvent(m board.Move) Event             { return Event{Kind: AiMove, Move: m} }
func MismatchEvent(squares board.Bitboard) Event { return Event{Kind: Mismatch, Squares: squares} }
func HintEvent(m board.Move) Event               { return Event{Kind: Hint, Move: m} }

// RecheckEvent marks squares whose pieces the player should lift and set
// down again so the sensors see them.
func RecheckEvent(squares board.Bitboard) Event { return Event{Kind: Recheck, Squares: squares} }

// Render returns the LEDs to light for ev.
func Render(ev Event) board.Bitboard {
	switch ev.Kind {
	case Setup:
		// Occupancy alone cannot tell pieces apart, so a wrong piece shows
		// only as a wrong square.
		return board.StartingOccupancy ^ ev.Frame
	case AiMove:
		return ev.Move.Touched()
	case Mismatch, Recheck:
		return ev.Squares
	case Hint:
		return board.BitboardOf(ev.Move.From, ev.Move.To)
	default:
		return 0
	}
}

// Compose lights the union of several events.
func Compose(events ...Event) board.Bitboard {
	var bb board.Bitboard
	for _, ev := range events {
		bb |= Render(ev)
	}
	return bb
}
