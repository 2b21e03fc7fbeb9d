package board

import "fmt"

// MoveFlag marks special move kinds. A zero value is a normal quiet move.
type MoveFlag uint8

const (
	FlagCapture MoveFlag = 1 << iota
	FlagEnPassant
	FlagCastleKingside
	FlagCastleQueenside
	FlagDoublePush
)

// Move is only meaningful relative to the Board it was generated from.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
	Flags     MoveFlag
}

// NullMove is the zero Move (a1a1); it never appears in a move list.
var NullMove = Move{}

func (m Move) IsNull() bool      { return m.From == m.To }
func (m Move) IsCapture() bool   { return m.Flags&FlagCapture != 0 }
func (m Move) IsEnPassant() bool { return m.Flags&FlagEnPassant != 0 }
func (m Move) IsCastle() bool    { return m.Flags&(FlagCastleKingside|FlagCastleQueenside) != 0 }
func (m Move) IsPromotion() bool { return m.Promotion != NoPieceType }

// SameSquares reports whether two moves share origin, destination and
// promotion kind, ignoring flags.
func (m Move) SameSquares(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// CapturedSquare is where the victim stands: the destination, or the square
// behind it for en passant. NoSquare for non-captures.
func (m Move) CapturedSquare() Square {
	switch {
	case m.IsEnPassant():
		return NewSquare(m.To.File(), m.From.Rank())
	case m.IsCapture():
		return m.To
	default:
		return NoSquare
	}
}

// RookSquares returns the castling rook's origin and destination.
func (m Move) RookSquares() (from, to Square, ok bool) {
	rank := m.From.Rank()
	switch {
	case m.Flags&FlagCastleKingside != 0:
		return NewSquare(7, rank), NewSquare(5, rank), true
	case m.Flags&FlagCastleQueenside != 0:
		return NewSquare(0, rank), NewSquare(3, rank), true
	default:
		return NoSquare, NoSquare, false
	}
}

// Touched is every square whose occupant changes when the move is played.
func (m Move) Touched() Bitboard {
	bb := SquareBB(m.From) | SquareBB(m.To)
	if m.IsEnPassant() {
		bb |= SquareBB(m.CapturedSquare())
	}
	if rf, rt, ok := m.RookSquares(); ok {
		bb |= SquareBB(rf) | SquareBB(rt)
	}
	return bb
}

// String renders coordinate notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseCoordinate parses "e2e4"/"e7e8q" into bare squares. Flags are not
// known without a board; match the result against generated moves with
// SameSquares.
func ParseCoordinate(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NullMove, fmt.Errorf("invalid move %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NullMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NullMove, err
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		pt := pieceTypeFromChar(s[4])
		if pt == NoPieceType || pt == Pawn || pt == King {
			return NullMove, fmt.Errorf("invalid promotion in %q", s)
		}
		m.Promotion = pt
	}
	return m, nil
}
