package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStructural marks a board that violates the position invariants (king
// count, pawns on the back ranks, inconsistent bookkeeping).
var ErrStructural = errors.New("structural board error")

// CastlingRights holds the four independent castling permissions.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

func (cr CastlingRights) Has(r CastlingRights) bool { return cr&r == r }

func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	if cr.Has(WhiteKingside) {
		sb.WriteByte('K')
	}
	if cr.Has(WhiteQueenside) {
		sb.WriteByte('Q')
	}
	if cr.Has(BlackKingside) {
		sb.WriteByte('k')
	}
	if cr.Has(BlackQueenside) {
		sb.WriteByte('q')
	}
	return sb.String()
}

// castleLoss lists the rights revoked when a piece leaves or lands on a square.
var castleLoss = func() [64]CastlingRights {
	var t [64]CastlingRights
	t[E1] = WhiteKingside | WhiteQueenside
	t[H1] = WhiteKingside
	t[A1] = WhiteQueenside
	t[E8] = BlackKingside | BlackQueenside
	t[H8] = BlackKingside
	t[A8] = BlackQueenside
	return t
}()

// Board is the logical position. The zero value is an empty board; use New
// for the standard start. Board is a plain value: copying it yields an
// independent scratch position.
type Board struct {
	squares   [64]Piece
	occ       [2]Bitboard
	kings     [2]Square
	turn      Color
	castling  CastlingRights
	enPassant Square
	halfmove  int
	fullmove  int
}

// Undo carries what Apply overwrote so Revert can restore the exact prior
// position.
type Undo struct {
	Captured  Piece
	Castling  CastlingRights
	EnPassant Square
	HalfMove  int
	FullMove  int
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// New returns the standard starting position.
func New() *Board {
	b := empty()
	for f := 0; f < 8; f++ {
		b.put(NewSquare(f, 0), NewPiece(backRank[f], White))
		b.put(NewSquare(f, 1), WhitePawn)
		b.put(NewSquare(f, 6), BlackPawn)
		b.put(NewSquare(f, 7), NewPiece(backRank[f], Black))
	}
	b.castling = AllCastling
	return b
}

// StartingOccupancy is the occupancy of the standard starting position.
const StartingOccupancy Bitboard = 0xFFFF00000000FFFF

func empty() *Board {
	return &Board{
		kings:     [2]Square{NoSquare, NoSquare},
		enPassant: NoSquare,
		fullmove:  1,
	}
}

func (b *Board) Piece(sq Square) Piece {
	if sq >= NoSquare {
		return NoPiece
	}
	return b.squares[sq]
}

func (b *Board) Turn() Color                     { return b.turn }
func (b *Board) Castling() CastlingRights        { return b.castling }
func (b *Board) EnPassant() Square               { return b.enPassant }
func (b *Board) HalfMoveClock() int              { return b.halfmove }
func (b *Board) FullMoveNumber() int             { return b.fullmove }
func (b *Board) Occupancy() Bitboard             { return b.occ[White] | b.occ[Black] }
func (b *Board) ColorOccupancy(c Color) Bitboard { return b.occ[c] }
func (b *Board) KingSquare(c Color) Square       { return b.kings[c] }

func (b *Board) put(sq Square, p Piece) {
	b.squares[sq] = p
	b.occ[p.Color()] |= SquareBB(sq)
	if p.Type() == King {
		b.kings[p.Color()] = sq
	}
}

func (b *Board) remove(sq Square) Piece {
	p := b.squares[sq]
	if p == NoPiece {
		return NoPiece
	}
	b.squares[sq] = NoPiece
	b.occ[p.Color()] &^= SquareBB(sq)
	if p.Type() == King && b.kings[p.Color()] == sq {
		b.kings[p.Color()] = NoSquare
	}
	return p
}

// Apply plays m for the side to move. m must come from move generation on
// this exact position; Apply performs no legality checks.
func (b *Board) Apply(m Move) Undo {
	u := Undo{
		Captured:  NoPiece,
		Castling:  b.castling,
		EnPassant: b.enPassant,
		HalfMove:  b.halfmove,
		FullMove:  b.fullmove,
	}
	us := b.turn

	if m.IsEnPassant() {
		u.Captured = b.remove(m.CapturedSquare())
	} else if b.squares[m.To] != NoPiece {
		u.Captured = b.remove(m.To)
	}

	piece := b.remove(m.From)
	placed := piece
	if m.IsPromotion() {
		placed = NewPiece(m.Promotion, us)
	}
	b.put(m.To, placed)

	if rf, rt, ok := m.RookSquares(); ok {
		b.put(rt, b.remove(rf))
	}

	b.castling &^= castleLoss[m.From] | castleLoss[m.To]

	b.enPassant = NoSquare
	if m.Flags&FlagDoublePush != 0 {
		b.enPassant = NewSquare(m.From.File(), (m.From.Rank()+m.To.Rank())/2)
	}

	if piece.Type() == Pawn || u.Captured != NoPiece {
		b.halfmove = 0
	} else {
		b.halfmove++
	}
	if us == Black {
		b.fullmove++
	}
	b.turn = us.Other()
	return u
}

// Revert undoes m, which must be the last move applied, using the Undo that
// Apply returned.
func (b *Board) Revert(m Move, u Undo) {
	us := b.turn.Other()
	b.turn = us

	placed := b.remove(m.To)
	if m.IsPromotion() {
		placed = NewPiece(Pawn, us)
	}
	b.put(m.From, placed)

	if rf, rt, ok := m.RookSquares(); ok {
		b.put(rf, b.remove(rt))
	}

	if u.Captured != NoPiece {
		if m.IsEnPassant() {
			b.put(m.CapturedSquare(), u.Captured)
		} else {
			b.put(m.To, u.Captured)
		}
	}

	b.castling = u.Castling
	b.enPassant = u.EnPassant
	b.halfmove = u.HalfMove
	b.fullmove = u.FullMove
}

// Validate checks the structural invariants. The error wraps ErrStructural.
func (b *Board) Validate() error {
	var kings [2]int
	var occ [2]Bitboard
	for sq := A1; sq < NoSquare; sq++ {
		p := b.squares[sq]
		if p == NoPiece {
			continue
		}
		if p.Type() == NoPieceType || p.Type() > King {
			return fmt.Errorf("%w: invalid piece code %d on %s", ErrStructural, p, sq)
		}
		occ[p.Color()] |= SquareBB(sq)
		switch p.Type() {
		case King:
			kings[p.Color()]++
			if b.kings[p.Color()] != sq {
				return fmt.Errorf("%w: %s king index out of date", ErrStructural, p.Color())
			}
		case Pawn:
			if r := sq.Rank(); r == 0 || r == 7 {
				return fmt.Errorf("%w: pawn on back rank %s", ErrStructural, sq)
			}
		}
	}
	for _, c := range []Color{White, Black} {
		if kings[c] != 1 {
			return fmt.Errorf("%w: %d %s kings", ErrStructural, kings[c], c)
		}
		if occ[c] != b.occ[c] {
			return fmt.Errorf("%w: %s occupancy out of date", ErrStructural, c)
		}
	}
	if ep := b.enPassant; ep != NoSquare {
		if ep >= NoSquare || (ep.Rank() != 2 && ep.Rank() != 5) {
			return fmt.Errorf("%w: en passant target %s", ErrStructural, ep)
		}
	}
	return nil
}

// String draws the board rank 8 first.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for r := 7; r >= 0; r-- {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for f := 0; f < 8; f++ {
			sb.WriteString(b.squares[NewSquare(f, r)].String())
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h")
	return sb.String()
}
