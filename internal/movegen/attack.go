package movegen

import "github.com/park285/hallchess/internal/board"

type offset struct{ df, dr int }

var (
	knightOffsets = [8]offset{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = [8]offset{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
	rookDirs      = [4]offset{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	bishopDirs    = [4]offset{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
)

// Jump targets per square, computed once.
var (
	knightTargets [64]board.Bitboard
	kingTargets   [64]board.Bitboard
)

func init() {
	for sq := board.A1; sq < board.NoSquare; sq++ {
		for _, o := range knightOffsets {
			knightTargets[sq] = knightTargets[sq].With(sq.Offset(o.df, o.dr))
		}
		for _, o := range kingOffsets {
			kingTargets[sq] = kingTargets[sq].With(sq.Offset(o.df, o.dr))
		}
	}
}

// KnightTargets returns the squares a knight on sq jumps to.
func KnightTargets(sq board.Square) board.Bitboard { return knightTargets[sq] }

// Attacked reports whether any piece of color by attacks sq. Pawns attack
// diagonally forward only; the en-passant target is not considered.
func Attacked(b *board.Board, sq board.Square, by board.Color) bool {
	if !sq.IsValid() {
		return false
	}
	dr := -1
	if by == board.Black {
		dr = 1
	}
	pawn := board.NewPiece(board.Pawn, by)
	if b.Piece(sq.Offset(-1, dr)) == pawn || b.Piece(sq.Offset(1, dr)) == pawn {
		return true
	}

	knight := board.NewPiece(board.Knight, by)
	for t := knightTargets[sq] & b.ColorOccupancy(by); t != 0; t &= t - 1 {
		if b.Piece(t.First()) == knight {
			return true
		}
	}
	king := board.NewPiece(board.King, by)
	for t := kingTargets[sq] & b.ColorOccupancy(by); t != 0; t &= t - 1 {
		if b.Piece(t.First()) == king {
			return true
		}
	}

	queen := board.NewPiece(board.Queen, by)
	if rayHits(b, sq, rookDirs[:], board.NewPiece(board.Rook, by), queen) {
		return true
	}
	return rayHits(b, sq, bishopDirs[:], board.NewPiece(board.Bishop, by), queen)
}

// rayHits walks each direction from sq and reports whether the first
// occupied square holds one of the two slider pieces.
func rayHits(b *board.Board, sq board.Square, dirs []offset, a, q board.Piece) bool {
	for _, d := range dirs {
		for t := sq.Offset(d.df, d.dr); t != board.NoSquare; t = t.Offset(d.df, d.dr) {
			p := b.Piece(t)
			if p == board.NoPiece {
				continue
			}
			if p == a || p == q {
				return true
			}
			break
		}
	}
	return false
}

// InCheck reports whether the side to move is in check.
func InCheck(b *board.Board) bool {
	us := b.Turn()
	return Attacked(b, b.KingSquare(us), us.Other())
}
