// Package movegen produces strictly legal moves and classifies terminal
// positions.
package movegen

import (
	"errors"
	"fmt"

	"github.com/park285/hallchess/internal/board"
)

// MaxMoves bounds the legal moves of any reachable position (218 is the
// known maximum).
const MaxMoves = 256

var ErrIllegalMove = errors.New("illegal move")

// MoveList is a fixed-capacity move buffer. The zero value is empty and
// ready to use.
type MoveList struct {
	moves [MaxMoves]board.Move
	n     int
}

func (ml *MoveList) Len() int            { return ml.n }
func (ml *MoveList) At(i int) board.Move { return ml.moves[i] }
func (ml *MoveList) Reset()              { ml.n = 0 }
func (ml *MoveList) Slice() []board.Move { return ml.moves[:ml.n] }

func (ml *MoveList) add(m board.Move) {
	ml.moves[ml.n] = m
	ml.n++
}

// Generate fills ml with every legal move for the side to move, in
// square order of the moving piece. ml is reset first.
func Generate(b *board.Board, ml *MoveList) {
	ml.Reset()
	generatePseudo(b, ml)

	us := b.Turn()
	scratch := *b
	kept := 0
	for i := 0; i < ml.n; i++ {
		m := ml.moves[i]
		u := scratch.Apply(m)
		ok := !Attacked(&scratch, scratch.KingSquare(us), us.Other())
		scratch.Revert(m, u)
		if ok {
			ml.moves[kept] = m
			kept++
		}
	}
	ml.n = kept
}

// Legal returns a freshly allocated slice of the legal moves.
func Legal(b *board.Board) []board.Move {
	var ml MoveList
	Generate(b, &ml)
	out := make([]board.Move, ml.Len())
	copy(out, ml.Slice())
	return out
}

// HasLegalMove reports whether the side to move has any legal move.
func HasLegalMove(b *board.Board) bool {
	var ml MoveList
	Generate(b, &ml)
	return ml.Len() > 0
}

// Find resolves coordinate notation ("e2e4", "e7e8q") to the matching
// legal move with its flags filled in.
func Find(b *board.Board, coord string) (board.Move, error) {
	want, err := board.ParseCoordinate(coord)
	if err != nil {
		return board.NullMove, err
	}
	var ml MoveList
	Generate(b, &ml)
	for _, m := range ml.Slice() {
		if m.SameSquares(want) {
			return m, nil
		}
	}
	return board.NullMove, fmt.Errorf("%w: %s", ErrIllegalMove, coord)
}

func generatePseudo(b *board.Board, ml *MoveList) {
	us := b.Turn()
	for t := b.ColorOccupancy(us); t != 0; t &= t - 1 {
		sq := t.First()
		switch b.Piece(sq).Type() {
		case board.Pawn:
			pawnMoves(b, sq, ml)
		case board.Knight:
			jumpMoves(b, sq, knightTargets[sq], ml)
		case board.Bishop:
			slideMoves(b, sq, bishopDirs[:], ml)
		case board.Rook:
			slideMoves(b, sq, rookDirs[:], ml)
		case board.Queen:
			slideMoves(b, sq, rookDirs[:], ml)
			slideMoves(b, sq, bishopDirs[:], ml)
		case board.King:
			jumpMoves(b, sq, kingTargets[sq], ml)
			castleMoves(b, sq, ml)
		}
	}
}

var promotionOrder = [4]board.PieceType{board.Queen, board.Rook, board.Bishop, board.Knight}

func pawnMoves(b *board.Board, from board.Square, ml *MoveList) {
	us := b.Turn()
	dir, startRank, lastRank := 1, 1, 7
	if us == board.Black {
		dir, startRank, lastRank = -1, 6, 0
	}
	enemy := b.ColorOccupancy(us.Other())
	occ := b.Occupancy()

	addPawn := func(to board.Square, flags board.MoveFlag) {
		if to.Rank() == lastRank {
			for _, pt := range promotionOrder {
				ml.add(board.Move{From: from, To: to, Promotion: pt, Flags: flags})
			}
			return
		}
		ml.add(board.Move{From: from, To: to, Flags: flags})
	}

	if one := from.Offset(0, dir); one != board.NoSquare && !occ.Has(one) {
		addPawn(one, 0)
		if from.Rank() == startRank {
			if two := one.Offset(0, dir); !occ.Has(two) {
				ml.add(board.Move{From: from, To: two, Flags: board.FlagDoublePush})
			}
		}
	}
	for _, df := range [2]int{-1, 1} {
		to := from.Offset(df, dir)
		if to == board.NoSquare {
			continue
		}
		switch {
		case enemy.Has(to):
			addPawn(to, board.FlagCapture)
		case to == b.EnPassant():
			ml.add(board.Move{From: from, To: to, Flags: board.FlagCapture | board.FlagEnPassant})
		}
	}
}

func jumpMoves(b *board.Board, from board.Square, targets board.Bitboard, ml *MoveList) {
	us := b.Turn()
	enemy := b.ColorOccupancy(us.Other())
	for t := targets &^ b.ColorOccupancy(us); t != 0; t &= t - 1 {
		to := t.First()
		var flags board.MoveFlag
		if enemy.Has(to) {
			flags = board.FlagCapture
		}
		ml.add(board.Move{From: from, To: to, Flags: flags})
	}
}

func slideMoves(b *board.Board, from board.Square, dirs []offset, ml *MoveList) {
	us := b.Turn()
	for _, d := range dirs {
		for to := from.Offset(d.df, d.dr); to != board.NoSquare; to = to.Offset(d.df, d.dr) {
			p := b.Piece(to)
			if p == board.NoPiece {
				ml.add(board.Move{From: from, To: to})
				continue
			}
			if p.Color() != us {
				ml.add(board.Move{From: from, To: to, Flags: board.FlagCapture})
			}
			break
		}
	}
}

func castleMoves(b *board.Board, from board.Square, ml *MoveList) {
	us := b.Turn()
	them := us.Other()
	home, ks, qs := board.E1, board.WhiteKingside, board.WhiteQueenside
	if us == board.Black {
		home, ks, qs = board.E8, board.BlackKingside, board.BlackQueenside
	}
	cr := b.Castling()
	if from != home || (!cr.Has(ks) && !cr.Has(qs)) {
		return
	}
	if Attacked(b, from, them) {
		return
	}
	rook := board.NewPiece(board.Rook, us)
	occ := b.Occupancy()

	if cr.Has(ks) && b.Piece(from.Offset(3, 0)) == rook {
		f, g := from.Offset(1, 0), from.Offset(2, 0)
		if !occ.Has(f) && !occ.Has(g) && !Attacked(b, f, them) && !Attacked(b, g, them) {
			ml.add(board.Move{From: from, To: g, Flags: board.FlagCastleKingside})
		}
	}
	if cr.Has(qs) && b.Piece(from.Offset(-4, 0)) == rook {
		d, c, bsq := from.Offset(-1, 0), from.Offset(-2, 0), from.Offset(-3, 0)
		if !occ.Has(d) && !occ.Has(c) && !occ.Has(bsq) && !Attacked(b, d, them) && !Attacked(b, c, them) {
			ml.add(board.Move{From: from, To: c, Flags: board.FlagCastleQueenside})
		}
	}
}
