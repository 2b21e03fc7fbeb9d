package eval

import "github.com/park285/hallchess/internal/board"

// Piece-square tables from White's side, a1 first. Black reads them mirrored
// vertically (sq ^ 56).
var pst = [7][64]int{
	board.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		-5, 10, 10, -20, -20, 10, 10, -5,
		0, 0, 5, 10, 10, 5, 0, 0,
		0, 5, 10, 20, 20, 10, 5, 0,
		10, 10, 15, 25, 25, 15, 10, 10,
		15, 15, 20, 30, 30, 20, 15, 15,
		30, 30, 30, 40, 40, 30, 30, 30,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Knight: {
		-30, -20, -10, -10, -10, -10, -20, -30,
		-20, -10, 5, 5, 5, 5, -10, -20,
		-20, 5, 15, 15, 15, 15, 5, -20,
		-10, 5, 15, 20, 20, 15, 5, -10,
		-10, 5, 15, 25, 25, 15, 5, -10,
		-20, 5, 10, 15, 15, 10, 5, -20,
		-20, 0, 0, 0, 0, 0, 0, -20,
		-30, -20, -10, -10, -10, -10, -20, -30,
	},
	board.Bishop: {
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 10, 5, 5, 5, 5, 10, -10,
		-10, 5, 5, 15, 15, 5, 5, -10,
		-10, 5, 5, 15, 15, 5, 5, -10,
		-10, 5, 10, 20, 20, 10, 5, -10,
		-10, 10, 10, 15, 15, 10, 10, -10,
		-10, 10, 5, 5, 5, 5, 10, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	board.Rook: {
		0, 0, 5, 10, 10, 5, 0, 0,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		10, 15, 15, 20, 20, 15, 15, 10,
		0, 0, 0, 5, 5, 0, 0, 0,
	},
	board.Queen: {
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-5, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 5, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	board.King: {
		30, 20, 5, -10, -10, 5, 20, 30,
		10, 10, -15, -30, -30, -15, 10, 10,
		-20, -20, -20, -20, -20, -20, -20, -20,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
	},
}

func placement(pt board.PieceType, c board.Color, sq board.Square) int {
	if c == board.Black {
		sq ^= 56
	}
	return pst[pt][sq]
}
