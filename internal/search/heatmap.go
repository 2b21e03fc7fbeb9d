package search

import "github.com/park285/hallchess/internal/board"

// openingHeat counts how often each piece type lands on each square in
// opening play, a1 first, per colour. Quiet moves are ordered by it.
var openingHeat = [2][7][64]uint16{
	board.White: {
		board.Pawn: {
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			88, 74, 361, 111, 276, 124, 322, 62,
			51, 142, 1144, 2288, 2246, 392, 88, 80,
			1, 33, 61, 475, 338, 22, 6, 5,
			10, 1, 18, 10, 9, 9, 1, 0,
			0, 0, 0, 0, 0, 0, 2, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
		board.Rook: {
			0, 5, 35, 32, 94, 499, 3, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			1, 0, 4, 0, 1, 0, 0, 1,
			0, 0, 0, 0, 3, 0, 0, 0,
			0, 0, 0, 0, 7, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 1,
		},
		board.Knight: {
			0, 1, 0, 0, 5, 2, 2, 0,
			0, 0, 2, 115, 62, 1, 0, 0,
			16, 17, 1470, 1, 3, 2054, 9, 15,
			9, 0, 11, 268, 58, 0, 1, 7,
			1, 31, 0, 19, 145, 2, 79, 0,
			0, 0, 15, 1, 2, 7, 0, 0,
			0, 0, 2, 0, 0, 19, 0, 2,
			1, 0, 0, 0, 0, 0, 0, 2,
		},
		board.Bishop: {
			1, 0, 2, 0, 0, 3, 0, 0,
			0, 51, 19, 57, 148, 1, 205, 0,
			6, 108, 1, 162, 124, 1, 2, 3,
			139, 2, 509, 2, 0, 47, 0, 35,
			0, 314, 1, 13, 2, 0, 292, 0,
			0, 1, 35, 0, 0, 17, 0, 2,
			0, 1, 1, 3, 20, 22, 1, 0,
			1, 0, 0, 0, 0, 0, 0, 0,
		},
		board.Queen: {
			0, 1, 0, 3, 3, 0, 0, 0,
			0, 0, 66, 49, 67, 3, 0, 0,
			0, 48, 7, 17, 6, 42, 0, 0,
			22, 0, 13, 32, 3, 2, 24, 3,
			0, 1, 1, 4, 1, 2, 0, 24,
			0, 0, 0, 0, 0, 0, 0, 1,
			0, 0, 0, 0, 0, 1, 3, 2,
			0, 0, 0, 2, 0, 0, 0, 1,
		},
		board.King: {
			0, 0, 23, 4, 0, 26, 498, 6,
			0, 0, 0, 0, 9, 4, 1, 0,
			0, 0, 0, 0, 1, 0, 1, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
	},
	board.Black: {
		board.Pawn: {
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 6, 0, 0, 0, 0, 0, 2,
			1, 0, 34, 3, 4, 37, 4, 0,
			0, 13, 174, 512, 190, 170, 68, 4,
			17, 238, 834, 1360, 1326, 216, 134, 18,
			348, 125, 418, 716, 867, 40, 525, 86,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
		board.Rook: {
			1, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 1, 0, 0, 0,
			1, 0, 0, 0, 0, 1, 0, 1,
			0, 8, 3, 3, 17, 458, 5, 0,
		},
		board.Knight: {
			0, 0, 0, 0, 0, 2, 0, 0,
			0, 0, 1, 2, 0, 2, 0, 0,
			0, 0, 31, 0, 2, 1, 3, 0,
			0, 9, 4, 40, 190, 2, 21, 0,
			56, 0, 8, 130, 31, 3, 1, 10,
			21, 32, 1057, 15, 1, 1874, 4, 29,
			0, 4, 3, 219, 58, 2, 1, 0,
			0, 13, 0, 2, 1, 1, 8, 0,
		},
		board.Bishop: {
			0, 1, 0, 1, 0, 3, 0, 0,
			0, 0, 0, 5, 1, 3, 1, 1,
			0, 0, 60, 3, 1, 8, 0, 3,
			0, 297, 3, 5, 2, 0, 98, 4,
			27, 0, 241, 0, 2, 79, 3, 1,
			20, 31, 2, 44, 56, 5, 9, 5,
			1, 74, 0, 44, 307, 0, 387, 2,
			0, 0, 0, 0, 1, 3, 0, 1,
		},
		board.Queen: {
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 2, 0, 0, 0, 0, 3, 0,
			1, 0, 1, 0, 0, 0, 0, 2,
			0, 1, 1, 9, 3, 2, 0, 51,
			79, 0, 0, 53, 5, 4, 12, 2,
			0, 28, 0, 10, 2, 36, 6, 0,
			0, 0, 36, 10, 62, 0, 0, 0,
			1, 1, 2, 4, 5, 0, 0, 0,
		},
		board.King: {
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 1, 1, 0, 0,
			0, 0, 0, 0, 5, 17, 2, 0,
			0, 0, 2, 7, 0, 4, 458, 0,
		},
	},
}
