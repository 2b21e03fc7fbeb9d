package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares, bit i set for Square(i). Sensor frames and
// LED targets travel as bitboards.
type Bitboard uint64

func SquareBB(sq Square) Bitboard {
	if sq >= NoSquare {
		return 0
	}
	return Bitboard(1) << sq
}

// BitboardOf collects the given squares.
func BitboardOf(squares ...Square) Bitboard {
	var bb Bitboard
	for _, sq := range squares {
		bb |= SquareBB(sq)
	}
	return bb
}

func (b Bitboard) Has(sq Square) bool             { return b&SquareBB(sq) != 0 }
func (b Bitboard) With(sq Square) Bitboard        { return b | SquareBB(sq) }
func (b Bitboard) Without(sq Square) Bitboard     { return b &^ SquareBB(sq) }
func (b Bitboard) Count() int                     { return bits.OnesCount64(uint64(b)) }
func (b Bitboard) Empty() bool                    { return b == 0 }
func (b Bitboard) SubsetOf(other Bitboard) bool   { return b&^other == 0 }
func (b Bitboard) Intersects(other Bitboard) bool { return b&other != 0 }

// First returns the lowest member, or NoSquare for the empty set.
func (b Bitboard) First() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// Squares lists members in ascending square order.
func (b Bitboard) Squares() []Square {
	out := make([]Square, 0, b.Count())
	for b != 0 {
		sq := Square(bits.TrailingZeros64(uint64(b)))
		out = append(out, sq)
		b &= b - 1
	}
	return out
}

// String joins the member squares, e.g. "e2 e4".
func (b Bitboard) String() string {
	sqs := b.Squares()
	parts := make([]string, len(sqs))
	for i, sq := range sqs {
		parts[i] = sq.String()
	}
	return strings.Join(parts, " ")
}

// Grid draws the set rank 8 first, '1' for members.
func (b Bitboard) Grid() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		for f := 0; f < 8; f++ {
			if b.Has(NewSquare(f, r)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('.')
			}
		}
		if r > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
