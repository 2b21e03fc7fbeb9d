package board

import (
	"fmt"
	"strconv"
	"strings"
)

const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN decodes a Forsyth-Edwards string. The halfmove and fullmove
// fields are optional and default to 0 and 1. The result is validated.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) != 4 && len(parts) != 6 {
		return nil, fmt.Errorf("invalid FEN: expected 4 or 6 fields, got %d", len(parts))
	}

	b := empty()

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid FEN: expected 8 ranks")
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			if file >= 8 {
				return nil, fmt.Errorf("invalid FEN: too many pieces in rank %d", rank+1)
			}
			p := pieceFromChar(ch)
			if p == NoPiece {
				return nil, fmt.Errorf("invalid FEN: unknown piece %q", ch)
			}
			b.put(NewSquare(file, rank), p)
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("invalid FEN: rank %d has %d files", rank+1, file)
		}
	}

	switch parts[1] {
	case "w":
		b.turn = White
	case "b":
		b.turn = Black
	default:
		return nil, fmt.Errorf("invalid FEN: turn must be 'w' or 'b'")
	}

	if parts[2] != "-" {
		for j := 0; j < len(parts[2]); j++ {
			switch parts[2][j] {
			case 'K':
				b.castling |= WhiteKingside
			case 'Q':
				b.castling |= WhiteQueenside
			case 'k':
				b.castling |= BlackKingside
			case 'q':
				b.castling |= BlackQueenside
			default:
				return nil, fmt.Errorf("invalid FEN: castling field %q", parts[2])
			}
		}
	}
	b.castling &= b.castlingSupported()

	if parts[3] != "-" {
		ep, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid FEN: en passant: %w", err)
		}
		b.enPassant = ep
	}

	if len(parts) == 6 {
		hm, err := strconv.Atoi(parts[4])
		if err != nil || hm < 0 {
			return nil, fmt.Errorf("invalid FEN: halfmove counter")
		}
		fm, err := strconv.Atoi(parts[5])
		if err != nil || fm < 1 {
			return nil, fmt.Errorf("invalid FEN: fullmove counter")
		}
		b.halfmove, b.fullmove = hm, fm
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// castlingSupported drops rights whose king or rook is not on its home square.
func (b *Board) castlingSupported() CastlingRights {
	cr := AllCastling
	if b.squares[E1] != WhiteKing {
		cr &^= WhiteKingside | WhiteQueenside
	}
	if b.squares[H1] != WhiteRook {
		cr &^= WhiteKingside
	}
	if b.squares[A1] != WhiteRook {
		cr &^= WhiteQueenside
	}
	if b.squares[E8] != BlackKing {
		cr &^= BlackKingside | BlackQueenside
	}
	if b.squares[H8] != BlackRook {
		cr &^= BlackKingside
	}
	if b.squares[A8] != BlackRook {
		cr &^= BlackQueenside
	}
	return cr
}

// FEN encodes the position.
func (b *Board) FEN() string {
	var sb strings.Builder
	sb.WriteString(b.Placement())
	sb.WriteByte(' ')
	if b.turn == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(b.castling.String())
	sb.WriteByte(' ')
	sb.WriteString(b.enPassant.String())
	fmt.Fprintf(&sb, " %d %d", b.halfmove, b.fullmove)
	return sb.String()
}

// Placement is the first FEN field.
func (b *Board) Placement() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		gap := 0
		for f := 0; f < 8; f++ {
			p := b.squares[NewSquare(f, r)]
			if p == NoPiece {
				gap++
				continue
			}
			if gap > 0 {
				sb.WriteByte(byte('0' + gap))
				gap = 0
			}
			sb.WriteString(p.String())
		}
		if gap > 0 {
			sb.WriteByte(byte('0' + gap))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}
