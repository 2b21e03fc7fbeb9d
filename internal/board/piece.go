package board

// Color identifies a side.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType is the closed set of chess piece kinds. NoPieceType is the zero
// value so an empty square needs no sentinel handling.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Char returns the lower-case FEN letter.
func (pt PieceType) Char() byte {
	switch pt {
	case Pawn:
		return 'p'
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	case King:
		return 'k'
	default:
		return ' '
	}
}

func pieceTypeFromChar(ch byte) PieceType {
	switch ch | 0x20 {
	case 'p':
		return Pawn
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'r':
		return Rook
	case 'q':
		return Queen
	case 'k':
		return King
	default:
		return NoPieceType
	}
}

// Piece packs a PieceType in the low three bits and the Color in bit 3.
// NoPiece (zero) marks an empty square.
type Piece uint8

const NoPiece Piece = 0

var (
	WhitePawn   = NewPiece(Pawn, White)
	WhiteKnight = NewPiece(Knight, White)
	WhiteBishop = NewPiece(Bishop, White)
	WhiteRook   = NewPiece(Rook, White)
	WhiteQueen  = NewPiece(Queen, White)
	WhiteKing   = NewPiece(King, White)
	BlackPawn   = NewPiece(Pawn, Black)
	BlackKnight = NewPiece(Knight, Black)
	BlackBishop = NewPiece(Bishop, Black)
	BlackRook   = NewPiece(Rook, Black)
	BlackQueen  = NewPiece(Queen, Black)
	BlackKing   = NewPiece(King, Black)
)

func NewPiece(pt PieceType, c Color) Piece {
	if pt == NoPieceType {
		return NoPiece
	}
	return Piece(pt) | Piece(c)<<3
}

func (p Piece) Type() PieceType { return PieceType(p & 7) }
func (p Piece) Color() Color    { return Color(p>>3) & 1 }

// String returns the FEN letter, upper-case for White.
func (p Piece) String() string {
	if p == NoPiece {
		return "."
	}
	ch := p.Type().Char()
	if p.Color() == White {
		ch -= 'a' - 'A'
	}
	return string(ch)
}

func pieceFromChar(ch byte) Piece {
	pt := pieceTypeFromChar(ch)
	if pt == NoPieceType {
		return NoPiece
	}
	if ch >= 'A' && ch <= 'Z' {
		return NewPiece(pt, White)
	}
	return NewPiece(pt, Black)
}
