// Package ledview draws the board, its sensed occupancy and its lit LEDs to
// a PNG so a bench session can be inspected without hardware.
package ledview

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/park285/hallchess/internal/board"
)

const (
	SquareSize = 48
	margin     = 24
	captionH   = 24
	boardSize  = SquareSize * 8
)

// Snapshot is one moment of a game. Board may be nil when only the
// physical state is of interest.
type Snapshot struct {
	Board     *board.Board
	Occupancy board.Bitboard
	LEDs      board.Bitboard
	Caption   string
}

var (
	lightSquare     = color.RGBA{233, 207, 163, 255}
	darkSquare      = color.RGBA{187, 136, 96, 255}
	backgroundColor = color.RGBA{28, 31, 46, 255}
	whitePieceText  = color.RGBA{255, 255, 255, 255}
	blackPieceText  = color.RGBA{20, 20, 20, 255}
	coordinateText  = color.RGBA{8, 214, 120, 255}
	captionText     = color.RGBA{236, 239, 255, 255}
)

// Origin is the top-left pixel of the a8 square.
var Origin = image.Point{X: margin, Y: margin}

// Bounds of a rendered snapshot.
func Bounds() image.Rectangle {
	return image.Rect(0, 0, boardSize+2*margin, boardSize+2*margin+captionH)
}

func RenderPNG(ctx context.Context, s Snapshot) ([]byte, error) {
	img, err := Render(ctx, s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Render draws s into a new image.
func Render(ctx context.Context, s Snapshot) (*image.RGBA, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(Bounds())
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)
	drawSquares(img)

	sensor, err := renderGlyph(glyphSensor, SquareSize)
	if err != nil {
		return nil, err
	}
	led, err := renderGlyph(glyphLED, SquareSize)
	if err != nil {
		return nil, err
	}
	for _, sq := range s.Occupancy.Squares() {
		imagedraw.Draw(img, SquareRect(sq), sensor, image.Point{}, imagedraw.Over)
	}
	for _, sq := range s.LEDs.Squares() {
		imagedraw.Draw(img, SquareRect(sq), led, image.Point{}, imagedraw.Over)
	}

	drawer := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	if s.Board != nil {
		drawPieces(drawer, s.Board)
	}
	drawCoordinates(drawer)
	if s.Caption != "" {
		drawer.Src = image.NewUniform(captionText)
		drawCenteredText(drawer, s.Caption, img.Bounds().Dx()/2, boardSize+2*margin+captionH/2)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return img, nil
}

// SquareRect is the pixel rectangle of sq, White at the bottom.
func SquareRect(sq board.Square) image.Rectangle {
	x := Origin.X + sq.File()*SquareSize
	y := Origin.Y + (7-sq.Rank())*SquareSize
	return image.Rect(x, y, x+SquareSize, y+SquareSize)
}

func drawSquares(dst imagedraw.Image) {
	for sq := board.A1; sq < board.NoSquare; sq++ {
		imagedraw.Draw(dst, SquareRect(sq), image.NewUniform(squareColor(sq)), image.Point{}, imagedraw.Src)
	}
}

func drawPieces(drawer *font.Drawer, b *board.Board) {
	for sq := board.A1; sq < board.NoSquare; sq++ {
		p := b.Piece(sq)
		if p == board.NoPiece {
			continue
		}
		if p.Color() == board.White {
			drawer.Src = image.NewUniform(whitePieceText)
		} else {
			drawer.Src = image.NewUniform(blackPieceText)
		}
		r := SquareRect(sq)
		// Letters sit in the lower-left corner so the LED glyph stays visible.
		drawer.Dot = fixed.P(r.Min.X+3, r.Max.Y-3)
		drawer.DrawString(p.String())
	}
}

func drawCoordinates(drawer *font.Drawer) {
	drawer.Src = image.NewUniform(coordinateText)
	ascent := drawer.Face.Metrics().Ascent.Ceil()
	for i := 0; i < 8; i++ {
		rank := SquareRect(board.NewSquare(0, i))
		drawCenteredText(drawer, string(rune('1'+i)), margin/2, rank.Min.Y+SquareSize/2+ascent/2)
		file := SquareRect(board.NewSquare(i, 0))
		drawCenteredText(drawer, string(rune('a'+i)), file.Min.X+SquareSize/2, file.Max.Y+ascent+2)
	}
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

func squareColor(sq board.Square) color.Color {
	if (sq.File()+sq.Rank())%2 == 0 {
		return darkSquare
	}
	return lightSquare
}
