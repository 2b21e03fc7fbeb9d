package feedback

import (
	"testing"

	"github.com/park285/hallchess/internal/board"
)

func TestRender(t *testing.T) {
	start := board.StartingOccupancy
	cases := []struct {
		name string
		ev   Event
		want board.Bitboard
	}{
		{"idle", Event{}, 0},
		{"setup complete", SetupEvent(start), 0},
		{"setup missing and extra", SetupEvent(start.Without(board.D1).With(board.D4)), board.BitboardOf(board.D1, board.D4)},
		{"ai move", AiMoveEvent(board.Move{From: board.G8, To: board.F6}), board.BitboardOf(board.G8, board.F6)},
		{"ai castle", AiMoveEvent(board.Move{From: board.E8, To: board.G8, Flags: board.FlagCastleKingside}),
			board.BitboardOf(board.E8, board.F8, board.G8, board.H8)},
		{"ai en passant", AiMoveEvent(board.Move{From: board.D4, To: board.E3, Flags: board.FlagCapture | board.FlagEnPassant}),
			board.BitboardOf(board.D4, board.E3, board.E4)},
		{"mismatch", MismatchEvent(board.BitboardOf(board.A7, board.H2)), board.BitboardOf(board.A7, board.H2)},
		{"hint", HintEvent(board.Move{From: board.E2, To: board.E4}), board.BitboardOf(board.E2, board.E4)},
		{"recheck", RecheckEvent(board.BitboardOf(board.D5)), board.BitboardOf(board.D5)},
	}
	for _, tc := range cases {
		if got := Render(tc.ev); got != tc.want {
			t.Errorf("%s: Render = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestComposeIsUnion(t *testing.T) {
	got := Compose(
		AiMoveEvent(board.Move{From: board.G8, To: board.F6}),
		MismatchEvent(board.BitboardOf(board.A2)),
		Event{Kind: Idle},
	)
	if want := board.BitboardOf(board.G8, board.F6, board.A2); got != want {
		t.Fatalf("Compose = %s, want %s", got, want)
	}
	if Compose() != 0 {
		t.Fatalf("empty Compose lit LEDs")
	}
}
