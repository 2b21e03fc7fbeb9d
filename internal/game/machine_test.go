package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/park285/hallchess/internal/board"
	"github.com/park285/hallchess/internal/movegen"
	"github.com/park285/hallchess/internal/scoresheet"
	"github.com/park285/hallchess/internal/search"
	"github.com/park285/hallchess/internal/shim"
)

func newTestMachine(t *testing.T, initial board.Bitboard) (*Machine, *shim.Sim, *search.ManualClock) {
	t.Helper()
	sim := shim.NewSim(initial)
	clk := &search.ManualClock{}
	m := New(sim, Deps{Clock: clk}, Options{Limits: search.Limits{MinDepth: 3, MaxDepth: 3}})
	return m, sim, clk
}

func tick(t *testing.T, m *Machine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := m.Tick(context.Background()); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
}

func lastPrompt(t *testing.T, sim *shim.Sim) shim.Prompt {
	t.Helper()
	p, ok := sim.LastPrompt()
	if !ok {
		t.Fatalf("no prompt displayed")
	}
	return p
}

func expectPhase(t *testing.T, m *Machine, want Phase) {
	t.Helper()
	if m.Phase() != want {
		t.Fatalf("phase = %s, want %s", m.Phase(), want)
	}
}

// startAs drives colour selection and setup until the human's colour is
// chosen and the board is verified.
func startAs(t *testing.T, m *Machine, sim *shim.Sim, clk *search.ManualClock, human board.Color) {
	t.Helper()
	tick(t, m, 1)
	if human == board.Black {
		clk.Advance(DefaultColorToggle)
		tick(t, m, 1)
	}
	sim.Press(shim.ButtonPress)
	tick(t, m, 1)
	expectPhase(t, m, PhaseSetup)
	tick(t, m, 1)
}

func TestColorSelectAlternatesAndConfirms(t *testing.T) {
	m, sim, clk := newTestMachine(t, board.StartingOccupancy)
	tick(t, m, 3)
	clk.Advance(DefaultColorToggle / 2)
	tick(t, m, 1)
	clk.Advance(DefaultColorToggle / 2)
	tick(t, m, 1)

	prompts := sim.Prompts()
	if len(prompts) != 2 {
		t.Fatalf("prompts = %+v, want two offers", prompts)
	}
	if prompts[0].Kind != shim.PromptChooseColor || prompts[0].Color != board.White {
		t.Fatalf("first offer = %+v", prompts[0])
	}
	if prompts[1].Color != board.Black {
		t.Fatalf("second offer = %+v", prompts[1])
	}

	sim.Press(shim.ButtonPress)
	tick(t, m, 1)
	expectPhase(t, m, PhaseSetup)
	if m.HumanColor() != board.Black {
		t.Fatalf("human = %s, want black", m.HumanColor())
	}
}

func TestSetupLightsDiscrepancies(t *testing.T) {
	initial := board.StartingOccupancy.Without(board.D1).With(board.D4)
	m, sim, _ := newTestMachine(t, initial)
	tick(t, m, 1)
	sim.Press(shim.ButtonPress)
	tick(t, m, 2)
	expectPhase(t, m, PhaseSetup)

	want := board.BitboardOf(board.D1, board.D4)
	if sim.LEDs() != want {
		t.Fatalf("LEDs = %s, want %s", sim.LEDs(), want)
	}
	if p := lastPrompt(t, sim); p.Kind != shim.PromptSetup || p.Squares != want {
		t.Fatalf("prompt = %+v", p)
	}

	sim.SetOccupancy(board.StartingOccupancy)
	tick(t, m, 1)
	expectPhase(t, m, PhaseHumanTurn)
	if sim.LEDs() != 0 {
		t.Fatalf("LEDs still lit: %s", sim.LEDs())
	}
}

func TestHumanMoveThenEngineReply(t *testing.T) {
	m, sim, clk := newTestMachine(t, board.StartingOccupancy)
	startAs(t, m, sim, clk, board.White)
	expectPhase(t, m, PhaseHumanTurn)
	if p := lastPrompt(t, sim); p.Kind != shim.PromptYourMove {
		t.Fatalf("prompt = %+v", p)
	}

	if err := sim.Lift(board.E2); err != nil {
		t.Fatal(err)
	}
	tick(t, m, 1)
	expectPhase(t, m, PhaseHumanTurn)
	if err := sim.Place(board.E4); err != nil {
		t.Fatal(err)
	}
	tick(t, m, 1)
	expectPhase(t, m, PhaseAiTurn)
	if p := lastPrompt(t, sim); p.Kind != shim.PromptThinking {
		t.Fatalf("prompt = %+v", p)
	}

	tick(t, m, 1)
	expectPhase(t, m, PhaseAiMoveConfirm)
	res := m.LastSearch()
	if res.Depth < 3 {
		t.Fatalf("search depth = %d, want >= 3", res.Depth)
	}
	reply := m.PendingAIMove()
	before := board.New()
	e4, err := movegen.Find(before, "e2e4")
	if err != nil {
		t.Fatal(err)
	}
	before.Apply(e4)
	if _, err := movegen.Find(before, reply.String()); err != nil {
		t.Fatalf("engine reply %s is not legal for black: %v", reply, err)
	}
	if sim.LEDs() != reply.Touched() {
		t.Fatalf("LEDs = %s, want %s", sim.LEDs(), reply.Touched())
	}
	p := lastPrompt(t, sim)
	if p.Kind != shim.PromptReplicate || p.Move != reply || p.SAN == "" {
		t.Fatalf("prompt = %+v", p)
	}

	// Disturbing an unrelated square is flagged until undone.
	if err := sim.Lift(board.A2); err != nil {
		t.Fatal(err)
	}
	tick(t, m, 1)
	if p := lastPrompt(t, sim); p.Kind != shim.PromptMismatch || !p.Squares.Has(board.A2) {
		t.Fatalf("prompt = %+v", p)
	}
	if !sim.LEDs().Has(board.A2) || !reply.Touched().SubsetOf(sim.LEDs()) {
		t.Fatalf("LEDs = %s", sim.LEDs())
	}
	if err := sim.Place(board.A2); err != nil {
		t.Fatal(err)
	}

	if err := sim.Slide(reply.From, reply.To); err != nil {
		t.Fatal(err)
	}
	tick(t, m, 1)
	expectPhase(t, m, PhaseHumanTurn)
	if sim.LEDs() != 0 {
		t.Fatalf("LEDs still lit: %s", sim.LEDs())
	}
	if m.Sheet().Len() != 2 || m.Sheet().SAN()[0] != "e4" {
		t.Fatalf("scoresheet = %v", m.Sheet().SAN())
	}
	if b := m.Board(); b.Turn() != board.White || b.Occupancy() != sim.Occupancy() {
		t.Fatalf("logical board out of step with the physical one")
	}
}

func TestHumanMismatchLightsSquares(t *testing.T) {
	m, sim, clk := newTestMachine(t, board.StartingOccupancy)
	startAs(t, m, sim, clk, board.White)

	if err := sim.Lift(board.E7); err != nil {
		t.Fatal(err)
	}
	tick(t, m, 1)
	if sim.LEDs() != board.BitboardOf(board.E7) {
		t.Fatalf("LEDs = %s, want e7", sim.LEDs())
	}
	if p := lastPrompt(t, sim); p.Kind != shim.PromptMismatch {
		t.Fatalf("prompt = %+v", p)
	}

	if err := sim.Place(board.E7); err != nil {
		t.Fatal(err)
	}
	tick(t, m, 1)
	expectPhase(t, m, PhaseHumanTurn)
	if sim.LEDs() != 0 {
		t.Fatalf("LEDs = %s after put back", sim.LEDs())
	}
	if p := lastPrompt(t, sim); p.Kind != shim.PromptYourMove {
		t.Fatalf("prompt = %+v", p)
	}
}

func TestHumanAsBlackWaitsForEngine(t *testing.T) {
	m, sim, clk := newTestMachine(t, board.StartingOccupancy)
	startAs(t, m, sim, clk, board.Black)
	expectPhase(t, m, PhaseAiTurn)
	tick(t, m, 1)
	expectPhase(t, m, PhaseAiMoveConfirm)
	if b := m.Board(); b.Turn() != board.Black {
		t.Fatalf("engine move not applied")
	}
	if from := m.PendingAIMove().From; from.Rank() > 1 {
		t.Fatalf("engine moved from %s, not a white square", from)
	}
}

func TestPressOnHumanTurnShowsHint(t *testing.T) {
	m, sim, clk := newTestMachine(t, board.StartingOccupancy)
	if _, err := m.Hint(); !errors.Is(err, ErrNotHumanTurn) {
		t.Fatalf("Hint during colour choice = %v", err)
	}
	startAs(t, m, sim, clk, board.White)

	sim.Press(shim.ButtonPress)
	tick(t, m, 1)
	expectPhase(t, m, PhaseHumanTurn)
	p := lastPrompt(t, sim)
	if p.Kind != shim.PromptHint || p.SAN == "" {
		t.Fatalf("prompt = %+v", p)
	}
	if _, err := movegen.Find(board.New(), p.Move.String()); err != nil {
		t.Fatalf("hint %s is not legal: %v", p.Move, err)
	}
	want := board.BitboardOf(p.Move.From, p.Move.To)
	if sim.LEDs() != want {
		t.Fatalf("LEDs = %s, want %s", sim.LEDs(), want)
	}
	tick(t, m, 2)
	if sim.LEDs() != want {
		t.Fatalf("hint dropped while the board was still: %s", sim.LEDs())
	}

	if err := sim.Lift(p.Move.From); err != nil {
		t.Fatal(err)
	}
	tick(t, m, 1)
	if sim.LEDs() != 0 {
		t.Fatalf("LEDs = %s after the piece was lifted", sim.LEDs())
	}
	if got := lastPrompt(t, sim); got.Kind != shim.PromptYourMove {
		t.Fatalf("prompt = %+v", got)
	}
	if err := sim.Place(p.Move.To); err != nil {
		t.Fatal(err)
	}
	tick(t, m, 1)
	expectPhase(t, m, PhaseAiTurn)
	if san := m.Sheet().SAN(); len(san) != 1 || san[0] != p.SAN {
		t.Fatalf("scoresheet = %v, want %s", san, p.SAN)
	}
}

// startFrom puts the machine on the human's move in the given position.
func startFrom(t *testing.T, m *Machine, sim *shim.Sim, fen string) *board.Board {
	t.Helper()
	b, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	sheet, err := scoresheet.NewFromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	m.resetTo(b, sheet)
	m.human = b.Turn()
	m.enterHumanTurn()
	sim.SetOccupancy(b.Occupancy())
	return b
}

func TestUnseenCaptureLiftLightsVictim(t *testing.T) {
	m, sim, clk := newTestMachine(t, 0)
	startFrom(t, m, sim, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")

	if err := sim.Lift(board.E4); err != nil {
		t.Fatal(err)
	}
	tick(t, m, 1)
	if p := lastPrompt(t, sim); p.Kind != shim.PromptYourMove || sim.LEDs() != 0 {
		t.Fatalf("prompt = %+v leds = %s", p, sim.LEDs())
	}

	clk.Advance(DefaultCaptureCue)
	tick(t, m, 1)
	want := board.BitboardOf(board.D5)
	if sim.LEDs() != want {
		t.Fatalf("LEDs = %s, want d5", sim.LEDs())
	}
	if p := lastPrompt(t, sim); p.Kind != shim.PromptLiftCaptured || p.Squares != want {
		t.Fatalf("prompt = %+v", p)
	}

	if err := sim.Lift(board.D5); err != nil {
		t.Fatal(err)
	}
	tick(t, m, 1)
	if sim.LEDs() != 0 {
		t.Fatalf("LEDs = %s after the victim was lifted", sim.LEDs())
	}
	if err := sim.Place(board.D5); err != nil {
		t.Fatal(err)
	}
	tick(t, m, 1)
	expectPhase(t, m, PhaseAiTurn)
	if san := m.Sheet().SAN(); len(san) != 1 || san[0] != "exd5" {
		t.Fatalf("scoresheet = %v", san)
	}
}

func TestAmbiguousCaptureLightsCandidates(t *testing.T) {
	m, sim, _ := newTestMachine(t, 0)
	b := startFrom(t, m, sim, "4k3/8/8/3p4/p7/8/8/3QK3 w - - 0 1")
	occ := b.Occupancy()

	sim.SetOccupancy(occ.Without(board.D5).Without(board.A4))
	tick(t, m, 1)
	sim.SetOccupancy(occ.Without(board.D5).Without(board.A4).Without(board.D1))
	tick(t, m, 1)
	sim.SetOccupancy(occ.Without(board.D1))
	tick(t, m, 1)

	expectPhase(t, m, PhaseHumanTurn)
	want := board.BitboardOf(board.D1, board.D5, board.A4)
	if sim.LEDs() != want {
		t.Fatalf("LEDs = %s, want %s", sim.LEDs(), want)
	}
	if p := lastPrompt(t, sim); p.Kind != shim.PromptAmbiguous || p.Squares != want {
		t.Fatalf("prompt = %+v", p)
	}
}

func TestCheckmateEndsGame(t *testing.T) {
	m, sim, _ := newTestMachine(t, 0)
	startFrom(t, m, sim, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")

	if err := sim.Slide(board.A1, board.A8); err != nil {
		t.Fatal(err)
	}
	tick(t, m, 1)
	expectPhase(t, m, PhaseGameOver)
	want := Outcome{Reason: ReasonCheckmate, Winner: board.White}
	if m.Outcome() != want {
		t.Fatalf("outcome = %v, want %v", m.Outcome(), want)
	}
	p := lastPrompt(t, sim)
	if p.Kind != shim.PromptGameOver || p.Reason != "checkmate" || p.Winner != "white" {
		t.Fatalf("prompt = %+v", p)
	}

	// Terminal: further board changes are ignored.
	sim.SetOccupancy(0)
	tick(t, m, 3)
	expectPhase(t, m, PhaseGameOver)
}

func TestInactivityDrawEndsGame(t *testing.T) {
	m, sim, _ := newTestMachine(t, 0)
	startFrom(t, m, sim, "4k3/8/8/8/8/8/P7/4K2Q w - - 99 80")

	// A quiet queen move takes the half-move clock to the limit.
	if err := sim.Slide(board.H1, board.H2); err != nil {
		t.Fatal(err)
	}
	tick(t, m, 1)
	expectPhase(t, m, PhaseGameOver)
	if want := (Outcome{Reason: ReasonInactivity}); m.Outcome() != want {
		t.Fatalf("outcome = %v, want %v", m.Outcome(), want)
	}
	p := lastPrompt(t, sim)
	if p.Kind != shim.PromptGameOver || p.Reason != "draw_by_inactivity" || p.Winner != "" {
		t.Fatalf("prompt = %+v", p)
	}
	if sim.LEDs() != 0 {
		t.Fatalf("leds = %s after game over", sim.LEDs())
	}
}

func TestStructuralFaultResets(t *testing.T) {
	m, sim, _ := newTestMachine(t, board.StartingOccupancy)
	m.board = &board.Board{}
	m.phase = PhaseAiTurn
	id := m.GameID()

	tick(t, m, 1)
	expectPhase(t, m, PhaseColorSelect)
	p := lastPrompt(t, sim)
	if p.Kind != shim.PromptBoardFault || p.Reason == "" {
		t.Fatalf("prompt = %+v", p)
	}
	if m.GameID() == id {
		t.Fatalf("game id not renewed")
	}
	n := len(sim.Prompts())
	tick(t, m, 2)
	if len(sim.Prompts()) != n {
		t.Fatalf("fault prompt redisplayed")
	}

	// The first press acknowledges the fault; colour choice resumes after.
	sim.Press(shim.ButtonPress)
	tick(t, m, 2)
	expectPhase(t, m, PhaseColorSelect)
	if p := lastPrompt(t, sim); p.Kind != shim.PromptChooseColor {
		t.Fatalf("prompt = %+v", p)
	}
}

func TestResetButton(t *testing.T) {
	m, sim, clk := newTestMachine(t, board.StartingOccupancy)
	startAs(t, m, sim, clk, board.White)
	expectPhase(t, m, PhaseHumanTurn)
	id := m.GameID()

	sim.Press(shim.ButtonReset)
	tick(t, m, 1)
	expectPhase(t, m, PhaseColorSelect)
	if m.GameID() == id {
		t.Fatalf("game id not renewed")
	}
}

func TestRunStopsWithContext(t *testing.T) {
	m, _, _ := newTestMachine(t, board.StartingOccupancy)
	m.opts.TickInterval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := m.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run = %v, want deadline exceeded", err)
	}

	done, stop := context.WithCancel(context.Background())
	stop()
	if err := m.Tick(done); !errors.Is(err, context.Canceled) {
		t.Fatalf("Tick = %v, want canceled", err)
	}
}

func TestOutcomeStrings(t *testing.T) {
	cases := []struct {
		o   Outcome
		str string
		pgn string
	}{
		{Outcome{}, "none", "*"},
		{Outcome{Reason: ReasonCheckmate, Winner: board.Black}, "checkmate, black wins", "0-1"},
		{Outcome{Reason: ReasonStalemate}, "stalemate", "1/2-1/2"},
		{Outcome{Reason: ReasonInactivity}, "draw_by_inactivity", "1/2-1/2"},
	}
	for _, tc := range cases {
		if tc.o.String() != tc.str || tc.o.PGNResult() != tc.pgn {
			t.Errorf("%+v: %q %q", tc.o, tc.o.String(), tc.o.PGNResult())
		}
	}
	for p := PhaseColorSelect; p <= PhaseGameOver; p++ {
		got, err := ParsePhase(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePhase(%s) = %v, %v", p, got, err)
		}
	}
}
