package game

import (
	"fmt"

	"github.com/park285/hallchess/internal/board"
	"github.com/park285/hallchess/internal/movegen"
)

type Phase uint8

const (
	PhaseColorSelect Phase = iota
	PhaseSetup
	PhaseHumanTurn
	PhaseAiTurn
	PhaseAiMoveConfirm
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseColorSelect:
		return "color_select"
	case PhaseSetup:
		return "setup"
	case PhaseHumanTurn:
		return "human_turn"
	case PhaseAiTurn:
		return "ai_turn"
	case PhaseAiMoveConfirm:
		return "ai_move_confirm"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// ParsePhase accepts the names String produces.
func ParsePhase(s string) (Phase, error) {
	for p := PhaseColorSelect; p <= PhaseGameOver; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonCheckmate
	ReasonStalemate
	ReasonInactivity
)

func (r Reason) String() string {
	switch r {
	case ReasonCheckmate:
		return "checkmate"
	case ReasonStalemate:
		return "stalemate"
	case ReasonInactivity:
		return "draw_by_inactivity"
	default:
		return "none"
	}
}

// Outcome of a finished game. Winner is meaningful only for checkmate.
type Outcome struct {
	Reason Reason
	Winner board.Color
}

func (o Outcome) Decisive() bool { return o.Reason == ReasonCheckmate }

func (o Outcome) String() string {
	if o.Decisive() {
		return fmt.Sprintf("%s, %s wins", o.Reason, o.Winner)
	}
	return o.Reason.String()
}

// PGNResult is the result tag for the outcome.
func (o Outcome) PGNResult() string {
	switch {
	case o.Reason == ReasonNone:
		return "*"
	case !o.Decisive():
		return "1/2-1/2"
	case o.Winner == board.White:
		return "1-0"
	default:
		return "0-1"
	}
}

func outcomeOf(st movegen.Status, b *board.Board) Outcome {
	switch st {
	case movegen.Checkmate:
		return Outcome{Reason: ReasonCheckmate, Winner: b.Turn().Other()}
	case movegen.Stalemate:
		return Outcome{Reason: ReasonStalemate}
	case movegen.DrawByInactivity:
		return Outcome{Reason: ReasonInactivity}
	default:
		return Outcome{}
	}
}
