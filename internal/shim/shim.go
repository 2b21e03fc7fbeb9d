// Package shim defines the hardware boundary of the board: sensors, the
// button, the LED matrix and the display.
package shim

import (
	"github.com/park285/hallchess/internal/board"
	"github.com/park285/hallchess/internal/sensor"
)

// Sensors yields debounced occupancy frames.
type Sensors interface {
	PollSensorFrame() sensor.Frame
}

// Buttons reports at most one edge per poll.
type Buttons interface {
	PollButtonEdge() (ButtonEvent, bool)
}

// LEDs replaces the lit set; calling it twice with the same set is a no-op.
type LEDs interface {
	SetLEDTargets(on board.Bitboard)
}

type Display interface {
	DisplayPrompt(p Prompt)
}

type Hardware interface {
	Sensors
	Buttons
	LEDs
	Display
}

type ButtonEvent uint8

const (
	ButtonPress ButtonEvent = iota + 1
	// ButtonReset is a long press: abandon the game and return to colour
	// selection.
	ButtonReset
)

func (e ButtonEvent) String() string {
	switch e {
	case ButtonPress:
		return "press"
	case ButtonReset:
		return "reset"
	default:
		return "none"
	}
}

type PromptKind uint8

const (
	PromptNone PromptKind = iota
	PromptChooseColor
	PromptSetup
	PromptYourMove
	PromptThinking
	PromptReplicate
	PromptMismatch
	PromptAmbiguous
	PromptGameOver
	PromptBoardFault
	PromptHint
	PromptLiftCaptured
)

func (k PromptKind) String() string {
	switch k {
	case PromptChooseColor:
		return "choose_color"
	case PromptSetup:
		return "setup"
	case PromptYourMove:
		return "your_move"
	case PromptThinking:
		return "thinking"
	case PromptReplicate:
		return "replicate"
	case PromptMismatch:
		return "mismatch"
	case PromptAmbiguous:
		return "ambiguous"
	case PromptGameOver:
		return "game_over"
	case PromptBoardFault:
		return "board_fault"
	case PromptHint:
		return "hint"
	case PromptLiftCaptured:
		return "lift_captured"
	default:
		return "none"
	}
}

// Prompt is what the display should show. It is comparable so callers can
// skip redrawing an unchanged prompt.
type Prompt struct {
	Kind    PromptKind
	Color   board.Color
	Move    board.Move
	SAN     string
	Reason  string
	Winner  string
	Squares board.Bitboard
}
