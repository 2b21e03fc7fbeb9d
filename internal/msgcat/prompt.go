package msgcat

import (
	"fmt"
	"strings"

	"github.com/park285/hallchess/internal/shim"
)

// PromptKey maps a prompt to its catalog key.
func PromptKey(p shim.Prompt) (string, error) {
	switch p.Kind {
	case shim.PromptChooseColor:
		return "prompt.choose_color", nil
	case shim.PromptSetup:
		return "prompt.setup", nil
	case shim.PromptYourMove:
		return "prompt.your_move", nil
	case shim.PromptThinking:
		return "prompt.thinking", nil
	case shim.PromptReplicate:
		return "prompt.replicate", nil
	case shim.PromptMismatch:
		if !p.Move.IsNull() {
			return "prompt.mismatch_replicate", nil
		}
		return "prompt.mismatch", nil
	case shim.PromptAmbiguous:
		return "prompt.ambiguous", nil
	case shim.PromptGameOver:
		if p.Winner != "" {
			return "prompt.game_over_decisive", nil
		}
		return "prompt.game_over_draw", nil
	case shim.PromptBoardFault:
		return "prompt.board_fault", nil
	case shim.PromptHint:
		return "prompt.hint", nil
	case shim.PromptLiftCaptured:
		return "prompt.lift_captured", nil
	default:
		return "", fmt.Errorf("no message for prompt kind %s", p.Kind)
	}
}

// RenderPrompt turns a prompt into display text.
func (c *Catalog) RenderPrompt(p shim.Prompt) (string, error) {
	key, err := PromptKey(p)
	if err != nil {
		return "", err
	}
	data := map[string]any{
		"Color":   titleCase(p.Color.String()),
		"Squares": p.Squares.String(),
		"SAN":     p.SAN,
		"From":    p.Move.From.String(),
		"To":      p.Move.To.String(),
		"Reason":  strings.ReplaceAll(p.Reason, "_", " "),
		"Winner":  titleCase(p.Winner),
	}
	return c.Render(key, data)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
