// Package scoresheet keeps the human-readable record of a game: SAN for
// prompts and PGN for the log. Moves are replayed through corentings/chess,
// which doubles as an independent referee for the core's rules.
package scoresheet

import (
	"errors"
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

var ErrRejected = errors.New("scoresheet: move rejected")

type Sheet struct {
	game *nchess.Game
	uci  []string
	san  []string

	fromFEN bool
}

func New() *Sheet {
	return &Sheet{game: nchess.NewGame()}
}

// NewFromFEN starts the record from an arbitrary position.
func NewFromFEN(fen string) (*Sheet, error) {
	opt, err := nchess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("scoresheet: %w", err)
	}
	return &Sheet{game: nchess.NewGame(opt), fromFEN: true}, nil
}

// Push records a move given in coordinate notation and returns its SAN.
func (s *Sheet) Push(uci string) (string, error) {
	uci = strings.ToLower(strings.TrimSpace(uci))
	pos := s.game.Position()
	mv, err := nchess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return "", fmt.Errorf("%w: decode %s: %w", ErrRejected, uci, err)
	}
	san := nchess.AlgebraicNotation{}.Encode(pos, mv)
	if err := s.game.Move(mv, nil); err != nil {
		return "", fmt.Errorf("%w: apply %s: %w", ErrRejected, uci, err)
	}
	s.uci = append(s.uci, uci)
	s.san = append(s.san, san)
	return san, nil
}

// Preview returns the SAN a move would get without recording it.
func (s *Sheet) Preview(uci string) (string, error) {
	pos := s.game.Position()
	mv, err := nchess.UCINotation{}.Decode(pos, strings.ToLower(strings.TrimSpace(uci)))
	if err != nil {
		return "", fmt.Errorf("%w: decode %s: %w", ErrRejected, uci, err)
	}
	return nchess.AlgebraicNotation{}.Encode(pos, mv), nil
}

func (s *Sheet) SAN() []string { return append([]string(nil), s.san...) }
func (s *Sheet) UCI() []string { return append([]string(nil), s.uci...) }
func (s *Sheet) Len() int      { return len(s.uci) }
func (s *Sheet) PGN() string   { return s.game.String() }
func (s *Sheet) FEN() string   { return s.game.FEN() }

// LibraryOutcome reports the referee's verdict as a PGN result ("1-0",
// "0-1", "1/2-1/2" or "*") and the method that produced it.
func (s *Sheet) LibraryOutcome() (result, method string) {
	return string(s.game.Outcome()), strings.ToLower(s.game.Method().String())
}

// Finished is true once the referee considers the game over.
func (s *Sheet) Finished() bool {
	return s.game.Outcome() != nchess.NoOutcome
}
