package scoresheet

import (
	"sync"

	"github.com/corentings/chess/v2/opening"
)

var (
	ecoOnce sync.Once
	ecoBook *opening.BookECO
)

func loadECO() *opening.BookECO {
	ecoOnce.Do(func() { ecoBook = opening.NewBookECO() })
	return ecoBook
}

// Opening names the most specific ECO line the game has followed so far.
// Games set up from a FEN have no opening.
func (s *Sheet) Opening() (code, title string, ok bool) {
	if s.fromFEN || len(s.uci) == 0 {
		return "", "", false
	}
	eco := loadECO().Find(s.game.Moves())
	if eco == nil {
		return "", "", false
	}
	return eco.Code(), eco.Title(), true
}
