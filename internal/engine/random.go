package engine

import (
	"context"

	"lukechampine.com/frand"

	"github.com/hailam/breakthrough/internal/board"
)

// Random plays a uniformly random legal move. It is the baseline opponent in
// self-play matches.
type Random struct {
	rng *frand.RNG
}

// NewRandom returns a Random seeded from the system. A 32-byte seed makes the
// sequence of moves reproducible; any other non-nil length panics.
func NewRandom(seed []byte) *Random {
	if seed == nil {
		return &Random{rng: frand.New()}
	}
	return &Random{rng: frand.NewCustom(seed, 1024, 12)}
}

// Think picks a move. Limits are ignored.
func (r *Random) Think(ctx context.Context, pos board.Position, _ SearchLimits) (SearchResult, error) {
	if pos.IsTerminal() {
		return SearchResult{}, ErrGameOver
	}
	if err := ctx.Err(); err != nil {
		return SearchResult{}, err
	}
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return SearchResult{}, nil
	}
	m := moves[r.rng.Intn(len(moves))]
	return SearchResult{Move: m, Eval: Evaluate(pos), PV: []board.Move{m}}, nil
}
