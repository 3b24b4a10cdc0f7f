package engine

import (
	"sort"

	"github.com/samber/lo"

	"github.com/hailam/breakthrough/internal/board"
)

// Move ordering priorities. Lower values are searched first.
const (
	PriorityPromotionThreat = 0   // lands on one of the opponent's two home rows
	PriorityCapture         = 1   // takes a pawn
	PriorityInvade          = 2   // enters the opponent's half
	PriorityQuiet           = 50  // anything else
	PriorityHomeRow         = 100 // leaves the mover's own home row
)

// ScoreMove returns the static ordering priority of m in pos.
func ScoreMove(pos board.Position, m board.Move) int {
	us := pos.SideToMove
	them := us.Other()
	to := board.SquareBB(m.To())

	switch {
	case to&them.StartRows() != 0:
		return PriorityPromotionThreat
	case to&pos.Pieces[them] != 0:
		return PriorityCapture
	case to&us.OpponentHalf() != 0:
		return PriorityInvade
	case board.SquareBB(m.From())&us.HomeRow() != 0:
		return PriorityHomeRow
	default:
		return PriorityQuiet
	}
}

// MoveOrderer filters and orders moves for the search.
type MoveOrderer struct {
	scores [board.MaxMoves]int
}

// NewMoveOrderer creates a new move orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// ForcedReplies narrows moves when the opponent threatens to promote on its
// next move. Only capturing a pawn on the mover's threat row can stop it;
// any other reply loses at once, so dropping those moves never changes the
// result. Without a threat the moves are returned unchanged.
func ForcedReplies(pos board.Position, moves []board.Move) []board.Move {
	them := pos.SideToMove.Other()
	threats := pos.Pieces[them] & them.ThreatRow()
	if threats == 0 {
		return moves
	}
	return lo.Filter(moves, func(m board.Move, _ int) bool {
		return threats.IsSet(m.To())
	})
}

// Order sorts moves in place by ascending priority. The sort is stable so
// moves of equal priority keep generation order.
func (mo *MoveOrderer) Order(pos board.Position, moves []board.Move) {
	for i, m := range moves {
		mo.scores[i] = ScoreMove(pos, m)
	}
	sort.Stable(byPriority{moves: moves, scores: mo.scores[:len(moves)]})
}

type byPriority struct {
	moves  []board.Move
	scores []int
}

func (b byPriority) Len() int           { return len(b.moves) }
func (b byPriority) Less(i, j int) bool { return b.scores[i] < b.scores[j] }
func (b byPriority) Swap(i, j int) {
	b.moves[i], b.moves[j] = b.moves[j], b.moves[i]
	b.scores[i], b.scores[j] = b.scores[j], b.scores[i]
}
