package engine

import (
	"github.com/hailam/breakthrough/internal/board"
)

// Weights are the integer weights of the heuristic terms.
type Weights struct {
	Material  int64 // per pawn
	Center    int64 // per pawn on BigCenter
	Territory int64 // per pawn in the opponent's half
}

// DefaultWeights are the tuned weights used when none are configured.
var DefaultWeights = Weights{
	Material:  1000,
	Center:    400,
	Territory: 750,
}

// Evaluate returns the static evaluation of pos relative to the side to
// move: the terminal score when the game is over, the heuristic otherwise.
func Evaluate(pos board.Position) Evaluation {
	return DefaultWeights.Evaluate(pos)
}

// Evaluate is Evaluate with these weights.
func (w Weights) Evaluate(pos board.Position) Evaluation {
	if eval, ok := TerminalScore(pos); ok {
		return Relative(eval, pos.SideToMove)
	}
	return Relative(w.Heuristic(pos), pos.SideToMove)
}

// TerminalScore returns the White-relative result of a finished game:
// WinA at the terminal position's own ply when White has won, WinB when Black
// has. ok is false while the game is undecided.
func TerminalScore(pos board.Position) (eval Evaluation, ok bool) {
	switch pos.Result() {
	case board.WhiteWins:
		return WinA(pos.Ply), true
	case board.BlackWins:
		return WinB(pos.Ply), true
	default:
		return Evaluation{}, false
	}
}

// HeuristicScore returns the White-relative heuristic with the default
// weights.
func HeuristicScore(pos board.Position) Evaluation {
	return DefaultWeights.Heuristic(pos)
}

// Heuristic scores pos from White's point of view. It runs at every leaf, so
// it uses only masks and population counts: no branches and no loops over
// squares.
func (w Weights) Heuristic(pos board.Position) Evaluation {
	white, black := pos.Pieces[board.White], pos.Pieces[board.Black]

	material := int64(white.PopCount() - black.PopCount())
	center := int64((white&board.BigCenter).PopCount() - (black&board.BigCenter).PopCount())
	territory := int64((white&board.BlackHalf).PopCount() - (black&board.WhiteHalf).PopCount())

	return Heuristic(w.Material*material + w.Center*center + w.Territory*territory)
}

// FastWin reports a win the side to move cannot miss: a pawn on the row
// before its goal row promotes next ply whatever the board looks like, since
// a straight or diagonal step onto the goal row is always available. The
// result is relative to the side to move.
func FastWin(pos board.Position) (Evaluation, bool) {
	us := pos.SideToMove
	if pos.Pieces[us]&us.ThreatRow() != 0 {
		return WinA(pos.Ply + 1), true
	}
	return Evaluation{}, false
}

// winningMove returns a move that reaches the goal row, or NoMove.
func winningMove(pos board.Position) board.Move {
	var ml board.MoveList
	pos.GenerateMoves(&ml)
	goal := pos.SideToMove.GoalRow()
	for _, m := range ml.Slice() {
		if goal.IsSet(m.To()) {
			return m
		}
	}
	return board.NoMove
}
