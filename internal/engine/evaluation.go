package engine

import (
	"fmt"

	"github.com/hailam/breakthrough/internal/board"
)

// EvalKind selects the variant of an Evaluation. The numeric order of the
// kinds is the order of the variants.
type EvalKind uint8

const (
	KindWinB EvalKind = iota
	KindHeuristic
	KindWinA
)

// Evaluation is a scored outcome: a forced win for side A or side B at a
// given absolute game ply, or a heuristic score.
//
// Outside the search A is White and B is Black. Inside the search A is the
// side to move at the node being scored (negamax convention); Relative
// converts between the two.
type Evaluation struct {
	Kind  EvalKind
	Ply   uint32 // ply at which the win is reached, for KindWinA/KindWinB
	Score int64  // for KindHeuristic
}

// WinA returns a forced win for side A reached at ply.
func WinA(ply uint32) Evaluation {
	return Evaluation{Kind: KindWinA, Ply: ply}
}

// WinB returns a forced win for side B reached at ply.
func WinB(ply uint32) Evaluation {
	return Evaluation{Kind: KindWinB, Ply: ply}
}

// Heuristic returns a heuristic score, positive favouring side A.
func Heuristic(score int64) Evaluation {
	return Evaluation{Kind: KindHeuristic, Score: score}
}

// Compare returns -1, 0 or +1 as e is worse than, equal to or better than o
// for side A. Every WinB ranks below every heuristic, which ranks below every
// WinA. A nearer win ranks higher for its winner: WinA(1) > WinA(5) and
// WinB(1) < WinB(5).
func (e Evaluation) Compare(o Evaluation) int {
	if e.Kind != o.Kind {
		if e.Kind < o.Kind {
			return -1
		}
		return 1
	}
	switch e.Kind {
	case KindWinA:
		return cmpUint32(o.Ply, e.Ply)
	case KindWinB:
		return cmpUint32(e.Ply, o.Ply)
	default:
		switch {
		case e.Score < o.Score:
			return -1
		case e.Score > o.Score:
			return 1
		}
		return 0
	}
}

func cmpUint32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Less reports whether e ranks below o.
func (e Evaluation) Less(o Evaluation) bool {
	return e.Compare(o) < 0
}

// Neg swaps sides: WinA(n) and WinB(n) trade places and heuristic scores
// change sign. Neg is an involution.
func (e Evaluation) Neg() Evaluation {
	switch e.Kind {
	case KindWinA:
		return WinB(e.Ply)
	case KindWinB:
		return WinA(e.Ply)
	default:
		return Heuristic(-e.Score)
	}
}

// IsWin reports whether e is a forced win for either side.
func (e Evaluation) IsWin() bool {
	return e.Kind != KindHeuristic
}

// Relative converts a White-relative evaluation into one relative to side
// (and back: the conversion is its own inverse).
func Relative(e Evaluation, side board.Color) Evaluation {
	if side == board.Black {
		return e.Neg()
	}
	return e
}

// maxEval returns the better of two evaluations for side A, preferring a.
func maxEval(a, b Evaluation) Evaluation {
	if a.Less(b) {
		return b
	}
	return a
}

// String returns a compact form: "A@7", "B@12" or "+1500".
func (e Evaluation) String() string {
	switch e.Kind {
	case KindWinA:
		return fmt.Sprintf("A@%d", e.Ply)
	case KindWinB:
		return fmt.Sprintf("B@%d", e.Ply)
	default:
		return fmt.Sprintf("%+d", e.Score)
	}
}

// Describe renders e for a human watching a game from ply: wins are shown as
// the number of plies left.
func (e Evaluation) Describe(ply uint32, a, b board.Color) string {
	switch e.Kind {
	case KindWinA:
		return fmt.Sprintf("%s wins in %d", a, pliesLeft(e.Ply, ply))
	case KindWinB:
		return fmt.Sprintf("%s wins in %d", b, pliesLeft(e.Ply, ply))
	default:
		return fmt.Sprintf("score %+d", e.Score)
	}
}

func pliesLeft(win, now uint32) uint32 {
	if win < now {
		return 0
	}
	return win - now
}
