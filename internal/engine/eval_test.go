package engine

import (
	"testing"

	"github.com/hailam/breakthrough/internal/board"
)

func TestHeuristicStartIsBalanced(t *testing.T) {
	pos := board.NewPosition()
	if got := HeuristicScore(pos); got != Heuristic(0) {
		t.Errorf("HeuristicScore(start) = %v, want +0", got)
	}
	if got := Evaluate(pos); got != Heuristic(0) {
		t.Errorf("Evaluate(start) = %v, want +0", got)
	}
}

func TestHeuristicTerms(t *testing.T) {
	const text = `
. . . . . . . .
. . . . . . . .
. . . B . . . .
. . W . . . . .
. . . . B . . .
W . . . . . . .
. . . . . . . .
. . . . . . . .`

	tests := []struct {
		name string
		w    Weights
		want int64
	}{
		// c5 and a3 against d6 and e4.
		{"default", DefaultWeights, -400},
		{"material only", Weights{Material: 1}, 0},
		{"center only", Weights{Center: 1}, -1},
		{"territory only", Weights{Territory: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			white := mustParse(t, text, board.White, 0)
			if got := tt.w.Heuristic(white); got != Heuristic(tt.want) {
				t.Errorf("Heuristic = %v, want %+d", got, tt.want)
			}
			if got := tt.w.Evaluate(white); got != Heuristic(tt.want) {
				t.Errorf("Evaluate(White to move) = %v, want %+d", got, tt.want)
			}
			black := mustParse(t, text, board.Black, 1)
			if got := tt.w.Evaluate(black); got != Heuristic(-tt.want) {
				t.Errorf("Evaluate(Black to move) = %v, want %+d", got, -tt.want)
			}
		})
	}
}

func TestHeuristicAdvancement(t *testing.T) {
	pos := mustParse(t, `
. . . . . . . .
. . . . . . . .
W . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . B`, board.White, 0)

	// Equal material, White in Black's half.
	if got := HeuristicScore(pos); got != Heuristic(750) {
		t.Errorf("HeuristicScore = %v, want +750", got)
	}
}

func TestTerminalScore(t *testing.T) {
	won := mustParse(t, `
. . W . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . B . .
. . . . . . . .`, board.Black, 9)

	eval, ok := TerminalScore(won)
	if !ok || eval != WinA(9) {
		t.Errorf("TerminalScore = %v, %v; want A@9, true", eval, ok)
	}
	if got := Evaluate(won); got != WinB(9) {
		t.Errorf("Evaluate for the loser = %v, want B@9", got)
	}

	if _, ok := TerminalScore(board.NewPosition()); ok {
		t.Error("TerminalScore(start) reported a result")
	}

	lost := mustParse(t, `
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . W . . .
. . . . . . . .
. . . B . . . .`, board.White, 30)
	if eval, _ := TerminalScore(lost); eval != WinB(30) {
		t.Errorf("TerminalScore(black won) = %v, want B@30", eval)
	}
}

func TestFastWin(t *testing.T) {
	tests := []struct {
		name string
		side board.Color
		ply  uint32
		ok   bool
	}{
		{"white on seventh", board.White, 4, true},
		{"black on second", board.Black, 7, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustParse(t, whiteOnSeventh, tt.side, tt.ply)
			eval, ok := FastWin(pos)
			if ok != tt.ok || eval != WinA(tt.ply+1) {
				t.Errorf("FastWin = %v, %v; want A@%d, %v", eval, ok, tt.ply+1, tt.ok)
			}
			m := winningMove(pos)
			if !pos.IsLegal(m) || pos.ApplyMove(m).Result().Winner() != tt.side {
				t.Errorf("winningMove = %v does not win", m)
			}
		})
	}

	if _, ok := FastWin(board.NewPosition()); ok {
		t.Error("FastWin(start) = true")
	}
	// Two steps from promotion is not a fast win.
	pos := mustParse(t, mateInThree, board.White, 10)
	if _, ok := FastWin(pos); ok {
		t.Error("FastWin with a pawn on the sixth rank")
	}
	if m := winningMove(pos); m != board.NoMove {
		t.Errorf("winningMove = %v, want NoMove", m)
	}
}
