package board

import (
	"errors"
	"strings"
	"testing"
)

const startBoard = `B B B B B B B B
B B B B B B B B
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
W W W W W W W W
W W W W W W W W`

func TestStartingPositionString(t *testing.T) {
	if got := NewPosition().String(); got != startBoard {
		t.Errorf("start position:\n%s\nwant:\n%s", got, startBoard)
	}
}

func TestParseBoardRoundTrip(t *testing.T) {
	pos, err := ParseBoard(startBoard, White, 0)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	if pos != NewPosition() {
		t.Errorf("parsed start position differs: %+v", pos)
	}

	compact := strings.ReplaceAll(strings.ReplaceAll(startBoard, " ", ""), "\n", "")
	pos, err = ParseBoard(compact, White, 0)
	if err != nil {
		t.Fatalf("ParseBoard compact: %v", err)
	}
	if pos != NewPosition() {
		t.Errorf("compact start position differs: %+v", pos)
	}
}

func TestParseBoardErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"short", "W B ."},
		{"bad char", strings.Repeat(".", 63) + "x"},
		{"both goals", "W" + strings.Repeat(".", 62) + "B"},
		{"too many pawns", strings.Repeat(strings.Repeat(".", 8)+strings.Repeat("W", 8), 3) + strings.Repeat(".", 16)},
		{"seventeen black pawns", strings.Repeat("B", 17) + strings.Repeat(".", 47)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseBoard(tc.text, White, 0)
			if !errors.Is(err, ErrInvalidBoard) {
				t.Errorf("err = %v, want ErrInvalidBoard", err)
			}
		})
	}
}

// playout walks a deterministic line of play, picking a different move
// index at every ply.
func playout(t *testing.T, pick int, visit func(before, after Position, m Move)) {
	t.Helper()
	pos := NewPosition()
	for !pos.IsTerminal() {
		moves := pos.LegalMoves()
		if len(moves) == 0 {
			// Only a side with no pawns left has no moves.
			if pos.Pieces[pos.SideToMove] != 0 {
				t.Fatalf("non-terminal position without moves:\n%s", pos)
			}
			return
		}
		m := moves[(pick*7+int(pos.Ply)*13)%len(moves)]
		next := pos.ApplyMove(m)
		visit(pos, next, m)
		pos = next
	}
}

func TestApplyMoveInvariants(t *testing.T) {
	for pick := 0; pick < 40; pick++ {
		playout(t, pick, func(before, after Position, m Move) {
			if after.Pieces[White]&after.Pieces[Black] != 0 {
				t.Fatalf("overlapping occupancy after %s:\n%s", m, after)
			}
			if after.Ply != before.Ply+1 {
				t.Fatalf("ply %d -> %d after %s", before.Ply, after.Ply, m)
			}
			if after.SideToMove != before.SideToMove.Other() {
				t.Fatalf("side to move did not alternate after %s", m)
			}
			us := before.SideToMove
			if after.Pieces[us].PopCount() != before.Pieces[us].PopCount() {
				t.Fatalf("mover lost a pawn on %s", m)
			}
			if !after.Pieces[us].IsSet(m.To()) || after.Pieces[us].IsSet(m.From()) {
				t.Fatalf("mover bits wrong after %s", m)
			}
		})
	}
}

func TestApplyMoveDoesNotMutate(t *testing.T) {
	pos := NewPosition()
	snapshot := pos
	_ = pos.ApplyMove(pos.LegalMoves()[0])
	if pos != snapshot {
		t.Errorf("ApplyMove changed its receiver")
	}
}

func TestResult(t *testing.T) {
	if r := NewPosition().Result(); r != Undecided {
		t.Errorf("start result = %v", r)
	}

	white := Position{Pieces: [2]Bitboard{SquareBB(D8), SquareBB(A2)}, SideToMove: Black, Ply: 21}
	if !white.IsTerminal() || white.Result() != WhiteWins {
		t.Errorf("expected White win, got %v", white.Result())
	}

	black := Position{Pieces: [2]Bitboard{SquareBB(H7), SquareBB(C1)}, SideToMove: White, Ply: 30}
	if !black.IsTerminal() || black.Result() != BlackWins {
		t.Errorf("expected Black win, got %v", black.Result())
	}
	if black.Result().Winner() != Black {
		t.Errorf("winner = %v", black.Result().Winner())
	}
}

func TestResultPanicsWhenBothSidesWon(t *testing.T) {
	both := Position{Pieces: [2]Bitboard{SquareBB(A8), SquareBB(A1)}}
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrBothSidesWon) {
			t.Errorf("recovered %v, want ErrBothSidesWon", r)
		}
	}()
	both.Result()
}

func TestSameSquaresIgnoresPly(t *testing.T) {
	a := NewPosition()
	b := a
	b.Ply = 12
	if !a.SameSquares(b) {
		t.Errorf("positions differing only by ply should match")
	}
	b.SideToMove = Black
	if a.SameSquares(b) {
		t.Errorf("positions differing by side to move should not match")
	}
}

func TestPlay(t *testing.T) {
	pos := NewPosition()

	m, err := ParseMove("e2e3")
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	next, err := pos.Play(m)
	if err != nil {
		t.Fatalf("Play(e2e3): %v", err)
	}
	if next.ColorAt(NewSquare(4, 2)) != White {
		t.Errorf("e3 not occupied after e2e3")
	}

	for _, s := range []string{"e2e4", "e1e2", "e7e6", "a2h3"} {
		m, err := ParseMove(s)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", s, err)
		}
		if _, err := pos.Play(m); !errors.Is(err, ErrIllegalMove) {
			t.Errorf("Play(%s) err = %v, want ErrIllegalMove", s, err)
		}
	}
}
