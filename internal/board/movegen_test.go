package board

import (
	"errors"
	"sort"
	"testing"
)

func TestStartingMoves(t *testing.T) {
	pos := NewPosition()
	moves := pos.LegalMoves()

	if len(moves) != 22 {
		t.Fatalf("start position has %d moves, want 22", len(moves))
	}

	// Every move starts on rank 2 and lands on rank 3.
	destinations := map[Square]int{}
	for _, m := range moves {
		if !Rank2.IsSet(m.From()) {
			t.Errorf("move %s does not start on rank 2", m)
		}
		if !Rank3.IsSet(m.To()) {
			t.Errorf("move %s does not land on rank 3", m)
		}
		destinations[m.To()]++
	}

	// Edge squares are reached by a straight push and one diagonal, inner
	// squares by a straight push and two diagonals.
	for file := 0; file < 8; file++ {
		sq := NewSquare(file, 2)
		want := 3
		if file == 0 || file == 7 {
			want = 2
		}
		if destinations[sq] != want {
			t.Errorf("%s reached by %d moves, want %d", sq, destinations[sq], want)
		}
	}
}

func TestBlackStartingMoves(t *testing.T) {
	pos := NewPosition().ApplyMove(NewMove(E2, NewSquare(4, 2)))
	moves := pos.LegalMoves()
	if len(moves) != 22 {
		t.Fatalf("Black has %d replies, want 22", len(moves))
	}
	for _, m := range moves {
		if m.From().Rank() != 6 || m.To().Rank() != 5 {
			t.Errorf("unexpected Black move %s", m)
		}
	}
}

func TestGenerationOrder(t *testing.T) {
	pos := NewPosition()
	moves := pos.LegalMoves()

	want := []string{"a2a3", "b2a3", "b2b3", "a2b3", "c2b3"}
	for i, s := range want {
		if moves[i].String() != s {
			t.Errorf("move %d = %s, want %s", i, moves[i], s)
		}
	}

	// Destinations are non-decreasing.
	if !sort.SliceIsSorted(moves, func(i, j int) bool { return moves[i].To() < moves[j].To() }) {
		t.Errorf("moves not ordered by destination: %v", moves)
	}
}

func TestCapturesAndBlocks(t *testing.T) {
	// White d4 faces Black d5 (blocked straight), Black c5 (capturable) and
	// White e5 (friendly, not a target).
	pos, err := ParseBoard(`
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . B B W . . .
		. . . W . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .`, White, 10)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}

	got := map[string]bool{}
	for _, m := range pos.LegalMoves() {
		got[m.String()] = true
	}

	for _, s := range []string{"d4c5", "e5e6", "e5d6", "e5f6"} {
		if !got[s] {
			t.Errorf("missing move %s", s)
		}
	}
	for _, s := range []string{"d4d5", "d4e5"} {
		if got[s] {
			t.Errorf("unexpected move %s", s)
		}
	}
	if len(got) != 4 {
		t.Errorf("got %d moves, want 4: %v", len(got), got)
	}
}

func TestEdgeFilesDoNotWrap(t *testing.T) {
	pos, err := ParseBoard(`
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		W . . . . . . W`, White, 0)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}

	moves := pos.LegalMoves()
	if len(moves) != 4 {
		t.Fatalf("got %d moves, want 4: %v", len(moves), moves)
	}
	for _, m := range moves {
		df := m.To().File() - m.From().File()
		if df < -1 || df > 1 {
			t.Errorf("move %s wraps around the board", m)
		}
	}
}

func TestMostMovesFitMoveList(t *testing.T) {
	// Sixteen White pawns on ranks 3 and 5 with nothing in front of them:
	// every pawn has all three targets except the edge pawns.
	pos, err := ParseBoard(`
		. . . . . . . .
		. . . . . . . .
		. . . . . . . .
		W W W W W W W W
		. . . . . . . .
		W W W W W W W W
		. . . . . . . .
		. . . . . . . .`, White, 0)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	if got, want := len(pos.LegalMoves()), 2*(8+14); got != want {
		t.Errorf("got %d moves, want %d", got, want)
	}
	if got := len(pos.LegalMoves()); got > MaxMoves {
		t.Errorf("%d moves exceed MaxMoves %d", got, MaxMoves)
	}
}

func TestGenerateMovesRejectsOverfullSide(t *testing.T) {
	// Built directly, so Validate never ran.
	pos := Position{Pieces: [2]Bitboard{Rank2 | Rank4 | Rank6, 0}}

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInvalidBoard) {
			t.Errorf("recovered %v, want ErrInvalidBoard", r)
		}
	}()
	var ml MoveList
	pos.GenerateMoves(&ml)
	t.Error("GenerateMoves accepted 24 pawns")
}
