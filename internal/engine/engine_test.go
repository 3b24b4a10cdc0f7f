package engine

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/breakthrough/internal/board"
)

func TestThinkBasic(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(DefaultOptions())
	eng.SetDifficulty(Easy)

	result, err := eng.Think(context.Background(), pos, SearchLimits{})
	if err != nil {
		t.Fatalf("Think: %v", err)
	}
	if result.Move == board.NoMove || !pos.IsLegal(result.Move) {
		t.Fatalf("Think returned %v for the starting position", result.Move)
	}
	if result.Depth != DifficultySettings[Easy].Depth {
		t.Errorf("Depth = %d, want %d", result.Depth, DifficultySettings[Easy].Depth)
	}
	t.Logf("Best move: %s (%v)", result.Move, result.Eval)
}

func TestThinkMatchesSearch(t *testing.T) {
	for _, pos := range randomPositions(t, 2, 30) {
		eng := NewEngine(Options{HashMB: 1})
		result, err := eng.Think(context.Background(), pos, SearchLimits{Depth: 3})
		if err != nil {
			t.Fatalf("Think: %v", err)
		}
		// Earlier iterations leave only shallower entries behind.
		move, eval := Search(pos, result.Depth, nil)
		if result.Eval != eval {
			t.Fatalf("Think eval %v, Search eval %v\n%v", result.Eval, eval, pos)
		}
		if result.Move != move {
			t.Fatalf("Think move %v, Search move %v\n%v", result.Move, move, pos)
		}
	}
}

func TestThinkStopsOnProvenWin(t *testing.T) {
	pos := mustParse(t, mateInThree, board.White, 10)
	eng := NewEngine(DefaultOptions())

	var depths []int
	eng.OnInfo = func(info SearchInfo) {
		depths = append(depths, info.Depth)
		if len(info.PV) == 0 {
			t.Errorf("depth %d: empty PV", info.Depth)
		}
	}

	result, err := eng.Think(context.Background(), pos, SearchLimits{Depth: 10})
	if err != nil {
		t.Fatalf("Think: %v", err)
	}
	if result.Eval != WinA(13) {
		t.Errorf("Eval = %v, want A@13", result.Eval)
	}
	if result.Depth != 2 || len(depths) != 2 {
		t.Errorf("stopped at depth %d after %v, want 2", result.Depth, depths)
	}
}

func TestThinkGameOver(t *testing.T) {
	pos := mustParse(t, `
. . W . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . . . .
. . . . . B . .
. . . . . . . .`, board.Black, 9)

	_, err := NewEngine(DefaultOptions()).Think(context.Background(), pos, SearchLimits{Depth: 2})
	if !errors.Is(err, ErrGameOver) {
		t.Errorf("err = %v, want ErrGameOver", err)
	}
	_, err = NewRandom(nil).Think(context.Background(), pos, SearchLimits{})
	if !errors.Is(err, ErrGameOver) {
		t.Errorf("Random err = %v, want ErrGameOver", err)
	}
}

func TestThinkCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pos := board.NewPosition()
	result, err := NewEngine(DefaultOptions()).Think(ctx, pos, SearchLimits{Depth: 6})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if !pos.IsLegal(result.Move) {
		t.Errorf("cancelled Think returned %v, want a legal fallback", result.Move)
	}
}

func TestThinkMoveTime(t *testing.T) {
	eng := NewEngine(DefaultOptions())
	start := time.Now()
	result, err := eng.Think(context.Background(), board.NewPosition(), SearchLimits{MoveTime: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("Think: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Think took %v with a 50ms budget", elapsed)
	}
	if result.Depth == 0 || !board.NewPosition().IsLegal(result.Move) {
		t.Errorf("result = %+v", result)
	}
}

func TestEngineLogs(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	eng := NewEngine(opts)

	if _, err := eng.Think(context.Background(), board.NewPosition(), SearchLimits{Depth: 2}); err != nil {
		t.Fatalf("Think: %v", err)
	}
	if !strings.Contains(buf.String(), `"message":"search-complete"`) {
		t.Errorf("log output = %q", buf.String())
	}
}

func TestEngineClear(t *testing.T) {
	eng := NewEngine(Options{HashMB: 1})
	if _, err := eng.Think(context.Background(), board.NewPosition(), SearchLimits{Depth: 3}); err != nil {
		t.Fatalf("Think: %v", err)
	}
	if eng.Table().Stats().Occupied == 0 {
		t.Fatal("no entries stored")
	}
	eng.Clear()
	if got := eng.Table().Stats().Occupied; got != 0 {
		t.Errorf("Occupied = %d after Clear", got)
	}
}

func TestDifficultyString(t *testing.T) {
	for d, want := range map[Difficulty]string{Easy: "easy", Medium: "medium", Hard: "hard", Expert: "expert"} {
		if got := d.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", d, got, want)
		}
		if _, ok := DifficultySettings[d]; !ok {
			t.Errorf("no settings for %v", d)
		}
	}
}

func TestRandomIsReproducible(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a, b := NewRandom(seed), NewRandom(seed)

	pos := board.NewPosition()
	for i := 0; i < 20 && !pos.IsTerminal(); i++ {
		ra, err := a.Think(context.Background(), pos, SearchLimits{})
		if err != nil {
			t.Fatalf("Think: %v", err)
		}
		rb, _ := b.Think(context.Background(), pos, SearchLimits{})
		if ra.Move != rb.Move {
			t.Fatalf("ply %d: %v vs %v from the same seed", i, ra.Move, rb.Move)
		}
		if !pos.IsLegal(ra.Move) {
			t.Fatalf("illegal random move %v", ra.Move)
		}
		pos = pos.ApplyMove(ra.Move)
	}
}

func TestStrategies(t *testing.T) {
	var _ Strategy = (*Engine)(nil)
	var _ Strategy = (*Random)(nil)
}
