package match

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/hailam/breakthrough/internal/board"
	"github.com/hailam/breakthrough/internal/engine"
	"github.com/hailam/breakthrough/internal/storage"
)

// DefaultMaxPlies ends games that run longer. A legal game cannot exceed
// 2*16*6 plies, so the guard only trips on a misbehaving strategy.
const DefaultMaxPlies = 200

// Options configures a Runner.
type Options struct {
	White, Black Player

	Concurrency   int // games in flight, 0 = GOMAXPROCS
	MaxPlies      int // 0 = DefaultMaxPlies
	RandomOpening int // plies of uniformly random moves before the players take over

	Store  *storage.Storage // archives finished games when set
	Logger zerolog.Logger
}

// Runner plays self-play games.
type Runner struct {
	opts Options
}

// NewRunner creates a runner.
func NewRunner(opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	if opts.MaxPlies <= 0 {
		opts.MaxPlies = DefaultMaxPlies
	}
	return &Runner{opts: opts}
}

// Play plays n games concurrently and returns their records in game order.
// Each game owns its strategies and their tables. The first error cancels
// the remaining games.
func (r *Runner) Play(ctx context.Context, n int) ([]*storage.GameRecord, error) {
	records := make([]*storage.GameRecord, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			rec, err := r.PlayGame(ctx, i)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if r.opts.Store != nil {
		for _, rec := range records {
			if _, err := r.opts.Store.SaveGame(rec); err != nil {
				return records, err
			}
		}
	}

	sum := Summarize(records)
	r.opts.Logger.Info().
		Int("games", sum.Games).
		Int("white-wins", sum.WhiteWins).
		Int("black-wins", sum.BlackWins).
		Int("unfinished", sum.Unfinished).
		Float64("avg-plies", sum.AveragePlies()).
		Msg("match-complete")
	return records, nil
}

// PlayGame plays a single game. idx only labels the log output.
func (r *Runner) PlayGame(ctx context.Context, idx int) (*storage.GameRecord, error) {
	log := r.opts.Logger.With().Int("game", idx+1).Logger()
	players := [2]Player{r.opts.White, r.opts.Black}
	rec := &storage.GameRecord{
		White:     players[board.White].String(),
		Black:     players[board.Black].String(),
		StartedAt: time.Now().UTC(),
	}
	strategies := [2]engine.Strategy{
		players[board.White].strategy(log),
		players[board.Black].strategy(log),
	}

	pos := board.NewPosition()
	for !pos.IsTerminal() && len(rec.Moves) < r.opts.MaxPlies {
		var m board.Move
		if len(rec.Moves) < r.opts.RandomOpening {
			moves := pos.LegalMoves()
			if len(moves) > 0 {
				m = moves[frand.Intn(len(moves))]
			}
		} else {
			us := pos.SideToMove
			result, err := strategies[us].Think(ctx, pos, players[us].limits())
			if err != nil {
				return nil, err
			}
			m = result.Move
		}

		// A side without pawns has no move.
		if m == board.NoMove {
			break
		}
		next, err := pos.Play(m)
		if err != nil {
			return nil, err
		}
		rec.Moves = append(rec.Moves, m.String())
		pos = next
	}

	rec.Result = pos.Result()
	rec.Duration = time.Since(rec.StartedAt)
	log.Debug().
		Int("plies", rec.Plies()).
		Stringer("result", rec.Result).
		Dur("elapsed", rec.Duration).
		Msg("game-finished")
	return rec, nil
}

// Summary tallies a set of games.
type Summary struct {
	Games      int
	WhiteWins  int
	BlackWins  int
	Unfinished int
	Plies      int
}

// Summarize tallies records. Nil entries are skipped.
func Summarize(records []*storage.GameRecord) Summary {
	var s Summary
	for _, rec := range records {
		if rec == nil {
			continue
		}
		s.Games++
		s.Plies += rec.Plies()
		switch rec.Result {
		case board.WhiteWins:
			s.WhiteWins++
		case board.BlackWins:
			s.BlackWins++
		default:
			s.Unfinished++
		}
	}
	return s
}

// AveragePlies returns the mean game length.
func (s Summary) AveragePlies() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Plies) / float64(s.Games)
}
