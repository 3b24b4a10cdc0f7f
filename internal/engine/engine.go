package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/hailam/breakthrough/internal/board"
)

// SearchInfo reports a completed iteration.
type SearchInfo struct {
	Depth    int
	Eval     Evaluation // relative to the side to move
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // permille of the table in use
}

// SearchLimits specifies constraints on the search. The zero value means the
// engine's difficulty preset.
type SearchLimits struct {
	Depth    int              // deepest iteration, 0 = no depth limit when timed
	MoveTime time.Duration    // time for this move
	Time     [2]time.Duration // remaining clock per color
	Inc      [2]time.Duration // increment per color
}

// IsZero reports whether no limit is set.
func (l SearchLimits) IsZero() bool {
	return l == SearchLimits{}
}

// SearchResult is the outcome of Think.
type SearchResult struct {
	Move  board.Move
	Eval  Evaluation // relative to the side to move
	Depth int        // deepest completed iteration
	PV    []board.Move
	Time  time.Duration
	Stats SearchStats
}

// Strategy chooses moves. Engine and Random implement it.
type Strategy interface {
	Think(ctx context.Context, pos board.Position, limits SearchLimits) (SearchResult, error)
}

// Difficulty represents the engine strength preset.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 ply
	Medium                   // 4 ply
	Hard                     // 6 ply
	Expert                   // 8 ply
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	case Expert:
		return "expert"
	default:
		return "unknown"
	}
}

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 2, MoveTime: 500 * time.Millisecond},
	Medium: {Depth: 4, MoveTime: 2 * time.Second},
	Hard:   {Depth: 6, MoveTime: 5 * time.Second},
	Expert: {Depth: 8, MoveTime: 15 * time.Second},
}

// Options configures an Engine.
type Options struct {
	HashMB     int          // transposition table size, 0 disables it
	Hasher     board.Hasher // nil selects FNV-1a
	Weights    Weights
	Difficulty Difficulty
	Logger     zerolog.Logger
}

// DefaultOptions returns a 16 MB table, the default weights and Medium.
func DefaultOptions() Options {
	return Options{
		HashMB:     16,
		Weights:    DefaultWeights,
		Difficulty: Medium,
		Logger:     zerolog.Nop(),
	}
}

// Engine runs iterative deepening over a Searcher and owns its table. An
// Engine thinks about one position at a time.
type Engine struct {
	searcher   *Searcher
	tt         *TranspositionTable
	difficulty Difficulty
	log        zerolog.Logger

	// OnInfo is called after every completed depth.
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine from opts.
func NewEngine(opts Options) *Engine {
	tt := NewTranspositionTableMB(opts.HashMB, opts.Hasher)
	s := NewSearcher(tt)
	if opts.Weights != (Weights{}) {
		s.SetWeights(opts.Weights)
	}
	return &Engine{
		searcher:   s,
		tt:         tt,
		difficulty: opts.Difficulty,
		log:        opts.Logger,
	}
}

// SetDifficulty sets the preset used for zero limits.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// Difficulty returns the current preset.
func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// Table returns the engine's transposition table.
func (e *Engine) Table() *TranspositionTable {
	return e.tt
}

// Think searches pos with increasing depth until the depth limit, the time
// budget or ctx ends it, or a forced result is proven. It returns the result
// of the deepest completed iteration.
//
// If no iteration completes, the first legal move is returned together with
// ctx's error when ctx was the cause.
func (e *Engine) Think(ctx context.Context, pos board.Position, limits SearchLimits) (SearchResult, error) {
	if pos.IsTerminal() {
		return SearchResult{}, ErrGameOver
	}
	if err := ctx.Err(); err != nil {
		return e.fallback(pos), err
	}
	if limits.IsZero() {
		limits = DifficultySettings[e.difficulty]
	}

	maxDepth := limits.Depth
	if maxDepth <= 0 || maxDepth > MaxDepth {
		maxDepth = MaxDepth
	}

	tm := NewTimeManager()
	tm.Init(limits, pos.SideToMove, pos.Ply)

	e.searcher.Reset()
	stopOnCancel := context.AfterFunc(ctx, e.searcher.Stop)
	defer stopOnCancel()
	if tm.Limited() {
		timer := time.AfterFunc(tm.MaximumTime(), e.searcher.Stop)
		defer timer.Stop()
	}

	var result SearchResult
	stability := 0
	for depth := 1; depth <= maxDepth; depth++ {
		move, eval := e.searcher.Search(pos, depth)
		if e.searcher.Stopped() {
			break
		}

		if move == result.Move {
			stability++
		} else {
			stability = 0
		}

		pv := e.searcher.PrincipalVariation(pos, depth)
		if len(pv) == 0 || pv[0] != move {
			pv = []board.Move{move}
		}
		result = SearchResult{
			Move:  move,
			Eval:  eval,
			Depth: depth,
			PV:    pv,
			Time:  tm.Elapsed(),
			Stats: e.searcher.Stats(),
		}

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Eval:     eval,
				Nodes:    result.Stats.Nodes,
				Time:     result.Time,
				PV:       pv,
				HashFull: e.tt.HashFull(),
			})
		}

		// Deeper iterations cannot change a proven result.
		if eval.IsWin() {
			break
		}
		if stability == 2 || stability == 4 || stability == 6 {
			tm.AdjustForStability(stability)
		}
		if tm.PastOptimum() {
			break
		}
	}

	if result.Depth == 0 {
		result = e.fallback(pos)
		result.Time = tm.Elapsed()
		if err := ctx.Err(); err != nil {
			return result, err
		}
	}

	e.log.Debug().
		Int("depth", result.Depth).
		Str("move", result.Move.String()).
		Str("eval", result.Eval.String()).
		Strs("pv", lo.Map(result.PV, func(m board.Move, _ int) string { return m.String() })).
		Uint64("nodes", result.Stats.Nodes).
		Uint64("tt-hits", result.Stats.TTHits).
		Dur("elapsed", result.Time).
		Msg("search-complete")

	return result, nil
}

func (e *Engine) fallback(pos board.Position) SearchResult {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return SearchResult{}
	}
	return SearchResult{
		Move:  moves[0],
		Eval:  e.searcher.weights.Evaluate(pos),
		PV:    moves[:1],
		Stats: e.searcher.Stats(),
	}
}

// Stop aborts a running Think from another goroutine.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Clear empties the transposition table.
func (e *Engine) Clear() {
	e.tt.Clear()
}
