package engine

import (
	"sync/atomic"

	"github.com/hailam/breakthrough/internal/board"
)

// MaxDepth bounds the search depth. The search recurses once per ply, so
// depth is limited by the call stack; deeper requests are clamped.
const MaxDepth = 64

// SearchStats counts what the last search did.
type SearchStats struct {
	Nodes    uint64 // negamax calls
	TTHits   uint64 // probes that returned a usable result
	Cutoffs  uint64 // fail-high breaks
	FastWins uint64 // nodes settled by FastWin
}

// Searcher performs the depth-bounded negamax search.
//
// A Searcher and its table serve one search at a time. Reusing them for
// successive searches of a game is fine; sharing them between goroutines is
// not.
type Searcher struct {
	tt      *TranspositionTable
	weights Weights
	orderer *MoveOrderer
	stats   SearchStats
	stopped atomic.Bool
}

// NewSearcher creates a searcher backed by tt. A nil or zero-capacity table
// disables memoization.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{
		tt:      tt,
		weights: DefaultWeights,
		orderer: NewMoveOrderer(),
	}
}

// SetWeights replaces the heuristic weights.
func (s *Searcher) SetWeights(w Weights) {
	s.weights = w
}

// Table returns the transposition table.
func (s *Searcher) Table() *TranspositionTable {
	return s.tt
}

// Stats returns the counters of the searches since the last Reset.
func (s *Searcher) Stats() SearchStats {
	return s.stats
}

// Reset clears the counters and the stop request.
func (s *Searcher) Reset() {
	s.stats = SearchStats{}
	s.stopped.Store(false)
}

// Stop asks a running search to unwind. It may be called from another
// goroutine. The result of a stopped search is meaningless and is not stored.
func (s *Searcher) Stop() {
	s.stopped.Store(true)
}

// Stopped reports whether Stop was called since the last Reset.
func (s *Searcher) Stopped() bool {
	return s.stopped.Load()
}

// Search searches pos to depth and returns the best move with its
// evaluation relative to the side to move. A position with legal moves
// always yields a move: the first generated move when the search itself
// settles without one (depth 0, a terminal position, or an unavoidable loss).
func Search(pos board.Position, depth int, tt *TranspositionTable) (board.Move, Evaluation) {
	return NewSearcher(tt).Search(pos, depth)
}

// Search is the package-level Search using this searcher's table, weights
// and counters.
func (s *Searcher) Search(pos board.Position, depth int) (board.Move, Evaluation) {
	if depth < 0 {
		depth = 0
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}

	move, eval := s.negamax(pos, depth, WinB(pos.Ply), WinA(pos.Ply), true)
	if move == board.NoMove && !pos.IsTerminal() {
		if moves := pos.LegalMoves(); len(moves) > 0 {
			move = moves[0]
		}
	}
	return move, eval
}

// negamax returns the best move and value of pos for the side to move within
// the (alpha, beta) window, fail-soft. Values outside the window are bounds.
// At the root the table is not consulted, so the move is always known.
func (s *Searcher) negamax(pos board.Position, depth int, alpha, beta Evaluation, root bool) (board.Move, Evaluation) {
	s.stats.Nodes++
	if s.stopped.Load() {
		return board.NoMove, Evaluation{}
	}

	if depth == 0 || pos.IsTerminal() {
		return board.NoMove, s.weights.Evaluate(pos)
	}

	if eval, ok := FastWin(pos); ok {
		s.stats.FastWins++
		if root {
			return winningMove(pos), eval
		}
		return board.NoMove, eval
	}

	if !root {
		if entry, ok := s.tt.Probe(pos, depth); ok && usable(entry, alpha, beta) {
			s.stats.TTHits++
			return entry.BestMove, entry.Eval
		}
	}

	var ml board.MoveList
	pos.GenerateMoves(&ml)
	moves := ForcedReplies(pos, ml.Slice())
	if len(moves) == 0 {
		// The opponent promotes on its next move.
		return board.NoMove, WinB(pos.Ply + 2)
	}
	if depth > 1 {
		s.orderer.Order(pos, moves)
	}

	alphaOrig := alpha
	best, bestMove := WinB(pos.Ply), board.NoMove
	for _, m := range moves {
		_, childEval := s.negamax(pos.ApplyMove(m), depth-1, beta.Neg(), alpha.Neg(), false)
		if s.stopped.Load() {
			return bestMove, best
		}
		eval := childEval.Neg()
		if best.Less(eval) {
			best, bestMove = eval, m
		}
		alpha = maxEval(alpha, best)
		if !alpha.Less(beta) {
			s.stats.Cutoffs++
			break
		}
	}

	flag := TTExact
	switch {
	case !alphaOrig.Less(best):
		flag = TTUpperBound
	case !best.Less(beta):
		flag = TTLowerBound
	}
	s.tt.Store(TTEntry{Position: pos, BestMove: bestMove, Depth: depth, Eval: best, Flag: flag})

	return bestMove, best
}

// usable reports whether a stored result settles the node for this window.
func usable(entry TTEntry, alpha, beta Evaluation) bool {
	switch entry.Flag {
	case TTExact:
		return true
	case TTLowerBound:
		return !entry.Eval.Less(beta)
	case TTUpperBound:
		return !alpha.Less(entry.Eval)
	default:
		return false
	}
}

// PrincipalVariation follows best moves stored in the table from pos, up to
// maxLen moves. Entries are checked against the position they are applied
// to, so a stale or colliding slot ends the line. Nodes the search settles
// without storing are filled in: a promotion when one is available, the
// first move when every move loses to a promotion.
func (s *Searcher) PrincipalVariation(pos board.Position, maxLen int) []board.Move {
	var pv []board.Move
	for len(pv) < maxLen && !pos.IsTerminal() {
		if entry, ok := s.tt.Probe(pos, 0); ok && entry.BestMove != board.NoMove && pos.IsLegal(entry.BestMove) {
			pv = append(pv, entry.BestMove)
			pos = pos.ApplyMove(entry.BestMove)
			continue
		}
		if m := winningMove(pos); m != board.NoMove {
			pv = append(pv, m)
			break
		}

		var ml board.MoveList
		pos.GenerateMoves(&ml)
		if ml.Len() == 0 || len(ForcedReplies(pos, ml.Slice())) != 0 {
			break
		}
		pv = append(pv, ml.Get(0))
		pos = pos.ApplyMove(ml.Get(0))
	}
	return pv
}
