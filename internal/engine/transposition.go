package engine

import (
	"unsafe"

	"github.com/hailam/breakthrough/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

// TTEntry represents an entry in the transposition table.
type TTEntry struct {
	Position board.Position // full position, compared on probe
	BestMove board.Move     // best move found, NoMove after a shortcut
	Depth    int            // search depth that produced Eval
	Eval     Evaluation
	Flag     TTFlag
}

// TTStats reports table occupancy. It is diagnostic only.
type TTStats struct {
	Capacity   int
	Occupied   int
	Collisions int
}

// TranspositionTable is a direct-mapped, always-replace table of search
// results addressed by hash mod capacity.
//
// A table belongs to one search at a time; it is not safe for concurrent
// use. A capacity of zero disables the table.
type TranspositionTable struct {
	entries []TTEntry
	used    []bool
	hasher  board.Hasher

	occupied   int
	collisions int

	// Statistics
	hits   uint64
	probes uint64
}

// NewTranspositionTable creates a table with the given number of slots. A
// nil hasher selects FNV-1a.
func NewTranspositionTable(capacity int, hasher board.Hasher) *TranspositionTable {
	if capacity < 0 {
		capacity = 0
	}
	if hasher == nil {
		hasher = board.FNV{}
	}
	return &TranspositionTable{
		entries: make([]TTEntry, capacity),
		used:    make([]bool, capacity),
		hasher:  hasher,
	}
}

// NewTranspositionTableMB creates a table sized to roughly sizeMB megabytes.
func NewTranspositionTableMB(sizeMB int, hasher board.Hasher) *TranspositionTable {
	entrySize := int(unsafe.Sizeof(TTEntry{})) + 1
	return NewTranspositionTable(sizeMB*1024*1024/entrySize, hasher)
}

// Capacity returns the number of slots.
func (tt *TranspositionTable) Capacity() int {
	if tt == nil {
		return 0
	}
	return len(tt.entries)
}

func (tt *TranspositionTable) index(pos board.Position) int {
	return int(tt.hasher.Hash(pos) % uint64(len(tt.entries)))
}

// Probe looks up pos. It hits only when the slot holds the same position
// (occupancy and side to move) searched to at least minDepth; a slot holding
// another position is a miss, never a false hit.
//
// Win plies in the returned entry are rebased onto pos.Ply.
func (tt *TranspositionTable) Probe(pos board.Position, minDepth int) (TTEntry, bool) {
	if tt.Capacity() == 0 {
		return TTEntry{}, false
	}
	tt.probes++

	idx := tt.index(pos)
	if !tt.used[idx] {
		return TTEntry{}, false
	}
	entry := tt.entries[idx]
	if !entry.Position.SameSquares(pos) || entry.Depth < minDepth {
		return TTEntry{}, false
	}

	tt.hits++
	entry.Eval = rebase(entry.Eval, entry.Position.Ply, pos.Ply)
	entry.Position = pos
	return entry, true
}

// Store saves entry, replacing whatever occupies its slot.
func (tt *TranspositionTable) Store(entry TTEntry) {
	if tt.Capacity() == 0 {
		return
	}

	idx := tt.index(entry.Position)
	switch {
	case !tt.used[idx]:
		tt.used[idx] = true
		tt.occupied++
	case !tt.entries[idx].Position.SameSquares(entry.Position):
		tt.collisions++
	}
	tt.entries[idx] = entry
}

// rebase moves win plies recorded relative to one ply onto another. It only
// matters if the same squares are reached at a different ply.
func rebase(e Evaluation, from, to uint32) Evaluation {
	if !e.IsWin() || from == to {
		return e
	}
	e.Ply = e.Ply - from + to
	return e
}

// Stats returns capacity, filled slots and collision count.
func (tt *TranspositionTable) Stats() TTStats {
	if tt == nil {
		return TTStats{}
	}
	return TTStats{
		Capacity:   len(tt.entries),
		Occupied:   tt.occupied,
		Collisions: tt.collisions,
	}
}

// Clear empties the table and resets its statistics.
func (tt *TranspositionTable) Clear() {
	if tt == nil {
		return
	}
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
		tt.used[i] = false
	}
	tt.occupied = 0
	tt.collisions = 0
	tt.hits = 0
	tt.probes = 0
}

// HashFull returns the permille (parts per thousand) of the table that is used.
func (tt *TranspositionTable) HashFull() int {
	if tt.Capacity() == 0 {
		return 0
	}
	return tt.occupied * 1000 / len(tt.entries)
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt == nil || tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}
