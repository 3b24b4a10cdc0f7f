package board

import "fmt"

// LegalMoves returns every legal move for the side to move. Every
// pseudo-legal Breakthrough move is legal.
func (p Position) LegalMoves() []Move {
	var ml MoveList
	p.GenerateMoves(&ml)
	moves := make([]Move, ml.Len())
	copy(moves, ml.Slice())
	return moves
}

// GenerateMoves appends all moves for the side to move to ml.
//
// Moves are produced by destination square, lowest index first; for each
// destination the straight move comes first, then the move from the west
// neighbour (diagonal right), then from the east neighbour (diagonal left).
// Callers must not depend on this order.
//
// p must pass Validate; a side with more than MaxPawns pawns panics.
func (p Position) GenerateMoves(ml *MoveList) {
	us := p.SideToMove
	pawns := p.Pieces[us]
	if n := pawns.PopCount(); n > MaxPawns {
		panic(fmt.Errorf("%w: %d %s pawns, at most %d", ErrInvalidBoard, n, us, MaxPawns))
	}
	empty := ^p.Occupied()
	notOwn := ^pawns

	// Shifts drop pawns that would wrap around an edge file.
	var straight, right, left Bitboard
	var straightFrom, rightFrom, leftFrom int
	if us == White {
		straight = pawns.North() & empty
		right = pawns.NorthEast() & notOwn
		left = pawns.NorthWest() & notOwn
		straightFrom, rightFrom, leftFrom = -8, -9, -7
	} else {
		straight = pawns.South() & empty
		right = pawns.SouthEast() & notOwn
		left = pawns.SouthWest() & notOwn
		straightFrom, rightFrom, leftFrom = 8, 7, 9
	}

	targets := straight | right | left
	for targets != 0 {
		to := targets.PopLSB()
		if straight.IsSet(to) {
			ml.Add(NewMove(Square(int(to)+straightFrom), to))
		}
		if right.IsSet(to) {
			ml.Add(NewMove(Square(int(to)+rightFrom), to))
		}
		if left.IsSet(to) {
			ml.Add(NewMove(Square(int(to)+leftFrom), to))
		}
	}
}

// Perft counts the leaf nodes of the move tree at the given depth. Terminal
// positions are leaves.
func Perft(p Position, depth int) uint64 {
	if depth == 0 || p.IsTerminal() {
		return 1
	}

	var ml MoveList
	p.GenerateMoves(&ml)
	if depth == 1 {
		return uint64(ml.Len())
	}

	var nodes uint64
	for _, m := range ml.Slice() {
		nodes += Perft(p.ApplyMove(m), depth-1)
	}
	return nodes
}
