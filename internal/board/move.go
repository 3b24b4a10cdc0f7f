package board

import "fmt"

// Move encodes a pawn move in 16 bits:
// bits 0-5:  from square (0-63)
// bits 6-11: to square (0-63)
//
// A move carries no side or capture flag; it is only meaningful for the
// position it was generated from.
type Move uint16

// NoMove represents an invalid or null move. a1a1 is never generated.
const NoMove Move = 0

// MaxMoves bounds the number of moves in a position that passes Validate:
// at most MaxPawns pawns, each with at most three targets.
const MaxMoves = 3 * MaxPawns

// NewMove creates a move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// String returns the 4-character form of the move (e.g., "e2e3").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	return m.From().String() + m.To().String()
}

// ParseMove parses the 4-character form of a move. It checks syntax only;
// use Position.IsLegal to validate the move against a position.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 {
		return NoMove, fmt.Errorf("%w: %q must be 4 characters", ErrInvalidMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %v", ErrInvalidMove, s, err)
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %v", ErrInvalidMove, s, err)
	}

	return NewMove(from, to), nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [MaxMoves]Move
	count int
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
