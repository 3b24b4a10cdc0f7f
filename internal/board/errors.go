package board

import "errors"

var (
	// ErrInvalidSquare is returned for square text outside [a-h][1-8].
	ErrInvalidSquare = errors.New("invalid square")
	// ErrInvalidMove is returned for move text that is not 4 valid characters.
	ErrInvalidMove = errors.New("invalid move")
	// ErrIllegalMove is returned when a well-formed move is not legal in a position.
	ErrIllegalMove = errors.New("illegal move")
	// ErrInvalidBoard is returned for board text that does not describe a position.
	ErrInvalidBoard = errors.New("invalid board")
	// ErrBothSidesWon marks a position where both sides stand on their goal
	// rows. Legal play cannot reach it.
	ErrBothSidesWon = errors.New("both sides occupy their goal rows")
)
