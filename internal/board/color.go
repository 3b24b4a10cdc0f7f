package board

// Color represents the side a pawn belongs to. White is side A and moves
// first; Black is side B.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Char returns the board text character for a pawn of this color.
func (c Color) Char() byte {
	switch c {
	case White:
		return 'W'
	case Black:
		return 'B'
	default:
		return '.'
	}
}

// HomeRow returns the rank a color starts on and defends.
func (c Color) HomeRow() Bitboard {
	if c == White {
		return Rank1
	}
	return Rank8
}

// GoalRow returns the rank a color must reach to win.
func (c Color) GoalRow() Bitboard {
	if c == White {
		return Rank8
	}
	return Rank1
}

// ThreatRow returns the rank one step before the goal row. A pawn standing
// there promotes on its owner's next move: it can always step diagonally or
// straight onto the goal row because nothing friendly can stand there in a
// non-terminal position.
func (c Color) ThreatRow() Bitboard {
	if c == White {
		return Rank7
	}
	return Rank2
}

// StartRows returns the two ranks a color occupies at the start.
func (c Color) StartRows() Bitboard {
	if c == White {
		return WhiteStart
	}
	return BlackStart
}

// OpponentHalf returns the four ranks nearest the color's goal row.
func (c Color) OpponentHalf() Bitboard {
	if c == White {
		return BlackHalf
	}
	return WhiteHalf
}

// GameResult is the outcome of a position. Breakthrough has no draws.
type GameResult uint8

const (
	Undecided GameResult = iota
	WhiteWins
	BlackWins
)

// String returns the result name.
func (r GameResult) String() string {
	switch r {
	case WhiteWins:
		return "White wins"
	case BlackWins:
		return "Black wins"
	default:
		return "Undecided"
	}
}

// Winner returns the winning color, or NoColor while undecided.
func (r GameResult) Winner() Color {
	switch r {
	case WhiteWins:
		return White
	case BlackWins:
		return Black
	default:
		return NoColor
	}
}
