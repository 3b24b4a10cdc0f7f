package board

import (
	"fmt"
	"strings"
	"unicode"
)

// Position represents a Breakthrough position.
//
// Position is a value: ApplyMove returns a successor and never changes the
// receiver, so a search frame can hold its position while children are
// explored.
type Position struct {
	// Pawn occupancy per color. The two sets never overlap.
	Pieces [2]Bitboard

	SideToMove Color

	// Plies played since the starting position.
	Ply uint32
}

// MaxPawns is the most pawns a side can have: the sixteen it starts with.
const MaxPawns = 16

// NewPosition creates the starting position: White on ranks 1-2, Black on
// ranks 7-8, White to move.
func NewPosition() Position {
	return Position{
		Pieces:     [2]Bitboard{WhiteStart, BlackStart},
		SideToMove: White,
	}
}

// Occupied returns all occupied squares.
func (p Position) Occupied() Bitboard {
	return p.Pieces[White] | p.Pieces[Black]
}

// ColorAt returns the color of the pawn on sq, or NoColor if empty.
func (p Position) ColorAt(sq Square) Color {
	switch {
	case p.Pieces[White].IsSet(sq):
		return White
	case p.Pieces[Black].IsSet(sq):
		return Black
	default:
		return NoColor
	}
}

// SameSquares reports whether two positions have the same occupancy and
// side to move. Ply is ignored: different capture sequences can reach the
// same squares at different plies, and those are the same position.
func (p Position) SameSquares(o Position) bool {
	return p.Pieces == o.Pieces && p.SideToMove == o.SideToMove
}

// IsTerminal returns true once either side has a pawn on its goal row.
func (p Position) IsTerminal() bool {
	return p.Pieces[White]&Rank8 != 0 || p.Pieces[Black]&Rank1 != 0
}

// Result returns the game result. It panics if both sides stand on their
// goal rows: a move only places the mover's pawn, so the state cannot be
// reached by play and ParseBoard refuses to build it.
func (p Position) Result() GameResult {
	white := p.Pieces[White]&Rank8 != 0
	black := p.Pieces[Black]&Rank1 != 0
	switch {
	case white && black:
		panic(fmt.Errorf("%w: %016x/%016x", ErrBothSidesWon, uint64(p.Pieces[White]), uint64(p.Pieces[Black])))
	case white:
		return WhiteWins
	case black:
		return BlackWins
	default:
		return Undecided
	}
}

// ApplyMove returns the position after m. The move must come from this
// position's move list; anything else silently corrupts the result.
func (p Position) ApplyMove(m Move) Position {
	us, them := p.SideToMove, p.SideToMove.Other()
	fromBB, toBB := SquareBB(m.From()), SquareBB(m.To())

	p.Pieces[us] = p.Pieces[us]&^fromBB | toBB
	p.Pieces[them] &^= toBB
	p.SideToMove = them
	p.Ply++
	return p
}

// IsLegal reports whether m is a legal move in this position.
func (p Position) IsLegal(m Move) bool {
	if p.IsTerminal() {
		return false
	}
	var ml MoveList
	p.GenerateMoves(&ml)
	return ml.Contains(m)
}

// Play validates m and applies it.
func (p Position) Play(m Move) (Position, error) {
	if !p.IsLegal(m) {
		return p, fmt.Errorf("%w: %s for %s at ply %d", ErrIllegalMove, m, p.SideToMove, p.Ply)
	}
	return p.ApplyMove(m), nil
}

// Validate checks the structural invariants of a position.
func (p Position) Validate() error {
	if p.Pieces[White]&p.Pieces[Black] != 0 {
		return fmt.Errorf("%w: overlapping occupancy %016x", ErrInvalidBoard, uint64(p.Pieces[White]&p.Pieces[Black]))
	}
	if p.SideToMove > Black {
		return fmt.Errorf("%w: side to move %d", ErrInvalidBoard, p.SideToMove)
	}
	for c := White; c <= Black; c++ {
		if n := p.Pieces[c].PopCount(); n > MaxPawns {
			return fmt.Errorf("%w: %d %s pawns, at most %d", ErrInvalidBoard, n, c, MaxPawns)
		}
	}
	if p.Pieces[White]&Rank8 != 0 && p.Pieces[Black]&Rank1 != 0 {
		return fmt.Errorf("%w: %w", ErrInvalidBoard, ErrBothSidesWon)
	}
	return nil
}

// String returns 8 rows of 8 space-separated characters (W, B or .), rank 8
// first.
func (p Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			sb.WriteByte(p.ColorAt(NewSquare(file, rank)).Char())
			if file < 7 {
				sb.WriteByte(' ')
			}
		}
		if rank > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ParseBoard parses the String form of a board (whitespace is ignored, so
// a compact 64-character form is accepted too) and attaches side to move
// and ply.
func ParseBoard(text string, side Color, ply uint32) (Position, error) {
	cells := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	if len(cells) != 64 {
		return Position{}, fmt.Errorf("%w: want 64 squares, got %d", ErrInvalidBoard, len(cells))
	}

	pos := Position{SideToMove: side, Ply: ply}
	for i := 0; i < 64; i++ {
		sq := NewSquare(i%8, 7-i/8)
		switch cells[i] {
		case 'W', 'w':
			pos.Pieces[White] = pos.Pieces[White].Set(sq)
		case 'B', 'b':
			pos.Pieces[Black] = pos.Pieces[Black].Set(sq)
		case '.':
		default:
			return Position{}, fmt.Errorf("%w: unexpected %q at %s", ErrInvalidBoard, cells[i], sq)
		}
	}

	if err := pos.Validate(); err != nil {
		return Position{}, err
	}
	return pos, nil
}

// ParseColor parses "w"/"white" or "b"/"black".
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(s) {
	case "w", "white":
		return White, nil
	case "b", "black":
		return Black, nil
	default:
		return NoColor, fmt.Errorf("%w: side %q", ErrInvalidBoard, s)
	}
}
