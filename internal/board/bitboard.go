package board

import "math/bits"

// Bitboard is a set of squares, one bit per square in LERF order: bit 0 is
// a1, bit 7 is h1, bit 63 is h8.
type Bitboard uint64

// Files.
const (
	FileA Bitboard = 0x0101010101010101
	FileC Bitboard = FileA << 2
	FileD Bitboard = FileA << 3
	FileE Bitboard = FileA << 4
	FileF Bitboard = FileA << 5
	FileH Bitboard = FileA << 7
)

// Ranks.
const (
	Rank1 Bitboard = 0xFF
	Rank2 Bitboard = Rank1 << 8
	Rank3 Bitboard = Rank1 << 16
	Rank4 Bitboard = Rank1 << 24
	Rank5 Bitboard = Rank1 << 32
	Rank6 Bitboard = Rank1 << 40
	Rank7 Bitboard = Rank1 << 48
	Rank8 Bitboard = Rank1 << 56
)

// Regions used by move generation and evaluation.
const (
	NotFileA Bitboard = ^FileA
	NotFileH Bitboard = ^FileH

	// BigCenter is files c-f on ranks 3-6.
	BigCenter Bitboard = (FileC | FileD | FileE | FileF) & (Rank3 | Rank4 | Rank5 | Rank6)

	WhiteHalf Bitboard = Rank1 | Rank2 | Rank3 | Rank4
	BlackHalf Bitboard = Rank5 | Rank6 | Rank7 | Rank8

	WhiteStart Bitboard = Rank1 | Rank2
	BlackStart Bitboard = Rank7 | Rank8
)

// SquareBB returns the set holding only sq.
func SquareBB(sq Square) Bitboard {
	return 1 << sq
}

// Set returns b with sq added.
func (b Bitboard) Set(sq Square) Bitboard {
	return b | 1<<sq
}

// Clear returns b with sq removed.
func (b Bitboard) Clear(sq Square) Bitboard {
	return b &^ (1 << sq)
}

// IsSet reports whether sq is in b.
func (b Bitboard) IsSet(sq Square) bool {
	return b&(1<<sq) != 0
}

// PopCount returns the number of squares in b.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the lowest square in b, or NoSquare when b is empty.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB removes the lowest square from b and returns it.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// The shifts move every square one step and drop squares that would wrap
// onto the opposite edge file.

func (b Bitboard) North() Bitboard     { return b << 8 }
func (b Bitboard) South() Bitboard     { return b >> 8 }
func (b Bitboard) NorthEast() Bitboard { return b << 9 & NotFileA }
func (b Bitboard) NorthWest() Bitboard { return b << 7 & NotFileH }
func (b Bitboard) SouthEast() Bitboard { return b >> 7 & NotFileA }
func (b Bitboard) SouthWest() Bitboard { return b >> 9 & NotFileH }
