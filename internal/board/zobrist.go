package board

// Hasher maps a position to a 64-bit key. Side to move and ply are not part
// of the key; equal keys for different positions are resolved by the caller.
type Hasher interface {
	Hash(p Position) uint64
}

// DefaultZobristSeed is the seed NewZobrist is given when callers have no
// reason to pick another one.
const DefaultZobristSeed uint64 = 0x98F107A2BEEF1234

// Occupant indexes the per-square Zobrist keys.
const (
	occEmpty = iota
	occWhite
	occBlack
	occCount
)

// Zobrist hashes positions by XOR-ing one key per square chosen by what
// occupies it. Tables are built explicitly and passed to their users; there
// is no package-level key table.
type Zobrist struct {
	keys [64][occCount]uint64
	// XOR of every square's empty key, the hash of an empty board.
	empty uint64
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	if seed == 0 {
		seed = DefaultZobristSeed
	}
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// NewZobrist builds a key table from seed. The same seed always yields the
// same table.
func NewZobrist(seed uint64) *Zobrist {
	rng := newPRNG(seed)
	z := &Zobrist{}
	for sq := 0; sq < 64; sq++ {
		for occ := 0; occ < occCount; occ++ {
			z.keys[sq][occ] = rng.next()
		}
		z.empty ^= z.keys[sq][occEmpty]
	}
	return z
}

func occupant(c Color) int {
	if c == White {
		return occWhite
	}
	return occBlack
}

// Key returns the key for a square holding a pawn of color c, or the empty
// key when c is NoColor.
func (z *Zobrist) Key(sq Square, c Color) uint64 {
	if c == NoColor {
		return z.keys[sq][occEmpty]
	}
	return z.keys[sq][occupant(c)]
}

// Hash computes the full hash of p.
func (z *Zobrist) Hash(p Position) uint64 {
	h := z.empty
	for c := White; c <= Black; c++ {
		occ := occupant(c)
		bb := p.Pieces[c]
		for bb != 0 {
			sq := bb.PopLSB()
			h ^= z.keys[sq][occEmpty] ^ z.keys[sq][occ]
		}
	}
	return h
}

// Delta returns the value to XOR into Hash(p) to obtain
// Hash(p.ApplyMove(m)).
func (z *Zobrist) Delta(p Position, m Move) uint64 {
	us := occupant(p.SideToMove)
	from, to := m.From(), m.To()

	prior := occEmpty
	if p.Pieces[p.SideToMove.Other()].IsSet(to) {
		prior = occupant(p.SideToMove.Other())
	}

	return z.keys[from][us] ^ z.keys[from][occEmpty] ^
		z.keys[to][prior] ^ z.keys[to][us]
}

// FNV hashes positions with FNV-1a over the bytes of both occupancy sets,
// White's byte first for each of the eight byte lanes.
type FNV struct{}

const (
	fnvOffset uint64 = 14695981039346656037
	fnvPrime  uint64 = 1099511628211
)

// Hash computes the FNV-1a hash of p.
func (FNV) Hash(p Position) uint64 {
	h := fnvOffset
	white, black := uint64(p.Pieces[White]), uint64(p.Pieces[Black])
	for i := 0; i < 8; i++ {
		h = (h ^ (white >> (8 * i) & 0xFF)) * fnvPrime
		h = (h ^ (black >> (8 * i) & 0xFF)) * fnvPrime
	}
	return h
}
