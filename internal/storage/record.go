package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/hailam/breakthrough/internal/board"
)

var (
	// ErrGameNotFound is returned by LoadGame for an unknown id.
	ErrGameNotFound = errors.New("storage: game not found")
	// ErrInvalidRecord is returned when a record does not replay to its
	// stated result.
	ErrInvalidRecord = errors.New("storage: invalid game record")
)

// GameRecord is a finished or abandoned game as archived.
type GameRecord struct {
	ID        uint64           `json:"id"`
	White     string           `json:"white"` // strategy that played White
	Black     string           `json:"black"`
	Moves     []string         `json:"moves"`
	Result    board.GameResult `json:"result"`
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration"`
}

// Plies returns the number of moves played.
func (r *GameRecord) Plies() int {
	return len(r.Moves)
}

// Replay applies the moves from the start position, checking each one, and
// returns the final position.
func (r *GameRecord) Replay() (board.Position, error) {
	pos := board.NewPosition()
	for i, s := range r.Moves {
		m, err := board.ParseMove(s)
		if err != nil {
			return pos, fmt.Errorf("move %d: %w", i+1, err)
		}
		next, err := pos.Play(m)
		if err != nil {
			return pos, fmt.Errorf("move %d: %w", i+1, err)
		}
		pos = next
	}
	return pos, nil
}

// Validate replays the record and checks that the stored result matches the
// final position.
func (r *GameRecord) Validate() error {
	pos, err := r.Replay()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if got := pos.Result(); got != r.Result {
		return fmt.Errorf("%w: result %v, final position is %v", ErrInvalidRecord, r.Result, got)
	}
	return nil
}

// GameStats aggregates the archive.
type GameStats struct {
	GamesPlayed int `json:"games_played"`
	WhiteWins   int `json:"white_wins"`
	BlackWins   int `json:"black_wins"`
	Unfinished  int `json:"unfinished"`
	TotalPlies  int `json:"total_plies"`
}

// AveragePlies returns the mean game length.
func (s *GameStats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}

// WhiteWinRate returns White's share of decided games as a percentage.
func (s *GameStats) WhiteWinRate() float64 {
	decided := s.WhiteWins + s.BlackWins
	if decided == 0 {
		return 0
	}
	return float64(s.WhiteWins) / float64(decided) * 100
}

func (s *GameStats) add(r *GameRecord) {
	s.GamesPlayed++
	s.TotalPlies += r.Plies()
	switch r.Result {
	case board.WhiteWins:
		s.WhiteWins++
	case board.BlackWins:
		s.BlackWins++
	default:
		s.Unfinished++
	}
}
