package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Storage keys
const (
	keyStats      = "stats"
	keyGameSeq    = "seq/game"
	gamePrefix    = "game/"
	seqBandwidth  = 64
	maxTxnRetries = 8
)

// Options configures the archive.
type Options struct {
	Dir      string // database directory, ignored when InMemory
	InMemory bool
	Logger   zerolog.Logger
}

// Storage is a badger-backed archive of played games.
type Storage struct {
	db  *badger.DB
	seq *badger.Sequence
	log zerolog.Logger
}

// Open opens (or creates) the archive in dir.
func Open(dir string) (*Storage, error) {
	return OpenWith(Options{Dir: dir, Logger: zerolog.Nop()})
}

// OpenInMemory opens an archive that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	return OpenWith(Options{InMemory: true, Logger: zerolog.Nop()})
}

// OpenWith opens the archive described by opts.
func OpenWith(opts Options) (*Storage, error) {
	bopts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts = bopts.WithLogger(badgerLogger{opts.Logger})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %q: %w", opts.Dir, err)
	}
	seq, err := db.GetSequence([]byte(keyGameSeq), seqBandwidth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: game sequence: %w", err)
	}

	opts.Logger.Debug().Str("dir", opts.Dir).Bool("in-memory", opts.InMemory).Msg("storage-open")
	return &Storage{db: db, seq: seq, log: opts.Logger}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.seq.Release()
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	s.db = nil
	s.log.Debug().Msg("storage-close")
	return err
}

func gameKey(id uint64) []byte {
	key := make([]byte, len(gamePrefix)+8)
	copy(key, gamePrefix)
	binary.BigEndian.PutUint64(key[len(gamePrefix):], id)
	return key
}

// SaveGame validates rec, assigns it an id when it has none, stores it and
// updates the statistics in the same transaction. It returns the id.
func (s *Storage) SaveGame(rec *GameRecord) (uint64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}

	if rec.ID == 0 {
		n, err := s.seq.Next()
		if err != nil {
			return 0, fmt.Errorf("storage: next id: %w", err)
		}
		rec.ID = n + 1
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return 0, err
	}

	// Concurrent writers conflict on the stats key; retry them.
	for attempt := 0; ; attempt++ {
		err = s.db.Update(func(txn *badger.Txn) error {
			key := gameKey(rec.ID)
			stats, err := loadStats(txn)
			if err != nil {
				return err
			}
			if _, err := txn.Get(key); err == nil {
				return fmt.Errorf("storage: game %d already stored", rec.ID)
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			stats.add(rec)
			statsData, err := json.Marshal(stats)
			if err != nil {
				return err
			}
			if err := txn.Set(key, data); err != nil {
				return err
			}
			return txn.Set([]byte(keyStats), statsData)
		})
		if !errors.Is(err, badger.ErrConflict) || attempt == maxTxnRetries {
			break
		}
	}
	if err != nil {
		return 0, err
	}

	s.log.Debug().Uint64("id", rec.ID).Int("plies", rec.Plies()).Stringer("result", rec.Result).Msg("game-saved")
	return rec.ID, nil
}

// LoadGame returns the game stored under id.
func (s *Storage) LoadGame(id uint64) (*GameRecord, error) {
	rec := &GameRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %d", ErrGameNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListGames returns every stored game in id order.
func (s *Storage) ListGames() ([]*GameRecord, error) {
	var games []*GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rec := &GameRecord{}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			}); err != nil {
				return err
			}
			games = append(games, rec)
		}
		return nil
	})
	return games, err
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	var stats *GameStats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = loadStats(txn)
		return err
	})
	return stats, err
}

func loadStats(txn *badger.Txn) (*GameStats, error) {
	stats := &GameStats{}
	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	return stats, err
}

// badgerLogger routes badger's log output into zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(f string, v ...interface{})   { l.log.Error().Msgf(f, v...) }
func (l badgerLogger) Warningf(f string, v ...interface{}) { l.log.Warn().Msgf(f, v...) }
func (l badgerLogger) Infof(f string, v ...interface{})    { l.log.Debug().Msgf(f, v...) }
func (l badgerLogger) Debugf(f string, v ...interface{})   { l.log.Trace().Msgf(f, v...) }
