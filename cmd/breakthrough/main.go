// Command breakthrough runs the engine behind a line protocol on stdin and
// stdout, or plays self-play matches and archives them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/breakthrough/internal/engine"
	"github.com/hailam/breakthrough/internal/match"
	"github.com/hailam/breakthrough/internal/protocol"
	"github.com/hailam/breakthrough/internal/storage"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	logLevel   = flag.String("log-level", "", "trace, debug, info, warn or error (default info)")
	dbDir      = flag.String("db", "", "game archive directory (default: platform data dir)")
	hashMB     = flag.Int("hash", 16, "transposition table size in MB")
	difficulty = flag.String("difficulty", "medium", "easy, medium, hard or expert")

	games         = flag.Int("match", 0, "play this many self-play games instead of reading commands")
	white         = flag.String("white", "negamax", "white player: random, negamax or negamax:<depth>")
	black         = flag.String("black", "random", "black player: random, negamax or negamax:<depth>")
	concurrency   = flag.Int("concurrency", 0, "games played at once (default GOMAXPROCS)")
	maxPlies      = flag.Int("max-plies", match.DefaultMaxPlies, "abandon games after this many plies")
	randomOpening = flag.Int("random-opening", 2, "random plies before the players take over")
	archive       = flag.Bool("archive", false, "store match games in the archive")
	stats         = flag.Bool("stats", false, "print archive statistics and exit")
)

func main() {
	flag.Parse()

	log := newLogger(envDefault(*logLevel, "BREAKTHROUGH_LOG"))

	// Start CPU profiling if requested (via flag or environment variable)
	if profilePath := envDefault(*cpuprofile, "CPUPROFILE"); profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("cpu-profile")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch {
	case *stats:
		err = printStats(log)
	case *games > 0:
		err = runMatch(ctx, log)
	default:
		err = runProtocol(ctx, log)
	}
	if err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("exit")
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			fmt.Fprintf(os.Stderr, "unknown log level %q, using info\n", level)
		} else {
			lvl = parsed
		}
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func envDefault(v, key string) string {
	if v != "" {
		return v
	}
	return os.Getenv(key)
}

func parseDifficulty(s string) (engine.Difficulty, error) {
	for _, d := range []engine.Difficulty{engine.Easy, engine.Medium, engine.Hard, engine.Expert} {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

func openArchive(log zerolog.Logger) (*storage.Storage, error) {
	dir := envDefault(*dbDir, "BREAKTHROUGH_DB")
	if dir == "" {
		var err error
		if dir, err = storage.GetDatabaseDir(); err != nil {
			return nil, err
		}
	}
	return storage.OpenWith(storage.Options{Dir: dir, Logger: log})
}

func runProtocol(ctx context.Context, log zerolog.Logger) error {
	d, err := parseDifficulty(*difficulty)
	if err != nil {
		return err
	}
	opts := engine.DefaultOptions()
	opts.HashMB = *hashMB
	opts.Difficulty = d
	opts.Logger = log

	return protocol.New(opts, os.Stdout).Run(ctx, os.Stdin)
}

func runMatch(ctx context.Context, log zerolog.Logger) error {
	w, err := match.ParsePlayer(*white)
	if err != nil {
		return err
	}
	b, err := match.ParsePlayer(*black)
	if err != nil {
		return err
	}
	if !w.Random {
		w.HashMB = *hashMB
	}
	if !b.Random {
		b.HashMB = *hashMB
	}

	opts := match.Options{
		White:         w,
		Black:         b,
		Concurrency:   *concurrency,
		MaxPlies:      *maxPlies,
		RandomOpening: *randomOpening,
		Logger:        log,
	}
	if *archive {
		store, err := openArchive(log)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Store = store
	}

	records, err := match.NewRunner(opts).Play(ctx, *games)
	if err != nil {
		return err
	}
	sum := match.Summarize(records)
	fmt.Printf("%s vs %s: %d games, white %d, black %d, unfinished %d, %.1f plies/game\n",
		w, b, sum.Games, sum.WhiteWins, sum.BlackWins, sum.Unfinished, sum.AveragePlies())
	return nil
}

func printStats(log zerolog.Logger) error {
	store, err := openArchive(log)
	if err != nil {
		return err
	}
	defer store.Close()

	s, err := store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Printf("games %d, white %d (%.1f%%), black %d, unfinished %d, %.1f plies/game\n",
		s.GamesPlayed, s.WhiteWins, s.WhiteWinRate(), s.BlackWins, s.Unfinished, s.AveragePlies())
	return nil
}
