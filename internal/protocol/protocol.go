// Package protocol implements a line-oriented text protocol for driving the
// engine from another program or a terminal.
package protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/hailam/breakthrough/internal/board"
	"github.com/hailam/breakthrough/internal/engine"
)

var errUsage = errors.New("usage")

// Handler reads commands and writes responses. Searches run in the
// background so "stop" can interrupt them; every other command waits for a
// running search to finish first.
type Handler struct {
	opts    engine.Options
	eng     *engine.Engine
	pos     board.Position
	zobrist *board.Zobrist
	log     zerolog.Logger

	mu  sync.Mutex // serialises writes to out
	out io.Writer

	searchDone   chan struct{}
	cancelSearch context.CancelFunc
}

// New creates a handler that writes to out. The engine is built from opts and
// rebuilt when the table size changes.
func New(opts engine.Options, out io.Writer) *Handler {
	return &Handler{
		opts:    opts,
		eng:     engine.NewEngine(opts),
		pos:     board.NewPosition(),
		zobrist: board.NewZobrist(board.DefaultZobristSeed),
		log:     opts.Logger,
		out:     out,
	}
}

// Position returns the current position.
func (h *Handler) Position() board.Position {
	h.wait()
	return h.pos
}

// Run processes commands from in until "quit", end of input or ctx is done.
// At end of input a running search is allowed to finish; "quit" stops it.
func (h *Handler) Run(ctx context.Context, in io.Reader) error {
	defer h.wait()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if quit := h.Execute(ctx, scanner.Text()); quit {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs one command line and reports whether it was "quit".
func (h *Handler) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "stop":
		h.stop()
		return false
	case "quit":
		h.stop()
		return true
	}
	h.wait()

	var err error
	switch cmd {
	case "isready":
		h.println("readyok")
	case "newgame":
		h.handleNewGame()
	case "position":
		err = h.handlePosition(args)
	case "go":
		err = h.handleGo(ctx, args)
	case "moves":
		h.handleMoves()
	case "d":
		h.handleDisplay()
	case "perft":
		err = h.handlePerft(args)
	case "eval":
		h.handleEval()
	case "hash":
		h.handleHash()
	case "setoption":
		err = h.handleSetOption(args)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		h.log.Debug().Err(err).Str("line", line).Msg("command-rejected")
		h.printf("info string %v\n", err)
	}
	return false
}

func (h *Handler) printf(format string, args ...any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.out, format, args...)
}

func (h *Handler) println(s string) {
	h.printf("%s\n", s)
}

func (h *Handler) handleNewGame() {
	h.eng.Clear()
	h.pos = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos [moves a2a3 h7h6 ...]
//   - position board <cells> <w|b> <ply> [moves ...]
//
// cells is the 64-character board, rank 8 first, or eight 8-character row
// tokens. On error the current position is kept.
func (h *Handler) handlePosition(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: position startpos|board ... [moves ...]", errUsage)
	}

	var pos board.Position
	var rest []string
	switch args[0] {
	case "startpos":
		pos, rest = board.NewPosition(), args[1:]
	case "board":
		i := 1
		for i < len(args) && !isSide(args[i]) {
			i++
		}
		if i+1 >= len(args) {
			return fmt.Errorf("%w: position board <cells> <w|b> <ply>", errUsage)
		}
		side, err := board.ParseColor(args[i])
		if err != nil {
			return err
		}
		ply, err := strconv.ParseUint(args[i+1], 10, 32)
		if err != nil {
			return fmt.Errorf("bad ply %q", args[i+1])
		}
		if pos, err = board.ParseBoard(strings.Join(args[1:i], ""), side, uint32(ply)); err != nil {
			return err
		}
		rest = args[i+2:]
	default:
		return fmt.Errorf("%w: position startpos|board ... [moves ...]", errUsage)
	}

	if len(rest) > 0 {
		if rest[0] != "moves" {
			return fmt.Errorf("unexpected %q", rest[0])
		}
		for _, s := range rest[1:] {
			m, err := board.ParseMove(s)
			if err != nil {
				return err
			}
			if pos, err = pos.Play(m); err != nil {
				return err
			}
		}
	}

	h.pos = pos
	return nil
}

func isSide(s string) bool {
	switch strings.ToLower(s) {
	case "w", "b", "white", "black":
		return true
	}
	return false
}

// parseGoOptions reads "depth N", "movetime ms", "wtime ms", "btime ms",
// "winc ms" and "binc ms".
func parseGoOptions(args []string) (engine.SearchLimits, error) {
	var limits engine.SearchLimits
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			return limits, fmt.Errorf("%w: %s needs a value", errUsage, args[i])
		}
		n, err := strconv.Atoi(args[i+1])
		if err != nil || n < 0 {
			return limits, fmt.Errorf("bad %s value %q", args[i], args[i+1])
		}
		ms := time.Duration(n) * time.Millisecond
		switch args[i] {
		case "depth":
			limits.Depth = n
		case "movetime":
			limits.MoveTime = ms
		case "wtime":
			limits.Time[board.White] = ms
		case "btime":
			limits.Time[board.Black] = ms
		case "winc":
			limits.Inc[board.White] = ms
		case "binc":
			limits.Inc[board.Black] = ms
		default:
			return limits, fmt.Errorf("unknown go option %q", args[i])
		}
	}
	return limits, nil
}

func (h *Handler) handleGo(ctx context.Context, args []string) error {
	limits, err := parseGoOptions(args)
	if err != nil {
		return err
	}
	if h.pos.IsTerminal() {
		h.printf("info string game over: %v\n", h.pos.Result())
		h.println("bestmove 0000")
		return nil
	}

	pos, eng := h.pos, h.eng
	searchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	h.cancelSearch, h.searchDone = cancel, done
	eng.OnInfo = func(info engine.SearchInfo) {
		h.sendInfo(pos, info)
	}

	go func() {
		defer close(done)
		defer cancel()

		result, err := eng.Think(searchCtx, pos, limits)
		if err != nil && !errors.Is(err, context.Canceled) {
			h.printf("info string %v\n", err)
		}
		h.printf("bestmove %s\n", result.Move)
	}()
	return nil
}

// sendInfo prints one completed iteration.
func (h *Handler) sendInfo(pos board.Position, info engine.SearchInfo) {
	var score string
	switch info.Eval.Kind {
	case engine.KindWinA:
		score = fmt.Sprintf("win %d", info.Eval.Ply-pos.Ply)
	case engine.KindWinB:
		score = fmt.Sprintf("loss %d", info.Eval.Ply-pos.Ply)
	default:
		score = fmt.Sprintf("cp %d", info.Eval.Score)
	}

	parts := []string{
		fmt.Sprintf("info depth %d", info.Depth),
		"score " + score,
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}
	if info.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %d", uint64(float64(info.Nodes)/info.Time.Seconds())))
	}
	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}
	if len(info.PV) > 0 {
		parts = append(parts, "pv "+moveString(info.PV))
	}
	h.println(strings.Join(parts, " "))
}

func moveString(moves []board.Move) string {
	return strings.Join(lo.Map(moves, func(m board.Move, _ int) string { return m.String() }), " ")
}

// stop interrupts a running search and waits for its bestmove.
func (h *Handler) stop() {
	if h.cancelSearch != nil {
		h.cancelSearch()
	}
	h.wait()
}

func (h *Handler) wait() {
	if h.searchDone != nil {
		<-h.searchDone
		h.searchDone = nil
		h.cancelSearch = nil
	}
}

func (h *Handler) handleMoves() {
	if h.pos.IsTerminal() {
		h.println("moves")
		return
	}
	moves := h.pos.LegalMoves()
	if len(moves) == 0 {
		h.println("moves")
		return
	}
	h.println("moves " + moveString(moves))
}

func (h *Handler) handleDisplay() {
	h.println(h.pos.String())
	h.printf("side %s ply %d\n", h.pos.SideToMove, h.pos.Ply)
	h.printf("result %s\n", h.pos.Result())
	h.printf("zobrist %016x\n", h.zobrist.Hash(h.pos))
}

func (h *Handler) handlePerft(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: perft <depth>", errUsage)
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 0 || depth > 8 {
		return fmt.Errorf("bad perft depth %q", args[0])
	}

	start := time.Now()
	var nodes uint64
	if depth == 0 || h.pos.IsTerminal() {
		nodes = board.Perft(h.pos, depth)
	} else {
		for _, m := range h.pos.LegalMoves() {
			n := board.Perft(h.pos.ApplyMove(m), depth-1)
			h.printf("%s: %d\n", m, n)
			nodes += n
		}
	}
	h.printf("nodes %d time %d\n", nodes, time.Since(start).Milliseconds())
	return nil
}

func (h *Handler) handleEval() {
	eval := engine.Evaluate(h.pos)
	h.printf("eval %s (%s)\n", eval, eval.Describe(h.pos.Ply, h.pos.SideToMove, h.pos.SideToMove.Other()))
	if fast, ok := engine.FastWin(h.pos); ok {
		h.printf("info string %s promotes next move (%s)\n", h.pos.SideToMove, fast)
	}
}

func (h *Handler) handleHash() {
	tt := h.eng.Table()
	stats := tt.Stats()
	h.printf("hash capacity %d occupied %d collisions %d hashfull %d hitrate %.1f\n",
		stats.Capacity, stats.Occupied, stats.Collisions, tt.HashFull(), tt.HitRate())
}

// handleSetOption handles "setoption name <name> value <value>" for Hash
// (megabytes) and Difficulty (easy, medium, hard, expert).
func (h *Handler) handleSetOption(args []string) error {
	var name, value []string
	var cur *[]string
	for _, arg := range args {
		switch arg {
		case "name":
			cur = &name
		case "value":
			cur = &value
		default:
			if cur == nil {
				return fmt.Errorf("%w: setoption name <name> value <value>", errUsage)
			}
			*cur = append(*cur, arg)
		}
	}

	v := strings.Join(value, " ")
	switch strings.ToLower(strings.Join(name, " ")) {
	case "hash":
		mb, err := strconv.Atoi(v)
		if err != nil || mb < 0 || mb > 4096 {
			return fmt.Errorf("bad hash size %q", v)
		}
		h.opts.HashMB = mb
		h.opts.Difficulty = h.eng.Difficulty()
		h.eng = engine.NewEngine(h.opts)
	case "difficulty":
		for _, d := range []engine.Difficulty{engine.Easy, engine.Medium, engine.Hard, engine.Expert} {
			if strings.EqualFold(v, d.String()) {
				h.eng.SetDifficulty(d)
				return nil
			}
		}
		return fmt.Errorf("unknown difficulty %q", v)
	default:
		return fmt.Errorf("unknown option %q", strings.Join(name, " "))
	}
	return nil
}
