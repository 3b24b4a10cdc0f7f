// Package match plays self-play games between search strategies.
package match

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/breakthrough/internal/engine"
)

// Player describes one side of a match. Each game builds its own strategy
// from the description, so games never share a table.
type Player struct {
	Random   bool
	Depth    int
	MoveTime time.Duration
	HashMB   int
}

// ParsePlayer parses "random", "negamax" or "negamax:<depth>".
func ParsePlayer(s string) (Player, error) {
	name, arg, hasArg := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	switch name {
	case "random":
		if hasArg {
			return Player{}, fmt.Errorf("match: random takes no depth: %q", s)
		}
		return Player{Random: true}, nil
	case "negamax":
		p := Player{Depth: 4, HashMB: 16}
		if hasArg {
			d, err := strconv.Atoi(arg)
			if err != nil || d < 1 || d > engine.MaxDepth {
				return Player{}, fmt.Errorf("match: bad depth in %q", s)
			}
			p.Depth = d
		}
		return p, nil
	default:
		return Player{}, fmt.Errorf("match: unknown player %q", s)
	}
}

func (p Player) String() string {
	if p.Random {
		return "random"
	}
	return "negamax:" + strconv.Itoa(p.Depth)
}

func (p Player) limits() engine.SearchLimits {
	return engine.SearchLimits{Depth: p.Depth, MoveTime: p.MoveTime}
}

func (p Player) strategy(log zerolog.Logger) engine.Strategy {
	if p.Random {
		return engine.NewRandom(nil)
	}
	opts := engine.DefaultOptions()
	opts.HashMB = p.HashMB
	opts.Logger = log
	return engine.NewEngine(opts)
}
