package engine

import (
	"time"

	"github.com/hailam/breakthrough/internal/board"
)

// TimeManager decides how long a search may run.
type TimeManager struct {
	optimumTime time.Duration // start no new depth past this
	maximumTime time.Duration // abort the running depth past this
	startTime   time.Time
	limited     bool
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init starts the clock for a search by us at game ply.
func (tm *TimeManager) Init(limits SearchLimits, us board.Color, ply uint32) {
	tm.startTime = time.Now()
	tm.limited = true

	// Fixed move time
	if limits.MoveTime > 0 {
		tm.optimumTime = limits.MoveTime / 2
		tm.maximumTime = limits.MoveTime
		return
	}

	timeLeft := limits.Time[us]
	if timeLeft <= 0 {
		tm.limited = false
		tm.optimumTime = 0
		tm.maximumTime = 0
		return
	}

	// Breakthrough games rarely last past 80 plies; budget for the mover's
	// share of what is likely left.
	mtg := 30 - int(ply)/4
	if mtg < 8 {
		mtg = 8
	}

	base := timeLeft/time.Duration(mtg) + limits.Inc[us]*9/10
	tm.optimumTime = base
	tm.maximumTime = min(base*4, timeLeft*8/10)

	if tm.optimumTime < 10*time.Millisecond {
		tm.optimumTime = 10 * time.Millisecond
	}
	if tm.maximumTime < 20*time.Millisecond {
		tm.maximumTime = 20 * time.Millisecond
	}
}

// Limited reports whether the search runs against a clock at all.
func (tm *TimeManager) Limited() bool {
	return tm.limited
}

// Elapsed returns the time since Init.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// MaximumTime returns the hard limit.
func (tm *TimeManager) MaximumTime() time.Duration {
	return tm.maximumTime
}

// PastOptimum reports whether another depth should not be started.
func (tm *TimeManager) PastOptimum() bool {
	return tm.limited && tm.Elapsed() >= tm.optimumTime
}

// AdjustForStability shortens the soft limit when the best move has held for
// several consecutive depths.
func (tm *TimeManager) AdjustForStability(stability int) {
	switch {
	case stability >= 6:
		tm.optimumTime = tm.optimumTime * 40 / 100
	case stability >= 4:
		tm.optimumTime = tm.optimumTime * 60 / 100
	case stability >= 2:
		tm.optimumTime = tm.optimumTime * 80 / 100
	}
}
