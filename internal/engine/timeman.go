package engine

import (
	"context"
	"time"
)

// TimeManager decides whether another iterative deepening pass may start.
// It never interrupts a pass in progress.
type TimeManager struct {
	startTime time.Time
	deadline  time.Time // zero means no limit
	lastPass  time.Duration
}

// NewTimeManager creates a time manager for a search starting now. The
// earlier of moveTime and the context deadline applies.
func NewTimeManager(ctx context.Context, moveTime time.Duration) *TimeManager {
	tm := &TimeManager{startTime: time.Now()}
	if moveTime > 0 {
		tm.deadline = tm.startTime.Add(moveTime)
	}
	if d, ok := ctx.Deadline(); ok && (tm.deadline.IsZero() || d.Before(tm.deadline)) {
		tm.deadline = d
	}
	return tm
}

// Elapsed returns the time since the search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// PassDone records the end of a pass that started at start.
func (tm *TimeManager) PassDone(start time.Time) {
	tm.lastPass = time.Since(start)
}

// ShouldStop returns true if the deadline has passed or the remaining time
// is shorter than the last pass took. Deeper passes are never cheaper.
func (tm *TimeManager) ShouldStop() bool {
	if tm.deadline.IsZero() {
		return false
	}
	remaining := time.Until(tm.deadline)
	return remaining <= 0 || remaining < tm.lastPass
}
