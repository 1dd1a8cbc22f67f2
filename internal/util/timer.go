package util

import "time"

// Timer measures wall time from the moment it was started.
type Timer struct {
	start time.Time
}

// StartTimer returns a timer anchored at now.
func StartTimer() Timer {
	return Timer{start: time.Now()}
}

// Elapsed reports the duration since start, or zero for an unstarted timer.
func (t Timer) Elapsed() time.Duration {
	if t.start.IsZero() {
		return 0
	}
	return time.Since(t.start)
}

// ElapsedMs is Elapsed in whole milliseconds, the unit used in log fields.
func (t Timer) ElapsedMs() int64 {
	return t.Elapsed().Milliseconds()
}
