// Package progress maps a project's time window to a completion percentage.
// Everything here is pure and safe to call any number of times.
package progress

import (
	"time"
)

// Complete is the progress of a project whose window has elapsed.
const Complete = 100.0

// Calculate returns clamp(0, 100, (now-start)/(end-start)*100). A degenerate
// window reports 100 once now reaches end and 0 before.
func Calculate(start, end, now time.Time) float64 {
	if !now.Before(end) {
		return Complete
	}
	total := end.Sub(start)
	if total <= 0 {
		return 0
	}
	elapsed := now.Sub(start)
	if elapsed <= 0 {
		return 0
	}
	p := float64(elapsed) / float64(total) * 100
	if p > Complete {
		return Complete
	}
	return p
}

// Due reports whether a project ending at end is eligible for completion.
func Due(end, now time.Time) bool {
	return !now.Before(end)
}

// Remaining is the time left until end, never negative.
func Remaining(end, now time.Time) time.Duration {
	if d := end.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Overdue reports whether the nominal deadline has passed while the project
// is still running.
func Overdue(deadline, end, now time.Time) bool {
	return now.After(deadline) && !Due(end, now)
}
