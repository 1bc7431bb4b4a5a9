package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	tests := []struct {
		name string
		now  time.Time
		want float64
	}{
		{name: "before start", now: start.Add(-time.Minute), want: 0},
		{name: "at start", now: start, want: 0},
		{name: "one third", now: start.Add(10 * time.Minute), want: 100.0 / 3},
		{name: "half way", now: start.Add(15 * time.Minute), want: 50},
		{name: "at end", now: end, want: 100},
		{name: "after end", now: end.Add(time.Hour), want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Calculate(start, end, tt.now), 1e-9)
		})
	}
}

func TestCalculate_DegenerateWindow(t *testing.T) {
	at := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 0.0, Calculate(at, at.Add(-time.Minute), at.Add(-2*time.Minute)))
	assert.Equal(t, 100.0, Calculate(at, at, at))
}

func TestCalculate_MonotonicAndBounded(t *testing.T) {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	windows := []time.Duration{time.Second, 15 * time.Minute, 7 * time.Hour, 36 * time.Hour}

	for _, w := range windows {
		end := start.Add(w)
		prev := -1.0
		for now := start.Add(-w / 4); now.Before(end.Add(w / 4)); now = now.Add(w / 97) {
			p := Calculate(start, end, now)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 100.0)
			assert.GreaterOrEqual(t, p, prev, "progress went backwards at %v", now)
			prev = p
		}
	}
}

func TestDueRemainingOverdue(t *testing.T) {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	deadline := start.Add(30 * time.Minute)
	end := start.Add(60 * time.Minute)

	now := start.Add(45 * time.Minute)
	assert.False(t, Due(end, now))
	assert.Equal(t, 15*time.Minute, Remaining(end, now))
	assert.True(t, Overdue(deadline, end, now))

	now = end
	assert.True(t, Due(end, now))
	assert.Equal(t, time.Duration(0), Remaining(end, now))
	assert.False(t, Overdue(deadline, end, now))
}
