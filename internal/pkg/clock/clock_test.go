package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFake_Advance(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewFake(start)
	tk := c.NewTicker(time.Minute)

	c.Advance(30 * time.Second)
	assert.Equal(t, start.Add(30*time.Second), c.Now())
	select {
	case <-tk.C():
		t.Fatal("ticker fired early")
	default:
	}

	c.Advance(30 * time.Second)
	select {
	case got := <-tk.C():
		assert.Equal(t, start.Add(time.Minute), got)
	default:
		t.Fatal("ticker did not fire")
	}
}

func TestFake_StoppedTickerDoesNotFire(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	tk := c.NewTicker(time.Second)
	tk.Stop()

	c.Advance(5 * time.Second)
	select {
	case <-tk.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestFake_DropsTicksForSlowReaders(t *testing.T) {
	c := NewFake(time.Unix(0, 0))
	tk := c.NewTicker(time.Second)

	c.Advance(10 * time.Second)
	assert.Len(t, tk.C(), 1)
}
