package match

import "testing"

func TestClock_AcceleratedSeconds(t *testing.T) {
	// 60 / (1.5 * 10) = 4 game seconds per tick: one game minute per 15
	// ticks at the default rate.
	c := newClock(10, 40, 1.5)
	for i := 0; i < 15; i++ {
		c.Advance()
	}
	if c.Minutes() != 1 || c.Seconds() != 0 {
		t.Fatalf("after 15 ticks clock reads %d:%02d, want 1:00", c.Minutes(), c.Seconds())
	}
	c.Advance()
	if c.Minutes() != 1 || c.Seconds() != 4 {
		t.Fatalf("clock reads %d:%02d, want 1:04", c.Minutes(), c.Seconds())
	}
}

func TestClock_HalfExpiry(t *testing.T) {
	c := newClock(10, 1, 1.5) // one-minute halves, 4s per tick

	for i := 0; i < 14; i++ {
		c.Advance()
		if c.HalfExpired() {
			t.Fatalf("half expired after only %d ticks", i+1)
		}
	}
	c.Advance() // 15th tick: 60s
	if !c.HalfExpired() {
		t.Fatalf("half not expired at 60s")
	}

	c.StartSecondHalf()
	if c.Half() != 2 {
		t.Fatalf("half = %d, want 2", c.Half())
	}
	if c.HalfExpired() {
		t.Fatalf("second half expired immediately")
	}
	for i := 0; i < 15; i++ {
		c.Advance()
	}
	if !c.HalfExpired() {
		t.Fatalf("second half not expired at 120s")
	}
}
