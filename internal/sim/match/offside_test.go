package match

import (
	"testing"

	"scrumcraft.ai/internal/sim/steering"
)

func TestOffside_CollapsedLinesNeverBind(t *testing.T) {
	o := newOffsideTracker(100)
	for _, x := range []float64{0, 10, 50, 90, 100} {
		a0 := &Agent{Side: 0, Pos: steering.Vec2{X: x, Y: 35}}
		a1 := &Agent{Side: 1, Pos: steering.Vec2{X: x, Y: 35}}
		if o.IsOffside(a0) || o.IsOffside(a1) {
			t.Fatalf("offside at x=%.0f with collapsed lines", x)
		}
	}
}

func TestOffside_ContestLines(t *testing.T) {
	o := newOffsideTracker(100)
	o.setContest(50, 2.5)

	if got := o.Line(0); got != 47.5 {
		t.Fatalf("line[0] = %.1f, want 47.5", got)
	}
	if got := o.Line(1); got != 52.5 {
		t.Fatalf("line[1] = %.1f, want 52.5", got)
	}

	// Side 0 attacks +X: ahead of the near edge is offside.
	if o.IsOffside(&Agent{Side: 0, Pos: steering.Vec2{X: 47}}) {
		t.Fatalf("side 0 behind its line judged offside")
	}
	if !o.IsOffside(&Agent{Side: 0, Pos: steering.Vec2{X: 49}}) {
		t.Fatalf("side 0 past its line not judged offside")
	}
	// Mirrored for side 1 attacking -X.
	if o.IsOffside(&Agent{Side: 1, Pos: steering.Vec2{X: 53}}) {
		t.Fatalf("side 1 behind its line judged offside")
	}
	if !o.IsOffside(&Agent{Side: 1, Pos: steering.Vec2{X: 51}}) {
		t.Fatalf("side 1 past its line not judged offside")
	}

	o.collapse()
	if o.IsOffside(&Agent{Side: 0, Pos: steering.Vec2{X: 99}}) {
		t.Fatalf("collapse did not clear the side 0 line")
	}
}
