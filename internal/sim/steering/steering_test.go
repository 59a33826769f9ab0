package steering

import (
	"math"
	"testing"
)

func TestSeek_PointsAtTargetAtFullSpeed(t *testing.T) {
	f := Seek(Vec2{0, 0}, Vec2{10, 0}, 4)
	if math.Abs(f.X-4) > 1e-9 || math.Abs(f.Y) > 1e-9 {
		t.Fatalf("seek force = %+v, want (4,0)", f)
	}
}

func TestArrive_DeceleratesInsideSlowRadius(t *testing.T) {
	far := Arrive(Vec2{0, 0}, Vec2{100, 0}, 4, 10)
	near := Arrive(Vec2{0, 0}, Vec2{5, 0}, 4, 10)
	if math.Abs(far.Len()-4) > 1e-9 {
		t.Fatalf("far arrive speed = %f, want 4", far.Len())
	}
	if math.Abs(near.Len()-2) > 1e-9 {
		t.Fatalf("near arrive speed = %f, want 2", near.Len())
	}
}

func TestSeparation_RepelsOnlyInsideDesiredDistance(t *testing.T) {
	f := Separation(Vec2{0, 0}, []Vec2{{1, 0}, {50, 0}}, 5, 3)
	if f.X >= 0 {
		t.Fatalf("separation should push away from near neighbour, got %+v", f)
	}
	none := Separation(Vec2{0, 0}, []Vec2{{50, 0}}, 5, 3)
	if none.Len() != 0 {
		t.Fatalf("no neighbour in range should mean zero force, got %+v", none)
	}
}

func TestFollowPath_AdvancesWaypointWithinReach(t *testing.T) {
	wps := []Vec2{{1, 0}, {10, 0}}
	_, idx := FollowPath(Vec2{0.5, 0}, wps, 0, 2, 4)
	if idx != 1 {
		t.Fatalf("waypoint index = %d, want 1", idx)
	}
}

func TestBlend_NeverExceedsCap(t *testing.T) {
	cases := [][]Weighted{
		{{Vec2{100, 0}, 1}},
		{{Vec2{3, 4}, 2}, {Vec2{-1, 7}, 5}},
		{{Vec2{0, 0}, 10}},
		{{Vec2{1e6, -1e6}, 1e3}, {Vec2{5, 5}, 0.1}},
	}
	for i, forces := range cases {
		got := Blend(forces, 6)
		if got.Len() > 6+1e-9 {
			t.Fatalf("case %d: blend magnitude %f exceeds cap", i, got.Len())
		}
	}
}

func TestBlend_ZeroCapYieldsZero(t *testing.T) {
	got := Blend([]Weighted{{Vec2{1, 1}, 1}}, 0)
	if got.Len() != 0 {
		t.Fatalf("zero cap should zero the force, got %+v", got)
	}
}

func TestPursue_LeadsMovingTarget(t *testing.T) {
	// Target moving +Y; pursuit should have a +Y component that plain seek lacks.
	p := Pursue(Vec2{0, 0}, Vec2{10, 0}, Vec2{0, 2}, 4)
	if p.Y <= 0 {
		t.Fatalf("pursue should lead the target, got %+v", p)
	}
}
