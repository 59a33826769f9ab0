package match

import (
	"testing"

	"scrumcraft.ai/internal/sim/steering"
)

func TestBall_SingleCarrier(t *testing.T) {
	var b Ball
	if !b.PickUp("T1-09", steering.Vec2{X: 50, Y: 35}) {
		t.Fatalf("pickup of a loose ball refused")
	}
	if !b.HasCarrier() || b.Carrier != "T1-09" {
		t.Fatalf("carrier = %q state = %v", b.Carrier, b.State)
	}

	// A second agent cannot take it off the carrier.
	if b.PickUp("T2-07", steering.Vec2{X: 50, Y: 35}) {
		t.Fatalf("pickup succeeded while someone else carried")
	}
	if b.Carrier != "T1-09" {
		t.Fatalf("carrier changed to %q", b.Carrier)
	}

	// The carrier re-asserting possession is a no-op, not a failure.
	if !b.PickUp("T1-09", steering.Vec2{X: 51, Y: 35}) {
		t.Fatalf("carrier's own pickup refused")
	}
}

func TestBall_TransfersClearCarrier(t *testing.T) {
	var b Ball
	b.PickUp("T1-10", steering.Vec2{X: 40, Y: 30})

	b.StartPass("T1-12", steering.Vec2{X: -1, Y: 2})
	if b.HasCarrier() || b.Carrier != "" {
		t.Fatalf("pass left carrier = %q", b.Carrier)
	}
	if b.State != BallPassing || b.PassTarget != "T1-12" {
		t.Fatalf("state = %v target = %q", b.State, b.PassTarget)
	}

	b.PickUp("T1-12", steering.Vec2{X: 39, Y: 32})
	b.KickRelease(steering.Vec2{X: 3, Y: 0})
	if b.HasCarrier() || b.PassTarget != "" {
		t.Fatalf("kick left carrier = %q target = %q", b.Carrier, b.PassTarget)
	}
	if b.State != BallKicked {
		t.Fatalf("state = %v, want kicked", b.State)
	}

	b.Dislodge(steering.Vec2{X: 55, Y: 20})
	if b.State != BallLoose || b.Carrier != "" {
		t.Fatalf("dislodge: state = %v carrier = %q", b.State, b.Carrier)
	}
	if b.Vel != (steering.Vec2{}) {
		t.Fatalf("dislodged ball kept velocity %+v", b.Vel)
	}
}
