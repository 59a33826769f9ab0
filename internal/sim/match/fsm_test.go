package match

import (
	"testing"

	"scrumcraft.ai/internal/sim/steering"
)

func TestFSM_PossessionBeatsEverything(t *testing.T) {
	m := newTestMatch(2)
	a := m.teams[0].Players[9]
	a.State = StateDefend
	m.ball.PickUp(a.ID, a.Pos)

	m.evaluateFSM(a)
	if a.State != StateCarry {
		t.Fatalf("state = %v, want carry", a.State)
	}
}

func TestFSM_TackleOnlyInOpenPlay(t *testing.T) {
	m := newTestMatch(2)
	carrier := m.teams[0].Players[10]
	defender := m.teams[1].Players[10]
	carrier.Pos = steering.Vec2{X: 60, Y: 35}
	defender.Pos = steering.Vec2{X: 61, Y: 35}
	m.ball.PickUp(carrier.ID, carrier.Pos)

	// Still in the kickoff pause: no tackle engagement.
	m.evaluateFSM(defender)
	if defender.State == StateTackle {
		t.Fatalf("tackle engaged outside open play")
	}

	m.phases.ForcePhase(PhaseOpenPlay, 1)
	m.evaluateFSM(defender)
	if defender.State != StateTackle {
		t.Fatalf("state = %v, want tackle within seek radius", defender.State)
	}
}

func TestFSM_OrderOverridesTable(t *testing.T) {
	m := newTestMatch(2)
	m.phases.ForcePhase(PhaseOpenPlay, 1)
	a := m.teams[0].Players[9]
	m.ball.PickUp(a.ID, a.Pos)

	a.order = "pass"
	m.evaluateFSM(a)
	if a.State != StatePass {
		t.Fatalf("state = %v, want pass from order", a.State)
	}
	if a.order != "" {
		t.Fatalf("order %q not consumed", a.order)
	}

	a.order = "kick"
	m.evaluateFSM(a)
	if a.State != StateKick {
		t.Fatalf("state = %v, want kick from order", a.State)
	}

	// Orders only bind the carrier; others fall through to the table.
	b := m.teams[0].Players[11]
	b.order = "pass"
	m.evaluateFSM(b)
	if b.State == StatePass {
		t.Fatalf("non-carrier took a pass order")
	}
	if b.order != "" {
		t.Fatalf("stale order %q kept", b.order)
	}
}

func TestFSM_ChaseGatedByDistance(t *testing.T) {
	m := newTestMatch(2)
	m.phases.ForcePhase(PhaseOpenPlay, 1)
	m.ball.Dislodge(steering.Vec2{X: 50, Y: 35})

	near := m.teams[1].Players[12]
	near.Pos = steering.Vec2{X: 55, Y: 35}
	near.State = StateIdle
	m.evaluateFSM(near)
	if near.State != StateChase {
		t.Fatalf("state = %v, want chase at 5 units", near.State)
	}

	far := m.teams[1].Players[13]
	far.Pos = steering.Vec2{X: 50, Y: 5}
	far.FormationTarget = far.Pos
	far.State = StateIdle
	m.evaluateFSM(far)
	if far.State == StateChase {
		t.Fatalf("chase engaged from beyond the radius")
	}
}
