package match

import "testing"

func TestPhaseMachine_RejectsTransitionsOutsideTable(t *testing.T) {
	fired := 0
	m := NewPhaseMachine(func(from, to Phase) { fired++ })

	if m.Transition(PhaseRuck, 5) {
		t.Fatalf("KICK_OFF -> RUCK should be rejected")
	}
	if m.Phase() != PhaseKickOff {
		t.Fatalf("rejected transition mutated phase to %v", m.Phase())
	}
	if m.StartTick() != 0 {
		t.Fatalf("rejected transition mutated start tick")
	}
	if fired != 0 {
		t.Fatalf("rejected transition fired %d notifications", fired)
	}
}

func TestPhaseMachine_AcceptsTableTransitions(t *testing.T) {
	var last [2]Phase
	m := NewPhaseMachine(func(from, to Phase) { last = [2]Phase{from, to} })

	if !m.Transition(PhaseOpenPlay, 3) {
		t.Fatalf("KICK_OFF -> OPEN_PLAY should be allowed")
	}
	if m.Phase() != PhaseOpenPlay || m.StartTick() != 3 {
		t.Fatalf("phase=%v startTick=%d", m.Phase(), m.StartTick())
	}
	if last != [2]Phase{PhaseKickOff, PhaseOpenPlay} {
		t.Fatalf("notification = %v", last)
	}
}

func TestPhaseMachine_FullTimeIsTerminal(t *testing.T) {
	m := NewPhaseMachine(nil)
	m.ForcePhase(PhaseFullTime, 100)
	for p := PhaseKickOff; p <= PhaseFullTime; p++ {
		if m.Transition(p, 101) {
			t.Fatalf("FULL_TIME allowed a transition to %v", p)
		}
	}
}

func TestPhaseMachine_ForcePhaseBypassesValidation(t *testing.T) {
	m := NewPhaseMachine(nil)
	m.ForcePhase(PhaseScrum, 9)
	if m.Phase() != PhaseScrum || m.StartTick() != 9 {
		t.Fatalf("force phase failed: %v @ %d", m.Phase(), m.StartTick())
	}
}

func TestPhaseMachine_PhaseCounterCycle(t *testing.T) {
	m := NewPhaseMachine(nil)

	cycle := func() {
		if !m.Transition(PhaseOpenPlay, 1) {
			t.Fatalf("to open play from %v", m.Phase())
		}
		if !m.Transition(PhaseTackle, 2) {
			t.Fatalf("to tackle")
		}
		if !m.Transition(PhaseRuck, 3) {
			t.Fatalf("to ruck")
		}
	}

	// KICK_OFF -> OPEN_PLAY -> TACKLE -> RUCK -> OPEN_PLAY: one increment.
	cycle()
	m.Transition(PhaseOpenPlay, 4)
	if m.PhaseCount() != 1 {
		t.Fatalf("phase count = %d, want 1", m.PhaseCount())
	}

	// Second recycle increments again.
	m.Transition(PhaseTackle, 5)
	m.Transition(PhaseRuck, 6)
	m.Transition(PhaseOpenPlay, 7)
	if m.PhaseCount() != 2 {
		t.Fatalf("phase count = %d, want 2", m.PhaseCount())
	}

	// Any restart phase resets to zero.
	m.Transition(PhaseTackle, 8)
	m.Transition(PhaseRuck, 9)
	m.Transition(PhaseScrum, 10)
	if m.PhaseCount() != 0 {
		t.Fatalf("phase count after scrum = %d, want 0", m.PhaseCount())
	}
}
