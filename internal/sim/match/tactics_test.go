package match

import (
	"testing"

	"scrumcraft.ai/internal/sim/steering"
)

func TestRiskAppetite_TrailingLateRaisesAggression(t *testing.T) {
	m := newTestMatch(1)
	tm := m.teams[0]
	tm.Aggression = 0.5

	m.clock.gameSeconds = 65 * 60 // 15 minutes left
	m.score = [2]int{0, 7}
	m.updateRiskAppetite(tm)
	if tm.Aggression <= 0.5 {
		t.Fatalf("aggression = %.2f, want > 0.5 when trailing late", tm.Aggression)
	}
}

func TestRiskAppetite_Clamps(t *testing.T) {
	m := newTestMatch(1)
	tm := m.teams[0]

	m.clock.gameSeconds = 75 * 60
	m.score = [2]int{0, 20}
	tm.Aggression = 0.99
	for i := 0; i < 10; i++ {
		m.updateRiskAppetite(tm)
	}
	if tm.Aggression > 1 {
		t.Fatalf("aggression = %.2f exceeds 1", tm.Aggression)
	}

	// Comfortable lead shrinks appetite down to the floor.
	m.score = [2]int{30, 0}
	tm.Aggression = 0.15
	for i := 0; i < 10; i++ {
		m.updateRiskAppetite(tm)
	}
	if tm.Aggression < 0.1 {
		t.Fatalf("aggression = %.2f below floor", tm.Aggression)
	}
	if tm.Aggression != 0.1 {
		t.Fatalf("aggression = %.2f, want clamped to 0.1", tm.Aggression)
	}
}

func TestDetectPattern_ThreeOfFive(t *testing.T) {
	tm := &Team{}
	tm.recordOpponentCall("box_kick")
	tm.recordOpponentCall("crash_ball")
	tm.recordOpponentCall("box_kick")
	if call, ok := tm.detectPattern(); ok {
		t.Fatalf("pattern %q detected from two repeats", call)
	}
	tm.recordOpponentCall("box_kick")
	call, ok := tm.detectPattern()
	if !ok || call != "box_kick" {
		t.Fatalf("pattern = %q ok=%v, want box_kick", call, ok)
	}

	// The window only holds the last five calls, so the repeats age out.
	for i := 0; i < 5; i++ {
		tm.recordOpponentCall("wide_spin")
		tm.recordOpponentCall("crash_ball")
	}
	if len(tm.oppCalls) != 5 {
		t.Fatalf("window size = %d, want 5", len(tm.oppCalls))
	}
	if call, ok := tm.detectPattern(); ok && call == "box_kick" {
		t.Fatalf("stale call still detected")
	}
}

func TestRuckCommitment_Bounds(t *testing.T) {
	m := newTestMatch(1)
	tm := m.teams[0]

	// Max aggression defending near the own line wants 6 but caps at 5.
	tm.Aggression = 1.0
	tm.Formation = FormationStandard
	m.ball.Pos = steering.Vec2{X: 10, Y: 35} // side 0 defends X=0
	m.adjustRuckCommitment(tm, false)
	if tm.RuckCommit != m.tun.Ruck.CommitCap {
		t.Fatalf("commit = %d, want cap %d", tm.RuckCommit, m.tun.Ruck.CommitCap)
	}

	// Low aggression blitzing far from the line floors at 1.
	tm.Aggression = 0.1
	tm.Formation = FormationBlitz
	m.ball.Pos = steering.Vec2{X: 80, Y: 35}
	m.adjustRuckCommitment(tm, false)
	if tm.RuckCommit < 1 {
		t.Fatalf("commit = %d, below floor", tm.RuckCommit)
	}
}

func TestDefensiveShape_BlitzWhenPinned(t *testing.T) {
	m := newTestMatch(1)
	tm := m.teams[0]
	tm.Aggression = 0.5

	m.ball.Pos = steering.Vec2{X: 5, Y: 35} // deep in side 0's territory
	m.chooseDefensiveShape(tm)
	if tm.Formation != FormationBlitz {
		t.Fatalf("formation = %v, want blitz near own line", tm.Formation)
	}

	m.ball.Pos = steering.Vec2{X: 60, Y: 35}
	m.chooseDefensiveShape(tm)
	if tm.Formation == FormationBlitz {
		t.Fatalf("blitz held with the ball at midfield")
	}
}

func TestThinkInterval_HumansSkipReactionDelay(t *testing.T) {
	m := newTestMatch(1)
	ai := m.thinkInterval(0)
	m.controllers[0] = "session-1"
	human := m.thinkInterval(0)
	if human >= ai {
		t.Fatalf("human interval %d not shorter than AI interval %d", human, ai)
	}
	if human != uint64(m.tun.ThinkIntervalTicks) {
		t.Fatalf("human interval = %d, want %d", human, m.tun.ThinkIntervalTicks)
	}
}
