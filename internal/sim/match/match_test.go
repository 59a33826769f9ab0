package match

import (
	"testing"

	"scrumcraft.ai/internal/protocol"
	"scrumcraft.ai/internal/sim/steering"
	"scrumcraft.ai/internal/sim/tuning"
)

func newTestMatch(seed int64) *Match {
	return New(Config{
		MatchID:    "test-match",
		Seed:       seed,
		Home:       protocol.TeamSnapshot{Name: "Home"},
		Away:       protocol.TeamSnapshot{Name: "Away"},
		Difficulty: tuning.DefaultDifficulty(),
	})
}

func TestMatch_KickOffReachesOpenPlay(t *testing.T) {
	m := newTestMatch(11)
	if m.Phase() != PhaseKickOff {
		t.Fatalf("initial phase = %v, want kick off", m.Phase())
	}
	for i := 0; i < 60; i++ {
		m.StepOnce()
		if m.Phase() == PhaseOpenPlay {
			return
		}
	}
	t.Fatalf("still in %v after 60 ticks", m.Phase())
}

func TestMatch_SameSeedSameDigests(t *testing.T) {
	a := newTestMatch(7)
	b := newTestMatch(7)
	for i := 0; i < 600; i++ {
		a.StepOnce()
		b.StepOnce()
		da, db := a.StateDigest(), b.StateDigest()
		if da != db {
			t.Fatalf("digests diverge at tick %d: %s vs %s", i+1, da, db)
		}
	}
	if a.StateDigest() == "" {
		t.Fatalf("empty digest")
	}
}

func TestMatch_TryConversionRestart(t *testing.T) {
	m := newTestMatch(3)
	m.phases.ForcePhase(PhaseOpenPlay, 0)

	scorer := m.teams[0].Players[11]
	scorer.Pos = steering.Vec2{X: m.tun.FieldLength + 0.5, Y: 30}
	m.ball.PickUp(scorer.ID, scorer.Pos)

	sawTry := false
	for i := 0; i < 200; i++ {
		for _, ev := range m.StepOnce() {
			if ev.Type == protocol.EvScore {
				sawTry = true
			}
		}
		if m.Phase() == PhaseKickOff {
			break
		}
	}

	if m.Phase() != PhaseKickOff {
		t.Fatalf("never restarted, stuck in %v", m.Phase())
	}
	if !sawTry {
		t.Fatalf("no score event emitted")
	}
	if got := m.Score()[0]; got != PointsTry && got != PointsTry+PointsConversion {
		t.Fatalf("home score = %d, want 5 or 7", got)
	}
	if m.kickingSide != 1 {
		t.Fatalf("kicking side = %d, conceding side should restart", m.kickingSide)
	}
	if len(m.timeline) == 0 || m.timeline[0].Kind != "try" {
		t.Fatalf("timeline = %+v, want a leading try entry", m.timeline)
	}
	if m.stats[0].Tries != 1 {
		t.Fatalf("tries = %d, want 1", m.stats[0].Tries)
	}
}

func TestMatch_KnockOnGivesScrumToOtherSide(t *testing.T) {
	m := newTestMatch(5)
	m.phases.ForcePhase(PhaseOpenPlay, 0)

	offender := m.teams[0].Players[9]
	offender.Pos = steering.Vec2{X: 60, Y: 35}
	m.declareKnockOn(offender)

	m.StepOnce()
	if m.Phase() != PhaseKnockOn {
		t.Fatalf("phase = %v, want knock on stoppage", m.Phase())
	}

	for i := 0; i < 60 && m.Phase() != PhaseScrum; i++ {
		m.StepOnce()
	}
	if m.Phase() != PhaseScrum {
		t.Fatalf("phase = %v, want scrum", m.Phase())
	}
	m.StepOnce() // scrum setup happens on the first tick in-phase
	if m.scrum == nil {
		t.Fatalf("no scrum formed")
	}
	if m.scrum.FeedingSide != 1 {
		t.Fatalf("feeding side = %d, want the non-offending side", m.scrum.FeedingSide)
	}
}

func TestMatch_AdvantageOverPenalty(t *testing.T) {
	m := newTestMatch(9)
	m.phases.ForcePhase(PhaseOpenPlay, 0)

	// Side 1 infringes while side 0 has the ball: play on under advantage.
	carrier := m.teams[0].Players[12]
	carrier.Pos = steering.Vec2{X: 50, Y: 35}
	m.ball.PickUp(carrier.ID, carrier.Pos)
	m.awardPenalty(1, "ruck_infringement", carrier.Pos, "minor")

	if m.penalty == nil || !m.penalty.Advantage {
		t.Fatalf("expected advantage to be played, got %+v", m.penalty)
	}
	if m.Phase() != PhaseOpenPlay {
		t.Fatalf("play stopped immediately: %v", m.Phase())
	}

	// Carry it past the gain line and the penalty is waived.
	carrier.Pos.X = 50 + m.tun.AdvantageGain + 1
	m.ball.Pos = carrier.Pos
	m.systemAdvantage()
	if m.penalty != nil {
		t.Fatalf("advantage gained but penalty still pending")
	}
}

func TestMatch_PenaltyStopsDeadBallPlay(t *testing.T) {
	m := newTestMatch(9)
	m.phases.ForcePhase(PhaseOpenPlay, 0)

	// No carrier for the non-offending side: whistle straight away.
	m.ball.Dislodge(steering.Vec2{X: 40, Y: 30})
	m.awardPenalty(0, "offside", steering.Vec2{X: 40, Y: 30}, "minor")
	m.StepOnce()
	if m.Phase() != PhasePenalty {
		t.Fatalf("phase = %v, want penalty stoppage", m.Phase())
	}
	if m.penalty == nil || m.penalty.OffendingSide != 0 {
		t.Fatalf("penalty record = %+v", m.penalty)
	}
}

func TestMatch_TackleContactDuringStoppageIgnored(t *testing.T) {
	m := newTestMatch(13)
	m.phases.ForcePhase(PhaseOpenPlay, 0)

	carrier := m.teams[0].Players[10]
	carrier.Pos = steering.Vec2{X: 50, Y: 35}
	m.ball.PickUp(carrier.ID, carrier.Pos)
	tackler := m.teams[1].Players[10]
	tackler.Pos = carrier.Pos

	// Whistle has gone; contact during the stoppage must not resolve.
	m.phases.ForcePhase(PhasePenalty, 1)
	m.DrainEvents()
	m.beginTackle(tackler, carrier)
	if m.tackleResult != nil {
		t.Fatalf("tackle resolved during a stoppage: %+v", m.tackleResult)
	}
	if m.hasPendingPhase {
		t.Fatalf("stoppage contact queued a phase request")
	}
	for _, ev := range m.DrainEvents() {
		if ev.Type == protocol.EvTackle {
			t.Fatalf("tackle event emitted during a stoppage")
		}
	}

	// Back in open play the same contact resolves normally.
	m.phases.ForcePhase(PhaseOpenPlay, 2)
	m.beginTackle(tackler, carrier)
	saw := false
	for _, ev := range m.DrainEvents() {
		if ev.Type == protocol.EvTackle {
			saw = true
		}
	}
	if !saw {
		t.Fatalf("open-play tackle did not resolve after the stoppage")
	}
}

func TestMatch_RejectedTackleRequestClearsPending(t *testing.T) {
	m := newTestMatch(17)
	m.phases.ForcePhase(PhasePenalty, 0)

	// A tackle request the table rejects must not strand its result, or
	// every later tackle is swallowed by beginTackle's guard.
	m.tackleResult = &pendingTackle{TacklerID: "h5", CarrierID: "a12"}
	m.requestPhase(PhaseTackle, prioContest)
	m.applyPendingPhase(1)

	if m.Phase() != PhasePenalty {
		t.Fatalf("phase = %v, rejected transition should not apply", m.Phase())
	}
	if m.tackleResult != nil {
		t.Fatalf("pending tackle survived its rejected phase request")
	}
}

func TestMatch_RunsToFullTime(t *testing.T) {
	cfg := Config{
		MatchID:    "full-match",
		Seed:       42,
		Home:       protocol.TeamSnapshot{Name: "Home"},
		Away:       protocol.TeamSnapshot{Name: "Away"},
		Tuning:     tuning.Default(),
		Difficulty: tuning.DefaultDifficulty(),
	}
	cfg.Tuning.HalfMinutes = 5
	m := New(cfg)

	const maxTicks = 20000
	ticks := 0
	for ; ticks < maxTicks && !m.Over(); ticks++ {
		m.StepOnce()
	}
	if !m.Over() {
		t.Fatalf("match not over after %d ticks, phase %v", maxTicks, m.Phase())
	}
	if m.Phase() != PhaseFullTime {
		t.Fatalf("final phase = %v", m.Phase())
	}

	res := m.Result()
	if res.Ticks == 0 || res.HomeScore < 0 || res.AwayScore < 0 {
		t.Fatalf("result = %+v", res)
	}
	if m.clock.Half() != 2 {
		t.Fatalf("half = %d, second half never started", m.clock.Half())
	}

	// Stepping a finished match is a no-op.
	tick := m.Tick()
	m.StepOnce()
	if m.Tick() != tick {
		t.Fatalf("tick advanced after full time")
	}
}
