package match

import (
	"scrumcraft.ai/internal/protocol"
	"scrumcraft.ai/internal/sim/steering"
)

// stepInternal advances the world exactly one tick. System order is fixed:
// clock, advantage, the active phase, the director, agents, ball flight,
// position checks, then the single pending phase transition.
func (m *Match) stepInternal() {
	if m.matchOver {
		return
	}
	nowTick := m.tick.Add(1)

	m.systemClock()
	m.systemAdvantage()
	m.systemPhase(nowTick)
	m.systemDirector(nowTick)
	m.systemAgents()
	m.stepBall()
	m.systemPositionChecks()
	m.systemOffside()
	m.systemDropGoal()

	// Increment before applying the transition so the first tick inside a
	// new phase observes phaseTimer == 0.
	m.phaseTimer++
	m.applyPendingPhase(nowTick)

	if m.tickLogger != nil {
		m.tickLogger.WriteTick(TickLogEntry{
			Tick:   nowTick,
			Phase:  m.phases.Phase().String(),
			Events: append([]protocol.Event(nil), m.events...),
			Digest: m.StateDigest(),
		})
	}
}

// StepOnce advances a single tick and returns the events it produced. Test
// and replay entry point; the live loop drains events through fan-out
// instead.
func (m *Match) StepOnce() []protocol.Event {
	m.stepInternal()
	return m.DrainEvents()
}

func (m *Match) DrainEvents() []protocol.Event {
	if len(m.events) == 0 {
		return nil
	}
	out := append([]protocol.Event(nil), m.events...)
	m.events = m.events[:0]
	return out
}

// --- clock ---

func (m *Match) systemClock() {
	ph := m.phases.Phase()
	if ph == PhaseHalfTime || ph == PhaseFullTime {
		return
	}
	prevSec := m.clock.Minutes()*60 + m.clock.Seconds()
	m.clock.Advance()
	if sec := m.clock.Minutes()*60 + m.clock.Seconds(); sec != prevSec {
		m.emit(protocol.EvClockTick, protocol.ClockTick{
			GameMinutes: m.clock.Minutes(),
			GameSeconds: m.clock.Seconds(),
			Half:        m.clock.Half(),
		})
	}
	if m.clock.HalfExpired() {
		m.halfPending = true
	}
	// Time only stops at the next natural break in play.
	if m.halfPending && ph == PhaseOpenPlay {
		m.halfPending = false
		if m.clock.Half() == 1 {
			m.requestPhase(PhaseHalfTime, prioClock)
		} else {
			m.requestPhase(PhaseFullTime, prioClock)
		}
	}
}

// --- agents ---

// systemAgents runs the FSM and movement for every agent, home side first
// for a deterministic order.
func (m *Match) systemAgents() {
	for side := 0; side < 2; side++ {
		for _, a := range m.teams[side].Players {
			m.stepAgent(a)
		}
	}
}

func (m *Match) stepAgent(a *Agent) {
	if a.GroundedTicks > 0 {
		a.GroundedTicks--
		a.Vel = steering.Vec2{}
		if a.GroundedTicks == 0 {
			a.State = StateReturn
		}
		return
	}
	if a.StumbleTicks > 0 {
		a.StumbleTicks--
		a.Vel = a.Vel.Scale(0.8)
		a.Pos = a.Pos.Add(a.Vel)
		return
	}
	if a.BoundContest {
		a.Vel = steering.Vec2{}
		a.drainStamina()
		return
	}

	m.evaluateFSM(a)

	if a.Controlled && m.controlledPhaseOK() {
		maxSpd := a.maxSpeed()
		a.Vel = a.Intent.Truncate(1).Scale(maxSpd)
		if m.ball.State == BallLoose && a.Pos.Dist(m.ball.Pos) < 1.0 {
			m.pickUpLooseBall(a)
		}
	} else {
		m.updateAgent(a)
	}

	a.Pos = a.Pos.Add(a.Vel)
	m.clampAgent(a)
	a.drainStamina()
	if a.Stamina < 5 {
		a.Sprinting = false
	}
}

// controlledPhaseOK gates free human movement to open play and the chase
// after restarts; set pieces and contests ignore movement intent.
func (m *Match) controlledPhaseOK() bool {
	switch m.phases.Phase() {
	case PhaseOpenPlay, PhaseKickOff, PhaseTapAndGo:
		return true
	}
	return false
}

// clampAgent keeps players inside the playing area including the in-goals.
func (m *Match) clampAgent(a *Agent) {
	if a.Pos.X < -m.tun.InGoalDepth {
		a.Pos.X = -m.tun.InGoalDepth
	}
	if a.Pos.X > m.tun.FieldLength+m.tun.InGoalDepth {
		a.Pos.X = m.tun.FieldLength + m.tun.InGoalDepth
	}
	if a.Pos.Y < 0 {
		a.Pos.Y = 0
	}
	if a.Pos.Y > m.tun.FieldWidth {
		a.Pos.Y = m.tun.FieldWidth
	}
}

// --- ball ---

func (m *Match) stepBall() {
	switch m.ball.State {
	case BallCarried:
		c := m.carrier()
		if c == nil {
			m.ball.Dislodge(m.ball.Pos)
			return
		}
		prevX := m.ball.Pos.X
		m.ball.Pos = c.Pos
		gain := (m.ball.Pos.X - prevX) * attackDir(c.Side)
		if gain > 0 {
			m.stats[c.Side].MetresGained += gain
		}
		m.stats[c.Side].PossessionTicks++

	case BallPassing:
		m.ball.Pos = m.ball.Pos.Add(m.ball.Vel)
		recv := m.agent(m.ball.PassTarget)
		if recv == nil || !recv.upright() {
			m.ball.Dislodge(m.ball.Pos)
			return
		}
		if m.ball.Pos.Dist(recv.Pos) < 0.9 {
			m.resolveCatch(recv)
		} else if m.ball.Pos.Dist(recv.Pos) > 30 {
			// Pass sailed long past everyone.
			m.ball.Dislodge(m.ball.Pos)
		}

	case BallKicked:
		m.ball.Pos = m.ball.Pos.Add(m.ball.Vel)
		m.ball.Vel = m.ball.Vel.Scale(0.985)
		if m.ball.Vel.Len() < 0.3 {
			m.ball.Dislodge(m.ball.Pos)
		}

	case BallLoose:
		m.ball.Vel = m.ball.Vel.Scale(0.9)
		m.ball.Pos = m.ball.Pos.Add(m.ball.Vel)
	}
}

// resolveCatch rolls handling on arrival; a drop is a knock-on against the
// receiver.
func (m *Match) resolveCatch(recv *Agent) {
	p := 0.75 + recv.Attr.Handling/400
	if m.controllers[recv.Side] == "" {
		p += m.diff.PassBonus
	}
	if m.rng.Float64() < p {
		m.ball.PickUp(recv.ID, recv.Pos)
		m.restartSide = recv.Side
		return
	}
	if m.phases.Phase() == PhaseOpenPlay {
		m.declareKnockOn(recv)
	} else {
		m.ball.Dislodge(recv.Pos)
	}
}

// --- position checks ---

func (m *Match) systemPositionChecks() {
	ph := m.phases.Phase()
	if ph != PhaseOpenPlay && ph != PhaseKickOff && ph != PhaseTapAndGo {
		return
	}

	if c := m.carrier(); c != nil && ph == PhaseOpenPlay {
		// Grounding past the goal line scores.
		if (c.Pos.X-m.tryLineX(c.Side))*attackDir(c.Side) >= 0 {
			m.scoringSide = c.Side
			m.tryMark = c.Pos
			m.requestPhase(PhaseTryScored, prioScore)
			return
		}
		// Carried into touch: lineout, throw to the defenders.
		if c.Pos.Y <= 0 || c.Pos.Y >= m.tun.FieldWidth {
			m.intoTouch(c.Pos, 1-c.Side)
			return
		}
	}

	// Kicked or loose ball over the touchline.
	if !m.ball.HasCarrier() && (m.ball.Pos.Y <= 0 || m.ball.Pos.Y >= m.tun.FieldWidth) {
		throw := 1 - m.possessingSide()
		m.intoTouch(m.ball.Pos, throw)
		return
	}

	// Over the dead-ball line: pull it back into the in-goal and let the
	// chase decide.
	if m.ball.Pos.X < -m.tun.InGoalDepth || m.ball.Pos.X > m.tun.FieldLength+m.tun.InGoalDepth {
		pos := m.ball.Pos
		if pos.X < 0 {
			pos.X = -m.tun.InGoalDepth + 1
		} else {
			pos.X = m.tun.FieldLength + m.tun.InGoalDepth - 1
		}
		m.ball.Dislodge(pos)
	}
}

func (m *Match) intoTouch(at steering.Vec2, throwSide int) {
	m.emit(protocol.EvWhistle, protocol.Whistle{Kind: "touch"})
	mark := at
	m.clampToField(&mark)
	m.restartMark = mark
	m.restartSide = throwSide
	m.lineoutThrow = throwSide
	m.ball.Dislodge(mark)
	m.requestPhase(PhaseTouch, prioBall)
}

// --- offside ---

// systemOffside maintains the offside lines and walks straying defenders
// back onside. Loitering inside the contest zone risks a penalty.
func (m *Match) systemOffside() {
	switch {
	case m.ruck != nil:
		m.offside.setContest(m.ruck.Centre.X, m.tun.OffsideRuckRadius)
	case m.maul != nil:
		m.offside.setContest(m.maul.Centre.X, m.tun.OffsideRuckRadius)
	case m.scrum != nil:
		m.offside.setContest(m.scrum.Centre.X, m.tun.OffsideRuckRadius)
	case m.lineout != nil:
		m.offside.setContest(m.lineout.Mark.X, m.tun.OffsideRuckRadius)
	default:
		m.offside.collapse()
		return
	}

	for side := 0; side < 2; side++ {
		retreat := -attackDir(side)
		for _, a := range m.teams[side].Players {
			if a.BoundContest || !a.upright() || !m.offside.IsOffside(a) {
				continue
			}
			// Walked back by the referee; a slow retreat near a ruck can
			// still be pinged.
			a.Pos.X += retreat * 0.4
			if m.ruck != nil && m.rng.Float64() < 0.004 {
				m.awardPenalty(side, "offside", a.Pos, "minor")
			}
		}
	}
}

// --- drop goal ---

// systemDropGoal lets an AI carrier in the pocket snap a drop kick when the
// scoreline makes three points worth taking.
func (m *Match) systemDropGoal() {
	if m.phases.Phase() != PhaseOpenPlay {
		return
	}
	c := m.carrier()
	if c == nil || m.controllers[c.Side] != "" || c.Attr.Kicking < 55 {
		return
	}
	dist := absf(c.Pos.X - m.tryLineX(c.Side))
	if dist > 28 {
		return
	}
	diff := m.score[c.Side] - m.score[1-c.Side]
	lateAndTight := m.clock.Half() == 2 && diff <= 0 && diff >= -3
	deepPhases := m.phases.PhaseCount() > 6
	if !lateAndTight && !deepPhases {
		return
	}
	if m.rng.Float64() > 0.01 {
		return
	}
	m.dropKicker = c.ID
	m.goalKickSide = c.Side
	m.goalKickDist = dist
	m.requestPhase(PhaseDropGoal, prioContest)
}

// --- pending transition ---

func (m *Match) applyPendingPhase(nowTick uint64) {
	if !m.hasPendingPhase {
		return
	}
	to := m.pendingPhase
	m.hasPendingPhase = false
	m.pendingPhasePrio = 0
	if !m.phases.Transition(to, nowTick) {
		// A rejected tackle request must not leave its result pending, or
		// beginTackle's guard swallows every tackle that follows.
		if to == PhaseTackle {
			m.tackleResult = nil
		}
		return
	}
	if to == PhaseFullTime {
		m.matchOver = true
		m.clearContests()
		m.ball.Dislodge(m.ball.Pos)
		m.emit(protocol.EvFullTime, m.Result())
		m.emit(protocol.EvWhistle, protocol.Whistle{Kind: "full_time"})
	}
}
