package match

import (
	"scrumcraft.ai/internal/protocol"
	"scrumcraft.ai/internal/sim/contest"
	"scrumcraft.ai/internal/sim/steering"
)

const (
	tackleContactRadius = 1.2
	supportDepth        = 3.0
	passSpeed           = 1.2
	separationDistance  = 2.5
)

// updateAgent runs the current state's behaviour, producing a velocity for
// this tick. Bound and floored agents are handled by the caller.
func (m *Match) updateAgent(a *Agent) {
	maxSpd := a.maxSpeed()

	switch a.State {
	case StateCarry:
		m.updateCarry(a, maxSpd)

	case StatePass:
		m.performPass(a)
		a.State = StateSupport
		a.Vel = steering.Vec2{}

	case StateKick:
		m.performPunt(a)
		a.State = StateChase
		a.Vel = steering.Vec2{}

	case StateSupport:
		c := m.carrier()
		if c == nil {
			a.State = StateReturn
			a.Vel = steering.Vec2{}
			return
		}
		// Trail the carrier: behind in the attack direction, offset to the
		// agent's formation lane.
		behind := c.Pos
		behind.X -= attackDir(a.Side) * supportDepth
		behind.Y = (behind.Y + a.FormationTarget.Y) / 2
		a.Vel = steering.Blend([]steering.Weighted{
			{Force: steering.Arrive(a.Pos, behind, maxSpd, 3), Weight: 1},
			{Force: steering.Separation(a.Pos, m.teammatePositions(a), separationDistance, maxSpd), Weight: 0.6},
		}, maxSpd)

	case StateDefend:
		target := a.FormationTarget
		if m.teams[a.Side].Formation == FormationBlitz {
			// Blitz pushes the line up hard at the ball.
			target.X = m.ball.Pos.X
		}
		a.Vel = steering.Blend([]steering.Weighted{
			{Force: steering.Arrive(a.Pos, target, maxSpd, 2), Weight: 1},
			{Force: steering.Separation(a.Pos, m.teammatePositions(a), separationDistance, maxSpd), Weight: 0.4},
		}, maxSpd)

	case StateChase:
		a.Vel = steering.Blend([]steering.Weighted{
			{Force: steering.Pursue(a.Pos, m.ball.Pos, m.ball.Vel, maxSpd), Weight: 1},
		}, maxSpd)
		if m.ball.State == BallLoose && a.Pos.Dist(m.ball.Pos) < 1.0 && a.upright() {
			m.pickUpLooseBall(a)
		}

	case StateTackle:
		// Entry is open-play-only but the state can outlive a stoppage
		// whistle; stand down until the restart re-sorts roles.
		if m.phases.Phase() != PhaseOpenPlay {
			a.State = StateReturn
			a.Vel = steering.Vec2{}
			return
		}
		c := m.carrier()
		if c == nil {
			a.State = StateChase
			a.Vel = steering.Vec2{}
			return
		}
		a.Sprinting = a.Stamina > 20
		a.Vel = steering.Blend([]steering.Weighted{
			{Force: steering.Pursue(a.Pos, c.Pos, c.Vel, maxSpd), Weight: 1},
		}, maxSpd)
		if a.Pos.Dist(c.Pos) < tackleContactRadius {
			m.beginTackle(a, c)
		}

	case StateBindRuck:
		if m.ruck == nil || m.ruck.Resolved() {
			a.State = StateReturn
			a.Vel = steering.Vec2{}
			return
		}
		a.Vel = steering.Arrive(a.Pos, m.ruck.Centre, maxSpd, 1).Truncate(maxSpd)
		if a.Pos.Dist(m.ruck.Centre) < ruckBindRadius {
			if m.ruck.Commit(m.tun.Ruck, a.Side, a.ID, a.Attr.Strength, a.Attr.WorkRate) {
				a.BoundContest = true
				a.Vel = steering.Vec2{}
			} else {
				a.State = StateReturn
			}
		}

	case StateBindMaul:
		if m.maul == nil || m.maul.Resolved() {
			a.State = StateReturn
			a.Vel = steering.Vec2{}
			return
		}
		a.Vel = steering.Arrive(a.Pos, m.maul.Centre, maxSpd, 1).Truncate(maxSpd)
		if a.Pos.Dist(m.maul.Centre) < maulBindRadius {
			if m.maul.Bind(a.Side, a.ID, a.Attr.Strength) {
				a.BoundContest = true
				a.Vel = steering.Vec2{}
			} else {
				a.State = StateReturn
			}
		}

	case StateReturn, StateIdle, StateSetPiece:
		a.Sprinting = false
		a.Vel = steering.Arrive(a.Pos, a.FormationTarget, maxSpd, 2).Truncate(maxSpd)

	case StateCelebrate:
		a.Sprinting = false
		a.Vel = steering.Vec2{}
	}
}

func (m *Match) updateCarry(a *Agent, maxSpd float64) {
	// Run at the opposition goal line, bending away from the nearest
	// defenders.
	goal := steering.Vec2{X: m.tryLineX(a.Side), Y: a.Pos.Y}
	threats := m.opponentPositionsNear(a, 8)
	a.Sprinting = len(threats) == 0 && a.Stamina > 30
	a.Fending = false
	if len(threats) > 0 && a.Attr.Strength > 60 {
		a.Fending = true
	}
	a.Vel = steering.Blend([]steering.Weighted{
		{Force: steering.Seek(a.Pos, goal, maxSpd), Weight: 1},
		{Force: steering.AvoidObstacles(a.Pos, threats, 5, maxSpd), Weight: 0.8},
	}, maxSpd)
}

// teammatePositions excludes the agent itself.
func (m *Match) teammatePositions(a *Agent) []steering.Vec2 {
	out := make([]steering.Vec2, 0, 14)
	for _, p := range m.teams[a.Side].Players {
		if p.ID == a.ID || !p.upright() {
			continue
		}
		out = append(out, p.Pos)
	}
	return out
}

func (m *Match) opponentPositionsNear(a *Agent, radius float64) []steering.Vec2 {
	var out []steering.Vec2
	for _, p := range m.teams[1-a.Side].Players {
		if !p.upright() {
			continue
		}
		if a.Pos.Dist(p.Pos) < radius {
			out = append(out, p.Pos)
		}
	}
	return out
}

// tryLineX is the goal line the side scores over.
func (m *Match) tryLineX(side int) float64 {
	if side == 0 {
		return m.tun.FieldLength
	}
	return 0
}

func (m *Match) pickUpLooseBall(a *Agent) {
	if !m.ball.PickUp(a.ID, a.Pos) {
		return
	}
	m.restartSide = a.Side
}

// performPass offloads to the best supporting teammate behind the carrier.
// The completion roll happens when the ball arrives (stepBall).
func (m *Match) performPass(a *Agent) {
	recv := m.bestReceiver(a)
	if recv == nil {
		return
	}
	dir := recv.Pos.Sub(a.Pos).Norm()
	m.ball.Pos = a.Pos
	m.ball.StartPass(recv.ID, dir.Scale(passSpeed))
	m.emit(protocol.EvPass, protocol.PassEvent{FromID: a.ID, ToID: recv.ID})
}

// bestReceiver picks the closest upright teammate who is not ahead of the
// ball (a forward pass is never offered).
func (m *Match) bestReceiver(a *Agent) *Agent {
	var best *Agent
	bestD := 1e18
	dir := attackDir(a.Side)
	for _, p := range m.teams[a.Side].Players {
		if p.ID == a.ID || !p.upright() || p.BoundContest {
			continue
		}
		if (p.Pos.X-a.Pos.X)*dir > 0.5 {
			continue
		}
		d := a.Pos.Dist(p.Pos)
		if d < 1 || d > 18 {
			continue
		}
		if d < bestD {
			bestD = d
			best = p
		}
	}
	return best
}

// performPunt kicks long down the attack direction, biased toward touch
// when the play calls for territory.
func (m *Match) performPunt(a *Agent) {
	dir := attackDir(a.Side)
	dist := 18 + a.Attr.Kicking/4 // 18..43 units
	spread := (m.rng.Float64()*2 - 1) * (12 - a.Attr.Kicking/10) * (2 - m.diff.KickAccuracy)
	target := steering.Vec2{X: a.Pos.X + dir*dist, Y: a.Pos.Y + spread}
	vel := target.Sub(a.Pos).Norm().Scale(2.2)
	m.ball.Pos = a.Pos
	m.ball.KickRelease(vel)
	m.emit(protocol.EvKick, protocol.KickEvent{KickerID: a.ID, Kind: "punt", TargetX: target.X, TargetY: target.Y})
}

// beginTackle resolves the collision and queues its phase consequence. The
// resolver outcome decides between ruck, maul window, and play-on.
func (m *Match) beginTackle(tackler, carrier *Agent) {
	if m.tackleResult != nil || m.phases.Phase() != PhaseOpenPlay {
		return
	}
	res := contest.ResolveTackle(m.rng, m.tun.Tackle, contest.TackleInput{
		TacklerTackling:  tackler.Attr.Tackling,
		TacklerStrength:  tackler.Attr.Strength,
		CarrierStrength:  carrier.Attr.Strength,
		CarrierSpeed:     carrier.Attr.Speed,
		CarrierSprinting: carrier.Sprinting,
		CarrierFending:   carrier.Fending,
		TackleBonus:      m.tackleBonus(tackler.Side),
	})
	m.emit(protocol.EvTackle, protocol.Tackle{
		TacklerID: tackler.ID,
		CarrierID: carrier.ID,
		Outcome:   res.Outcome.String(),
	})

	switch res.Outcome {
	case contest.TackleMissed:
		tackler.StumbleTicks = 20
		m.stats[tackler.Side].TacklesMissed++
		return
	case contest.TackleFendOff:
		tackler.StumbleTicks = 20
		carrier.Stamina -= 5
		if carrier.Stamina < 0 {
			carrier.Stamina = 0
		}
		m.stats[tackler.Side].TacklesMissed++
		return
	}

	m.stats[tackler.Side].TacklesMade++
	m.tackleResult = &pendingTackle{TacklerID: tackler.ID, CarrierID: carrier.ID, Result: res}
	m.requestPhase(PhaseTackle, prioContest)
}

// tackleBonus applies the difficulty edge to the AI side only.
func (m *Match) tackleBonus(side int) float64 {
	if m.controllers[side] != "" {
		return 0
	}
	return m.diff.TackleBonus
}
