package match

import (
	"scrumcraft.ai/internal/protocol"
	"scrumcraft.ai/internal/sim/contest"
	"scrumcraft.ai/internal/sim/steering"
)

// Phase request priorities. When several triggers fire in one tick the
// highest wins; the rest wait or dissolve.
const (
	prioScore   = 100
	prioClock   = 90
	prioPenalty = 85
	prioContest = 80
	prioBall    = 70
	prioRestart = 60
)

const (
	groundedTicksAfterTackle = 25
	restartPauseTicks        = 20
	conversionPauseTicks     = 30
	halfTimePauseTicks       = 50
)

// systemPhase advances whatever the current phase owns: contest resolvers
// only run while their phase is active.
func (m *Match) systemPhase(nowTick uint64) {
	switch m.phases.Phase() {
	case PhaseKickOff:
		m.tickKickOff()
	case PhaseTackle:
		m.tickTackle()
	case PhaseRuck:
		m.tickRuck()
	case PhaseMaul:
		m.tickMaul()
	case PhaseScrum:
		m.tickScrum()
	case PhaseLineout:
		m.tickLineout()
	case PhasePenalty:
		m.tickPenalty()
	case PhaseTapAndGo:
		m.tickTapAndGo()
	case PhaseTryScored:
		m.tickTryScored()
	case PhaseConversion:
		m.tickGoalKick()
	case PhaseDropGoal:
		m.tickDropGoal()
	case PhaseKnockOn:
		m.tickKnockOn()
	case PhaseTouch:
		m.tickTouch()
	case PhaseHalfTime:
		m.tickHalfTime()
	case PhaseFullTime:
		// Terminal; nothing moves.
	}
}

// --- kick off ---

func (m *Match) setupKickOff() {
	m.clearContests()
	m.penalty = nil
	centre := steering.Vec2{X: m.tun.FieldLength / 2, Y: m.tun.FieldWidth / 2}
	m.ball.Dislodge(centre)
	m.restartSide = m.kickingSide

	for side := 0; side < 2; side++ {
		dir := attackDir(side)
		for i, p := range m.teams[side].Players {
			depth := 8 + float64(i%5)*4
			p.FormationTarget = steering.Vec2{
				X: centre.X - dir*depth,
				Y: m.tun.FieldWidth * (0.15 + 0.7*float64(i)/14),
			}
			m.clampToField(&p.FormationTarget)
			p.Pos = p.FormationTarget
			p.Vel = steering.Vec2{}
			p.State = StateSetPiece
			p.GroundedTicks = 0
			p.StumbleTicks = 0
			p.BoundContest = false
		}
	}
}

func (m *Match) tickKickOff() {
	if m.phaseTimer == 0 && m.tick.Load() > 0 {
		m.setupKickOff()
		m.emit(protocol.EvWhistle, protocol.Whistle{Kind: "kick_off"})
	}
	if m.phaseTimer < restartPauseTicks {
		return
	}
	// The kicking side hoists it deep into the receiving half.
	dir := attackDir(m.kickingSide)
	drop := steering.Vec2{
		X: m.tun.FieldLength/2 + dir*(15+m.rng.Float64()*15),
		Y: m.tun.FieldWidth * (0.25 + m.rng.Float64()*0.5),
	}
	m.ball.Dislodge(drop)
	m.restartSide = 1 - m.kickingSide
	m.requestPhase(PhaseOpenPlay, prioRestart)
}

// --- tackle aftermath ---

func (m *Match) tickTackle() {
	if m.tackleResult == nil {
		// Nothing pending: fall through the ruck path, which reopens play.
		m.requestPhase(PhaseRuck, prioContest)
		return
	}
	pt := m.tackleResult
	tackler := m.agent(pt.TacklerID)
	carrier := m.agent(pt.CarrierID)
	if tackler == nil || carrier == nil {
		m.tackleResult = nil
		return
	}

	switch pt.Result.Outcome {
	case contest.TackleHeldUp:
		if m.heldUp == nil {
			m.heldUp = &heldUpWindow{
				CarrierID: pt.CarrierID,
				TacklerID: pt.TacklerID,
				TicksLeft: m.tun.Maul.JoinWindowTicks,
			}
		}
		if sup := m.nearestSupporter(carrier, tackler); sup != nil {
			m.formMaul(carrier, tackler, sup)
			m.tackleResult = nil
			m.heldUp = nil
			return
		}
		m.heldUp.TicksLeft--
		if m.heldUp.TicksLeft <= 0 {
			// No support arrived: the carrier goes to ground after all.
			m.groundCarrier(carrier, tackler, false)
			m.formRuck(carrier.Pos, carrier.Side, 0)
			m.tackleResult = nil
			m.heldUp = nil
		}

	case contest.TackleDominant:
		m.groundCarrier(carrier, tackler, true)
		if m.rng.Float64() < 0.25 {
			// Ball spills forward off the carrier.
			m.declareKnockOn(carrier)
			m.tackleResult = nil
			return
		}
		// Dominant hit: the ruck starts on the back foot.
		m.formRuck(carrier.Pos, carrier.Side, -1)
		m.tackleResult = nil

	default: // normal
		m.groundCarrier(carrier, tackler, false)
		m.formRuck(carrier.Pos, carrier.Side, 0)
		m.tackleResult = nil
	}
}

func (m *Match) groundCarrier(carrier, tackler *Agent, dislodged bool) {
	carrier.GroundedTicks = groundedTicksAfterTackle
	carrier.Sprinting = false
	tackler.GroundedTicks = groundedTicksAfterTackle / 2
	if dislodged {
		m.ball.Dislodge(carrier.Pos)
	} else {
		// Presented for the ruck: still the attacking side's ball.
		m.ball.Dislodge(carrier.Pos)
		m.restartSide = carrier.Side
	}
}

// nearestSupporter finds an upright teammate of the carrier close enough to
// bind a maul.
func (m *Match) nearestSupporter(carrier, tackler *Agent) *Agent {
	var best *Agent
	bestD := maulBindRadius
	for _, p := range m.teams[carrier.Side].Players {
		if p.ID == carrier.ID || !p.upright() || p.BoundContest {
			continue
		}
		d := p.Pos.Dist(carrier.Pos)
		if d < bestD {
			bestD = d
			best = p
		}
	}
	return best
}

// --- ruck ---

func (m *Match) formRuck(centre steering.Vec2, attackingSide int, initialDominance float64) {
	m.ruck = contest.NewRuck(centre, attackingSide)
	m.ruck.Dominance = initialDominance
	m.restartSide = attackingSide
	m.requestPhase(PhaseRuck, prioContest)
	m.emit(protocol.EvRuckFormed, protocol.RuckUpdate{
		X: centre.X, Y: centre.Y, AttackingTeam: m.teamName(attackingSide),
	})
}

func (m *Match) tickRuck() {
	if m.ruck == nil {
		m.requestPhase(PhaseOpenPlay, prioContest)
		return
	}
	r := m.ruck
	switch r.Step(m.rng, m.tun.Ruck, m.contestMultiplier(1-r.AttackingSide)) {
	case contest.RuckBallAvailable:
		m.stats[r.AttackingSide].RucksWon++
		m.emit(protocol.EvRuckBallAvail, protocol.RuckUpdate{
			X: r.Centre.X, Y: r.Centre.Y, AttackingTeam: m.teamName(r.AttackingSide),
		})
		m.releaseRuckBall(r.AttackingSide, r.Centre)

	case contest.RuckTurnover:
		m.stats[1-r.AttackingSide].RucksLost++
		m.stats[r.AttackingSide].RucksWon++
		m.emit(protocol.EvRuckTurnover, protocol.RuckUpdate{
			X: r.Centre.X, Y: r.Centre.Y, AttackingTeam: m.teamName(r.AttackingSide),
		})
		m.releaseRuckBall(r.AttackingSide, r.Centre)

	case contest.RuckInfringement:
		m.awardPenalty(r.InfringingSide, "ruck_infringement", r.Centre, "minor")

	case contest.RuckTimeout:
		m.emit(protocol.EvRuckTimeout, protocol.RuckUpdate{X: r.Centre.X, Y: r.Centre.Y})
		m.restartMark = r.Centre
		m.restartSide = r.AttackingSide
		m.clearContests()
		m.requestPhase(PhaseScrum, prioContest)
	}
}

// releaseRuckBall hands the emerging ball to the closest unbound attacker
// and reopens play.
func (m *Match) releaseRuckBall(side int, centre steering.Vec2) {
	recv := m.nearestUnbound(side, centre)
	m.clearContests()
	if recv != nil {
		recv.Pos = centre.Add(steering.Vec2{X: -attackDir(side) * 1.5})
		m.ball.PickUp(recv.ID, recv.Pos)
	} else {
		m.ball.Dislodge(centre)
		m.restartSide = side
	}
	m.requestPhase(PhaseOpenPlay, prioContest)
}

func (m *Match) nearestUnbound(side int, from steering.Vec2) *Agent {
	var best *Agent
	bestD := 1e18
	for _, p := range m.teams[side].Players {
		if !p.upright() || p.BoundContest {
			continue
		}
		d := p.Pos.Dist(from)
		if d < bestD {
			bestD = d
			best = p
		}
	}
	return best
}

// --- maul ---

func (m *Match) formMaul(carrier, tackler, supporter *Agent) {
	m.maul = contest.NewMaul(
		carrier.Pos, carrier.Side, attackDir(carrier.Side),
		carrier.ID, tackler.ID, supporter.ID,
		carrier.Attr.Strength, tackler.Attr.Strength, supporter.Attr.Strength,
	)
	m.maulStartX = carrier.Pos.X
	for _, a := range []*Agent{carrier, tackler, supporter} {
		a.BoundContest = true
		a.Vel = steering.Vec2{}
	}
	m.requestPhase(PhaseMaul, prioContest)
	m.emit(protocol.EvMaulFormed, protocol.MaulUpdate{
		X: carrier.Pos.X, Y: carrier.Pos.Y, AttackingTeam: m.teamName(carrier.Side),
	})
}

func (m *Match) tickMaul() {
	if m.maul == nil {
		m.requestPhase(PhaseOpenPlay, prioContest)
		return
	}
	ml := m.maul

	// The carrying side releases once the drive has made good ground or
	// the shove is about to turn.
	gained := (ml.Centre.X - m.maulStartX) * ml.AttackDir
	if gained > 8 || (gained > 2 && ml.Ratio() < 1.0) {
		ml.Release()
		m.releaseRuckBall(ml.AttackingSide, ml.Centre)
		return
	}

	switch ml.Step(m.tun.Maul) {
	case contest.MaulDriving:
		m.ball.Pos = ml.Centre
		m.stats[ml.AttackingSide].MetresGained += m.tun.Maul.BaseSpeed
		for _, id := range ml.BoundIDs() {
			if a := m.agent(id); a != nil {
				a.Pos.X = ml.Centre.X
			}
		}
		m.emit(protocol.EvMaulDriving, protocol.MaulUpdate{
			X: ml.Centre.X, Y: ml.Centre.Y, AttackingTeam: m.teamName(ml.AttackingSide),
		})
		// Driven over the line: a maul try.
		if (ml.Centre.X-m.tryLineX(ml.AttackingSide))*ml.AttackDir >= 0 {
			m.scoringSide = ml.AttackingSide
			m.tryMark = ml.Centre
			m.clearContests()
			m.requestPhase(PhaseTryScored, prioScore)
		}

	case contest.MaulCollapsed:
		m.emit(protocol.EvMaulCollapsed, protocol.MaulUpdate{
			X: ml.Centre.X, Y: ml.Centre.Y, AttackingTeam: m.teamName(ml.AttackingSide),
		})
		m.restartMark = ml.Centre
		m.restartSide = 1 - ml.AttackingSide // scrum to the defence
		m.clearContests()
		m.requestPhase(PhaseScrum, prioContest)
	}
}

// --- penalties & advantage ---

// awardPenalty either starts advantage for the non-offending side or stops
// play immediately when no advantage is possible.
func (m *Match) awardPenalty(offendingSide int, reason string, loc steering.Vec2, severity string) {
	rec := &PenaltyRecord{
		Reason:         reason,
		Severity:       severity,
		Loc:            loc,
		OffendingSide:  offendingSide,
		BallXAtOffence: m.ball.Pos.X,
	}
	m.stats[offendingSide].Penalties++

	// Advantage only makes sense when the non-offending side can play on
	// with the ball in hand.
	if c := m.carrier(); c != nil && c.Side != offendingSide && m.phases.Phase() == PhaseOpenPlay {
		rec.Advantage = true
		rec.TicksLeft = m.tun.AdvantageTicks
		m.penalty = rec
		m.emit(protocol.EvAdvantage, protocol.Advantage{Team: m.teamName(1 - offendingSide), Status: "playing"})
		return
	}

	m.penalty = rec
	m.stopForPenalty(rec)
}

func (m *Match) stopForPenalty(rec *PenaltyRecord) {
	m.emit(protocol.EvWhistle, protocol.Whistle{Kind: "penalty"})
	m.emit(protocol.EvPenaltyAwarded, protocol.PenaltyAwarded{
		X: rec.Loc.X, Y: rec.Loc.Y,
		Reason:        rec.Reason,
		AgainstAttack: rec.OffendingSide == m.possessingSide(),
		Severity:      rec.Severity,
	})
	m.restartMark = rec.Loc
	m.restartSide = 1 - rec.OffendingSide
	m.clearContests()
	m.requestPhase(PhasePenalty, prioPenalty)
}

// systemAdvantage runs the 10-unit advantage check during open play.
func (m *Match) systemAdvantage() {
	rec := m.penalty
	if rec == nil || !rec.Advantage {
		return
	}
	if m.phases.Phase() != PhaseOpenPlay {
		return
	}
	if rec.advantageGained(m.ball.Pos.X, m.tun.AdvantageGain) {
		m.emit(protocol.EvAdvantage, protocol.Advantage{Team: m.teamName(1 - rec.OffendingSide), Status: "gained"})
		m.penalty = nil
		return
	}
	rec.TicksLeft--
	if rec.TicksLeft <= 0 {
		m.emit(protocol.EvAdvantage, protocol.Advantage{Team: m.teamName(1 - rec.OffendingSide), Status: "brought_back"})
		rec.Advantage = false
		m.stopForPenalty(rec)
	}
}

// tickPenalty waits for the whistle pause, then takes the option the
// director likes: shot at goal, kick to the corner, tap, or scrum.
func (m *Match) tickPenalty() {
	if m.phaseTimer < restartPauseTicks {
		return
	}
	rec := m.penalty
	if rec == nil {
		m.requestPhase(PhaseTapAndGo, prioRestart)
		return
	}
	side := 1 - rec.OffendingSide
	t := m.teams[side]
	postsDist := absf(rec.Loc.X - m.tryLineX(side))
	m.penalty = nil

	switch {
	case postsDist < 35 && t.Aggression < 0.75:
		m.goalKickKind = "penalty_goal"
		m.goalKickSide = side
		m.goalKickDist = postsDist
		m.requestPhase(PhaseConversion, prioRestart)
	case t.Aggression > 0.85:
		m.restartMark = rec.Loc
		m.restartSide = side
		m.requestPhase(PhaseTapAndGo, prioRestart)
	case m.rng.Float64() < 0.15:
		m.restartMark = rec.Loc
		m.restartSide = side
		m.requestPhase(PhaseScrum, prioRestart)
	default:
		// Kick to touch: march it downfield, keep the throw.
		mark := rec.Loc
		mark.X += attackDir(side) * (12 + m.rng.Float64()*8)
		mark.Y = 1
		m.clampToField(&mark)
		m.restartMark = mark
		m.restartSide = side
		m.lineoutThrow = side
		m.requestPhase(PhaseLineout, prioRestart)
	}
}

func (m *Match) tickTapAndGo() {
	if m.phaseTimer < restartPauseTicks/2 {
		return
	}
	taker := m.nearestUnbound(m.restartSide, m.restartMark)
	if taker != nil {
		taker.Pos = m.restartMark
		m.ball.PickUp(taker.ID, taker.Pos)
	} else {
		m.ball.Dislodge(m.restartMark)
	}
	m.requestPhase(PhaseOpenPlay, prioRestart)
}

// --- scores ---

func (m *Match) tickTryScored() {
	if m.phaseTimer == 0 {
		m.addScore(m.scoringSide, "try", PointsTry)
		m.emit(protocol.EvWhistle, protocol.Whistle{Kind: "try"})
		for _, p := range m.teams[m.scoringSide].Players {
			if p.upright() && !p.BoundContest {
				p.State = StateCelebrate
			}
		}
	}
	if m.phaseTimer < conversionPauseTicks {
		return
	}
	m.goalKickKind = "conversion"
	m.goalKickSide = m.scoringSide
	m.goalKickDist = 12 + absf(m.tryMark.Y-m.tun.FieldWidth/2)/2
	m.requestPhase(PhaseConversion, prioRestart)
}

// tickGoalKick resolves a conversion or penalty shot at goal.
func (m *Match) tickGoalKick() {
	if m.phaseTimer < conversionPauseTicks {
		return
	}
	kicker := m.bestKicker(m.goalKickSide)
	skill := 50.0
	kickerID := ""
	if kicker != nil {
		skill = kicker.Attr.Kicking
		kickerID = kicker.ID
	}
	accuracy := m.diff.KickAccuracy
	if m.controllers[m.goalKickSide] != "" {
		accuracy = 1.0
	}
	p := (0.55 + skill/250 - m.goalKickDist/150) * accuracy
	good := m.rng.Float64() < p

	points := PointsConversion
	if m.goalKickKind == "penalty_goal" {
		points = PointsPenaltyGoal
	}
	if good {
		m.addScore(m.goalKickSide, m.goalKickKind, points)
	}
	m.emit(protocol.EvKick, protocol.KickEvent{
		KickerID: kickerID, Kind: m.goalKickKind,
		TargetX: m.tryLineX(m.goalKickSide), TargetY: m.tun.FieldWidth / 2,
		Good: good,
	})
	m.kickingSide = 1 - m.goalKickSide
	m.requestPhase(PhaseKickOff, prioRestart)
}

func (m *Match) bestKicker(side int) *Agent {
	var best *Agent
	for _, p := range m.teams[side].Players {
		if best == nil || p.Attr.Kicking > best.Attr.Kicking {
			best = p
		}
	}
	return best
}

func (m *Match) tickDropGoal() {
	if m.phaseTimer < restartPauseTicks {
		return
	}
	kicker := m.agent(m.dropKicker)
	skill := 50.0
	if kicker != nil {
		skill = kicker.Attr.Kicking
	}
	p := (0.35 + skill/300 - m.goalKickDist/120) * m.diff.KickAccuracy
	good := m.rng.Float64() < p
	if good {
		m.addScore(m.goalKickSide, "drop_goal", PointsDropGoal)
	}
	m.emit(protocol.EvKick, protocol.KickEvent{
		KickerID: m.dropKicker, Kind: "drop_goal",
		TargetX: m.tryLineX(m.goalKickSide), TargetY: m.tun.FieldWidth / 2,
		Good: good,
	})
	m.kickingSide = 1 - m.goalKickSide
	m.requestPhase(PhaseKickOff, prioRestart)
}

func (m *Match) addScore(side int, kind string, points int) {
	m.score[side] += points
	m.penalty = nil
	switch kind {
	case "try":
		m.stats[side].Tries++
	case "conversion":
		m.stats[side].Conversions++
	case "penalty_goal":
		m.stats[side].PenaltyGoals++
	case "drop_goal":
		m.stats[side].DropGoals++
	}
	m.timeline = append(m.timeline, protocol.ScoreEntry{
		Tick:   m.tick.Load(),
		Minute: m.clock.Minutes(),
		Team:   m.teamName(side),
		Kind:   kind,
		Points: points,
	})
	m.emit(protocol.EvScore, protocol.Score{Team: m.teamName(side), Kind: kind, Points: points})
}

// --- stoppages ---

func (m *Match) declareKnockOn(offender *Agent) {
	m.emit(protocol.EvKnockOn, protocol.KnockOn{AgentID: offender.ID, X: offender.Pos.X, Y: offender.Pos.Y})
	m.emit(protocol.EvWhistle, protocol.Whistle{Kind: "knock_on"})
	m.ball.Dislodge(offender.Pos)
	m.restartMark = offender.Pos
	m.restartSide = 1 - offender.Side // scrum to the other side
	m.requestPhase(PhaseKnockOn, prioBall)
}

func (m *Match) tickKnockOn() {
	if m.phaseTimer < restartPauseTicks {
		return
	}
	m.requestPhase(PhaseScrum, prioRestart)
}

func (m *Match) tickTouch() {
	if m.phaseTimer < restartPauseTicks {
		return
	}
	m.requestPhase(PhaseLineout, prioRestart)
}

func (m *Match) tickHalfTime() {
	if m.phaseTimer == 0 {
		m.emit(protocol.EvHalfTime, struct{}{})
		m.emit(protocol.EvWhistle, protocol.Whistle{Kind: "half_time"})
	}
	if m.phaseTimer < halfTimePauseTicks {
		return
	}
	m.clock.StartSecondHalf()
	m.kickingSide = 1
	m.requestPhase(PhaseKickOff, prioRestart)
}

// clearContests tears down whatever contest is live and unbinds everyone.
func (m *Match) clearContests() {
	m.ruck = nil
	m.maul = nil
	m.scrum = nil
	m.lineout = nil
	m.heldUp = nil
	m.tackleResult = nil
	for _, t := range m.teams {
		for _, p := range t.Players {
			if p.BoundContest {
				p.BoundContest = false
				p.State = StateReturn
			}
		}
	}
}

// contestMultiplier scales a pack's shove for AI difficulty.
func (m *Match) contestMultiplier(side int) float64 {
	if m.controllers[side] != "" {
		return 1.0
	}
	return m.diff.ContestMultiplier
}
