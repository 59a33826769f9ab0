package match

import (
	"scrumcraft.ai/internal/protocol"
	"scrumcraft.ai/internal/sim/contest"
	"scrumcraft.ai/internal/sim/steering"
)

// --- scrum ---

func (m *Match) setupScrum() {
	m.clearContests()
	mark := m.restartMark
	m.clampToField(&mark)
	m.ball.Dislodge(mark)
	packStr := [2]float64{m.packStrength(0), m.packStrength(1)}
	m.scrum = contest.NewScrum(mark, m.restartSide, packStr)

	// Forwards bind around the mark, backs fan out behind.
	for side := 0; side < 2; side++ {
		dir := attackDir(side)
		fwd := 0
		for i, p := range m.teams[side].Players {
			if p.isForward() && fwd < 8 {
				p.FormationTarget = steering.Vec2{
					X: mark.X - dir*(1+float64(fwd/4)),
					Y: mark.Y - 3 + float64(fwd%4)*2,
				}
				p.BoundContest = true
				fwd++
			} else {
				p.FormationTarget = steering.Vec2{
					X: mark.X - dir*(8+float64(i%4)*3),
					Y: m.tun.FieldWidth * (0.2 + 0.6*float64(i)/14),
				}
			}
			m.clampToField(&p.FormationTarget)
			p.Pos = p.FormationTarget
			p.Vel = steering.Vec2{}
			p.State = StateSetPiece
		}
	}

	// AI packs engage a couple of ticks into the window; slower at low tiers.
	m.aiSetTick = 2 + m.diff.ReactionDelayTicks/2
}

func (m *Match) packStrength(side int) float64 {
	sum, n := 0.0, 0
	for _, p := range m.teams[side].Players {
		if p.isForward() {
			sum += p.Attr.Strength
			n++
		}
	}
	if n == 0 {
		return 50
	}
	return sum / float64(n)
}

func (m *Match) tickScrum() {
	if m.scrum == nil || m.phaseTimer == 0 {
		m.setupScrum()
		m.emit(protocol.EvWhistle, protocol.Whistle{Kind: "scrum"})
	}
	s := m.scrum

	// AI inputs: trigger the set inside the engage window, then push in
	// bursts during the contest.
	for side := 0; side < 2; side++ {
		if m.controllers[side] != "" && m.scrumResets < 2 {
			continue
		}
		switch s.Phase {
		case contest.ScrumEngage:
			if side == s.FeedingSide && s.EngageTicks() >= m.aiSetTick {
				m.applyScrumEvent(s.TriggerSet(side))
			}
		case contest.ScrumContestPhase:
			if m.rng.Float64() < 0.5 {
				s.Push(side)
			}
		}
	}

	m.applyScrumEvent(s.Step(m.rng, m.tun.Scrum, m.contestMultiplier(1-s.FeedingSide)))
}

func (m *Match) applyScrumEvent(ev contest.ScrumEvent) {
	s := m.scrum
	switch ev {
	case contest.ScrumSet:
		m.emit(protocol.EvScrumResolved, protocol.ScrumResolved{Status: "set"})

	case contest.ScrumEarlyEngage:
		m.emit(protocol.EvScrumResolved, protocol.ScrumResolved{
			Status: "early_engage", PenalisedTeam: m.teamName(s.PenaltyAgainst),
		})
		m.scrumResets = 0
		m.awardPenalty(s.PenaltyAgainst, "scrum_early_engage", s.Centre, "minor")

	case contest.ScrumReset:
		m.emit(protocol.EvScrumResolved, protocol.ScrumResolved{Status: "reset"})
		// Consecutive resets feed the AI-takeover gate in tickScrum: a human
		// pack that keeps forcing re-sets loses the right to stall.
		m.scrumResets++
		m.scrum = nil
		m.requestPhase(PhaseScrum, prioContest)

	case contest.ScrumCollapse:
		m.emit(protocol.EvScrumResolved, protocol.ScrumResolved{
			Status: "collapse", PenalisedTeam: m.teamName(s.PenaltyAgainst),
		})
		m.scrumResets = 0
		m.awardPenalty(s.PenaltyAgainst, "scrum_collapse", s.Centre, "major")

	case contest.ScrumWon:
		winner := s.Winner
		m.stats[winner].ScrumsWon++
		if s.Direction == "" && m.controllers[winner] == "" {
			if m.rng.Float64() < 0.5 {
				s.ChooseDirection("blind")
			} else {
				s.ChooseDirection("open")
			}
		}
		m.emit(protocol.EvScrumResolved, protocol.ScrumResolved{
			Status: "won", WinningTeam: m.teamName(winner), Direction: s.Direction,
		})
		centre := s.Centre
		m.scrumResets = 0
		m.clearContests()
		m.releaseSetPieceBall(winner, centre)
	}
}

// releaseSetPieceBall hands clean set-piece ball to the nearest back.
func (m *Match) releaseSetPieceBall(side int, mark steering.Vec2) {
	recv := m.nearestUnbound(side, mark)
	if recv != nil {
		recv.Pos = mark.Add(steering.Vec2{X: -attackDir(side) * 2})
		m.ball.PickUp(recv.ID, recv.Pos)
	} else {
		m.ball.Dislodge(mark)
		m.restartSide = side
	}
	m.requestPhase(PhaseOpenPlay, prioContest)
}

// --- lineout ---

func (m *Match) setupLineout() {
	m.clearContests()
	mark := m.restartMark
	// Lineouts form five in from the touchline.
	if mark.Y < m.tun.FieldWidth/2 {
		mark.Y = 5
	} else {
		mark.Y = m.tun.FieldWidth - 5
	}
	m.clampToField(&mark)
	m.ball.Dislodge(mark)
	m.lineout = contest.NewLineout(mark, m.lineoutThrow)

	inDir := 1.0
	if mark.Y > m.tun.FieldWidth/2 {
		inDir = -1
	}
	for side := 0; side < 2; side++ {
		dir := attackDir(side)
		fwd := 0
		for i, p := range m.teams[side].Players {
			if p.isForward() && fwd < 7 {
				p.FormationTarget = steering.Vec2{
					X: mark.X - dir*0.8,
					Y: mark.Y + inDir*float64(2+fwd*2),
				}
				fwd++
			} else {
				p.FormationTarget = steering.Vec2{
					X: mark.X - dir*(10+float64(i%4)*3),
					Y: mark.Y + inDir*float64(15+(i%5)*6),
				}
			}
			m.clampToField(&p.FormationTarget)
			p.Pos = p.FormationTarget
			p.Vel = steering.Vec2{}
			p.State = StateSetPiece
		}
	}
}

func (m *Match) tickLineout() {
	if m.lineout == nil || m.phaseTimer == 0 {
		m.setupLineout()
		m.emit(protocol.EvWhistle, protocol.Whistle{Kind: "lineout"})
		return
	}
	l := m.lineout
	// A human thrower who sits on the ball forfeits the throw to the AI.
	throwerAI := m.controllers[l.ThrowingSide] == "" || m.phaseTimer > 3*restartPauseTicks

	if l.Phase == contest.LineoutAim && throwerAI {
		if m.phaseTimer < restartPauseTicks/2+m.diff.ReactionDelayTicks {
			return
		}
		rows := []contest.LineoutRow{contest.LineoutFront, contest.LineoutMiddle, contest.LineoutBack}
		l.Aim(rows[m.rng.Intn(len(rows))])
		// Aim for the middle of the sweet band, with a tier-scaled wobble.
		mid := (m.tun.Lineout.SweetSpotLow + m.tun.Lineout.SweetSpotHigh) / 2
		wobble := (m.rng.Float64()*2 - 1) * 0.25 * (1 - float64(m.diff.Tier)/4)
		m.aiChargeGoal = int((mid + wobble) * float64(m.tun.Lineout.ChargeMaxTicks))
	}

	if l.Phase == contest.LineoutCharging {
		l.Step(m.rng, m.tun.Lineout)
		if throwerAI && !l.Resolved() && l.Charge(m.tun.Lineout) >= float64(m.aiChargeGoal)/float64(m.tun.Lineout.ChargeMaxTicks) {
			l.Release(m.rng, m.tun.Lineout)
		}
	}

	if !l.Resolved() {
		return
	}

	if l.Stolen {
		stealer := 1 - l.ThrowingSide
		m.stats[stealer].LineoutsStolen++
		m.emit(protocol.EvLineoutResolved, protocol.LineoutResolved{
			Status: "stolen", WinningTeam: m.teamName(stealer), Row: l.Row.String(),
		})
		mark := l.Mark
		m.clearContests()
		m.releaseSetPieceBall(stealer, mark)
		return
	}

	m.stats[l.ThrowingSide].LineoutsWon++
	if throwerAI {
		// Drive close to the line, otherwise play it quick.
		nearLine := absf(l.Mark.X-m.tryLineX(l.ThrowingSide)) < 22
		if nearLine && m.rng.Float64() < 0.6 {
			l.Choose(contest.FollowUpDriveMaul)
		} else {
			l.Choose(contest.FollowUpQuickBall)
		}
	}
	follow := "quick_ball"
	if l.Call == contest.FollowUpDriveMaul {
		follow = "drive_maul"
	}
	m.emit(protocol.EvLineoutResolved, protocol.LineoutResolved{
		Status: "won", WinningTeam: m.teamName(l.ThrowingSide), Row: l.Row.String(), FollowUp: follow,
	})

	if l.Call == contest.FollowUpDriveMaul {
		m.formLineoutMaul(l)
		return
	}
	mark := l.Mark
	side := l.ThrowingSide
	m.clearContests()
	m.releaseSetPieceBall(side, mark)
}

// formLineoutMaul converts a won throw straight into a driving maul off the
// catcher.
func (m *Match) formLineoutMaul(l *contest.Lineout) {
	side := l.ThrowingSide
	catcher := m.nearestForward(side, l.Mark)
	opp := m.nearestForward(1-side, l.Mark)
	var sup *Agent
	if catcher != nil && opp != nil {
		sup = m.nearestSupporter(catcher, opp)
	}
	if catcher == nil || opp == nil || sup == nil {
		mark := l.Mark
		m.clearContests()
		m.releaseSetPieceBall(side, mark)
		return
	}
	mark := l.Mark
	m.lineout = nil
	catcher.Pos = mark
	m.ball.PickUp(catcher.ID, mark)
	m.formMaul(catcher, opp, sup)
}

func (m *Match) nearestForward(side int, from steering.Vec2) *Agent {
	var best *Agent
	bestD := 1e18
	for _, p := range m.teams[side].Players {
		if !p.isForward() || !p.upright() {
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
