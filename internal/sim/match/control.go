package match

import (
	"scrumcraft.ai/internal/protocol"
	"scrumcraft.ai/internal/sim/contest"
	"scrumcraft.ai/internal/sim/steering"
)

// assignControlledAgents moves each controller onto the most relevant
// player: the carrier when their side has the ball, otherwise whoever is
// closest to it.
func (m *Match) assignControlledAgents() {
	for side := 0; side < 2; side++ {
		sid := m.controllers[side]
		if sid == "" {
			continue
		}
		cs := m.clients[sid]
		if cs == nil {
			continue
		}

		var want *Agent
		if c := m.carrier(); c != nil && c.Side == side {
			want = c
		} else {
			want = m.nearestUnbound(side, m.ball.Pos)
		}
		if want == nil || want.ID == cs.ControlledID {
			continue
		}
		if prev := m.agent(cs.ControlledID); prev != nil {
			prev.Controlled = false
			prev.Intent = steering.Vec2{}
		}
		want.Controlled = true
		cs.ControlledID = want.ID
	}
}

func (m *Match) applyInputMsg(cs *clientState, msg protocol.InputMsg) {
	a := m.agent(cs.ControlledID)
	if a == nil {
		return
	}
	a.Intent = steering.Vec2{X: msg.MoveX, Y: msg.MoveY}
	a.Sprinting = msg.Sprint && a.Stamina > 5
	a.Fending = msg.Fend

	switch msg.Action {
	case "":
	case "pass_left", "pass_right":
		if m.ball.Carrier == a.ID {
			a.order = "pass"
		}
	case "kick":
		if m.ball.Carrier == a.ID {
			a.order = "kick"
		}
	default:
		m.sendError(cs, protocol.ErrBadRequest, "unknown action")
	}
}

func (m *Match) applyPlayMsg(cs *clientState, msg protocol.PlayMsg) {
	valid := false
	for _, c := range playCalls {
		if c == msg.Call {
			valid = true
			break
		}
	}
	if !valid {
		m.sendError(cs, protocol.ErrBadRequest, "unknown play call")
		return
	}
	t := m.teams[cs.Side]
	t.currentPlay = msg.Call
	t.playHeld = true
	m.teams[1-cs.Side].recordOpponentCall(msg.Call)
	m.executePlay(t, msg.Call)
}

// applyContestMsg routes timed mini-game inputs into the live contest.
// Wrong-phase and wrong-side inputs come back as errors so clients can
// surface missed windows.
func (m *Match) applyContestMsg(cs *clientState, msg protocol.ContestMsg) {
	side := cs.Side
	switch msg.Action {
	case "engage":
		if m.scrum == nil {
			m.sendError(cs, protocol.ErrWrongPhase, "no scrum")
			return
		}
		m.applyScrumEvent(m.scrum.TriggerSet(side))

	case "push":
		if m.scrum == nil {
			m.sendError(cs, protocol.ErrWrongPhase, "no scrum")
			return
		}
		m.scrum.Push(side)

	case "direction":
		if m.scrum == nil || m.scrum.Winner != side {
			m.sendError(cs, protocol.ErrWrongPhase, "no scrum win to direct")
			return
		}
		m.scrum.ChooseDirection(msg.Direction)

	case "aim":
		l := m.lineout
		if l == nil || l.ThrowingSide != side {
			m.sendError(cs, protocol.ErrWrongPhase, "not your throw")
			return
		}
		switch msg.Row {
		case "front":
			l.Aim(contest.LineoutFront)
		case "middle":
			l.Aim(contest.LineoutMiddle)
		case "back":
			l.Aim(contest.LineoutBack)
		default:
			m.sendError(cs, protocol.ErrBadRequest, "unknown row")
		}

	case "release":
		l := m.lineout
		if l == nil || l.ThrowingSide != side {
			m.sendError(cs, protocol.ErrWrongPhase, "not your throw")
			return
		}
		l.Release(m.rng, m.tun.Lineout)

	case "follow_up":
		l := m.lineout
		if l == nil || l.ThrowingSide != side {
			m.sendError(cs, protocol.ErrWrongPhase, "not your throw")
			return
		}
		switch msg.FollowUp {
		case "quick":
			l.Choose(contest.FollowUpQuickBall)
		case "drive":
			l.Choose(contest.FollowUpDriveMaul)
		default:
			m.sendError(cs, protocol.ErrBadRequest, "unknown follow up")
		}

	default:
		m.sendError(cs, protocol.ErrBadRequest, "unknown contest action")
	}
}
