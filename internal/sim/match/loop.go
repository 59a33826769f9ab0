package match

import (
	"context"
	"encoding/json"
	"time"

	"scrumcraft.ai/internal/protocol"
)

// JoinRequest travels over the join channel; Resp receives exactly one
// JoinResponse.
type JoinRequest struct {
	SessionID  string
	ClientName string
	Role       string // "spectator" or "controller"
	Team       string // team name or "home"/"away" for controllers
	Out        chan []byte
	Resp       chan JoinResponse
}

type JoinResponse struct {
	Welcome protocol.WelcomeMsg
	ErrCode string
}

// InputEnvelope is one raw client message waiting for the tick boundary.
type InputEnvelope struct {
	SessionID string
	Type      string
	Raw       json.RawMessage
}

type clientState struct {
	SessionID    string
	Role         string
	Side         int // -1 for spectators
	Out          chan []byte
	ControlledID string
}

// Join registers a client with the running loop and waits for the welcome.
func (m *Match) Join(req JoinRequest) JoinResponse {
	req.Resp = make(chan JoinResponse, 1)
	select {
	case m.join <- req:
		return <-req.Resp
	case <-m.stop:
		return JoinResponse{ErrCode: protocol.ErrMatchOver}
	}
}

func (m *Match) Leave(sessionID string) {
	select {
	case m.leave <- sessionID:
	case <-m.stop:
	}
}

func (m *Match) Deliver(env InputEnvelope) {
	select {
	case m.inbox <- env:
	case <-m.stop:
	}
}

func (m *Match) Stop() { close(m.stop) }

// Run owns all match state. Messages are buffered as they arrive and
// applied at the next tick boundary, before the step.
func (m *Match) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(m.tun.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingInputs []InputEnvelope
	var pendingJoins []JoinRequest
	var pendingLeaves []string

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.stop:
			return nil
		case req := <-m.join:
			pendingJoins = append(pendingJoins, req)
		case id := <-m.leave:
			pendingLeaves = append(pendingLeaves, id)
		case env := <-m.inbox:
			pendingInputs = append(pendingInputs, env)
		case <-ticker.C:
			m.applyJoins(pendingJoins)
			m.applyLeaves(pendingLeaves)
			m.applyInputs(pendingInputs)
			pendingJoins = pendingJoins[:0]
			pendingLeaves = pendingLeaves[:0]
			pendingInputs = pendingInputs[:0]

			m.assignControlledAgents()
			m.stepInternal()
			m.fanOut()

			if m.matchOver {
				return nil
			}
		}
	}
}

func (m *Match) applyJoins(joins []JoinRequest) {
	for _, req := range joins {
		resp := m.handleJoin(req)
		req.Resp <- resp
	}
}

func (m *Match) handleJoin(req JoinRequest) JoinResponse {
	side := -1
	team := ""
	if req.Role == "controller" {
		s, ok := m.sideForTeam(req.Team)
		if !ok {
			return JoinResponse{ErrCode: protocol.ErrBadRequest}
		}
		if m.controllers[s] != "" {
			return JoinResponse{ErrCode: protocol.ErrTeamTaken}
		}
		if m.matchOver {
			return JoinResponse{ErrCode: protocol.ErrMatchOver}
		}
		m.controllers[s] = req.SessionID
		side = s
		team = m.teams[s].Name
	} else {
		req.Role = "spectator"
	}

	m.clients[req.SessionID] = &clientState{
		SessionID: req.SessionID,
		Role:      req.Role,
		Side:      side,
		Out:       req.Out,
	}

	return JoinResponse{Welcome: protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       req.SessionID,
		MatchID:         m.cfg.MatchID,
		Role:            req.Role,
		Team:            team,
		MatchParams: protocol.MatchParams{
			TickRateHz:  m.tun.TickRateHz,
			FieldLength: m.tun.FieldLength,
			FieldWidth:  m.tun.FieldWidth,
			HalfMinutes: m.tun.HalfMinutes,
			Seed:        m.cfg.Seed,
			HomeTeam:    m.teams[0].Name,
			AwayTeam:    m.teams[1].Name,
		},
	}}
}

func (m *Match) sideForTeam(team string) (int, bool) {
	switch team {
	case "home", m.teams[0].Name:
		return 0, true
	case "away", m.teams[1].Name:
		return 1, true
	}
	return 0, false
}

func (m *Match) applyLeaves(leaves []string) {
	for _, id := range leaves {
		cs, ok := m.clients[id]
		if !ok {
			continue
		}
		if cs.Side >= 0 && m.controllers[cs.Side] == id {
			// The team reverts to AI control.
			m.controllers[cs.Side] = ""
			if a := m.agent(cs.ControlledID); a != nil {
				a.Controlled = false
			}
		}
		delete(m.clients, id)
	}
}

func (m *Match) applyInputs(inputs []InputEnvelope) {
	for _, env := range inputs {
		cs, ok := m.clients[env.SessionID]
		if !ok {
			continue
		}
		if cs.Side < 0 || m.controllers[cs.Side] != env.SessionID {
			m.sendError(cs, protocol.ErrNotController, "not a controller")
			continue
		}
		switch env.Type {
		case protocol.TypeInput:
			var msg protocol.InputMsg
			if json.Unmarshal(env.Raw, &msg) != nil {
				m.sendError(cs, protocol.ErrProtoBadRequest, "bad INPUT")
				continue
			}
			m.applyInputMsg(cs, msg)
		case protocol.TypePlay:
			var msg protocol.PlayMsg
			if json.Unmarshal(env.Raw, &msg) != nil {
				m.sendError(cs, protocol.ErrProtoBadRequest, "bad PLAY")
				continue
			}
			m.applyPlayMsg(cs, msg)
		case protocol.TypeContest:
			var msg protocol.ContestMsg
			if json.Unmarshal(env.Raw, &msg) != nil {
				m.sendError(cs, protocol.ErrProtoBadRequest, "bad CONTEST")
				continue
			}
			m.applyContestMsg(cs, msg)
		default:
			m.sendError(cs, protocol.ErrProtoBadRequest, "unknown type")
		}
	}
}

func (m *Match) sendError(cs *clientState, code, msg string) {
	b, err := json.Marshal(protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Code:            code,
		Message:         msg,
	})
	if err != nil {
		return
	}
	sendLatest(cs.Out, b)
}

// fanOut publishes this tick's events to everyone plus a fresh positional
// snapshot. Slow readers lose old frames, never block the loop.
func (m *Match) fanOut() {
	events := m.DrainEvents()
	for _, ev := range events {
		b, err := json.Marshal(protocol.EventMsg{
			Type:            protocol.TypeEvent,
			ProtocolVersion: protocol.Version,
			Event:           ev,
		})
		if err != nil {
			continue
		}
		for _, cs := range m.clients {
			sendLatest(cs.Out, b)
		}
	}

	b, err := json.Marshal(m.Snapshot())
	if err != nil {
		return
	}
	for _, cs := range m.clients {
		sendLatest(cs.Out, b)
	}
}

// Snapshot builds the STATE message for the current tick.
func (m *Match) Snapshot() protocol.StateMsg {
	msg := protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		Tick:            m.tick.Load(),
		Phase:           m.phases.Phase().String(),
		Score:           m.score,
		Ball: protocol.BallState{
			X:       m.ball.Pos.X,
			Y:       m.ball.Pos.Y,
			State:   m.ball.State.String(),
			Carrier: m.ball.Carrier,
		},
	}
	for side := 0; side < 2; side++ {
		for _, a := range m.teams[side].Players {
			msg.Agents = append(msg.Agents, protocol.AgentState{
				ID:      a.ID,
				Team:    m.teams[side].Name,
				X:       a.Pos.X,
				Y:       a.Pos.Y,
				State:   a.State.String(),
				Stamina: a.Stamina,
			})
		}
	}
	return msg
}

// sendLatest never blocks: drop one stale frame to make room, then try
// once more.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
