package match

import (
	"encoding/json"
	"testing"

	"scrumcraft.ai/internal/protocol"
	"scrumcraft.ai/internal/sim/steering"
)

func joinController(t *testing.T, m *Match, session, team string) *clientState {
	t.Helper()
	resp := m.handleJoin(JoinRequest{
		SessionID: session,
		Role:      "controller",
		Team:      team,
		Out:       make(chan []byte, 8),
	})
	if resp.ErrCode != "" {
		t.Fatalf("join %s as %s: %s", session, team, resp.ErrCode)
	}
	return m.clients[session]
}

func TestHandleJoin_SideClaims(t *testing.T) {
	m := newTestMatch(1)

	cs := joinController(t, m, "s1", "home")
	if cs.Side != 0 || m.controllers[0] != "s1" {
		t.Fatalf("side = %d controllers = %v", cs.Side, m.controllers)
	}

	// The side is exclusive.
	resp := m.handleJoin(JoinRequest{SessionID: "s2", Role: "controller", Team: "home", Out: make(chan []byte, 1)})
	if resp.ErrCode != protocol.ErrTeamTaken {
		t.Fatalf("second claim: %q, want team taken", resp.ErrCode)
	}

	// Team names work as well as home/away.
	cs2 := joinController(t, m, "s3", "Away")
	if cs2.Side != 1 || m.controllers[1] != "s3" {
		t.Fatalf("away claim: side = %d", cs2.Side)
	}

	resp = m.handleJoin(JoinRequest{SessionID: "s4", Role: "controller", Team: "Nowhere XV", Out: make(chan []byte, 1)})
	if resp.ErrCode != protocol.ErrBadRequest {
		t.Fatalf("unknown team: %q", resp.ErrCode)
	}

	// Spectators always get in and hold no side.
	spec := m.handleJoin(JoinRequest{SessionID: "s5", Role: "spectator", Out: make(chan []byte, 1)})
	if spec.ErrCode != "" || m.clients["s5"].Side != -1 {
		t.Fatalf("spectator join: %+v", spec)
	}
	if spec.Welcome.MatchParams.HomeTeam != "Home" || spec.Welcome.MatchParams.AwayTeam != "Away" {
		t.Fatalf("welcome params: %+v", spec.Welcome.MatchParams)
	}
}

func TestApplyLeaves_SideRevertsToAI(t *testing.T) {
	m := newTestMatch(1)
	cs := joinController(t, m, "s1", "home")

	m.assignControlledAgents()
	controlled := m.agent(cs.ControlledID)
	if controlled == nil || !controlled.Controlled {
		t.Fatalf("no agent assigned after join")
	}

	m.applyLeaves([]string{"s1"})
	if m.controllers[0] != "" {
		t.Fatalf("side still held after leave")
	}
	if controlled.Controlled {
		t.Fatalf("agent still flagged controlled")
	}
	if _, ok := m.clients["s1"]; ok {
		t.Fatalf("client record survives leave")
	}
}

func TestAssignControlledAgents_FollowsCarrier(t *testing.T) {
	m := newTestMatch(1)
	cs := joinController(t, m, "s1", "home")

	first := m.teams[0].Players[9]
	m.ball.PickUp(first.ID, first.Pos)
	m.assignControlledAgents()
	if cs.ControlledID != first.ID || !first.Controlled {
		t.Fatalf("controller not on carrier: %q", cs.ControlledID)
	}

	second := m.teams[0].Players[12]
	m.ball.Dislodge(second.Pos)
	m.ball.PickUp(second.ID, second.Pos)
	m.assignControlledAgents()
	if cs.ControlledID != second.ID || !second.Controlled {
		t.Fatalf("controller did not follow the ball: %q", cs.ControlledID)
	}
	if first.Controlled {
		t.Fatalf("previous agent still controlled")
	}
}

func TestApplyInputs_RejectsNonController(t *testing.T) {
	m := newTestMatch(1)
	out := make(chan []byte, 8)
	m.handleJoin(JoinRequest{SessionID: "spec", Role: "spectator", Out: out})

	raw, _ := json.Marshal(protocol.InputMsg{Type: protocol.TypeInput, MoveX: 1})
	m.applyInputs([]InputEnvelope{{SessionID: "spec", Type: protocol.TypeInput, Raw: raw}})

	select {
	case b := <-out:
		var errMsg protocol.ErrorMsg
		if err := json.Unmarshal(b, &errMsg); err != nil {
			t.Fatalf("bad error frame: %v", err)
		}
		if errMsg.Type != protocol.TypeError || errMsg.Code != protocol.ErrNotController {
			t.Fatalf("error = %+v", errMsg)
		}
	default:
		t.Fatalf("no error delivered")
	}
}

func TestApplyInputMsg_MovementAndOrders(t *testing.T) {
	m := newTestMatch(1)
	m.phases.ForcePhase(PhaseOpenPlay, 0)
	cs := joinController(t, m, "s1", "home")

	a := m.teams[0].Players[10]
	m.ball.PickUp(a.ID, a.Pos)
	m.assignControlledAgents()
	if cs.ControlledID != a.ID {
		t.Fatalf("controller on %q, want carrier", cs.ControlledID)
	}

	m.applyInputMsg(cs, protocol.InputMsg{MoveX: 0.5, MoveY: -1, Sprint: true})
	if a.Intent != (steering.Vec2{X: 0.5, Y: -1}) {
		t.Fatalf("intent = %+v", a.Intent)
	}
	if !a.Sprinting {
		t.Fatalf("sprint not applied")
	}

	// Sprinting needs stamina left.
	a.Stamina = 3
	m.applyInputMsg(cs, protocol.InputMsg{Sprint: true})
	if a.Sprinting {
		t.Fatalf("sprinting on empty tank")
	}

	m.applyInputMsg(cs, protocol.InputMsg{Action: "kick"})
	if a.order != "kick" {
		t.Fatalf("order = %q, want kick", a.order)
	}

	// Pass actions only bind the carrier.
	m.ball.Dislodge(a.Pos)
	a.order = ""
	m.applyInputMsg(cs, protocol.InputMsg{Action: "pass_left"})
	if a.order != "" {
		t.Fatalf("non-carrier took pass order %q", a.order)
	}
}

func TestApplyPlayMsg_HeldAndSeenByDefence(t *testing.T) {
	m := newTestMatch(1)
	m.phases.ForcePhase(PhaseOpenPlay, 0)
	cs := joinController(t, m, "s1", "home")

	carrier := m.teams[0].Players[9]
	m.ball.PickUp(carrier.ID, carrier.Pos)

	m.applyPlayMsg(cs, protocol.PlayMsg{Call: "box_kick"})
	if m.teams[0].currentPlay != "box_kick" || !m.teams[0].playHeld {
		t.Fatalf("call not held: play = %q held = %v", m.teams[0].currentPlay, m.teams[0].playHeld)
	}
	// The defence's pattern window sees human calls like any other.
	if len(m.teams[1].oppCalls) != 1 || m.teams[1].oppCalls[0] != "box_kick" {
		t.Fatalf("opponent window = %v", m.teams[1].oppCalls)
	}

	// Think cycles keep the held call while possession lasts.
	m.think(0)
	if m.teams[0].currentPlay != "box_kick" {
		t.Fatalf("director replaced the held call with %q", m.teams[0].currentPlay)
	}

	// A turnover releases it.
	m.ball.Dislodge(carrier.Pos)
	opp := m.teams[1].Players[9]
	m.ball.PickUp(opp.ID, opp.Pos)
	m.think(0)
	if m.teams[0].playHeld {
		t.Fatalf("held call survived the possession change")
	}
}

func TestSnapshot_CoversEveryAgent(t *testing.T) {
	m := newTestMatch(1)
	m.StepOnce()

	snap := m.Snapshot()
	if snap.Type != protocol.TypeState || snap.Tick != m.Tick() {
		t.Fatalf("header: %+v", snap)
	}
	if len(snap.Agents) != 30 {
		t.Fatalf("agents = %d, want 30", len(snap.Agents))
	}
	if snap.Ball.State == "" || snap.Phase == "" {
		t.Fatalf("ball/phase missing: %+v", snap)
	}
}

func TestSendLatest_DropsOldestNeverBlocks(t *testing.T) {
	ch := make(chan []byte, 1)
	sendLatest(ch, []byte("a"))
	sendLatest(ch, []byte("b")) // replaces the stale frame
	select {
	case b := <-ch:
		if string(b) != "b" {
			t.Fatalf("got %q, want the latest frame", b)
		}
	default:
		t.Fatalf("channel empty")
	}
}
