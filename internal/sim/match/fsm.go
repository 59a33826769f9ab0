package match

import "sort"

// AgentState is the per-player behaviour state.
type AgentState int

const (
	StateIdle AgentState = iota
	StateSupport
	StateCarry
	StatePass
	StateKick
	StateDefend
	StateChase
	StateTackle
	StateBindRuck
	StateBindMaul
	StateReturn
	StateSetPiece
	StateCelebrate
)

// AnyState is the wildcard source for transition rules.
const AnyState AgentState = -1

var stateNames = map[AgentState]string{
	StateIdle:      "idle",
	StateSupport:   "support",
	StateCarry:     "carry",
	StatePass:      "pass",
	StateKick:      "kick",
	StateDefend:    "defend",
	StateChase:     "chase",
	StateTackle:    "tackle",
	StateBindRuck:  "bind_ruck",
	StateBindMaul:  "bind_maul",
	StateReturn:    "return",
	StateSetPiece:  "set_piece",
	StateCelebrate: "celebrate",
}

func (s AgentState) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// transitionRule is one row of the condition table. Rules are evaluated in
// descending priority; the first match fires and at most one transition is
// applied per agent per tick.
type transitionRule struct {
	from     AgentState
	to       AgentState
	priority int
	cond     func(m *Match, a *Agent) bool
}

const (
	ruckBindRadius    = 4.0
	maulBindRadius    = 4.0
	tackleSeekRadius  = 6.0
	chaseRadius       = 25.0
	formationHomeDist = 1.5
)

var agentRules []transitionRule

func init() {
	agentRules = []transitionRule{
		// Possession gained beats everything.
		{AnyState, StateCarry, 100, func(m *Match, a *Agent) bool {
			return m.ball.Carrier == a.ID
		}},

		// Contest joining.
		{AnyState, StateBindRuck, 90, func(m *Match, a *Agent) bool {
			if m.ruck == nil || m.ruck.Resolved() || a.BoundContest || !a.upright() {
				return false
			}
			if m.ruck.Committed(a.Side) >= m.teams[a.Side].RuckCommit {
				return false
			}
			return a.Pos.Dist(m.ruck.Centre) < ruckBindRadius*3
		}},
		{AnyState, StateBindMaul, 88, func(m *Match, a *Agent) bool {
			if m.maul == nil || m.maul.Resolved() || a.BoundContest || !a.upright() {
				return false
			}
			return a.Pos.Dist(m.maul.Centre) < maulBindRadius*2
		}},

		// Tackle engagement and loose-ball chasing.
		{AnyState, StateTackle, 80, func(m *Match, a *Agent) bool {
			if m.phases.Phase() != PhaseOpenPlay || !a.upright() || a.BoundContest {
				return false
			}
			c := m.carrier()
			return c != nil && c.Side != a.Side && a.Pos.Dist(c.Pos) < tackleSeekRadius
		}},
		{AnyState, StateChase, 70, func(m *Match, a *Agent) bool {
			if m.phases.Phase() != PhaseOpenPlay || !a.upright() || a.BoundContest {
				return false
			}
			if m.ball.State != BallLoose && m.ball.State != BallKicked {
				return false
			}
			return a.Pos.Dist(m.ball.Pos) < chaseRadius
		}},

		// Role assignment while the ball is held.
		{AnyState, StateSupport, 60, func(m *Match, a *Agent) bool {
			if m.phases.Phase() != PhaseOpenPlay || a.BoundContest {
				return false
			}
			c := m.carrier()
			return c != nil && c.Side == a.Side && c.ID != a.ID
		}},
		{AnyState, StateDefend, 55, func(m *Match, a *Agent) bool {
			if m.phases.Phase() != PhaseOpenPlay || a.BoundContest {
				return false
			}
			c := m.carrier()
			return c != nil && c.Side != a.Side
		}},

		// Drift home, then settle.
		{AnyState, StateReturn, 20, func(m *Match, a *Agent) bool {
			return !a.BoundContest && a.Pos.Dist(a.FormationTarget) > formationHomeDist*4
		}},
		{StateReturn, StateIdle, 10, func(m *Match, a *Agent) bool {
			return a.Pos.Dist(a.FormationTarget) <= formationHomeDist
		}},
	}
	sort.SliceStable(agentRules, func(i, j int) bool {
		return agentRules[i].priority > agentRules[j].priority
	})
}

// evaluateFSM runs the condition table for one agent. Tactical orders are
// asynchronous overrides applied before the table and count as the tick's
// one transition.
func (m *Match) evaluateFSM(a *Agent) {
	if a.order != "" && m.ball.Carrier == a.ID {
		switch a.order {
		case "pass":
			a.State = StatePass
		case "kick":
			a.State = StateKick
		}
		a.order = ""
		return
	}
	a.order = ""

	for _, r := range agentRules {
		if r.from != AnyState && r.from != a.State {
			continue
		}
		if r.to == a.State {
			continue
		}
		if r.cond(m, a) {
			a.State = r.to
			return
		}
	}
}
