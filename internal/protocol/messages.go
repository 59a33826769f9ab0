package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
	// Role is "spectator" or "controller". Controllers claim one team.
	Role string `json:"role,omitempty"`
	Team string `json:"team,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	SessionID       string      `json:"session_id"`
	MatchID         string      `json:"match_id"`
	Role            string      `json:"role"`
	Team            string      `json:"team,omitempty"`
	MatchParams     MatchParams `json:"match_params"`
}

type MatchParams struct {
	TickRateHz  int     `json:"tick_rate_hz"`
	FieldLength float64 `json:"field_length"`
	FieldWidth  float64 `json:"field_width"`
	HalfMinutes int     `json:"half_minutes"`
	Seed        int64   `json:"seed"`
	HomeTeam    string  `json:"home_team"`
	AwayTeam    string  `json:"away_team"`
}

// INPUT (client -> server): per-frame movement intent for the controlled
// agent plus one-shot actions.
type InputMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	MoveX           float64 `json:"move_x"`
	MoveY           float64 `json:"move_y"`
	Sprint          bool    `json:"sprint,omitempty"`
	Fend            bool    `json:"fend,omitempty"`
	Action          string  `json:"action,omitempty"` // pass_left, pass_right, kick
}

// PLAY (client -> server): tactical play override for the controlled team.
type PlayMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Call            string `json:"call"`
}

// CONTEST (client -> server): timed mini-game trigger.
type ContestMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	// Action is one of: engage, push, aim, release, direction, follow_up.
	Action    string `json:"action"`
	Row       string `json:"row,omitempty"`       // aim: front|middle|back
	Direction string `json:"direction,omitempty"` // direction: blind|open
	FollowUp  string `json:"follow_up,omitempty"` // follow_up: quick|drive
}

// EVENT (server -> client): one simulation event.
type EventMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Event           Event  `json:"event"`
}

// ERROR (server -> client).
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message,omitempty"`
}

// STATE (server -> client): periodic positional snapshot for rendering.
type StateMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	Tick            uint64       `json:"tick"`
	Phase           string       `json:"phase"`
	Ball            BallState    `json:"ball"`
	Score           [2]int       `json:"score"`
	Agents          []AgentState `json:"agents"`
}

type BallState struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	State   string  `json:"state"` // carried, passing, kicked, loose
	Carrier string  `json:"carrier,omitempty"`
}

type AgentState struct {
	ID      string  `json:"id"`
	Team    string  `json:"team"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	State   string  `json:"state"`
	Stamina float64 `json:"stamina"`
}
