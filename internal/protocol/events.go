package protocol

// Event names published by the match core. Presentation and persistence
// subscribe to these; the core never calls out directly.
const (
	EvPhaseChange     = "phaseChange"
	EvScore           = "score"
	EvTackle          = "tackle"
	EvRuckFormed      = "ruckFormed"
	EvRuckBallAvail   = "ruckBallAvailable"
	EvRuckTurnover    = "ruckTurnover"
	EvRuckTimeout     = "ruckTimeout"
	EvMaulFormed      = "maulFormed"
	EvMaulDriving     = "maulDriving"
	EvMaulCollapsed   = "maulCollapsed"
	EvScrumResolved   = "scrumResolved"
	EvLineoutResolved = "lineoutResolved"
	EvPenaltyAwarded  = "penaltyAwarded"
	EvAdvantage       = "advantage"
	EvWhistle         = "whistle"
	EvClockTick       = "clockTick"
	EvHalfTime        = "halfTime"
	EvFullTime        = "fullTime"
	EvKick            = "kick"
	EvPass            = "pass"
	EvKnockOn         = "knockOn"
)

// Event is the envelope every published payload rides in.
type Event struct {
	Type string `json:"type"`
	Tick uint64 `json:"tick"`
	Data any    `json:"data,omitempty"`
}

type PhaseChange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type Score struct {
	Team   string `json:"team"`
	Kind   string `json:"kind"` // try, conversion, penalty_goal, drop_goal
	Points int    `json:"points"`
}

type Tackle struct {
	TacklerID string `json:"tackler_id"`
	CarrierID string `json:"carrier_id"`
	Outcome   string `json:"outcome"`
}

type RuckUpdate struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	AttackingTeam string  `json:"attacking_team,omitempty"`
}

type MaulUpdate struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	AttackingTeam string  `json:"attacking_team,omitempty"`
}

type ScrumResolved struct {
	Status        string `json:"status"` // set, early_engage, reset, won, collapse
	WinningTeam   string `json:"winning_team,omitempty"`
	PenalisedTeam string `json:"penalised_team,omitempty"`
	Direction     string `json:"direction,omitempty"`
}

type LineoutResolved struct {
	Status      string `json:"status"` // won, stolen
	WinningTeam string `json:"winning_team"`
	Row         string `json:"row"`
	FollowUp    string `json:"follow_up,omitempty"`
}

type PenaltyAwarded struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Reason        string  `json:"reason"`
	AgainstAttack bool    `json:"against_attack"`
	Severity      string  `json:"severity,omitempty"`
}

type Advantage struct {
	Team   string `json:"team"`
	Status string `json:"status"` // playing, gained, brought_back
}

type Whistle struct {
	Kind string `json:"kind"`
}

type ClockTick struct {
	GameMinutes int `json:"game_minutes"`
	GameSeconds int `json:"game_seconds"`
	Half        int `json:"half"`
}

type KickEvent struct {
	KickerID string  `json:"kicker_id"`
	Kind     string  `json:"kind"` // punt, drop_goal, conversion, penalty_goal
	TargetX  float64 `json:"target_x"`
	TargetY  float64 `json:"target_y"`
	Good     bool    `json:"good,omitempty"`
}

type PassEvent struct {
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}

type KnockOn struct {
	AgentID string  `json:"agent_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}
