package match

// Phase is the authoritative match phase. It is owned by the PhaseMachine
// and mutated only through validated transitions or ForcePhase.
type Phase int

const (
	PhaseKickOff Phase = iota
	PhaseOpenPlay
	PhaseTackle
	PhaseRuck
	PhaseMaul
	PhaseScrum
	PhaseLineout
	PhasePenalty
	PhaseTapAndGo
	PhaseTryScored
	PhaseConversion
	PhaseDropGoal
	PhaseKnockOn
	PhaseTouch
	PhaseHalfTime
	PhaseFullTime
)

var phaseNames = map[Phase]string{
	PhaseKickOff:    "kick_off",
	PhaseOpenPlay:   "open_play",
	PhaseTackle:     "tackle",
	PhaseRuck:       "ruck",
	PhaseMaul:       "maul",
	PhaseScrum:      "scrum",
	PhaseLineout:    "lineout",
	PhasePenalty:    "penalty",
	PhaseTapAndGo:   "tap_and_go",
	PhaseTryScored:  "try_scored",
	PhaseConversion: "conversion",
	PhaseDropGoal:   "drop_goal",
	PhaseKnockOn:    "knock_on",
	PhaseTouch:      "touch",
	PhaseHalfTime:   "half_time",
	PhaseFullTime:   "full_time",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "unknown"
}

// phaseSuccessors is the static transition table. A transition absent here is
// rejected (non-fatal) unless forced.
var phaseSuccessors = map[Phase][]Phase{
	PhaseKickOff:    {PhaseOpenPlay},
	PhaseOpenPlay:   {PhaseTackle, PhaseKnockOn, PhaseTouch, PhasePenalty, PhaseTryScored, PhaseDropGoal, PhaseMaul, PhaseHalfTime, PhaseFullTime},
	PhaseTackle:     {PhaseRuck, PhaseMaul, PhasePenalty, PhaseTryScored, PhaseKnockOn},
	PhaseRuck:       {PhaseOpenPlay, PhasePenalty, PhaseScrum},
	PhaseMaul:       {PhaseOpenPlay, PhaseScrum, PhasePenalty, PhaseTryScored},
	PhaseScrum:      {PhaseOpenPlay, PhasePenalty, PhaseScrum},
	PhaseLineout:    {PhaseOpenPlay, PhaseMaul, PhasePenalty},
	PhaseKnockOn:    {PhaseScrum},
	PhaseTouch:      {PhaseLineout},
	PhasePenalty:    {PhaseOpenPlay, PhaseScrum, PhaseLineout, PhaseConversion, PhaseTapAndGo},
	PhaseTapAndGo:   {PhaseOpenPlay},
	PhaseTryScored:  {PhaseConversion},
	PhaseConversion: {PhaseKickOff},
	PhaseDropGoal:   {PhaseKickOff},
	PhaseHalfTime:   {PhaseKickOff},
	PhaseFullTime:   {},
}

// PhaseMachine validates transitions against the static table and tracks the
// phases-of-possession counter.
type PhaseMachine struct {
	phase      Phase
	startTick  uint64
	phaseCount int

	// notify fires on every applied transition, forced or validated.
	notify func(from, to Phase)
}

func NewPhaseMachine(notify func(from, to Phase)) *PhaseMachine {
	return &PhaseMachine{phase: PhaseKickOff, notify: notify}
}

func (m *PhaseMachine) Phase() Phase      { return m.phase }
func (m *PhaseMachine) StartTick() uint64 { return m.startTick }
func (m *PhaseMachine) PhaseCount() int   { return m.phaseCount }

// Transition applies the phase change if the target is in the allowed set of
// the current phase. Rejections are silent no-ops: state and start tick stay
// untouched and no notification fires.
func (m *PhaseMachine) Transition(to Phase, tick uint64) bool {
	allowed := false
	for _, p := range phaseSuccessors[m.phase] {
		if p == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	m.apply(to, tick)
	return true
}

// ForcePhase bypasses validation for exceptional recovery paths. It always
// succeeds.
func (m *PhaseMachine) ForcePhase(to Phase, tick uint64) {
	m.apply(to, tick)
}

func (m *PhaseMachine) apply(to Phase, tick uint64) {
	from := m.phase
	if from == PhaseRuck && to == PhaseOpenPlay {
		m.phaseCount++
	}
	switch to {
	case PhaseKickOff, PhaseScrum, PhaseLineout:
		m.phaseCount = 0
	}
	m.phase = to
	m.startTick = tick
	if m.notify != nil {
		m.notify(from, to)
	}
}
