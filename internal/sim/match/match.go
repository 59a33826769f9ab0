package match

import (
	"math/rand"
	"sync/atomic"

	"scrumcraft.ai/internal/protocol"
	"scrumcraft.ai/internal/sim/contest"
	"scrumcraft.ai/internal/sim/steering"
	"scrumcraft.ai/internal/sim/tuning"
)

type Config struct {
	MatchID    string
	Seed       int64
	Home       protocol.TeamSnapshot
	Away       protocol.TeamSnapshot
	Tuning     tuning.Tuning
	Difficulty tuning.Difficulty
}

// TickLogger receives one entry per tick; implemented in
// internal/persistence/log.
type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type TickLogEntry struct {
	Tick   uint64           `json:"tick"`
	Phase  string           `json:"phase"`
	Events []protocol.Event `json:"events,omitempty"`
	Digest string           `json:"digest"`
}

// Match is the single-threaded authoritative simulation. All state must be
// accessed only from the match loop goroutine (or via StepOnce in tests).
type Match struct {
	cfg  Config
	tun  tuning.Tuning
	diff tuning.Difficulty
	rng  *rand.Rand

	tick atomic.Uint64

	phases  *PhaseMachine
	clock   *Clock
	teams   [2]*Team
	agents  map[string]*Agent // index into teams' players; order-free lookups only
	ball    Ball
	offside *OffsideTracker

	score    [2]int
	stats    [2]protocol.StatLine
	timeline []protocol.ScoreEntry

	// Exactly one contest of a given type may be active at once.
	ruck    *contest.Ruck
	maul    *contest.Maul
	scrum   *contest.Scrum
	lineout *contest.Lineout

	// Held-up tackle waiting for a supporter to bind into a maul.
	heldUp *heldUpWindow

	penalty *PenaltyRecord

	// One phase transition per tick; highest priority request wins.
	pendingPhase     Phase
	pendingPhasePrio int
	hasPendingPhase  bool

	// Restart bookkeeping.
	phaseTimer   int           // ticks spent since phase entry, reset on change
	restartMark  steering.Vec2 // where the next set piece forms
	restartSide  int           // side awarded the next restart
	kickingSide  int           // side taking the current kickoff
	halfPending  bool
	matchOver    bool
	tackleResult *pendingTackle

	// Score / goal-kick bookkeeping.
	scoringSide  int
	tryMark      steering.Vec2
	goalKickKind string // "conversion" or "penalty_goal"
	goalKickSide int
	goalKickDist float64
	dropKicker   string

	// Set-piece AI timing.
	maulStartX   float64
	lineoutThrow int // side throwing in at the next lineout
	aiSetTick    int // tick offset the AI pack engages the scrum at
	scrumResets  int // consecutive resets; a stalling human pack forfeits
	aiChargeGoal int // charge ticks the AI hooker releases the throw at

	events []protocol.Event // buffered this tick, drained by fan-out

	// Client plumbing (loop.go).
	clients     map[string]*clientState
	controllers [2]string // session id holding each side, "" = AI
	inbox       chan InputEnvelope
	join        chan JoinRequest
	leave       chan string
	stop        chan struct{}

	tickLogger TickLogger
}

type heldUpWindow struct {
	CarrierID string
	TacklerID string
	TicksLeft int
}

type pendingTackle struct {
	TacklerID string
	CarrierID string
	Result    contest.TackleResult
}

func New(cfg Config) *Match {
	if cfg.Tuning.TickRateHz == 0 {
		cfg.Tuning = tuning.Default()
	}
	cfg.Difficulty.Clamp()

	m := &Match{
		cfg:     cfg,
		tun:     cfg.Tuning,
		diff:    cfg.Difficulty,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		clients: map[string]*clientState{},
		inbox:   make(chan InputEnvelope, 256),
		join:    make(chan JoinRequest, 8),
		leave:   make(chan string, 8),
		stop:    make(chan struct{}),
	}
	m.phases = NewPhaseMachine(m.onPhaseChange)
	m.clock = newClock(m.tun.TickRateHz, m.tun.HalfMinutes, m.tun.ClockSecPerMin)
	m.offside = newOffsideTracker(m.tun.FieldLength)

	m.teams[0] = newTeam(0, cfg.Home)
	m.teams[1] = newTeam(1, cfg.Away)
	m.agents = map[string]*Agent{}
	for _, t := range m.teams {
		for _, p := range t.Players {
			m.agents[p.ID] = p
		}
	}

	m.kickingSide = 0
	m.setupKickOff()
	return m
}

func (m *Match) Tick() uint64  { return m.tick.Load() }
func (m *Match) Phase() Phase  { return m.phases.Phase() }
func (m *Match) Score() [2]int { return m.score }
func (m *Match) Over() bool    { return m.matchOver }

func (m *Match) SetTickLogger(l TickLogger) { m.tickLogger = l }

// attackDir is +1 when the side attacks toward increasing X.
func attackDir(side int) float64 {
	if side == 0 {
		return 1
	}
	return -1
}

func (m *Match) teamName(side int) string {
	if side != 0 && side != 1 {
		return ""
	}
	return m.teams[side].Name
}

func (m *Match) agent(id string) *Agent { return m.agents[id] }

func (m *Match) carrier() *Agent {
	if !m.ball.HasCarrier() {
		return nil
	}
	return m.agents[m.ball.Carrier]
}

// possessingSide is the side of the current carrier, or the restart side
// when nobody holds the ball.
func (m *Match) possessingSide() int {
	if c := m.carrier(); c != nil {
		return c.Side
	}
	return m.restartSide
}

// requestPhase queues a transition to apply at the end of the step. Higher
// priority wins; equal priority keeps the first request.
func (m *Match) requestPhase(to Phase, prio int) {
	if m.hasPendingPhase && prio <= m.pendingPhasePrio {
		return
	}
	m.pendingPhase = to
	m.pendingPhasePrio = prio
	m.hasPendingPhase = true
}

func (m *Match) onPhaseChange(from, to Phase) {
	m.phaseTimer = 0
	m.emit(protocol.EvPhaseChange, protocol.PhaseChange{From: from.String(), To: to.String()})
}

// Result builds the final snapshot; valid once the match is over.
func (m *Match) Result() protocol.MatchResult {
	return protocol.MatchResult{
		MatchID:   m.cfg.MatchID,
		Seed:      m.cfg.Seed,
		HomeTeam:  m.teams[0].Name,
		AwayTeam:  m.teams[1].Name,
		HomeScore: m.score[0],
		AwayScore: m.score[1],
		Ticks:     m.tick.Load(),
		Stats:     m.stats,
		Timeline:  m.timeline,
	}
}
