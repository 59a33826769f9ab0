package match

import "scrumcraft.ai/internal/sim/steering"

// Play calls, ordered so the difficulty variety parameter can gate the tail.
var playCalls = []string{
	"crash_ball",
	"pick_and_go",
	"wide_spin",
	"skip_pass",
	"box_kick",
	"up_and_under",
	"grubber",
	"cross_kick",
}

func isKickPlay(call string) bool {
	switch call {
	case "box_kick", "up_and_under", "grubber", "cross_kick":
		return true
	}
	return false
}

func isWidePlay(call string) bool {
	return call == "wide_spin" || call == "skip_pass" || call == "cross_kick"
}

const (
	successDecay    = 0.8
	patternMinTier  = 2
	adaptMinTier    = 1
	comfortableLead = 14
)

// thinkInterval is the per-team think cadence: the base interval plus the
// difficulty reaction delay for AI-held sides.
func (m *Match) thinkInterval(side int) uint64 {
	iv := uint64(m.tun.ThinkIntervalTicks)
	if m.controllers[side] == "" {
		iv += uint64(m.diff.ReactionDelayTicks)
	}
	return iv
}

// systemDirector runs both teams' tactical planners on their think cycles.
// It only operates during live play; set pieces position players directly.
func (m *Match) systemDirector(nowTick uint64) {
	switch m.phases.Phase() {
	case PhaseOpenPlay, PhaseRuck, PhaseMaul, PhaseTackle:
	default:
		return
	}
	for side := 0; side < 2; side++ {
		t := m.teams[side]
		if nowTick > 0 && nowTick-t.lastThink < m.thinkInterval(side) {
			continue
		}
		t.lastThink = nowTick
		m.think(side)
	}
}

func (m *Match) think(side int) {
	t := m.teams[side]
	inPossession := m.possessingSide() == side

	// (a) Rolling success score for the play in progress, from metres made
	// since the previous cycle.
	if inPossession && t.currentPlay != "" {
		metres := (m.ball.Pos.X - t.lastBallGain) * attackDir(side)
		prev := t.playScores[t.currentPlay]
		t.playScores[t.currentPlay] = successDecay*prev + (1-successDecay)*metres
	}
	t.lastBallGain = m.ball.Pos.X

	m.updateRiskAppetite(t)

	if inPossession {
		m.chooseAttackShape(t)
	} else {
		t.playHeld = false
		m.chooseDefensiveShape(t)
	}
	m.adjustRuckCommitment(t, inPossession)
	m.assignFormationTargets(t, inPossession)
}

// (b) Attack: formation from risk appetite, phase count and fatigue, then a
// success-weighted play call gated by the difficulty variety parameter.
func (m *Match) chooseAttackShape(t *Team) {
	fatigue := t.avgStamina()
	switch {
	case fatigue < 40 || m.phases.PhaseCount() > 6:
		t.Formation = FormationNarrow
	case t.Aggression > 0.6:
		t.Formation = FormationWide
	default:
		t.Formation = FormationStandard
	}

	// A held human call survives think cycles while the side keeps the ball.
	if t.playHeld {
		m.executePlay(t, t.currentPlay)
		return
	}

	variety := m.diff.PlayVariety
	if variety > len(playCalls) {
		variety = len(playCalls)
	}
	candidates := playCalls[:variety]

	// Success weighting is itself difficulty-gated: the lowest tier never
	// adapts.
	weights := make([]float64, len(candidates))
	total := 0.0
	for i, c := range candidates {
		w := 1.0
		if m.diff.Tier >= adaptMinTier {
			s := t.playScores[c]
			if s > 0 {
				w += s * 0.2 * float64(m.diff.Tier)
			}
		}
		weights[i] = w
		total += w
	}
	roll := m.rng.Float64() * total
	pick := candidates[0]
	for i, w := range weights {
		roll -= w
		if roll <= 0 {
			pick = candidates[i]
			break
		}
	}
	t.currentPlay = pick
	m.teams[1-t.Side].recordOpponentCall(pick)

	m.executePlay(t, pick)
}

// executePlay turns the call into an order for the carrier. Orders land as
// asynchronous overrides on the agent's next FSM evaluation.
func (m *Match) executePlay(t *Team, call string) {
	c := m.carrier()
	if c == nil || c.Side != t.Side || c.Controlled {
		return
	}
	ownThird := (m.tryLineX(1-t.Side)-c.Pos.X)*attackDir(t.Side) > -m.tun.FieldLength/3

	switch {
	case isKickPlay(call) && (ownThird || m.phases.PhaseCount() > 6):
		c.order = "kick"
	case isWidePlay(call) && len(m.opponentPositionsNear(c, 6)) > 0:
		c.order = "pass"
	case m.phases.Phase() == PhaseOpenPlay && len(m.opponentPositionsNear(c, 3)) >= 2:
		// Crash plays still offload when swamped.
		c.order = "pass"
	}
}

// (c) Defence: drift/blitz/standard, escalating to blitz when pinned to the
// line or when the opponent keeps repeating a call.
func (m *Match) chooseDefensiveShape(t *Team) {
	ownGoalX := m.tryLineX(1 - t.Side)
	nearOwnLine := absf(m.ball.Pos.X-ownGoalX) < m.tun.FieldLength*0.15

	patterned := false
	if m.diff.Tier >= patternMinTier {
		_, patterned = t.detectPattern()
	}

	switch {
	case nearOwnLine || patterned:
		t.Formation = FormationBlitz
	case t.Aggression < 0.4:
		t.Formation = FormationDrift
	default:
		t.Formation = FormationStandard
	}
}

// (d) Ruck commitment from aggression, field position and defensive shape.
func (m *Match) adjustRuckCommitment(t *Team, inPossession bool) {
	commit := 2 + int(t.Aggression*3)
	if !inPossession {
		ownGoalX := m.tryLineX(1 - t.Side)
		if absf(m.ball.Pos.X-ownGoalX) < m.tun.FieldLength*0.25 {
			commit++ // defend the line harder
		}
		if t.Formation == FormationBlitz {
			commit-- // blitz keeps bodies in the line, not the ruck
		}
	}
	if commit < 1 {
		commit = 1
	}
	if commit > m.tun.Ruck.CommitCap {
		commit = m.tun.Ruck.CommitCap
	}
	t.RuckCommit = commit
}

// Risk appetite rises when trailing late and falls when exhausted or
// comfortably ahead.
func (m *Match) updateRiskAppetite(t *Team) {
	minutesLeft := 2*m.tun.HalfMinutes - m.clock.Minutes()
	diff := m.score[t.Side] - m.score[1-t.Side]
	switch {
	case diff < 0 && minutesLeft < m.tun.HalfMinutes/2:
		t.Aggression += 0.02
	case t.avgStamina() < 35 || diff > comfortableLead:
		t.Aggression -= 0.02
	}
	if t.Aggression < 0.1 {
		t.Aggression = 0.1
	}
	if t.Aggression > 1 {
		t.Aggression = 1
	}
}

// assignFormationTargets lays the team out around the ball. The director is
// the only writer of formation targets.
func (m *Match) assignFormationTargets(t *Team, inPossession bool) {
	dir := attackDir(t.Side)
	width := m.tun.FieldWidth

	spread := width * 0.55
	switch t.Formation {
	case FormationWide:
		spread = width * 0.85
	case FormationNarrow:
		spread = width * 0.35
	}

	if inPossession {
		for i, p := range t.Players {
			if p.BoundContest {
				continue
			}
			if i < 8 {
				// Forwards arrive flat around the ball.
				p.FormationTarget = steering.Vec2{
					X: m.ball.Pos.X - dir*2,
					Y: m.ball.Pos.Y + float64(i-4)*3,
				}
			} else {
				// Backs fan out behind the ball across the chosen width.
				lane := float64(i-8)/6 - 0.5
				p.FormationTarget = steering.Vec2{
					X: m.ball.Pos.X - dir*(5+float64(i-8)),
					Y: width/2 + lane*spread,
				}
			}
			m.clampToField(&p.FormationTarget)
		}
		return
	}

	depth := 5.0
	switch t.Formation {
	case FormationBlitz:
		depth = 2
	case FormationDrift:
		depth = 7
	}
	lineX := m.ball.Pos.X + attackDir(1-t.Side)*depth
	for i, p := range t.Players {
		if p.BoundContest {
			continue
		}
		lane := float64(i)/14 - 0.5
		y := width/2 + lane*width*0.8
		if t.Formation == FormationDrift {
			// Drift slides the line toward the ball's side of the field.
			y = (y + m.ball.Pos.Y) / 2
		}
		p.FormationTarget = steering.Vec2{X: lineX, Y: y}
		m.clampToField(&p.FormationTarget)
	}
}

func (m *Match) clampToField(v *steering.Vec2) {
	if v.X < 1 {
		v.X = 1
	}
	if v.X > m.tun.FieldLength-1 {
		v.X = m.tun.FieldLength - 1
	}
	if v.Y < 1 {
		v.Y = 1
	}
	if v.Y > m.tun.FieldWidth-1 {
		v.Y = m.tun.FieldWidth - 1
	}
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
