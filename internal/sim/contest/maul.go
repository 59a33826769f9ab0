package contest

import (
	"scrumcraft.ai/internal/sim/steering"
	"scrumcraft.ai/internal/sim/tuning"
)

type MaulEvent int

const (
	MaulNone MaulEvent = iota
	MaulDriving
	MaulCollapsed
	MaulReleased
)

type maulParticipant struct {
	ID       string
	Strength float64
}

// Maul forms from a held-up tackle once a supporter binds in time. The bound
// group crawls along the attack direction while the strength ratio favors
// the carriers.
type Maul struct {
	Centre        steering.Vec2
	AttackingSide int
	AttackDir     float64 // +1 or -1 along X

	CarrierID   string
	TacklerID   string
	SupporterID string

	resolved   bool
	elapsed    int
	stallTicks int

	bound [2][]maulParticipant
}

func NewMaul(centre steering.Vec2, attackingSide int, attackDir float64, carrierID, tacklerID, supporterID string, carrierStr, tacklerStr, supporterStr float64) *Maul {
	m := &Maul{
		Centre:        centre,
		AttackingSide: attackingSide,
		AttackDir:     attackDir,
		CarrierID:     carrierID,
		TacklerID:     tacklerID,
		SupporterID:   supporterID,
	}
	m.bound[attackingSide] = []maulParticipant{
		{ID: carrierID, Strength: carrierStr},
		{ID: supporterID, Strength: supporterStr},
	}
	m.bound[1-attackingSide] = []maulParticipant{
		{ID: tacklerID, Strength: tacklerStr},
	}
	return m
}

func (m *Maul) Resolved() bool { return m.resolved }

// Bind adds another agent to the drive. Double-binding is rejected.
func (m *Maul) Bind(side int, agentID string, strength float64) bool {
	if m.resolved || (side != 0 && side != 1) {
		return false
	}
	for s := 0; s < 2; s++ {
		for _, p := range m.bound[s] {
			if p.ID == agentID {
				return false
			}
		}
	}
	m.bound[side] = append(m.bound[side], maulParticipant{ID: agentID, Strength: strength})
	return true
}

// BoundIDs lists every participant, attackers first.
func (m *Maul) BoundIDs() []string {
	out := make([]string, 0, len(m.bound[0])+len(m.bound[1]))
	for _, p := range m.bound[m.AttackingSide] {
		out = append(out, p.ID)
	}
	for _, p := range m.bound[1-m.AttackingSide] {
		out = append(out, p.ID)
	}
	return out
}

func (m *Maul) sideStrength(side int) float64 {
	sum := 0.0
	for _, p := range m.bound[side] {
		sum += p.Strength
	}
	if sum < 1 {
		sum = 1
	}
	return sum
}

// Ratio is attacking strength over defending strength.
func (m *Maul) Ratio() float64 {
	return m.sideStrength(m.AttackingSide) / m.sideStrength(1-m.AttackingSide)
}

// Step advances the maul one tick. A ratio above 1 drives the centre
// forward; a ratio under the stall threshold for long enough collapses it,
// as does the hard duration cap. Collapse awards a scrum to the defence.
func (m *Maul) Step(tun tuning.MaulTuning) MaulEvent {
	if m.resolved {
		return MaulNone
	}
	m.elapsed++
	if m.elapsed >= tun.MaxTicks {
		m.resolved = true
		return MaulCollapsed
	}

	ratio := m.Ratio()
	if ratio < tun.StallRatio {
		m.stallTicks++
		if m.stallTicks >= tun.StallTicks {
			m.resolved = true
			return MaulCollapsed
		}
		return MaulNone
	}
	m.stallTicks = 0

	if ratio > 1 {
		m.Centre.X += tun.BaseSpeed * ratio * m.AttackDir
		return MaulDriving
	}
	return MaulNone
}

// Release hands the ball out of the back of the maul; field position is
// kept.
func (m *Maul) Release() MaulEvent {
	if m.resolved {
		return MaulNone
	}
	m.resolved = true
	return MaulReleased
}
