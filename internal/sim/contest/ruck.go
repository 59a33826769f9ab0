package contest

import (
	"math/rand"

	"scrumcraft.ai/internal/sim/steering"
	"scrumcraft.ai/internal/sim/tuning"
)

type RuckEvent int

const (
	RuckNone RuckEvent = iota
	RuckBallAvailable
	RuckTurnover
	RuckInfringement
	RuckTimeout
)

type ruckParticipant struct {
	ID    string
	Power float64 // (strength + work rate) / divisor
}

// Ruck accumulates dominance between the two committed packs. Positive
// dominance favors the attacking side.
type Ruck struct {
	Centre        steering.Vec2
	AttackingSide int

	Dominance float64
	resolved  bool
	released  bool

	elapsedTicks  int
	sinceLastStep int

	committed [2][]ruckParticipant

	// Set when an infringement ends the contest early.
	InfringingSide int
}

func NewRuck(centre steering.Vec2, attackingSide int) *Ruck {
	return &Ruck{Centre: centre, AttackingSide: attackingSide, InfringingSide: -1}
}

func (r *Ruck) Resolved() bool { return r.resolved }

func (r *Ruck) Committed(side int) int {
	if side != 0 && side != 1 {
		return 0
	}
	return len(r.committed[side])
}

// Commit binds an agent to the ruck. Rejected over the cap or when the agent
// is already bound on either side.
func (r *Ruck) Commit(tun tuning.RuckTuning, side int, agentID string, strength, workRate float64) bool {
	if r.resolved || (side != 0 && side != 1) {
		return false
	}
	if len(r.committed[side]) >= tun.CommitCap {
		return false
	}
	for s := 0; s < 2; s++ {
		for _, p := range r.committed[s] {
			if p.ID == agentID {
				return false
			}
		}
	}
	r.committed[side] = append(r.committed[side], ruckParticipant{
		ID:    agentID,
		Power: (strength + workRate) / tun.PowerDivisor,
	})
	return true
}

func (r *Ruck) sidePower(tun tuning.RuckTuning, side int) float64 {
	sum := 0.0
	for _, p := range r.committed[side] {
		sum += p.Power
	}
	if sum < tun.PowerFloor {
		sum = tun.PowerFloor
	}
	return sum
}

// Step advances the ruck by one simulation tick. contestMult scales the
// defending pack only, mirroring how difficulty leans on the non-possessing
// side. Ball-available fires once; turnover and timeout end the contest.
func (r *Ruck) Step(rng *rand.Rand, tun tuning.RuckTuning, contestMult float64) RuckEvent {
	if r.resolved {
		return RuckNone
	}
	r.elapsedTicks++
	if r.elapsedTicks >= tun.TimeoutTicks {
		r.resolved = true
		return RuckTimeout
	}

	r.sinceLastStep++
	if r.sinceLastStep < tun.TickIntervalTicks {
		return RuckNone
	}
	r.sinceLastStep = 0

	if rng.Float64() < tun.InfringementPct {
		r.resolved = true
		r.InfringingSide = rng.Intn(2)
		return RuckInfringement
	}

	attack := r.sidePower(tun, r.AttackingSide)
	defend := r.sidePower(tun, 1-r.AttackingSide) * contestMult
	r.Dominance += (attack - defend) * 0.5

	if r.Dominance <= tun.TurnoverThreshold {
		r.resolved = true
		r.AttackingSide = 1 - r.AttackingSide
		return RuckTurnover
	}
	if !r.released && r.Dominance >= tun.ReleaseThreshold {
		r.released = true
		return RuckBallAvailable
	}
	return RuckNone
}
