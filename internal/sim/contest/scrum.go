package contest

import (
	"math/rand"

	"scrumcraft.ai/internal/sim/steering"
	"scrumcraft.ai/internal/sim/tuning"
)

type ScrumPhase int

const (
	ScrumSetup ScrumPhase = iota
	ScrumEngage
	ScrumContestPhase
	ScrumDone
)

type ScrumEvent int

const (
	ScrumNone ScrumEvent = iota
	ScrumSet
	ScrumEarlyEngage
	ScrumReset
	ScrumWon
	ScrumCollapse
)

// Scrum is the timed set-piece mini-game: a setup/engage timing gate, then a
// power push with a parallel two-sided hooking race to 100. Signed power is
// positive toward the feeding side.
type Scrum struct {
	Centre      steering.Vec2
	FeedingSide int

	Phase ScrumPhase

	Power        float64
	HookProgress [2]float64

	Winner         int
	PenaltyAgainst int
	Collapsed      bool

	strength [2]float64

	ticksInPhase  int
	overloadTicks int
	pushes        [2]int

	// Winner's channel choice after clean ball: "blind" or "open".
	Direction string
}

const scrumSetupTicks = 10

func NewScrum(centre steering.Vec2, feedingSide int, strength [2]float64) *Scrum {
	return &Scrum{
		Centre:         centre,
		FeedingSide:    feedingSide,
		strength:       strength,
		Winner:         -1,
		PenaltyAgainst: -1,
	}
}

func (s *Scrum) Resolved() bool { return s.Phase == ScrumDone }

// EngageTicks reports how long the engage window has been open.
func (s *Scrum) EngageTicks() int {
	if s.Phase != ScrumEngage {
		return 0
	}
	return s.ticksInPhase
}

// TriggerSet is the primary timed input. During setup it is an early
// engagement (penalty); inside the engage window it binds the packs.
func (s *Scrum) TriggerSet(side int) ScrumEvent {
	switch s.Phase {
	case ScrumSetup:
		s.Phase = ScrumDone
		s.PenaltyAgainst = side
		return ScrumEarlyEngage
	case ScrumEngage:
		s.Phase = ScrumContestPhase
		s.ticksInPhase = 0
		return ScrumSet
	}
	return ScrumNone
}

// Push registers one rapid timed input for the side; consumed on the next
// Step.
func (s *Scrum) Push(side int) {
	if side != 0 && side != 1 {
		return
	}
	if s.Phase == ScrumContestPhase {
		s.pushes[side]++
	}
}

func (s *Scrum) Step(rng *rand.Rand, tun tuning.ScrumTuning, contestMult float64) ScrumEvent {
	switch s.Phase {
	case ScrumSetup:
		s.ticksInPhase++
		if s.ticksInPhase >= scrumSetupTicks {
			s.Phase = ScrumEngage
			s.ticksInPhase = 0
		}
		return ScrumNone

	case ScrumEngage:
		s.ticksInPhase++
		if s.ticksInPhase >= tun.EngageWindowTicks {
			// Nobody registered the set; repack.
			s.Phase = ScrumDone
			return ScrumReset
		}
		return ScrumNone

	case ScrumContestPhase:
		s.ticksInPhase++

		feed := s.FeedingSide
		base := (s.strength[feed] - s.strength[1-feed]*contestMult) / 100
		input := float64(s.pushes[feed]-s.pushes[1-feed]) * tun.InputBoost
		noise := (rng.Float64()*2 - 1) * tun.NoiseAmp
		s.pushes[0], s.pushes[1] = 0, 0
		s.Power += base + input + noise

		// Hooking race: both hookers strike, the shoving side strikes faster.
		for side := 0; side < 2; side++ {
			rate := 1.0 + s.strength[side]/200
			if (side == feed) == (s.Power > 0) {
				rate *= 1.5
			}
			s.HookProgress[side] += rate
		}

		// Sustained overload collapses the scrum against the overpushing
		// side, regardless of the hooking race.
		if s.Power > tun.OverloadPower || s.Power < -tun.OverloadPower {
			s.overloadTicks++
			if s.overloadTicks >= tun.OverloadHoldTicks {
				s.Phase = ScrumDone
				s.Collapsed = true
				if s.Power > 0 {
					s.PenaltyAgainst = feed
				} else {
					s.PenaltyAgainst = 1 - feed
				}
				return ScrumCollapse
			}
		} else {
			s.overloadTicks = 0
		}

		for side := 0; side < 2; side++ {
			if s.HookProgress[side] >= tun.HookTarget {
				s.Phase = ScrumDone
				s.Winner = side
				return ScrumWon
			}
		}

		if s.ticksInPhase >= tun.ContestTicks {
			s.Phase = ScrumDone
			if s.HookProgress[0] >= s.HookProgress[1] {
				s.Winner = 0
			} else {
				s.Winner = 1
			}
			return ScrumWon
		}
		return ScrumNone
	}
	return ScrumNone
}

// ChooseDirection records the winner's blind/open side call before play
// resumes.
func (s *Scrum) ChooseDirection(dir string) {
	if dir == "blind" || dir == "open" {
		s.Direction = dir
	}
}
