package match

import "scrumcraft.ai/internal/sim/steering"

type BallState int

const (
	BallLoose BallState = iota
	BallCarried
	BallPassing
	BallKicked
)

func (s BallState) String() string {
	switch s {
	case BallCarried:
		return "carried"
	case BallPassing:
		return "passing"
	case BallKicked:
		return "kicked"
	}
	return "loose"
}

// Ball has at most one carrier; possession is asserted here and nowhere
// else. All mutations go through the transfer operations below so that any
// observer sees exactly zero or one carrier.
type Ball struct {
	State   BallState
	Carrier string // agent ID, set only while State == BallCarried
	Pos     steering.Vec2
	Vel     steering.Vec2

	// PassTarget is the intended receiver while in flight.
	PassTarget string
}

func (b *Ball) HasCarrier() bool { return b.State == BallCarried && b.Carrier != "" }

// PickUp gives possession to the agent. No-op while someone else carries.
func (b *Ball) PickUp(agentID string, pos steering.Vec2) bool {
	if b.State == BallCarried && b.Carrier != agentID {
		return false
	}
	b.State = BallCarried
	b.Carrier = agentID
	b.Pos = pos
	b.Vel = steering.Vec2{}
	b.PassTarget = ""
	return true
}

// StartPass releases the ball toward a receiver.
func (b *Ball) StartPass(toID string, vel steering.Vec2) {
	b.State = BallPassing
	b.Carrier = ""
	b.PassTarget = toID
	b.Vel = vel
}

// KickRelease puts the ball in the air with no owner.
func (b *Ball) KickRelease(vel steering.Vec2) {
	b.State = BallKicked
	b.Carrier = ""
	b.PassTarget = ""
	b.Vel = vel
}

// Dislodge knocks the ball free at the contact point.
func (b *Ball) Dislodge(pos steering.Vec2) {
	b.State = BallLoose
	b.Carrier = ""
	b.PassTarget = ""
	b.Pos = pos
	b.Vel = steering.Vec2{}
}
