package match

import (
	"fmt"

	"scrumcraft.ai/internal/protocol"
	"scrumcraft.ai/internal/sim/steering"
)

// Attributes is the 0-100 skill vector every player carries.
type Attributes struct {
	Speed     float64
	Strength  float64
	Handling  float64
	Kicking   float64
	Stamina   float64
	Tackling  float64
	Awareness float64
	WorkRate  float64
}

type Agent struct {
	ID   string
	Name string
	Side int // team index, 0 home / 1 away
	Role string

	Attr    Attributes
	Stamina float64 // 0..100, drained by sprinting

	Pos steering.Vec2
	Vel steering.Vec2

	State AgentState

	// FormationTarget is written only by the tactical director.
	FormationTarget steering.Vec2

	Sprinting bool
	Fending   bool

	// Grounded players sit out until the counter drains.
	GroundedTicks int
	StumbleTicks  int

	// BoundContest marks ruck/maul membership; bound agents skip free play.
	BoundContest bool

	// Human control: movement intent applied instead of FSM steering.
	Controlled bool
	Intent     steering.Vec2

	// Pending tactical order ("pass" / "kick"), consumed by the FSM as an
	// immediate state override.
	order string
}

func newAgent(side, num int, p protocol.PlayerProfile) *Agent {
	return &Agent{
		ID:   fmt.Sprintf("T%d-%02d", side+1, num+1),
		Name: p.Name,
		Side: side,
		Role: p.Role,
		Attr: Attributes{
			Speed:     float64(p.Speed),
			Strength:  float64(p.Strength),
			Handling:  float64(p.Handling),
			Kicking:   float64(p.Kicking),
			Stamina:   float64(p.Stamina),
			Tackling:  float64(p.Tackling),
			Awareness: float64(p.Awareness),
			WorkRate:  float64(p.WorkRate),
		},
		Stamina: 100,
	}
}

// maxSpeed converts the speed attribute into field units per tick, throttled
// by fatigue.
func (a *Agent) maxSpeed() float64 {
	base := 0.25 + a.Attr.Speed/400 // 0.25..0.5 units/tick
	fatigue := 0.6 + 0.4*a.Stamina/100
	if a.Sprinting {
		base *= 1.4
	}
	return base * fatigue
}

func (a *Agent) drainStamina() {
	if a.Sprinting {
		a.Stamina -= 0.15 * (1.2 - a.Attr.Stamina/200)
	} else if a.Vel.Len() > 0.05 {
		a.Stamina -= 0.02
	} else {
		a.Stamina += 0.05
	}
	if a.Stamina < 0 {
		a.Stamina = 0
	}
	if a.Stamina > 100 {
		a.Stamina = 100
	}
}

func (a *Agent) upright() bool {
	return a.GroundedTicks == 0 && a.StumbleTicks == 0
}

// isForward reports whether the role packs down at set pieces.
func (a *Agent) isForward() bool {
	switch a.Role {
	case "prop", "hooker", "lock", "flanker", "number8":
		return true
	}
	return false
}
