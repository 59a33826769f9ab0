package match

import "scrumcraft.ai/internal/sim/steering"

// PenaltyRecord tracks an infringement and, while advantage is being
// played, the ground the non-offending side has made since.
type PenaltyRecord struct {
	Reason        string
	Severity      string
	Loc           steering.Vec2
	OffendingSide int

	Advantage      bool
	BallXAtOffence float64
	TicksLeft      int
}

// advantageGained reports whether the non-offending side carried the ball
// far enough past the mark to waive the penalty.
func (p *PenaltyRecord) advantageGained(ballX, required float64) bool {
	attackDir := 1.0
	if p.OffendingSide == 0 {
		// Offender is side 0, so side 1 (attacking -X) is playing advantage.
		attackDir = -1.0
	}
	return (ballX-p.BallXAtOffence)*attackDir >= required
}
