package match

// OffsideTracker keeps one offside-line scalar per side. During a ruck the
// lines sit either side of the ruck centre; in open play they collapse to
// the field extremes and offside is judged against the ball in a simplified
// form by the FSM, not here.
type OffsideTracker struct {
	lines [2]float64

	fieldLength float64
}

func newOffsideTracker(fieldLength float64) *OffsideTracker {
	o := &OffsideTracker{fieldLength: fieldLength}
	o.collapse()
	return o
}

// collapse pushes both lines to the extremes so nobody is offside.
func (o *OffsideTracker) collapse() {
	// Side 0 attacks +X: its line at the far extreme never binds, mirrored
	// for side 1.
	o.lines[0] = o.fieldLength
	o.lines[1] = 0
}

// setContest pins both lines around a contest centre, asymmetric by attack
// direction: each side must retreat behind the centre on its own half, so
// side 0 (attacking +X) holds at centre-radius and side 1 at centre+radius.
func (o *OffsideTracker) setContest(centreX, radius float64) {
	o.lines[0] = centreX - radius
	o.lines[1] = centreX + radius
}

func (o *OffsideTracker) Line(side int) float64 {
	if side != 0 && side != 1 {
		return 0
	}
	return o.lines[side]
}

// IsOffside reports whether the agent is beyond its own side's line in its
// attack direction. Side 0 attacks toward +X and is offside ahead of its
// line; side 1 mirrors.
func (o *OffsideTracker) IsOffside(a *Agent) bool {
	if a == nil {
		return false
	}
	if a.Side == 0 {
		return a.Pos.X > o.lines[0]
	}
	return a.Pos.X < o.lines[1]
}
