package contest

import (
	"math/rand"

	"scrumcraft.ai/internal/sim/steering"
	"scrumcraft.ai/internal/sim/tuning"
)

type LineoutRow int

const (
	LineoutFront LineoutRow = iota
	LineoutMiddle
	LineoutBack
)

func (r LineoutRow) String() string {
	switch r {
	case LineoutFront:
		return "front"
	case LineoutMiddle:
		return "middle"
	case LineoutBack:
		return "back"
	}
	return "middle"
}

type LineoutPhase int

const (
	LineoutAim LineoutPhase = iota
	LineoutCharging
	LineoutDone
)

// FollowUp is the throwing side's call after winning its own throw.
type FollowUp int

const (
	FollowUpQuickBall FollowUp = iota
	FollowUpDriveMaul
)

// Lineout is the throw-in mini-game: pick a row, charge the throw, release
// inside the sweet-spot band for safe ball. Releasing outside the band makes
// the throw stealable.
type Lineout struct {
	Mark         steering.Vec2
	ThrowingSide int

	Phase  LineoutPhase
	Row    LineoutRow
	charge int

	Won      bool
	Stolen   bool
	Call     FollowUp
	resolved bool
}

func NewLineout(mark steering.Vec2, throwingSide int) *Lineout {
	return &Lineout{Mark: mark, ThrowingSide: throwingSide, Row: LineoutMiddle}
}

func (l *Lineout) Resolved() bool { return l.resolved }

// Aim picks the target row and starts the charge.
func (l *Lineout) Aim(row LineoutRow) {
	if l.Phase != LineoutAim {
		return
	}
	if row >= LineoutFront && row <= LineoutBack {
		l.Row = row
	}
	l.Phase = LineoutCharging
	l.charge = 0
}

// Step advances the charge; an over-held charge auto-releases at the cap.
func (l *Lineout) Step(rng *rand.Rand, tun tuning.LineoutTuning) {
	if l.Phase != LineoutCharging {
		return
	}
	l.charge++
	if l.charge >= tun.ChargeMaxTicks {
		l.Release(rng, tun)
	}
}

// Charge reports charge progress in [0,1].
func (l *Lineout) Charge(tun tuning.LineoutTuning) float64 {
	return float64(l.charge) / float64(tun.ChargeMaxTicks)
}

// Release throws the ball at the current charge level. The back row is the
// longest throw and shaves the sweet spot tighter; the front row widens it.
func (l *Lineout) Release(rng *rand.Rand, tun tuning.LineoutTuning) {
	if l.Phase != LineoutCharging || l.resolved {
		return
	}
	l.Phase = LineoutDone
	l.resolved = true

	low, high := tun.SweetSpotLow, tun.SweetSpotHigh
	switch l.Row {
	case LineoutFront:
		low -= 0.05
		high += 0.05
	case LineoutBack:
		low += 0.05
		high -= 0.05
	}

	c := l.Charge(tun)
	steal := tun.StealOffBand
	if c >= low && c <= high {
		steal = tun.StealInBand
	}
	l.Stolen = rng.Float64() < steal
	l.Won = !l.Stolen
}

// Choose records the follow-up call; only meaningful on a clean win.
func (l *Lineout) Choose(f FollowUp) {
	if l.resolved && l.Won {
		l.Call = f
	}
}
