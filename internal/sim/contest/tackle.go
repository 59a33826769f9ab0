// Package contest holds the physical-contest resolvers: tackle, ruck, maul,
// scrum and lineout. Each resolver is a small state machine advanced once per
// simulation tick by the match loop; all randomness comes in through the
// caller's seeded *rand.Rand so outcomes replay deterministically.
package contest

import (
	"math/rand"

	"scrumcraft.ai/internal/sim/tuning"
)

type TackleOutcome int

const (
	TackleDominant TackleOutcome = iota
	TackleNormal
	TackleMissed
	TackleFendOff
	TackleHeldUp
)

func (o TackleOutcome) String() string {
	switch o {
	case TackleDominant:
		return "dominant"
	case TackleNormal:
		return "normal"
	case TackleMissed:
		return "missed"
	case TackleFendOff:
		return "fend_off"
	case TackleHeldUp:
		return "held_up"
	}
	return "unknown"
}

type TackleInput struct {
	TacklerTackling float64 // 0..100
	TacklerStrength float64 // 0..100
	CarrierStrength float64 // 0..100
	CarrierSpeed    float64 // 0..100

	CarrierSprinting bool
	CarrierFending   bool

	// TackleBonus comes from the difficulty record and shifts the
	// tackler's effective power.
	TackleBonus float64
}

// TackleResult carries the sampled outcome plus its fixed consequences.
type TackleResult struct {
	Outcome         TackleOutcome
	CarrierGrounded bool
	BallDislodged   bool
	TacklerStumbles bool
	CarrierSlowed   bool
}

// TackleProbabilities returns the normalized probabilities of the four
// rolled buckets in order: dominant, normal, missed, fend-off. The held-up
// outcome is an override applied after the roll, never rolled directly.
func TackleProbabilities(tun tuning.TackleTuning, in TackleInput) (dominant, normal, missed, fend float64) {
	ratio := tacklePowerRatio(tun, in)

	// Un-normalized bucket weights. A ratio well above 1 piles weight onto
	// dominant; well below 1 onto missed and fend-off.
	dominant = ratio * ratio
	normal = 1.0
	missed = 0.6 / ratio
	fend = 0.25 / ratio
	if !in.CarrierFending {
		fend *= 0.3
	}

	total := dominant + normal + missed + fend
	return dominant / total, normal / total, missed / total, fend / total
}

func tacklePowerRatio(tun tuning.TackleTuning, in TackleInput) float64 {
	momentum := tun.JogMomentum
	if in.CarrierSprinting {
		momentum = tun.SprintMomentum
	}

	tacklerTackling := in.TacklerTackling
	tacklerStrength := in.TacklerStrength
	carrierStrength := in.CarrierStrength
	if in.CarrierFending {
		tacklerTackling *= tun.FendPenalty
		tacklerStrength *= tun.FendPenalty
		carrierStrength *= tun.FendBoost
	}

	tacklerPower := 0.6*tacklerTackling + 0.4*tacklerStrength + in.TackleBonus
	carrierPower := 0.5*carrierStrength + 0.5*in.CarrierSpeed*momentum
	if carrierPower < 1 {
		carrierPower = 1
	}
	if tacklerPower < 1 {
		tacklerPower = 1
	}
	return tacklerPower / carrierPower
}

// ResolveTackle samples one outcome and attaches its consequences.
func ResolveTackle(rng *rand.Rand, tun tuning.TackleTuning, in TackleInput) TackleResult {
	dominant, normal, missed, _ := TackleProbabilities(tun, in)

	roll := rng.Float64()
	var out TackleOutcome
	switch {
	case roll < dominant:
		out = TackleDominant
	case roll < dominant+normal:
		out = TackleNormal
	case roll < dominant+normal+missed:
		out = TackleMissed
	default:
		out = TackleFendOff
	}

	// A strong, unhurried carrier stays on their feet: feeds the maul path.
	if out == TackleNormal && !in.CarrierSprinting &&
		in.CarrierStrength > in.TacklerStrength+tun.HeldUpMargin {
		out = TackleHeldUp
	}

	res := TackleResult{Outcome: out}
	switch out {
	case TackleDominant:
		res.CarrierGrounded = true
		res.BallDislodged = true
	case TackleNormal:
		res.CarrierGrounded = true
	case TackleMissed:
		res.TacklerStumbles = true
	case TackleFendOff:
		res.TacklerStumbles = true
		res.CarrierSlowed = true
	case TackleHeldUp:
		// Both stay upright, primed for a maul.
	}
	return res
}
