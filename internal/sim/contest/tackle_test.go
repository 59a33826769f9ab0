package contest

import (
	"math"
	"math/rand"
	"testing"

	"scrumcraft.ai/internal/sim/tuning"
)

func tackleTun() tuning.TackleTuning { return tuning.Default().Tackle }

func TestTackleProbabilities_SumToOne(t *testing.T) {
	tun := tackleTun()
	inputs := []TackleInput{
		{TacklerTackling: 80, TacklerStrength: 70, CarrierStrength: 60, CarrierSpeed: 75, CarrierSprinting: true},
		{TacklerTackling: 20, TacklerStrength: 30, CarrierStrength: 90, CarrierSpeed: 90, CarrierFending: true},
		{TacklerTackling: 50, TacklerStrength: 50, CarrierStrength: 50, CarrierSpeed: 50},
		{TacklerTackling: 0, TacklerStrength: 0, CarrierStrength: 100, CarrierSpeed: 100, CarrierSprinting: true, CarrierFending: true},
		{TacklerTackling: 100, TacklerStrength: 100, CarrierStrength: 0, CarrierSpeed: 0},
	}
	for i, in := range inputs {
		d, n, m, f := TackleProbabilities(tun, in)
		sum := d + n + m + f
		if math.Abs(sum-1) > 1e-9 {
			t.Fatalf("input %d: probabilities sum to %f", i, sum)
		}
		for _, p := range []float64{d, n, m, f} {
			if p < 0 || p > 1 {
				t.Fatalf("input %d: probability %f out of range", i, p)
			}
		}
	}
}

func TestTackleProbabilities_DominantGrowsWithRatio(t *testing.T) {
	tun := tackleTun()
	prev := -1.0
	for tackling := 10.0; tackling <= 100; tackling += 10 {
		in := TackleInput{
			TacklerTackling: tackling,
			TacklerStrength: tackling,
			CarrierStrength: 50,
			CarrierSpeed:    50,
		}
		d, _, _, _ := TackleProbabilities(tun, in)
		if d < prev {
			t.Fatalf("dominant probability not monotonic at tackling=%g: %f < %f", tackling, d, prev)
		}
		prev = d
	}
}

func TestResolveTackle_MissedHasNoCarrierConsequence(t *testing.T) {
	tun := tackleTun()
	rng := rand.New(rand.NewSource(7))
	in := TackleInput{TacklerTackling: 5, TacklerStrength: 5, CarrierStrength: 95, CarrierSpeed: 95, CarrierSprinting: true}
	for i := 0; i < 500; i++ {
		res := ResolveTackle(rng, tun, in)
		if res.Outcome != TackleMissed {
			continue
		}
		if res.CarrierGrounded || res.BallDislodged || res.CarrierSlowed {
			t.Fatalf("missed tackle touched the carrier: %+v", res)
		}
		if !res.TacklerStumbles {
			t.Fatalf("missed tackle should leave the tackler stumbling")
		}
		return
	}
	t.Fatalf("never rolled a missed tackle against an overpowering carrier")
}

func TestResolveTackle_HeldUpRequiresStrengthMarginAndNoSprint(t *testing.T) {
	tun := tackleTun()
	rng := rand.New(rand.NewSource(11))
	in := TackleInput{TacklerTackling: 55, TacklerStrength: 40, CarrierStrength: 90, CarrierSpeed: 40}
	sawHeldUp := false
	for i := 0; i < 2000; i++ {
		res := ResolveTackle(rng, tun, in)
		if res.Outcome == TackleHeldUp {
			sawHeldUp = true
			if res.CarrierGrounded || res.BallDislodged {
				t.Fatalf("held-up tackle must leave both upright: %+v", res)
			}
		}
	}
	if !sawHeldUp {
		t.Fatalf("strong non-sprinting carrier never held up")
	}

	// Sprinting disables the override entirely.
	in.CarrierSprinting = true
	for i := 0; i < 2000; i++ {
		if ResolveTackle(rng, tun, in).Outcome == TackleHeldUp {
			t.Fatalf("sprinting carrier should never be held up")
		}
	}
}
