package contest

import (
	"math/rand"
	"testing"

	"scrumcraft.ai/internal/sim/steering"
	"scrumcraft.ai/internal/sim/tuning"
)

func TestLineout_SweetSpotReleaseRarelyStolen(t *testing.T) {
	tun := tuning.Default().Lineout
	rng := rand.New(rand.NewSource(1))

	// Charge into the middle of the sweet band, release, repeat.
	target := int(float64(tun.ChargeMaxTicks) * (tun.SweetSpotLow + tun.SweetSpotHigh) / 2)
	stolen := 0
	const trials = 2000
	for i := 0; i < trials; i++ {
		l := NewLineout(steering.Vec2{X: 60}, 0)
		l.Aim(LineoutMiddle)
		for c := 0; c < target; c++ {
			l.Step(rng, tun)
		}
		l.Release(rng, tun)
		if !l.Resolved() {
			t.Fatalf("release did not resolve the lineout")
		}
		if l.Stolen {
			stolen++
		}
	}
	rate := float64(stolen) / trials
	if rate > tun.StealInBand*2 {
		t.Fatalf("sweet-spot steal rate %f too high", rate)
	}
}

func TestLineout_OffBandReleaseOftenStolen(t *testing.T) {
	tun := tuning.Default().Lineout
	rng := rand.New(rand.NewSource(2))

	stolen := 0
	const trials = 2000
	for i := 0; i < trials; i++ {
		l := NewLineout(steering.Vec2{X: 60}, 0)
		l.Aim(LineoutBack)
		l.Step(rng, tun) // barely charged: well under the band
		l.Release(rng, tun)
		if l.Stolen {
			stolen++
		}
	}
	rate := float64(stolen) / trials
	if rate < tun.StealOffBand*0.7 {
		t.Fatalf("off-band steal rate %f too low", rate)
	}
}

func TestLineout_OverheldChargeAutoReleases(t *testing.T) {
	tun := tuning.Default().Lineout
	rng := rand.New(rand.NewSource(3))
	l := NewLineout(steering.Vec2{}, 1)
	l.Aim(LineoutFront)
	for i := 0; i < tun.ChargeMaxTicks+5; i++ {
		l.Step(rng, tun)
	}
	if !l.Resolved() {
		t.Fatalf("charge held past the cap never released")
	}
}

func TestLineout_FollowUpOnlyOnCleanWin(t *testing.T) {
	tun := tuning.Default().Lineout
	tun.StealInBand = 0 // guarantee the win
	rng := rand.New(rand.NewSource(4))

	l := NewLineout(steering.Vec2{}, 0)
	l.Choose(FollowUpDriveMaul) // before resolution: ignored
	l.Aim(LineoutMiddle)
	target := int(float64(tun.ChargeMaxTicks) * (tun.SweetSpotLow + tun.SweetSpotHigh) / 2)
	for c := 0; c < target; c++ {
		l.Step(rng, tun)
	}
	l.Release(rng, tun)
	if !l.Won {
		t.Fatalf("zero steal band should always win")
	}
	l.Choose(FollowUpDriveMaul)
	if l.Call != FollowUpDriveMaul {
		t.Fatalf("follow-up call not recorded after clean win")
	}
}
