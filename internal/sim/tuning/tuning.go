package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz     int     `yaml:"tick_rate_hz"`
	FieldLength    float64 `yaml:"field_length"`
	FieldWidth     float64 `yaml:"field_width"`
	InGoalDepth    float64 `yaml:"in_goal_depth"`
	HalfMinutes    int     `yaml:"half_minutes"`
	ClockSecPerMin float64 `yaml:"clock_sec_per_min"`

	Ruck    RuckTuning    `yaml:"ruck"`
	Maul    MaulTuning    `yaml:"maul"`
	Scrum   ScrumTuning   `yaml:"scrum"`
	Lineout LineoutTuning `yaml:"lineout"`
	Tackle  TackleTuning  `yaml:"tackle"`

	OffsideRuckRadius float64 `yaml:"offside_ruck_radius"`
	AdvantageGain     float64 `yaml:"advantage_gain"`
	AdvantageTicks    int     `yaml:"advantage_ticks"`

	ThinkIntervalTicks int `yaml:"think_interval_ticks"`
}

type RuckTuning struct {
	TickIntervalTicks int     `yaml:"tick_interval_ticks"`
	ReleaseThreshold  float64 `yaml:"release_threshold"`
	TurnoverThreshold float64 `yaml:"turnover_threshold"`
	CommitCap         int     `yaml:"commit_cap"`
	InfringementPct   float64 `yaml:"infringement_pct"`
	TimeoutTicks      int     `yaml:"timeout_ticks"`
	PowerDivisor      float64 `yaml:"power_divisor"`
	PowerFloor        float64 `yaml:"power_floor"`
}

type MaulTuning struct {
	BaseSpeed       float64 `yaml:"base_speed"`
	StallRatio      float64 `yaml:"stall_ratio"`
	StallTicks      int     `yaml:"stall_ticks"`
	MaxTicks        int     `yaml:"max_ticks"`
	JoinWindowTicks int     `yaml:"join_window_ticks"`
}

type ScrumTuning struct {
	EngageWindowTicks int     `yaml:"engage_window_ticks"`
	ContestTicks      int     `yaml:"contest_ticks"`
	OverloadPower     float64 `yaml:"overload_power"`
	OverloadHoldTicks int     `yaml:"overload_hold_ticks"`
	HookTarget        float64 `yaml:"hook_target"`
	InputBoost        float64 `yaml:"input_boost"`
	NoiseAmp          float64 `yaml:"noise_amp"`
}

type LineoutTuning struct {
	ChargeMaxTicks int     `yaml:"charge_max_ticks"`
	SweetSpotLow   float64 `yaml:"sweet_spot_low"`
	SweetSpotHigh  float64 `yaml:"sweet_spot_high"`
	StealInBand    float64 `yaml:"steal_in_band"`
	StealOffBand   float64 `yaml:"steal_off_band"`
}

type TackleTuning struct {
	SprintMomentum float64 `yaml:"sprint_momentum"`
	JogMomentum    float64 `yaml:"jog_momentum"`
	HeldUpMargin   float64 `yaml:"held_up_margin"`
	FendPenalty    float64 `yaml:"fend_penalty"`
	FendBoost      float64 `yaml:"fend_boost"`
}

// Difficulty is the externally supplied difficulty configuration record.
type Difficulty struct {
	Tier               int     `yaml:"tier"`
	ReactionDelayTicks int     `yaml:"reaction_delay_ticks"`
	TackleBonus        float64 `yaml:"tackle_bonus"`
	PassBonus          float64 `yaml:"pass_bonus"`
	PlayVariety        int     `yaml:"play_variety"`
	ContestMultiplier  float64 `yaml:"contest_multiplier"`
	KickAccuracy       float64 `yaml:"kick_accuracy"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.applyDefaults()
	return t, nil
}

// Default returns the shipped tuning without touching the filesystem.
func Default() Tuning {
	var t Tuning
	t.applyDefaults()
	return t
}

func (t *Tuning) applyDefaults() {
	if t.ProtocolVersion == "" {
		t.ProtocolVersion = "1.0"
	}
	if t.TickRateHz <= 0 {
		t.TickRateHz = 10
	}
	if t.FieldLength <= 0 {
		t.FieldLength = 100
	}
	if t.FieldWidth <= 0 {
		t.FieldWidth = 70
	}
	if t.InGoalDepth <= 0 {
		t.InGoalDepth = 10
	}
	if t.HalfMinutes <= 0 {
		t.HalfMinutes = 40
	}
	if t.ClockSecPerMin <= 0 {
		t.ClockSecPerMin = 1.5
	}
	if t.Ruck.TickIntervalTicks <= 0 {
		t.Ruck.TickIntervalTicks = 3
	}
	if t.Ruck.ReleaseThreshold == 0 {
		t.Ruck.ReleaseThreshold = 3.0
	}
	if t.Ruck.TurnoverThreshold == 0 {
		t.Ruck.TurnoverThreshold = -3.0
	}
	if t.Ruck.CommitCap <= 0 {
		t.Ruck.CommitCap = 5
	}
	if t.Ruck.InfringementPct == 0 {
		t.Ruck.InfringementPct = 0.02
	}
	if t.Ruck.TimeoutTicks <= 0 {
		t.Ruck.TimeoutTicks = 100
	}
	if t.Ruck.PowerDivisor <= 0 {
		t.Ruck.PowerDivisor = 100
	}
	if t.Ruck.PowerFloor <= 0 {
		t.Ruck.PowerFloor = 0.2
	}
	if t.Maul.BaseSpeed <= 0 {
		t.Maul.BaseSpeed = 0.3
	}
	if t.Maul.StallRatio <= 0 {
		t.Maul.StallRatio = 0.8
	}
	if t.Maul.StallTicks <= 0 {
		t.Maul.StallTicks = 30
	}
	if t.Maul.MaxTicks <= 0 {
		t.Maul.MaxTicks = 150
	}
	if t.Maul.JoinWindowTicks <= 0 {
		t.Maul.JoinWindowTicks = 20
	}
	if t.Scrum.EngageWindowTicks <= 0 {
		t.Scrum.EngageWindowTicks = 8
	}
	if t.Scrum.ContestTicks <= 0 {
		t.Scrum.ContestTicks = 80
	}
	if t.Scrum.OverloadPower == 0 {
		t.Scrum.OverloadPower = 6.0
	}
	if t.Scrum.OverloadHoldTicks <= 0 {
		t.Scrum.OverloadHoldTicks = 15
	}
	if t.Scrum.HookTarget <= 0 {
		t.Scrum.HookTarget = 100
	}
	if t.Scrum.InputBoost == 0 {
		t.Scrum.InputBoost = 0.8
	}
	if t.Scrum.NoiseAmp == 0 {
		t.Scrum.NoiseAmp = 0.4
	}
	if t.Lineout.ChargeMaxTicks <= 0 {
		t.Lineout.ChargeMaxTicks = 20
	}
	if t.Lineout.SweetSpotLow == 0 {
		t.Lineout.SweetSpotLow = 0.55
	}
	if t.Lineout.SweetSpotHigh == 0 {
		t.Lineout.SweetSpotHigh = 0.75
	}
	if t.Lineout.StealInBand == 0 {
		t.Lineout.StealInBand = 0.08
	}
	if t.Lineout.StealOffBand == 0 {
		t.Lineout.StealOffBand = 0.45
	}
	if t.Tackle.SprintMomentum == 0 {
		t.Tackle.SprintMomentum = 0.8
	}
	if t.Tackle.JogMomentum == 0 {
		t.Tackle.JogMomentum = 0.4
	}
	if t.Tackle.HeldUpMargin == 0 {
		t.Tackle.HeldUpMargin = 15
	}
	if t.Tackle.FendPenalty == 0 {
		t.Tackle.FendPenalty = 0.85
	}
	if t.Tackle.FendBoost == 0 {
		t.Tackle.FendBoost = 1.15
	}
	if t.OffsideRuckRadius <= 0 {
		t.OffsideRuckRadius = 1.0
	}
	if t.AdvantageGain <= 0 {
		t.AdvantageGain = 10
	}
	if t.AdvantageTicks <= 0 {
		t.AdvantageTicks = 60
	}
	if t.ThinkIntervalTicks <= 0 {
		t.ThinkIntervalTicks = 15
	}
}

// LoadDifficulty reads a difficulty profile; an empty path yields the
// mid-tier default.
func LoadDifficulty(path string) (Difficulty, error) {
	d := DefaultDifficulty()
	if path == "" {
		return d, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return d, err
	}
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return d, fmt.Errorf("difficulty.yaml: %w", err)
	}
	d.Clamp()
	return d, nil
}

func DefaultDifficulty() Difficulty {
	return Difficulty{
		Tier:               1,
		ReactionDelayTicks: 5,
		PlayVariety:        4,
		ContestMultiplier:  1.0,
		KickAccuracy:       1.0,
	}
}

func (d *Difficulty) Clamp() {
	if d.Tier < 0 {
		d.Tier = 0
	}
	if d.Tier > 3 {
		d.Tier = 3
	}
	if d.ReactionDelayTicks < 0 {
		d.ReactionDelayTicks = 0
	}
	if d.PlayVariety < 1 {
		d.PlayVariety = 1
	}
	if d.ContestMultiplier <= 0 {
		d.ContestMultiplier = 1.0
	}
	if d.KickAccuracy <= 0 {
		d.KickAccuracy = 1.0
	}
}
