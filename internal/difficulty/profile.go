package difficulty

import "boss-brawl/internal/combat"

// Profile is one named bundle of every tunable the blender owns
type Profile struct {
	Name       string                 `json:"name"`
	Shove      combat.ShoveDesign     `json:"shove"`
	BossShove  combat.BossShoveDesign `json:"bossShove"`
	Chase      combat.ChaseDesign     `json:"chase"`
	Counter    combat.CounterDesign   `json:"counter"`
	BossStun   combat.StunDesign      `json:"bossStun"`
	PlayerStun combat.StunDesign      `json:"playerStun"`
	PlayerMass float64                `json:"playerMass"`
	BossMass   float64                `json:"bossMass"`
}

// field addresses one blended float inside a Profile
type field struct {
	name string
	ptr  func(*Profile) *float64
}

// blended lists every tunable that moves along the curve. Anything not
// listed (materials, flags, unlisted timings) is taken from the baseline.
var blended = []field{
	{"shove.baseTargetDeltaV", func(p *Profile) *float64 { return &p.Shove.BaseTargetDeltaV }},
	{"shove.relativeSpeedBoost", func(p *Profile) *float64 { return &p.Shove.RelativeSpeedBoost }},
	{"shove.cooldown", func(p *Profile) *float64 { return &p.Shove.Cooldown }},
	{"shove.pushAssistForce", func(p *Profile) *float64 { return &p.Shove.PushAssistForce }},
	{"shove.minImpulse", func(p *Profile) *float64 { return &p.Shove.MinImpulse }},
	{"bossShove.impulse", func(p *Profile) *float64 { return &p.BossShove.Impulse }},
	{"chase.targetSpeed", func(p *Profile) *float64 { return &p.Chase.TargetSpeed }},
	{"chase.accelGain", func(p *Profile) *float64 { return &p.Chase.AccelGain }},
	{"chase.maxSpeed", func(p *Profile) *float64 { return &p.Chase.MaxSpeed }},
	{"bossStun.minHorizontalSpeed", func(p *Profile) *float64 { return &p.BossStun.MinHorizontalSpeed }},
	{"bossStun.defaultSeconds", func(p *Profile) *float64 { return &p.BossStun.DefaultSeconds }},
	{"counter.counterImpulse", func(p *Profile) *float64 { return &p.Counter.CounterImpulse }},
	{"counter.parryThreshold", func(p *Profile) *float64 { return &p.Counter.ParryThreshold }},
	{"playerMass", func(p *Profile) *float64 { return &p.PlayerMass }},
	{"bossMass", func(p *Profile) *float64 { return &p.BossMass }},
}

// BlendedFields returns the names of the tunables that move along the curve
func BlendedFields() []string {
	names := make([]string, len(blended))
	for i, f := range blended {
		names[i] = f.name
	}
	return names
}

func stock() Profile {
	return Profile{
		Shove:      combat.DefaultShoveDesign(),
		BossShove:  combat.DefaultBossShoveDesign(),
		Chase:      combat.DefaultChaseDesign(),
		Counter:    combat.DefaultCounterDesign(),
		BossStun:   combat.DefaultBossStunDesign(),
		PlayerStun: combat.DefaultPlayerStunDesign(),
		PlayerMass: 1.6,
		BossMass:   2.8,
	}
}

// BaselineProfile is the tuning for a player with no progress: a heavy,
// fast boss and weak shoves.
func BaselineProfile() Profile {
	p := stock()
	p.Name = "baseline"
	p.Shove.BaseTargetDeltaV = 3.0
	p.Shove.RelativeSpeedBoost = 0.9
	p.Shove.Cooldown = 0.22
	p.Shove.PushAssistForce = 20
	p.Shove.MinImpulse = 34
	p.BossShove.Impulse = 14
	p.Chase.TargetSpeed = 7.0
	p.Chase.AccelGain = 42
	p.Chase.MaxSpeed = 9
	p.BossStun.MinHorizontalSpeed = 11
	p.BossStun.DefaultSeconds = 0.30
	p.Counter.CounterImpulse = 14
	p.Counter.ParryThreshold = 3.0
	p.BossMass = 2.8
	return p
}

// ParityProfile is an even fight
func ParityProfile() Profile {
	p := stock()
	p.Name = "parity"
	p.Shove.BaseTargetDeltaV = 5.4
	p.Shove.RelativeSpeedBoost = 0.9
	p.Shove.Cooldown = 0.14
	p.Shove.PushAssistForce = 90
	p.Shove.MinImpulse = 26
	p.BossShove.Impulse = 10
	p.Chase.TargetSpeed = 5.2
	p.Chase.AccelGain = 28
	p.Chase.MaxSpeed = 7.2
	p.BossStun.MinHorizontalSpeed = 9
	p.BossStun.DefaultSeconds = 0.42
	p.Counter.CounterImpulse = 12
	p.Counter.ParryThreshold = 3.4
	p.BossMass = 2.3
	return p
}

// OverpoweredProfile lets the player bully the boss around
func OverpoweredProfile() Profile {
	p := stock()
	p.Name = "overpowered"
	p.Shove.BaseTargetDeltaV = 6.6
	p.Shove.RelativeSpeedBoost = 0.9
	p.Shove.Cooldown = 0.11
	p.Shove.PushAssistForce = 120
	p.Shove.MinImpulse = 28
	p.BossShove.Impulse = 8.5
	p.Chase.TargetSpeed = 4.6
	p.Chase.AccelGain = 22
	p.Chase.MaxSpeed = 6.2
	p.BossStun.MinHorizontalSpeed = 8
	p.BossStun.DefaultSeconds = 0.48
	p.Counter.CounterImpulse = 10
	p.Counter.ParryThreshold = 3.8
	p.BossMass = 2.1
	return p
}
