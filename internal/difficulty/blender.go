package difficulty

import (
	"fmt"
	"log"
	"sync"

	"boss-brawl/internal/combat"
)

// Targets are the live components a blend is written into. Nil entries are
// skipped.
type Targets struct {
	Shove      *combat.ShoveResolver
	BossShove  *combat.BossShove
	Chase      *combat.ChaseController
	Counter    *combat.CounterPush
	BossStun   *combat.KnockbackStun
	PlayerStun *combat.KnockbackStun
	Player     *combat.Agent
	Boss       *combat.Agent
}

// Blender interpolates the three anchor profiles by progress and pushes the
// result into the combat components
type Blender struct {
	mu          sync.RWMutex
	curve       Curve
	baseline    Profile
	parity      Profile
	overpowered Profile
	last        Profile
	lastAt      int
	applied     int
	debugLogs   bool
}

// NewBlender creates a blender over the stock anchor profiles
func NewBlender(c Curve) *Blender {
	return NewBlenderWith(c, BaselineProfile(), ParityProfile(), OverpoweredProfile())
}

// NewBlenderWith creates a blender over custom anchors
func NewBlenderWith(c Curve, baseline, parity, overpowered Profile) *Blender {
	return &Blender{
		curve:       c,
		baseline:    baseline,
		parity:      parity,
		overpowered: overpowered,
		lastAt:      -1,
	}
}

// SetDebugLogs toggles per-apply logging and the components' own debug logs
func (b *Blender) SetDebugLogs(on bool) {
	b.mu.Lock()
	b.debugLogs = on
	b.mu.Unlock()
}

// Curve returns the checkpoints
func (b *Blender) Curve() Curve {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.curve
}

// SetCurve replaces the checkpoints; takes effect on the next Apply
func (b *Blender) SetCurve(c Curve) {
	b.mu.Lock()
	b.curve = c
	b.mu.Unlock()
}

// Anchors returns copies of the three anchor profiles
func (b *Blender) Anchors() (baseline, parity, overpowered Profile) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.baseline, b.parity, b.overpowered
}

// Profile computes the blended bundle for progress without applying it
func (b *Blender) Profile(progress int) Profile {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.profileLocked(progress)
}

func (b *Blender) profileLocked(progress int) Profile {
	t1, t2 := b.curve.Factors(progress)

	out := b.baseline
	out.Name = fmt.Sprintf("blend@%d", progress)
	for _, f := range blended {
		base := *f.ptr(&b.baseline)
		par := *f.ptr(&b.parity)
		over := *f.ptr(&b.overpowered)
		*f.ptr(&out) = blend(base, par, over, t1, t2)
	}
	if b.debugLogs {
		out.Shove.DebugLogs = true
		out.BossShove.DebugLogs = true
		out.Chase.DebugLogs = true
		out.Counter.DebugLogs = true
		out.BossStun.DebugLogs = true
		out.PlayerStun.DebugLogs = true
	}
	return out
}

// Apply blends for progress and overwrites every target's tunables and the
// agents' base masses. Running sequences and timers are left alone; the
// caller applies between ticks so no component sees a partial bundle.
func (b *Blender) Apply(progress int, t Targets) Profile {
	b.mu.Lock()
	p := b.profileLocked(progress)
	b.last = p
	b.lastAt = progress
	b.applied++
	debug := b.debugLogs
	b.mu.Unlock()

	if t.Shove != nil {
		t.Shove.SetDesign(p.Shove)
	}
	if t.BossShove != nil {
		t.BossShove.SetDesign(p.BossShove)
	}
	if t.Chase != nil {
		t.Chase.SetDesign(p.Chase)
	}
	if t.Counter != nil {
		t.Counter.SetDesign(p.Counter)
	}
	if t.BossStun != nil {
		t.BossStun.SetDesign(p.BossStun)
	}
	if t.PlayerStun != nil {
		t.PlayerStun.SetDesign(p.PlayerStun)
	}
	if t.Player != nil {
		t.Player.Overlay.SetBaseMass(p.PlayerMass)
	}
	if t.Boss != nil {
		t.Boss.Overlay.SetBaseMass(p.BossMass)
	}

	if debug {
		log.Printf("🎚️ Difficulty applied: progress=%d dv=%.2f cooldown=%.2f bossMass=%.2f chase=%.2f",
			progress, p.Shove.BaseTargetDeltaV, p.Shove.Cooldown, p.BossMass, p.Chase.TargetSpeed)
	}
	return p
}

// Last returns the most recently applied bundle and its progress; progress is
// -1 before the first Apply
func (b *Blender) Last() (Profile, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last, b.lastAt
}

// Applied returns how many times Apply ran
func (b *Blender) Applied() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.applied
}
