package combat

import (
	"log"
	"math"

	"boss-brawl/internal/physics"

	"github.com/jakecoffman/cp/v2"
)

// StunDesign holds the knockback tunables
type StunDesign struct {
	// DefaultSeconds is used when ApplyKnockback gets a negative duration
	DefaultSeconds float64 `json:"defaultSeconds"`
	// MinHorizontalSpeed is enforced every tick while stunned; 0 disables the slide
	MinHorizontalSpeed float64 `json:"minHorizontalSpeed"`
	// StunMaterial replaces the body material while stunned when set
	StunMaterial *physics.Material `json:"stunMaterial,omitempty"`
	// ZeroHorizontalOnHit clears horizontal velocity before the impulse
	ZeroHorizontalOnHit bool `json:"zeroHorizontalOnHit"`
	DebugLogs           bool `json:"debugLogs"`
}

// DefaultBossStunDesign slides the boss on a low-friction surface
func DefaultBossStunDesign() StunDesign {
	return StunDesign{
		DefaultSeconds:     0.35,
		MinHorizontalSpeed: 5,
		StunMaterial:       &physics.Material{Name: "stun_slick", Friction: 0.05},
	}
}

// DefaultPlayerStunDesign gives the player a crisp, short disable
func DefaultPlayerStunDesign() StunDesign {
	return StunDesign{
		DefaultSeconds:      0.25,
		ZeroHorizontalOnHit: true,
	}
}

var (
	stunConstraints = physics.FreezeRotation
	stunDamping     = physics.Damping{Linear: 0, Angular: 0.05}
)

// KnockbackStun applies knockback impulses and owns the timed stun that
// follows. While stunned the agent's movement controller is disabled and the
// body runs with rotation-only constraints, no linear drag and the optional
// stun material. The previous properties come back through the overlay when
// the stun expires or is cancelled.
type KnockbackStun struct {
	overlay *physics.Overlay
	mover   MovementController
	design  StunDesign

	feedback Feedback
	hitPulse Pulse
	hitCue   string

	stunned         bool
	remaining       float64
	dirX            float64
	token           physics.Token
	moverWasEnabled bool

	hits        int
	slideFix    int
	lastControl int64
}

// NewKnockbackStun builds a handler for the overlay's body. mover may be nil.
func NewKnockbackStun(o *physics.Overlay, mover MovementController, d StunDesign) *KnockbackStun {
	return &KnockbackStun{
		overlay:     o,
		mover:       mover,
		design:      d,
		lastControl: -1,
	}
}

// SetHitFeedback wires the pulse and cue sent on every hit
func (k *KnockbackStun) SetHitFeedback(fb Feedback, pulse Pulse, cue string) {
	k.feedback = fb
	k.hitPulse = pulse
	k.hitCue = cue
}

// SetMover replaces the suspended movement controller
func (k *KnockbackStun) SetMover(m MovementController) {
	k.mover = m
}

// SetDesign swaps tunables without touching an active stun
func (k *KnockbackStun) SetDesign(d StunDesign) {
	k.design = d
}

// Design returns the current tunables
func (k *KnockbackStun) Design() StunDesign {
	return k.design
}

// IsStunned reports whether a stun is active
func (k *KnockbackStun) IsStunned() bool {
	return k.stunned
}

// Remaining returns the scaled seconds left on the active stun
func (k *KnockbackStun) Remaining() float64 {
	return k.remaining
}

// LastControl returns the sequence of the last tick the stun held the body
func (k *KnockbackStun) LastControl() int64 {
	return k.lastControl
}

// Hits returns how many knockbacks were applied
func (k *KnockbackStun) Hits() int {
	return k.hits
}

// SlideCorrections returns how many ticks the minimum slide had to be forced
func (k *KnockbackStun) SlideCorrections() int {
	return k.slideFix
}

// ApplyKnockback applies impulse immediately and (re)starts the stun. A
// negative stunSeconds selects the design default; zero applies the impulse
// without a stun.
func (k *KnockbackStun) ApplyKnockback(impulse cp.Vector, stunSeconds float64) {
	body := k.overlay.Body()

	if k.design.ZeroHorizontalOnHit {
		v := body.Velocity()
		body.SetVelocity(cp.Vector{X: 0, Y: v.Y})
	}
	body.ApplyImpulse(impulse)
	body.WakeUp()
	k.hits++

	if stunSeconds < 0 {
		stunSeconds = k.design.DefaultSeconds
	}
	if k.stunned {
		k.restore()
	}
	if stunSeconds > 0 && !math.IsInf(stunSeconds, 0) {
		k.enter(impulse, stunSeconds)
	}

	k.feedback.Shake(k.hitPulse)
	k.feedback.Play(k.hitCue)
}

func (k *KnockbackStun) enter(impulse cp.Vector, seconds float64) {
	k.dirX = 1
	if impulse.X < 0 {
		k.dirX = -1
	}

	layer := physics.Layer{
		Name:        "stun",
		Constraints: &stunConstraints,
		Damping:     &stunDamping,
	}
	if k.design.StunMaterial != nil {
		m := *k.design.StunMaterial
		layer.Material = &m
	}
	k.token = k.overlay.Push(layer)

	k.moverWasEnabled = false
	if k.mover != nil {
		k.moverWasEnabled = k.mover.Enabled()
		k.mover.SetEnabled(false)
	}

	k.stunned = true
	k.remaining = seconds

	if k.design.DebugLogs {
		log.Printf("💫 Stun begin: agent=%d secs=%.2f dirX=%.0f", k.overlay.Body().ID(), seconds, k.dirX)
	}
}

// Step expires a finished stun or enforces the minimum slide for this tick.
// Expiry is checked first so the tick that restores the body is already free
// for the movement controller.
func (k *KnockbackStun) Step(tick Tick) {
	if !k.stunned {
		return
	}
	if k.remaining <= 1e-9 {
		k.restore()
		return
	}
	k.lastControl = tick.Seq

	if floor := k.design.MinHorizontalSpeed; floor > 0 {
		body := k.overlay.Body()
		v := body.Velocity()
		if math.Abs(v.X) < floor {
			v.X = k.dirX * floor
			body.SetVelocity(v)
			k.slideFix++
		}
	}

	k.remaining -= tick.Dt
}

// Cancel ends an active stun immediately and restores the body. It is the
// teardown hook and is safe to call at any time.
func (k *KnockbackStun) Cancel() {
	if k.stunned {
		k.restore()
	}
}

func (k *KnockbackStun) restore() {
	k.overlay.Pop(k.token)
	if k.mover != nil && k.moverWasEnabled {
		k.mover.SetEnabled(true)
	}
	k.stunned = false
	k.remaining = 0

	if k.design.DebugLogs {
		log.Printf("💫 Stun end: agent=%d restored", k.overlay.Body().ID())
	}
}
