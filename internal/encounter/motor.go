package encounter

import (
	"boss-brawl/internal/combat"
	"boss-brawl/internal/physics"

	"github.com/jakecoffman/cp/v2"
)

// MotorPhase is one leg of the scripted player's routine
type MotorPhase uint8

const (
	MotorLean MotorPhase = iota
	MotorRetreat
	MotorCharge
)

func (p MotorPhase) String() string {
	switch p {
	case MotorLean:
		return "lean"
	case MotorRetreat:
		return "retreat"
	case MotorCharge:
		return "charge"
	default:
		return "unknown"
	}
}

// MotorDesign tunes the scripted player
type MotorDesign struct {
	LeanSpeed      float64 `json:"leanSpeed"`
	RetreatSpeed   float64 `json:"retreatSpeed"`
	ChargeSpeed    float64 `json:"chargeSpeed"`
	Gain           float64 `json:"gain"`
	LeanSeconds    float64 `json:"leanSeconds"`
	RetreatSeconds float64 `json:"retreatSeconds"`
	ChargeSeconds  float64 `json:"chargeSeconds"`
}

// DefaultMotorDesign leans long enough to provoke a brace, backs off, then
// charges hard enough to draw a parry
func DefaultMotorDesign() MotorDesign {
	return MotorDesign{
		LeanSpeed:      1.5,
		RetreatSpeed:   4,
		ChargeSpeed:    9,
		Gain:           30,
		LeanSeconds:    1.2,
		RetreatSeconds: 0.5,
		ChargeSeconds:  0.8,
	}
}

// ScriptedMotor stands in for player input. It is the player's
// MovementController, so a knockback stun suspends it.
type ScriptedMotor struct {
	self   physics.Body
	target physics.Body
	design MotorDesign

	enabled bool
	phase   MotorPhase
	elapsed float64
}

// NewScriptedMotor drives self relative to target
func NewScriptedMotor(self, target physics.Body, d MotorDesign) *ScriptedMotor {
	return &ScriptedMotor{
		self:    self,
		target:  target,
		design:  d,
		enabled: true,
	}
}

// SetEnabled implements combat.MovementController
func (m *ScriptedMotor) SetEnabled(enabled bool) { m.enabled = enabled }

// Enabled implements combat.MovementController
func (m *ScriptedMotor) Enabled() bool { return m.enabled }

// Phase returns the current routine leg
func (m *ScriptedMotor) Phase() MotorPhase { return m.phase }

// Reset restarts the routine from the lean
func (m *ScriptedMotor) Reset() {
	m.phase = MotorLean
	m.elapsed = 0
	m.enabled = true
}

func (m *ScriptedMotor) phaseLength() float64 {
	switch m.phase {
	case MotorRetreat:
		return m.design.RetreatSeconds
	case MotorCharge:
		return m.design.ChargeSeconds
	default:
		return m.design.LeanSeconds
	}
}

// Step pushes toward the phase's target speed. Returns false when disabled.
func (m *ScriptedMotor) Step(tick combat.Tick) bool {
	if !m.enabled || m.self == nil || m.target == nil {
		return false
	}

	m.elapsed += tick.Dt
	if m.elapsed >= m.phaseLength() {
		m.elapsed = 0
		m.phase = (m.phase + 1) % 3
	}

	dir := combat.ChaseDirection(m.target.Position().X-m.self.Position().X, 0)
	var want float64
	switch m.phase {
	case MotorLean:
		want = dir * m.design.LeanSpeed
	case MotorRetreat:
		want = -dir * m.design.RetreatSpeed
	case MotorCharge:
		want = dir * m.design.ChargeSpeed
	}

	force := (want - m.self.Velocity().X) * m.design.Gain * m.self.Mass()
	m.self.ApplyForce(cp.Vector{X: force})
	return true
}
