// Package physics wraps the rigid-body backends used by the duel and exposes
// the narrow body/world surface the combat controllers need.
package physics

import (
	"github.com/jakecoffman/cp/v2"
)

// AgentID identifies a body inside a World
type AgentID uint32

// MinMass keeps every dynamic body strictly positive
const MinMass = 1e-3

// Material is the contact surface of a body
type Material struct {
	Name       string  `json:"name"`
	Friction   float64 `json:"friction"`
	Bounciness float64 `json:"bounciness"`
}

// Constraints are freeze flags on a body's degrees of freedom
type Constraints uint8

const (
	FreezePositionX Constraints = 1 << iota
	FreezePositionY
	FreezeRotation
)

// Has reports whether every flag in f is set
func (c Constraints) Has(f Constraints) bool {
	return c&f == f
}

// Damping is per-second velocity drag
type Damping struct {
	Linear  float64 `json:"linear"`
	Angular float64 `json:"angular"`
}

// Body is the handle the controllers use to read and drive an agent.
// Implementations must only be mutated between world steps.
type Body interface {
	ID() AgentID
	Position() cp.Vector
	Velocity() cp.Vector
	SetVelocity(v cp.Vector)
	// Teleport moves the body to p and leaves it at rest
	Teleport(p cp.Vector)
	Mass() float64
	SetMass(m float64)
	ApplyImpulse(j cp.Vector)
	ApplyForce(f cp.Vector)
	Material() Material
	SetMaterial(m Material)
	Constraints() Constraints
	SetConstraints(c Constraints)
	Damping() Damping
	SetDamping(d Damping)
	WakeUp()
}

// ClampMass floors m at MinMass
func ClampMass(m float64) float64 {
	if m < MinMass {
		return MinMass
	}
	return m
}

// Props is the restorable part of a body's state
type Props struct {
	Mass        float64
	Material    Material
	Constraints Constraints
	Damping     Damping
}

// Capture reads the restorable properties of b
func Capture(b Body) Props {
	return Props{
		Mass:        b.Mass(),
		Material:    b.Material(),
		Constraints: b.Constraints(),
		Damping:     b.Damping(),
	}
}

// ApplyTo writes p back onto b
func (p Props) ApplyTo(b Body) {
	b.SetConstraints(p.Constraints)
	b.SetMass(p.Mass)
	b.SetMaterial(p.Material)
	b.SetDamping(p.Damping)
}
