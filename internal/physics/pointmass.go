package physics

import (
	"math"

	"github.com/jakecoffman/cp/v2"
)

// PointBody is a detached box integrated with explicit Euler. It never
// collides; controller tests drive it tick by tick and read back forces.
type PointBody struct {
	id          AgentID
	pos         cp.Vector
	vel         cp.Vector
	force       cp.Vector
	halfW       float64
	halfH       float64
	mass        float64
	material    Material
	constraints Constraints
	damping     Damping
	static      bool
	wakes       int
}

// NewPointBody builds a detached body from spec
func NewPointBody(spec BodySpec) *PointBody {
	return &PointBody{
		id:          spec.ID,
		pos:         spec.Position,
		halfW:       spec.Width / 2,
		halfH:       spec.Height / 2,
		mass:        ClampMass(spec.Mass),
		material:    spec.Material,
		constraints: spec.Constraints,
		damping:     spec.Damping,
		static:      spec.Static,
	}
}

func (b *PointBody) ID() AgentID                  { return b.id }
func (b *PointBody) Position() cp.Vector          { return b.pos }
func (b *PointBody) Velocity() cp.Vector          { return b.vel }
func (b *PointBody) Material() Material           { return b.material }
func (b *PointBody) SetMaterial(m Material)       { b.material = m }
func (b *PointBody) Constraints() Constraints     { return b.constraints }
func (b *PointBody) SetConstraints(c Constraints) { b.constraints = c }
func (b *PointBody) Damping() Damping             { return b.damping }
func (b *PointBody) SetDamping(d Damping)         { b.damping = d }

// Force returns the force accumulated since the last integration
func (b *PointBody) Force() cp.Vector { return b.force }

// Wakes counts WakeUp calls
func (b *PointBody) Wakes() int { return b.wakes }

// SetPosition teleports the body
func (b *PointBody) SetPosition(p cp.Vector) { b.pos = p }

func (b *PointBody) Teleport(p cp.Vector) {
	if b.static {
		return
	}
	b.pos = p
	b.vel = cp.Vector{}
	b.force = cp.Vector{}
}

func (b *PointBody) SetVelocity(v cp.Vector) {
	if b.static {
		return
	}
	b.vel = v
}

func (b *PointBody) Mass() float64 {
	if b.static {
		return math.Inf(1)
	}
	return b.mass
}

func (b *PointBody) SetMass(m float64) {
	if b.static {
		return
	}
	b.mass = ClampMass(m)
}

func (b *PointBody) ApplyImpulse(j cp.Vector) {
	if b.static {
		return
	}
	b.vel = b.vel.Add(j.Mult(1 / b.mass))
}

func (b *PointBody) ApplyForce(f cp.Vector) {
	if b.static {
		return
	}
	b.force = b.force.Add(f)
}

func (b *PointBody) WakeUp() { b.wakes++ }

// Integrate advances the body by dt under gravity and clears accumulated force
func (b *PointBody) Integrate(gravity cp.Vector, dt float64) {
	if b.static {
		return
	}
	accel := gravity.Add(b.force.Mult(1 / b.mass))
	v := b.vel.Add(accel.Mult(dt))
	if b.damping.Linear > 0 {
		v = v.Mult(1 / (1 + dt*b.damping.Linear))
	}
	if b.constraints.Has(FreezePositionX) {
		v.X = 0
	}
	if b.constraints.Has(FreezePositionY) {
		v.Y = 0
	}
	b.vel = v
	b.force = cp.Vector{}
	b.pos = b.pos.Add(v.Mult(dt))
}
