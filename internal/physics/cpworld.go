package physics

import (
	"github.com/jakecoffman/cp/v2"
)

const agentCollisionType cp.CollisionType = 1

// CPWorld is the Chipmunk-backed World
type CPWorld struct {
	space       *cp.Space
	bodies      map[AgentID]*cpBody
	order       []AgentID
	buffer      *contactBuffer
	separations []Separation
}

// NewCPWorld creates an empty space with the given gravity
func NewCPWorld(gravity cp.Vector) *CPWorld {
	space := cp.NewSpace()
	space.SetGravity(gravity)

	w := &CPWorld{
		space:  space,
		bodies: make(map[AgentID]*cpBody),
		buffer: newContactBuffer(),
	}

	handler := space.NewCollisionHandler(agentCollisionType, agentCollisionType)
	handler.PreSolveFunc = w.preSolve
	handler.SeparateFunc = w.separate
	return w
}

// Backend implements World
func (w *CPWorld) Backend() Backend { return BackendCP }

// AddBody implements World
func (w *CPWorld) AddBody(spec BodySpec) Body {
	b := &cpBody{
		id:          spec.ID,
		width:       spec.Width,
		height:      spec.Height,
		material:    spec.Material,
		constraints: spec.Constraints,
		damping:     spec.Damping,
		static:      spec.Static,
	}

	if spec.Static {
		b.body = cp.NewStaticBody()
	} else {
		mass := ClampMass(spec.Mass)
		b.moment = cp.MomentForBox(mass, spec.Width, spec.Height)
		moment := b.moment
		if spec.Constraints.Has(FreezeRotation) {
			moment = cp.INFINITY
		}
		b.body = cp.NewBody(mass, moment)
		b.body.SetVelocityUpdateFunc(b.updateVelocity)
	}
	b.body.UserData = spec.ID
	b.body.SetPosition(spec.Position)
	w.space.AddBody(b.body)

	b.shape = cp.NewBox(b.body, spec.Width, spec.Height, 0)
	b.shape.SetFriction(spec.Material.Friction)
	b.shape.SetElasticity(spec.Material.Bounciness)
	if !spec.Static {
		b.shape.SetCollisionType(agentCollisionType)
	}
	w.space.AddShape(b.shape)

	w.bodies[spec.ID] = b
	w.order = append(w.order, spec.ID)
	return b
}

// Body implements World
func (w *CPWorld) Body(id AgentID) (Body, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return nil, false
	}
	return b, true
}

// Bodies implements World
func (w *CPWorld) Bodies() []Body {
	out := make([]Body, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.bodies[id])
	}
	return out
}

// SetGravity implements World
func (w *CPWorld) SetGravity(g cp.Vector) {
	w.space.SetGravity(g)
}

// Step implements World
func (w *CPWorld) Step(dt float64) StepReport {
	w.space.Step(dt)
	report := StepReport{
		Contacts:    w.buffer.drain(),
		Separations: w.separations,
	}
	w.separations = nil
	return report
}

func (w *CPWorld) preSolve(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	a, b := arb.Bodies()
	ida, oka := a.UserData.(AgentID)
	idb, okb := b.UserData.(AgentID)
	if !oka || !okb {
		return true
	}

	set := arb.ContactPointSet()
	if set.Count == 0 {
		return true
	}
	points := make([]ContactPoint, 0, set.Count)
	for i := 0; i < set.Count; i++ {
		points = append(points, ContactPoint{Point: set.Points[i].PointA, Normal: set.Normal})
	}
	w.buffer.add(ida, idb, points, b.Velocity().Sub(a.Velocity()))
	return true
}

func (w *CPWorld) separate(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
	a, b := arb.Bodies()
	ida, oka := a.UserData.(AgentID)
	idb, okb := b.UserData.(AgentID)
	if !oka || !okb {
		return
	}
	w.separations = append(w.separations, Separation{A: ida, B: idb})
}

type cpBody struct {
	id          AgentID
	body        *cp.Body
	shape       *cp.Shape
	width       float64
	height      float64
	moment      float64
	material    Material
	constraints Constraints
	damping     Damping
	static      bool
}

func (b *cpBody) ID() AgentID              { return b.id }
func (b *cpBody) Position() cp.Vector      { return b.body.Position() }
func (b *cpBody) Velocity() cp.Vector      { return b.body.Velocity() }
func (b *cpBody) Material() Material       { return b.material }
func (b *cpBody) Constraints() Constraints { return b.constraints }
func (b *cpBody) Damping() Damping         { return b.damping }
func (b *cpBody) SetDamping(d Damping)     { b.damping = d }

func (b *cpBody) SetVelocity(v cp.Vector) {
	if b.static {
		return
	}
	b.body.SetVelocityVector(v)
}

func (b *cpBody) Teleport(p cp.Vector) {
	if b.static {
		return
	}
	b.body.SetPosition(p)
	b.body.SetVelocityVector(cp.Vector{})
	b.body.SetAngularVelocity(0)
	b.body.Activate()
}

func (b *cpBody) Mass() float64 {
	if b.static {
		return cp.INFINITY
	}
	return b.body.Mass()
}

func (b *cpBody) SetMass(m float64) {
	if b.static {
		return
	}
	m = ClampMass(m)
	b.body.SetMass(m)
	b.moment = cp.MomentForBox(m, b.width, b.height)
	if !b.constraints.Has(FreezeRotation) {
		b.body.SetMoment(b.moment)
	}
}

func (b *cpBody) ApplyImpulse(j cp.Vector) {
	if b.static {
		return
	}
	b.body.ApplyImpulseAtWorldPoint(j, b.body.Position())
}

func (b *cpBody) ApplyForce(f cp.Vector) {
	if b.static {
		return
	}
	b.body.ApplyForceAtWorldPoint(f, b.body.Position())
}

func (b *cpBody) SetMaterial(m Material) {
	b.material = m
	b.shape.SetFriction(m.Friction)
	b.shape.SetElasticity(m.Bounciness)
}

func (b *cpBody) SetConstraints(c Constraints) {
	b.constraints = c
	if b.static {
		return
	}
	if c.Has(FreezeRotation) {
		b.body.SetMoment(cp.INFINITY)
		b.body.SetAngularVelocity(0)
	} else {
		b.body.SetMoment(b.moment)
	}
}

func (b *cpBody) WakeUp() {
	if b.static {
		return
	}
	b.body.Activate()
}

// updateVelocity runs the default integrator, then applies per-body drag and
// positional freezes.
func (b *cpBody) updateVelocity(body *cp.Body, gravity cp.Vector, damping, dt float64) {
	cp.BodyUpdateVelocity(body, gravity, damping, dt)

	v := body.Velocity()
	if b.damping.Linear > 0 {
		v = v.Mult(1 / (1 + dt*b.damping.Linear))
	}
	if b.constraints.Has(FreezePositionX) {
		v.X = 0
	}
	if b.constraints.Has(FreezePositionY) {
		v.Y = 0
	}
	body.SetVelocityVector(v)

	if b.damping.Angular > 0 {
		body.SetAngularVelocity(body.AngularVelocity() / (1 + dt*b.damping.Angular))
	}
}
