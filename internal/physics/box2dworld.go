package physics

import (
	"github.com/ByteArena/box2d"
	"github.com/jakecoffman/cp/v2"
)

const (
	box2dVelocityIterations = 8
	box2dPositionIterations = 3
)

// Box2DWorld is the Box2D-backed World. Box2D locks the world during Step,
// so the contact listener only records and all mutations happen in between.
type Box2DWorld struct {
	world       *box2d.B2World
	bodies      map[AgentID]*b2Body
	order       []AgentID
	buffer      *contactBuffer
	separations []Separation
}

// NewBox2DWorld creates an empty world with the given gravity
func NewBox2DWorld(gravity cp.Vector) *Box2DWorld {
	world := box2d.MakeB2World(toB2(gravity))
	w := &Box2DWorld{
		world:  &world,
		bodies: make(map[AgentID]*b2Body),
		buffer: newContactBuffer(),
	}
	w.world.SetContactListener(w)
	return w
}

func toB2(v cp.Vector) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(v.X, v.Y)
}

func fromB2(v box2d.B2Vec2) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

// Backend implements World
func (w *Box2DWorld) Backend() Backend { return BackendBox2D }

// AddBody implements World
func (w *Box2DWorld) AddBody(spec BodySpec) Body {
	def := box2d.MakeB2BodyDef()
	if spec.Static {
		def.Type = box2d.B2BodyType.B2_staticBody
	} else {
		def.Type = box2d.B2BodyType.B2_dynamicBody
	}
	def.Position = toB2(spec.Position)
	def.FixedRotation = spec.Constraints.Has(FreezeRotation)
	def.LinearDamping = spec.Damping.Linear
	def.AngularDamping = spec.Damping.Angular
	def.UserData = spec.ID

	body := w.world.CreateBody(&def)

	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(spec.Width/2, spec.Height/2)

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &shape
	fd.Friction = spec.Material.Friction
	fd.Restitution = spec.Material.Bounciness
	if area := spec.Width * spec.Height; area > 0 && !spec.Static {
		fd.Density = ClampMass(spec.Mass) / area
	}
	body.CreateFixtureFromDef(&fd)

	b := &b2Body{
		id:          spec.ID,
		body:        body,
		material:    spec.Material,
		constraints: spec.Constraints,
		static:      spec.Static,
	}
	if !spec.Static {
		b.SetMass(spec.Mass)
	}
	w.bodies[spec.ID] = b
	w.order = append(w.order, spec.ID)
	return b
}

// Body implements World
func (w *Box2DWorld) Body(id AgentID) (Body, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return nil, false
	}
	return b, true
}

// Bodies implements World
func (w *Box2DWorld) Bodies() []Body {
	out := make([]Body, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.bodies[id])
	}
	return out
}

// SetGravity implements World
func (w *Box2DWorld) SetGravity(g cp.Vector) {
	w.world.SetGravity(toB2(g))
}

// Step implements World
func (w *Box2DWorld) Step(dt float64) StepReport {
	w.world.Step(dt, box2dVelocityIterations, box2dPositionIterations)

	// Box2D has no per-axis lock, so positional freezes are enforced after the solve.
	for _, id := range w.order {
		b := w.bodies[id]
		if b.static || b.constraints&(FreezePositionX|FreezePositionY) == 0 {
			continue
		}
		b.SetVelocity(b.Velocity())
	}

	report := StepReport{
		Contacts:    w.buffer.drain(),
		Separations: w.separations,
	}
	w.separations = nil
	return report
}

func contactAgents(contact box2d.B2ContactInterface) (AgentID, AgentID, bool) {
	fa, fb := contact.GetFixtureA(), contact.GetFixtureB()
	if fa == nil || fb == nil {
		return 0, 0, false
	}
	ba, bb := fa.GetBody(), fb.GetBody()
	if ba.GetType() != box2d.B2BodyType.B2_dynamicBody || bb.GetType() != box2d.B2BodyType.B2_dynamicBody {
		return 0, 0, false
	}
	ida, oka := ba.GetUserData().(AgentID)
	idb, okb := bb.GetUserData().(AgentID)
	return ida, idb, oka && okb
}

// BeginContact implements box2d.B2ContactListenerInterface
func (w *Box2DWorld) BeginContact(contact box2d.B2ContactInterface) {}

// EndContact implements box2d.B2ContactListenerInterface
func (w *Box2DWorld) EndContact(contact box2d.B2ContactInterface) {
	ida, idb, ok := contactAgents(contact)
	if !ok {
		return
	}
	w.separations = append(w.separations, Separation{A: ida, B: idb})
}

// PreSolve implements box2d.B2ContactListenerInterface
func (w *Box2DWorld) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {
	ida, idb, ok := contactAgents(contact)
	if !ok {
		return
	}
	count := contact.GetManifold().PointCount
	if count == 0 {
		return
	}

	wm := box2d.MakeB2WorldManifold()
	contact.GetWorldManifold(&wm)
	normal := fromB2(wm.Normal)

	points := make([]ContactPoint, 0, count)
	for i := 0; i < count; i++ {
		points = append(points, ContactPoint{Point: fromB2(wm.Points[i]), Normal: normal})
	}

	va := contact.GetFixtureA().GetBody().GetLinearVelocity()
	vb := contact.GetFixtureB().GetBody().GetLinearVelocity()
	w.buffer.add(ida, idb, points, fromB2(vb).Sub(fromB2(va)))
}

// PostSolve implements box2d.B2ContactListenerInterface
func (w *Box2DWorld) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {}

type b2Body struct {
	id          AgentID
	body        *box2d.B2Body
	material    Material
	constraints Constraints
	static      bool
}

func (b *b2Body) ID() AgentID              { return b.id }
func (b *b2Body) Position() cp.Vector      { return fromB2(b.body.GetPosition()) }
func (b *b2Body) Velocity() cp.Vector      { return fromB2(b.body.GetLinearVelocity()) }
func (b *b2Body) Material() Material       { return b.material }
func (b *b2Body) Constraints() Constraints { return b.constraints }

func (b *b2Body) SetVelocity(v cp.Vector) {
	if b.static {
		return
	}
	if b.constraints.Has(FreezePositionX) {
		v.X = 0
	}
	if b.constraints.Has(FreezePositionY) {
		v.Y = 0
	}
	b.body.SetLinearVelocity(toB2(v))
}

func (b *b2Body) Teleport(p cp.Vector) {
	if b.static {
		return
	}
	b.body.SetTransform(toB2(p), b.body.GetAngle())
	b.body.SetLinearVelocity(box2d.B2Vec2{})
	b.body.SetAngularVelocity(0)
	b.body.SetAwake(true)
}

func (b *b2Body) Mass() float64 {
	if b.static {
		return cp.INFINITY
	}
	return b.body.GetMass()
}

func (b *b2Body) SetMass(m float64) {
	if b.static {
		return
	}
	m = ClampMass(m)
	var md box2d.B2MassData
	b.body.GetMassData(&md)
	if md.Mass > 0 {
		md.I *= m / md.Mass
	}
	md.Mass = m
	b.body.SetMassData(&md)
}

func (b *b2Body) ApplyImpulse(j cp.Vector) {
	if b.static {
		return
	}
	b.body.ApplyLinearImpulse(toB2(j), b.body.GetWorldCenter(), true)
}

func (b *b2Body) ApplyForce(f cp.Vector) {
	if b.static {
		return
	}
	b.body.ApplyForceToCenter(toB2(f), true)
}

func (b *b2Body) SetMaterial(m Material) {
	b.material = m
	for f := b.body.GetFixtureList(); f != nil; f = f.GetNext() {
		f.SetFriction(m.Friction)
		f.SetRestitution(m.Bounciness)
	}
	// Live contacts cache the mixed coefficients.
	for edge := b.body.GetContactList(); edge != nil; edge = edge.Next {
		edge.Contact.ResetFriction()
		edge.Contact.ResetRestitution()
	}
}

func (b *b2Body) SetConstraints(c Constraints) {
	b.constraints = c
	if b.static {
		return
	}
	// SetFixedRotation recomputes mass from fixture density; keep the live mass
	mass := b.body.GetMass()
	b.body.SetFixedRotation(c.Has(FreezeRotation))
	if b.body.GetMass() != mass {
		b.SetMass(mass)
	}
}

func (b *b2Body) Damping() Damping {
	return Damping{Linear: b.body.GetLinearDamping(), Angular: b.body.GetAngularDamping()}
}

func (b *b2Body) SetDamping(d Damping) {
	b.body.SetLinearDamping(d.Linear)
	b.body.SetAngularDamping(d.Angular)
}

func (b *b2Body) WakeUp() {
	if b.static {
		return
	}
	b.body.SetAwake(true)
}
