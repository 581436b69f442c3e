package physics

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp/v2"
)

// Backend names a World implementation
type Backend string

const (
	BackendCP    Backend = "cp"
	BackendBox2D Backend = "box2d"
)

// ErrUnknownBackend is returned by NewWorld for unsupported backend names
var ErrUnknownBackend = errors.New("physics: unknown backend")

// BodySpec describes a box-shaped body to add to a World
type BodySpec struct {
	ID          AgentID
	Position    cp.Vector
	Width       float64
	Height      float64
	Mass        float64
	Material    Material
	Constraints Constraints
	Damping     Damping
	Static      bool
}

// ContactPoint is a single manifold point
type ContactPoint struct {
	Point  cp.Vector `json:"point"`
	Normal cp.Vector `json:"normal"`
}

// ContactReport is one touching pair reported by a step. Normals point from
// A into B and RelativeVelocity is B's velocity minus A's, both sampled
// before the solver ran.
type ContactReport struct {
	A                AgentID
	B                AgentID
	Points           []ContactPoint
	RelativeVelocity cp.Vector
}

// Involves reports whether id is one side of the contact
func (r ContactReport) Involves(id AgentID) bool {
	return r.A == id || r.B == id
}

// Other returns the agent on the opposite side of self
func (r ContactReport) Other(self AgentID) AgentID {
	if r.A == self {
		return r.B
	}
	return r.A
}

// Oriented re-expresses the report from self's point of view: normals point
// from the other body into self and the relative velocity is other minus self.
func (r ContactReport) Oriented(self AgentID) ([]ContactPoint, cp.Vector) {
	out := make([]ContactPoint, len(r.Points))
	if self == r.A {
		for i, p := range r.Points {
			out[i] = ContactPoint{Point: p.Point, Normal: p.Normal.Neg()}
		}
		return out, r.RelativeVelocity
	}
	copy(out, r.Points)
	return out, r.RelativeVelocity.Neg()
}

// Separation is a pair that stopped touching during a step
type Separation struct {
	A AgentID
	B AgentID
}

// Involves reports whether id is one side of the pair
func (s Separation) Involves(id AgentID) bool {
	return s.A == id || s.B == id
}

// StepReport lists dynamic-vs-dynamic contacts observed during a step.
// Contacts with static geometry are resolved but not reported.
type StepReport struct {
	Contacts    []ContactReport
	Separations []Separation
}

// Between returns the merged report for the (a, b) pair oriented from a
func (s StepReport) Between(a, b AgentID) ([]ContactPoint, cp.Vector, bool) {
	var points []ContactPoint
	var rel cp.Vector
	found := false
	for _, c := range s.Contacts {
		if !(c.Involves(a) && c.Other(a) == b) {
			continue
		}
		pts, rv := c.Oriented(a)
		points = append(points, pts...)
		if !found {
			rel = rv
		}
		found = true
	}
	return points, rel, found
}

// Separated reports whether a and b stopped touching
func (s StepReport) Separated(a, b AgentID) bool {
	for _, sep := range s.Separations {
		if sep.Involves(a) && sep.Involves(b) {
			return true
		}
	}
	return false
}

// World is a steppable rigid-body space. Contacts are buffered during Step
// and returned afterwards so callers never mutate bodies mid-solve.
type World interface {
	Backend() Backend
	AddBody(spec BodySpec) Body
	Body(id AgentID) (Body, bool)
	Bodies() []Body
	SetGravity(g cp.Vector)
	Step(dt float64) StepReport
}

// NewWorld builds a world for the named backend
func NewWorld(backend Backend, gravity cp.Vector) (World, error) {
	switch backend {
	case BackendCP, "":
		return NewCPWorld(gravity), nil
	case BackendBox2D:
		return NewBox2DWorld(gravity), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

type pairKey struct {
	lo AgentID
	hi AgentID
}

func makePair(a, b AgentID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// contactBuffer merges per-arbiter callbacks into one report per pair
type contactBuffer struct {
	index   map[pairKey]int
	reports []ContactReport
}

func newContactBuffer() *contactBuffer {
	return &contactBuffer{index: make(map[pairKey]int)}
}

func (c *contactBuffer) add(a, b AgentID, points []ContactPoint, rel cp.Vector) {
	key := makePair(a, b)
	i, ok := c.index[key]
	if !ok {
		c.index[key] = len(c.reports)
		c.reports = append(c.reports, ContactReport{A: a, B: b, Points: points, RelativeVelocity: rel})
		return
	}
	r := &c.reports[i]
	if r.A != a {
		for j := range points {
			points[j].Normal = points[j].Normal.Neg()
		}
	}
	r.Points = append(r.Points, points...)
}

func (c *contactBuffer) drain() []ContactReport {
	out := c.reports
	c.reports = nil
	for k := range c.index {
		delete(c.index, k)
	}
	return out
}
