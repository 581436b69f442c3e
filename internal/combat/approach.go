package combat

import (
	"math"

	"boss-brawl/internal/physics"

	"github.com/jakecoffman/cp/v2"
)

// ContactSample is one tick of contact between Self and Other. Normals point
// from Other into Self and SolverRelVel is Other's velocity minus Self's.
type ContactSample struct {
	Points       []physics.ContactPoint
	SelfPos      cp.Vector
	SelfPrevPos  cp.Vector
	SelfVel      cp.Vector
	OtherPos     cp.Vector
	OtherPrevPos cp.Vector
	OtherVel     cp.Vector
	SolverRelVel cp.Vector
	Dt           float64
}

// ApproachEstimate is the reduced contact signal. PushDir points from Self
// toward Other; Approach is positive while the two close on each other.
type ApproachEstimate struct {
	PushDir  cp.Vector `json:"pushDir"`
	Approach float64   `json:"approach"`
	Point    cp.Vector `json:"point"`
}

// EstimateApproach picks the contact Other is driving into hardest. Each
// point takes the largest of three closing-speed readings (position delta,
// current velocities, solver relative velocity) so a solver that zeroes
// relative velocity during penetration cannot hide a real charge.
func EstimateApproach(s ContactSample) (ApproachEstimate, bool) {
	dt := math.Max(MinDt, s.Dt)
	selfDelta := s.SelfPos.Sub(s.SelfPrevPos).Mult(1 / dt)
	otherDelta := s.OtherPos.Sub(s.OtherPrevPos).Mult(1 / dt)
	relPrev := otherDelta.Sub(selfDelta)
	relNow := s.OtherVel.Sub(s.SelfVel)

	best := ApproachEstimate{Approach: math.Inf(-1)}
	found := false
	for _, p := range s.Points {
		if p.Normal.LengthSq() < 1e-12 {
			continue
		}
		n := p.Normal.Normalize()
		approach := math.Max(relPrev.Dot(n), math.Max(relNow.Dot(n), s.SolverRelVel.Dot(n)))
		if !found || approach > best.Approach {
			best = ApproachEstimate{PushDir: n.Neg(), Approach: approach, Point: p.Point}
			found = true
		}
	}
	return best, found
}

// SampleFrom builds a sample for self from a step report and the positions
// both agents held before the step.
func SampleFrom(self, other physics.Body, points []physics.ContactPoint, rel cp.Vector, selfPrev, otherPrev cp.Vector, dt float64) ContactSample {
	return ContactSample{
		Points:       points,
		SelfPos:      self.Position(),
		SelfPrevPos:  selfPrev,
		SelfVel:      self.Velocity(),
		OtherPos:     other.Position(),
		OtherPrevPos: otherPrev,
		OtherVel:     other.Velocity(),
		SolverRelVel: rel,
		Dt:           dt,
	}
}
