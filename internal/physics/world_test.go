package physics

import (
	"testing"

	"github.com/jakecoffman/cp/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	leftID  AgentID = 1
	rightID AgentID = 2
)

func addPair(w World) (Body, Body) {
	mat := Material{Name: "default", Friction: 0.4}
	left := w.AddBody(BodySpec{ID: leftID, Position: cp.Vector{X: -1.5}, Width: 1, Height: 1, Mass: 1, Material: mat, Constraints: FreezeRotation})
	right := w.AddBody(BodySpec{ID: rightID, Position: cp.Vector{X: 1.5}, Width: 1, Height: 1, Mass: 1, Material: mat, Constraints: FreezeRotation})
	left.SetVelocity(cp.Vector{X: 2})
	right.SetVelocity(cp.Vector{X: -2})
	return left, right
}

var backends = []Backend{BackendCP, BackendBox2D}

// TestBackendsReportHeadOnContact verifies each backend reports the pair with a consistent normal
func TestBackendsReportHeadOnContact(t *testing.T) {
	for _, backend := range backends {
		t.Run(string(backend), func(t *testing.T) {
			w, err := NewWorld(backend, cp.Vector{})
			require.NoError(t, err)
			assert.Equal(t, backend, w.Backend())
			addPair(w)

			var points []ContactPoint
			var rel cp.Vector
			touched := false
			for i := 0; i < 120 && !touched; i++ {
				points, rel, touched = w.Step(1.0/60).Between(leftID, rightID)
			}
			require.True(t, touched, "bodies never touched")
			require.NotEmpty(t, points)

			// seen from the left body the right one pushes in from +X
			assert.Less(t, points[0].Normal.X, 0.0)
			assert.Greater(t, rel.Dot(points[0].Normal), 0.0, "bodies were closing")
		})
	}
}

// TestBackendsReportSeparation verifies a pair pulled apart is reported separated once
func TestBackendsReportSeparation(t *testing.T) {
	for _, backend := range backends {
		t.Run(string(backend), func(t *testing.T) {
			w, err := NewWorld(backend, cp.Vector{})
			require.NoError(t, err)
			left, right := addPair(w)

			touched := false
			for i := 0; i < 120 && !touched; i++ {
				_, _, touched = w.Step(1.0/60).Between(leftID, rightID)
			}
			require.True(t, touched)

			left.Teleport(cp.Vector{X: -6})
			right.Teleport(cp.Vector{X: 6})
			separated := false
			for i := 0; i < 3 && !separated; i++ {
				separated = w.Step(1.0/60).Separated(leftID, rightID)
			}
			assert.True(t, separated)
			assert.False(t, w.Step(1.0/60).Separated(leftID, rightID))
		})
	}
}

// TestBackendsRestOnStaticGround verifies agents settle on static geometry and
// ground contacts never reach the agent contact report
func TestBackendsRestOnStaticGround(t *testing.T) {
	for _, backend := range backends {
		t.Run(string(backend), func(t *testing.T) {
			w, err := NewWorld(backend, cp.Vector{Y: -20})
			require.NoError(t, err)
			w.AddBody(BodySpec{ID: 10, Position: cp.Vector{Y: -0.5}, Width: 20, Height: 1, Static: true, Material: Material{Friction: 0.8}})
			b := w.AddBody(BodySpec{ID: 1, Position: cp.Vector{Y: 1}, Width: 1, Height: 1, Mass: 1, Constraints: FreezeRotation})

			for i := 0; i < 120; i++ {
				assert.Empty(t, w.Step(1.0/60).Contacts)
			}
			assert.InDelta(t, 0.5, b.Position().Y, 0.05)
		})
	}
}

// TestBackendsKeepMassAcrossConstraintChanges verifies relaxing and restoring
// the rotation lock never resets a mass set after creation
func TestBackendsKeepMassAcrossConstraintChanges(t *testing.T) {
	for _, backend := range backends {
		t.Run(string(backend), func(t *testing.T) {
			w, err := NewWorld(backend, cp.Vector{})
			require.NoError(t, err)
			b := w.AddBody(BodySpec{ID: 1, Width: 1.2, Height: 1.6, Mass: 2.8, Constraints: FreezeRotation})

			b.SetMass(2.3)
			b.SetConstraints(0)
			assert.InDelta(t, 2.3, b.Mass(), 1e-9)
			b.SetConstraints(FreezeRotation)
			assert.InDelta(t, 2.3, b.Mass(), 1e-9)
		})
	}
}

// TestOverlayRestoresOnBackends verifies a braced, unlocked layer unwinds to
// the exact base props on the real solvers
func TestOverlayRestoresOnBackends(t *testing.T) {
	for _, backend := range backends {
		t.Run(string(backend), func(t *testing.T) {
			w, err := NewWorld(backend, cp.Vector{})
			require.NoError(t, err)
			b := w.AddBody(BodySpec{
				ID: 1, Width: 1.2, Height: 1.6, Mass: 2.8,
				Material:    Material{Name: "boss", Friction: 0.6},
				Constraints: FreezeRotation,
				Damping:     Damping{Linear: 0.5, Angular: 0.3},
			})
			o := NewOverlay(b)
			o.SetBaseMass(2.3)
			before := Capture(b)

			free := Constraints(0)
			slick := Material{Name: "slick"}
			tok := o.Push(Layer{Name: "stun", MassScale: 1.5, Material: &slick, Constraints: &free, Damping: &Damping{}})
			assert.InDelta(t, 3.45, b.Mass(), 1e-9)
			assert.Equal(t, "slick", b.Material().Name)

			require.True(t, o.Pop(tok))
			assert.Equal(t, before, Capture(b))
		})
	}
}

func TestPointBodyImpulseAndFreeze(t *testing.T) {
	b := NewPointBody(BodySpec{ID: 1, Width: 1, Height: 1, Mass: 2})
	b.ApplyImpulse(cp.Vector{X: 4, Y: 2})
	assert.Equal(t, cp.Vector{X: 2, Y: 1}, b.Velocity())

	b.SetConstraints(FreezePositionY | FreezeRotation)
	b.Integrate(cp.Vector{Y: -10}, 0.5)
	assert.Equal(t, cp.Vector{X: 2, Y: 0}, b.Velocity())
	assert.Equal(t, cp.Vector{X: 1, Y: 0}, b.Position())
}
