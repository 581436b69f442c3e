package physics

import (
	"testing"

	"github.com/jakecoffman/cp/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBody() *PointBody {
	return NewPointBody(BodySpec{
		ID:          1,
		Width:       1,
		Height:      1,
		Mass:        2,
		Material:    Material{Name: "base", Friction: 0.4},
		Constraints: FreezeRotation,
		Damping:     Damping{Linear: 0.5, Angular: 0.2},
	})
}

// TestOverlayRestoresExactBase verifies the last pop writes back the captured base
func TestOverlayRestoresExactBase(t *testing.T) {
	b := newTestBody()
	o := NewOverlay(b)
	before := Capture(b)

	grip := Material{Name: "grip", Friction: 2}
	tok := o.Push(Layer{Name: "brace", MassScale: 2.2, Material: &grip})

	assert.InDelta(t, 4.4, b.Mass(), 1e-12)
	assert.Equal(t, grip, b.Material())
	assert.Equal(t, 1, o.Active())

	require.True(t, o.Pop(tok))
	assert.Equal(t, before, Capture(b))
	assert.Equal(t, 0, o.Active())
	assert.False(t, o.Pop(tok), "double pop must be a no-op")
}

// TestOverlayInterleavedLayers verifies stun and brace can end in either order
func TestOverlayInterleavedLayers(t *testing.T) {
	tests := []struct {
		name          string
		popBraceFirst bool
	}{
		{"brace ends first", true},
		{"stun ends first", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBody()
			o := NewOverlay(b)
			before := Capture(b)

			grip := Material{Name: "grip", Friction: 2}
			slick := Material{Name: "slick"}
			stunDamping := Damping{Linear: 0, Angular: 0.05}

			brace := o.Push(Layer{MassScale: 2.2, Material: &grip})
			stun := o.Push(Layer{Material: &slick, Damping: &stunDamping})

			assert.InDelta(t, 4.4, b.Mass(), 1e-12, "stun leaves mass alone")
			assert.Equal(t, slick, b.Material(), "latest layer wins")
			assert.Equal(t, stunDamping, b.Damping())

			if tt.popBraceFirst {
				o.Pop(brace)
				assert.InDelta(t, 2.0, b.Mass(), 1e-12)
				assert.Equal(t, slick, b.Material())
				o.Pop(stun)
			} else {
				o.Pop(stun)
				assert.Equal(t, grip, b.Material())
				assert.Equal(t, before.Damping, b.Damping())
				o.Pop(brace)
			}
			assert.Equal(t, before, Capture(b))
		})
	}
}

// TestOverlaySetBaseMassWhileLayered verifies a mid-override mass change survives restoration
func TestOverlaySetBaseMassWhileLayered(t *testing.T) {
	b := newTestBody()
	o := NewOverlay(b)

	tok := o.Push(Layer{MassScale: 2})
	assert.InDelta(t, 4.0, b.Mass(), 1e-12)

	o.SetBaseMass(3)
	assert.InDelta(t, 6.0, b.Mass(), 1e-12)
	assert.InDelta(t, 3.0, o.Base().Mass, 1e-12)

	o.Pop(tok)
	assert.InDelta(t, 3.0, b.Mass(), 1e-12)

	o.SetBaseMass(0)
	assert.Equal(t, MinMass, b.Mass(), "mass stays strictly positive")
}

// TestContactOrientation verifies reports flip correctly for either side
func TestContactOrientation(t *testing.T) {
	r := ContactReport{
		A:                1,
		B:                2,
		Points:           []ContactPoint{{Point: cp.Vector{X: 0.5}, Normal: cp.Vector{X: 1}}},
		RelativeVelocity: cp.Vector{X: -3},
	}

	pts, rel := r.Oriented(1)
	assert.Equal(t, cp.Vector{X: -1}, pts[0].Normal, "normal points from other into self")
	assert.Equal(t, cp.Vector{X: -3}, rel)

	pts, rel = r.Oriented(2)
	assert.Equal(t, cp.Vector{X: 1}, pts[0].Normal)
	assert.Equal(t, cp.Vector{X: 3}, rel)
	assert.Equal(t, cp.Vector{X: 1}, r.Points[0].Normal, "original report untouched")
}

// TestContactBufferMergesPairs verifies arbiters for the same pair merge with consistent normals
func TestContactBufferMergesPairs(t *testing.T) {
	buf := newContactBuffer()
	buf.add(1, 2, []ContactPoint{{Normal: cp.Vector{X: 1}}}, cp.Vector{X: -1})
	buf.add(2, 1, []ContactPoint{{Normal: cp.Vector{X: -1}}}, cp.Vector{X: 1})

	out := buf.drain()
	require.Len(t, out, 1)
	require.Len(t, out[0].Points, 2)
	for _, p := range out[0].Points {
		assert.Equal(t, cp.Vector{X: 1}, p.Normal)
	}
	assert.Empty(t, buf.drain())
}

func TestNewWorldUnknownBackend(t *testing.T) {
	_, err := NewWorld("havok", cp.Vector{})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
