package combat

import (
	"testing"

	"boss-brawl/internal/physics"

	"github.com/jakecoffman/cp/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEstimateSolverZeroedStillSeesApproach verifies the position delta reading survives a zeroed solver
func TestEstimateSolverZeroedStillSeesApproach(t *testing.T) {
	s := ContactSample{
		Points:       []physics.ContactPoint{{Normal: cp.Vector{X: 1}}},
		SelfPos:      cp.Vector{X: 0},
		SelfPrevPos:  cp.Vector{X: 0},
		OtherPos:     cp.Vector{X: -1},
		OtherPrevPos: cp.Vector{X: -1 - 2*dt},
		Dt:           dt,
	}

	est, ok := EstimateApproach(s)
	require.True(t, ok)
	assert.InDelta(t, 2.0, est.Approach, 1e-9)
	assert.GreaterOrEqual(t, est.Approach, DefaultCounterDesign().ApproachThreshold)
	assert.Equal(t, cp.Vector{X: -1}, est.PushDir, "push points from self toward other")
}

// TestEstimateTakesMaxOfReadings verifies each of the three readings can dominate
func TestEstimateTakesMaxOfReadings(t *testing.T) {
	tests := []struct {
		name   string
		sample ContactSample
		want   float64
	}{
		{
			name: "position delta",
			sample: ContactSample{
				OtherPos:     cp.Vector{X: 3 * dt},
				OtherVel:     cp.Vector{X: 1},
				SolverRelVel: cp.Vector{X: 0.5},
			},
			want: 3,
		},
		{
			name: "current velocity",
			sample: ContactSample{
				OtherVel:     cp.Vector{X: 2.5},
				SelfVel:      cp.Vector{X: -0.5},
				SolverRelVel: cp.Vector{X: 1},
			},
			want: 3,
		},
		{
			name: "solver relative velocity",
			sample: ContactSample{
				SolverRelVel: cp.Vector{X: 4},
			},
			want: 4,
		},
		{
			name: "all separating",
			sample: ContactSample{
				OtherVel:     cp.Vector{X: -1},
				SolverRelVel: cp.Vector{X: -2},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.sample
			s.Points = []physics.ContactPoint{{Normal: cp.Vector{X: 1}}}
			s.Dt = dt

			est, ok := EstimateApproach(s)
			require.True(t, ok)
			assert.InDelta(t, tt.want, est.Approach, 1e-9)
		})
	}
}

// TestEstimatePicksHardestContact verifies the contact with the greatest approach wins
func TestEstimatePicksHardestContact(t *testing.T) {
	s := ContactSample{
		Points: []physics.ContactPoint{
			{Point: cp.Vector{X: 1}, Normal: cp.Vector{X: 1}},
			{Point: cp.Vector{Y: 1}, Normal: cp.Vector{Y: 2}},
		},
		SolverRelVel: cp.Vector{X: 1, Y: 3},
		Dt:           dt,
	}

	est, ok := EstimateApproach(s)
	require.True(t, ok)
	assert.InDelta(t, 3.0, est.Approach, 1e-9)
	assert.Equal(t, cp.Vector{Y: -1}, est.PushDir, "normal is normalized")
	assert.Equal(t, cp.Vector{Y: 1}, est.Point)
}

func TestEstimateNoContact(t *testing.T) {
	_, ok := EstimateApproach(ContactSample{Dt: dt})
	assert.False(t, ok)

	_, ok = EstimateApproach(ContactSample{Points: []physics.ContactPoint{{}}, Dt: dt})
	assert.False(t, ok, "degenerate normals are skipped")
}

func TestEstimateClampsDt(t *testing.T) {
	s := ContactSample{
		Points:       []physics.ContactPoint{{Normal: cp.Vector{X: 1}}},
		OtherPos:     cp.Vector{X: 1e-6},
		OtherPrevPos: cp.Vector{},
	}
	est, ok := EstimateApproach(s)
	require.True(t, ok)
	assert.InDelta(t, 1e-6/MinDt, est.Approach, 1e-9)
}
