package encounter

import (
	"testing"

	"boss-brawl/internal/combat"
	"boss-brawl/internal/physics"

	"github.com/jakecoffman/cp/v2"
	"github.com/stretchr/testify/assert"
)

func motorBodies() (*physics.PointBody, *physics.PointBody) {
	self := physics.NewPointBody(physics.BodySpec{ID: PlayerID, Position: cp.Vector{X: -2}, Width: 0.8, Height: 1.2, Mass: 2})
	target := physics.NewPointBody(physics.BodySpec{ID: BossID, Position: cp.Vector{X: 2}, Width: 1.2, Height: 1.6, Mass: 2.8})
	return self, target
}

// TestMotorCyclesPhases verifies lean, retreat and charge push in the expected directions
func TestMotorCyclesPhases(t *testing.T) {
	self, target := motorBodies()
	d := MotorDesign{LeanSpeed: 1, RetreatSpeed: 2, ChargeSpeed: 4, Gain: 10, LeanSeconds: 0.25, RetreatSeconds: 0.25, ChargeSeconds: 0.25}
	m := NewScriptedMotor(self, target, d)
	clk := combat.NewClock(1.0 / 64)

	assert.True(t, m.Step(clk.Advance()))
	assert.Equal(t, MotorLean, m.Phase())
	assert.InDelta(t, 1*10*2.0, self.Force().X, 1e-9)

	for m.Phase() == MotorLean {
		self.Integrate(cp.Vector{}, 1.0/64)
		m.Step(clk.Advance())
	}
	assert.Equal(t, MotorRetreat, m.Phase())
	assert.Less(t, self.Force().X, 0.0)

	for m.Phase() == MotorRetreat {
		self.Integrate(cp.Vector{}, 1.0/64)
		m.Step(clk.Advance())
	}
	assert.Equal(t, MotorCharge, m.Phase())
	assert.Greater(t, self.Force().X, 0.0)

	m.Reset()
	assert.Equal(t, MotorLean, m.Phase())
}

func TestMotorDisabled(t *testing.T) {
	self, target := motorBodies()
	m := NewScriptedMotor(self, target, DefaultMotorDesign())
	m.SetEnabled(false)

	assert.False(t, m.Step(combat.NewClock(1.0/64).Advance()))
	assert.Equal(t, cp.Vector{}, self.Force())
	assert.Equal(t, "charge", MotorCharge.String())
}

func TestLivesNeverNegative(t *testing.T) {
	l := NewLives(2)
	assert.Equal(t, 1, l.Lose())
	assert.Equal(t, 0, l.Lose())
	assert.Equal(t, 0, l.Lose())
	assert.Equal(t, 0, l.Lives())
}
