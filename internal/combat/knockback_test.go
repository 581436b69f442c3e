package combat

import (
	"testing"

	"boss-brawl/internal/physics"

	"github.com/jakecoffman/cp/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStunnedBoss() (*Agent, *stubMover) {
	boss := newBoss()
	mover := &stubMover{enabled: true}
	boss.Stun = NewKnockbackStun(boss.Overlay, mover, DefaultBossStunDesign())
	return boss, mover
}

// TestStunRestoresAfterExpiry verifies the exact snapshot comes back when the timer runs out
func TestStunRestoresAfterExpiry(t *testing.T) {
	boss, mover := newStunnedBoss()
	before := physics.Capture(boss.Body)
	clk := NewClock(dt)

	boss.Stun.ApplyKnockback(cp.Vector{X: 10}, 0.25)

	require.True(t, boss.Stun.IsStunned())
	assert.False(t, mover.Enabled())
	assert.Equal(t, physics.FreezeRotation, boss.Body.Constraints())
	assert.Equal(t, physics.Damping{Linear: 0, Angular: 0.05}, boss.Body.Damping())
	assert.Equal(t, "stun_slick", boss.Body.Material().Name)
	assert.Equal(t, before.Mass, boss.Body.Mass(), "stun never touches mass")

	for i := 0; i < 16; i++ {
		boss.Stun.Step(clk.Advance())
	}
	require.True(t, boss.Stun.IsStunned(), "0.25s holds the body for 16 ticks")
	assert.Equal(t, int64(16), boss.Stun.LastControl())

	boss.Stun.Step(clk.Advance())
	assert.False(t, boss.Stun.IsStunned())
	assert.True(t, mover.Enabled())
	assert.Equal(t, before, physics.Capture(boss.Body))
}

// TestStunEnforcesMinimumSlide verifies horizontal speed is lifted in the impulse direction
func TestStunEnforcesMinimumSlide(t *testing.T) {
	boss, _ := newStunnedBoss()
	clk := NewClock(dt)

	boss.Stun.ApplyKnockback(cp.Vector{X: -1}, 0.5)
	assert.InDelta(t, -1/2.8, boss.Body.Velocity().X, 1e-9)

	boss.Stun.Step(clk.Advance())
	assert.Equal(t, -5.0, boss.Body.Velocity().X)

	// friction stopping the body mid-stun gets overridden again
	boss.Body.SetVelocity(cp.Vector{X: 0.5, Y: 0})
	boss.Stun.Step(clk.Advance())
	assert.Equal(t, -5.0, boss.Body.Velocity().X)

	// faster than the floor is left alone
	boss.Body.SetVelocity(cp.Vector{X: 8})
	boss.Stun.Step(clk.Advance())
	assert.Equal(t, 8.0, boss.Body.Velocity().X)
	assert.Equal(t, 2, boss.Stun.SlideCorrections())
}

func TestStunZeroImpulseSlidesPositive(t *testing.T) {
	boss, _ := newStunnedBoss()
	boss.Stun.ApplyKnockback(cp.Vector{Y: 3}, 0.5)
	boss.Stun.Step(NewClock(dt).Advance())
	assert.Equal(t, 5.0, boss.Body.Velocity().X)
}

// TestStunRestartWhileStunned verifies a second hit replaces the running stun without leaking state
func TestStunRestartWhileStunned(t *testing.T) {
	boss, mover := newStunnedBoss()
	before := physics.Capture(boss.Body)
	clk := NewClock(dt)

	boss.Stun.ApplyKnockback(cp.Vector{X: 10}, 0.25)
	for i := 0; i < 10; i++ {
		boss.Stun.Step(clk.Advance())
	}
	boss.Stun.ApplyKnockback(cp.Vector{X: -10}, 0.25)

	assert.Equal(t, 2, boss.Stun.Hits())
	assert.Equal(t, 1, boss.Overlay.Active(), "no stacked stun layers")
	assert.InDelta(t, 0.25, boss.Stun.Remaining(), 1e-12)
	assert.Equal(t, physics.FreezeRotation, boss.Body.Constraints())

	for i := 0; i < 17; i++ {
		boss.Stun.Step(clk.Advance())
	}
	assert.False(t, boss.Stun.IsStunned())
	assert.True(t, mover.Enabled())
	assert.Equal(t, before, physics.Capture(boss.Body))
}

// TestStunCancelRestores verifies teardown mid-stun leaves the body untouched
func TestStunCancelRestores(t *testing.T) {
	boss, mover := newStunnedBoss()
	before := physics.Capture(boss.Body)

	boss.Stun.ApplyKnockback(cp.Vector{X: 10}, 5)
	boss.Stun.Step(NewClock(dt).Advance())
	boss.Stun.Cancel()

	assert.False(t, boss.Stun.IsStunned())
	assert.True(t, mover.Enabled())
	assert.Equal(t, before, physics.Capture(boss.Body))

	boss.Stun.Cancel()
	assert.Equal(t, before, physics.Capture(boss.Body))
}

func TestStunDurations(t *testing.T) {
	tests := []struct {
		name        string
		seconds     float64
		wantStunned bool
		wantLeft    float64
	}{
		{"negative uses default", -1, true, 0.35},
		{"zero skips the stun", 0, false, 0},
		{"explicit", 0.5, true, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boss, _ := newStunnedBoss()
			boss.Stun.ApplyKnockback(cp.Vector{X: 2.8}, tt.seconds)

			assert.Equal(t, tt.wantStunned, boss.Stun.IsStunned())
			assert.InDelta(t, tt.wantLeft, boss.Stun.Remaining(), 1e-12)
			assert.InDelta(t, 1.0, boss.Body.Velocity().X, 1e-9, "impulse always lands")
		})
	}
}

// TestPlayerKnockbackZeroesHorizontalAndShakes verifies the crisp player hit and its feedback pulse
func TestPlayerKnockbackZeroesHorizontalAndShakes(t *testing.T) {
	player := newPlayer()
	rec := &recorder{}
	player.Stun = NewKnockbackStun(player.Overlay, nil, DefaultPlayerStunDesign())
	pulse := Pulse{Amplitude: 3, Frequency: 14, Duration: 0.25}
	player.Stun.SetHitFeedback(rec.feedback(), pulse, CuePlayerHit)

	player.Body.SetVelocity(cp.Vector{X: 6, Y: 2})
	player.Stun.ApplyKnockback(cp.Vector{X: -3.2}, -1)

	assert.Equal(t, cp.Vector{X: -2, Y: 2}, player.Body.Velocity())
	assert.Equal(t, []Pulse{pulse}, rec.shakes)
	assert.Equal(t, []string{CuePlayerHit}, rec.cues)
	assert.Equal(t, 1, pointBody(player).Wakes())
}

func TestKnockWithoutHandlerAppliesImpulse(t *testing.T) {
	player := newPlayer()
	player.Knock(cp.Vector{X: 3.2}, 1)
	assert.InDelta(t, 2.0, player.Body.Velocity().X, 1e-12)
	assert.False(t, player.IsStunned())
}
