package combat

import (
	"testing"

	"github.com/jakecoffman/cp/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestShoveTargetsDeltaV verifies the impulse scales with boss mass and approach
func TestShoveTargetsDeltaV(t *testing.T) {
	player, boss := newPlayer(), newBoss()
	rec := &recorder{}
	shove := NewShoveResolver(player, DefaultShoveDesign())
	shove.SetFeedback(rec.feedback())

	res := shove.OnContact(NewClock(dt).Advance(), playerSees(4), boss)

	require.True(t, res.Fired)
	assert.True(t, res.Assisted)
	assert.InDelta(t, 25.2, res.Impulse, 1e-9, "2.8 * (5 + 1*4)")
	assert.InDelta(t, 9.0, boss.Body.Velocity().X, 1e-9)
	assert.InDelta(t, -0.35*25.2/1.6/1.6, player.Body.Velocity().X, 1e-9)
	assert.InDelta(t, 20.0, pointBody(player).Force().X, 1e-9)
	assert.Equal(t, []string{CuePlayerShove}, rec.cues)
	assert.Equal(t, 1, shove.Shoves())
}

func TestShoveImpulseBounds(t *testing.T) {
	tests := []struct {
		name     string
		approach float64
		want     float64
	}{
		{"min impulse floor", 0.6, 20},
		{"approach capped", 100, 2.8 * 17},
		{"mid range", 3, 2.8 * 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shove := NewShoveResolver(newPlayer(), DefaultShoveDesign())
			res := shove.OnContact(NewClock(dt).Advance(), playerSees(tt.approach), newBoss())
			require.True(t, res.Fired)
			assert.InDelta(t, tt.want, res.Impulse, 1e-9)
		})
	}
}

// TestShoveImpulseTracksBossMass verifies a heavier boss still gets the same velocity change
func TestShoveImpulseTracksBossMass(t *testing.T) {
	boss := newBoss()
	boss.Overlay.SetBaseMass(4.5)
	shove := NewShoveResolver(newPlayer(), DefaultShoveDesign())

	shove.OnContact(NewClock(dt).Advance(), playerSees(4), boss)
	assert.InDelta(t, 9.0, boss.Body.Velocity().X, 1e-9)
}

// TestShoveCooldownIsMonotonic verifies shoves are spaced by at least the cooldown
func TestShoveCooldownIsMonotonic(t *testing.T) {
	player, boss := newPlayer(), newBoss()
	shove := NewShoveResolver(player, DefaultShoveDesign())
	clk := NewClock(dt)

	var fired []float64
	for i := 0; i < 128; i++ {
		tick := clk.Advance()
		if shove.OnContact(tick, playerSees(4), boss).Fired {
			fired = append(fired, tick.Time)
		}
	}
	require.Len(t, fired, 11, "one every 12 ticks over 2s")
	for i := 1; i < len(fired); i++ {
		assert.GreaterOrEqual(t, fired[i]-fired[i-1], 0.18)
	}
}

func TestShoveOncePerTick(t *testing.T) {
	player, boss := newPlayer(), newBoss()
	d := DefaultShoveDesign()
	d.Cooldown = 0
	shove := NewShoveResolver(player, d)
	tick := NewClock(dt).Advance()

	assert.True(t, shove.OnContact(tick, playerSees(4), boss).Fired)
	second := shove.OnContact(tick, playerSees(4), boss)
	assert.False(t, second.Fired)
	assert.False(t, second.Assisted)
	assert.Equal(t, 1, shove.Shoves())
}

// TestShoveAssistBelowThreshold verifies the lean-in force without a shove
func TestShoveAssistBelowThreshold(t *testing.T) {
	player, boss := newPlayer(), newBoss()
	shove := NewShoveResolver(player, DefaultShoveDesign())

	res := shove.OnContact(NewClock(dt).Advance(), playerSees(0.3), boss)
	assert.False(t, res.Fired)
	assert.True(t, res.Assisted)
	assert.InDelta(t, 20.0, pointBody(player).Force().X, 1e-9)
	assert.Equal(t, cp.Vector{}, boss.Body.Velocity())

	d := DefaultShoveDesign()
	d.AssistNeedsApproach = true
	gated := NewShoveResolver(newPlayer(), d)
	res = gated.OnContact(NewClock(dt).Advance(), playerSees(0.3), newBoss())
	assert.False(t, res.Assisted)
}

func TestShoveIgnoresNonBoss(t *testing.T) {
	shove := NewShoveResolver(newPlayer(), DefaultShoveDesign())
	res := shove.OnContact(NewClock(dt).Advance(), playerSees(4), newPlayer())
	assert.False(t, res.Fired)
	assert.Zero(t, shove.Shoves())
}

// TestShoveRoutesThroughBossStun verifies the boss's knockback handler owns the hit
func TestShoveRoutesThroughBossStun(t *testing.T) {
	player, boss := newPlayer(), newBoss()
	mover := &stubMover{enabled: true}
	boss.Stun = NewKnockbackStun(boss.Overlay, mover, DefaultBossStunDesign())
	shove := NewShoveResolver(player, DefaultShoveDesign())

	shove.OnContact(NewClock(dt).Advance(), playerSees(4), boss)

	assert.True(t, boss.IsStunned())
	assert.InDelta(t, 0.35, boss.Stun.Remaining(), 1e-12)
	assert.False(t, mover.Enabled())
	assert.InDelta(t, 9.0, boss.Body.Velocity().X, 1e-9)
}
