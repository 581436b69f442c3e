package combat

import (
	"testing"

	"github.com/jakecoffman/cp/v2"
	"github.com/stretchr/testify/assert"
)

func TestBossShovePushesAway(t *testing.T) {
	boss, player := newBoss(), newPlayer()
	shove := NewBossShove(boss, DefaultBossShoveDesign())

	assert.True(t, shove.OnContact(NewClock(dt).Advance(), player))
	assert.InDelta(t, -16/1.6, player.Body.Velocity().X, 1e-9)
	assert.InDelta(t, 16*0.25/2.8, boss.Body.Velocity().X, 1e-9)
}

// TestBossShoveDisablesPlayer verifies the player handler receives the disable window
func TestBossShoveDisablesPlayer(t *testing.T) {
	boss, player := newBoss(), newPlayer()
	player.Stun = NewKnockbackStun(player.Overlay, nil, DefaultPlayerStunDesign())
	shove := NewBossShove(boss, DefaultBossShoveDesign())

	shove.OnContact(NewClock(dt).Advance(), player)
	assert.True(t, player.IsStunned())
	assert.InDelta(t, 0.25, player.Stun.Remaining(), 1e-12)
}

func TestBossShoveCooldown(t *testing.T) {
	boss, player := newBoss(), newPlayer()
	shove := NewBossShove(boss, DefaultBossShoveDesign())
	clk := NewClock(dt)

	fired := 0
	for i := 0; i < 23; i++ {
		if shove.OnContact(clk.Advance(), player) {
			fired++
		}
	}
	assert.Equal(t, 1, fired, "0.35s is 22.4 ticks")
	assert.True(t, shove.OnContact(clk.Advance(), player))
	assert.Equal(t, 2, shove.Shoves())
}

func TestBossShoveSuppressed(t *testing.T) {
	boss, player := newBoss(), newPlayer()
	boss.Stun = NewKnockbackStun(boss.Overlay, nil, DefaultBossStunDesign())
	boss.Stun.ApplyKnockback(cp.Vector{X: 1}, 1)
	shove := NewBossShove(boss, DefaultBossShoveDesign())

	assert.False(t, shove.OnContact(NewClock(dt).Advance(), player), "stunned")
	assert.False(t, shove.OnContact(NewClock(dt).Advance(), newBoss()), "not a player")
	assert.False(t, shove.OnContact(NewClock(dt).Advance(), nil))
}

func TestBossShoveCoincidentCentres(t *testing.T) {
	boss, player := newBoss(), newPlayer()
	pointBody(player).SetPosition(boss.Body.Position())
	shove := NewBossShove(boss, DefaultBossShoveDesign())

	shove.OnContact(NewClock(dt).Advance(), player)
	assert.InDelta(t, 10.0, player.Body.Velocity().X, 1e-9)
}
