package combat

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jakecoffman/cp/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedLives int

func (l fixedLives) Lives() int { return int(l) }

func TestOutcomeGuardFiresOnce(t *testing.T) {
	var calls []Outcome
	g := NewOutcomeGuard(OutcomeFunc(func(o Outcome, _ string) { calls = append(calls, o) }))

	assert.False(t, g.Notify(OutcomeNone, "noop"))
	assert.False(t, g.Decided())

	assert.True(t, g.Notify(OutcomeVictory, "boss fell"))
	assert.False(t, g.Notify(OutcomeDefeat, "player fell"))

	o, reason := g.Outcome()
	assert.Equal(t, OutcomeVictory, o)
	assert.Equal(t, "boss fell", reason)
	assert.Equal(t, []Outcome{OutcomeVictory}, calls)
}

func TestOutcomeGuardConcurrentNotify(t *testing.T) {
	var calls atomic.Int32
	g := NewOutcomeGuard(OutcomeFunc(func(Outcome, string) { calls.Add(1) }))

	var wg sync.WaitGroup
	var winners atomic.Int32
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o := OutcomeVictory
			if i%2 == 1 {
				o = OutcomeDefeat
			}
			if g.Notify(o, "race") {
				winners.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(1), winners.Load())
	assert.True(t, g.Decided())
}

func TestRefereeCheck(t *testing.T) {
	tests := []struct {
		name      string
		bossPos   cp.Vector
		playerPos cp.Vector
		canFall   bool
		lives     LivesSource
		want      Outcome
	}{
		{"nobody fell", cp.Vector{}, cp.Vector{X: -1}, true, fixedLives(3), OutcomeNone},
		{"boss fell", cp.Vector{Y: -12}, cp.Vector{X: -1}, true, nil, OutcomeVictory},
		{"player fell", cp.Vector{}, cp.Vector{Y: -12}, true, nil, OutcomeDefeat},
		{"player fall ignored", cp.Vector{}, cp.Vector{Y: -12}, false, nil, OutcomeNone},
		{"out of lives", cp.Vector{}, cp.Vector{}, false, fixedLives(0), OutcomeDefeat},
		{"boss wins ties", cp.Vector{Y: -12}, cp.Vector{Y: -12}, true, nil, OutcomeVictory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boss, player := newBoss(), newPlayer()
			pointBody(boss).SetPosition(tt.bossPos)
			pointBody(player).SetPosition(tt.playerPos)
			ref := &Referee{
				Guard:         NewOutcomeGuard(nil),
				Zone:          BelowY(-10),
				PlayerCanFall: tt.canFall,
				Lives:         tt.lives,
			}
			assert.Equal(t, tt.want, ref.Check(player, boss))
		})
	}
}

// TestRefereeOutcomeSticks verifies a decided fight ignores later events
func TestRefereeOutcomeSticks(t *testing.T) {
	boss, player := newBoss(), newPlayer()
	fired := 0
	ref := &Referee{
		Guard:         NewOutcomeGuard(OutcomeFunc(func(Outcome, string) { fired++ })),
		Zone:          BelowY(-10),
		PlayerCanFall: true,
	}

	pointBody(boss).SetPosition(cp.Vector{Y: -11})
	require.Equal(t, OutcomeVictory, ref.Check(player, boss))

	pointBody(player).SetPosition(cp.Vector{Y: -11})
	assert.Equal(t, OutcomeVictory, ref.Check(player, boss))
	assert.Equal(t, 1, fired)
}

func TestFallZoneContains(t *testing.T) {
	z := FallZone{Min: cp.Vector{X: -5, Y: -5}, Max: cp.Vector{X: 5, Y: 0}}
	assert.True(t, z.Contains(cp.Vector{X: 0, Y: -1}))
	assert.True(t, z.Contains(cp.Vector{X: 5, Y: 0}), "edges count")
	assert.False(t, z.Contains(cp.Vector{X: 6, Y: -1}))
	assert.False(t, z.Contains(cp.Vector{Y: 0.1}))
}
