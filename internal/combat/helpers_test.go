package combat

import (
	"boss-brawl/internal/physics"

	"github.com/jakecoffman/cp/v2"
)

// dt is a binary fraction so accumulated timers are exact
const dt = 1.0 / 64

const (
	playerID physics.AgentID = 1
	bossID   physics.AgentID = 2
)

var (
	playerMaterial = physics.Material{Name: "player", Friction: 0.4}
	bossMaterial   = physics.Material{Name: "boss", Friction: 0.6, Bounciness: 0.1}
)

func newPlayer() *Agent {
	body := physics.NewPointBody(physics.BodySpec{
		ID:          playerID,
		Position:    cp.Vector{X: -1},
		Width:       0.8,
		Height:      1.2,
		Mass:        1.6,
		Material:    playerMaterial,
		Constraints: physics.FreezeRotation,
		Damping:     physics.Damping{Linear: 0.2, Angular: 0.05},
	})
	return NewAgent(RolePlayer, body)
}

func newBoss() *Agent {
	body := physics.NewPointBody(physics.BodySpec{
		ID:          bossID,
		Position:    cp.Vector{X: 0},
		Width:       1.2,
		Height:      1.6,
		Mass:        2.8,
		Material:    bossMaterial,
		Constraints: physics.FreezeRotation | physics.FreezePositionY,
		Damping:     physics.Damping{Linear: 0.5, Angular: 0.3},
	})
	return NewAgent(RoleBoss, body)
}

func pointBody(a *Agent) *physics.PointBody {
	return a.Body.(*physics.PointBody)
}

// bossSees is the boss-side sample of the player driving in from the left
// at speed v, as the solver reports it.
func bossSees(v float64) ContactSample {
	return ContactSample{
		Points:       []physics.ContactPoint{{Point: cp.Vector{X: -0.6}, Normal: cp.Vector{X: 1}}},
		SolverRelVel: cp.Vector{X: v},
		Dt:           dt,
	}
}

// playerSees is the player-side sample of the same charge
func playerSees(v float64) ContactSample {
	return ContactSample{
		Points:       []physics.ContactPoint{{Point: cp.Vector{X: -0.6}, Normal: cp.Vector{X: -1}}},
		SolverRelVel: cp.Vector{X: -v},
		Dt:           dt,
	}
}

type stubMover struct {
	enabled bool
	toggles int
}

func (m *stubMover) SetEnabled(enabled bool) {
	m.enabled = enabled
	m.toggles++
}

func (m *stubMover) Enabled() bool { return m.enabled }

type recorder struct {
	shakes []Pulse
	cues   []string
}

func (r *recorder) Shake(p Pulse)      { r.shakes = append(r.shakes, p) }
func (r *recorder) PlayCue(cue string) { r.cues = append(r.cues, cue) }

func (r *recorder) feedback() Feedback {
	return Feedback{Shaker: r, Sound: r}
}
