// Package combat holds the per-tick melee controllers: contact approach
// estimation, shoves, chase, counter-push and knockback stuns.
package combat

import (
	"boss-brawl/internal/physics"

	"github.com/jakecoffman/cp/v2"
)

// Role identifies what an agent is in the duel
type Role uint8

const (
	RoleNone Role = iota
	RolePlayer
	RoleBoss
)

func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "player"
	case RoleBoss:
		return "boss"
	default:
		return "none"
	}
}

// MovementController is an agent's own motion source that a stun suspends
type MovementController interface {
	SetEnabled(enabled bool)
	Enabled() bool
}

// Agent bundles a body with its role and optional knockback handler
type Agent struct {
	Role    Role
	Body    physics.Body
	Overlay *physics.Overlay
	Stun    *KnockbackStun
}

// NewAgent wraps body with a fresh overlay
func NewAgent(role Role, body physics.Body) *Agent {
	return &Agent{
		Role:    role,
		Body:    body,
		Overlay: physics.NewOverlay(body),
	}
}

// ID returns the body's id
func (a *Agent) ID() physics.AgentID {
	return a.Body.ID()
}

// IsStunned is false for agents without a knockback handler
func (a *Agent) IsStunned() bool {
	return a != nil && a.Stun != nil && a.Stun.IsStunned()
}

// Knock routes an impulse through the agent's knockback handler when it has
// one and falls back to a plain impulse otherwise.
func (a *Agent) Knock(impulse cp.Vector, stunSeconds float64) {
	if a.Stun != nil {
		a.Stun.ApplyKnockback(impulse, stunSeconds)
		return
	}
	a.Body.ApplyImpulse(impulse)
}

// Roster resolves body ids to agents once per contact
type Roster struct {
	agents map[physics.AgentID]*Agent
	order  []*Agent
}

// NewRoster indexes agents by id
func NewRoster(agents ...*Agent) *Roster {
	r := &Roster{agents: make(map[physics.AgentID]*Agent, len(agents))}
	for _, a := range agents {
		r.agents[a.ID()] = a
		r.order = append(r.order, a)
	}
	return r
}

// Lookup returns nil for unknown ids
func (r *Roster) Lookup(id physics.AgentID) *Agent {
	return r.agents[id]
}

// First returns the first agent carrying role
func (r *Roster) First(role Role) *Agent {
	for _, a := range r.order {
		if a.Role == role {
			return a
		}
	}
	return nil
}
