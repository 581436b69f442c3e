package combat

import (
	"log"
	"sync"

	"github.com/jakecoffman/cp/v2"
)

// Outcome is the terminal result of an encounter
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	default:
		return "none"
	}
}

// OutcomeSink is told once when the fight ends
type OutcomeSink interface {
	FightOver(o Outcome, reason string)
}

// OutcomeFunc adapts a function to OutcomeSink
type OutcomeFunc func(o Outcome, reason string)

// FightOver implements OutcomeSink
func (f OutcomeFunc) FightOver(o Outcome, reason string) { f(o, reason) }

// OutcomeGuard forwards at most one outcome per encounter
type OutcomeGuard struct {
	once    sync.Once
	mu      sync.Mutex
	sink    OutcomeSink
	outcome Outcome
	reason  string
}

// NewOutcomeGuard wraps sink, which may be nil
func NewOutcomeGuard(sink OutcomeSink) *OutcomeGuard {
	return &OutcomeGuard{sink: sink}
}

// Notify records the outcome and calls the sink the first time only.
// It returns true for the call that won.
func (g *OutcomeGuard) Notify(o Outcome, reason string) bool {
	if o == OutcomeNone {
		return false
	}
	fired := false
	g.once.Do(func() {
		g.mu.Lock()
		g.outcome = o
		g.reason = reason
		g.mu.Unlock()
		fired = true
		log.Printf("🏁 Fight over: %s (%s)", o, reason)
		if g.sink != nil {
			g.sink.FightOver(o, reason)
		}
	})
	return fired
}

// Outcome returns the recorded result and reason
func (g *OutcomeGuard) Outcome() (Outcome, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outcome, g.reason
}

// Decided reports whether an outcome was recorded
func (g *OutcomeGuard) Decided() bool {
	o, _ := g.Outcome()
	return o != OutcomeNone
}

// FallZone is an axis-aligned kill region
type FallZone struct {
	Min cp.Vector
	Max cp.Vector
}

// BelowY is an unbounded zone under y
func BelowY(y float64) FallZone {
	return FallZone{
		Min: cp.Vector{X: -cp.INFINITY, Y: -cp.INFINITY},
		Max: cp.Vector{X: cp.INFINITY, Y: y},
	}
}

// Contains reports whether p lies inside the zone
func (z FallZone) Contains(p cp.Vector) bool {
	return p.X >= z.Min.X && p.X <= z.Max.X && p.Y >= z.Min.Y && p.Y <= z.Max.Y
}

// LivesSource is the player's health collaborator
type LivesSource interface {
	Lives() int
}

// Referee turns fall-zone entries and exhausted lives into outcomes
type Referee struct {
	Guard         *OutcomeGuard
	Zone          FallZone
	PlayerCanFall bool
	Lives         LivesSource
}

// Check inspects the agents once and reports the outcome, if any
func (r *Referee) Check(player, boss *Agent) Outcome {
	if r.Guard.Decided() {
		o, _ := r.Guard.Outcome()
		return o
	}
	switch {
	case boss != nil && r.Zone.Contains(boss.Body.Position()):
		r.Guard.Notify(OutcomeVictory, "boss fell")
	case r.PlayerCanFall && player != nil && r.Zone.Contains(player.Body.Position()):
		r.Guard.Notify(OutcomeDefeat, "player fell")
	case r.Lives != nil && r.Lives.Lives() <= 0:
		r.Guard.Notify(OutcomeDefeat, "out of lives")
	}
	o, _ := r.Guard.Outcome()
	return o
}
