package combat

import (
	"log"
	"math"

	"github.com/jakecoffman/cp/v2"
)

// BossShoveDesign holds the boss contact-shove tunables
type BossShoveDesign struct {
	Impulse              float64 `json:"impulse"`
	Cooldown             float64 `json:"cooldown"`
	PlayerDisableSeconds float64 `json:"playerDisableSeconds"`
	RecoilFactor         float64 `json:"recoilFactor"`
	DebugLogs            bool    `json:"debugLogs"`
}

// DefaultBossShoveDesign returns the stock boss shove tuning
func DefaultBossShoveDesign() BossShoveDesign {
	return BossShoveDesign{
		Impulse:              16,
		Cooldown:             0.35,
		PlayerDisableSeconds: 0.25,
		RecoilFactor:         0.25,
	}
}

// BossShove pushes the player away along the centre line whenever the boss
// is touching them and its cooldown has elapsed.
type BossShove struct {
	self   *Agent
	design BossShoveDesign

	lastShove   float64
	lastAttempt int64
	shoves      int
}

// NewBossShove creates the boss's contact shove
func NewBossShove(self *Agent, d BossShoveDesign) *BossShove {
	return &BossShove{
		self:        self,
		design:      d,
		lastShove:   math.Inf(-1),
		lastAttempt: -1,
	}
}

// SetDesign swaps tunables; cooldown history is kept
func (b *BossShove) SetDesign(d BossShoveDesign) { b.design = d }

// Design returns the current tunables
func (b *BossShove) Design() BossShoveDesign { return b.design }

// Shoves returns how many shoves fired
func (b *BossShove) Shoves() int { return b.shoves }

// OnContact shoves target if allowed and reports whether it fired
func (b *BossShove) OnContact(tick Tick, target *Agent) bool {
	if target == nil || target.Role != RolePlayer {
		return false
	}
	if b.self.IsStunned() {
		return false
	}
	if tick.Seq == b.lastAttempt {
		return false
	}
	b.lastAttempt = tick.Seq

	d := b.design
	if tick.Time-b.lastShove < d.Cooldown || d.Impulse <= 0 {
		return false
	}

	away := target.Body.Position().Sub(b.self.Body.Position())
	if away.LengthSq() < 1e-12 {
		away = cp.Vector{X: 1}
	} else {
		away = away.Normalize()
	}

	target.Knock(away.Mult(d.Impulse), d.PlayerDisableSeconds)
	if d.RecoilFactor > 0 {
		b.self.Body.ApplyImpulse(away.Mult(-d.Impulse * d.RecoilFactor))
	}

	b.lastShove = tick.Time
	b.shoves++
	if d.DebugLogs {
		log.Printf("👑 Boss shove: dir=(%.2f,%.2f) impulse=%.1f", away.X, away.Y, d.Impulse)
	}
	return true
}
