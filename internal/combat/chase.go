package combat

import (
	"log"
	"math"

	"boss-brawl/internal/physics"

	"github.com/jakecoffman/cp/v2"
)

// ChaseDesign holds the pursuit tunables
type ChaseDesign struct {
	TargetSpeed         float64 `json:"targetSpeed"`
	AccelGain           float64 `json:"accelGain"`
	MaxSpeed            float64 `json:"maxSpeed"`
	DirectionBias       float64 `json:"directionBias"`
	VelocityDamping     float64 `json:"velocityDamping"`
	StuckSpeedThreshold float64 `json:"stuckSpeedThreshold"`
	StuckTime           float64 `json:"stuckTime"`
	NudgeImpulse        float64 `json:"nudgeImpulse"`
	DebugLogs           bool    `json:"debugLogs"`
}

// DefaultChaseDesign returns the stock pursuit tuning
func DefaultChaseDesign() ChaseDesign {
	return ChaseDesign{
		TargetSpeed:         6,
		AccelGain:           40,
		MaxSpeed:            10,
		DirectionBias:       0.15,
		VelocityDamping:     0.98,
		StuckSpeedThreshold: 0.05,
		StuckTime:           0.35,
		NudgeImpulse:        2,
	}
}

// deadZone is the |dx| below which the direction bias kicks in
const deadZone = 0.05

// ChaseDirection returns -1 or +1 toward dx. Inside the dead zone the bias
// pushes the sign away from zero so the boss never stalls on top of the player.
func ChaseDirection(dx, bias float64) float64 {
	dir := sign(dx)
	if math.Abs(dx) < deadZone {
		nudge := 0.0
		if dx == 0 {
			nudge = bias
		}
		dir = sign(dx + sign(dx)*bias + nudge)
	}
	return dir
}

// sign treats zero as positive
func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// ChaseController drives the boss toward the player with a proportional
// horizontal force. It implements MovementController so a stun can suspend it.
type ChaseController struct {
	self   physics.Body
	target physics.Body
	stun   *KnockbackStun
	design ChaseDesign

	enabled  bool
	lowSpeed float64
	nudges   int
	lastRun  int64
	lastPush float64
}

// NewChaseController creates an enabled controller chasing target
func NewChaseController(self, target physics.Body, d ChaseDesign) *ChaseController {
	return &ChaseController{
		self:    self,
		target:  target,
		design:  d,
		enabled: true,
		lastRun: -1,
	}
}

// SetStun lets the controller skip ticks while its agent is stunned
func (c *ChaseController) SetStun(k *KnockbackStun) { c.stun = k }

// SetTarget changes who is chased
func (c *ChaseController) SetTarget(b physics.Body) { c.target = b }

// SetDesign swaps tunables; the stall timer is kept
func (c *ChaseController) SetDesign(d ChaseDesign) { c.design = d }

// Design returns the current tunables
func (c *ChaseController) Design() ChaseDesign { return c.design }

// SetEnabled implements MovementController
func (c *ChaseController) SetEnabled(enabled bool) {
	c.enabled = enabled
	if !enabled {
		c.lowSpeed = 0
	}
}

// Enabled implements MovementController
func (c *ChaseController) Enabled() bool { return c.enabled }

// Nudges returns how many anti-stall nudges fired
func (c *ChaseController) Nudges() int { return c.nudges }

// LastRun returns the sequence of the last tick that applied force
func (c *ChaseController) LastRun() int64 { return c.lastRun }

// LastForce returns the horizontal force applied on the last active tick
func (c *ChaseController) LastForce() float64 { return c.lastPush }

// Step applies one tick of pursuit. It returns false when the controller was
// disabled, stunned or had no target.
func (c *ChaseController) Step(tick Tick) bool {
	if !c.enabled || c.target == nil {
		return false
	}
	if c.stun != nil && c.stun.IsStunned() {
		return false
	}
	d := c.design

	dx := c.target.Position().X - c.self.Position().X
	dir := ChaseDirection(dx, d.DirectionBias)

	v := c.self.Velocity()
	force := (dir*d.TargetSpeed - v.X) * d.AccelGain
	c.self.ApplyForce(cp.Vector{X: force})

	if d.MaxSpeed > 0 && v.Length() > d.MaxSpeed {
		v = v.Normalize().Mult(d.MaxSpeed)
	}
	if d.VelocityDamping > 0 {
		v = v.Mult(d.VelocityDamping)
	}
	c.self.SetVelocity(v)

	if math.Abs(v.X) < d.StuckSpeedThreshold {
		c.lowSpeed += tick.Dt
		if c.lowSpeed >= d.StuckTime {
			c.self.ApplyImpulse(cp.Vector{X: sign(dx) * d.NudgeImpulse})
			c.self.WakeUp()
			c.lowSpeed = 0
			c.nudges++
			if d.DebugLogs {
				log.Printf("👑 Chase nudge: dx=%.2f impulse=%.1f", dx, d.NudgeImpulse)
			}
		}
	} else {
		c.lowSpeed = 0
	}

	c.lastRun = tick.Seq
	c.lastPush = force
	return true
}
