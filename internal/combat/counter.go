package combat

import (
	"log"
	"math"

	"boss-brawl/internal/physics"

	"github.com/jakecoffman/cp/v2"
)

// CounterState is the phase of the boss retaliation sequence
type CounterState uint8

const (
	CounterIdle CounterState = iota
	CounterAccumulating
	CounterBracing
	CounterCountering
	CounterCooldown
)

func (s CounterState) String() string {
	switch s {
	case CounterAccumulating:
		return "accumulating"
	case CounterBracing:
		return "bracing"
	case CounterCountering:
		return "countering"
	case CounterCooldown:
		return "cooldown"
	default:
		return "idle"
	}
}

// CounterDesign holds the counter-push tunables
type CounterDesign struct {
	ApproachThreshold   float64           `json:"approachThreshold"`
	BraceDelay          float64           `json:"braceDelay"`
	ParryThreshold      float64           `json:"parryThreshold"`
	BraceDuration       float64           `json:"braceDuration"`
	BraceMassMultiplier float64           `json:"braceMassMultiplier"`
	BraceMaterial       *physics.Material `json:"braceMaterial,omitempty"`
	CounterImpulse      float64           `json:"counterImpulse"`
	CounterCooldown     float64           `json:"counterCooldown"`
	WindupSeconds       float64           `json:"windupSeconds"`
	RecoilFactor        float64           `json:"recoilFactor"`
	// PlayerStunSeconds is passed to the player's handler; negative uses its default
	PlayerStunSeconds float64 `json:"playerStunSeconds"`
	Shake             Pulse   `json:"shake"`
	DebugLogs         bool    `json:"debugLogs"`
}

// DefaultCounterDesign returns the stock counter tuning
func DefaultCounterDesign() CounterDesign {
	return CounterDesign{
		ApproachThreshold:   0.9,
		BraceDelay:          0.30,
		ParryThreshold:      3.0,
		BraceDuration:       0.45,
		BraceMassMultiplier: 2.2,
		BraceMaterial:       &physics.Material{Name: "brace_grip", Friction: 2.0},
		CounterImpulse:      14,
		CounterCooldown:     1.0,
		WindupSeconds:       0.08,
		RecoilFactor:        0.35,
		PlayerStunSeconds:   -1,
		Shake:               Pulse{Amplitude: 2, Frequency: 12, Duration: 0.2},
	}
}

// Wind-up and hold caps for the instant parry path
const (
	parryWindupCap = 0.04
	parryHoldCap   = 0.25
)

// CounterEvent describes a counter that fired
type CounterEvent struct {
	Instant bool      `json:"instant"`
	Impulse float64   `json:"impulse"`
	PushDir cp.Vector `json:"pushDir"`
	Time    float64   `json:"time"`
}

// CounterPush is the boss's retaliation state machine. Sustained pressure
// above the approach threshold accumulates until a brace and counter fires;
// an approach above the parry threshold skips straight to a short counter.
// The sequence advances once per tick through Step and is cancelled and
// restarted, never queued, when a new trigger arrives mid-sequence.
type CounterPush struct {
	self     *Agent
	design   CounterDesign
	feedback Feedback
	onFire   func(CounterEvent)

	state        CounterState
	contactTimer float64
	lastCounter  float64
	lastContact  int64

	instant bool
	pushDir cp.Vector
	target  *Agent
	elapsed float64
	windup  float64
	hold    float64
	token   physics.Token
	braced  bool

	counters int
	parries  int
}

// NewCounterPush creates an idle machine for the boss agent
func NewCounterPush(self *Agent, d CounterDesign) *CounterPush {
	return &CounterPush{
		self:        self,
		design:      d,
		lastCounter: math.Inf(-1),
		lastContact: -1,
	}
}

// SetFeedback wires the shake and sound collaborators
func (c *CounterPush) SetFeedback(fb Feedback) { c.feedback = fb }

// OnFire registers a callback for every counter that fires
func (c *CounterPush) OnFire(fn func(CounterEvent)) { c.onFire = fn }

// SetDesign swaps tunables without resetting the running sequence
func (c *CounterPush) SetDesign(d CounterDesign) { c.design = d }

// Design returns the current tunables
func (c *CounterPush) Design() CounterDesign { return c.design }

// State returns the current phase
func (c *CounterPush) State() CounterState { return c.state }

// ContactTimer returns the accumulated pressure time
func (c *CounterPush) ContactTimer() float64 { return c.contactTimer }

// Windup returns the wind-up of the active or last sequence
func (c *CounterPush) Windup() float64 { return c.windup }

// Hold returns the brace hold of the active or last sequence
func (c *CounterPush) Hold() float64 { return c.hold }

// LastCounter returns the scaled time the last sequence started
func (c *CounterPush) LastCounter() float64 { return c.lastCounter }

// Counters returns how many counters fired
func (c *CounterPush) Counters() int { return c.counters }

// Parries returns how many sequences took the instant path
func (c *CounterPush) Parries() int { return c.parries }

// Braced reports whether the brace override is on the body
func (c *CounterPush) Braced() bool { return c.braced }

// OnContact feeds one sustained-contact tick with other
func (c *CounterPush) OnContact(tick Tick, sample ContactSample, other *Agent) {
	if other == nil || other.Role != RolePlayer {
		return
	}
	if tick.Seq == c.lastContact {
		return
	}
	c.lastContact = tick.Seq

	if c.self.IsStunned() {
		c.resetTimer()
		return
	}
	if c.state == CounterBracing || c.state == CounterCountering {
		return
	}

	est, ok := EstimateApproach(sample)
	if !ok {
		return
	}
	d := c.design

	if d.DebugLogs {
		log.Printf("🛡️ Counter: contacts=%d approach=%.2f needed=%.2f", len(sample.Points), est.Approach, d.ApproachThreshold)
	}

	if tick.Time-c.lastCounter < d.CounterCooldown {
		return
	}

	if est.Approach >= d.ParryThreshold {
		c.begin(tick, est, other, true)
		return
	}

	if est.Approach >= d.ApproachThreshold {
		c.contactTimer += tick.Dt
		if c.state == CounterIdle {
			c.state = CounterAccumulating
		}
		if c.contactTimer+1e-9 >= d.BraceDelay {
			c.begin(tick, est, other, false)
		}
		return
	}
	c.resetTimer()
}

// OnContactLost resets accumulated pressure when other stops touching
func (c *CounterPush) OnContactLost(other *Agent) {
	if other == nil || other.Role != RolePlayer {
		return
	}
	c.resetTimer()
}

func (c *CounterPush) resetTimer() {
	c.contactTimer = 0
	if c.state == CounterAccumulating {
		c.state = CounterIdle
	}
}

func (c *CounterPush) begin(tick Tick, est ApproachEstimate, target *Agent, instant bool) {
	if c.braced {
		c.release()
	}
	d := c.design

	c.lastCounter = tick.Time
	c.instant = instant
	c.pushDir = est.PushDir
	c.target = target
	c.elapsed = 0

	layer := physics.Layer{Name: "brace", MassScale: d.BraceMassMultiplier}
	if d.BraceMaterial != nil {
		m := *d.BraceMaterial
		layer.Material = &m
	}
	c.token = c.self.Overlay.Push(layer)
	c.braced = true

	if instant {
		c.windup = math.Min(parryWindupCap, d.WindupSeconds*0.5)
		c.hold = math.Min(parryHoldCap, d.BraceDuration*0.6)
		c.state = CounterCountering
		c.parries++
	} else {
		c.windup = d.WindupSeconds
		c.hold = d.BraceDuration
		c.state = CounterBracing
	}
	c.feedback.Play(CueBossWindup)

	if d.DebugLogs {
		log.Printf("🛡️ Brace begin: mass x%.2f instant=%v approach=%.2f", d.BraceMassMultiplier, instant, est.Approach)
	}

	if c.windup <= 0 {
		c.fire(tick)
	}
}

// Step advances wind-up on unscaled time and the brace hold on scaled time
func (c *CounterPush) Step(tick Tick) {
	switch c.state {
	case CounterBracing, CounterCountering:
		c.elapsed += tick.UnscaledDt
		if c.elapsed+1e-9 >= c.windup {
			c.fire(tick)
		}
	case CounterCooldown:
		c.elapsed += tick.Dt
		if c.elapsed+1e-9 >= c.hold {
			c.finish()
		}
	}
}

func (c *CounterPush) fire(tick Tick) {
	d := c.design
	if c.target != nil {
		c.target.Knock(c.pushDir.Mult(d.CounterImpulse), d.PlayerStunSeconds)
		if d.RecoilFactor > 0 {
			c.self.Body.ApplyImpulse(c.pushDir.Mult(-d.CounterImpulse * d.RecoilFactor))
		}
	}
	c.feedback.Play(CueBossBash)
	c.feedback.Shake(d.Shake)

	c.counters++
	c.state = CounterCooldown
	c.elapsed = 0

	if d.DebugLogs {
		log.Printf("🛡️ Counter fired: dir=(%.2f,%.2f) impulse=%.1f instant=%v", c.pushDir.X, c.pushDir.Y, d.CounterImpulse, c.instant)
	}
	if c.onFire != nil {
		c.onFire(CounterEvent{Instant: c.instant, Impulse: d.CounterImpulse, PushDir: c.pushDir, Time: tick.Time})
	}
	if c.hold <= 0 {
		c.finish()
	}
}

func (c *CounterPush) finish() {
	c.release()
	c.contactTimer = 0
	c.state = CounterIdle
	if c.design.DebugLogs {
		log.Printf("🛡️ Brace end")
	}
}

func (c *CounterPush) release() {
	c.self.Overlay.Pop(c.token)
	c.braced = false
	c.target = nil
}

// Cancel unwinds any running sequence and restores the body
func (c *CounterPush) Cancel() {
	if c.braced {
		c.release()
	}
	c.contactTimer = 0
	c.state = CounterIdle
}
