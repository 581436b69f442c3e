package combat

import "math"

// MinDt is the floor applied to any tick duration
const MinDt = 1e-4

// Tick is one fixed physics step. Time and Dt are scaled by the global time
// scale; the Unscaled pair always advances at wall-clock rate.
type Tick struct {
	Seq        int64
	Time       float64
	Dt         float64
	Unscaled   float64
	UnscaledDt float64
}

// Clock produces fixed ticks
type Clock struct {
	fixedDt   float64
	timeScale float64
	seq       int64
	time      float64
	unscaled  float64
}

// NewClock creates a clock stepping fixedDt unscaled seconds per tick
func NewClock(fixedDt float64) *Clock {
	return &Clock{
		fixedDt:   math.Max(MinDt, fixedDt),
		timeScale: 1,
	}
}

// SetTimeScale sets the slow-motion factor, clamped to [0.05, 4]
func (c *Clock) SetTimeScale(s float64) {
	if math.IsNaN(s) {
		return
	}
	c.timeScale = math.Min(4, math.Max(0.05, s))
}

// TimeScale returns the current slow-motion factor
func (c *Clock) TimeScale() float64 { return c.timeScale }

// FixedDt returns the unscaled step length
func (c *Clock) FixedDt() float64 { return c.fixedDt }

// Now returns the last produced tick without advancing
func (c *Clock) Now() Tick {
	return Tick{
		Seq:        c.seq,
		Time:       c.time,
		Dt:         c.fixedDt * c.timeScale,
		Unscaled:   c.unscaled,
		UnscaledDt: c.fixedDt,
	}
}

// Advance moves the clock forward one step
func (c *Clock) Advance() Tick {
	c.seq++
	dt := c.fixedDt * c.timeScale
	c.time += dt
	c.unscaled += c.fixedDt
	return Tick{
		Seq:        c.seq,
		Time:       c.time,
		Dt:         dt,
		Unscaled:   c.unscaled,
		UnscaledDt: c.fixedDt,
	}
}
