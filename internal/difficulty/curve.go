// Package difficulty maps the player's progress onto blended combat tunables.
package difficulty

import "math"

// Curve holds the two progress checkpoints of the three-anchor difficulty curve
type Curve struct {
	ParityProgress    int `json:"parityProgress"`
	OverpowerProgress int `json:"overpowerProgress"`
}

// DefaultCurve puts parity at 2 and overpowered at 4
func DefaultCurve() Curve {
	return Curve{ParityProgress: 2, OverpowerProgress: 4}
}

// Factors returns the baseline→parity and parity→overpowered blend factors.
// The first segment is fully resolved before the second starts moving.
// Checkpoints out of order are not rejected; the max(1, ...) guards keep
// the result finite and clamped.
func (c Curve) Factors(progress int) (t1, t2 float64) {
	p := float64(progress)
	parity := float64(c.ParityProgress)
	over := float64(c.OverpowerProgress)

	t1 = clamp01(p / math.Max(1, parity))
	t2 = clamp01((p - parity) / math.Max(1, over-parity))
	return t1, t2
}

// Blend evaluates one tunable through the three anchors
func (c Curve) Blend(progress int, baseline, parity, overpowered float64) float64 {
	t1, t2 := c.Factors(progress)
	return blend(baseline, parity, overpowered, t1, t2)
}

func blend(a, b, c, t1, t2 float64) float64 {
	return lerp(lerp(a, b, t1), c, t2)
}

// lerp is written so t=0 and t=1 return the anchors bit for bit
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
