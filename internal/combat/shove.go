package combat

import (
	"log"
	"math"
)

// ShoveDesign holds the player shove tunables
type ShoveDesign struct {
	BaseTargetDeltaV   float64 `json:"baseTargetDeltaV"`
	RelativeSpeedBoost float64 `json:"relativeSpeedBoost"`
	// MaxApproach caps the approach fed into the ΔV boost; 0 means uncapped
	MaxApproach       float64 `json:"maxApproach"`
	Cooldown          float64 `json:"cooldown"`
	ApproachThreshold float64 `json:"approachThreshold"`
	MinImpulse        float64 `json:"minImpulse"`
	PushAssistForce   float64 `json:"pushAssistForce"`
	// AssistNeedsApproach only leans in while the approach threshold is met
	AssistNeedsApproach bool    `json:"assistNeedsApproach"`
	RecoilFactor        float64 `json:"recoilFactor"`
	// StunSeconds is passed to the boss handler; negative uses its default
	StunSeconds float64 `json:"stunSeconds"`
	DebugLogs   bool    `json:"debugLogs"`
}

// DefaultShoveDesign returns the stock shove tuning
func DefaultShoveDesign() ShoveDesign {
	return ShoveDesign{
		BaseTargetDeltaV:   5,
		RelativeSpeedBoost: 1,
		MaxApproach:        12,
		Cooldown:           0.18,
		ApproachThreshold:  0.6,
		MinImpulse:         20,
		PushAssistForce:    20,
		RecoilFactor:       0.35,
		StunSeconds:        -1,
	}
}

// ShoveResult describes what one contact tick did
type ShoveResult struct {
	Fired    bool
	Assisted bool
	Impulse  float64
	Estimate ApproachEstimate
}

// ShoveResolver is the player's contact handler against the boss. The
// impulse targets a velocity change on the boss so difficulty tuning stays
// independent of the boss's runtime mass.
type ShoveResolver struct {
	self     *Agent
	design   ShoveDesign
	feedback Feedback

	lastShove   float64
	lastAttempt int64
	shoves      int
}

// NewShoveResolver creates a resolver owned by the player agent
func NewShoveResolver(self *Agent, d ShoveDesign) *ShoveResolver {
	return &ShoveResolver{
		self:        self,
		design:      d,
		lastShove:   math.Inf(-1),
		lastAttempt: -1,
	}
}

// SetFeedback wires the optional cue collaborator
func (s *ShoveResolver) SetFeedback(fb Feedback) { s.feedback = fb }

// SetDesign swaps tunables; cooldown history is kept
func (s *ShoveResolver) SetDesign(d ShoveDesign) { s.design = d }

// Design returns the current tunables
func (s *ShoveResolver) Design() ShoveDesign { return s.design }

// LastShove returns the scaled time of the last shove
func (s *ShoveResolver) LastShove() float64 { return s.lastShove }

// Shoves returns how many shoves fired
func (s *ShoveResolver) Shoves() int { return s.shoves }

// OnContact handles one sustained-contact tick with target. Only the first
// call per tick is considered.
func (s *ShoveResolver) OnContact(tick Tick, sample ContactSample, target *Agent) ShoveResult {
	var res ShoveResult
	if target == nil || target.Role != RoleBoss {
		return res
	}
	if tick.Seq == s.lastAttempt {
		return res
	}
	s.lastAttempt = tick.Seq

	est, ok := EstimateApproach(sample)
	if !ok {
		return res
	}
	res.Estimate = est
	d := s.design

	if d.PushAssistForce > 0 && (!d.AssistNeedsApproach || est.Approach >= d.ApproachThreshold) {
		s.self.Body.ApplyForce(est.PushDir.Mult(d.PushAssistForce))
		res.Assisted = true
	}

	if tick.Time-s.lastShove < d.Cooldown {
		return res
	}
	if est.Approach < d.ApproachThreshold {
		return res
	}

	approach := math.Max(0, est.Approach)
	if d.MaxApproach > 0 {
		approach = math.Min(approach, d.MaxApproach)
	}
	targetDeltaV := d.BaseTargetDeltaV + d.RelativeSpeedBoost*approach
	impulse := math.Max(d.MinImpulse, target.Body.Mass()*targetDeltaV)

	target.Knock(est.PushDir.Mult(impulse), d.StunSeconds)

	if recoil := s.Recoil(impulse); recoil > 0 {
		s.self.Body.ApplyImpulse(est.PushDir.Mult(-recoil))
	}

	s.lastShove = tick.Time
	s.shoves++
	s.feedback.Play(CuePlayerShove)

	res.Fired = true
	res.Impulse = impulse
	if d.DebugLogs {
		log.Printf("👊 Shove: impulse=%.1f (min %.1f) bossMass=%.2f dv=%.2f approach=%.2f dir=(%.2f,%.2f)",
			impulse, d.MinImpulse, target.Body.Mass(), targetDeltaV, est.Approach, est.PushDir.X, est.PushDir.Y)
	}
	return res
}

// Recoil is the impulse magnitude the player receives for a shove of impulse
func (s *ShoveResolver) Recoil(impulse float64) float64 {
	return s.design.RecoilFactor * impulse / math.Max(s.self.Body.Mass(), 1e-3)
}
