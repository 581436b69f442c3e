package combat

// Sound cues emitted by the controllers
const (
	CueBossWindup  = "boss_windup"
	CueBossBash    = "boss_bash"
	CuePlayerHit   = "player_hit"
	CuePlayerShove = "player_shove"
)

// Pulse is a camera-shake request
type Pulse struct {
	Amplitude float64 `json:"amplitude"`
	Frequency float64 `json:"frequency"`
	Duration  float64 `json:"duration"`
}

// IsZero reports an empty pulse
func (p Pulse) IsZero() bool {
	return p.Amplitude <= 0 || p.Duration <= 0
}

// Shaker receives camera-shake pulses
type Shaker interface {
	Shake(p Pulse)
}

// SoundPlayer receives one-shot sound cues
type SoundPlayer interface {
	PlayCue(cue string)
}

// Feedback holds the optional fire-and-forget collaborators. Both fields may
// be nil and every call is then skipped.
type Feedback struct {
	Shaker Shaker
	Sound  SoundPlayer
}

// Shake forwards p unless it is empty or no shaker is wired
func (f Feedback) Shake(p Pulse) {
	if f.Shaker == nil || p.IsZero() {
		return
	}
	f.Shaker.Shake(p)
}

// Play forwards cue unless no sound player is wired
func (f Feedback) Play(cue string) {
	if f.Sound == nil || cue == "" {
		return
	}
	f.Sound.PlayCue(cue)
}
