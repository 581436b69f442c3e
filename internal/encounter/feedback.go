package encounter

import (
	"sync"
	"time"

	"boss-brawl/internal/combat"

	"golang.org/x/time/rate"
)

// FeedbackKind tells shakes and sound cues apart
type FeedbackKind string

const (
	FeedbackShake FeedbackKind = "shake"
	FeedbackCue   FeedbackKind = "cue"
)

// FeedbackEvent is one fire-and-forget presentation request
type FeedbackEvent struct {
	Kind  FeedbackKind  `json:"kind"`
	Cue   string        `json:"cue,omitempty"`
	Pulse *combat.Pulse `json:"pulse,omitempty"`
	Tick  int64         `json:"tick"`
}

const (
	maxShakesPerSec = 8
	shakeBurst      = 2
)

// simEpoch anchors unscaled simulation seconds on the limiter's clock
var simEpoch = time.Unix(0, 0)

// FeedbackBus fans shakes and cues out to subscribers. Shakes are throttled
// on unscaled simulation time so slow motion and fast-forward runs behave
// the same as real time. Listeners run synchronously inside the tick and
// must not block.
type FeedbackBus struct {
	mu        sync.Mutex
	listeners []func(FeedbackEvent)
	shakes    *rate.Limiter
	now       combat.Tick

	sent      int
	throttled int
}

// NewFeedbackBus creates a bus with the default shake budget
func NewFeedbackBus() *FeedbackBus {
	return &FeedbackBus{
		shakes: rate.NewLimiter(maxShakesPerSec, shakeBurst),
	}
}

// Subscribe registers fn for every delivered event
func (b *FeedbackBus) Subscribe(fn func(FeedbackEvent)) {
	b.mu.Lock()
	b.listeners = append(b.listeners, fn)
	b.mu.Unlock()
}

// SetTick stamps subsequent events and advances the shake limiter's clock
func (b *FeedbackBus) SetTick(t combat.Tick) {
	b.mu.Lock()
	b.now = t
	b.mu.Unlock()
}

// Shake implements combat.Shaker
func (b *FeedbackBus) Shake(p combat.Pulse) {
	b.mu.Lock()
	at := simEpoch.Add(time.Duration(b.now.Unscaled * float64(time.Second)))
	if !b.shakes.AllowN(at, 1) {
		b.throttled++
		b.mu.Unlock()
		return
	}
	pulse := p
	b.deliverLocked(FeedbackEvent{Kind: FeedbackShake, Pulse: &pulse, Tick: b.now.Seq})
}

// PlayCue implements combat.SoundPlayer
func (b *FeedbackBus) PlayCue(cue string) {
	b.mu.Lock()
	b.deliverLocked(FeedbackEvent{Kind: FeedbackCue, Cue: cue, Tick: b.now.Seq})
}

// deliverLocked releases the lock before calling listeners
func (b *FeedbackBus) deliverLocked(ev FeedbackEvent) {
	b.sent++
	listeners := b.listeners
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}
}

// Stats returns delivered and throttled counts
func (b *FeedbackBus) Stats() (sent, throttled int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sent, b.throttled
}

// Feedback wraps the bus for the combat controllers
func (b *FeedbackBus) Feedback() combat.Feedback {
	return combat.Feedback{Shaker: b, Sound: b}
}
