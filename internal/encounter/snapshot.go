package encounter

import (
	"sync/atomic"
	"time"

	"boss-brawl/internal/combat"
)

// AgentSnapshot is an immutable copy of one body for rendering
// Uses value types (not pointers) to ensure immutability
type AgentSnapshot struct {
	Role     string  `json:"role"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Mass     float64 `json:"mass"`
	Material string  `json:"material"`
	Stunned  bool    `json:"stunned"`
	StunLeft float64 `json:"stunLeft"`
}

// CounterSnapshot captures the boss retaliation machine
type CounterSnapshot struct {
	State        string  `json:"state"`
	ContactTimer float64 `json:"contactTimer"`
	Braced       bool    `json:"braced"`
	Counters     int     `json:"counters"`
	Parries      int     `json:"parries"`
}

// StatsSnapshot holds running totals
type StatsSnapshot struct {
	Shoves      int `json:"shoves"`
	BossShoves  int `json:"bossShoves"`
	ChaseNudges int `json:"chaseNudges"`
	BossHits    int `json:"bossHits"`
	PlayerHits  int `json:"playerHits"`
	Falls       int `json:"falls"`
}

// Snapshot is a complete immutable encounter state for rendering
type Snapshot struct {
	Sequence   uint64    `json:"sequence"`   // Monotonic sequence for ordering
	Timestamp  time.Time `json:"timestamp"`  // When snapshot was created
	TickNumber int64     `json:"tickNumber"` // Physics tick this represents
	SimTime    float64   `json:"simTime"`
	TimeScale  float64   `json:"timeScale"`
	Backend    string    `json:"backend"`

	Player   AgentSnapshot   `json:"player"`
	Boss     AgentSnapshot   `json:"boss"`
	Touching bool            `json:"touching"`
	Counter  CounterSnapshot `json:"counter"`

	Progress      int    `json:"progress"`
	Profile       string `json:"profile"`
	Lives         int    `json:"lives"`
	Outcome       string `json:"outcome"`
	OutcomeReason string `json:"outcomeReason,omitempty"`

	ArenaWidth float64 `json:"arenaWidth"`
	FallY      float64 `json:"fallY"`

	Stats StatsSnapshot `json:"stats"`
}

// SnapshotPool uses triple buffering for lock-free producer/consumer
type SnapshotPool struct {
	snapshots [3]Snapshot // Triple buffer
	writeIdx  uint32      // atomic - producer index
	readIdx   uint32      // atomic - consumer index
	sequence  uint64      // atomic - monotonic sequence
	published atomic.Bool
}

// NewSnapshotPool creates an empty pool
func NewSnapshotPool() *SnapshotPool {
	return &SnapshotPool{}
}

// AcquireWrite gets the next write slot (producer only, called from the tick)
func (p *SnapshotPool) AcquireWrite() *Snapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]
	*snap = Snapshot{}

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()

	return snap
}

// PublishWrite marks write complete and advances read pointer
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
	p.published.Store(true)
}

// AcquireRead gets a copy of the latest complete snapshot.
// Returns false if nothing was published yet.
func (p *SnapshotPool) AcquireRead() (Snapshot, bool) {
	if !p.published.Load() {
		return Snapshot{}, false
	}
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return p.snapshots[idx], true
}

// GetSequence returns current sequence number
func (p *SnapshotPool) GetSequence() uint64 {
	return atomic.LoadUint64(&p.sequence)
}

func captureAgent(a *combat.Agent, width, height float64) AgentSnapshot {
	pos, vel := a.Body.Position(), a.Body.Velocity()
	s := AgentSnapshot{
		Role:     a.Role.String(),
		X:        pos.X,
		Y:        pos.Y,
		VX:       vel.X,
		VY:       vel.Y,
		Width:    width,
		Height:   height,
		Mass:     a.Body.Mass(),
		Material: a.Body.Material().Name,
		Stunned:  a.IsStunned(),
	}
	if a.Stun != nil {
		s.StunLeft = a.Stun.Remaining()
	}
	return s
}
