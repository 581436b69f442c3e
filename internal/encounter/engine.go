// Package encounter runs one boss fight on a fixed tick: it steps the physics
// world, routes contacts to the combat controllers, applies difficulty blends
// between ticks and publishes immutable snapshots for the API.
package encounter

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"boss-brawl/internal/combat"
	"boss-brawl/internal/config"
	"boss-brawl/internal/difficulty"
	"boss-brawl/internal/physics"

	"github.com/jakecoffman/cp/v2"
)

// Body ids inside the world
const (
	PlayerID physics.AgentID = 1
	BossID   physics.AgentID = 2
	GroundID physics.AgentID = 100
)

// Agent box sizes in metres
const (
	playerWidth  = 0.8
	playerHeight = 1.2
	bossWidth    = 1.2
	bossHeight   = 1.6
)

var (
	playerMaterial = physics.Material{Name: "player", Friction: 0.4}
	bossMaterial   = physics.Material{Name: "boss", Friction: 0.6, Bounciness: 0.1}
	groundMaterial = physics.Material{Name: "stone", Friction: 0.8}

	playerHitPulse = combat.Pulse{Amplitude: 0.35, Frequency: 18, Duration: 0.2}
)

// ErrBadTickRate is returned by New for a non-positive tick rate
var ErrBadTickRate = errors.New("encounter: tick rate must be positive")

// Config holds everything New needs
type Config struct {
	TickRate          int
	TimeScale         float64
	Backend           physics.Backend
	Gravity           float64
	ArenaWidth        float64
	FallY             float64
	Progress          int
	Curve             difficulty.Curve
	PlayerLives       int
	PlayerFallIsFatal bool
	// ScriptedPlayer drives the player with a ScriptedMotor; off leaves the
	// player idle for an external controller
	ScriptedPlayer bool
	Motor          MotorDesign
	DebugLogs      bool
}

// DefaultConfig mirrors the config package defaults
func DefaultConfig() Config {
	return ConfigFrom(config.AppConfig{
		Sim:       config.DefaultSim(),
		Encounter: config.DefaultEncounter(),
	})
}

// ConfigFrom maps the application config onto the engine config
func ConfigFrom(app config.AppConfig) Config {
	return Config{
		TickRate:          app.Sim.TickRate,
		TimeScale:         app.Sim.TimeScale,
		Backend:           physics.Backend(app.Sim.Backend),
		Gravity:           app.Sim.GravityY,
		ArenaWidth:        app.Sim.ArenaWidth,
		FallY:             app.Sim.FallY,
		Progress:          app.Encounter.Progress,
		Curve:             difficulty.Curve{ParityProgress: app.Encounter.ParityProgress, OverpowerProgress: app.Encounter.OverpowerProgress},
		PlayerLives:       app.Encounter.PlayerLives,
		PlayerFallIsFatal: app.Encounter.PlayerFallIsFatal,
		ScriptedPlayer:    true,
		Motor:             DefaultMotorDesign(),
		DebugLogs:         app.Encounter.DebugLogs,
	}
}

// Engine owns one encounter
type Engine struct {
	mu  sync.Mutex
	cfg Config

	world  physics.World
	clock  *combat.Clock
	player *combat.Agent
	boss   *combat.Agent
	roster *combat.Roster

	shove     *combat.ShoveResolver
	bossShove *combat.BossShove
	chase     *combat.ChaseController
	counter   *combat.CounterPush
	motor     *ScriptedMotor

	blender  *difficulty.Blender
	progress int
	reapply  bool

	feedback *FeedbackBus
	guard    *combat.OutcomeGuard
	referee  *combat.Referee
	lives    *Lives

	playerSpawn cp.Vector
	bossSpawn   cp.Vector
	playerPrev  cp.Vector
	bossPrev    cp.Vector
	touching    bool

	// hit counters already exported to metrics
	bossHitsSeen   int
	playerHitsSeen int
	falls          int

	onOutcome []func(combat.Outcome, string)

	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}
	loopDone chan struct{}

	snapshotPool *SnapshotPool
	eventLog     *EventLog
}

// New builds the arena, both agents and every controller, and applies the
// configured progress once
func New(cfg Config) (*Engine, error) {
	if cfg.TickRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadTickRate, cfg.TickRate)
	}
	world, err := physics.NewWorld(cfg.Backend, cp.Vector{Y: cfg.Gravity})
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:          cfg,
		world:        world,
		clock:        combat.NewClock(1 / float64(cfg.TickRate)),
		blender:      difficulty.NewBlender(cfg.Curve),
		progress:     cfg.Progress,
		feedback:     NewFeedbackBus(),
		lives:        NewLives(cfg.PlayerLives),
		snapshotPool: NewSnapshotPool(),
		eventLog:     NewEventLog(),
	}
	e.clock.SetTimeScale(cfg.TimeScale)
	e.blender.SetDebugLogs(cfg.DebugLogs)

	world.AddBody(physics.BodySpec{
		ID:       GroundID,
		Position: cp.Vector{Y: -0.5},
		Width:    cfg.ArenaWidth,
		Height:   1,
		Material: groundMaterial,
		Static:   true,
	})

	e.playerSpawn = cp.Vector{X: -cfg.ArenaWidth / 4, Y: playerHeight / 2}
	e.bossSpawn = cp.Vector{X: cfg.ArenaWidth / 4, Y: bossHeight / 2}

	e.player = combat.NewAgent(combat.RolePlayer, world.AddBody(physics.BodySpec{
		ID:          PlayerID,
		Position:    e.playerSpawn,
		Width:       playerWidth,
		Height:      playerHeight,
		Mass:        1.6,
		Material:    playerMaterial,
		Constraints: physics.FreezeRotation,
		Damping:     physics.Damping{Linear: 0.2, Angular: 0.05},
	}))
	e.boss = combat.NewAgent(combat.RoleBoss, world.AddBody(physics.BodySpec{
		ID:          BossID,
		Position:    e.bossSpawn,
		Width:       bossWidth,
		Height:      bossHeight,
		Mass:        2.8,
		Material:    bossMaterial,
		Constraints: physics.FreezeRotation,
		Damping:     physics.Damping{Linear: 0.5, Angular: 0.3},
	}))
	e.roster = combat.NewRoster(e.player, e.boss)

	fb := e.feedback.Feedback()

	e.chase = combat.NewChaseController(e.boss.Body, e.player.Body, combat.DefaultChaseDesign())
	e.boss.Stun = combat.NewKnockbackStun(e.boss.Overlay, e.chase, combat.DefaultBossStunDesign())
	e.chase.SetStun(e.boss.Stun)

	e.motor = NewScriptedMotor(e.player.Body, e.boss.Body, cfg.Motor)
	e.motor.SetEnabled(cfg.ScriptedPlayer)
	e.player.Stun = combat.NewKnockbackStun(e.player.Overlay, e.motor, combat.DefaultPlayerStunDesign())
	e.player.Stun.SetHitFeedback(fb, playerHitPulse, combat.CuePlayerHit)

	e.shove = combat.NewShoveResolver(e.player, combat.DefaultShoveDesign())
	e.shove.SetFeedback(fb)
	e.bossShove = combat.NewBossShove(e.boss, combat.DefaultBossShoveDesign())
	e.counter = combat.NewCounterPush(e.boss, combat.DefaultCounterDesign())
	e.counter.SetFeedback(fb)
	e.counter.OnFire(e.counterFired)

	e.guard = combat.NewOutcomeGuard(combat.OutcomeFunc(e.fightOver))
	e.referee = &combat.Referee{
		Guard:         e.guard,
		Zone:          combat.BelowY(cfg.FallY),
		PlayerCanFall: cfg.PlayerFallIsFatal || cfg.PlayerLives <= 0,
	}
	// no lives to spend means the first fall decides the fight
	if !e.referee.PlayerCanFall {
		e.referee.Lives = e.lives
	}

	e.applyLocked(e.clock.Now())
	e.playerPrev = e.player.Body.Position()
	e.bossPrev = e.boss.Body.Position()
	e.produceSnapshotLocked(e.clock.Now())

	return e, nil
}

// Start begins the tick loop
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stopChan = make(chan struct{})
	e.loopDone = make(chan struct{})
	e.ticker = time.NewTicker(time.Second / time.Duration(e.cfg.TickRate))
	ticker, stop, done := e.ticker, e.stopChan, e.loopDone
	e.mu.Unlock()

	e.eventLog.EmitSimple(EventTypeStart, 0, 0, "", StartPayload{
		Backend:  string(e.world.Backend()),
		TickRate: e.cfg.TickRate,
		Progress: e.Progress(),
	})

	go func() {
		defer close(done)
		for {
			select {
			case <-ticker.C:
				e.tick()
			case <-stop:
				return
			}
		}
	}()

	log.Printf("🎮 Encounter started at %d TPS on %s", e.cfg.TickRate, e.world.Backend())
}

// Stop halts the loop and tears down every running sequence so no temporary
// physical override outlives the encounter
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.teardownLocked()
		e.mu.Unlock()
		return
	}
	e.running = false
	e.ticker.Stop()
	close(e.stopChan)
	done := e.loopDone
	e.mu.Unlock()

	<-done

	e.mu.Lock()
	e.teardownLocked()
	e.mu.Unlock()
	log.Println("🛑 Encounter stopped")
}

func (e *Engine) teardownLocked() {
	e.counter.Cancel()
	e.boss.Stun.Cancel()
	e.player.Stun.Cancel()
}

func (e *Engine) tick() {
	start := time.Now()
	e.StepOnce()
	RecordTick(time.Since(start))
}

// StepOnce advances the encounter by exactly one tick. It returns false once
// the fight is decided and the simulation is frozen.
func (e *Engine) StepOnce() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stepLocked()
}

func (e *Engine) stepLocked() bool {
	if e.guard.Decided() {
		return false
	}

	tick := e.clock.Advance()
	e.feedback.SetTick(tick)

	if e.reapply {
		e.applyLocked(tick)
	}

	e.playerPrev = e.player.Body.Position()
	e.bossPrev = e.boss.Body.Position()

	// drivers first, so a stun expiring this tick hands control back in time
	e.player.Stun.Step(tick)
	e.boss.Stun.Step(tick)
	e.counter.Step(tick)
	e.chase.Step(tick)
	e.motor.Step(tick)

	report := e.world.Step(tick.Dt)
	e.routeContacts(tick, report)

	e.checkFallsLocked(tick)
	e.referee.Check(e.player, e.boss)
	e.recordHitsLocked()

	e.produceSnapshotLocked(tick)
	return true
}

// routeContacts hands each player/boss contact to the boss-side handlers
// first so a parry lands before the player's shove can stun the boss
func (e *Engine) routeContacts(tick combat.Tick, report physics.StepReport) {
	e.touching = false
	for _, c := range report.Contacts {
		a, b := e.roster.Lookup(c.A), e.roster.Lookup(c.B)
		if a == nil || b == nil {
			continue
		}
		boss, player := a, b
		if boss.Role != combat.RoleBoss {
			boss, player = b, a
		}
		if boss.Role != combat.RoleBoss || player.Role != combat.RolePlayer {
			continue
		}
		e.touching = true

		bossPts, bossRel := c.Oriented(boss.ID())
		bossSample := combat.SampleFrom(boss.Body, player.Body, bossPts, bossRel, e.bossPrev, e.playerPrev, tick.Dt)
		e.counter.OnContact(tick, bossSample, player)

		if e.bossShove.OnContact(tick, player) {
			bossShovesTotal.Inc()
			pos := boss.Body.Position()
			e.eventLog.EmitSimple(EventTypeBossShove, tick.Seq, tick.Time, combat.RoleBoss.String(), BossShovePayload{
				Impulse: e.bossShove.Design().Impulse,
				PlayerX: player.Body.Position().X,
				BossX:   pos.X,
			})
		}

		playerPts, playerRel := c.Oriented(player.ID())
		playerSample := combat.SampleFrom(player.Body, boss.Body, playerPts, playerRel, e.playerPrev, e.bossPrev, tick.Dt)
		if res := e.shove.OnContact(tick, playerSample, boss); res.Fired {
			shovesTotal.Inc()
			e.eventLog.EmitSimple(EventTypeShove, tick.Seq, tick.Time, combat.RolePlayer.String(), ShovePayload{
				Impulse:  res.Impulse,
				Approach: res.Estimate.Approach,
				BossMass: boss.Body.Mass(),
				PushX:    res.Estimate.PushDir.X,
				PushY:    res.Estimate.PushDir.Y,
			})
		}
	}

	if report.Separated(PlayerID, BossID) {
		e.counter.OnContactLost(e.player)
	}
}

// checkFallsLocked spends a life and respawns the player when falls are not
// fatal; fatal falls and boss falls are left to the referee
func (e *Engine) checkFallsLocked(tick combat.Tick) {
	if e.referee.Zone.Contains(e.boss.Body.Position()) {
		fallsTotal.WithLabelValues(combat.RoleBoss.String()).Inc()
		e.falls++
		e.eventLog.EmitSimple(EventTypeFall, tick.Seq, tick.Time, combat.RoleBoss.String(), FallPayload{
			Role:      combat.RoleBoss.String(),
			LivesLeft: e.lives.Lives(),
		})
		return
	}
	if !e.referee.Zone.Contains(e.player.Body.Position()) {
		return
	}

	fallsTotal.WithLabelValues(combat.RolePlayer.String()).Inc()
	e.falls++
	if e.referee.PlayerCanFall {
		return
	}

	left := e.lives.Lose()
	e.eventLog.EmitSimple(EventTypeFall, tick.Seq, tick.Time, combat.RolePlayer.String(), FallPayload{
		Role:      combat.RolePlayer.String(),
		LivesLeft: left,
	})
	log.Printf("💀 Player fell, %d lives left", left)
	if left <= 0 {
		return
	}

	e.player.Stun.Cancel()
	e.player.Body.Teleport(e.playerSpawn)
	e.playerPrev = e.playerSpawn
	e.counter.OnContactLost(e.player)
	e.motor.Reset()
	e.motor.SetEnabled(e.cfg.ScriptedPlayer)
}

func (e *Engine) recordHitsLocked() {
	if h := e.boss.Stun.Hits(); h > e.bossHitsSeen {
		stunsTotal.WithLabelValues(combat.RoleBoss.String()).Add(float64(h - e.bossHitsSeen))
		e.bossHitsSeen = h
	}
	if h := e.player.Stun.Hits(); h > e.playerHitsSeen {
		stunsTotal.WithLabelValues(combat.RolePlayer.String()).Add(float64(h - e.playerHitsSeen))
		e.playerHitsSeen = h
	}
}

// counterFired runs inside the tick from CounterPush
func (e *Engine) counterFired(ev combat.CounterEvent) {
	kind := "brace"
	if ev.Instant {
		kind = "parry"
	}
	countersTotal.WithLabelValues(kind).Inc()
	now := e.clock.Now()
	e.eventLog.EmitSimple(EventTypeCounter, now.Seq, now.Time, combat.RoleBoss.String(), CounterPayload{
		Instant: ev.Instant,
		Impulse: ev.Impulse,
		PushX:   ev.PushDir.X,
		PushY:   ev.PushDir.Y,
	})
}

// fightOver is the guard's sink; it runs once, inside the tick
func (e *Engine) fightOver(o combat.Outcome, reason string) {
	outcomesTotal.WithLabelValues(o.String()).Inc()
	now := e.clock.Now()
	e.eventLog.EmitSimple(EventTypeOutcome, now.Seq, now.Time, "", OutcomePayload{
		Outcome: o.String(),
		Reason:  reason,
	})
	for _, fn := range e.onOutcome {
		go fn(o, reason)
	}
}

// applyLocked writes the blend for the current progress into every controller
func (e *Engine) applyLocked(tick combat.Tick) {
	p := e.blender.Apply(e.progress, difficulty.Targets{
		Shove:      e.shove,
		BossShove:  e.bossShove,
		Chase:      e.chase,
		Counter:    e.counter,
		BossStun:   e.boss.Stun,
		PlayerStun: e.player.Stun,
		Player:     e.player,
		Boss:       e.boss,
	})
	e.reapply = false
	progressGauge.Set(float64(e.progress))
	e.eventLog.EmitSimple(EventTypeReapply, tick.Seq, tick.Time, "", ReapplyPayload{
		Progress:    e.progress,
		Profile:     p.Name,
		ShoveDeltaV: p.Shove.BaseTargetDeltaV,
		BossMass:    p.BossMass,
	})
}

// SetProgress records new progress; the blend is applied at the start of the
// next tick
func (e *Engine) SetProgress(progress int) {
	if progress < 0 {
		progress = 0
	}
	e.mu.Lock()
	e.progress = progress
	e.reapply = true
	e.mu.Unlock()
}

// RequestReapply re-blends the current progress at the start of the next tick
func (e *Engine) RequestReapply() {
	e.mu.Lock()
	e.reapply = true
	e.mu.Unlock()
}

// ReapplyNow blends immediately; only safe between ticks, which holding the
// lock guarantees
func (e *Engine) ReapplyNow() difficulty.Profile {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.applyLocked(e.clock.Now())
	p, _ := e.blender.Last()
	return p
}

// Progress returns the progress the next apply will use
func (e *Engine) Progress() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress
}

// SetTimeScale changes the slow-motion factor
func (e *Engine) SetTimeScale(scale float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clock.SetTimeScale(scale)
	now := e.clock.Now()
	e.eventLog.EmitSimple(EventTypeTimeScale, now.Seq, now.Time, "", TimeScalePayload{Scale: e.clock.TimeScale()})
	return e.clock.TimeScale()
}

// Design returns the last applied bundle and its progress
func (e *Engine) Design() (difficulty.Profile, int) {
	return e.blender.Last()
}

// Curve returns the difficulty checkpoints
func (e *Engine) Curve() difficulty.Curve {
	return e.blender.Curve()
}

// OnFeedback subscribes to shakes and cues. fn runs inside the tick.
func (e *Engine) OnFeedback(fn func(FeedbackEvent)) {
	e.feedback.Subscribe(fn)
}

// OnOutcome registers a callback run in its own goroutine when the fight ends
func (e *Engine) OnOutcome(fn func(combat.Outcome, string)) {
	e.mu.Lock()
	e.onOutcome = append(e.onOutcome, fn)
	e.mu.Unlock()
}

// Outcome returns the result so far
func (e *Engine) Outcome() (combat.Outcome, string) {
	return e.guard.Outcome()
}

// Lives returns the player's remaining lives
func (e *Engine) Lives() int {
	return e.lives.Lives()
}

// Backend returns the physics backend name
func (e *Engine) Backend() physics.Backend {
	return e.world.Backend()
}

// Snapshot returns the latest published state
func (e *Engine) Snapshot() Snapshot {
	snap, _ := e.snapshotPool.AcquireRead()
	return snap
}

func (e *Engine) produceSnapshotLocked(tick combat.Tick) {
	snap := e.snapshotPool.AcquireWrite()

	snap.TickNumber = tick.Seq
	snap.SimTime = tick.Time
	snap.TimeScale = e.clock.TimeScale()
	snap.Backend = string(e.world.Backend())

	snap.Player = captureAgent(e.player, playerWidth, playerHeight)
	snap.Boss = captureAgent(e.boss, bossWidth, bossHeight)
	snap.Touching = e.touching
	snap.Counter = CounterSnapshot{
		State:        e.counter.State().String(),
		ContactTimer: e.counter.ContactTimer(),
		Braced:       e.counter.Braced(),
		Counters:     e.counter.Counters(),
		Parries:      e.counter.Parries(),
	}

	profile, _ := e.blender.Last()
	snap.Progress = e.progress
	snap.Profile = profile.Name
	snap.Lives = e.lives.Lives()
	o, reason := e.guard.Outcome()
	snap.Outcome = o.String()
	snap.OutcomeReason = reason

	snap.ArenaWidth = e.cfg.ArenaWidth
	snap.FallY = e.cfg.FallY

	snap.Stats = StatsSnapshot{
		Shoves:      e.shove.Shoves(),
		BossShoves:  e.bossShove.Shoves(),
		ChaseNudges: e.chase.Nudges(),
		BossHits:    e.boss.Stun.Hits(),
		PlayerHits:  e.player.Stun.Hits(),
		Falls:       e.falls,
	}

	e.snapshotPool.PublishWrite()
}

// StartEventLog initializes the event logging system
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog gracefully stops the event logging system
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// GetEventLogStats returns event log statistics for monitoring
func (e *Engine) GetEventLogStats() map[string]interface{} {
	return e.eventLog.GetStats()
}

// FeedbackStats returns delivered and throttled feedback counts
func (e *Engine) FeedbackStats() (sent, throttled int) {
	return e.feedback.Stats()
}
