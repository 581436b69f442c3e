package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, 64, cfg.Sim.TickRate)
	assert.Equal(t, "cp", cfg.Sim.Backend)
	assert.Equal(t, 2, cfg.Encounter.ParityProgress)
	assert.Equal(t, 4, cfg.Encounter.OverpowerProgress)
	assert.Equal(t, "127.0.0.1:6060", cfg.Observability.ListenAddr)
}

func TestSimFromEnv(t *testing.T) {
	t.Setenv("TICK_RATE", "120")
	t.Setenv("TIME_SCALE", "0.5")
	t.Setenv("PHYSICS_BACKEND", " Box2D ")
	t.Setenv("FALL_Y", "-12.5")

	cfg := SimFromEnv()
	assert.Equal(t, 120, cfg.TickRate)
	assert.Equal(t, 0.5, cfg.TimeScale)
	assert.Equal(t, "box2d", cfg.Backend)
	assert.Equal(t, -12.5, cfg.FallY)
}

func TestSimFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("TICK_RATE", "fast")
	t.Setenv("TIME_SCALE", "-2")

	cfg := SimFromEnv()
	assert.Equal(t, DefaultSim().TickRate, cfg.TickRate)
	assert.Equal(t, 1.0, cfg.TimeScale)
}

func TestEncounterFromEnv(t *testing.T) {
	t.Setenv("PROGRESS", "3")
	t.Setenv("PARITY_PROGRESS", "5")
	t.Setenv("OVERPOWER_PROGRESS", "9")
	t.Setenv("PLAYER_LIVES", "0")
	t.Setenv("PLAYER_FALL_FATAL", "true")

	cfg := EncounterFromEnv()
	assert.Equal(t, EncounterConfig{
		Progress:          3,
		ParityProgress:    5,
		OverpowerProgress: 9,
		PlayerLives:       0,
		PlayerFallIsFatal: true,
	}, cfg)
}

func TestServerAndObservabilityFromEnv(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("EVENT_LOG_PATH", "")
	t.Setenv("DISABLE_DEBUG_SERVER", "true")
	t.Setenv("DEBUG_ADDR", "localhost:6060")

	srv := ServerFromEnv()
	assert.Equal(t, 8088, srv.Port)
	assert.Empty(t, srv.EventLogPath, "explicitly empty disables the log")

	obs := ObservabilityFromEnv()
	assert.False(t, obs.Enabled)
	assert.Equal(t, "localhost:6060", obs.ListenAddr)
}
