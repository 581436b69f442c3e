// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for simulation, encounter and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
	"strings"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds the fixed-tick physics settings
type SimConfig struct {
	TickRate   int     // Physics ticks per second
	TimeScale  float64 // Global slow-motion factor (1 = real time)
	Backend    string  // "cp" or "box2d"
	GravityY   float64 // m/s², negative is down
	ArenaWidth float64 // Width of the tower-top platform in metres
	FallY      float64 // Anything below this height is in the pit
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate:   64, // Binary fraction dt keeps timers exact
		TimeScale:  1.0,
		Backend:    "cp",
		GravityY:   -20,
		ArenaWidth: 16,
		FallY:      -6,
	}
}

// SimFromEnv returns simulation configuration with environment variable overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if ts := getEnvFloat("TIME_SCALE", -1); ts > 0 {
		cfg.TimeScale = ts
	}
	if b := strings.TrimSpace(os.Getenv("PHYSICS_BACKEND")); b != "" {
		cfg.Backend = strings.ToLower(b)
	}
	if v := os.Getenv("FALL_Y"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FallY = f
		}
	}

	return cfg
}

// =============================================================================
// ENCOUNTER CONFIGURATION
// =============================================================================

// EncounterConfig holds the difficulty inputs for one boss fight
type EncounterConfig struct {
	Progress          int  // Player progress fed to the difficulty curve
	ParityProgress    int  // Progress where the fight is even
	OverpowerProgress int  // Progress where the player dominates
	PlayerLives       int  // Falls the player can survive
	PlayerFallIsFatal bool // End the fight on the first fall instead of spending lives
	DebugLogs         bool // Verbose per-component logging
}

// DefaultEncounter returns the default encounter configuration.
func DefaultEncounter() EncounterConfig {
	return EncounterConfig{
		Progress:          0,
		ParityProgress:    2,
		OverpowerProgress: 4,
		PlayerLives:       3,
	}
}

// EncounterFromEnv returns encounter configuration with environment variable overrides.
func EncounterFromEnv() EncounterConfig {
	cfg := DefaultEncounter()

	if p := getEnvInt("PROGRESS", -1); p >= 0 {
		cfg.Progress = p
	}
	if p := getEnvInt("PARITY_PROGRESS", -1); p >= 0 {
		cfg.ParityProgress = p
	}
	if p := getEnvInt("OVERPOWER_PROGRESS", -1); p >= 0 {
		cfg.OverpowerProgress = p
	}
	if l := getEnvInt("PLAYER_LIVES", -1); l >= 0 {
		cfg.PlayerLives = l
	}
	if os.Getenv("PLAYER_FALL_FATAL") == "true" {
		cfg.PlayerFallIsFatal = true
	}
	if os.Getenv("DEBUG_LOGS") == "true" {
		cfg.DebugLogs = true
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int
	EventLogPath string // Empty disables the JSONL event log
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:         3000,
		EventLogPath: "events.jsonl",
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if path, ok := os.LookupEnv("EVENT_LOG_PATH"); ok {
		cfg.EventLogPath = path
	}

	return cfg
}

// =============================================================================
// OBSERVABILITY CONFIGURATION
// =============================================================================

// ObservabilityConfig holds debug server settings
type ObservabilityConfig struct {
	Enabled       bool
	ListenAddr    string // Localhost only unless ALLOW_DEBUG_EXTERNAL=true
	BasicAuthUser string
	BasicAuthPass string
}

// DefaultObservability returns the default observability configuration.
func DefaultObservability() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060",
	}
}

// ObservabilityFromEnv returns observability configuration with environment variable overrides.
func ObservabilityFromEnv() ObservabilityConfig {
	cfg := DefaultObservability()

	if os.Getenv("DISABLE_DEBUG_SERVER") == "true" {
		cfg.Enabled = false
	}
	if addr := os.Getenv("DEBUG_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	cfg.BasicAuthUser = os.Getenv("DEBUG_USER")
	cfg.BasicAuthPass = os.Getenv("DEBUG_PASS")

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Sim           SimConfig
	Encounter     EncounterConfig
	Server        ServerConfig
	Observability ObservabilityConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Sim:           SimFromEnv(),
		Encounter:     EncounterFromEnv(),
		Server:        ServerFromEnv(),
		Observability: ObservabilityFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
