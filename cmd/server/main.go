package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boss-brawl/internal/api"
	"boss-brawl/internal/combat"
	"boss-brawl/internal/config"
	"boss-brawl/internal/encounter"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🥊 ================================")
	log.Println("🥊  BOSS BRAWL - ENCOUNTER SERVER")
	log.Println("🥊 ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	simCfg := appConfig.Sim
	encCfg := appConfig.Encounter
	serverCfg := appConfig.Server

	log.Printf("🎮 Config: %d TPS, x%.2f time scale, %s backend, arena %.1fm, pit below %.1fm",
		simCfg.TickRate, simCfg.TimeScale, simCfg.Backend, simCfg.ArenaWidth, simCfg.FallY)
	log.Printf("🎚️ Difficulty: progress %d (parity at %d, overpowered at %d), %d lives",
		encCfg.Progress, encCfg.ParityProgress, encCfg.OverpowerProgress, encCfg.PlayerLives)

	engine, err := encounter.New(encounter.ConfigFrom(appConfig))
	if err != nil {
		log.Fatalf("❌ Failed to create encounter: %v", err)
	}

	// Start event log
	if serverCfg.EventLogPath != "" {
		if err := engine.StartEventLog(serverCfg.EventLogPath); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		} else {
			log.Printf("📝 Event log: %s", serverCfg.EventLogPath)
		}
	}

	// Start debug server
	if err := api.StartDebugServer(appConfig.Observability, engine); err != nil {
		log.Printf("⚠️ Debug server disabled: %v", err)
	}

	server := api.NewServer(engine)

	engine.OnOutcome(func(o combat.Outcome, reason string) {
		log.Printf("🏁 Fight over: %s (%s)", o, reason)
	})

	// Start the encounter
	engine.Start()
	log.Println("✅ Encounter started")

	// Start API server in goroutine
	go func() {
		addr := fmt.Sprintf(":%d", serverCfg.Port)
		log.Printf("🌐 API server on http://localhost%s", addr)
		log.Printf("📡 Live state: ws://localhost%s/ws", addr)

		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ API shutdown: %v", err)
	}
	engine.Stop()
	engine.StopEventLog()
	log.Println("👋 Goodbye!")
}
