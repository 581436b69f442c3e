// Command duelsim runs one scripted encounter headless as fast as the CPU
// allows and prints how it went. Handy for tuning the difficulty curve and
// for profiling the tick.
//
//	go run ./cmd/duelsim -progress 2 -seconds 60 -backend box2d
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"boss-brawl/internal/config"
	"boss-brawl/internal/encounter"

	"github.com/joho/godotenv"
	"github.com/pkg/profile"
)

func main() {
	// Environment first so flags can override it
	_ = godotenv.Load(".env")
	appConfig := config.Load()

	seconds := flag.Float64("seconds", 60, "simulated seconds before giving up")
	backend := flag.String("backend", appConfig.Sim.Backend, "physics backend: cp or box2d")
	progress := flag.Int("progress", appConfig.Encounter.Progress, "player progress fed to the difficulty curve")
	lives := flag.Int("lives", appConfig.Encounter.PlayerLives, "player lives; 0 makes a fall fatal")
	events := flag.String("events", "", "write the JSONL event log to this path")
	cpuProfile := flag.String("cpuprofile", "", "write a CPU profile into this directory")
	quiet := flag.Bool("quiet", false, "only print the summary")
	flag.Parse()

	if *cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*cpuProfile), profile.Quiet).Stop()
	}
	if *quiet {
		log.SetOutput(io.Discard)
	}

	appConfig.Sim.Backend = *backend
	appConfig.Encounter.Progress = *progress
	appConfig.Encounter.PlayerLives = *lives
	cfg := encounter.ConfigFrom(appConfig)

	engine, err := encounter.New(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if *events != "" {
		if err := engine.StartEventLog(*events); err != nil {
			log.Fatalf("❌ Event log: %v", err)
		}
		defer engine.StopEventLog()
	}

	maxTicks := int(*seconds * float64(cfg.TickRate))
	start := time.Now()
	ticks := 0
	for ticks < maxTicks && engine.StepOnce() {
		ticks++
	}
	elapsed := time.Since(start)
	engine.Stop()

	snap := engine.Snapshot()
	outcome, reason := engine.Outcome()
	if reason == "" {
		reason = "time limit"
	}

	fmt.Printf("backend     %s\n", snap.Backend)
	fmt.Printf("profile     %s (boss %.2fkg, player %.2fkg)\n", snap.Profile, snap.Boss.Mass, snap.Player.Mass)
	fmt.Printf("outcome     %s (%s) after %.2fs simulated\n", outcome, reason, snap.SimTime)
	fmt.Printf("lives left  %d\n", snap.Lives)
	fmt.Printf("shoves      %d player, %d boss\n", snap.Stats.Shoves, snap.Stats.BossShoves)
	fmt.Printf("counters    %d (%d parries)\n", snap.Counter.Counters, snap.Counter.Parries)
	fmt.Printf("stuns       %d boss, %d player\n", snap.Stats.BossHits, snap.Stats.PlayerHits)
	fmt.Printf("falls       %d\n", snap.Stats.Falls)
	fmt.Printf("chase       %d nudges\n", snap.Stats.ChaseNudges)
	if ticks > 0 {
		fmt.Printf("speed       %d ticks in %s (%s/tick)\n", ticks, elapsed.Round(time.Millisecond), (elapsed / time.Duration(ticks)).Round(time.Microsecond))
	}
}
