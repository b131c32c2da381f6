// Command sandfall runs the falling-sand simulation as a headless process:
// it loads a config, builds the chunk-streaming world and its terrain
// generator, and drives the fixed-rate tick loop described in §4.7, with an
// interactive debug console attached to stdin.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emberreach/sandfall/config"
	"github.com/emberreach/sandfall/console"
	"github.com/emberreach/sandfall/world"
	"github.com/emberreach/sandfall/world/generator"
)

func main() {
	configPath := flag.String("config", "sandfall.toml", "path to the TOML config file")
	spawnX := flag.Int("spawn-x", 0, "world x coordinate to center the active set on at startup")
	spawnY := flag.Int("spawn-y", 0, "world y coordinate to center the active set on at startup")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg.Log = log

	if err := run(cfg, *spawnX, *spawnY); err != nil {
		log.Error("sandfall exited with an error", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, spawnX, spawnY int) error {
	log := cfg.Log

	gen := generator.New(generator.Config{
		Seed:   cfg.Seed,
		WorldW: cfg.WorldWidth,
		WorldH: cfg.WorldHeight,
		Log:    log,
	})
	manager := world.NewManager(world.ManagerConfig{
		ChunkW:      cfg.ChunkWidth,
		ChunkH:      cfg.ChunkHeight,
		MaxLoaded:   cfg.MaxLoadedChunks,
		CacheTTL:    cfg.CacheTTLTicks,
		StorageRoot: cfg.StorageRoot,
		Seed:        cfg.Seed,
		Log:         log,
	}, gen)
	w := world.NewWorld(manager)
	w.UpdatePlayerPosition(spawnX, spawnY)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := console.New(w, log)
	go c.Run(ctx)

	log.Info("sandfall starting", "world_w", cfg.WorldWidth, "world_h", cfg.WorldHeight,
		"chunk_w", cfg.ChunkWidth, "chunk_h", cfg.ChunkHeight, "seed", cfg.Seed, "tps", cfg.TargetTicksPerSecond)

	tickLoop(ctx, w, cfg, log)

	log.Info("sandfall shutting down, flushing modified chunks")
	if err := w.Save(); err != nil {
		return fmt.Errorf("sandfall: final save: %w", err)
	}
	return nil
}

const (
	tpsSampleSize       = 60
	tpsWarningThreshold = 0.9
)

// tickLoop drives World.Update at cfg.TargetTicksPerSecond, the way
// dm-vev-adamant/server/world/tick.go's ticker.tickLoop drives its own
// World: a time.Ticker plus a rolling average used to warn when the loop
// falls behind its target rate.
func tickLoop(ctx context.Context, w *world.World, cfg config.Config, log *slog.Logger) {
	rate := cfg.TargetTicksPerSecond
	if rate <= 0 {
		rate = 60
	}
	interval := time.Second / time.Duration(rate)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTick := time.Now()
	var durationSum time.Duration
	var ticksCount int
	warned := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			duration := now.Sub(lastTick)
			lastTick = now

			w.Update()

			durationSum += duration
			ticksCount++
			if ticksCount < tpsSampleSize {
				continue
			}
			avg := durationSum / time.Duration(ticksCount)
			durationSum, ticksCount = 0, 0
			if avg <= 0 {
				continue
			}
			tps := 1.0 / avg.Seconds()
			if tps < float64(rate)*tpsWarningThreshold {
				if !warned {
					log.Warn("tick rate dropped below target", "tps", math.Round(tps*10)/10, "target", rate)
					warned = true
				}
			} else {
				warned = false
			}
		}
	}
}
