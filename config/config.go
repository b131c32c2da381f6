// Package config loads the simulation's runtime settings from a TOML file,
// the way dm-vev-adamant/server/whitelist.go persists its own state with
// github.com/pelletier/go-toml: Marshal/Unmarshal against a small on-disk
// struct, with sane defaults when the file is missing (Load does not create
// it).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// Config holds every §6 configuration knob plus the ambient logger every
// package in this module logs through.
type Config struct {
	// Log is the logger every package logs through. Not serialized.
	Log *slog.Logger `toml:"-"`

	WorldWidth  int `toml:"world_width"`
	WorldHeight int `toml:"world_height"`
	ChunkWidth  int `toml:"chunk_width"`
	ChunkHeight int `toml:"chunk_height"`

	MaxLoadedChunks int `toml:"max_loaded_chunks"`
	CacheTTLTicks   int `toml:"cache_ttl_ticks"`
	MaxFlowDistance int `toml:"max_flow_distance"`

	Seed        uint64 `toml:"seed"`
	StorageRoot string `toml:"storage_root"`

	TargetTicksPerSecond int `toml:"target_ticks_per_second"`
}

// Default returns the configuration the §6/§4.3 defaults describe: a
// 512x512 chunk, 12 loaded chunks, 600-tick cache TTL, 3-cell max liquid
// flow, world_data storage root, 60 Hz simulation rate.
func Default() Config {
	return Config{
		Log:                  slog.Default(),
		WorldWidth:           4096,
		WorldHeight:          2048,
		ChunkWidth:           512,
		ChunkHeight:          512,
		MaxLoadedChunks:      12,
		CacheTTLTicks:        600,
		MaxFlowDistance:      3,
		Seed:                 0,
		StorageRoot:          "world_data",
		TargetTicksPerSecond: 60,
	}
}

// Load reads a TOML config file at path, falling back to Default() for any
// field the file omits. A missing file is not an error: Load returns
// Default() as-is, matching whitelist.go's "create on first use" posture.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("sandfall: read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("sandfall: parse config %s: %w", path, err)
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return cfg, nil
}

// Save writes cfg to path as TOML, creating the parent directory if needed.
func Save(path string, cfg Config) error {
	encoded, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("sandfall: encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("sandfall: create config directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("sandfall: write config %s: %w", path, err)
	}
	return nil
}
