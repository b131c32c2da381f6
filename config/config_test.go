package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ChunkWidth != Default().ChunkWidth {
		t.Errorf("expected default chunk width, got %d", cfg.ChunkWidth)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sandfall.toml")
	cfg := Default()
	cfg.Seed = 12345
	cfg.MaxLoadedChunks = 20

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Seed != 12345 || loaded.MaxLoadedChunks != 20 {
		t.Errorf("expected round-tripped values, got %+v", loaded)
	}
}
