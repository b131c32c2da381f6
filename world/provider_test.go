package world

import (
	"os"
	"testing"

	"github.com/emberreach/sandfall/world/chunk"
	"github.com/emberreach/sandfall/world/material"
)

// TestProviderRoundTrip covers §8 property 7: unloading and reloading a
// modified chunk reproduces the modification.
func TestProviderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p := NewProvider(dir)

	coord := ChunkCoord{-1, 2}
	c := chunk.New(16, 16, -16, 32, 42)
	c.Set(3, 4, material.Sand)
	c.Set(10, 10, material.Water)

	if err := p.Save(coord, c); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := p.Load(coord, -16, 32, 42)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Get(3, 4) != material.Sand {
		t.Errorf("expected Sand at (3,4) after reload, got %s", loaded.Get(3, 4))
	}
	if loaded.Get(10, 10) != material.Water {
		t.Errorf("expected Water at (10,10) after reload, got %s", loaded.Get(10, 10))
	}
	if loaded.ModifiedSinceSave {
		t.Errorf("a freshly loaded chunk must not be considered modified")
	}
}

func TestProviderLoadMissingFileIsNotExist(t *testing.T) {
	p := NewProvider(t.TempDir())
	_, err := p.Load(ChunkCoord{9, 9}, 0, 0, 0)
	if !os.IsNotExist(err) {
		t.Fatalf("expected os.IsNotExist error for a missing chunk file, got %v", err)
	}
}
