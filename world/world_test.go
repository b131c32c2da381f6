package world

import (
	"testing"

	"github.com/emberreach/sandfall/world/material"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	m := NewManager(ManagerConfig{
		ChunkW: 16, ChunkH: 16,
		MaxLoaded:   9,
		StorageRoot: t.TempDir(),
		Seed:        7,
	}, nil)
	return NewWorld(m)
}

func TestWorldGetSetRoundTrip(t *testing.T) {
	w := newTestWorld(t)
	w.Set(5, 5, material.Sand)
	if got := w.Get(5, 5); got != material.Sand {
		t.Errorf("expected Sand, got %s", got)
	}
}

func TestWorldGetSetAcrossChunkBoundary(t *testing.T) {
	w := newTestWorld(t)
	w.Set(-1, 3, material.Water)
	if got := w.Get(-1, 3); got != material.Water {
		t.Errorf("expected Water at negative coordinate, got %s", got)
	}
}

// TestWorldUpdateAppliesGravity covers §8's basic sand-fall scenario across
// the World facade rather than directly on a Chunk.
func TestWorldUpdateAppliesGravity(t *testing.T) {
	w := newTestWorld(t)
	w.UpdatePlayerPosition(8, 8)
	w.Set(8, 0, material.Sand)

	for i := 0; i < 5; i++ {
		w.Update()
	}

	if w.Get(8, 0) == material.Sand {
		t.Error("expected sand to have fallen away from its starting row")
	}
}

func TestWorldSaveFlushesModifiedChunks(t *testing.T) {
	w := newTestWorld(t)
	w.Set(3, 3, material.Stone)
	if err := w.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func TestLevelLiquidsConservesMass(t *testing.T) {
	w := newTestWorld(t)
	w.UpdatePlayerPosition(8, 8)
	for x := 0; x < 4; x++ {
		w.Set(x, 10, material.Water)
	}

	before := countMaterial(w, material.Water)
	for i := 0; i < LevelLiquidsInterval*3; i++ {
		w.Update()
	}
	after := countMaterial(w, material.Water)

	if before != after {
		t.Errorf("expected level_liquids to conserve water count, before=%d after=%d", before, after)
	}
}

func countMaterial(w *World, want material.Material) int {
	count := 0
	for _, view := range w.ActiveChunkViews() {
		for y := 0; y < view.H; y++ {
			for x := 0; x < view.W; x++ {
				if w.Get(view.WorldX+x, view.WorldY+y) == want {
					count++
				}
			}
		}
	}
	return count
}
