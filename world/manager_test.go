package world

import (
	"testing"

	"github.com/emberreach/sandfall/world/chunk"
	"github.com/emberreach/sandfall/world/material"
)

type stubGenerator struct{ fill material.Material }

func (g stubGenerator) Generate(coord ChunkCoord, c *chunk.Chunk) {
	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			c.Set(x, y, g.fill)
		}
	}
	c.ModifiedSinceSave = false
}

func newTestManager(t *testing.T) *ChunkManager {
	t.Helper()
	return NewManager(ManagerConfig{
		ChunkW: 16, ChunkH: 16,
		MaxLoaded:   9,
		CacheTTL:    10,
		StorageRoot: t.TempDir(),
		Seed:        1,
	}, stubGenerator{fill: material.Stone})
}

func TestGetChunkGeneratesWhenMissing(t *testing.T) {
	m := newTestManager(t)
	c, ok := m.GetChunk(ChunkCoord{0, 0}, true)
	if !ok {
		t.Fatal("expected a chunk to be generated")
	}
	if c.Get(0, 0) != material.Stone {
		t.Errorf("expected generator output, got %s", c.Get(0, 0))
	}
}

func TestGetChunkWithoutLoadReturnsFalse(t *testing.T) {
	m := newTestManager(t)
	_, ok := m.GetChunk(ChunkCoord{5, 5}, false)
	if ok {
		t.Error("expected no chunk without loadIfNeeded")
	}
}

// TestUpdateActiveChunksCapsAtMaxLoaded covers §4.4's MAX_LOADED_CHUNKS cap.
func TestUpdateActiveChunksCapsAtMaxLoaded(t *testing.T) {
	m := newTestManager(t)
	m.maxLoaded = 5
	m.UpdateActiveChunks(0, 0)
	if len(m.ActiveChunks()) > 5 {
		t.Errorf("expected at most 5 active chunks, got %d", len(m.ActiveChunks()))
	}
}

func TestUpdateActiveChunksIncludesCenterAndNeighborhood(t *testing.T) {
	m := newTestManager(t)
	m.UpdateActiveChunks(8, 8) // center of chunk (0,0), 16x16 chunks
	active := m.ActiveChunks()
	want := map[ChunkCoord]bool{
		{0, 0}: false, {-1, -1}: false, {0, -1}: false, {1, -1}: false,
		{-1, 0}: false, {1, 0}: false, {-1, 1}: false, {0, 1}: false, {1, 1}: false,
	}
	for _, c := range active {
		if _, ok := want[c]; ok {
			want[c] = true
		}
	}
	for c, found := range want {
		if !found {
			t.Errorf("expected %v in the active 9-neighborhood, got %v", c, active)
		}
	}
}

func TestSaveAllModifiedClearsDirtySet(t *testing.T) {
	m := newTestManager(t)
	m.UpdateActiveChunks(0, 0)
	c, _ := m.GetChunk(ChunkCoord{0, 0}, true)
	c.Set(1, 1, material.Water)
	m.Update()

	if len(m.dirty) == 0 {
		t.Fatal("expected a dirty chunk after a modification")
	}
	if err := m.SaveAllModified(); err != nil {
		t.Fatalf("save all modified: %v", err)
	}
	if len(m.dirty) != 0 {
		t.Errorf("expected dirty set to be empty after a successful save, got %v", m.dirty)
	}
	if c.ModifiedSinceSave {
		t.Error("expected ModifiedSinceSave to be cleared after save")
	}
}

func TestEvictedChunkIsReloadedFromCache(t *testing.T) {
	m := newTestManager(t)
	m.UpdateActiveChunks(0, 0)
	c, _ := m.GetChunk(ChunkCoord{0, 0}, true)
	c.Set(2, 2, material.Sand)

	// Move the active window far away so (0,0) falls out of the desired set.
	m.UpdateActiveChunks(1000, 1000)
	if _, ok := m.loaded[ChunkCoord{0, 0}]; ok {
		t.Fatal("expected (0,0) to be unloaded after the viewpoint moved away")
	}
	reloaded, ok := m.GetChunk(ChunkCoord{0, 0}, false)
	if !ok {
		t.Fatal("expected (0,0) to still be reachable from the cache")
	}
	if reloaded.Get(2, 2) != material.Sand {
		t.Errorf("expected the cached chunk to keep its modification, got %s", reloaded.Get(2, 2))
	}
}
