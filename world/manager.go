// Package world implements the chunk streaming subsystem and the world
// facade (§4.4, §4.5): ChunkManager holds the loaded/cached/on-disk
// tri-state, selects the active set around a moving viewpoint, and decides
// what updates and what persists. World is the thin coordinator on top of
// it.
//
// The background save worker pool is grounded on
// oriumgames-pile/provider.go's saveCh/stopCh pattern, generalized from a
// single whole-world save trigger to a per-chunk errgroup the way
// dm-vev-adamant/server/world/world.go's generatorQueue is a worker pool
// rather than a single goroutine.
package world

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/brentp/intintmap"
	"golang.org/x/sync/errgroup"

	"github.com/emberreach/sandfall/world/chunk"
)

const (
	// DefaultMaxLoaded is MAX_LOADED_CHUNKS from §6.
	DefaultMaxLoaded = 12
	// DefaultCacheTTL is CACHE_TTL from §6, in ticks.
	DefaultCacheTTL = 600
	// cachePurgeInterval matches §4.4's "every 300 ticks" cache sweep.
	cachePurgeInterval = 300
)

// Generator produces the initial contents of a chunk that has never been
// saved before (§4.3). It is implemented by world/generator.Generator; the
// interface lives here so this package does not import generator, which
// itself imports this package for ChunkCoord (the reverse import would be a
// cycle).
type Generator interface {
	Generate(coord ChunkCoord, c *chunk.Chunk)
}

type cacheEntry struct {
	c             *chunk.Chunk
	frameUnloaded uint64
}

// ManagerConfig bundles the knobs §6 calls out as configurable.
type ManagerConfig struct {
	ChunkW, ChunkH int
	MaxLoaded      int
	CacheTTL       int
	StorageRoot    string
	Seed           uint64
	Log            *slog.Logger
}

// ChunkManager holds the set of currently-loaded chunks, the eviction
// cache, the dirty-set awaiting save, and the active working set around a
// viewpoint (§3 ChunkManager state, §4.4).
type ChunkManager struct {
	mu sync.Mutex

	chunkW, chunkH int
	maxLoaded      int
	cacheTTL       int
	seed           uint64
	log            *slog.Logger

	loaded map[ChunkCoord]*chunk.Chunk
	cache  map[ChunkCoord]cacheEntry
	dirty  map[ChunkCoord]struct{}

	activeList  []ChunkCoord
	activeIndex *intintmap.Map

	frameCounter uint64

	provider  *Provider
	generator Generator

	saveGroup errgroup.Group
}

// NewManager builds a ChunkManager. gen may be nil only in tests that never
// need to generate fresh terrain.
func NewManager(cfg ManagerConfig, gen Generator) *ChunkManager {
	if cfg.MaxLoaded <= 0 {
		cfg.MaxLoaded = DefaultMaxLoaded
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.ChunkW <= 0 {
		cfg.ChunkW = chunk.DefaultWidth
	}
	if cfg.ChunkH <= 0 {
		cfg.ChunkH = chunk.DefaultHeight
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &ChunkManager{
		chunkW: cfg.ChunkW, chunkH: cfg.ChunkH,
		maxLoaded: cfg.MaxLoaded,
		cacheTTL:  cfg.CacheTTL,
		seed:      cfg.Seed,
		log:       cfg.Log,
		loaded:    make(map[ChunkCoord]*chunk.Chunk),
		cache:     make(map[ChunkCoord]cacheEntry),
		dirty:     make(map[ChunkCoord]struct{}),
		provider:  NewProvider(cfg.StorageRoot),
		generator: gen,
		activeIndex: intintmap.New(cfg.MaxLoaded*2+8, 0.75),
	}
}

// GetChunk returns the chunk at coord, promoting it from cache or loading it
// from disk/generation as permitted by loadIfNeeded (§4.4).
func (m *ChunkManager) GetChunk(coord ChunkCoord, loadIfNeeded bool) (*chunk.Chunk, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getChunkLocked(coord, loadIfNeeded)
}

func (m *ChunkManager) getChunkLocked(coord ChunkCoord, loadIfNeeded bool) (*chunk.Chunk, bool) {
	if c, ok := m.loaded[coord]; ok {
		return c, true
	}
	if entry, ok := m.cache[coord]; ok {
		delete(m.cache, coord)
		m.loaded[coord] = entry.c
		return entry.c, true
	}
	if !loadIfNeeded {
		return nil, false
	}

	wx, wy := worldTopLeft(coord, m.chunkW, m.chunkH)
	if c, err := m.provider.Load(coord, wx, wy, m.chunkSeed(coord)); err == nil {
		m.loaded[coord] = c
		return c, true
	} else if m.log != nil {
		if os.IsNotExist(err) {
			m.log.Debug("chunk file unavailable, generating fresh chunk", "coord", coord, "err", err)
		} else {
			m.log.Warn("chunk file unreadable, regenerating chunk", "coord", coord, "err", err)
		}
	}

	c := chunk.New(m.chunkW, m.chunkH, wx, wy, m.chunkSeed(coord))
	if m.generator != nil {
		m.generator.Generate(coord, c)
	}
	m.loaded[coord] = c
	return c, true
}

// chunkSeed derives a per-chunk RNG seed from the world seed and coordinate
// so reloading (without a save) reproduces the same physics RNG stream,
// matching the "RNG as implicit state" design note (§9): the stream is
// owned per-component, never global, and is fully determined by (seed,
// coord) rather than by load order or wall-clock time.
func (m *ChunkManager) chunkSeed(coord ChunkCoord) uint64 {
	h := m.seed
	h ^= uint64(uint32(coord[0]))*0x9e3779b97f4a7c15 + uint64(uint32(coord[1]))*0xbf58476d1ce4e5b9
	return h
}

// UpdateActiveChunks recomputes the desired working set around the chunk
// containing (centerX, centerY): the center chunk, its 8-neighborhood, then
// outer-ring chunks in spiral order until MaxLoaded is reached (§4.4).
// Chunks that fall out of the desired set are flushed to the dirty set (if
// modified) and moved to the cache; chunks newly desired are loaded.
func (m *ChunkManager) UpdateActiveChunks(centerX, centerY int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	centerCoord, _, _ := ToChunk(centerX, centerY, m.chunkW, m.chunkH)
	desired := m.desiredSet(centerCoord)

	desiredSet := make(map[ChunkCoord]struct{}, len(desired))
	for _, coord := range desired {
		desiredSet[coord] = struct{}{}
	}

	for coord, c := range m.loaded {
		if _, want := desiredSet[coord]; want {
			continue
		}
		if c.ModifiedSinceSave {
			m.dirty[coord] = struct{}{}
		}
		m.cache[coord] = cacheEntry{c: c, frameUnloaded: m.frameCounter}
		delete(m.loaded, coord)
	}

	for _, coord := range desired {
		m.getChunkLocked(coord, true)
	}

	m.activeList = desired
	m.activeIndex = intintmap.New(len(desired)*2+1, 0.75)
	for i, coord := range desired {
		m.activeIndex.Put(coord.packed(), int64(i))
	}
}

// desiredSet builds the ≤ MaxLoaded working set: center, 8-neighborhood,
// then spiral rings until the cap is reached.
func (m *ChunkManager) desiredSet(center ChunkCoord) []ChunkCoord {
	out := make([]ChunkCoord, 0, m.maxLoaded)
	seen := make(map[ChunkCoord]struct{}, m.maxLoaded)
	add := func(c ChunkCoord) bool {
		if len(out) >= m.maxLoaded {
			return false
		}
		if _, ok := seen[c]; ok {
			return true
		}
		seen[c] = struct{}{}
		out = append(out, c)
		return true
	}

	add(center)
	for _, d := range neighborhood8 {
		add(ChunkCoord{center[0] + d[0], center[1] + d[1]})
	}
	for _, d := range spiralRing(m.maxLoaded) {
		if !add(ChunkCoord{center[0] + d[0], center[1] + d[1]}) {
			break
		}
	}
	return out
}

var neighborhood8 = [8][2]int32{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// spiralRing returns chunk offsets for rings at Chebyshev distance >= 2,
// ordered by increasing distance (row-major, top to bottom and left to
// right, within one ring) so the outer-ring fill order is fixed and
// reproducible (§4.4).
func spiralRing(limit int) [][2]int32 {
	type offset struct {
		d [2]int32
		r int32
	}
	offsets := make([]offset, 0, limit*4)
	for r := int32(2); len(offsets) < limit+8; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if max32(abs32(dx), abs32(dy)) != r {
					continue
				}
				offsets = append(offsets, offset{[2]int32{dx, dy}, r})
			}
		}
		if r > 8 {
			break
		}
	}
	sort.SliceStable(offsets, func(i, j int) bool {
		if offsets[i].r != offsets[j].r {
			return offsets[i].r < offsets[j].r
		}
		return false
	})
	out := make([][2]int32, len(offsets))
	for i, o := range offsets {
		out[i] = o.d
	}
	return out
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// ActiveChunks returns the current active-list, valid until the next
// UpdateActiveChunks call (§4.6).
func (m *ChunkManager) ActiveChunks() []ChunkCoord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ChunkCoord, len(m.activeList))
	copy(out, m.activeList)
	return out
}

// IsActive reports whether coord is in the current active-list, using the
// brentp/intintmap index for an allocation-free O(1) check.
func (m *ChunkManager) IsActive(coord ChunkCoord) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.activeIndex.Get(coord.packed())
	return ok
}

// Update increments the frame counter, folds modified loaded chunks into
// the dirty set, and every cachePurgeInterval ticks evicts cache entries
// older than cacheTTL (§4.4).
func (m *ChunkManager) Update() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.frameCounter++
	for coord, c := range m.loaded {
		if c.ModifiedSinceSave {
			m.dirty[coord] = struct{}{}
		}
	}
	if m.frameCounter%cachePurgeInterval == 0 {
		for coord, entry := range m.cache {
			if m.frameCounter-entry.frameUnloaded > uint64(m.cacheTTL) {
				delete(m.cache, coord)
			}
		}
	}
}

// SaveAllModified serializes every dirty chunk in parallel (one errgroup
// goroutine per chunk, with no concurrency limit, mirroring the worker-pool shape of
// dm-vev-adamant/server/world/world.go's generatorQueue) and clears the
// dirty set for everything that saved successfully. Coordinates that fail
// stay in the dirty set for a retry on the next sweep (§4.4, §7).
func (m *ChunkManager) SaveAllModified() error {
	m.mu.Lock()
	coords := make([]ChunkCoord, 0, len(m.dirty))
	for coord := range m.dirty {
		coords = append(coords, coord)
	}
	m.mu.Unlock()

	var g errgroup.Group
	var failedMu sync.Mutex
	var failed []ChunkCoord

	for _, coord := range coords {
		coord := coord
		g.Go(func() error {
			if err := m.saveChunkInternal(coord); err != nil {
				if m.log != nil {
					m.log.Warn("chunk save failed, will retry", "coord", coord, "err", err)
				}
				failedMu.Lock()
				failed = append(failed, coord)
				failedMu.Unlock()
				return nil
			}
			return nil
		})
	}
	_ = g.Wait()

	m.mu.Lock()
	for _, coord := range coords {
		delete(m.dirty, coord)
	}
	for _, coord := range failed {
		m.dirty[coord] = struct{}{}
	}
	m.mu.Unlock()
	return nil
}

// SaveChunk serializes one chunk if it is loaded or cached and modified (§4.4).
func (m *ChunkManager) SaveChunk(coord ChunkCoord) error {
	return m.saveChunkInternal(coord)
}

func (m *ChunkManager) saveChunkInternal(coord ChunkCoord) error {
	m.mu.Lock()
	c, ok := m.loaded[coord]
	if !ok {
		if entry, cached := m.cache[coord]; cached {
			c, ok = entry.c, true
		}
	}
	m.mu.Unlock()
	if !ok || !c.ModifiedSinceSave {
		return nil
	}
	if err := m.provider.Save(coord, c); err != nil {
		return err
	}
	c.ModifiedSinceSave = false
	return nil
}

// LoadedChunks returns a snapshot of every currently loaded chunk, used by
// the World facade's update sweep (§4.5).
func (m *ChunkManager) LoadedChunks() map[ChunkCoord]*chunk.Chunk {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[ChunkCoord]*chunk.Chunk, len(m.loaded))
	for k, v := range m.loaded {
		out[k] = v
	}
	return out
}

// Neighbors resolves the below/left/right live chunks for coord from the
// loaded set only; a chunk that is not currently loaded is treated the same
// as "outside the world" for this tick's physics (consistent with the
// streaming contract: only the active set and its immediate neighbors are
// guaranteed resident).
func (m *ChunkManager) Neighbors(coord ChunkCoord) chunk.Neighbors {
	m.mu.Lock()
	defer m.mu.Unlock()
	return chunk.Neighbors{
		Below: m.loaded[ChunkCoord{coord[0], coord[1] + 1}],
		Left:  m.loaded[ChunkCoord{coord[0] - 1, coord[1]}],
		Right: m.loaded[ChunkCoord{coord[0] + 1, coord[1]}],
	}
}

// Shutdown flushes every modified chunk via SaveAllModified, returning
// ctx.Err() if ctx is done first (the flush then keeps running in the
// background), mirroring §5's "a shutdown request flushes dirty chunks via
// save_all_modified() then exits". It does not stop the manager from taking
// further calls.
func (m *ChunkManager) Shutdown(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- m.SaveAllModified() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
