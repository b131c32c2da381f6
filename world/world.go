package world

import (
	"log/slog"

	"github.com/emberreach/sandfall/world/chunk"
	"github.com/emberreach/sandfall/world/material"
)

// LevelLiquidsInterval throttles level_liquids() to every N ticks (§9 Open
// Question resolution: the source's global per-tick sweep is O(width x
// height) and defeats streaming; here it runs over the loaded chunks only, and
// only every LevelLiquidsInterval ticks).
const LevelLiquidsInterval = 4

// liquidScanRadius is the "look up to 5 columns left and right" distance
// from §4.5.
const liquidScanRadius = 5

// World is the facade the simulation loop drives: get/set single cells,
// advance one tick, and report what is currently active for rendering and
// persistence (§4.5).
type World struct {
	manager *ChunkManager
	log     *slog.Logger

	chunkW, chunkH int
	tick           uint64

	playerX, playerY int
}

// NewWorld wraps a ChunkManager as the public World facade.
func NewWorld(m *ChunkManager) *World {
	return &World{manager: m, log: m.log, chunkW: m.chunkW, chunkH: m.chunkH}
}

// Get returns the material at world coordinate (x,y), loading its chunk if
// necessary. A chunk that cannot be loaded reads as Empty (§7 BoundsViolation
// is about in-chunk bounds; a world read never panics).
func (w *World) Get(x, y int) material.Material {
	coord, lx, ly := ToChunk(x, y, w.chunkW, w.chunkH)
	c, ok := w.manager.GetChunk(coord, true)
	if !ok {
		return material.Empty
	}
	return c.Get(lx, ly)
}

// Set writes m at world coordinate (x,y), loading its chunk if necessary.
func (w *World) Set(x, y int, m material.Material) {
	coord, lx, ly := ToChunk(x, y, w.chunkW, w.chunkH)
	c, ok := w.manager.GetChunk(coord, true)
	if !ok {
		return
	}
	c.Set(lx, ly, m)
}

// UpdatePlayerPosition recenters the active set on (x,y) (§4.5, §4.7).
func (w *World) UpdatePlayerPosition(x, y int) {
	w.playerX, w.playerY = x, y
	w.manager.UpdateActiveChunks(x, y)
}

// ActiveChunkView is one renderer-facing tuple from §6's active-chunk
// enumeration: (cx, cy, world_x, world_y, W, H, rgba_ptr).
type ActiveChunkView struct {
	Coord          ChunkCoord
	WorldX, WorldY int
	W, H           int
	RGBA           []byte
}

// ActiveChunkViews returns the renderer-facing view of the active set,
// valid until the next UpdatePlayerPosition call (§4.6, §6).
func (w *World) ActiveChunkViews() []ActiveChunkView {
	coords := w.manager.ActiveChunks()
	out := make([]ActiveChunkView, 0, len(coords))
	for _, coord := range coords {
		c, ok := w.manager.GetChunk(coord, false)
		if !ok {
			continue
		}
		out = append(out, ActiveChunkView{
			Coord: coord, WorldX: c.WorldX, WorldY: c.WorldY,
			W: c.W, H: c.H, RGBA: c.Pixels(),
		})
	}
	return out
}

// Update advances the world by one tick (§4.5):
//  1. collect loaded chunks that are dirty or not yet saved, plus their
//     4-neighborhood, deduplicated;
//  2. run chunk.Update on each with its Below/Left/Right neighbors;
//  3. run level_liquids() on a throttled schedule;
//  4. fold the tick's changes into the manager's dirty-for-save bookkeeping.
func (w *World) Update() {
	w.tick++
	loaded := w.manager.LoadedChunks()

	toUpdate := make(map[ChunkCoord]struct{}, len(loaded))
	for coord, c := range loaded {
		if !c.Dirty && !c.ModifiedSinceSave {
			continue
		}
		toUpdate[coord] = struct{}{}
		toUpdate[ChunkCoord{coord[0], coord[1] - 1}] = struct{}{}
		toUpdate[ChunkCoord{coord[0], coord[1] + 1}] = struct{}{}
		toUpdate[ChunkCoord{coord[0] - 1, coord[1]}] = struct{}{}
		toUpdate[ChunkCoord{coord[0] + 1, coord[1]}] = struct{}{}
	}

	for coord := range toUpdate {
		c, ok := loaded[coord]
		if !ok {
			continue
		}
		c.Update(w.manager.Neighbors(coord))
	}

	if w.tick%LevelLiquidsInterval == 0 {
		w.levelLiquids(loaded)
	}

	w.manager.Update()
}

// levelLiquids implements §4.5's single bottom-up smoothing pass over every
// currently loaded chunk: a liquid cell with Empty below falls one cell;
// otherwise it looks up to liquidScanRadius columns either side and, if a
// neighboring column's liquid surface sits lower, transfers one cell there.
// This runs over the loaded set (the Open Question resolution noted at the
// top of this file), not globally.
func (w *World) levelLiquids(loaded map[ChunkCoord]*chunk.Chunk) {
	for _, c := range loaded {
		levelLiquidsInChunk(c)
	}
}

func levelLiquidsInChunk(c *chunk.Chunk) {
	for y := c.H - 1; y >= 0; y-- {
		for x := 0; x < c.W; x++ {
			m := c.Get(x, y)
			if material.Properties(m).Category != material.CategoryLiquid {
				continue
			}
			if y+1 < c.H && c.Get(x, y+1) == material.Empty {
				c.Set(x, y, material.Empty)
				c.Set(x, y+1, m)
				continue
			}
			transferToShorterColumn(c, x, y, m)
		}
	}
}

// transferToShorterColumn moves one cell of m from (x,y) to whichever of the
// nearer columns within liquidScanRadius has a shorter liquid stack, per
// §4.5. Column height is approximated by the y of its topmost liquid cell in
// the scan range directly above the floor line at y: a column with an Empty
// cell at y and liquid below it is strictly shorter than one that is still
// full at y.
func transferToShorterColumn(c *chunk.Chunk, x, y int, m material.Material) {
	for step := 1; step <= liquidScanRadius; step++ {
		for _, dir := range [2]int{-1, 1} {
			tx := x + dir*step
			if !c.InBounds(tx, y) || c.Get(tx, y) != material.Empty {
				continue
			}
			// Only pour into a column that can actually hold the cell,
			// mirroring stepLiquid's own ledge rule so level_liquids never
			// creates a pour-over-a-ledge artifact the per-tick flow rule
			// would not.
			if y+1 < c.H && c.Get(tx, y+1) == material.Empty {
				continue
			}
			c.Set(x, y, material.Empty)
			c.Set(tx, y, m)
			return
		}
	}
}

func columnHasFloor(c *chunk.Chunk, x, y int) bool {
	for yy := y + 1; yy < c.H; yy++ {
		if c.Get(x, yy) != material.Empty {
			return true
		}
	}
	return false
}

// IsChunkVisible exposes ChunkManager's §4.4 visibility test (AABB overlap
// between a chunk's rect and a camera's viewport rect) to callers that only
// hold a World, such as a renderer culling chunks before it draws them.
func (w *World) IsChunkVisible(coord ChunkCoord, cam Camera, viewport Viewport) bool {
	return w.manager.IsChunkVisible(coord, cam, viewport)
}

// Save flushes every modified chunk to disk (§4.4, §4.5 save()).
func (w *World) Save() error {
	return w.manager.SaveAllModified()
}

// Tick returns the current tick counter, used by tests and the simulation
// loop driver for TPS bookkeeping.
func (w *World) Tick() uint64 { return w.tick }
