// Package chunk implements the per-chunk cellular-automaton physics step: a
// fixed-size grid of materials, its derived RGBA pixel buffer, and the
// checkerboard update pass that advances it by one tick.
//
// The update discipline mirrors dm-vev-adamant/server/world/tick.go's
// ticker: a chunk never blocks mid-tick, all randomness is drawn from a
// stream owned by the chunk (never a shared global, per dm-vev-adamant's
// "RNG as implicit state" note), and scratch buffers are reused across
// ticks the way World.scratchRandom/scratchBlockEntities are in
// dm-vev-adamant/server/world/world.go, to keep the hot path allocation-free.
package chunk

import (
	"math/rand/v2"

	"github.com/emberreach/sandfall/world/material"
)

// DefaultWidth and DefaultHeight are the production chunk dimensions used by
// cmd/sandfall. Tests commonly use smaller, cheaper dimensions; the physics
// rules themselves only require a power of two no smaller than 64 (§3).
const (
	DefaultWidth  = 512
	DefaultHeight = 512
)

// Chunk owns a W*H grid of materials plus its derived pixel buffer. Writes
// into a Chunk must go through Set so dirty/modified tracking and the pixel
// buffer stay consistent with invariant §3.5-6.
type Chunk struct {
	W, H int

	cells  []material.Material
	pixels []byte // W*H*4 RGBA, recomputed lazily when dirty

	// WorldX, WorldY are the world-space coordinates of this chunk's
	// top-left cell, stored redundantly with its ChunkCoord key for
	// pixel-perfect rendering (§3).
	WorldX, WorldY int

	Dirty                 bool
	ModifiedSinceSave     bool
	ShouldUpdateNextFrame bool
	InactivityCounter     int

	rng *rand.Rand

	// freeFalling is the per-cell "currently falling" flag reserved for
	// powder-inertia tie-breaking (§3). It is cleared at the start of every
	// tick; no movement rule currently reads it, but it is kept alive so a
	// future inertia rule does not need to touch the Chunk layout.
	freeFalling []bool

	// scratchSnapshot is the tick-start copy of cells that every read
	// predicate during a tick consults (the "snapshot discipline", §4.2).
	// Reused across ticks to avoid a W*H allocation every frame.
	scratchSnapshot []material.Material
}

// New builds an empty (all-Empty) chunk of the given size at the given
// world-space top-left corner, with its physics RNG seeded deterministically
// from seed so repeated construction with the same seed is reproducible
// (testable property §8.5).
func New(w, h, worldX, worldY int, seed uint64) *Chunk {
	c := &Chunk{
		W: w, H: h,
		cells:           make([]material.Material, w*h),
		pixels:          make([]byte, w*h*4),
		WorldX:          worldX,
		WorldY:          worldY,
		rng:             rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		freeFalling:     make([]bool, w*h),
		scratchSnapshot: make([]material.Material, w*h),
	}
	return c
}

func (c *Chunk) index(x, y int) int { return y*c.W + x }

// InBounds reports whether (x,y) is a valid local coordinate for c.
func (c *Chunk) InBounds(x, y int) bool {
	return x >= 0 && x < c.W && y >= 0 && y < c.H
}

// Get returns the material at local (x,y), or Empty if out of bounds.
func (c *Chunk) Get(x, y int) material.Material {
	if !c.InBounds(x, y) {
		return material.Empty
	}
	return c.cells[c.index(x, y)]
}

// Set writes m at local (x,y). It is the only per-cell write path (the
// whole-grid SetMaterials is the other way cells change): it
// marks the chunk Dirty and ModifiedSinceSave, satisfying invariant §3.6.
// Out-of-bounds writes are silently ignored (§7 BoundsViolation).
func (c *Chunk) Set(x, y int, m material.Material) {
	if !c.InBounds(x, y) {
		return
	}
	i := c.index(x, y)
	if c.cells[i] == m {
		return
	}
	c.cells[i] = m
	c.Dirty = true
	c.ModifiedSinceSave = true
}

// Materials returns the live backing slice. Callers must not retain it past
// the next Update/Set call; it is exposed read-only for the world Provider's
// serialization path and for tests.
func (c *Chunk) Materials() []material.Material { return c.cells }

// SetMaterials overwrites the entire grid, used when deserializing a chunk
// file or installing freshly generated content. len(m) must equal W*H.
func (c *Chunk) SetMaterials(m []material.Material) {
	copy(c.cells, m)
	c.Dirty = true
}

// Pixels returns the chunk's RGBA buffer (W*H*4 bytes), valid until the next
// RefreshPixels call. This is the buffer handed to the (out of scope)
// renderer per §4.6.
func (c *Chunk) Pixels() []byte { return c.pixels }

// Rand exposes the chunk's private RNG stream for interaction/movement rules
// in this package. It must never be shared outside a single Chunk (§9).
func (c *Chunk) Rand() *rand.Rand { return c.rng }

// snapshotAt reads material from the tick-start snapshot rather than the
// live grid, per the snapshot discipline (§4.2).
func (c *Chunk) snapshotAt(x, y int) material.Material {
	if !c.InBounds(x, y) {
		return material.Empty
	}
	return c.scratchSnapshot[c.index(x, y)]
}

func (c *Chunk) takeSnapshot() {
	copy(c.scratchSnapshot, c.cells)
	for i := range c.freeFalling {
		c.freeFalling[i] = false
	}
}

// Neighbors bundles the three chunks a tick is allowed to write into, per
// the "three listed neighbors" contract in §5 that keeps a 4-color schedule
// sound. Below/Left/Right may be nil, meaning "outside the world": snapshot
// reads (enclosed checks, interactions) return Empty, movement destination
// checks see an immovable Bedrock edge, and writes are no-ops. There is deliberately no "above"
// neighbor — a chunk's update never writes upward across a chunk boundary,
// only downward and sideways, so the borrow graph it induces is acyclic.
type Neighbors struct {
	Below, Left, Right *Chunk
}

// Update advances the chunk by exactly one tick: pre-pass reactive rules,
// then the bottom-up checkerboard A/B movement passes, then the activity
// gate, then (if anything changed) the pixel buffer refresh. It may write
// into neighbors.Below/Left/Right via their Set, marking them Dirty.
func (c *Chunk) Update(neighbors Neighbors) {
	c.takeSnapshot()

	applyInteractions(c, neighbors)

	for _, parity := range [2]int{0, 1} {
		for y := c.H - 1; y >= 0; y-- {
			for x := 0; x < c.W; x++ {
				if (x+y)%2 != parity {
					continue
				}
				stepCell(c, neighbors, x, y)
			}
		}
	}

	c.Dirty = stillActive(c, neighbors)
	if c.Dirty || c.ModifiedSinceSave {
		c.RefreshPixels()
	}
}

// stillActive implements the §4.2 activity gate: true iff some mobile cell
// could still move next tick, given the current (post-tick) live grid.
func stillActive(c *Chunk, n Neighbors) bool {
	for y := c.H - 1; y >= 0; y-- {
		for x := 0; x < c.W; x++ {
			m := c.Get(x, y)
			if !m.IsMobile() {
				continue
			}
			if cellCouldMove(c, n, x, y, m) {
				return true
			}
		}
	}
	return false
}
