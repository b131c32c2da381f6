package chunk

import "github.com/emberreach/sandfall/world/material"

// read consults the tick-entry snapshot for local coordinates, and a
// neighbor's live grid for coordinates outside the chunk. There is no
// neighbor "above" (§5): a read at y<0 returns Bedrock, a stand-in for "this
// boundary cannot be crossed this tick", so enclosed-checks and upward moves
// at the top row behave as if capped by an immovable ceiling rather than
// panicking or inventing a neighbor we were not given.
func (c *Chunk) read(n Neighbors, x, y int) material.Material {
	switch {
	case x >= 0 && x < c.W && y >= 0 && y < c.H:
		return c.snapshotAt(x, y)
	case y < 0:
		return material.Bedrock
	case y >= c.H:
		if n.Below == nil {
			return material.Empty
		}
		return n.Below.Get(x, y-c.H)
	case x < 0:
		if n.Left == nil {
			return material.Empty
		}
		return n.Left.Get(x+c.W, y)
	case x >= c.W:
		if n.Right == nil {
			return material.Empty
		}
		return n.Right.Get(x-c.W, y)
	default:
		return material.Empty
	}
}

// readLive is like read but always consults the live grid, including for
// local coordinates. Destination-occupancy checks during the movement
// passes use readLive: the bottom-up, checkerboard scan order is only
// meaningful if a cell can see another cell's move that already committed
// earlier in the same tick (the "clears space... in the same tick" rule of
// §4.2) — if destination checks consulted the frozen snapshot instead, scan
// order would have no observable effect at all.
//
// Unlike read, a missing (nil) neighbor reads as Bedrock here, so the world
// edge acts as a floor or wall for movement: write drops anything sent to a
// nil neighbor, and treating it as open space would make material vanish.
func (c *Chunk) readLive(n Neighbors, x, y int) material.Material {
	switch {
	case x >= 0 && x < c.W && y >= 0 && y < c.H:
		return c.Get(x, y)
	case y < 0:
		return material.Bedrock
	case y >= c.H:
		if n.Below == nil {
			return material.Bedrock
		}
		return n.Below.Get(x, y-c.H)
	case x < 0:
		if n.Left == nil {
			return material.Bedrock
		}
		return n.Left.Get(x+c.W, y)
	case x >= c.W:
		if n.Right == nil {
			return material.Bedrock
		}
		return n.Right.Get(x-c.W, y)
	default:
		return material.Empty
	}
}

// write lands m at (x,y), crossing into a neighbor when necessary and
// marking that neighbor dirty (its Set does this already). Writes to y<0 or
// to a nil neighbor are no-ops, matching the "no neighbor above" contract
// and the world-edge bounds rule (§7).
func (c *Chunk) write(n Neighbors, x, y int, m material.Material) {
	switch {
	case x >= 0 && x < c.W && y >= 0 && y < c.H:
		c.Set(x, y, m)
	case y < 0:
		return
	case y >= c.H:
		if n.Below != nil {
			n.Below.Set(x, y-c.H, m)
		}
	case x < 0:
		if n.Left != nil {
			n.Left.Set(x+c.W, y, m)
		}
	case x >= c.W:
		if n.Right != nil {
			n.Right.Set(x-c.W, y, m)
		}
	}
}

// enclosed reports whether every cell in the 8-neighborhood of (x,y) is
// non-Empty, per §4.2's "treated as temporarily inert" rule. Reads consult
// the entry snapshot (crossing chunks via neighbor live reads).
func (c *Chunk) enclosed(n Neighbors, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if c.read(n, x+dx, y+dy) == material.Empty {
				return false
			}
		}
	}
	return true
}

// parity returns 0 or 1 for (x+y), used throughout to alternate tie-breaks
// so no horizontal direction is systematically favored (§4.2).
func parity(x, y int) int { return (x + y) & 1 }

// stepCell dispatches one cell's movement rule for the current tick. It
// skips any cell whose live material no longer equals its tick-entry
// snapshot value: that means either the original occupant already moved
// away, or a new value (from the reactive pre-pass or an earlier move this
// tick) has already claimed this slot, so it must not be processed again —
// this is the "prevents double-moves within one tick" guarantee of §4.2.
func stepCell(c *Chunk, n Neighbors, x, y int) {
	m := c.Get(x, y)
	if m != c.snapshotAt(x, y) {
		return
	}
	switch material.Properties(m).Category {
	case material.CategoryPowder:
		stepPowder(c, n, x, y, m)
	case material.CategoryLiquid:
		stepLiquid(c, n, x, y, m)
	case material.CategoryGas:
		stepGas(c, n, x, y, m)
	default:
		// Solid and Empty never move on their own.
	}
}

func stepPowder(c *Chunk, n Neighbors, x, y int, m material.Material) {
	if c.enclosed(n, x, y) {
		return
	}
	if c.readLive(n, x, y+1) == material.Empty {
		c.write(n, x, y, material.Empty)
		c.write(n, x, y+1, m)
		return
	}
	dx1, dx2 := -1, 1
	if parity(x, y) == 1 {
		dx1, dx2 = 1, -1
	}
	for _, dx := range [2]int{dx1, dx2} {
		if c.readLive(n, x+dx, y+1) == material.Empty {
			c.write(n, x, y, material.Empty)
			c.write(n, x+dx, y+1, m)
			return
		}
	}
}

// MaxFlowDistance bounds how far a liquid scans horizontally for an opening
// in one tick (§6 configuration knob, default 3).
var MaxFlowDistance = 3

func stepLiquid(c *Chunk, n Neighbors, x, y int, m material.Material) {
	if c.enclosed(n, x, y) {
		return
	}
	if c.readLive(n, x, y+1) == material.Empty {
		c.write(n, x, y, material.Empty)
		c.write(n, x, y+1, m)
		return
	}
	dx1, dx2 := -1, 1
	if parity(x, y) == 1 {
		dx1, dx2 = 1, -1
	}
	for _, dx := range [2]int{dx1, dx2} {
		if c.readLive(n, x+dx, y+1) == material.Empty {
			c.write(n, x, y, material.Empty)
			c.write(n, x+dx, y+1, m)
			return
		}
	}
	for _, dir := range [2]int{dx1, dx2} {
		if flowHorizontal(c, n, x, y, m, dir) {
			return
		}
	}
}

// flowHorizontal scans up to MaxFlowDistance cells in dir, stopping at the
// first obstacle. A destination only qualifies if it is Empty and either at
// the world floor or has a non-empty cell beneath it, so liquid does not
// pour over a ledge without first falling (§4.2).
func flowHorizontal(c *Chunk, n Neighbors, x, y int, m material.Material, dir int) bool {
	for step := 1; step <= MaxFlowDistance; step++ {
		tx := x + dir*step
		if c.readLive(n, tx, y) != material.Empty {
			return false
		}
		below := c.readLive(n, tx, y+1)
		if below == material.Empty {
			continue
		}
		c.write(n, x, y, material.Empty)
		c.write(n, tx, y, m)
		return true
	}
	return false
}

func stepGas(c *Chunk, n Neighbors, x, y int, m material.Material) {
	if c.enclosed(n, x, y) {
		return
	}

	r := c.Rand()

	dissipateChance, riseChance, spreadChance := gasRates(m)

	if m == material.Steam && c.hasAdjacentWater(n, x, y) && r.Float64() < 0.30 {
		c.write(n, x, y, material.Empty)
		return
	}

	if r.Float64() < dissipateChance {
		c.write(n, x, y, material.Empty)
		return
	}

	if r.Float64() < riseChance {
		if c.readLive(n, x, y-1) == material.Empty {
			c.write(n, x, y, material.Empty)
			c.write(n, x, y-1, m)
			return
		}
		dx1, dx2 := -1, 1
		if parity(x, y) == 1 {
			dx1, dx2 = 1, -1
		}
		for _, dx := range [2]int{dx1, dx2} {
			if c.readLive(n, x+dx, y-1) == material.Empty {
				c.write(n, x, y, material.Empty)
				c.write(n, x+dx, y-1, m)
				return
			}
		}
	}

	if m == material.Smoke && c.hasAdjacentFire(n, x, y) && c.readLive(n, x, y-1) == material.Empty && r.Float64() < 0.30 {
		c.write(n, x, y, material.Empty)
		c.write(n, x, y-1, m)
		return
	}

	if r.Float64() < spreadChance {
		dx1, dx2 := -1, 1
		if parity(x, y) == 1 {
			dx1, dx2 = 1, -1
		}
		for _, dx := range [2]int{dx1, dx2} {
			if c.readLive(n, x+dx, y) == material.Empty {
				c.write(n, x, y, material.Empty)
				c.write(n, x+dx, y, m)
				return
			}
		}
	}
}

func gasRates(m material.Material) (dissipate, rise, spread float64) {
	switch m {
	case material.Steam:
		return 0.05, 0.95, 0.40
	case material.Smoke:
		return 0.10, 0.90, 0.60
	default:
		return 0.50, 0.80, 0.50
	}
}

func (c *Chunk) hasAdjacentFire(n Neighbors, x, y int) bool {
	return c.hasAdjacentMaterial(n, x, y, material.Fire)
}

func (c *Chunk) hasAdjacentWater(n Neighbors, x, y int) bool {
	return c.hasAdjacentMaterial(n, x, y, material.Water)
}

func (c *Chunk) hasAdjacentMaterial(n Neighbors, x, y int, want material.Material) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if c.read(n, x+dx, y+dy) == want {
				return true
			}
		}
	}
	return false
}

// cellCouldMove implements the predicates the activity gate (§4.2) checks
// to decide whether a mobile cell might still move next tick.
func cellCouldMove(c *Chunk, n Neighbors, x, y int, m material.Material) bool {
	if c.enclosed(n, x, y) {
		return false
	}
	switch material.Properties(m).Category {
	case material.CategoryPowder:
		return c.readLive(n, x, y+1) == material.Empty ||
			c.readLive(n, x-1, y+1) == material.Empty ||
			c.readLive(n, x+1, y+1) == material.Empty
	case material.CategoryLiquid:
		if c.readLive(n, x, y+1) == material.Empty ||
			c.readLive(n, x-1, y+1) == material.Empty ||
			c.readLive(n, x+1, y+1) == material.Empty {
			return true
		}
		for _, dir := range [2]int{-1, 1} {
			for step := 1; step <= MaxFlowDistance; step++ {
				tx := x + dir*step
				if c.readLive(n, tx, y) != material.Empty {
					break
				}
				if c.readLive(n, tx, y+1) != material.Empty {
					return true
				}
			}
		}
		return false
	case material.CategoryGas:
		return c.readLive(n, x, y-1) == material.Empty ||
			c.readLive(n, x-1, y) == material.Empty ||
			c.readLive(n, x+1, y) == material.Empty
	default:
		return false
	}
}
