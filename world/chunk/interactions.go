package chunk

import (
	"math/rand/v2"

	"github.com/emberreach/sandfall/world/material"
)

// fireSpreadChance gives the per-neighbor ignition probability for each
// flammable material, per the §4.2 interactions table. Materials absent
// from this map never ignite from an adjacent Fire cell.
var fireSpreadChance = map[material.Material]float64{
	material.Wood:  0.15,
	material.Oil:   0.40,
	material.Grass: 0.25,
}

// applyInteractions runs the reactive pre-pass (§4.2): a single sweep over
// the tick-entry snapshot that applies non-movement material transitions
// (burning out, spreading fire, water/fire/smoke reactions). All triggers
// read the snapshot so one cell's transition in this pass cannot itself
// spread to a second cell within the same pass (no same-tick chain
// reactions); all results land in the live grid, same as the movement
// passes that follow.
func applyInteractions(c *Chunk, n Neighbors) {
	r := c.Rand()
	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			switch c.snapshotAt(x, y) {
			case material.Fire:
				applyFireCell(c, n, x, y, r)
			case material.Water:
				applyWaterCell(c, n, x, y, r)
			case material.Smoke:
				applySmokeCell(c, n, x, y, r)
			}
		}
	}
}

// applyFireCell spreads ignition to flammable neighbors and rolls the
// per-tick extinguish chance. The Fire+Water and Water-extinguishes-Fire
// rules are both driven from the Water side (applyWaterCell) since both
// target the same pair of cells and snapshot-only reads make the order
// between the two passes irrelevant.
func applyFireCell(c *Chunk, n Neighbors, x, y int, r *rand.Rand) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			neighbor := c.read(n, x+dx, y+dy)
			chance, ok := fireSpreadChance[neighbor]
			if !ok {
				continue
			}
			if r.Float64() < chance {
				c.write(n, x+dx, y+dy, material.Fire)
			}
		}
	}
	if r.Float64() < 0.05 {
		if r.Float64() < 0.30 {
			c.write(n, x, y, material.Smoke)
		} else {
			c.write(n, x, y, material.Empty)
		}
	}
}

// applyWaterCell implements both "Fire + Water" (a Fire neighbor turns this
// Water into Steam) and "Water extinguishes Fire" (this Water turns an
// adjacent Fire into Steam or Empty).
func applyWaterCell(c *Chunk, n Neighbors, x, y int, r *rand.Rand) {
	if c.hasAdjacentFire(n, x, y) && r.Float64() < 0.20 {
		c.write(n, x, y, material.Steam)
		return
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if c.read(n, x+dx, y+dy) != material.Fire {
				continue
			}
			if r.Float64() >= 0.70 {
				continue
			}
			if r.Float64() < 0.40 {
				c.write(n, x+dx, y+dy, material.Steam)
			} else {
				c.write(n, x+dx, y+dy, material.Empty)
			}
		}
	}
}

func applySmokeCell(c *Chunk, n Neighbors, x, y int, r *rand.Rand) {
	if c.hasAdjacentWater(n, x, y) && r.Float64() < 0.20 {
		c.write(n, x, y, material.Empty)
	}
}
