package generator

import (
	"math"

	"github.com/emberreach/sandfall/world/chunk"
	"github.com/emberreach/sandfall/world/generator/genrand"
	"github.com/emberreach/sandfall/world/material"
)

// depositSite is an underground material-deposit pocket, rolled once per
// world at Generator construction so a pocket straddling a chunk boundary
// carves identically from both sides, the same seam-consistency rule
// newPoolSites and newCaveSites already follow.
//
// This is the World.cpp generateSpecialDeposits feature: an irregular,
// noise-perturbed elliptical pocket of Oil, Sand, or Water buried in stone,
// distinct from both the surface water pools (pools.go) and the Terraria
// ore veins (populate/vein.go) the generator already carves.
type depositSite struct {
	centerX, centerY int
	size             int
	material         material.Material
}

// newDepositSites rolls the world's material-deposit pockets: count,
// position, size and material selection mirror World.cpp's
// generateSpecialDeposits (count = worldW/120 + 10, y in the bottom two
// fifths of the world, size in [8,16], 50% Oil / 30% Sand / 20% Water).
func newDepositSites(worldW, worldH int, r *genrand.Stream) []depositSite {
	count := worldW/120 + 10
	yMin := worldH * 3 / 5
	yMax := worldH - 15
	if yMax <= yMin {
		yMax = yMin + 1
	}

	sites := make([]depositSite, 0, count)
	for i := 0; i < count; i++ {
		roll := r.Float64() * 100
		var mat material.Material
		switch {
		case roll < 50:
			mat = material.Oil
		case roll < 80:
			mat = material.Sand
		default:
			mat = material.Water
		}

		sites = append(sites, depositSite{
			centerX:  int(r.Range(0, int32(worldW-1))),
			centerY:  int(r.Range(int32(yMin), int32(yMax))),
			size:     int(r.Range(8, 16)),
			material: mat,
		})
	}
	return sites
}

// applyDepositsInChunk carves every deposit site whose bounding square
// reaches into this chunk's world rectangle. A cell is filled only if it
// currently holds Stone (deposits never displace a cave, pool, or vein that
// already claimed the cell) and it falls within an irregular ellipse: the
// base shape is an ellipse squashed to 0.8 on the vertical axis, and a
// two-term sine product perturbs its edge the way World.cpp's noise term
// does, so the boundary is ragged rather than a clean ring.
func applyDepositsInChunk(c *chunk.Chunk, sites []depositSite) {
	x0, y0 := c.WorldX, c.WorldY
	for _, d := range sites {
		reach := d.size + 2
		if d.centerX+reach < x0 || d.centerX-reach > x0+c.W {
			continue
		}
		if d.centerY+reach < y0 || d.centerY-reach > y0+c.H {
			continue
		}

		sizeF := float64(d.size)
		vertical := sizeF * 0.8

		for dy := -reach; dy <= reach; dy++ {
			worldY := d.centerY + dy
			localY := worldY - y0
			if localY < 0 || localY >= c.H {
				continue
			}
			for dx := -reach; dx <= reach; dx++ {
				worldX := d.centerX + dx
				localX := worldX - x0
				if localX < 0 || localX >= c.W {
					continue
				}

				distRatio := float64(dx*dx)/(sizeF*sizeF) + float64(dy*dy)/(vertical*vertical)
				noise := math.Sin(float64(worldX)*0.1+float64(worldY)*0.13) *
					math.Sin(float64(worldY)*0.07+float64(worldX)*0.08) * 0.2

				if distRatio+noise >= 1.0 {
					continue
				}
				if c.Get(localX, localY) != material.Stone {
					continue
				}
				c.Set(localX, localY, d.material)
			}
		}
	}
}
