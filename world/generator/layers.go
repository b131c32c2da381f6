package generator

import (
	"math"

	"github.com/emberreach/sandfall/world/chunk"
	"github.com/emberreach/sandfall/world/generator/genrand"
	"github.com/emberreach/sandfall/world/material"
)

// fillLayers lays down air/grass/topsoil/dirt/stone for one column, using
// the smoothed surface height for that column, plus in-dirt gravel pockets
// from a low-frequency 2D noise field (§4.3 step 3).
func fillLayers(c *chunk.Chunk, localX, worldX int, height float64, r *genrand.Stream) {
	surface := int(math.Round(height))
	grassDepth := int(r.Range(0, 2))
	topSoilDepth := int(r.Range(2, 6))
	dirtDepth := int(r.Range(15, 35))

	grassTop := surface - grassDepth
	topSoilTop := surface
	dirtTop := surface + topSoilDepth
	stoneTop := dirtTop + dirtDepth

	for localY := 0; localY < c.H; localY++ {
		worldY := c.WorldY + localY
		var m material.Material
		switch {
		case worldY < grassTop:
			m = material.Empty
		case worldY < topSoilTop:
			m = material.Grass
		case worldY < dirtTop:
			m = material.TopSoil
		case worldY < stoneTop:
			m = gravelPocketOrDirt(worldX, worldY, r)
		default:
			m = material.Stone
		}
		c.Set(localX, localY, m)
	}
}

// gravelPocketOrDirt implements the §4.3 step 3 gravel-pocket noise field:
// a combination of two sine products maps to a narrow band that becomes
// Gravel, with edge pixels reverting to Dirt ~43% of the time for a rough
// border.
func gravelPocketOrDirt(worldX, worldY int, r *genrand.Stream) material.Material {
	x, y := float64(worldX), float64(worldY)
	n := math.Sin(0.008*x)*math.Sin(0.01*y)*0.6 + math.Sin((0.015*x+0.013*y)*0.8)*0.4
	const band = 0.05
	if n < -band || n > band {
		return material.Dirt
	}
	edge := n < -band*0.6 || n > band*0.6
	if edge && r.Bool(0.43) {
		return material.Dirt
	}
	return material.Gravel
}
