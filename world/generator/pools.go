package generator

import (
	"math"

	"github.com/emberreach/sandfall/world/chunk"
	"github.com/emberreach/sandfall/world/generator/genrand"
	"github.com/emberreach/sandfall/world/material"
)

// poolSite is a surface water/oil pool, rolled once per world at Generator
// construction so a pool straddling a chunk boundary notches and fills
// identically from both sides (§4.3 step 6).
type poolSite struct {
	centerX int
	radius  int
	depth   int
	liquid  material.Material
}

func newPoolSites(worldW int, r *genrand.Stream) []poolSite {
	count := worldW/60 + 8
	sites := make([]poolSite, 0, count)
	for i := 0; i < count; i++ {
		liquid := material.Water
		if r.Float64() >= 0.70 {
			liquid = material.Oil
		}
		sites = append(sites, poolSite{
			centerX: int(r.Range(0, int32(worldW-1))),
			radius:  int(r.Range(8, 24)),
			depth:   int(r.Range(3, 10)),
			liquid:  liquid,
		})
	}
	return sites
}

// applyPoolsInChunk depresses the surface into a parabolic notch and fills
// it with the pool's liquid, for every pool whose radius reaches into this
// chunk's world-x span.
func applyPoolsInChunk(c *chunk.Chunk, heights []float64, pools []poolSite) {
	x0 := c.WorldX
	for _, p := range pools {
		if p.centerX+p.radius < x0 || p.centerX-p.radius > x0+c.W {
			continue
		}
		for localX := 0; localX < c.W; localX++ {
			worldX := x0 + localX
			dx := worldX - p.centerX
			if dx < -p.radius || dx > p.radius {
				continue
			}
			t := float64(dx) / float64(p.radius)
			notch := float64(p.depth) * (1 - t*t)
			if notch <= 0 {
				continue
			}
			surface := heights[localX]
			top := int(math.Round(surface))
			bottom := int(math.Round(surface + notch))
			for worldY := top; worldY <= bottom; worldY++ {
				localY := worldY - c.WorldY
				if !c.InBounds(localX, localY) {
					continue
				}
				c.Set(localX, localY, p.liquid)
			}
		}
	}
}
