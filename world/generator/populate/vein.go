package populate

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/emberreach/sandfall/world/chunk"
	"github.com/emberreach/sandfall/world/generator/genrand"
	"github.com/emberreach/sandfall/world/material"
)

// OreVein scatters Terraria-style branching clusters through the stone
// strata (§4.3 step 7): each cluster has a handful of branches walking away
// from a seed point, thickened into short blobs, with edge pixels reverting
// to Stone for a rough, pixel-art boundary. The branch-walk itself is
// grounded on dm-vev-adamant's pmgen/populate/ore.go OreType.Place, which
// draws a cos/sin-offset seed line via mgl64.Vec2 and thickens it with a
// per-step ellipse radius; this is that same shape collapsed from 3D voxels
// to 2D cells.
type OreVein struct {
	// ClustersPerChunk is resolved once by the caller (generator.New) from
	// the world-wide vein density (≈ W_world/200 + 5, §4.3 step 7) scaled
	// down to a per-chunk expectation, and is the same for every chunk.
	ClustersPerChunk float64
	// Materials is the palette veins are drawn from, standing in for the
	// spec's three visual "ore" groups (Sand, Gravel, Wood).
	Materials []material.Material
	// MinDepth is the local y (within the chunk) above which veins never
	// spawn, keeping generation confined to the lower-third stone band.
	MinDepth int
}

func (v OreVein) Populate(c *chunk.Chunk, worldX, worldY int, r *genrand.Stream) {
	if len(v.Materials) == 0 {
		return
	}
	clusters := int(v.ClustersPerChunk)
	if r.Float64() < v.ClustersPerChunk-float64(clusters) {
		clusters++
	}
	for i := 0; i < clusters; i++ {
		v.placeCluster(c, r)
	}
}

func (v OreVein) placeCluster(c *chunk.Chunk, r *genrand.Stream) {
	minY := v.MinDepth
	if minY >= c.H {
		return
	}
	startX := int(r.Range(0, int32(c.W-1)))
	startY := int(r.Range(int32(minY), int32(c.H-1)))
	if c.Get(startX, startY) != material.Stone {
		return
	}

	m := v.Materials[r.Int31n(int32(len(v.Materials)))]
	branches := int(r.Range(2, 5))
	for b := 0; b < branches; b++ {
		length := int(r.Range(3, 8))
		thickness := int(r.Range(1, 2))
		angle := r.Float64() * 2 * math.Pi
		dir := mgl64.Vec2{math.Cos(angle), math.Sin(angle)}
		v.walkBranch(c, r, startX, startY, dir, length, thickness, m)
	}
}

func (v OreVein) walkBranch(c *chunk.Chunk, r *genrand.Stream, x0, y0 int, dir mgl64.Vec2, length, thickness int, m material.Material) {
	fx, fy := float64(x0), float64(y0)
	for step := 0; step < length; step++ {
		fx += dir[0]
		fy += dir[1]
		cx, cy := int(math.Round(fx)), int(math.Round(fy))
		v.placeBlob(c, r, cx, cy, thickness, m)
		// Slight random churn keeps branches from being perfectly straight
		// lines, matching the irregular look of the source's vein shapes.
		dir[0] += r.RangeF(-0.3, 0.3)
		dir[1] += r.RangeF(-0.1, 0.3)
	}
}

func (v OreVein) placeBlob(c *chunk.Chunk, r *genrand.Stream, cx, cy, radius int, m material.Material) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius+1 {
				continue
			}
			x, y := cx+dx, cy+dy
			if !c.InBounds(x, y) || c.Get(x, y) != material.Stone {
				continue
			}
			onEdge := dx*dx+dy*dy >= radius*radius
			if onEdge && r.Bool(1.0/7) {
				continue
			}
			c.Set(x, y, m)
		}
	}
}
