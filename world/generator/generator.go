// Package generator implements the deterministic world generation pipeline
// of §4.3: heightmap, smoothing, layer filling, stone strata, caves, water
// pools, ore veins and underground material-deposit pockets, all driven by
// a single seeded stream so a given (seed, chunk-coord) always produces the
// same chunk contents.
//
// The overall shape — a handful of generation phases run once at
// construction time over the whole defined region, then a per-chunk
// Generate call that reads from that precomputed state — mirrors
// dm-vev-adamant/server/world/generator/pmgen's split between its Generator
// (owns the simplex noise and biome selector, built once per seed) and its
// Populator passes (scatter features into chunks on demand).
package generator

import (
	"log/slog"

	"github.com/emberreach/sandfall/world"
	"github.com/emberreach/sandfall/world/chunk"
	"github.com/emberreach/sandfall/world/generator/genrand"
	"github.com/emberreach/sandfall/world/generator/populate"
	"github.com/emberreach/sandfall/world/material"
)

// Config bounds the §4.3 "defined region" the generator's world-wide
// phases (plateaus, caves, pools, deposits) are rolled across, and the seed
// that makes every phase reproducible.
type Config struct {
	Seed          uint64
	WorldW, WorldH int
	Log           *slog.Logger
}

// Generator implements world.Generator: Generate(coord, chunk) fills a
// freshly-constructed chunk with terrain (§4.3). It satisfies the
// world.Generator interface consumed by world.ChunkManager.
type Generator struct {
	cfg Config
	log *slog.Logger

	height   heightParams
	plateaus []plateau
	caves    []caveSite
	pools    []poolSite
	deposits []depositSite

	// veins is a template cloned per-Generate call; MinDepth is filled in
	// from that chunk's own position rather than mutated on the shared
	// Generator, since Generate may run concurrently across chunks.
	veins populate.OreVein
}

// New builds a Generator, rolling every world-wide phase (heightmap
// parameters, plateaus, cave sites, pool sites) once from cfg.Seed.
func New(cfg Config) *Generator {
	if cfg.WorldW <= 0 {
		cfg.WorldW = 4096
	}
	if cfg.WorldH <= 0 {
		cfg.WorldH = 2048
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	root := genrand.New(cfg.Seed)
	heightRand := root.Derive(1)
	plateauRand := root.Derive(2)
	caveRand := root.Derive(3)
	poolRand := root.Derive(4)
	depositRand := root.Derive(5)

	height := newHeightParams(cfg.WorldW, cfg.WorldH, heightRand)

	g := &Generator{
		cfg:      cfg,
		log:      cfg.Log,
		height:   height,
		plateaus: newPlateaus(height, cfg.WorldW, plateauRand),
		caves:    newCaveSites(cfg.WorldW, cfg.WorldH, caveRand),
		pools:    newPoolSites(cfg.WorldW, poolRand),
		deposits: newDepositSites(cfg.WorldW, cfg.WorldH, depositRand),
		veins: populate.OreVein{
			ClustersPerChunk: (float64(cfg.WorldW)/200 + 5) / float64(cfg.WorldW/chunk.DefaultWidth+1) / 3,
			Materials:        []material.Material{material.Sand, material.Gravel, material.Wood},
		},
	}
	g.log.Debug("world generator initialized", "seed", cfg.Seed, "world_w", cfg.WorldW, "world_h", cfg.WorldH,
		"plateaus", len(g.plateaus), "caves", len(g.caves), "pools", len(g.pools), "deposits", len(g.deposits))
	return g
}

var _ world.Generator = (*Generator)(nil)

// Generate fills c, whose world-space rectangle is already set via its
// WorldX/WorldY, with terrain for coord (§4.3). All eight pipeline phases
// run in the order specified: heightmap/smoothing has already happened at
// construction (plateaus) and is finished here per-column; layer filling;
// stone strata; caves; water pools; material-deposit pockets; ore veins.
func (g *Generator) Generate(coord world.ChunkCoord, c *chunk.Chunk) {
	columnRand := genrand.New(g.cfg.Seed).Derive(int64(coord.X())<<32 | int64(uint32(coord.Y())))

	heights := heightmapWindow(g.height, g.plateaus, c.WorldX, c.W)

	for localX := 0; localX < c.W; localX++ {
		worldX := c.WorldX + localX
		fillLayers(c, localX, worldX, heights[localX], columnRand)
		applyStoneStrata(c, localX, worldX, g.cfg.WorldH, columnRand)
	}

	carveSitesInChunk(c, g.caves, columnRand)
	applyPoolsInChunk(c, heights, g.pools)
	applyDepositsInChunk(c, g.deposits)

	lowerThird := 2 * g.cfg.WorldH / 3
	if c.WorldY+c.H > lowerThird {
		veins := g.veins
		veins.MinDepth = max(0, lowerThird-c.WorldY)
		veins.Populate(c, c.WorldX, c.WorldY, columnRand)
	}

	c.ModifiedSinceSave = true
	c.RefreshPixels()
}
