package generator

import (
	"math"

	"github.com/segmentio/fasthash/fnv1a"

	"github.com/emberreach/sandfall/world/chunk"
	"github.com/emberreach/sandfall/world/generator/genrand"
	"github.com/emberreach/sandfall/world/material"
)

// applyStoneStrata overlays depth-indexed vein noise onto one column's
// Stone cells: the upper third of the world permits Gravel/Sand veins, the
// middle third adds Coal, and the lower third increases Sand/Coal density
// (§4.3 step 4). Every vein boundary is smoothed by checking the full
// 8-neighborhood noise value against the same threshold and randomly
// reverting edge cells to Stone.
func applyStoneStrata(c *chunk.Chunk, localX, worldX int, worldH int, r *genrand.Stream) {
	third := worldH / 3
	for localY := 0; localY < c.H; localY++ {
		worldY := c.WorldY + localY
		if c.Get(localX, localY) != material.Stone {
			continue
		}
		band := strataBand(worldY, third)
		m, ok := strataNoiseMaterial(band, worldX, worldY)
		if !ok {
			continue
		}
		if strataIsEdge(band, worldX, worldY) && r.Bool(edgeRevertChance(band)) {
			continue
		}
		c.Set(localX, localY, m)
	}
}

type stratumBand int

const (
	stratumUpper stratumBand = iota
	stratumMiddle
	stratumLower
)

func strataBand(worldY, third int) stratumBand {
	switch {
	case worldY < third:
		return stratumUpper
	case worldY < 2*third:
		return stratumMiddle
	default:
		return stratumLower
	}
}

// strataNoiseValue is the shared noise formula the three bands threshold
// differently, mirroring the gravel-pocket formula's shape from §4.3 step 3
// but re-parameterized per band.
func strataNoiseValue(worldX, worldY int, freqX, freqY float64) float64 {
	x, y := float64(worldX), float64(worldY)
	base := math.Sin(freqX*x)*math.Sin(freqY*y)*0.6 + math.Sin((freqX*1.8*x+freqY*1.6*y)*0.8)*0.4
	return base + strataPhaseJitter(worldX, worldY)
}

// strataPhaseJitter adds a small deterministic per-cell offset to the strata
// noise so vein edges break up instead of following the sine lattice's
// perfectly regular period. Grounded on the fasthash dependency pulled in
// alongside xxhash from the teacher's go.mod (segmentio/fasthash/fnv1a),
// used here the way that family of hashes is meant to be: a cheap
// non-cryptographic avalanche over a couple of integer coordinates.
func strataPhaseJitter(worldX, worldY int) float64 {
	h := fnv1a.AddUint64(fnv1a.Init64, uint64(uint32(worldX)))
	h = fnv1a.AddUint64(h, uint64(uint32(worldY)))
	frac := float64(h>>11) / float64(1<<53)
	return (frac - 0.5) * 0.1
}

func strataNoiseMaterial(band stratumBand, worldX, worldY int) (material.Material, bool) {
	switch band {
	case stratumUpper:
		n := strataNoiseValue(worldX, worldY, 0.01, 0.012)
		switch {
		case n > 0.35:
			return material.Gravel, true
		case n < -0.35:
			return material.Sand, true
		}
	case stratumMiddle:
		n := strataNoiseValue(worldX, worldY, 0.013, 0.009)
		switch {
		case n > 0.4:
			return material.Coal, true
		case n < -0.3:
			return material.Gravel, true
		}
	case stratumLower:
		n := strataNoiseValue(worldX, worldY, 0.015, 0.015)
		switch {
		case n > 0.25:
			return material.Coal, true
		case n < -0.25:
			return material.Sand, true
		}
	}
	return material.Empty, false
}

func strataIsEdge(band stratumBand, worldX, worldY int) bool {
	_, center := strataNoiseMaterial(band, worldX, worldY)
	if !center {
		return false
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if _, ok := strataNoiseMaterial(band, worldX+dx, worldY+dy); !ok {
				return true
			}
		}
	}
	return false
}

func edgeRevertChance(band stratumBand) float64 {
	if band == stratumLower {
		return 0.25
	}
	return 0.4
}
