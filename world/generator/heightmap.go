package generator

import (
	"math"

	"github.com/emberreach/sandfall/world/generator/genrand"
)

// heightParams are the once-per-seed parameters for the three offset sine
// waves that make up the surface heightmap (§4.3 step 1). Drawn once from
// the generator's seeded stream so every chunk's heightmap samples are
// consistent with its neighbors regardless of generation order.
type heightParams struct {
	baseGround float64

	largeFreq, largeAmp, largePhase    float64
	mediumFreq, mediumAmp, mediumPhase float64
	smallFreq, smallAmp, smallPhase    float64

	worldWidth float64
}

func newHeightParams(worldW, worldH int, r *genrand.Stream) heightParams {
	return heightParams{
		baseGround: float64(worldH) / 6,
		worldWidth: float64(worldW),

		largeFreq:  r.RangeF(3, 5),
		largeAmp:   r.RangeF(10, 20),
		largePhase: r.RangeF(0, 2*math.Pi),

		mediumFreq:  r.RangeF(8, 12),
		mediumAmp:   r.RangeF(4, 8),
		mediumPhase: r.RangeF(0, 2*math.Pi),

		smallFreq:  r.RangeF(18, 25),
		smallAmp:   r.RangeF(1, 3),
		smallPhase: r.RangeF(0, 2*math.Pi),
	}
}

// biomeFactor scales the large wave's amplitude, per §4.3 step 1.
func (p heightParams) biomeFactor(x float64) float64 {
	return 0.4 + 0.3*math.Sin(x/p.worldWidth*1.2)
}

// at returns the raw (pre-smoothing) surface height at world-x column x, in
// cells down from the world's top row.
func (p heightParams) at(x float64) float64 {
	large := math.Sin(x/p.largeFreq+p.largePhase) * p.largeAmp * p.biomeFactor(x)
	medium := math.Sin(x/p.mediumFreq+p.mediumPhase) * p.mediumAmp
	small := math.Sin(x/p.smallFreq+p.smallPhase) * p.smallAmp
	return p.baseGround + large + medium + small
}

// plateau is one stochastic flattened region in world-x space (§4.3 step 2).
// The whole list is drawn once, at Generator construction, from the
// generator's seeded stream — never re-rolled per chunk — so two chunks
// whose padded sampling windows overlap a plateau agree on its exact
// bounds and height regardless of which one is generated first.
type plateau struct {
	start, width int
	height       float64
}

// newPlateaus draws ≈ W_world/250 + 2 plateaus, each width 30-80 world-x
// cells, with a height sampled from the unsmoothed heightmap at its center
// (a reasonable stand-in for "averaged height" that does not require the
// fully smoothed array to exist yet).
func newPlateaus(p heightParams, worldW int, r *genrand.Stream) []plateau {
	count := int(p.worldWidth/250) + 2
	out := make([]plateau, 0, count)
	for i := 0; i < count; i++ {
		width := int(r.Range(30, 80))
		if width > worldW {
			width = worldW
		}
		start := int(r.Range(0, int32(worldW-width)))
		out = append(out, plateau{start: start, width: width, height: p.at(float64(start) + float64(width)/2)})
	}
	return out
}

// smoothingPadding is how far a heightmap sample window must extend past a
// chunk's own columns so the box-smoothing and plateau blend passes (§4.3
// step 2) have real neighbor data at the chunk's edges instead of a hard
// cutoff.
const smoothingPadding = 32

// heightmapWindow computes the smoothed surface height for exactly
// [x0, x0+w) in world-x space. Every chunk recomputes its own padded window
// from the pure per-seed sine parameters and the precomputed plateau list,
// so the result at any world-x column is the same no matter which chunk
// requested it.
func heightmapWindow(p heightParams, plateaus []plateau, x0, w int) []float64 {
	lo := x0 - smoothingPadding
	span := w + 2*smoothingPadding
	raw := make([]float64, span)
	for i := range raw {
		raw[i] = p.at(float64(lo + i))
	}

	boxBlur(raw, 5)
	boxBlur(raw, 5)
	boxBlur(raw, 5)
	applyPlateaus(raw, plateaus, lo)
	boxBlur(raw, 3)
	boxBlur(raw, 3)

	out := make([]float64, w)
	copy(out, raw[smoothingPadding:smoothingPadding+w])
	return out
}

func boxBlur(h []float64, width int) {
	half := width / 2
	out := make([]float64, len(h))
	for i := range h {
		sum, n := 0.0, 0
		for d := -half; d <= half; d++ {
			j := i + d
			if j < 0 || j >= len(h) {
				continue
			}
			sum += h[j]
			n++
		}
		out[i] = sum / float64(n)
	}
	copy(h, out)
}

// applyPlateaus flattens h (indexed relative to world-x lo) wherever a
// precomputed plateau overlaps this window, blending over 12 cells at each
// edge (§4.3 step 2).
func applyPlateaus(h []float64, plateaus []plateau, lo int) {
	const blend = 12
	for _, pl := range plateaus {
		start := pl.start - lo
		end := start + pl.width
		for x := max(start, 0); x < min(end, len(h)); x++ {
			h[x] = pl.height
		}
		for b := 1; b <= blend; b++ {
			t := float64(b) / float64(blend+1)
			if x := start - b; x >= 0 && x < len(h) {
				h[x] = h[x]*t + pl.height*(1-t)
			}
			if x := end - 1 + b; x >= 0 && x < len(h) {
				h[x] = h[x]*t + pl.height*(1-t)
			}
		}
	}
}
