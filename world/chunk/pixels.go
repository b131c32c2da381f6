package chunk

import (
	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"

	"github.com/emberreach/sandfall/world/material"
)

// positionHash returns a deterministic, evenly distributed hash of a cell's
// world-independent local position, used to derive per-cell color variation
// that stays fixed for static scenery (§4.2: "deterministic given
// (material, x, y) where possible so static scenery does not shimmer").
// Grounded on the xxhash/fasthash dependency pair carried from the teacher's
// go.mod: xxhash here because it produces good avalanche behavior from a
// tiny 9-byte key, which is exactly this hot per-pixel path's shape.
func positionHash(m material.Material, x, y int) uint64 {
	var buf [9]byte
	buf[0] = byte(m)
	putInt32(buf[1:5], int32(x))
	putInt32(buf[5:9], int32(y))
	return xxhash.Sum64(buf[:])
}

func putInt32(b []byte, v int32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// RefreshPixels recomputes the chunk's RGBA buffer from its live material
// grid (§4.2's pixel data update). Called by Update whenever the chunk
// could have changed this tick.
func (c *Chunk) RefreshPixels() {
	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			m := c.cells[c.index(x, y)]
			r, g, b, a := pixelFor(c, m, x, y)
			o := c.index(x, y) * 4
			c.pixels[o] = r
			c.pixels[o+1] = g
			c.pixels[o+2] = b
			c.pixels[o+3] = a
		}
	}
}

func pixelFor(c *Chunk, m material.Material, x, y int) (r, g, b, a uint8) {
	if m == material.Empty {
		return 0, 0, 0, 0
	}
	props := material.Properties(m)
	switch m {
	case material.Fire:
		return fireFlicker(c, props, x, y)
	case material.Smoke, material.Steam:
		return smokeSteamPixel(c, props, x, y)
	case material.Grass:
		return grassPixel(c, props, x, y)
	default:
		return variedPixel(m, props, x, y)
	}
}

// variedPixel applies the standard deterministic [-7,+7] per-channel jitter
// shared by most materials (stone, gravel, dirt, topsoil, settled liquids).
func variedPixel(m material.Material, p material.Props, x, y int) (r, g, b, a uint8) {
	h := positionHash(m, x, y)
	dr := int(h%15) - 7
	dg := int((h>>8)%15) - 7
	db := int((h>>16)%15) - 7
	return clampChannel(int(p.R) + dr), clampChannel(int(p.G) + dg), clampChannel(int(p.B) + db), p.Transparency
}

func fireFlicker(c *Chunk, p material.Props, x, y int) (r, g, b, a uint8) {
	flicker := 0.7 + c.Rand().Float64()*0.6
	rr := float64(p.R) * flicker
	gg := float64(p.G) * flicker * 0.8
	bb := float64(p.B) * flicker * 0.6
	return clampChannel(int(rr)), clampChannel(int(gg)), clampChannel(int(bb)), p.Transparency
}

func smokeSteamPixel(c *Chunk, p material.Props, x, y int) (r, g, b, a uint8) {
	alpha := 80 + c.Rand().IntN(121)
	return p.R, p.G, p.B, uint8(alpha)
}

// grassPixel gives the blade-shape pattern keyed to (x%5, y%4): lighter near
// the roots, darker/greener toward blade tips. Only the top of a grass
// column (no Grass directly above in the live grid) gets the variation; the
// rest render as the base soil-backed color.
func grassPixel(c *Chunk, p material.Props, x, y int) (r, g, b, a uint8) {
	isTop := y == 0 || c.Get(x, y-1) != material.Grass
	if !isTop {
		return variedPixel(material.Grass, p, x, y)
	}
	bx, by := x%5, y%4
	bladeTip := (bx+by)%3 == 0
	if bladeTip {
		return clampChannel(int(p.R) - 20), clampChannel(int(p.G) + 15), clampChannel(int(p.B) - 10), p.Transparency
	}
	return clampChannel(int(p.R) + 10), clampChannel(int(p.G) + 5), p.B, p.Transparency
}

// clamp is the generic numeric clamp behind this package's pixel-color math,
// per SPEC_FULL.md's domain-stack wiring for golang.org/x/exp/constraints.
// It is unexported and used only in this file.
func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampChannel(v int) uint8 {
	return uint8(clamp(v, 0, 255))
}
