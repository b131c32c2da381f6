package world

// ChunkCoord identifies a chunk by its grid position, mirroring the compact
// array-pair style of dm-vev-adamant's world.ChunkPos.
type ChunkCoord [2]int32

func (c ChunkCoord) X() int32 { return c[0] }
func (c ChunkCoord) Y() int32 { return c[1] }

// packed encodes a ChunkCoord into a single int64 key, used by the
// brentp/intintmap fast lookup table in manager.go.
func (c ChunkCoord) packed() int64 {
	return int64(c[0])<<32 | int64(uint32(c[1]))
}

func unpack(p int64) ChunkCoord {
	return ChunkCoord{int32(p >> 32), int32(int32(p))}
}

// floorDiv performs floor division so negative world coordinates land in
// the correct chunk instead of rounding towards zero (§3).
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// ToChunk maps a world coordinate to its owning ChunkCoord and the local
// coordinate within that chunk (§3 invariant 1, §8 property 9).
func ToChunk(x, y, w, h int) (coord ChunkCoord, localX, localY int) {
	cx := floorDiv(x, w)
	cy := floorDiv(y, h)
	return ChunkCoord{int32(cx), int32(cy)}, floorMod(x, w), floorMod(y, h)
}

// FromChunk is the inverse of ToChunk: given a chunk coordinate and a local
// position within it, returns the world coordinate.
func FromChunk(coord ChunkCoord, localX, localY, w, h int) (x, y int) {
	return int(coord[0])*w + localX, int(coord[1])*h + localY
}

// worldTopLeft returns the world-space coordinate of a chunk's top-left
// cell, used both for ToChunk/FromChunk round trips and for constructing a
// new chunk.Chunk with the right chunk.WorldX/WorldY.
func worldTopLeft(coord ChunkCoord, w, h int) (x, y int) {
	return int(coord[0]) * w, int(coord[1]) * h
}
