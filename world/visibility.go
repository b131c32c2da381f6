package world

import "github.com/go-gl/mathgl/mgl64"

// Camera is the world-space point a viewport is centered on, for the §4.4
// is_chunk_visible visibility test.
type Camera struct {
	X, Y float64
}

// Viewport is the visible extent around a Camera, in world-space cells.
type Viewport struct {
	W, H float64
}

// IsChunkVisible reports whether coord's chunk rectangle overlaps the AABB
// formed by cam and viewport (§4.4's is_chunk_visible: "AABB overlap between
// chunk rect and viewport rect"). Corners are expressed as mgl64.Vec2, the
// same vector type the ore-vein populator uses for its own 2D geometry.
func (m *ChunkManager) IsChunkVisible(coord ChunkCoord, cam Camera, viewport Viewport) bool {
	chunkMin := mgl64.Vec2{float64(coord.X()) * float64(m.chunkW), float64(coord.Y()) * float64(m.chunkH)}
	chunkMax := chunkMin.Add(mgl64.Vec2{float64(m.chunkW), float64(m.chunkH)})

	viewMin := mgl64.Vec2{cam.X - viewport.W/2, cam.Y - viewport.H/2}
	viewMax := viewMin.Add(mgl64.Vec2{viewport.W, viewport.H})

	return chunkMin[0] < viewMax[0] && chunkMax[0] > viewMin[0] &&
		chunkMin[1] < viewMax[1] && chunkMax[1] > viewMin[1]
}
