package world

import "testing"

// TestIsChunkVisibleOverlap covers §4.4's is_chunk_visible: a chunk whose
// rect the viewport AABB overlaps is visible, one entirely outside it is
// not.
func TestIsChunkVisibleOverlap(t *testing.T) {
	m := newTestManager(t) // 16x16 chunks

	cam := Camera{X: 8, Y: 8}
	viewport := Viewport{W: 32, H: 32} // covers world x/y in [-8, 24)

	tests := []struct {
		name  string
		coord ChunkCoord
		want  bool
	}{
		{"center chunk", ChunkCoord{0, 0}, true},
		{"adjacent chunk inside viewport", ChunkCoord{1, 0}, true},
		{"far chunk outside viewport", ChunkCoord{5, 5}, false},
		{"chunk just past the viewport's right edge", ChunkCoord{2, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.IsChunkVisible(tt.coord, cam, viewport); got != tt.want {
				t.Errorf("IsChunkVisible(%v) = %v, want %v", tt.coord, got, tt.want)
			}
		})
	}
}
