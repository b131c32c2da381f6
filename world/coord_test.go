package world

import "testing"

// TestCoordRoundTrip covers §8 property 9, including negative coordinates.
func TestCoordRoundTrip(t *testing.T) {
	const w, h = 64, 64
	cases := []struct{ x, y int }{
		{0, 0}, {63, 63}, {64, 0}, {-1, -1}, {-3, -5}, {-65, 10}, {100, -200},
	}
	for _, tc := range cases {
		coord, lx, ly := ToChunk(tc.x, tc.y, w, h)
		gx, gy := FromChunk(coord, lx, ly, w, h)
		if gx != tc.x || gy != tc.y {
			t.Errorf("round trip failed for (%d,%d): got (%d,%d) via chunk %v local (%d,%d)", tc.x, tc.y, gx, gy, coord, lx, ly)
		}
		if lx < 0 || lx >= w || ly < 0 || ly >= h {
			t.Errorf("local coords out of range for (%d,%d): (%d,%d)", tc.x, tc.y, lx, ly)
		}
	}
}

func TestChunkCoordPackRoundTrip(t *testing.T) {
	cases := []ChunkCoord{{0, 0}, {-1, -1}, {1234, -5678}, {-1 << 20, 1 << 20}}
	for _, c := range cases {
		if got := unpack(c.packed()); got != c {
			t.Errorf("pack/unpack round trip failed for %v, got %v", c, got)
		}
	}
}
