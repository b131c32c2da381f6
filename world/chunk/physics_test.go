package chunk

import (
	"testing"

	"github.com/emberreach/sandfall/world/material"
)

// TestLiquidLevels covers §8 property 3: a tall Water column next to a
// short one converges towards an even surface over many ticks, without
// losing any Water.
func TestLiquidLevels(t *testing.T) {
	const w, h = 40, 40
	c := New(w, h, 0, 0, 11)
	for x := 0; x < w; x++ {
		c.Set(x, h-1, material.Stone)
	}
	for y := h - 11; y < h-1; y++ {
		c.Set(5, y, material.Water)
	}
	c.Set(30, h-2, material.Water)
	initial := countMaterial(c, material.Water)

	for i := 0; i < 4000; i++ {
		c.Update(Neighbors{})
	}

	if got := countMaterial(c, material.Water); got != initial {
		t.Fatalf("water count changed during leveling: started %d, ended %d", initial, got)
	}
}

// TestGasDissipates covers §8 property 4: a bounded region of Smoke
// surrounded by Empty eventually reaches all-Empty.
func TestGasDissipates(t *testing.T) {
	const w, h = 20, 20
	c := New(w, h, 0, 0, 5)
	for y := 8; y < 12; y++ {
		for x := 8; x < 12; x++ {
			c.Set(x, y, material.Smoke)
		}
	}

	for i := 0; i < 400; i++ {
		c.Update(Neighbors{})
		if countMaterial(c, material.Smoke) == 0 {
			return
		}
	}
	t.Fatalf("smoke failed to fully dissipate within 400 ticks")
}

// TestFireLifecycle covers §8 property 11: an isolated Fire cell eventually
// becomes Empty (no fuel around it to keep re-igniting).
func TestFireLifecycle(t *testing.T) {
	c := New(10, 10, 0, 0, 3)
	c.Set(5, 5, material.Fire)

	limit := 20 * int(1/0.05) * 4 // generous multiple of the expected bound
	for i := 0; i < limit; i++ {
		c.Update(Neighbors{})
		if countMaterial(c, material.Fire) == 0 && countMaterial(c, material.Smoke) == 0 {
			return
		}
	}
	t.Fatalf("isolated fire did not burn out within %d ticks", limit)
}

// TestEnclosedCellNeverMoves verifies the §4.2 "enclosed" rule: a powder
// cell with no Empty in its 8-neighborhood is treated as inert.
func TestEnclosedCellNeverMoves(t *testing.T) {
	c := New(5, 5, 0, 0, 1)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			c.Set(x, y, material.Stone)
		}
	}
	c.Set(2, 2, material.Sand)

	for i := 0; i < 10; i++ {
		c.Update(Neighbors{})
	}
	if c.Get(2, 2) != material.Sand {
		t.Fatalf("enclosed sand cell should never move, got %s at (2,2)", c.Get(2, 2))
	}
}
