package chunk

import (
	"testing"

	"github.com/emberreach/sandfall/world/material"
)

func countMaterial(c *Chunk, m material.Material) int {
	n := 0
	for _, cell := range c.Materials() {
		if cell == m {
			n++
		}
	}
	return n
}

// TestMassConservationImmobile covers §8 property 1: a chunk of only Empty
// and Stone never changes and never reports Dirty after a warm-up tick.
func TestMassConservationImmobile(t *testing.T) {
	c := New(16, 16, 0, 0, 1)
	for x := 0; x < 16; x++ {
		c.Set(x, 15, material.Stone)
	}
	c.Update(Neighbors{})
	before := append([]material.Material(nil), c.Materials()...)

	c.Update(Neighbors{})
	for i, m := range c.Materials() {
		if m != before[i] {
			t.Fatalf("cell %d changed from %s to %s in a static configuration", i, before[i], m)
		}
	}
	if c.Dirty {
		t.Fatalf("static Stone/Empty chunk should go to sleep after the warm-up tick")
	}
}

// TestSandStacks covers §8 scenario S1: ten Sand cells dropped from the top
// row of a 64x64 chunk reach the floor after 64 ticks, with none lost.
func TestSandStacks(t *testing.T) {
	const w, h = 64, 64
	c := New(w, h, 0, 0, 7)
	for x := 10; x < 20; x++ {
		c.Set(x, 0, material.Sand)
	}
	initialCount := countMaterial(c, material.Sand)

	for i := 0; i < h; i++ {
		c.Update(Neighbors{})
	}

	if got := countMaterial(c, material.Sand); got != initialCount {
		t.Fatalf("sand count changed: started with %d, ended with %d", initialCount, got)
	}
	for x := 10; x < 20; x++ {
		if c.Get(x, h-1) != material.Sand {
			t.Errorf("expected Sand at (%d,%d), got %s", x, h-1, c.Get(x, h-1))
		}
	}
}

// TestBoundaryCrossing covers §8 property 10: a Sand cell at the bottom row
// falls into row 0 of the chunk below on the next tick, iff that cell is
// Empty there.
func TestBoundaryCrossing(t *testing.T) {
	top := New(8, 8, 0, 0, 2)
	below := New(8, 8, 0, 8, 3)
	top.Set(3, 7, material.Sand)

	top.Update(Neighbors{Below: below})

	if top.Get(3, 7) != material.Empty {
		t.Fatalf("expected source cell to clear, got %s", top.Get(3, 7))
	}
	if below.Get(3, 0) != material.Sand {
		t.Fatalf("expected Sand to land in the chunk below at (3,0), got %s", below.Get(3, 0))
	}
	if !below.ModifiedSinceSave {
		t.Fatalf("writing into the neighbor chunk must mark it modified")
	}
}

// TestBoundaryCrossingBlockedWhenOccupied ensures a sand cell does not cross
// into occupied neighbor slots: the cell straight below and both diagonal
// cells below are filled, so none of its three fall moves is open.
func TestBoundaryCrossingBlockedWhenOccupied(t *testing.T) {
	top := New(8, 8, 0, 0, 2)
	below := New(8, 8, 0, 8, 3)
	top.Set(3, 7, material.Sand)
	below.Set(2, 0, material.Stone)
	below.Set(3, 0, material.Stone)
	below.Set(4, 0, material.Stone)

	top.Update(Neighbors{Below: below})

	if top.Get(3, 7) != material.Sand {
		t.Fatalf("sand should stay put when the destination is occupied")
	}
}

// TestDeterminism covers §8 property 5: two chunks built from the same seed
// and the same starting state produce byte-identical results after N ticks.
func TestDeterminism(t *testing.T) {
	build := func() *Chunk {
		c := New(32, 32, 0, 0, 99)
		for x := 8; x < 24; x++ {
			c.Set(x, 0, material.Water)
		}
		c.Set(16, 16, material.Fire)
		for x := 10; x < 22; x++ {
			c.Set(x, 20, material.Wood)
		}
		return c
	}
	a, b := build(), build()
	for i := 0; i < 50; i++ {
		a.Update(Neighbors{})
		b.Update(Neighbors{})
	}
	am, bm := a.Materials(), b.Materials()
	for i := range am {
		if am[i] != bm[i] {
			t.Fatalf("determinism violated at cell %d: %s vs %s", i, am[i], bm[i])
		}
	}
}

func TestOutOfBoundsGetReturnsEmpty(t *testing.T) {
	c := New(4, 4, 0, 0, 1)
	if c.Get(-1, 0) != material.Empty {
		t.Fatalf("out-of-bounds Get must return Empty")
	}
	if c.Get(4, 4) != material.Empty {
		t.Fatalf("out-of-bounds Get must return Empty")
	}
}

func TestSetOutOfBoundsIsNoOp(t *testing.T) {
	c := New(4, 4, 0, 0, 1)
	c.Set(-1, -1, material.Sand)
	if c.Dirty {
		t.Fatalf("an out-of-bounds Set must not mark the chunk dirty")
	}
}
