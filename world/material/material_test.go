package material

import "testing"

func TestPropertiesFallsBackToEmpty(t *testing.T) {
	p := Properties(Material(255))
	if p.Category != CategoryEmpty {
		t.Fatalf("expected out-of-range material to fall back to Empty, got %+v", p)
	}
}

func TestEmptyIsNotMobile(t *testing.T) {
	if Empty.IsMobile() {
		t.Fatalf("Empty must never be mobile")
	}
	if Stone.IsMobile() {
		t.Fatalf("Stone must never be mobile")
	}
}

func TestMobileCategories(t *testing.T) {
	for _, m := range []Material{Sand, Gravel, Water, Oil, Mud, ToxicSludge, Smoke, Steam, Fire} {
		if !m.IsMobile() {
			t.Errorf("%s should be mobile", m)
		}
	}
}

func TestStringKnown(t *testing.T) {
	if Sand.String() != "Sand" {
		t.Fatalf("unexpected string for Sand: %s", Sand.String())
	}
	if Material(255).String() != "Unknown" {
		t.Fatalf("expected Unknown for out-of-range material")
	}
}
