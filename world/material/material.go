// Package material holds the static, process-wide registry of cell
// materials. The table is read-only once built and is safe for concurrent
// use from every chunk and the generator.
package material

// Material identifies a cell's substance. The numeric value is the on-disk
// id used by the chunk file format (§6): existing ids must never change,
// new materials are appended.
type Material uint8

const (
	Empty Material = iota
	Sand
	Water
	Stone
	Wood
	Fire
	Oil
	Grass
	Dirt
	Gravel
	Smoke
	Steam
	TopSoil
	Mud
	Coal
	ToxicSludge
	Bedrock

	// count is the number of recognised materials and must stay last.
	count
)

// Category groups materials by the movement rules that apply to them.
type Category uint8

const (
	CategoryEmpty Category = iota
	CategorySolid
	CategoryPowder
	CategoryLiquid
	CategoryGas
)

// Props describes the static, immutable attributes of a Material.
type Props struct {
	Category     Category
	IsFlammable  bool
	R, G, B      uint8
	Transparency uint8
}

// table is indexed by Material and built once at package init. It is never
// mutated afterwards, so reads require no synchronisation.
var table [count]Props

func init() {
	table[Empty] = Props{Category: CategoryEmpty, R: 0, G: 0, B: 0, Transparency: 0}
	table[Sand] = Props{Category: CategoryPowder, R: 219, G: 197, B: 133, Transparency: 255}
	table[Water] = Props{Category: CategoryLiquid, R: 40, G: 100, B: 200, Transparency: 200}
	table[Stone] = Props{Category: CategorySolid, R: 120, G: 120, B: 125, Transparency: 255}
	table[Wood] = Props{Category: CategorySolid, IsFlammable: true, R: 110, G: 74, B: 44, Transparency: 255}
	table[Fire] = Props{Category: CategoryGas, R: 230, G: 110, B: 20, Transparency: 230}
	table[Oil] = Props{Category: CategoryLiquid, IsFlammable: true, R: 60, G: 50, B: 40, Transparency: 230}
	table[Grass] = Props{Category: CategorySolid, IsFlammable: true, R: 70, G: 140, B: 50, Transparency: 255}
	table[Dirt] = Props{Category: CategorySolid, R: 101, G: 67, B: 33, Transparency: 255}
	table[Gravel] = Props{Category: CategoryPowder, R: 140, G: 135, B: 130, Transparency: 255}
	table[Smoke] = Props{Category: CategoryGas, R: 90, G: 90, B: 90, Transparency: 140}
	table[Steam] = Props{Category: CategoryGas, R: 225, G: 225, B: 230, Transparency: 140}
	table[TopSoil] = Props{Category: CategorySolid, R: 86, G: 125, B: 56, Transparency: 255}
	table[Mud] = Props{Category: CategoryLiquid, R: 74, G: 58, B: 42, Transparency: 255}
	table[Coal] = Props{Category: CategorySolid, R: 45, G: 45, B: 48, Transparency: 255}
	table[ToxicSludge] = Props{Category: CategoryLiquid, R: 110, G: 160, B: 40, Transparency: 220}
	table[Bedrock] = Props{Category: CategorySolid, R: 50, G: 50, B: 55, Transparency: 255}
}

// Properties returns the static properties of m. Unrecognised ids (for
// example a stale value read from a chunk file produced by a newer release)
// fall back to Empty's properties rather than panicking.
func Properties(m Material) Props {
	if int(m) >= len(table) {
		return table[Empty]
	}
	return table[m]
}

// Count returns the number of recognised material ids, for bounds checks in
// callers that validate deserialized chunk data.
func Count() int { return int(count) }

func (m Material) String() string {
	switch m {
	case Empty:
		return "Empty"
	case Sand:
		return "Sand"
	case Water:
		return "Water"
	case Stone:
		return "Stone"
	case Wood:
		return "Wood"
	case Fire:
		return "Fire"
	case Oil:
		return "Oil"
	case Grass:
		return "Grass"
	case Dirt:
		return "Dirt"
	case Gravel:
		return "Gravel"
	case Smoke:
		return "Smoke"
	case Steam:
		return "Steam"
	case TopSoil:
		return "TopSoil"
	case Mud:
		return "Mud"
	case Coal:
		return "Coal"
	case ToxicSludge:
		return "ToxicSludge"
	case Bedrock:
		return "Bedrock"
	default:
		return "Unknown"
	}
}

// IsMobile reports whether m's category ever moves under the physics rules
// in world/chunk. Solid and Empty never move on their own.
func (m Material) IsMobile() bool {
	switch Properties(m).Category {
	case CategoryPowder, CategoryLiquid, CategoryGas:
		return true
	default:
		return false
	}
}
