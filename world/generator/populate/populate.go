// Package populate holds generation passes that scatter discrete features
// (ore veins, pools) across already-filled terrain, the way
// dm-vev-adamant/server/world/generator/pmgen/populate scatters ore and
// tree populators across already-generated blocks. The Populator interface
// here is the 2D, material-grid analogue of that package's
// Populator.Populate(w, pos, chunk, r).
package populate

import (
	"github.com/emberreach/sandfall/world/chunk"
	"github.com/emberreach/sandfall/world/generator/genrand"
)

// Populator scatters a feature across a chunk already filled with base
// terrain. worldX/worldY are the chunk's world-space top-left corner, used
// to evaluate any global (seed, position) formulas consistently regardless
// of which chunk is being generated.
type Populator interface {
	Populate(c *chunk.Chunk, worldX, worldY int, r *genrand.Stream)
}
