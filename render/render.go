// Package render defines the narrow contract a rendering backend consumes
// (§4.6). Sandfall itself ships no renderer: drawing the simulation to a
// screen, a game engine, or a remote client is explicitly out of scope.
// This package exists so an external renderer has a stable interface to
// implement against instead of reaching into world.World directly.
package render

import "github.com/emberreach/sandfall/world"

// Source is anything that can report its current set of active chunks for
// drawing. *world.World satisfies it.
type Source interface {
	ActiveChunkViews() []world.ActiveChunkView
}

// Renderer consumes a Source once per frame. Implementations live outside
// this module; this interface only fixes the boundary they are built
// against.
type Renderer interface {
	// RenderFrame is called once per presented frame with the source's
	// current active-chunk views. Implementations must not retain the RGBA
	// slices past the call: the next ActiveChunkViews call may reuse or
	// invalidate the underlying chunk's pixel buffer.
	RenderFrame(views []world.ActiveChunkView) error
}

var _ Source = (*world.World)(nil)
