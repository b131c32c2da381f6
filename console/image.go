package console

import (
	"image"
	"image/color"

	"github.com/emberreach/sandfall/world"
)

// chunkImage adapts an ActiveChunkView's flat RGBA buffer to image.Image so
// it can be handed directly to image/png.Encode.
type chunkImage struct {
	v *world.ActiveChunkView
}

func (ci chunkImage) ColorModel() color.Model { return color.RGBAModel }

func (ci chunkImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, ci.v.W, ci.v.H)
}

func (ci chunkImage) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= ci.v.W || y >= ci.v.H {
		return color.RGBA{}
	}
	i := (y*ci.v.W + x) * 4
	return color.RGBA{R: ci.v.RGBA[i], G: ci.v.RGBA[i+1], B: ci.v.RGBA[i+2], A: ci.v.RGBA[i+3]}
}
