package aei

import (
	"fmt"
	"image"
)

// Texture is a rectangular region of the atlas, relative to its origin.
// It holds no pixels; those live in the owning AEI.
type Texture struct {
	X      int
	Y      int
	Width  int
	Height int
}

// NewTexture returns the texture at (x, y) with the given size.
func NewTexture(x, y, width, height int) Texture {
	return Texture{X: x, Y: y, Width: width, Height: height}
}

// Rect returns the texture box as an image rectangle.
func (t Texture) Rect() image.Rectangle {
	return image.Rect(t.X, t.Y, t.X+t.Width, t.Y+t.Height)
}

// Position returns the top-left corner.
func (t Texture) Position() image.Point {
	return image.Pt(t.X, t.Y)
}

// Size returns the width and height as a point.
func (t Texture) Size() image.Point {
	return image.Pt(t.Width, t.Height)
}

// within reports whether t lies inside a width x height atlas.
func (t Texture) within(width, height int) bool {
	return t.X >= 0 && t.Y >= 0 &&
		t.Width >= 1 && t.Height >= 1 &&
		t.Width <= width-t.X && t.Height <= height-t.Y
}

func (t Texture) String() string {
	return fmt.Sprintf("Texture: x: %d, y: %d, w: %d, h: %d", t.X, t.Y, t.Width, t.Height)
}
