// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// Size is a width and height in pixels.
type Size struct {
	Width  int
	Height int
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Halve returns the size with both dimensions divided by two, rounding down.
func (s Size) Halve() Size {
	return Size{Width: s.Width / 2, Height: s.Height / 2}
}

// Rect is a pixel rectangle on a render target, with the origin in the top-left corner.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Size returns the width and height of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}
