// Package geometry provides the pixel-rectangle math used to map selections,
// aspect-ratio presets and generated images onto a document canvas.
package geometry

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidBoundsShape is returned when a host bounds value cannot be
	// recognized as any supported rectangle representation.
	ErrInvalidBoundsShape = errors.New("invalid bounds shape")

	// ErrDegenerateSelection is returned when a computed rectangle has
	// non-positive width or height.
	ErrDegenerateSelection = errors.New("degenerate selection")
)

// Rectangle is an axis-aligned pixel region in document coordinates.
// A valid rectangle satisfies Right > Left and Bottom > Top; zero or
// negative area is an error state, never a usable value.
type Rectangle struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width returns Right - Left. Derived values are always recomputed from the
// corners so a mutated rectangle can never carry stale dimensions.
func (r Rectangle) Width() float64 {
	return r.Right - r.Left
}

// Height returns Bottom - Top.
func (r Rectangle) Height() float64 {
	return r.Bottom - r.Top
}

// CenterX returns the horizontal center of the rectangle.
func (r Rectangle) CenterX() float64 {
	return (r.Left + r.Right) / 2
}

// CenterY returns the vertical center of the rectangle.
func (r Rectangle) CenterY() float64 {
	return (r.Top + r.Bottom) / 2
}

// Valid reports whether the rectangle has positive area.
func (r Rectangle) Valid() bool {
	return r.Right > r.Left && r.Bottom > r.Top
}

// Round snaps all four edges to integer pixels.
func (r Rectangle) Round() Rectangle {
	return Rectangle{
		Left:   math.Round(r.Left),
		Top:    math.Round(r.Top),
		Right:  math.Round(r.Right),
		Bottom: math.Round(r.Bottom),
	}
}

// Inside reports whether the rectangle lies entirely within a canvas of the
// given size.
func (r Rectangle) Inside(canvasWidth, canvasHeight float64) bool {
	return r.Left >= 0 && r.Top >= 0 && r.Right <= canvasWidth && r.Bottom <= canvasHeight
}

func (r Rectangle) String() string {
	return fmt.Sprintf("[%g,%g %gx%g]", r.Left, r.Top, r.Width(), r.Height())
}
