package geometry

import "fmt"

// DefaultMarginFactor shrinks a fitted selection slightly so it reads as a
// framed region instead of touching the canvas edges.
const DefaultMarginFactor = 0.9

// FitRatioToCanvas computes the largest rectangle of the given aspect ratio
// that fits inside a canvas, shrinks it by marginFactor, centers it, clamps
// it to the canvas and rounds to integer pixels.
//
// The margin is applied before clamping on purpose: shrinkage is relative to
// the ideal ratio rectangle, so the visual margin stays consistent whether or
// not clamping kicks in. Pass marginFactor <= 0 to get DefaultMarginFactor.
func FitRatioToCanvas(canvasWidth, canvasHeight float64, ratio AspectRatio, marginFactor float64) (Rectangle, error) {
	if canvasWidth <= 0 || canvasHeight <= 0 {
		return Rectangle{}, fmt.Errorf("%w: canvas %gx%g", ErrDegenerateSelection, canvasWidth, canvasHeight)
	}
	if marginFactor <= 0 {
		marginFactor = DefaultMarginFactor
	}

	// Fit by height when the canvas is wider than the ratio, otherwise by
	// width, so the ratio rectangle is the largest one fully inside.
	var fitW, fitH float64
	if canvasWidth/canvasHeight > ratio.Value() {
		fitH = canvasHeight
		fitW = canvasHeight * ratio.Value()
	} else {
		fitW = canvasWidth
		fitH = canvasWidth / ratio.Value()
	}

	fitW *= marginFactor
	fitH *= marginFactor

	cx := canvasWidth / 2
	cy := canvasHeight / 2
	rect := Rectangle{
		Left:   cx - fitW/2,
		Top:    cy - fitH/2,
		Right:  cx + fitW/2,
		Bottom: cy + fitH/2,
	}

	rect = clampToCanvas(rect, canvasWidth, canvasHeight).Round()
	if !rect.Valid() {
		return Rectangle{}, fmt.Errorf("%w: fitted %q onto %gx%g canvas", ErrDegenerateSelection, ratio.Label, canvasWidth, canvasHeight)
	}
	return rect, nil
}

// ScaleRectByPercent grows or shrinks a rectangle around its own center.
// percent is a delta: +50 scales to 150%, -25 to 75%. The result is rounded
// to integer pixels but NOT clamped to any canvas; expanding past the canvas
// is a valid request and the caller decides whether to warn about it.
func ScaleRectByPercent(rect Rectangle, percent float64) (Rectangle, error) {
	if !rect.Valid() {
		return Rectangle{}, fmt.Errorf("%w: input %s", ErrDegenerateSelection, rect)
	}

	factor := 1 + percent/100
	newW := rect.Width() * factor
	newH := rect.Height() * factor
	cx := rect.CenterX()
	cy := rect.CenterY()

	out := Rectangle{
		Left:   cx - newW/2,
		Top:    cy - newH/2,
		Right:  cx + newW/2,
		Bottom: cy + newH/2,
	}.Round()
	if !out.Valid() {
		return Rectangle{}, fmt.Errorf("%w: %s scaled by %g%%", ErrDegenerateSelection, rect, percent)
	}
	return out, nil
}

func clampToCanvas(r Rectangle, w, h float64) Rectangle {
	return Rectangle{
		Left:   clamp(r.Left, 0, w),
		Top:    clamp(r.Top, 0, h),
		Right:  clamp(r.Right, 0, w),
		Bottom: clamp(r.Bottom, 0, h),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
