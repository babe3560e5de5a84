package geometry

import "fmt"

// PixelConvertible is implemented by host unit values that know how to
// convert themselves to document pixels (e.g. a point or percent quantity).
type PixelConvertible interface {
	AsPixels() float64
}

// boundsKeys lists the accepted property names for each rectangle corner.
// Hosts expose either plain names or underscore-prefixed internals.
var boundsKeys = [4][2]string{
	{"left", "_left"},
	{"top", "_top"},
	{"right", "_right"},
	{"bottom", "_bottom"},
}

// NormalizeBounds converts a host-provided bounds value into a canonical
// pixel Rectangle. Three shapes are accepted: an ordered 4-element sequence,
// an object with left/top/right/bottom fields (underscore-prefixed variants
// included), or an already-canonical Rectangle. Each field may be a plain
// number or a PixelConvertible unit value.
//
// Anything else fails with ErrInvalidBoundsShape. An unrecognized shape is
// never defaulted to a zero rectangle; that would mask a real selection-read
// failure upstream.
func NormalizeBounds(v any) (Rectangle, error) {
	switch b := v.(type) {
	case Rectangle:
		return b, nil
	case *Rectangle:
		if b == nil {
			return Rectangle{}, fmt.Errorf("%w: nil rectangle", ErrInvalidBoundsShape)
		}
		return *b, nil
	case []float64:
		if len(b) != 4 {
			return Rectangle{}, fmt.Errorf("%w: sequence of %d values", ErrInvalidBoundsShape, len(b))
		}
		return Rectangle{Left: b[0], Top: b[1], Right: b[2], Bottom: b[3]}, nil
	case []any:
		if len(b) != 4 {
			return Rectangle{}, fmt.Errorf("%w: sequence of %d values", ErrInvalidBoundsShape, len(b))
		}
		var px [4]float64
		for i, field := range b {
			n, err := toPixels(field)
			if err != nil {
				return Rectangle{}, fmt.Errorf("%w: element %d: %v", ErrInvalidBoundsShape, i, err)
			}
			px[i] = n
		}
		return Rectangle{Left: px[0], Top: px[1], Right: px[2], Bottom: px[3]}, nil
	case map[string]any:
		var px [4]float64
		for i, keys := range boundsKeys {
			field, ok := b[keys[0]]
			if !ok {
				field, ok = b[keys[1]]
			}
			if !ok {
				return Rectangle{}, fmt.Errorf("%w: missing field %q", ErrInvalidBoundsShape, keys[0])
			}
			n, err := toPixels(field)
			if err != nil {
				return Rectangle{}, fmt.Errorf("%w: field %q: %v", ErrInvalidBoundsShape, keys[0], err)
			}
			px[i] = n
		}
		return Rectangle{Left: px[0], Top: px[1], Right: px[2], Bottom: px[3]}, nil
	default:
		return Rectangle{}, fmt.Errorf("%w: %T", ErrInvalidBoundsShape, v)
	}
}

// toPixels coerces a single bounds field to a pixel count. Unit values are
// asked to convert themselves; plain numbers pass through.
func toPixels(v any) (float64, error) {
	switch n := v.(type) {
	case PixelConvertible:
		return n.AsPixels(), nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("not a number or unit value: %T", v)
	}
}
