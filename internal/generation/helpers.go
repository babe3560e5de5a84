package generation

import (
	"math"

	"canvasbridge/internal/geometry"
)

// MaxReferenceSize caps the long side of reference images sent along with a
// generation or optimization request.
const MaxReferenceSize = 768

// closestAspectLabel maps a requested pixel size onto the catalog ratio
// label nearest to it, which is also the label set the generation services
// accept.
func closestAspectLabel(width, height int) string {
	want := float64(width) / float64(height)
	best := ""
	bestDiff := math.MaxFloat64
	for _, r := range geometry.Ratios() {
		if diff := math.Abs(r.Value() - want); diff < bestDiff {
			bestDiff = diff
			best = r.Label
		}
	}
	return best
}
