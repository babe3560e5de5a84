package geometry

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed ratios.yaml
var ratiosYAML []byte

// AspectRatio is one catalog entry: a named width:height ratio with a
// canonical pixel size suited to the generation service.
type AspectRatio struct {
	Label  string `yaml:"label" json:"label"`
	X      int    `yaml:"x" json:"x"`
	Y      int    `yaml:"y" json:"y"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
}

// Value returns the numeric ratio width/height.
func (a AspectRatio) Value() float64 {
	return float64(a.X) / float64(a.Y)
}

type ratioCatalog struct {
	Ratios []AspectRatio `yaml:"ratios"`
}

var catalog ratioCatalog

func init() {
	if err := yaml.Unmarshal(ratiosYAML, &catalog); err != nil {
		// Embedded file, cannot fail outside a broken build.
		panic("failed to unmarshal embedded ratios.yaml: " + err.Error())
	}
}

// RatioByIndex returns the catalog entry at position i. The index is
// bounds-checked; an out-of-range value is an error, not a fallback, since a
// UI sending a stale index must hear about it.
func RatioByIndex(i int) (AspectRatio, error) {
	if i < 0 || i >= len(catalog.Ratios) {
		return AspectRatio{}, fmt.Errorf("aspect ratio index %d out of range (0-%d)", i, len(catalog.Ratios)-1)
	}
	return catalog.Ratios[i], nil
}

// Ratios returns a copy of the full catalog in index order.
func Ratios() []AspectRatio {
	out := make([]AspectRatio, len(catalog.Ratios))
	copy(out, catalog.Ratios)
	return out
}
