package handlers

import (
	"net/http"

	"canvasbridge/internal/geometry"
)

// ratioEntry is one catalog ratio plus its index, which the UI sends back
// when requesting a fit or a generation.
type ratioEntry struct {
	Index  int     `json:"index"`
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

// ListRatios returns the aspect ratio catalog.
func ListRatios(w http.ResponseWriter, r *http.Request) {
	ratios := geometry.Ratios()
	entries := make([]ratioEntry, len(ratios))
	for i, ratio := range ratios {
		entries[i] = ratioEntry{
			Index:  i,
			Label:  ratio.Label,
			Value:  ratio.Value(),
			Width:  ratio.Width,
			Height: ratio.Height,
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"ratios": entries})
}
