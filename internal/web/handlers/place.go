package handlers

import (
	"encoding/json"
	"net/http"

	"canvasbridge/internal/geometry"
	"canvasbridge/internal/panel"
)

// PlaceHandler handles image placement and generation endpoints.
type PlaceHandler struct {
	panel *panel.Panel
}

// NewPlaceHandler creates a new place handler.
func NewPlaceHandler(p *panel.Panel) *PlaceHandler {
	return &PlaceHandler{panel: p}
}

// PlaceRequest represents a placement request. ImageData is base64, with or
// without a data URI prefix.
type PlaceRequest struct {
	ImageData string             `json:"image_data"`
	Rect      geometry.Rectangle `json:"rect"`
}

// Place writes an image onto a target rectangle of the active document.
func (h *PlaceHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.ImageData == "" {
		respondError(w, http.StatusBadRequest, "image_data is required")
		return
	}

	res, err := h.panel.PlaceGeneratedImage(r.Context(), req.ImageData, req.Rect)
	if err != nil {
		status := statusForHostError(err)
		body := map[string]any{"error": err.Error()}
		if res != nil {
			body["stage"] = res.Stage
		}
		respondJSON(w, status, body)
		return
	}

	respondJSON(w, http.StatusOK, res)
}

// GenerateRequest represents a generate-and-place request.
type GenerateRequest struct {
	Prompt       string  `json:"prompt"`
	RatioIndex   int     `json:"ratio_index"`
	UseSelection bool    `json:"use_selection"`
	Optimize     bool    `json:"optimize"`
	MarginFactor float64 `json:"margin_factor"`
}

// Generate runs the full pipeline: target rectangle, optional prompt
// optimization, provider call, placement.
func (h *PlaceHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Prompt == "" {
		respondError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	out, err := h.panel.GenerateAndPlace(r.Context(), panel.GenerateOptions{
		Prompt:       req.Prompt,
		RatioIndex:   req.RatioIndex,
		UseSelection: req.UseSelection,
		Optimize:     req.Optimize,
		MarginFactor: req.MarginFactor,
	})
	if err != nil {
		respondError(w, statusForHostError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, out)
}
