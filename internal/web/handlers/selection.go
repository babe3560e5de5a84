package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"canvasbridge/internal/geometry"
	"canvasbridge/internal/host"
	"canvasbridge/internal/panel"
)

// SelectionHandler handles selection geometry endpoints.
type SelectionHandler struct {
	panel *panel.Panel
}

// NewSelectionHandler creates a new selection handler.
func NewSelectionHandler(p *panel.Panel) *SelectionHandler {
	return &SelectionHandler{panel: p}
}

// statusForHostError maps domain errors to HTTP status codes. Validation
// failures are the caller's fault; missing document state is a conflict with
// the host's current state; anything else is a server-side failure.
func statusForHostError(err error) int {
	switch {
	case errors.Is(err, geometry.ErrDegenerateSelection),
		errors.Is(err, geometry.ErrInvalidBoundsShape):
		return http.StatusBadRequest
	case errors.Is(err, host.ErrNoDocument),
		errors.Is(err, host.ErrNoActiveSelection):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FitRequest represents a fitted-selection request.
type FitRequest struct {
	RatioIndex   int     `json:"ratio_index"`
	MarginFactor float64 `json:"margin_factor"`
}

// Fit creates the largest margin-shrunk selection of a catalog ratio on the
// active document.
func (h *SelectionHandler) Fit(w http.ResponseWriter, r *http.Request) {
	var req FitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	rect, err := h.panel.CreateFittedSelection(r.Context(), req.RatioIndex, req.MarginFactor)
	if err != nil {
		respondError(w, statusForHostError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"rect": rect})
}

// RescaleRequest represents a rescale request.
type RescaleRequest struct {
	Percent float64 `json:"percent"`
}

// Rescale scales the active selection around its center by a percent delta.
func (h *SelectionHandler) Rescale(w http.ResponseWriter, r *http.Request) {
	var req RescaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	res, err := h.panel.RescaleSelection(r.Context(), req.Percent)
	if err != nil {
		respondError(w, statusForHostError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, res)
}

// Extract returns the pixels of the active selection as base64 PNG.
func (h *SelectionHandler) Extract(w http.ResponseWriter, r *http.Request) {
	res, err := h.panel.ExtractSelection(r.Context())
	if err != nil {
		respondError(w, statusForHostError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"rect":       res.Rect,
		"format":     res.Format,
		"pixel_data": res.PixelData,
	})
}
