package handlers

import (
	"encoding/json"
	"net/http"

	"canvasbridge/internal/settings"
)

// SettingsHandler handles the persisted settings blob.
type SettingsHandler struct {
	store *settings.Store
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// Get returns the persisted settings, falling back to defaults when nothing
// has been saved yet.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	set, err := h.store.Load()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, set)
}

// Update replaces the persisted settings wholesale.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var set settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if err := h.store.Save(&set); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, &set)
}
