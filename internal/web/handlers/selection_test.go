package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"canvasbridge/internal/geometry"
	"canvasbridge/internal/host"
	"canvasbridge/internal/host/inmem"
	"canvasbridge/internal/panel"
)

// newTestPanel builds a panel over an in-memory host with one document.
func newTestPanel(t *testing.T, width, height int) (*panel.Panel, *inmem.Document) {
	t.Helper()
	h := inmem.NewHost()
	doc := h.NewDocument(width, height)
	return panel.New(h, nil), doc
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
}

func TestSelectionFit(t *testing.T) {
	p, _ := newTestPanel(t, 2000, 1000)
	handler := NewSelectionHandler(p)

	body := `{"ratio_index": 4, "margin_factor": 0.9}`
	req := httptest.NewRequest("POST", "/api/v1/selection/fit", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	handler.Fit(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, recorder.Code, recorder.Body.String())
	}

	var result struct {
		Rect geometry.Rectangle `json:"rect"`
	}
	decodeBody(t, recorder, &result)

	want := geometry.Rectangle{Left: 550, Top: 50, Right: 1450, Bottom: 950}
	if result.Rect != want {
		t.Errorf("rect = %s, want %s", result.Rect, want)
	}
}

func TestSelectionFit_InvalidBody(t *testing.T) {
	p, _ := newTestPanel(t, 2000, 1000)
	handler := NewSelectionHandler(p)

	req := httptest.NewRequest("POST", "/api/v1/selection/fit", strings.NewReader("not json"))
	recorder := httptest.NewRecorder()

	handler.Fit(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestSelectionFit_BadRatioIndex(t *testing.T) {
	p, _ := newTestPanel(t, 2000, 1000)
	handler := NewSelectionHandler(p)

	body := `{"ratio_index": 999}`
	req := httptest.NewRequest("POST", "/api/v1/selection/fit", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	handler.Fit(recorder, req)

	if recorder.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, recorder.Code)
	}
}

func TestSelectionRescale(t *testing.T) {
	p, doc := newTestPanel(t, 1000, 1000)
	sel := geometry.Rectangle{Left: 100, Top: 100, Right: 300, Bottom: 300}
	if err := doc.SelectRectangle(sel, host.SelectReplace, 0); err != nil {
		t.Fatalf("seeding selection: %v", err)
	}
	handler := NewSelectionHandler(p)

	req := httptest.NewRequest("POST", "/api/v1/selection/rescale", strings.NewReader(`{"percent": 50}`))
	recorder := httptest.NewRecorder()

	handler.Rescale(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, recorder.Code, recorder.Body.String())
	}

	var result struct {
		Rect        geometry.Rectangle `json:"rect"`
		OutOfCanvas bool               `json:"out_of_canvas"`
	}
	decodeBody(t, recorder, &result)

	want := geometry.Rectangle{Left: 50, Top: 50, Right: 350, Bottom: 350}
	if result.Rect != want {
		t.Errorf("rect = %s, want %s", result.Rect, want)
	}
	if result.OutOfCanvas {
		t.Error("selection fits the canvas, out_of_canvas should be false")
	}
}

func TestSelectionRescale_NoSelection(t *testing.T) {
	p, _ := newTestPanel(t, 1000, 1000)
	handler := NewSelectionHandler(p)

	req := httptest.NewRequest("POST", "/api/v1/selection/rescale", strings.NewReader(`{"percent": 50}`))
	recorder := httptest.NewRecorder()

	handler.Rescale(recorder, req)

	if recorder.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, recorder.Code)
	}
}

func TestSelectionExtract(t *testing.T) {
	p, doc := newTestPanel(t, 400, 400)
	sel := geometry.Rectangle{Left: 10, Top: 20, Right: 110, Bottom: 70}
	if err := doc.SelectRectangle(sel, host.SelectReplace, 0); err != nil {
		t.Fatalf("seeding selection: %v", err)
	}
	handler := NewSelectionHandler(p)

	req := httptest.NewRequest("POST", "/api/v1/selection/extract", nil)
	recorder := httptest.NewRecorder()

	handler.Extract(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, recorder.Code, recorder.Body.String())
	}

	var result struct {
		Rect      geometry.Rectangle `json:"rect"`
		Format    string             `json:"format"`
		PixelData string             `json:"pixel_data"`
	}
	decodeBody(t, recorder, &result)

	if result.Rect != sel {
		t.Errorf("rect = %s, want %s", result.Rect, sel)
	}
	if result.Format != "png" {
		t.Errorf("format = %q, want png", result.Format)
	}
	if result.PixelData == "" {
		t.Error("expected pixel data")
	}
}
