package placement

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"testing"

	"canvasbridge/internal/geometry"
	"canvasbridge/internal/host"
	"canvasbridge/internal/host/inmem"
	"canvasbridge/internal/imagecodec"
)

// testPayload builds a real PNG payload of the given size.
func testPayload(t *testing.T, width, height int) imagecodec.ImagePayload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	payload, err := imagecodec.Payload(base64.StdEncoding.EncodeToString(buf.Bytes()))
	if err != nil {
		t.Fatalf("building payload: %v", err)
	}
	return payload
}

func testEngine(h *inmem.Host) *Engine {
	e := New(h)
	e.SetCleanupDelay(0)
	return e
}

func TestPlaceStretchesOntoTarget(t *testing.T) {
	h := inmem.NewHost()
	target := h.NewDocument(800, 600)
	e := testEngine(h)

	rect := geometry.Rectangle{Left: 200, Top: 150, Right: 600, Bottom: 450}
	payload := testPayload(t, 100, 50) // aspect ratio differs from target on purpose

	state, err := e.Place(context.Background(), target, payload, rect)
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if state != Finalized {
		t.Errorf("state = %v, want %v", state, Finalized)
	}

	layer, err := target.ActiveLayer()
	if err != nil {
		t.Fatalf("ActiveLayer: %v", err)
	}
	bounds, err := layer.Bounds()
	if err != nil {
		t.Fatalf("Bounds: %v", err)
	}

	// The layer is stretched independently in X and Y to exactly fill the
	// rectangle and recentered on it.
	if math.Abs(bounds.Width()-rect.Width()) > 1 || math.Abs(bounds.Height()-rect.Height()) > 1 {
		t.Errorf("layer size %gx%g, want %gx%g", bounds.Width(), bounds.Height(), rect.Width(), rect.Height())
	}
	if math.Abs(bounds.CenterX()-rect.CenterX()) > 1 || math.Abs(bounds.CenterY()-rect.CenterY()) > 1 {
		t.Errorf("layer center (%g,%g), want (%g,%g)", bounds.CenterX(), bounds.CenterY(), rect.CenterX(), rect.CenterY())
	}

	if ml, ok := layer.(*inmem.Layer); !ok || !ml.SmartObject() {
		t.Error("placed layer was not converted to a smart object")
	}

	// The throwaway document is gone; only the target remains open.
	if open := h.OpenDocuments(); len(open) != 1 {
		t.Errorf("%d documents open after placement, want 1", len(open))
	}
	// Whole sequence ran inside one exclusive scope.
	if h.ExclusiveRuns != 1 {
		t.Errorf("ExclusiveRuns = %d, want 1", h.ExclusiveRuns)
	}
}

func TestPlaceRejectsDegenerateTarget(t *testing.T) {
	h := inmem.NewHost()
	target := h.NewDocument(800, 600)
	e := testEngine(h)

	rect := geometry.Rectangle{Left: 100, Top: 100, Right: 100, Bottom: 300} // zero width
	state, err := e.Place(context.Background(), target, testPayload(t, 10, 10), rect)
	if !errors.Is(err, geometry.ErrDegenerateSelection) {
		t.Fatalf("expected ErrDegenerateSelection, got %v", err)
	}
	if state != Idle {
		t.Errorf("state = %v, want %v (no host mutation before validation)", state, Idle)
	}
	if h.ExclusiveRuns != 0 {
		t.Error("host scope acquired for a rejected request")
	}
}

func TestPlaceRejectsEmptyPayload(t *testing.T) {
	h := inmem.NewHost()
	target := h.NewDocument(800, 600)
	e := testEngine(h)

	rect := geometry.Rectangle{Left: 0, Top: 0, Right: 100, Bottom: 100}
	_, err := e.Place(context.Background(), target, imagecodec.ImagePayload{Format: "png"}, rect)
	if !errors.Is(err, imagecodec.ErrDecodeFailed) {
		t.Errorf("expected ErrDecodeFailed, got %v", err)
	}
}

func TestPlaceAbortsAndCleansUpOnFailure(t *testing.T) {
	tests := []struct {
		name string
		op   string
	}{
		{"open fails", "open"},
		{"duplicate fails", "duplicate"},
		{"convert fails", "convert"},
		{"scale fails", "scale"},
		{"bring to front fails", "bringToFront"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := inmem.NewHost()
			target := h.NewDocument(800, 600)
			e := testEngine(h)
			h.Failures[tt.op] = errors.New("injected")

			rect := geometry.Rectangle{Left: 100, Top: 100, Right: 300, Bottom: 300}
			tempBefore := tempArtifacts(t, h)

			state, err := e.Place(context.Background(), target, testPayload(t, 64, 64), rect)
			if !errors.Is(err, host.ErrOperationFailed) {
				t.Fatalf("expected ErrOperationFailed, got %v", err)
			}
			if state != Aborted {
				t.Errorf("state = %v, want %v", state, Aborted)
			}

			// Throwaway document closed, temp artifact deleted.
			if open := h.OpenDocuments(); len(open) != 1 {
				t.Errorf("%d documents open after abort, want 1", len(open))
			}
			if after := tempArtifacts(t, h); after != tempBefore {
				t.Errorf("%d temp artifacts left behind", after-tempBefore)
			}
		})
	}
}

func TestPlaceDeletesTempOnSuccess(t *testing.T) {
	h := inmem.NewHost()
	target := h.NewDocument(800, 600)
	e := testEngine(h)

	rect := geometry.Rectangle{Left: 0, Top: 0, Right: 200, Bottom: 200}
	if _, err := e.Place(context.Background(), target, testPayload(t, 32, 32), rect); err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if n := tempArtifacts(t, h); n != 0 {
		t.Errorf("%d temp artifacts remain after success", n)
	}
}

func TestPlaceDeleteFailureIsLoggedNotEscalated(t *testing.T) {
	h := inmem.NewHost()
	target := h.NewDocument(800, 600)
	e := testEngine(h)

	var logged bool
	e.logf = func(format string, args ...any) { logged = true }
	h.Failures["deleteTemp"] = errors.New("file locked")

	rect := geometry.Rectangle{Left: 0, Top: 0, Right: 200, Bottom: 200}
	state, err := e.Place(context.Background(), target, testPayload(t, 32, 32), rect)
	if err != nil {
		t.Fatalf("Place() error = %v, deletion failure must not escalate", err)
	}
	if state != Finalized {
		t.Errorf("state = %v, want %v", state, Finalized)
	}
	if !logged {
		t.Error("deletion failure was not logged")
	}
}

func TestPlaceSkipsTranslateWhenCentered(t *testing.T) {
	h := inmem.NewHost()
	target := h.NewDocument(400, 400)
	e := testEngine(h)

	// Image fills the exact target rectangle already: scale is 100% and the
	// centers coincide, so the translate call must be skipped entirely.
	h.Failures["translate"] = errors.New("must not be called")

	rect := geometry.Rectangle{Left: 0, Top: 0, Right: 400, Bottom: 400}
	state, err := e.Place(context.Background(), target, testPayload(t, 400, 400), rect)
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if state != Finalized {
		t.Errorf("state = %v, want %v", state, Finalized)
	}
}

// tempArtifacts counts files currently present in the in-memory host temp area.
func tempArtifacts(t *testing.T, h *inmem.Host) int {
	t.Helper()
	// The host writes real temp files; probe via a sentinel write.
	path, err := h.WriteTempFile("probe.bin", []byte{0})
	if err != nil {
		t.Fatalf("probing temp dir: %v", err)
	}
	dir := probeDir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading temp dir: %v", err)
	}
	if err := h.DeleteTempFile(path); err != nil {
		t.Fatalf("removing probe: %v", err)
	}
	return len(entries) - 1 // exclude the probe itself
}

func probeDir(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if os.IsPathSeparator(path[i]) {
			return path[:i]
		}
	}
	return "."
}
