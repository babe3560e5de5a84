package extract

import (
	"errors"
	"testing"

	"canvasbridge/internal/geometry"
	"canvasbridge/internal/host"
	"canvasbridge/internal/host/inmem"
	"canvasbridge/internal/imagecodec"
)

func TestFromSelection(t *testing.T) {
	shapes := []inmem.BoundsShape{inmem.BoundsObject, inmem.BoundsUnderscore, inmem.BoundsArray}

	for _, shape := range shapes {
		t.Run(string(shape), func(t *testing.T) {
			h := inmem.NewHost()
			doc := h.NewDocument(400, 300)
			doc.SetBoundsShape(shape)

			sel := geometry.Rectangle{Left: 10, Top: 20, Right: 110, Bottom: 220}
			if err := doc.SelectRectangle(sel, host.SelectReplace, 0); err != nil {
				t.Fatalf("SelectRectangle: %v", err)
			}

			res, err := FromSelection(doc)
			if err != nil {
				t.Fatalf("FromSelection() error = %v", err)
			}
			if res.Rect != sel {
				t.Errorf("Rect = %v, want %v", res.Rect, sel)
			}

			// Payload must round-trip through the codec with the right size.
			hdr := imagecodec.DecodeHeader(res.PixelData)
			if hdr.Width != 100 || hdr.Height != 200 || hdr.Format != imagecodec.FormatPNG {
				t.Errorf("decoded header = %+v, want 100x200 png", hdr)
			}
		})
	}
}

func TestFromSelectionNoSelection(t *testing.T) {
	h := inmem.NewHost()
	doc := h.NewDocument(400, 300)

	if _, err := FromSelection(doc); !errors.Is(err, host.ErrNoActiveSelection) {
		t.Errorf("expected ErrNoActiveSelection, got %v", err)
	}
}

func TestFromRectDegenerate(t *testing.T) {
	h := inmem.NewHost()
	doc := h.NewDocument(400, 300)

	zero := geometry.Rectangle{Left: 50, Top: 50, Right: 50, Bottom: 150}
	if _, err := FromRect(doc, zero); !errors.Is(err, geometry.ErrDegenerateSelection) {
		t.Errorf("expected ErrDegenerateSelection, got %v", err)
	}
}

func TestFromRectReleasesBuffer(t *testing.T) {
	h := inmem.NewHost()
	doc := h.NewDocument(400, 300)

	rect := geometry.Rectangle{Left: 0, Top: 0, Right: 100, Bottom: 100}
	res, err := FromRect(doc, rect)
	if err != nil {
		t.Fatalf("FromRect() error = %v", err)
	}
	if res.PixelData == "" {
		t.Fatal("empty pixel data")
	}
	if buf := doc.LastPixelBuffer(); buf == nil || !buf.Released() {
		t.Error("pixel buffer not released after successful extract")
	}
}

func TestFromRectHostFailure(t *testing.T) {
	h := inmem.NewHost()
	doc := h.NewDocument(400, 300)
	h.Failures["readPixels"] = errors.New("imaging busy")

	rect := geometry.Rectangle{Left: 0, Top: 0, Right: 100, Bottom: 100}
	if _, err := FromRect(doc, rect); !errors.Is(err, host.ErrOperationFailed) {
		t.Errorf("expected ErrOperationFailed, got %v", err)
	}
}
