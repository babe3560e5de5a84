// Package extract pulls raw pixel data for a rectangle out of the host
// document and hands it back as a base64 payload for the generation APIs.
package extract

import (
	"fmt"

	"canvasbridge/internal/geometry"
	"canvasbridge/internal/host"
	"canvasbridge/internal/imagecodec"
)

// Result is the extracted pixel data plus the exact rectangle it came from.
type Result struct {
	PixelData string             `json:"pixel_data"` // base64, no data-URI prefix
	Rect      geometry.Rectangle `json:"rect"`
	Format    string             `json:"format"`
}

// FromSelection reads the document's active selection and extracts its
// pixels. Fails with host.ErrNoActiveSelection when nothing is selected and
// geometry.ErrDegenerateSelection when the normalized rectangle has no area.
func FromSelection(doc host.Document) (*Result, error) {
	raw, err := doc.SelectionBounds()
	if err != nil {
		return nil, err
	}
	rect, err := geometry.NormalizeBounds(raw)
	if err != nil {
		return nil, fmt.Errorf("reading selection bounds: %w", err)
	}
	return FromRect(doc, rect)
}

// FromRect extracts the pixels inside rect. The host-owned pixel buffer is
// released on every exit path.
func FromRect(doc host.Document, rect geometry.Rectangle) (*Result, error) {
	rect = rect.Round()
	if !rect.Valid() {
		return nil, fmt.Errorf("%w: extract %s", geometry.ErrDegenerateSelection, rect)
	}

	buf, err := doc.ReadPixels(rect)
	if err != nil {
		return nil, fmt.Errorf("reading pixels for %s: %w", rect, err)
	}
	defer buf.Release()

	encoded, err := buf.EncodeBase64(imagecodec.FormatPNG)
	if err != nil {
		return nil, fmt.Errorf("encoding pixels for %s: %w", rect, err)
	}
	return &Result{PixelData: encoded, Rect: rect, Format: imagecodec.FormatPNG}, nil
}
