package inmem

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"canvasbridge/internal/geometry"
	"canvasbridge/internal/host"
)

// BoundsShape selects which raw representation SelectionBounds returns, so
// tests can exercise every branch of the unit-conversion layer.
type BoundsShape string

const (
	BoundsObject     BoundsShape = "object"
	BoundsUnderscore BoundsShape = "underscore"
	BoundsArray      BoundsShape = "array"
)

// Document is one in-memory document.
type Document struct {
	host        *Host
	width       int
	height      int
	layers      []*Layer // bottom to top
	selection   *geometry.Rectangle
	closed      bool
	boundsShape BoundsShape
	lastBuffer  *PixelBuffer
}

// LastPixelBuffer returns the most recent buffer handed out by ReadPixels,
// so tests can assert it was released.
func (d *Document) LastPixelBuffer() *PixelBuffer { return d.lastBuffer }

// SetBoundsShape controls the raw shape of SelectionBounds results.
func (d *Document) SetBoundsShape(shape BoundsShape) {
	d.boundsShape = shape
}

func (d *Document) Width() float64  { return float64(d.width) }
func (d *Document) Height() float64 { return float64(d.height) }

// SelectionBounds returns the current selection in the configured raw shape.
func (d *Document) SelectionBounds() (any, error) {
	if d.closed {
		return nil, host.ErrNoDocument
	}
	if d.selection == nil {
		return nil, host.ErrNoActiveSelection
	}
	r := *d.selection
	switch d.boundsShape {
	case BoundsArray:
		return []any{r.Left, r.Top, r.Right, r.Bottom}, nil
	case BoundsUnderscore:
		return map[string]any{"_left": r.Left, "_top": r.Top, "_right": r.Right, "_bottom": r.Bottom}, nil
	default:
		return map[string]any{"left": r.Left, "top": r.Top, "right": r.Right, "bottom": r.Bottom}, nil
	}
}

// SelectRectangle sets or combines a rectangular selection.
func (d *Document) SelectRectangle(rect geometry.Rectangle, mode host.SelectionMode, feather float64) error {
	if d.closed {
		return host.ErrNoDocument
	}
	if !rect.Valid() {
		return fmt.Errorf("%w: select %s", host.ErrOperationFailed, rect)
	}
	switch mode {
	case host.SelectAdd:
		if d.selection != nil {
			merged := geometry.Rectangle{
				Left:   min(d.selection.Left, rect.Left),
				Top:    min(d.selection.Top, rect.Top),
				Right:  max(d.selection.Right, rect.Right),
				Bottom: max(d.selection.Bottom, rect.Bottom),
			}
			d.selection = &merged
			return nil
		}
		fallthrough
	case host.SelectReplace:
		r := rect
		d.selection = &r
	default:
		return fmt.Errorf("%w: selection mode %q not supported by in-memory host", host.ErrOperationFailed, mode)
	}
	return nil
}

// Deselect clears the selection.
func (d *Document) Deselect() error {
	d.selection = nil
	return nil
}

// ActiveLayer returns the topmost layer.
func (d *Document) ActiveLayer() (host.Layer, error) {
	if d.closed {
		return nil, host.ErrNoDocument
	}
	if len(d.layers) == 0 {
		return nil, fmt.Errorf("%w: document has no layers", host.ErrOperationFailed)
	}
	return d.layers[len(d.layers)-1], nil
}

// ConvertActiveLayerToSmartObject replaces the top layer with a smart-object
// copy. The previous handle is invalidated, mirroring the real host where
// conversion changes the layer identity and stale handles go dead.
func (d *Document) ConvertActiveLayerToSmartObject() error {
	if err := d.host.fail("convert"); err != nil {
		return fmt.Errorf("%w: convert to smart object: %v", host.ErrOperationFailed, err)
	}
	if d.closed {
		return host.ErrNoDocument
	}
	if len(d.layers) == 0 {
		return fmt.Errorf("%w: document has no layers", host.ErrOperationFailed)
	}
	old := d.layers[len(d.layers)-1]
	replacement := &Layer{doc: d, img: old.img, offsetX: old.offsetX, offsetY: old.offsetY, smartObject: true}
	old.invalid = true
	d.layers[len(d.layers)-1] = replacement
	return nil
}

// ReadPixels crops the flattened document to rect and hands back a buffer.
func (d *Document) ReadPixels(rect geometry.Rectangle) (host.PixelBuffer, error) {
	if err := d.host.fail("readPixels"); err != nil {
		return nil, fmt.Errorf("%w: read pixels: %v", host.ErrOperationFailed, err)
	}
	if d.closed {
		return nil, host.ErrNoDocument
	}
	if !rect.Valid() {
		return nil, fmt.Errorf("%w: read %s", host.ErrOperationFailed, rect)
	}
	crop := image.Rect(int(rect.Left), int(rect.Top), int(rect.Right), int(rect.Bottom))
	crop = crop.Intersect(image.Rect(0, 0, d.width, d.height))
	if crop.Empty() {
		return nil, fmt.Errorf("%w: rectangle %s outside canvas", host.ErrOperationFailed, rect)
	}
	out := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	draw.Draw(out, out.Bounds(), d.flatten(), crop.Min, draw.Src)
	buf := &PixelBuffer{img: out}
	d.lastBuffer = buf
	return buf, nil
}

// CloseWithoutSaving drops the document.
func (d *Document) CloseWithoutSaving() error {
	d.closed = true
	d.host.mu.Lock()
	defer d.host.mu.Unlock()
	if d.host.active == d {
		d.host.active = nil
		// Fall back to the most recently opened document still alive.
		for i := len(d.host.docs) - 1; i >= 0; i-- {
			if !d.host.docs[i].closed {
				d.host.active = d.host.docs[i]
				break
			}
		}
	}
	return nil
}

// Closed reports whether the document has been closed.
func (d *Document) Closed() bool { return d.closed }

// flatten composites all layers over a blank canvas.
func (d *Document) flatten() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	for _, l := range d.layers {
		b := l.img.Bounds()
		target := image.Rect(l.offsetX, l.offsetY, l.offsetX+b.Dx(), l.offsetY+b.Dy())
		draw.Draw(out, target, l.img, b.Min, draw.Over)
	}
	return out
}

// ExportPNG flattens the document and writes it as a PNG file.
func (d *Document) ExportPNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, d.flatten()); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
