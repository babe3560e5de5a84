package inmem

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"

	"golang.org/x/image/draw"

	"canvasbridge/internal/geometry"
	"canvasbridge/internal/host"
)

// Layer is one raster layer. The backing image is positioned in document
// coordinates by offsetX/offsetY.
type Layer struct {
	doc         *Document
	img         *image.RGBA
	offsetX     int
	offsetY     int
	smartObject bool
	invalid     bool
}

// SmartObject reports whether the layer was converted to a smart object.
func (l *Layer) SmartObject() bool { return l.smartObject }

func (l *Layer) check(op string) error {
	if l.invalid {
		return fmt.Errorf("%w: %s on stale layer handle", host.ErrOperationFailed, op)
	}
	if l.doc.closed {
		return host.ErrNoDocument
	}
	return nil
}

// Bounds returns the layer's rectangle in document coordinates.
func (l *Layer) Bounds() (geometry.Rectangle, error) {
	if err := l.check("bounds"); err != nil {
		return geometry.Rectangle{}, err
	}
	b := l.img.Bounds()
	return geometry.Rectangle{
		Left:   float64(l.offsetX),
		Top:    float64(l.offsetY),
		Right:  float64(l.offsetX + b.Dx()),
		Bottom: float64(l.offsetY + b.Dy()),
	}, nil
}

// DuplicateTo copies the layer into target at the same coordinates and
// returns the new handle.
func (l *Layer) DuplicateTo(target host.Document) (host.Layer, error) {
	if err := l.doc.host.fail("duplicate"); err != nil {
		return nil, fmt.Errorf("%w: duplicate layer: %v", host.ErrOperationFailed, err)
	}
	if err := l.check("duplicate"); err != nil {
		return nil, err
	}
	dst, ok := target.(*Document)
	if !ok {
		return nil, fmt.Errorf("%w: duplicate across host boundaries", host.ErrOperationFailed)
	}
	if dst.closed {
		return nil, host.ErrNoDocument
	}
	clone := image.NewRGBA(l.img.Bounds())
	copy(clone.Pix, l.img.Pix)
	dup := &Layer{doc: dst, img: clone, offsetX: l.offsetX, offsetY: l.offsetY}
	dst.layers = append(dst.layers, dup)
	return dup, nil
}

// Scale resamples the layer to percentX/percentY of its current size,
// keeping the layer center fixed (the host's default transform anchor).
func (l *Layer) Scale(percentX, percentY float64) error {
	if err := l.doc.host.fail("scale"); err != nil {
		return fmt.Errorf("%w: scale layer: %v", host.ErrOperationFailed, err)
	}
	if err := l.check("scale"); err != nil {
		return err
	}
	if percentX <= 0 || percentY <= 0 {
		return fmt.Errorf("%w: scale by %gx%g%%", host.ErrOperationFailed, percentX, percentY)
	}
	b := l.img.Bounds()
	newW := int(math.Round(float64(b.Dx()) * percentX / 100))
	newH := int(math.Round(float64(b.Dy()) * percentY / 100))
	if newW < 1 || newH < 1 {
		return fmt.Errorf("%w: scale result %dx%d", host.ErrOperationFailed, newW, newH)
	}
	scaled := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), l.img, b, draw.Src, nil)

	// Keep the center where it was.
	cx := float64(l.offsetX) + float64(b.Dx())/2
	cy := float64(l.offsetY) + float64(b.Dy())/2
	l.img = scaled
	l.offsetX = int(math.Round(cx - float64(newW)/2))
	l.offsetY = int(math.Round(cy - float64(newH)/2))
	return nil
}

// Translate moves the layer by (dx, dy) document pixels.
func (l *Layer) Translate(dx, dy float64) error {
	if err := l.doc.host.fail("translate"); err != nil {
		return fmt.Errorf("%w: translate layer: %v", host.ErrOperationFailed, err)
	}
	if err := l.check("translate"); err != nil {
		return err
	}
	l.offsetX += int(math.Round(dx))
	l.offsetY += int(math.Round(dy))
	return nil
}

// BringToFront moves the layer to the top of the stack.
func (l *Layer) BringToFront() error {
	if err := l.doc.host.fail("bringToFront"); err != nil {
		return fmt.Errorf("%w: bring to front: %v", host.ErrOperationFailed, err)
	}
	if err := l.check("bringToFront"); err != nil {
		return err
	}
	layers := l.doc.layers
	for i, cand := range layers {
		if cand == l {
			l.doc.layers = append(append(layers[:i], layers[i+1:]...), l)
			return nil
		}
	}
	return fmt.Errorf("%w: layer not in document", host.ErrOperationFailed)
}

// PixelBuffer holds cropped pixels until released.
type PixelBuffer struct {
	img      *image.RGBA
	released bool
}

// EncodeBase64 encodes the buffer as png or jpeg and returns plain base64.
func (b *PixelBuffer) EncodeBase64(format string) (string, error) {
	if b.released {
		return "", fmt.Errorf("%w: encode on released pixel buffer", host.ErrOperationFailed)
	}
	var buf bytes.Buffer
	switch format {
	case "jpeg", "jpg":
		if err := jpeg.Encode(&buf, b.img, &jpeg.Options{Quality: 90}); err != nil {
			return "", fmt.Errorf("%w: %v", host.ErrOperationFailed, err)
		}
	default:
		if err := png.Encode(&buf, b.img); err != nil {
			return "", fmt.Errorf("%w: %v", host.ErrOperationFailed, err)
		}
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Release drops the buffer. Further encodes fail.
func (b *PixelBuffer) Release() {
	b.released = true
}

// Released reports whether Release was called, for leak assertions in tests.
func (b *PixelBuffer) Released() bool { return b.released }
