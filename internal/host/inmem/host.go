// Package inmem provides an in-memory implementation of the host capability
// interfaces for tests and offline runs. Documents are backed by plain RGBA
// images; layer transforms are real pixel operations so placement math can
// be verified end to end.
package inmem

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/image/draw"

	"canvasbridge/internal/host"
)

// Host is an in-memory document-editing host.
type Host struct {
	mu      sync.Mutex
	docs    []*Document
	active  *Document
	tempDir string

	// Failures injects an error for a named operation: "writeTemp",
	// "deleteTemp", "open", "duplicate", "convert", "scale", "translate",
	// "bringToFront", "readPixels". Consumed on first use.
	Failures map[string]error

	// ExclusiveRuns counts RunExclusive acquisitions.
	ExclusiveRuns int
}

// NewHost creates an empty in-memory host.
func NewHost() *Host {
	return &Host{Failures: make(map[string]error)}
}

func (h *Host) fail(op string) error {
	if err, ok := h.Failures[op]; ok && err != nil {
		delete(h.Failures, op)
		return err
	}
	return nil
}

// NewDocument creates a blank document of the given pixel size with a single
// background layer and makes it active.
func (h *Host) NewDocument(width, height int) *Document {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	return h.addDocument(width, height, img)
}

// NewDocumentFromImage creates a document whose background layer holds img.
func (h *Host) NewDocumentFromImage(img image.Image) *Document {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return h.addDocument(b.Dx(), b.Dy(), rgba)
}

func (h *Host) addDocument(width, height int, img *image.RGBA) *Document {
	h.mu.Lock()
	defer h.mu.Unlock()
	doc := &Document{host: h, width: width, height: height, boundsShape: BoundsObject}
	doc.layers = []*Layer{{doc: doc, img: img}}
	h.docs = append(h.docs, doc)
	h.active = doc
	return doc
}

// ActiveDocument implements host.Host.
func (h *Host) ActiveDocument() (host.Document, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil || h.active.closed {
		return nil, host.ErrNoDocument
	}
	return h.active, nil
}

// SetActive switches the active document, mirroring the host bringing a
// document window to front.
func (h *Host) SetActive(doc *Document) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = doc
}

// OpenDocument decodes a PNG or JPEG file into a new active document.
func (h *Host) OpenDocument(path string) (host.Document, error) {
	if err := h.fail("open"); err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", host.ErrOperationFailed, filepath.Base(path), err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", host.ErrOperationFailed, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", host.ErrOperationFailed, filepath.Base(path), err)
	}
	return h.NewDocumentFromImage(img), nil
}

// WriteTempFile writes data into the host's sandboxed temp area.
func (h *Host) WriteTempFile(name string, data []byte) (string, error) {
	if err := h.fail("writeTemp"); err != nil {
		return "", fmt.Errorf("%w: %v", host.ErrOperationFailed, err)
	}
	h.mu.Lock()
	if h.tempDir == "" {
		dir, err := os.MkdirTemp("", "canvasbridge-inmem-")
		if err != nil {
			h.mu.Unlock()
			return "", fmt.Errorf("%w: %v", host.ErrOperationFailed, err)
		}
		h.tempDir = dir
	}
	dir := h.tempDir
	h.mu.Unlock()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("%w: %v", host.ErrOperationFailed, err)
	}
	return path, nil
}

// DeleteTempFile removes a temp artifact.
func (h *Host) DeleteTempFile(path string) error {
	if err := h.fail("deleteTemp"); err != nil {
		return fmt.Errorf("%w: %v", host.ErrOperationFailed, err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: %v", host.ErrOperationFailed, err)
	}
	return nil
}

// RunExclusive executes fn inside the (simulated) exclusive editing scope.
func (h *Host) RunExclusive(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	h.mu.Lock()
	h.ExclusiveRuns++
	h.mu.Unlock()
	return fn(ctx)
}

// OpenDocuments returns the documents currently open, bottom of the pile
// first. Closed documents are excluded.
func (h *Host) OpenDocuments() []*Document {
	h.mu.Lock()
	defer h.mu.Unlock()
	var open []*Document
	for _, d := range h.docs {
		if !d.closed {
			open = append(open, d)
		}
	}
	return open
}
