// Package host defines the narrow document-editing capability the bridge
// consumes. A real implementation forwards calls to the editing application;
// the inmem subpackage provides an in-memory implementation for tests and
// offline runs.
package host

import (
	"context"
	"errors"

	"canvasbridge/internal/geometry"
)

var (
	// ErrNoActiveSelection is reported when an operation needs a selection
	// and the document has none.
	ErrNoActiveSelection = errors.New("no active selection")

	// ErrOperationFailed wraps any failure inside the host application.
	ErrOperationFailed = errors.New("host operation failed")

	// ErrNoDocument is reported when no document is open.
	ErrNoDocument = errors.New("no open document")
)

// SelectionMode controls how a new rectangular selection combines with an
// existing one.
type SelectionMode string

const (
	SelectReplace  SelectionMode = "replace"
	SelectAdd      SelectionMode = "add"
	SelectSubtract SelectionMode = "subtract"
)

// Host is the top-level capability surface of the editing application.
//
// RunExclusive acquires the host's exclusive document-editing scope for the
// duration of fn. All document-mutating sequences must run inside one
// acquisition; interleaving two scopes could observe a half-transformed
// layer.
type Host interface {
	ActiveDocument() (Document, error)
	OpenDocument(path string) (Document, error)

	// Scoped temporary artifacts in the host's sandboxed data area.
	WriteTempFile(name string, data []byte) (path string, err error)
	DeleteTempFile(path string) error

	RunExclusive(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

// Document is one open document in the host.
type Document interface {
	Width() float64
	Height() float64

	// SelectionBounds returns the host's raw selection bounds value, which
	// may be any of the shapes geometry.NormalizeBounds accepts. It fails
	// with ErrNoActiveSelection when nothing is selected.
	SelectionBounds() (any, error)
	SelectRectangle(rect geometry.Rectangle, mode SelectionMode, feather float64) error
	Deselect() error

	// ActiveLayer re-fetches the current layer handle. Conversion to a
	// smart object may replace the layer identity, so callers must
	// re-acquire the handle after ConvertActiveLayerToSmartObject.
	ActiveLayer() (Layer, error)
	ConvertActiveLayerToSmartObject() error

	ReadPixels(rect geometry.Rectangle) (PixelBuffer, error)
	CloseWithoutSaving() error
}

// Layer is one layer handle inside a document. Handles are host-owned and
// may be invalidated by document-level operations.
type Layer interface {
	Bounds() (geometry.Rectangle, error)
	DuplicateTo(target Document) (Layer, error)
	Scale(percentX, percentY float64) error
	Translate(dx, dy float64) error
	BringToFront() error
}

// PixelBuffer is a host-owned buffer of raw pixel data. Release must be
// called on every exit path; holding it keeps host imaging memory pinned.
type PixelBuffer interface {
	EncodeBase64(format string) (string, error)
	Release()
}
