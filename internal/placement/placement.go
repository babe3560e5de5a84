// Package placement maps a generated image onto a target rectangle in the
// host document. The sequence is a linear state machine with compensating
// rollback: temp artifact -> throwaway document -> duplicated layer ->
// smart object -> scale -> translate -> front.
package placement

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"canvasbridge/internal/geometry"
	"canvasbridge/internal/host"
	"canvasbridge/internal/imagecodec"
)

// State tracks how far a placement progressed. On failure the terminal
// state is Aborted and the original error is returned alongside it.
type State int

const (
	Idle State = iota
	TempWritten
	TempOpened
	LayerDuplicated
	ConvertedToSmartObject
	Scaled
	Translated
	Finalized
	Aborted
)

var stateNames = map[State]string{
	Idle:                   "idle",
	TempWritten:            "temp_written",
	TempOpened:             "temp_opened",
	LayerDuplicated:        "layer_duplicated",
	ConvertedToSmartObject: "converted_to_smart_object",
	Scaled:                 "scaled",
	Translated:             "translated",
	Finalized:              "finalized",
	Aborted:                "aborted",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// defaultCleanupDelay gives the host time to let go of the temp artifact's
// file lock after closing the throwaway document.
const defaultCleanupDelay = 200 * time.Millisecond

// Engine places generated images into host documents. At most one placement
// should be in flight at a time; the calling UI disables its trigger for
// the duration.
type Engine struct {
	host         host.Host
	cleanupDelay time.Duration
	logf         func(format string, args ...any)
}

// New creates an Engine on the given host.
func New(h host.Host) *Engine {
	return &Engine{host: h, cleanupDelay: defaultCleanupDelay, logf: log.Printf}
}

// SetCleanupDelay overrides the pause before temp-artifact deletion.
func (e *Engine) SetCleanupDelay(d time.Duration) {
	e.cleanupDelay = d
}

// Place writes img to a scoped temp artifact, imports it into target as a
// new smart-object layer, stretches it to exactly fill targetRect (X and Y
// scale independently; the source aspect ratio is not preserved), centers it
// on the rectangle and brings it to the front.
//
// The whole mutating sequence runs inside one exclusive host scope. Any
// failure after the temp write triggers compensating cleanup (close the
// throwaway document, delete the artifact) and returns the original error
// with state Aborted. The temp artifact is deleted on every path.
func (e *Engine) Place(ctx context.Context, target host.Document, img imagecodec.ImagePayload, targetRect geometry.Rectangle) (State, error) {
	targetRect = targetRect.Round()
	if !targetRect.Valid() {
		return Idle, fmt.Errorf("%w: target %s", geometry.ErrDegenerateSelection, targetRect)
	}
	if len(img.Bytes) == 0 {
		return Idle, fmt.Errorf("%w: empty image payload", imagecodec.ErrDecodeFailed)
	}

	state := Idle
	name := fmt.Sprintf("gen_%s.%s", uuid.NewString(), img.Format)

	err := e.host.RunExclusive(ctx, "place generated image", func(ctx context.Context) error {
		tempPath, err := e.host.WriteTempFile(name, img.Bytes)
		if err != nil {
			return fmt.Errorf("writing temp artifact: %w", err)
		}
		state = TempWritten
		defer e.deleteTempLater(tempPath)

		var tempDoc host.Document
		runErr := func() error {
			tempDoc, err = e.host.OpenDocument(tempPath)
			if err != nil {
				return fmt.Errorf("opening temp artifact: %w", err)
			}
			state = TempOpened

			srcLayer, err := tempDoc.ActiveLayer()
			if err != nil {
				return fmt.Errorf("reading temp document layer: %w", err)
			}
			if _, err := srcLayer.DuplicateTo(target); err != nil {
				return fmt.Errorf("duplicating layer: %w", err)
			}
			if err := tempDoc.CloseWithoutSaving(); err != nil {
				return fmt.Errorf("closing throwaway document: %w", err)
			}
			tempDoc = nil
			state = LayerDuplicated

			// Conversion may replace the layer identity; the old handle is
			// dead afterwards and must be re-fetched from the document.
			if err := target.ConvertActiveLayerToSmartObject(); err != nil {
				return fmt.Errorf("converting to smart object: %w", err)
			}
			layer, err := target.ActiveLayer()
			if err != nil {
				return fmt.Errorf("re-fetching layer after conversion: %w", err)
			}
			state = ConvertedToSmartObject

			bounds, err := layer.Bounds()
			if err != nil {
				return fmt.Errorf("reading layer bounds: %w", err)
			}
			if !bounds.Valid() {
				return fmt.Errorf("%w: imported layer %s", geometry.ErrDegenerateSelection, bounds)
			}
			scaleX := targetRect.Width() / bounds.Width() * 100
			scaleY := targetRect.Height() / bounds.Height() * 100
			if err := layer.Scale(scaleX, scaleY); err != nil {
				return fmt.Errorf("scaling layer to %.2f%%x%.2f%%: %w", scaleX, scaleY, err)
			}
			state = Scaled

			scaled, err := layer.Bounds()
			if err != nil {
				return fmt.Errorf("reading bounds after scale: %w", err)
			}
			dx := targetRect.CenterX() - scaled.CenterX()
			dy := targetRect.CenterY() - scaled.CenterY()
			if dx != 0 || dy != 0 {
				if err := layer.Translate(dx, dy); err != nil {
					return fmt.Errorf("translating layer by (%g,%g): %w", dx, dy, err)
				}
			}
			state = Translated

			if err := layer.BringToFront(); err != nil {
				return fmt.Errorf("bringing layer to front: %w", err)
			}
			state = Finalized
			return nil
		}()

		if runErr != nil {
			// Compensate: drop the throwaway document if it is still open.
			// Secondary failures are swallowed; the original error wins.
			if tempDoc != nil {
				_ = tempDoc.CloseWithoutSaving()
			}
			state = Aborted
		}
		return runErr
	})

	if err != nil {
		if state != Idle {
			state = Aborted
		}
		return state, err
	}
	return state, nil
}

// deleteTempLater removes a temp artifact after a short delay, giving the
// host time to release its file lock. Deletion failure is logged, never
// escalated.
func (e *Engine) deleteTempLater(path string) {
	if e.cleanupDelay > 0 {
		time.Sleep(e.cleanupDelay)
	}
	if err := e.host.DeleteTempFile(path); err != nil {
		e.logf("placement: could not delete temp artifact %s: %v", path, err)
	}
}
