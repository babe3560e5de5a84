// Package panel exposes the operations the UI collaborator calls: build a
// ratio-fitted selection, rescale the current selection, extract selection
// pixels, and place a generated image. It coordinates the geometry engine,
// the generation provider and the placement engine against one host.
package panel

import (
	"context"
	"errors"
	"fmt"

	"canvasbridge/internal/extract"
	"canvasbridge/internal/generation"
	"canvasbridge/internal/geometry"
	"canvasbridge/internal/host"
	"canvasbridge/internal/imagecodec"
	"canvasbridge/internal/placement"
)

// ErrNoProvider is returned by generation entry points when the panel was
// built without a generation backend.
var ErrNoProvider = errors.New("no generation provider configured")

// Panel is the UI-facing service. One instance serves one host connection;
// the UI guarantees at most one mutating call in flight at a time.
type Panel struct {
	host     host.Host
	provider generation.Provider
	placer   *placement.Engine
}

// New creates a panel. provider may be nil when only geometry operations
// are needed.
func New(h host.Host, provider generation.Provider) *Panel {
	return &Panel{host: h, provider: provider, placer: placement.New(h)}
}

// Placer exposes the placement engine, mainly so callers can tune its
// cleanup delay.
func (p *Panel) Placer() *placement.Engine { return p.placer }

// CreateFittedSelection selects the largest margin-shrunk rectangle of the
// indexed catalog ratio on the active document and returns it.
func (p *Panel) CreateFittedSelection(ctx context.Context, ratioIndex int, marginFactor float64) (geometry.Rectangle, error) {
	ratio, err := geometry.RatioByIndex(ratioIndex)
	if err != nil {
		return geometry.Rectangle{}, err
	}
	doc, err := p.host.ActiveDocument()
	if err != nil {
		return geometry.Rectangle{}, err
	}
	rect, err := geometry.FitRatioToCanvas(doc.Width(), doc.Height(), ratio, marginFactor)
	if err != nil {
		return geometry.Rectangle{}, err
	}
	err = p.host.RunExclusive(ctx, "create fitted selection", func(ctx context.Context) error {
		return doc.SelectRectangle(rect, host.SelectReplace, 0)
	})
	if err != nil {
		return geometry.Rectangle{}, fmt.Errorf("applying selection %s: %w", rect, err)
	}
	return rect, nil
}

// RescaleResult is a rescaled selection plus a flag for the caller to warn
// when the new rectangle extends beyond the canvas.
type RescaleResult struct {
	Rect        geometry.Rectangle `json:"rect"`
	OutOfCanvas bool               `json:"out_of_canvas"`
}

// RescaleSelection grows or shrinks the active selection around its center
// by percent. The result is applied as the new selection even when it
// extends past the canvas; OutOfCanvas tells the UI to surface a warning.
func (p *Panel) RescaleSelection(ctx context.Context, percent float64) (*RescaleResult, error) {
	doc, err := p.host.ActiveDocument()
	if err != nil {
		return nil, err
	}
	raw, err := doc.SelectionBounds()
	if err != nil {
		return nil, err
	}
	current, err := geometry.NormalizeBounds(raw)
	if err != nil {
		return nil, fmt.Errorf("reading selection bounds: %w", err)
	}
	rect, err := geometry.ScaleRectByPercent(current, percent)
	if err != nil {
		return nil, err
	}
	err = p.host.RunExclusive(ctx, "rescale selection", func(ctx context.Context) error {
		return doc.SelectRectangle(rect, host.SelectReplace, 0)
	})
	if err != nil {
		return nil, fmt.Errorf("applying selection %s: %w", rect, err)
	}
	return &RescaleResult{
		Rect:        rect,
		OutOfCanvas: !rect.Inside(doc.Width(), doc.Height()),
	}, nil
}

// ExtractSelection returns the pixels of the active selection as base64.
func (p *Panel) ExtractSelection(ctx context.Context) (*extract.Result, error) {
	doc, err := p.host.ActiveDocument()
	if err != nil {
		return nil, err
	}
	return extract.FromSelection(doc)
}

// PlaceResult reports where an image landed and the terminal state of the
// placement sequence.
type PlaceResult struct {
	Rect  geometry.Rectangle `json:"rect"`
	State placement.State    `json:"-"`
	Stage string             `json:"stage"`
}

// PlaceGeneratedImage decodes imageData (base64 or data URI) and maps it
// onto target in the active document.
func (p *Panel) PlaceGeneratedImage(ctx context.Context, imageData string, target geometry.Rectangle) (*PlaceResult, error) {
	payload, err := imagecodec.Payload(imageData)
	if err != nil {
		return nil, fmt.Errorf("decoding generated image: %w", err)
	}
	return p.placePayload(ctx, payload, target)
}

func (p *Panel) placePayload(ctx context.Context, payload imagecodec.ImagePayload, target geometry.Rectangle) (*PlaceResult, error) {
	doc, err := p.host.ActiveDocument()
	if err != nil {
		return nil, err
	}
	state, err := p.placer.Place(ctx, doc, payload, target)
	if err != nil {
		return &PlaceResult{Rect: target, State: state, Stage: state.String()}, err
	}
	// The selection has served its purpose as a placement target.
	_ = doc.Deselect()
	return &PlaceResult{Rect: target, State: state, Stage: state.String()}, nil
}

// GenerateOptions drives one generate-and-place round trip.
type GenerateOptions struct {
	Prompt string
	// RatioIndex picks the catalog entry used when no selection target is
	// requested; it also sets the requested generation size.
	RatioIndex int
	// UseSelection targets the active selection instead of a fitted
	// rectangle and sends its pixels along as the reference image.
	UseSelection bool
	// Optimize rewrites the prompt with the text model first.
	Optimize bool
	// MarginFactor applies to the fitted rectangle; zero means the default.
	MarginFactor float64
}

// GenerateOutcome is the result of a full generate-and-place chain.
type GenerateOutcome struct {
	Rect   geometry.Rectangle `json:"rect"`
	Stage  string             `json:"stage"`
	Prompt string             `json:"prompt"` // the prompt actually sent
}

// GenerateAndPlace runs the whole pipeline: resolve a target rectangle,
// optionally extract reference pixels and optimize the prompt, call the
// provider, then place the returned image. All host-mutating steps run
// sequentially; there is no parallelism to coordinate.
func (p *Panel) GenerateAndPlace(ctx context.Context, opts GenerateOptions) (*GenerateOutcome, error) {
	if p.provider == nil {
		return nil, ErrNoProvider
	}
	doc, err := p.host.ActiveDocument()
	if err != nil {
		return nil, err
	}

	ratio, err := geometry.RatioByIndex(opts.RatioIndex)
	if err != nil {
		return nil, err
	}

	var target geometry.Rectangle
	var reference []byte
	if opts.UseSelection {
		raw, err := doc.SelectionBounds()
		if err != nil {
			return nil, err
		}
		if target, err = geometry.NormalizeBounds(raw); err != nil {
			return nil, fmt.Errorf("reading selection bounds: %w", err)
		}
		res, err := extract.FromRect(doc, target)
		if err != nil {
			return nil, err
		}
		target = res.Rect
		reference = imagecodec.ToBytes(res.PixelData)
	} else {
		if target, err = p.CreateFittedSelection(ctx, opts.RatioIndex, opts.MarginFactor); err != nil {
			return nil, err
		}
	}

	prompt := opts.Prompt
	if opts.Optimize {
		optimized, err := p.provider.OptimizePrompt(ctx, prompt, reference)
		if err != nil {
			return nil, fmt.Errorf("optimizing prompt: %w", err)
		}
		prompt = optimized
	}

	result, err := p.provider.GenerateImage(ctx, generation.Request{
		Prompt:         prompt,
		Width:          ratio.Width,
		Height:         ratio.Height,
		ReferenceImage: reference,
	})
	if err != nil {
		return nil, fmt.Errorf("generating image: %w", err)
	}
	payload, err := imagecodec.FromBytes(result.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding generated image: %w", err)
	}

	placed, err := p.placePayload(ctx, payload, target)
	if err != nil {
		return nil, err
	}
	return &GenerateOutcome{Rect: placed.Rect, Stage: placed.Stage, Prompt: prompt}, nil
}
