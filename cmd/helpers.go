package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"canvasbridge/internal/config"
	"canvasbridge/internal/generation"
	"canvasbridge/internal/geometry"
	"canvasbridge/internal/settings"
)

// parseCanvas parses a WxH canvas size like "2000x1000".
func parseCanvas(s string) (float64, float64, error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid canvas size %q, expected WxH", s)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid canvas width %q", parts[0])
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid canvas height %q", parts[1])
	}
	return w, h, nil
}

// parseRect parses a rectangle like "100,50,900,750" (left,top,right,bottom).
func parseRect(s string) (geometry.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geometry.Rectangle{}, fmt.Errorf("invalid rectangle %q, expected left,top,right,bottom", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geometry.Rectangle{}, fmt.Errorf("invalid rectangle coordinate %q", p)
		}
		vals[i] = v
	}
	return geometry.Rectangle{Left: vals[0], Top: vals[1], Right: vals[2], Bottom: vals[3]}, nil
}

// openSettings opens the settings store at the configured path.
func openSettings(cfg *config.Config) (*settings.Store, error) {
	store, err := settings.NewStore(cfg.Settings.Path)
	if err != nil {
		return nil, fmt.Errorf("opening settings store: %w", err)
	}
	return store, nil
}

// buildProvider creates the generation provider from persisted settings and
// environment credentials. Returns nil without error when no credential is
// available; callers that need generation treat that as a failure.
func buildProvider(ctx context.Context, cfg *config.Config, store *settings.Store) (generation.Provider, error) {
	set, err := store.Load()
	if err != nil {
		return nil, err
	}
	apiKey := cfg.APIKeyFor(set.ImageModel, set.APIKey)
	if apiKey == "" {
		return nil, nil
	}
	optimizer := set.OptimizerPrompt
	if optimizer == "" {
		optimizer = generation.DefaultOptimizerPrompt()
	}
	provider, err := generation.NewProvider(ctx, apiKey, set.ImageModel, set.TextModel, optimizer)
	if err != nil {
		return nil, fmt.Errorf("creating generation provider: %w", err)
	}
	return provider, nil
}
