// Package settings persists the panel's flat settings object as a single
// JSON blob: loaded once at startup, saved wholesale on any change, and
// exported/imported as-is.
package settings

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Settings is the complete persisted state. It is written and read as one
// opaque blob; there is no per-field persistence.
type Settings struct {
	APIKey          string `json:"api_key"`
	TextModel       string `json:"text_model"`
	VisionModel     string `json:"vision_model"`
	ImageModel      string `json:"image_model"`
	OptimizerPrompt string `json:"optimizer_prompt"`
}

// Defaults returns the settings used before anything was persisted.
func Defaults() *Settings {
	return &Settings{
		TextModel:   "gemini-2.5-flash",
		VisionModel: "gemini-2.5-flash",
		ImageModel:  "gemini-2.5-flash-image",
	}
}

// Store reads and writes the settings blob at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store at path. An empty path falls back to
// DefaultPath.
func NewStore(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return &Store{path: path}, nil
}

// DefaultPath returns the per-user settings location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "canvasbridge", "settings.json"), nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string { return s.path }

// Load reads the persisted settings. A missing file yields Defaults, not an
// error; corrupt content is an error so a damaged blob is never silently
// replaced.
func (s *Store) Load() (*Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	var out Settings
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	return &out, nil
}

// Save writes the whole blob.
func (s *Store) Save(set *Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// Export writes the current blob to w, exactly as persisted.
func (s *Store) Export(w io.Writer) error {
	set, err := s.Load()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(set)
}

// Import replaces the persisted blob wholesale with the JSON read from r.
func (s *Store) Import(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading import: %w", err)
	}
	var set Settings
	if err := json.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("parsing import: %w", err)
	}
	return s.Save(&set)
}
