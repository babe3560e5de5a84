package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
	Settings SettingsConfig
	Server   ServerConfig
}

type GeminiConfig struct {
	APIKey string
}

type OpenAIConfig struct {
	Token string
}

type SettingsConfig struct {
	Path string // settings blob location; empty means the per-user default
}

type ServerConfig struct {
	Host string
	Port int
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func envStr(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	return &Config{
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		},
		OpenAI: OpenAIConfig{
			Token: os.Getenv("OPENAI_TOKEN"),
		},
		Settings: SettingsConfig{
			Path: os.Getenv("CANVASBRIDGE_SETTINGS_PATH"),
		},
		Server: ServerConfig{
			Host: envStr("CANVASBRIDGE_HOST", "127.0.0.1"),
			Port: envInt("CANVASBRIDGE_PORT", 8235),
		},
	}
}

// APIKeyFor returns the credential for the given image model family,
// preferring an explicitly persisted key over environment credentials. The
// key travels as a parameter from here on; no other component re-reads
// credential state.
func (c *Config) APIKeyFor(imageModel string, persisted string) string {
	if persisted != "" {
		return persisted
	}
	if strings.HasPrefix(imageModel, "gpt-") || strings.HasPrefix(imageModel, "dall-e") {
		return c.OpenAI.Token
	}
	return c.Gemini.APIKey
}
