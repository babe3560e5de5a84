package generation

import (
	"context"
	"strings"
)

// NewProvider picks a backend from the configured image model name: OpenAI
// model families route to the OpenAI client, everything else to Gemini.
func NewProvider(ctx context.Context, apiKey, imageModel, textModel, optimizerPrompt string) (Provider, error) {
	if isOpenAIModel(imageModel) {
		return NewOpenAIProvider(apiKey, imageModel, textModel, optimizerPrompt), nil
	}
	return NewGeminiProvider(ctx, apiKey, imageModel, textModel, optimizerPrompt)
}

func isOpenAIModel(model string) bool {
	return strings.HasPrefix(model, "gpt-") ||
		strings.HasPrefix(model, "dall-e") ||
		strings.HasPrefix(model, "o1") ||
		strings.HasPrefix(model, "o3")
}
