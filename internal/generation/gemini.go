package generation

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

//go:embed prompts/optimize_prompt.txt
var optimizerSystemPrompt string

// DefaultOptimizerPrompt is the built-in prompt-rewriting instruction, used
// when the persisted settings carry no custom one.
func DefaultOptimizerPrompt() string { return optimizerSystemPrompt }

const (
	defaultGeminiImageModel = "gemini-2.5-flash-image"
	defaultGeminiTextModel  = "gemini-2.5-flash"
)

// GeminiProvider generates images through the Gemini API.
type GeminiProvider struct {
	client          *genai.Client
	imageModel      string
	textModel       string
	optimizerPrompt string
}

// NewGeminiProvider creates a Gemini-backed provider. Empty model names fall
// back to the current defaults; an empty optimizerPrompt falls back to the
// embedded one.
func NewGeminiProvider(ctx context.Context, apiKey, imageModel, textModel, optimizerPrompt string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if imageModel == "" {
		imageModel = defaultGeminiImageModel
	}
	if textModel == "" {
		textModel = defaultGeminiTextModel
	}
	if optimizerPrompt == "" {
		optimizerPrompt = optimizerSystemPrompt
	}
	return &GeminiProvider{
		client:          client,
		imageModel:      imageModel,
		textModel:       textModel,
		optimizerPrompt: optimizerPrompt,
	}, nil
}

func (p *GeminiProvider) Name() string {
	return p.imageModel
}

// GenerateImage requests one image and returns the first inline blob found
// in the response candidates.
func (p *GeminiProvider) GenerateImage(ctx context.Context, req Request) (*Result, error) {
	parts := []*genai.Part{{Text: req.Prompt}}
	if len(req.ReferenceImage) > 0 {
		// Downscale to keep request size (and cost) bounded.
		resized, err := DownscaleReference(req.ReferenceImage, MaxReferenceSize)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare reference image: %w", err)
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{Data: resized, MIMEType: "image/jpeg"},
		})
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}
	if req.Width > 0 && req.Height > 0 {
		config.ImageConfig = &genai.ImageConfig{AspectRatio: closestAspectLabel(req.Width, req.Height)}
	}

	result, err := p.client.Models.GenerateContent(ctx, p.imageModel, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}
	return firstInlineImage(result)
}

// OptimizePrompt rewrites prompt with the text model, grounding it on the
// reference image when one is provided.
func (p *GeminiProvider) OptimizePrompt(ctx context.Context, prompt string, referenceImage []byte) (string, error) {
	parts := []*genai.Part{{Text: p.optimizerPrompt + "\n\nUser prompt: " + prompt}}
	if len(referenceImage) > 0 {
		resized, err := DownscaleReference(referenceImage, MaxReferenceSize)
		if err != nil {
			return "", fmt.Errorf("failed to prepare reference image: %w", err)
		}
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{Data: resized, MIMEType: "image/jpeg"},
		})
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	result, err := p.client.Models.GenerateContent(ctx, p.textModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	content := result.Text()
	if content == "" {
		return "", errors.New("no response from Gemini")
	}
	return content, nil
}

// firstInlineImage scans the response candidates for inline image data.
func firstInlineImage(result *genai.GenerateContentResponse) (*Result, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, errors.New("empty generation response")
	}
	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = http.DetectContentType(part.InlineData.Data)
				}
				return &Result{Data: part.InlineData.Data, MimeType: mime}, nil
			}
		}
	}
	return nil, errors.New("generation response contains no image data")
}
