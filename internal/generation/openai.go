package generation

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultOpenAIImageModel = "gpt-image-1"
	defaultOpenAITextModel  = openai.ChatModelGPT4_1Mini
)

// OpenAIProvider generates images through the OpenAI Images API.
type OpenAIProvider struct {
	client          *openai.Client
	imageModel      string
	textModel       string
	optimizerPrompt string
}

// NewOpenAIProvider creates an OpenAI-backed provider.
func NewOpenAIProvider(apiKey, imageModel, textModel, optimizerPrompt string) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	if imageModel == "" {
		imageModel = defaultOpenAIImageModel
	}
	if textModel == "" {
		textModel = defaultOpenAITextModel
	}
	if optimizerPrompt == "" {
		optimizerPrompt = optimizerSystemPrompt
	}
	return &OpenAIProvider{
		client:          &client,
		imageModel:      imageModel,
		textModel:       textModel,
		optimizerPrompt: optimizerPrompt,
	}
}

func (p *OpenAIProvider) Name() string {
	return p.imageModel
}

// GenerateImage produces one image. With a reference image the request goes
// through the edit endpoint so the result stays grounded on the source
// pixels; without one it is a plain generation call.
func (p *OpenAIProvider) GenerateImage(ctx context.Context, req Request) (*Result, error) {
	if len(req.ReferenceImage) > 0 {
		return p.editWithReference(ctx, req)
	}

	resp, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: req.Prompt,
		Model:  openai.ImageModel(p.imageModel),
		Size:   closestOpenAISize(req.Width, req.Height),
	})
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}
	return imageFromB64Response(resp)
}

func (p *OpenAIProvider) editWithReference(ctx context.Context, req Request) (*Result, error) {
	resized, err := DownscaleReference(req.ReferenceImage, MaxReferenceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare reference image: %w", err)
	}
	file := openai.File(bytes.NewReader(resized), "reference.jpg", "image/jpeg")

	resp, err := p.client.Images.Edit(ctx, openai.ImageEditParams{
		Image:  openai.ImageEditParamsImageUnion{OfFile: file},
		Prompt: req.Prompt,
		Model:  openai.ImageModel(p.imageModel),
	})
	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}
	return imageFromB64Response(resp)
}

func imageFromB64Response(resp *openai.ImagesResponse) (*Result, error) {
	if resp == nil || len(resp.Data) == 0 {
		return nil, errors.New("empty image response")
	}
	if resp.Data[0].B64JSON == "" {
		return nil, errors.New("image response carries no inline data")
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	return &Result{Data: data, MimeType: "image/png"}, nil
}

// OptimizePrompt rewrites prompt with the chat model, attaching the
// reference image as a data URI when provided.
func (p *OpenAIProvider) OptimizePrompt(ctx context.Context, prompt string, referenceImage []byte) (string, error) {
	userParts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart("User prompt: " + prompt),
	}
	if len(referenceImage) > 0 {
		resized, err := DownscaleReference(referenceImage, MaxReferenceSize)
		if err != nil {
			return "", fmt.Errorf("failed to prepare reference image: %w", err)
		}
		imageURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(resized)
		userParts = append(userParts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL:    imageURL,
			Detail: "low",
		}))
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(p.optimizerPrompt),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: userParts,
				},
			},
		},
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    p.textModel,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// closestOpenAISize maps canonical dimensions onto the sizes the Images API
// accepts.
func closestOpenAISize(width, height int) openai.ImageGenerateParamsSize {
	switch {
	case width == 0 || height == 0:
		return openai.ImageGenerateParamsSizeAuto
	case width > height:
		return openai.ImageGenerateParamsSize1536x1024
	case height > width:
		return openai.ImageGenerateParamsSize1024x1536
	default:
		return openai.ImageGenerateParamsSize1024x1024
	}
}
